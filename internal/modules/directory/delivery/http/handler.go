package handler

import (
	"net/http"

	"anoa.com/advisoryhub/internal/middleware"
	"anoa.com/advisoryhub/internal/modules/directory/dto"
	directory "anoa.com/advisoryhub/internal/modules/directory/service"
	"anoa.com/advisoryhub/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DirectoryHandler struct {
	service directory.DirectoryService
}

func NewDirectoryHandler(service directory.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{service: service}
}

func (h *DirectoryHandler) GetTeachers(c *gin.Context) {
	var filter dto.TeacherFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BindError(c, err)
		return
	}

	teachers, err := h.service.ListTeachers(c.Request.Context(), filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": teachers})
}

func (h *DirectoryHandler) GetTeacher(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid teacher id"})
		return
	}

	teacher, err := h.service.ViewTeacher(c.Request.Context(), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, teacher)
}

func (h *DirectoryHandler) GetStudents(c *gin.Context) {
	var filter dto.StudentFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BindError(c, err)
		return
	}

	actor, err := middleware.CurrentActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	students, err := h.service.ListStudents(c.Request.Context(), actor, filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": students})
}

func (h *DirectoryHandler) GetStudent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid student id"})
		return
	}

	actor, err := middleware.CurrentActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	student, err := h.service.ViewStudent(c.Request.Context(), actor, id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, student)
}
