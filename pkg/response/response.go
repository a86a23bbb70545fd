package response

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"anoa.com/advisoryhub/pkg/apperror"
	"anoa.com/advisoryhub/pkg/ratelimiter"
	"anoa.com/advisoryhub/pkg/validator"
	"github.com/gin-gonic/gin"
	playground "github.com/go-playground/validator/v10"
)

// ResponseError standardized error response
func ResponseError(c *gin.Context, err error) {
	var validationErrs playground.ValidationErrors
	if errors.As(err, &validationErrs) {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	code := apperror.MapErrorToStatus(err)
	body := gin.H{"error": err.Error()}

	var rateLimitErr *ratelimiter.RateLimitError
	if errors.As(err, &rateLimitErr) {
		c.Header("Retry-After", fmt.Sprintf("%.0f", rateLimitErr.RetryAfter.Seconds()))
	}

	var transitionErr *apperror.TransitionError
	if errors.As(err, &transitionErr) {
		body["current_status"] = transitionErr.From
		body["attempted_status"] = transitionErr.To
	}

	switch code {
	case http.StatusInternalServerError:
		log.Printf("[Internal Error]: %v", err)
		body["error"] = apperror.ErrInternal.Error()
	case http.StatusServiceUnavailable:
		log.Printf("[Storage Error]: %v", err)
		body["error"] = apperror.ErrStorageUnavailable.Error()
	}

	c.JSON(code, body)
}

// BindError reports a request that could not be decoded or failed its binding tags.
func BindError(c *gin.Context, err error) {
	var validationErrs playground.ValidationErrors
	if errors.As(err, &validationErrs) {
		ResponseError(c, err)
		return
	}
	ResponseError(c, fmt.Errorf("%w: invalid request body: %v", apperror.ErrBadRequest, err))
}
