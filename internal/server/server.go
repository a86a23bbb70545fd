package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"anoa.com/advisoryhub/internal/config"
	"anoa.com/advisoryhub/internal/entity"
	"anoa.com/advisoryhub/internal/metrics"
	"anoa.com/advisoryhub/internal/middleware"
	"anoa.com/advisoryhub/pkg/database"
	"anoa.com/advisoryhub/pkg/ratelimiter"
	"anoa.com/advisoryhub/pkg/validator"

	advisoryHttp "anoa.com/advisoryhub/internal/modules/advisory/delivery/http"
	advisoryRepo "anoa.com/advisoryhub/internal/modules/advisory/repository"
	advisoryService "anoa.com/advisoryhub/internal/modules/advisory/service"

	directoryHttp "anoa.com/advisoryhub/internal/modules/directory/delivery/http"
	directoryRepo "anoa.com/advisoryhub/internal/modules/directory/repository"
	directoryService "anoa.com/advisoryhub/internal/modules/directory/service"

	searchService "anoa.com/advisoryhub/internal/modules/search/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine          *gin.Engine
	db              *gorm.DB
	redisClient     *redis.Client
	port            string
	shutdownTimeout time.Duration
}

// NewServer wires repositories, services and routes. redisClient and meiliClient may be nil,
// which disables the booking cooldown, the directory cache and full-text search.
func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, meiliClient meilisearch.ServiceManager) *Server {
	if err := validator.RegisterGin(); err != nil {
		log.Fatalf("failed to register validators: %v", err)
	}

	var meiliSvc searchService.MeiliSearchService
	if meiliClient != nil {
		meiliSvc = searchService.NewMeiliSearchService(meiliClient)
	} else {
		log.Println("Meilisearch not configured, advisory search falls back to the database")
	}

	directoryRepository := directoryRepo.NewDirectoryRepository(db)
	directorySvc := directoryService.NewDirectoryService(directoryRepository, redisClient, cfg.DirectoryCacheTTL)
	directoryHandler := directoryHttp.NewDirectoryHandler(directorySvc)

	advisoryRepository := advisoryRepo.NewAdvisoryRepository(db)
	limiter := ratelimiter.New(redisClient, cfg.BookingCooldown)
	advisorySvc := advisoryService.NewAdvisoryService(advisoryRepository, directorySvc, meiliSvc, limiter)
	advisoryHandler := advisoryHttp.NewAdvisoryHandler(advisorySvc)

	router := gin.New()

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	router.Use(middleware.SecurityHeaders())
	router.Use(metrics.Middleware())

	s := &Server{
		engine:          router,
		db:              db,
		redisClient:     redisClient,
		port:            cfg.Port,
		shutdownTimeout: cfg.ShutdownTimeout,
	}

	router.GET("/healthz", s.healthz)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer)

	api := router.Group("/api")
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		// Advisory routes
		protected.POST("/advisories", advisoryHandler.CreateAdvisory)
		protected.GET("/advisories", advisoryHandler.GetAdvisories)
		protected.GET("/advisories/stats", advisoryHandler.GetStats)
		protected.GET("/advisories/search", advisoryHandler.SearchAdvisories)
		protected.GET("/advisories/:id", advisoryHandler.GetAdvisory)
		protected.PATCH("/advisories/:id", advisoryHandler.UpdateAdvisory)
		protected.POST("/advisories/:id/cancel", advisoryHandler.CancelAdvisory)
		protected.DELETE("/advisories/:id", advisoryHandler.DeleteAdvisory)

		// Directory routes
		protected.GET("/teachers", directoryHandler.GetTeachers)
		protected.GET("/teachers/:id", directoryHandler.GetTeacher)
		protected.GET("/students", authMiddleware.RequireRole(entity.RoleTeacher, entity.RoleAdmin), directoryHandler.GetStudents)
		protected.GET("/students/:id", directoryHandler.GetStudent)
	}

	return s
}

func (s *Server) healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	dbHealthy := s.db != nil && database.Ping(ctx, s.db) == nil
	redisStatus := "disabled"
	redisHealthy := true
	if s.redisClient != nil {
		redisHealthy = s.redisClient.Ping(ctx).Err() == nil
		redisStatus = "ok"
		if !redisHealthy {
			redisStatus = "unavailable"
		}
	}

	status := http.StatusOK
	if !dbHealthy || !redisHealthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"status": http.StatusText(status), "db": dbHealthy, "redis": redisStatus})
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until SIGINT or SIGTERM, then drains in-flight requests.
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:         ":" + s.port,
		Handler:      s.engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Printf("Received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	log.Println("Server stopped")
	return nil
}

func setupCORS(router *gin.Engine, origins []string) {
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
