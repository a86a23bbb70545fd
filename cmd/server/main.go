package main

import (
	"context"
	"log"
	"time"

	"anoa.com/advisoryhub/internal/bootstrap"
	"anoa.com/advisoryhub/internal/config"
	"anoa.com/advisoryhub/internal/server"
	"anoa.com/advisoryhub/pkg/database"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(database.Config{
		DSN:             cfg.DSN(),
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLife,
		LogQueries:      cfg.DBLogQueries,
	})
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	if err := bootstrap.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	if cfg.SeedDirectory {
		if err := bootstrap.SeedDirectory(db); err != nil {
			log.Fatalf("failed to seed directory: %v", err)
		}
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		redisClient, err = database.ConnectRedis(ctx, cfg.RedisURL)
		cancel()
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer redisClient.Close()
	} else {
		log.Println("REDIS_URL not set, booking cooldown and directory cache disabled")
	}

	var meiliClient meilisearch.ServiceManager
	if host := cfg.MeiliHost(); host != "" {
		meiliClient = meilisearch.New(host, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
	}

	srv := server.NewServer(cfg, db, redisClient, meiliClient)
	if err := srv.Run(); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}
