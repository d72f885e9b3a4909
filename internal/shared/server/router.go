// Package server assembles the HTTP surface: middleware, dependencies
// and route registration.
package server

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"design-insight-backend/internal/analyses"
	"design-insight-backend/internal/config"
	"design-insight-backend/internal/llm"
	"design-insight-backend/internal/llm/gemini"
	"design-insight-backend/internal/session"
	"design-insight-backend/internal/shared/metrics"
	"design-insight-backend/internal/shared/server/middleware"
	"design-insight-backend/internal/shared/server/respond"
	"design-insight-backend/internal/shared/storage/db"
	"design-insight-backend/internal/shared/storage/record"
	localstore "design-insight-backend/internal/shared/storage/record/local"
	redisstore "design-insight-backend/internal/shared/storage/record/redis"
	s3store "design-insight-backend/internal/shared/storage/record/s3"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)

	r.GET("/healthz", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/metrics", metrics.Handler())

	// Dependencies
	store := newRecordStore(cfg)

	var sqlDB *sql.DB
	if cfg.DatabaseURL != "" {
		conn, err := db.ConnectAndMigrate(context.Background(), cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			log.Printf("failed to init database, falling back to memory: %v", err)
		} else {
			sqlDB = conn
		}
	}

	var repo analyses.Repo
	if sqlDB != nil {
		repo = &analyses.PGRepo{DB: sqlDB}
	} else {
		repo = analyses.NewMemoryRepo()
	}

	var client llm.Client = gemini.NewClient(cfg.GeminiModel)
	svc := analyses.NewService(repo, store, client, session.NewManager(), cfg.GeminiModel)
	handler := analyses.NewHandler(svc)

	api := r.Group("/api/v1")
	api.Use(middleware.Identity())
	api.Use(middleware.RateLimit(middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			"ANALYZE": {
				Rate:  float64(cfg.AnalyzeRatePerMin) / 60.0,
				Burst: cfg.AnalyzeBurst,
			},
		},
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method == http.MethodPost && c.FullPath() == "/api/v1/analyses" {
				return "ANALYZE"
			}
			return ""
		},
	}))
	handler.RegisterRoutes(api)

	return r
}

func newRecordStore(cfg config.Config) record.Store {
	switch cfg.RecordStoreType {
	case "s3":
		store, err := s3store.New(context.Background(), cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
		if err != nil {
			log.Printf("failed to init s3 record store, falling back to local: %v", err)
			return localstore.New(cfg.LocalStoreDir)
		}
		return store
	case "redis":
		return redisstore.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisNamespace)
	default:
		return localstore.New(cfg.LocalStoreDir)
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
