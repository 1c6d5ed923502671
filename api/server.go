package api

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/makerfolio/makerfolio-go/analytics"
	"github.com/makerfolio/makerfolio-go/cache"
	"github.com/makerfolio/makerfolio-go/config"
	"github.com/makerfolio/makerfolio-go/events"
	"github.com/makerfolio/makerfolio-go/store"
)

// NewApp wires the store, caches, aggregation pipeline and query services
func NewApp() (*App, error) {
	db, err := store.NewDatabase()
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := store.CreateSchema(db.Conn); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	cacheManager := cache.NewManager()
	if cacheManager == nil {
		return nil, fmt.Errorf("failed to create cache manager")
	}
	cache.GlobalInstance = cacheManager
	cache.StartCleanupRoutine(cacheManager)
	log.Println("Global cache manager initialized")

	aggregator := analytics.NewAggregator(store.NewSummaryRepository(db.Conn), cacheManager)
	service := analytics.NewService(db, cacheManager)
	recorder := events.NewRecorder(db, aggregator)

	// Strategy is probed once here; requests never re-detect
	strategy := analytics.SelectRangeStrategy(context.Background(), service)

	return &App{
		DB:            db,
		CacheManager:  cacheManager,
		Recorder:      recorder,
		Analytics:     service,
		RangeStrategy: strategy,
	}, nil
}

// Router builds the gin engine with CORS, middleware and all routes
func (app *App) Router() *gin.Engine {
	r := gin.Default()
	r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
			"http://[::1]:3000",
		},
		AllowMethods: []string{
			"GET", "POST", "OPTIONS",
		},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept", "Authorization",
			"X-Requested-With",
		},
		AllowCredentials: true,
	}))

	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", app.HandleHealth)

		ingest := v1.Group("/events")
		ingest.Use(IngestRateLimiter())
		{
			ingest.POST("/view", app.HandleRecordView)
			ingest.POST("/interaction", app.HandleRecordInteraction)
		}

		queries := v1.Group("/analytics")
		{
			queries.GET("/items/:id", app.HandleItemAnalytics)
			queries.GET("/profiles/:id", app.HandleProfileAnalytics)
			queries.GET("/owners/:id", app.HandleOwnerRollup)
			queries.GET("/owners/:id/range", app.HandleOwnerRange)
		}
	}

	return r
}

// Run loads config, wires the app and serves until the listener fails
func Run() error {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found -- config defaults will be used")
	}

	app, err := NewApp()
	if err != nil {
		return err
	}
	defer app.DB.Close()

	r := app.Router()

	log.Printf("Starting server on :%s", config.Port)
	return r.Run(":" + config.Port)
}
