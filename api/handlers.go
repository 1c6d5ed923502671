// Package api provides HTTP handlers for event ingestion and analytics
// queries.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/makerfolio/makerfolio-go/analytics"
	"github.com/makerfolio/makerfolio-go/cache"
	"github.com/makerfolio/makerfolio-go/events"
	"github.com/makerfolio/makerfolio-go/store"
)

// App bundles the wired subsystems for the HTTP layer
type App struct {
	DB            *store.Database
	CacheManager  *cache.Manager
	Recorder      *events.Recorder
	Analytics     *analytics.Service
	RangeStrategy analytics.RangeQueryStrategy
}

// HandleHealth handles GET /api/v1/health
func (app *App) HandleHealth(c *gin.Context) {
	status := "ok"
	if err := app.DB.Conn.Ping(); err != nil {
		status = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   status,
		"database": app.DB.GetConnectionInfo(),
		"cache":    app.CacheManager.Stats(),
	})
}
