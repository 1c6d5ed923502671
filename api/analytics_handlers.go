package api

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/makerfolio/makerfolio-go/utils"
)

// HandleItemAnalytics handles GET /api/v1/analytics/items/:id
func (app *App) HandleItemAnalytics(c *gin.Context) {
	entityID := c.Param("id")
	if entityID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "item ID is required"})
		return
	}

	result := app.Analytics.ComputeItemAnalytics(c.Request.Context(), entityID)
	c.JSON(http.StatusOK, result)
}

// HandleProfileAnalytics handles GET /api/v1/analytics/profiles/:id
func (app *App) HandleProfileAnalytics(c *gin.Context) {
	ownerID := c.Param("id")
	if ownerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "profile ID is required"})
		return
	}

	result := app.Analytics.ComputeProfileAnalytics(c.Request.Context(), ownerID)
	c.JSON(http.StatusOK, result)
}

// HandleOwnerRollup handles GET /api/v1/analytics/owners/:id
func (app *App) HandleOwnerRollup(c *gin.Context) {
	ownerID := c.Param("id")
	if ownerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "owner ID is required"})
		return
	}

	rollup, err := app.Analytics.ComputeOwnerRollup(c.Request.Context(), ownerID)
	if err != nil {
		log.Printf("ERROR: ComputeOwnerRollup failed for %s: %v", ownerID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute rollup"})
		return
	}

	c.JSON(http.StatusOK, rollup)
}

// HandleOwnerRange handles GET /api/v1/analytics/owners/:id/range
func (app *App) HandleOwnerRange(c *gin.Context) {
	ownerID := c.Param("id")
	if ownerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "owner ID is required"})
		return
	}

	start, end, ok := parseDateRange(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date range"})
		return
	}

	result, err := app.RangeStrategy.QueryRange(c.Request.Context(), ownerID, start, end)
	if err != nil {
		log.Printf("ERROR: range query failed for %s: %v", ownerID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute range"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// parseDateRange parses start/end day keys or a duration preset from query
// parameters
func parseDateRange(c *gin.Context) (start, end time.Time, ok bool) {
	// Check for custom range first (priority)
	startStr := c.Query("start")
	endStr := c.Query("end")

	if startStr != "" && endStr != "" {
		var err error
		start, err = utils.ParseDayKeyToDate(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, false
		}
		end, err = utils.ParseDayKeyToDate(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, false
		}
		if end.Before(start) {
			return time.Time{}, time.Time{}, false
		}
		return start, end, true
	}

	// Check for duration parameter
	duration := c.DefaultQuery("duration", "weekly")

	now := time.Now().UTC()
	end = now
	switch duration {
	case "daily":
		start = now
	case "weekly":
		start = now.AddDate(0, 0, -6)
	case "monthly":
		start = now.AddDate(0, 0, -27)
	default:
		start = now.AddDate(0, 0, -6) // Default to weekly
	}
	return start, end, true
}
