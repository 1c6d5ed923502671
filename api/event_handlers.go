package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/makerfolio/makerfolio-go/models"
)

// HandleRecordView handles POST /api/v1/events/view
func (app *App) HandleRecordView(c *gin.Context) {
	var req models.ViewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
		return
	}

	eventID, err := app.Recorder.RecordView(c.Request.Context(), req.EntityID, req.EntityType, req.Actor, req.DeviceInfo)
	if err != nil {
		log.Printf("ERROR: RecordView failed for %s/%s: %v", req.EntityType, req.EntityID, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"eventId": eventID})
}

// HandleRecordInteraction handles POST /api/v1/events/interaction
func (app *App) HandleRecordInteraction(c *gin.Context) {
	var req models.InteractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
		return
	}

	eventID, err := app.Recorder.RecordInteraction(c.Request.Context(), req.EntityID, req.EntityType, req.Kind, req.Actor, req.Content, req.DeviceInfo)
	if err != nil {
		log.Printf("ERROR: RecordInteraction failed for %s/%s: %v", req.EntityType, req.EntityID, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"eventId": eventID})
}
