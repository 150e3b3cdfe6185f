package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dropradar/dropstack/interfaces"
)

// RunIngest triggers an ingestion pass on demand. The run is synchronous so
// the caller gets the summary back; the cron job covers scheduled runs.
func RunIngest(ingest interfaces.IngestService) gin.HandlerFunc {
	return func(c *gin.Context) {
		runId := uuid.New().String()
		summary, err := ingest.Run(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"runId": runId, "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"runId": runId, "summary": summary})
	}
}

// RunSweep triggers a lifecycle reconciliation sweep on demand
func RunSweep(sweep interfaces.SweepService) gin.HandlerFunc {
	return func(c *gin.Context) {
		runId := uuid.New().String()
		summary, err := sweep.Run(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"runId": runId, "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"runId": runId, "summary": summary})
	}
}
