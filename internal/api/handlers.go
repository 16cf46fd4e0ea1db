package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/auralabs/aurascan/internal/comparison"
	"github.com/auralabs/aurascan/internal/discovery"
	"github.com/auralabs/aurascan/internal/leaderboard"
	"github.com/auralabs/aurascan/internal/logger"
)

// Handler serves all dashboard endpoints.
type Handler struct {
	comparison   *comparison.Service
	leaderboard  *leaderboard.Service
	discovery    *discovery.Service
	archiveDates []string
}

// NewHandler creates a Handler over the three services. archiveDates are the
// default dates probed by the csv discovery action.
func NewHandler(cmp *comparison.Service, lb *leaderboard.Service, disc *discovery.Service, archiveDates []string) *Handler {
	return &Handler{
		comparison:   cmp,
		leaderboard:  lb,
		discovery:    disc,
		archiveDates: archiveDates,
	}
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Comparison returns the scored project snapshot. Never fails: a broken
// pipeline degrades to a zero-revenue snapshot.
func (h *Handler) Comparison(c *gin.Context) {
	snapshot := h.comparison.Snapshot(c.Request.Context())
	c.JSON(http.StatusOK, snapshot)
}

// BuilderRevenue returns the builder dashboard for the requested time range.
func (h *Handler) BuilderRevenue(c *gin.Context) {
	timeRange := leaderboard.NormalizeTimeRange(c.Query("timeRange"))

	data, err := h.leaderboard.Dashboard(c.Request.Context(), timeRange)
	if err != nil {
		logger.Error(err, zap.String("endpoint", "builders/revenue"))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch revenue data"})
		return
	}
	c.JSON(http.StatusOK, data)
}

// BuilderByCode returns a single builder's dashboard row.
func (h *Handler) BuilderByCode(c *gin.Context) {
	code := c.Param("code")

	builder, err := h.leaderboard.BuilderByCode(c.Request.Context(), code)
	if err != nil {
		logger.Error(err, zap.String("endpoint", "builders/:code"), zap.String("code", code))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch builder data"})
		return
	}
	if builder == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Builder not found"})
		return
	}
	c.JSON(http.StatusOK, builder)
}

// Discover dispatches the discovery actions: scan, analyze, csv or report.
func (h *Handler) Discover(c *gin.Context) {
	action := c.DefaultQuery("action", "scan")
	ctx := c.Request.Context()

	switch action {
	case "scan":
		results, summary, err := h.discovery.Scan(ctx)
		if err != nil {
			h.discoveryError(c, action, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"action":  action,
			"results": results,
			"summary": summary,
		})

	case "analyze":
		analysis, err := h.discovery.AnalyzeKnown(ctx)
		if err != nil {
			h.discoveryError(c, action, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"action": action, "results": analysis})

	case "csv":
		results, err := h.discovery.CheckArchives(ctx, h.discovery.Known(), h.archiveDates)
		if err != nil {
			h.discoveryError(c, action, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"action": action, "results": results})

	case "report":
		report, err := h.discovery.GenerateReport(ctx)
		if err != nil {
			h.discoveryError(c, action, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"action": action, "results": report})

	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid action. Use: scan, analyze, csv, or report",
		})
	}
}

func (h *Handler) discoveryError(c *gin.Context, action string, err error) {
	logger.Error(err, zap.String("endpoint", "builders/discover"), zap.String("action", action))
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   "Failed to discover builders",
		"details": err.Error(),
	})
}
