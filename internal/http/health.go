package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/database"
)

type HealthResponse struct {
	Status    string            `json:"status"`
	Time      string            `json:"time"`
	Version   string            `json:"version,omitempty"`
	Checks    map[string]string `json:"checks"`
	Stats     *database.Stats   `json:"stats,omitempty"`
	Reconcile *ReconcileStatus  `json:"reconcile,omitempty"`
}

// ReconcileStatus describes the periodic reconcile schedule.
type ReconcileStatus struct {
	Running bool       `json:"running"`
	NextRun *time.Time `json:"nextRun,omitempty"`
}

type HealthController struct {
	db        *database.Database
	scheduler ScheduleStatus
	version   string
}

func NewHealthController(db *database.Database, scheduler ScheduleStatus, version string) *HealthController {
	return &HealthController{
		db:        db,
		scheduler: scheduler,
		version:   version,
	}
}

func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"
	var stats *database.Stats

	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := h.db.Ping(ctx); err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else if s, err := h.db.GetStats(ctx); err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["database"] = "ok"
			stats = &s
		}
	} else {
		checks["database"] = "not configured"
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
		Stats:   stats,
	}
	if h.scheduler != nil {
		health.Reconcile = &ReconcileStatus{
			Running: h.scheduler.IsRunning(),
			NextRun: h.scheduler.NextRunTime(),
		}
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}
