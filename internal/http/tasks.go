package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/tasks"
)

// AdminController exposes catalog maintenance.
type AdminController struct {
	client     *tasks.Client
	reconciler Reconciler
}

// NewAdminController creates the controller. With a task client, reconciliation
// is queued; without one it runs inside the request.
func NewAdminController(client *tasks.Client, reconciler Reconciler) *AdminController {
	return &AdminController{client: client, reconciler: reconciler}
}

// Reconcile handles POST /api/admin/reconcile
func (ac *AdminController) Reconcile(c *gin.Context) {
	if ac.client != nil {
		id, err := ac.client.Enqueue(c.Request.Context(), tasks.ReconcileReferencesTask{Reason: "api"})
		if err != nil {
			respondInternalError(c, err, "Error enqueuing reconcile task")
			return
		}
		c.JSON(http.StatusAccepted, Response{
			Success: true,
			Message: "Reconcile task enqueued",
			Data:    gin.H{"taskId": id},
		})
		return
	}

	report, err := ac.reconciler.Run(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "Error reconciling references")
		return
	}
	respondData(c, report)
}

// CleanupCovers handles POST /api/admin/covers/cleanup
func (ac *AdminController) CleanupCovers(c *gin.Context) {
	id, err := ac.client.Enqueue(c.Request.Context(), tasks.CleanupOrphanCoversTask{})
	if err != nil {
		respondInternalError(c, err, "Error enqueuing cover cleanup task")
		return
	}
	c.JSON(http.StatusAccepted, Response{
		Success: true,
		Message: "Cover cleanup task enqueued",
		Data:    gin.H{"taskId": id},
	})
}

// TaskStatus handles GET /api/tasks/:id
func (ac *AdminController) TaskStatus(c *gin.Context) {
	taskID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status, err := ac.client.Status(ctx, taskID)
	if err != nil {
		respondInternalError(c, err, "Error fetching task status")
		return
	}

	name := tasks.StatusName(status)
	if name == "not_found" {
		respondError(c, http.StatusNotFound, "Task not found")
		return
	}
	respondData(c, gin.H{"id": taskID, "status": name})
}
