package http

import (
	"github.com/mrlokans/bookshelf/internal/auth"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/tasks"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Database   *database.Database
	Authors    AuthorStore
	Categories CategoryStore
	Books      BookStore
	Reconciler Reconciler

	// Cover uploads, served from UploadsDir under /uploads
	Covers        CoverStore
	UploadsDir    string
	MaxUploadSize int64

	// Task queue client (optional)
	TaskClient *tasks.Client

	// Periodic reconcile schedule, reported by /health (optional)
	Scheduler ScheduleStatus

	// Write protection
	APIKey   *auth.APIKeyMiddleware
	ReadOnly bool

	// Expose internal error text in 500 responses
	Development bool

	// Application info
	Version string
}
