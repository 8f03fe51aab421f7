package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/bookshelf/internal/covers"
	"github.com/mrlokans/bookshelf/internal/demo"
	"github.com/mrlokans/bookshelf/internal/http"
	"github.com/mrlokans/bookshelf/internal/scheduler"
	"github.com/mrlokans/bookshelf/internal/services"
	"github.com/mrlokans/bookshelf/internal/tasks"
)

// =============================================================================
// Catalog
// =============================================================================

var _ http.AuthorStore = (*services.CatalogService)(nil)
var _ http.CategoryStore = (*services.CatalogService)(nil)
var _ http.BookStore = (*services.CatalogService)(nil)
var _ demo.Catalog = (*services.CatalogService)(nil)

// =============================================================================
// Maintenance
// =============================================================================

var _ http.Reconciler = (*services.Reconciler)(nil)
var _ tasks.ReferenceReconciler = (*services.Reconciler)(nil)
var _ tasks.CoverLister = (*services.CatalogService)(nil)
var _ http.ScheduleStatus = (*scheduler.ReconcileScheduler)(nil)

// =============================================================================
// Cover Storage
// =============================================================================

var _ http.CoverStore = (*covers.Store)(nil)
var _ tasks.CoverRemover = (*covers.Store)(nil)
