package http

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/services"
)

// Each controller depends on the narrow interface below rather than on
// services.CatalogService directly, so handlers can be tested with fakes.

// AuthorStore provides author operations.
type AuthorStore interface {
	ListAuthors(ctx context.Context) ([]entities.AuthorView, error)
	GetAuthor(ctx context.Context, id string) (*entities.AuthorView, error)
	CreateAuthor(ctx context.Context, in services.AuthorInput) (*entities.AuthorView, error)
	UpdateAuthor(ctx context.Context, id string, patch services.AuthorPatch) (*entities.AuthorView, error)
	DeleteAuthor(ctx context.Context, id string) error
}

// CategoryStore provides category operations.
type CategoryStore interface {
	ListCategories(ctx context.Context) ([]entities.CategoryView, error)
	GetCategory(ctx context.Context, id string) (*entities.CategoryView, error)
	CreateCategory(ctx context.Context, in services.CategoryInput) (*entities.CategoryView, error)
	UpdateCategory(ctx context.Context, id string, patch services.CategoryPatch) (*entities.CategoryView, error)
	DeleteCategory(ctx context.Context, id string) (int, error)
}

// BookStore provides book operations with back-reference maintenance.
type BookStore interface {
	ListBooks(ctx context.Context) ([]entities.BookView, error)
	GetBook(ctx context.Context, id string) (*entities.BookView, error)
	CreateBook(ctx context.Context, in services.BookInput) (*entities.BookView, error)
	UpdateBook(ctx context.Context, id string, patch services.BookPatch) (*services.BookUpdate, error)
	DeleteBook(ctx context.Context, id string) (*entities.Book, error)
}

// CoverStore persists uploaded cover images.
type CoverStore interface {
	Save(fh *multipart.FileHeader) (string, error)
	Remove(name string) error
}

// Reconciler runs a reference reconciliation pass in the request.
type Reconciler interface {
	Run(ctx context.Context) (*services.ReconcileReport, error)
}

// ScheduleStatus reports the state of the periodic reconcile schedule.
type ScheduleStatus interface {
	IsRunning() bool
	NextRunTime() *time.Time
}
