// Package books provides database operations for the book collection.
//
// Books carry the authoritative forward references (AuthorID, Categories).
// Keeping author and category back references in sync is not this package's
// job: see services.CatalogService.
//
// # Usage
//
//	repo := books.NewRepository(db)
//	book, err := repo.GetByID(ctx, id)
package books

import (
	"context"

	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns every book in creation order.
func (r *Repository) List(ctx context.Context) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&books).Error
	return books, err
}

// GetByID retrieves a book; gorm.ErrRecordNotFound when absent.
func (r *Repository) GetByID(ctx context.Context, id string) (*entities.Book, error) {
	var book entities.Book
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&book).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// ListByIDs retrieves the books with the given ids. Unknown ids are skipped.
func (r *Repository) ListByIDs(ctx context.Context, ids []string) ([]entities.Book, error) {
	var books []entities.Book
	if len(ids) == 0 {
		return books, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", lo.Uniq(ids)).Find(&books).Error
	return books, err
}

// CountByAuthor counts the books referencing authorID.
func (r *Repository) CountByAuthor(ctx context.Context, authorID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Book{}).Where("author_id = ?", authorID).Count(&count).Error
	return count, err
}

// ListByCategory returns the books whose categories array contains categoryID.
func (r *Repository) ListByCategory(ctx context.Context, categoryID string) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.WithContext(ctx).
		Where("EXISTS (SELECT 1 FROM json_each(books.categories) WHERE json_each.value = ?)", categoryID).
		Order("created_at ASC, id ASC").
		Find(&books).Error
	return books, err
}

// Create inserts a new book.
func (r *Repository) Create(ctx context.Context, book *entities.Book) error {
	return r.db.WithContext(ctx).Create(book).Error
}

// Save writes every column of an existing book.
func (r *Repository) Save(ctx context.Context, book *entities.Book) error {
	if book.Categories == nil {
		book.Categories = []string{}
	}
	return r.db.WithContext(ctx).Save(book).Error
}

// SetCategories replaces the categories forward reference.
func (r *Repository) SetCategories(ctx context.Context, bookID string, categoryIDs []string) error {
	if categoryIDs == nil {
		categoryIDs = []string{}
	}
	book := entities.Book{ID: bookID, Categories: categoryIDs}
	return r.db.WithContext(ctx).Model(&book).Select("categories").Updates(&book).Error
}

// Delete removes a book and reports whether anything was deleted.
func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Book{})
	return result.RowsAffected > 0, result.Error
}

// ListCoverImages returns every cover filename referenced by a book.
func (r *Repository) ListCoverImages(ctx context.Context) ([]string, error) {
	var covers []string
	err := r.db.WithContext(ctx).Model(&entities.Book{}).
		Where("cover_image <> '' AND cover_image IS NOT NULL").
		Pluck("cover_image", &covers).Error
	return covers, err
}
