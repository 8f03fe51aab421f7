// Package authors provides database operations for the author collection.
//
// # Usage
//
//	repo := authors.NewRepository(db)
//	author, err := repo.GetByID(ctx, id)
//	err = repo.AddBook(ctx, author.ID, bookID)
package authors

import (
	"context"
	"errors"

	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// Repository handles all author database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new authors repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns every author in creation order.
func (r *Repository) List(ctx context.Context) ([]entities.Author, error) {
	var authors []entities.Author
	err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&authors).Error
	return authors, err
}

// GetByID retrieves an author; gorm.ErrRecordNotFound when absent.
func (r *Repository) GetByID(ctx context.Context, id string) (*entities.Author, error) {
	var author entities.Author
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&author).Error
	if err != nil {
		return nil, err
	}
	return &author, nil
}

// ListByIDs retrieves the authors with the given ids. Unknown ids are skipped.
func (r *Repository) ListByIDs(ctx context.Context, ids []string) ([]entities.Author, error) {
	var authors []entities.Author
	if len(ids) == 0 {
		return authors, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", lo.Uniq(ids)).Find(&authors).Error
	return authors, err
}

// Create inserts a new author with an empty books array.
func (r *Repository) Create(ctx context.Context, author *entities.Author) error {
	return r.db.WithContext(ctx).Create(author).Error
}

// Update applies the given column values and reports whether the author exists.
func (r *Repository) Update(ctx context.Context, id string, fields map[string]any) (bool, error) {
	if len(fields) == 0 {
		var count int64
		err := r.db.WithContext(ctx).Model(&entities.Author{}).Where("id = ?", id).Count(&count).Error
		return count > 0, err
	}
	result := r.db.WithContext(ctx).Model(&entities.Author{}).Where("id = ?", id).Updates(fields)
	return result.RowsAffected > 0, result.Error
}

// Delete removes an author and reports whether anything was deleted.
func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Author{})
	return result.RowsAffected > 0, result.Error
}

// AddBook appends bookID to the author's books unless it is already present.
func (r *Repository) AddBook(ctx context.Context, authorID, bookID string) error {
	author, err := r.GetByID(ctx, authorID)
	if err != nil {
		return err
	}
	if lo.Contains(author.Books, bookID) {
		return nil
	}
	return r.SetBooks(ctx, authorID, append(author.Books, bookID))
}

// RemoveBook pulls every occurrence of bookID from the author's books.
// A missing author is not an error: there is nothing to pull from.
func (r *Repository) RemoveBook(ctx context.Context, authorID, bookID string) error {
	author, err := r.GetByID(ctx, authorID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if !lo.Contains(author.Books, bookID) {
		return nil
	}
	return r.SetBooks(ctx, authorID, lo.Without(author.Books, bookID))
}

// SetBooks replaces the books back reference wholesale.
func (r *Repository) SetBooks(ctx context.Context, authorID string, books []string) error {
	if books == nil {
		books = []string{}
	}
	author := entities.Author{ID: authorID, Books: books}
	return r.db.WithContext(ctx).Model(&author).Select("books").Updates(&author).Error
}
