// Package categories provides database operations for the category collection.
package categories

import (
	"context"

	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// Repository handles all category database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new categories repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns every category in creation order.
func (r *Repository) List(ctx context.Context) ([]entities.Category, error) {
	var categories []entities.Category
	err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&categories).Error
	return categories, err
}

// GetByID retrieves a category; gorm.ErrRecordNotFound when absent.
func (r *Repository) GetByID(ctx context.Context, id string) (*entities.Category, error) {
	var category entities.Category
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// ListByIDs retrieves the categories with the given ids. Unknown ids are skipped.
func (r *Repository) ListByIDs(ctx context.Context, ids []string) ([]entities.Category, error) {
	var categories []entities.Category
	if len(ids) == 0 {
		return categories, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", lo.Uniq(ids)).Find(&categories).Error
	return categories, err
}

// FindMissing returns the ids that have no category document, preserving input order.
func (r *Repository) FindMissing(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []string
	err := r.db.WithContext(ctx).Model(&entities.Category{}).Where("id IN ?", lo.Uniq(ids)).Pluck("id", &found).Error
	if err != nil {
		return nil, err
	}
	return lo.Without(ids, found...), nil
}

// Create inserts a new category with an empty books array.
func (r *Repository) Create(ctx context.Context, category *entities.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

// Update applies the given column values and reports whether the category exists.
func (r *Repository) Update(ctx context.Context, id string, fields map[string]any) (bool, error) {
	if len(fields) == 0 {
		var count int64
		err := r.db.WithContext(ctx).Model(&entities.Category{}).Where("id = ?", id).Count(&count).Error
		return count > 0, err
	}
	result := r.db.WithContext(ctx).Model(&entities.Category{}).Where("id = ?", id).Updates(fields)
	return result.RowsAffected > 0, result.Error
}

// Delete removes a category and reports whether anything was deleted.
func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Category{})
	return result.RowsAffected > 0, result.Error
}

// AddBook appends bookID to each category's books unless already present.
func (r *Repository) AddBook(ctx context.Context, categoryIDs []string, bookID string) error {
	return r.eachCategory(ctx, categoryIDs, func(c *entities.Category) error {
		if lo.Contains(c.Books, bookID) {
			return nil
		}
		return r.SetBooks(ctx, c.ID, append(c.Books, bookID))
	})
}

// RemoveBook pulls bookID from each category's books. Missing categories are skipped.
func (r *Repository) RemoveBook(ctx context.Context, categoryIDs []string, bookID string) error {
	return r.eachCategory(ctx, categoryIDs, func(c *entities.Category) error {
		if !lo.Contains(c.Books, bookID) {
			return nil
		}
		return r.SetBooks(ctx, c.ID, lo.Without(c.Books, bookID))
	})
}

// SetBooks replaces the books back reference wholesale.
func (r *Repository) SetBooks(ctx context.Context, categoryID string, books []string) error {
	if books == nil {
		books = []string{}
	}
	category := entities.Category{ID: categoryID, Books: books}
	return r.db.WithContext(ctx).Model(&category).Select("books").Updates(&category).Error
}

func (r *Repository) eachCategory(ctx context.Context, ids []string, fn func(*entities.Category) error) error {
	categories, err := r.ListByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for i := range categories {
		if err := fn(&categories[i]); err != nil {
			return err
		}
	}
	return nil
}
