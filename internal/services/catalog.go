package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/database/authors"
	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/database/categories"
	"github.com/mrlokans/bookshelf/internal/database/views"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// CatalogService implements the catalog operations and keeps the author and
// category back references consistent with each book's forward references.
// Every mutation runs in a single transaction: a failure at any step rolls
// back the book write and all back-reference writes made before it.
type CatalogService struct {
	db *gorm.DB
}

// NewCatalogService creates a catalog service over db.
func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// repos groups the repositories bound to one connection or transaction.
type repos struct {
	authors    *authors.Repository
	categories *categories.Repository
	books      *books.Repository
	views      *views.Expander
}

func newRepos(db *gorm.DB) repos {
	return repos{
		authors:    authors.NewRepository(db),
		categories: categories.NewRepository(db),
		books:      books.NewRepository(db),
		views:      views.NewExpander(db),
	}
}

func (s *CatalogService) read() repos {
	return newRepos(s.db)
}

func (s *CatalogService) inTx(ctx context.Context, fn func(r repos) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newRepos(tx))
	})
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// normalizeIDs trims ids, drops blanks and duplicates, keeping first-seen order.
func normalizeIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return lo.Uniq(out)
}

// --- Authors ---

// AuthorInput carries the fields of a new author. Both are required.
type AuthorInput struct {
	Name    string
	Country string
}

// AuthorPatch carries a partial author update. Blank fields are left unchanged.
type AuthorPatch struct {
	Name    string
	Country string
}

func (s *CatalogService) ListAuthors(ctx context.Context) ([]entities.AuthorView, error) {
	r := s.read()
	list, err := r.authors.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	return r.views.Authors(ctx, list)
}

func (s *CatalogService) GetAuthor(ctx context.Context, id string) (*entities.AuthorView, error) {
	r := s.read()
	author, err := r.authors.GetByID(ctx, id)
	if isNotFound(err) {
		return nil, newError(ErrNotFound, "Author not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get author: %w", err)
	}
	return r.views.Author(ctx, author)
}

func (s *CatalogService) CreateAuthor(ctx context.Context, in AuthorInput) (*entities.AuthorView, error) {
	name, country := strings.TrimSpace(in.Name), strings.TrimSpace(in.Country)
	if name == "" || country == "" {
		return nil, newError(ErrValidation, "Name and country are required")
	}

	r := s.read()
	author := &entities.Author{Name: name, Country: country}
	if err := r.authors.Create(ctx, author); err != nil {
		return nil, fmt.Errorf("create author: %w", err)
	}
	return r.views.Author(ctx, author)
}

func (s *CatalogService) UpdateAuthor(ctx context.Context, id string, patch AuthorPatch) (*entities.AuthorView, error) {
	fields := map[string]any{}
	if name := strings.TrimSpace(patch.Name); name != "" {
		fields["name"] = name
	}
	if country := strings.TrimSpace(patch.Country); country != "" {
		fields["country"] = country
	}

	r := s.read()
	found, err := r.authors.Update(ctx, id, fields)
	if err != nil {
		return nil, fmt.Errorf("update author: %w", err)
	}
	if !found {
		return nil, newError(ErrNotFound, "Author not found")
	}
	return s.GetAuthor(ctx, id)
}

// DeleteAuthor removes an author that no book references. Authors are a
// required reference on Book, so deleting a referenced author is a conflict.
func (s *CatalogService) DeleteAuthor(ctx context.Context, id string) error {
	return s.inTx(ctx, func(r repos) error {
		if _, err := r.authors.GetByID(ctx, id); err != nil {
			if isNotFound(err) {
				return newError(ErrNotFound, "Author not found")
			}
			return fmt.Errorf("get author: %w", err)
		}

		count, err := r.books.CountByAuthor(ctx, id)
		if err != nil {
			return fmt.Errorf("count author books: %w", err)
		}
		if count > 0 {
			return newError(ErrConflict, "Author has %d book(s); delete or reassign them first", count)
		}

		if _, err := r.authors.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete author: %w", err)
		}
		return nil
	})
}

// --- Categories ---

// CategoryInput carries the fields of a new category.
type CategoryInput struct {
	Name string
}

// CategoryPatch carries a partial category update. A blank name is left unchanged.
type CategoryPatch struct {
	Name string
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]entities.CategoryView, error) {
	r := s.read()
	list, err := r.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return r.views.Categories(ctx, list)
}

func (s *CatalogService) GetCategory(ctx context.Context, id string) (*entities.CategoryView, error) {
	r := s.read()
	category, err := r.categories.GetByID(ctx, id)
	if isNotFound(err) {
		return nil, newError(ErrNotFound, "Category not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return r.views.Category(ctx, category)
}

func (s *CatalogService) CreateCategory(ctx context.Context, in CategoryInput) (*entities.CategoryView, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, newError(ErrValidation, "Name is required")
	}

	r := s.read()
	category := &entities.Category{Name: name}
	if err := r.categories.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return r.views.Category(ctx, category)
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id string, patch CategoryPatch) (*entities.CategoryView, error) {
	fields := map[string]any{}
	if name := strings.TrimSpace(patch.Name); name != "" {
		fields["name"] = name
	}

	found, err := s.read().categories.Update(ctx, id, fields)
	if err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	if !found {
		return nil, newError(ErrNotFound, "Category not found")
	}
	return s.GetCategory(ctx, id)
}

// DeleteCategory removes a category and detaches it from every book that
// references it. Categories are optional on Book, so detaching keeps every
// book valid. Returns the number of books detached.
func (s *CatalogService) DeleteCategory(ctx context.Context, id string) (int, error) {
	detached := 0
	err := s.inTx(ctx, func(r repos) error {
		if _, err := r.categories.GetByID(ctx, id); err != nil {
			if isNotFound(err) {
				return newError(ErrNotFound, "Category not found")
			}
			return fmt.Errorf("get category: %w", err)
		}

		referencing, err := r.books.ListByCategory(ctx, id)
		if err != nil {
			return fmt.Errorf("list category books: %w", err)
		}
		for _, b := range referencing {
			if err := r.books.SetCategories(ctx, b.ID, lo.Without(b.Categories, id)); err != nil {
				return fmt.Errorf("detach category from book %s: %w", b.ID, err)
			}
		}
		detached = len(referencing)

		if _, err := r.categories.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete category: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return detached, nil
}
