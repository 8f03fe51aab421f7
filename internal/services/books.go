package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/metrics"
)

// BookInput carries the fields of a new book. Title and AuthorID are required.
type BookInput struct {
	Title       string
	AuthorID    string
	CategoryIDs []string
	CoverImage  string
}

// BookPatch carries a partial book update. Blank strings are left unchanged.
// Categories are only touched when ReplaceCategories is set; an empty
// CategoryIDs then clears them.
type BookPatch struct {
	Title             string
	AuthorID          string
	CategoryIDs       []string
	ReplaceCategories bool
	CoverImage        string
}

// BookUpdate is the outcome of UpdateBook.
type BookUpdate struct {
	Book *entities.BookView
	// ReplacedCover is the previous cover filename when the update replaced it.
	ReplacedCover string
}

func recordMutation(operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.BookMutationsTotal.WithLabelValues(operation, result).Inc()
}

func (s *CatalogService) ListBooks(ctx context.Context) ([]entities.BookView, error) {
	r := s.read()
	list, err := r.books.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return r.views.Books(ctx, list)
}

func (s *CatalogService) GetBook(ctx context.Context, id string) (*entities.BookView, error) {
	r := s.read()
	book, err := r.books.GetByID(ctx, id)
	if isNotFound(err) {
		return nil, newError(ErrNotFound, "Book not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}
	return r.views.Book(ctx, book)
}

// CreateBook validates the author and category references, creates the book
// and adds its id to the author's and every category's books array.
func (s *CatalogService) CreateBook(ctx context.Context, in BookInput) (view *entities.BookView, err error) {
	defer func() { recordMutation("create", err) }()

	title, authorID := strings.TrimSpace(in.Title), strings.TrimSpace(in.AuthorID)
	if title == "" || authorID == "" {
		return nil, newError(ErrValidation, "Title and author are required")
	}
	categoryIDs := normalizeIDs(in.CategoryIDs)

	err = s.inTx(ctx, func(r repos) error {
		if err := r.requireAuthor(ctx, authorID); err != nil {
			return err
		}
		if err := r.requireCategories(ctx, categoryIDs); err != nil {
			return err
		}

		book := &entities.Book{
			Title:      title,
			AuthorID:   authorID,
			Categories: categoryIDs,
			CoverImage: in.CoverImage,
		}
		if err := r.books.Create(ctx, book); err != nil {
			return fmt.Errorf("create book: %w", err)
		}
		if err := r.attach(ctx, book.ID, authorID, categoryIDs); err != nil {
			return err
		}

		view, err = r.views.Book(ctx, book)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// UpdateBook applies patch and migrates back references: an author change
// moves the id between authors, and a category change only writes to the
// categories in the symmetric difference of the old and new sets.
func (s *CatalogService) UpdateBook(ctx context.Context, id string, patch BookPatch) (result *BookUpdate, err error) {
	defer func() { recordMutation("update", err) }()

	newAuthor := strings.TrimSpace(patch.AuthorID)
	var newCategories []string
	if patch.ReplaceCategories {
		newCategories = normalizeIDs(patch.CategoryIDs)
	}

	result = &BookUpdate{}
	err = s.inTx(ctx, func(r repos) error {
		book, err := r.books.GetByID(ctx, id)
		if isNotFound(err) {
			return newError(ErrNotFound, "Book not found")
		}
		if err != nil {
			return fmt.Errorf("get book: %w", err)
		}

		if newAuthor != "" {
			if err := r.requireAuthor(ctx, newAuthor); err != nil {
				return err
			}
		}
		if patch.ReplaceCategories {
			if err := r.requireCategories(ctx, newCategories); err != nil {
				return err
			}
		}

		oldAuthor, oldCategories := book.AuthorID, book.Categories

		if title := strings.TrimSpace(patch.Title); title != "" {
			book.Title = title
		}
		if newAuthor != "" {
			book.AuthorID = newAuthor
		}
		if patch.ReplaceCategories {
			book.Categories = newCategories
		}
		if patch.CoverImage != "" && patch.CoverImage != book.CoverImage {
			result.ReplacedCover = book.CoverImage
			book.CoverImage = patch.CoverImage
		}
		if err := r.books.Save(ctx, book); err != nil {
			return fmt.Errorf("save book: %w", err)
		}

		if newAuthor != "" && newAuthor != oldAuthor {
			if err := r.detach(ctx, book.ID, oldAuthor, nil); err != nil {
				return err
			}
			if err := r.attach(ctx, book.ID, newAuthor, nil); err != nil {
				return err
			}
		}

		if patch.ReplaceCategories {
			removed, added := lo.Difference(oldCategories, newCategories)
			if err := r.detach(ctx, book.ID, "", removed); err != nil {
				return err
			}
			if err := r.attach(ctx, book.ID, "", added); err != nil {
				return err
			}
		}

		result.Book, err = r.views.Book(ctx, book)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteBook pulls the book id from its author and categories, then deletes
// the book. The deleted document is returned so callers can release its cover.
func (s *CatalogService) DeleteBook(ctx context.Context, id string) (deleted *entities.Book, err error) {
	defer func() { recordMutation("delete", err) }()

	err = s.inTx(ctx, func(r repos) error {
		book, err := r.books.GetByID(ctx, id)
		if isNotFound(err) {
			return newError(ErrNotFound, "Book not found")
		}
		if err != nil {
			return fmt.Errorf("get book: %w", err)
		}

		if err := r.detach(ctx, book.ID, book.AuthorID, book.Categories); err != nil {
			return err
		}
		if _, err := r.books.Delete(ctx, book.ID); err != nil {
			return fmt.Errorf("delete book: %w", err)
		}
		deleted = book
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// ReferencedCovers lists every cover filename still referenced by a book.
func (s *CatalogService) ReferencedCovers(ctx context.Context) ([]string, error) {
	return s.read().books.ListCoverImages(ctx)
}

func (r repos) requireAuthor(ctx context.Context, id string) error {
	if _, err := r.authors.GetByID(ctx, id); err != nil {
		if isNotFound(err) {
			return newError(ErrReferenceNotFound, "Author not found")
		}
		return fmt.Errorf("get author: %w", err)
	}
	return nil
}

func (r repos) requireCategories(ctx context.Context, ids []string) error {
	missing, err := r.categories.FindMissing(ctx, ids)
	if err != nil {
		return fmt.Errorf("check categories: %w", err)
	}
	if len(missing) > 0 {
		return newError(ErrReferenceNotFound, "One or more categories not found")
	}
	return nil
}

// attach adds bookID to the books array of authorID (when non-empty) and of each category.
func (r repos) attach(ctx context.Context, bookID, authorID string, categoryIDs []string) error {
	if authorID != "" {
		if err := r.authors.AddBook(ctx, authorID, bookID); err != nil {
			return fmt.Errorf("add book to author %s: %w", authorID, err)
		}
		metrics.BackReferenceWritesTotal.WithLabelValues("authors", "add").Inc()
	}
	if len(categoryIDs) > 0 {
		if err := r.categories.AddBook(ctx, categoryIDs, bookID); err != nil {
			return fmt.Errorf("add book to categories: %w", err)
		}
		metrics.BackReferenceWritesTotal.WithLabelValues("categories", "add").Add(float64(len(categoryIDs)))
	}
	return nil
}

// detach pulls bookID from the books array of authorID (when non-empty) and of each category.
func (r repos) detach(ctx context.Context, bookID, authorID string, categoryIDs []string) error {
	if authorID != "" {
		if err := r.authors.RemoveBook(ctx, authorID, bookID); err != nil {
			return fmt.Errorf("remove book from author %s: %w", authorID, err)
		}
		metrics.BackReferenceWritesTotal.WithLabelValues("authors", "pull").Inc()
	}
	if len(categoryIDs) > 0 {
		if err := r.categories.RemoveBook(ctx, categoryIDs, bookID); err != nil {
			return fmt.Errorf("remove book from categories: %w", err)
		}
		metrics.BackReferenceWritesTotal.WithLabelValues("categories", "pull").Add(float64(len(categoryIDs)))
	}
	return nil
}
