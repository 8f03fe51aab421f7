// Package views expands reference ids into projections of the referenced
// documents. It is the explicit join step behind every API response: books
// get their author ({id,name,country}) and categories ({id,name}); authors and
// categories get their books ({id,title}).
//
// Each expansion issues one batched IN query per referenced collection, so
// listing N books costs three queries regardless of N.
package views

import (
	"context"

	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/database/authors"
	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/database/categories"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// Expander joins documents across the three collections.
type Expander struct {
	authors    *authors.Repository
	categories *categories.Repository
	books      *books.Repository
}

// NewExpander creates an expander bound to db (which may be a transaction).
func NewExpander(db *gorm.DB) *Expander {
	return &Expander{
		authors:    authors.NewRepository(db),
		categories: categories.NewRepository(db),
		books:      books.NewRepository(db),
	}
}

// Books expands author and category references of each book.
// References to documents that no longer exist are dropped (author becomes nil).
func (e *Expander) Books(ctx context.Context, list []entities.Book) ([]entities.BookView, error) {
	authorIDs := lo.Map(list, func(b entities.Book, _ int) string { return b.AuthorID })
	categoryIDs := lo.FlatMap(list, func(b entities.Book, _ int) []string { return b.Categories })

	authorList, err := e.authors.ListByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	categoryList, err := e.categories.ListByIDs(ctx, categoryIDs)
	if err != nil {
		return nil, err
	}

	authorsByID := lo.KeyBy(authorList, func(a entities.Author) string { return a.ID })
	categoriesByID := lo.KeyBy(categoryList, func(c entities.Category) string { return c.ID })

	views := make([]entities.BookView, 0, len(list))
	for _, b := range list {
		view := entities.BookView{
			ID:         b.ID,
			Title:      b.Title,
			Categories: make([]entities.CategoryRef, 0, len(b.Categories)),
			CoverImage: b.CoverImage,
			CreatedAt:  b.CreatedAt,
			UpdatedAt:  b.UpdatedAt,
		}
		if a, ok := authorsByID[b.AuthorID]; ok {
			view.Author = &entities.AuthorRef{ID: a.ID, Name: a.Name, Country: a.Country}
		}
		for _, id := range b.Categories {
			if c, ok := categoriesByID[id]; ok {
				view.Categories = append(view.Categories, entities.CategoryRef{ID: c.ID, Name: c.Name})
			}
		}
		views = append(views, view)
	}
	return views, nil
}

// Book expands a single book.
func (e *Expander) Book(ctx context.Context, book *entities.Book) (*entities.BookView, error) {
	views, err := e.Books(ctx, []entities.Book{*book})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Authors expands the books back reference of each author into {id,title}.
func (e *Expander) Authors(ctx context.Context, list []entities.Author) ([]entities.AuthorView, error) {
	titles, err := e.bookRefs(ctx, lo.FlatMap(list, func(a entities.Author, _ int) []string { return a.Books }))
	if err != nil {
		return nil, err
	}

	views := make([]entities.AuthorView, 0, len(list))
	for _, a := range list {
		views = append(views, entities.AuthorView{
			ID:        a.ID,
			Name:      a.Name,
			Country:   a.Country,
			Books:     resolveRefs(a.Books, titles),
			CreatedAt: a.CreatedAt,
			UpdatedAt: a.UpdatedAt,
		})
	}
	return views, nil
}

// Author expands a single author.
func (e *Expander) Author(ctx context.Context, author *entities.Author) (*entities.AuthorView, error) {
	views, err := e.Authors(ctx, []entities.Author{*author})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Categories expands the books back reference of each category into {id,title}.
func (e *Expander) Categories(ctx context.Context, list []entities.Category) ([]entities.CategoryView, error) {
	titles, err := e.bookRefs(ctx, lo.FlatMap(list, func(c entities.Category, _ int) []string { return c.Books }))
	if err != nil {
		return nil, err
	}

	views := make([]entities.CategoryView, 0, len(list))
	for _, c := range list {
		views = append(views, entities.CategoryView{
			ID:        c.ID,
			Name:      c.Name,
			Books:     resolveRefs(c.Books, titles),
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		})
	}
	return views, nil
}

// Category expands a single category.
func (e *Expander) Category(ctx context.Context, category *entities.Category) (*entities.CategoryView, error) {
	views, err := e.Categories(ctx, []entities.Category{*category})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (e *Expander) bookRefs(ctx context.Context, ids []string) (map[string]entities.BookRef, error) {
	list, err := e.books.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return lo.SliceToMap(list, func(b entities.Book) (string, entities.BookRef) {
		return b.ID, entities.BookRef{ID: b.ID, Title: b.Title}
	}), nil
}

// resolveRefs keeps the back reference order and skips ids without a book.
func resolveRefs(ids []string, refs map[string]entities.BookRef) []entities.BookRef {
	out := make([]entities.BookRef, 0, len(ids))
	for _, id := range ids {
		if ref, ok := refs[id]; ok {
			out = append(out, ref)
		}
	}
	return out
}
