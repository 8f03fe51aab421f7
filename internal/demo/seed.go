// Package demo seeds a catalog with public domain books for local development
// and demos.
package demo

import (
	"context"
	"fmt"
	"log"

	"github.com/samber/lo"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/services"
)

// Catalog is the subset of catalog operations seeding needs.
type Catalog interface {
	ListAuthors(ctx context.Context) ([]entities.AuthorView, error)
	ListCategories(ctx context.Context) ([]entities.CategoryView, error)
	ListBooks(ctx context.Context) ([]entities.BookView, error)
	CreateAuthor(ctx context.Context, in services.AuthorInput) (*entities.AuthorView, error)
	CreateCategory(ctx context.Context, in services.CategoryInput) (*entities.CategoryView, error)
	CreateBook(ctx context.Context, in services.BookInput) (*entities.BookView, error)
}

// SeedBook describes one demo book by author and category names.
type SeedBook struct {
	Title      string
	Author     string
	Country    string
	Categories []string
}

// SeedResult counts the documents created by Seed.
type SeedResult struct {
	Authors    int
	Categories int
	Books      int
}

// Books returns the demo data set.
func Books() []SeedBook {
	return []SeedBook{
		{Title: "Meditations", Author: "Marcus Aurelius", Country: "Roman Empire", Categories: []string{"philosophy", "classic"}},
		{Title: "Letters from a Stoic", Author: "Seneca", Country: "Roman Empire", Categories: []string{"philosophy"}},
		{Title: "On the Origin of Species", Author: "Charles Darwin", Country: "United Kingdom", Categories: []string{"science", "classic"}},
		{Title: "Pride and Prejudice", Author: "Jane Austen", Country: "United Kingdom", Categories: []string{"fiction", "classic"}},
		{Title: "War and Peace", Author: "Leo Tolstoy", Country: "Russia", Categories: []string{"fiction", "classic"}},
		{Title: "Crime and Punishment", Author: "Fyodor Dostoevsky", Country: "Russia", Categories: []string{"fiction", "classic"}},
		{Title: "The Republic", Author: "Plato", Country: "Greece", Categories: []string{"philosophy", "classic"}},
		{Title: "The Art of War", Author: "Sun Tzu", Country: "China", Categories: []string{"philosophy"}},
		{Title: "Frankenstein", Author: "Mary Shelley", Country: "United Kingdom", Categories: []string{"fiction"}},
		{Title: "The Picture of Dorian Gray", Author: "Oscar Wilde", Country: "Ireland", Categories: []string{"fiction"}},
	}
}

// Seed creates the given books through the catalog so back references are
// maintained as for API writes. Authors and categories are matched by name
// and reused; books whose title already exists are skipped.
func Seed(ctx context.Context, catalog Catalog, books []SeedBook) (SeedResult, error) {
	var result SeedResult

	existingAuthors, err := catalog.ListAuthors(ctx)
	if err != nil {
		return result, fmt.Errorf("list authors: %w", err)
	}
	existingCategories, err := catalog.ListCategories(ctx)
	if err != nil {
		return result, fmt.Errorf("list categories: %w", err)
	}
	existingBooks, err := catalog.ListBooks(ctx)
	if err != nil {
		return result, fmt.Errorf("list books: %w", err)
	}

	authorIDs := lo.SliceToMap(existingAuthors, func(a entities.AuthorView) (string, string) { return a.Name, a.ID })
	categoryIDs := lo.SliceToMap(existingCategories, func(c entities.CategoryView) (string, string) { return c.Name, c.ID })
	titles := lo.SliceToMap(existingBooks, func(b entities.BookView) (string, struct{}) { return b.Title, struct{}{} })

	for _, name := range lo.Uniq(lo.FlatMap(books, func(b SeedBook, _ int) []string { return b.Categories })) {
		if _, ok := categoryIDs[name]; ok {
			continue
		}
		category, err := catalog.CreateCategory(ctx, services.CategoryInput{Name: name})
		if err != nil {
			return result, fmt.Errorf("create category %s: %w", name, err)
		}
		categoryIDs[name] = category.ID
		result.Categories++
	}

	for _, b := range books {
		if _, ok := titles[b.Title]; ok {
			continue
		}

		authorID, ok := authorIDs[b.Author]
		if !ok {
			author, err := catalog.CreateAuthor(ctx, services.AuthorInput{Name: b.Author, Country: b.Country})
			if err != nil {
				return result, fmt.Errorf("create author %s: %w", b.Author, err)
			}
			authorID = author.ID
			authorIDs[b.Author] = authorID
			result.Authors++
		}

		_, err := catalog.CreateBook(ctx, services.BookInput{
			Title:       b.Title,
			AuthorID:    authorID,
			CategoryIDs: lo.Map(b.Categories, func(name string, _ int) string { return categoryIDs[name] }),
		})
		if err != nil {
			return result, fmt.Errorf("create book %s: %w", b.Title, err)
		}
		titles[b.Title] = struct{}{}
		result.Books++
		log.Printf("Seeded: %s by %s", b.Title, b.Author)
	}

	return result, nil
}
