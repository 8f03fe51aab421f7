package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/entities"
)

func TestReconciler_ConsistentCatalogIsUntouched(t *testing.T) {
	s, db := setupCatalog(t)
	ctx := context.Background()
	a := mustAuthor(t, s, "A")
	c := mustCategory(t, s, "C")
	_, err := s.CreateBook(ctx, BookInput{Title: "B", AuthorID: a.ID, CategoryIDs: []string{c.ID}})
	require.NoError(t, err)

	report, err := NewReconciler(db).Run(ctx)
	require.NoError(t, err)
	assert.False(t, report.Changed())
	assert.Equal(t, ReconcileReport{}, *report)
}

func TestReconciler_RebuildsBackReferences(t *testing.T) {
	s, db := setupCatalog(t)
	ctx := context.Background()
	a1 := mustAuthor(t, s, "A1")
	a2 := mustAuthor(t, s, "A2")
	c := mustCategory(t, s, "C")

	b1, err := s.CreateBook(ctx, BookInput{Title: "B1", AuthorID: a1.ID, CategoryIDs: []string{c.ID}})
	require.NoError(t, err)
	b2, err := s.CreateBook(ctx, BookInput{Title: "B2", AuthorID: a1.ID})
	require.NoError(t, err)

	// Drift: a1 lost b1, a2 claims b2, c claims a book that does not exist.
	require.NoError(t, db.Model(&entities.Author{ID: a1.ID}).Select("books").Updates(&entities.Author{ID: a1.ID, Books: []string{b2.ID}}).Error)
	require.NoError(t, db.Model(&entities.Author{ID: a2.ID}).Select("books").Updates(&entities.Author{ID: a2.ID, Books: []string{b2.ID}}).Error)
	require.NoError(t, db.Model(&entities.Category{ID: c.ID}).Select("books").Updates(&entities.Category{ID: c.ID, Books: []string{"ghost", b1.ID}}).Error)

	report, err := NewReconciler(db).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, report.AuthorsFixed)
	assert.Equal(t, 1, report.CategoriesFixed)
	assert.Zero(t, report.BooksFixed)

	// b2 keeps its existing position, b1 is appended.
	assert.Equal(t, []string{b2.ID, b1.ID}, loadAuthor(t, db, a1.ID).Books)
	assert.Empty(t, loadAuthor(t, db, a2.ID).Books)
	assert.Equal(t, []string{b1.ID}, loadCategory(t, db, c.ID).Books)

	again, err := NewReconciler(db).Run(ctx)
	require.NoError(t, err)
	assert.False(t, again.Changed())
}

func TestReconciler_DropsDanglingCategoryRefs(t *testing.T) {
	s, db := setupCatalog(t)
	ctx := context.Background()
	a := mustAuthor(t, s, "A")
	c := mustCategory(t, s, "C")

	book := &entities.Book{Title: "Imported", AuthorID: a.ID, Categories: []string{"ghost", c.ID}}
	require.NoError(t, db.Create(book).Error)
	orphan := &entities.Book{Title: "Orphan", AuthorID: "missing-author"}
	require.NoError(t, db.Create(orphan).Error)

	report, err := NewReconciler(db).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.BooksFixed)
	assert.Equal(t, 1, report.DanglingCategoryRefs)
	assert.Equal(t, 1, report.DanglingAuthorRefs)
	assert.Equal(t, 1, report.AuthorsFixed)
	assert.Equal(t, 1, report.CategoriesFixed)

	assert.Equal(t, []string{c.ID}, loadBook(t, db, book.ID).Categories)
	assert.Equal(t, []string{book.ID}, loadAuthor(t, db, a.ID).Books)
	assert.Equal(t, []string{book.ID}, loadCategory(t, db, c.ID).Books)
	assert.Equal(t, "missing-author", loadBook(t, db, orphan.ID).AuthorID)
}

func TestMergeOrder(t *testing.T) {
	assert.Equal(t, []string{"b", "a", "c"}, mergeOrder([]string{"x", "b", "a", "b"}, []string{"a", "b", "c"}))
	assert.Equal(t, []string{}, mergeOrder(nil, nil))
}
