package services

import (
	"context"
	"fmt"
	"log"
	"slices"

	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/metrics"
)

// ReconcileReport summarises one reconciliation pass.
type ReconcileReport struct {
	AuthorsFixed         int `json:"authorsFixed"`
	CategoriesFixed      int `json:"categoriesFixed"`
	BooksFixed           int `json:"booksFixed"`
	DanglingAuthorRefs   int `json:"danglingAuthorRefs"`
	DanglingCategoryRefs int `json:"danglingCategoryRefs"`
}

// Changed reports whether the pass rewrote any document.
func (r ReconcileReport) Changed() bool {
	return r.AuthorsFixed+r.CategoriesFixed+r.BooksFixed > 0
}

// Reconciler rebuilds back references from the forward references held by
// books. Book.AuthorID and Book.Categories are authoritative; Author.Books and
// Category.Books are derived.
type Reconciler struct {
	db *gorm.DB
}

func NewReconciler(db *gorm.DB) *Reconciler {
	return &Reconciler{db: db}
}

// Run performs one pass in a single transaction:
//   - category ids with no category document are dropped from books
//   - every author and category books array is rebuilt so it lists exactly the
//     books that reference it, keeping the existing order for ids that stay
//     and appending the rest in book creation order
//
// Books whose author no longer exists are counted but left untouched.
func (rc *Reconciler) Run(ctx context.Context) (*ReconcileReport, error) {
	report := &ReconcileReport{}

	err := rc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := newRepos(tx)

		bookList, err := r.books.List(ctx)
		if err != nil {
			return fmt.Errorf("list books: %w", err)
		}
		authorList, err := r.authors.List(ctx)
		if err != nil {
			return fmt.Errorf("list authors: %w", err)
		}
		categoryList, err := r.categories.List(ctx)
		if err != nil {
			return fmt.Errorf("list categories: %w", err)
		}

		authorIDs := lo.SliceToMap(authorList, func(a entities.Author) (string, struct{}) { return a.ID, struct{}{} })
		categoryIDs := lo.SliceToMap(categoryList, func(c entities.Category) (string, struct{}) { return c.ID, struct{}{} })

		byAuthor := map[string][]string{}
		byCategory := map[string][]string{}

		for i := range bookList {
			b := &bookList[i]
			if _, ok := authorIDs[b.AuthorID]; ok {
				byAuthor[b.AuthorID] = append(byAuthor[b.AuthorID], b.ID)
			} else {
				report.DanglingAuthorRefs++
			}

			kept, missing := lo.FilterReject(b.Categories, func(id string, _ int) bool {
				_, ok := categoryIDs[id]
				return ok
			})
			kept = lo.Uniq(kept)
			if len(kept) != len(b.Categories) {
				report.DanglingCategoryRefs += len(missing)
				if err := r.books.SetCategories(ctx, b.ID, kept); err != nil {
					return fmt.Errorf("fix book %s categories: %w", b.ID, err)
				}
				b.Categories = kept
				report.BooksFixed++
			}
			for _, id := range kept {
				byCategory[id] = append(byCategory[id], b.ID)
			}
		}

		for _, a := range authorList {
			want := mergeOrder(a.Books, byAuthor[a.ID])
			if slices.Equal(a.Books, want) {
				continue
			}
			if err := r.authors.SetBooks(ctx, a.ID, want); err != nil {
				return fmt.Errorf("fix author %s books: %w", a.ID, err)
			}
			report.AuthorsFixed++
		}

		for _, c := range categoryList {
			want := mergeOrder(c.Books, byCategory[c.ID])
			if slices.Equal(c.Books, want) {
				continue
			}
			if err := r.categories.SetBooks(ctx, c.ID, want); err != nil {
				return fmt.Errorf("fix category %s books: %w", c.ID, err)
			}
			report.CategoriesFixed++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.ReconcileFixesTotal.WithLabelValues("authors").Add(float64(report.AuthorsFixed))
	metrics.ReconcileFixesTotal.WithLabelValues("categories").Add(float64(report.CategoriesFixed))
	metrics.ReconcileFixesTotal.WithLabelValues("books").Add(float64(report.BooksFixed))

	if report.Changed() {
		log.Printf("Reconcile fixed %d authors, %d categories, %d books", report.AuthorsFixed, report.CategoriesFixed, report.BooksFixed)
	}
	if report.DanglingAuthorRefs > 0 {
		log.Printf("Reconcile found %d books referencing a missing author", report.DanglingAuthorRefs)
	}
	return report, nil
}

// mergeOrder returns want ordered by current where possible: ids present in
// both keep their current order, ids only in want follow in want's order.
func mergeOrder(current, want []string) []string {
	wanted := lo.SliceToMap(want, func(id string) (string, struct{}) { return id, struct{}{} })
	out := make([]string, 0, len(want))
	seen := make(map[string]struct{}, len(want))
	for _, id := range current {
		if _, ok := wanted[id]; !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	for _, id := range want {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
