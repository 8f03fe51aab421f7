// Package database provides the data access layer for the catalog.
//
// # Architecture
//
// The store is organized as one collection per entity, each behind its own
// sub-package:
//
//	database/
//	├── database.go      # Connection setup, migrations, stats
//	├── authors/         # Author documents and their books back reference
//	├── categories/      # Category documents and their books back reference
//	├── books/           # Book documents (authoritative forward references)
//	└── views/           # Reference expansion ("populate") across collections
//
// Back-reference arrays (Author.Books, Category.Books) and the Book.Categories
// forward reference are stored as JSON arrays, so every document round-trips
// as a single row. Array mutations (AddBook, RemoveBook) are add-to-set and
// pull operations: adding an id that is already present is a no-op.
//
// # Transactions
//
// Repositories are thin wrappers over a *gorm.DB. Construct them from a
// transaction handle to group several writes atomically:
//
//	err := db.DB.Transaction(func(tx *gorm.DB) error {
//		booksRepo := books.NewRepository(tx)
//		authorsRepo := authors.NewRepository(tx)
//		if err := booksRepo.Create(ctx, book); err != nil {
//			return err
//		}
//		return authorsRepo.AddBook(ctx, book.AuthorID, book.ID)
//	})
//
// Repositories return gorm errors unchanged (gorm.ErrRecordNotFound for a
// missing id); translating them into API errors is the caller's job.
package database
