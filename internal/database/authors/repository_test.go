package authors

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookshelf/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := filepath.Join(t.TempDir(), "test_authors.db")

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(entities.All()...)
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	}

	return repo, cleanup
}

func createAuthor(t *testing.T, repo *Repository, name string) *entities.Author {
	t.Helper()
	author := &entities.Author{Name: name, Country: "UK"}
	require.NoError(t, repo.Create(context.Background(), author))
	return author
}

func TestRepository_CreateAndGet(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	author := createAuthor(t, repo, "Terry Pratchett")
	assert.NotEmpty(t, author.ID)

	found, err := repo.GetByID(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, "Terry Pratchett", found.Name)
	assert.Equal(t, "UK", found.Country)
	assert.Empty(t, found.Books)
	assert.NotNil(t, found.Books)
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepository_ListInCreationOrder(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	first := createAuthor(t, repo, "First")
	second := createAuthor(t, repo, "Second")

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)
}

func TestRepository_Update(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	author := createAuthor(t, repo, "Old Name")

	found, err := repo.Update(ctx, author.ID, map[string]any{"name": "New Name"})
	require.NoError(t, err)
	assert.True(t, found)

	updated, err := repo.GetByID(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, "UK", updated.Country)

	t.Run("empty fields only checks existence", func(t *testing.T) {
		found, err := repo.Update(ctx, author.ID, map[string]any{})
		require.NoError(t, err)
		assert.True(t, found)

		found, err = repo.Update(ctx, "missing", map[string]any{})
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("missing author", func(t *testing.T) {
		found, err := repo.Update(ctx, "missing", map[string]any{"name": "x"})
		require.NoError(t, err)
		assert.False(t, found)
	})
}

func TestRepository_Delete(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	author := createAuthor(t, repo, "Doomed")

	deleted, err := repo.Delete(ctx, author.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, author.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestRepository_AddBookIsIdempotent(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	author := createAuthor(t, repo, "Author")

	require.NoError(t, repo.AddBook(ctx, author.ID, "b1"))
	require.NoError(t, repo.AddBook(ctx, author.ID, "b2"))
	require.NoError(t, repo.AddBook(ctx, author.ID, "b1"))

	found, err := repo.GetByID(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"b1", "b2"}, found.Books)
}

func TestRepository_AddBook_MissingAuthor(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.AddBook(context.Background(), "missing", "b1")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepository_RemoveBook(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	author := createAuthor(t, repo, "Author")
	require.NoError(t, repo.SetBooks(ctx, author.ID, []string{"b1", "b2", "b1"}))

	require.NoError(t, repo.RemoveBook(ctx, author.ID, "b1"))

	found, err := repo.GetByID(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"b2"}, found.Books)

	t.Run("absent id is a no-op", func(t *testing.T) {
		require.NoError(t, repo.RemoveBook(ctx, author.ID, "b9"))
	})

	t.Run("missing author is a no-op", func(t *testing.T) {
		require.NoError(t, repo.RemoveBook(ctx, "missing", "b2"))
	})
}
