package http

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/entities"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\nfake")

func createBook(t *testing.T, env *testEnv, title, authorID string, categoryIDs ...string) entities.BookView {
	t.Helper()
	body := map[string]any{"title": title, "author": authorID}
	if categoryIDs != nil {
		body["categories"] = categoryIDs
	}
	w := env.do("POST", "/api/books", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var book entities.BookView
	decode(t, w, &book)
	return book
}

func getAuthor(t *testing.T, env *testEnv, id string) entities.AuthorView {
	t.Helper()
	w := env.do("GET", "/api/authors/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var author entities.AuthorView
	decode(t, w, &author)
	return author
}

func getCategory(t *testing.T, env *testEnv, id string) entities.CategoryView {
	t.Helper()
	w := env.do("GET", "/api/categories/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var category entities.CategoryView
	decode(t, w, &category)
	return category
}

func bookIDs(refs []entities.BookRef) []string {
	return lo.Map(refs, func(r entities.BookRef, _ int) string { return r.ID })
}

func TestBooksController_Create(t *testing.T) {
	t.Run("expands references and writes back references", func(t *testing.T) {
		env := setupTestEnv(t)
		author := createAuthor(t, env, "Le Guin", "USA")
		fantasy := createCategory(t, env, "Fantasy")

		book := createBook(t, env, "The Dispossessed", author.ID, fantasy.ID)

		require.NotNil(t, book.Author)
		assert.Equal(t, author.ID, book.Author.ID)
		assert.Equal(t, "Le Guin", book.Author.Name)
		require.Len(t, book.Categories, 1)
		assert.Equal(t, "Fantasy", book.Categories[0].Name)

		assert.Equal(t, []string{book.ID}, bookIDs(getAuthor(t, env, author.ID).Books))
		assert.Equal(t, []string{book.ID}, bookIDs(getCategory(t, env, fantasy.ID).Books))
	})

	t.Run("requires title and author", func(t *testing.T) {
		env := setupTestEnv(t)

		w := env.do("POST", "/api/books", map[string]string{"title": "Orphan"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Title and author are required", decode(t, w, nil).Message)
	})

	t.Run("rejects unknown author", func(t *testing.T) {
		env := setupTestEnv(t)

		w := env.do("POST", "/api/books", map[string]string{"title": "Orphan", "author": "missing"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Author not found", decode(t, w, nil).Message)
	})

	t.Run("rejects unknown category and writes nothing", func(t *testing.T) {
		env := setupTestEnv(t)
		author := createAuthor(t, env, "Le Guin", "USA")

		w := env.do("POST", "/api/books", map[string]any{"title": "Orphan", "author": author.ID, "categories": []string{"missing"}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "One or more categories not found", decode(t, w, nil).Message)

		assert.Empty(t, getAuthor(t, env, author.ID).Books)
		w = env.do("GET", "/api/books", nil)
		assert.Equal(t, 0, *decode(t, w, nil).Count)
	})

	t.Run("multipart with cover image", func(t *testing.T) {
		env := setupTestEnv(t)
		author := createAuthor(t, env, "Le Guin", "USA")
		a := createCategory(t, env, "A")
		b := createCategory(t, env, "B")

		w := env.doMultipart(t, "POST", "/api/books", map[string][]string{
			"title":      {"Lathe of Heaven"},
			"author":     {author.ID},
			"categories": {a.ID + "," + b.ID},
		}, &upload{filename: "cover.png", content: pngBytes})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var book entities.BookView
		decode(t, w, &book)
		assert.NotEmpty(t, book.CoverImage)
		assert.Len(t, book.Categories, 2)

		data, err := os.ReadFile(filepath.Join(env.uploadDir, book.CoverImage))
		require.NoError(t, err)
		assert.Equal(t, pngBytes, data)

		w = env.do("GET", "/uploads/"+book.CoverImage, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rejects unsupported cover type", func(t *testing.T) {
		env := setupTestEnv(t)
		author := createAuthor(t, env, "Le Guin", "USA")

		w := env.doMultipart(t, "POST", "/api/books", map[string][]string{
			"title":  {"Lathe of Heaven"},
			"author": {author.ID},
		}, &upload{filename: "cover.exe", content: []byte("MZ")})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, uploadedFiles(t, env.uploadDir))
	})

	t.Run("removes saved cover when the book is rejected", func(t *testing.T) {
		env := setupTestEnv(t)

		w := env.doMultipart(t, "POST", "/api/books", map[string][]string{
			"title":  {"Lathe of Heaven"},
			"author": {"missing"},
		}, &upload{filename: "cover.png", content: pngBytes})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, uploadedFiles(t, env.uploadDir))
	})
}

func TestBooksController_GetAndList(t *testing.T) {
	env := setupTestEnv(t)
	author := createAuthor(t, env, "Calvino", "Italy")
	book := createBook(t, env, "Invisible Cities", author.ID)

	w := env.do("GET", "/api/books/"+book.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do("GET", "/api/books/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Book not found", decode(t, w, nil).Message)

	w = env.do("GET", "/api/books", nil)
	var books []entities.BookView
	resp := decode(t, w, &books)
	assert.Equal(t, 1, *resp.Count)
	require.Len(t, books, 1)
	assert.Equal(t, "Calvino", books[0].Author.Name)
}

func TestBooksController_Update(t *testing.T) {
	t.Run("moves book between authors", func(t *testing.T) {
		env := setupTestEnv(t)
		first := createAuthor(t, env, "First", "X")
		second := createAuthor(t, env, "Second", "Y")
		book := createBook(t, env, "Moving", first.ID)

		w := env.do("PUT", "/api/books/"+book.ID, map[string]string{"author": second.ID})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var updated entities.BookView
		decode(t, w, &updated)
		assert.Equal(t, "Moving", updated.Title)
		assert.Equal(t, second.ID, updated.Author.ID)

		assert.Empty(t, getAuthor(t, env, first.ID).Books)
		assert.Equal(t, []string{book.ID}, bookIDs(getAuthor(t, env, second.ID).Books))
	})

	t.Run("replaces categories", func(t *testing.T) {
		env := setupTestEnv(t)
		author := createAuthor(t, env, "A", "X")
		a := createCategory(t, env, "A")
		b := createCategory(t, env, "B")
		c := createCategory(t, env, "C")
		book := createBook(t, env, "Shifting", author.ID, a.ID, b.ID)

		w := env.do("PUT", "/api/books/"+book.ID, map[string]any{"categories": []string{b.ID, c.ID}})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		assert.Empty(t, getCategory(t, env, a.ID).Books)
		assert.Equal(t, []string{book.ID}, bookIDs(getCategory(t, env, b.ID).Books))
		assert.Equal(t, []string{book.ID}, bookIDs(getCategory(t, env, c.ID).Books))
	})

	t.Run("empty categories clears and absent keeps", func(t *testing.T) {
		env := setupTestEnv(t)
		author := createAuthor(t, env, "A", "X")
		a := createCategory(t, env, "A")
		book := createBook(t, env, "Keeping", author.ID, a.ID)

		w := env.do("PUT", "/api/books/"+book.ID, map[string]string{"title": "Kept"})
		require.Equal(t, http.StatusOK, w.Code)
		var kept entities.BookView
		decode(t, w, &kept)
		assert.Equal(t, "Kept", kept.Title)
		assert.Len(t, kept.Categories, 1)

		w = env.do("PUT", "/api/books/"+book.ID, map[string]any{"categories": []string{}})
		require.Equal(t, http.StatusOK, w.Code)
		var cleared entities.BookView
		decode(t, w, &cleared)
		assert.Empty(t, cleared.Categories)
		assert.Empty(t, getCategory(t, env, a.ID).Books)
	})

	t.Run("rejects unknown references without changes", func(t *testing.T) {
		env := setupTestEnv(t)
		author := createAuthor(t, env, "A", "X")
		book := createBook(t, env, "Stable", author.ID)

		w := env.do("PUT", "/api/books/"+book.ID, map[string]string{"author": "missing"})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = env.do("PUT", "/api/books/"+book.ID, map[string]any{"categories": []string{"missing"}})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		assert.Equal(t, []string{book.ID}, bookIDs(getAuthor(t, env, author.ID).Books))
	})

	t.Run("not found", func(t *testing.T) {
		env := setupTestEnv(t)

		w := env.do("PUT", "/api/books/missing", map[string]string{"title": "x"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("replacing the cover removes the old file", func(t *testing.T) {
		env := setupTestEnv(t)
		author := createAuthor(t, env, "A", "X")

		w := env.doMultipart(t, "POST", "/api/books", map[string][]string{
			"title": {"Covered"}, "author": {author.ID},
		}, &upload{filename: "one.png", content: pngBytes})
		require.Equal(t, http.StatusCreated, w.Code)
		var book entities.BookView
		decode(t, w, &book)

		w = env.doMultipart(t, "PUT", "/api/books/"+book.ID, nil, &upload{filename: "two.jpg", content: []byte("jpeg")})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var updated entities.BookView
		decode(t, w, &updated)

		assert.NotEqual(t, book.CoverImage, updated.CoverImage)
		assert.Equal(t, []string{updated.CoverImage}, uploadedFiles(t, env.uploadDir))
	})
}

func TestBooksController_Delete(t *testing.T) {
	env := setupTestEnv(t)
	author := createAuthor(t, env, "A", "X")
	a := createCategory(t, env, "A")

	w := env.doMultipart(t, "POST", "/api/books", map[string][]string{
		"title": {"Doomed"}, "author": {author.ID}, "categories[]": {a.ID},
	}, &upload{filename: "cover.gif", content: []byte("GIF89a")})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var book entities.BookView
	decode(t, w, &book)

	w = env.do("DELETE", "/api/books/"+book.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Book deleted successfully", decode(t, w, nil).Message)

	assert.Empty(t, getAuthor(t, env, author.ID).Books)
	assert.Empty(t, getCategory(t, env, a.ID).Books)
	assert.Empty(t, uploadedFiles(t, env.uploadDir))

	w = env.do("DELETE", "/api/books/"+book.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSplitIDs(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, splitIDs([]string{"a, b", " ", "c"}))
	assert.Nil(t, splitIDs([]string{""}))
}
