package http

import (
	"errors"
	"log"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/mrlokans/bookshelf/internal/covers"
	"github.com/mrlokans/bookshelf/internal/services"
)

// BooksController handles /api/books. Book writes accept multipart forms
// (with an optional coverImage file) as well as JSON bodies.
type BooksController struct {
	store         BookStore
	covers        CoverStore
	maxUploadSize int64
}

func NewBooksController(store BookStore, coverStore CoverStore, maxUploadSize int64) *BooksController {
	return &BooksController{
		store:         store,
		covers:        coverStore,
		maxUploadSize: maxUploadSize,
	}
}

// bookRequest is the decoded body of a book write.
type bookRequest struct {
	Title      string
	Author     string
	Categories []string
	// HasCategories is set when the request carried a categories field at all,
	// so an empty list clears the book's categories while an absent one keeps them.
	HasCategories bool
	Cover         *multipart.FileHeader
}

type bookJSON struct {
	Title      string    `json:"title"`
	Author     string    `json:"author"`
	Categories *[]string `json:"categories"`
}

// List handles GET /api/books
func (bc *BooksController) List(c *gin.Context) {
	books, err := bc.store.ListBooks(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "Error fetching books")
		return
	}
	respondList(c, books)
}

// Get handles GET /api/books/:id
func (bc *BooksController) Get(c *gin.Context) {
	book, err := bc.store.GetBook(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Error fetching book")
		return
	}
	respondData(c, book)
}

// Create handles POST /api/books
func (bc *BooksController) Create(c *gin.Context) {
	req, ok := bc.bindBook(c)
	if !ok {
		return
	}
	cover, ok := bc.saveCover(c, req.Cover)
	if !ok {
		return
	}

	book, err := bc.store.CreateBook(c.Request.Context(), services.BookInput{
		Title:       req.Title,
		AuthorID:    req.Author,
		CategoryIDs: req.Categories,
		CoverImage:  cover,
	})
	if err != nil {
		bc.discardCover(cover)
		respondServiceError(c, err, "Error creating book")
		return
	}
	respondCreated(c, book)
}

// Update handles PUT /api/books/:id
func (bc *BooksController) Update(c *gin.Context) {
	req, ok := bc.bindBook(c)
	if !ok {
		return
	}
	cover, ok := bc.saveCover(c, req.Cover)
	if !ok {
		return
	}

	result, err := bc.store.UpdateBook(c.Request.Context(), c.Param("id"), services.BookPatch{
		Title:             req.Title,
		AuthorID:          req.Author,
		CategoryIDs:       req.Categories,
		ReplaceCategories: req.HasCategories,
		CoverImage:        cover,
	})
	if err != nil {
		bc.discardCover(cover)
		respondServiceError(c, err, "Error updating book")
		return
	}

	bc.discardCover(result.ReplacedCover)
	respondData(c, result.Book)
}

// Delete handles DELETE /api/books/:id
func (bc *BooksController) Delete(c *gin.Context) {
	deleted, err := bc.store.DeleteBook(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Error deleting book")
		return
	}

	bc.discardCover(deleted.CoverImage)
	respondMessage(c, "Book deleted successfully")
}

// bindBook decodes a JSON or form body. It responds with 400 and returns
// false when the body cannot be read.
func (bc *BooksController) bindBook(c *gin.Context) (bookRequest, bool) {
	var req bookRequest

	if c.ContentType() == binding.MIMEJSON {
		var body bookJSON
		if err := c.ShouldBindJSON(&body); err != nil {
			respondBadRequest(c, "Invalid request body")
			return req, false
		}
		req.Title, req.Author = body.Title, body.Author
		if body.Categories != nil {
			req.Categories, req.HasCategories = *body.Categories, true
		}
		return req, true
	}

	if c.ContentType() == binding.MIMEMultipartPOSTForm {
		if bc.maxUploadSize > 0 {
			// Leave room for the text fields around the file.
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, bc.maxUploadSize+1<<20)
		}
		if err := c.Request.ParseMultipartForm(1 << 20); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				respondBadRequest(c, "Cover image is too large")
			} else {
				respondBadRequest(c, "Invalid multipart body")
			}
			return req, false
		}
	} else if err := c.Request.ParseForm(); err != nil {
		respondBadRequest(c, "Invalid request body")
		return req, false
	}

	req.Title = c.PostForm("title")
	req.Author = c.PostForm("author")

	form := c.Request.PostForm
	for _, key := range []string{"categories", "categories[]"} {
		values, present := form[key]
		if !present {
			continue
		}
		req.HasCategories = true
		req.Categories = append(req.Categories, splitIDs(values)...)
	}

	if fh, err := c.FormFile(covers.FieldName); err == nil {
		req.Cover = fh
	}
	return req, true
}

// saveCover stores an uploaded cover. An absent upload yields "".
func (bc *BooksController) saveCover(c *gin.Context, fh *multipart.FileHeader) (string, bool) {
	if fh == nil || bc.covers == nil {
		return "", true
	}
	name, err := bc.covers.Save(fh)
	if err != nil {
		respondUploadError(c, err)
		return "", false
	}
	return name, true
}

// discardCover removes a cover file that no book references anymore.
func (bc *BooksController) discardCover(name string) {
	if name == "" || bc.covers == nil {
		return
	}
	if err := bc.covers.Remove(name); err != nil {
		log.Printf("Failed to remove cover %s: %v", name, err)
	}
}

// splitIDs accepts both repeated fields and comma-separated values.
func splitIDs(values []string) []string {
	var ids []string
	for _, v := range values {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids
}
