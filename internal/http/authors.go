package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/services"
)

// AuthorsController handles /api/authors.
type AuthorsController struct {
	store AuthorStore
}

func NewAuthorsController(store AuthorStore) *AuthorsController {
	return &AuthorsController{store: store}
}

type authorRequest struct {
	Name    string `json:"name" form:"name"`
	Country string `json:"country" form:"country"`
}

// List handles GET /api/authors
func (ac *AuthorsController) List(c *gin.Context) {
	authors, err := ac.store.ListAuthors(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "Error fetching authors")
		return
	}
	respondList(c, authors)
}

// Get handles GET /api/authors/:id
func (ac *AuthorsController) Get(c *gin.Context) {
	author, err := ac.store.GetAuthor(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Error fetching author")
		return
	}
	respondData(c, author)
}

// Create handles POST /api/authors
func (ac *AuthorsController) Create(c *gin.Context) {
	var req authorRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	author, err := ac.store.CreateAuthor(c.Request.Context(), services.AuthorInput{Name: req.Name, Country: req.Country})
	if err != nil {
		respondServiceError(c, err, "Error creating author")
		return
	}
	respondCreated(c, author)
}

// Update handles PUT /api/authors/:id
func (ac *AuthorsController) Update(c *gin.Context) {
	var req authorRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	author, err := ac.store.UpdateAuthor(c.Request.Context(), c.Param("id"), services.AuthorPatch{Name: req.Name, Country: req.Country})
	if err != nil {
		respondServiceError(c, err, "Error updating author")
		return
	}
	respondData(c, author)
}

// Delete handles DELETE /api/authors/:id
func (ac *AuthorsController) Delete(c *gin.Context) {
	if err := ac.store.DeleteAuthor(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err, "Error deleting author")
		return
	}
	respondMessage(c, "Author deleted successfully")
}
