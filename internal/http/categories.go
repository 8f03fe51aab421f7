package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/services"
)

// CategoriesController handles /api/categories.
type CategoriesController struct {
	store CategoryStore
}

func NewCategoriesController(store CategoryStore) *CategoriesController {
	return &CategoriesController{store: store}
}

type categoryRequest struct {
	Name string `json:"name" form:"name"`
}

// List handles GET /api/categories
func (cc *CategoriesController) List(c *gin.Context) {
	categories, err := cc.store.ListCategories(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "Error fetching categories")
		return
	}
	respondList(c, categories)
}

// Get handles GET /api/categories/:id
func (cc *CategoriesController) Get(c *gin.Context) {
	category, err := cc.store.GetCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Error fetching category")
		return
	}
	respondData(c, category)
}

// Create handles POST /api/categories
func (cc *CategoriesController) Create(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	category, err := cc.store.CreateCategory(c.Request.Context(), services.CategoryInput{Name: req.Name})
	if err != nil {
		respondServiceError(c, err, "Error creating category")
		return
	}
	respondCreated(c, category)
}

// Update handles PUT /api/categories/:id
func (cc *CategoriesController) Update(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	category, err := cc.store.UpdateCategory(c.Request.Context(), c.Param("id"), services.CategoryPatch{Name: req.Name})
	if err != nil {
		respondServiceError(c, err, "Error updating category")
		return
	}
	respondData(c, category)
}

// Delete handles DELETE /api/categories/:id
// Books referencing the category keep existing without it.
func (cc *CategoriesController) Delete(c *gin.Context) {
	if _, err := cc.store.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err, "Error deleting category")
		return
	}
	respondMessage(c, "Category deleted successfully")
}
