package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/covers"
	"github.com/mrlokans/bookshelf/internal/services"
)

// ContextKeyExposeErrors marks requests whose 500 responses may carry the error text.
const ContextKeyExposeErrors = "expose_errors"

// --- Response Types ---

// Response is the envelope every API endpoint answers with.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// --- Success Response Helpers ---

// respondData sends a 200 OK response with data.
func respondData(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

// respondList sends a 200 OK response with data and its length.
func respondList[T any](c *gin.Context, items []T) {
	count := len(items)
	c.JSON(http.StatusOK, Response{Success: true, Data: items, Count: &count})
}

// respondCreated sends a 201 Created response with data.
func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Response{Success: true, Data: data})
}

// respondMessage sends a 200 OK response with a message only.
func respondMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Response{Success: true, Message: message})
}

// --- Error Response Helpers ---

// respondError sends a failure envelope with the given status code.
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, Response{Success: false, Message: message})
}

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	respondError(c, http.StatusBadRequest, message)
}

// respondInternalError logs the error and sends a 500 response. The error text
// reaches the client only in development.
func respondInternalError(c *gin.Context, err error, message string) {
	log.Printf("Internal error (%s): %v", message, err)
	c.JSON(http.StatusInternalServerError, Response{
		Success: false,
		Message: message,
		Error:   errorDetail(c, err),
	})
}

// respondServiceError maps a catalog error onto a status code. Unclassified
// errors become a 500 with fallback as the message.
func respondServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrReferenceNotFound):
		respondBadRequest(c, services.Message(err))
	case errors.Is(err, services.ErrNotFound):
		respondError(c, http.StatusNotFound, services.Message(err))
	case errors.Is(err, services.ErrConflict):
		respondError(c, http.StatusConflict, services.Message(err))
	default:
		respondInternalError(c, err, fallback)
	}
}

// respondUploadError maps a cover upload failure onto a response.
func respondUploadError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, covers.ErrUnsupportedType):
		respondBadRequest(c, "Cover image must be a .jpg, .jpeg, .png, .gif or .webp file")
	case errors.Is(err, covers.ErrTooLarge):
		respondBadRequest(c, "Cover image is too large")
	default:
		respondInternalError(c, err, "Error saving cover image")
	}
}

func errorDetail(c *gin.Context, err error) string {
	if c.GetBool(ContextKeyExposeErrors) && err != nil {
		return err.Error()
	}
	return "Internal server error"
}

// exposeErrors sets ContextKeyExposeErrors on every request.
func exposeErrors(enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextKeyExposeErrors, enabled)
		c.Next()
	}
}
