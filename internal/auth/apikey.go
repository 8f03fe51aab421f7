package auth

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// APIKeyHeader is the header carrying the API key. A bearer token is accepted too.
const APIKeyHeader = "X-API-Key"

// APIKeyMiddleware requires a valid API key on write requests.
type APIKeyMiddleware struct {
	hash    string
	limiter *RateLimiter
}

// NewAPIKeyMiddleware creates the middleware. An empty hash disables the check.
// limiter may be nil.
func NewAPIKeyMiddleware(hash string, limiter *RateLimiter) *APIKeyMiddleware {
	return &APIKeyMiddleware{hash: hash, limiter: limiter}
}

// Enabled reports whether write requests need a key.
func (m *APIKeyMiddleware) Enabled() bool {
	return m.hash != ""
}

// Handler returns the gin handler.
func (m *APIKeyMiddleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.Enabled() || IsSafeMethod(c.Request.Method) {
			c.Next()
			return
		}

		ip := c.ClientIP()
		if m.limiter != nil {
			if allowed, retryAfter := m.limiter.Allow(ip); !allowed {
				c.Header("Retry-After", retryAfter.String())
				c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
					"success": false,
					"message": "Too many invalid API key attempts",
				})
				return
			}
		}

		key := ExtractAPIKey(c)
		if key == "" || CheckAPIKey(key, m.hash) != nil {
			if m.limiter != nil {
				if locked, _ := m.limiter.RecordFailure(ip); locked {
					log.Printf("API key lockout for %s", ip)
				}
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Invalid or missing API key",
			})
			return
		}

		if m.limiter != nil {
			m.limiter.RecordSuccess(ip)
		}
		c.Next()
	}
}

// ExtractAPIKey reads the key from X-API-Key or an Authorization bearer token.
func ExtractAPIKey(c *gin.Context) string {
	if key := strings.TrimSpace(c.GetHeader(APIKeyHeader)); key != "" {
		return key
	}
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}

// IsSafeMethod reports whether method never mutates state.
func IsSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}
