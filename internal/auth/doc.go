// Package auth guards the write side of the API.
//
// Reads are always public. Writes (POST, PUT, PATCH, DELETE) can be protected
// two ways:
//
//	AUTH_API_KEY_HASH=<bcrypt hash>  # writes need X-API-Key or Authorization: Bearer
//	READ_ONLY=true                   # writes are rejected with 403
//
// Generate the hash with:
//
//	bookshelf hash-key <key>
//
// # Usage
//
//	limiter := auth.NewRateLimiter(auth.DefaultRateLimitConfig())
//	router.Use(auth.SecurityHeadersMiddleware())
//	router.Use(auth.ReadOnlyMiddleware(cfg.Auth.ReadOnly))
//	router.Use(auth.NewAPIKeyMiddleware(cfg.Auth.APIKeyHash, limiter).Handler())
package auth
