// Package interfaces holds compile-time checks that the concrete catalog,
// reconciler and cover store types satisfy the narrow interfaces consumed by
// the HTTP, task and demo packages.
//
// The package is never imported; building it is the check.
package interfaces
