package config

const (
	// DefaultDatabasePath is the default path for the catalog database
	DefaultDatabasePath = "./bookshelf.db"

	// DefaultUploadsDir is where uploaded cover images are written and served from
	DefaultUploadsDir = "./uploads"

	// DefaultUploadMaxBytes caps a single cover upload (5 MiB)
	DefaultUploadMaxBytes = 5 << 20
)
