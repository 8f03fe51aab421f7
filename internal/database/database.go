package database

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// Database is the explicitly constructed store handle shared by repositories and services.
type Database struct {
	DB *gorm.DB
}

// Options tweaks how the connection is opened.
type Options struct {
	// Verbose logs every SQL statement (development only).
	Verbose bool
	// LogOutput receives gorm's log lines. Defaults to stdout.
	LogOutput io.Writer
}

func NewDatabase(dbPath string, opts Options) (*Database, error) {
	logLevel := logger.Warn
	if opts.Verbose {
		logLevel = logger.Info
	}
	out := opts.LogOutput
	if out == nil {
		out = os.Stdout
	}

	// Transactions take the write lock on BEGIN so concurrent writers queue on
	// the busy timeout instead of failing on a read-to-write lock upgrade.
	dsn := dbPath + "?_busy_timeout=5000&_txlock=immediate"

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.New(log.New(out, "\r\n", log.LstdFlags), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logLevel,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(entities.All()...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return &Database{DB: db}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks the underlying connection.
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Stats holds collection sizes.
type Stats struct {
	Authors    int64 `json:"authors"`
	Categories int64 `json:"categories"`
	Books      int64 `json:"books"`
}

// GetStats counts documents in each collection.
func (d *Database) GetStats(ctx context.Context) (Stats, error) {
	var stats Stats
	db := d.DB.WithContext(ctx)
	if err := db.Model(&entities.Author{}).Count(&stats.Authors).Error; err != nil {
		return stats, err
	}
	if err := db.Model(&entities.Category{}).Count(&stats.Categories).Error; err != nil {
		return stats, err
	}
	err := db.Model(&entities.Book{}).Count(&stats.Books).Error
	return stats, err
}
