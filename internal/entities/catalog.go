package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Author owns books. Books is a derived back reference kept in sync with Book.AuthorID.
type Author struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"size:256;not null" json:"name"`
	Country   string    `gorm:"size:128;not null" json:"country"`
	Books     []string  `gorm:"serializer:json" json:"books"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (a *Author) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Books == nil {
		a.Books = []string{}
	}
	return nil
}

// Category groups books. Books is a derived back reference kept in sync with Book.Categories.
type Category struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"size:256;not null" json:"name"`
	Books     []string  `gorm:"serializer:json" json:"books"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Books == nil {
		c.Books = []string{}
	}
	return nil
}

// Book holds the authoritative forward references (AuthorID, Categories).
type Book struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	Title      string    `gorm:"size:512;not null;index" json:"title"`
	AuthorID   string    `gorm:"size:36;not null;index" json:"author"`
	Categories []string  `gorm:"serializer:json" json:"categories"`
	CoverImage string    `gorm:"size:255" json:"coverImage,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (b *Book) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.Categories == nil {
		b.Categories = []string{}
	}
	return nil
}

// All returns every catalog entity for migrations.
func All() []any {
	return []any{&Author{}, &Category{}, &Book{}}
}
