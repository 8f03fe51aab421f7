package entities

import "time"

// The view types below are the expanded ("populated") shapes returned by the API:
// reference ids are replaced with a projection of the referenced document.

type BookRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type AuthorRef struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
}

type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type AuthorView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Country   string    `json:"country"`
	Books     []BookRef `json:"books"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CategoryView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Books     []BookRef `json:"books"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type BookView struct {
	ID         string        `json:"id"`
	Title      string        `json:"title"`
	Author     *AuthorRef    `json:"author"` // nil when the author document is gone
	Categories []CategoryRef `json:"categories"`
	CoverImage string        `json:"coverImage,omitempty"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}
