package model

import (
	"time"

	"github.com/google/uuid"
)

// Book names its author by id. The author is resolved by lookup, never
// embedded.
type Book struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Summary   string    `json:"summary" db:"summary"`
	ISBN      string    `json:"isbn" db:"isbn"`
	AuthorID  uuid.UUID `json:"author" db:"author_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Replace overwrites every mutable field with the values of src.
func (b *Book) Replace(src *Book) {
	b.Title = src.Title
	b.Summary = src.Summary
	b.ISBN = src.ISBN
	b.AuthorID = src.AuthorID
}

func (b *Book) URL() string {
	return "/api/v1/books/" + b.ID.String()
}

type BookResponse struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	Summary  string    `json:"summary"`
	ISBN     string    `json:"isbn,omitempty"`
	AuthorID uuid.UUID `json:"author"`
	URL      string    `json:"url"`
}

func (b *Book) ToResponse() *BookResponse {
	return &BookResponse{
		ID:       b.ID,
		Title:    b.Title,
		Summary:  b.Summary,
		ISBN:     b.ISBN,
		AuthorID: b.AuthorID,
		URL:      b.URL(),
	}
}
