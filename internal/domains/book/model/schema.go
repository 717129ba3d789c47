package model

import (
	"library-catalog/internal/shared/validate"

	"github.com/google/uuid"
)

const (
	FieldTitle   = "title"
	FieldAuthor  = "author"
	FieldSummary = "summary"
	FieldISBN    = "isbn"
)

var Schema = validate.MustSchema([]validate.Field{
	validate.F(FieldTitle, validate.Trim(), validate.Required("Title must not be empty."), validate.Escape()),
	validate.F(FieldAuthor, validate.Trim(), validate.Required("Author must not be empty."), validate.Lower(), validate.UUID(MsgAuthorMissing)),
	validate.F(FieldSummary, validate.Trim(), validate.Required("Summary must not be empty."), validate.Escape()),
	validate.F(FieldISBN, validate.Trim(), validate.Escape()),
})

// FromRecord builds an unsaved book from a record produced by Schema.
func FromRecord(r validate.Record) *Book {
	return &Book{
		Title:    r.Text(FieldTitle),
		Summary:  r.Text(FieldSummary),
		ISBN:     r.Text(FieldISBN),
		AuthorID: uuid.MustParse(r.Text(FieldAuthor)),
	}
}
