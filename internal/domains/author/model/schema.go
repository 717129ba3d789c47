package model

import (
	"library-catalog/internal/shared/validate"
)

// Field names accepted on author create and update.
const (
	FieldName        = "name"
	FieldFirstName   = "first_name"
	FieldFamilyName  = "family_name"
	FieldDateOfBirth = "date_of_birth"
	FieldDateOfDeath = "date_of_death"
)

// Schema is applied to every author create and update request.
var Schema = validate.MustSchema([]validate.Field{
	validate.F(FieldName,
		validate.Trim(),
		validate.Required("Name must not be empty."),
		validate.Escape(),
	),
	validate.F(FieldFirstName,
		validate.Trim(),
		validate.Required("First name must not be empty."),
		validate.Escape(),
		validate.Alphanumeric("First name has non-alphanumeric characters."),
	),
	validate.F(FieldFamilyName,
		validate.Trim(),
		validate.Required("Family name must not be empty."),
		validate.Escape(),
		validate.Alphanumeric("Family name has non-alphanumeric characters."),
	),
	validate.F(FieldDateOfBirth, validate.Trim(), validate.Optional(), validate.ISODate("Invalid date of birth")),
	validate.F(FieldDateOfDeath, validate.Trim(), validate.Optional(), validate.ISODate("Invalid date of death")),
}, validate.CrossRule{
	Field:   FieldDateOfDeath,
	Needs:   []string{FieldDateOfBirth},
	Message: "Date of death must not be before date of birth.",
	Valid: func(r validate.Record) bool {
		born, died := r.Date(FieldDateOfBirth), r.Date(FieldDateOfDeath)
		return born == nil || died == nil || !died.Before(*born)
	},
})

// FromRecord builds an unsaved author from a record produced by Schema.
func FromRecord(r validate.Record) *Author {
	return &Author{
		Name:        r.Text(FieldName),
		FirstName:   r.Text(FieldFirstName),
		FamilyName:  r.Text(FieldFamilyName),
		DateOfBirth: r.Date(FieldDateOfBirth),
		DateOfDeath: r.Date(FieldDateOfDeath),
	}
}
