package model

import (
	"time"

	"github.com/google/uuid"
)

type Author struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	FirstName   string     `json:"first_name" db:"first_name"`
	FamilyName  string     `json:"family_name" db:"family_name"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty" db:"date_of_birth"`
	DateOfDeath *time.Time `json:"date_of_death,omitempty" db:"date_of_death"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// Age returns whole years from birth to death, or to now for a living
// author. ok is false when the date of birth is unknown.
func (a *Author) Age(now time.Time) (years int, ok bool) {
	if a.DateOfBirth == nil {
		return 0, false
	}
	end := now
	if a.DateOfDeath != nil {
		end = *a.DateOfDeath
	}
	return wholeYears(*a.DateOfBirth, end), true
}

func wholeYears(from, to time.Time) int {
	from, to = from.UTC(), to.UTC()
	years := to.Year() - from.Year()
	if to.Month() < from.Month() || (to.Month() == from.Month() && to.Day() < from.Day()) {
		years--
	}
	return years
}

// Replace overwrites every mutable field with the values of src.
func (a *Author) Replace(src *Author) {
	a.Name = src.Name
	a.FirstName = src.FirstName
	a.FamilyName = src.FamilyName
	a.DateOfBirth = src.DateOfBirth
	a.DateOfDeath = src.DateOfDeath
}
