package model

import (
	"time"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// AuthorResponse is the API view of an author. Age and Lifespan are derived
// at read time.
type AuthorResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	FirstName   string    `json:"first_name"`
	FamilyName  string    `json:"family_name"`
	DateOfBirth *string   `json:"date_of_birth,omitempty"`
	DateOfDeath *string   `json:"date_of_death,omitempty"`
	Age         *int      `json:"age,omitempty"`
	Lifespan    string    `json:"lifespan"`
	URL         string    `json:"url"`
}

func (a *Author) ToResponse(now time.Time) *AuthorResponse {
	resp := &AuthorResponse{
		ID:          a.ID,
		Name:        a.Name,
		FirstName:   a.FirstName,
		FamilyName:  a.FamilyName,
		DateOfBirth: formatDate(a.DateOfBirth),
		DateOfDeath: formatDate(a.DateOfDeath),
		Lifespan:    a.Lifespan(),
		URL:         a.URL(),
	}
	if age, ok := a.Age(now); ok {
		resp.Age = &age
	}
	return resp
}

// Lifespan renders "born - died" with either side blank when unknown.
func (a *Author) Lifespan() string {
	var born, died string
	if a.DateOfBirth != nil {
		born = a.DateOfBirth.Format(dateLayout)
	}
	if a.DateOfDeath != nil {
		died = a.DateOfDeath.Format(dateLayout)
	}
	if born == "" && died == "" {
		return ""
	}
	return born + " - " + died
}

func (a *Author) URL() string {
	return "/api/v1/authors/" + a.ID.String()
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}
