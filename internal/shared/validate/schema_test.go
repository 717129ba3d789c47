package validate

import (
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func personSchema(t *testing.T) *Schema {
	t.Helper()
	s, err := NewSchema([]Field{
		F("first_name", Trim(), Required("First name must not be empty."), Escape(),
			Alphanumeric("First name has non-alphanumeric characters.")),
		F("family_name", Trim(), Required("Family name must not be empty."), Escape(),
			Alphanumeric("Family name has non-alphanumeric characters.")),
		F("date_of_birth", Trim(), Optional(), ISODate("Invalid date of birth")),
		F("date_of_death", Trim(), Optional(), ISODate("Invalid date of death")),
	}, CrossRule{
		Field:   "date_of_death",
		Needs:   []string{"date_of_birth"},
		Message: "Date of death must not be before date of birth.",
		Valid: func(r Record) bool {
			born, died := r.Date("date_of_birth"), r.Date("date_of_death")
			return born == nil || died == nil || !died.Before(*born)
		},
	})
	require.NoError(t, err)
	return s
}

func TestRunProducesCleanRecord(t *testing.T) {
	rec, err := personSchema(t).Run(map[string]string{
		"first_name":    "  Ursula ",
		"family_name":   "LeGuin",
		"date_of_birth": "1929-10-21",
	})
	require.NoError(t, err)

	assert.Equal(t, "Ursula", rec.Text("first_name"))
	assert.Equal(t, "LeGuin", rec.Text("family_name"))
	require.NotNil(t, rec.Date("date_of_birth"))
	assert.Equal(t, time.Date(1929, 10, 21, 0, 0, 0, 0, time.UTC), *rec.Date("date_of_birth"))
	assert.Nil(t, rec.Date("date_of_death"))
	assert.False(t, rec.Has("date_of_death"))
}

func TestRunCollectsAllFieldsButBailsWithinOne(t *testing.T) {
	_, err := personSchema(t).Run(map[string]string{
		"first_name":    "   ",
		"family_name":   "O'Brien",
		"date_of_birth": "not-a-date",
	})

	errs, ok := AsErrors(err)
	require.True(t, ok)
	assert.Equal(t, Errors{
		{Field: "first_name", Message: "First name must not be empty."},
		{Field: "family_name", Message: "Family name has non-alphanumeric characters."},
		{Field: "date_of_birth", Message: "Invalid date of birth"},
	}, errs)
}

func TestCrossRuleRunsOnlyOnCleanFields(t *testing.T) {
	s := personSchema(t)

	_, err := s.Run(map[string]string{
		"first_name": "Jane", "family_name": "Austen",
		"date_of_birth": "1817-07-18", "date_of_death": "1775-12-16",
	})
	errs, ok := AsErrors(err)
	require.True(t, ok)
	assert.Equal(t, []string{"Date of death must not be before date of birth."}, errs.For("date_of_death"))

	_, err = s.Run(map[string]string{
		"first_name": "Jane", "family_name": "Austen",
		"date_of_birth": "garbage", "date_of_death": "1775-12-16",
	})
	errs, ok = AsErrors(err)
	require.True(t, ok)
	assert.False(t, errs.Has("date_of_death"))
}

func TestEscapeReplacesMarkup(t *testing.T) {
	s := MustSchema([]Field{F("title", Trim(), Required("Title must not be empty."), Escape())})

	rec, err := s.Run(map[string]string{"title": ` <b>"Tom" & 'Jerry'</b> / \ ` + "`"})
	require.NoError(t, err)
	assert.Equal(t,
		"&lt;b&gt;&quot;Tom&quot; &amp; &#x27;Jerry&#x27;&lt;&#x2F;b&gt; &#x2F; &#x5C; &#96;",
		rec.Text("title"))
}

func TestEscapeStringMatchesEscapeRule(t *testing.T) {
	s := MustSchema([]Field{F("name", Escape())})

	for _, in := range []string{"Tom & Jerry", "O'Brien", `<a href="/x">`} {
		rec, err := s.Run(map[string]string{"name": in})
		require.NoError(t, err)
		assert.Equal(t, rec.Text("name"), EscapeString(in), in)
	}
}

func TestLowerBeforeUUIDAcceptsUpperCase(t *testing.T) {
	s := MustSchema([]Field{F("author", Trim(), Lower(), UUID("Author does not exist."))})

	rec, err := s.Run(map[string]string{"author": " 1B4E28BA-2FA1-11D2-883F-0016D3CCA427 "})
	require.NoError(t, err)
	assert.Equal(t, "1b4e28ba-2fa1-11d2-883f-0016d3cca427", rec.Text("author"))
}

func TestParseISODate(t *testing.T) {
	want := time.Date(2001, 2, 3, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"2001-02-03", "2001-02-03T10:11:12Z", "2001-02-03T23:30:00+05:00", "2001-02-03T10:11", "20010203"} {
		got, ok := ParseISODate(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"", "2001-13-01", "03/02/2001", "yesterday"} {
		_, ok := ParseISODate(in)
		assert.False(t, ok, in)
	}
}

func TestUUIDAndCheck(t *testing.T) {
	s := MustSchema([]Field{
		F("author", Trim(), Required("Author must not be empty."), UUID("Author does not exist.")),
		F("isbn", Trim(), Optional(), Check(validation.Length(10, 13), "ISBN must be 10 to 13 characters.")),
	})

	_, err := s.Run(map[string]string{"author": "nope", "isbn": "123"})
	errs, ok := AsErrors(err)
	require.True(t, ok)
	assert.Equal(t, []string{"Author does not exist."}, errs.For("author"))
	assert.Equal(t, []string{"ISBN must be 10 to 13 characters."}, errs.For("isbn"))

	rec, err := s.Run(map[string]string{"author": "1b4e28ba-2fa1-11d2-883f-0016d3cca427"})
	require.NoError(t, err)
	assert.False(t, rec.Has("isbn"))
}

func TestMalformedSchemas(t *testing.T) {
	_, err := NewSchema(nil)
	assert.IsType(t, &SchemaError{}, err)

	_, err = NewSchema([]Field{F("a"), F("a")})
	assert.IsType(t, &SchemaError{}, err)

	_, err = NewSchema([]Field{F("a", nil)})
	assert.IsType(t, &SchemaError{}, err)

	_, err = NewSchema([]Field{F("a")}, CrossRule{Field: "b", Valid: func(Record) bool { return true }})
	assert.IsType(t, &SchemaError{}, err)

	assert.Panics(t, func() { MustSchema([]Field{F("")}) })
}

func TestStringRuleAfterDateIsSchemaError(t *testing.T) {
	s := MustSchema([]Field{F("d", ISODate("bad"), Trim())})

	_, err := s.Run(map[string]string{"d": "2020-01-01"})
	var se *SchemaError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "d", se.Field)

	_, isFieldErr := AsErrors(err)
	assert.False(t, isFieldErr)
}
