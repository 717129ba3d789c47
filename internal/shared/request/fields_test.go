package request

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contextFor(contentType, body string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", contentType)
	return c
}

func TestFieldsFromJSON(t *testing.T) {
	c := contextFor("application/json", `{"title":"  Dune ","isbn":9780441013593,"summary":null}`)

	raw, err := Fields(c, "title", "isbn", "summary", "author")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"title":   "  Dune ",
		"isbn":    "9780441013593",
		"summary": "",
		"author":  "",
	}, raw)
}

func TestFieldsFromForm(t *testing.T) {
	form := url.Values{"first_name": {"Frank"}, "family_name": {"Herbert"}}
	c := contextFor("application/x-www-form-urlencoded", form.Encode())

	raw, err := Fields(c, "first_name", "family_name", "date_of_birth")
	require.NoError(t, err)
	assert.Equal(t, "Frank", raw["first_name"])
	assert.Equal(t, "Herbert", raw["family_name"])
	assert.Equal(t, "", raw["date_of_birth"])
}

func TestFieldsRejectsMalformedJSON(t *testing.T) {
	_, err := Fields(contextFor("application/json", `{"title":`), "title")
	assert.ErrorIs(t, err, ErrMalformedBody)

	_, err = Fields(contextFor("application/json", `{"title":["a"]}`), "title")
	assert.ErrorIs(t, err, ErrMalformedBody)
}
