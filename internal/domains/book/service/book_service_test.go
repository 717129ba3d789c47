package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	authormodel "library-catalog/internal/domains/author/model"
	"library-catalog/internal/domains/book/model"
	"library-catalog/internal/domains/book/service"
	"library-catalog/internal/infrastructure/memstore"
	"library-catalog/internal/shared/apperr"
	"library-catalog/internal/shared/query"
	"library-catalog/internal/shared/validate"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc    service.ServiceInterface
	store  *memstore.Store
	author *authormodel.Author
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := memstore.New()
	a, err := store.Authors().Create(context.Background(), &authormodel.Author{
		Name: "Frank Herbert", FirstName: "Frank", FamilyName: "Herbert",
	})
	require.NoError(t, err)
	return fixture{
		svc:    service.NewBookService(store.Books(), store.Authors()),
		store:  store,
		author: a,
	}
}

func (f fixture) dune() map[string]string {
	return map[string]string{
		"title":   "Dune",
		"summary": "Spice must flow",
		"isbn":    " 9780441013593 ",
		"author":  f.author.ID.String(),
	}
}

func TestCreateAndGetResolvesAuthor(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	b, err := f.svc.Create(ctx, f.dune())
	require.NoError(t, err)
	assert.Equal(t, "9780441013593", b.ISBN)

	detail, err := f.svc.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune", detail.Book.Title)
	require.NotNil(t, detail.Author)
	assert.Equal(t, f.author.ID, detail.Author.ID)
}

func TestCreateWithUnknownAuthorIsFieldError(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	raw := f.dune()
	raw["author"] = uuid.NewString()
	_, err := f.svc.Create(ctx, raw)

	errs, ok := validate.AsErrors(err)
	require.True(t, ok)
	assert.Equal(t, []string{model.MsgAuthorMissing}, errs.For("author"))

	books, err := f.svc.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestCreateCollectsAllErrors(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), map[string]string{"title": " "})
	errs, ok := validate.AsErrors(err)
	require.True(t, ok)
	assert.True(t, errs.Has("title"))
	assert.True(t, errs.Has("author"))
	assert.True(t, errs.Has("summary"))
	assert.False(t, errs.Has("isbn"))
}

func TestUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	b, err := f.svc.Create(ctx, f.dune())
	require.NoError(t, err)

	raw := f.dune()
	raw["title"] = "Dune Messiah"
	raw["isbn"] = ""
	updated, err := f.svc.Update(ctx, b.ID, raw)
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", updated.Title)
	assert.Empty(t, updated.ISBN)

	raw["author"] = uuid.NewString()
	_, err = f.svc.Update(ctx, b.ID, raw)
	_, ok := validate.AsErrors(err)
	assert.True(t, ok)

	_, err = f.svc.Update(ctx, uuid.New(), f.dune())
	assert.ErrorIs(t, err, model.ErrBookNotFound)

	require.NoError(t, f.svc.Delete(ctx, b.ID))
	assert.ErrorIs(t, f.svc.Delete(ctx, b.ID), model.ErrBookNotFound)
}

func TestListTreatsTermLiterally(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for _, title := range []string{"Dune", "100% Pure", "snake_case"} {
		raw := f.dune()
		raw["title"] = title
		_, err := f.svc.Create(ctx, raw)
		require.NoError(t, err)
	}

	hits, err := f.svc.List(ctx, "DUNE")
	require.NoError(t, err)
	assert.Len(t, hits, 1)

	hits, err = f.svc.List(ctx, "%")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "100% Pure", hits[0].Title)

	hits, err = f.svc.List(ctx, "_")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "snake_case", hits[0].Title)
}

func TestCreateAcceptsUpperCaseAuthorID(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	raw := f.dune()
	raw["author"] = strings.ToUpper(f.author.ID.String())
	b, err := f.svc.Create(ctx, raw)
	require.NoError(t, err)
	assert.Equal(t, f.author.ID, b.AuthorID)

	detail, err := f.svc.Get(ctx, b.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.Author)
	assert.Equal(t, "Herbert", detail.Author.FamilyName)
}

func TestListMatchesTermsWithMarkupCharacters(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for _, title := range []string{"Tom & Jerry", "O'Brien's Tale", "Ampersand Stories"} {
		raw := f.dune()
		raw["title"] = title
		_, err := f.svc.Create(ctx, raw)
		require.NoError(t, err)
	}

	hits, err := f.svc.List(ctx, "tom & jerry")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Tom &amp; Jerry", hits[0].Title)

	hits, err = f.svc.List(ctx, "O'Brien")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "O&#x27;Brien&#x27;s Tale", hits[0].Title)
}

func TestAuthorOptions(t *testing.T) {
	f := newFixture(t)

	authors, err := f.svc.AuthorOptions(context.Background())
	require.NoError(t, err)
	require.Len(t, authors, 1)
	assert.Equal(t, "Herbert", authors[0].FamilyName)
}

type mockAuthors struct {
	mock.Mock
}

func (m *mockAuthors) GetByID(ctx context.Context, id uuid.UUID) (*authormodel.Author, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*authormodel.Author)
	return a, args.Error(1)
}

func (m *mockAuthors) List(ctx context.Context, filter query.Filter) ([]authormodel.Author, error) {
	args := m.Called(ctx, filter)
	authors, _ := args.Get(0).([]authormodel.Author)
	return authors, args.Error(1)
}

func TestGetPropagatesAuthorStorageFault(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b, err := f.svc.Create(ctx, f.dune())
	require.NoError(t, err)

	authors := new(mockAuthors)
	authors.On("GetByID", ctx, f.author.ID).Return(nil, apperr.Storage("author.get", errors.New("timeout")))
	authors.On("List", ctx, mock.Anything).Return(nil, apperr.Storage("author.list", errors.New("timeout")))

	svc := service.NewBookService(f.store.Books(), authors)

	_, err = svc.Get(ctx, b.ID)
	assert.True(t, apperr.IsStorage(err))

	_, err = svc.AuthorOptions(ctx)
	assert.True(t, apperr.IsStorage(err))
}

func TestGetToleratesUnresolvedAuthor(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b, err := f.svc.Create(ctx, f.dune())
	require.NoError(t, err)

	authors := new(mockAuthors)
	authors.On("GetByID", ctx, f.author.ID).Return(nil, authormodel.ErrAuthorNotFound)

	detail, err := service.NewBookService(f.store.Books(), authors).Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Nil(t, detail.Author)
}
