package memstore_test

import (
	"context"
	"sort"
	"sync"
	"testing"

	authormodel "library-catalog/internal/domains/author/model"
	authorrepo "library-catalog/internal/domains/author/repository"
	bookmodel "library-catalog/internal/domains/book/model"
	bookrepo "library-catalog/internal/domains/book/repository"
	"library-catalog/internal/domains/integrity"
	"library-catalog/internal/infrastructure/memstore"
	"library-catalog/internal/shared/apperr"
	"library-catalog/internal/shared/query"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ authorrepo.Repository = (*memstore.AuthorStore)(nil)
	_ bookrepo.Repository   = (*memstore.BookStore)(nil)
)

func seedAuthor(t *testing.T, s *memstore.Store, name string) *authormodel.Author {
	t.Helper()
	a, err := s.Authors().Create(context.Background(), &authormodel.Author{Name: name, FirstName: "F", FamilyName: name})
	require.NoError(t, err)
	return a
}

func TestAuthorCRUD(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	authors := s.Authors()

	created := seedAuthor(t, s, "Tolkien")
	assert.NotEqual(t, uuid.Nil, created.ID)

	got, err := authors.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tolkien", got.Name)

	got.Name = "J.R.R. Tolkien"
	got.DateOfBirth = nil
	updated, err := authors.Update(ctx, got)
	require.NoError(t, err)
	assert.Equal(t, "J.R.R. Tolkien", updated.Name)

	_, err = authors.Update(ctx, &authormodel.Author{ID: uuid.New()})
	assert.ErrorIs(t, err, authormodel.ErrAuthorNotFound)

	require.NoError(t, authors.Delete(ctx, created.ID, integrity.Guard))
	_, err = authors.GetByID(ctx, created.ID)
	assert.True(t, apperr.IsNotFound(err))

	assert.ErrorIs(t, authors.Delete(ctx, created.ID, integrity.Guard), authormodel.ErrAuthorNotFound)
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	a := seedAuthor(t, s, "Lewis")

	a.Name = "mutated"
	got, err := s.Authors().GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lewis", got.Name)
}

func TestListFiltersCaseInsensitively(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	seedAuthor(t, s, "J.R.R. Tolkien")
	seedAuthor(t, s, "C.S. Lewis")

	all, err := s.Authors().List(ctx, query.Build(authormodel.FieldName, ""))
	require.NoError(t, err)
	assert.Len(t, all, 2)

	hits, err := s.Authors().List(ctx, query.Build(authormodel.FieldName, "tol"))
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "J.R.R. Tolkien", hits[0].Name)

	_, err = s.Authors().List(ctx, query.Build("bio", "x"))
	assert.ErrorIs(t, err, query.ErrUnknownField)
}

func TestBookRequiresExistingAuthor(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	books := s.Books()

	_, err := books.Create(ctx, &bookmodel.Book{Title: "Orphan", Summary: "s", AuthorID: uuid.New()})
	assert.ErrorIs(t, err, bookmodel.ErrAuthorMissing)

	a := seedAuthor(t, s, "Herbert")
	b, err := books.Create(ctx, &bookmodel.Book{Title: "Dune", Summary: "s", AuthorID: a.ID})
	require.NoError(t, err)

	b.AuthorID = uuid.New()
	_, err = books.Update(ctx, b)
	assert.ErrorIs(t, err, bookmodel.ErrAuthorMissing)

	n, err := books.CountByAuthor(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	byAuthor, err := books.ListByAuthor(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, byAuthor, 1)
	assert.Equal(t, "Dune", byAuthor[0].Title)
}

func TestAuthorWithBooksCannotBeDeleted(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	a := seedAuthor(t, s, "Herbert")
	b, err := s.Books().Create(ctx, &bookmodel.Book{Title: "Dune", Summary: "s", AuthorID: a.ID})
	require.NoError(t, err)

	err = s.Authors().Delete(ctx, a.ID, integrity.Guard)
	assert.ErrorIs(t, err, integrity.ErrAuthorHasBooks)

	_, err = s.Authors().GetByID(ctx, a.ID)
	require.NoError(t, err)

	require.NoError(t, s.Books().Delete(ctx, b.ID))
	assert.NoError(t, s.Authors().Delete(ctx, a.ID, integrity.Guard))
}

func TestCancelledContextIsStorageError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := memstore.New().Authors().List(ctx, query.Build(authormodel.FieldName, ""))
	assert.True(t, apperr.IsStorage(err))
}

// Concurrent deletes and book creates must never leave a book pointing at a
// removed author.
func TestDeleteAndCreateRace(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()

	var ids []uuid.UUID
	for i := 0; i < 50; i++ {
		ids = append(ids, seedAuthor(t, s, "A").ID)
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(2)
		go func(id uuid.UUID) {
			defer wg.Done()
			_ = s.Authors().Delete(ctx, id, integrity.Guard)
		}(id)
		go func(id uuid.UUID) {
			defer wg.Done()
			_, _ = s.Books().Create(ctx, &bookmodel.Book{Title: "T", Summary: "S", AuthorID: id})
		}(id)
	}
	wg.Wait()

	books, err := s.Books().List(ctx, query.Build(bookmodel.FieldTitle, ""))
	require.NoError(t, err)
	for _, b := range books {
		_, err := s.Authors().GetByID(ctx, b.AuthorID)
		assert.NoError(t, err, "book %s references a deleted author", b.ID)
	}
}

func TestListOrderBreaksTiesByID(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()

	var authorIDs []string
	for i := 0; i < 5; i++ {
		a := seedAuthor(t, s, "Same")
		authorIDs = append(authorIDs, a.ID.String())
	}
	sort.Strings(authorIDs)

	authors, err := s.Authors().List(ctx, query.Build(authormodel.FieldName, ""))
	require.NoError(t, err)
	got := make([]string, len(authors))
	for i, a := range authors {
		got[i] = a.ID.String()
	}
	assert.Equal(t, authorIDs, got)

	owner, err := uuid.Parse(authorIDs[0])
	require.NoError(t, err)
	var bookIDs []string
	for i := 0; i < 5; i++ {
		b, err := s.Books().Create(ctx, &bookmodel.Book{Title: "Twin", Summary: "S", AuthorID: owner})
		require.NoError(t, err)
		bookIDs = append(bookIDs, b.ID.String())
	}
	sort.Strings(bookIDs)

	for _, list := range []func() ([]bookmodel.Book, error){
		func() ([]bookmodel.Book, error) { return s.Books().List(ctx, query.Build(bookmodel.FieldTitle, "twin")) },
		func() ([]bookmodel.Book, error) { return s.Books().ListByAuthor(ctx, owner) },
	} {
		books, err := list()
		require.NoError(t, err)
		got := make([]string, len(books))
		for i, b := range books {
			got[i] = b.ID.String()
		}
		assert.Equal(t, bookIDs, got)
	}
}
