// Package memstore is an in-process store for authors and books. Both tables
// live under one lock so that author deletes and book writes see a consistent
// view of the Author -> Book reference.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	authormodel "library-catalog/internal/domains/author/model"
	bookmodel "library-catalog/internal/domains/book/model"
	"library-catalog/internal/domains/integrity"
	"library-catalog/internal/shared/apperr"
	"library-catalog/internal/shared/query"

	"github.com/google/uuid"
)

type Store struct {
	mu      sync.RWMutex
	authors map[uuid.UUID]authormodel.Author
	books   map[uuid.UUID]bookmodel.Book
	now     func() time.Time
}

func New() *Store {
	return &Store{
		authors: map[uuid.UUID]authormodel.Author{},
		books:   map[uuid.UUID]bookmodel.Book{},
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Authors returns the author view of the store.
func (s *Store) Authors() *AuthorStore { return &AuthorStore{s: s} }

// Books returns the book view of the store.
func (s *Store) Books() *BookStore { return &BookStore{s: s} }

// Close drops all records.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authors = map[uuid.UUID]authormodel.Author{}
	s.books = map[uuid.UUID]bookmodel.Book{}
}

func unknownField(field string) error {
	return fmt.Errorf("%w: %q", query.ErrUnknownField, field)
}

func live(ctx context.Context, op string) error {
	return apperr.Storage(op, ctx.Err())
}

// countBooks needs s.mu held.
func (s *Store) countBooks(authorID uuid.UUID) int {
	n := 0
	for _, b := range s.books {
		if b.AuthorID == authorID {
			n++
		}
	}
	return n
}

type AuthorStore struct {
	s *Store
}

func (a *AuthorStore) Create(ctx context.Context, author *authormodel.Author) (*authormodel.Author, error) {
	if err := live(ctx, "author.create"); err != nil {
		return nil, err
	}
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	rec := *author
	rec.ID = uuid.New()
	rec.CreatedAt = a.s.now()
	rec.UpdatedAt = rec.CreatedAt
	a.s.authors[rec.ID] = rec
	return &rec, nil
}

func (a *AuthorStore) GetByID(ctx context.Context, id uuid.UUID) (*authormodel.Author, error) {
	if err := live(ctx, "author.get"); err != nil {
		return nil, err
	}
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()

	rec, ok := a.s.authors[id]
	if !ok {
		return nil, authormodel.ErrAuthorNotFound
	}
	return &rec, nil
}

func (a *AuthorStore) List(ctx context.Context, filter query.Filter) ([]authormodel.Author, error) {
	if err := live(ctx, "author.list"); err != nil {
		return nil, err
	}
	if _, err := authorField(&authormodel.Author{}, filter.Field); err != nil {
		return nil, err
	}
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()

	out := []authormodel.Author{}
	for _, rec := range a.s.authors {
		v, _ := authorField(&rec, filter.Field)
		if filter.Match(v) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FamilyName != out[j].FamilyName {
			return out[i].FamilyName < out[j].FamilyName
		}
		if out[i].FirstName != out[j].FirstName {
			return out[i].FirstName < out[j].FirstName
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func authorField(a *authormodel.Author, field string) (string, error) {
	switch field {
	case authormodel.FieldName:
		return a.Name, nil
	case authormodel.FieldFirstName:
		return a.FirstName, nil
	case authormodel.FieldFamilyName:
		return a.FamilyName, nil
	}
	return "", unknownField(field)
}

func (a *AuthorStore) Update(ctx context.Context, author *authormodel.Author) (*authormodel.Author, error) {
	if err := live(ctx, "author.update"); err != nil {
		return nil, err
	}
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	rec, ok := a.s.authors[author.ID]
	if !ok {
		return nil, authormodel.ErrAuthorNotFound
	}
	rec.Replace(author)
	rec.UpdatedAt = a.s.now()
	a.s.authors[rec.ID] = rec
	return &rec, nil
}

// Delete holds the write lock across check and removal.
func (a *AuthorStore) Delete(ctx context.Context, id uuid.UUID, check integrity.Check) error {
	if err := live(ctx, "author.delete"); err != nil {
		return err
	}
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	if _, ok := a.s.authors[id]; !ok {
		return authormodel.ErrAuthorNotFound
	}
	if check != nil {
		if err := check(ctx, lockedCounter{s: a.s}, id); err != nil {
			return err
		}
	}
	delete(a.s.authors, id)
	return nil
}

// lockedCounter is handed to integrity checks while the write lock is held.
type lockedCounter struct {
	s *Store
}

func (c lockedCounter) CountByAuthor(ctx context.Context, authorID uuid.UUID) (int, error) {
	if err := live(ctx, "author.count_books"); err != nil {
		return 0, err
	}
	return c.s.countBooks(authorID), nil
}

type BookStore struct {
	s *Store
}

func (b *BookStore) Create(ctx context.Context, book *bookmodel.Book) (*bookmodel.Book, error) {
	if err := live(ctx, "book.create"); err != nil {
		return nil, err
	}
	b.s.mu.Lock()
	defer b.s.mu.Unlock()

	if _, ok := b.s.authors[book.AuthorID]; !ok {
		return nil, bookmodel.ErrAuthorMissing
	}

	rec := *book
	rec.ID = uuid.New()
	rec.CreatedAt = b.s.now()
	rec.UpdatedAt = rec.CreatedAt
	b.s.books[rec.ID] = rec
	return &rec, nil
}

func (b *BookStore) GetByID(ctx context.Context, id uuid.UUID) (*bookmodel.Book, error) {
	if err := live(ctx, "book.get"); err != nil {
		return nil, err
	}
	b.s.mu.RLock()
	defer b.s.mu.RUnlock()

	rec, ok := b.s.books[id]
	if !ok {
		return nil, bookmodel.ErrBookNotFound
	}
	return &rec, nil
}

func (b *BookStore) List(ctx context.Context, filter query.Filter) ([]bookmodel.Book, error) {
	if err := live(ctx, "book.list"); err != nil {
		return nil, err
	}
	if _, err := bookField(&bookmodel.Book{}, filter.Field); err != nil {
		return nil, err
	}
	b.s.mu.RLock()
	defer b.s.mu.RUnlock()

	out := []bookmodel.Book{}
	for _, rec := range b.s.books {
		v, _ := bookField(&rec, filter.Field)
		if filter.Match(v) {
			out = append(out, rec)
		}
	}
	sortBooks(out)
	return out, nil
}

func bookField(b *bookmodel.Book, field string) (string, error) {
	switch field {
	case bookmodel.FieldTitle:
		return b.Title, nil
	case bookmodel.FieldSummary:
		return b.Summary, nil
	case bookmodel.FieldISBN:
		return b.ISBN, nil
	}
	return "", unknownField(field)
}

func sortBooks(books []bookmodel.Book) {
	sort.Slice(books, func(i, j int) bool {
		if books[i].Title != books[j].Title {
			return books[i].Title < books[j].Title
		}
		return books[i].ID.String() < books[j].ID.String()
	})
}

func (b *BookStore) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]bookmodel.Book, error) {
	if err := live(ctx, "book.list_by_author"); err != nil {
		return nil, err
	}
	b.s.mu.RLock()
	defer b.s.mu.RUnlock()

	out := []bookmodel.Book{}
	for _, rec := range b.s.books {
		if rec.AuthorID == authorID {
			out = append(out, rec)
		}
	}
	sortBooks(out)
	return out, nil
}

func (b *BookStore) CountByAuthor(ctx context.Context, authorID uuid.UUID) (int, error) {
	if err := live(ctx, "book.count_by_author"); err != nil {
		return 0, err
	}
	b.s.mu.RLock()
	defer b.s.mu.RUnlock()
	return b.s.countBooks(authorID), nil
}

func (b *BookStore) Update(ctx context.Context, book *bookmodel.Book) (*bookmodel.Book, error) {
	if err := live(ctx, "book.update"); err != nil {
		return nil, err
	}
	b.s.mu.Lock()
	defer b.s.mu.Unlock()

	rec, ok := b.s.books[book.ID]
	if !ok {
		return nil, bookmodel.ErrBookNotFound
	}
	if _, ok := b.s.authors[book.AuthorID]; !ok {
		return nil, bookmodel.ErrAuthorMissing
	}
	rec.Replace(book)
	rec.UpdatedAt = b.s.now()
	b.s.books[rec.ID] = rec
	return &rec, nil
}

func (b *BookStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := live(ctx, "book.delete"); err != nil {
		return err
	}
	b.s.mu.Lock()
	defer b.s.mu.Unlock()

	if _, ok := b.s.books[id]; !ok {
		return bookmodel.ErrBookNotFound
	}
	delete(b.s.books, id)
	return nil
}
