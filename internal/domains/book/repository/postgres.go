package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"library-catalog/internal/domains/book/model"
	"library-catalog/internal/infrastructure/database"
	"library-catalog/internal/shared/query"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const bookColumns = `id, title, summary, isbn, author_id, created_at, updated_at`

type postgresRepository struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepository(pool *pgxpool.Pool, timeout time.Duration) Repository {
	return &postgresRepository{pool: pool, timeout: timeout}
}

func scanBook(row pgx.Row) (*model.Book, error) {
	var b model.Book
	if err := row.Scan(&b.ID, &b.Title, &b.Summary, &b.ISBN, &b.AuthorID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

// mapWriteError reports a foreign key failure on author_id as a missing
// author. The foreign key check locks the author row, which is what keeps
// author deletes and book writes from interleaving.
func mapWriteError(op string, err error, notFound error) error {
	if errors.Is(database.Classify(err), database.ErrForeignKeyViolation) {
		return model.ErrAuthorMissing
	}
	return database.MapError(op, err, notFound)
}

func (r *postgresRepository) Create(ctx context.Context, b *model.Book) (*model.Book, error) {
	ctx, cancel := database.WithTimeout(ctx, r.timeout)
	defer cancel()

	q := `
        INSERT INTO books (id, title, summary, isbn, author_id)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING ` + bookColumns

	created, err := scanBook(r.pool.QueryRow(ctx, q, uuid.New(), b.Title, b.Summary, b.ISBN, b.AuthorID))
	if err != nil {
		return nil, mapWriteError("book.create", err, nil)
	}
	return created, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	ctx, cancel := database.WithTimeout(ctx, r.timeout)
	defer cancel()

	b, err := scanBook(r.pool.QueryRow(ctx, `SELECT `+bookColumns+` FROM books WHERE id = $1`, id))
	if err != nil {
		return nil, database.MapError("book.get", err, model.ErrBookNotFound)
	}
	return b, nil
}

func (r *postgresRepository) List(ctx context.Context, filter query.Filter) ([]model.Book, error) {
	where, args, err := filter.Where(Columns, 1)
	if err != nil {
		return nil, err
	}

	var qb strings.Builder
	qb.WriteString(`SELECT ` + bookColumns + ` FROM books`)
	if where != "" {
		qb.WriteString(" WHERE " + where)
	}
	qb.WriteString(" ORDER BY title, id")

	return r.list(ctx, "book.list", qb.String(), args...)
}

func (r *postgresRepository) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]model.Book, error) {
	return r.list(ctx, "book.list_by_author",
		`SELECT `+bookColumns+` FROM books WHERE author_id = $1 ORDER BY title, id`, authorID)
}

func (r *postgresRepository) list(ctx context.Context, op, sql string, args ...any) ([]model.Book, error) {
	ctx, cancel := database.WithTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, database.MapError(op, err, nil)
	}
	defer rows.Close()

	books := []model.Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, database.MapError(op, err, nil)
		}
		books = append(books, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, database.MapError(op, err, nil)
	}
	return books, nil
}

func (r *postgresRepository) CountByAuthor(ctx context.Context, authorID uuid.UUID) (int, error) {
	ctx, cancel := database.WithTimeout(ctx, r.timeout)
	defer cancel()

	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM books WHERE author_id = $1`, authorID).Scan(&n); err != nil {
		return 0, database.MapError("book.count_by_author", err, nil)
	}
	return n, nil
}

func (r *postgresRepository) Update(ctx context.Context, b *model.Book) (*model.Book, error) {
	ctx, cancel := database.WithTimeout(ctx, r.timeout)
	defer cancel()

	q := `
        UPDATE books
        SET
            title = $1,
            summary = $2,
            isbn = $3,
            author_id = $4,
            updated_at = NOW()
        WHERE id = $5
        RETURNING ` + bookColumns

	updated, err := scanBook(r.pool.QueryRow(ctx, q, b.Title, b.Summary, b.ISBN, b.AuthorID, b.ID))
	if err != nil {
		return nil, mapWriteError("book.update", err, model.ErrBookNotFound)
	}
	return updated, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := database.WithTimeout(ctx, r.timeout)
	defer cancel()

	tag, err := r.pool.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return database.MapError("book.delete", err, nil)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}
	return nil
}
