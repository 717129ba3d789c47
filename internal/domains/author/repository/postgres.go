package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"library-catalog/internal/domains/author/model"
	"library-catalog/internal/domains/integrity"
	"library-catalog/internal/infrastructure/database"
	"library-catalog/internal/shared/apperr"
	"library-catalog/internal/shared/query"
	txdb "library-catalog/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const authorColumns = `id, name, first_name, family_name, date_of_birth, date_of_death, created_at, updated_at`

type postgresRepository struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// NewPostgresRepository bounds every call by timeout unless the caller's
// context already has a deadline.
func NewPostgresRepository(pool *pgxpool.Pool, timeout time.Duration) Repository {
	return &postgresRepository{pool: pool, timeout: timeout}
}

func scanAuthor(row pgx.Row) (*model.Author, error) {
	var a model.Author
	err := row.Scan(
		&a.ID,
		&a.Name,
		&a.FirstName,
		&a.FamilyName,
		&a.DateOfBirth,
		&a.DateOfDeath,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *postgresRepository) Create(ctx context.Context, a *model.Author) (*model.Author, error) {
	ctx, cancel := database.WithTimeout(ctx, r.timeout)
	defer cancel()

	q := `
        INSERT INTO authors (id, name, first_name, family_name, date_of_birth, date_of_death)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING ` + authorColumns

	created, err := scanAuthor(r.pool.QueryRow(ctx, q,
		uuid.New(),
		a.Name,
		a.FirstName,
		a.FamilyName,
		a.DateOfBirth,
		a.DateOfDeath,
	))
	if err != nil {
		return nil, database.MapError("author.create", err, nil)
	}
	return created, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Author, error) {
	ctx, cancel := database.WithTimeout(ctx, r.timeout)
	defer cancel()

	a, err := scanAuthor(r.pool.QueryRow(ctx, `SELECT `+authorColumns+` FROM authors WHERE id = $1`, id))
	if err != nil {
		return nil, database.MapError("author.get", err, model.ErrAuthorNotFound)
	}
	return a, nil
}

func (r *postgresRepository) List(ctx context.Context, filter query.Filter) ([]model.Author, error) {
	ctx, cancel := database.WithTimeout(ctx, r.timeout)
	defer cancel()

	var qb strings.Builder
	qb.WriteString(`SELECT ` + authorColumns + ` FROM authors`)

	where, args, err := filter.Where(Columns, 1)
	if err != nil {
		return nil, err
	}
	if where != "" {
		qb.WriteString(" WHERE " + where)
	}
	qb.WriteString(" ORDER BY family_name, first_name, id")

	rows, err := r.pool.Query(ctx, qb.String(), args...)
	if err != nil {
		return nil, database.MapError("author.list", err, nil)
	}
	defer rows.Close()

	authors := []model.Author{}
	for rows.Next() {
		a, err := scanAuthor(rows)
		if err != nil {
			return nil, database.MapError("author.list", err, nil)
		}
		authors = append(authors, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, database.MapError("author.list", err, nil)
	}

	return authors, nil
}

func (r *postgresRepository) Update(ctx context.Context, a *model.Author) (*model.Author, error) {
	ctx, cancel := database.WithTimeout(ctx, r.timeout)
	defer cancel()

	q := `
        UPDATE authors
        SET
            name = $1,
            first_name = $2,
            family_name = $3,
            date_of_birth = $4,
            date_of_death = $5,
            updated_at = NOW()
        WHERE id = $6
        RETURNING ` + authorColumns

	updated, err := scanAuthor(r.pool.QueryRow(ctx, q,
		a.Name,
		a.FirstName,
		a.FamilyName,
		a.DateOfBirth,
		a.DateOfDeath,
		a.ID,
	))
	if err != nil {
		return nil, database.MapError("author.update", err, model.ErrAuthorNotFound)
	}
	return updated, nil
}

// Delete locks the author row, runs check against the same transaction and
// deletes. Book inserts take a key-share lock on the author through the
// foreign key, so none can land between the check and the delete.
func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID, check integrity.Check) error {
	ctx, cancel := database.WithTimeout(ctx, r.timeout)
	defer cancel()

	err := txdb.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		var locked uuid.UUID
		err := tx.QueryRow(ctx, `SELECT id FROM authors WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
		if err != nil {
			return database.MapError("author.delete.lock", err, model.ErrAuthorNotFound)
		}

		if check != nil {
			if err := check(ctx, bookCounter{q: tx}, id); err != nil {
				return err
			}
		}

		if _, err := tx.Exec(ctx, `DELETE FROM authors WHERE id = $1`, id); err != nil {
			if errors.Is(database.Classify(err), database.ErrForeignKeyViolation) {
				return fmt.Errorf("author %s: %w", id, integrity.ErrAuthorHasBooks)
			}
			return database.MapError("author.delete", err, nil)
		}
		return nil
	})

	return apperr.Storage("author.delete", err)
}

// bookCounter counts books through whatever Querier it is bound to.
type bookCounter struct {
	q database.Querier
}

func (c bookCounter) CountByAuthor(ctx context.Context, authorID uuid.UUID) (int, error) {
	var n int
	if err := c.q.QueryRow(ctx, `SELECT COUNT(*) FROM books WHERE author_id = $1`, authorID).Scan(&n); err != nil {
		return 0, database.MapError("author.count_books", err, nil)
	}
	return n, nil
}
