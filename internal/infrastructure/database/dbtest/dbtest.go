//go:build integration

// Package dbtest starts a throwaway PostgreSQL container with the catalog
// schema applied, for integration tests.
package dbtest

import (
	"context"
	"testing"
	"time"

	"library-catalog/internal/infrastructure/database"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Start runs a PostgreSQL container, migrates it up and returns a connected
// pool. Everything is torn down when the test ends.
func Start(t *testing.T) *database.PostgresDB {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("library_catalog"),
		postgres.WithUsername("catalog"),
		postgres.WithPassword("catalog"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start PostgreSQL container: %v", err)
	}
	t.Cleanup(func() {
		if err := pgContainer.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := pgContainer.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := pgContainer.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("container port: %v", err)
	}

	cfg := &database.DBConfig{
		Host:              host,
		Port:              port.Int(),
		Username:          "catalog",
		Password:          "catalog",
		DBName:            "library_catalog",
		SSLMode:           "disable",
		MaxConns:          10,
		MinConns:          1,
		MaxConnLifetime:   time.Hour,
		MaxConnIdleTime:   time.Minute,
		HealthCheckPeriod: time.Minute,
		MaxRetries:        3,
		RetryDelay:        time.Second,
		ConnectTimeout:    10 * time.Second,
		QueryTimeout:      5 * time.Second,
	}

	m, err := database.NewMigrator(cfg)
	if err != nil {
		t.Fatalf("open migrations: %v", err)
	}
	if err := m.Up(); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
	_ = m.Close()

	db := database.NewPostgresDB(cfg)
	if err := db.Connect(ctx); err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(db.Close)

	return db
}

// Truncate empties every catalog table.
func Truncate(t *testing.T, db *database.PostgresDB) {
	t.Helper()
	if _, err := db.Pool.Exec(context.Background(), `TRUNCATE books, authors`); err != nil {
		t.Fatalf("truncate: %v", err)
	}
}
