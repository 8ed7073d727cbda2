//go:build integration

package containers

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"staffdir/internal/platform/database"
	"staffdir/migrations"
)

// PostgresContainer wraps a testcontainers Postgres instance with the
// records schema applied.
type PostgresContainer struct {
	Container testcontainers.Container
	DSN       string
	DB        *sql.DB
}

// NewPostgresContainer starts a new Postgres container and applies migrations.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:18-alpine",
		postgres.WithDatabase("staffdir_test"),
		postgres.WithUsername("staffdir"),
		postgres.WithPassword("staffdir_test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to connect to postgres: %v", err)
	}

	if err := database.Migrate(ctx, db, migrations.FS); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to run migrations: %v", err)
	}

	// The container is shared through the Manager; Ryuk removes it when the
	// test process exits.
	return &PostgresContainer{
		Container: container,
		DSN:       dsn,
		DB:        db,
	}
}

// TruncateRecords clears the records table and resets its id sequence.
func (p *PostgresContainer) TruncateRecords(ctx context.Context) error {
	if _, err := p.DB.ExecContext(ctx, "TRUNCATE TABLE records RESTART IDENTITY"); err != nil {
		return fmt.Errorf("truncate records: %w", err)
	}
	return nil
}

// CountRecords returns the number of rows in the records table.
func (p *PostgresContainer) CountRecords(ctx context.Context, t testing.TB) int {
	t.Helper()
	var n int
	if err := p.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM records").Scan(&n); err != nil {
		t.Fatalf("CountRecords: %v", err)
	}
	return n
}
