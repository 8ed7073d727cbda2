package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"staffdir/internal/record/models"
)

// insertChunkSize bounds rows per INSERT statement; four parameters per row
// keeps each statement well under the 65535 bind-parameter limit.
const insertChunkSize = 1000

// PostgresStore persists records in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed record store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// InsertBatch inserts all records in a single transaction. Either every row
// is committed or none is. The records passed in are updated with their IDs.
func (s *PostgresStore) InsertBatch(ctx context.Context, records []*models.Record) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert records tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback() //nolint:errcheck // rollback after commit is no-op
	}()

	for start := 0; start < len(records); start += insertChunkSize {
		end := min(start+insertChunkSize, len(records))
		if err := insertChunk(ctx, tx, records[start:end]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return translateError("commit insert records", err)
	}
	return nil
}

func insertChunk(ctx context.Context, tx *sql.Tx, chunk []*models.Record) error {
	var b strings.Builder
	b.WriteString("INSERT INTO records (full_name, age, position, department) VALUES ")
	args := make([]any, 0, len(chunk)*4)
	for i, r := range chunk {
		if i > 0 {
			b.WriteString(", ")
		}
		n := i * 4
		fmt.Fprintf(&b, "($%d, $%d, $%d, $%d)", n+1, n+2, n+3, n+4)
		args = append(args, r.FullName, r.Age, r.Position, r.Department)
	}
	b.WriteString(" RETURNING id")

	rows, err := tx.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return translateError("insert records", err)
	}
	defer rows.Close()

	// RETURNING yields ids in VALUES order for a single multi-row insert.
	i := 0
	for rows.Next() {
		if i >= len(chunk) {
			return fmt.Errorf("insert records: more ids returned than rows inserted")
		}
		if err := rows.Scan(&chunk[i].ID); err != nil {
			return fmt.Errorf("scan record id: %w", err)
		}
		i++
	}
	if err := rows.Err(); err != nil {
		return translateError("insert records", err)
	}
	return nil
}

// Find returns the requested page of records matching filter, ordered by ID.
// The count and the page are read from the same snapshot.
func (s *PostgresStore) Find(ctx context.Context, filter models.Filter, page models.PageRequest) (*models.Page[*models.Record], error) {
	where, args, err := whereClause(filter, 1)
	if err != nil {
		return nil, fmt.Errorf("build record filter: %w", err)
	}
	if where != "" {
		where = " WHERE " + where
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("begin find records tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback() //nolint:errcheck // read-only tx
	}()

	var total int64
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM records"+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count records: %w", err)
	}

	content := make([]*models.Record, 0, page.Capacity(total))
	if total > page.Offset() {
		query := fmt.Sprintf(
			"SELECT id, full_name, age, position, department FROM records%s ORDER BY id ASC LIMIT $%d OFFSET $%d",
			where, len(args)+1, len(args)+2,
		)
		rows, err := tx.QueryContext(ctx, query, append(args, page.Size, page.Offset())...)
		if err != nil {
			return nil, fmt.Errorf("find records: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			record, err := scanRecord(rows)
			if err != nil {
				return nil, fmt.Errorf("scan record: %w", err)
			}
			content = append(content, record)
		}
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("iterate records: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit find records: %w", err)
	}
	return models.NewPage(content, page, total), nil
}

// Ping runs the trivial connectivity probe used by health checks.
func (s *PostgresStore) Ping(ctx context.Context) error {
	var one int
	if err := s.db.QueryRowContext(ctx, `SELECT 1`).Scan(&one); err != nil {
		return fmt.Errorf("probe records store: %w", err)
	}
	return nil
}

type recordRow interface {
	Scan(dest ...any) error
}

func scanRecord(row recordRow) (*models.Record, error) {
	var r models.Record
	if err := row.Scan(&r.ID, &r.FullName, &r.Age, &r.Position, &r.Department); err != nil {
		return nil, err
	}
	return &r, nil
}

// translateError maps integrity (class 23) and data (class 22) SQLSTATEs to
// ErrConstraintViolation and wraps everything else.
func translateError(op string, err error) error {
	if isConstraintViolation(err) {
		return fmt.Errorf("%s: %w: %w", op, ErrConstraintViolation, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isConstraintViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, "23") || strings.HasPrefix(pgErr.Code, "22")
	}
	return false
}
