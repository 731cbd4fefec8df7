package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"netcommand/internal/domain"
	"netcommand/internal/repository"

	_ "modernc.org/sqlite"
)

// Repository implements repository.Repository using SQLite
type Repository struct {
	db *sql.DB
}

var _ repository.Repository = (*Repository)(nil)

// New creates a new SQLite repository
func New(dbPath string) (*Repository, error) {
	dsn := dbPath
	if dbPath != ":memory:" {
		dsn = "file:" + dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps an in-memory database alive and serializes writers
	db.SetMaxOpenConns(1)

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS requests (
		id TEXT PRIMARY KEY,
		command TEXT NOT NULL,
		parameters JSON,
		status TEXT NOT NULL,
		output JSON,
		error TEXT,
		error_class TEXT,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		completed_at DATETIME
	);

	CREATE INDEX IF NOT EXISTS idx_requests_command ON requests(command);
	CREATE INDEX IF NOT EXISTS idx_requests_status ON requests(status);
	CREATE INDEX IF NOT EXISTS idx_requests_created ON requests(created_at);
	`

	_, err := r.db.Exec(schema)
	return err
}

// CreateRequest inserts a new request record
func (r *Repository) CreateRequest(ctx context.Context, req *domain.Request) error {
	args, err := requestInsertArgs(req)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO requests (`+requestColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, args...)
	if err != nil {
		return fmt.Errorf("failed to insert request: %w", err)
	}
	return nil
}

// UpdateRequest stores the mutable fields of an existing request
func (r *Repository) UpdateRequest(ctx context.Context, req *domain.Request) error {
	args, err := requestInsertArgs(req)
	if err != nil {
		return err
	}

	// args order: id, command, parameters, status, output, error,
	// error_class, created_at, updated_at, completed_at
	result, err := r.db.ExecContext(ctx, `
		UPDATE requests
		SET status = ?, output = ?, error = ?, error_class = ?, updated_at = ?, completed_at = ?
		WHERE id = ?
	`, args[3], args[4], args[5], args[6], args[8], args[9], args[0])
	if err != nil {
		return fmt.Errorf("failed to update request: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update request: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// GetRequest retrieves a request by ID
func (r *Repository) GetRequest(ctx context.Context, id string) (*domain.Request, error) {
	var row requestRow
	err := r.db.QueryRowContext(ctx, `
		SELECT `+requestColumns+`
		FROM requests
		WHERE id = ?
	`, id).Scan(row.scanArgs()...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query request: %w", err)
	}

	return row.toDomain()
}

// ListRequests returns requests matching filter, newest first
func (r *Repository) ListRequests(ctx context.Context, filter repository.RequestFilter) ([]*domain.Request, error) {
	var (
		where []string
		args  []interface{}
	)
	if filter.Command != "" {
		where = append(where, "command = ?")
		args = append(args, filter.Command)
	}
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(filter.Status))
	}

	query := `SELECT ` + requestColumns + ` FROM requests`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, rowid DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query requests: %w", err)
	}
	defer rows.Close()

	requests := []*domain.Request{}
	for rows.Next() {
		var row requestRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		req, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating requests: %w", err)
	}
	return requests, nil
}

// PruneBefore deletes completed requests created before cutoff
func (r *Repository) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM requests
		WHERE created_at < ? AND status IN (?, ?)
	`, cutoff.UTC(), string(domain.RequestStatusSuccess), string(domain.RequestStatusError))
	if err != nil {
		return 0, fmt.Errorf("failed to prune requests: %w", err)
	}
	return result.RowsAffected()
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}
