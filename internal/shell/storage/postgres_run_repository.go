package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq"

	"github.com/sakin2155/anime-auto-scraper-1/internal/config"
	"github.com/sakin2155/anime-auto-scraper-1/internal/core/domain"
)

type PostgresRunRepository struct {
	db *sql.DB
}

func NewPostgresRunRepository(cfg config.DatabaseConfig) (*PostgresRunRepository, error) {
	db, err := sql.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := migratePostgres(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	log.Printf("[DEBUG] PostgresRunRepository - database initialized successfully")
	return &PostgresRunRepository{db: db}, nil
}

func (r *PostgresRunRepository) Save(run domain.Run) error {
	query := `
		INSERT INTO export_runs (id, run_limit, status, start_time, end_time, output_file, remote_path, bytes, error_message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status, end_time = excluded.end_time,
			output_file = excluded.output_file, remote_path = excluded.remote_path,
			bytes = excluded.bytes, error_message = excluded.error_message`

	_, err := r.db.Exec(
		query,
		run.ID,
		run.Limit,
		string(run.Status),
		run.StartTime.UTC(),
		run.EndTime,
		run.OutputFile,
		run.RemotePath,
		run.Bytes,
		run.ErrorMessage,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	log.Printf("[DEBUG] PostgresRunRepository - saved run: id=%s, status=%s", run.ID, run.Status)
	return nil
}

func (r *PostgresRunRepository) FindByID(id string) (domain.Run, error) {
	query := `
		SELECT id, run_limit, status, start_time, end_time, output_file, remote_path, bytes, error_message
		FROM export_runs WHERE id = $1`

	run, err := scanPostgresRun(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Run{}, domain.ErrRunNotFound
	}
	if err != nil {
		return domain.Run{}, fmt.Errorf("failed to find run: %w", err)
	}
	return run, nil
}

func (r *PostgresRunRepository) FindRecent(limit int) ([]domain.Run, error) {
	query := `
		SELECT id, run_limit, status, start_time, end_time, output_file, remote_path, bytes, error_message
		FROM export_runs ORDER BY start_time DESC LIMIT $1`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	runs := make([]domain.Run, 0)
	for rows.Next() {
		run, err := scanPostgresRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (r *PostgresRunRepository) Close() error {
	return r.db.Close()
}

func scanPostgresRun(row rowScanner) (domain.Run, error) {
	var run domain.Run
	var status string
	var endTime sql.NullTime

	err := row.Scan(
		&run.ID,
		&run.Limit,
		&status,
		&run.StartTime,
		&endTime,
		&run.OutputFile,
		&run.RemotePath,
		&run.Bytes,
		&run.ErrorMessage,
	)
	if err != nil {
		return domain.Run{}, err
	}

	if !domain.IsValidRunStatus(status) {
		return domain.Run{}, fmt.Errorf("%w: %s", domain.ErrInvalidRunStatus, status)
	}
	run.Status = domain.RunStatus(status)
	run.StartTime = run.StartTime.UTC()

	if endTime.Valid {
		t := endTime.Time.UTC()
		run.EndTime = &t
	}
	return run, nil
}
