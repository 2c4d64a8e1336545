package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sakin2155/anime-auto-scraper-1/internal/core/domain"
)

// sqliteTimeLayout is fixed-width so that text ordering matches time ordering
const sqliteTimeLayout = "2006-01-02T15:04:05.000000Z"

type SQLiteRunRepository struct {
	db *sql.DB
}

func NewSQLiteRunRepository(dbPath string) (*SQLiteRunRepository, error) {
	// The default path lives under OUTPUT_DIR, which may not exist before the first export
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single writer avoids "database is locked" between the scheduler and API
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := migrateSQLite(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	log.Printf("[DEBUG] SQLiteRunRepository - database initialized at %s", dbPath)
	return &SQLiteRunRepository{db: db}, nil
}

func (r *SQLiteRunRepository) Save(run domain.Run) error {
	query := `
		INSERT INTO export_runs (id, run_limit, status, start_time, end_time, output_file, remote_path, bytes, error_message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			end_time = excluded.end_time,
			output_file = excluded.output_file,
			remote_path = excluded.remote_path,
			bytes = excluded.bytes,
			error_message = excluded.error_message
	`

	var endTime *string
	if run.EndTime != nil {
		s := run.EndTime.UTC().Format(sqliteTimeLayout)
		endTime = &s
	}

	_, err := r.db.Exec(
		query,
		run.ID,
		run.Limit,
		string(run.Status),
		run.StartTime.UTC().Format(sqliteTimeLayout),
		endTime,
		run.OutputFile,
		run.RemotePath,
		run.Bytes,
		run.ErrorMessage,
		time.Now().UTC().Format(sqliteTimeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	log.Printf("[DEBUG] SQLiteRunRepository - saved run: id=%s, status=%s", run.ID, run.Status)
	return nil
}

func (r *SQLiteRunRepository) FindByID(id string) (domain.Run, error) {
	query := `
		SELECT id, run_limit, status, start_time, end_time, output_file, remote_path, bytes, error_message
		FROM export_runs
		WHERE id = ?
	`

	run, err := scanSQLiteRun(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Run{}, domain.ErrRunNotFound
	}
	if err != nil {
		return domain.Run{}, fmt.Errorf("failed to find run: %w", err)
	}
	return run, nil
}

func (r *SQLiteRunRepository) FindRecent(limit int) ([]domain.Run, error) {
	query := `
		SELECT id, run_limit, status, start_time, end_time, output_file, remote_path, bytes, error_message
		FROM export_runs
		ORDER BY start_time DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	runs := make([]domain.Run, 0)
	for rows.Next() {
		run, err := scanSQLiteRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

func (r *SQLiteRunRepository) Close() error {
	return r.db.Close()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSQLiteRun(row rowScanner) (domain.Run, error) {
	var run domain.Run
	var status string
	var startTimeStr string
	var endTimeStr *string

	err := row.Scan(
		&run.ID,
		&run.Limit,
		&status,
		&startTimeStr,
		&endTimeStr,
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

	startTime, err := time.Parse(sqliteTimeLayout, startTimeStr)
	if err != nil {
		return domain.Run{}, fmt.Errorf("failed to parse start time: %w", err)
	}
	run.StartTime = startTime

	if endTimeStr != nil {
		endTime, err := time.Parse(sqliteTimeLayout, *endTimeStr)
		if err != nil {
			return domain.Run{}, fmt.Errorf("failed to parse end time: %w", err)
		}
		run.EndTime = &endTime
	}

	return run, nil
}
