package runlog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rohmanhakim/frontier-crawler/internal/config"
)

// PostgresStore persists run logs to the config_url_logs table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Create(ctx context.Context, log RunLog) (RunLog, error) {
	const q = `
		INSERT INTO config_url_logs
			(id, url, category, url_type, max_depth, status, target_patterns,
			 seed_pattern, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := s.pool.Exec(ctx, q,
		log.ID, log.URL, log.Category, int(log.UrlType), log.MaxDepth, string(log.Status),
		log.TargetPatterns, log.SeedPattern, log.CreatedAt, log.UpdatedAt,
	)
	if err != nil {
		return RunLog{}, fmt.Errorf("create run log: %w", err)
	}
	return log, nil
}

func (s *PostgresStore) Start(ctx context.Context, id string, startTime time.Time) error {
	const q = `UPDATE config_url_logs SET status = $1, start_time = $2, updated_at = $2 WHERE id = $3`
	tag, err := s.pool.Exec(ctx, q, string(StatusRunning), startTime, id)
	if err != nil {
		return fmt.Errorf("start run log: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) AddCounters(ctx context.Context, id string, totalDelta, targetDelta, seedDelta, failedDelta int) error {
	const q = `UPDATE config_url_logs SET
		total_urls_found = total_urls_found + $1,
		target_urls_found = target_urls_found + $2,
		seed_urls_found = seed_urls_found + $3,
		failed_urls = failed_urls + $4,
		updated_at = now()
		WHERE id = $5`
	tag, err := s.pool.Exec(ctx, q, totalDelta, targetDelta, seedDelta, failedDelta, id)
	if err != nil {
		return fmt.Errorf("add run log counters: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) AddWarning(ctx context.Context, id string, message string) error {
	const q = `UPDATE config_url_logs SET warning_messages = array_append(warning_messages, $1), updated_at = now() WHERE id = $2`
	tag, err := s.pool.Exec(ctx, q, message, id)
	if err != nil {
		return fmt.Errorf("add run log warning: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) SetReachedDepth(ctx context.Context, id string, depth int) error {
	const q = `UPDATE config_url_logs SET reached_depth = GREATEST(reached_depth, $1), updated_at = now() WHERE id = $2`
	tag, err := s.pool.Exec(ctx, q, depth, id)
	if err != nil {
		return fmt.Errorf("set reached depth: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Finish(ctx context.Context, id string, status Status, endTime time.Time, errMessage string) error {
	const q = `UPDATE config_url_logs SET status = $1, end_time = $2, error_message = $3, updated_at = $2 WHERE id = $4`
	tag, err := s.pool.Exec(ctx, q, string(status), endTime, errMessage, id)
	if err != nil {
		return fmt.Errorf("finish run log: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (RunLog, error) {
	const q = `SELECT id, url, category, url_type, max_depth, status, start_time, end_time,
		total_urls_found, target_urls_found, seed_urls_found, failed_urls, reached_depth,
		target_patterns, seed_pattern, error_message, warning_messages, created_at, updated_at
		FROM config_url_logs WHERE id = $1`

	var (
		log        RunLog
		urlType    int
		status     string
		startTime  *time.Time
		endTime    *time.Time
	)
	err := s.pool.QueryRow(ctx, q, id).Scan(
		&log.ID, &log.URL, &log.Category, &urlType, &log.MaxDepth, &status, &startTime, &endTime,
		&log.TotalURLsFound, &log.TargetURLsFound, &log.SeedURLsFound, &log.FailedURLs, &log.ReachedDepth,
		&log.TargetPatterns, &log.SeedPattern, &log.ErrorMessage, &log.WarningMessages, &log.CreatedAt, &log.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return RunLog{}, ErrNotFound
	}
	if err != nil {
		return RunLog{}, fmt.Errorf("get run log: %w", err)
	}
	parsedType, err := config.ParseUrlType(urlType)
	if err != nil {
		return RunLog{}, err
	}
	log.UrlType = parsedType
	log.Status = Status(status)
	if startTime != nil {
		log.StartTime = *startTime
	}
	if endTime != nil {
		log.EndTime = *endTime
	}
	return log, nil
}
