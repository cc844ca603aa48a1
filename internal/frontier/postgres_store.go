package frontier

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rohmanhakim/frontier-crawler/internal/config"
)

// PostgresStore persists frontier entries to the url_frontier table.
// SQL is hand-written and issued directly against pgxpool.Pool rather
// than through a generated query layer.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Admit(ctx context.Context, entry Entry) (Entry, error) {
	const q = `
		INSERT INTO url_frontier
			(id, url, category, url_type, depth, max_depth, main_domain,
			 target_patterns, seed_pattern, has_seed_pattern, is_target,
			 parent_url, status, error_message, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (url) DO NOTHING`

	tag, err := s.pool.Exec(ctx, q,
		entry.ID, entry.URL.String(), entry.Category, int(entry.UrlType),
		entry.Depth, entry.MaxDepth, entry.MainDomain, entry.TargetPatterns,
		entry.SeedPattern, entry.HasSeedPattern, entry.IsTarget, entry.ParentURL,
		string(entry.Status), entry.ErrorMessage, entry.CreatedAt, entry.UpdatedAt,
	)
	if err != nil {
		return Entry{}, fmt.Errorf("admit entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return Entry{}, ErrAlreadyAdmitted
	}
	return entry, nil
}

func (s *PostgresStore) GetByURL(ctx context.Context, rawURL string) (Entry, error) {
	const q = `SELECT id, url, category, url_type, depth, max_depth, main_domain,
		target_patterns, seed_pattern, has_seed_pattern, is_target, parent_url,
		status, error_message, created_at, updated_at
		FROM url_frontier WHERE url = $1`

	row := s.pool.QueryRow(ctx, q, rawURL)
	entry, err := scanEntry(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("get entry by url: %w", err)
	}
	return entry, nil
}

func (s *PostgresStore) Exists(ctx context.Context, rawURL string) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM url_frontier WHERE url = $1)`
	var exists bool
	if err := s.pool.QueryRow(ctx, q, rawURL).Scan(&exists); err != nil {
		return false, fmt.Errorf("check entry exists: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) SetStatus(ctx context.Context, id string, status Status, errMessage string) error {
	const q = `UPDATE url_frontier SET status = $1, error_message = $2, updated_at = now()
		WHERE id = $3 AND (
			(status = 'PENDING' AND $1 IN ('PROCESSING', 'SKIPPED')) OR
			(status = 'PROCESSING' AND $1 IN ('PROCESSED', 'FAILED'))
		)`

	tag, err := s.pool.Exec(ctx, q, string(status), errMessage, id)
	if err != nil {
		return fmt.Errorf("set status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if exists, _ := s.idExists(ctx, id); !exists {
			return ErrNotFound
		}
		return ErrIllegalTransition
	}
	return nil
}

func (s *PostgresStore) idExists(ctx context.Context, id string) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM url_frontier WHERE id = $1)`
	var exists bool
	err := s.pool.QueryRow(ctx, q, id).Scan(&exists)
	return exists, err
}

func (s *PostgresStore) MarkTarget(ctx context.Context, id string) error {
	const q = `UPDATE url_frontier SET is_target = true, updated_at = now() WHERE id = $1`
	tag, err := s.pool.Exec(ctx, q, id)
	if err != nil {
		return fmt.Errorf("mark target: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) TakePending(ctx context.Context, category string, n int) ([]Entry, error) {
	const q = `
		WITH claimed AS (
			SELECT id FROM url_frontier
			WHERE category = $1 AND status = 'PENDING'
			ORDER BY created_at
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)
		UPDATE url_frontier SET status = 'PROCESSING', updated_at = now()
		WHERE id IN (SELECT id FROM claimed)
		RETURNING id, url, category, url_type, depth, max_depth, main_domain,
			target_patterns, seed_pattern, has_seed_pattern, is_target, parent_url,
			status, error_message, created_at, updated_at`

	rows, err := s.pool.Query(ctx, q, category, n)
	if err != nil {
		return nil, fmt.Errorf("take pending: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pending entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (s *PostgresStore) GetProcessedSeeds(ctx context.Context, category string) ([]Entry, error) {
	const q = `SELECT id, url, category, url_type, depth, max_depth, main_domain,
		target_patterns, seed_pattern, has_seed_pattern, is_target, parent_url,
		status, error_message, created_at, updated_at
		FROM url_frontier
		WHERE category = $1 AND status = 'PROCESSED' AND is_target = false AND has_seed_pattern = true`

	rows, err := s.pool.Query(ctx, q, category)
	if err != nil {
		return nil, fmt.Errorf("get processed seeds: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan seed entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Statistics counts each entry into exactly one of target/seed/failed,
// mirroring MemoryStore's priority switch: a FAILED entry counts only
// as failed even if it was also is_target or seed-pattern-eligible,
// so TargetURLs+SeedURLs+FailedURLs never double-counts against
// TotalURLs the way independent FILTER counts would.
func (s *PostgresStore) Statistics(ctx context.Context, category string) (Statistics, error) {
	const q = `SELECT
		count(*),
		count(*) FILTER (WHERE status <> 'FAILED' AND is_target),
		count(*) FILTER (WHERE status <> 'FAILED' AND NOT is_target AND has_seed_pattern),
		count(*) FILTER (WHERE status = 'FAILED'),
		coalesce(max(depth), 0)
		FROM url_frontier WHERE category = $1`

	var stats Statistics
	err := s.pool.QueryRow(ctx, q, category).Scan(
		&stats.TotalURLs, &stats.TargetURLs, &stats.SeedURLs, &stats.FailedURLs, &stats.ReachedDepth,
	)
	if err != nil {
		return Statistics{}, fmt.Errorf("statistics: %w", err)
	}
	return stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (Entry, error) {
	var (
		e       Entry
		rawURL  string
		urlType int
		status  string
	)
	err := row.Scan(
		&e.ID, &rawURL, &e.Category, &urlType, &e.Depth, &e.MaxDepth, &e.MainDomain,
		&e.TargetPatterns, &e.SeedPattern, &e.HasSeedPattern, &e.IsTarget, &e.ParentURL,
		&status, &e.ErrorMessage, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return Entry{}, err
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return Entry{}, err
	}
	e.URL = *parsed
	parsedType, err := config.ParseUrlType(urlType)
	if err != nil {
		return Entry{}, err
	}
	e.UrlType = parsedType
	e.Status = Status(status)
	return e, nil
}
