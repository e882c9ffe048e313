package cache

import (
	"chebyshev-board/internal/domain"
	"chebyshev-board/internal/platform/obs"
	"chebyshev-board/internal/ports"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// SQLite backed cache of generated explanation text.
// Expiry is stored per row (NULL = never) and checked on read; expired rows are
// deleted lazily when they are looked up.
type SqliteExplanationCache struct {
	DB  *sql.DB
	now func() time.Time
}

var _ ports.BatchExplanationCache = (*SqliteExplanationCache)(nil)

func NewSqliteExplanationCache(db *sql.DB) *SqliteExplanationCache {
	return &SqliteExplanationCache{DB: db, now: time.Now}
}

// Fetch one cached explanation.
func (s *SqliteExplanationCache) Get(
	ctx context.Context,
	key domain.ExplanationKey,
) (_ string, _ bool, err error) {
	defer obs.Time(ctx, "explanation.cache.Get")(&err)

	if s.DB == nil {
		return "", false, errors.New("explanation cache: db is nil")
	}

	var text string
	var expiresAt sql.NullInt64
	err = s.DB.QueryRowContext(ctx, `
	SELECT text, expires_at
    FROM explanation_cache
    WHERE cache_key = ?;
	`, key.String()).Scan(&text, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get explanation cache: query explanation_cache table: %w", err)
	}

	if expiresAt.Valid && s.now().UnixMilli() >= expiresAt.Int64 {
		if _, err := s.DB.ExecContext(ctx, `DELETE FROM explanation_cache WHERE cache_key = ?;`, key.String()); err != nil {
			return "", false, fmt.Errorf("get explanation cache: delete expired key: %w", err)
		}
		return "", false, nil
	}

	return text, true, nil
}

// Fetch cached explanations for many keys; missing and expired keys are absent from the result.
func (s *SqliteExplanationCache) GetMany(
	ctx context.Context,
	keys []domain.ExplanationKey,
) (_ map[domain.ExplanationKey]string, err error) {
	defer obs.Time(ctx, "explanation.cache.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("explanation cache: db is nil")
	}

	byString := make(map[string]domain.ExplanationKey, len(keys))
	ph := make([]string, 0, len(keys))
	args := make([]any, 0, 1+len(keys))
	args = append(args, s.now().UnixMilli())
	for _, k := range keys {
		ks := k.String()
		if _, ok := byString[ks]; ok {
			continue
		}
		byString[ks] = k
		ph = append(ph, "?")
		args = append(args, ks)
	}

	if len(byString) == 0 {
		return map[domain.ExplanationKey]string{}, nil
	}

	// SQLite does not support binding slices directly in an IN (...) clause.
	// Only the placeholder structure is interpolated; all values remain parameterized.
	q := fmt.Sprintf(`
	SELECT
        cache_key,
        text
    FROM explanation_cache
    WHERE (expires_at IS NULL OR expires_at > ?)
        AND cache_key IN (%s);
	`, strings.Join(ph, ","))

	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("get explanation cache: query explanation_cache table: %w", err)
	}
	defer rows.Close()

	out := make(map[domain.ExplanationKey]string, len(byString))
	for rows.Next() {
		var ks, text string
		if err := rows.Scan(&ks, &text); err != nil {
			return nil, fmt.Errorf("get explanation cache: scan rows: %w", err)
		}
		out[byString[ks]] = text
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get explanation cache: row iteration: %w", err)
	}

	return out, nil
}

// Store one explanation; a non-positive ttl never expires.
func (s *SqliteExplanationCache) Set(
	ctx context.Context,
	key domain.ExplanationKey,
	text string,
	ttl time.Duration,
) error {
	if s.DB == nil {
		return errors.New("explanation cache: db is nil")
	}

	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("insert explanation cache key=%q: empty text", key.String())
	}

	now := s.now()
	var expiresAt sql.NullInt64
	if ttl > 0 {
		expiresAt = sql.NullInt64{Int64: now.Add(ttl).UnixMilli(), Valid: true}
	}

	_, err := s.DB.ExecContext(ctx, `
	INSERT OR REPLACE INTO explanation_cache (
        cache_key,
        language,
        text,
        created_at,
        expires_at
    )
    VALUES (?, ?, ?, ?, ?);
	`, key.String(), key.Language, text, now.UnixMilli(), expiresAt)
	if err != nil {
		return fmt.Errorf("insert explanation cache key=%q: %w", key.String(), err)
	}

	return nil
}
