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

// SQLExplanationCache is a postgres-backed cache of generated explanation text.
type SQLExplanationCache struct {
	DB  *sql.DB
	now func() time.Time
}

var _ ports.BatchExplanationCache = (*SQLExplanationCache)(nil)

func NewSQLExplanationCache(db *sql.DB) *SQLExplanationCache {
	return &SQLExplanationCache{DB: db, now: time.Now}
}

// Fetch one cached explanation.
func (s *SQLExplanationCache) Get(
	ctx context.Context,
	key domain.ExplanationKey,
) (string, bool, error) {
	found, err := s.GetMany(ctx, []domain.ExplanationKey{key})
	if err != nil {
		return "", false, err
	}
	text, ok := found[key]
	return text, ok, nil
}

// Fetch cached explanations for many keys; missing and expired keys are absent from the result.
func (s *SQLExplanationCache) GetMany(
	ctx context.Context,
	keys []domain.ExplanationKey,
) (_ map[domain.ExplanationKey]string, err error) {
	defer obs.Time(ctx, "explanation.cache.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("explanation cache: db is nil")
	}

	byString := make(map[string]domain.ExplanationKey, len(keys))
	uniq := make([]string, 0, len(keys))
	for _, k := range keys {
		ks := k.String()
		if _, ok := byString[ks]; ok {
			continue
		}
		byString[ks] = k
		uniq = append(uniq, ks)
	}

	if len(uniq) == 0 {
		return map[domain.ExplanationKey]string{}, nil
	}

	q := `
	SELECT cache_key, text
    FROM explanation_cache
    WHERE cache_key = ANY($1::text[])
        AND (expires_at IS NULL OR expires_at > $2);
	`

	rows, err := s.DB.QueryContext(ctx, q, uniq, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("get explanation cache: query explanation_cache table: %w", err)
	}
	defer rows.Close()

	out := make(map[domain.ExplanationKey]string, len(uniq))
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
func (s *SQLExplanationCache) Set(
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

	now := s.now().UTC()
	var expiresAt sql.NullTime
	if ttl > 0 {
		expiresAt = sql.NullTime{Time: now.Add(ttl), Valid: true}
	}

	_, err := s.DB.ExecContext(ctx, `
	INSERT INTO explanation_cache (cache_key, language, text, created_at, expires_at)
    VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (cache_key) DO UPDATE
	SET text = EXCLUDED.text,
		created_at = EXCLUDED.created_at,
		expires_at = EXCLUDED.expires_at;
	`, key.String(), key.Language, text, now, expiresAt)
	if err != nil {
		return fmt.Errorf("insert explanation cache key=%q: %w", key.String(), err)
	}

	return nil
}
