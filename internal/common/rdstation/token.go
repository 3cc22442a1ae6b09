// internal/common/rdstation/token.go
package rdstation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	tokenCacheKey = "rdstation:token"
	latestToken   = `SELECT acess_token FROM rd_marketing_auth ORDER BY id DESC LIMIT 1`
)

// ErrNoToken means rd_marketing_auth holds no usable token.
var ErrNoToken = errors.New("no RD Station access token stored")

// DBTokenSource reads the newest token from Postgres and caches it in Redis.
// Redis failures fall through to the database.
type DBTokenSource struct {
	db    *sql.DB
	cache redis.Cmdable
	ttl   time.Duration
}

func NewDBTokenSource(db *sql.DB, cache redis.Cmdable, ttl time.Duration) *DBTokenSource {
	return &DBTokenSource{db: db, cache: cache, ttl: ttl}
}

func (s *DBTokenSource) Token(ctx context.Context) (string, error) {
	if s.cache != nil {
		if token, err := s.cache.Get(ctx, tokenCacheKey).Result(); err == nil && token != "" {
			return token, nil
		}
	}

	var token sql.NullString
	err := s.db.QueryRowContext(ctx, latestToken).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && token.String == "") {
		return "", ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("query access token: %w", err)
	}

	if s.cache != nil && s.ttl > 0 {
		_ = s.cache.Set(ctx, tokenCacheKey, token.String, s.ttl).Err()
	}
	return token.String, nil
}

// Invalidate drops the cached token, e.g. after a 401.
func (s *DBTokenSource) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Del(ctx, tokenCacheKey).Err()
}
