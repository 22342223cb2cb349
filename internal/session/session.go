// Package session persists the console's bearer credential between runs
// and answers who the credential belongs to. The token is issued by the
// backend's OAuth flow; this package never refreshes it, it only stores,
// forwards and inspects it.
package session

import (
	"context"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"

	"github.com/Gurkunwar/dailybot-console/pkg/apperrors"
)

const tokenKey = "console:session"

// Sessions mirror the backend token lifetime.
const tokenTTL = 24 * time.Hour

func InitRedis() (*redis.Client, error) {
	addr := os.Getenv("REDIS_URL")
	if addr == "" {
		addr = "redis://localhost:6379"
	}

	opts, err := redis.ParseURL(addr)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opts)

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return rdb, nil
}

// Store holds the session token in redis so separate console invocations
// share one login.
type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

func (s *Store) Save(ctx context.Context, token string) error {
	return s.rdb.Set(ctx, tokenKey, token, tokenTTL).Err()
}

func (s *Store) Clear(ctx context.Context) error {
	return s.rdb.Del(ctx, tokenKey).Err()
}

// Token implements client.TokenSource. A missing or expired session is
// reported as an authentication failure before any request goes out.
func (s *Store) Token(ctx context.Context) (string, error) {
	token, err := s.rdb.Get(ctx, tokenKey).Result()
	if err == redis.Nil {
		return "", apperrors.Unauthenticated("not logged in, run `console login <token>`")
	}
	if err != nil {
		return "", apperrors.Network("read session", err)
	}
	if claims, cerr := Inspect(token); cerr == nil && claims.Expired(time.Now()) {
		return "", apperrors.Unauthenticated("session expired, log in again")
	}
	return token, nil
}

// Claims is the subset of the backend JWT the console cares about.
type Claims struct {
	UserID    string
	ExpiresAt time.Time
}

func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

// Inspect decodes the token claims without verifying the signature. The
// signing secret lives on the server; verification happens there on
// every request, this is display and expiry checking only.
func Inspect(token string) (Claims, error) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return Claims{}, apperrors.Wrap(apperrors.CodeUnauthenticated, "malformed token", err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, apperrors.Unauthenticated("invalid token claims")
	}

	out := Claims{}
	if id, ok := claims["user_id"].(string); ok {
		out.UserID = id
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out, nil
}
