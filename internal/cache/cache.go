// Package cache provides the read-through cache used by the badge read APIs.
//
// Values are stored JSON-encoded so the memory and redis providers behave the
// same way: a Get always decodes a private copy. Entries are grouped by key
// prefix so every entry belonging to one user can be dropped with a single
// DeletePrefix call when that user's progress or awards change.
//
// Each user also has a generation counter, kept outside the user prefix and
// bumped on every write. Entry keys embed the generation they were loaded
// under, so a reader that loaded rows before a write and stores them after
// the write's invalidation parks them under a key nobody asks for anymore.
package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// Providers accepted by New.
const (
	ProviderMemory = "memory"
	ProviderRedis  = "redis"
	ProviderNone   = "none"
)

// Cache is the minimal contract the service layer needs.
type Cache interface {
	// Get decodes the value stored under key into dst and reports whether
	// it was present and not expired.
	Get(ctx context.Context, key string, dst any) (bool, error)
	// Set stores v under key for ttl. A ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, v any, ttl time.Duration) error
	// DeletePrefix removes every key starting with prefix.
	DeletePrefix(ctx context.Context, prefix string) error
	// Incr atomically adds one to the integer counter under key, creating
	// it at 1, and returns the new value. Counters never expire and can be
	// read with Get into an int64.
	Incr(ctx context.Context, key string) (int64, error)
	Close() error
}

// Config selects and tunes a provider.
type Config struct {
	Provider string
	RedisURL string
}

// New builds the configured provider. An empty provider means redis when a
// RedisURL is set and memory otherwise.
func New(cfg Config) (Cache, error) {
	provider := cfg.Provider
	if provider == "" && cfg.RedisURL != "" {
		provider = ProviderRedis
	}
	switch provider {
	case "", ProviderMemory:
		return NewMemory(), nil
	case ProviderRedis:
		return NewRedis(cfg.RedisURL)
	case ProviderNone:
		return Nop{}, nil
	default:
		return nil, fmt.Errorf("cache: unknown provider %q", provider)
	}
}

// UserPrefix is the prefix shared by every cached entry of userID.
func UserPrefix(userID string) string {
	return "badges:user:" + userID + ":"
}

// GenerationKey holds userID's write generation. It is deliberately not
// under UserPrefix: DeletePrefix must never reset it.
func GenerationKey(userID string) string {
	return "badges:gen:" + userID
}

// AwardsKey is the cache key for a user's award list at generation gen,
// optionally trip scoped.
func AwardsKey(userID, tripID string, gen int64) string {
	return UserPrefix(userID) + "g" + strconv.FormatInt(gen, 10) + ":awards:" + tripID
}

// ProgressKey is the cache key for a user's progress list at generation gen,
// optionally trip scoped.
func ProgressKey(userID, tripID string, gen int64) string {
	return UserPrefix(userID) + "g" + strconv.FormatInt(gen, 10) + ":progress:" + tripID
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string, any) (bool, error)        { return false, nil }
func (Nop) Set(context.Context, string, any, time.Duration) error { return nil }
func (Nop) DeletePrefix(context.Context, string) error            { return nil }
func (Nop) Incr(context.Context, string) (int64, error)           { return 0, nil }
func (Nop) Close() error                                          { return nil }
