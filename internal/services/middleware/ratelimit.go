package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/alankar423/CreatorIQ/internal/models"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"
)

// RateLimitEntry is the fixed-window counter state for one key.
type RateLimitEntry struct {
	Count   int
	ResetAt time.Time
}

// RateLimitStore counts requests per "<route>:<identity>" key in fixed
// windows. The store only counts; enforcement policy (comparing against a
// maximum and rejecting) belongs to the middleware layer.
type RateLimitStore struct {
	mu      sync.Mutex
	entries map[string]*RateLimitEntry
	stop    chan struct{}
	stopped sync.Once
}

// NewRateLimitStore creates an empty store. Call StartSweeper to bound
// memory over time.
func NewRateLimitStore() *RateLimitStore {
	return &RateLimitStore{
		entries: make(map[string]*RateLimitEntry),
		stop:    make(chan struct{}),
	}
}

// Hit registers one request for key under the given window and returns the
// updated count plus the window's reset time. A missing or expired entry is
// lazily recreated with count 1.
func (s *RateLimitStore) Hit(key string, window time.Duration) (int, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	entry, ok := s.entries[key]
	if !ok || !entry.ResetAt.After(now) {
		entry = &RateLimitEntry{Count: 1, ResetAt: now.Add(window)}
		s.entries[key] = entry
		return entry.Count, entry.ResetAt
	}

	entry.Count++
	return entry.Count, entry.ResetAt
}

// Sweep removes expired entries.
func (s *RateLimitStore) Sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for key, entry := range s.entries {
		if !entry.ResetAt.After(now) {
			delete(s.entries, key)
		}
	}
}

// Len returns the number of live entries.
func (s *RateLimitStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// StartSweeper sweeps expired entries on a fixed interval, independent of
// request traffic, until Stop is called.
func (s *RateLimitStore) StartSweeper(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Sweep()
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop terminates the background sweeper.
func (s *RateLimitStore) Stop() {
	s.stopped.Do(func() { close(s.stop) })
}

// RateLimit returns the enforcing middleware for one route group. Counting
// lives in the store; this handler compares against the configured maximum,
// sets the informational headers and rejects over-limit requests.
func RateLimit(store *RateLimitStore, route string, cfg models.RateLimitConfig) fiber.Handler {
	window := time.Duration(cfg.WindowMs) * time.Millisecond

	return func(c *fiber.Ctx) error {
		if cfg.MaxRequests <= 0 || window <= 0 {
			return c.Next()
		}

		key := route + ":" + CallerIdentity(c)
		count, resetAt := store.Hit(key, window)

		// Remaining never reports negative to the caller.
		remaining := cfg.MaxRequests - count
		if remaining < 0 {
			remaining = 0
		}
		retryAfter := time.Until(resetAt)

		c.Set("X-RateLimit-Limit", strconv.Itoa(cfg.MaxRequests))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))

		if count > cfg.MaxRequests {
			fiberlog.Warnf("rate limit exceeded for %s (%d/%d)", key, count, cfg.MaxRequests)
			c.Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds()+1)))
			appErr := models.NewRateLimitError()
			return c.Status(appErr.GetStatusCode()).JSON(fiber.Map{"error": appErr})
		}
		return c.Next()
	}
}
