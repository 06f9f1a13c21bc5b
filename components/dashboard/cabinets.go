package dashboard

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	// AllCabinetsID is the selector value meaning every cabinet.
	AllCabinetsID = "all"

	defaultCabinetRetries = 2
	defaultCabinetTTL     = time.Hour
	defaultCabinetBackoff = 250 * time.Millisecond
)

// CabinetSource lists every cabinet known to the backend.
type CabinetSource interface {
	AllCabinets(ctx context.Context) ([]Cabinet, error)
}

// FallbackCabinets is served when the cabinet list cannot be fetched.
func FallbackCabinets() []Cabinet {
	return []Cabinet{{ID: AllCabinetsID, Name: "Все кабинеты"}}
}

// CabinetDirectory caches cabinet selector options and retries failed fetches.
type CabinetDirectory struct {
	source  CabinetSource
	retries int
	ttl     time.Duration
	backoff time.Duration
	logger  *zap.Logger
	now     func() time.Time

	mu       sync.Mutex
	cached   []Cabinet
	cachedAt time.Time
}

// CabinetOption customizes a CabinetDirectory.
type CabinetOption func(*CabinetDirectory)

// WithCabinetRetries overrides the retry count (default 2).
func WithCabinetRetries(n int) CabinetOption {
	return func(d *CabinetDirectory) {
		if n >= 0 {
			d.retries = n
		}
	}
}

// WithCabinetTTL overrides how long a successful fetch is served (default one hour).
func WithCabinetTTL(ttl time.Duration) CabinetOption {
	return func(d *CabinetDirectory) { d.ttl = ttl }
}

// WithCabinetBackoff sets the delay between attempts; it grows linearly per attempt.
func WithCabinetBackoff(backoff time.Duration) CabinetOption {
	return func(d *CabinetDirectory) { d.backoff = backoff }
}

// WithCabinetLogger sets the logger used to report failed attempts.
func WithCabinetLogger(logger *zap.Logger) CabinetOption {
	return func(d *CabinetDirectory) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewCabinetDirectory wraps a cabinet source.
func NewCabinetDirectory(source CabinetSource, opts ...CabinetOption) *CabinetDirectory {
	d := &CabinetDirectory{
		source:  source,
		retries: defaultCabinetRetries,
		ttl:     defaultCabinetTTL,
		backoff: defaultCabinetBackoff,
		logger:  zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Cabinets returns the cabinet options. When every attempt fails the fallback
// list is returned together with the last error; the fallback is never cached.
func (d *CabinetDirectory) Cabinets(ctx context.Context) ([]Cabinet, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cached != nil && d.ttl > 0 && d.now().Sub(d.cachedAt) < d.ttl {
		return cloneCabinets(d.cached), nil
	}
	if d.source == nil {
		return FallbackCabinets(), errMissingBackend
	}
	var lastErr error
	for attempt := 0; attempt <= d.retries; attempt++ {
		if attempt > 0 && d.backoff > 0 {
			select {
			case <-ctx.Done():
				return FallbackCabinets(), ctx.Err()
			case <-time.After(time.Duration(attempt) * d.backoff):
			}
		}
		list, err := d.source.AllCabinets(ctx)
		if err == nil {
			d.cached = normalizeCabinets(list)
			d.cachedAt = d.now()
			return cloneCabinets(d.cached), nil
		}
		lastErr = err
		d.logger.Warn("cabinet fetch failed",
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)
	}
	return FallbackCabinets(), fmt.Errorf("dashboard: fetch cabinets: %w", lastErr)
}

// Invalidate forces the next call to refetch.
func (d *CabinetDirectory) Invalidate() {
	if d == nil {
		return
	}
	d.mu.Lock()
	d.cached = nil
	d.mu.Unlock()
}

func normalizeCabinets(list []Cabinet) []Cabinet {
	out := make([]Cabinet, 0, len(list))
	for _, c := range list {
		c.ID = strings.TrimSpace(c.ID)
		if strings.TrimSpace(c.Name) == "" {
			c.Name = "Кабинет " + c.ID
		}
		out = append(out, c)
	}
	return out
}

func cloneCabinets(list []Cabinet) []Cabinet {
	return append([]Cabinet(nil), list...)
}
