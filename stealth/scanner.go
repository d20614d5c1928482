package stealth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/allegro/bigcache/v3"
	"github.com/mr-tron/base58"
	"go.uber.org/ratelimit"
	"go.uber.org/zap"

	"github.com/jskoiz/zeraprivacy-sub001/curve"
)

// Announcement is one raw stealth announcement read from the ledger: a
// transaction id, the memo string, and the candidate address the payment
// went to (base58 point encoding).
type Announcement struct {
	TxID    string `json:"txId"`
	Memo    string `json:"memo"`
	Address string `json:"address"`
}

// Ledger supplies paginated announcement reads. cursor is opaque: the
// empty string starts from the newest announcements, and the returned
// next cursor resumes where the page ended. An empty next cursor means
// no more pages.
type Ledger interface {
	FetchAnnouncements(ctx context.Context, account string, cursor string, limit int) ([]Announcement, string, error)
}

// ScannerOptions tune a Scanner. Zero values fall back to defaults.
type ScannerOptions struct {
	PageSize     int           // announcements per ledger fetch
	CacheTTL     time.Duration // lifetime of cached pages
	RequestsPerS int           // ledger fetch rate limit
	MaxRetries   int           // retries per transient fetch failure
	Logger       *zap.Logger
}

const (
	defaultPageSize   = 100
	defaultCacheTTL   = 5 * time.Minute
	defaultRate       = 10
	defaultMaxRetries = 3
	retryBaseDelay    = 200 * time.Millisecond
)

// Scanner walks a ledger's announcement stream looking for payments to
// one meta-address. Fetched pages are cached with a bounded TTL so a
// rescan after interruption does not refetch the whole history, and
// ledger calls are rate limited. Scans are cancellable mid-page via the
// context.
type Scanner struct {
	meta   *MetaAddress
	ledger Ledger
	cache  *bigcache.BigCache
	limit  ratelimit.Limiter
	logger *zap.Logger

	pageSize   int
	maxRetries int

	mu         sync.RWMutex
	detected   []Match
	lastCursor string
}

// NewScanner creates a scanner for one meta-address.
func NewScanner(meta *MetaAddress, ledger Ledger, opts ScannerOptions) (*Scanner, error) {
	if meta == nil || ledger == nil {
		return nil, errors.New("meta-address and ledger are required")
	}

	if opts.PageSize <= 0 {
		opts.PageSize = defaultPageSize
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = defaultCacheTTL
	}
	if opts.RequestsPerS <= 0 {
		opts.RequestsPerS = defaultRate
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = defaultMaxRetries
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	cache, err := bigcache.New(context.Background(), bigcache.DefaultConfig(opts.CacheTTL))
	if err != nil {
		return nil, fmt.Errorf("failed to create page cache: %w", err)
	}

	return &Scanner{
		meta:       meta,
		ledger:     ledger,
		cache:      cache,
		limit:      ratelimit.New(opts.RequestsPerS),
		logger:     opts.Logger,
		pageSize:   opts.PageSize,
		maxRetries: opts.MaxRetries,
	}, nil
}

type cachedPage struct {
	Announcements []Announcement `json:"announcements"`
	NextCursor    string         `json:"nextCursor"`
}

func pageKey(account, cursor string) string {
	return account + "|" + cursor
}

// fetchPage returns one announcement page, serving from cache when the
// TTL has not elapsed. Failed fetches are retried with exponential
// backoff; nothing is written to the cache until a fetch succeeds, so a
// flaky ledger can never poison it.
func (s *Scanner) fetchPage(ctx context.Context, account, cursor string) ([]Announcement, string, error) {
	key := pageKey(account, cursor)
	if raw, err := s.cache.Get(key); err == nil {
		var page cachedPage
		if err := json.Unmarshal(raw, &page); err == nil {
			return page.Announcements, page.NextCursor, nil
		}
		// Unreadable entry: fall through to a fresh fetch.
	}

	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			delay := retryBaseDelay << (attempt - 1)
			s.logger.Warn("announcement fetch failed, retrying",
				zap.String("cursor", cursor),
				zap.Int("attempt", attempt),
				zap.Duration("backoff", delay),
				zap.Error(lastErr),
			)
			select {
			case <-ctx.Done():
				return nil, "", ctx.Err()
			case <-time.After(delay):
			}
		}

		s.limit.Take()
		anns, next, err := s.ledger.FetchAnnouncements(ctx, account, cursor, s.pageSize)
		if err != nil {
			lastErr = err
			continue
		}

		if raw, err := json.Marshal(cachedPage{Announcements: anns, NextCursor: next}); err == nil {
			_ = s.cache.Set(key, raw)
		}
		return anns, next, nil
	}
	return nil, "", fmt.Errorf("fetching announcements at cursor %q: %w", cursor, lastErr)
}

// Scan walks the announcement stream for the given account from the
// newest entry until the stream is exhausted or ctx is cancelled, and
// returns the payments detected during this walk. Detection is purely
// local: the memo yields the ephemeral key, the announcement the
// candidate address, and everything else is ECDH against the view key.
func (s *Scanner) Scan(ctx context.Context, account string) ([]Match, error) {
	return s.ScanFrom(ctx, account, "")
}

// ScanFrom is Scan starting at a saved cursor instead of the newest
// entry. Pair it with LastCursor to resume an interrupted walk; the
// resumed page is typically served from the page cache.
func (s *Scanner) ScanFrom(ctx context.Context, account, cursor string) ([]Match, error) {
	var found []Match

	for {
		if err := ctx.Err(); err != nil {
			return found, err
		}

		anns, next, err := s.fetchPage(ctx, account, cursor)
		if err != nil {
			return found, err
		}

		candidates := s.toCandidates(anns)
		matches := ScanTransactions(candidates, s.meta)
		if len(matches) > 0 {
			s.logger.Info("stealth payments detected",
				zap.String("account", account),
				zap.Int("count", len(matches)),
			)
			found = append(found, matches...)
		}

		s.mu.Lock()
		s.detected = append(s.detected, matches...)
		s.lastCursor = cursor
		s.mu.Unlock()

		if next == "" {
			return found, nil
		}
		cursor = next
	}
}

// toCandidates filters raw announcements down to parseable candidates.
// Non-stealth memos and malformed addresses are skipped silently; they
// are the bulk of any real memo stream.
func (s *Scanner) toCandidates(anns []Announcement) []Candidate {
	candidates := make([]Candidate, 0, len(anns))
	for _, a := range anns {
		payload := ParseMemo(a.Memo)
		if payload == nil {
			continue
		}

		addrStr := a.Address
		if addrStr == "" {
			// Announcement-only feeds carry the address in the memo
			// metadata field.
			addrStr = payload.Metadata
		}
		if addrStr == "" {
			continue
		}

		raw, err := base58.Decode(addrStr)
		if err != nil {
			continue
		}
		point, err := curve.ParsePoint(raw)
		if err != nil {
			continue
		}

		candidates = append(candidates, Candidate{
			TxID:         a.TxID,
			EphemeralPub: payload.EphemeralPub,
			Address:      point,
		})
	}
	return candidates
}

// LastCursor returns the cursor of the most recently processed page,
// the resume point for ScanFrom after an interrupted scan.
func (s *Scanner) LastCursor() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastCursor
}

// Detected returns a copy of every match found so far across scans.
func (s *Scanner) Detected() []Match {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Match, len(s.detected))
	copy(out, s.detected)
	return out
}

// Close releases the page cache.
func (s *Scanner) Close() error {
	return s.cache.Close()
}
