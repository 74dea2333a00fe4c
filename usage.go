package selahsdk

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// ──────────────────────────────────────────────
// Usage Meter — daily limits for limited grants
// ──────────────────────────────────────────────

// UsageStore tracks per-feature usage in local-day buckets ("2006-01-02").
// Implementations must be safe for concurrent use.
type UsageStore interface {
	// IncrDay records one use and returns the new count for the day.
	IncrDay(userID string, feature Feature, day string) (int, error)
	// CountDay returns the uses recorded for the day.
	CountDay(userID string, feature Feature, day string) (int, error)
}

// InMemoryUsageStore is a thread-safe in-memory UsageStore for development
// and tests. Counts are lost on restart.
type InMemoryUsageStore struct {
	mu     sync.RWMutex
	counts map[string]int
}

// NewInMemoryUsageStore creates a new in-memory usage store.
func NewInMemoryUsageStore() *InMemoryUsageStore {
	return &InMemoryUsageStore{counts: make(map[string]int)}
}

func usageKey(userID string, feature Feature, day string) string {
	return userID + "|" + string(feature) + "|" + day
}

func (s *InMemoryUsageStore) IncrDay(userID string, feature Feature, day string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := usageKey(userID, feature, day)
	s.counts[key]++
	return s.counts[key], nil
}

func (s *InMemoryUsageStore) CountDay(userID string, feature Feature, day string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counts[usageKey(userID, feature, day)], nil
}

// Decision is the outcome of a usage check.
type Decision struct {
	Allowed   bool        `json:"allowed"`
	Access    AccessLevel `json:"access"`
	Used      int         `json:"used"`      // uses today, including this one when recorded
	Limit     int         `json:"limit"`     // 0 = no numeric limit
	Remaining int         `json:"remaining"` // -1 = unlimited
	Reason    string      `json:"reason"`    // locked/limit_reached/ok/unlimited/capped
}

// UsageMeterConfig configures the meter. The zero value uses the default
// tables, an in-memory store, and UTC day buckets.
type UsageMeterConfig struct {
	Tables   *TableSet
	Store    UsageStore
	Timezone string
}

// UsageMeter enforces entitlement grants against recorded usage. Locked
// features deny outright; limited per-day grants consume day-bucket counts;
// full grants and per-total caps pass through.
type UsageMeter struct {
	tables   *TableSet
	store    UsageStore
	timezone *time.Location
}

// NewUsageMeter creates a meter.
func NewUsageMeter(config ...UsageMeterConfig) *UsageMeter {
	cfg := UsageMeterConfig{}
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Tables == nil {
		cfg.Tables = DefaultTables()
	}
	if cfg.Store == nil {
		cfg.Store = NewInMemoryUsageStore()
	}
	loc := time.UTC
	if cfg.Timezone != "" {
		if parsed, err := time.LoadLocation(cfg.Timezone); err == nil {
			loc = parsed
		}
	}
	return &UsageMeter{
		tables:   cfg.Tables,
		store:    cfg.Store,
		timezone: loc,
	}
}

// Allow checks the grant and, for per-day limits, records the use. Call it
// at the moment the feature is actually exercised.
func (m *UsageMeter) Allow(userID string, feature Feature, tier Tier, now time.Time) (Decision, error) {
	return m.decide(userID, feature, tier, now, true)
}

// Peek reports what Allow would decide without recording anything.
func (m *UsageMeter) Peek(userID string, feature Feature, tier Tier, now time.Time) (Decision, error) {
	return m.decide(userID, feature, tier, now, false)
}

func (m *UsageMeter) decide(userID string, feature Feature, tier Tier, now time.Time, record bool) (Decision, error) {
	if !tier.Valid() {
		return Decision{}, fmt.Errorf("invalid tier %q", tier)
	}
	ent, err := m.tables.EntitlementFor(feature)
	if err != nil {
		return Decision{}, err
	}
	grant := ent.GrantFor(tier)

	switch {
	case grant.Access == AccessNone:
		return Decision{Access: grant.Access, Reason: "locked"}, nil
	case grant.Unlimited():
		return Decision{Allowed: true, Access: grant.Access, Remaining: -1, Reason: "unlimited"}, nil
	case grant.LimitPer == LimitPerTotal:
		// Per-total caps bound feature breadth (e.g. how many translations
		// are accessible), not use counts. Nothing to meter here.
		return Decision{Allowed: true, Access: grant.Access, Limit: grant.Limit, Remaining: -1, Reason: "capped"}, nil
	}

	day := now.In(m.timezone).Format("2006-01-02")
	used, err := m.store.CountDay(userID, feature, day)
	if err != nil {
		return Decision{}, fmt.Errorf("count usage: %w", err)
	}
	if used >= grant.Limit {
		log.Printf("[UsageMeter] Daily limit reached | user=%s feature=%s used=%d limit=%d",
			userID, feature, used, grant.Limit)
		return Decision{
			Access: grant.Access,
			Used:   used,
			Limit:  grant.Limit,
			Reason: "limit_reached",
		}, nil
	}
	if record {
		if used, err = m.store.IncrDay(userID, feature, day); err != nil {
			return Decision{}, fmt.Errorf("record usage: %w", err)
		}
	}
	return Decision{
		Allowed:   true,
		Access:    grant.Access,
		Used:      used,
		Limit:     grant.Limit,
		Remaining: grant.Limit - used,
		Reason:    "ok",
	}, nil
}
