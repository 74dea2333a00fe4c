package selahsdk

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ──────────────────────────────────────────────
// Daily Verse Scheduler — one card per user per day
// ──────────────────────────────────────────────

// DeliveryPrefs are a user's daily verse delivery settings.
type DeliveryPrefs struct {
	Enabled    bool    `json:"enabled"`
	Daypart    Daypart `json:"daypart"`               // preferred delivery window, defaults to morning
	QuietHours string  `json:"quiet_hours,omitempty"` // "HH:MM-HH:MM", may wrap midnight
	Timezone   string  `json:"timezone,omitempty"`    // IANA name, defaults to UTC
	Tier       Tier    `json:"tier"`                  // defaults to free
}

// VerseCard is one assembled daily delivery: the verse, how to present it,
// and the pieces the entitlement gates allow.
type VerseCard struct {
	Verse      Verse            `json:"verse"`
	Directive  *RenderDirective `json:"directive"`
	Greeting   string           `json:"greeting,omitempty"`
	Reflection string           `json:"reflection,omitempty"` // empty when the tier lacks access
}

// CardSendFn delivers a card to a user. Injected by the caller (push
// gateway, websocket, test capture).
type CardSendFn func(userID string, card *VerseCard) error

// ──────────────────────────────────────────────
// PrefsStore interface (optional persistence)
// ──────────────────────────────────────────────

// PrefsStore manages delivery preferences and send tracking. Provide a
// custom implementation for database persistence. If nil, the scheduler
// uses an in-memory store.
type PrefsStore interface {
	Get(userID string) (DeliveryPrefs, bool)
	Set(userID string, prefs DeliveryPrefs)
	Delete(userID string)
	EnabledUsers() []string
	RecordSent(userID string, sentAt time.Time)
	AlreadySentOn(userID, day string) bool
	RecordVerse(userID, verseKey string, maxKeep int)
	RecentVerses(userID string) []string
}

// InMemoryPrefsStore is a thread-safe, in-memory PrefsStore.
// Data is lost on restart.
type InMemoryPrefsStore struct {
	mu       sync.RWMutex
	prefs    map[string]DeliveryPrefs
	sentDate map[string]string // userID -> "2006-01-02"
	recent   map[string][]string
}

// NewInMemoryPrefsStore creates a new in-memory prefs store.
func NewInMemoryPrefsStore() *InMemoryPrefsStore {
	return &InMemoryPrefsStore{
		prefs:    make(map[string]DeliveryPrefs),
		sentDate: make(map[string]string),
		recent:   make(map[string][]string),
	}
}

func (s *InMemoryPrefsStore) Get(userID string) (DeliveryPrefs, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.prefs[userID]
	return p, ok
}

func (s *InMemoryPrefsStore) Set(userID string, prefs DeliveryPrefs) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs[userID] = prefs
}

func (s *InMemoryPrefsStore) Delete(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.prefs, userID)
	delete(s.sentDate, userID)
	delete(s.recent, userID)
}

func (s *InMemoryPrefsStore) EnabledUsers() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]string, 0, len(s.prefs))
	for uid, p := range s.prefs {
		if p.Enabled {
			users = append(users, uid)
		}
	}
	return users
}

func (s *InMemoryPrefsStore) RecordSent(userID string, sentAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sentDate[userID] = sentAt.Format("2006-01-02")
}

func (s *InMemoryPrefsStore) AlreadySentOn(userID, day string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sentDate[userID] == day
}

func (s *InMemoryPrefsStore) RecordVerse(userID, verseKey string, maxKeep int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := append(s.recent[userID], verseKey)
	if maxKeep > 0 && len(keys) > maxKeep {
		keys = keys[len(keys)-maxKeep:]
	}
	s.recent[userID] = keys
}

func (s *InMemoryPrefsStore) RecentVerses(userID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := s.recent[userID]
	out := make([]string, len(keys))
	copy(out, keys)
	return out
}

// ──────────────────────────────────────────────
// DailyVerseScheduler
// ──────────────────────────────────────────────

// How many recently served verses each user skips before repeats return.
const recentVerseWindow = 7

// DailyVerseConfig wires the scheduler's collaborators. Nil fields get
// in-memory defaults backed by the embedded tables and pack.
type DailyVerseConfig struct {
	Interval time.Duration // polling interval, default 1 minute
	Prefs    PrefsStore
	Resolver *Resolver
	Selector *VerseSelector
	Tracker  *CheckinTracker
	Greeter  *GreetingGenerator
}

// DailyVerseScheduler delivers one verse card per enrolled user per local
// day, inside the user's preferred daypart and outside their quiet hours.
//
// Usage:
//
//	scheduler, _ := selahsdk.NewDailyVerseScheduler(sendFn)
//	scheduler.Enroll("user_001", selahsdk.DeliveryPrefs{Enabled: true, Tier: selahsdk.TierFree})
//	scheduler.Start() // non-blocking, starts a background goroutine
//	defer scheduler.Stop()
type DailyVerseScheduler struct {
	Interval time.Duration
	SendFn   CardSendFn
	Prefs    PrefsStore

	resolver *Resolver
	selector *VerseSelector
	tracker  *CheckinTracker
	greeter  *GreetingGenerator

	mu      sync.Mutex
	stopCh  chan struct{}
	running bool
}

// NewDailyVerseScheduler creates a scheduler.
func NewDailyVerseScheduler(sendFn CardSendFn, config ...DailyVerseConfig) (*DailyVerseScheduler, error) {
	cfg := DailyVerseConfig{}
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.Prefs == nil {
		cfg.Prefs = NewInMemoryPrefsStore()
	}
	if cfg.Resolver == nil {
		cfg.Resolver = NewResolver()
	}
	if cfg.Selector == nil {
		pack, err := LoadEmbeddedPack()
		if err != nil {
			return nil, fmt.Errorf("load embedded pack: %w", err)
		}
		if cfg.Selector, err = NewVerseSelector(pack); err != nil {
			return nil, err
		}
	}
	if cfg.Tracker == nil {
		cfg.Tracker = NewCheckinTracker(NewInMemoryStateStore())
	}
	if cfg.Greeter == nil {
		cfg.Greeter = NewGreetingGenerator()
	}
	return &DailyVerseScheduler{
		Interval: cfg.Interval,
		SendFn:   sendFn,
		Prefs:    cfg.Prefs,
		resolver: cfg.Resolver,
		selector: cfg.Selector,
		tracker:  cfg.Tracker,
		greeter:  cfg.Greeter,
	}, nil
}

// Enroll stores delivery prefs for a user, normalizing defaults.
func (s *DailyVerseScheduler) Enroll(userID string, prefs DeliveryPrefs) {
	if prefs.Daypart == "" {
		prefs.Daypart = DaypartMorning
	}
	if !prefs.Tier.Valid() {
		prefs.Tier = TierFree
	}
	s.Prefs.Set(userID, prefs)
	log.Printf("[DailyVerse] Enrolled | user=%s daypart=%s tier=%s", userID, prefs.Daypart, prefs.Tier)
}

// Unenroll removes a user's delivery prefs and send history.
func (s *DailyVerseScheduler) Unenroll(userID string) {
	s.Prefs.Delete(userID)
}

// Start launches the background poll loop. Non-blocking.
func (s *DailyVerseScheduler) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.mu.Unlock()

	go s.pollLoop()
	log.Printf("[DailyVerse] Started (interval=%s)", s.Interval)
}

// Stop halts the background poll loop.
func (s *DailyVerseScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false
	close(s.stopCh)
	log.Println("[DailyVerse] Stopped")
}

func (s *DailyVerseScheduler) pollLoop() {
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.runOnce(time.Now())
		}
	}
}

func (s *DailyVerseScheduler) runOnce(now time.Time) {
	for _, userID := range s.Prefs.EnabledUsers() {
		prefs, ok := s.Prefs.Get(userID)
		if !ok || !prefs.Enabled {
			continue
		}
		s.deliverTo(userID, prefs, now)
	}
}

func (s *DailyVerseScheduler) deliverTo(userID string, prefs DeliveryPrefs, now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[DailyVerse] Delivery panic | user=%s error=%v", userID, r)
		}
	}()

	loc := time.UTC
	if prefs.Timezone != "" {
		if parsed, err := time.LoadLocation(prefs.Timezone); err == nil {
			loc = parsed
		}
	}
	localNow := now.In(loc)
	today := localNow.Format("2006-01-02")

	if s.Prefs.AlreadySentOn(userID, today) {
		return
	}
	if DaypartForTime(localNow) != prefs.Daypart {
		return
	}
	if prefs.QuietHours != "" && inClockRange(localNow, prefs.QuietHours) {
		return
	}

	card, err := s.BuildCard(userID, prefs.Tier, localNow)
	if err != nil {
		log.Printf("[DailyVerse] Card build failed | user=%s error=%v", userID, err)
		return
	}
	if s.SendFn == nil {
		log.Printf("[DailyVerse] SendFn not set, skipping send to %s", userID)
		return
	}
	if err := s.SendFn(userID, card); err != nil {
		log.Printf("[DailyVerse] Send failed | user=%s error=%v", userID, err)
		return
	}

	s.Prefs.RecordSent(userID, localNow)
	s.Prefs.RecordVerse(userID, card.Verse.Key(), recentVerseWindow)
	log.Printf("[DailyVerse] Sent | user=%s verse=%s mood=%s", userID, card.Verse.Key(), card.Directive.Mood)
}

// BuildCard assembles the card for a user right now: last check-in mood,
// resolved presentation, entitlement-gated translation set and reflection,
// and the day-seeded verse pick. It also backs the in-app "today" screen.
func (s *DailyVerseScheduler) BuildCard(userID string, tier Tier, now time.Time) (*VerseCard, error) {
	mood := MoodNeutral
	if entry, err := s.tracker.LastEntry(userID); err == nil && entry != nil {
		mood = entry.Mood
	}

	// Always fail calmly here: a bad mood value must not cost the user
	// their daily verse.
	directive, _ := s.resolver.ResolveSafe(mood, tier)

	req := SelectRequest{
		UserID:  userID,
		Mood:    MoodTagFor(directive.Mood),
		Daypart: DaypartForTime(now),
		Tone:    ToneLabelFor(directive.Tone.Tone),
		Date:    now,
		Exclude: s.Prefs.RecentVerses(userID),
	}
	if grant, ok := directive.Grant(FeatureTranslations); ok {
		req.Translations = TranslationsFor(grant)
	}

	selection, err := s.selector.Select(req)
	if err != nil {
		return nil, fmt.Errorf("select verse: %w", err)
	}

	card := &VerseCard{
		Verse:     selection.Verse,
		Directive: directive,
	}
	if directive.Enabled(FeatureReflection) {
		card.Reflection = directive.Tone.Reflection(selection.Verse.RefDisplay)
	}
	if stats, err := s.tracker.Stats(userID, now); err == nil {
		card.Greeting = s.greeter.Greet(&CheckinState{
			Streak:         stats.Streak,
			BestStreak:     stats.BestStreak,
			TotalCheckins:  stats.TotalCheckins,
			DaysSinceLast:  stats.DaysSinceLast,
			IsFirstCheckin: stats.DaysSinceLast == -1,
			Daypart:        DaypartForTime(now),
		}).Text
	}
	return card, nil
}

// inClockRange reports whether now falls inside "HH:MM-HH:MM".
// Ranges may wrap midnight, e.g. "22:00-07:00".
func inClockRange(now time.Time, rangeStr string) bool {
	start, end := parseClockRange(rangeStr)
	if start == end {
		return false
	}
	minutes := now.Hour()*60 + now.Minute()
	if start < end {
		return minutes >= start && minutes < end
	}
	// Wraps midnight
	return minutes >= start || minutes < end
}

// parseClockRange parses "HH:MM-HH:MM" into total minutes.
func parseClockRange(rangeStr string) (int, int) {
	parts := strings.Split(rangeStr, "-")
	if len(parts) != 2 {
		return 0, 0
	}
	return parseClock(parts[0]), parseClock(parts[1])
}

func parseClock(t string) int {
	parts := strings.Split(strings.TrimSpace(t), ":")
	if len(parts) != 2 {
		return 0
	}
	h, _ := strconv.Atoi(parts[0])
	m, _ := strconv.Atoi(parts[1])
	return h*60 + m
}
