package selahsdk

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ──────────────────────────────────────────────
// Check-In Tracker — mood history and streaks
// ──────────────────────────────────────────────

// MoodEntry is one recorded check-in.
type MoodEntry struct {
	ID       string `json:"id"`
	Mood     Mood   `json:"mood"`
	Note     string `json:"note,omitempty"`
	Detected bool   `json:"detected,omitempty"` // mood came from the note, not a tap
	At       string `json:"at"`                 // RFC3339 in the user's timezone
}

// CheckinState is the computed result of one check-in.
type CheckinState struct {
	Entry          MoodEntry `json:"entry"`
	Streak         int       `json:"streak"`
	BestStreak     int       `json:"best_streak"`
	TotalCheckins  int       `json:"total_checkins"`
	DaysSinceLast  int       `json:"days_since_last"` // -1 = first check-in
	IsFirstCheckin bool      `json:"is_first_checkin"`
	Daypart        Daypart   `json:"daypart"`
	LocalTime      string    `json:"local_time"` // RFC3339 with timezone
}

// CheckinStats is a read-only snapshot of a user's check-in record.
type CheckinStats struct {
	TotalCheckins int  `json:"total_checkins"`
	Streak        int  `json:"streak"` // 0 once a day is missed
	BestStreak    int  `json:"best_streak"`
	DaysSinceLast int  `json:"days_since_last"` // -1 = never checked in
	LastMood      Mood `json:"last_mood"`       // empty if never
}

const (
	checkinMetaKey    = "sdk.checkin_meta"
	checkinHistoryKey = "sdk.checkin_history"

	checkinHistoryMax = 90
)

// checkinMeta is persisted in the StateStore.
type checkinMeta struct {
	TotalCheckins int    `json:"total_checkins"`
	Streak        int    `json:"streak"`
	BestStreak    int    `json:"best_streak"`
	LastDay       string `json:"last_day"` // 2006-01-02 in the user's timezone
	LastAt        string `json:"last_at"`  // RFC3339
	LastMood      Mood   `json:"last_mood"`
}

// CheckinTracker records mood check-ins and maintains streaks. Streaks count
// local calendar days: repeating a check-in on the same day keeps the streak,
// a missed day resets it.
type CheckinTracker struct {
	store    StateStore
	detector *MoodDetector
	timezone *time.Location
}

// NewCheckinTracker creates a tracker. Timezone defaults to UTC.
func NewCheckinTracker(store StateStore, timezone ...string) *CheckinTracker {
	tz := "UTC"
	if len(timezone) > 0 && timezone[0] != "" {
		tz = timezone[0]
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.UTC
	}
	return &CheckinTracker{
		store:    store,
		detector: NewMoodDetector(),
		timezone: loc,
	}
}

// CheckIn records a check-in. An empty mood with a non-empty note runs the
// mood detector; an empty mood with no note records neutral.
func (t *CheckinTracker) CheckIn(userID string, mood Mood, note string, now time.Time) (*CheckinState, error) {
	localNow := now.In(t.timezone)

	detected := false
	if mood == "" && note != "" {
		mood = t.detector.Detect(note, localNow).Mood
		detected = true
	}
	if mood == "" {
		mood = MoodNeutral
	}
	if !mood.Valid() {
		return nil, &UnknownMoodError{Mood: mood}
	}

	meta := t.loadMeta(userID)
	today := localNow.Format("2006-01-02")
	yesterday := localNow.AddDate(0, 0, -1).Format("2006-01-02")

	// Days since last
	daysSinceLast := -1
	if meta.LastAt != "" {
		if lastAt, err := time.Parse(time.RFC3339, meta.LastAt); err == nil {
			days := int(localNow.Sub(lastAt).Hours() / 24)
			if days < 0 {
				days = 0
			}
			daysSinceLast = days
		}
	}

	// Streak over local calendar days
	switch meta.LastDay {
	case today:
		// Same-day repeat, streak unchanged
	case yesterday:
		meta.Streak++
	default:
		meta.Streak = 1
	}
	if meta.Streak > meta.BestStreak {
		meta.BestStreak = meta.Streak
	}
	meta.TotalCheckins++
	meta.LastDay = today
	meta.LastAt = localNow.Format(time.RFC3339)
	meta.LastMood = mood

	entry := MoodEntry{
		ID:       uuid.NewString(),
		Mood:     mood,
		Note:     note,
		Detected: detected,
		At:       localNow.Format(time.RFC3339),
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("marshal check-in entry: %w", err)
	}
	if err := t.store.Append(userID, checkinHistoryKey, string(raw)); err != nil {
		return nil, fmt.Errorf("append check-in history: %w", err)
	}
	if err := t.store.TrimList(userID, checkinHistoryKey, checkinHistoryMax); err != nil {
		return nil, fmt.Errorf("trim check-in history: %w", err)
	}
	if err := t.saveMeta(userID, &meta); err != nil {
		return nil, err
	}

	return &CheckinState{
		Entry:          entry,
		Streak:         meta.Streak,
		BestStreak:     meta.BestStreak,
		TotalCheckins:  meta.TotalCheckins,
		DaysSinceLast:  daysSinceLast,
		IsFirstCheckin: daysSinceLast == -1,
		Daypart:        DaypartForTime(localNow),
		LocalTime:      localNow.Format(time.RFC3339),
	}, nil
}

// Stats returns the user's current record without writing anything. A streak
// lapses to 0 when the last check-in is older than yesterday.
func (t *CheckinTracker) Stats(userID string, now time.Time) (CheckinStats, error) {
	localNow := now.In(t.timezone)
	meta := t.loadMeta(userID)

	daysSinceLast := -1
	if meta.LastAt != "" {
		if lastAt, err := time.Parse(time.RFC3339, meta.LastAt); err == nil {
			days := int(localNow.Sub(lastAt).Hours() / 24)
			if days < 0 {
				days = 0
			}
			daysSinceLast = days
		}
	}

	streak := meta.Streak
	today := localNow.Format("2006-01-02")
	yesterday := localNow.AddDate(0, 0, -1).Format("2006-01-02")
	if meta.LastDay != today && meta.LastDay != yesterday {
		streak = 0
	}

	return CheckinStats{
		TotalCheckins: meta.TotalCheckins,
		Streak:        streak,
		BestStreak:    meta.BestStreak,
		DaysSinceLast: daysSinceLast,
		LastMood:      meta.LastMood,
	}, nil
}

// History returns the most recent check-ins, oldest first.
func (t *CheckinTracker) History(userID string, limit int) ([]MoodEntry, error) {
	length, err := t.store.ListLength(userID, checkinHistoryKey)
	if err != nil {
		return nil, fmt.Errorf("check-in history length: %w", err)
	}
	offset := 0
	if limit > 0 && length > limit {
		offset = length - limit
	}
	items, err := t.store.GetList(userID, checkinHistoryKey, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("read check-in history: %w", err)
	}
	entries := make([]MoodEntry, 0, len(items))
	for _, raw := range items {
		var entry MoodEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// LastEntry returns the most recent check-in, or nil if there is none.
func (t *CheckinTracker) LastEntry(userID string) (*MoodEntry, error) {
	entries, err := t.History(userID, 1)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}

// Timezone returns the tracker's location.
func (t *CheckinTracker) Timezone() *time.Location { return t.timezone }

func (t *CheckinTracker) loadMeta(userID string) checkinMeta {
	var meta checkinMeta
	raw, err := t.store.Get(userID, checkinMetaKey)
	if err == nil && raw != "" {
		json.Unmarshal([]byte(raw), &meta)
	}
	return meta
}

func (t *CheckinTracker) saveMeta(userID string, meta *checkinMeta) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal check-in meta: %w", err)
	}
	if err := t.store.Set(userID, checkinMetaKey, string(data)); err != nil {
		return fmt.Errorf("save check-in meta: %w", err)
	}
	return nil
}
