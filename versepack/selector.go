package versepack

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sort"
	"time"
)

// ──────────────────────────────────────────────
// Verse selector — deterministic per user per day
// ──────────────────────────────────────────────

// ErrNoEligibleVerses is returned when filtering leaves nothing to pick from.
var ErrNoEligibleVerses = errors.New("no eligible verses after filtering")

// Score weights. Mood match dominates; daypart and tone fit the moment;
// familiarity gives well-known verses a slight edge.
const (
	weightMood        = 0.45
	weightDaypart     = 0.20
	weightTone        = 0.20
	weightFamiliarity = 0.15
)

const (
	defaultSalt = "selah-verse"
	defaultTopK = 5

	// When exclusions shrink the pool below this, recently served verses
	// return to the pool rather than starving the pick.
	minPoolSize = 3
)

// Pools with no mood preference score each component flat.
const flatComponent = 0.5

// Moods where flagged content is filtered out regardless of score.
var tenderMoods = map[MoodTag]bool{
	TagAnxious:  true,
	TagSad:      true,
	TagLonely:   true,
	TagBereaved: true,
}

// SelectorConfig tunes selection. The zero value is usable.
type SelectorConfig struct {
	Salt        string // seed salt, defaults to "selah-verse"
	TopK        int    // candidate pool size ahead of the weighted pick, defaults to 5
	KidSafeOnly bool   // drop verses failing the kid-safe screen
}

// Request describes one selection. Mood, Daypart and Tone are optional
// preferences; empty values score their component flat. Exclude carries
// recently served verse keys so consecutive days vary.
type Request struct {
	UserID       string
	Mood         MoodTag
	Daypart      Daypart
	Tone         ToneLabel
	Translations []Translation // allowed set; empty means any
	Date         time.Time     // day bucket for the seed, defaults to now
	Exclude      []string      // verse keys to avoid
}

// Selection is a picked verse with its score and the scoring breakdown.
type Selection struct {
	Verse   Verse
	Score   float64
	Reasons []string
}

// Selector scores a pack against a request and picks one verse. The pick is
// seeded from (user, day, salt): the same user asking again on the same day
// gets the same verse, and different users diverge.
type Selector struct {
	pack        *Pack
	salt        string
	topK        int
	kidSafeOnly bool
}

func NewSelector(pack *Pack, config ...SelectorConfig) (*Selector, error) {
	if pack == nil {
		return nil, errors.New("selector requires a pack")
	}
	cfg := SelectorConfig{}
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Salt == "" {
		cfg.Salt = defaultSalt
	}
	if cfg.TopK <= 0 {
		cfg.TopK = defaultTopK
	}
	return &Selector{
		pack:        pack,
		salt:        cfg.Salt,
		topK:        cfg.TopK,
		kidSafeOnly: cfg.KidSafeOnly,
	}, nil
}

// Pack returns the selector's verse pack.
func (s *Selector) Pack() *Pack { return s.pack }

type candidate struct {
	idx     int
	score   float64
	reasons []string
}

// Select picks one verse for the request.
func (s *Selector) Select(req Request) (Selection, error) {
	if req.Mood != "" && !req.Mood.Valid() {
		return Selection{}, fmt.Errorf("invalid mood tag %q", req.Mood)
	}
	if req.Daypart != "" && !req.Daypart.Valid() {
		return Selection{}, fmt.Errorf("invalid daypart %q", req.Daypart)
	}
	if req.Tone != "" && !req.Tone.Valid() {
		return Selection{}, fmt.Errorf("invalid tone label %q", req.Tone)
	}
	if req.Date.IsZero() {
		req.Date = time.Now()
	}

	excluded := make(map[string]bool, len(req.Exclude))
	for _, key := range req.Exclude {
		excluded[key] = true
	}

	pool := s.eligible(req, excluded)
	if len(pool) < minPoolSize && len(excluded) > 0 {
		pool = s.eligible(req, nil)
	}
	if len(pool) == 0 {
		return Selection{}, ErrNoEligibleVerses
	}

	sort.Slice(pool, func(i, j int) bool {
		if pool[i].score != pool[j].score {
			return pool[i].score > pool[j].score
		}
		return s.pack.verses[pool[i].idx].Key() < s.pack.verses[pool[j].idx].Key()
	})
	if len(pool) > s.topK {
		pool = pool[:s.topK]
	}

	weights := make([]float64, len(pool))
	for i, c := range pool {
		weights[i] = c.score
	}
	picked := pool[weightedPick(daySeed(req.UserID, req.Date, s.salt), weights)]
	verse := s.pack.verses[picked.idx]

	log.Printf("[VerseSelector] Selected verse | user=%s verse=%s score=%.3f pool=%d",
		req.UserID, verse.Key(), picked.score, len(pool))
	return Selection{Verse: verse, Score: picked.score, Reasons: picked.reasons}, nil
}

// eligible applies the hard gates and scores what survives.
func (s *Selector) eligible(req Request, excluded map[string]bool) []candidate {
	allowed := make(map[Translation]bool, len(req.Translations))
	for _, tr := range req.Translations {
		allowed[tr] = true
	}
	tender := tenderMoods[req.Mood]

	var pool []candidate
	for i, v := range s.pack.verses {
		if excluded[v.Key()] {
			continue
		}
		if len(allowed) > 0 && !allowed[v.Translation] {
			continue
		}
		if s.kidSafeOnly && !v.Annotation.Safety.KidSafe {
			continue
		}
		if tender && (v.Annotation.Safety.HarshRebuke || v.Annotation.Safety.Violence) {
			continue
		}
		score, reasons := scoreVerse(v, req)
		pool = append(pool, candidate{idx: i, score: score, reasons: reasons})
	}
	return pool
}

func scoreVerse(v Verse, req Request) (float64, []string) {
	mood := flatComponent
	if req.Mood != "" {
		mood = 0.0
		if v.Annotation.HasMood(req.Mood) {
			mood = 1.0
		}
	}
	daypart := flatComponent
	if req.Daypart != "" {
		daypart = v.Annotation.DaypartProbs[req.Daypart]
	}
	tone := flatComponent
	if req.Tone != "" {
		tone = v.Annotation.ToneProbs[req.Tone]
	}
	familiarity := v.Annotation.Familiarity

	score := weightMood*mood + weightDaypart*daypart + weightTone*tone + weightFamiliarity*familiarity
	reasons := []string{
		fmt.Sprintf("mood=%.2f", mood),
		fmt.Sprintf("daypart=%.2f", daypart),
		fmt.Sprintf("tone=%.2f", tone),
		fmt.Sprintf("familiarity=%.2f", familiarity),
	}
	return score, reasons
}

// daySeed derives a stable per-user per-day seed so repeated requests on the
// same day agree without any stored state.
func daySeed(userID string, date time.Time, salt string) int64 {
	h := sha256.Sum256([]byte(userID + ":" + date.Format("2006-01-02") + ":" + salt))
	return int64(binary.BigEndian.Uint64(h[:8]))
}

// weightedPick picks an index with probability proportional to its weight.
// Non-positive totals degrade to a uniform pick.
func weightedPick(seed int64, weights []float64) int {
	rng := rand.New(rand.NewSource(seed))
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return rng.Intn(len(weights))
	}
	target := rng.Float64() * total
	acc := 0.0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		acc += w
		if target < acc {
			return i
		}
	}
	return len(weights) - 1
}
