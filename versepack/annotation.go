package versepack

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ──────────────────────────────────────────────
// Annotation vocabularies — fixed by the tagging pipeline
// ──────────────────────────────────────────────
//
// These sets mirror what the annotation pipeline writes. They are closed:
// a pack carrying an unknown theme or mood tag is rejected at load, the
// same way the presentation tables reject unknown enums.

// Theme is a devotional topic tag on a verse.
type Theme string

const (
	ThemeComfort      Theme = "comfort"
	ThemeHope         Theme = "hope"
	ThemeTrust        Theme = "trust"
	ThemeWisdom       Theme = "wisdom"
	ThemeForgiveness  Theme = "forgiveness"
	ThemeLove         Theme = "love"
	ThemeJoy          Theme = "joy"
	ThemeStrength     Theme = "strength"
	ThemeGuidance     Theme = "guidance"
	ThemePeace        Theme = "peace"
	ThemeRepentance   Theme = "repentance"
	ThemeHealing      Theme = "healing"
	ThemeGenerosity   Theme = "generosity"
	ThemePatience     Theme = "patience"
	ThemePerseverance Theme = "perseverance"
)

// AllThemes returns every theme in pipeline order.
func AllThemes() []Theme {
	return []Theme{
		ThemeComfort, ThemeHope, ThemeTrust, ThemeWisdom, ThemeForgiveness,
		ThemeLove, ThemeJoy, ThemeStrength, ThemeGuidance, ThemePeace,
		ThemeRepentance, ThemeHealing, ThemeGenerosity, ThemePatience, ThemePerseverance,
	}
}

// Valid reports whether t is a known theme.
func (t Theme) Valid() bool {
	for _, known := range AllThemes() {
		if t == known {
			return true
		}
	}
	return false
}

// MoodTag is an annotation-side mood. The pipeline tags nine moods; the
// app's check-in vocabulary is narrower and maps onto these (see the root
// package's MoodTagsFor).
type MoodTag string

const (
	TagAnxious  MoodTag = "anxious"
	TagTired    MoodTag = "tired"
	TagGrateful MoodTag = "grateful"
	TagHopeful  MoodTag = "hopeful"
	TagSad      MoodTag = "sad"
	TagLonely   MoodTag = "lonely"
	TagGuilty   MoodTag = "guilty"
	TagAngry    MoodTag = "angry"
	TagBereaved MoodTag = "bereaved"
)

// AllMoodTags returns every mood tag in pipeline order.
func AllMoodTags() []MoodTag {
	return []MoodTag{
		TagAnxious, TagTired, TagGrateful, TagHopeful, TagSad,
		TagLonely, TagGuilty, TagAngry, TagBereaved,
	}
}

// Valid reports whether m is a known mood tag.
func (m MoodTag) Valid() bool {
	for _, known := range AllMoodTags() {
		if m == known {
			return true
		}
	}
	return false
}

// Daypart is a coarse time-of-day bucket. Verse annotations carry a
// probability per daypart ("new every morning" scores high on morning).
type Daypart string

const (
	DaypartMorning Daypart = "morning"
	DaypartDay     Daypart = "day"
	DaypartEvening Daypart = "evening"
	DaypartNight   Daypart = "night"
)

// AllDayparts returns every daypart in pipeline order.
func AllDayparts() []Daypart {
	return []Daypart{DaypartMorning, DaypartDay, DaypartEvening, DaypartNight}
}

// Valid reports whether d is a known daypart.
func (d Daypart) Valid() bool {
	switch d {
	case DaypartMorning, DaypartDay, DaypartEvening, DaypartNight:
		return true
	}
	return false
}

func (d Daypart) String() string { return string(d) }

// DaypartForTime buckets a local time: morning 05-11, day 11-17,
// evening 17-22, night 22-05.
func DaypartForTime(t time.Time) Daypart {
	switch hour := t.Hour(); {
	case hour >= 5 && hour < 11:
		return DaypartMorning
	case hour >= 11 && hour < 17:
		return DaypartDay
	case hour >= 17 && hour < 22:
		return DaypartEvening
	default:
		return DaypartNight
	}
}

// ToneLabel is the annotation-side tone vocabulary. It differs from the
// app's presentation tones; the root package maps between the two.
type ToneLabel string

const (
	LabelCalming       ToneLabel = "calming"
	LabelEncouraging   ToneLabel = "encouraging"
	LabelCorrective    ToneLabel = "corrective"
	LabelCelebratory   ToneLabel = "celebratory"
	LabelContemplative ToneLabel = "contemplative"
)

// AllToneLabels returns every tone label in pipeline order.
func AllToneLabels() []ToneLabel {
	return []ToneLabel{LabelCalming, LabelEncouraging, LabelCorrective, LabelCelebratory, LabelContemplative}
}

// Valid reports whether l is a known tone label.
func (l ToneLabel) Valid() bool {
	switch l {
	case LabelCalming, LabelEncouraging, LabelCorrective, LabelCelebratory, LabelContemplative:
		return true
	}
	return false
}

// ──────────────────────────────────────────────
// Annotation
// ──────────────────────────────────────────────

// SafetyFlags are the pipeline's content screens. KidSafe is derived:
// a verse flagged for violence or sexual content is not kid-safe.
type SafetyFlags struct {
	Violence    bool `json:"violence" yaml:"violence"`
	Sexual      bool `json:"sexual" yaml:"sexual"`
	Slavery     bool `json:"slavery" yaml:"slavery"`
	HarshRebuke bool `json:"harsh_rebuke" yaml:"harsh_rebuke"`
	KidSafe     bool `json:"kid_safe" yaml:"kid_safe"`
}

// Annotation is everything the pipeline knows about one verse: topical
// themes, mood tags, daypart and tone probability distributions, safety
// screens, and a familiarity heuristic in [0,1].
type Annotation struct {
	Themes       []Theme               `json:"themes" yaml:"themes"`
	Moods        []MoodTag             `json:"moods" yaml:"moods"`
	DaypartProbs map[Daypart]float64   `json:"daypart_probs" yaml:"daypart_probs"`
	ToneProbs    map[ToneLabel]float64 `json:"tone_probs" yaml:"tone_probs"`
	Safety       SafetyFlags           `json:"safety" yaml:"safety"`
	Familiarity  float64               `json:"familiarity" yaml:"familiarity"`
}

// Validate rejects annotations with out-of-vocabulary tags or probabilities
// outside [0,1].
func (a Annotation) Validate() error {
	for _, t := range a.Themes {
		if !t.Valid() {
			return fmt.Errorf("unknown theme %q", t)
		}
	}
	for _, m := range a.Moods {
		if !m.Valid() {
			return fmt.Errorf("unknown mood tag %q", m)
		}
	}
	for d, p := range a.DaypartProbs {
		if !d.Valid() {
			return fmt.Errorf("unknown daypart %q", d)
		}
		if p < 0 || p > 1 {
			return fmt.Errorf("daypart %q probability %.3f out of [0,1]", d, p)
		}
	}
	for l, p := range a.ToneProbs {
		if !l.Valid() {
			return fmt.Errorf("unknown tone label %q", l)
		}
		if p < 0 || p > 1 {
			return fmt.Errorf("tone label %q probability %.3f out of [0,1]", l, p)
		}
	}
	if a.Familiarity < 0 || a.Familiarity > 1 {
		return fmt.Errorf("familiarity %.3f out of [0,1]", a.Familiarity)
	}
	return nil
}

// HasMood reports whether the annotation carries the given mood tag.
func (a Annotation) HasMood(tag MoodTag) bool {
	for _, m := range a.Moods {
		if m == tag {
			return true
		}
	}
	return false
}

// HasTheme reports whether the annotation carries the given theme.
func (a Annotation) HasTheme(t Theme) bool {
	for _, th := range a.Themes {
		if th == t {
			return true
		}
	}
	return false
}

// UnmarshalYAML enforces the closed theme set in pack data.
func (t *Theme) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed := Theme(strings.ToLower(strings.TrimSpace(s)))
	if !parsed.Valid() {
		return fmt.Errorf("invalid value for theme: %q", s)
	}
	*t = parsed
	return nil
}

// UnmarshalYAML enforces the closed mood tag set in pack data.
func (m *MoodTag) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed := MoodTag(strings.ToLower(strings.TrimSpace(s)))
	if !parsed.Valid() {
		return fmt.Errorf("invalid value for mood tag: %q", s)
	}
	*m = parsed
	return nil
}
