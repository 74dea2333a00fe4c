package selahsdk

import (
	_ "embed"
	"fmt"
	"sync"

	"go.uber.org/atomic"
	"gopkg.in/yaml.v3"
)

// ──────────────────────────────────────────────
// TableSet — the three presentation tables, loaded once, read-only
// ──────────────────────────────────────────────

//go:embed tables.yaml
var embeddedTables []byte

type toneRow struct {
	Mood            Mood   `yaml:"mood"`
	Tone            Tone   `yaml:"tone"`
	VoiceStyle      string `yaml:"voice_style"`
	ReflectionFrame string `yaml:"reflection_frame"`
}

type deliveryRow struct {
	Tone            Tone       `yaml:"tone"`
	SpeedMultiplier float64    `yaml:"speed_multiplier"`
	Pitch           Pitch      `yaml:"pitch"`
	PauseStyle      PauseStyle `yaml:"pause_style"`
}

type tableFile struct {
	Tones        []toneRow            `yaml:"tones"`
	Deliveries   []deliveryRow        `yaml:"deliveries"`
	Entitlements []FeatureEntitlement `yaml:"entitlements"`
}

// TableSet holds the parsed tables. It is immutable after ParseTableSet
// returns, so concurrent readers need no locking.
type TableSet struct {
	tones        map[Mood]ToneProfile
	deliveries   map[Tone]DeliveryParams
	entitlements map[Feature]FeatureEntitlement
	featureOrder []Feature
}

// ParseTableSet parses and validates table data. It is used for the embedded
// tables and by apps that ship table variants for content experiments.
// Validation enforces totality (every mood, every tone, every feature for
// both tiers), closed enums, no duplicate rows, and tier monotonicity.
func ParseTableSet(data []byte) (*TableSet, error) {
	var file tableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse tables: %w", err)
	}

	ts := &TableSet{
		tones:        make(map[Mood]ToneProfile, len(file.Tones)),
		deliveries:   make(map[Tone]DeliveryParams, len(file.Deliveries)),
		entitlements: make(map[Feature]FeatureEntitlement, len(file.Entitlements)),
	}

	for _, row := range file.Tones {
		if _, dup := ts.tones[row.Mood]; dup {
			return nil, fmt.Errorf("tone table: duplicate mood %q", row.Mood)
		}
		if row.VoiceStyle == "" {
			return nil, fmt.Errorf("tone table: mood %q has empty voice_style", row.Mood)
		}
		ts.tones[row.Mood] = ToneProfile{
			Tone:            row.Tone,
			VoiceStyle:      row.VoiceStyle,
			ReflectionFrame: row.ReflectionFrame,
		}
	}

	for _, row := range file.Deliveries {
		if _, dup := ts.deliveries[row.Tone]; dup {
			return nil, fmt.Errorf("delivery table: duplicate tone %q", row.Tone)
		}
		params := DeliveryParams{
			SpeedMultiplier: row.SpeedMultiplier,
			Pitch:           row.Pitch,
			PauseStyle:      row.PauseStyle,
		}
		if err := params.Validate(); err != nil {
			return nil, fmt.Errorf("delivery table: tone %q: %w", row.Tone, err)
		}
		ts.deliveries[row.Tone] = params
	}

	for _, ent := range file.Entitlements {
		if err := ent.Validate(); err != nil {
			return nil, fmt.Errorf("entitlement table: %w", err)
		}
		if _, dup := ts.entitlements[ent.Feature]; dup {
			return nil, fmt.Errorf("entitlement table: duplicate feature %q", ent.Feature)
		}
		ts.entitlements[ent.Feature] = ent
		ts.featureOrder = append(ts.featureOrder, ent.Feature)
	}

	if err := ts.validateTotality(); err != nil {
		return nil, err
	}
	return ts, nil
}

// validateTotality checks that the mood and tone mappings cover their whole
// closed sets, so Resolve can never miss on valid input.
func (ts *TableSet) validateTotality() error {
	for _, mood := range AllMoods() {
		profile, ok := ts.tones[mood]
		if !ok {
			return fmt.Errorf("tone table: mood %q has no entry", mood)
		}
		if _, ok := ts.deliveries[profile.Tone]; !ok {
			return fmt.Errorf("delivery table: tone %q (mood %q) has no entry", profile.Tone, mood)
		}
	}
	for _, tone := range AllTones() {
		if _, ok := ts.deliveries[tone]; !ok {
			return fmt.Errorf("delivery table: tone %q has no entry", tone)
		}
	}
	if len(ts.entitlements) == 0 {
		return fmt.Errorf("entitlement table: empty")
	}
	return nil
}

// ToneFor returns the tone profile for a mood.
func (ts *TableSet) ToneFor(mood Mood) (ToneProfile, error) {
	profile, ok := ts.tones[mood]
	if !ok {
		return ToneProfile{}, &UnknownMoodError{Mood: mood}
	}
	return profile, nil
}

// DeliveryFor returns the voice pacing for a tone.
func (ts *TableSet) DeliveryFor(tone Tone) (DeliveryParams, error) {
	params, ok := ts.deliveries[tone]
	if !ok {
		return DeliveryParams{}, &UnknownToneError{Tone: tone}
	}
	return params, nil
}

// EntitlementFor returns the entitlement row for a feature.
func (ts *TableSet) EntitlementFor(feature Feature) (FeatureEntitlement, error) {
	ent, ok := ts.entitlements[feature]
	if !ok {
		return FeatureEntitlement{}, &UnknownFeatureError{Feature: feature}
	}
	return ent, nil
}

// Features returns every defined feature in table order.
func (ts *TableSet) Features() []Feature {
	out := make([]Feature, len(ts.featureOrder))
	copy(out, ts.featureOrder)
	return out
}

// Grants returns the full feature grant map for a tier. Locked features
// (access none) are included; the app renders them with lock indicators.
func (ts *TableSet) Grants(tier Tier) map[Feature]Grant {
	grants := make(map[Feature]Grant, len(ts.entitlements))
	for feature, ent := range ts.entitlements {
		grants[feature] = ent.GrantFor(tier)
	}
	return grants
}

// ──────────────────────────────────────────────
// Default registry — load once per process
// ──────────────────────────────────────────────

var (
	defaultMu     sync.Mutex
	defaultSet    *TableSet
	defaultLoaded = atomic.NewBool(false)
)

// LoadTables parses the embedded tables and installs them as the package
// default. Call it once at startup; a second call (or a call after
// DefaultTables already lazy-loaded) returns AlreadyInitializedError.
func LoadTables() error {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLoaded.Load() {
		return &AlreadyInitializedError{}
	}
	ts, err := ParseTableSet(embeddedTables)
	if err != nil {
		return fmt.Errorf("load embedded tables: %w", err)
	}
	defaultSet = ts
	defaultLoaded.Store(true)
	return nil
}

// TablesLoaded reports whether the default tables are installed.
func TablesLoaded() bool { return defaultLoaded.Load() }

// DefaultTables returns the installed default tables, lazily loading the
// embedded data on first use. The embedded tables are covered by tests;
// a parse failure here means a broken build, so it panics rather than
// letting every resolver call limp along tableless.
func DefaultTables() *TableSet {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if !defaultLoaded.Load() {
		ts, err := ParseTableSet(embeddedTables)
		if err != nil {
			panic("selahsdk: embedded tables invalid: " + err.Error())
		}
		defaultSet = ts
		defaultLoaded.Store(true)
	}
	return defaultSet
}
