package selahsdk

import (
	"fmt"
	"log"
)

// ──────────────────────────────────────────────
// Resolver — (mood, tier) -> RenderDirective
// ──────────────────────────────────────────────

// ResolverConfig overrides resolver defaults.
type ResolverConfig struct {
	Tables *TableSet // nil = package default tables
}

// Resolver computes RenderDirectives from the presentation tables.
// Resolve is deterministic and side-effect free (metrics aside): the same
// (mood, tier) always yields the same directive. A Resolver is safe for
// concurrent use; the tables it reads are immutable.
type Resolver struct {
	tables  *TableSet
	metrics *Metrics
}

// NewResolver creates a resolver. With no config it reads the package
// default tables, lazy-loading the embedded data on first use.
func NewResolver(config ...ResolverConfig) *Resolver {
	var tables *TableSet
	if len(config) > 0 && config[0].Tables != nil {
		tables = config[0].Tables
	} else {
		tables = DefaultTables()
	}
	return &Resolver{
		tables:  tables,
		metrics: &Metrics{},
	}
}

// Metrics exposes the resolver's activity counters.
func (r *Resolver) Metrics() *Metrics { return r.metrics }

// Tables exposes the table set this resolver reads.
func (r *Resolver) Tables() *TableSet { return r.tables }

// Resolve maps (mood, tier) to a complete RenderDirective: the mood's tone
// profile, that tone's delivery params, and the tier's grant for every
// defined feature. Any table miss returns the typed error (UnknownMoodError,
// UnknownToneError) and a nil directive; there are no partial results.
func (r *Resolver) Resolve(mood Mood, tier Tier) (*RenderDirective, error) {
	if !tier.Valid() {
		r.metrics.LookupErrors.Inc()
		return nil, fmt.Errorf("invalid tier %q", tier)
	}
	profile, err := r.tables.ToneFor(mood)
	if err != nil {
		r.metrics.LookupErrors.Inc()
		return nil, err
	}
	delivery, err := r.tables.DeliveryFor(profile.Tone)
	if err != nil {
		r.metrics.LookupErrors.Inc()
		return nil, err
	}
	directive := &RenderDirective{
		Mood:         mood,
		Tier:         tier,
		Tone:         profile,
		Delivery:     delivery,
		Features:     r.tables.Grants(tier),
		featureOrder: r.tables.Features(),
	}
	r.metrics.Resolves.Inc()
	return directive, nil
}

// ResolveSafe is the "fail calmly" path for user-facing callers: table
// errors are logged and the neutral fallback presentation is returned
// instead of an error. The second return reports whether the fallback was
// used, so callers can surface it to diagnostics without touching the UX.
func (r *Resolver) ResolveSafe(mood Mood, tier Tier) (*RenderDirective, bool) {
	directive, err := r.Resolve(mood, tier)
	if err == nil {
		return directive, false
	}
	r.metrics.Fallbacks.Inc()
	log.Printf("[Resolver] Falling back to neutral presentation | mood=%s tier=%s error=%v", mood, tier, err)
	if !tier.Valid() {
		tier = TierFree
	}
	return &RenderDirective{
		Mood:         MoodNeutral,
		Tier:         tier,
		Tone:         FallbackToneProfile(),
		Delivery:     FallbackDelivery(),
		Features:     r.tables.Grants(tier),
		featureOrder: r.tables.Features(),
	}, true
}

// FallbackToneProfile is the compiled-in neutral presentation. It is not
// read from the tables, so the fallback path cannot itself fail.
func FallbackToneProfile() ToneProfile {
	return ToneProfile{
		Tone:            ToneBalanced,
		VoiceStyle:      "Even/clear",
		ReflectionFrame: "Read {ref} once more. What word or phrase stays with you?",
	}
}

// FallbackDelivery is the compiled-in neutral voice pacing.
func FallbackDelivery() DeliveryParams {
	return DeliveryParams{
		SpeedMultiplier: 1.0,
		Pitch:           PitchNeutral,
		PauseStyle:      PausesStandard,
	}
}
