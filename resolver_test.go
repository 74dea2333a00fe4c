package selahsdk

import (
	"errors"
	"testing"
)

func TestResolve_AnxiousFree(t *testing.T) {
	r := NewResolver()

	d, err := r.Resolve(MoodAnxious, TierFree)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if d.Tone.Tone != ToneCalm {
		t.Fatalf("expected tone=calm, got %s", d.Tone.Tone)
	}
	if d.Tone.VoiceStyle != "Steady/reassuring" {
		t.Fatalf("expected voice style Steady/reassuring, got %q", d.Tone.VoiceStyle)
	}
	want := DeliveryParams{SpeedMultiplier: 0.9, Pitch: PitchNeutral, PauseStyle: PausesExtended}
	if d.Delivery != want {
		t.Fatalf("expected delivery %+v, got %+v", want, d.Delivery)
	}

	// The free grant map still lists every feature; locked rows are how
	// the UI knows what to render with a lock indicator.
	if len(d.Features) != len(r.Tables().Features()) {
		t.Fatalf("expected %d features, got %d", len(r.Tables().Features()), len(d.Features))
	}
	if g, ok := d.Grant(FeatureQuizDaily); !ok || g.Access != AccessFull {
		t.Fatalf("expected full Quiz: Daily access, got %+v (ok=%v)", g, ok)
	}
	if g, ok := d.Grant(FeatureReflection); !ok || g.Access != AccessNone {
		t.Fatalf("expected locked Reflection grant to be present, got %+v (ok=%v)", g, ok)
	}
	if d.Enabled(FeatureReflection) {
		t.Fatal("locked Reflection reported enabled")
	}
	if !d.Enabled(FeatureJournal) {
		t.Fatal("limited Journal should count as enabled")
	}
}

func TestResolve_GratefulPremium(t *testing.T) {
	r := NewResolver()

	d, err := r.Resolve(MoodGrateful, TierPremium)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if d.Tone.VoiceStyle != "Warm/uplifting" {
		t.Fatalf("expected voice style Warm/uplifting, got %q", d.Tone.VoiceStyle)
	}
	want := DeliveryParams{SpeedMultiplier: 1.1, Pitch: PitchHigher, PauseStyle: PausesBrief}
	if d.Delivery != want {
		t.Fatalf("expected delivery %+v, got %+v", want, d.Delivery)
	}
	if g, ok := d.Grant(FeatureReflection); !ok || g.Access != AccessFull {
		t.Fatalf("expected full premium Reflection access, got %+v (ok=%v)", g, ok)
	}
	if locked := d.Locked(); len(locked) != 0 {
		t.Fatalf("premium should have no locked features, got %v", locked)
	}
}

func TestResolve_LockedFeaturesInTableOrder(t *testing.T) {
	r := NewResolver()

	d, err := r.Resolve(MoodNeutral, TierFree)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	want := []Feature{FeatureQuizTopical, FeatureReflection, FeatureOfflineLibrary}
	got := d.Locked()
	if len(got) != len(want) {
		t.Fatalf("expected locked %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("locked[%d]: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestResolve_AllPairs(t *testing.T) {
	r := NewResolver()

	for _, mood := range AllMoods() {
		for _, tier := range AllTiers() {
			d, err := r.Resolve(mood, tier)
			if err != nil {
				t.Fatalf("Resolve(%s, %s): %v", mood, tier, err)
			}
			if d.Mood != mood || d.Tier != tier {
				t.Fatalf("Resolve(%s, %s) echoed (%s, %s)", mood, tier, d.Mood, d.Tier)
			}
			if d.Tone.VoiceStyle == "" {
				t.Fatalf("Resolve(%s, %s): empty voice style", mood, tier)
			}
			if err := d.Delivery.Validate(); err != nil {
				t.Fatalf("Resolve(%s, %s): bad delivery: %v", mood, tier, err)
			}
			if len(d.Features) != len(r.Tables().Features()) {
				t.Fatalf("Resolve(%s, %s): incomplete feature map", mood, tier)
			}
		}
	}
}

func TestResolve_Deterministic(t *testing.T) {
	r := NewResolver()

	a, err := r.Resolve(MoodSad, TierPremium)
	if err != nil {
		t.Fatalf("first Resolve failed: %v", err)
	}
	b, err := r.Resolve(MoodSad, TierPremium)
	if err != nil {
		t.Fatalf("second Resolve failed: %v", err)
	}
	if !a.Equal(b) {
		t.Fatal("same input produced different directives")
	}

	c, _ := r.Resolve(MoodSad, TierFree)
	if a.Equal(c) {
		t.Fatal("different tiers produced equal directives")
	}
}

func TestResolve_UnknownMood(t *testing.T) {
	r := NewResolver()

	d, err := r.Resolve("furious", TierFree)
	if d != nil {
		t.Fatal("expected nil directive on lookup error")
	}
	var moodErr *UnknownMoodError
	if !errors.As(err, &moodErr) {
		t.Fatalf("expected UnknownMoodError, got %T: %v", err, err)
	}
	if moodErr.Mood != "furious" {
		t.Fatalf("error carries mood %q", moodErr.Mood)
	}
	if got := r.Metrics().LookupErrors.Load(); got != 1 {
		t.Fatalf("expected 1 lookup error counted, got %d", got)
	}
}

func TestResolve_InvalidTier(t *testing.T) {
	r := NewResolver()

	if d, err := r.Resolve(MoodAnxious, "platinum"); err == nil || d != nil {
		t.Fatalf("expected error for invalid tier, got directive=%v err=%v", d, err)
	}
}

func TestResolveSafe_PassThrough(t *testing.T) {
	r := NewResolver()

	d, fellBack := r.ResolveSafe(MoodHopeful, TierPremium)
	if fellBack {
		t.Fatal("valid input should not fall back")
	}
	if d.Tone.Tone != ToneInvitational {
		t.Fatalf("expected tone=invitational, got %s", d.Tone.Tone)
	}
	if got := r.Metrics().Fallbacks.Load(); got != 0 {
		t.Fatalf("expected no fallbacks counted, got %d", got)
	}
}

func TestResolveSafe_FallsBackCalmly(t *testing.T) {
	r := NewResolver()

	d, fellBack := r.ResolveSafe("furious", TierPremium)
	if !fellBack {
		t.Fatal("unknown mood should report fallback")
	}
	if d == nil {
		t.Fatal("fallback must still produce a directive")
	}
	if d.Mood != MoodNeutral {
		t.Fatalf("fallback mood: expected neutral, got %s", d.Mood)
	}
	if d.Tone != FallbackToneProfile() {
		t.Fatalf("fallback tone profile: got %+v", d.Tone)
	}
	if d.Delivery != FallbackDelivery() {
		t.Fatalf("fallback delivery: got %+v", d.Delivery)
	}
	// The caller's tier survives the fallback: a premium user who hits a
	// table bug keeps premium entitlements.
	if d.Tier != TierPremium {
		t.Fatalf("fallback tier: expected premium, got %s", d.Tier)
	}
	if g, ok := d.Grant(FeatureReflection); !ok || g.Access != AccessFull {
		t.Fatalf("fallback lost premium Reflection grant: %+v (ok=%v)", g, ok)
	}
	if got := r.Metrics().Fallbacks.Load(); got != 1 {
		t.Fatalf("expected 1 fallback counted, got %d", got)
	}
}

func TestResolveSafe_InvalidTierFallsBackToFree(t *testing.T) {
	r := NewResolver()

	d, fellBack := r.ResolveSafe(MoodAnxious, "platinum")
	if !fellBack {
		t.Fatal("invalid tier should report fallback")
	}
	if d.Tier != TierFree {
		t.Fatalf("expected fallback tier=free, got %s", d.Tier)
	}
}

func TestMetrics_Snapshot(t *testing.T) {
	r := NewResolver()

	r.Resolve(MoodAnxious, TierFree)
	r.Resolve(MoodSad, TierFree)
	r.Resolve("furious", TierFree)
	r.ResolveSafe("furious", TierFree)

	snap := r.Metrics().Snapshot()
	if snap["resolves"] != 2 {
		t.Fatalf("expected 2 resolves, got %d", snap["resolves"])
	}
	// Both the failing Resolve and the failing ResolveSafe count a lookup
	// error; only ResolveSafe counts a fallback.
	if snap["lookup_errors"] != 2 {
		t.Fatalf("expected 2 lookup errors, got %d", snap["lookup_errors"])
	}
	if snap["fallbacks"] != 1 {
		t.Fatalf("expected 1 fallback, got %d", snap["fallbacks"])
	}
}

func TestToneProfile_Reflection(t *testing.T) {
	r := NewResolver()

	d, err := r.Resolve(MoodAnxious, TierPremium)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	got := d.Tone.Reflection("1 Peter 5:7")
	if got != "Breathe slowly. As you sit with 1 Peter 5:7, name one worry you can set down." {
		t.Fatalf("unexpected reflection text: %q", got)
	}
}
