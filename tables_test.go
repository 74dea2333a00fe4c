package selahsdk

import (
	"errors"
	"strings"
	"testing"
)

// resetTablesForTest clears the package default registry so load-once
// behavior can be exercised. Registry tests must not run in parallel.
func resetTablesForTest() {
	defaultMu.Lock()
	defaultSet = nil
	defaultLoaded.Store(false)
	defaultMu.Unlock()
}

func TestLoadTables_Once(t *testing.T) {
	resetTablesForTest()

	if TablesLoaded() {
		t.Fatal("tables reported loaded right after reset")
	}
	if err := LoadTables(); err != nil {
		t.Fatalf("first LoadTables failed: %v", err)
	}
	if !TablesLoaded() {
		t.Fatal("tables not reported loaded after LoadTables")
	}

	err := LoadTables()
	if err == nil {
		t.Fatal("second LoadTables should fail")
	}
	var initErr *AlreadyInitializedError
	if !errors.As(err, &initErr) {
		t.Fatalf("expected AlreadyInitializedError, got %T: %v", err, err)
	}
}

func TestLoadTables_AfterLazyLoad(t *testing.T) {
	resetTablesForTest()

	// DefaultTables lazy-loads; an explicit LoadTables afterwards is a
	// second initialization and must be refused.
	if DefaultTables() == nil {
		t.Fatal("DefaultTables returned nil")
	}
	var initErr *AlreadyInitializedError
	if err := LoadTables(); !errors.As(err, &initErr) {
		t.Fatalf("expected AlreadyInitializedError after lazy load, got %v", err)
	}
}

func TestDefaultTables_Totality(t *testing.T) {
	ts := DefaultTables()

	for _, mood := range AllMoods() {
		profile, err := ts.ToneFor(mood)
		if err != nil {
			t.Fatalf("ToneFor(%s): %v", mood, err)
		}
		if profile.VoiceStyle == "" {
			t.Fatalf("mood %s has an empty voice style", mood)
		}
		if !strings.Contains(profile.ReflectionFrame, "{ref}") {
			t.Fatalf("mood %s reflection frame has no {ref} placeholder: %q", mood, profile.ReflectionFrame)
		}
		if _, err := ts.DeliveryFor(profile.Tone); err != nil {
			t.Fatalf("mood %s resolves to tone %s with no delivery row: %v", mood, profile.Tone, err)
		}
	}
	for _, tone := range AllTones() {
		params, err := ts.DeliveryFor(tone)
		if err != nil {
			t.Fatalf("DeliveryFor(%s): %v", tone, err)
		}
		if err := params.Validate(); err != nil {
			t.Fatalf("tone %s delivery invalid: %v", tone, err)
		}
	}
	if len(ts.Features()) == 0 {
		t.Fatal("no features defined")
	}
	for _, f := range ts.Features() {
		if _, err := ts.EntitlementFor(f); err != nil {
			t.Fatalf("EntitlementFor(%s): %v", f, err)
		}
	}
}

func TestDefaultTables_TierMonotonicity(t *testing.T) {
	ts := DefaultTables()
	free := ts.Grants(TierFree)
	premium := ts.Grants(TierPremium)

	for _, f := range ts.Features() {
		if !premium[f].Access.AtLeast(free[f].Access) {
			t.Fatalf("feature %s: premium access %s below free access %s",
				f, premium[f].Access, free[f].Access)
		}
		if free[f].Access == AccessLimited && premium[f].Access == AccessLimited &&
			premium[f].Limit < free[f].Limit {
			t.Fatalf("feature %s: premium limit %d below free limit %d",
				f, premium[f].Limit, free[f].Limit)
		}
	}
}

func TestTableSet_UnknownLookups(t *testing.T) {
	ts := DefaultTables()

	var moodErr *UnknownMoodError
	if _, err := ts.ToneFor("melancholy"); !errors.As(err, &moodErr) {
		t.Fatalf("expected UnknownMoodError, got %v", err)
	}
	var toneErr *UnknownToneError
	if _, err := ts.DeliveryFor("booming"); !errors.As(err, &toneErr) {
		t.Fatalf("expected UnknownToneError, got %v", err)
	}
	var featErr *UnknownFeatureError
	if _, err := ts.EntitlementFor("Time Travel"); !errors.As(err, &featErr) {
		t.Fatalf("expected UnknownFeatureError, got %v", err)
	}
}

func TestParseTableSet_Rejects(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{
			name: "duplicate mood row",
			data: `
tones:
  - {mood: anxious, tone: calm, voice_style: A, reflection_frame: "{ref}"}
  - {mood: anxious, tone: calm, voice_style: B, reflection_frame: "{ref}"}
`,
			want: "duplicate mood",
		},
		{
			name: "mood outside the closed set",
			data: `
tones:
  - {mood: melancholy, tone: calm, voice_style: A, reflection_frame: "{ref}"}
`,
			want: "unknown mood",
		},
		{
			name: "empty voice style",
			data: `
tones:
  - {mood: anxious, tone: calm, voice_style: "", reflection_frame: "{ref}"}
`,
			want: "empty voice_style",
		},
		{
			name: "speed out of range",
			data: `
deliveries:
  - {tone: calm, speed_multiplier: 3.0, pitch: neutral, pause_style: extended}
`,
			want: "out of range",
		},
		{
			name: "pitch outside the closed set",
			data: `
deliveries:
  - {tone: calm, speed_multiplier: 0.9, pitch: squeaky, pause_style: extended}
`,
			want: "invalid value for pitch",
		},
		{
			name: "premium more restrictive than free",
			data: `
entitlements:
  - {feature: Journal, free_access: full, premium_access: limited, premium_limit: 3, limit_per: day}
`,
			want: "more restrictive",
		},
		{
			name: "limited access without a limit",
			data: `
entitlements:
  - {feature: Journal, free_access: limited, premium_access: full, limit_per: day}
`,
			want: "has no limit",
		},
		{
			name: "premium cap below free cap",
			data: `
entitlements:
  - feature: Journal
    free_access: limited
    premium_access: limited
    free_limit: 5
    premium_limit: 3
    limit_per: day
`,
			want: "below free limit",
		},
		{
			name: "duplicate feature row",
			data: `
entitlements:
  - {feature: Journal, free_access: full, premium_access: full}
  - {feature: Journal, free_access: full, premium_access: full}
`,
			want: "duplicate feature",
		},
		{
			name: "mood missing from tone table",
			data: `
tones:
  - {mood: anxious, tone: calm, voice_style: A, reflection_frame: "{ref}"}
  - {mood: sad, tone: compassionate, voice_style: B, reflection_frame: "{ref}"}
  - {mood: neutral, tone: balanced, voice_style: C, reflection_frame: "{ref}"}
  - {mood: grateful, tone: uplifting, voice_style: D, reflection_frame: "{ref}"}
deliveries:
  - {tone: calm, speed_multiplier: 0.9, pitch: neutral, pause_style: extended}
  - {tone: compassionate, speed_multiplier: 0.9, pitch: lower, pause_style: extended}
  - {tone: balanced, speed_multiplier: 1.0, pitch: neutral, pause_style: standard}
  - {tone: invitational, speed_multiplier: 1.05, pitch: neutral, pause_style: standard}
  - {tone: uplifting, speed_multiplier: 1.1, pitch: higher, pause_style: brief}
entitlements:
  - {feature: Journal, free_access: full, premium_access: full}
`,
			want: `mood "hopeful" has no entry`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTableSet([]byte(tt.data))
			if err == nil {
				t.Fatal("expected a parse error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestGrantFor_LimitedCarriesCap(t *testing.T) {
	ts := DefaultTables()

	ent, err := ts.EntitlementFor(FeatureJournal)
	if err != nil {
		t.Fatalf("EntitlementFor(Journal): %v", err)
	}
	free := ent.GrantFor(TierFree)
	if free.Access != AccessLimited || free.Limit != 3 || free.LimitPer != LimitPerDay {
		t.Fatalf("unexpected free journal grant: %+v", free)
	}
	if free.Unlimited() {
		t.Fatal("limited grant reported unlimited")
	}

	premium := ent.GrantFor(TierPremium)
	if premium.Access != AccessFull {
		t.Fatalf("expected full premium journal access, got %s", premium.Access)
	}
	// Full access never exposes a cap, even if the row defines one for
	// the other tier.
	if premium.Limit != 0 || premium.LimitPer != "" {
		t.Fatalf("full grant leaked cap fields: %+v", premium)
	}
	if !premium.Unlimited() {
		t.Fatal("full grant not reported unlimited")
	}
}

func TestParseEnums_NormalizeInput(t *testing.T) {
	if m, err := ParseMood("  Anxious "); err != nil || m != MoodAnxious {
		t.Fatalf("ParseMood: got %q, %v", m, err)
	}
	if _, err := ParseMood("furious"); err == nil {
		t.Fatal("ParseMood accepted an unknown mood")
	}
	if tone, err := ParseTone("UPLIFTING"); err != nil || tone != ToneUplifting {
		t.Fatalf("ParseTone: got %q, %v", tone, err)
	}
	if tier, err := ParseTier("Premium"); err != nil || tier != TierPremium {
		t.Fatalf("ParseTier: got %q, %v", tier, err)
	}
	if _, err := ParseTier("platinum"); err == nil {
		t.Fatal("ParseTier accepted an unknown tier")
	}
}
