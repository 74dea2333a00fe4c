package selahsdk

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ──────────────────────────────────────────────
// Entitlements — feature access per subscription tier
// ──────────────────────────────────────────────

// Tier is the user's subscription tier. The SDK does not manage billing;
// tier arrives as an input from the app's account layer.
type Tier string

const (
	TierFree    Tier = "free"
	TierPremium Tier = "premium"
)

// AllTiers returns both tiers, free first.
func AllTiers() []Tier { return []Tier{TierFree, TierPremium} }

// Valid reports whether t is a known tier.
func (t Tier) Valid() bool { return t == TierFree || t == TierPremium }

func (t Tier) String() string { return string(t) }

// ParseTier normalizes input onto the tier set.
func ParseTier(s string) (Tier, error) {
	t := Tier(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("invalid tier %q", s)
	}
	return t, nil
}

// AccessLevel is a feature's access grade. Levels are ordered:
// none < limited < full. "limited" means usable under a cap (e.g. 3 journal
// entries per day); "none" means the feature is visible but locked.
type AccessLevel string

const (
	AccessNone    AccessLevel = "none"
	AccessLimited AccessLevel = "limited"
	AccessFull    AccessLevel = "full"
)

// Valid reports whether a is a known access level.
func (a AccessLevel) Valid() bool {
	switch a {
	case AccessNone, AccessLimited, AccessFull:
		return true
	}
	return false
}

// Rank returns the ordering position: none=0, limited=1, full=2.
// Unknown levels rank below none.
func (a AccessLevel) Rank() int {
	switch a {
	case AccessNone:
		return 0
	case AccessLimited:
		return 1
	case AccessFull:
		return 2
	}
	return -1
}

// AtLeast reports whether a grants no less access than other.
func (a AccessLevel) AtLeast(other AccessLevel) bool {
	return a.Rank() >= other.Rank()
}

// UnmarshalYAML enforces the closed set when access levels appear in table data.
func (a *AccessLevel) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed := AccessLevel(strings.ToLower(strings.TrimSpace(s)))
	if !parsed.Valid() {
		return fmt.Errorf("invalid value for access level: %q", s)
	}
	*a = parsed
	return nil
}

// Feature identifies an app feature by its display-style name, e.g.
// "Daily Verse" or "Quiz: Daily". The entitlement table defines the set.
type Feature string

func (f Feature) String() string { return string(f) }

// Feature names defined by the embedded entitlement table.
const (
	FeatureDailyVerse     Feature = "Daily Verse"
	FeatureMoodCheckin    Feature = "Mood Check-In"
	FeatureQuizDaily      Feature = "Quiz: Daily"
	FeatureQuizTopical    Feature = "Quiz: Topical Packs"
	FeatureReflection     Feature = "Reflection"
	FeatureJournal        Feature = "Journal"
	FeatureAudioNarration Feature = "Audio Narration"
	FeatureTranslations   Feature = "Translations"
	FeatureStreaks        Feature = "Streaks & Badges"
	FeatureOfflineLibrary Feature = "Offline Library"
)

// LimitPer values for limited grants.
const (
	// LimitPerDay caps are consumed against a per-day meter (see UsageMeter).
	LimitPerDay = "day"
	// LimitPerTotal caps are static (e.g. number of selectable translations);
	// the owning module enforces them, nothing is metered.
	LimitPerTotal = "total"
)

// FeatureEntitlement is one row of the entitlement table: a feature's access
// level for each tier, plus caps for limited grants.
type FeatureEntitlement struct {
	Feature       Feature     `json:"feature" yaml:"feature"`
	FreeAccess    AccessLevel `json:"free_access" yaml:"free_access"`
	PremiumAccess AccessLevel `json:"premium_access" yaml:"premium_access"`
	FreeLimit     int         `json:"free_limit,omitempty" yaml:"free_limit,omitempty"`
	PremiumLimit  int         `json:"premium_limit,omitempty" yaml:"premium_limit,omitempty"`
	LimitPer      string      `json:"limit_per,omitempty" yaml:"limit_per,omitempty"`
}

// Grant is the per-tier slice of an entitlement, as it appears in a
// RenderDirective. Limit is 0 unless Access is limited.
type Grant struct {
	Access   AccessLevel `json:"access"`
	Limit    int         `json:"limit,omitempty"`
	LimitPer string      `json:"limit_per,omitempty"`
}

// Unlimited reports whether the grant has full, uncapped access.
func (g Grant) Unlimited() bool { return g.Access == AccessFull }

// GrantFor returns the tier's slice of this entitlement.
func (e FeatureEntitlement) GrantFor(tier Tier) Grant {
	access, limit := e.FreeAccess, e.FreeLimit
	if tier == TierPremium {
		access, limit = e.PremiumAccess, e.PremiumLimit
	}
	g := Grant{Access: access}
	if access == AccessLimited {
		g.Limit = limit
		g.LimitPer = e.LimitPer
	}
	return g
}

// Validate checks one entitlement row. Besides enum closure it enforces the
// tier ordering promise: premium is never more restrictive than free, and
// when both tiers are limited the premium cap is never lower.
func (e FeatureEntitlement) Validate() error {
	if strings.TrimSpace(string(e.Feature)) == "" {
		return fmt.Errorf("entitlement with empty feature name")
	}
	if !e.FreeAccess.Valid() {
		return fmt.Errorf("feature %q: invalid free_access %q", e.Feature, e.FreeAccess)
	}
	if !e.PremiumAccess.Valid() {
		return fmt.Errorf("feature %q: invalid premium_access %q", e.Feature, e.PremiumAccess)
	}
	if e.PremiumAccess == AccessNone {
		return fmt.Errorf("feature %q: premium_access cannot be none", e.Feature)
	}
	if !e.PremiumAccess.AtLeast(e.FreeAccess) {
		return fmt.Errorf("feature %q: premium_access %q more restrictive than free_access %q",
			e.Feature, e.PremiumAccess, e.FreeAccess)
	}
	if err := e.validateLimit(TierFree, e.FreeAccess, e.FreeLimit); err != nil {
		return err
	}
	if err := e.validateLimit(TierPremium, e.PremiumAccess, e.PremiumLimit); err != nil {
		return err
	}
	if e.FreeAccess == AccessLimited && e.PremiumAccess == AccessLimited && e.PremiumLimit < e.FreeLimit {
		return fmt.Errorf("feature %q: premium limit %d below free limit %d",
			e.Feature, e.PremiumLimit, e.FreeLimit)
	}
	if e.LimitPer != "" && e.FreeAccess != AccessLimited && e.PremiumAccess != AccessLimited {
		return fmt.Errorf("feature %q: limit_per set but no tier is limited", e.Feature)
	}
	return nil
}

func (e FeatureEntitlement) validateLimit(tier Tier, access AccessLevel, limit int) error {
	if access == AccessLimited {
		if limit <= 0 {
			return fmt.Errorf("feature %q: %s access is limited but has no limit", e.Feature, tier)
		}
		if e.LimitPer != LimitPerDay && e.LimitPer != LimitPerTotal {
			return fmt.Errorf("feature %q: invalid limit_per %q", e.Feature, e.LimitPer)
		}
		return nil
	}
	if limit != 0 {
		return fmt.Errorf("feature %q: %s limit set but access is %s", e.Feature, tier, access)
	}
	return nil
}
