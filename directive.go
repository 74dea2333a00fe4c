package selahsdk

// ──────────────────────────────────────────────
// RenderDirective — the resolver's output contract
// ──────────────────────────────────────────────

// RenderDirective is everything the app's rendering layer needs to style
// today's card for one user: the tone profile, the voice pacing, and the
// complete feature grant map for the user's tier. It is pure data (no
// markup, no rendered text) and safe to share between goroutines.
//
// Locked features (access none) are present in Features so the UI can show
// them with lock indicators instead of hiding them.
type RenderDirective struct {
	Mood     Mood              `json:"mood"`
	Tier     Tier              `json:"tier"`
	Tone     ToneProfile       `json:"tone"`
	Delivery DeliveryParams    `json:"delivery"`
	Features map[Feature]Grant `json:"features"`

	featureOrder []Feature
}

// Grant returns the grant for a feature and whether the feature exists.
func (d *RenderDirective) Grant(feature Feature) (Grant, bool) {
	g, ok := d.Features[feature]
	return g, ok
}

// Enabled reports whether a feature is usable at all for this tier.
// Limited access counts as enabled; the cap is the UsageMeter's business.
func (d *RenderDirective) Enabled(feature Feature) bool {
	g, ok := d.Features[feature]
	return ok && g.Access != AccessNone
}

// Locked returns the features this tier cannot use, in table order.
// The UI renders these rows with lock indicators (and an upsell).
func (d *RenderDirective) Locked() []Feature {
	var locked []Feature
	for _, f := range d.featureOrder {
		if g, ok := d.Features[f]; ok && g.Access == AccessNone {
			locked = append(locked, f)
		}
	}
	return locked
}

// Equal reports whether two directives are identical. Resolve is
// deterministic, so equal inputs must produce Equal directives.
func (d *RenderDirective) Equal(other *RenderDirective) bool {
	if d == nil || other == nil {
		return d == other
	}
	if d.Mood != other.Mood || d.Tier != other.Tier ||
		d.Tone != other.Tone || d.Delivery != other.Delivery {
		return false
	}
	if len(d.Features) != len(other.Features) {
		return false
	}
	for f, g := range d.Features {
		og, ok := other.Features[f]
		if !ok || og != g {
			return false
		}
	}
	return true
}
