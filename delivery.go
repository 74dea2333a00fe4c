package selahsdk

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ──────────────────────────────────────────────
// DeliveryParams — voice pacing instructions per tone
// ──────────────────────────────────────────────
//
// The SDK never synthesizes audio. DeliveryParams are instructions handed to
// whatever narration layer the app plugs in: a speed multiplier against the
// voice's base rate, a coarse pitch shift, and a pause style for verse and
// sentence boundaries.

// Pitch is a coarse pitch shift relative to the narrator's base voice.
type Pitch string

const (
	PitchLower   Pitch = "lower"
	PitchNeutral Pitch = "neutral"
	PitchHigher  Pitch = "higher"
)

// Valid reports whether p is a known pitch value.
func (p Pitch) Valid() bool {
	switch p {
	case PitchLower, PitchNeutral, PitchHigher:
		return true
	}
	return false
}

// UnmarshalYAML enforces the closed set when pitch appears in table data.
func (p *Pitch) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed := Pitch(strings.ToLower(strings.TrimSpace(s)))
	if !parsed.Valid() {
		return fmt.Errorf("invalid value for pitch: %q", s)
	}
	*p = parsed
	return nil
}

// PauseStyle controls pause length at verse and sentence boundaries.
type PauseStyle string

const (
	PausesExtended PauseStyle = "extended"
	PausesStandard PauseStyle = "standard"
	PausesBrief    PauseStyle = "brief"
)

// Valid reports whether s is a known pause style.
func (s PauseStyle) Valid() bool {
	switch s {
	case PausesExtended, PausesStandard, PausesBrief:
		return true
	}
	return false
}

// UnmarshalYAML enforces the closed set when pause style appears in table data.
func (s *PauseStyle) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed := PauseStyle(strings.ToLower(strings.TrimSpace(raw)))
	if !parsed.Valid() {
		return fmt.Errorf("invalid value for pause_style: %q", raw)
	}
	*s = parsed
	return nil
}

// DeliveryParams are the voice pacing parameters for one tone.
type DeliveryParams struct {
	SpeedMultiplier float64    `json:"speed_multiplier" yaml:"speed_multiplier"`
	Pitch           Pitch      `json:"pitch" yaml:"pitch"`
	PauseStyle      PauseStyle `json:"pause_style" yaml:"pause_style"`
}

// Validate checks the params are usable by a narration layer.
// Speed is bounded to 0.5-2.0; outside that range narration is unintelligible.
func (d DeliveryParams) Validate() error {
	if d.SpeedMultiplier < 0.5 || d.SpeedMultiplier > 2.0 {
		return fmt.Errorf("speed_multiplier %.2f out of range [0.5, 2.0]", d.SpeedMultiplier)
	}
	if !d.Pitch.Valid() {
		return fmt.Errorf("invalid pitch %q", string(d.Pitch))
	}
	if !d.PauseStyle.Valid() {
		return fmt.Errorf("invalid pause_style %q", string(d.PauseStyle))
	}
	return nil
}
