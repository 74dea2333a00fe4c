package selahsdk

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Tone is the presentation tone resolved from a mood. Like Mood, the set is
// closed; the delivery table is total over exactly these values.
type Tone string

const (
	ToneCalm          Tone = "calm"
	ToneCompassionate Tone = "compassionate"
	ToneBalanced      Tone = "balanced"
	ToneInvitational  Tone = "invitational"
	ToneUplifting     Tone = "uplifting"
)

// AllTones returns every valid tone in canonical order.
func AllTones() []Tone {
	return []Tone{ToneCalm, ToneCompassionate, ToneBalanced, ToneInvitational, ToneUplifting}
}

// Valid reports whether t is one of the closed tone set.
func (t Tone) Valid() bool {
	switch t {
	case ToneCalm, ToneCompassionate, ToneBalanced, ToneInvitational, ToneUplifting:
		return true
	}
	return false
}

func (t Tone) String() string { return string(t) }

// ParseTone normalizes input onto the closed tone set.
func ParseTone(s string) (Tone, error) {
	t := Tone(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", &UnknownToneError{Tone: t}
	}
	return t, nil
}

// UnmarshalYAML enforces the closed set when tones appear in table data.
func (t *Tone) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseTone(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ──────────────────────────────────────────────
// ToneProfile — how content is voiced for a mood
// ──────────────────────────────────────────────

// ToneProfile describes how content is presented for a resolved tone.
// VoiceStyle is the content style guide's label (e.g. "Steady/reassuring");
// ReflectionFrame is a reflection prompt template with a {ref} placeholder
// for the verse reference.
type ToneProfile struct {
	Tone            Tone   `json:"tone" yaml:"tone"`
	VoiceStyle      string `json:"voice_style" yaml:"voice_style"`
	ReflectionFrame string `json:"reflection_frame" yaml:"reflection_frame"`
}

// Reflection expands the profile's reflection frame with a verse reference
// display string (e.g. "1 Peter 5:7").
func (p ToneProfile) Reflection(refDisplay string) string {
	return strings.ReplaceAll(p.ReflectionFrame, "{ref}", refDisplay)
}
