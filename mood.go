package selahsdk

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Mood is the user's emotional state at check-in, either self-reported or
// classified from a free-text note (see MoodDetector). The set is closed:
// the tone table is total over exactly these values.
type Mood string

const (
	MoodAnxious  Mood = "anxious"
	MoodSad      Mood = "sad"
	MoodNeutral  Mood = "neutral"
	MoodGrateful Mood = "grateful"
	MoodHopeful  Mood = "hopeful"
)

// AllMoods returns every valid mood in canonical order.
func AllMoods() []Mood {
	return []Mood{MoodAnxious, MoodSad, MoodNeutral, MoodGrateful, MoodHopeful}
}

// Valid reports whether m is one of the closed mood set.
func (m Mood) Valid() bool {
	switch m {
	case MoodAnxious, MoodSad, MoodNeutral, MoodGrateful, MoodHopeful:
		return true
	}
	return false
}

func (m Mood) String() string { return string(m) }

// ParseMood normalizes user/config input ("Anxious", "ANXIOUS") onto the
// closed mood set. Unrecognized input returns UnknownMoodError.
func ParseMood(s string) (Mood, error) {
	m := Mood(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", &UnknownMoodError{Mood: m}
	}
	return m, nil
}

// UnmarshalYAML enforces the closed set when moods appear in table data.
func (m *Mood) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseMood(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
