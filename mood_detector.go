package selahsdk

import (
	"strings"
	"time"
	"unicode/utf8"
)

// ──────────────────────────────────────────────
// Mood Detector — lightweight rule-based scoring
// ──────────────────────────────────────────────

// DetectedMood holds the detected check-in mood and confidence.
type DetectedMood struct {
	Mood       Mood             `json:"mood"`
	Confidence float64          `json:"confidence"` // 0.0-1.0
	Scores     map[Mood]float64 `json:"scores"`     // all mood scores
}

type weightedKeyword struct {
	keyword string
	weight  float64
}

// MoodDetector scores free-text check-in notes against weighted keyword
// patterns. It backs the optional "say more" box on the check-in screen;
// tapping a mood chip directly skips detection entirely.
type MoodDetector struct {
	patterns map[Mood][]weightedKeyword
}

// NewMoodDetector creates a detector with the built-in patterns.
func NewMoodDetector() *MoodDetector {
	return &MoodDetector{
		patterns: defaultMoodPatterns(),
	}
}

func defaultMoodPatterns() map[Mood][]weightedKeyword {
	return map[Mood][]weightedKeyword{
		MoodAnxious: {
			{keyword: "anxious", weight: 0.5}, {keyword: "worried", weight: 0.5},
			{keyword: "overwhelmed", weight: 0.5}, {keyword: "stressed", weight: 0.5},
			{keyword: "afraid", weight: 0.4}, {keyword: "scared", weight: 0.4},
			{keyword: "nervous", weight: 0.4}, {keyword: "can't sleep", weight: 0.4},
			{keyword: "racing", weight: 0.3}, {keyword: "restless", weight: 0.3},
		},
		MoodSad: {
			{keyword: "sad", weight: 0.5}, {keyword: "lonely", weight: 0.5},
			{keyword: "grieving", weight: 0.5}, {keyword: "heartbroken", weight: 0.5},
			{keyword: "crying", weight: 0.4}, {keyword: "empty", weight: 0.4},
			// Common words — low weight to reduce false positives
			{keyword: "down", weight: 0.3}, {keyword: "miss", weight: 0.3},
			{keyword: "hurt", weight: 0.3},
		},
		MoodGrateful: {
			{keyword: "grateful", weight: 0.5}, {keyword: "thankful", weight: 0.5},
			{keyword: "blessed", weight: 0.4}, {keyword: "answered", weight: 0.3},
			{keyword: "thank", weight: 0.3}, {keyword: "appreciate", weight: 0.3},
		},
		MoodHopeful: {
			{keyword: "hopeful", weight: 0.5}, {keyword: "encouraged", weight: 0.4},
			{keyword: "excited", weight: 0.4}, {keyword: "looking forward", weight: 0.4},
			{keyword: "fresh start", weight: 0.4}, {keyword: "hope", weight: 0.3},
			{keyword: "better", weight: 0.3},
		},
	}
}

const (
	// Scores below this resolve to neutral.
	moodThreshold = 0.3
	// Notes at or under this length count as short for the night boost.
	shortNoteRunes = 40
)

// Detect analyzes a free-text check-in note. The timestamp drives a
// contextual boost: short notes written late at night lean anxious.
func (d *MoodDetector) Detect(note string, at time.Time) *DetectedMood {
	lower := strings.ToLower(note)
	scores := map[Mood]float64{
		MoodNeutral:  0,
		MoodAnxious:  0,
		MoodSad:      0,
		MoodGrateful: 0,
		MoodHopeful:  0,
	}

	// Keyword scoring
	for mood, keywords := range d.patterns {
		for _, kw := range keywords {
			if strings.Contains(lower, kw.keyword) {
				scores[mood] += kw.weight
			}
		}
	}

	// Contextual boost: short note late at night → anxious +0.2
	length := utf8.RuneCountInString(strings.TrimSpace(note))
	if DaypartForTime(at) == DaypartNight && length > 0 && length <= shortNoteRunes {
		scores[MoodAnxious] += 0.2
	}

	// Exclamation boost: >=2 exclamation marks → top mood +0.1 (cap +0.2)
	exclamCount := strings.Count(note, "!")
	if exclamCount >= 2 {
		boost := float64(exclamCount) * 0.1
		if boost > 0.2 {
			boost = 0.2
		}
		maxMood := findMaxMood(scores)
		if maxMood != MoodNeutral {
			scores[maxMood] += boost
		}
	}

	// Find top mood
	topMood := MoodNeutral
	topScore := 0.0
	for mood, score := range scores {
		if mood == MoodNeutral {
			continue
		}
		if score > topScore {
			topScore = score
			topMood = mood
		}
	}

	// Clamp confidence
	confidence := topScore
	if confidence > 1.0 {
		confidence = 1.0
	}

	// Below threshold → neutral
	if confidence < moodThreshold {
		topMood = MoodNeutral
		confidence = 0
	}

	return &DetectedMood{
		Mood:       topMood,
		Confidence: confidence,
		Scores:     scores,
	}
}

func findMaxMood(scores map[Mood]float64) Mood {
	maxMood := MoodNeutral
	maxScore := 0.0
	for mood, score := range scores {
		if mood == MoodNeutral {
			continue
		}
		if score > maxScore {
			maxScore = score
			maxMood = mood
		}
	}
	return maxMood
}
