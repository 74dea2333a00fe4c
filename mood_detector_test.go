package selahsdk

import (
	"testing"
	"time"
)

func detectAt(hour int) time.Time {
	return time.Date(2026, 3, 14, hour, 30, 0, 0, time.UTC)
}

func TestMoodDetector_KeywordScoring(t *testing.T) {
	d := NewMoodDetector()

	tests := []struct {
		note string
		want Mood
	}{
		{"I'm so anxious and worried about tomorrow", MoodAnxious},
		{"I miss her so much, feeling really down", MoodSad},
		{"So thankful today, my prayer was answered", MoodGrateful},
		{"Starting a fresh start at the new job, feeling encouraged", MoodHopeful},
		{"Just checking in", MoodNeutral},
	}

	for _, tt := range tests {
		got := d.Detect(tt.note, detectAt(14))
		if got.Mood != tt.want {
			t.Fatalf("Detect(%q): expected %s, got %s (scores=%v)", tt.note, tt.want, got.Mood, got.Scores)
		}
	}
}

func TestMoodDetector_BelowThresholdIsNeutral(t *testing.T) {
	d := NewMoodDetector()

	got := d.Detect("a long walk by the river this afternoon", detectAt(14))
	if got.Mood != MoodNeutral {
		t.Fatalf("expected neutral, got %s", got.Mood)
	}
	if got.Confidence != 0 {
		t.Fatalf("neutral result should carry zero confidence, got %.2f", got.Confidence)
	}
}

func TestMoodDetector_ConfidenceClamped(t *testing.T) {
	d := NewMoodDetector()

	// Stacks enough anxious keywords to push the raw score past 1.0.
	got := d.Detect("anxious, worried, overwhelmed and stressed, scared and restless", detectAt(14))
	if got.Mood != MoodAnxious {
		t.Fatalf("expected anxious, got %s", got.Mood)
	}
	if got.Confidence != 1.0 {
		t.Fatalf("expected clamped confidence 1.0, got %.2f", got.Confidence)
	}
}

func TestMoodDetector_NightBoost(t *testing.T) {
	d := NewMoodDetector()

	// "restless" alone scores 0.3. Written late at night as a short note
	// it picks up the anxious boost.
	day := d.Detect("restless", detectAt(14))
	night := d.Detect("restless", detectAt(23))

	if day.Mood != MoodAnxious || night.Mood != MoodAnxious {
		t.Fatalf("expected anxious both times, got %s / %s", day.Mood, night.Mood)
	}
	if night.Confidence <= day.Confidence {
		t.Fatalf("night confidence %.2f should exceed day confidence %.2f",
			night.Confidence, day.Confidence)
	}
}

func TestMoodDetector_NightBoostAloneIsNotEnough(t *testing.T) {
	d := NewMoodDetector()

	// No keywords at all: the late-night boost by itself must not invent
	// an anxious result.
	got := d.Detect("long day", detectAt(23))
	if got.Mood != MoodNeutral {
		t.Fatalf("expected neutral, got %s (scores=%v)", got.Mood, got.Scores)
	}
}

func TestMoodDetector_ExclamationBoost(t *testing.T) {
	d := NewMoodDetector()

	plain := d.Detect("so excited", detectAt(14))
	loud := d.Detect("so excited!!", detectAt(14))

	if loud.Mood != MoodHopeful {
		t.Fatalf("expected hopeful, got %s", loud.Mood)
	}
	if loud.Confidence <= plain.Confidence {
		t.Fatalf("exclamations should raise confidence: %.2f vs %.2f",
			loud.Confidence, plain.Confidence)
	}

	// The boost is capped, so ten marks score the same as four.
	four := d.Detect("so excited!!!!", detectAt(14))
	ten := d.Detect("so excited!!!!!!!!!!", detectAt(14))
	if four.Confidence != ten.Confidence {
		t.Fatalf("boost should cap: %.2f vs %.2f", four.Confidence, ten.Confidence)
	}
}

func TestMoodDetector_EmptyNote(t *testing.T) {
	d := NewMoodDetector()

	got := d.Detect("", detectAt(23))
	if got.Mood != MoodNeutral || got.Confidence != 0 {
		t.Fatalf("empty note: expected neutral/0, got %s/%.2f", got.Mood, got.Confidence)
	}
}
