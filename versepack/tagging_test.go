package versepack

import (
	"strings"
	"testing"
)

func TestSafetyScreen_CleanText(t *testing.T) {
	flags := SafetyScreen("Casting all your care upon him; for he careth for you.")
	if flags.Violence || flags.Sexual || flags.Slavery || flags.HarshRebuke {
		t.Fatalf("clean text flagged: %+v", flags)
	}
	if !flags.KidSafe {
		t.Fatal("clean text should be kid safe")
	}
}

func TestSafetyScreen_ViolenceBreaksKidSafe(t *testing.T) {
	flags := SafetyScreen("Blessed be the LORD my strength, which teacheth my hands to war, and my fingers to fight:")
	if !flags.Violence {
		t.Fatal("war imagery not flagged as violence")
	}
	if flags.KidSafe {
		t.Fatal("violence-flagged text reported kid safe")
	}
}

func TestSafetyScreen_RebukeKeepsKidSafe(t *testing.T) {
	// Kid-safe derives from violence/sexual only; a harsh rebuke alone
	// does not strip it.
	flags := SafetyScreen("Woe unto you, scribes and Pharisees, hypocrites!")
	if !flags.HarshRebuke {
		t.Fatal("rebuke not flagged")
	}
	if !flags.KidSafe {
		t.Fatal("rebuke alone should stay kid safe")
	}
}

func TestSafetyScreen_WordBoundaries(t *testing.T) {
	// "warm" and "sword" share letters with screen words; only whole-word
	// hits count for "war", while "sword" is itself a screen word.
	if SafetyScreen("a warm welcome").Violence {
		t.Fatal("substring match leaked through the word boundary")
	}
	if !SafetyScreen("the sword of the spirit").Violence {
		t.Fatal("sword not flagged")
	}
}

func TestWordCount(t *testing.T) {
	if n := WordCount("The LORD is my shepherd; I shall not want."); n != 9 {
		t.Fatalf("expected 9 words, got %d", n)
	}
	if n := WordCount(""); n != 0 {
		t.Fatalf("expected 0 words, got %d", n)
	}
}

func TestReadingGrade(t *testing.T) {
	// 4 words, 1 sentence, 4 syllables:
	// 0.39*4 + 11.8*1 - 15.59 = -2.23, rounded to -2.2.
	if g := ReadingGrade("Trust in the LORD."); g != -2.2 {
		t.Fatalf("expected grade -2.2, got %.2f", g)
	}

	simple := ReadingGrade("Be still. Know God. Rest now.")
	dense := ReadingGrade("Notwithstanding innumerable tribulations, perseverance establishes sanctification.")
	if simple >= dense {
		t.Fatalf("simple text graded %.1f, dense text %.1f", simple, dense)
	}
}

func TestFamiliarityScore(t *testing.T) {
	short := FamiliarityScore(strings.Repeat("a", 20))
	if short != 0.8 {
		t.Fatalf("20-char text: expected 0.8, got %.3f", short)
	}
	if long := FamiliarityScore(strings.Repeat("a", 300)); long != 0.5 {
		t.Fatalf("long text: expected floor 0.5, got %.3f", long)
	}
	if at := FamiliarityScore(strings.Repeat("a", 140)); at != 0.5 {
		t.Fatalf("140-char text: expected 0.5, got %.3f", at)
	}
}

func TestTextHash(t *testing.T) {
	if h := TextHash(""); h != "da39a3ee5e6b4b0d3255bfef95601890afd80709" {
		t.Fatalf("empty-text hash: got %q", h)
	}
	a := TextHash("Fear thou not; for I am with thee")
	b := TextHash("Fear thou not, for I am with thee")
	if a == b {
		t.Fatal("punctuation change did not change the hash")
	}
	if len(a) != 40 {
		t.Fatalf("expected 40 hex chars, got %d", len(a))
	}
}

func TestTagger_ThemesRankedAndCapped(t *testing.T) {
	tagger := NewTagger()

	// Seven themes hit once each; ties keep pipeline order, and topK
	// truncates the tail.
	themes := tagger.Themes("peace hope trust love joy strength", 3)
	want := []Theme{ThemeComfort, ThemeHope, ThemeTrust}
	if len(themes) != len(want) {
		t.Fatalf("expected %v, got %v", want, themes)
	}
	for i := range want {
		if themes[i] != want[i] {
			t.Fatalf("themes[%d]: expected %s, got %s", i, want[i], themes[i])
		}
	}
}

func TestTagger_MoreHitsRankFirst(t *testing.T) {
	tagger := NewTagger()

	// Two guidance keywords beat one comfort keyword.
	themes := tagger.Themes("thy word is a lamp unto my feet, and a light unto my path", 2)
	if len(themes) == 0 || themes[0] != ThemeGuidance {
		t.Fatalf("expected guidance first, got %v", themes)
	}
}

func TestTagger_Fallbacks(t *testing.T) {
	tagger := NewTagger()

	if themes := tagger.Themes("xyzzy", 3); len(themes) != 1 || themes[0] != ThemeComfort {
		t.Fatalf("expected comfort fallback, got %v", themes)
	}
	if moods := tagger.Moods("xyzzy", 2); len(moods) != 1 || moods[0] != TagHopeful {
		t.Fatalf("expected hopeful fallback, got %v", moods)
	}
}

func TestTagger_Moods(t *testing.T) {
	tagger := NewTagger()

	moods := tagger.Moods("Casting all your care upon him; for he careth for you.", 2)
	found := false
	for _, m := range moods {
		if m == TagAnxious {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected anxious tag for care-burden text, got %v", moods)
	}
}

func TestTagger_Annotate(t *testing.T) {
	tagger := NewTagger()

	ann := tagger.Annotate("The LORD is my shepherd; I shall not want.")
	if len(ann.Themes) == 0 || len(ann.Moods) == 0 {
		t.Fatalf("annotation missing tags: %+v", ann)
	}
	if len(ann.DaypartProbs) != len(AllDayparts()) {
		t.Fatalf("expected priors over all dayparts, got %v", ann.DaypartProbs)
	}
	if len(ann.ToneProbs) != len(AllToneLabels()) {
		t.Fatalf("expected priors over all tone labels, got %v", ann.ToneProbs)
	}
	if !ann.Safety.KidSafe {
		t.Fatal("shepherd verse flagged unsafe")
	}
	if ann.Familiarity <= 0 || ann.Familiarity > 1 {
		t.Fatalf("familiarity out of range: %.3f", ann.Familiarity)
	}
	if err := ann.Validate(); err != nil {
		t.Fatalf("generated annotation invalid: %v", err)
	}
}
