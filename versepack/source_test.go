package versepack

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEmbeddedSource(t *testing.T) {
	pack, err := EmbeddedSource{}.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if pack.Size() == 0 {
		t.Fatal("embedded source returned an empty pack")
	}
}

func TestFileSource(t *testing.T) {
	data := `
name: tiny
verses:
  - osis_id: Ps.23.1
    translation: KJV
    text: "The LORD is my shepherd; I shall not want."
    themes: [trust]
    moods: [anxious]
`
	path := filepath.Join(t.TempDir(), "pack.yaml")
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	pack, err := FileSource{Path: path}.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if pack.Name() != "tiny" || pack.Size() != 1 {
		t.Fatalf("unexpected pack: name=%q size=%d", pack.Name(), pack.Size())
	}
	v, ok := pack.Get("Ps.23.1", TranslationKJV)
	if !ok {
		t.Fatal("verse missing after file load")
	}
	if v.RefDisplay != "Psalms 23:1" {
		t.Fatalf("derived display ref: got %q", v.RefDisplay)
	}
}

func TestFileSource_MissingFile(t *testing.T) {
	_, err := FileSource{Path: filepath.Join(t.TempDir(), "absent.yaml")}.Load(context.Background())
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "read pack file") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewSupabaseSource_RequiresConfig(t *testing.T) {
	if _, err := NewSupabaseSource(SupabaseConfig{APIKey: "key"}); err == nil {
		t.Fatal("expected error for missing URL")
	}
	if _, err := NewSupabaseSource(SupabaseConfig{URL: "https://proj.supabase.co"}); err == nil {
		t.Fatal("expected error for missing API key")
	}
}

func TestProbArrayMapping(t *testing.T) {
	probs, err := daypartProbsFromArray([]float64{0.1, 0.2, 0.3, 0.4})
	if err != nil {
		t.Fatalf("daypartProbsFromArray failed: %v", err)
	}
	// The pipeline writes arrays in fixed daypart order.
	if probs[DaypartMorning] != 0.1 || probs[DaypartNight] != 0.4 {
		t.Fatalf("positional mapping broken: %v", probs)
	}

	tones, err := toneProbsFromArray([]float64{0.5, 0.2, 0.1, 0.1, 0.1})
	if err != nil {
		t.Fatalf("toneProbsFromArray failed: %v", err)
	}
	if tones[LabelCalming] != 0.5 || tones[LabelContemplative] != 0.1 {
		t.Fatalf("positional mapping broken: %v", tones)
	}
}

func TestProbArrayMapping_WrongLength(t *testing.T) {
	if _, err := daypartProbsFromArray([]float64{0.5, 0.5}); err == nil {
		t.Fatal("expected length error for daypart array")
	}
	if _, err := toneProbsFromArray([]float64{1.0}); err == nil {
		t.Fatal("expected length error for tone array")
	}
}

func TestTagListNormalization(t *testing.T) {
	themes := themeList([]string{" Comfort ", "TRUST"})
	if themes[0] != ThemeComfort || themes[1] != ThemeTrust {
		t.Fatalf("theme normalization broken: %v", themes)
	}
	moods := moodTagList([]string{"Anxious", " sad"})
	if moods[0] != TagAnxious || moods[1] != TagSad {
		t.Fatalf("mood normalization broken: %v", moods)
	}
}
