package versepack

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/supabase-community/supabase-go"
)

// ──────────────────────────────────────────────
// Supabase source — verses joined with verse_annotations
// ──────────────────────────────────────────────

const (
	versesTable      = "verses"
	annotationsTable = "verse_annotations"
)

// SupabaseConfig configures the content database source.
type SupabaseConfig struct {
	URL          string
	APIKey       string
	PackName     string        // defaults to "supabase"
	Translations []Translation // empty means all translations
}

// SupabaseSource loads verse packs from the ingestion pipeline's verses and
// verse_annotations tables.
type SupabaseSource struct {
	client *supabase.Client
	config SupabaseConfig
	tagger *Tagger
}

func NewSupabaseSource(config SupabaseConfig) (*SupabaseSource, error) {
	if config.URL == "" {
		return nil, fmt.Errorf("supabase URL is required")
	}
	if config.APIKey == "" {
		return nil, fmt.Errorf("supabase API key is required")
	}
	if config.PackName == "" {
		config.PackName = "supabase"
	}
	client, err := supabase.NewClient(config.URL, config.APIKey, nil)
	if err != nil {
		return nil, fmt.Errorf("create supabase client: %w", err)
	}
	return &SupabaseSource{
		client: client,
		config: config,
		tagger: NewTagger(),
	}, nil
}

// Row shapes for the two tables. The probability columns are positional
// arrays in the pipeline's fixed daypart and tone label order.
type verseRecord struct {
	OsisID      string `json:"osis_id"`
	Translation string `json:"translation"`
	Text        string `json:"text"`
}

type annotationRecord struct {
	OsisID       string    `json:"osis_id"`
	Translation  string    `json:"translation"`
	Themes       []string  `json:"themes"`
	Moods        []string  `json:"moods"`
	DaypartProbs []float64 `json:"daypart_probs"`
	ToneProbs    []float64 `json:"tone_probs"`
}

// Load fetches verses joined with their annotations and assembles a
// validated pack. Verses without an annotation row are tagged locally with
// the keyword fallback. Safety and familiarity always come from the local
// screens, not from row payloads.
func (s *SupabaseSource) Load(ctx context.Context) (*Pack, error) {
	records, err := s.fetchVerses()
	if err != nil {
		return nil, err
	}
	annotations, err := s.fetchAnnotations()
	if err != nil {
		return nil, err
	}

	annByKey := make(map[string]annotationRecord, len(annotations))
	for _, a := range annotations {
		annByKey[a.OsisID+"|"+a.Translation] = a
	}

	verses := make([]Verse, 0, len(records))
	tagged := 0
	for _, rec := range records {
		row := verseRow{
			OsisID:      rec.OsisID,
			Translation: Translation(strings.ToUpper(rec.Translation)),
			Text:        rec.Text,
		}
		if ann, ok := annByKey[rec.OsisID+"|"+rec.Translation]; ok {
			row.Themes = themeList(ann.Themes)
			row.Moods = moodTagList(ann.Moods)
			// Absent arrays fall through to the pipeline priors in buildVerse.
			if len(ann.DaypartProbs) > 0 {
				if row.DaypartProbs, err = daypartProbsFromArray(ann.DaypartProbs); err != nil {
					return nil, fmt.Errorf("verse %s: %w", rec.OsisID, err)
				}
			}
			if len(ann.ToneProbs) > 0 {
				if row.ToneProbs, err = toneProbsFromArray(ann.ToneProbs); err != nil {
					return nil, fmt.Errorf("verse %s: %w", rec.OsisID, err)
				}
			}
		} else {
			row.Themes = s.tagger.Themes(rec.Text, 3)
			row.Moods = s.tagger.Moods(rec.Text, 2)
			tagged++
		}
		verse, err := buildVerse(row)
		if err != nil {
			return nil, err
		}
		verses = append(verses, verse)
	}

	pack, err := NewPack(s.config.PackName, verses)
	if err != nil {
		return nil, err
	}
	log.Printf("[VersePack] Loaded pack from supabase | name=%s verses=%d translations=%d tagged=%d",
		pack.Name(), pack.Size(), len(pack.Translations()), tagged)
	return pack, nil
}

func (s *SupabaseSource) fetchVerses() ([]verseRecord, error) {
	query := s.client.From(versesTable).
		Select("osis_id, translation, text", "", false)
	if len(s.config.Translations) > 0 {
		codes := make([]string, len(s.config.Translations))
		for i, tr := range s.config.Translations {
			codes[i] = string(tr)
		}
		query = query.In("translation", codes)
	}
	var rows []verseRecord
	if _, err := query.ExecuteTo(&rows); err != nil {
		return nil, fmt.Errorf("fetch verses: %w", err)
	}
	return rows, nil
}

func (s *SupabaseSource) fetchAnnotations() ([]annotationRecord, error) {
	query := s.client.From(annotationsTable).
		Select("osis_id, translation, themes, moods, daypart_probs, tone_probs", "", false)
	if len(s.config.Translations) > 0 {
		codes := make([]string, len(s.config.Translations))
		for i, tr := range s.config.Translations {
			codes[i] = string(tr)
		}
		query = query.In("translation", codes)
	}
	var rows []annotationRecord
	if _, err := query.ExecuteTo(&rows); err != nil {
		return nil, fmt.Errorf("fetch annotations: %w", err)
	}
	return rows, nil
}

func themeList(values []string) []Theme {
	out := make([]Theme, 0, len(values))
	for _, v := range values {
		out = append(out, Theme(strings.ToLower(strings.TrimSpace(v))))
	}
	return out
}

func moodTagList(values []string) []MoodTag {
	out := make([]MoodTag, 0, len(values))
	for _, v := range values {
		out = append(out, MoodTag(strings.ToLower(strings.TrimSpace(v))))
	}
	return out
}

// daypartProbsFromArray maps the pipeline's positional array onto dayparts.
func daypartProbsFromArray(values []float64) (map[Daypart]float64, error) {
	order := AllDayparts()
	if len(values) != len(order) {
		return nil, fmt.Errorf("daypart probs: got %d values, want %d", len(values), len(order))
	}
	out := make(map[Daypart]float64, len(order))
	for i, d := range order {
		out[d] = values[i]
	}
	return out, nil
}

// toneProbsFromArray maps the pipeline's positional array onto tone labels.
func toneProbsFromArray(values []float64) (map[ToneLabel]float64, error) {
	order := AllToneLabels()
	if len(values) != len(order) {
		return nil, fmt.Errorf("tone probs: got %d values, want %d", len(values), len(order))
	}
	out := make(map[ToneLabel]float64, len(order))
	for i, l := range order {
		out[l] = values[i]
	}
	return out, nil
}

var _ Source = (*SupabaseSource)(nil)
