package versepack

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ──────────────────────────────────────────────
// Pack — an immutable, indexed set of annotated verses
// ──────────────────────────────────────────────

// Translation identifies a Bible translation. The pipeline ships the three
// public-domain translations.
type Translation string

const (
	TranslationKJV Translation = "KJV"
	TranslationWEB Translation = "WEB"
	TranslationASV Translation = "ASV"
)

// AllTranslations returns the shipped translations in pipeline order.
func AllTranslations() []Translation {
	return []Translation{TranslationKJV, TranslationWEB, TranslationASV}
}

// Valid reports whether t is a shipped translation.
func (t Translation) Valid() bool {
	switch t {
	case TranslationKJV, TranslationWEB, TranslationASV:
		return true
	}
	return false
}

func (t Translation) String() string { return string(t) }

// UnmarshalYAML enforces the closed translation set in pack data.
func (t *Translation) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed := Translation(strings.ToUpper(strings.TrimSpace(s)))
	if !parsed.Valid() {
		return fmt.Errorf("invalid value for translation: %q", s)
	}
	*t = parsed
	return nil
}

// Verse is one translated verse with its annotation and the derived text
// metrics the pipeline stores alongside it.
type Verse struct {
	Ref          Ref         `json:"ref"`
	OsisID       string      `json:"osis_id"`
	Translation  Translation `json:"translation"`
	RefDisplay   string      `json:"ref_display"`
	Text         string      `json:"text"`
	CharCount    int         `json:"char_count"`
	WordCount    int         `json:"word_count"`
	ReadingGrade float64     `json:"reading_grade"`
	TextHash     string      `json:"text_hash"`
	Annotation   Annotation  `json:"annotation"`
}

// Key is the verse's unique identity within a pack.
func (v Verse) Key() string {
	return v.OsisID + "|" + string(v.Translation)
}

//go:embed pack.yaml
var embeddedPack []byte

type verseRow struct {
	OsisID       string                `yaml:"osis_id"`
	Translation  Translation           `yaml:"translation"`
	Text         string                `yaml:"text"`
	Themes       []Theme               `yaml:"themes"`
	Moods        []MoodTag             `yaml:"moods"`
	DaypartProbs map[Daypart]float64   `yaml:"daypart_probs"`
	ToneProbs    map[ToneLabel]float64 `yaml:"tone_probs"`
}

type packFile struct {
	Name   string     `yaml:"name"`
	Verses []verseRow `yaml:"verses"`
}

// Pack is an immutable set of annotated verses with lookup indexes.
// Like the presentation tables, a pack is built once and never mutated,
// so concurrent readers need no locking.
type Pack struct {
	name         string
	verses       []Verse
	byKey        map[string]int
	byMood       map[MoodTag][]int
	translations []Translation
}

// ParsePack parses and validates pack data. Authored rows carry the
// semantic tags; the derived fields (safety, familiarity, metrics, display
// reference) are always recomputed from the text so they cannot drift.
func ParsePack(data []byte) (*Pack, error) {
	var file packFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse pack: %w", err)
	}
	verses := make([]Verse, 0, len(file.Verses))
	for i, row := range file.Verses {
		verse, err := buildVerse(row)
		if err != nil {
			return nil, fmt.Errorf("pack row %d: %w", i, err)
		}
		verses = append(verses, verse)
	}
	return NewPack(file.Name, verses)
}

func buildVerse(row verseRow) (Verse, error) {
	ref, err := ParseOsisID(row.OsisID)
	if err != nil {
		return Verse{}, err
	}
	if !row.Translation.Valid() {
		return Verse{}, fmt.Errorf("verse %s: invalid translation %q", row.OsisID, row.Translation)
	}
	text := strings.TrimSpace(row.Text)
	if text == "" {
		return Verse{}, fmt.Errorf("verse %s: empty text", row.OsisID)
	}

	ann := Annotation{
		Themes:       row.Themes,
		Moods:        row.Moods,
		DaypartProbs: row.DaypartProbs,
		ToneProbs:    row.ToneProbs,
		Safety:       SafetyScreen(text),
		Familiarity:  FamiliarityScore(text),
	}
	if ann.DaypartProbs == nil {
		ann.DaypartProbs = defaultDaypartProbs()
	}
	if ann.ToneProbs == nil {
		ann.ToneProbs = defaultToneProbs()
	}
	if err := ann.Validate(); err != nil {
		return Verse{}, fmt.Errorf("verse %s: %w", row.OsisID, err)
	}

	return Verse{
		Ref:          ref,
		OsisID:       ref.OsisID(),
		Translation:  row.Translation,
		RefDisplay:   ref.Display(),
		Text:         text,
		CharCount:    len(text),
		WordCount:    WordCount(text),
		ReadingGrade: ReadingGrade(text),
		TextHash:     TextHash(text),
		Annotation:   ann,
	}, nil
}

// NewPack builds the indexes over a verse set. Duplicate
// (osis_id, translation) pairs are rejected.
func NewPack(name string, verses []Verse) (*Pack, error) {
	if len(verses) == 0 {
		return nil, fmt.Errorf("pack %q: no verses", name)
	}
	p := &Pack{
		name:   name,
		verses: verses,
		byKey:  make(map[string]int, len(verses)),
		byMood: make(map[MoodTag][]int),
	}
	seen := make(map[Translation]bool)
	for i, v := range verses {
		key := v.Key()
		if _, dup := p.byKey[key]; dup {
			return nil, fmt.Errorf("pack %q: duplicate verse %s", name, key)
		}
		p.byKey[key] = i
		for _, tag := range v.Annotation.Moods {
			p.byMood[tag] = append(p.byMood[tag], i)
		}
		seen[v.Translation] = true
	}
	for _, tr := range AllTranslations() {
		if seen[tr] {
			p.translations = append(p.translations, tr)
		}
	}
	return p, nil
}

// LoadEmbedded parses the embedded starter pack.
func LoadEmbedded() (*Pack, error) {
	return ParsePack(embeddedPack)
}

// Name returns the pack's name.
func (p *Pack) Name() string { return p.name }

// Size returns the number of verses in the pack.
func (p *Pack) Size() int { return len(p.verses) }

// Translations returns the translations present in the pack, pipeline order.
func (p *Pack) Translations() []Translation {
	out := make([]Translation, len(p.translations))
	copy(out, p.translations)
	return out
}

// Verses returns a copy of the pack's verses.
func (p *Pack) Verses() []Verse {
	out := make([]Verse, len(p.verses))
	copy(out, p.verses)
	return out
}

// Get looks up a verse by OSIS id and translation.
func (p *Pack) Get(osisID string, tr Translation) (Verse, bool) {
	i, ok := p.byKey[osisID+"|"+string(tr)]
	if !ok {
		return Verse{}, false
	}
	return p.verses[i], true
}

// ByMood returns the verses tagged with the given mood, all translations.
func (p *Pack) ByMood(tag MoodTag) []Verse {
	idx := p.byMood[tag]
	out := make([]Verse, 0, len(idx))
	for _, i := range idx {
		out = append(out, p.verses[i])
	}
	return out
}
