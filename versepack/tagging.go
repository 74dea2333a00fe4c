package versepack

import (
	"crypto/sha1"
	"encoding/hex"
	"math"
	"regexp"
	"sort"
	"strings"
)

// ──────────────────────────────────────────────
// Tagging — keyword backstop, safety screens, text metrics
// ──────────────────────────────────────────────
//
// The production pipeline tags semantically and falls back to keywords when
// no embedding model is available. The SDK carries the keyword backstop and
// the mechanical metrics; pack authors supply the semantic tags, and the
// derived fields (safety, familiarity, reading grade, hash) are always
// computed here so they cannot drift from the text.

var (
	reViolence = regexp.MustCompile(`(?i)\b(slay|sword|blood|war|kill|stone|smite|spear|battle|strike)\b`)
	reSexual   = regexp.MustCompile(`(?i)\b(adulter\w*|fornication|prostitut\w*|lust|naked|whore|harlot)\b`)
	reRebuke   = regexp.MustCompile(`(?i)\b(woe|hypocrite|wrath|abomination|rebuke|condemn)\b`)
	reSlavery  = regexp.MustCompile(`(?i)\b(slave|bondservant|slave-master|slaves|bondservants)\b`)

	reWord     = regexp.MustCompile(`\w+`)
	reSentence = regexp.MustCompile(`[.!?]`)
	reSyllable = regexp.MustCompile(`[aeiouy]+`)
)

// SafetyScreen runs the keyword safety screens over a verse text.
// KidSafe is violence/sexual derived, matching the pipeline.
func SafetyScreen(text string) SafetyFlags {
	violence := reViolence.MatchString(text)
	sexual := reSexual.MatchString(text)
	return SafetyFlags{
		Violence:    violence,
		Sexual:      sexual,
		Slavery:     reSlavery.MatchString(text),
		HarshRebuke: reRebuke.MatchString(text),
		KidSafe:     !(violence || sexual),
	}
}

// WordCount counts word tokens the way the pipeline does.
func WordCount(text string) int {
	return len(reWord.FindAllString(text, -1))
}

// ReadingGrade is the Flesch-Kincaid grade level, rounded to one decimal:
// 0.39*(words/sentences) + 11.8*(syllables/words) - 15.59.
func ReadingGrade(text string) float64 {
	words := reWord.FindAllString(text, -1)
	sents := len(reSentence.FindAllString(text, -1))
	syll := 0
	for _, w := range words {
		syll += len(reSyllable.FindAllString(strings.ToLower(w), -1))
	}
	if syll == 0 {
		syll = 1
	}
	grade := 0.39*(float64(len(words))/math.Max(1, float64(sents))) +
		11.8*(float64(syll)/math.Max(1, float64(len(words)))) - 15.59
	return math.Round(grade*10) / 10
}

// FamiliarityScore gives shorter, simpler verses a small familiarity bump,
// clamped to [0,1] and rounded to three decimals.
func FamiliarityScore(text string) float64 {
	base := 0.5 + math.Max(0, 140-float64(len(text)))/400.0
	base = math.Round(base*1000) / 1000
	return math.Max(0, math.Min(1, base))
}

// TextHash is the stable SHA-1 hex digest of the verse text, used for
// change detection between pack versions.
func TextHash(text string) string {
	sum := sha1.Sum([]byte(text))
	return hex.EncodeToString(sum[:])
}

// ──────────────────────────────────────────────
// Keyword tagger
// ──────────────────────────────────────────────

// Tagger assigns themes and mood tags by keyword scoring. It is the
// authoring aid for new packs; curated packs may override its picks.
type Tagger struct {
	themeKeywords map[Theme][]string
	moodKeywords  map[MoodTag][]string
}

// NewTagger creates a tagger with the built-in keyword lists.
func NewTagger() *Tagger {
	return &Tagger{
		themeKeywords: defaultThemeKeywords(),
		moodKeywords:  defaultMoodKeywords(),
	}
}

func defaultThemeKeywords() map[Theme][]string {
	return map[Theme][]string{
		ThemeComfort:      {"peace", "rest", "refuge", "care", "burden", "comfort", "weary"},
		ThemeHope:         {"hope", "promise", "future", "expectation"},
		ThemeTrust:        {"trust", "refuge", "shield", "lean", "fortress"},
		ThemeWisdom:       {"wisdom", "understanding", "knowledge", "counsel"},
		ThemeForgiveness:  {"forgive", "mercy", "pardon", "cleanse"},
		ThemeLove:         {"love", "loved", "charity", "kindness"},
		ThemeJoy:          {"joy", "rejoice", "glad", "praise"},
		ThemeStrength:     {"strength", "strong", "courage", "might", "power"},
		ThemeGuidance:     {"guide", "lead", "path", "lamp", "shepherd", "direct"},
		ThemePeace:        {"peace", "still", "quiet", "calm"},
		ThemeRepentance:   {"repent", "confess", "turn", "sin"},
		ThemeHealing:      {"heal", "restore", "bind", "broken"},
		ThemeGenerosity:   {"give", "giver", "generous", "share"},
		ThemePatience:     {"patience", "patient", "wait", "longsuffering"},
		ThemePerseverance: {"endure", "steadfast", "persevere", "faint"},
	}
}

func defaultMoodKeywords() map[MoodTag][]string {
	return map[MoodTag][]string{
		TagAnxious:  {"fear", "anxiety", "care", "trouble", "afraid", "anxious"},
		TagTired:    {"weary", "rest", "labour", "labor", "faint"},
		TagGrateful: {"praise", "thanks", "thanksgiving", "bless"},
		TagHopeful:  {"hope", "joy", "morning", "new"},
		TagSad:      {"mourn", "weep", "sorrow", "tears", "brokenhearted"},
		TagLonely:   {"alone", "forsake", "forsaken", "with thee", "with you"},
		TagGuilty:   {"sin", "confess", "cleanse", "forgive", "transgression"},
		TagAngry:    {"anger", "wrath", "slow to anger"},
		TagBereaved: {"mourn", "comfort", "death", "shadow of death", "grief"},
	}
}

type tagScore struct {
	hits int
	pos  int
}

func countHits(lower string, keywords []string) int {
	hits := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			hits++
		}
	}
	return hits
}

// Themes returns up to topK themes ranked by keyword hits. Ties keep
// pipeline order so results are deterministic. With no hits it falls back
// to comfort, the pipeline's default.
func (t *Tagger) Themes(text string, topK int) []Theme {
	lower := strings.ToLower(text)
	var picks []Theme
	scores := make(map[Theme]tagScore)
	for i, theme := range AllThemes() {
		if hits := countHits(lower, t.themeKeywords[theme]); hits > 0 {
			picks = append(picks, theme)
			scores[theme] = tagScore{hits: hits, pos: i}
		}
	}
	sort.Slice(picks, func(i, j int) bool {
		a, b := scores[picks[i]], scores[picks[j]]
		if a.hits != b.hits {
			return a.hits > b.hits
		}
		return a.pos < b.pos
	})
	if len(picks) == 0 {
		return []Theme{ThemeComfort}
	}
	if topK > 0 && len(picks) > topK {
		picks = picks[:topK]
	}
	return picks
}

// Moods returns up to topK mood tags ranked by keyword hits. With no hits it
// falls back to hopeful, the pipeline's default.
func (t *Tagger) Moods(text string, topK int) []MoodTag {
	lower := strings.ToLower(text)
	var picks []MoodTag
	scores := make(map[MoodTag]tagScore)
	for i, tag := range AllMoodTags() {
		if hits := countHits(lower, t.moodKeywords[tag]); hits > 0 {
			picks = append(picks, tag)
			scores[tag] = tagScore{hits: hits, pos: i}
		}
	}
	sort.Slice(picks, func(i, j int) bool {
		a, b := scores[picks[i]], scores[picks[j]]
		if a.hits != b.hits {
			return a.hits > b.hits
		}
		return a.pos < b.pos
	})
	if len(picks) == 0 {
		return []MoodTag{TagHopeful}
	}
	if topK > 0 && len(picks) > topK {
		picks = picks[:topK]
	}
	return picks
}

// defaultDaypartProbs is the pipeline's prior when no semantic scores exist.
func defaultDaypartProbs() map[Daypart]float64 {
	return map[Daypart]float64{
		DaypartMorning: 0.3,
		DaypartDay:     0.4,
		DaypartEvening: 0.2,
		DaypartNight:   0.1,
	}
}

// defaultToneProbs is the pipeline's prior when no semantic scores exist.
func defaultToneProbs() map[ToneLabel]float64 {
	return map[ToneLabel]float64{
		LabelCalming:       0.4,
		LabelEncouraging:   0.3,
		LabelCorrective:    0.1,
		LabelCelebratory:   0.1,
		LabelContemplative: 0.1,
	}
}

// Annotate produces a full annotation for a verse text: keyword themes and
// moods, prior probability distributions, and the derived fields.
func (t *Tagger) Annotate(text string) Annotation {
	return Annotation{
		Themes:       t.Themes(text, 3),
		Moods:        t.Moods(text, 2),
		DaypartProbs: defaultDaypartProbs(),
		ToneProbs:    defaultToneProbs(),
		Safety:       SafetyScreen(text),
		Familiarity:  FamiliarityScore(text),
	}
}
