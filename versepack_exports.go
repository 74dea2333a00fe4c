package selahsdk

import "github.com/selah-labs/selah-sdk-go/versepack"

// ──────────────────────────────────────────────
// Verse pack re-exports
// ──────────────────────────────────────────────

// Aliases so callers composing a daily card can stay on the root package.
type (
	Verse          = versepack.Verse
	VerseRef       = versepack.Ref
	VersePack      = versepack.Pack
	Annotation     = versepack.Annotation
	SafetyFlags    = versepack.SafetyFlags
	Theme          = versepack.Theme
	MoodTag        = versepack.MoodTag
	Daypart        = versepack.Daypart
	ToneLabel      = versepack.ToneLabel
	Translation    = versepack.Translation
	VerseSelector  = versepack.Selector
	SelectorConfig = versepack.SelectorConfig
	SelectRequest  = versepack.Request
	Selection      = versepack.Selection
	PackSource     = versepack.Source
	SupabaseSource = versepack.SupabaseSource
	SupabaseConfig = versepack.SupabaseConfig
)

const (
	DaypartMorning = versepack.DaypartMorning
	DaypartDay     = versepack.DaypartDay
	DaypartEvening = versepack.DaypartEvening
	DaypartNight   = versepack.DaypartNight
)

var (
	LoadEmbeddedPack  = versepack.LoadEmbedded
	NewVerseSelector  = versepack.NewSelector
	NewSupabaseSource = versepack.NewSupabaseSource
	DaypartForTime    = versepack.DaypartForTime

	ErrNoEligibleVerses = versepack.ErrNoEligibleVerses
)

// MoodTagFor maps a check-in mood onto the pack's mood tag vocabulary.
// Neutral has no tag: selection then scores the mood component flat.
func MoodTagFor(mood Mood) MoodTag {
	switch mood {
	case MoodAnxious:
		return versepack.TagAnxious
	case MoodSad:
		return versepack.TagSad
	case MoodGrateful:
		return versepack.TagGrateful
	case MoodHopeful:
		return versepack.TagHopeful
	default:
		return ""
	}
}

// ToneLabelFor maps a resolved tone onto the annotation pipeline's tone
// label vocabulary, steering verse selection toward matching material.
func ToneLabelFor(tone Tone) ToneLabel {
	switch tone {
	case ToneCalm, ToneCompassionate:
		return versepack.LabelCalming
	case ToneInvitational:
		return versepack.LabelEncouraging
	case ToneUplifting:
		return versepack.LabelCelebratory
	default:
		return versepack.LabelContemplative
	}
}

// TranslationsFor turns a Translations feature grant into the allowed set.
// A limited grant caps how many translations are available, starting from
// the front of the pipeline's translation order.
func TranslationsFor(grant Grant) []Translation {
	all := versepack.AllTranslations()
	switch grant.Access {
	case AccessNone:
		return nil
	case AccessLimited:
		if grant.Limit <= 0 || grant.Limit >= len(all) {
			return all
		}
		return all[:grant.Limit]
	default:
		return all
	}
}
