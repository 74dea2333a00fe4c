package selahsdk

import "fmt"

// ──────────────────────────────────────────────
// Typed errors — table inconsistencies are developer errors
// ──────────────────────────────────────────────
//
// Lookup errors mean the static tables and the calling code disagree about
// the vocabulary. There is nothing to retry and no partial result to return;
// user-facing callers should fall back to the neutral presentation
// (see Resolver.ResolveSafe) and log.

// UnknownMoodError is returned when a mood has no tone-table entry.
type UnknownMoodError struct {
	Mood Mood
}

func (e *UnknownMoodError) Error() string {
	return fmt.Sprintf("unknown mood %q: no tone table entry", string(e.Mood))
}

// UnknownToneError is returned when a tone has no delivery-table entry.
type UnknownToneError struct {
	Tone Tone
}

func (e *UnknownToneError) Error() string {
	return fmt.Sprintf("unknown tone %q: no delivery table entry", string(e.Tone))
}

// UnknownFeatureError is returned when a feature has no entitlement entry.
type UnknownFeatureError struct {
	Feature Feature
}

func (e *UnknownFeatureError) Error() string {
	return fmt.Sprintf("unknown feature %q: no entitlement entry", string(e.Feature))
}

// AlreadyInitializedError is returned when LoadTables is called after the
// default tables were already installed. Tables load once per process.
type AlreadyInitializedError struct{}

func (e *AlreadyInitializedError) Error() string {
	return "presentation tables already loaded"
}
