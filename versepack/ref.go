// Package versepack holds the annotated verse content layer: OSIS
// references, the closed annotation vocabularies, the authoring tagger,
// the embedded starter pack, remote pack sources, and the mood-aware
// selector that picks today's verse.
package versepack

import (
	"fmt"
	"strconv"
	"strings"
)

// Ref identifies a single verse by OSIS coordinates, e.g. "1Pet.5.7".
type Ref struct {
	Book    string `json:"book" yaml:"book"` // OSIS book code, e.g. "1Pet"
	Chapter int    `json:"chapter" yaml:"chapter"`
	Verse   int    `json:"verse" yaml:"verse"`
}

// bookNames maps OSIS book codes to display names, matching the canon the
// annotation pipeline writes into ref_display.
var bookNames = map[string]string{
	"Gen": "Genesis", "Exod": "Exodus", "Lev": "Leviticus", "Num": "Numbers", "Deut": "Deuteronomy",
	"Josh": "Joshua", "Judg": "Judges", "Ruth": "Ruth", "1Sam": "1 Samuel", "2Sam": "2 Samuel",
	"1Kgs": "1 Kings", "2Kgs": "2 Kings", "1Chr": "1 Chronicles", "2Chr": "2 Chronicles",
	"Ezra": "Ezra", "Neh": "Nehemiah", "Esth": "Esther", "Job": "Job", "Ps": "Psalms", "Prov": "Proverbs",
	"Eccl": "Ecclesiastes", "Song": "Song of Solomon", "Isa": "Isaiah", "Jer": "Jeremiah", "Lam": "Lamentations",
	"Ezek": "Ezekiel", "Dan": "Daniel", "Hos": "Hosea", "Joel": "Joel", "Amos": "Amos", "Obad": "Obadiah",
	"Jonah": "Jonah", "Mic": "Micah", "Nah": "Nahum", "Hab": "Habakkuk", "Zeph": "Zephaniah", "Hag": "Haggai",
	"Zech": "Zechariah", "Mal": "Malachi",
	"Matt": "Matthew", "Mark": "Mark", "Luke": "Luke", "John": "John", "Acts": "Acts",
	"Rom": "Romans", "1Cor": "1 Corinthians", "2Cor": "2 Corinthians", "Gal": "Galatians", "Eph": "Ephesians",
	"Phil": "Philippians", "Col": "Colossians", "1Thess": "1 Thessalonians", "2Thess": "2 Thessalonians",
	"1Tim": "1 Timothy", "2Tim": "2 Timothy", "Titus": "Titus", "Phlm": "Philemon", "Heb": "Hebrews",
	"Jas": "James", "1Pet": "1 Peter", "2Pet": "2 Peter", "1John": "1 John", "2John": "2 John", "3John": "3 John",
	"Jude": "Jude", "Rev": "Revelation",
}

// BookName returns the display name for an OSIS book code.
func BookName(code string) (string, bool) {
	name, ok := bookNames[code]
	return name, ok
}

// ParseOsisID parses an OSIS verse id like "1Pet.5.7" into a Ref.
// The book code must be one of the 66-book canon.
func ParseOsisID(id string) (Ref, error) {
	parts := strings.Split(strings.TrimSpace(id), ".")
	if len(parts) != 3 {
		return Ref{}, fmt.Errorf("malformed osis id %q", id)
	}
	book := parts[0]
	if _, ok := bookNames[book]; !ok {
		return Ref{}, fmt.Errorf("osis id %q: unknown book code %q", id, book)
	}
	chapter, err := strconv.Atoi(parts[1])
	if err != nil || chapter <= 0 {
		return Ref{}, fmt.Errorf("osis id %q: bad chapter %q", id, parts[1])
	}
	verse, err := strconv.Atoi(parts[2])
	if err != nil || verse <= 0 {
		return Ref{}, fmt.Errorf("osis id %q: bad verse %q", id, parts[2])
	}
	return Ref{Book: book, Chapter: chapter, Verse: verse}, nil
}

// OsisID reconstructs the canonical id, e.g. "1Pet.5.7".
func (r Ref) OsisID() string {
	return fmt.Sprintf("%s.%d.%d", r.Book, r.Chapter, r.Verse)
}

// Display renders the reference the way the app shows it, e.g. "1 Peter 5:7".
// Unknown book codes fall back to the raw code rather than failing.
func (r Ref) Display() string {
	name, ok := bookNames[r.Book]
	if !ok {
		name = r.Book
	}
	return fmt.Sprintf("%s %d:%d", name, r.Chapter, r.Verse)
}
