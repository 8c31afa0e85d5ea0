package domain

import "encoding/json"

// LineTypeSirlekh is the line type whose search keys keep their line endings.
const LineTypeSirlekh = "Sirlekh"

// Vishraam kinds produced from inline markers.
const (
	VishraamJamki = "jamki"
	VishraamPause = "pause"
)

// Vishraam marks a recitation pause on the word at Index.
type Vishraam struct {
	Index int    `json:"index" yaml:"index"`
	Word  string `json:"word,omitempty" yaml:"word,omitempty"`
	Type  string `json:"type" yaml:"type"`
}

// Line is the smallest addressable unit of text. IDs are four characters.
type Line struct {
	ID                       string     `json:"id"`
	ShabadID                 string     `json:"shabad_id"`
	SourcePage               int        `json:"source_page"`
	SourceLine               *int       `json:"source_line,omitempty"`
	Vishraams                []Vishraam `json:"vishraams"`
	Pronunciation            *string    `json:"pronunciation,omitempty"`
	PronunciationInformation *string    `json:"pronunciation_information,omitempty"`
	Visible                  bool       `json:"visible"`
	TypeID                   *int64     `json:"type_id,omitempty"`
	OrderID                  int64      `json:"order_id"`
}

// LineContent is one source's rendering of a line plus its derived fields.
type LineContent struct {
	LineID               string `json:"line_id"`
	SourceID             int64  `json:"source_id"`
	Gurmukhi             string `json:"gurmukhi"`
	Larivaar             string `json:"larivaar"`
	FirstLetters         string `json:"first_letters"`
	VishraamFirstLetters string `json:"vishraam_first_letters"`
}

// Transliteration is a phonetic rendering of a line content row in another script.
type Transliteration struct {
	LineID               string `json:"line_id"`
	SourceID             int64  `json:"source_id"`
	LanguageID           int64  `json:"language_id"`
	Transliteration      string `json:"transliteration"`
	FirstLetters         string `json:"first_letters"`
	VishraamFirstLetters string `json:"vishraam_first_letters"`
}

// Translation is one translation source's text for a line.
// AdditionalInformation is stored as JSON; nil means NULL.
type Translation struct {
	LineID                string          `json:"line_id"`
	TranslationSourceID   int64           `json:"translation_source_id"`
	Translation           string          `json:"translation"`
	AdditionalInformation json.RawMessage `json:"additional_information,omitempty"`
}
