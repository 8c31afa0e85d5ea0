// Package tree defines the nested, human-editable representation of the
// corpus and reads and writes it from a data directory.
package tree

import "github.com/gurbaninow/database/internal/domain"

// Named is a bilingual name pair. Reference lists (writers, line types, sources,
// bani folders) are plain lists of Named; a record's position defines its id.
type Named struct {
	NameGurmukhi string `json:"name_gurmukhi" yaml:"name_gurmukhi" validate:"required"`
	NameEnglish  string `json:"name_english" yaml:"name_english" validate:"required"`
}

// Language is a reference record with an optional international name.
type Language struct {
	Named             `yaml:",inline"`
	NameInternational *string `json:"name_international" yaml:"name_international"`
}

// Composition is a top-level work with its nested sections.
type Composition struct {
	Named            `yaml:",inline"`
	Length           int       `json:"length" yaml:"length" validate:"gte=0"`
	PageNameEnglish  string    `json:"page_name_english" yaml:"page_name_english"`
	PageNameGurmukhi string    `json:"page_name_gurmukhi" yaml:"page_name_gurmukhi"`
	Sections         []Section `json:"sections" yaml:"sections" validate:"dive"`
}

// Section is a page interval of a composition with its nested subsections.
type Section struct {
	Named       `yaml:",inline"`
	Description string       `json:"description" yaml:"description"`
	StartPage   int          `json:"start_page" yaml:"start_page"`
	EndPage     int          `json:"end_page" yaml:"end_page" validate:"gtefield=StartPage"`
	Subsections []Subsection `json:"subsections" yaml:"subsections" validate:"dive"`
}

// Subsection is a named part of a section.
type Subsection struct {
	Named     `yaml:",inline"`
	StartPage *int `json:"start_page" yaml:"start_page"`
	EndPage   *int `json:"end_page" yaml:"end_page"`
}

// TranslationSource names a translation edition by composition and language.
type TranslationSource struct {
	Named       `yaml:",inline"`
	Composition string `json:"composition" yaml:"composition" validate:"required"`
	Language    string `json:"language" yaml:"language" validate:"required"`
}

// Shabad is one entry of a composition page file.
type Shabad struct {
	ID         string  `json:"id" yaml:"id" validate:"required,len=3"`
	SttmID     *int64  `json:"sttm_id" yaml:"sttm_id"`
	Writer     string  `json:"writer" yaml:"writer" validate:"required"`
	Section    string  `json:"section" yaml:"section" validate:"required"`
	Subsection *string `json:"subsection" yaml:"subsection"`
	Lines      []Line  `json:"lines" yaml:"lines" validate:"min=1,dive"`
}

// Line carries the source texts and translations of one line.
// Gurmukhi maps source name to text; Translations maps language name to
// translation source name to entry. A nil Visible means visible.
type Line struct {
	ID                       string                            `json:"id" yaml:"id" validate:"required,len=4"`
	SourcePage               int                               `json:"source_page" yaml:"source_page"`
	SourceLine               *int                              `json:"source_line" yaml:"source_line"`
	Pronunciation            *string                           `json:"pronunciation" yaml:"pronunciation"`
	PronunciationInformation *string                           `json:"pronunciation_information" yaml:"pronunciation_information"`
	Type                     *string                           `json:"type" yaml:"type"`
	Visible                  *bool                             `json:"visible,omitempty" yaml:"visible,omitempty"`
	Gurmukhi                 map[string]string                 `json:"gurmukhi" yaml:"gurmukhi"`
	Vishraams                []domain.Vishraam                 `json:"vishraams" yaml:"vishraams" validate:"dive"`
	Translations             map[string]map[string]Translation `json:"translations" yaml:"translations"`
}

// IsVisible reports whether the line is shown, defaulting to true.
func (l Line) IsVisible() bool {
	return l.Visible == nil || *l.Visible
}

// Translation is one translation source's entry for a line. AdditionalInformation
// is free-form structured data; nil is stored as NULL.
type Translation struct {
	Translation           string `json:"translation" yaml:"translation"`
	AdditionalInformation any    `json:"additional_information" yaml:"additional_information"`
}

// Bani is a declared liturgical sequence.
type Bani struct {
	ID        string             `json:"id" yaml:"id" validate:"required,len=2"`
	Named     `yaml:",inline"`
	Folder    *string            `json:"folder" yaml:"folder"`
	Lines     []domain.LineRange `json:"lines" yaml:"lines" validate:"min=1,dive"`
	Bookmarks []Bookmark         `json:"bookmarks" yaml:"bookmarks" validate:"dive"`
}

// Bookmark is a user-defined named position in a bani.
type Bookmark struct {
	LineID string `json:"line_id" yaml:"line_id" validate:"required"`
	Named  `yaml:",inline"`
}

// EnglishNames returns the English names of records in order.
func EnglishNames[T interface{ English() string }](records []T) []string {
	names := make([]string, len(records))
	for i, r := range records {
		names[i] = r.English()
	}
	return names
}

// English returns the English name, the key used by every reference in the tree.
func (n Named) English() string { return n.NameEnglish }
