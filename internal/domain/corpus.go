// Package domain holds the normalized entities of the scripture database.
package domain

// Names is the bilingual name pair carried by most entities.
type Names struct {
	NameGurmukhi string `json:"name_gurmukhi"`
	NameEnglish  string `json:"name_english"`
}

// ReferenceTable names one of the simple lookup tables whose ids are
// 1-based positions in the source list.
type ReferenceTable string

const (
	TableWriters     ReferenceTable = "writers"
	TableLineTypes   ReferenceTable = "line_types"
	TableSources     ReferenceTable = "sources"
	TableBaniFolders ReferenceTable = "bani_folders"
)

// Reference is a row of a simple lookup table (writer, line type, source, bani folder).
type Reference struct {
	ID int64 `json:"id"`
	Names
}

// Language is a lookup row for translation and transliteration languages.
type Language struct {
	ID int64 `json:"id"`
	Names
	NameInternational *string `json:"name_international,omitempty"`
}

// Composition is a top-level scriptural work.
type Composition struct {
	ID int64 `json:"id"`
	Names
	Length           int    `json:"length"` // total pages
	PageNameEnglish  string `json:"page_name_english"`
	PageNameGurmukhi string `json:"page_name_gurmukhi"`
}

// Section is a named page interval of a composition.
type Section struct {
	ID            int64 `json:"id"`
	CompositionID int64 `json:"composition_id"`
	Names
	Description string `json:"description"`
	StartPage   int    `json:"start_page"`
	EndPage     int    `json:"end_page"`
}

// Subsection is a named part of a section. Page bounds are optional.
type Subsection struct {
	ID        int64 `json:"id"`
	SectionID int64 `json:"section_id"`
	Names
	StartPage *int `json:"start_page,omitempty"`
	EndPage   *int `json:"end_page,omitempty"`
}

// Shabad is a poetic unit. IDs are three characters, assigned by editors.
type Shabad struct {
	ID            string `json:"id"`
	CompositionID int64  `json:"composition_id"`
	WriterID      int64  `json:"writer_id"`
	SectionID     int64  `json:"section_id"`
	SubsectionID  *int64 `json:"subsection_id,omitempty"`
	SttmID        *int64 `json:"sttm_id,omitempty"`
	OrderID       int64  `json:"order_id"`
}

// TranslationSource is a translation edition for one composition and language.
type TranslationSource struct {
	ID int64 `json:"id"`
	Names
	CompositionID int64 `json:"composition_id"`
	LanguageID    int64 `json:"language_id"`
}
