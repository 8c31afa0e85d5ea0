// Package store defines the persistence interfaces of the database builder.
package store

import (
	"context"

	"github.com/gurbaninow/database/internal/domain"
)

// Builder creates the schema and opens the import transaction.
type Builder interface {
	InitSchema(ctx context.Context) error
	Begin(ctx context.Context) (Tx, error)
}

// Tx is a single import transaction. Nothing is visible to readers until Commit.
type Tx interface {
	InsertReferences(ctx context.Context, table domain.ReferenceTable, rows []domain.Reference) error
	InsertLanguages(ctx context.Context, rows []domain.Language) error
	InsertCompositions(ctx context.Context, rows []domain.Composition) error
	InsertSections(ctx context.Context, rows []domain.Section) error
	InsertSubsections(ctx context.Context, rows []domain.Subsection) error
	InsertTranslationSources(ctx context.Context, rows []domain.TranslationSource) error

	InsertShabads(ctx context.Context, rows []domain.Shabad) error
	InsertLines(ctx context.Context, rows []domain.Line) error
	InsertLineContent(ctx context.Context, rows []domain.LineContent) error
	InsertTransliterations(ctx context.Context, rows []domain.Transliteration) error
	InsertTranslations(ctx context.Context, rows []domain.Translation) error

	InsertBani(ctx context.Context, bani domain.Bani) error
	InsertBaniLines(ctx context.Context, rows []domain.BaniLine) error
	InsertBaniBookmarks(ctx context.Context, rows []domain.BaniBookmark) error

	SetRevision(ctx context.Context, head string) error

	LineIndex

	Commit() error
	Rollback() error
}

// LineIndex looks lines up by their global order.
type LineIndex interface {
	// LineOrder returns the order id of a line, or ErrNotFound.
	LineOrder(ctx context.Context, lineID string) (int64, error)
	// LinesBetween returns the ids of lines with lo <= order_id <= hi, in order.
	LinesBetween(ctx context.Context, lo, hi int64) ([]string, error)
}

// Reader reads a built database back. Every list is ordered by id unless
// stated otherwise.
type Reader interface {
	References(ctx context.Context, table domain.ReferenceTable) ([]domain.Reference, error)
	Languages(ctx context.Context) ([]domain.Language, error)
	Compositions(ctx context.Context) ([]domain.Composition, error)
	Sections(ctx context.Context) ([]domain.Section, error)
	Subsections(ctx context.Context) ([]domain.Subsection, error)
	TranslationSources(ctx context.Context) ([]domain.TranslationSource, error)

	// Shabads returns a composition's shabads ordered by order id.
	Shabads(ctx context.Context, compositionID int64) ([]domain.Shabad, error)
	// Lines returns a composition's lines ordered by order id.
	Lines(ctx context.Context, compositionID int64) ([]domain.Line, error)
	// LineContent returns a composition's content rows ordered by line and source.
	LineContent(ctx context.Context, compositionID int64) ([]domain.LineContent, error)
	// Translations returns a composition's translations ordered by line and translation source.
	Translations(ctx context.Context, compositionID int64) ([]domain.Translation, error)
	// Transliterations returns a line's transliterations ordered by source and language.
	Transliterations(ctx context.Context, lineID string) ([]domain.Transliteration, error)

	// Banis returns every bani ordered by order id.
	Banis(ctx context.Context) ([]domain.Bani, error)
	// BaniLines returns a bani's memberships ordered by line order, with each line's visibility.
	BaniLines(ctx context.Context, baniID string) ([]domain.OrderedBaniLine, error)
	// BaniBookmarks returns a bani's bookmarks ordered by order id, synthetic ones included,
	// with the visibility of each bookmarked line.
	BaniBookmarks(ctx context.Context, baniID string) ([]domain.BaniBookmark, error)

	Revision(ctx context.Context) (string, error)
}

// IDKind names an entity with human-assigned ids.
type IDKind string

const (
	IDKindBani   IDKind = "bani"
	IDKindShabad IDKind = "shabad"
	IDKindLine   IDKind = "line"
)

// IDLister lists the ids already taken for a kind.
type IDLister interface {
	IDs(ctx context.Context, kind IDKind) ([]string, error)
}
