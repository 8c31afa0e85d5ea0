package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gurbaninow/database/internal/domain"
	"github.com/gurbaninow/database/internal/store"
)

const (
	// maxVariables is SQLite's bound parameter limit.
	maxVariables = 32766
	// maxRowsPerInsert caps the rows of one multi-row INSERT.
	maxRowsPerInsert = 500
)

// Tx is the import transaction. It is not safe for concurrent use.
type Tx struct {
	tx     *sql.Tx
	logger *slog.Logger
	done   bool
}

var _ store.Tx = (*Tx)(nil)

// insertRows writes rows with multi-row INSERT statements, chunked to stay
// under the bound parameter limit.
func insertRows[T any](ctx context.Context, t *Tx, table string, columns []string, rows []T, values func(T) []any) error {
	if len(rows) == 0 {
		return nil
	}

	perRow := len(columns)
	chunk := min(maxRowsPerInsert, maxVariables/perRow)
	tuple := "(" + strings.TrimSuffix(strings.Repeat("?, ", perRow), ", ") + ")"
	head := fmt.Sprintf("INSERT INTO %s (%s) VALUES ", table, strings.Join(columns, ", "))

	for start := 0; start < len(rows); start += chunk {
		end := min(start+chunk, len(rows))
		batch := rows[start:end]

		var sb strings.Builder
		sb.WriteString(head)
		args := make([]any, 0, len(batch)*perRow)
		for i, row := range batch {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(tuple)
			args = append(args, values(row)...)
		}

		if _, err := t.tx.ExecContext(ctx, sb.String(), args...); err != nil {
			return fmt.Errorf("insert %s: %w", table, mapWriteError(err))
		}
	}

	return nil
}

// mapWriteError turns constraint failures into store errors.
func mapWriteError(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return store.ErrAlreadyExists.WithCause(err)
	case strings.Contains(msg, "FOREIGN KEY constraint failed"),
		strings.Contains(msg, "CHECK constraint failed"),
		strings.Contains(msg, "NOT NULL constraint failed"):
		return store.ErrInvalidInput.WithCause(err)
	}
	return err
}

var referenceTables = map[domain.ReferenceTable]bool{
	domain.TableWriters:     true,
	domain.TableLineTypes:   true,
	domain.TableSources:     true,
	domain.TableBaniFolders: true,
}

// InsertReferences writes rows into one of the simple lookup tables.
func (t *Tx) InsertReferences(ctx context.Context, table domain.ReferenceTable, rows []domain.Reference) error {
	if !referenceTables[table] {
		return store.ErrInvalidInput.WithMessage(fmt.Sprintf("unknown reference table %q", table))
	}
	return insertRows(ctx, t, string(table),
		[]string{"id", "name_gurmukhi", "name_english"},
		rows,
		func(r domain.Reference) []any {
			return []any{r.ID, r.NameGurmukhi, r.NameEnglish}
		})
}

func (t *Tx) InsertLanguages(ctx context.Context, rows []domain.Language) error {
	return insertRows(ctx, t, "languages",
		[]string{"id", "name_gurmukhi", "name_english", "name_international"},
		rows,
		func(l domain.Language) []any {
			return []any{l.ID, l.NameGurmukhi, l.NameEnglish, nullableString(l.NameInternational)}
		})
}

func (t *Tx) InsertCompositions(ctx context.Context, rows []domain.Composition) error {
	return insertRows(ctx, t, "compositions",
		[]string{"id", "name_gurmukhi", "name_english", "length", "page_name_english", "page_name_gurmukhi"},
		rows,
		func(c domain.Composition) []any {
			return []any{c.ID, c.NameGurmukhi, c.NameEnglish, c.Length, c.PageNameEnglish, c.PageNameGurmukhi}
		})
}

func (t *Tx) InsertSections(ctx context.Context, rows []domain.Section) error {
	return insertRows(ctx, t, "sections",
		[]string{"id", "name_gurmukhi", "name_english", "description", "start_page", "end_page", "composition_id"},
		rows,
		func(s domain.Section) []any {
			return []any{s.ID, s.NameGurmukhi, s.NameEnglish, s.Description, s.StartPage, s.EndPage, s.CompositionID}
		})
}

func (t *Tx) InsertSubsections(ctx context.Context, rows []domain.Subsection) error {
	return insertRows(ctx, t, "subsections",
		[]string{"id", "section_id", "name_gurmukhi", "name_english", "start_page", "end_page"},
		rows,
		func(s domain.Subsection) []any {
			return []any{s.ID, s.SectionID, s.NameGurmukhi, s.NameEnglish, nullableInt(s.StartPage), nullableInt(s.EndPage)}
		})
}

func (t *Tx) InsertTranslationSources(ctx context.Context, rows []domain.TranslationSource) error {
	return insertRows(ctx, t, "translation_sources",
		[]string{"id", "name_gurmukhi", "name_english", "composition_id", "language_id"},
		rows,
		func(s domain.TranslationSource) []any {
			return []any{s.ID, s.NameGurmukhi, s.NameEnglish, s.CompositionID, s.LanguageID}
		})
}

func (t *Tx) InsertShabads(ctx context.Context, rows []domain.Shabad) error {
	return insertRows(ctx, t, "shabads",
		[]string{"id", "composition_id", "writer_id", "section_id", "subsection_id", "sttm_id", "order_id"},
		rows,
		func(s domain.Shabad) []any {
			return []any{s.ID, s.CompositionID, s.WriterID, s.SectionID,
				nullableInt64(s.SubsectionID), nullableInt64(s.SttmID), s.OrderID}
		})
}

func (t *Tx) InsertLines(ctx context.Context, rows []domain.Line) error {
	type encodedLine struct {
		domain.Line
		vishraams string
	}

	encoded := make([]encodedLine, len(rows))
	for i, l := range rows {
		v, err := encodeVishraams(l.Vishraams)
		if err != nil {
			return fmt.Errorf("line %s: %w", l.ID, err)
		}
		encoded[i] = encodedLine{Line: l, vishraams: v}
	}

	return insertRows(ctx, t, "lines",
		[]string{"id", "shabad_id", "source_page", "source_line", "vishraams",
			"pronunciation", "pronunciation_information", "visible", "type_id", "order_id"},
		encoded,
		func(l encodedLine) []any {
			return []any{l.ID, l.ShabadID, l.SourcePage, nullableInt(l.SourceLine), l.vishraams,
				nullableString(l.Pronunciation), nullableString(l.PronunciationInformation),
				boolToInt(l.Visible), nullableInt64(l.TypeID), l.OrderID}
		})
}

func (t *Tx) InsertLineContent(ctx context.Context, rows []domain.LineContent) error {
	return insertRows(ctx, t, "line_content",
		[]string{"line_id", "source_id", "gurmukhi", "larivaar", "first_letters", "vishraam_first_letters"},
		rows,
		func(c domain.LineContent) []any {
			return []any{c.LineID, c.SourceID, c.Gurmukhi, c.Larivaar,
				nullString(c.FirstLetters), nullString(c.VishraamFirstLetters)}
		})
}

func (t *Tx) InsertTransliterations(ctx context.Context, rows []domain.Transliteration) error {
	return insertRows(ctx, t, "transliterations",
		[]string{"line_id", "source_id", "language_id", "transliteration", "first_letters", "vishraam_first_letters"},
		rows,
		func(tr domain.Transliteration) []any {
			return []any{tr.LineID, tr.SourceID, tr.LanguageID, tr.Transliteration,
				nullString(tr.FirstLetters), nullString(tr.VishraamFirstLetters)}
		})
}

func (t *Tx) InsertTranslations(ctx context.Context, rows []domain.Translation) error {
	return insertRows(ctx, t, "translations",
		[]string{"line_id", "translation_source_id", "translation", "additional_information"},
		rows,
		func(tr domain.Translation) []any {
			var info sql.NullString
			if len(tr.AdditionalInformation) > 0 && string(tr.AdditionalInformation) != "null" {
				info = sql.NullString{String: string(tr.AdditionalInformation), Valid: true}
			}
			return []any{tr.LineID, tr.TranslationSourceID, tr.Translation, info}
		})
}

func (t *Tx) InsertBani(ctx context.Context, b domain.Bani) error {
	return insertRows(ctx, t, "banis",
		[]string{"id", "folder_id", "name_gurmukhi", "name_english", "order_id"},
		[]domain.Bani{b},
		func(b domain.Bani) []any {
			return []any{b.ID, nullableInt64(b.FolderID), b.NameGurmukhi, b.NameEnglish, b.OrderID}
		})
}

func (t *Tx) InsertBaniLines(ctx context.Context, rows []domain.BaniLine) error {
	return insertRows(ctx, t, "bani_lines",
		[]string{"line_id", "bani_id", "line_group"},
		rows,
		func(bl domain.BaniLine) []any {
			return []any{bl.LineID, bl.BaniID, bl.LineGroup}
		})
}

func (t *Tx) InsertBaniBookmarks(ctx context.Context, rows []domain.BaniBookmark) error {
	return insertRows(ctx, t, "bani_bookmarks",
		[]string{"line_id", "bani_id", "name_gurmukhi", "name_english", "order_id"},
		rows,
		func(b domain.BaniBookmark) []any {
			return []any{b.LineID, b.BaniID, b.NameGurmukhi, b.NameEnglish, b.OrderID}
		})
}

// SetRevision records the data revision the database was built from.
func (t *Tx) SetRevision(ctx context.Context, head string) error {
	if _, err := t.tx.ExecContext(ctx, `DELETE FROM revision`); err != nil {
		return fmt.Errorf("clear revision: %w", err)
	}
	if _, err := t.tx.ExecContext(ctx, `INSERT INTO revision (HEAD) VALUES (?)`, head); err != nil {
		return fmt.Errorf("insert revision: %w", mapWriteError(err))
	}
	return nil
}

// LineOrder returns the order id of a line already written in this transaction.
func (t *Tx) LineOrder(ctx context.Context, lineID string) (int64, error) {
	var order int64
	err := t.tx.QueryRowContext(ctx, `SELECT order_id FROM lines WHERE id = ?`, lineID).Scan(&order)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, store.ErrNotFound.WithMessage(fmt.Sprintf("line %s not found", lineID))
	}
	if err != nil {
		return 0, fmt.Errorf("line order %s: %w", lineID, err)
	}
	return order, nil
}

// LinesBetween returns the ids of lines whose order id lies in [lo, hi].
func (t *Tx) LinesBetween(ctx context.Context, lo, hi int64) ([]string, error) {
	rows, err := t.tx.QueryContext(ctx,
		`SELECT id FROM lines WHERE order_id BETWEEN ? AND ? ORDER BY order_id`, lo, hi)
	if err != nil {
		return nil, fmt.Errorf("lines between %d and %d: %w", lo, hi, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Commit checks foreign keys and commits the transaction. On a dangling
// reference the transaction is rolled back and store.ErrInvalidInput returned.
func (t *Tx) Commit() error {
	if t.done {
		return nil
	}
	if err := t.checkForeignKeys(context.Background()); err != nil {
		_ = t.Rollback()
		return err
	}
	t.done = true
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", mapWriteError(err))
	}
	return nil
}

func (t *Tx) checkForeignKeys(ctx context.Context) error {
	rows, err := t.tx.QueryContext(ctx, `PRAGMA foreign_key_check`)
	if err != nil {
		return fmt.Errorf("foreign key check: %w", err)
	}
	defer rows.Close()

	var (
		count         int
		table, parent string
	)
	for rows.Next() {
		var (
			tbl, par string
			rowid    sql.NullInt64
			fkid     int
		)
		if err := rows.Scan(&tbl, &rowid, &par, &fkid); err != nil {
			return fmt.Errorf("foreign key check: %w", err)
		}
		if count == 0 {
			table, parent = tbl, par
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("foreign key check: %w", err)
	}
	if count > 0 {
		return store.ErrInvalidInput.WithMessage(fmt.Sprintf(
			"%d rows reference missing records (first: %s -> %s)", count, table, parent))
	}
	return nil
}

// Rollback aborts the transaction. It is a no-op after Commit.
func (t *Tx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	if err := t.tx.Rollback(); err != nil {
		t.logger.Warn("rollback failed", slog.String("error", err.Error()))
		return err
	}
	return nil
}

func encodeVishraams(v []domain.Vishraam) (string, error) {
	if len(v) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode vishraams: %w", err)
	}
	return string(b), nil
}
