package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gurbaninow/database/internal/domain"
	"github.com/gurbaninow/database/internal/store"
)

type scanner interface{ Scan(dest ...any) error }

// queryAll runs query and scans every row with scan.
func queryAll[T any](ctx context.Context, db *sql.DB, scan func(scanner) (T, error), query string, args ...any) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// References returns every row of a simple lookup table.
func (s *Store) References(ctx context.Context, table domain.ReferenceTable) ([]domain.Reference, error) {
	if !referenceTables[table] {
		return nil, store.ErrInvalidInput.WithMessage(fmt.Sprintf("unknown reference table %q", table))
	}
	refs, err := queryAll(ctx, s.db, func(sc scanner) (domain.Reference, error) {
		var r domain.Reference
		err := sc.Scan(&r.ID, &r.NameGurmukhi, &r.NameEnglish)
		return r, err
	}, `SELECT id, name_gurmukhi, name_english FROM `+string(table)+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	return refs, nil
}

func (s *Store) Languages(ctx context.Context) ([]domain.Language, error) {
	langs, err := queryAll(ctx, s.db, func(sc scanner) (domain.Language, error) {
		var (
			l    domain.Language
			intl sql.NullString
		)
		err := sc.Scan(&l.ID, &l.NameGurmukhi, &l.NameEnglish, &intl)
		l.NameInternational = stringPtr(intl)
		return l, err
	}, `SELECT id, name_gurmukhi, name_english, name_international FROM languages ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list languages: %w", err)
	}
	return langs, nil
}

func (s *Store) Compositions(ctx context.Context) ([]domain.Composition, error) {
	comps, err := queryAll(ctx, s.db, func(sc scanner) (domain.Composition, error) {
		var c domain.Composition
		err := sc.Scan(&c.ID, &c.NameGurmukhi, &c.NameEnglish, &c.Length, &c.PageNameEnglish, &c.PageNameGurmukhi)
		return c, err
	}, `SELECT id, name_gurmukhi, name_english, length, page_name_english, page_name_gurmukhi
		FROM compositions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list compositions: %w", err)
	}
	return comps, nil
}

func (s *Store) Sections(ctx context.Context) ([]domain.Section, error) {
	sections, err := queryAll(ctx, s.db, func(sc scanner) (domain.Section, error) {
		var sec domain.Section
		err := sc.Scan(&sec.ID, &sec.CompositionID, &sec.NameGurmukhi, &sec.NameEnglish,
			&sec.Description, &sec.StartPage, &sec.EndPage)
		return sec, err
	}, `SELECT id, composition_id, name_gurmukhi, name_english, description, start_page, end_page
		FROM sections ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	return sections, nil
}

func (s *Store) Subsections(ctx context.Context) ([]domain.Subsection, error) {
	subs, err := queryAll(ctx, s.db, func(sc scanner) (domain.Subsection, error) {
		var (
			sub        domain.Subsection
			start, end sql.NullInt64
		)
		err := sc.Scan(&sub.ID, &sub.SectionID, &sub.NameGurmukhi, &sub.NameEnglish, &start, &end)
		sub.StartPage = intPtr(start)
		sub.EndPage = intPtr(end)
		return sub, err
	}, `SELECT id, section_id, name_gurmukhi, name_english, start_page, end_page
		FROM subsections ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list subsections: %w", err)
	}
	return subs, nil
}

func (s *Store) TranslationSources(ctx context.Context) ([]domain.TranslationSource, error) {
	sources, err := queryAll(ctx, s.db, func(sc scanner) (domain.TranslationSource, error) {
		var ts domain.TranslationSource
		err := sc.Scan(&ts.ID, &ts.NameGurmukhi, &ts.NameEnglish, &ts.CompositionID, &ts.LanguageID)
		return ts, err
	}, `SELECT id, name_gurmukhi, name_english, composition_id, language_id
		FROM translation_sources ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list translation sources: %w", err)
	}
	return sources, nil
}

// shabadColumns must match the scan order in scanShabad.
const shabadColumns = `id, composition_id, writer_id, section_id, subsection_id, sttm_id, order_id`

func scanShabad(sc scanner) (domain.Shabad, error) {
	var (
		sh         domain.Shabad
		subsection sql.NullInt64
		sttm       sql.NullInt64
	)
	err := sc.Scan(&sh.ID, &sh.CompositionID, &sh.WriterID, &sh.SectionID, &subsection, &sttm, &sh.OrderID)
	sh.SubsectionID = int64Ptr(subsection)
	sh.SttmID = int64Ptr(sttm)
	return sh, err
}

func (s *Store) Shabads(ctx context.Context, compositionID int64) ([]domain.Shabad, error) {
	shabads, err := queryAll(ctx, s.db, scanShabad,
		`SELECT `+shabadColumns+` FROM shabads WHERE composition_id = ? ORDER BY order_id`, compositionID)
	if err != nil {
		return nil, fmt.Errorf("list shabads of composition %d: %w", compositionID, err)
	}
	return shabads, nil
}

// lineColumns must match the scan order in scanLine.
const lineColumns = `l.id, l.shabad_id, l.source_page, l.source_line, l.vishraams,
	l.pronunciation, l.pronunciation_information, l.visible, l.type_id, l.order_id`

func scanLine(sc scanner) (domain.Line, error) {
	var (
		l             domain.Line
		sourceLine    sql.NullInt64
		vishraams     string
		pronunciation sql.NullString
		pronInfo      sql.NullString
		visible       int
		typeID        sql.NullInt64
	)
	err := sc.Scan(&l.ID, &l.ShabadID, &l.SourcePage, &sourceLine, &vishraams,
		&pronunciation, &pronInfo, &visible, &typeID, &l.OrderID)
	if err != nil {
		return l, err
	}

	l.SourceLine = intPtr(sourceLine)
	l.Pronunciation = stringPtr(pronunciation)
	l.PronunciationInformation = stringPtr(pronInfo)
	l.Visible = visible != 0
	l.TypeID = int64Ptr(typeID)

	if vishraams != "" {
		if err := json.Unmarshal([]byte(vishraams), &l.Vishraams); err != nil {
			return l, fmt.Errorf("decode vishraams of line %s: %w", l.ID, err)
		}
	}
	return l, nil
}

func (s *Store) Lines(ctx context.Context, compositionID int64) ([]domain.Line, error) {
	lines, err := queryAll(ctx, s.db, scanLine,
		`SELECT `+lineColumns+` FROM lines l
		JOIN shabads s ON s.id = l.shabad_id
		WHERE s.composition_id = ?
		ORDER BY l.order_id`, compositionID)
	if err != nil {
		return nil, fmt.Errorf("list lines of composition %d: %w", compositionID, err)
	}
	return lines, nil
}

func (s *Store) LineContent(ctx context.Context, compositionID int64) ([]domain.LineContent, error) {
	content, err := queryAll(ctx, s.db, func(sc scanner) (domain.LineContent, error) {
		var (
			c       domain.LineContent
			fl, vfl sql.NullString
		)
		err := sc.Scan(&c.LineID, &c.SourceID, &c.Gurmukhi, &c.Larivaar, &fl, &vfl)
		c.FirstLetters = fl.String
		c.VishraamFirstLetters = vfl.String
		return c, err
	}, `SELECT lc.line_id, lc.source_id, lc.gurmukhi, lc.larivaar, lc.first_letters, lc.vishraam_first_letters
		FROM line_content lc
		JOIN lines l ON l.id = lc.line_id
		JOIN shabads s ON s.id = l.shabad_id
		WHERE s.composition_id = ?
		ORDER BY l.order_id, lc.source_id`, compositionID)
	if err != nil {
		return nil, fmt.Errorf("list line content of composition %d: %w", compositionID, err)
	}
	return content, nil
}

func (s *Store) Translations(ctx context.Context, compositionID int64) ([]domain.Translation, error) {
	translations, err := queryAll(ctx, s.db, func(sc scanner) (domain.Translation, error) {
		var (
			tr   domain.Translation
			info sql.NullString
		)
		err := sc.Scan(&tr.LineID, &tr.TranslationSourceID, &tr.Translation, &info)
		if info.Valid {
			tr.AdditionalInformation = json.RawMessage(info.String)
		}
		return tr, err
	}, `SELECT t.line_id, t.translation_source_id, t.translation, t.additional_information
		FROM translations t
		JOIN lines l ON l.id = t.line_id
		JOIN shabads s ON s.id = l.shabad_id
		WHERE s.composition_id = ?
		ORDER BY l.order_id, t.translation_source_id`, compositionID)
	if err != nil {
		return nil, fmt.Errorf("list translations of composition %d: %w", compositionID, err)
	}
	return translations, nil
}

func (s *Store) Transliterations(ctx context.Context, lineID string) ([]domain.Transliteration, error) {
	translits, err := queryAll(ctx, s.db, func(sc scanner) (domain.Transliteration, error) {
		var (
			tr      domain.Transliteration
			fl, vfl sql.NullString
		)
		err := sc.Scan(&tr.LineID, &tr.SourceID, &tr.LanguageID, &tr.Transliteration, &fl, &vfl)
		tr.FirstLetters = fl.String
		tr.VishraamFirstLetters = vfl.String
		return tr, err
	}, `SELECT line_id, source_id, language_id, transliteration, first_letters, vishraam_first_letters
		FROM transliterations
		WHERE line_id = ?
		ORDER BY source_id, language_id`, lineID)
	if err != nil {
		return nil, fmt.Errorf("list transliterations of line %s: %w", lineID, err)
	}
	return translits, nil
}

func (s *Store) Banis(ctx context.Context) ([]domain.Bani, error) {
	banis, err := queryAll(ctx, s.db, func(sc scanner) (domain.Bani, error) {
		var (
			b      domain.Bani
			folder sql.NullInt64
		)
		err := sc.Scan(&b.ID, &folder, &b.NameGurmukhi, &b.NameEnglish, &b.OrderID)
		b.FolderID = int64Ptr(folder)
		return b, err
	}, `SELECT id, folder_id, name_gurmukhi, name_english, order_id FROM banis ORDER BY order_id`)
	if err != nil {
		return nil, fmt.Errorf("list banis: %w", err)
	}
	return banis, nil
}

func (s *Store) BaniLines(ctx context.Context, baniID string) ([]domain.OrderedBaniLine, error) {
	lines, err := queryAll(ctx, s.db, func(sc scanner) (domain.OrderedBaniLine, error) {
		var (
			bl      domain.OrderedBaniLine
			visible int
		)
		err := sc.Scan(&bl.LineID, &bl.LineGroup, &bl.OrderID, &visible)
		bl.Visible = visible != 0
		return bl, err
	}, `SELECT bl.line_id, bl.line_group, l.order_id, l.visible
		FROM bani_lines bl
		JOIN lines l ON l.id = bl.line_id
		WHERE bl.bani_id = ?
		ORDER BY l.order_id, bl.line_group`, baniID)
	if err != nil {
		return nil, fmt.Errorf("list lines of bani %s: %w", baniID, err)
	}
	return lines, nil
}

func (s *Store) BaniBookmarks(ctx context.Context, baniID string) ([]domain.BaniBookmark, error) {
	bookmarks, err := queryAll(ctx, s.db, func(sc scanner) (domain.BaniBookmark, error) {
		var (
			b       domain.BaniBookmark
			visible int
		)
		err := sc.Scan(&b.LineID, &b.BaniID, &b.NameGurmukhi, &b.NameEnglish, &b.OrderID, &visible)
		b.LineVisible = visible != 0
		return b, err
	}, `SELECT bb.line_id, bb.bani_id, bb.name_gurmukhi, bb.name_english, bb.order_id, l.visible
		FROM bani_bookmarks bb
		JOIN lines l ON l.id = bb.line_id
		WHERE bb.bani_id = ?
		ORDER BY bb.order_id`, baniID)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks of bani %s: %w", baniID, err)
	}
	return bookmarks, nil
}

// Revision returns the recorded data revision, or store.ErrNotFound.
func (s *Store) Revision(ctx context.Context) (string, error) {
	var head sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT HEAD FROM revision LIMIT 1`).Scan(&head)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !head.Valid) {
		return "", store.ErrNotFound.WithMessage("revision not recorded")
	}
	if err != nil {
		return "", fmt.Errorf("get revision: %w", err)
	}
	return head.String, nil
}

var idTables = map[store.IDKind]string{
	store.IDKindBani:   "banis",
	store.IDKindShabad: "shabads",
	store.IDKindLine:   "lines",
}

// IDs returns every id already assigned for kind, sorted.
func (s *Store) IDs(ctx context.Context, kind store.IDKind) ([]string, error) {
	table, ok := idTables[kind]
	if !ok {
		return nil, store.ErrInvalidInput.WithMessage(fmt.Sprintf("unknown id kind %q", kind))
	}
	ids, err := queryAll(ctx, s.db, func(sc scanner) (string, error) {
		var id string
		err := sc.Scan(&id)
		return id, err
	}, `SELECT id FROM `+table+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list %s ids: %w", kind, err)
	}
	return ids, nil
}
