package importer

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/gurbaninow/database/internal/config"
	"github.com/gurbaninow/database/internal/domain"
	"github.com/gurbaninow/database/internal/errors"
	"github.com/gurbaninow/database/internal/gurmukhi"
	"github.com/gurbaninow/database/internal/store"
	"github.com/gurbaninow/database/internal/tree"
)

// parsedComposition is one composition's shabads with every reference
// resolved and every derived field computed, but no order ids yet.
type parsedComposition struct {
	name    string
	shabads []parsedShabad
}

type parsedShabad struct {
	row   domain.Shabad
	lines []parsedLine
}

type parsedLine struct {
	row              domain.Line
	content          []domain.LineContent
	transliterations []domain.Transliteration
	translations     []domain.Translation
}

// writers buffers the rows of the line tables.
type writers struct {
	shabads          *store.BatchWriter[domain.Shabad]
	lines            *store.BatchWriter[domain.Line]
	content          *store.BatchWriter[domain.LineContent]
	transliterations *store.BatchWriter[domain.Transliteration]
	translations     *store.BatchWriter[domain.Translation]
}

func (im *Importer) newWriters(tx store.Tx) *writers {
	size := im.opts.BatchSize
	log := im.logger.Logger
	return &writers{
		shabads:          store.NewBatchWriter("shabads", size, tx.InsertShabads, log),
		lines:            store.NewBatchWriter("lines", size, tx.InsertLines, log),
		content:          store.NewBatchWriter("line_content", size, tx.InsertLineContent, log),
		transliterations: store.NewBatchWriter("transliterations", size, tx.InsertTransliterations, log),
		translations:     store.NewBatchWriter("translations", size, tx.InsertTranslations, log),
	}
}

func (w *writers) flush(ctx context.Context) error {
	for _, f := range []func(context.Context) error{
		w.shabads.Flush, w.lines.Flush, w.content.Flush, w.transliterations.Flush, w.translations.Flush,
	} {
		if err := f(ctx); err != nil {
			return err
		}
	}
	return nil
}

// importLines parses compositions concurrently and numbers their shabads and
// lines in a single ordered pass, so order ids do not depend on scheduling.
func (im *Importer) importLines(ctx context.Context, r *run) error {
	names := r.compositions.Names()
	parsed := make([]chan *parsedComposition, len(names))
	for i := range parsed {
		parsed[i] = make(chan *parsedComposition, 1)
	}

	w := im.newWriters(r.tx)

	g, gctx := errgroup.WithContext(ctx)
	// One slot is held by the numbering pass.
	g.SetLimit(im.opts.Concurrency + 1)

	g.Go(func() error {
		for i := range parsed {
			select {
			case pc := <-parsed[i]:
				if err := im.number(gctx, r, w, pc); err != nil {
					return err
				}
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return w.flush(gctx)
	})

	for i, name := range names {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			pc, err := im.parseComposition(gctx, r, int64(i+1), name)
			if err != nil {
				return fmt.Errorf("composition %s: %w", name, err)
			}
			parsed[i] <- pc
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	r.result.Imported["shabads"] = w.shabads.Written()
	r.result.Imported["lines"] = w.lines.Written()
	r.result.Imported["line_content"] = w.content.Written()
	r.result.Imported["transliterations"] = w.transliterations.Written()
	r.result.Imported["translations"] = w.translations.Written()
	return nil
}

// number assigns order ids to one composition's shabads and lines, applies the
// duplicate policy and queues the rows.
func (im *Importer) number(ctx context.Context, r *run, w *writers, pc *parsedComposition) error {
	fail := im.opts.DuplicatePolicy == config.DuplicateFail

	for _, ps := range pc.shabads {
		if r.shabadIDs.Add(ps.row.ID) {
			if fail {
				return errors.DuplicateID("shabad", ps.row.ID)
			}
			im.logger.Warn("duplicate shabad id, skipping",
				"composition", pc.name, "shabad_id", ps.row.ID, "lines", len(ps.lines))
			r.result.Skipped["shabads"]++
			r.result.Skipped["lines"] += len(ps.lines)
			continue
		}

		shabad := ps.row
		shabad.OrderID = r.shabadOrder.Next()
		if err := w.shabads.Add(ctx, shabad); err != nil {
			return err
		}

		for _, pl := range ps.lines {
			if r.lineIDs.Add(pl.row.ID) {
				if fail {
					return errors.DuplicateID("line", pl.row.ID)
				}
				im.logger.Warn("duplicate line id, skipping",
					"composition", pc.name, "shabad_id", shabad.ID, "line_id", pl.row.ID)
				r.result.Skipped["lines"]++
				continue
			}

			line := pl.row
			line.OrderID = r.lineOrder.Next()
			if err := w.lines.Add(ctx, line); err != nil {
				return err
			}
			if err := w.content.Add(ctx, pl.content...); err != nil {
				return err
			}
			if err := w.transliterations.Add(ctx, pl.transliterations...); err != nil {
				return err
			}
			if err := w.translations.Add(ctx, pl.translations...); err != nil {
				return err
			}
		}
	}

	im.logger.Debug("composition numbered",
		"composition", pc.name,
		"shabads", r.shabadOrder.Issued(),
		"lines", r.lineOrder.Issued())
	return nil
}

// parseComposition reads every page file of a composition and converts its
// shabads into rows.
func (im *Importer) parseComposition(ctx context.Context, r *run, compositionID int64, name string) (*parsedComposition, error) {
	pc := &parsedComposition{name: name}

	files, err := im.dir.CompositionFiles(name)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		im.logger.Debug("composition has no data", "composition", name)
		return pc, nil
	}

	var preferred []string
	if im.opts.SourcesFallback != nil {
		var ok bool
		if preferred, ok = im.opts.SourcesFallback[name]; !ok || len(preferred) == 0 {
			return nil, errors.MissingFallbackSource(name, "")
		}
	}

	for _, path := range files {
		shabads, err := tree.ReadShabads(path)
		if err != nil {
			return nil, err
		}

		for si := range shabads {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			where := fmt.Sprintf("%s/%s[%d]", name, filepath.Base(path), si)
			if err := im.validator.ValidateAt(where, &shabads[si]); err != nil {
				return nil, err
			}
			ps, err := im.parseShabad(r, compositionID, name, preferred, shabads[si])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", where, err)
			}
			pc.shabads = append(pc.shabads, ps)
		}
	}

	im.logger.Info("composition parsed", "composition", name, "files", len(files), "shabads", len(pc.shabads))
	return pc, nil
}

func (im *Importer) parseShabad(r *run, compositionID int64, composition string, preferred []string, s tree.Shabad) (parsedShabad, error) {
	writerID, err := r.writers.ID(s.Writer)
	if err != nil {
		return parsedShabad{}, err
	}
	sectionID, err := r.sections.ID(s.Section)
	if err != nil {
		return parsedShabad{}, err
	}
	var subsectionID *int64
	if s.Subsection != nil && *s.Subsection != "" {
		id, err := r.subsections.ID(s.Section, *s.Subsection)
		if err != nil {
			return parsedShabad{}, err
		}
		subsectionID = &id
	}

	ps := parsedShabad{
		row: domain.Shabad{
			ID:            s.ID,
			CompositionID: compositionID,
			WriterID:      writerID,
			SectionID:     sectionID,
			SubsectionID:  subsectionID,
			SttmID:        s.SttmID,
		},
		lines: make([]parsedLine, 0, len(s.Lines)),
	}

	for _, l := range s.Lines {
		pl, err := im.parseLine(r, composition, preferred, s.ID, l)
		if err != nil {
			return parsedShabad{}, fmt.Errorf("line %s: %w", l.ID, err)
		}
		ps.lines = append(ps.lines, pl)
	}

	return ps, nil
}

func (im *Importer) parseLine(r *run, composition string, preferred []string, shabadID string, l tree.Line) (parsedLine, error) {
	typeID, err := r.lineTypes.OptionalID(l.Type)
	if err != nil {
		return parsedLine{}, err
	}

	pl := parsedLine{
		row: domain.Line{
			ID:                       l.ID,
			ShabadID:                 shabadID,
			SourcePage:               l.SourcePage,
			SourceLine:               l.SourceLine,
			Vishraams:                l.Vishraams,
			Pronunciation:            l.Pronunciation,
			PronunciationInformation: l.PronunciationInformation,
			Visible:                  l.IsVisible(),
			TypeID:                   typeID,
		},
	}

	texts, err := selectSources(l, composition, preferred)
	if err != nil {
		return parsedLine{}, err
	}

	sirlekh := l.Type != nil && *l.Type == domain.LineTypeSirlekh

	type sourceText struct {
		id   int64
		text string
	}
	resolved := make([]sourceText, 0, len(texts))
	for name, text := range texts {
		id, err := r.sources.ID(name)
		if err != nil {
			return parsedLine{}, err
		}
		resolved = append(resolved, sourceText{id: id, text: text})
	}
	slices.SortFunc(resolved, func(a, b sourceText) int { return cmp.Compare(a.id, b.id) })

	// Lines without a vishraam list take it from inline markers in their
	// first source.
	if len(l.Vishraams) == 0 && len(resolved) > 0 {
		if inline := gurmukhi.ParseVishraams(resolved[0].text, false); len(inline) > 0 {
			pl.row.Vishraams = inline
		}
	}

	for _, src := range resolved {
		c := im.generator.Content(src.text, sirlekh)
		pl.content = append(pl.content, domain.LineContent{
			LineID:               l.ID,
			SourceID:             src.id,
			Gurmukhi:             c.Gurmukhi,
			Larivaar:             c.Larivaar,
			FirstLetters:         c.FirstLetters,
			VishraamFirstLetters: c.VishraamFirstLetters,
		})

		for i, t := range im.generator.Transliterations(src.text, sirlekh) {
			pl.transliterations = append(pl.transliterations, domain.Transliteration{
				LineID:               l.ID,
				SourceID:             src.id,
				LanguageID:           r.translitLanguages[i],
				Transliteration:      t.Text,
				FirstLetters:         t.FirstLetters,
				VishraamFirstLetters: t.VishraamFirstLetters,
			})
		}
	}

	pl.translations, err = flattenTranslations(r, composition, l)
	if err != nil {
		return parsedLine{}, err
	}

	return pl, nil
}

// selectSources applies the preferred-source policy: the first listed source
// present on the line is the only one kept. Without a policy every source is kept.
func selectSources(l tree.Line, composition string, preferred []string) (map[string]string, error) {
	if preferred == nil {
		return l.Gurmukhi, nil
	}
	for _, name := range preferred {
		if text, ok := l.Gurmukhi[name]; ok {
			return map[string]string{name: text}, nil
		}
	}
	return nil, errors.MissingFallbackSource(composition, l.ID)
}

// flattenTranslations resolves the language / translation source map of a line
// into rows, sorted by language then source name.
func flattenTranslations(r *run, composition string, l tree.Line) ([]domain.Translation, error) {
	languages := make([]string, 0, len(l.Translations))
	for lang := range l.Translations {
		languages = append(languages, lang)
	}
	slices.Sort(languages)

	var rows []domain.Translation
	for _, lang := range languages {
		bySource := l.Translations[lang]
		sources := make([]string, 0, len(bySource))
		for src := range bySource {
			sources = append(sources, src)
		}
		slices.Sort(sources)

		for _, src := range sources {
			id, err := r.translationSources.ID(composition, lang, src)
			if err != nil {
				return nil, err
			}

			entry := bySource[src]
			var info json.RawMessage
			if entry.AdditionalInformation != nil {
				info, err = json.Marshal(entry.AdditionalInformation)
				if err != nil {
					return nil, fmt.Errorf("additional information for %s/%s: %w", lang, src, err)
				}
			}

			rows = append(rows, domain.Translation{
				LineID:                l.ID,
				TranslationSourceID:   id,
				Translation:           entry.Translation,
				AdditionalInformation: info,
			})
		}
	}
	return rows, nil
}
