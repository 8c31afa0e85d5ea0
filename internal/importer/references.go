package importer

import (
	"context"
	"fmt"

	"github.com/gurbaninow/database/internal/domain"
	"github.com/gurbaninow/database/internal/resolver"
	"github.com/gurbaninow/database/internal/tree"
)

// readValid reads a top-level list and validates every record.
func readValid[T any](im *Importer, name string) ([]T, error) {
	records, err := tree.ReadList[T](im.dir, name)
	if err != nil {
		return nil, err
	}
	for i := range records {
		if err := im.validator.ValidateAt(fmt.Sprintf("%s[%d]", name, i), &records[i]); err != nil {
			return nil, err
		}
	}
	return records, nil
}

func (im *Importer) importReferences(ctx context.Context, r *run) error {
	tables := []struct {
		file  string
		table domain.ReferenceTable
		kind  string
		index **resolver.Index
	}{
		{tree.FileWriters, domain.TableWriters, "writer", &r.writers},
		{tree.FileLineTypes, domain.TableLineTypes, "line type", &r.lineTypes},
		{tree.FileSources, domain.TableSources, "source", &r.sources},
		{tree.FileBaniFolders, domain.TableBaniFolders, "bani folder", &r.baniFolders},
	}

	for _, t := range tables {
		records, err := readValid[tree.Named](im, t.file)
		if err != nil {
			return err
		}

		rows := make([]domain.Reference, len(records))
		for i, rec := range records {
			rows[i] = domain.Reference{ID: int64(i + 1), Names: domain.Names(rec)}
		}
		if err := r.tx.InsertReferences(ctx, t.table, rows); err != nil {
			return err
		}

		*t.index = resolver.New(t.kind, tree.EnglishNames(records))
		r.result.Imported[string(t.table)] = len(rows)
		im.logger.Debug("imported table", "table", t.table, "count", len(rows))
	}

	languages, err := readValid[tree.Language](im, tree.FileLanguages)
	if err != nil {
		return err
	}
	rows := make([]domain.Language, len(languages))
	names := make([]string, len(languages))
	for i, l := range languages {
		rows[i] = domain.Language{
			ID:                int64(i + 1),
			Names:             domain.Names(l.Named),
			NameInternational: l.NameInternational,
		}
		names[i] = l.NameEnglish
	}
	if err := r.tx.InsertLanguages(ctx, rows); err != nil {
		return err
	}
	r.languages = resolver.New("language", names)
	r.result.Imported["languages"] = len(rows)

	// Every transliteration target must be a declared language.
	for _, name := range im.generator.Languages() {
		id, err := r.languages.ID(name)
		if err != nil {
			return fmt.Errorf("transliteration language: %w", err)
		}
		r.translitLanguages = append(r.translitLanguages, id)
	}

	return im.checkSourcesFallback(r)
}

// checkSourcesFallback rejects policies naming unknown sources before any line is read.
func (im *Importer) checkSourcesFallback(r *run) error {
	for composition, sources := range im.opts.SourcesFallback {
		for _, name := range sources {
			if _, err := r.sources.ID(name); err != nil {
				return fmt.Errorf("sources fallback for %s: %w", composition, err)
			}
		}
	}
	return nil
}

// importCompositions writes compositions with their sections and subsections.
// Section and subsection ids count across all compositions in tree order.
func (im *Importer) importCompositions(ctx context.Context, r *run) error {
	records, err := readValid[tree.Composition](im, tree.FileCompositions)
	if err != nil {
		return err
	}

	var (
		compositions []domain.Composition
		sections     []domain.Section
		subsections  []domain.Subsection
		sectionNames []string
		subNames     []string
		subKeys      [][]string
	)

	for ci, c := range records {
		compositionID := int64(ci + 1)
		compositions = append(compositions, domain.Composition{
			ID:               compositionID,
			Names:            domain.Names(c.Named),
			Length:           c.Length,
			PageNameEnglish:  c.PageNameEnglish,
			PageNameGurmukhi: c.PageNameGurmukhi,
		})

		for _, s := range c.Sections {
			sectionID := int64(len(sections) + 1)
			sections = append(sections, domain.Section{
				ID:            sectionID,
				CompositionID: compositionID,
				Names:         domain.Names(s.Named),
				Description:   s.Description,
				StartPage:     s.StartPage,
				EndPage:       s.EndPage,
			})
			sectionNames = append(sectionNames, s.NameEnglish)

			for _, sub := range s.Subsections {
				subsections = append(subsections, domain.Subsection{
					ID:        int64(len(subsections) + 1),
					SectionID: sectionID,
					Names:     domain.Names(sub.Named),
					StartPage: sub.StartPage,
					EndPage:   sub.EndPage,
				})
				subNames = append(subNames, sub.NameEnglish)
				subKeys = append(subKeys, []string{s.NameEnglish, sub.NameEnglish})
			}
		}
	}

	if err := r.tx.InsertCompositions(ctx, compositions); err != nil {
		return err
	}
	if err := r.tx.InsertSections(ctx, sections); err != nil {
		return err
	}
	if err := r.tx.InsertSubsections(ctx, subsections); err != nil {
		return err
	}

	r.compositions = resolver.New("composition", tree.EnglishNames(records))
	r.sections = resolver.New("section", sectionNames)
	// Subsection names repeat across sections, so they resolve within their section.
	r.subsections = resolver.NewTuple("subsection",
		[]*resolver.Index{r.sections, resolver.New("subsection", subNames)}, subKeys)

	r.result.Imported["compositions"] = len(compositions)
	r.result.Imported["sections"] = len(sections)
	r.result.Imported["subsections"] = len(subsections)
	return nil
}

// importTranslationSources writes translation sources, resolving their
// composition and language by name.
func (im *Importer) importTranslationSources(ctx context.Context, r *run) error {
	records, err := readValid[tree.TranslationSource](im, tree.FileTranslationSources)
	if err != nil {
		return err
	}

	rows := make([]domain.TranslationSource, len(records))
	keys := make([][]string, len(records))
	for i, ts := range records {
		compositionID, err := r.compositions.ID(ts.Composition)
		if err != nil {
			return fmt.Errorf("translation source %s: %w", ts.NameEnglish, err)
		}
		languageID, err := r.languages.ID(ts.Language)
		if err != nil {
			return fmt.Errorf("translation source %s: %w", ts.NameEnglish, err)
		}

		rows[i] = domain.TranslationSource{
			ID:            int64(i + 1),
			Names:         domain.Names(ts.Named),
			CompositionID: compositionID,
			LanguageID:    languageID,
		}
		keys[i] = []string{ts.Composition, ts.Language, ts.NameEnglish}
	}

	if err := r.tx.InsertTranslationSources(ctx, rows); err != nil {
		return err
	}

	r.translationSources = resolver.NewTuple("translation source",
		[]*resolver.Index{r.compositions, r.languages, resolver.New("translation source", tree.EnglishNames(records))},
		keys)
	r.result.Imported["translation_sources"] = len(rows)
	return nil
}
