package exporter

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/gurbaninow/database/internal/banirange"
	"github.com/gurbaninow/database/internal/domain"
	"github.com/gurbaninow/database/internal/errors"
	"github.com/gurbaninow/database/internal/resolver"
	"github.com/gurbaninow/database/internal/tree"
)

// nameOf returns the name with the given id, failing on ids the index lacks.
func nameOf(x *resolver.Index, id int64) (string, error) {
	name, ok := x.Name(id)
	if !ok {
		return "", errors.Internalf("%s %d has no row", x.Kind(), id)
	}
	return name, nil
}

// optionalName is nameOf for nullable references.
func optionalName(x *resolver.Index, id *int64) (*string, error) {
	if id == nil {
		return nil, nil
	}
	name, err := nameOf(x, *id)
	if err != nil {
		return nil, err
	}
	return &name, nil
}

func treeNamed(n domain.Names) tree.Named {
	return tree.Named{NameGurmukhi: n.NameGurmukhi, NameEnglish: n.NameEnglish}
}

func (e *Exporter) exportReferences(ctx context.Context, r *run) error {
	tables := []struct {
		file  string
		table domain.ReferenceTable
		kind  string
		index **resolver.Index
	}{
		{tree.FileWriters, domain.TableWriters, "writer", &r.names.writers},
		{tree.FileLineTypes, domain.TableLineTypes, "line type", &r.names.lineTypes},
		{tree.FileSources, domain.TableSources, "source", &r.names.sources},
		{tree.FileBaniFolders, domain.TableBaniFolders, "bani folder", &r.names.folders},
	}

	for _, t := range tables {
		rows, err := e.reader.References(ctx, t.table)
		if err != nil {
			return err
		}

		records := make([]tree.Named, len(rows))
		for i, row := range rows {
			records[i] = treeNamed(row.Names)
		}
		if err := r.dir.Write(t.file, records); err != nil {
			return err
		}

		*t.index = resolver.New(t.kind, tree.EnglishNames(records))
		r.result.Exported[string(t.table)] = len(records)
	}

	languages, err := e.reader.Languages(ctx)
	if err != nil {
		return err
	}
	records := make([]tree.Language, len(languages))
	for i, l := range languages {
		records[i] = tree.Language{Named: treeNamed(l.Names), NameInternational: l.NameInternational}
	}
	if err := r.dir.Write(tree.FileLanguages, records); err != nil {
		return err
	}
	names := make([]string, len(records))
	for i, l := range records {
		names[i] = l.NameEnglish
	}
	r.names.languages = resolver.New("language", names)
	r.result.Exported["languages"] = len(records)
	return nil
}

// exportCompositions nests sections and subsections back under their parents.
func (e *Exporter) exportCompositions(ctx context.Context, r *run) error {
	compositions, err := e.reader.Compositions(ctx)
	if err != nil {
		return err
	}
	sections, err := e.reader.Sections(ctx)
	if err != nil {
		return err
	}
	subsections, err := e.reader.Subsections(ctx)
	if err != nil {
		return err
	}

	subsBySection := make(map[int64][]tree.Subsection)
	subNames := make([]string, len(subsections))
	for i, sub := range subsections {
		subsBySection[sub.SectionID] = append(subsBySection[sub.SectionID], tree.Subsection{
			Named:     treeNamed(sub.Names),
			StartPage: sub.StartPage,
			EndPage:   sub.EndPage,
		})
		subNames[i] = sub.NameEnglish
	}

	sectionsByComposition := make(map[int64][]tree.Section)
	sectionNames := make([]string, len(sections))
	for i, s := range sections {
		subs := subsBySection[s.ID]
		if subs == nil {
			subs = []tree.Subsection{}
		}
		sectionsByComposition[s.CompositionID] = append(sectionsByComposition[s.CompositionID], tree.Section{
			Named:       treeNamed(s.Names),
			Description: s.Description,
			StartPage:   s.StartPage,
			EndPage:     s.EndPage,
			Subsections: subs,
		})
		sectionNames[i] = s.NameEnglish
	}

	records := make([]tree.Composition, len(compositions))
	for i, c := range compositions {
		secs := sectionsByComposition[c.ID]
		if secs == nil {
			secs = []tree.Section{}
		}
		records[i] = tree.Composition{
			Named:            treeNamed(c.Names),
			Length:           c.Length,
			PageNameEnglish:  c.PageNameEnglish,
			PageNameGurmukhi: c.PageNameGurmukhi,
			Sections:         secs,
		}
	}
	if err := r.dir.Write(tree.FileCompositions, records); err != nil {
		return err
	}

	r.names.compositions = resolver.New("composition", tree.EnglishNames(records))
	r.names.sections = resolver.New("section", sectionNames)
	r.names.subsections = resolver.New("subsection", subNames)
	r.result.Exported["compositions"] = len(records)
	r.result.Exported["sections"] = len(sections)
	r.result.Exported["subsections"] = len(subsections)
	return nil
}

func (e *Exporter) exportTranslationSources(ctx context.Context, r *run) error {
	sources, err := e.reader.TranslationSources(ctx)
	if err != nil {
		return err
	}

	r.names.translationSources = make(map[int64]translationKey, len(sources))
	records := make([]tree.TranslationSource, len(sources))
	for i, ts := range sources {
		composition, err := nameOf(r.names.compositions, ts.CompositionID)
		if err != nil {
			return err
		}
		language, err := nameOf(r.names.languages, ts.LanguageID)
		if err != nil {
			return err
		}
		records[i] = tree.TranslationSource{
			Named:       treeNamed(ts.Names),
			Composition: composition,
			Language:    language,
		}
		r.names.translationSources[ts.ID] = translationKey{language: language, source: ts.NameEnglish}
	}

	if err := r.dir.Write(tree.FileTranslationSources, records); err != nil {
		return err
	}
	r.result.Exported["translation_sources"] = len(records)
	return nil
}

// exportBanis collapses memberships back into ranges. The synthetic Start and
// End bookmarks are dropped since every import recreates them.
func (e *Exporter) exportBanis(ctx context.Context, r *run) error {
	banis, err := e.reader.Banis(ctx)
	if err != nil {
		return err
	}

	records := make([]tree.Bani, 0, len(banis))
	for _, b := range banis {
		folder, err := optionalName(r.names.folders, b.FolderID)
		if err != nil {
			return fmt.Errorf("bani %s: %w", b.ID, err)
		}

		members, err := e.reader.BaniLines(ctx, b.ID)
		if err != nil {
			return err
		}
		marks, err := e.reader.BaniBookmarks(ctx, b.ID)
		if err != nil {
			return err
		}

		user := domain.UserBookmarks(marks)

		// A visible-only tree has no hidden lines to point at.
		if r.opts.VisibleOnly {
			members = slices.DeleteFunc(members, func(m domain.OrderedBaniLine) bool { return !m.Visible })
			user = slices.DeleteFunc(user, func(m domain.BaniBookmark) bool { return !m.LineVisible })
			if len(members) == 0 {
				e.logger.Warn("bani has no visible lines, skipping", "bani_id", b.ID)
				r.result.Exported["hidden_banis"]++
				continue
			}
		}

		lines := banirange.Collapse(members)
		if lines == nil {
			lines = []domain.LineRange{}
		}
		bookmarks := make([]tree.Bookmark, 0, len(user))
		for _, m := range user {
			bookmarks = append(bookmarks, tree.Bookmark{LineID: m.LineID, Named: treeNamed(m.Names)})
		}

		records = append(records, tree.Bani{
			ID:        b.ID,
			Named:     treeNamed(b.Names),
			Folder:    folder,
			Lines:     lines,
			Bookmarks: bookmarks,
		})
	}

	if err := r.dir.Write(tree.FileBanis, records); err != nil {
		return err
	}
	r.result.Exported["banis"] = len(records)
	return nil
}

// decodeInformation turns stored additional information back into plain data
// so every codec can write it.
func decodeInformation(raw json.RawMessage) (any, error) {
	if raw == nil {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}
