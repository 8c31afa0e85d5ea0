package exporter

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gurbaninow/database/internal/domain"
	"github.com/gurbaninow/database/internal/tree"
)

type compositionCounts struct {
	shabads int
	lines   int
	pages   int
	hidden  int
}

// page is one output file: the shabads whose first line sits on the page.
type page struct {
	key     string
	shabads []tree.Shabad
}

// exportComposition writes a composition's shabads grouped into page files.
// Page keys are zero-padded to the widest key of the composition.
func (e *Exporter) exportComposition(ctx context.Context, r *run, compositionID int64, name string) (compositionCounts, error) {
	var counts compositionCounts

	shabads, err := e.reader.Shabads(ctx, compositionID)
	if err != nil {
		return counts, err
	}
	if len(shabads) == 0 {
		return counts, nil
	}

	lines, err := e.linesByShabad(ctx, r, compositionID, &counts)
	if err != nil {
		return counts, err
	}

	var pages []*page
	byKey := make(map[string]*page)
	width := 0

	for _, sh := range shabads {
		shLines := lines[sh.ID]
		if len(shLines) == 0 {
			// Every line was filtered out.
			continue
		}

		record, err := r.shabadRecord(sh, shLines)
		if err != nil {
			return counts, fmt.Errorf("shabad %s: %w", sh.ID, err)
		}

		key := strconv.Itoa(shLines[0].SourcePage)
		p, ok := byKey[key]
		if !ok {
			p = &page{key: key}
			byKey[key] = p
			pages = append(pages, p)
			width = max(width, len(key))
		}
		p.shabads = append(p.shabads, record)
		counts.shabads++
	}

	for _, p := range pages {
		if ctx.Err() != nil {
			return counts, ctx.Err()
		}
		if err := r.dir.WritePage(name, tree.PadPage(p.key, width), p.shabads); err != nil {
			return counts, err
		}
	}
	counts.pages = len(pages)

	e.logger.Debug("composition exported", "composition", name, "shabads", counts.shabads, "pages", counts.pages)
	return counts, nil
}

func (r *run) shabadRecord(sh domain.Shabad, lines []tree.Line) (tree.Shabad, error) {
	writer, err := nameOf(r.names.writers, sh.WriterID)
	if err != nil {
		return tree.Shabad{}, err
	}
	section, err := nameOf(r.names.sections, sh.SectionID)
	if err != nil {
		return tree.Shabad{}, err
	}
	subsection, err := optionalName(r.names.subsections, sh.SubsectionID)
	if err != nil {
		return tree.Shabad{}, err
	}
	return tree.Shabad{
		ID:         sh.ID,
		SttmID:     sh.SttmID,
		Writer:     writer,
		Section:    section,
		Subsection: subsection,
		Lines:      lines,
	}, nil
}

// linesByShabad reads a composition's lines with their source texts and
// translations, grouped by shabad in line order.
func (e *Exporter) linesByShabad(ctx context.Context, r *run, compositionID int64, counts *compositionCounts) (map[string][]tree.Line, error) {
	lines, err := e.reader.Lines(ctx, compositionID)
	if err != nil {
		return nil, err
	}
	content, err := e.reader.LineContent(ctx, compositionID)
	if err != nil {
		return nil, err
	}
	translations, err := e.reader.Translations(ctx, compositionID)
	if err != nil {
		return nil, err
	}

	texts := make(map[string]map[string]string, len(lines))
	for _, c := range content {
		source, err := nameOf(r.names.sources, c.SourceID)
		if err != nil {
			return nil, err
		}
		if texts[c.LineID] == nil {
			texts[c.LineID] = make(map[string]string)
		}
		texts[c.LineID][source] = c.Gurmukhi
	}

	translated := make(map[string]map[string]map[string]tree.Translation, len(lines))
	for _, t := range translations {
		key, ok := r.names.translationSources[t.TranslationSourceID]
		if !ok {
			return nil, fmt.Errorf("translation source %d has no row", t.TranslationSourceID)
		}
		info, err := decodeInformation(t.AdditionalInformation)
		if err != nil {
			return nil, fmt.Errorf("additional information of line %s: %w", t.LineID, err)
		}

		byLanguage := translated[t.LineID]
		if byLanguage == nil {
			byLanguage = make(map[string]map[string]tree.Translation)
			translated[t.LineID] = byLanguage
		}
		if byLanguage[key.language] == nil {
			byLanguage[key.language] = make(map[string]tree.Translation)
		}
		byLanguage[key.language][key.source] = tree.Translation{
			Translation:           t.Translation,
			AdditionalInformation: info,
		}
	}

	out := make(map[string][]tree.Line)
	for _, l := range lines {
		if r.opts.VisibleOnly && !l.Visible {
			counts.hidden++
			continue
		}

		record, err := r.lineRecord(l, texts[l.ID], translated[l.ID])
		if err != nil {
			return nil, fmt.Errorf("line %s: %w", l.ID, err)
		}
		out[l.ShabadID] = append(out[l.ShabadID], record)
		counts.lines++
	}
	return out, nil
}

func (r *run) lineRecord(l domain.Line, texts map[string]string, translations map[string]map[string]tree.Translation) (tree.Line, error) {
	lineType, err := optionalName(r.names.lineTypes, l.TypeID)
	if err != nil {
		return tree.Line{}, err
	}

	vishraams := l.Vishraams
	if vishraams == nil {
		vishraams = []domain.Vishraam{}
	}
	if texts == nil {
		texts = map[string]string{}
	}
	if translations == nil {
		translations = map[string]map[string]tree.Translation{}
	}
	// Lines are visible unless marked otherwise.
	var visible *bool
	if !l.Visible {
		visible = new(bool)
	}

	return tree.Line{
		ID:                       l.ID,
		SourcePage:               l.SourcePage,
		SourceLine:               l.SourceLine,
		Pronunciation:            l.Pronunciation,
		PronunciationInformation: l.PronunciationInformation,
		Type:                     lineType,
		Visible:                  visible,
		Gurmukhi:                 texts,
		Vishraams:                vishraams,
		Translations:             translations,
	}, nil
}
