// Package vishraam checks that recorded vishraams still point at the word
// they were placed on.
package vishraam

import (
	"context"
	"fmt"

	"github.com/gurbaninow/database/internal/domain"
	"github.com/gurbaninow/database/internal/errors"
	"github.com/gurbaninow/database/internal/gurmukhi"
	"github.com/gurbaninow/database/internal/logger"
	"github.com/gurbaninow/database/internal/store"
)

// Mismatch is a vishraam whose word differs from the word at its index in
// the preferred source text. Actual is empty when the index is past the end
// of the line.
type Mismatch struct {
	Composition string
	LineID      string
	Index       int
	Expected    string
	Actual      string
}

// Checker compares vishraams with line content.
type Checker struct {
	reader store.Reader
	// preferred maps composition names to sources in order of preference.
	// Nil uses the first source of each line.
	preferred map[string][]string
	logger    *logger.Logger
}

// New creates a Checker.
func New(reader store.Reader, preferred map[string][]string, log *logger.Logger) *Checker {
	if log == nil {
		log = logger.Discard()
	}
	return &Checker{reader: reader, preferred: preferred, logger: log}
}

// Check returns every mismatch in composition then line order.
func (c *Checker) Check(ctx context.Context) ([]Mismatch, error) {
	sources, err := c.reader.References(ctx, domain.TableSources)
	if err != nil {
		return nil, err
	}
	sourceNames := make(map[int64]string, len(sources))
	for _, s := range sources {
		sourceNames[s.ID] = s.NameEnglish
	}

	compositions, err := c.reader.Compositions(ctx)
	if err != nil {
		return nil, err
	}

	var mismatches []Mismatch
	for _, comp := range compositions {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		found, checked, err := c.checkComposition(ctx, comp, sourceNames)
		if err != nil {
			return nil, fmt.Errorf("composition %s: %w", comp.NameEnglish, err)
		}
		c.logger.Debug("composition checked",
			"composition", comp.NameEnglish, "lines", checked, "mismatches", len(found))
		mismatches = append(mismatches, found...)
	}

	c.logger.Info("vishraams checked", "mismatches", len(mismatches))
	return mismatches, nil
}

func (c *Checker) checkComposition(ctx context.Context, comp domain.Composition, sourceNames map[int64]string) ([]Mismatch, int, error) {
	lines, err := c.reader.Lines(ctx, comp.ID)
	if err != nil {
		return nil, 0, err
	}
	content, err := c.reader.LineContent(ctx, comp.ID)
	if err != nil {
		return nil, 0, err
	}

	// Content rows are ordered by source id, so the first one seen is the
	// default when no preference is configured.
	texts := make(map[string]map[string]string)
	first := make(map[string]string)
	for _, lc := range content {
		if texts[lc.LineID] == nil {
			texts[lc.LineID] = make(map[string]string)
			first[lc.LineID] = lc.Gurmukhi
		}
		texts[lc.LineID][sourceNames[lc.SourceID]] = lc.Gurmukhi
	}

	var (
		mismatches []Mismatch
		checked    int
	)
	for _, l := range lines {
		if len(l.Vishraams) == 0 {
			continue
		}
		text, err := c.preferredText(comp.NameEnglish, l.ID, texts[l.ID], first[l.ID])
		if err != nil {
			return nil, checked, err
		}
		checked++

		words := gurmukhi.Words(text)
		for _, v := range l.Vishraams {
			var actual string
			if v.Index >= 0 && v.Index < len(words) {
				actual = words[v.Index]
			}
			if v.Word != actual {
				mismatches = append(mismatches, Mismatch{
					Composition: comp.NameEnglish,
					LineID:      l.ID,
					Index:       v.Index,
					Expected:    v.Word,
					Actual:      actual,
				})
			}
		}
	}
	return mismatches, checked, nil
}

// preferredText picks the text vishraam indexes are checked against.
func (c *Checker) preferredText(composition, lineID string, texts map[string]string, first string) (string, error) {
	if c.preferred == nil {
		if texts == nil {
			return "", errors.MissingFallbackSource(composition, lineID)
		}
		return first, nil
	}

	order, ok := c.preferred[composition]
	if !ok {
		return "", errors.MissingFallbackSource(composition, "")
	}
	for _, source := range order {
		if text, ok := texts[source]; ok {
			return text, nil
		}
	}
	return "", errors.MissingFallbackSource(composition, lineID)
}
