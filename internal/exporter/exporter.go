// Package exporter rebuilds the editable tree from a built database.
//
// It reverses the importer: ids become names again, line content becomes a
// per-source map, bani memberships collapse back into ranges and shabads are
// split into page files keyed by the page of their first line.
package exporter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/gurbaninow/database/internal/logger"
	"github.com/gurbaninow/database/internal/resolver"
	"github.com/gurbaninow/database/internal/store"
	"github.com/gurbaninow/database/internal/tree"
)

// preserved lists entries of an existing output directory that are carried
// over into the new tree.
var preserved = []string{".git", ".github", "README.md"}

// Options configures an export run.
type Options struct {
	OutputPath string
	// Codec selects the written format. Nil writes JSON.
	Codec tree.Codec
	// VisibleOnly drops invisible lines, and shabads left without lines.
	VisibleOnly bool
	// Concurrency bounds how many compositions are exported at once.
	Concurrency int
	// Preserve names further top-level entries of OutputPath kept across the
	// swap, such as a sources fallback file stored in the data directory.
	Preserve []string
}

// Result reports what an export run wrote.
type Result struct {
	RunID    string
	Path     string
	Exported map[string]int
	Duration time.Duration
}

// Exporter writes a tree from a store.
type Exporter struct {
	reader store.Reader
	logger *logger.Logger
}

// New creates an Exporter.
func New(reader store.Reader, log *logger.Logger) *Exporter {
	if log == nil {
		log = logger.Discard()
	}
	return &Exporter{reader: reader, logger: log}
}

// names holds the id to name indexes shared by the export steps.
type names struct {
	writers      *resolver.Index
	lineTypes    *resolver.Index
	sources      *resolver.Index
	folders      *resolver.Index
	languages    *resolver.Index
	compositions *resolver.Index
	sections     *resolver.Index
	subsections  *resolver.Index

	// translationSources maps a translation source id to its language and name.
	translationSources map[int64]translationKey
}

type translationKey struct {
	language string
	source   string
}

// run holds the state of one export.
type run struct {
	dir    *tree.Dir
	opts   Options
	names  names
	result *Result
}

// Export writes the whole tree to a temporary directory next to OutputPath
// and swaps it into place once every file is written.
func (e *Exporter) Export(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()
	if opts.OutputPath == "" {
		return nil, fmt.Errorf("output path is required")
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 4
	}

	result := &Result{
		RunID:    uuid.NewString(),
		Path:     opts.OutputPath,
		Exported: make(map[string]int),
	}
	log := e.logger.WithFields(map[string]any{
		"run_id": result.RunID,
		"output": opts.OutputPath,
	})
	log.Info("export started", "visible_only", opts.VisibleOnly)

	tmpPath := filepath.Clean(opts.OutputPath) + ".tmp"
	if err := os.RemoveAll(tmpPath); err != nil {
		return nil, fmt.Errorf("clear temp directory: %w", err)
	}
	if err := os.MkdirAll(tmpPath, 0o755); err != nil {
		return nil, fmt.Errorf("create temp directory: %w", err)
	}
	defer os.RemoveAll(tmpPath) // Clean up on failure

	r := &run{
		dir:    tree.NewDir(tmpPath, opts.Codec),
		opts:   opts,
		result: result,
	}

	steps := []struct {
		name string
		fn   func(context.Context, *run) error
	}{
		{"references", e.exportReferences},
		{"compositions", e.exportCompositions},
		{"translation_sources", e.exportTranslationSources},
		{"banis", e.exportBanis},
		{"lines", e.exportLines},
	}

	for _, step := range steps {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		done := log.Phase(step.name)
		if err := step.fn(ctx, r); err != nil {
			return nil, fmt.Errorf("export %s: %w", step.name, err)
		}
		done()
	}

	if err := swap(tmpPath, opts.OutputPath, slices.Concat(preserved, opts.Preserve)); err != nil {
		return nil, err
	}

	result.Duration = time.Since(start)
	log.Info("export finished",
		"shabads", result.Exported["shabads"],
		"lines", result.Exported["lines"],
		"banis", result.Exported["banis"],
		"duration", result.Duration)

	return result, nil
}

// PreserveEntry returns the top-level entry of output that contains path,
// or false when path lies outside output or is output itself.
func PreserveEntry(output, path string) (string, bool) {
	if output == "" || path == "" {
		return "", false
	}
	outAbs, err := filepath.Abs(output)
	if err != nil {
		return "", false
	}
	pathAbs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(outAbs, pathAbs)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	entry, _, _ := strings.Cut(rel, string(filepath.Separator))
	return entry, true
}

// swap replaces output with tmp, moving the preserved entries of the old
// output across first. A preserved entry may not shadow an exported one.
func swap(tmp, output string, preserve []string) error {
	var keep []string
	for _, name := range preserve {
		if _, err := os.Lstat(filepath.Join(output, name)); err != nil {
			continue
		}
		if _, err := os.Lstat(filepath.Join(tmp, name)); err == nil {
			return fmt.Errorf("preserve %s: conflicts with an exported file", name)
		}
		keep = append(keep, name)
	}

	for _, name := range keep {
		if err := os.Rename(filepath.Join(output, name), filepath.Join(tmp, name)); err != nil {
			return fmt.Errorf("preserve %s: %w", name, err)
		}
	}

	if err := os.RemoveAll(output); err != nil {
		return fmt.Errorf("remove previous tree: %w", err)
	}
	if err := os.Rename(tmp, output); err != nil {
		return fmt.Errorf("rename tree: %w", err)
	}
	return nil
}

// exportLines writes every composition's page files. Compositions are
// independent, so they are read and written concurrently.
func (e *Exporter) exportLines(ctx context.Context, r *run) error {
	compositions, err := e.reader.Compositions(ctx)
	if err != nil {
		return err
	}

	counts := make([]compositionCounts, len(compositions))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Concurrency)
	for i, c := range compositions {
		g.Go(func() error {
			n, err := e.exportComposition(gctx, r, c.ID, c.NameEnglish)
			if err != nil {
				return fmt.Errorf("composition %s: %w", c.NameEnglish, err)
			}
			counts[i] = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, n := range counts {
		r.result.Exported["shabads"] += n.shabads
		r.result.Exported["lines"] += n.lines
		r.result.Exported["pages"] += n.pages
		r.result.Exported["hidden_lines"] += n.hidden
	}
	return nil
}
