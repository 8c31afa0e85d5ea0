// Package importer builds the relational database from a data directory.
//
// The import runs in phases inside a single transaction: reference tables,
// the composition tree, translation sources, shabads and lines, banis and
// finally the revision marker. Any failure rolls the whole run back.
package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gurbaninow/database/internal/config"
	"github.com/gurbaninow/database/internal/derive"
	"github.com/gurbaninow/database/internal/logger"
	"github.com/gurbaninow/database/internal/resolver"
	"github.com/gurbaninow/database/internal/sequence"
	"github.com/gurbaninow/database/internal/store"
	"github.com/gurbaninow/database/internal/tree"
	"github.com/gurbaninow/database/internal/validation"
)

// RevisionSource reports the revision of the data being imported.
type RevisionSource interface {
	Head(ctx context.Context) (string, error)
}

// RevisionFunc adapts a function to RevisionSource.
type RevisionFunc func(ctx context.Context) (string, error)

// Head calls f.
func (f RevisionFunc) Head(ctx context.Context) (string, error) { return f(ctx) }

// Options tunes an import run.
type Options struct {
	// BatchSize is the number of rows buffered per table before an insert.
	BatchSize int
	// Concurrency bounds how many compositions are parsed at once.
	Concurrency int
	// DuplicatePolicy is config.DuplicateKeepFirst or config.DuplicateFail.
	DuplicatePolicy string
	// SourcesFallback maps composition names to preferred sources in order.
	// Nil imports every source of every line.
	SourcesFallback map[string][]string
}

// Result reports what an import run wrote.
type Result struct {
	RunID    string
	Imported map[string]int
	Skipped  map[string]int
	Revision string
	Duration time.Duration
}

// Importer loads a tree into a store.
type Importer struct {
	builder   store.Builder
	dir       *tree.Dir
	revision  RevisionSource
	generator *derive.Generator
	validator *validation.Validator
	logger    *logger.Logger
	opts      Options
}

// New creates an Importer reading from dir and writing through builder.
func New(builder store.Builder, dir *tree.Dir, revision RevisionSource, log *logger.Logger, opts Options) *Importer {
	if log == nil {
		log = logger.Discard()
	}
	if opts.BatchSize < 1 {
		opts.BatchSize = 100
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.DuplicatePolicy == "" {
		opts.DuplicatePolicy = config.DuplicateKeepFirst
	}
	return &Importer{
		builder:   builder,
		dir:       dir,
		revision:  revision,
		generator: derive.New(),
		validator: validation.New(),
		logger:    log,
		opts:      opts,
	}
}

// run holds the state shared by the phases of one import.
type run struct {
	tx     store.Tx
	result *Result

	writers     *resolver.Index
	lineTypes   *resolver.Index
	languages   *resolver.Index
	sources     *resolver.Index
	baniFolders *resolver.Index

	compositions       *resolver.Index
	sections           *resolver.Index
	subsections        *resolver.Tuple
	translationSources *resolver.Tuple

	// translitLanguages holds the language id of each generator language, in order.
	translitLanguages []int64

	shabadOrder *sequence.Counter
	lineOrder   *sequence.Counter
	shabadIDs   *sequence.SeenSet[string]
	lineIDs     *sequence.SeenSet[string]
}

// Import creates the schema and loads the whole tree.
func (im *Importer) Import(ctx context.Context) (*Result, error) {
	start := time.Now()

	result := &Result{
		RunID:    uuid.NewString(),
		Imported: make(map[string]int),
		Skipped:  make(map[string]int),
	}
	log := im.logger.WithFields(map[string]any{
		"run_id": result.RunID,
		"data":   im.dir.Root(),
	})
	log.Info("import started", "concurrency", im.opts.Concurrency, "duplicates", im.opts.DuplicatePolicy)

	done := log.Phase("schema")
	if err := im.builder.InitSchema(ctx); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}
	done()

	tx, err := im.builder.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	r := &run{
		tx:          tx,
		result:      result,
		shabadOrder: sequence.NewCounter(),
		lineOrder:   sequence.NewCounter(),
		shabadIDs:   sequence.NewSeenSet[string](),
		lineIDs:     sequence.NewSeenSet[string](),
	}

	steps := []struct {
		name string
		fn   func(context.Context, *run) error
	}{
		{"references", im.importReferences},
		{"compositions", im.importCompositions},
		{"translation_sources", im.importTranslationSources},
		{"lines", im.importLines},
		{"banis", im.importBanis},
		{"revision", im.importRevision},
	}

	for _, step := range steps {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		done := log.Phase(step.name)
		if err := step.fn(ctx, r); err != nil {
			return nil, fmt.Errorf("import %s: %w", step.name, err)
		}
		done()
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	result.Duration = time.Since(start)
	log.Info("import finished",
		"shabads", result.Imported["shabads"],
		"lines", result.Imported["lines"],
		"banis", result.Imported["banis"],
		"skipped_shabads", result.Skipped["shabads"],
		"skipped_lines", result.Skipped["lines"],
		"duration", result.Duration)

	return result, nil
}

func (im *Importer) importRevision(ctx context.Context, r *run) error {
	if im.revision == nil {
		return nil
	}
	head, err := im.revision.Head(ctx)
	if err != nil {
		return fmt.Errorf("resolve revision: %w", err)
	}
	if err := r.tx.SetRevision(ctx, head); err != nil {
		return err
	}
	r.result.Revision = head
	im.logger.Info("revision recorded", "head", head)
	return nil
}
