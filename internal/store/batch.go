package store

import (
	"context"
	"fmt"
	"log/slog"
)

// FlushFunc persists one batch of rows. The slice is reused after it returns.
type FlushFunc[T any] func(ctx context.Context, rows []T) error

// BatchWriter buffers rows for one table and writes them in bounded batches.
// It is not safe for concurrent use.
type BatchWriter[T any] struct {
	name    string
	flush   FlushFunc[T]
	logger  *slog.Logger
	pending []T
	maxSize int
	written int
}

// NewBatchWriter creates a batch writer that flushes automatically when maxSize
// rows are pending. name identifies the table in logs and errors.
func NewBatchWriter[T any](name string, maxSize int, flush FlushFunc[T], logger *slog.Logger) *BatchWriter[T] {
	if maxSize < 1 {
		maxSize = 1
	}
	return &BatchWriter[T]{
		name:    name,
		flush:   flush,
		logger:  logger,
		pending: make([]T, 0, maxSize),
		maxSize: maxSize,
	}
}

// Add appends rows to the batch, flushing every time it fills up.
func (b *BatchWriter[T]) Add(ctx context.Context, rows ...T) error {
	for _, row := range rows {
		b.pending = append(b.pending, row)
		if len(b.pending) >= b.maxSize {
			if err := b.Flush(ctx); err != nil {
				return fmt.Errorf("auto flush: %w", err)
			}
		}
	}
	return nil
}

// Flush writes all pending rows.
func (b *BatchWriter[T]) Flush(ctx context.Context) error {
	if len(b.pending) == 0 {
		return nil
	}

	if err := b.flush(ctx, b.pending); err != nil {
		return fmt.Errorf("flush %s batch: %w", b.name, err)
	}

	if b.logger != nil {
		b.logger.LogAttrs(ctx, slog.LevelDebug, "batch flushed",
			slog.String("table", b.name),
			slog.Int("count", len(b.pending)),
		)
	}

	b.written += len(b.pending)
	b.pending = b.pending[:0]
	return nil
}

// Written returns the number of rows flushed so far.
func (b *BatchWriter[T]) Written() int {
	return b.written
}
