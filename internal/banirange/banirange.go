// Package banirange converts the line ranges a bani declares into per-line
// membership rows and back.
//
// Forward, each range is looked up by the global order of its endpoints and
// every line in between becomes a member, tagged with the range's 1-based
// group number. The inverse takes the lowest and highest ordered member of
// each group. For ranges produced by Expand the round trip is exact.
package banirange

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/gurbaninow/database/internal/domain"
	domainerrors "github.com/gurbaninow/database/internal/errors"
	"github.com/gurbaninow/database/internal/store"
)

// Compiler expands bani ranges against the lines already written.
type Compiler struct {
	lines store.LineIndex
}

// New returns a compiler reading line orders from lines.
func New(lines store.LineIndex) *Compiler {
	return &Compiler{lines: lines}
}

// Expand returns the membership rows for ranges, in range order and line
// order within each range. Endpoints may be given in either order. An
// endpoint that is not a known line fails with a MalformedRange error.
func (c *Compiler) Expand(ctx context.Context, baniID string, ranges []domain.LineRange) ([]domain.BaniLine, error) {
	var members []domain.BaniLine

	for i, r := range ranges {
		group := i + 1

		start, err := c.order(ctx, baniID, r, r.StartLine)
		if err != nil {
			return nil, err
		}
		end := start
		if r.EndLine != r.StartLine {
			end, err = c.order(ctx, baniID, r, r.EndLine)
			if err != nil {
				return nil, err
			}
		}

		lo, hi := min(start, end), max(start, end)
		ids, err := c.lines.LinesBetween(ctx, lo, hi)
		if err != nil {
			return nil, fmt.Errorf("bani %s group %d: %w", baniID, group, err)
		}

		for _, id := range ids {
			members = append(members, domain.BaniLine{LineID: id, BaniID: baniID, LineGroup: group})
		}
	}

	return members, nil
}

// order looks up the order id of one endpoint of r.
func (c *Compiler) order(ctx context.Context, baniID string, r domain.LineRange, lineID string) (int64, error) {
	order, err := c.lines.LineOrder(ctx, lineID)
	if errors.Is(err, store.ErrNotFound) {
		return 0, domainerrors.MalformedRange(baniID, r.StartLine, r.EndLine).WithCause(err)
	}
	if err != nil {
		return 0, fmt.Errorf("bani %s: %w", baniID, err)
	}
	return order, nil
}

// Collapse rebuilds the minimal covering range of every group from
// membership rows joined with line order. Groups are returned ascending.
func Collapse(rows []domain.OrderedBaniLine) []domain.LineRange {
	type bounds struct {
		lo, hi domain.OrderedBaniLine
	}

	groups := make(map[int]*bounds)
	for _, row := range rows {
		b, ok := groups[row.LineGroup]
		if !ok {
			groups[row.LineGroup] = &bounds{lo: row, hi: row}
			continue
		}
		if row.OrderID < b.lo.OrderID {
			b.lo = row
		}
		if row.OrderID > b.hi.OrderID {
			b.hi = row
		}
	}

	keys := make([]int, 0, len(groups))
	for g := range groups {
		keys = append(keys, g)
	}
	sort.Ints(keys)

	ranges := make([]domain.LineRange, 0, len(keys))
	for _, g := range keys {
		b := groups[g]
		ranges = append(ranges, domain.LineRange{StartLine: b.lo.LineID, EndLine: b.hi.LineID})
	}
	return ranges
}
