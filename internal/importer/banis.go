package importer

import (
	"context"
	"fmt"

	"github.com/gurbaninow/database/internal/banirange"
	"github.com/gurbaninow/database/internal/domain"
	"github.com/gurbaninow/database/internal/errors"
	"github.com/gurbaninow/database/internal/store"
	"github.com/gurbaninow/database/internal/tree"
)

// importBanis writes banis in file order after every line exists. Each bani
// gets its memberships, then a Start bookmark, its own bookmarks and an End
// bookmark.
func (im *Importer) importBanis(ctx context.Context, r *run) error {
	banis, err := readValid[tree.Bani](im, tree.FileBanis)
	if err != nil {
		return err
	}

	compiler := banirange.New(r.tx)
	memberships, bookmarks := 0, 0

	for bi, b := range banis {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		folderID, err := r.baniFolders.OptionalID(b.Folder)
		if err != nil {
			return fmt.Errorf("bani %s: %w", b.ID, err)
		}

		if err := r.tx.InsertBani(ctx, domain.Bani{
			ID:       b.ID,
			FolderID: folderID,
			Names:    domain.Names(b.Named),
			OrderID:  int64(bi + 1),
		}); err != nil {
			return fmt.Errorf("bani %s: %w", b.ID, err)
		}

		members, err := compiler.Expand(ctx, b.ID, b.Lines)
		if err != nil {
			return err
		}
		if err := r.tx.InsertBaniLines(ctx, members); err != nil {
			return fmt.Errorf("bani %s: %w", b.ID, err)
		}

		marks, err := baniBookmarks(ctx, r.tx, b)
		if err != nil {
			return err
		}
		if err := r.tx.InsertBaniBookmarks(ctx, marks); err != nil {
			return fmt.Errorf("bani %s: %w", b.ID, err)
		}

		memberships += len(members)
		bookmarks += len(marks)
		im.logger.Debug("bani imported", "bani_id", b.ID, "lines", len(members), "bookmarks", len(marks))
	}

	r.result.Imported["banis"] = len(banis)
	r.result.Imported["bani_lines"] = memberships
	r.result.Imported["bani_bookmarks"] = bookmarks
	return nil
}

// baniBookmarks surrounds the declared bookmarks with the synthetic Start and
// End bookmarks. Start points at the first line of the first range and End at
// the last line of the last range.
func baniBookmarks(ctx context.Context, lines store.LineIndex, b tree.Bani) ([]domain.BaniBookmark, error) {
	first := b.Lines[0].StartLine
	last := b.Lines[len(b.Lines)-1].EndLine

	marks := make([]domain.BaniBookmark, 0, len(b.Bookmarks)+2)
	marks = append(marks, domain.BaniBookmark{LineID: first, BaniID: b.ID, Names: domain.StartBookmark, OrderID: 1})

	for i, bm := range b.Bookmarks {
		if _, err := lines.LineOrder(ctx, bm.LineID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, fmt.Errorf("bani %s bookmark %q: %w", b.ID, bm.NameEnglish,
					errors.UnresolvedReference("line", bm.LineID, ""))
			}
			return nil, err
		}
		marks = append(marks, domain.BaniBookmark{
			LineID:  bm.LineID,
			BaniID:  b.ID,
			Names:   domain.Names(bm.Named),
			OrderID: i + 2,
		})
	}

	marks = append(marks, domain.BaniBookmark{
		LineID:  last,
		BaniID:  b.ID,
		Names:   domain.EndBookmark,
		OrderID: len(b.Bookmarks) + 2,
	})
	return marks, nil
}
