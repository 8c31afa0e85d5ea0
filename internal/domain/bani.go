package domain

// Synthetic bookmarks surrounding the user bookmarks of every bani.
var (
	StartBookmark = Names{NameGurmukhi: "ArMB", NameEnglish: "Start"}
	EndBookmark   = Names{NameGurmukhi: "smwpqI", NameEnglish: "End"}
)

// Bani is an ordered liturgical excerpt. IDs are two characters.
type Bani struct {
	ID       string `json:"id"`
	FolderID *int64 `json:"folder_id,omitempty"`
	Names
	OrderID int64 `json:"order_id"`
}

// BaniLine records that a line belongs to a bani in the given range group.
type BaniLine struct {
	LineID    string `json:"line_id"`
	BaniID    string `json:"bani_id"`
	LineGroup int    `json:"line_group"`
}

// OrderedBaniLine is a membership row joined with the line's global order
// and visibility.
type OrderedBaniLine struct {
	LineID    string `json:"line_id"`
	LineGroup int    `json:"line_group"`
	OrderID   int64  `json:"order_id"`
	Visible   bool   `json:"visible"`
}

// BaniBookmark is a named position within a bani. LineVisible is read from
// the bookmarked line and is not stored with the bookmark.
type BaniBookmark struct {
	LineID string `json:"line_id"`
	BaniID string `json:"bani_id"`
	Names
	OrderID     int  `json:"order_id"`
	LineVisible bool `json:"-"`
}

// UserBookmarks drops the generated Start and End bookmarks from one bani's
// bookmarks. They hold the first and last order ids, whatever their names.
func UserBookmarks(marks []BaniBookmark) []BaniBookmark {
	if len(marks) == 0 {
		return nil
	}
	first, last := marks[0].OrderID, marks[0].OrderID
	for _, m := range marks[1:] {
		first = min(first, m.OrderID)
		last = max(last, m.OrderID)
	}

	var user []BaniBookmark
	for _, m := range marks {
		if m.OrderID == first || m.OrderID == last {
			continue
		}
		user = append(user, m)
	}
	return user
}

// LineRange is an inclusive range of lines declared by a bani, by line id.
type LineRange struct {
	StartLine string `json:"start_line" yaml:"start_line" validate:"required"`
	EndLine   string `json:"end_line" yaml:"end_line" validate:"required"`
}
