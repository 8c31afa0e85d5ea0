package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserBookmarks(t *testing.T) {
	mark := func(line, english string, order int) BaniBookmark {
		return BaniBookmark{LineID: line, BaniID: "JP", Names: Names{NameEnglish: english}, OrderID: order}
	}

	tests := []struct {
		name  string
		marks []BaniBookmark
		want  []BaniBookmark
	}{
		{name: "none"},
		{
			name:  "only generated",
			marks: []BaniBookmark{mark("L001", "Start", 1), mark("L005", "End", 2)},
		},
		{
			name: "user bookmarks named like generated ones",
			marks: []BaniBookmark{
				mark("L001", "Start", 1),
				mark("L002", "Start", 2),
				mark("L003", "End", 3),
				mark("L005", "End", 4),
			},
			want: []BaniBookmark{mark("L002", "Start", 2), mark("L003", "End", 3)},
		},
		{
			name:  "unsorted input",
			marks: []BaniBookmark{mark("L005", "End", 3), mark("L002", "Pauri 1", 2), mark("L001", "Start", 1)},
			want:  []BaniBookmark{mark("L002", "Pauri 1", 2)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserBookmarks(tt.marks))
		})
	}
}
