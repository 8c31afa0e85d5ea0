package vishraam

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gurbaninow/database/internal/domain"
	domainerrors "github.com/gurbaninow/database/internal/errors"
	"github.com/gurbaninow/database/internal/store/sqlite"
)

// newStore builds a database with one composition and the given lines, each
// carrying text in both sources unless the text is empty.
func newStore(t *testing.T, lines []domain.Line, texts map[string][2]string) *sqlite.Store {
	t.Helper()
	ctx := context.Background()

	s, err := sqlite.Open(filepath.Join(t.TempDir(), "database.sqlite"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.InitSchema(ctx))

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback()

	require.NoError(t, tx.InsertReferences(ctx, domain.TableWriters, []domain.Reference{
		{ID: 1, Names: domain.Names{NameGurmukhi: "gurU nwnk dyv jI", NameEnglish: "Guru Nanak Dev Ji"}},
	}))
	require.NoError(t, tx.InsertReferences(ctx, domain.TableSources, []domain.Reference{
		{ID: 1, Names: domain.Names{NameGurmukhi: "ੳ", NameEnglish: "Source A"}},
		{ID: 2, Names: domain.Names{NameGurmukhi: "ਬ", NameEnglish: "Source B"}},
	}))
	require.NoError(t, tx.InsertCompositions(ctx, []domain.Composition{
		{ID: 1, Names: domain.Names{NameGurmukhi: "sRI gurU gRMQ swihb jI", NameEnglish: "Sri Guru Granth Sahib Ji"}},
	}))
	require.NoError(t, tx.InsertSections(ctx, []domain.Section{
		{ID: 1, CompositionID: 1, Names: domain.Names{NameGurmukhi: "jpu", NameEnglish: "Jap"}, StartPage: 1, EndPage: 8},
	}))
	require.NoError(t, tx.InsertShabads(ctx, []domain.Shabad{
		{ID: "DMP", CompositionID: 1, WriterID: 1, SectionID: 1, OrderID: 1},
	}))
	require.NoError(t, tx.InsertLines(ctx, lines))

	var content []domain.LineContent
	for _, l := range lines {
		for i, text := range texts[l.ID] {
			if text != "" {
				content = append(content, domain.LineContent{LineID: l.ID, SourceID: int64(i + 1), Gurmukhi: text, Larivaar: text})
			}
		}
	}
	require.NoError(t, tx.InsertLineContent(ctx, content))
	require.NoError(t, tx.Commit())
	return s
}

func testLine(id string, order int64, vishraams ...domain.Vishraam) domain.Line {
	return domain.Line{ID: id, ShabadID: "DMP", SourcePage: 1, Visible: true, OrderID: order, Vishraams: vishraams}
}

func TestCheck(t *testing.T) {
	lines := []domain.Line{
		testLine("L001", 1, domain.Vishraam{Index: 1, Word: "nwmu", Type: domain.VishraamPause}),
		testLine("L002", 2,
			domain.Vishraam{Index: 0, Word: "gur", Type: domain.VishraamJamki},
			domain.Vishraam{Index: 1, Word: "pRswid", Type: domain.VishraamPause},
		),
		testLine("L003", 3, domain.Vishraam{Index: 9, Word: "n", Type: domain.VishraamPause}),
		testLine("L004", 4),
	}
	texts := map[string][2]string{
		"L001": {"siq nwmu; krqw purKu ]1]", "siq nwm krqw purKu ]1]"},
		"L002": {"gur, pRswd ]", ""},
		"L003": {"socY soic n hoveI ]", ""},
		"L004": {"cupY cup n hoveI ]", ""},
	}
	s := newStore(t, lines, texts)

	tests := []struct {
		name      string
		preferred map[string][]string
		want      []Mismatch
	}{
		{
			name: "first source",
			want: []Mismatch{
				{Composition: "Sri Guru Granth Sahib Ji", LineID: "L002", Index: 1, Expected: "pRswid", Actual: "pRswd"},
				{Composition: "Sri Guru Granth Sahib Ji", LineID: "L003", Index: 9, Expected: "n", Actual: ""},
			},
		},
		{
			name:      "preferred source",
			preferred: map[string][]string{"Sri Guru Granth Sahib Ji": {"Source B", "Source A"}},
			want: []Mismatch{
				{Composition: "Sri Guru Granth Sahib Ji", LineID: "L001", Index: 1, Expected: "nwmu", Actual: "nwm"},
				{Composition: "Sri Guru Granth Sahib Ji", LineID: "L002", Index: 1, Expected: "pRswid", Actual: "pRswd"},
				{Composition: "Sri Guru Granth Sahib Ji", LineID: "L003", Index: 9, Expected: "n", Actual: ""},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New(s, tt.preferred, nil).Check(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheck_NoMismatches(t *testing.T) {
	s := newStore(t,
		[]domain.Line{testLine("L001", 1, domain.Vishraam{Index: 1, Word: "nwmu", Type: domain.VishraamPause})},
		map[string][2]string{"L001": {"siq nwmu; krqw purKu ]1]", ""}})

	got, err := New(s, nil, nil).Check(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCheck_MissingPreferredSource(t *testing.T) {
	s := newStore(t,
		[]domain.Line{testLine("L001", 1, domain.Vishraam{Index: 1, Word: "nwmu", Type: domain.VishraamPause})},
		map[string][2]string{"L001": {"siq nwmu; krqw purKu ]1]", ""}})

	tests := []struct {
		name      string
		preferred map[string][]string
	}{
		{name: "no source on line", preferred: map[string][]string{"Sri Guru Granth Sahib Ji": {"Source B"}}},
		{name: "no entry for composition", preferred: map[string][]string{"Dasam Granth": {"Source A"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(s, tt.preferred, nil).Check(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, domainerrors.ErrMissingFallbackSource)
			assert.Equal(t, 4, domainerrors.ExitCode(err))
		})
	}
}
