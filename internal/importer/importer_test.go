package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gurbaninow/database/internal/config"
	"github.com/gurbaninow/database/internal/domain"
	domainerrors "github.com/gurbaninow/database/internal/errors"
	"github.com/gurbaninow/database/internal/logger"
	"github.com/gurbaninow/database/internal/resolver"
	"github.com/gurbaninow/database/internal/store"
	"github.com/gurbaninow/database/internal/store/sqlite"
	"github.com/gurbaninow/database/internal/tree"
)

const sggs = "Sri Guru Granth Sahib Ji"

func named(gurmukhi, english string) tree.Named {
	return tree.Named{NameGurmukhi: gurmukhi, NameEnglish: english}
}

func ptr[T any](v T) *T { return &v }

// fixture is a data directory held in memory until written.
type fixture struct {
	writers            []tree.Named
	lineTypes          []tree.Named
	sources            []tree.Named
	folders            []tree.Named
	languages          []tree.Language
	compositions       []tree.Composition
	translationSources []tree.TranslationSource
	banis              []tree.Bani
	// pages maps composition name to page key to shabads.
	pages map[string]map[string][]tree.Shabad
}

func line(id, text string) tree.Line {
	return tree.Line{ID: id, SourcePage: 1, Gurmukhi: map[string]string{"Source A": text}}
}

func newFixture() *fixture {
	return &fixture{
		writers:   []tree.Named{named("gurU nwnk dyv jI", "Guru Nanak Dev Ji"), named("gurU AMgd dyv jI", "Guru Angad Dev Ji")},
		lineTypes: []tree.Named{named("isrlyK", "Sirlekh"), named("mMglwcrn", "Manglacharan")},
		sources:   []tree.Named{named("ਸਰੋਤ ੳ", "Source A"), named("ਸਰੋਤ ਬ", "Source B")},
		folders:   []tree.Named{named("inqnym", "Nitnem")},
		languages: []tree.Language{
			{Named: named("AMgryzI", "English"), NameInternational: ptr("English")},
			{Named: named("ihMdI", "Hindi")},
			{Named: named("aurdU", "Urdu")},
		},
		compositions: []tree.Composition{{
			Named:           named("sRI gurU gRMQ swihb jI", sggs),
			Length:          1430,
			PageNameEnglish: "Ang",
			Sections: []tree.Section{
				{
					Named: named("jpu", "Jap"), StartPage: 1, EndPage: 8,
					Subsections: []tree.Subsection{{Named: named("pauVI", "Pauri")}},
				},
				{
					Named: named("sRI rwgu", "Sri Raag"), StartPage: 14, EndPage: 93,
					Subsections: []tree.Subsection{{Named: named("pauVI", "Pauri")}},
				},
			},
		}},
		translationSources: []tree.TranslationSource{
			{Named: named("sMq isMG ^wlsw", "Sant Singh Khalsa"), Composition: sggs, Language: "English"},
		},
		banis: []tree.Bani{},
		pages: map[string]map[string][]tree.Shabad{
			sggs: {
				"1": {{
					ID: "DMP", Writer: "Guru Nanak Dev Ji", Section: "Jap",
					Lines: []tree.Line{
						line("L001", "siq nwmu krqw purKu ]1]"),
						line("L002", "gur pRswid ]"),
					},
				}},
				"2": {{
					ID: "DMQ", Writer: "Guru Nanak Dev Ji", Section: "Jap", Subsection: ptr("Pauri"),
					Lines: []tree.Line{
						line("L003", "socY soic n hoveI ]"),
						line("L004", "cupY cup n hoveI ]"),
						line("L005", "BuiKAw BuK n auqrI ]"),
					},
				}},
			},
		},
	}
}

func (f *fixture) write(t *testing.T, codec tree.Codec) *tree.Dir {
	t.Helper()
	dir := tree.NewDir(t.TempDir(), codec)

	files := []struct {
		name string
		v    any
	}{
		{tree.FileWriters, f.writers},
		{tree.FileLineTypes, f.lineTypes},
		{tree.FileSources, f.sources},
		{tree.FileBaniFolders, f.folders},
		{tree.FileLanguages, f.languages},
		{tree.FileCompositions, f.compositions},
		{tree.FileTranslationSources, f.translationSources},
		{tree.FileBanis, f.banis},
	}
	for _, file := range files {
		require.NoError(t, dir.Write(file.name, file.v))
	}
	for composition, pages := range f.pages {
		for page, shabads := range pages {
			require.NoError(t, dir.WritePage(composition, page, shabads))
		}
	}
	return dir
}

func openStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.Open(filepath.Join(t.TempDir(), "database.sqlite"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func runImport(t *testing.T, f *fixture, opts Options) (*sqlite.Store, *Result, error) {
	t.Helper()
	s := openStore(t)
	dir := f.write(t, tree.JSONCodec{})
	revision := RevisionFunc(func(context.Context) (string, error) { return "deadbeef", nil })

	result, err := New(s, dir, revision, logger.Discard(), opts).Import(context.Background())
	return s, result, err
}

func TestImport_Basic(t *testing.T) {
	s, result, err := runImport(t, newFixture(), Options{})
	require.NoError(t, err)
	ctx := context.Background()

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, "deadbeef", result.Revision)
	assert.Equal(t, 2, result.Imported["shabads"])
	assert.Equal(t, 5, result.Imported["lines"])
	assert.Equal(t, 5, result.Imported["line_content"])
	assert.Equal(t, 15, result.Imported["transliterations"])

	shabads, err := s.Shabads(ctx, 1)
	require.NoError(t, err)
	require.Len(t, shabads, 2)
	assert.Equal(t, "DMP", shabads[0].ID)
	assert.Nil(t, shabads[0].SubsectionID)
	require.NotNil(t, shabads[1].SubsectionID)
	assert.Equal(t, int64(1), *shabads[1].SubsectionID)

	head, err := s.Revision(ctx)
	require.NoError(t, err)
	assert.Equal(t, "deadbeef", head)

	languages, err := s.Languages(ctx)
	require.NoError(t, err)
	require.Len(t, languages, 3)
	require.NotNil(t, languages[0].NameInternational)
	assert.Nil(t, languages[1].NameInternational)
}

func TestImport_OrderIDsAreGapless(t *testing.T) {
	f := newFixture()
	// Many pages parsed concurrently still number in page-file order.
	for page := 3; page <= 12; page++ {
		f.pages[sggs][fmt.Sprintf("%02d", page)] = []tree.Shabad{{
			ID: fmt.Sprintf("P%02d", page), Writer: "Guru Angad Dev Ji", Section: "Sri Raag",
			Lines: []tree.Line{
				line(fmt.Sprintf("P%02dA", page), "sbdu ]"),
				line(fmt.Sprintf("P%02dB", page), "sbdu ]"),
			},
		}}
	}

	s, _, err := runImport(t, f, Options{Concurrency: 4, BatchSize: 3})
	require.NoError(t, err)

	lines, err := s.Lines(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, lines, 25)
	for i, l := range lines {
		assert.Equal(t, int64(i+1), l.OrderID, "line %s", l.ID)
	}
	// Page files sort by page number, so "03" follows "2" and "10" follows "09".
	assert.Equal(t, "L001", lines[0].ID)
	assert.Equal(t, "P03A", lines[5].ID)
	assert.Equal(t, "P09B", lines[18].ID)
	assert.Equal(t, "P10A", lines[19].ID)

	shabads, err := s.Shabads(context.Background(), 1)
	require.NoError(t, err)
	for i, sh := range shabads {
		assert.Equal(t, int64(i+1), sh.OrderID)
	}
}

// withCompositions adds compositions after the fixture's own, each with
// three pages of two single-line shabads.
func (f *fixture) withCompositions(names ...string) *fixture {
	for c, name := range names {
		section := fmt.Sprintf("Vaar %d", c+1)
		f.compositions = append(f.compositions, tree.Composition{
			Named:           named(fmt.Sprintf("gRMQ %d", c), name),
			Length:          3,
			PageNameEnglish: "Page",
			Sections:        []tree.Section{{Named: named("vwr", section), StartPage: 1, EndPage: 3}},
		})
		pages := make(map[string][]tree.Shabad)
		for page := 1; page <= 3; page++ {
			var shabads []tree.Shabad
			for n := range 2 {
				id := fmt.Sprintf("%c%d%d", 'A'+c, page, n)
				shabads = append(shabads, tree.Shabad{
					ID: id, Writer: "Guru Angad Dev Ji", Section: section,
					Lines: []tree.Line{line(id+"X", "sbdu ]")},
				})
			}
			pages[fmt.Sprint(page)] = shabads
		}
		f.pages[name] = pages
	}
	return f
}

func TestImport_CompositionsNumberInDeclaredOrder(t *testing.T) {
	collect := func(concurrency int) ([]string, []int64) {
		f := newFixture().withCompositions("Dasam Granth", "Bhai Gurdas Vaaran", "Bhai Nand Lal")
		s, result, err := runImport(t, f, Options{Concurrency: concurrency, BatchSize: 2})
		require.NoError(t, err)
		assert.Equal(t, 23, result.Imported["lines"])
		assert.Equal(t, 20, result.Imported["shabads"])

		var ids []string
		var orders []int64
		for composition := int64(1); composition <= 4; composition++ {
			lines, err := s.Lines(context.Background(), composition)
			require.NoError(t, err)
			for _, l := range lines {
				ids = append(ids, l.ID)
				orders = append(orders, l.OrderID)
			}
		}
		return ids, orders
	}

	serialIDs, serialOrders := collect(1)
	require.Len(t, serialIDs, 23)
	for i, order := range serialOrders {
		assert.Equal(t, int64(i+1), order, "line %s", serialIDs[i])
	}
	assert.Equal(t, "L005", serialIDs[4])
	assert.Equal(t, "A10X", serialIDs[5])
	assert.Equal(t, "B10X", serialIDs[11])
	assert.Equal(t, "C31X", serialIDs[22])

	for range 3 {
		ids, orders := collect(4)
		assert.Equal(t, serialIDs, ids)
		assert.Equal(t, serialOrders, orders)
	}
}

func TestImport_InlineVishraams(t *testing.T) {
	f := newFixture()
	lines := f.pages[sggs]["1"][0].Lines
	lines[0].Gurmukhi = map[string]string{"Source A": "siq nwmu; krqw, purKu ]1]"}
	lines[1].Gurmukhi = map[string]string{"Source A": "gur; pRswid ]"}
	lines[1].Vishraams = []domain.Vishraam{{Index: 1, Word: "pRswid", Type: domain.VishraamJamki}}

	s, _, err := runImport(t, f, Options{})
	require.NoError(t, err)

	rows, err := s.Lines(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []domain.Vishraam{
		{Index: 1, Word: "nwmu", Type: domain.VishraamPause},
		{Index: 2, Word: "krqw", Type: domain.VishraamJamki},
	}, rows[0].Vishraams)
	// A declared list wins over inline markers.
	assert.Equal(t, []domain.Vishraam{{Index: 1, Word: "pRswid", Type: domain.VishraamJamki}}, rows[1].Vishraams)
	assert.Empty(t, rows[2].Vishraams)
}

func TestImport_PreferredSource(t *testing.T) {
	f := newFixture()
	first := &f.pages[sggs]["1"][0].Lines[0]
	first.Gurmukhi = map[string]string{
		"Source A": "siq nwmu krqw purKu ]1]",
		"Source B": "siq nwmu; krqw purKu ]1]",
	}

	s, _, err := runImport(t, f, Options{SourcesFallback: map[string][]string{sggs: {"Source B", "Source A"}}})
	require.NoError(t, err)
	ctx := context.Background()

	content, err := s.LineContent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, content, 5)

	// L001 has both sources; only the preferred one is kept.
	assert.Equal(t, "L001", content[0].LineID)
	assert.Equal(t, int64(2), content[0].SourceID)
	assert.Equal(t, "siq nwmu; krqw purKu ]1]", content[0].Gurmukhi)
	assert.Equal(t, "snkp", content[0].FirstLetters)
	assert.Equal(t, "sn;kp", content[0].VishraamFirstLetters)
	// L002 only has the fallback.
	assert.Equal(t, "L002", content[1].LineID)
	assert.Equal(t, int64(1), content[1].SourceID)

	translits, err := s.Transliterations(ctx, "L001")
	require.NoError(t, err)
	require.Len(t, translits, 3)
	assert.Equal(t, int64(2), translits[0].SourceID)
	assert.Equal(t, int64(1), translits[0].LanguageID)
	assert.Equal(t, "sati naamu; karataa purakhu ||1||", translits[0].Transliteration)
}

func TestImport_AllSourcesWithoutPolicy(t *testing.T) {
	f := newFixture()
	f.pages[sggs]["1"][0].Lines[0].Gurmukhi = map[string]string{
		"Source B": "siq nwmu krqw purKu ]1]",
		"Source A": "siq nwmu krqw purKu ]1]",
	}

	s, result, err := runImport(t, f, Options{})
	require.NoError(t, err)
	assert.Equal(t, 6, result.Imported["line_content"])

	content, err := s.LineContent(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), content[0].SourceID)
	assert.Equal(t, int64(2), content[1].SourceID)
	assert.Equal(t, "L001", content[1].LineID)
}

func TestImport_MissingFallbackSource(t *testing.T) {
	tests := []struct {
		name   string
		policy map[string][]string
	}{
		{name: "line without preferred source", policy: map[string][]string{sggs: {"Source B"}}},
		{name: "composition without policy", policy: map[string][]string{"Dasam Granth": {"Source A"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, err := runImport(t, newFixture(), Options{SourcesFallback: tt.policy})
			require.Error(t, err)
			assert.ErrorIs(t, err, domainerrors.ErrMissingFallbackSource)
			assert.Equal(t, 4, domainerrors.ExitCode(err))

			_, err = s.Revision(context.Background())
			assert.ErrorIs(t, err, store.ErrNotFound)
		})
	}
}

func TestImport_UnknownFallbackSource(t *testing.T) {
	_, _, err := runImport(t, newFixture(), Options{SourcesFallback: map[string][]string{sggs: {"Source C"}}})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrUnresolvedReference)
}

func TestImport_UnresolvedReference(t *testing.T) {
	f := newFixture()
	f.pages[sggs]["2"][0].Writer = "Guru Nanak Dev"

	s, _, err := runImport(t, f, Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrUnresolvedReference)
	assert.Equal(t, 3, domainerrors.ExitCode(err))

	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	details, ok := domainErr.Details.(domainerrors.ReferenceDetails)
	require.True(t, ok)
	assert.Equal(t, "writer", details.Kind)
	assert.Equal(t, "Guru Nanak Dev Ji", details.Suggestion)

	// Nothing from the failed run is visible.
	lines, err := s.Lines(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestImport_SubsectionResolvesWithinSection(t *testing.T) {
	f := newFixture()
	f.pages[sggs]["2"][0].Section = "Sri Raag"

	s, _, err := runImport(t, f, Options{})
	require.NoError(t, err)

	shabads, err := s.Shabads(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, shabads[1].SubsectionID)
	assert.Equal(t, int64(2), *shabads[1].SubsectionID)
}

func TestImport_Duplicates(t *testing.T) {
	duplicated := func() *fixture {
		f := newFixture()
		f.pages[sggs]["3"] = []tree.Shabad{
			{ID: "DMP", Writer: "Guru Nanak Dev Ji", Section: "Jap", Lines: []tree.Line{line("L010", "sbdu ]")}},
			{ID: "DMR", Writer: "Guru Nanak Dev Ji", Section: "Jap", Lines: []tree.Line{
				line("L001", "sbdu ]"),
				line("L011", "sbdu ]"),
			}},
		}
		return f
	}

	t.Run("keep first", func(t *testing.T) {
		s, result, err := runImport(t, duplicated(), Options{DuplicatePolicy: config.DuplicateKeepFirst})
		require.NoError(t, err)

		assert.Equal(t, 1, result.Skipped["shabads"])
		assert.Equal(t, 2, result.Skipped["lines"])

		lines, err := s.Lines(context.Background(), 1)
		require.NoError(t, err)
		ids := make([]string, len(lines))
		for i, l := range lines {
			ids[i] = l.ID
			assert.Equal(t, int64(i+1), l.OrderID)
		}
		assert.Equal(t, []string{"L001", "L002", "L003", "L004", "L005", "L011"}, ids)
	})

	t.Run("fail", func(t *testing.T) {
		_, _, err := runImport(t, duplicated(), Options{DuplicatePolicy: config.DuplicateFail})
		require.Error(t, err)
		assert.ErrorIs(t, err, domainerrors.ErrDuplicateID)
		assert.Equal(t, 5, domainerrors.ExitCode(err))
	})
}

func TestImport_ValidationError(t *testing.T) {
	f := newFixture()
	f.pages[sggs]["1"][0].ID = "TOOLONG"

	_, _, err := runImport(t, f, Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
	assert.Equal(t, 2, domainerrors.ExitCode(err))
}

func TestImport_Translations(t *testing.T) {
	f := newFixture()
	first := &f.pages[sggs]["1"][0].Lines[0]
	first.Translations = map[string]map[string]tree.Translation{
		"English": {"Sant Singh Khalsa": {
			Translation:           "One Universal Creator God.",
			AdditionalInformation: map[string]any{"footnote": "Ik Onkar"},
		}},
	}
	second := &f.pages[sggs]["1"][0].Lines[1]
	second.Translations = map[string]map[string]tree.Translation{
		"English": {"Sant Singh Khalsa": {Translation: "By Guru's Grace"}},
	}

	s, _, err := runImport(t, f, Options{})
	require.NoError(t, err)

	rows, err := s.Translations(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.JSONEq(t, `{"footnote":"Ik Onkar"}`, string(rows[0].AdditionalInformation))
	assert.Nil(t, rows[1].AdditionalInformation)
	assert.Equal(t, int64(1), rows[1].TranslationSourceID)
}

func TestImport_UnknownTranslationSource(t *testing.T) {
	f := newFixture()
	f.pages[sggs]["1"][0].Lines[0].Translations = map[string]map[string]tree.Translation{
		"English": {"Sant Singh": {Translation: "x"}},
	}

	_, _, err := runImport(t, f, Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrUnresolvedReference)
}

func TestImport_Banis(t *testing.T) {
	f := newFixture()
	f.banis = []tree.Bani{{
		ID:     "JP",
		Named:  named("jpu jI swihb", "Japji Sahib"),
		Folder: ptr("Nitnem"),
		Lines: []domain.LineRange{
			{StartLine: "L001", EndLine: "L003"},
			{StartLine: "L005", EndLine: "L005"},
		},
		Bookmarks: []tree.Bookmark{{LineID: "L002", Named: named("pauVI 1", "Pauri 1")}},
	}, {
		ID:    "MM",
		Named: named("mUl mMqR", "Mool Mantar"),
		Lines: []domain.LineRange{{StartLine: "L001", EndLine: "L001"}},
	}}

	s, result, err := runImport(t, f, Options{})
	require.NoError(t, err)
	ctx := context.Background()

	assert.Equal(t, 2, result.Imported["banis"])
	assert.Equal(t, 5, result.Imported["bani_lines"])
	assert.Equal(t, 5, result.Imported["bani_bookmarks"])

	banis, err := s.Banis(ctx)
	require.NoError(t, err)
	require.Len(t, banis, 2)
	require.NotNil(t, banis[0].FolderID)
	assert.Equal(t, int64(1), *banis[0].FolderID)
	assert.Nil(t, banis[1].FolderID)

	members, err := s.BaniLines(ctx, "JP")
	require.NoError(t, err)
	assert.Equal(t, []domain.OrderedBaniLine{
		{LineID: "L001", LineGroup: 1, OrderID: 1, Visible: true},
		{LineID: "L002", LineGroup: 1, OrderID: 2, Visible: true},
		{LineID: "L003", LineGroup: 1, OrderID: 3, Visible: true},
		{LineID: "L005", LineGroup: 2, OrderID: 5, Visible: true},
	}, members)

	marks, err := s.BaniBookmarks(ctx, "JP")
	require.NoError(t, err)
	require.Len(t, marks, 3)
	assert.Equal(t, "Start", marks[0].NameEnglish)
	assert.Equal(t, "L001", marks[0].LineID)
	assert.Equal(t, "Pauri 1", marks[1].NameEnglish)
	assert.Equal(t, 2, marks[1].OrderID)
	assert.Equal(t, "End", marks[2].NameEnglish)
	assert.Equal(t, "L005", marks[2].LineID)
	assert.Equal(t, 3, marks[2].OrderID)
}

func TestImport_BaniErrors(t *testing.T) {
	tests := []struct {
		name string
		bani tree.Bani
		want error
		code int
	}{
		{
			name: "unknown range line",
			bani: tree.Bani{ID: "XX", Named: named("x", "X"), Lines: []domain.LineRange{{StartLine: "L001", EndLine: "ZZZZ"}}},
			want: domainerrors.ErrMalformedRange,
			code: 6,
		},
		{
			name: "unknown bookmark line",
			bani: tree.Bani{
				ID: "XX", Named: named("x", "X"),
				Lines:     []domain.LineRange{{StartLine: "L001", EndLine: "L002"}},
				Bookmarks: []tree.Bookmark{{LineID: "ZZZZ", Named: named("y", "Y")}},
			},
			want: domainerrors.ErrUnresolvedReference,
			code: 3,
		},
		{
			name: "unknown folder",
			bani: tree.Bani{ID: "XX", Named: named("x", "X"), Folder: ptr("Nitnm"),
				Lines: []domain.LineRange{{StartLine: "L001", EndLine: "L002"}}},
			want: domainerrors.ErrUnresolvedReference,
			code: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.banis = []tree.Bani{tt.bani}

			_, _, err := runImport(t, f, Options{})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.code, domainerrors.ExitCode(err))
		})
	}
}

func TestImport_YAMLTree(t *testing.T) {
	s := openStore(t)
	dir := newFixture().write(t, tree.YAMLCodec{})

	result, err := New(s, dir, nil, nil, Options{}).Import(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, result.Imported["lines"])
	assert.Empty(t, result.Revision)
}

func TestImport_SchemaAlreadyExists(t *testing.T) {
	s := openStore(t)
	dir := newFixture().write(t, tree.JSONCodec{})

	_, err := New(s, dir, nil, nil, Options{}).Import(context.Background())
	require.NoError(t, err)

	_, err = New(s, dir, nil, nil, Options{}).Import(context.Background())
	assert.Error(t, err)
}

func TestImport_Cancelled(t *testing.T) {
	s := openStore(t)
	dir := newFixture().write(t, tree.JSONCodec{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(s, dir, nil, nil, Options{}).Import(ctx)
	assert.Error(t, err)
}

func TestImport_RevisionError(t *testing.T) {
	s := openStore(t)
	dir := newFixture().write(t, tree.JSONCodec{})
	revision := RevisionFunc(func(context.Context) (string, error) { return "", fmt.Errorf("not a repository") })

	_, err := New(s, dir, revision, nil, Options{}).Import(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a repository")
}

func TestFlattenTranslations_Sorted(t *testing.T) {
	compositions := resolver.New("composition", []string{sggs})
	languages := resolver.New("language", []string{"English", "Punjabi"})
	r := &run{
		translationSources: resolver.NewTuple("translation source",
			[]*resolver.Index{compositions, languages,
				resolver.New("translation source", []string{"Sahib Singh", "Sant Singh Khalsa", "Manmohan Singh"})},
			[][]string{
				{sggs, "Punjabi", "Sahib Singh"},
				{sggs, "English", "Sant Singh Khalsa"},
				{sggs, "English", "Manmohan Singh"},
			}),
	}

	rows, err := flattenTranslations(r, sggs, tree.Line{
		ID: "L001",
		Translations: map[string]map[string]tree.Translation{
			"Punjabi": {"Sahib Singh": {Translation: "p"}},
			"English": {
				"Sant Singh Khalsa": {Translation: "s"},
				"Manmohan Singh":    {Translation: "m", AdditionalInformation: []any{1, 2}},
			},
		},
	})
	require.NoError(t, err)

	got := make([]string, len(rows))
	for i, row := range rows {
		got[i] = row.Translation
	}
	assert.Equal(t, []string{"m", "s", "p"}, got)
	assert.Equal(t, json.RawMessage(`[1,2]`), rows[0].AdditionalInformation)
}
