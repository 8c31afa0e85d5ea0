package tree

import (
	"cmp"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/gurbaninow/database/internal/errors"
)

// Top-level files of a data directory, without extension.
const (
	FileWriters            = "writers"
	FileLineTypes          = "line_types"
	FileLanguages          = "languages"
	FileSources            = "sources"
	FileBaniFolders        = "bani_folders"
	FileCompositions       = "compositions"
	FileTranslationSources = "translation_sources"
	FileBanis              = "banis"
)

// readExts lists the extensions tried when reading a file, in order.
var readExts = []string{".json", ".yaml", ".yml"}

// Dir is a data directory holding a tree. Files are read in any supported
// format and written with the directory's codec.
type Dir struct {
	root  string
	codec Codec
}

// NewDir opens the data directory at root, writing files with codec.
func NewDir(root string, codec Codec) *Dir {
	if codec == nil {
		codec = JSONCodec{}
	}
	return &Dir{root: root, codec: codec}
}

// Root returns the directory path.
func (d *Dir) Root() string { return d.root }

// Codec returns the codec used for writing.
func (d *Dir) Codec() Codec { return d.codec }

// ReadList decodes the top-level file name (without extension) into a list of T.
func ReadList[T any](d *Dir, name string) ([]T, error) {
	path, err := d.find(name)
	if err != nil {
		return nil, err
	}
	var out []T
	if err := DecodeFile(path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// find resolves a top-level file name to the first existing path.
func (d *Dir) find(name string) (string, error) {
	for _, ext := range readExts {
		path := filepath.Join(d.root, name+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", errors.NotFoundf("%s not found in %s", name, d.root)
}

// DecodeFile decodes a single tree file, choosing the codec by extension.
func DecodeFile(path string, v any) error {
	codec, ok := codecForPath(path)
	if !ok {
		return fmt.Errorf("unsupported tree file: %s", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if err := codec.Decode(f, v); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// CompositionFiles lists the shabad files of a composition in page order.
// Numeric page names sort by value ahead of any other name, which sort as
// strings. A composition without a directory has no files.
func (d *Dir) CompositionFiles(composition string) ([]string, error) {
	dir := filepath.Join(d.root, composition)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read composition directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := codecForPath(entry.Name()); ok {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	slices.SortFunc(paths, comparePages)
	return paths, nil
}

func comparePages(a, b string) int {
	ka, kb := pageKey(a), pageKey(b)
	na, errA := strconv.Atoi(ka)
	nb, errB := strconv.Atoi(kb)
	switch {
	case errA == nil && errB == nil:
		if c := cmp.Compare(na, nb); c != 0 {
			return c
		}
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	}
	return strings.Compare(a, b)
}

func pageKey(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// ReadShabads decodes one composition page file.
func ReadShabads(path string) ([]Shabad, error) {
	var shabads []Shabad
	if err := DecodeFile(path, &shabads); err != nil {
		return nil, err
	}
	return shabads, nil
}

// ReadSourcesFallback decodes a preferred-source policy file mapping composition
// names to ordered source names.
func ReadSourcesFallback(path string) (map[string][]string, error) {
	policy := make(map[string][]string)
	if err := DecodeFile(path, &policy); err != nil {
		return nil, err
	}
	return policy, nil
}

// Write encodes v to the top-level file name.
func (d *Dir) Write(name string, v any) error {
	return d.writeFile(filepath.Join(d.root, name+d.codec.Ext()), v)
}

// WritePage encodes the shabads of one composition page.
func (d *Dir) WritePage(composition, page string, shabads []Shabad) error {
	dir := filepath.Join(d.root, composition)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create composition directory: %w", err)
	}
	return d.writeFile(filepath.Join(dir, page+d.codec.Ext()), shabads)
}

func (d *Dir) writeFile(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := d.codec.Encode(f, v); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}

// PadPage left-pads a page key with zeros to width.
func PadPage(page string, width int) string {
	if len(page) >= width {
		return page
	}
	return strings.Repeat("0", width-len(page)) + page
}
