// Package resolver maps human-readable names to the positional ids used by
// the relational store. An ordered name list defines the ids: the name at
// position i has id i+1.
package resolver

import (
	"strings"
	"sync"

	"github.com/gurbaninow/database/internal/errors"
)

// FindIndex returns the zero-based position of name in names.
// A miss fails with an UnresolvedReference error carrying the closest match.
func FindIndex(name string, names []string) (int, error) {
	for i, candidate := range names {
		if candidate == name {
			return i, nil
		}
	}
	return -1, errors.UnresolvedReference("value", name, BestMatch(name, names))
}

// Index is a name to position map built once from an authoritative list.
// It is safe for concurrent use.
type Index struct {
	kind      string
	names     []string
	positions map[string]int

	mu     sync.RWMutex
	misses map[string]error
}

// New builds an index for the given kind of entity. When a name appears more
// than once the first position wins.
func New(kind string, names []string) *Index {
	positions := make(map[string]int, len(names))
	for i, name := range names {
		if _, exists := positions[name]; !exists {
			positions[name] = i
		}
	}
	return &Index{
		kind:      kind,
		names:     append([]string(nil), names...),
		positions: positions,
		misses:    make(map[string]error),
	}
}

// Kind returns the entity kind used in error messages.
func (x *Index) Kind() string { return x.kind }

// Len returns the number of names in the index.
func (x *Index) Len() int { return len(x.names) }

// Names returns a copy of the ordered name list.
func (x *Index) Names() []string { return append([]string(nil), x.names...) }

// Resolve returns the zero-based position of name.
// Misses are memoized so the suggestion is computed once per name.
func (x *Index) Resolve(name string) (int, error) {
	if pos, ok := x.positions[name]; ok {
		return pos, nil
	}

	x.mu.RLock()
	err, ok := x.misses[name]
	x.mu.RUnlock()
	if ok {
		return -1, err
	}

	err = errors.UnresolvedReference(x.kind, name, BestMatch(name, x.names))

	x.mu.Lock()
	x.misses[name] = err
	x.mu.Unlock()

	return -1, err
}

// ID returns the 1-based id of name.
func (x *Index) ID(name string) (int64, error) {
	pos, err := x.Resolve(name)
	if err != nil {
		return 0, err
	}
	return int64(pos) + 1, nil
}

// OptionalID resolves a nullable reference. A nil or empty name yields nil.
func (x *Index) OptionalID(name *string) (*int64, error) {
	if name == nil || *name == "" {
		return nil, nil
	}
	id, err := x.ID(*name)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// Name returns the name with the given 1-based id.
func (x *Index) Name(id int64) (string, bool) {
	if id < 1 || id > int64(len(x.names)) {
		return "", false
	}
	return x.names[id-1], true
}

// Tuple resolves multi-part keys such as (composition, language, translation source).
// Each part is also checked against its own index so a miss names the part at fault.
type Tuple struct {
	kind  string
	parts []*Index
	ids   map[string]int64
	keys  []string
}

// NewTuple builds a tuple index. rows[i] holds the part values of the entry with id i+1.
func NewTuple(kind string, parts []*Index, rows [][]string) *Tuple {
	t := &Tuple{
		kind:  kind,
		parts: parts,
		ids:   make(map[string]int64, len(rows)),
		keys:  make([]string, 0, len(rows)),
	}
	for i, row := range rows {
		key := tupleKey(row)
		if _, exists := t.ids[key]; !exists {
			t.ids[key] = int64(i) + 1
		}
		t.keys = append(t.keys, key)
	}
	return t
}

// ID returns the 1-based id of the row matching values.
func (t *Tuple) ID(values ...string) (int64, error) {
	if id, ok := t.ids[tupleKey(values)]; ok {
		return id, nil
	}

	for i, part := range t.parts {
		if i >= len(values) {
			break
		}
		if _, err := part.Resolve(values[i]); err != nil {
			return 0, err
		}
	}

	key := tupleKey(values)
	suggestion := strings.ReplaceAll(BestMatch(key, t.keys), tupleSep, " / ")
	return 0, errors.UnresolvedReference(t.kind, strings.ReplaceAll(key, tupleSep, " / "), suggestion)
}

const tupleSep = "\x1f"

func tupleKey(values []string) string {
	return strings.Join(values, tupleSep)
}
