package id

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/gurbaninow/database/internal/errors"
	"github.com/gurbaninow/database/internal/store"
)

// fakeLister returns fixed ids per kind.
type fakeLister map[store.IDKind][]string

func (f fakeLister) IDs(_ context.Context, kind store.IDKind) ([]string, error) {
	return f[kind], nil
}

func TestGenerate_Format(t *testing.T) {
	for _, length := range []int{2, 3, 4} {
		id, err := Generate(length)
		require.NoError(t, err)
		assert.Len(t, id, length)

		for _, char := range id {
			assert.True(t, strings.ContainsRune(Alphabet, char), "Character %c should be in the alphabet", char)
		}
	}
}

func TestAlphabet_ExcludesAmbiguousLetters(t *testing.T) {
	assert.NotContains(t, Alphabet, "I")
	assert.NotContains(t, Alphabet, "O")
	assert.Len(t, Alphabet, 34)
}

func TestGenerator_Free(t *testing.T) {
	tests := []struct {
		kind   store.IDKind
		length int
	}{
		{store.IDKindBani, 2},
		{store.IDKindShabad, 3},
		{store.IDKindLine, 4},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			ids, err := NewGenerator(fakeLister{}).Free(context.Background(), tt.kind, 50)
			require.NoError(t, err)
			require.Len(t, ids, 50)

			seen := make(map[string]bool)
			for _, id := range ids {
				assert.Len(t, id, tt.length)
				assert.False(t, seen[id], "ID should be unique: %s", id)
				seen[id] = true
			}
		})
	}
}

func TestGenerator_Free_ExcludesExisting(t *testing.T) {
	// Every bani id but one is taken, so the only free one must come back.
	var taken []string
	for _, a := range Alphabet {
		for _, b := range Alphabet {
			if id := string(a) + string(b); id != "ZZ" {
				taken = append(taken, id)
			}
		}
	}

	ids, err := NewGenerator(fakeLister{store.IDKindBani: taken}).Free(context.Background(), store.IDKindBani, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"ZZ"}, ids)
}

func TestGenerator_Free_Exhausted(t *testing.T) {
	var taken []string
	for _, a := range Alphabet {
		for _, b := range Alphabet {
			taken = append(taken, string(a)+string(b))
		}
	}

	_, err := NewGenerator(fakeLister{store.IDKindBani: taken}).Free(context.Background(), store.IDKindBani, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestGenerator_Free_InvalidArguments(t *testing.T) {
	g := NewGenerator(fakeLister{})

	_, err := g.Free(context.Background(), store.IDKind("verse"), 1)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = g.Free(context.Background(), store.IDKindLine, 0)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestFirstFree(t *testing.T) {
	taken := map[string]struct{}{"00": {}, "01": {}}
	id, err := firstFree(taken, 2)
	require.NoError(t, err)
	assert.Equal(t, "02", id)
}
