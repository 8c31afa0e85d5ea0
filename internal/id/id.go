// Package id generates free human-assigned ids for banis, shabads and lines.
package id

import (
	"context"
	"fmt"
	"math"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/gurbaninow/database/internal/errors"
	"github.com/gurbaninow/database/internal/store"
)

// Alphabet is the set of characters ids are drawn from. I and O are left out
// since they read like 1 and 0.
const Alphabet = "0123456789ABCDEFGHJKLMNPQRSTUVWXYZ"

// Lengths maps each id kind to its fixed length.
var Lengths = map[store.IDKind]int{
	store.IDKindBani:   2,
	store.IDKindShabad: 3,
	store.IDKindLine:   4,
}

// maxAttempts bounds the random search for one free id.
const maxAttempts = 10_000

// Generate creates a random id of the given length from Alphabet.
//
// Returns an error if the system has insufficient entropy for secure random generation.
func Generate(length int) (string, error) {
	id, err := gonanoid.Generate(Alphabet, length)
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return id, nil
}

// Generator hands out ids not yet used in a store.
type Generator struct {
	ids store.IDLister
}

// NewGenerator creates a Generator checking ids against lister.
func NewGenerator(lister store.IDLister) *Generator {
	return &Generator{ids: lister}
}

// Free returns count distinct ids of kind that are neither in the store nor
// each other.
func (g *Generator) Free(ctx context.Context, kind store.IDKind, count int) ([]string, error) {
	length, ok := Lengths[kind]
	if !ok {
		return nil, errors.Validationf("unknown id type %q (must be bani, shabad or line)", kind)
	}
	if count < 1 {
		return nil, errors.Validationf("count must be positive, got %d", count)
	}

	existing, err := g.ids.IDs(ctx, kind)
	if err != nil {
		return nil, err
	}
	taken := make(map[string]struct{}, len(existing)+count)
	for _, id := range existing {
		taken[id] = struct{}{}
	}

	space := math.Pow(float64(len(Alphabet)), float64(length))
	if float64(len(taken)+count) > space {
		return nil, errors.Validationf("only %d free %s ids remain, %d requested",
			int(space)-len(taken), kind, count)
	}

	ids := make([]string, 0, count)
	for range count {
		id, err := findFree(taken, length)
		if err != nil {
			return nil, fmt.Errorf("%s id: %w", kind, err)
		}
		taken[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

// findFree draws random ids until one is not taken. A nearly full id space
// falls back to a sequential scan.
func findFree(taken map[string]struct{}, length int) (string, error) {
	for range maxAttempts {
		id, err := Generate(length)
		if err != nil {
			return "", err
		}
		if _, exists := taken[id]; !exists {
			return id, nil
		}
	}
	return firstFree(taken, length)
}

// firstFree returns the lowest free id in alphabet order.
func firstFree(taken map[string]struct{}, length int) (string, error) {
	digits := make([]int, length)
	buf := make([]byte, length)
	for {
		for i, d := range digits {
			buf[i] = Alphabet[d]
		}
		if _, exists := taken[string(buf)]; !exists {
			return string(buf), nil
		}

		// Increment like an odometer, last position first.
		i := length - 1
		for i >= 0 {
			digits[i]++
			if digits[i] < len(Alphabet) {
				break
			}
			digits[i] = 0
			i--
		}
		if i < 0 {
			return "", errors.Internalf("no free id of length %d", length)
		}
	}
}
