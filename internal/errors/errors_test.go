package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnresolvedReference(t *testing.T) {
	err := UnresolvedReference("language", "Panjabi", "Punjabi")

	assert.Equal(t, `could not find language "Panjabi", did you mean "Punjabi"?`, err.Error())
	assert.True(t, Is(err, ErrUnresolvedReference))
	assert.False(t, Is(err, ErrMalformedRange))

	details, ok := err.Details.(ReferenceDetails)
	require.True(t, ok)
	assert.Equal(t, "Panjabi", details.Name)
	assert.Equal(t, "Punjabi", details.Suggestion)
}

func TestUnresolvedReference_NoSuggestion(t *testing.T) {
	err := UnresolvedReference("writer", "Nobody", "")
	assert.Equal(t, `could not find writer "Nobody"`, err.Error())
}

func TestMissingFallbackSource(t *testing.T) {
	assert.Equal(t, "no preferred source found for Sri Guru Granth Sahib Ji",
		MissingFallbackSource("Sri Guru Granth Sahib Ji", "").Error())
	assert.Equal(t, "no preferred source found for line ABCD in composition Bhai Gurdas Vaaran",
		MissingFallbackSource("Bhai Gurdas Vaaran", "ABCD").Error())
}

func TestWrappedErrorsMatchByCode(t *testing.T) {
	base := DuplicateID("shabad", "XYZ")
	wrapped := fmt.Errorf("import lines: %w", base)

	assert.True(t, Is(wrapped, ErrDuplicateID))

	var domainErr *Error
	require.True(t, As(wrapped, &domainErr))
	assert.Equal(t, CodeDuplicateID, domainErr.Code)
}

func TestWithCause(t *testing.T) {
	cause := New("disk full")
	err := Wrap(cause, CodeInternal, "write batch")

	assert.Equal(t, "write batch: disk full", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err.WithDetails("lines"), cause)
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"plain", New("boom"), 1},
		{"validation", Validation("bad"), 2},
		{"unresolved", UnresolvedReference("writer", "x", ""), 3},
		{"fallback", MissingFallbackSource("c", ""), 4},
		{"duplicate", DuplicateID("line", "ABCD"), 5},
		{"range", fmt.Errorf("bani: %w", MalformedRange("AA", "A", "B")), 6},
		{"mismatch", ErrMismatch, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}
