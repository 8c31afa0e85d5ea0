package tree

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Codec encodes and decodes tree files of one format.
type Codec interface {
	Format() string
	Ext() string
	Decode(r io.Reader, v any) error
	Encode(w io.Writer, v any) error
}

// JSONCodec reads and writes tree files as JSON indented by two spaces with a
// trailing newline.
type JSONCodec struct{}

// Format returns the codec format identifier.
func (JSONCodec) Format() string { return "json" }

// Ext returns the file extension written by the codec.
func (JSONCodec) Ext() string { return ".json" }

// Decode parses JSON into v.
func (JSONCodec) Decode(r io.Reader, v any) error {
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}
	return nil
}

// Encode writes v as JSON. HTML characters are not escaped since GurbaniAkhar
// text uses '<', '>' and '&' as letters.
func (JSONCodec) Encode(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// YAMLCodec reads and writes tree files as YAML.
type YAMLCodec struct{}

// Format returns the codec format identifier.
func (YAMLCodec) Format() string { return "yaml" }

// Ext returns the file extension written by the codec.
func (YAMLCodec) Ext() string { return ".yaml" }

// Decode parses YAML into v.
func (YAMLCodec) Decode(r io.Reader, v any) error {
	if err := yaml.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return nil
}

// Encode writes v as YAML indented by two spaces.
func (YAMLCodec) Encode(w io.Writer, v any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return nil
}

// CodecFor returns the codec for a format name.
func CodecFor(format string) (Codec, error) {
	switch strings.ToLower(format) {
	case "", "json":
		return JSONCodec{}, nil
	case "yaml", "yml":
		return YAMLCodec{}, nil
	default:
		return nil, fmt.Errorf("unknown tree format: %s", format)
	}
}

// codecForPath picks a codec from a file extension.
func codecForPath(path string) (Codec, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSONCodec{}, true
	case ".yaml", ".yml":
		return YAMLCodec{}, true
	default:
		return nil, false
	}
}
