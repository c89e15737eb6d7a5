package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format names a document encoding.
type Format string

// Supported formats.
const (
	YAML Format = "yaml"
	JSON Format = "json"
)

var (
	// ErrEmpty is returned for documents with no content, including ones
	// holding only whitespace, comments or null.
	ErrEmpty = errors.New("empty document")

	// ErrNotMapping is returned when the top level of a document is not a
	// mapping with string keys.
	ErrNotMapping = errors.New("top level is not a mapping")
)

// FormatOf picks the format for path from its extension: .yaml, .yml or .json.
func FormatOf(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return YAML, nil
	case ".json":
		return JSON, nil
	default:
		return "", fmt.Errorf("unsupported extension %q (want .yaml, .yml or .json)", ext)
	}
}

// FromFile loads the document at path. Errors name the file.
func FromFile(path string) (Config, error) {
	format, err := FormatOf(path)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()

	cfg, err := Read(f, format)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Read decodes one document from r, for sources that are not files such as
// embedded manifests.
func Read(r io.Reader, format Format) (Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Config{}, fmt.Errorf("read: %w", err)
	}
	switch format {
	case YAML:
		return FromYAML(data)
	case JSON:
		return FromJSON(data)
	default:
		return Config{}, fmt.Errorf("unsupported format %q", format)
	}
}

// FromYAML parses a YAML document.
func FromYAML(data []byte) (Config, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return Config{}, fmt.Errorf("parse yaml: %w", err)
	}
	return fromDocument(v)
}

// FromJSON parses a JSON document.
func FromJSON(data []byte) (Config, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Config{}, ErrEmpty
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return Config{}, fmt.Errorf("parse json: %w", err)
	}
	return fromDocument(v)
}

func fromDocument(v any) (Config, error) {
	switch doc := v.(type) {
	case nil:
		return Config{}, ErrEmpty
	case map[string]any:
		return New(doc), nil
	default:
		return Config{}, fmt.Errorf("%w: got %T", ErrNotMapping, v)
	}
}
