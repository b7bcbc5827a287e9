package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v2"
)

var (
	ErrMissingDelimiter = errors.New("missing ':' delimiter")
	ErrEmptyKey         = errors.New("empty key")
	ErrDuplicateKey     = errors.New("duplicate key")
)

// Document is a flat YAML mapping of scalar keys to scalar values.
//
// Only a subset of YAML is understood: blank lines and lines starting with
// '#' are skipped, every other line is `key: value` split on the first
// colon, and one pair of matching single or double quotes around the value
// is removed. Keys keep the order they were read in.
type Document struct {
	keys   []string
	values []string
}

// ParseDocument parses a flat YAML mapping. Errors name the 1-based line
// they were found on.
func ParseDocument(data []byte) (*Document, error) {
	doc := &Document{}

	lineNumber := 0
	for rest := string(data); rest != ""; {
		var line string
		line, rest = nextLine(rest)
		lineNumber++

		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		key, value, found := strings.Cut(trimmed, ":")
		if !found {
			return nil, fmt.Errorf("line %d: %w", lineNumber, ErrMissingDelimiter)
		}

		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("line %d: %w", lineNumber, ErrEmptyKey)
		}
		if _, ok := doc.Get(key); ok {
			return nil, fmt.Errorf("line %d: %w", lineNumber, ErrDuplicateKey)
		}

		doc.keys = append(doc.keys, key)
		doc.values = append(doc.values, unquote(strings.TrimSpace(value)))
	}

	return doc, nil
}

// LoadDocument reads and parses the document at path.
func LoadDocument(fs afero.Fs, path string) (*Document, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}
	return ParseDocument(data)
}

// nextLine splits off the first line, accepting "\n", "\r\n" and "\r" endings.
func nextLine(s string) (line, rest string) {
	idx := strings.IndexAny(s, "\r\n")
	if idx < 0 {
		return s, ""
	}
	line, rest = s[:idx], s[idx+1:]
	if s[idx] == '\r' && strings.HasPrefix(rest, "\n") {
		rest = rest[1:]
	}
	return line, rest
}

func unquote(value string) string {
	if len(value) < 2 {
		return value
	}
	first, last := value[0], value[len(value)-1]
	if (first == '"' || first == '\'') && first == last {
		return value[1 : len(value)-1]
	}
	return value
}

// Get looks up the value for key.
func (d *Document) Get(key string) (string, bool) {
	for i, k := range d.keys {
		if k == key {
			return d.values[i], true
		}
	}
	return "", false
}

// Keys returns the keys in document order.
func (d *Document) Keys() []string {
	return append([]string(nil), d.keys...)
}

// Len is the number of entries.
func (d *Document) Len() int {
	return len(d.keys)
}

// MapSlice converts the document to an ordered YAML mapping.
func (d *Document) MapSlice() yaml.MapSlice {
	out := make(yaml.MapSlice, 0, len(d.keys))
	for i, k := range d.keys {
		out = append(out, yaml.MapItem{Key: k, Value: d.values[i]})
	}
	return out
}

// MarshalYAML implements yaml.Marshaler, keeping the document order.
func (d *Document) MarshalYAML() (interface{}, error) {
	return d.MapSlice(), nil
}
