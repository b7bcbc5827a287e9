package config

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

func TestParseDocument(t *testing.T) {
	cases := map[string]struct {
		input    string
		expected yaml.MapSlice
	}{
		"empty":    {"", yaml.MapSlice{}},
		"comments": {"# only\n\n   # indented\n", yaml.MapSlice{}},
		"pairs": {
			"first: alpha\n# comment\nsecond: beta\n",
			yaml.MapSlice{{Key: "first", Value: "alpha"}, {Key: "second", Value: "beta"}},
		},
		"quoted": {
			"quoted: \"value space\"\nalt: '42'\n",
			yaml.MapSlice{{Key: "quoted", Value: "value space"}, {Key: "alt", Value: "42"}},
		},
		"mismatched-quotes": {
			`odd: "x'`,
			yaml.MapSlice{{Key: "odd", Value: `"x'`}},
		},
		"single-quote-char": {
			`q: "`,
			yaml.MapSlice{{Key: "q", Value: `"`}},
		},
		"inner-quotes-kept": {
			`q: '"a"'`,
			yaml.MapSlice{{Key: "q", Value: `"a"`}},
		},
		"empty-value": {
			"empty:\nspaced:   \n",
			yaml.MapSlice{{Key: "empty", Value: ""}, {Key: "spaced", Value: ""}},
		},
		"first-colon-splits": {
			"url: http://example.com:80\n",
			yaml.MapSlice{{Key: "url", Value: "http://example.com:80"}},
		},
		"whitespace-trimmed": {
			"  key  :   value  \t\n",
			yaml.MapSlice{{Key: "key", Value: "value"}},
		},
		"crlf": {
			"a: 1\r\nb: 2\rc: 3",
			yaml.MapSlice{{Key: "a", Value: "1"}, {Key: "b", Value: "2"}, {Key: "c", Value: "3"}},
		},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			doc, err := ParseDocument([]byte(tc.input))
			require.NoError(t, err)
			assert.Equal(t, tc.expected, doc.MapSlice())
			assert.Equal(t, len(tc.expected), doc.Len())
		})
	}
}

func TestParseDocument_errors(t *testing.T) {
	cases := map[string]struct {
		input    string
		expected error
		message  string
	}{
		"missing-delimiter": {"ok: 1\nnot a pair\n", ErrMissingDelimiter, "line 2: missing ':' delimiter"},
		"empty-key":         {": value\n", ErrEmptyKey, "line 1: empty key"},
		"duplicate":         {"dup: first\ndup: second\n", ErrDuplicateKey, "line 2: duplicate key"},
		"line-counts-blank": {"\n\n# c\nbad\n", ErrMissingDelimiter, "line 4: missing ':' delimiter"},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			doc, err := ParseDocument([]byte(tc.input))
			assert.Nil(t, doc)
			assert.ErrorIs(t, err, tc.expected)
			assert.EqualError(t, err, tc.message)
		})
	}
}

func TestDocument_Get(t *testing.T) {
	doc, err := ParseDocument([]byte("first: alpha\nblank: ''\n"))
	require.NoError(t, err)

	value, ok := doc.Get("first")
	assert.True(t, ok)
	assert.Equal(t, "alpha", value)

	value, ok = doc.Get("blank")
	assert.True(t, ok)
	assert.Equal(t, "", value)

	_, ok = doc.Get("missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"first", "blank"}, doc.Keys())
}

func TestDocument_MarshalYAML(t *testing.T) {
	doc, err := ParseDocument([]byte("zeta: last\nalpha: 'first value'\n"))
	require.NoError(t, err)

	out, err := yaml.Marshal(doc)
	require.NoError(t, err)
	assert.Equal(t, "zeta: last\nalpha: first value\n", string(out))
}

func TestLoadDocument(t *testing.T) {
	memFs := afero.NewMemMapFs()
	path := filepath.Join("conf", "settings.yaml")
	require.NoError(t, afero.WriteFile(memFs, path, []byte("name: genshell\n"), 0600))

	doc, err := LoadDocument(memFs, path)
	require.NoError(t, err)
	value, _ := doc.Get("name")
	assert.Equal(t, "genshell", value)

	_, err = LoadDocument(memFs, "missing.yaml")
	assert.Error(t, err)
}
