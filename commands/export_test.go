package commands

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExport(t *testing.T) {
	t.Run("assign", func(t *testing.T) {
		sh := newTestShell(io.Discard, io.Discard)

		status, _, stderr := runBuiltin(sh, Export, "export", "FOO=bar", "EQ=a=b", "EMPTY=")

		assert.Equal(t, 0, status)
		assert.Empty(t, stderr)
		assert.Equal(t, "bar", sh.env.Getenv("FOO"))
		assert.Equal(t, "a=b", sh.env.Getenv("EQ"))
		val, ok := sh.env.LookupEnv("EMPTY")
		assert.True(t, ok)
		assert.Empty(t, val)
	})

	t.Run("bare-name-keeps-value", func(t *testing.T) {
		sh := newTestShell(io.Discard, io.Discard, "KEEP=me")

		status, _, _ := runBuiltin(sh, Export, "export", "KEEP", "NEW")

		assert.Equal(t, 0, status)
		assert.Equal(t, "me", sh.env.Getenv("KEEP"))
		_, ok := sh.env.LookupEnv("NEW")
		assert.True(t, ok)
	})

	t.Run("invalid-continues", func(t *testing.T) {
		sh := newTestShell(io.Discard, io.Discard)

		status, _, stderr := runBuiltin(sh, Export, "export", "1A=b", "OK=1", "=x")

		assert.Equal(t, 1, status)
		assert.Equal(t, "1", sh.env.Getenv("OK"))
		assert.Contains(t, stderr, "`1A=b': invalid identifier")
		assert.Contains(t, stderr, "`=x': invalid identifier")
	})
}

func TestExport_golden(t *testing.T) {
	cases := goldenTestSuite{
		"list": {
			Args: []string{"export"},
			Env:  []string{"B=two words", "A=1", "EMPTY="},
		},
		"invalid": {
			Args:   []string{"export", "1A=b", "OK=1"},
			Status: 1,
		},
	}

	cases.Run(t, Export)
}
