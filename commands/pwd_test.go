package commands

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPwd(t *testing.T) {
	keepWd(t)
	dir := realTempDir(t)
	require.NoError(t, os.Chdir(dir))

	link := filepath.Join(realTempDir(t), "link")
	require.NoError(t, os.Symlink(dir, link))

	cases := map[string]struct {
		args     []string
		env      []string
		expected string
	}{
		"default-uses-pwd": {[]string{"pwd"}, []string{"PWD=" + link}, link + "\n"},
		"logical":          {[]string{"pwd", "-L"}, []string{"PWD=" + link}, link + "\n"},
		"physical":         {[]string{"pwd", "-P"}, []string{"PWD=" + link}, dir + "\n"},
		"last-wins-p":      {[]string{"pwd", "-L", "-P"}, []string{"PWD=" + link}, dir + "\n"},
		"last-wins-l":      {[]string{"pwd", "-P", "-L"}, []string{"PWD=" + link}, link + "\n"},
		"combined":         {[]string{"pwd", "-LP"}, []string{"PWD=" + link}, dir + "\n"},
		"unset-pwd":        {[]string{"pwd"}, nil, dir + "\n"},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			sh := newTestShell(io.Discard, io.Discard, tc.env...)

			status, stdout, stderr := runBuiltin(sh, Pwd, tc.args...)

			assert.Equal(t, 0, status)
			assert.Empty(t, stderr)
			assert.Equal(t, tc.expected, stdout)
		})
	}
}

func TestPwd_golden(t *testing.T) {
	cases := goldenTestSuite{
		"invalid-option": {Args: []string{"pwd", "-x"}, Status: 1},
		"operand":        {Args: []string{"pwd", "extra"}, Status: 1},
	}

	cases.Run(t, Pwd)
}
