package commands

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExit(t *testing.T) {
	cases := map[string]struct {
		args       []string
		lastStatus int
		status     int
		exits      bool
	}{
		"no-args":        {[]string{"exit"}, 0, 0, true},
		"last-status":    {[]string{"exit"}, 3, 3, true},
		"explicit":       {[]string{"exit", "7"}, 0, 7, true},
		"truncated":      {[]string{"exit", "257"}, 0, 1, true},
		"negative":       {[]string{"exit", "-1"}, 0, 255, true},
		"leading-blanks": {[]string{"exit", "  4"}, 0, 4, true},
		"plus-sign":      {[]string{"exit", "+5"}, 0, 5, true},
		"non-numeric":    {[]string{"exit", "abc"}, 0, 2, true},
		"trailing-junk":  {[]string{"exit", "1x"}, 0, 2, true},
		"empty":          {[]string{"exit", ""}, 3, 0, true},
		"blank":          {[]string{"exit", "  "}, 3, 0, true},
		"sign-only":      {[]string{"exit", "-"}, 0, 2, true},
		"too-many":       {[]string{"exit", "1", "2"}, 0, 1, false},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			sh := newTestShell(io.Discard, io.Discard)
			sh.lastStatus = tc.lastStatus

			status, _, _ := runBuiltin(sh, Exit, tc.args...)

			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.exits, sh.exitRequested)
			if tc.exits {
				assert.Equal(t, tc.status, sh.exitStatus)
			}
		})
	}
}

func TestExit_golden(t *testing.T) {
	cases := goldenTestSuite{
		"non-numeric": {Args: []string{"exit", "abc"}, Status: 2},
		"too-many":    {Args: []string{"exit", "1", "2"}, Status: 1},
	}

	cases.Run(t, Exit)
}
