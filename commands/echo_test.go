package commands

import (
	"testing"
)

func TestEcho(t *testing.T) {
	cases := goldenTestSuite{
		"no-args":     {Args: []string{"echo"}},
		"words":       {Args: []string{"echo", "hello", "world"}},
		"no-newline":  {Args: []string{"echo", "-n", "hi", "there"}},
		"no-escapes":  {Args: []string{"echo", `a\nb`}},
		"late-dash-n": {Args: []string{"echo", "a", "-n"}},
		"empty-arg":   {Args: []string{"echo", "", "x"}},
		"only-dash-n": {Args: []string{"echo", "-n"}},
	}

	cases.Run(t, Echo)
}
