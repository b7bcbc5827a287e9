package vos

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ExampleCopyEnv() {
	env := NewMapEnv()
	CopyEnv(env, EnvList{"A=B", "C=D", "E", "F=G=H"})

	fmt.Printf("Environ(): %q\n", env.Environ())
	fmt.Printf("Getenv(\"F\"): %q\n", env.Getenv("F"))

	// Output: Environ(): ["A=B" "C=D" "E=" "F=G=H"]
	// Getenv("F"): "G=H"
}

func ExampleNewMapEnvFrom() {
	env := NewMapEnvFrom(EnvList{"F=G=H", "A=B"})

	fmt.Printf("Environ(): %q\n", env.Environ())

	// Output: Environ(): ["A=B" "F=G=H"]
}

func ExampleMapEnv_Unsetenv() {
	env := NewMapEnv()
	env.Setenv("A", "B")
	env.Setenv("C", "D")

	fmt.Println("Before:", env.Environ())
	env.Unsetenv("A")
	fmt.Println("After:", env.Environ())

	// Output: Before: [A=B C=D]
	// After: [C=D]
}

func ExampleMapEnv_LookupEnv() {
	env := NewMapEnv()
	env.Setenv("A", "")

	val, ok := env.LookupEnv("A")
	fmt.Printf("Existing val: %q ok: %v\n", val, ok)
	val, ok = env.LookupEnv("B")
	fmt.Printf("Missing val: %q ok: %v\n", val, ok)

	// Output: Existing val: "" ok: true
	// Missing val: "" ok: false
}

func TestMapEnv_SetenvInvalid(t *testing.T) {
	env := NewMapEnv()
	assert.Error(t, env.Setenv("", "x"))
	assert.Error(t, env.Setenv("A=B", "x"))
	assert.Empty(t, env.Environ())
}

func TestOSEnv(t *testing.T) {
	t.Setenv("GENSHELL_VOS_TEST", "before")

	var env OSEnv
	assert.Equal(t, "before", env.Getenv("GENSHELL_VOS_TEST"))

	assert.NoError(t, env.Setenv("GENSHELL_VOS_TEST", "after"))
	assert.Contains(t, env.Environ(), "GENSHELL_VOS_TEST=after")

	assert.NoError(t, env.Unsetenv("GENSHELL_VOS_TEST"))
	_, ok := env.LookupEnv("GENSHELL_VOS_TEST")
	assert.False(t, ok)
}

func TestSplitEnv(t *testing.T) {
	cases := []struct {
		entry string
		key   string
		value string
	}{
		{"A=B", "A", "B"},
		{"A", "A", ""},
		{"A==", "A", "="},
		{"=B", "", "B"},
	}

	for _, tc := range cases {
		t.Run(tc.entry, func(t *testing.T) {
			key, value := SplitEnv(tc.entry)
			assert.Equal(t, tc.key, key)
			assert.Equal(t, tc.value, value)
		})
	}
}
