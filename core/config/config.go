// Package config holds the on-disk configuration of the shell.
package config

import (
	_ "embed"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

//go:embed default/config.yaml
var defaultConfigData []byte

const (
	ConfigurationName = "config.yaml"
	DirName           = ".genshell"

	// EnvConfigDir overrides the configuration directory.
	EnvConfigDir = "GENSHELL_CONFIG"
)

// ErrDisabled is returned when opening a file the configuration turned off.
var ErrDisabled = errors.New("disabled by configuration")

type Configuration struct {
	configFs afero.Fs
	dir      string

	Prompt      string `json:"prompt"`
	HistoryFile string `json:"history_file"`
	EventLog    string `json:"event_log"`

	ChatTemplate string `json:"chat_template" validate:"required,oneof=qwen"`
	ModelCommand string `json:"model_command" validate:"required"`
	ModelPath    string `json:"model_path"`
	MaxTokens    int    `json:"max_tokens" validate:"gte=0"`
	SystemPrompt string `json:"system_prompt"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

func (c *Configuration) fs() afero.Fs {
	return c.configFs
}

// Dir is the directory the configuration was loaded from.
func (c *Configuration) Dir() string {
	return c.dir
}

// HistoryPath is the OS path of the interactive history file, or the empty
// string if history is disabled.
func (c *Configuration) HistoryPath() string {
	return c.resolve(c.HistoryFile)
}

func (c *Configuration) resolve(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.dir, name)
}

// OpenEventLog opens the event log in an append only state.
func (c *Configuration) OpenEventLog() (afero.File, error) {
	if c.EventLog == "" {
		return nil, ErrDisabled
	}
	return c.fs().OpenFile(c.EventLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

func (c *Configuration) ReadEventLog() (afero.File, error) {
	if c.EventLog == "" {
		return nil, ErrDisabled
	}
	return c.fs().OpenFile(c.EventLog, os.O_RDONLY, 0600)
}

func defaultConfig() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}

// Default returns the built-in configuration rooted at dir.
func Default(dir string) *Configuration {
	out := defaultConfig()
	out.setDir(dir)
	return out
}

func (c *Configuration) setDir(dir string) {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	c.dir = dir
	c.configFs = afero.NewBasePathFs(afero.NewOsFs(), dir)
}

// DefaultDir picks the configuration directory from the environment:
// $GENSHELL_CONFIG if set, otherwise ~/.genshell.
func DefaultDir(getenv func(string) string) string {
	if dir := getenv(EnvConfigDir); dir != "" {
		return dir
	}
	return filepath.Join(getenv("HOME"), DirName)
}
