package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

// Load loads the configuration from the directory.
func Load(path string) (*Configuration, error) {
	// If given the path to a config.yaml file, move back up a level.
	if filepath.Base(path) == ConfigurationName {
		path = filepath.Dir(path)
	}

	var out Configuration
	out.setDir(path)
	if err := out.load(); err != nil {
		return nil, err
	}
	return &out, nil
}

// LoadFs loads the configuration from the root of the filesystem.
func LoadFs(configFs afero.Fs) (*Configuration, error) {
	out := Configuration{configFs: configFs}
	if err := out.load(); err != nil {
		return nil, err
	}
	return &out, nil
}

// LoadOrDefault is like Load but falls back to the default configuration
// if the directory has no configuration file.
func LoadOrDefault(path string) (*Configuration, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(path), nil
	}
	return cfg, err
}

func (c *Configuration) load() error {
	configContents, err := afero.ReadFile(c.fs(), ConfigurationName)
	if err != nil {
		return err
	}

	// The file must stay within the flat subset so other tools can read it.
	if _, err := ParseDocument(configContents); err != nil {
		return fmt.Errorf("%s: %w", ConfigurationName, err)
	}

	if err := yaml.UnmarshalStrict(configContents, c); err != nil {
		return fmt.Errorf("%s: %w", ConfigurationName, err)
	}

	if err := c.Validate(); err != nil {
		return fmt.Errorf("%s: %w", ConfigurationName, err)
	}
	return nil
}

// Document reads the configuration file as a flat document. The built-in
// defaults are used if there's no configuration file.
func (c *Configuration) Document() (*Document, error) {
	doc, err := LoadDocument(c.fs(), ConfigurationName)
	if errors.Is(err, fs.ErrNotExist) {
		return ParseDocument(defaultConfigData)
	}
	return doc, err
}
