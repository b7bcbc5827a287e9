package config

import (
	"bytes"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialize(t *testing.T) {
	tempDir := t.TempDir()
	if _, err := Initialize(tempDir, log.New(ioutil.Discard, "", 0)); err != nil {
		t.Fatal(err)
	}

	// Check that the config is valid
	cfg, err := Load(tempDir)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("LoadFile", func(t *testing.T) {
		byFile, err := Load(filepath.Join(tempDir, ConfigurationName))
		assert.Nil(t, err)
		assert.Equal(t, cfg.Dir(), byFile.Dir())
	})

	t.Run("OpenEventLog", func(t *testing.T) {
		fd, err := cfg.OpenEventLog()
		assert.Nil(t, err)
		fd.Close()

		_, err = os.Stat(filepath.Join(tempDir, "events.log"))
		assert.Nil(t, err)
	})

	t.Run("HistoryPath", func(t *testing.T) {
		assert.Equal(t, filepath.Join(cfg.Dir(), "history"), cfg.HistoryPath())
	})
}

func TestInitialize_keepsExisting(t *testing.T) {
	tempDir := t.TempDir()
	custom := bytes.Replace(defaultConfigData, []byte("max_tokens: 256"), []byte("max_tokens: 12"), 1)
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, ConfigurationName), custom, 0600))

	var logged bytes.Buffer
	cfg, err := Initialize(tempDir, log.New(&logged, "", 0))
	require.NoError(t, err)

	assert.Equal(t, 12, cfg.MaxTokens)
	assert.Contains(t, logged.String(), "already exists")
}

func TestLoadOrDefault(t *testing.T) {
	tempDir := t.TempDir()

	cfg, err := LoadOrDefault(filepath.Join(tempDir, "missing"))
	require.NoError(t, err)
	assert.Equal(t, defaultConfig().ModelCommand, cfg.ModelCommand)

	require.NoError(t, os.WriteFile(filepath.Join(tempDir, ConfigurationName), []byte("prompt: [\n"), 0600))
	_, err = LoadOrDefault(tempDir)
	assert.Error(t, err)
}

func TestConfiguration_Document(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		doc, err := Default(t.TempDir()).Document()
		require.NoError(t, err)

		value, ok := doc.Get("chat_template")
		assert.True(t, ok)
		assert.Equal(t, "qwen", value)
	})

	t.Run("from-file", func(t *testing.T) {
		dir := t.TempDir()
		cfg, err := Initialize(dir, log.New(ioutil.Discard, "", 0))
		require.NoError(t, err)

		contents := "chat_template: qwen\nmodel_command: 'run {model}'\nprompt: '> '\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigurationName), []byte(contents), 0600))

		doc, err := cfg.Document()
		require.NoError(t, err)
		assert.Equal(t, []string{"chat_template", "model_command", "prompt"}, doc.Keys())

		value, _ := doc.Get("prompt")
		assert.Equal(t, "> ", value)
	})
}
