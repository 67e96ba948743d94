package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid config",
			config: Config{InputEncoding: "latin1", OutputFormat: "markdown", SubfiguresPerRow: 3},
		},
		{
			name:    "unknown encoding",
			config:  Config{InputEncoding: "ebcdic", OutputFormat: "xml", SubfiguresPerRow: 2},
			wantErr: true,
			errMsg:  `unknown input encoding "ebcdic"`,
		},
		{
			name:    "unknown output format",
			config:  Config{OutputFormat: "pdf", SubfiguresPerRow: 2},
			wantErr: true,
			errMsg:  `invalid output_format "pdf"`,
		},
		{
			name:    "non-positive subfigures per row",
			config:  Config{OutputFormat: "xml", SubfiguresPerRow: -1},
			wantErr: true,
			errMsg:  "subfigures_per_row must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	assert.Equal(t, Config{InputEncoding: "utf-8", SubfiguresPerRow: 2, OutputFormat: FormatXML}, cfg)
	assert.NoError(t, cfg.Validate())

	cfg = Config{SubfiguresPerRow: 4, OutputFormat: FormatMarkdown}
	cfg.ApplyDefaults()
	assert.Equal(t, 4, cfg.SubfiguresPerRow)
	assert.Equal(t, FormatMarkdown, cfg.OutputFormat)
}

func TestConfig_LoadFromEnv(t *testing.T) {
	t.Run("loads all env vars", func(t *testing.T) {
		t.Setenv("TXML_INPUT_ENCODING", "cp1252")
		t.Setenv("TXML_OUTPUT_FORMAT", "markdown")
		t.Setenv("TXML_RAW_SUBFIGURES", "true")
		t.Setenv("TXML_TRACE", "1")

		cfg := &Config{}
		cfg.LoadFromEnv()

		assert.Equal(t, "cp1252", cfg.InputEncoding)
		assert.Equal(t, "markdown", cfg.OutputFormat)
		assert.True(t, cfg.RawSubfigures)
		assert.True(t, cfg.Trace)
	})

	t.Run("empty env vars keep existing values", func(t *testing.T) {
		t.Setenv("TXML_INPUT_ENCODING", "")
		t.Setenv("TXML_OUTPUT_FORMAT", "xml")
		t.Setenv("TXML_RAW_SUBFIGURES", "")
		t.Setenv("TXML_TRACE", "not-a-bool")

		cfg := &Config{InputEncoding: "latin9", OutputFormat: "markdown", RawSubfigures: true, Trace: true}
		cfg.LoadFromEnv()

		assert.Equal(t, "latin9", cfg.InputEncoding)
		assert.Equal(t, "xml", cfg.OutputFormat)
		assert.True(t, cfg.RawSubfigures)
		assert.True(t, cfg.Trace)
	})
}

func TestDefaultConfigPath(t *testing.T) {
	t.Run("honors XDG_CONFIG_HOME", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", dir)
		assert.Equal(t, filepath.Join(dir, "txml", "config.yml"), DefaultConfigPath())
	})

	t.Run("falls back to home", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		home, err := os.UserHomeDir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, ".config", "txml", "config.yml"), DefaultConfigPath())
	})
}

func TestConfig_Save_and_Load(t *testing.T) {
	original := Config{
		InputEncoding:         "latin1",
		RawSubfigures:         true,
		SubfiguresPerRow:      3,
		DoubleQuoteAttributes: true,
		OutputFormat:          "markdown",
		Trace:                 true,
		SourceName:            "thesis",
	}

	for _, name := range []string{"config.yml", "config.toml"} {
		t.Run(name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "sub", name)

			require.NoError(t, original.Save(configPath))

			info, err := os.Stat(configPath)
			require.NoError(t, err)
			assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

			loaded, err := Load(configPath)
			require.NoError(t, err)
			assert.Equal(t, original, *loaded)
		})
	}
}

func TestLoad_TOMLSyntax(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("input_encoding = \"latin9\"\nsubfigures_per_row = 4\n"), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "latin9", cfg.InputEncoding)
	assert.Equal(t, 4, cfg.SubfiguresPerRow)
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yml")
	require.Error(t, err)
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("input_encoding: [oops"), 0600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")

	_, err = LoadWithEnv(path)
	assert.Error(t, err)
}

func TestLoadWithEnv_MissingFile(t *testing.T) {
	t.Setenv("TXML_OUTPUT_FORMAT", "markdown")
	t.Setenv("TXML_INPUT_ENCODING", "")
	t.Setenv("TXML_RAW_SUBFIGURES", "")
	t.Setenv("TXML_TRACE", "")

	cfg, err := LoadWithEnv(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)
	assert.Equal(t, "markdown", cfg.OutputFormat)
	assert.Equal(t, "utf-8", cfg.InputEncoding)
	assert.Equal(t, 2, cfg.SubfiguresPerRow)
}
