package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points XDG_CONFIG_HOME and the working directory at a fresh temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()

	origWd, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(origWd) })
	require.NoError(t, os.Chdir(tmpDir))

	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "config"))
	for _, key := range envKeys {
		t.Setenv("REPORTU_"+strings.ToUpper(key), "")
		_ = os.Unsetenv("REPORTU_" + strings.ToUpper(key))
	}
	return tmpDir
}

func TestGlobalPath(t *testing.T) {
	t.Run("with XDG_CONFIG_HOME set", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")
		assert.Equal(t, "/custom/config/reportu/reportu.yml", GlobalPath())
	})

	t.Run("without XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		got := GlobalPath()
		assert.True(t, filepath.IsAbs(got), "GlobalPath() should be absolute, got %s", got)
		assert.Equal(t, "reportu.yml", filepath.Base(got))
	})
}

func TestProjectPath(t *testing.T) {
	assert.Equal(t, "reportu.yml", ProjectPath())
}

func TestExists(t *testing.T) {
	isolate(t)

	assert.False(t, Exists(), "no config files yet")

	require.NoError(t, WriteProject(Defaults()))
	assert.True(t, Exists(), "project config written")

	require.NoError(t, os.Remove(ProjectPath()))
	require.NoError(t, WriteGlobal(Defaults()))
	assert.True(t, Exists(), "global config written")
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ".reportu", cfg.DataDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.SubmitTimeout)
	assert.Zero(t, cfg.MaxAttachments, "attachments are unbounded by default")
	assert.Zero(t, cfg.MaxAttachmentBytes)
	assert.True(t, cfg.SeedDemo)
	assert.False(t, cfg.Offline)
}

func TestLoad_ProjectOverridesGlobal(t *testing.T) {
	isolate(t)

	global := Defaults()
	global.LogLevel = "warn"
	global.MaxAttachments = 3
	require.NoError(t, WriteGlobal(global))

	project := Defaults()
	project.LogLevel = "debug"
	project.MaxAttachments = 3
	project.SubmitTimeout = 5 * time.Second
	require.NoError(t, WriteProject(project))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 3, cfg.MaxAttachments)
	assert.Equal(t, 5*time.Second, cfg.SubmitTimeout)
}

func TestLoad_EnvOverridesFiles(t *testing.T) {
	isolate(t)

	require.NoError(t, WriteProject(Defaults()))
	t.Setenv("REPORTU_OFFLINE", "true")
	t.Setenv("REPORTU_SUBMIT_TIMEOUT", "2s")
	t.Setenv("REPORTU_MAX_ATTACHMENT_BYTES", "10485760")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Offline)
	assert.Equal(t, 2*time.Second, cfg.SubmitTimeout)
	assert.Equal(t, int64(10<<20), cfg.MaxAttachmentBytes)
}

func TestWriteProject_Content(t *testing.T) {
	isolate(t)

	cfg := Defaults()
	cfg.DataDir = ".project"
	cfg.LogFile = "/tmp/reportu.log"
	require.NoError(t, WriteProject(cfg))

	data, err := os.ReadFile(ProjectPath())
	require.NoError(t, err)

	content := string(data)
	for _, field := range []string{
		"data_dir: .project",
		"log_file: /tmp/reportu.log",
		"seed_demo: true",
	} {
		assert.Contains(t, content, field)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"empty data dir", func(c *Config) { c.DataDir = "" }, true},
		{"negative timeout", func(c *Config) { c.SubmitTimeout = -time.Second }, true},
		{"negative max attachments", func(c *Config) { c.MaxAttachments = -1 }, true},
		{"negative max bytes", func(c *Config) { c.MaxAttachmentBytes = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDerivedDirs(t *testing.T) {
	cfg := Defaults()
	cfg.DataDir = "/var/reportu"
	assert.Equal(t, "/var/reportu/jetstream", cfg.StoreDir())
	assert.Equal(t, "/var/reportu/staging", cfg.StagingDir())
}
