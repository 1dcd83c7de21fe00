package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stefanpenner/tandem/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsLoadCleanly(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	v := viper.New()
	require.NoError(t, Init(v, ""))
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
}

func TestConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "tandem"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tandem", "config.yaml"), []byte(`
storage:
  backend: sqlite
logging:
  level: debug
tui:
  watch: false
roadmap:
  dir: /tmp/plans
`), 0644))
	t.Setenv("TANDEM_LOGGING_FORMAT", "json")

	v := viper.New()
	require.NoError(t, Init(v, ""))
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, store.BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, "goalBasket", cfg.Storage.Key)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.False(t, cfg.TUI.Watch)
	assert.Equal(t, "/tmp/plans", cfg.RoadmapDir())
}

func TestExplicitConfigFileMustExist(t *testing.T) {
	v := viper.New()
	err := Init(v, filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Storage.Backend = "redis"
	cfg.Storage.Key = "../escape"
	cfg.Logging.Level = "loud"
	cfg.Logging.Format = "xml"

	errs := cfg.Validate()
	require.Len(t, errs, 4)
	assert.Equal(t, "storage.backend", errs[0].Field)
	assert.Equal(t, "storage.key", errs[1].Field)
	assert.Equal(t, "logging.level", errs[2].Field)
	assert.Equal(t, "logging.format", errs[3].Field)
}

func TestLoadReturnsValidationErrors(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("storage.backend", "redis")

	_, err := Load(v)
	var verrs store.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Len(t, verrs, 1)
}

func TestDataDirs(t *testing.T) {
	t.Setenv(store.DataDirEnv, "")
	cfg := Default()
	cfg.DataDir = "/data/tandem"
	assert.Equal(t, "/data/tandem", cfg.ResolvedDataDir())
	assert.Equal(t, filepath.Join("/data/tandem", "roadmap"), cfg.RoadmapDir())

	t.Setenv(store.DataDirEnv, "/env/tandem")
	assert.Equal(t, "/env/tandem", cfg.ResolvedDataDir())
}

func TestDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	assert.Equal(t, filepath.Join("/xdg", "tandem"), Dir())
}
