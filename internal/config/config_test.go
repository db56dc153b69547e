package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitepress/internal/foundation/errors"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	p := filepath.Join(dir, "sitepress.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestLoadAppliesDefaultsAndResolvesPaths(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(writeConfig(t, dir, "site: sites/acme.yaml\nexport:\n  hosting_platform: Netlify\n"))
	require.NoError(t, err)

	assert.Equal(t, CurrentVersion, cfg.Version)
	assert.Equal(t, filepath.Join(dir, "sites", "acme.yaml"), cfg.Site)
	assert.Equal(t, "static", cfg.Export.Target)
	assert.Equal(t, "dir", cfg.Export.Format)
	assert.Equal(t, filepath.Join(dir, "dist"), cfg.Export.Output)
	assert.Equal(t, defaultPreviewAddr, cfg.Preview.Addr)
	assert.Equal(t, filepath.Join(dir, defaultHistoryPath), cfg.History.Path)
	assert.Equal(t, LogLevelInfo, cfg.Logging.Level)
	assert.Equal(t, LogFormatText, cfg.Logging.Format)
	assert.Equal(t, "Netlify", cfg.Options().HostingPlatform)
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(filepath.Join(dir, DefaultPath))
	require.NoError(t, err, "missing default file yields defaults")
	assert.Equal(t, "static", cfg.Export.Target)

	_, err = Load(filepath.Join(dir, "custom.yaml"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestLoadExpandsEnvironmentFromDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SITEPRESS_TEST_TARGET", "")
	require.NoError(t, os.Unsetenv("SITEPRESS_TEST_TARGET"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SITEPRESS_TEST_TARGET=project\nSITEPRESS_TEST_URL=https://acme.test\n"), 0o600))
	t.Setenv("SITEPRESS_TEST_URL", "https://override.test")

	cfg, err := Load(writeConfig(t, dir, "export:\n  target: ${SITEPRESS_TEST_TARGET}\n  site_url: ${SITEPRESS_TEST_URL}\n"))
	require.NoError(t, err)
	assert.Equal(t, "project", cfg.Export.Target)
	assert.Equal(t, "https://override.test", cfg.Export.SiteURL, "process environment wins over .env")
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		field   string
	}{
		{"version", "version: \"9\"\n", "version"},
		{"target", "export:\n  target: pdf\n", "export.target"},
		{"format", "export:\n  format: tar\n", "export.format"},
		{"platform", "export:\n  hosting_platform: heroku\n", "export.hosting_platform"},
		{"site url", "export:\n  site_url: example.com\n", "export.site_url"},
		{"workers", "export:\n  workers: -1\n", "export.workers"},
		{"quality", "export:\n  image_optimization:\n    quality: 0\n", "export.image_optimization.quality"},
		{"max width", "export:\n  image_optimization:\n    max_width: -5\n", "export.image_optimization.max_width"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.content), "")
			require.Error(t, err)
			ce, ok := errors.AsClassified(err)
			require.True(t, ok)
			assert.Equal(t, errors.CategoryConfig, ce.Category())
			field, _ := ce.Context().GetString("field")
			assert.Equal(t, tt.field, field)
		})
	}
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	_, err := Parse([]byte("export: [unterminated"), "")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestOptionsCarriesProfileOverride(t *testing.T) {
	cfg, err := Parse([]byte("export:\n  workers: 3\n  image_optimization:\n    enabled: false\n    quality: 70\n"), "")
	require.NoError(t, err)
	opts := cfg.Options()
	assert.Equal(t, 3, opts.Workers)
	require.NotNil(t, opts.ImageOptimization)
	assert.False(t, *opts.ImageOptimization.Enabled)
	assert.Equal(t, 70, *opts.ImageOptimization.Quality)
	assert.Nil(t, opts.ImageOptimization.MaxWidth)
}

func TestInitWritesLoadableExample(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", "sitepress.yaml")
	require.NoError(t, Init(p, false))

	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "netlify", cfg.Export.HostingPlatform)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, 80, *cfg.Export.ImageOptimization.Quality)

	err = Init(p, false)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
	require.NoError(t, Init(p, true))
}

func TestLoggerHonorsLevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	LoggingConfig{Level: NormalizeLogLevel("WARNING"), Format: NormalizeLogFormat("json")}.NewLogger(&buf, false).Info("hidden")
	assert.Empty(t, buf.String())

	LoggingConfig{Level: LogLevelWarn, Format: LogFormatJSON}.NewLogger(&buf, true).Debug("shown")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
}
