package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitepress/internal/foundation/errors"
	"git.home.luguber.info/inful/sitepress/internal/packaging"
)

// run parses args like main does and executes the selected command.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cli := &CLI{}
	g := &Global{Out: &out}
	parser, err := kong.New(cli, kong.Name("sitepress"), kong.Vars{"version": "test"}, kong.Bind(g), kong.Exit(func(int) {}))
	require.NoError(t, err)
	ctx, err := parser.Parse(args)
	if err != nil {
		return out.String(), err
	}
	err = ctx.Run(g, cli)
	return out.String(), err
}

func initWorkspace(t *testing.T) (dir, cfgPath string) {
	t.Helper()
	dir = t.TempDir()
	cfgPath = filepath.Join(dir, "sitepress.yaml")
	out, err := run(t, "--config", cfgPath, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Writing example site to")
	require.FileExists(t, filepath.Join(dir, "site.yaml"))
	return dir, cfgPath
}

func TestInitRefusesToOverwrite(t *testing.T) {
	_, cfgPath := initWorkspace(t)
	_, err := run(t, "--config", cfgPath, "init")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))

	_, err = run(t, "--config", cfgPath, "init", "--force")
	require.NoError(t, err)
}

func TestExportStaticDirectory(t *testing.T) {
	dir, cfgPath := initWorkspace(t)
	output := filepath.Join(dir, "public")

	out, err := run(t, "--config", cfgPath, "export", "--output", output, "--platform", "github-pages", "--progress")
	require.NoError(t, err)

	assert.Contains(t, out, "[generating 1/2]")
	assert.Contains(t, out, "Exported ")
	assert.Contains(t, out, "Outcome: success")
	assert.FileExists(t, filepath.Join(output, "index.html"))
	assert.FileExists(t, filepath.Join(output, "about", "index.html"))
	assert.FileExists(t, filepath.Join(output, ".nojekyll"))
	assert.FileExists(t, filepath.Join(dir, "dist-report.json"), "report path comes from the example configuration")
}

func TestExportProjectZip(t *testing.T) {
	dir, cfgPath := initWorkspace(t)
	archive := filepath.Join(dir, "app.zip")

	_, err := run(t, "--config", cfgPath, "export", "--target", "project", "--format", "zip", "--output", archive, "--no-history")
	require.NoError(t, err)

	files, err := packaging.ReadZip(archive)
	require.NoError(t, err)
	paths := map[string]bool{}
	for _, f := range files {
		paths[f.Path] = true
	}
	assert.True(t, paths["package.json"])
	assert.True(t, paths["src/App.tsx"])
	assert.True(t, paths["netlify.toml"])
	assert.NoFileExists(t, filepath.Join(dir, ".sitepress", "history.db"))
}

func TestExportRejectsInvalidOverrides(t *testing.T) {
	_, cfgPath := initWorkspace(t)

	_, err := run(t, "--config", cfgPath, "export", "--format", "tar")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))

	_, err = run(t, "--config", cfgPath, "export", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryNotFound))
}

func TestHistoryListsExports(t *testing.T) {
	dir, cfgPath := initWorkspace(t)
	_, err := run(t, "--config", cfgPath, "export", "--output", filepath.Join(dir, "out"))
	require.NoError(t, err)

	out, err := run(t, "--config", cfgPath, "history")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "My Site")
	assert.Contains(t, lines[1], "static")
	assert.Contains(t, lines[1], "success")

	id := strings.Fields(lines[1])[0]
	out, err = run(t, "--config", cfgPath, "history", id)
	require.NoError(t, err)
	assert.Contains(t, out, `"export_id": "`+id+`"`)

	_, err = run(t, "--config", cfgPath, "history", "nope")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryNotFound))
}

func TestPresets(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "sitepress.yaml")
	out, err := run(t, "--config", cfgPath, "presets")
	require.NoError(t, err)
	for _, id := range []string{"generic", "netlify", "vercel", "github-pages", "cloudflare-pages", "firebase", "render"} {
		assert.Contains(t, out, id)
	}

	out, err = run(t, "--config", cfgPath, "presets", "netlify")
	require.NoError(t, err)
	assert.Contains(t, out, "netlify.toml")
	assert.Contains(t, out, "Deploy:")

	_, err = run(t, "--config", cfgPath, "presets", "heroku")
	require.Error(t, err)
	assert.Equal(t, 2, errors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
}

func TestMalformedConfigSurfacesError(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "sitepress.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("export: ["), 0o600))
	_, err := run(t, "--config", cfgPath, "export")
	require.Error(t, err)
	assert.Equal(t, 7, errors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
}
