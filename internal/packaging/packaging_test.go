package packaging

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitepress/internal/export"
	"git.home.luguber.info/inful/sitepress/internal/foundation/errors"
)

func fileSet() []export.ExportedFile {
	return []export.ExportedFile{
		export.TextFile("index.html", "<h1>Home</h1>"),
		export.TextFile("about/index.html", "<h1>About</h1>"),
		export.BinaryFile("assets/image-1.png", []byte("\x89PNG\r\n\x1a\nbytes")),
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"", FormatDir},
		{"directory", FormatDir},
		{" ZIP ", FormatZip},
		{"tar", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseFormat(tt.in), tt.in)
	}
}

func TestWriteDirReplacesExistingOutput(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "site")
	require.NoError(t, os.MkdirAll(dest, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dest, "stale.html"), []byte("old"), 0o644))

	require.NoError(t, Write(context.Background(), fileSet(), dest, FormatDir))

	data, err := os.ReadFile(filepath.Join(dest, "about", "index.html"))
	require.NoError(t, err)
	assert.Equal(t, "<h1>About</h1>", string(data))
	assert.NoFileExists(t, filepath.Join(dest, "stale.html"))
	assert.NoDirExists(t, dest+"_stage")
	assert.NoDirExists(t, dest+".prev")
}

func TestWriteDirCanceledLeavesOutputUntouched(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "site")
	require.NoError(t, os.MkdirAll(dest, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dest, "keep.html"), []byte("old"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := WriteDir(ctx, fileSet(), dest)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryCanceled))
	assert.FileExists(t, filepath.Join(dest, "keep.html"))
	assert.NoDirExists(t, dest+"_stage")
}

func TestWriteRejectsDuplicatePaths(t *testing.T) {
	files := append(fileSet(), export.TextFile("/index.html", "dup"))
	err := WriteDir(context.Background(), files, filepath.Join(t.TempDir(), "site"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryPackaging))

	err = Write(context.Background(), fileSet(), t.TempDir(), Format("tar"))
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
}

func TestWriteZipRoundTrip(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out", "site.zip")
	require.NoError(t, Write(context.Background(), fileSet(), dest, FormatZip))
	assert.NoFileExists(t, dest+".tmp")

	got, err := ReadZip(dest)
	require.NoError(t, err)
	assert.Equal(t, fileSet(), got)

	r, err := zip.OpenReader(dest)
	require.NoError(t, err)
	defer func() { _ = r.Close() }()
	methods := map[string]uint16{}
	for _, f := range r.File {
		methods[f.Name] = f.Method
	}
	assert.Equal(t, zip.Deflate, methods["index.html"])
	assert.Equal(t, zip.Store, methods["assets/image-1.png"])
}

func TestWriteZipIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	a, b := filepath.Join(dir, "a.zip"), filepath.Join(dir, "b.zip")
	require.NoError(t, WriteZip(context.Background(), fileSet(), a))
	require.NoError(t, WriteZip(context.Background(), fileSet(), b))

	da, err := os.ReadFile(a)
	require.NoError(t, err)
	db, err := os.ReadFile(b)
	require.NoError(t, err)
	assert.Equal(t, da, db)
}

func TestPersistReport(t *testing.T) {
	report := export.NewReport("export-1", export.TargetStatic)
	report.AddIssue(export.IssueBrokenLink, export.StageVerifyLinks, export.SeverityWarning, "index.html", "missing /x")
	report.Finish(nil)

	p := filepath.Join(t.TempDir(), "reports", "export-report.json")
	require.NoError(t, PersistReport(report, p))

	data, err := os.ReadFile(p)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "export-1", decoded["export_id"])
	assert.Equal(t, "warning", decoded["outcome"])
}
