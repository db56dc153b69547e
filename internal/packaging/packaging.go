// Package packaging writes an exported file set to disk, either as a
// directory tree or as a zip archive. Both forms are staged next to the
// destination and promoted with a rename so a failed or canceled write never
// leaves a half-written result behind.
package packaging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"

	"git.home.luguber.info/inful/sitepress/internal/export"
	"git.home.luguber.info/inful/sitepress/internal/foundation/errors"
	"git.home.luguber.info/inful/sitepress/internal/logfields"
)

// Format selects the on-disk form of an export.
type Format string

const (
	FormatDir Format = "dir"
	FormatZip Format = "zip"
)

// ParseFormat maps user input to a Format; unknown values yield "".
func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "dir", "directory", "folder":
		return FormatDir
	case "zip":
		return FormatZip
	default:
		return ""
	}
}

// zipEpoch is the modification time stamped on every archive entry so that
// identical file sets produce identical archives.
var zipEpoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// stored lists extensions that are already compressed.
var stored = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true, ".avif": true, ".ico": true}

// Write packages files at dest in the given format.
func Write(ctx context.Context, files []export.ExportedFile, dest string, format Format) error {
	switch format {
	case FormatDir:
		return WriteDir(ctx, files, dest)
	case FormatZip:
		return WriteZip(ctx, files, dest)
	default:
		return errors.ValidationError("unknown package format").WithContext("format", string(format)).Build()
	}
}

// WriteDir writes files below dest. An existing dest is replaced as a whole.
func WriteDir(ctx context.Context, files []export.ExportedFile, dest string) (err error) {
	if err := validate(files); err != nil {
		return err
	}
	dest = filepath.Clean(dest)
	stage := dest + "_stage"
	if err := os.RemoveAll(stage); err != nil {
		return fsError(err, "clear staging directory", stage)
	}
	if err := os.MkdirAll(stage, 0o755); err != nil {
		return fsError(err, "create staging directory", stage)
	}
	defer func() {
		if err != nil {
			if rmErr := os.RemoveAll(stage); rmErr != nil {
				slog.Warn("Failed to remove staging directory", logfields.Path(stage), logfields.Error(rmErr))
			}
		}
	}()

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return canceled(err, dest)
		}
		target := filepath.Join(stage, filepath.FromSlash(export.CleanPath(f.Path)))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fsError(err, "create directory", filepath.Dir(target))
		}
		if err := os.WriteFile(target, f.Content, 0o644); err != nil {
			return fsError(err, "write file", target)
		}
	}
	return promote(stage, dest)
}

// promote swaps stage into dest, keeping the previous dest as dest.prev until
// the rename succeeded.
func promote(stage, dest string) error {
	prev := dest + ".prev"
	if err := os.RemoveAll(prev); err != nil {
		return fsError(err, "remove previous backup", prev)
	}
	if _, err := os.Stat(dest); err == nil {
		if err := os.Rename(dest, prev); err != nil {
			return fsError(err, "backup existing output", dest)
		}
	}
	if err := os.Rename(stage, dest); err != nil {
		if _, statErr := os.Stat(prev); statErr == nil {
			_ = os.Rename(prev, dest)
		}
		return fsError(err, "promote staging directory", dest)
	}
	if err := os.RemoveAll(prev); err != nil {
		slog.Warn("Failed to remove previous backup", logfields.Path(prev), logfields.Error(err))
	}
	slog.Debug("Promoted staging directory", logfields.Path(dest))
	return nil
}

// WriteZip writes files into a zip archive at dest. Entries keep the input
// order; images are stored, everything else is deflated.
func WriteZip(ctx context.Context, files []export.ExportedFile, dest string) (err error) {
	if err := validate(files); err != nil {
		return err
	}
	dest = filepath.Clean(dest)
	if dir := filepath.Dir(dest); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fsError(err, "create archive directory", dir)
		}
	}
	tmp := dest + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return fsError(err, "create archive", tmp)
	}
	defer func() {
		if err != nil {
			_ = out.Close()
			_ = os.Remove(tmp)
		}
	}()

	zw := zip.NewWriter(out)
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return canceled(err, dest)
		}
		name := export.CleanPath(f.Path)
		method := zip.Deflate
		if stored[strings.ToLower(path.Ext(name))] {
			method = zip.Store
		}
		hdr := &zip.FileHeader{Name: name, Method: method, Modified: zipEpoch}
		hdr.SetMode(0o644)
		w, err := zw.CreateHeader(hdr)
		if err != nil {
			return packagingError(err, "add archive entry", name)
		}
		if _, err := w.Write(f.Content); err != nil {
			return packagingError(err, "write archive entry", name)
		}
	}
	if err := zw.Close(); err != nil {
		return packagingError(err, "finish archive", dest)
	}
	if err := out.Close(); err != nil {
		return fsError(err, "close archive", tmp)
	}
	if err := os.Rename(tmp, dest); err != nil {
		return fsError(err, "promote archive", dest)
	}
	return nil
}

// ReadZip returns the entries of an archive written by WriteZip.
func ReadZip(p string) ([]export.ExportedFile, error) {
	r, err := zip.OpenReader(p)
	if err != nil {
		return nil, fsError(err, "open archive", p)
	}
	defer func() { _ = r.Close() }()

	files := make([]export.ExportedFile, 0, len(r.File))
	for _, zf := range r.File {
		rc, err := zf.Open()
		if err != nil {
			return nil, packagingError(err, "open archive entry", zf.Name)
		}
		data, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return nil, packagingError(err, "read archive entry", zf.Name)
		}
		files = append(files, export.ExportedFile{Path: zf.Name, Content: data, Binary: stored[strings.ToLower(path.Ext(zf.Name))]})
	}
	return files, nil
}

// PersistReport writes report as indented JSON to p via a temporary file.
func PersistReport(report *export.Report, p string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return errors.InternalError("marshal export report").WithCause(err).Build()
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fsError(err, "create report directory", filepath.Dir(p))
	}
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return fsError(err, "write report", tmp)
	}
	if err := os.Rename(tmp, p); err != nil {
		return fsError(err, "promote report", p)
	}
	return nil
}

func validate(files []export.ExportedFile) error {
	seen := make(map[string]bool, len(files))
	for _, f := range files {
		p := export.CleanPath(f.Path)
		if p == "" {
			return errors.PackagingError("empty file path").WithContext("phase", "package").Build()
		}
		if seen[p] {
			return errors.PackagingError("duplicate file path").WithContext("phase", "package").WithContext("path", p).Build()
		}
		seen[p] = true
	}
	return nil
}

func fsError(err error, msg, p string) error {
	return errors.WrapError(err, errors.CategoryFileSystem, msg).WithContext("phase", "package").WithContext("path", p).Build()
}

func packagingError(err error, msg, p string) error {
	return errors.WrapError(err, errors.CategoryPackaging, msg).WithContext("phase", "package").WithContext("path", p).Build()
}

func canceled(err error, p string) error {
	return errors.CanceledError(fmt.Sprintf("packaging %s canceled", filepath.Base(p))).WithCause(err).WithContext("phase", "package").Build()
}
