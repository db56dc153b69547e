package export

import (
	"path"
	"strings"
)

// Target selects the emitter.
type Target string

const (
	TargetStatic  Target = "static"
	TargetProject Target = "project"
)

// ParseTarget maps user input to a Target; unknown values return "".
func ParseTarget(s string) Target {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "static", "site", "html":
		return TargetStatic
	case "project", "app", "react":
		return TargetProject
	}
	return ""
}

// ExportedFile is the single output unit of both targets.
type ExportedFile struct {
	Path    string // relative, forward slashes
	Content []byte
	Binary  bool
}

// TextFile builds a text ExportedFile.
func TextFile(p, content string) ExportedFile {
	return ExportedFile{Path: CleanPath(p), Content: []byte(content)}
}

// BinaryFile builds a binary ExportedFile.
func BinaryFile(p string, content []byte) ExportedFile {
	return ExportedFile{Path: CleanPath(p), Content: content, Binary: true}
}

// Text returns the content as a string.
func (f ExportedFile) Text() string { return string(f.Content) }

// Depth is the number of directories between the output root and the file.
func (f ExportedFile) Depth() int { return strings.Count(CleanPath(f.Path), "/") }

// CleanPath normalizes p to a relative posix path.
func CleanPath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = path.Clean("/" + p)
	return strings.TrimPrefix(p, "/")
}

// RelativePrefix returns "" for depth 0 and "../" repeated depth times otherwise.
func RelativePrefix(depth int) string {
	if depth <= 0 {
		return ""
	}
	return strings.Repeat("../", depth)
}

// Stats summarizes one export invocation.
type Stats struct {
	Pages          int   `json:"pages"`
	Files          int   `json:"files"`
	Assets         int   `json:"assets"`
	OriginalBytes  int64 `json:"original_bytes"`
	OptimizedBytes int64 `json:"optimized_bytes"`
}

// Result is what Generate returns on success.
type Result struct {
	Files  []ExportedFile
	Stats  Stats
	Report *Report
}
