package hosting

import (
	"log/slog"

	"git.home.luguber.info/inful/sitepress/internal/export"
	"git.home.luguber.info/inful/sitepress/internal/logfields"
)

// AppendFiles appends platform files to the generated set. Generated files
// win: a platform file whose path is already taken is skipped and recorded
// as a warning on report when it is non-nil.
func AppendFiles(files, extra []export.ExportedFile, report *export.Report) []export.ExportedFile {
	taken := make(map[string]bool, len(files))
	for _, f := range files {
		taken[f.Path] = true
	}
	for _, f := range extra {
		if taken[f.Path] {
			slog.Warn("Hosting file conflicts with generated output; skipping", logfields.Path(f.Path))
			if report != nil {
				report.AddIssue(export.IssueHostingConflict, export.StageHostingFiles, export.SeverityWarning,
					f.Path, "platform file conflicts with generated output; kept the generated file")
			}
			continue
		}
		taken[f.Path] = true
		files = append(files, f)
	}
	return files
}
