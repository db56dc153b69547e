package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyExportID   = "export_id"
	KeyTarget     = "target"
	KeyPhase      = "phase"
	KeyStage      = "stage"
	KeyPage       = "page"
	KeyLanguage   = "language"
	KeyComponent  = "component"
	KeyAsset      = "asset"
	KeyPath       = "path"
	KeyPlatform   = "platform"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func ExportID(id string) slog.Attr    { return slog.String(KeyExportID, id) }
func Target(t string) slog.Attr       { return slog.String(KeyTarget, t) }
func Phase(p string) slog.Attr        { return slog.String(KeyPhase, p) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func Page(slug string) slog.Attr      { return slog.String(KeyPage, slug) }
func Language(l string) slog.Attr     { return slog.String(KeyLanguage, l) }
func Component(kind string) slog.Attr { return slog.String(KeyComponent, kind) }
func Asset(name string) slog.Attr     { return slog.String(KeyAsset, name) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Platform(p string) slog.Attr     { return slog.String(KeyPlatform, p) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
