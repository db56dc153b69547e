package export

import "log/slog"

// Phase names a progress reporting phase.
type Phase string

const (
	PhaseGenerating       Phase = "generating"
	PhaseExtractingImages Phase = "extracting-images"
	PhasePackaging        Phase = "packaging"
	PhaseComplete         Phase = "complete"
)

// Progress is a fire-and-forget status event.
type Progress struct {
	Phase      Phase  `json:"phase"`
	Current    int    `json:"current"`
	Total      int    `json:"total"`
	Message    string `json:"message"`
	ImageCount int    `json:"imageCount,omitempty"`
	FileCount  int    `json:"fileCount,omitempty"`
}

// ProgressFunc receives progress events. It may be nil.
type ProgressFunc func(Progress)

// Emit delivers ev to fn. A nil listener is a no-op and a panicking listener
// is logged and otherwise ignored, so listeners never alter export behavior.
func (fn ProgressFunc) Emit(ev Progress) {
	if fn == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("Progress listener panicked", "phase", string(ev.Phase), "panic", r)
		}
	}()
	fn(ev)
}
