package export

import (
	"encoding/json"
	"sync"
	"time"

	"git.home.luguber.info/inful/sitepress/internal/foundation/errors"
)

// Outcome is the typed enumeration of final export result states.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeWarning  Outcome = "warning"
	OutcomeFailed   Outcome = "failed"
	OutcomeCanceled Outcome = "canceled"
)

// IssueCode enumerates machine-parseable issue identifiers.
// These codes are a stable contract and should only be appended.
type IssueCode string

const (
	IssueRenderFailure   IssueCode = "RENDER_FAILURE"
	IssueAssetDecode     IssueCode = "ASSET_DECODE_FAILURE"
	IssueAssetOptimize   IssueCode = "ASSET_OPTIMIZE_FAILURE"
	IssueBrokenLink      IssueCode = "BROKEN_LINK"
	IssueNormalization   IssueCode = "INPUT_NORMALIZED"
	IssueUnknownPlatform IssueCode = "UNKNOWN_HOSTING_PLATFORM"
	IssueCanceled        IssueCode = "EXPORT_CANCELED"
	IssueStageWarning    IssueCode = "STAGE_WARNING"
	IssueStageFailure    IssueCode = "STAGE_FAILURE"
	IssueHostingConflict IssueCode = "HOSTING_FILE_CONFLICT"
)

// IssueSeverity is the severity of a report issue.
type IssueSeverity string

const (
	SeverityError   IssueSeverity = "error"
	SeverityWarning IssueSeverity = "warning"
	SeverityInfo    IssueSeverity = "info"
)

// Issue is a structured report entry.
type Issue struct {
	Code     IssueCode     `json:"code"`
	Stage    StageName     `json:"stage,omitempty"`
	Severity IssueSeverity `json:"severity"`
	Subject  string        `json:"subject,omitempty"` // page slug, asset name or path
	Message  string        `json:"message"`
}

// Report captures metrics and issues of one export invocation.
type Report struct {
	mu sync.Mutex

	ExportID       string
	Target         Target
	Start          time.Time
	End            time.Time
	StageDurations map[StageName]time.Duration
	StageResults   map[StageName]StageResult
	Issues         []Issue
	Outcome        Outcome
	Stats          Stats
}

// NewReport starts a report for target.
func NewReport(exportID string, target Target) *Report {
	return &Report{
		ExportID:       exportID,
		Target:         target,
		Start:          time.Now(),
		StageDurations: make(map[StageName]time.Duration),
		StageResults:   make(map[StageName]StageResult),
	}
}

// AddIssue appends a structured issue. Safe for concurrent use.
func (r *Report) AddIssue(code IssueCode, stage StageName, severity IssueSeverity, subject, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Issues = append(r.Issues, Issue{Code: code, Stage: stage, Severity: severity, Subject: subject, Message: msg})
}

// Warnings counts warning-severity issues.
func (r *Report) Warnings() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, is := range r.Issues {
		if is.Severity == SeverityWarning {
			n++
		}
	}
	return n
}

func (r *Report) recordStage(name StageName, d time.Duration, res StageResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.StageDurations[name] = d
	r.StageResults[name] = res
}

// Finish stamps the end time and derives the outcome from stage results and issues.
func (r *Report) Finish(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.End = time.Now()
	if err != nil {
		r.Outcome = OutcomeFailed
		if errors.HasCategory(err, errors.CategoryCanceled) {
			r.Outcome = OutcomeCanceled
		}
		for _, res := range r.StageResults {
			if res == StageResultCanceled {
				r.Outcome = OutcomeCanceled
			}
		}
		return
	}
	r.Outcome = OutcomeSuccess
	for _, is := range r.Issues {
		if is.Severity == SeverityWarning || is.Severity == SeverityError {
			r.Outcome = OutcomeWarning
			break
		}
	}
}

// Duration is the wall-clock duration of the export.
func (r *Report) Duration() time.Duration { return r.End.Sub(r.Start) }

// reportJSON is the serialized, schema-versioned form of Report.
type reportJSON struct {
	SchemaVersion  int                `json:"schema_version"`
	ExportID       string             `json:"export_id"`
	Target         Target             `json:"target"`
	Start          time.Time          `json:"start"`
	End            time.Time          `json:"end"`
	DurationMS     int64              `json:"duration_ms"`
	Outcome        Outcome            `json:"outcome"`
	Stats          Stats              `json:"stats"`
	StageDurations map[string]float64 `json:"stage_durations_ms"`
	Issues         []Issue            `json:"issues"`
}

// MarshalJSON implements json.Marshaler.
func (r *Report) MarshalJSON() ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	durs := make(map[string]float64, len(r.StageDurations))
	for k, v := range r.StageDurations {
		durs[string(k)] = float64(v.Microseconds()) / 1000
	}
	issues := r.Issues
	if issues == nil {
		issues = []Issue{}
	}
	return json.Marshal(reportJSON{
		SchemaVersion:  1,
		ExportID:       r.ExportID,
		Target:         r.Target,
		Start:          r.Start,
		End:            r.End,
		DurationMS:     r.End.Sub(r.Start).Milliseconds(),
		Outcome:        r.Outcome,
		Stats:          r.Stats,
		StageDurations: durs,
		Issues:         issues,
	})
}
