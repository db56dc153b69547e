package export

import (
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/sitepress/internal/foundation/errors"
	"git.home.luguber.info/inful/sitepress/internal/logfields"
	"git.home.luguber.info/inful/sitepress/internal/metrics"
)

// Stage is a discrete unit of work in an export.
type Stage func(ctx context.Context) error

// StageName is a strongly-typed identifier for an export stage.
type StageName string

// Canonical stage names.
const (
	StageRenderPages   StageName = "render_pages"
	StageSynthesize    StageName = "synthesize"
	StageScaffold      StageName = "scaffold"
	StageExtractImages StageName = "extract_images"
	StageSEOArtifacts  StageName = "seo_artifacts"
	StageHostingFiles  StageName = "hosting_files"
	StageVerifyLinks   StageName = "verify_links"
	StagePackage       StageName = "package"
)

// StageErrorKind classifies the outcome of a stage.
type StageErrorKind string

const (
	StageErrorFatal    StageErrorKind = "fatal"    // Export must abort.
	StageErrorWarning  StageErrorKind = "warning"  // Non-fatal; record and continue.
	StageErrorCanceled StageErrorKind = "canceled" // Context cancellation.
)

// StageError is a structured error carrying the stage and underlying cause.
type StageError struct {
	Kind  StageErrorKind
	Stage StageName
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s stage %s: %v", e.Kind, e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

// NewFatalStageError creates a new fatal stage error.
func NewFatalStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorFatal, Stage: stage, Err: err}
}

func NewWarnStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorWarning, Stage: stage, Err: err}
}

func NewCanceledStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorCanceled, Stage: stage, Err: err}
}

// StageResult captures the high-level outcome of a stage.
type StageResult string

const (
	StageResultSuccess  StageResult = "success"
	StageResultWarning  StageResult = "warning"
	StageResultFatal    StageResult = "fatal"
	StageResultCanceled StageResult = "canceled"
)

// StageDef pairs a stage name with its executing function.
type StageDef struct {
	Name StageName
	Fn   Stage
}

// Pipeline is a fluent builder for ordered stage definitions.
type Pipeline struct{ Defs []StageDef }

// NewPipeline creates an empty pipeline.
func NewPipeline() *Pipeline { return &Pipeline{Defs: make([]StageDef, 0, 8)} }

// Add appends a stage unconditionally.
func (p *Pipeline) Add(name StageName, fn Stage) *Pipeline {
	p.Defs = append(p.Defs, StageDef{Name: name, Fn: fn})
	return p
}

// AddIf appends a stage only if cond is true.
func (p *Pipeline) AddIf(cond bool, name StageName, fn Stage) *Pipeline {
	if cond {
		p.Add(name, fn)
	}
	return p
}

// Build returns a copy of the stage definitions slice.
func (p *Pipeline) Build() []StageDef {
	out := make([]StageDef, len(p.Defs))
	copy(out, p.Defs)
	return out
}

// RunStages executes stages in order, recording timing and stopping on the
// first fatal or canceled stage. The returned error is a ClassifiedError
// carrying the stage as phase context.
func RunStages(ctx context.Context, report *Report, recorder metrics.Recorder, stages []StageDef) error {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			se := NewCanceledStageError(st.Name, err)
			report.recordStage(st.Name, 0, StageResultCanceled)
			report.AddIssue(IssueCanceled, st.Name, SeverityError, "", se.Error())
			recorder.IncStageResult(string(st.Name), metrics.ResultCanceled)
			return classify(se)
		}

		t0 := time.Now()
		err := runStage(ctx, st)
		dur := time.Since(t0)
		recorder.ObserveStageDuration(string(st.Name), dur)

		res, se := classifyStageResult(st.Name, err)
		report.recordStage(st.Name, dur, res)
		recorder.IncStageResult(string(st.Name), metrics.ResultLabel(res))
		slog.Debug("Stage finished", logfields.Stage(string(st.Name)), logfields.DurationMS(float64(dur.Microseconds())/1000), slog.String("result", string(res)))

		switch res {
		case StageResultWarning:
			report.AddIssue(IssueStageWarning, st.Name, SeverityWarning, "", se.Error())
		case StageResultFatal:
			report.AddIssue(IssueStageFailure, st.Name, SeverityError, "", se.Error())
			return classify(se)
		case StageResultCanceled:
			report.AddIssue(IssueCanceled, st.Name, SeverityError, "", se.Error())
			return classify(se)
		case StageResultSuccess:
		}
	}
	return nil
}

// runStage calls the stage function, turning a panic into a fatal stage
// error so that the export fails with phase context instead of crashing.
func runStage(ctx context.Context, st StageDef) (err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Stage panicked", logfields.Stage(string(st.Name)), slog.Any("panic", r))
			err = NewFatalStageError(st.Name, errors.InternalError("export stage panicked").
				WithContext("panic", fmt.Sprint(r)).
				WithContext("phase", string(st.Name)).
				Build())
		}
	}()
	return st.Fn(ctx)
}

func classifyStageResult(name StageName, err error) (StageResult, *StageError) {
	if err == nil {
		return StageResultSuccess, nil
	}
	var se *StageError
	if !stdErrors.As(err, &se) {
		switch {
		case stdErrors.Is(err, context.Canceled), stdErrors.Is(err, context.DeadlineExceeded):
			se = NewCanceledStageError(name, err)
		default:
			se = NewFatalStageError(name, err)
		}
	}
	switch se.Kind {
	case StageErrorWarning:
		return StageResultWarning, se
	case StageErrorCanceled:
		return StageResultCanceled, se
	default:
		return StageResultFatal, se
	}
}

// classify converts a terminal stage error into a ClassifiedError with phase context,
// keeping any classification already present in the chain.
func classify(se *StageError) error {
	if ce, ok := errors.AsClassified(se.Err); ok {
		if _, has := ce.Context().Get("phase"); !has {
			return ce.WithContext("phase", string(se.Stage))
		}
		return ce
	}
	cat := errors.CategoryInternal
	msg := "export stage failed"
	if se.Kind == StageErrorCanceled {
		cat = errors.CategoryCanceled
		msg = "export canceled"
	}
	return errors.WrapError(se, cat, msg).Fatal().WithContext("phase", string(se.Stage)).Build()
}
