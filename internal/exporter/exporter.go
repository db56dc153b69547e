// Package exporter is the entry point of an export: it normalizes the site,
// resolves the hosting preset and optimization profile, runs the target's
// emitter stages and records metrics and history.
package exporter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/sitepress/internal/assets"
	"git.home.luguber.info/inful/sitepress/internal/export"
	"git.home.luguber.info/inful/sitepress/internal/foundation/errors"
	"git.home.luguber.info/inful/sitepress/internal/history"
	"git.home.luguber.info/inful/sitepress/internal/hosting"
	"git.home.luguber.info/inful/sitepress/internal/logfields"
	"git.home.luguber.info/inful/sitepress/internal/metrics"
	"git.home.luguber.info/inful/sitepress/internal/project"
	"git.home.luguber.info/inful/sitepress/internal/site"
	"git.home.luguber.info/inful/sitepress/internal/static"
)

// Service runs exports. The zero value is not usable; use NewService.
type Service struct {
	recorder  metrics.Recorder
	history   history.Store
	optimizer assets.Optimizer
	newID     func() string
}

// NewService creates a Service with a no-op recorder and no history.
func NewService() *Service {
	return &Service{
		recorder: metrics.NoopRecorder{},
		newID:    uuid.NewString,
	}
}

// WithRecorder sets the metrics recorder.
func (s *Service) WithRecorder(r metrics.Recorder) *Service {
	if r != nil {
		s.recorder = r
	}
	return s
}

// WithHistory records a summary of every export in store.
func (s *Service) WithHistory(store history.Store) *Service {
	s.history = store
	return s
}

// WithOptimizer replaces the image optimizer (for testing).
func (s *Service) WithOptimizer(o assets.Optimizer) *Service {
	s.optimizer = o
	return s
}

// Generate exports in to target with a default Service.
func Generate(ctx context.Context, in *site.Site, target export.Target, opts export.Options, onProgress export.ProgressFunc) (*export.Result, error) {
	return NewService().Generate(ctx, in, target, opts, onProgress)
}

type emitter interface {
	Stages() []export.StageDef
	Files() []export.ExportedFile
	Stats() export.Stats
}

// Generate exports in to target. On failure the result is nil and the error
// is a ClassifiedError carrying the failing phase; no partial file set is
// returned.
func (s *Service) Generate(ctx context.Context, in *site.Site, target export.Target, opts export.Options, onProgress export.ProgressFunc) (*export.Result, error) {
	report := export.NewReport(s.newID(), target)
	logger := slog.With(logfields.ExportID(report.ExportID), logfields.Target(string(target)))

	result, err := s.generate(ctx, in, target, opts, onProgress, report, logger)
	report.Finish(err)
	s.recorder.ObserveExportDuration(string(target), report.Duration())
	s.recorder.IncExportOutcome(string(target), string(report.Outcome))
	s.record(in, opts, report, err, logger)

	if err != nil {
		logger.Error("Export failed", logfields.Error(err), slog.String("outcome", string(report.Outcome)))
		return nil, err
	}
	logger.Info("Export complete",
		slog.Int("files", result.Stats.Files),
		slog.Int("assets", result.Stats.Assets),
		slog.Int("warnings", report.Warnings()),
		logfields.DurationMS(float64(report.Duration().Microseconds())/1000))
	onProgress.Emit(export.Progress{
		Phase:      export.PhaseComplete,
		Current:    result.Stats.Files,
		Total:      result.Stats.Files,
		Message:    "Export complete",
		ImageCount: result.Stats.Assets,
		FileCount:  result.Stats.Files,
	})
	return result, nil
}

func (s *Service) generate(ctx context.Context, in *site.Site, target export.Target, opts export.Options, onProgress export.ProgressFunc, report *export.Report, logger *slog.Logger) (result *export.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Export panicked", slog.Any("panic", r))
			result = nil
			err = errors.InternalError("export panicked").
				WithContext("panic", fmt.Sprint(r)).
				WithContext("phase", "export").
				Build()
		}
	}()
	if target != export.TargetStatic && target != export.TargetProject {
		return nil, errors.ValidationError("unknown export target").WithContext("target", string(target)).WithContext("phase", "load").Build()
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.CanceledError("export canceled").WithCause(err).WithContext("phase", "load").Build()
	}

	normalized, warnings, err := site.Normalize(in)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		report.AddIssue(export.IssueNormalization, "", export.SeverityInfo, "", w)
		logger.Info("Normalized site input", slog.String("detail", w))
	}

	preset, known := hosting.Lookup(opts.HostingPlatform)
	if opts.HostingPlatform != "" && !known {
		report.AddIssue(export.IssueUnknownPlatform, export.StageHostingFiles, export.SeverityWarning, opts.HostingPlatform,
			"unknown hosting platform; using "+preset.Name)
		logger.Warn("Unknown hosting platform", logfields.Platform(opts.HostingPlatform))
	}
	profile := hosting.MergeProfile(preset.Profile, opts.ImageOptimization)

	var em emitter
	switch target {
	case export.TargetStatic:
		em = static.New(static.Config{
			Site: normalized, Options: opts, Profile: profile, Preset: preset,
			Progress: onProgress, Recorder: s.recorder, Report: report, Optimizer: s.optimizer,
		})
	case export.TargetProject:
		var p *hosting.Preset
		if known && preset.ID != hosting.GenericID {
			p = &preset
		}
		em = project.New(project.Config{
			Site: normalized, Options: opts, Profile: profile, Preset: p,
			Progress: onProgress, Recorder: s.recorder, Report: report, Optimizer: s.optimizer,
		})
	}

	if err := export.RunStages(ctx, report, s.recorder, em.Stages()); err != nil {
		return nil, err
	}
	stats := em.Stats()
	report.Stats = stats
	return &export.Result{Files: em.Files(), Stats: stats, Report: report}, nil
}

func (s *Service) record(in *site.Site, opts export.Options, report *export.Report, exportErr error, logger *slog.Logger) {
	if s.history == nil {
		return
	}
	name := ""
	if in != nil {
		name = in.Name
	}
	entry := history.Entry{
		ID:             report.ExportID,
		Site:           name,
		Target:         string(report.Target),
		Platform:       opts.HostingPlatform,
		Outcome:        string(report.Outcome),
		Started:        report.Start,
		Duration:       report.Duration(),
		Pages:          report.Stats.Pages,
		Files:          report.Stats.Files,
		Assets:         report.Stats.Assets,
		OriginalBytes:  report.Stats.OriginalBytes,
		OptimizedBytes: report.Stats.OptimizedBytes,
		Warnings:       report.Warnings(),
	}
	if exportErr != nil {
		entry.Error = exportErr.Error()
	}
	if data, err := json.Marshal(report); err == nil {
		entry.Report = data
	}
	// History must outlive a canceled export context.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.history.Record(ctx, entry); err != nil {
		logger.Warn("Failed to record export history", logfields.Error(err))
	}
}
