package export

import (
	"context"
	stdErrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitepress/internal/foundation/errors"
)

func TestRunStagesSuccess(t *testing.T) {
	var order []StageName
	rec := func(name StageName) Stage {
		return func(context.Context) error {
			order = append(order, name)
			return nil
		}
	}
	defs := NewPipeline().
		Add(StageRenderPages, rec(StageRenderPages)).
		AddIf(false, StageVerifyLinks, rec(StageVerifyLinks)).
		Add(StagePackage, rec(StagePackage)).
		Build()

	report := NewReport("test", TargetStatic)
	require.NoError(t, RunStages(context.Background(), report, nil, defs))
	report.Finish(nil)

	assert.Equal(t, []StageName{StageRenderPages, StagePackage}, order)
	assert.Equal(t, StageResultSuccess, report.StageResults[StageRenderPages])
	assert.Equal(t, OutcomeSuccess, report.Outcome)
}

func TestRunStagesWarningContinues(t *testing.T) {
	ran := false
	defs := NewPipeline().
		Add(StageVerifyLinks, func(context.Context) error {
			return NewWarnStageError(StageVerifyLinks, stdErrors.New("2 broken links"))
		}).
		Add(StagePackage, func(context.Context) error { ran = true; return nil }).
		Build()

	report := NewReport("test", TargetStatic)
	require.NoError(t, RunStages(context.Background(), report, nil, defs))
	report.Finish(nil)

	assert.True(t, ran)
	assert.Equal(t, OutcomeWarning, report.Outcome)
	assert.Equal(t, 1, report.Warnings())
}

func TestRunStagesFatalStopsWithPhase(t *testing.T) {
	ran := false
	defs := NewPipeline().
		Add(StageRenderPages, func(context.Context) error { return stdErrors.New("boom") }).
		Add(StagePackage, func(context.Context) error { ran = true; return nil }).
		Build()

	report := NewReport("test", TargetProject)
	err := RunStages(context.Background(), report, nil, defs)
	require.Error(t, err)
	report.Finish(err)

	assert.False(t, ran)
	ce, ok := errors.AsClassified(err)
	require.True(t, ok)
	phase, _ := ce.Context().GetString("phase")
	assert.Equal(t, string(StageRenderPages), phase)
	assert.Equal(t, OutcomeFailed, report.Outcome)
}

func TestRunStagesKeepsClassification(t *testing.T) {
	defs := NewPipeline().
		Add(StagePackage, func(context.Context) error {
			return errors.PackagingError("write failed").WithContext("path", "a/b").Build()
		}).
		Build()

	err := RunStages(context.Background(), NewReport("x", TargetStatic), nil, defs)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryPackaging))
}

func TestRunStagesCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ran := false
	defs := NewPipeline().Add(StageRenderPages, func(context.Context) error { ran = true; return nil }).Build()

	report := NewReport("x", TargetStatic)
	err := RunStages(ctx, report, nil, defs)
	require.Error(t, err)
	report.Finish(err)

	assert.False(t, ran)
	assert.True(t, errors.HasCategory(err, errors.CategoryCanceled))
	assert.Equal(t, OutcomeCanceled, report.Outcome)
}

func TestRunStagesContextErrorFromStage(t *testing.T) {
	defs := NewPipeline().Add(StageExtractImages, func(context.Context) error { return context.Canceled }).Build()
	err := RunStages(context.Background(), NewReport("x", TargetStatic), nil, defs)
	assert.True(t, errors.HasCategory(err, errors.CategoryCanceled))
}

func TestRunStagesRecoversPanic(t *testing.T) {
	ran := false
	defs := NewPipeline().
		Add(StageSynthesize, func(context.Context) error { panic("template exploded") }).
		Add(StagePackage, func(context.Context) error { ran = true; return nil }).
		Build()

	report := NewReport("x", TargetProject)
	err := RunStages(context.Background(), report, nil, defs)
	require.Error(t, err)
	report.Finish(err)

	assert.False(t, ran)
	assert.True(t, errors.HasCategory(err, errors.CategoryInternal))
	ce, ok := errors.AsClassified(err)
	require.True(t, ok)
	phase, _ := ce.Context().GetString("phase")
	assert.Equal(t, string(StageSynthesize), phase)
	assert.Equal(t, StageResultFatal, report.StageResults[StageSynthesize])
	assert.Equal(t, OutcomeFailed, report.Outcome)
}
