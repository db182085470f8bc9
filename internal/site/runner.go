package site

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/metrics"
)

// runStages executes stages in order, recording timing and stopping on the
// first fatal, skip or cancellation error. Warning errors are recorded and
// the run proceeds to the next stage.
func runStages(ctx context.Context, bs *BuildState, stages []StageDef) error {
	rec := bs.Generator.recorder
	for _, st := range stages {
		select {
		case <-ctx.Done():
			se := newCanceledStageError(st.Name, ctx.Err())
			bs.Report.recordStageError(se)
			rec.IncStageResult(string(st.Name), metrics.ResultCanceled)
			return se
		default:
		}
		t0 := time.Now()
		err := st.Fn(ctx, bs)
		dur := time.Since(t0)
		bs.Report.StageDurations[string(st.Name)] = dur
		rec.ObserveStageDuration(string(st.Name), dur)
		slog.Debug("Stage finished",
			logfields.BuildID(bs.Report.BuildID),
			logfields.Stage(string(st.Name)),
			logfields.DurationMS(float64(dur.Milliseconds())))
		if err == nil {
			bs.Report.bumpStageSuccess(st.Name)
			rec.IncStageResult(string(st.Name), metrics.ResultSuccess)
			continue
		}
		var se *StageError
		if !errors.As(err, &se) {
			// Wrap unknown errors as fatal by default.
			se = newFatalStageError(st.Name, err)
		}
		bs.Report.recordStageError(se)
		switch se.Kind {
		case StageErrorWarning:
			rec.IncStageResult(string(st.Name), metrics.ResultWarning)
			slog.Warn("Stage completed with warning",
				logfields.Stage(string(st.Name)),
				logfields.Error(se.Err))
			continue
		case StageErrorSkip:
			rec.IncStageResult(string(st.Name), metrics.ResultSkipped)
			slog.Info("Build skipped",
				logfields.Stage(string(st.Name)),
				logfields.Error(se.Err))
			return se
		case StageErrorCanceled:
			rec.IncStageResult(string(st.Name), metrics.ResultCanceled)
			return se
		default:
			rec.IncStageResult(string(st.Name), metrics.ResultFatal)
			slog.Error("Stage failed",
				logfields.Stage(string(st.Name)),
				logfields.Error(se.Err))
			return se
		}
	}
	return nil
}
