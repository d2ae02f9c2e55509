package metrics

import (
	"context"
	"time"
)

// BuildResult is the way a build simulation finished.
type BuildResult string

const (
	BuildResultReady     BuildResult = "ready"
	BuildResultCancelled BuildResult = "cancelled"
	BuildResultAbandoned BuildResult = "abandoned"
)

// Recorder knows how to record build simulation metrics.
type Recorder interface {
	// IncBuildTick counts a processed build tick.
	IncBuildTick(ctx context.Context)
	// AddRunningBuilds changes the number of builds being simulated.
	AddRunningBuilds(ctx context.Context, delta int)
	// ObserveBuildFinished records a finished build simulation with its duration.
	ObserveBuildFinished(ctx context.Context, result BuildResult, duration time.Duration)
}

// Noop is a metrics recorder that doesn't record anything.
const Noop = noop(0)

type noop int

func (noop) IncBuildTick(_ context.Context)                                         {}
func (noop) AddRunningBuilds(_ context.Context, _ int)                              {}
func (noop) ObserveBuildFinished(_ context.Context, _ BuildResult, _ time.Duration) {}
