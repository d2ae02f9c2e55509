package build

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/slok/appforge/internal/log"
	"github.com/slok/appforge/internal/metrics"
	"github.com/slok/appforge/internal/model"
	"github.com/slok/appforge/internal/storage"
)

var (
	// ErrNotBuilding is returned when a simulation is requested for a project that is not building.
	ErrNotBuilding = fmt.Errorf("project is not building: %w", model.ErrNotValid)
	// ErrCancelled is the error of a simulation stopped before the project was ready.
	ErrCancelled = errors.New("build simulation cancelled")
	// ErrAbandoned is the error of a simulation whose project was removed or changed by other means.
	ErrAbandoned = errors.New("build simulation abandoned")
	// ErrBuildOwned is returned when the project build is held by another simulation, usually in another process.
	ErrBuildOwned = fmt.Errorf("project is being built by another simulation: %w", model.ErrConflict)
)

// DefaultLeaseTTL is the default time a build lease lasts without being renewed by a tick.
const DefaultLeaseTTL = 10 * time.Second

const releaseTimeout = 5 * time.Second

// SimulatorConfig is the configuration for the build simulator.
type SimulatorConfig struct {
	Repository      storage.Repository
	Increment       IncrementFunc
	TickInterval    time.Duration
	NewTicker       TickerFunc
	Notifier        Notifier
	MetricsRecorder metrics.Recorder
	Logger          log.Logger
	// Owner identifies this simulator on the build leases. Defaults to a new ULID.
	Owner string
	// LeaseTTL is how long a build lease lasts without being renewed.
	LeaseTTL time.Duration
	TimeNow  func() time.Time
}

func (c *SimulatorConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}
	if c.Increment == nil {
		c.Increment = RandomIncrement(DefaultMaxIncrement, nil)
	}
	if c.TickInterval <= 0 {
		c.TickInterval = DefaultTickInterval
	}
	if c.NewTicker == nil {
		c.NewTicker = NewTimeTicker
	}
	if c.Notifier == nil {
		c.Notifier = NoopNotifier
	}
	if c.MetricsRecorder == nil {
		c.MetricsRecorder = metrics.Noop
	}
	if c.Owner == "" {
		c.Owner = ulid.Make().String()
	}
	if c.LeaseTTL <= 0 {
		c.LeaseTTL = DefaultLeaseTTL
	}
	// The lease must outlive several ticks.
	if minTTL := 3 * c.TickInterval; c.LeaseTTL < minTTL {
		c.LeaseTTL = minTTL
	}
	if c.TimeNow == nil {
		c.TimeNow = time.Now
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "build.Simulator", "owner": c.Owner})
	return nil
}

// Simulator fakes the asynchronous build of projects by advancing their
// progress on every tick until they are ready.
type Simulator struct {
	repo      storage.Repository
	increment IncrementFunc
	interval  time.Duration
	newTicker TickerFunc
	notifier  Notifier
	recorder  metrics.Recorder
	owner     string
	leaseTTL  time.Duration
	timeNow   func() time.Time
	logger    log.Logger
}

// NewSimulator creates a new build simulator.
func NewSimulator(cfg SimulatorConfig) (*Simulator, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Simulator{
		repo:      cfg.Repository,
		increment: cfg.Increment,
		interval:  cfg.TickInterval,
		newTicker: cfg.NewTicker,
		notifier:  cfg.Notifier,
		recorder:  cfg.MetricsRecorder,
		owner:     cfg.Owner,
		leaseTTL:  cfg.LeaseTTL,
		timeNow:   cfg.TimeNow,
		logger:    cfg.Logger,
	}, nil
}

// Start begins the build simulation of a project and returns the handle that owns it.
// The project must exist and be building, otherwise nothing is started.
// The simulator claims the project build lease first, a project built by another
// simulator with a valid lease fails with ErrBuildOwned.
// The simulation ends when the project is ready, the handle is stopped or ctx is cancelled.
func (s *Simulator) Start(ctx context.Context, projectID string) (*Handle, error) {
	p, err := s.repo.GetProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("could not get project: %w", err)
	}

	if !p.IsBuilding() {
		return nil, fmt.Errorf("project %s is %s: %w", p.ID, p.Status, ErrNotBuilding)
	}

	err = s.repo.ClaimBuild(ctx, p.ID, s.lease(), s.timeNow())
	switch {
	case err == nil:
	case errors.Is(err, model.ErrConflict):
		return nil, fmt.Errorf("project %s: %w", p.ID, ErrBuildOwned)
	case errors.Is(err, model.ErrNotValid):
		return nil, fmt.Errorf("project %s: %w", p.ID, ErrNotBuilding)
	default:
		return nil, fmt.Errorf("could not claim project build: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	h := &Handle{
		projectID: p.ID,
		cancel:    cancel,
		done:      make(chan struct{}),
	}

	ticker := s.newTicker(s.interval)
	go s.run(runCtx, h, ticker, *p)

	s.logger.Debugf("Started build simulation of project %s at %.1f%%", p.ID, p.Progress)

	return h, nil
}

func (s *Simulator) run(ctx context.Context, h *Handle, ticker Ticker, last model.Project) {
	logger := s.logger.WithValues(log.Kv{"project": h.projectID})
	startedAt := time.Now()

	s.recorder.AddRunningBuilds(ctx, 1)
	defer s.recorder.AddRunningBuilds(ctx, -1)
	defer close(h.done)
	defer ticker.Stop()
	defer s.release(ctx, h.projectID, logger)

	finish := func(outcome Outcome, kind EventKind, result metrics.BuildResult) {
		h.setResult(Result{ProjectID: h.projectID, Outcome: outcome, Progress: last.Progress})
		s.recorder.ObserveBuildFinished(ctx, result, time.Since(startedAt))
		s.notifier.Notify(ctx, Event{Kind: kind, Project: last, At: time.Now().UTC()})
	}

	for {
		select {
		case <-ctx.Done():
			logger.Debugf("Build simulation cancelled at %.1f%%", last.Progress)
			finish(OutcomeCancelled, EventCancelled, metrics.BuildResultCancelled)
			return

		case <-ticker.C():
			// A stop may race with a pending tick, stopping always wins.
			if ctx.Err() != nil {
				continue
			}

			s.recorder.IncBuildTick(ctx)
			st, p, err := s.tick(ctx, h.projectID)
			if err != nil {
				logger.Warningf("Build tick failed, retrying on next tick: %s", err)
				continue
			}
			if p != nil {
				last = *p
			}

			switch st {
			case tickProgressed:
				s.notifier.Notify(ctx, Event{Kind: EventProgress, Project: last, At: time.Now().UTC()})
			case tickReady:
				logger.Infof("Project %s is ready", h.projectID)
				finish(OutcomeReady, EventReady, metrics.BuildResultReady)
				return
			case tickAbandoned:
				logger.Infof("Project %s is gone, no longer building or taken over, stopping its build simulation", h.projectID)
				finish(OutcomeAbandoned, EventAbandoned, metrics.BuildResultAbandoned)
				return
			}
		}
	}
}

func (s *Simulator) lease() model.BuildLease {
	return model.BuildLease{Owner: s.owner, Until: s.timeNow().Add(s.leaseTTL)}
}

// release drops the build lease, the simulation context may already be done.
func (s *Simulator) release(ctx context.Context, projectID string, logger log.Logger) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()

	if err := s.repo.ReleaseBuild(ctx, projectID, s.owner); err != nil {
		logger.Warningf("Could not release build lease: %s", err)
	}
}

type tickState int

const (
	tickProgressed tickState = iota
	tickReady
	tickAbandoned
)

// tick advances the project progress once, the returned project is the persisted state.
func (s *Simulator) tick(ctx context.Context, projectID string) (tickState, *model.Project, error) {
	p, err := s.repo.GetProject(ctx, projectID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return tickAbandoned, nil, nil
		}
		return 0, nil, fmt.Errorf("could not get project: %w", err)
	}

	if !p.IsBuilding() {
		return tickAbandoned, p, nil
	}

	from := p.Progress
	next := p.Progress + sanitizeIncrement(s.increment())
	if next >= model.ProgressMax {
		// Progress, status and deployment must change in the same update.
		p.Progress = model.ProgressMax
		p.Status = model.ProjectStatusReady
		p.Deployment = model.DeploymentStatusDeployed
	} else {
		p.Progress = next
	}

	// Only written if nobody else changed or took over the project since it was read.
	err = s.repo.AdvanceBuild(ctx, *p, from, s.lease())
	if err != nil {
		if errors.Is(err, model.ErrNotFound) || errors.Is(err, model.ErrConflict) {
			return tickAbandoned, nil, nil
		}
		return 0, nil, fmt.Errorf("could not update project: %w", err)
	}

	if p.Status == model.ProjectStatusReady {
		return tickReady, p, nil
	}

	return tickProgressed, p, nil
}

// Outcome is how a build simulation finished.
type Outcome string

const (
	// OutcomeReady means the project reached 100% and is ready.
	OutcomeReady Outcome = "ready"
	// OutcomeCancelled means the simulation was stopped before finishing.
	OutcomeCancelled Outcome = "cancelled"
	// OutcomeAbandoned means the project was removed or changed by other means.
	OutcomeAbandoned Outcome = "abandoned"
)

// Result is the final state of a build simulation.
type Result struct {
	ProjectID string
	Outcome   Outcome
	// Progress is the last known project progress.
	Progress float64
}

// Handle owns a running build simulation.
type Handle struct {
	projectID string
	cancel    context.CancelFunc
	done      chan struct{}

	mu     sync.Mutex
	result Result
}

// ProjectID returns the ID of the project being simulated.
func (h *Handle) ProjectID() string { return h.projectID }

// Stop stops the simulation and waits until it has exited, once Stop returns the
// project will not be modified by this simulation anymore. Safe to call multiple times.
func (h *Handle) Stop() {
	h.cancel()
	<-h.done
}

// Done returns a channel that is closed when the simulation has finished.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Wait blocks until the simulation finishes or ctx is done.
func (h *Handle) Wait(ctx context.Context) (Result, error) {
	select {
	case <-h.done:
		return h.Result(), nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Result returns the simulation result, only meaningful after Done is closed.
func (h *Handle) Result() Result {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.result
}

// Err returns nil if the project became ready, ErrCancelled or ErrAbandoned otherwise.
// It returns nil while the simulation is still running.
func (h *Handle) Err() error {
	switch h.Result().Outcome {
	case OutcomeCancelled:
		return ErrCancelled
	case OutcomeAbandoned:
		return ErrAbandoned
	default:
		return nil
	}
}

func (h *Handle) setResult(r Result) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.result = r
}
