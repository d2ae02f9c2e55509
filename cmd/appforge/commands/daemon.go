package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appbuild "github.com/slok/appforge/internal/app/build"
	"github.com/slok/appforge/internal/app/list"
	"github.com/slok/appforge/internal/build"
	"github.com/slok/appforge/internal/log"
	metricsprometheus "github.com/slok/appforge/internal/metrics/prometheus"
	"github.com/slok/appforge/internal/model"
)

type DaemonCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	metricsListenAddr string
	rescanInterval    time.Duration
	sim               simulationFlags
}

// NewDaemonCommand returns the daemon command.
func NewDaemonCommand(rootCmd *RootCommand, app *kingpin.Application) *DaemonCommand {
	c := &DaemonCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("daemon", "Run the builds of every building project until stopped.")
	c.Cmd.Flag("metrics-listen-address", "Address to serve Prometheus metrics on /metrics, disabled when empty.").Default(":8081").StringVar(&c.metricsListenAddr)
	c.Cmd.Flag("rescan-interval", "Time between scans for new building projects.").Default("2s").DurationVar(&c.rescanInterval)
	c.sim.register(c.Cmd)

	return c
}

func (c DaemonCommand) Name() string { return c.Cmd.FullCommand() }

func (c DaemonCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	if err := c.sim.validate(); err != nil {
		return err
	}
	if c.rescanInterval <= 0 {
		return fmt.Errorf("--rescan-interval must be positive")
	}

	repo, err := c.rootCmd.newRepository(ctx)
	if err != nil {
		return err
	}
	defer repo.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder, err := metricsprometheus.NewRecorder(metricsprometheus.Config{Registerer: reg})
	if err != nil {
		return fmt.Errorf("could not create metrics recorder: %w", err)
	}

	ctrl, err := newBuildController(simulationConfig{
		repo:     repo,
		flags:    c.sim,
		recorder: recorder,
		logger:   logger,
	})
	if err != nil {
		return err
	}
	defer ctrl.StopAll()

	listSvc, err := list.NewService(list.ServiceConfig{Repository: repo, Logger: logger})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}
	buildSvc, err := appbuild.NewService(appbuild.ServiceConfig{Repository: repo, Builder: ctrl, Logger: logger})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	var g run.Group

	// Build scheduler.
	{
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		g.Add(
			func() error {
				ticker := time.NewTicker(c.rescanInterval)
				defer ticker.Stop()
				for {
					resumeBuilds(ctx, ctrl, listSvc, buildSvc, logger)

					select {
					case <-ctx.Done():
						return nil
					case <-ticker.C:
					}
				}
			},
			func(_ error) {
				cancel()
				ctrl.StopAll()
			},
		)
	}

	// Metrics server.
	if c.metricsListenAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		server := &http.Server{
			Addr:              c.metricsListenAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}

		g.Add(
			func() error {
				logger.Infof("Metrics listening on %s", c.metricsListenAddr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("metrics server failed: %w", err)
				}
				return nil
			},
			func(_ error) {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = server.Shutdown(ctx)
			},
		)
	}

	logger.Infof("Daemon started")
	err = g.Run()
	logger.Infof("Daemon stopped")

	return err
}

// resumeBuilds starts the builds of the building projects that are not already running.
// Projects built by another process are left to it. It returns the IDs of the started builds.
func resumeBuilds(ctx context.Context, ctrl *build.Controller, listSvc *list.Service, buildSvc *appbuild.Service, logger log.Logger) []string {
	building := model.ProjectStatusBuilding
	projects, err := listSvc.Run(ctx, list.Request{StatusFilter: &building})
	if err != nil {
		logger.Errorf("Could not list building projects: %s", err)
		return nil
	}

	running := map[string]bool{}
	for _, id := range ctrl.Running() {
		running[id] = true
	}

	var started []string
	for _, p := range projects {
		if running[p.ID] {
			continue
		}
		_, err := buildSvc.Run(ctx, appbuild.Request{ID: p.ID})
		switch {
		case err == nil:
			started = append(started, p.ID)
		case errors.Is(err, build.ErrBuildOwned):
			logger.Debugf("Project %s is being built by another process", p.ID)
		case errors.Is(err, build.ErrNotBuilding), errors.Is(err, model.ErrNotFound):
			// Changed or removed since listed.
		default:
			logger.Warningf("Could not start build of project %s: %s", p.ID, err)
		}
	}

	return started
}
