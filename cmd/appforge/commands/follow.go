package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/slok/appforge/internal/app/cancel"
	"github.com/slok/appforge/internal/build"
	"github.com/slok/appforge/internal/model"
	"github.com/slok/appforge/internal/printer"
	"github.com/slok/appforge/internal/storage"
)

// followBuild prints the progress events of a build until it finishes.
// If ctx ends first the build is cancelled, its progress stays stored so it can be resumed with `build`.
func followBuild(ctx context.Context, h *build.Handle, events <-chan build.Event, p printer.Printer, repo storage.Repository, builder build.ProjectBuilder) error {
	printEvent := func(e build.Event) error {
		if e.Project.ID != h.ProjectID() {
			return nil
		}
		if e.Kind != build.EventProgress && e.Kind != build.EventReady {
			return nil
		}
		if err := p.PrintProgress(e.Project); err != nil {
			return fmt.Errorf("could not print progress: %w", err)
		}
		return nil
	}

	for {
		select {
		case e, ok := <-events:
			if !ok {
				return nil
			}
			if err := printEvent(e); err != nil {
				return err
			}

		case <-h.Done():
			// Events are sent before the simulation is done.
			for len(events) > 0 {
				if err := printEvent(<-events); err != nil {
					return err
				}
			}

			switch err := h.Err(); err {
			case nil:
				return nil
			case build.ErrAbandoned:
				return fmt.Errorf("project %s was removed or changed while building: %w", h.ProjectID(), err)
			default:
				return err
			}

		case <-ctx.Done():
			svc, err := cancel.NewService(cancel.ServiceConfig{Repository: repo, Builder: builder})
			if err != nil {
				return fmt.Errorf("could not create service: %w", err)
			}

			// The command context is already done.
			pj, err := svc.Run(context.Background(), cancel.Request{ID: h.ProjectID()})
			if errors.Is(err, model.ErrNotFound) {
				// Finished or removed meanwhile.
				return nil
			}
			if err != nil {
				return fmt.Errorf("could not cancel build: %w", err)
			}

			return p.PrintMessage(fmt.Sprintf("Build of project %s cancelled at %.0f%%, resume it with: appforge build %s", pj.ID, pj.Progress, pj.ID))
		}
	}
}
