package remove_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/slok/appforge/internal/app/remove"
	"github.com/slok/appforge/internal/build"
	"github.com/slok/appforge/internal/build/buildmock"
	"github.com/slok/appforge/internal/log"
	"github.com/slok/appforge/internal/model"
	"github.com/slok/appforge/internal/storage/memory"
	"github.com/slok/appforge/internal/storage/storagemock"
)

func TestNewService(t *testing.T) {
	tests := map[string]struct {
		config remove.ServiceConfig
		expErr bool
	}{
		"valid config should create service": {
			config: remove.ServiceConfig{
				Repository: &storagemock.MockRepository{},
				Builder:    &buildmock.MockProjectBuilder{},
				Logger:     log.Noop,
			},
		},
		"missing repository should fail": {
			config: remove.ServiceConfig{Builder: &buildmock.MockProjectBuilder{}},
			expErr: true,
		},
		"missing builder should fail": {
			config: remove.ServiceConfig{Repository: &storagemock.MockRepository{}},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)

			svc, err := remove.NewService(test.config)

			if test.expErr {
				require.Error(err)
				require.Nil(svc)
			} else {
				require.NoError(err)
				require.NotNil(svc)
			}
		})
	}
}

func TestService_Run(t *testing.T) {
	p := &model.Project{
		ID:         "3",
		Name:       "Blog Platform",
		Status:     model.ProjectStatusBuilding,
		Progress:   65,
		CreatedAt:  time.Date(2024, 12, 18, 11, 20, 0, 0, time.UTC),
		Type:       model.ProjectTypeWebsite,
		Deployment: model.DeploymentStatusPending,
	}

	tests := map[string]struct {
		mock     func(r *storagemock.MockRepository, b *buildmock.MockProjectBuilder)
		expErr   bool
		expErrIs error
	}{
		"A building project should stop its build and be deleted": {
			mock: func(r *storagemock.MockRepository, b *buildmock.MockProjectBuilder) {
				r.On("GetProject", mock.Anything, "3").Once().Return(p, nil)
				b.On("Stop", "3").Once().Return(nil)
				r.On("DeleteProject", mock.Anything, "3").Once().Return(nil)
			},
		},
		"A project without running build should be deleted": {
			mock: func(r *storagemock.MockRepository, b *buildmock.MockProjectBuilder) {
				r.On("GetProject", mock.Anything, "3").Once().Return(p, nil)
				b.On("Stop", "3").Once().Return(fmt.Errorf("no build: %w", model.ErrNotFound))
				r.On("DeleteProject", mock.Anything, "3").Once().Return(nil)
			},
		},
		"A missing project should fail": {
			mock: func(r *storagemock.MockRepository, b *buildmock.MockProjectBuilder) {
				r.On("GetProject", mock.Anything, "3").Once().Return(nil, model.ErrNotFound)
			},
			expErr:   true,
			expErrIs: model.ErrNotFound,
		},
		"An error stopping the build should not delete the project": {
			mock: func(r *storagemock.MockRepository, b *buildmock.MockProjectBuilder) {
				r.On("GetProject", mock.Anything, "3").Once().Return(p, nil)
				b.On("Stop", "3").Once().Return(fmt.Errorf("something"))
			},
			expErr: true,
		},
		"An error deleting the project should fail": {
			mock: func(r *storagemock.MockRepository, b *buildmock.MockProjectBuilder) {
				r.On("GetProject", mock.Anything, "3").Once().Return(p, nil)
				b.On("Stop", "3").Once().Return(model.ErrNotFound)
				r.On("DeleteProject", mock.Anything, "3").Once().Return(fmt.Errorf("something"))
			},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			mRepo := &storagemock.MockRepository{}
			mBuilder := &buildmock.MockProjectBuilder{}
			test.mock(mRepo, mBuilder)

			svc, err := remove.NewService(remove.ServiceConfig{Repository: mRepo, Builder: mBuilder})
			require.NoError(err)

			got, err := svc.Run(context.Background(), remove.Request{ID: "3"})

			if test.expErr {
				assert.Error(err)
				if test.expErrIs != nil {
					assert.ErrorIs(err, test.expErrIs)
				}
			} else if assert.NoError(err) {
				assert.Equal(p, got)
			}

			mRepo.AssertExpectations(t)
			mBuilder.AssertExpectations(t)
		})
	}
}

func TestService_RunStopsBuildBeforeDeleting(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	repo, err := memory.NewRepository(memory.RepositoryConfig{})
	require.NoError(err)
	require.NoError(repo.CreateProject(context.Background(), model.Project{
		ID:         "3",
		Name:       "Blog Platform",
		Status:     model.ProjectStatusBuilding,
		Progress:   10,
		CreatedAt:  time.Now().UTC(),
		Type:       model.ProjectTypeWebsite,
		Deployment: model.DeploymentStatusPending,
	}))

	sim, err := build.NewSimulator(build.SimulatorConfig{
		Repository:   repo,
		Increment:    build.SequenceIncrement(0.001),
		TickInterval: time.Millisecond,
	})
	require.NoError(err)
	ctrl, err := build.NewController(build.ControllerConfig{Starter: sim})
	require.NoError(err)

	h, err := ctrl.Start(context.Background(), "3")
	require.NoError(err)

	svc, err := remove.NewService(remove.ServiceConfig{Repository: repo, Builder: ctrl})
	require.NoError(err)
	_, err = svc.Run(context.Background(), remove.Request{ID: "3"})
	require.NoError(err)

	assert.ErrorIs(h.Err(), build.ErrCancelled)
	assert.Empty(ctrl.Running())

	// The stopped simulation must not bring the project back.
	time.Sleep(20 * time.Millisecond)
	_, err = repo.GetProject(context.Background(), "3")
	assert.ErrorIs(err, model.ErrNotFound)
}
