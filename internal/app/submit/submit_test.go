package submit_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/slok/appforge/internal/app/submit"
	"github.com/slok/appforge/internal/build"
	"github.com/slok/appforge/internal/build/buildmock"
	"github.com/slok/appforge/internal/log"
	"github.com/slok/appforge/internal/model"
	"github.com/slok/appforge/internal/storage/memory"
	"github.com/slok/appforge/internal/storage/storagemock"
)

func TestNewService(t *testing.T) {
	tests := map[string]struct {
		config submit.ServiceConfig
		expErr bool
	}{
		"valid config should create service": {
			config: submit.ServiceConfig{
				Repository: &storagemock.MockRepository{},
				Builder:    &buildmock.MockProjectBuilder{},
				Logger:     log.Noop,
			},
		},
		"missing repository should fail": {
			config: submit.ServiceConfig{
				Builder: &buildmock.MockProjectBuilder{},
			},
			expErr: true,
		},
		"missing builder should fail": {
			config: submit.ServiceConfig{
				Repository: &storagemock.MockRepository{},
			},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)

			svc, err := submit.NewService(test.config)

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
	now := time.Date(2024, 12, 20, 10, 0, 0, 0, time.Local)
	expProject := model.Project{
		ID:          "01JFG3C2QWERTYASDFGZXCVBNM",
		Name:        `Project from: "Build a todo app with dark mod"...`,
		Description: "Build a todo app with dark mode support",
		Status:      model.ProjectStatusBuilding,
		Progress:    0,
		CreatedAt:   now.UTC(),
		Type:        model.ProjectTypeWebApp,
		Framework:   "React + FastAPI",
		Deployment:  model.DeploymentStatusPending,
	}

	tests := map[string]struct {
		mock       func(r *storagemock.MockRepository, b *buildmock.MockProjectBuilder)
		req        submit.Request
		expProject model.Project
		expErr     bool
		expErrIs   error
	}{
		"A valid prompt should create a building project and start its build": {
			mock: func(r *storagemock.MockRepository, b *buildmock.MockProjectBuilder) {
				r.On("CreateProject", mock.Anything, expProject).Once().Return(nil)
				b.On("Start", mock.Anything, expProject.ID).Once().Return(nil, nil)
			},
			req:        submit.Request{Config: model.ProjectConfig{Description: "Build a todo app with dark mode support"}},
			expProject: expProject,
		},
		"Explicit name, type and framework should be used": {
			mock: func(r *storagemock.MockRepository, b *buildmock.MockProjectBuilder) {
				r.On("CreateProject", mock.Anything, mock.MatchedBy(func(p model.Project) bool {
					return p.Name == "Weather" && p.Type == model.ProjectTypeMobileApp && p.Framework == "Flutter"
				})).Once().Return(nil)
				b.On("Start", mock.Anything, expProject.ID).Once().Return(nil, nil)
			},
			req: submit.Request{Config: model.ProjectConfig{
				Description: "Weather app",
				Name:        "Weather",
				Type:        model.ProjectTypeMobileApp,
				Framework:   "Flutter",
			}},
			expProject: func() model.Project {
				p := expProject
				p.Name = "Weather"
				p.Description = "Weather app"
				p.Type = model.ProjectTypeMobileApp
				p.Framework = "Flutter"
				return p
			}(),
		},
		"A blank prompt should fail without creating anything": {
			mock:     func(r *storagemock.MockRepository, b *buildmock.MockProjectBuilder) {},
			req:      submit.Request{Config: model.ProjectConfig{Description: "   "}},
			expErr:   true,
			expErrIs: model.ErrNotValid,
		},
		"An error creating the project should fail without starting the build": {
			mock: func(r *storagemock.MockRepository, b *buildmock.MockProjectBuilder) {
				r.On("CreateProject", mock.Anything, mock.Anything).Once().Return(fmt.Errorf("something"))
			},
			req:    submit.Request{Config: model.ProjectConfig{Description: "Blog"}},
			expErr: true,
		},
		"An error starting the build should fail": {
			mock: func(r *storagemock.MockRepository, b *buildmock.MockProjectBuilder) {
				r.On("CreateProject", mock.Anything, mock.Anything).Once().Return(nil)
				b.On("Start", mock.Anything, expProject.ID).Once().Return(nil, fmt.Errorf("something"))
			},
			req:    submit.Request{Config: model.ProjectConfig{Description: "Blog"}},
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

			svc, err := submit.NewService(submit.ServiceConfig{
				Repository:  mRepo,
				Builder:     mBuilder,
				Logger:      log.Noop,
				IDGenerator: func() string { return expProject.ID },
				TimeNow:     func() time.Time { return now },
			})
			require.NoError(err)

			resp, err := svc.Run(context.Background(), test.req)

			if test.expErr {
				assert.Error(err)
				if test.expErrIs != nil {
					assert.ErrorIs(err, test.expErrIs)
				}
			} else if assert.NoError(err) {
				assert.Equal(test.expProject, resp.Project)
			}

			mRepo.AssertExpectations(t)
			mBuilder.AssertExpectations(t)
		})
	}
}

func TestService_RunWait(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	repo, err := memory.NewRepository(memory.RepositoryConfig{})
	require.NoError(err)

	sim, err := build.NewSimulator(build.SimulatorConfig{
		Repository:   repo,
		Increment:    build.SequenceIncrement(30),
		TickInterval: time.Millisecond,
	})
	require.NoError(err)
	ctrl, err := build.NewController(build.ControllerConfig{Starter: sim})
	require.NoError(err)
	defer ctrl.StopAll()

	svc, err := submit.NewService(submit.ServiceConfig{Repository: repo, Builder: ctrl})
	require.NoError(err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	resp, err := svc.Run(ctx, submit.Request{
		Config: model.ProjectConfig{Description: "Recipe finder with meal planning"},
		Wait:   true,
	})
	require.NoError(err)

	assert.Len(resp.Project.ID, 26)
	assert.Equal(model.ProjectStatusReady, resp.Project.Status)
	assert.Equal(100.0, resp.Project.Progress)
	assert.Equal(model.DeploymentStatusDeployed, resp.Project.Deployment)
	assert.NoError(resp.Handle.Err())
}
