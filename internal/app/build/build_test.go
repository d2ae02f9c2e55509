package build_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appbuild "github.com/slok/appforge/internal/app/build"
	"github.com/slok/appforge/internal/build"
	"github.com/slok/appforge/internal/build/buildmock"
	"github.com/slok/appforge/internal/log"
	"github.com/slok/appforge/internal/model"
	"github.com/slok/appforge/internal/storage/storagemock"
)

func TestNewService(t *testing.T) {
	tests := map[string]struct {
		config appbuild.ServiceConfig
		expErr bool
	}{
		"valid config should create service": {
			config: appbuild.ServiceConfig{
				Repository: &storagemock.MockRepository{},
				Builder:    &buildmock.MockProjectBuilder{},
			},
		},
		"missing repository should fail": {
			config: appbuild.ServiceConfig{Builder: &buildmock.MockProjectBuilder{}},
			expErr: true,
		},
		"missing builder should fail": {
			config: appbuild.ServiceConfig{Repository: &storagemock.MockRepository{}},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			svc, err := appbuild.NewService(test.config)

			if test.expErr {
				require.Error(t, err)
				require.Nil(t, svc)
			} else {
				require.NoError(t, err)
				require.NotNil(t, svc)
			}
		})
	}
}

func TestService_Run(t *testing.T) {
	createdAt := time.Date(2024, 12, 18, 11, 20, 0, 0, time.UTC)
	project := func(status model.ProjectStatus, progress float64) *model.Project {
		return &model.Project{
			ID:          "3",
			Name:        "Blog Platform",
			Description: "Personal blog platform with markdown support",
			Status:      status,
			Progress:    progress,
			CreatedAt:   createdAt,
			Type:        model.ProjectTypeWebsite,
			Framework:   "Next.js + Prisma",
			Deployment:  model.DeploymentStatusPending,
		}
	}

	tests := map[string]struct {
		mock     func(r *storagemock.MockRepository, b *buildmock.MockProjectBuilder)
		req      appbuild.Request
		expErrIs error
		expErr   bool
	}{
		"A building project should be started": {
			mock: func(r *storagemock.MockRepository, b *buildmock.MockProjectBuilder) {
				r.On("GetProject", mock.Anything, "3").Once().Return(project(model.ProjectStatusBuilding, 65), nil)
				b.On("Start", mock.Anything, "3").Once().Return(nil, nil)
			},
			req: appbuild.Request{ID: "3"},
		},
		"A ready project should not be started": {
			mock: func(r *storagemock.MockRepository, b *buildmock.MockProjectBuilder) {
				r.On("GetProject", mock.Anything, "3").Once().Return(project(model.ProjectStatusReady, 100), nil)
			},
			req:      appbuild.Request{ID: "3"},
			expErr:   true,
			expErrIs: model.ErrNotValid,
		},
		"A failed project should not be started": {
			mock: func(r *storagemock.MockRepository, b *buildmock.MockProjectBuilder) {
				r.On("GetProject", mock.Anything, "3").Once().Return(project(model.ProjectStatusError, 45), nil)
			},
			req:      appbuild.Request{ID: "3"},
			expErr:   true,
			expErrIs: build.ErrNotBuilding,
		},
		"A missing project should fail": {
			mock: func(r *storagemock.MockRepository, b *buildmock.MockProjectBuilder) {
				r.On("GetProject", mock.Anything, "3").Once().Return(nil, model.ErrNotFound)
			},
			req:      appbuild.Request{ID: "3"},
			expErr:   true,
			expErrIs: model.ErrNotFound,
		},
		"A project built by another process should fail with a conflict": {
			mock: func(r *storagemock.MockRepository, b *buildmock.MockProjectBuilder) {
				r.On("GetProject", mock.Anything, "3").Once().Return(project(model.ProjectStatusBuilding, 65), nil)
				b.On("Start", mock.Anything, "3").Once().Return(nil, fmt.Errorf("project 3: %w", build.ErrBuildOwned))
			},
			req:      appbuild.Request{ID: "3"},
			expErr:   true,
			expErrIs: model.ErrConflict,
		},
		"An error starting the build should fail": {
			mock: func(r *storagemock.MockRepository, b *buildmock.MockProjectBuilder) {
				r.On("GetProject", mock.Anything, "3").Once().Return(project(model.ProjectStatusBuilding, 65), nil)
				b.On("Start", mock.Anything, "3").Once().Return(nil, fmt.Errorf("something"))
			},
			req:    appbuild.Request{ID: "3"},
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

			svc, err := appbuild.NewService(appbuild.ServiceConfig{Repository: mRepo, Builder: mBuilder, Logger: log.Noop})
			require.NoError(err)

			resp, err := svc.Run(context.Background(), test.req)

			if test.expErr {
				assert.Error(err)
				if test.expErrIs != nil {
					assert.ErrorIs(err, test.expErrIs)
				}
			} else if assert.NoError(err) {
				assert.Equal("3", resp.Project.ID)
			}

			mRepo.AssertExpectations(t)
			mBuilder.AssertExpectations(t)
		})
	}
}
