package cancel_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/slok/appforge/internal/app/cancel"
	"github.com/slok/appforge/internal/build/buildmock"
	"github.com/slok/appforge/internal/log"
	"github.com/slok/appforge/internal/model"
	"github.com/slok/appforge/internal/storage/storagemock"
)

func TestNewService(t *testing.T) {
	_, err := cancel.NewService(cancel.ServiceConfig{Builder: &buildmock.MockProjectBuilder{}})
	assert.Error(t, err)

	_, err = cancel.NewService(cancel.ServiceConfig{Repository: &storagemock.MockRepository{}})
	assert.Error(t, err)

	svc, err := cancel.NewService(cancel.ServiceConfig{
		Repository: &storagemock.MockRepository{},
		Builder:    &buildmock.MockProjectBuilder{},
	})
	assert.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestService_Run(t *testing.T) {
	p := &model.Project{
		ID:         "01JFG3C2QWERTYASDFGZXCVBNM",
		Name:       "Blog",
		Status:     model.ProjectStatusBuilding,
		Progress:   42,
		CreatedAt:  time.Date(2024, 12, 20, 10, 0, 0, 0, time.UTC),
		Type:       model.ProjectTypeWebApp,
		Deployment: model.DeploymentStatusPending,
	}

	tests := map[string]struct {
		mock       func(r *storagemock.MockRepository, b *buildmock.MockProjectBuilder)
		expProject *model.Project
		expErrIs   error
	}{
		"A running build should be stopped and the project returned as left": {
			mock: func(r *storagemock.MockRepository, b *buildmock.MockProjectBuilder) {
				b.On("Stop", p.ID).Once().Return(nil)
				r.On("GetProject", mock.Anything, p.ID).Once().Return(p, nil)
			},
			expProject: p,
		},
		"A project without a running build should fail": {
			mock: func(r *storagemock.MockRepository, b *buildmock.MockProjectBuilder) {
				b.On("Stop", p.ID).Once().Return(model.ErrNotFound)
			},
			expErrIs: model.ErrNotFound,
		},
		"A project removed while building should fail": {
			mock: func(r *storagemock.MockRepository, b *buildmock.MockProjectBuilder) {
				b.On("Stop", p.ID).Once().Return(nil)
				r.On("GetProject", mock.Anything, p.ID).Once().Return(nil, model.ErrNotFound)
			},
			expErrIs: model.ErrNotFound,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			mRepo := &storagemock.MockRepository{}
			mBuilder := &buildmock.MockProjectBuilder{}
			test.mock(mRepo, mBuilder)

			svc, err := cancel.NewService(cancel.ServiceConfig{Repository: mRepo, Builder: mBuilder, Logger: log.Noop})
			require.NoError(err)

			got, err := svc.Run(context.Background(), cancel.Request{ID: p.ID})

			if test.expErrIs != nil {
				assert.ErrorIs(err, test.expErrIs)
			} else if assert.NoError(err) {
				assert.Equal(test.expProject, got)
			}

			mRepo.AssertExpectations(t)
			mBuilder.AssertExpectations(t)
		})
	}
}
