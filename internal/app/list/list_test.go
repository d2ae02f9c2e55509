package list_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/slok/appforge/internal/app/list"
	"github.com/slok/appforge/internal/log"
	"github.com/slok/appforge/internal/model"
	"github.com/slok/appforge/internal/storage/storagemock"
)

func TestNewService(t *testing.T) {
	tests := map[string]struct {
		config list.ServiceConfig
		expErr bool
	}{
		"valid config should create service": {
			config: list.ServiceConfig{
				Repository: &storagemock.MockRepository{},
				Logger:     log.Noop,
			},
		},
		"missing repository should fail": {
			config: list.ServiceConfig{Logger: log.Noop},
			expErr: true,
		},
		"nil logger should default to noop": {
			config: list.ServiceConfig{Repository: &storagemock.MockRepository{}},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)

			svc, err := list.NewService(test.config)

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
	ts := time.Date(2024, 12, 15, 10, 30, 0, 0, time.UTC)
	projects := []model.Project{
		{ID: "5", Name: "Recipe Finder", Status: model.ProjectStatusError, Progress: 45, CreatedAt: ts.Add(4 * time.Hour)},
		{ID: "3", Name: "Blog Platform", Status: model.ProjectStatusBuilding, Progress: 65, CreatedAt: ts.Add(2 * time.Hour)},
		{ID: "1", Name: "E-commerce Platform", Status: model.ProjectStatusReady, Progress: 100, CreatedAt: ts},
	}
	status := func(s model.ProjectStatus) *model.ProjectStatus { return &s }

	tests := map[string]struct {
		mock   func(m *storagemock.MockRepository)
		req    list.Request
		expIDs []string
		expErr bool
	}{
		"Listing without filter should return all the projects in order": {
			mock: func(m *storagemock.MockRepository) {
				m.On("ListProjects", mock.Anything).Once().Return(projects, nil)
			},
			expIDs: []string{"5", "3", "1"},
		},
		"Listing with a status filter should only return matching projects": {
			mock: func(m *storagemock.MockRepository) {
				m.On("ListProjects", mock.Anything).Once().Return(projects, nil)
			},
			req:    list.Request{StatusFilter: status(model.ProjectStatusBuilding)},
			expIDs: []string{"3"},
		},
		"Listing with a filter without matches should return empty": {
			mock: func(m *storagemock.MockRepository) {
				m.On("ListProjects", mock.Anything).Once().Return(projects[:1], nil)
			},
			req:    list.Request{StatusFilter: status(model.ProjectStatusReady)},
			expIDs: []string{},
		},
		"An unknown status filter should fail": {
			mock:   func(m *storagemock.MockRepository) {},
			req:    list.Request{StatusFilter: status("deleted")},
			expErr: true,
		},
		"A repository error should fail": {
			mock: func(m *storagemock.MockRepository) {
				m.On("ListProjects", mock.Anything).Once().Return(nil, fmt.Errorf("something"))
			},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			mRepo := &storagemock.MockRepository{}
			test.mock(mRepo)

			svc, err := list.NewService(list.ServiceConfig{Repository: mRepo})
			require.NoError(err)

			got, err := svc.Run(context.Background(), test.req)

			if test.expErr {
				assert.Error(err)
			} else if assert.NoError(err) {
				ids := []string{}
				for _, p := range got {
					ids = append(ids, p.ID)
				}
				assert.Equal(test.expIDs, ids)
			}

			mRepo.AssertExpectations(t)
		})
	}
}
