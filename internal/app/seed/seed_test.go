package seed_test

import (
	"context"
	"fmt"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/slok/appforge/internal/app/seed"
	"github.com/slok/appforge/internal/model"
	storageio "github.com/slok/appforge/internal/storage/io"
	"github.com/slok/appforge/internal/storage/memory"
	"github.com/slok/appforge/internal/storage/storagemock"
)

const seedYAML = `
projects:
  - id: "1"
    name: E-commerce Platform
    description: Modern e-commerce platform with React and Node.js
    status: ready
    progress: 100
    created: "2024-12-15T10:30:00Z"
    type: web-app
    framework: React + Node.js
    deployment: deployed
  - id: "3"
    name: Blog Platform
    description: Personal blog platform with markdown support
    status: building
    progress: 65
    created: "2024-12-18T11:20:00Z"
    type: website
    framework: Next.js + Prisma
    deployment: pending
`

func TestNewService(t *testing.T) {
	_, err := seed.NewService(seed.ServiceConfig{Repository: &storagemock.MockRepository{}})
	assert.Error(t, err)

	_, err = seed.NewService(seed.ServiceConfig{SeedRepository: storageio.NewProjectSeedYAMLRepository(fstest.MapFS{})})
	assert.Error(t, err)
}

func TestService_Run(t *testing.T) {
	fs := fstest.MapFS{
		"projects.yaml": &fstest.MapFile{Data: []byte(seedYAML)},
		"broken.yaml":   &fstest.MapFile{Data: []byte("projects: [")},
	}

	tests := map[string]struct {
		mock       func(m *storagemock.MockRepository)
		path       string
		expCreated []string
		expSkipped []string
		expErr     bool
	}{
		"All the new projects should be created": {
			mock: func(m *storagemock.MockRepository) {
				m.On("CreateProject", mock.Anything, mock.Anything).Twice().Return(nil)
			},
			path:       "projects.yaml",
			expCreated: []string{"1", "3"},
		},
		"Existing projects should be skipped": {
			mock: func(m *storagemock.MockRepository) {
				m.On("CreateProject", mock.Anything, mock.MatchedBy(func(p model.Project) bool { return p.ID == "1" })).Once().Return(model.ErrAlreadyExists)
				m.On("CreateProject", mock.Anything, mock.MatchedBy(func(p model.Project) bool { return p.ID == "3" })).Once().Return(nil)
			},
			path:       "projects.yaml",
			expCreated: []string{"3"},
			expSkipped: []string{"1"},
		},
		"A storage error should fail": {
			mock: func(m *storagemock.MockRepository) {
				m.On("CreateProject", mock.Anything, mock.Anything).Once().Return(fmt.Errorf("something"))
			},
			path:   "projects.yaml",
			expErr: true,
		},
		"A broken seed file should fail": {
			mock:   func(m *storagemock.MockRepository) {},
			path:   "broken.yaml",
			expErr: true,
		},
		"A missing seed file should fail": {
			mock:   func(m *storagemock.MockRepository) {},
			path:   "missing.yaml",
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			mRepo := &storagemock.MockRepository{}
			test.mock(mRepo)

			svc, err := seed.NewService(seed.ServiceConfig{
				Repository:     mRepo,
				SeedRepository: storageio.NewProjectSeedYAMLRepository(fs),
			})
			require.NoError(err)

			resp, err := svc.Run(context.Background(), seed.Request{Path: test.path})

			if test.expErr {
				assert.Error(err)
			} else if assert.NoError(err) {
				assert.Equal(test.expCreated, resp.Created)
				assert.Equal(test.expSkipped, resp.Skipped)
			}

			mRepo.AssertExpectations(t)
		})
	}
}

func TestService_RunDefaultSeedIsIdempotent(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	repo, err := memory.NewRepository(memory.RepositoryConfig{})
	require.NoError(err)

	svc, err := seed.NewService(seed.ServiceConfig{
		Repository:     repo,
		SeedRepository: storageio.NewProjectSeedYAMLRepository(storageio.DefaultSeedFS()),
	})
	require.NoError(err)

	resp, err := svc.Run(context.Background(), seed.Request{Path: storageio.DefaultSeedPath})
	require.NoError(err)
	assert.Len(resp.Created, 5)
	assert.Empty(resp.Skipped)

	resp, err = svc.Run(context.Background(), seed.Request{Path: storageio.DefaultSeedPath})
	require.NoError(err)
	assert.Empty(resp.Created)
	assert.Len(resp.Skipped, 5)

	ps, err := repo.ListProjects(context.Background())
	require.NoError(err)
	assert.Len(ps, 5)
}
