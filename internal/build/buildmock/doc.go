// Package buildmock has the mocks for the build package interfaces.
package buildmock

//go:generate mockery --case underscore --output . --outpkg buildmock --dir .. --name ProjectBuilder --structname MockProjectBuilder --filename project_builder.go
