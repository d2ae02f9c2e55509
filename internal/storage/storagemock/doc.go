// Package storagemock has the mocks for the storage package interfaces.
package storagemock

//go:generate mockery --case underscore --output . --outpkg storagemock --dir .. --name Repository --structname MockRepository --filename repository.go
