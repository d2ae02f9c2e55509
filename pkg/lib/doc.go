// Package lib provides a Go SDK for managing appforge projects programmatically.
//
// This package allows applications to submit prompts and follow the builds of
// the resulting projects without shelling out to the appforge CLI binary.
//
// # Quick Start
//
//	client, err := lib.New(ctx, lib.Config{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Submit a prompt, the project starts building in the background.
//	p, err := client.SubmitProject(ctx, lib.SubmitProjectOpts{
//	    Description: "Recipe finder with meal planning",
//	})
//
//	// Block until it's ready.
//	p, err = client.WaitProject(ctx, p.ID)
//
// # Builds
//
// Builds run inside the client process, a project is built by at most one
// build at a time, across processes too: a build owns the project through a
// lease stored with it and renewed on every tick. Progress is persisted on every
// tick so other clients, or the CLI, can read it. Closing the client stops its
// builds, the projects keep their progress and can be resumed with
// [Client.BuildProject].
//
// # Errors
//
// Errors can be checked with [errors.Is]:
//
//   - [ErrNotFound]: Resource does not exist.
//   - [ErrAlreadyExists]: Resource already exists.
//   - [ErrNotValid]: Invalid input or state (e.g. building a ready project).
//   - [ErrConflict]: The project is being built by another client or process.
package lib
