package model

import "time"

// BuildLease is the claim of a build simulation over a building project.
// Only the lease owner may advance the project progress, other owners can
// take the build over once the lease has expired.
type BuildLease struct {
	Owner string
	Until time.Time
}

// Expired returns true if the lease is no longer valid at t.
func (l BuildLease) Expired(t time.Time) bool {
	return l.Owner == "" || !t.Before(l.Until)
}
