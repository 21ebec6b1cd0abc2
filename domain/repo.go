// Package domain declares the rows rpmscan stores for every repository it
// syncs: the repositories themselves, the RPM packages and advisories
// they publish, module streams, and the join tables that record which
// package or advisory came from which repository. Every type here is a
// plain value type decoded straight off repository metadata (see rpmmd)
// or synthesized during sync (see reposync); schema.go registers them
// against a store.Database.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Repo is one configured repository: the URL this scan last pulled
// metadata from, the repomd.xml revision observed there, and when the
// sync that produced that revision ran.
type Repo struct {
	ID         uuid.UUID
	URL        string
	Revision   string
	LastSynced time.Time
}
