package domain

import "github.com/google/uuid"

// Advisory is one security, bugfix or enhancement update, deduplicated by
// Name (its vendor advisory id, e.g. "RHSA-2024:1234") across every
// repository that republishes it.
type Advisory struct {
	ID          uuid.UUID
	Name        string
	Type        string
	Severity    string
	Title       string
	Description string
	Issued      string
	Updated     string
}

// AdvisoryRepoID identifies one (advisory, repository) membership.
type AdvisoryRepoID struct {
	AdvisoryID uuid.UUID
	RepoID     uuid.UUID
}

// AdvisoryRepo is the join row for AdvisoryRepoID.
type AdvisoryRepo struct {
	AdvisoryID uuid.UUID
	RepoID     uuid.UUID
}

// PkgAdvisoryID identifies one (package, advisory) association: that
// package build is named in the advisory's pkglist.
type PkgAdvisoryID struct {
	PkgID      uuid.UUID
	AdvisoryID uuid.UUID
}

// PkgAdvisory is the join row for PkgAdvisoryID.
type PkgAdvisory struct {
	PkgID      uuid.UUID
	AdvisoryID uuid.UUID
}
