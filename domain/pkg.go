package domain

import "github.com/google/uuid"

// Nevra is an RPM's name-epoch-version-release-architecture identity —
// the natural key that makes two package entries from two different
// repositories (or two syncs of the same repository) the same package.
type Nevra struct {
	Name    string
	Epoch   string
	Version string
	Release string
	Arch    string
}

// Pkg is one RPM package, deduplicated by Nevra across every repository
// that carries it. Its primary key is a surrogate id kept stable across
// syncs by upserting through PkgsByNevra rather than by Nevra directly,
// so join rows in PkgRepo and PkgAdvisory do not need to be rewritten
// just because a package was re-seen.
type Pkg struct {
	ID           uuid.UUID
	Nevra        Nevra
	Checksum     string
	ChecksumType string
	Summary      string
	Description  string
	License      string
	URL          string
	Location     string
	Size         int64
	BuildTime    int64
}

// PkgRepoID identifies one (package, repository) membership: that Pkg was
// found in Repo's primary.xml by some sync. Rows are not removed when a
// later sync no longer lists the package.
type PkgRepoID struct {
	PkgID  uuid.UUID
	RepoID uuid.UUID
}

// PkgRepo is the join row for PkgRepoID. It carries no data beyond the
// membership itself; the package and repository's own fields live in
// their own tables.
type PkgRepo struct {
	PkgID  uuid.UUID
	RepoID uuid.UUID
}
