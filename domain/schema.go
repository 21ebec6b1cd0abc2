package domain

import (
	"github.com/google/uuid"

	"github.com/acksell/rpmscan/store"
)

// Schema bundles every table and index rpmscan registers against one
// store.Database. Construct it once per open database with Register and
// thread the result through the sync pipeline and any read-side lookups.
type Schema struct {
	Repos      *store.Table[uuid.UUID, Repo]
	ReposByURL *store.Index[Repo, string]

	Pkgs        *store.Table[uuid.UUID, Pkg]
	PkgsByNevra *store.Index[Pkg, Nevra]

	PkgRepos *store.Table[PkgRepoID, PkgRepo]

	Advisories       *store.Table[uuid.UUID, Advisory]
	AdvisoriesByName *store.Index[Advisory, string]

	AdvisoryRepos *store.Table[AdvisoryRepoID, AdvisoryRepo]
	PkgAdvisories *store.Table[PkgAdvisoryID, PkgAdvisory]

	Modules        *store.Table[uuid.UUID, Module]
	ModulesByAttrs *store.Index[Module, ModuleAttrs]

	ModuleStreams        *store.Table[uuid.UUID, ModuleStream]
	ModuleStreamsByAttrs *store.Index[ModuleStream, StreamAttrs]
}

// Register declares every rpmscan table and index against db. Call it
// exactly once per open database: table and index names share one
// namespace, and RegisterTable/RegisterIndex panic on a duplicate name.
func Register(db *store.Database) *Schema {
	s := &Schema{}

	s.Repos = store.RegisterTable(db, "repos", store.UUIDKey(),
		func(r Repo) uuid.UUID { return r.ID },
		func(r Repo, id uuid.UUID) Repo { r.ID = id; return r },
	)
	s.ReposByURL = store.RegisterIndex(s.Repos, "repos_by_url", store.StringKey(),
		func(r Repo) string { return r.URL })

	s.Pkgs = store.RegisterTable(db, "pkgs", store.UUIDKey(),
		func(p Pkg) uuid.UUID { return p.ID },
		func(p Pkg, id uuid.UUID) Pkg { p.ID = id; return p },
	)
	s.PkgsByNevra = store.RegisterIndex(s.Pkgs, "pkgs_by_nevra", nevraCodec,
		func(p Pkg) Nevra { return p.Nevra })

	s.PkgRepos = store.RegisterTable(db, "pkg_repos", pkgRepoIDCodec,
		func(pr PkgRepo) PkgRepoID { return PkgRepoID{PkgID: pr.PkgID, RepoID: pr.RepoID} },
		func(pr PkgRepo, k PkgRepoID) PkgRepo { pr.PkgID, pr.RepoID = k.PkgID, k.RepoID; return pr },
	)

	s.Advisories = store.RegisterTable(db, "advisories", store.UUIDKey(),
		func(a Advisory) uuid.UUID { return a.ID },
		func(a Advisory, id uuid.UUID) Advisory { a.ID = id; return a },
	)
	s.AdvisoriesByName = store.RegisterIndex(s.Advisories, "advisories_by_name", store.StringKey(),
		func(a Advisory) string { return a.Name })

	s.AdvisoryRepos = store.RegisterTable(db, "advisory_repos", advisoryRepoIDCodec,
		func(ar AdvisoryRepo) AdvisoryRepoID { return AdvisoryRepoID{AdvisoryID: ar.AdvisoryID, RepoID: ar.RepoID} },
		func(ar AdvisoryRepo, k AdvisoryRepoID) AdvisoryRepo { ar.AdvisoryID, ar.RepoID = k.AdvisoryID, k.RepoID; return ar },
	)

	s.PkgAdvisories = store.RegisterTable(db, "pkg_advisories", pkgAdvisoryIDCodec,
		func(pa PkgAdvisory) PkgAdvisoryID { return PkgAdvisoryID{PkgID: pa.PkgID, AdvisoryID: pa.AdvisoryID} },
		func(pa PkgAdvisory, k PkgAdvisoryID) PkgAdvisory { pa.PkgID, pa.AdvisoryID = k.PkgID, k.AdvisoryID; return pa },
	)

	s.Modules = store.RegisterTable(db, "modules", store.UUIDKey(),
		func(m Module) uuid.UUID { return m.ID },
		func(m Module, id uuid.UUID) Module { m.ID = id; return m },
	)
	s.ModulesByAttrs = store.RegisterIndex(s.Modules, "modules_by_attrs", moduleAttrsCodec,
		func(m Module) ModuleAttrs { return ModuleAttrs{RepoID: m.RepoID, Name: m.Name, Stream: m.Stream} })

	s.ModuleStreams = store.RegisterTable(db, "module_streams", store.UUIDKey(),
		func(m ModuleStream) uuid.UUID { return m.ID },
		func(m ModuleStream, id uuid.UUID) ModuleStream { m.ID = id; return m },
	)
	s.ModuleStreamsByAttrs = store.RegisterIndex(s.ModuleStreams, "module_streams_by_attrs", streamAttrsCodec,
		func(m ModuleStream) StreamAttrs {
			return StreamAttrs{RepoID: m.RepoID, Name: m.Name, Stream: m.Stream, Version: m.Version, Context: m.Context}
		})

	return s
}
