// Package reposync drives one repository through its sync pipeline:
// fetch repomd.xml, compare its revision against what was last stored,
// and if it changed, stream primary.xml, updateinfo.xml and modules.yaml
// into the domain schema one sub-document at a time. Each package,
// advisory or module stream commits in its own write transaction, so a
// failure partway through a large repository leaves everything synced so
// far in place rather than rolling the whole repository back.
package reposync

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/acksell/rpmscan/domain"
	"github.com/acksell/rpmscan/httpfetch"
	"github.com/acksell/rpmscan/rpmmd"
	"github.com/acksell/rpmscan/store"
	"github.com/acksell/rpmscan/xmlseed"
	"github.com/acksell/rpmscan/yamlseed"
)

// Syncer syncs repositories into one database's domain schema using one
// shared HTTP client.
type Syncer struct {
	DB     *store.Database
	Schema *domain.Schema
	Client *httpfetch.Client
	Logger *zap.Logger
}

// New builds a Syncer. A nil logger is replaced with a no-op one.
func New(db *store.Database, schema *domain.Schema, client *httpfetch.Client, logger *zap.Logger) *Syncer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Syncer{DB: db, Schema: schema, Client: client, Logger: logger}
}

// SyncRepo fetches baseURL's repomd.xml and, if its revision differs from
// what is already stored for this URL, re-syncs the repository's
// packages, advisories and modules. A repository already at its latest
// known revision is a no-op.
//
// A failure partway through leaves every sub-document already committed
// in place: this package never deletes a row because a later fetch
// failed, since a transient network error bringing down rows that took a
// previous, successful sync to build would make an outage strictly worse
// than doing nothing. The repository's own revision is only updated once
// every sub-document synced without error, so a failed sync is retried
// in full next time rather than considered partially complete.
func (s *Syncer) SyncRepo(ctx context.Context, baseURL string) error {
	baseURL = strings.TrimSuffix(baseURL, "/")

	repomd, err := s.fetchRepoMD(ctx, baseURL)
	if err != nil {
		return fmt.Errorf("reposync: fetch repomd: %w", err)
	}

	existing, found, err := s.lookupRepo(baseURL)
	if err != nil {
		return fmt.Errorf("reposync: look up repo: %w", err)
	}
	if found && existing.Revision == repomd.Revision {
		s.Logger.Info("repository already at latest revision",
			zap.String("url", baseURL), zap.String("revision", repomd.Revision))
		return nil
	}

	repoID := uuid.New()
	if found {
		repoID = existing.ID
	}

	if rec, ok := findRecord(repomd, rpmmd.TypePrimary); ok {
		if err := s.syncPackages(ctx, baseURL, rec, repoID); err != nil {
			return fmt.Errorf("reposync: sync packages: %w", err)
		}
	}
	if rec, ok := findRecord(repomd, rpmmd.TypeUpdateInfo); ok {
		if err := s.syncUpdates(ctx, baseURL, rec, repoID); err != nil {
			return fmt.Errorf("reposync: sync updates: %w", err)
		}
	}
	if rec, ok := findRecord(repomd, rpmmd.TypeModules); ok {
		if err := s.syncModules(ctx, baseURL, rec, repoID); err != nil {
			return fmt.Errorf("reposync: sync modules: %w", err)
		}
	}

	return s.DB.Update(func(w *store.WriteTxn) error {
		return store.PutByIndex(w, s.Schema.Repos, s.Schema.ReposByURL, domain.Repo{
			ID:         repoID,
			URL:        baseURL,
			Revision:   repomd.Revision,
			LastSynced: time.Now().UTC(),
		})
	})
}

func (s *Syncer) fetchRepoMD(ctx context.Context, baseURL string) (rpmmd.RepoMD, error) {
	b, err := s.Client.Get(ctx, baseURL+"/repodata/repomd.xml")
	if err != nil {
		return rpmmd.RepoMD{}, err
	}
	var repomd rpmmd.RepoMD
	if err := xml.Unmarshal(b, &repomd); err != nil {
		return rpmmd.RepoMD{}, fmt.Errorf("reposync: parse repomd.xml: %w", err)
	}
	return repomd, nil
}

func (s *Syncer) lookupRepo(baseURL string) (domain.Repo, bool, error) {
	var repo domain.Repo
	var found bool
	err := s.DB.View(func(r *store.ReadTxn) error {
		var err error
		repo, found, err = store.GetByIndex(r, s.Schema.ReposByURL, baseURL)
		return err
	})
	return repo, found, err
}

func findRecord(repomd rpmmd.RepoMD, typ rpmmd.Type) (rpmmd.RepoMDRecord, bool) {
	for _, rec := range repomd.Data {
		if rec.Type == typ {
			return rec, true
		}
	}
	return rpmmd.RepoMDRecord{}, false
}

func (s *Syncer) syncPackages(ctx context.Context, baseURL string, rec rpmmd.RepoMDRecord, repoID uuid.UUID) error {
	url := baseURL + "/" + rec.Location.Href
	return s.Client.FetchStream(ctx, url, func(r io.Reader) error {
		return xmlseed.Packages(r, func(pkg rpmmd.Package) error {
			return s.syncOnePackage(repoID, pkg)
		})
	})
}

func (s *Syncer) syncOnePackage(repoID uuid.UUID, pkg rpmmd.Package) error {
	return s.DB.Update(func(w *store.WriteTxn) error {
		row := domain.Pkg{
			ID: uuid.New(),
			Nevra: domain.Nevra{
				Name:    pkg.Name,
				Epoch:   pkg.Version.Epoch,
				Version: pkg.Version.Version,
				Release: pkg.Version.Release,
				Arch:    pkg.Arch,
			},
			Checksum:     pkg.Checksum.Value,
			ChecksumType: pkg.Checksum.Type,
			Summary:      pkg.Summary,
			Description:  pkg.Description,
			License:      pkg.Format.License,
			URL:          pkg.URL,
			Location:     pkg.Location.Href,
			Size:         pkg.Size.Package,
			BuildTime:    pkg.Time.Build,
		}
		if err := store.PutByIndex(w, s.Schema.Pkgs, s.Schema.PkgsByNevra, row); err != nil {
			return err
		}
		got, ok, err := store.GetByIndex(&w.ReadTxn, s.Schema.PkgsByNevra, row.Nevra)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("reposync: package %s just written is unreadable", row.Nevra.Name)
		}
		return store.Put(w, s.Schema.PkgRepos, domain.PkgRepo{PkgID: got.ID, RepoID: repoID})
	})
}

func (s *Syncer) syncUpdates(ctx context.Context, baseURL string, rec rpmmd.RepoMDRecord, repoID uuid.UUID) error {
	url := baseURL + "/" + rec.Location.Href
	return s.Client.FetchStream(ctx, url, func(r io.Reader) error {
		return xmlseed.Updates(r, func(update rpmmd.Update) error {
			return s.syncOneUpdate(repoID, update)
		})
	})
}

func (s *Syncer) syncOneUpdate(repoID uuid.UUID, update rpmmd.Update) error {
	return s.DB.Update(func(w *store.WriteTxn) error {
		row := domain.Advisory{
			ID:          uuid.New(),
			Name:        update.ID,
			Type:        update.Type,
			Severity:    update.Severity,
			Title:       update.Title,
			Description: update.Description,
			Issued:      update.Issued.Date,
			Updated:     update.Updated.Date,
		}
		if err := store.PutByIndex(w, s.Schema.Advisories, s.Schema.AdvisoriesByName, row); err != nil {
			return err
		}
		got, ok, err := store.GetByIndex(&w.ReadTxn, s.Schema.AdvisoriesByName, row.Name)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("reposync: advisory %s just written is unreadable", row.Name)
		}
		if err := store.Put(w, s.Schema.AdvisoryRepos, domain.AdvisoryRepo{AdvisoryID: got.ID, RepoID: repoID}); err != nil {
			return err
		}

		for _, collection := range update.PkgList {
			for _, p := range collection.Package {
				nevra := domain.Nevra{Name: p.Name, Epoch: p.Epoch, Version: p.Version, Release: p.Release, Arch: p.Arch}
				pkgRow, ok, err := store.GetByIndex(&w.ReadTxn, s.Schema.PkgsByNevra, nevra)
				if err != nil {
					return err
				}
				if !ok {
					// This advisory names a build no stored package row
					// has (no primary.xml synced so far listed it); record no
					// association rather than fabricate a package row
					// for a build that was never actually offered.
					s.Logger.Debug("advisory references unknown package",
						zap.String("advisory", row.Name), zap.String("package", p.Name))
					continue
				}
				if err := store.Put(w, s.Schema.PkgAdvisories, domain.PkgAdvisory{PkgID: pkgRow.ID, AdvisoryID: got.ID}); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func (s *Syncer) syncModules(ctx context.Context, baseURL string, rec rpmmd.RepoMDRecord, repoID uuid.UUID) error {
	url := baseURL + "/" + rec.Location.Href
	b, err := s.Client.Get(ctx, url)
	if err != nil {
		return err
	}

	if err := yamlseed.Modules(bytes.NewReader(b), func(m rpmmd.ModuleMDData) error {
		return s.syncOneStream(repoID, m)
	}); err != nil {
		return fmt.Errorf("reposync: sync module streams: %w", err)
	}

	if err := yamlseed.Defaults(bytes.NewReader(b), func(d rpmmd.DefaultsData) error {
		return s.syncOneModuleDefault(repoID, d)
	}); err != nil {
		return fmt.Errorf("reposync: sync module defaults: %w", err)
	}
	return nil
}

func (s *Syncer) syncOneStream(repoID uuid.UUID, m rpmmd.ModuleMDData) error {
	return s.DB.Update(func(w *store.WriteTxn) error {
		row := domain.ModuleStream{
			ID:       uuid.New(),
			RepoID:   repoID,
			Name:     m.Name,
			Stream:   m.Stream,
			Version:  m.Version,
			Context:  m.Context,
			Arch:     m.Arch,
			Profiles: profileRpms(m.Profiles),
			Rpms:     m.Artifacts.Rpms,
		}
		return store.PutByIndex(w, s.Schema.ModuleStreams, s.Schema.ModuleStreamsByAttrs, row)
	})
}

func profileRpms(profiles map[string]rpmmd.Profile) map[string][]string {
	out := make(map[string][]string, len(profiles))
	for name, p := range profiles {
		out[name] = p.Rpms
	}
	return out
}

// syncOneModuleDefault merges a newly-seen defaults declaration with
// whatever Module row is already stored for the same (repo, module,
// stream): a field the new declaration leaves unset (its profiles) keeps
// the stored value rather than being overwritten with nothing. Only
// modulemd-defaults documents write Module rows; modulemd documents go to
// the ModuleStreams table through syncOneStream.
func (s *Syncer) syncOneModuleDefault(repoID uuid.UUID, d rpmmd.DefaultsData) error {
	return s.DB.Update(func(w *store.WriteTxn) error {
		row := domain.Module{
			ID:              uuid.New(),
			RepoID:          repoID,
			Name:            d.Module,
			Stream:          d.Stream,
			DefaultProfiles: d.Profiles,
		}
		return store.PutByIndexWith(w, s.Schema.Modules, s.Schema.ModulesByAttrs, row,
			func(old, v domain.Module) domain.Module {
				if v.Stream == "" {
					v.Stream = old.Stream
				}
				if v.DefaultProfiles == nil {
					v.DefaultProfiles = old.DefaultProfiles
				}
				return v
			})
	})
}
