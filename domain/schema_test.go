package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/acksell/rpmscan/domain"
	"github.com/acksell/rpmscan/store"
)

func openSchema(t *testing.T) (*store.Database, *domain.Schema) {
	t.Helper()
	db, err := store.Open(store.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, domain.Register(db)
}

// Re-syncing the same package (same Nevra, fresh primary.xml parse with a
// new candidate id) must keep its original surrogate id, so the
// PkgRepo/PkgAdvisory join rows written against that id on an earlier
// sync stay valid.
func TestPkgUpsertByNevraPreservesSurrogateID(t *testing.T) {
	db, schema := openSchema(t)
	nevra := domain.Nevra{Name: "bash", Epoch: "0", Version: "5.2", Release: "1.fc40", Arch: "x86_64"}

	err := db.Update(func(w *store.WriteTxn) error {
		return store.PutByIndex(w, schema.Pkgs, schema.PkgsByNevra, domain.Pkg{
			ID:    uuid.New(),
			Nevra: nevra,
			Size:  100,
		})
	})
	require.NoError(t, err)

	var firstID uuid.UUID
	err = db.View(func(r *store.ReadTxn) error {
		got, ok, err := store.GetByIndex(r, schema.PkgsByNevra, nevra)
		require.NoError(t, err)
		require.True(t, ok)
		firstID = got.ID
		return nil
	})
	require.NoError(t, err)

	err = db.Update(func(w *store.WriteTxn) error {
		return store.PutByIndex(w, schema.Pkgs, schema.PkgsByNevra, domain.Pkg{
			ID:    uuid.New(),
			Nevra: nevra,
			Size:  101,
		})
	})
	require.NoError(t, err)

	err = db.View(func(r *store.ReadTxn) error {
		got, ok, err := store.GetByIndex(r, schema.PkgsByNevra, nevra)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, firstID, got.ID)
		require.Equal(t, int64(101), got.Size)
		return nil
	})
	require.NoError(t, err)
}

// A package-repository join row records membership independent of
// whatever order the package and repository rows themselves were
// written in.
func TestPkgRepoJoinRoundTrips(t *testing.T) {
	db, schema := openSchema(t)
	pkgID := uuid.New()
	repoID := uuid.New()

	err := db.Update(func(w *store.WriteTxn) error {
		return store.Put(w, schema.PkgRepos, domain.PkgRepo{PkgID: pkgID, RepoID: repoID})
	})
	require.NoError(t, err)

	err = db.View(func(r *store.ReadTxn) error {
		got, ok, err := store.Get(r, schema.PkgRepos, domain.PkgRepoID{PkgID: pkgID, RepoID: repoID})
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, pkgID, got.PkgID)
		require.Equal(t, repoID, got.RepoID)
		return nil
	})
	require.NoError(t, err)
}

// Module streams are addressable both by surrogate id and by their
// natural (repo, name, stream, version, context) attributes.
func TestModuleStreamByAttrs(t *testing.T) {
	db, schema := openSchema(t)
	repoID := uuid.New()
	attrs := domain.StreamAttrs{RepoID: repoID, Name: "nodejs", Stream: "18", Version: 9020020240101000000, Context: "abcd"}

	err := db.Update(func(w *store.WriteTxn) error {
		return store.Put(w, schema.ModuleStreams, domain.ModuleStream{
			ID:      uuid.New(),
			RepoID:  repoID,
			Name:    "nodejs",
			Stream:  "18",
			Version: attrs.Version,
			Context: "abcd",
			Arch:    "x86_64",
			Rpms:    []string{"nodejs", "npm"},
		})
	})
	require.NoError(t, err)

	err = db.View(func(r *store.ReadTxn) error {
		got, ok, err := store.GetByIndex(r, schema.ModuleStreamsByAttrs, attrs)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, []string{"nodejs", "npm"}, got.Rpms)
		return nil
	})
	require.NoError(t, err)
}
