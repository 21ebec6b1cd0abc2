package store_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/acksell/rpmscan/store"
)

type widget struct {
	ID   uuid.UUID
	Name string
	Rev  uint64
}

func openTestDB(t *testing.T) *store.Database {
	t.Helper()
	db, err := store.Open(store.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func widgetTable(db *store.Database, name string) *store.Table[uuid.UUID, widget] {
	return store.RegisterTable(db, name, store.UUIDKey(),
		func(w widget) uuid.UUID { return w.ID },
		func(w widget, k uuid.UUID) widget { w.ID = k; return w },
	)
}

// Put twice under the same primary key collapses to one row: Get returns
// only the most recent value, and a full scan sees exactly one entry for
// that key.
func TestPutCollapsesDuplicateKey(t *testing.T) {
	db := openTestDB(t)
	widgets := widgetTable(db, "widgets")

	id := uuid.New()
	err := db.Update(func(w *store.WriteTxn) error {
		if err := store.Put(w, widgets, widget{ID: id, Name: "v1", Rev: 1}); err != nil {
			return err
		}
		return store.Put(w, widgets, widget{ID: id, Name: "v2", Rev: 2})
	})
	require.NoError(t, err)

	err = db.View(func(r *store.ReadTxn) error {
		got, ok, err := store.Get(r, widgets, id)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "v2", got.Name)

		c := store.Scan(r, widgets)
		defer c.Close()
		count := 0
		for {
			_, ok, err := c.Next()
			require.NoError(t, err)
			if !ok {
				break
			}
			count++
		}
		require.Equal(t, 1, count)
		return nil
	})
	require.NoError(t, err)
}

// Deleting a row removes it from Get and Scan both.
func TestDeleteRemovesRow(t *testing.T) {
	db := openTestDB(t)
	widgets := widgetTable(db, "widgets")

	id := uuid.New()
	require.NoError(t, db.Update(func(w *store.WriteTxn) error {
		return store.Put(w, widgets, widget{ID: id, Name: "gizmo"})
	}))
	require.NoError(t, db.Update(func(w *store.WriteTxn) error {
		return store.Delete(w, widgets, id)
	}))

	err := db.View(func(r *store.ReadTxn) error {
		_, ok, err := store.Get(r, widgets, id)
		require.NoError(t, err)
		require.False(t, ok)
		return nil
	})
	require.NoError(t, err)

	// Deleting an already-absent key is a no-op, not an error.
	require.NoError(t, db.Update(func(w *store.WriteTxn) error {
		return store.Delete(w, widgets, id)
	}))
}

// Deleting a row also removes its secondary index entries, so a later
// GetByIndex on the same secondary key reports no match rather than a
// dangling reference to a primary key that no longer exists.
func TestDeleteMaintainsIndex(t *testing.T) {
	db := openTestDB(t)
	widgets := widgetTable(db, "widgets")
	byName := store.RegisterIndex(widgets, "widgets_by_name", store.StringKey(),
		func(w widget) string { return w.Name })

	id := uuid.New()
	require.NoError(t, db.Update(func(w *store.WriteTxn) error {
		return store.Put(w, widgets, widget{ID: id, Name: "gizmo"})
	}))
	require.NoError(t, db.Update(func(w *store.WriteTxn) error {
		return store.Delete(w, widgets, id)
	}))

	err := db.View(func(r *store.ReadTxn) error {
		_, ok, err := store.GetByIndex(r, byName, "gizmo")
		require.NoError(t, err)
		require.False(t, ok)
		return nil
	})
	require.NoError(t, err)
}

// PutByIndex, invoked twice for the same natural key with two different
// candidate primary keys, keeps the primary key from the first write:
// the second write's row is rebound onto the already-stored surrogate id
// rather than creating a second row.
func TestPutByIndexPreservesSurrogateID(t *testing.T) {
	db := openTestDB(t)
	widgets := widgetTable(db, "widgets")
	byName := store.RegisterIndex(widgets, "widgets_by_name", store.StringKey(),
		func(w widget) string { return w.Name })

	first := uuid.New()
	second := uuid.New()
	require.NoError(t, db.Update(func(w *store.WriteTxn) error {
		return store.PutByIndex(w, widgets, byName, widget{ID: first, Name: "gizmo", Rev: 1})
	}))
	require.NoError(t, db.Update(func(w *store.WriteTxn) error {
		return store.PutByIndex(w, widgets, byName, widget{ID: second, Name: "gizmo", Rev: 2})
	}))

	err := db.View(func(r *store.ReadTxn) error {
		got, ok, err := store.GetByIndex(r, byName, "gizmo")
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, first, got.ID, "second put should rebind onto the first row's surrogate id")
		require.Equal(t, uint64(2), got.Rev, "second put's fields should still win")

		c := store.Scan(r, widgets)
		defer c.Close()
		count := 0
		for {
			_, ok, err := c.Next()
			require.NoError(t, err)
			if !ok {
				break
			}
			count++
		}
		require.Equal(t, 1, count, "rebinding must not leave the first row behind under its own id")
		return nil
	})
	require.NoError(t, err)
}

// PutByIndexWith lets the caller merge the old and new rows instead of
// overwriting wholesale.
func TestPutByIndexWithMergesOldAndNew(t *testing.T) {
	db := openTestDB(t)
	widgets := widgetTable(db, "widgets")
	byName := store.RegisterIndex(widgets, "widgets_by_name", store.StringKey(),
		func(w widget) string { return w.Name })

	id := uuid.New()
	require.NoError(t, db.Update(func(w *store.WriteTxn) error {
		return store.PutByIndex(w, widgets, byName, widget{ID: id, Name: "gizmo", Rev: 1})
	}))
	require.NoError(t, db.Update(func(w *store.WriteTxn) error {
		return store.PutByIndexWith(w, widgets, byName, widget{Name: "gizmo", Rev: 2},
			func(old, v widget) widget {
				v.Rev = old.Rev + v.Rev
				return v
			})
	}))

	err := db.View(func(r *store.ReadTxn) error {
		got, ok, err := store.GetByIndex(r, byName, "gizmo")
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, id, got.ID)
		require.Equal(t, uint64(3), got.Rev)
		return nil
	})
	require.NoError(t, err)
}

// Range scans return rows in ascending key order and respect the
// exclusive upper bound.
func TestRangeOrdersByKeyAndExcludesUpperBound(t *testing.T) {
	db := openTestDB(t)

	type numbered struct {
		N    uint64
		Name string
	}
	table := store.RegisterTable(db, "numbered", store.Uint64Key(),
		func(n numbered) uint64 { return n.N },
		func(n numbered, k uint64) numbered { n.N = k; return n },
	)

	require.NoError(t, db.Update(func(w *store.WriteTxn) error {
		for n := uint64(1); n <= 5; n++ {
			if err := store.Put(w, table, numbered{N: n, Name: "item"}); err != nil {
				return err
			}
		}
		return nil
	}))

	err := db.View(func(r *store.ReadTxn) error {
		c := store.Range(r, table, uint64(2), uint64(5))
		defer c.Close()
		var got []uint64
		for {
			v, ok, err := c.Next()
			require.NoError(t, err)
			if !ok {
				break
			}
			got = append(got, v.N)
		}
		require.Equal(t, []uint64{2, 3, 4}, got)
		return nil
	})
	require.NoError(t, err)
}
