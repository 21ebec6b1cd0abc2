package store

import "fmt"

// tablePrefix and indexPrefix carve the flat engine keyspace into disjoint
// regions, one per table or index, the same way a DynamoDB-style store
// prefixes global secondary index entries to share one underlying file
// with the base table.
func tablePrefix(name string) []byte {
	return append([]byte(name), 0x00)
}

func indexPrefix(tableName, indexName string) []byte {
	return append([]byte(tableName+"$"+indexName), 0x00)
}

func fullKey(prefix, encodedKey []byte) []byte {
	out := make([]byte, 0, len(prefix)+len(encodedKey))
	out = append(out, prefix...)
	out = append(out, encodedKey...)
	return out
}

// indexBinding is the type-erased view of an Index that a Table needs in
// order to maintain it on Put and Delete: given a row, produce the bytes
// of the full index key for that row.
type indexBinding[V any] struct {
	name     string
	prefix   []byte
	fullKey  func(V) []byte
}

// Table binds a Go row type V to a primary key type K, projected out of V
// by keyOf, plus whatever secondary indexes have been registered against
// it with RegisterIndex. All reads and writes against the table go through
// the package-level Get, Put, Delete, Scan, Range and Query functions,
// which take a *Table[K, V] as their schema argument.
type Table[K any, V any] struct {
	db      *Database
	name    string
	prefix  []byte
	keyCodec KeyCodec[K]
	keyOf   func(V) K
	rebind  func(v V, newKey K) V
	indexes []indexBinding[V]
}

// RegisterTable declares a new table. keyOf extracts the primary key from
// a row; rebind returns a copy of v with its primary key replaced, and is
// only ever invoked by PutByIndex and PutByIndexWith when an upsert needs
// to keep an existing row's surrogate id. Registration panics on a
// duplicate name: two schemas can never legitimately share a keyspace
// prefix, and a collision here is a programming error, not a runtime
// condition calling code should handle.
func RegisterTable[K, V any](db *Database, name string, codec KeyCodec[K], keyOf func(V) K, rebind func(v V, newKey K) V) *Table[K, V] {
	if err := db.reserveName(name); err != nil {
		panic(err)
	}
	return &Table[K, V]{
		db:       db,
		name:     name,
		prefix:   tablePrefix(name),
		keyCodec: codec,
		keyOf:    keyOf,
		rebind:   rebind,
	}
}

// Index binds the same row type V as its owning table to a secondary key
// type I, projected out of V by keyOf. Index entries map the index key to
// the owning table's raw primary key bytes; GetByIndex follows that
// mapping back into the table.
type Index[V any, I any] struct {
	tablePrefix []byte
	name        string
	prefix      []byte
	keyCodec    KeyCodec[I]
	keyOf       func(V) I
}

// RegisterIndex declares a secondary index on t. Like RegisterTable, it
// panics on a duplicate name.
func RegisterIndex[K, V, I any](t *Table[K, V], name string, codec KeyCodec[I], keyOf func(V) I) *Index[V, I] {
	if err := t.db.reserveName(name); err != nil {
		panic(err)
	}
	idx := &Index[V, I]{
		tablePrefix: t.prefix,
		name:        name,
		prefix:      indexPrefix(t.name, name),
		keyCodec:    codec,
		keyOf:       keyOf,
	}
	t.indexes = append(t.indexes, indexBinding[V]{
		name:   name,
		prefix: idx.prefix,
		fullKey: func(v V) []byte {
			return fullKey(idx.prefix, codec.Encode(keyOf(v)))
		},
	})
	return idx
}

func (t *Table[K, V]) String() string {
	return fmt.Sprintf("store.Table[%s]", t.name)
}
