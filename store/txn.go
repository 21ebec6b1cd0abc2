package store

import (
	"bytes"
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"
)

// ErrNotFound is never returned by the functions in this file — a missing
// row is reported through the ordinary (value, false, nil) "not found"
// return shape instead, the same way the engine itself distinguishes
// "absent" from "error". It exists for callers higher up the stack
// (rpmmd/domain lookups that must treat absence as exceptional) that want
// a sentinel to wrap with fmt.Errorf and compare with errors.Is.
var ErrNotFound = errors.New("store: not found")

// ReadTxn is a read-only view of the database, valid only for the
// duration of the View or Update call that produced it.
type ReadTxn struct {
	txn *badger.Txn
}

// WriteTxn extends ReadTxn with mutation. It is only ever constructed by
// Database.Update.
type WriteTxn struct {
	ReadTxn
}

// Get fetches the row with primary key k, decoding it into V. The bool
// result is false, with a nil error, when no row has that key.
func Get[K, V any](r *ReadTxn, t *Table[K, V], k K) (V, bool, error) {
	var zero V
	fk := fullKey(t.prefix, t.keyCodec.Encode(k))
	item, err := r.txn.Get(fk)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, fmt.Errorf("store: get %s: %w", t.name, err)
	}
	var v V
	if err := item.Value(func(val []byte) error { return DecodeValue(val, &v) }); err != nil {
		return zero, false, fmt.Errorf("store: get %s: %w", t.name, err)
	}
	return v, true, nil
}

// GetByIndex looks up a row by secondary key. A dangling index entry —
// one whose referenced primary key no longer exists in the table — is
// reported the same way as no match at all, rather than as an error: it
// can only arise from a bug elsewhere in this package, and callers should
// not need a third outcome to handle it.
func GetByIndex[V, I any](r *ReadTxn, idx *Index[V, I], ikey I) (V, bool, error) {
	var zero V
	ik := fullKey(idx.prefix, idx.keyCodec.Encode(ikey))
	item, err := r.txn.Get(ik)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, fmt.Errorf("store: get by index %s: %w", idx.name, err)
	}
	var pk []byte
	if err := item.Value(func(val []byte) error {
		pk = append(pk, val...)
		return nil
	}); err != nil {
		return zero, false, fmt.Errorf("store: get by index %s: %w", idx.name, err)
	}

	tk := fullKey(idx.tablePrefix, pk)
	titem, err := r.txn.Get(tk)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, fmt.Errorf("store: get by index %s: %w", idx.name, err)
	}
	var v V
	if err := titem.Value(func(val []byte) error { return DecodeValue(val, &v) }); err != nil {
		return zero, false, fmt.Errorf("store: get by index %s: %w", idx.name, err)
	}
	return v, true, nil
}

// Cursor iterates the rows of a Scan or Range call in key order. It must
// be closed after use.
type Cursor[V any] struct {
	it     *badger.Iterator
	prefix []byte
	end    []byte
	closed bool
}

// Next advances the cursor and decodes the row it lands on. The bool
// result is false once the scan is exhausted.
func (c *Cursor[V]) Next() (V, bool, error) {
	var zero V
	if c.closed || !c.it.ValidForPrefix(c.prefix) {
		return zero, false, nil
	}
	item := c.it.Item()
	if c.end != nil && bytes.Compare(item.Key(), c.end) >= 0 {
		return zero, false, nil
	}
	var v V
	err := item.Value(func(val []byte) error { return DecodeValue(val, &v) })
	c.it.Next()
	if err != nil {
		return zero, false, fmt.Errorf("store: scan: %w", err)
	}
	return v, true, nil
}

// Close releases the underlying engine iterator. Safe to call more than
// once.
func (c *Cursor[V]) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.it.Close()
}

// Scan returns a cursor over every row of t in primary-key order.
func Scan[K, V any](r *ReadTxn, t *Table[K, V]) *Cursor[V] {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = t.prefix
	it := r.txn.NewIterator(opts)
	it.Seek(t.prefix)
	return &Cursor[V]{it: it, prefix: t.prefix}
}

// Range returns a cursor over the rows of t whose primary key is in
// [lo, hi) — lo inclusive, hi exclusive, matching a half-open range scan
// over the encoded key bytes.
func Range[K, V any](r *ReadTxn, t *Table[K, V], lo, hi K) *Cursor[V] {
	start := fullKey(t.prefix, t.keyCodec.Encode(lo))
	end := fullKey(t.prefix, t.keyCodec.Encode(hi))
	opts := badger.DefaultIteratorOptions
	opts.Prefix = t.prefix
	it := r.txn.NewIterator(opts)
	it.Seek(start)
	return &Cursor[V]{it: it, prefix: t.prefix, end: end}
}

// Query materializes every row of t matching pred. Filtering happens
// client-side over a full table scan; it is meant for small tables and
// ad hoc lookups, not a query planner.
func Query[K, V any](r *ReadTxn, t *Table[K, V], pred func(V) bool) ([]V, error) {
	c := Scan(r, t)
	defer c.Close()
	var out []V
	for {
		v, ok, err := c.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		if pred(v) {
			out = append(out, v)
		}
	}
}

// Put writes v, replacing any existing row with the same primary key, and
// writes every registered index entry for v. It does not delete the index
// entries of a previous value stored under the same primary key: those
// keys would have to be recomputed from the old row's fields, which Put
// does not read, so callers that change an indexed field on an existing
// row must Delete the old row first. Within one table, Put is only safe
// as a blind overwrite when the indexed fields are unchanged or the row
// is new.
func Put[K, V any](w *WriteTxn, t *Table[K, V], v V) error {
	k := t.keyOf(v)
	kb := t.keyCodec.Encode(k)
	fk := fullKey(t.prefix, kb)

	vb, err := EncodeValue(v)
	if err != nil {
		return fmt.Errorf("store: put %s: %w", t.name, err)
	}
	if err := w.txn.Set(fk, vb); err != nil {
		return fmt.Errorf("store: put %s: %w", t.name, err)
	}
	for _, idx := range t.indexes {
		ik := idx.fullKey(v)
		if err := w.txn.Set(ik, kb); err != nil {
			return fmt.Errorf("store: put %s: update index %s: %w", t.name, idx.name, err)
		}
	}
	return nil
}

// Delete removes the row with primary key k, if any, along with every
// index entry that referenced it. A missing row is a no-op, not an error.
func Delete[K, V any](w *WriteTxn, t *Table[K, V], k K) error {
	fk := fullKey(t.prefix, t.keyCodec.Encode(k))
	item, err := w.txn.Get(fk)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("store: delete %s: %w", t.name, err)
	}
	var old V
	if err := item.Value(func(val []byte) error { return DecodeValue(val, &old) }); err != nil {
		return fmt.Errorf("store: delete %s: %w", t.name, err)
	}
	for _, idx := range t.indexes {
		ik := idx.fullKey(old)
		if err := w.txn.Delete(ik); err != nil {
			return fmt.Errorf("store: delete %s: remove index %s: %w", t.name, idx.name, err)
		}
	}
	if err := w.txn.Delete(fk); err != nil {
		return fmt.Errorf("store: delete %s: %w", t.name, err)
	}
	return nil
}

// PutByIndex upserts v keyed by its secondary index value rather than its
// primary key: if a row already matches idx.keyOf(v), v's primary key is
// rebound (via the table's rebind function) to that row's existing
// primary key before writing, so the surrogate id is preserved across
// repeated syncs of the same natural-key entity. If no row matches, v is
// inserted as-is, keeping whatever primary key it already carries.
func PutByIndex[K, V, I any](w *WriteTxn, t *Table[K, V], idx *Index[V, I], v V) error {
	rebound, err := rebindByIndex(w, t, idx, v)
	if err != nil {
		return err
	}
	return Put(w, t, rebound)
}

// PutByIndexWith behaves like PutByIndex, but when an existing row
// matches, patch is called with the old full row and the rebound new
// value, and its return value is written instead of v directly. This lets
// callers merge fields (for example, union two partial module-default
// snapshots) rather than overwrite the old row outright.
func PutByIndexWith[K, V, I any](w *WriteTxn, t *Table[K, V], idx *Index[V, I], v V, patch func(old, v V) V) error {
	rebound, matchedKey, found, err := rebindByIndexReportingMatch(w, t, idx, v)
	if err != nil {
		return err
	}
	if !found {
		return Put(w, t, rebound)
	}
	old, ok, err := Get(&w.ReadTxn, t, matchedKey)
	if err != nil {
		return err
	}
	if !ok {
		// Index pointed at a row that is gone; treat as a fresh insert.
		return Put(w, t, rebound)
	}
	return Put(w, t, patch(old, rebound))
}

func rebindByIndex[K, V, I any](w *WriteTxn, t *Table[K, V], idx *Index[V, I], v V) (V, error) {
	rebound, _, _, err := rebindByIndexReportingMatch(w, t, idx, v)
	return rebound, err
}

func rebindByIndexReportingMatch[K, V, I any](w *WriteTxn, t *Table[K, V], idx *Index[V, I], v V) (rebound V, matchedKey K, found bool, err error) {
	ik := fullKey(idx.prefix, idx.keyCodec.Encode(idx.keyOf(v)))
	item, getErr := w.txn.Get(ik)
	if errors.Is(getErr, badger.ErrKeyNotFound) {
		return v, matchedKey, false, nil
	}
	if getErr != nil {
		return v, matchedKey, false, fmt.Errorf("store: put by index %s: %w", idx.name, getErr)
	}
	var pk []byte
	if valErr := item.Value(func(val []byte) error {
		pk = append(pk, val...)
		return nil
	}); valErr != nil {
		return v, matchedKey, false, fmt.Errorf("store: put by index %s: %w", idx.name, valErr)
	}
	existingKey, decErr := t.keyCodec.Decode(pk)
	if decErr != nil {
		return v, matchedKey, false, fmt.Errorf("store: put by index %s: decode existing key: %w", idx.name, decErr)
	}
	return t.rebind(v, existingKey), existingKey, true, nil
}
