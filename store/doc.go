// Package store implements a schema-aware, index-maintaining layer on top
// of an embedded, ordered key-value engine (BadgerDB). It turns a flat byte
// keyspace into typed tables with automatically-maintained secondary
// indexes, transactional get/put/delete/scan, and upsert-by-natural-key
// semantics, under the ACID guarantees the underlying engine already
// provides.
//
// A Table pairs a Go value type V with a primary key type K extracted from
// V by a projection function. An Index pairs the same V with a secondary
// key type I, also extracted by projection. Both key types must encode to
// byte strings that preserve their semantic ordering (see KeyCodec) so that
// a forward scan over the raw engine enumerates rows in key order.
//
// Tables and indexes share one flat badger keyspace, each occupying its own
// byte-string prefix — the same technique BadgerDB-backed multi-tenant
// stores use to emulate named sub-databases on an engine that only offers
// one ordered keyspace per file.
package store
