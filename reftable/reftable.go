// Package reftable implements the reference table shared by the wire
// encoder and decoder: identity-based deduplication, cycle support for
// tables, the reference-economy byte-cost rule, and external-value
// seeding.
//
// The table exists only for the duration of one encode or one decode call
// (see spec §3 "Lifecycles"); callers construct a fresh Table per call.
package reftable

import (
	"github.com/arvidw/vela/value"
	"github.com/cespare/xxhash/v2"
)

// shortInlineMax is the highest reference id encodable via the single-byte
// short-inline tag range (0x1D-0xFF, ids 0..226).
const shortInlineMax = 226

// Table tracks registered values on both the encode and decode sides of a
// single codec call.
//
// On the encode side, Register/Lookup work against value identity: table
// pointers are compared by pointer identity; strings are compared by
// content (via an xxhash64-keyed bucket, mirroring the teacher's
// hash-then-verify pattern for metric-ID collisions in
// internal/collision.Tracker) since Go strings have no pointer identity of
// their own and the reference-economy rule is about saved bytes, not
// physical sharing.
//
// On the decode side, entries holds id -> decoded Value, pre-populated
// with an empty table before descent so cyclic references resolve.
type Table struct {
	entries    []value.Value
	identity   map[*value.Table]int // table pointer -> id
	strBuckets map[uint64][]int     // xxhash64(string) -> candidate ids (collision bucket)
}

// New creates an empty reference table.
func New() *Table {
	return &Table{
		identity:   make(map[*value.Table]int),
		strBuckets: make(map[uint64][]int),
	}
}

// Seed pre-registers externally supplied values at ids [0, len(externals)),
// per spec §4.4. It must be called before any internal value is registered
// so that internal ids start at len(externals), matching the invariant in
// spec §3: "external-values prefix occupies reference ids [0, n_external);
// internal ids start at n_external."
func (t *Table) Seed(externals []value.Value) {
	for _, v := range externals {
		t.register(v)
	}
}

// Len returns the number of entries currently registered (external + internal).
func (t *Table) Len() int { return len(t.entries) }

// register appends v as the next entry and indexes it for future Lookup
// calls. It does not apply the reference-economy rule; callers (the wire
// encoder/decoder) decide whether a given value is worth registering at
// all, then call register/Put unconditionally once that decision is made.
func (t *Table) register(v value.Value) int {
	id := len(t.entries)
	t.entries = append(t.entries, v)

	switch v.Kind {
	case value.KindTable:
		t.identity[v.Table()] = id
	case value.KindString:
		h := xxhash.Sum64String(v.StrVal())
		t.strBuckets[h] = append(t.strBuckets[h], id)
	}

	return id
}

// RegisterTable assigns the table the next reference id *before* its
// contents are encoded, per spec §4.1 "Assign reference id before descent"
// (the mechanism that makes cycles representable). Tables are always
// registered, unconditionally.
func (t *Table) RegisterTable(tbl *value.Table) int {
	return t.register(value.FromTable(tbl))
}

// LookupTable returns the reference id previously assigned to tbl, if any.
func (t *Table) LookupTable(tbl *value.Table) (int, bool) {
	id, ok := t.identity[tbl]
	return id, ok
}

// LookupScalar returns the reference id of a previously registered
// non-table value equal to v by content, if any. Only String values use
// the hash-bucket fast path; other scalar kinds are rare enough as
// repeated literals that a linear scan of same-kind entries is
// unnecessary complexity the teacher's code would not add for a handful
// of candidates, so callers are expected to call this only for Kind ==
// KindString; RegisterScalar still accepts and stores any non-table kind.
func (t *Table) LookupScalar(v value.Value) (int, bool) {
	if v.Kind != value.KindString {
		return 0, false
	}

	h := xxhash.Sum64String(v.StrVal())
	for _, candidate := range t.strBuckets[h] {
		if t.entries[candidate].Kind == value.KindString && t.entries[candidate].StrVal() == v.StrVal() {
			return candidate, true
		}
	}

	return 0, false
}

// RegisterScalar registers a non-table value that the reference-economy
// rule has determined is worth a future reference, and returns its id.
func (t *Table) RegisterScalar(v value.Value) int {
	return t.register(v)
}

// PreallocateTable reserves the next id for a table on the decode side
// before its contents are decoded, storing an empty placeholder so that a
// cyclic self-reference encountered mid-descent resolves to the same
// *value.Table the caller will finish populating. Returns the new id.
func (t *Table) PreallocateTable(tbl *value.Table) int {
	id := len(t.entries)
	t.entries = append(t.entries, value.FromTable(tbl))

	return id
}

// Put stores v (a fully decoded non-table value) at the next id on the
// decode side. The decoder only calls this when the reference-economy
// rule says the value was worth registering, matching the encoder's
// decision so numbering stays in lock-step (spec §9).
func (t *Table) Put(v value.Value) int {
	id := len(t.entries)
	t.entries = append(t.entries, v)

	return id
}

// Get returns the value registered at id, used by the decoder when it
// encounters a reference header.
func (t *Table) Get(id int) (value.Value, bool) {
	if id < 0 || id >= len(t.entries) {
		return value.Value{}, false
	}

	return t.entries[id], true
}

// BytesNeededForReference returns the exact wire cost, in bytes, of
// encoding a reference header for id. This must be computed identically
// by the encoder and decoder so both sides agree on which values get
// registered (spec §4.1 "Reference policy (economy rule)", spec §9).
func BytesNeededForReference(id int) int {
	if id <= shortInlineMax {
		return 1
	}

	k := id - (shortInlineMax + 1)
	switch {
	case k <= 0xFF:
		return 2
	case k <= 0x100FF:
		return 3
	case k <= 0x100FFFF:
		return 4
	default:
		return 5
	}
}
