// Package value defines the dynamically-typed host value that the wire
// codec serializes: nil, booleans, bounded signed integers, single- and
// double-precision floats, byte-sequence strings, and heterogeneous tables.
//
// A Value is an immutable tagged union except for Table, whose contents
// may be mutated by the caller before encoding and which may be cyclic or
// shared across the graph (see the reftable package for how sharing and
// cycles survive a round trip).
package value

import "math"

// Kind identifies which variant of Value is populated.
type Kind uint8

const (
	KindNil Kind = iota
	KindBool
	KindInt
	KindFloat32
	KindFloat64
	KindString
	KindTable
	// KindExternal wraps an index into the caller-supplied external-values
	// list (spec §4.4): it carries no payload of its own and always encodes
	// as a reference to that pre-seeded id.
	KindExternal
	// KindUnsupported wraps a host value that has no wire encoding. It can
	// only ever appear as a table entry's key or value, where
	// omit_unsupported decides whether encoding it is an error or a silent
	// (counted) omission; it is never itself a valid root value.
	KindUnsupported
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	case KindString:
		return "string"
	case KindTable:
		return "table"
	case KindExternal:
		return "external"
	case KindUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// MaxInt is the largest magnitude an Integer Value may carry (spec: ±0x100FFFFFF).
const MaxInt int64 = 0x100FFFFFF

// Value is a tagged union over the host's dynamically-typed values.
//
// Only one of the typed fields is meaningful, selected by Kind. Nil and
// Bool pack into Kind/boolVal; Int carries a bounded int64; Float32/Float64
// carry the respective Go float type; String carries an arbitrary byte
// sequence (not necessarily valid UTF-8); Table carries a *Table pointer so
// that two Values can share or cycle through the same table.
type Value struct {
	Kind    Kind
	boolVal bool
	intVal  int64
	f32Val  float32
	f64Val  float64
	strVal  string
	tblVal  *Table
	extID   int
	raw     any
}

// Nil is the nil Value.
var Nil = Value{Kind: KindNil}

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{Kind: KindBool, boolVal: b} }

// Int wraps a bounded signed integer. Callers are responsible for staying
// within ±value.MaxInt; the wire encoder rejects out-of-range values with
// errs.ErrOutOfRange rather than silently falling back to float.
func Int(i int64) Value { return Value{Kind: KindInt, intVal: i} }

// Float32 wraps a single-precision float.
func Float32(f float32) Value { return Value{Kind: KindFloat32, f32Val: f} }

// Float64 wraps a double-precision float.
func Float64(f float64) Value { return Value{Kind: KindFloat64, f64Val: f} }

// String wraps an arbitrary byte sequence. Go's string type is a byte
// sequence already, so no separate "bytes" variant is needed.
func String(s string) Value { return Value{Kind: KindString, strVal: s} }

// FromTable wraps a table pointer. The same *Table passed to two different
// Values produces shared/cyclic structure on encode (see reftable).
func FromTable(t *Table) Value { return Value{Kind: KindTable, tblVal: t} }

// External wraps index i into the external-values list supplied to the
// codec call. It always encodes as a reference to reference-table id i and
// decodes back to whatever the caller's external-values list held at i; see
// spec §4.4.
func External(i int) Value { return Value{Kind: KindExternal, extID: i} }

// Unsupported wraps a host value with no wire encoding, for use as a table
// entry under omit_unsupported (spec §4.1 "Table encoding").
func Unsupported(raw any) Value { return Value{Kind: KindUnsupported, raw: raw} }

// IsNil reports whether v is the Nil value.
func (v Value) IsNil() bool { return v.Kind == KindNil }

// BoolVal returns the boolean payload; only meaningful when Kind == KindBool.
func (v Value) BoolVal() bool { return v.boolVal }

// IntVal returns the integer payload; only meaningful when Kind == KindInt.
func (v Value) IntVal() int64 { return v.intVal }

// Float32Val returns the float32 payload; only meaningful when Kind == KindFloat32.
func (v Value) Float32Val() float32 { return v.f32Val }

// Float64Val returns the float64 payload; only meaningful when Kind == KindFloat64.
func (v Value) Float64Val() float64 { return v.f64Val }

// StrVal returns the string payload; only meaningful when Kind == KindString.
func (v Value) StrVal() string { return v.strVal }

// Table returns the table payload; only meaningful when Kind == KindTable.
func (v Value) Table() *Table { return v.tblVal }

// ExternalID returns the external-values index; only meaningful when Kind == KindExternal.
func (v Value) ExternalID() int { return v.extID }

// Raw returns the wrapped host value; only meaningful when Kind == KindUnsupported.
func (v Value) Raw() any { return v.raw }

// IsNumeric reports whether v holds an integer or either float kind.
func (v Value) IsNumeric() bool {
	switch v.Kind {
	case KindInt, KindFloat32, KindFloat64:
		return true
	default:
		return false
	}
}

// IsNaN reports whether v is a float value holding NaN.
func (v Value) IsNaN() bool {
	switch v.Kind {
	case KindFloat32:
		return math.IsNaN(float64(v.f32Val))
	case KindFloat64:
		return math.IsNaN(v.f64Val)
	default:
		return false
	}
}

// Identity returns a comparable key suitable for map-based identity
// lookups during encoding: for tables, the pointer itself; for everything
// else, the Value itself (Go structs of comparable fields compare by
// value, which is exactly the content-equality the reference-economy rule
// wants for non-table values).
func (v Value) Identity() any {
	if v.Kind == KindTable {
		return v.tblVal
	}

	return v
}
