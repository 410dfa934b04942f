// Package wire implements the binary value codec: header/tag layout,
// integer and IEEE-754 float packing, table traversal, and the reference
// economy rule shared between Encoder and Decoder.
package wire

import (
	"math"

	"github.com/arvidw/vela/endian"
	"github.com/arvidw/vela/errs"
	"github.com/arvidw/vela/internal/options"
	"github.com/arvidw/vela/internal/pool"
	"github.com/arvidw/vela/reftable"
	"github.com/arvidw/vela/value"
)

// Option configures an Encoder.
type Option = options.Option[*Encoder]

// WithExternals seeds the encoder's reference table with externally
// supplied values, occupying reference ids [0, len(externals)) (spec §4.4).
// A value.External(i) anywhere in the graph refers back to externals[i].
func WithExternals(externals []value.Value) Option {
	return options.NoError(func(e *Encoder) { e.externals = externals })
}

// WithOmitUnsupported makes the encoder silently drop (and count) table
// entries whose key or value has no wire encoding, instead of failing with
// errs.ErrUnsupportedType (spec §4.1 step 3).
func WithOmitUnsupported(omit bool) Option {
	return options.NoError(func(e *Encoder) { e.omitUnsupported = omit })
}

// Encoder turns a value.Value graph into the binary wire form.
type Encoder struct {
	engine          endian.EndianEngine
	externals       []value.Value
	omitUnsupported bool
}

// NewEncoder builds an Encoder with the given options. Options registered
// via WithExternals/WithOmitUnsupported never fail, so the internal
// options.Apply error is unreachable here; it is still checked to keep
// this package honest about the generic option contract.
func NewEncoder(opts ...Option) *Encoder {
	e := &Encoder{engine: endian.GetLittleEndianEngine()}
	if err := options.Apply[*Encoder](e, opts...); err != nil {
		panic(err)
	}

	return e
}

// Encode serializes root, returning the encoded bytes and the number of
// table entries dropped under WithOmitUnsupported.
func (e *Encoder) Encode(root value.Value) ([]byte, int, error) {
	if root.Kind == value.KindNil {
		return nil, 0, nil
	}

	rt := reftable.New()
	rt.Seed(e.externals)

	buf := pool.GetWireBuffer()
	defer pool.PutWireBuffer(buf)

	omitted := 0
	if err := e.encodeValue(buf, rt, root, &omitted); err != nil {
		return nil, 0, err
	}

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())

	return out, omitted, nil
}

func (e *Encoder) encodeValue(buf *pool.ByteBuffer, rt *reftable.Table, v value.Value, omitted *int) error {
	switch v.Kind {
	case value.KindBool:
		start := buf.Len()
		if v.BoolVal() {
			buf.MustWrite([]byte{tagTrue})
		} else {
			buf.MustWrite([]byte{tagFalse})
		}

		e.registerIfWorthwhile(rt, v, buf.Len()-start)

		return nil

	case value.KindInt:
		start := buf.Len()
		if err := e.encodeInt(buf, v.IntVal()); err != nil {
			return err
		}

		e.registerIfWorthwhile(rt, v, buf.Len()-start)

		return nil

	case value.KindFloat32:
		return e.encodeFloatValue(buf, rt, float64(v.Float32Val()))

	case value.KindFloat64:
		return e.encodeFloatValue(buf, rt, v.Float64Val())

	case value.KindString:
		return e.encodeScalar(buf, rt, v)

	case value.KindTable:
		return e.encodeTable(buf, rt, v.Table(), omitted)

	case value.KindExternal:
		if v.ExternalID() < 0 || v.ExternalID() >= len(e.externals) {
			return errs.ErrBadArgument
		}

		return writeReference(buf, e.engine, v.ExternalID())

	case value.KindNil, value.KindUnsupported:
		return errs.ErrUnsupportedType

	default:
		return errs.ErrUnsupportedType
	}
}

// encodeFloatValue implements spec §4.1 "Number encoding" steps 1-4: NaN,
// then integer-in-range, then Float32, then Float64. A Value's declared
// Kind (Float32 vs Float64) only affects which Go type its payload started
// in — the wire representation is chosen purely from the numeric value.
func (e *Encoder) encodeFloatValue(buf *pool.ByteBuffer, rt *reftable.Table, f float64) error {
	if math.IsNaN(f) {
		start := buf.Len()
		buf.MustWrite([]byte{tagNaN})
		e.registerIfWorthwhile(rt, value.Float64(f), buf.Len()-start)

		return nil
	}

	if iv, ok := asInteger(f, value.MaxInt); ok {
		start := buf.Len()
		if err := e.encodeInt(buf, iv); err != nil {
			return err
		}

		e.registerIfWorthwhile(rt, value.Int(iv), buf.Len()-start)

		return nil
	}

	start := buf.Len()

	var err error
	if fitsFloat32(f) {
		err = e.encodeFloat32(buf, float32(f))
	} else {
		err = e.encodeFloat64(buf, f)
	}

	if err != nil {
		return err
	}

	e.registerIfWorthwhile(rt, value.Float64(f), buf.Len()-start)

	return nil
}

// registerIfWorthwhile mirrors decodeState.registerIfWorthwhile: a
// non-table value is registered only if it cost more bytes to write than a
// future reference to it would cost. Both sides must apply this
// identically (spec §4.1, §9) or reference numbering diverges.
func (e *Encoder) registerIfWorthwhile(rt *reftable.Table, v value.Value, bytesWritten int) {
	refCost := reftable.BytesNeededForReference(rt.Len())
	if bytesWritten > refCost {
		rt.RegisterScalar(v)
	}
}

func (e *Encoder) encodeInt(buf *pool.ByteBuffer, i int64) error {
	if i >= 0 {
		return writeTypedHeader(buf, e.engine, typeIntPos, uint64(i))
	}

	return writeTypedHeader(buf, e.engine, typeIntNeg, uint64(-i))
}

func (e *Encoder) encodeFloat32(buf *pool.ByteBuffer, f float32) error {
	var tmp [5]byte
	tmp[0] = tagFloat32
	e.engine.PutUint32(tmp[1:], math.Float32bits(f))
	buf.MustWrite(tmp[:])

	return nil
}

func (e *Encoder) encodeFloat64(buf *pool.ByteBuffer, f float64) error {
	var tmp [9]byte
	tmp[0] = tagFloat64
	e.engine.PutUint64(tmp[1:], math.Float64bits(f))
	buf.MustWrite(tmp[:])

	return nil
}

// encodeScalar applies the reference-economy rule (spec §4.1 "Reference
// policy") to a non-table, non-numeric value: strings are the only kind
// the reference table indexes by content (see reftable.LookupScalar), so
// this is only ever called for value.KindString.
func (e *Encoder) encodeScalar(buf *pool.ByteBuffer, rt *reftable.Table, v value.Value) error {
	if id, ok := rt.LookupScalar(v); ok {
		return writeReference(buf, e.engine, id)
	}

	start := buf.Len()
	if err := writeString(buf, e.engine, v.StrVal()); err != nil {
		return err
	}

	e.registerIfWorthwhile(rt, v, buf.Len()-start)

	return nil
}

func writeString(buf *pool.ByteBuffer, engine endian.EndianEngine, s string) error {
	if err := writeTypedHeader(buf, engine, typeString, uint64(len(s))); err != nil {
		return err
	}

	buf.MustWrite([]byte(s))

	return nil
}

func (e *Encoder) encodeTable(buf *pool.ByteBuffer, rt *reftable.Table, tbl *value.Table, omitted *int) error {
	if id, ok := rt.LookupTable(tbl); ok {
		return writeReference(buf, e.engine, id)
	}

	rt.RegisterTable(tbl)

	entries := tbl.Entries()

	if tbl.IsArray() {
		vals := tbl.ArrayValues()

		kept := make([]value.Value, 0, len(vals))
		for _, v := range vals {
			if e.isUnsupported(v) {
				if !e.omitUnsupported {
					return errs.ErrUnsupportedType
				}

				*omitted++

				continue
			}

			kept = append(kept, v)
		}

		if err := writeTypedHeader(buf, e.engine, typeArray, uint64(len(kept))); err != nil {
			return err
		}

		for _, v := range kept {
			if err := e.encodeValue(buf, rt, v, omitted); err != nil {
				return err
			}
		}

		return nil
	}

	type pair struct{ k, v value.Value }

	kept := make([]pair, 0, len(entries))
	for _, en := range entries {
		if e.isUnsupported(en.Key) || e.isUnsupported(en.Val) {
			if !e.omitUnsupported {
				return errs.ErrUnsupportedType
			}

			*omitted += 2

			continue
		}

		kept = append(kept, pair{k: en.Key, v: en.Val})
	}

	if err := writeTypedHeader(buf, e.engine, typeMap, uint64(len(kept))); err != nil {
		return err
	}

	for _, p := range kept {
		if err := e.encodeValue(buf, rt, p.k, omitted); err != nil {
			return err
		}

		if err := e.encodeValue(buf, rt, p.v, omitted); err != nil {
			return err
		}
	}

	return nil
}

func (e *Encoder) isUnsupported(v value.Value) bool {
	return v.Kind == value.KindNil || v.Kind == value.KindUnsupported
}
