package wire

import (
	"math"

	"github.com/arvidw/vela/endian"
	"github.com/arvidw/vela/errs"
	"github.com/arvidw/vela/internal/options"
	"github.com/arvidw/vela/reftable"
	"github.com/arvidw/vela/value"
)

// DecoderOption configures a Decoder.
type DecoderOption = options.Option[*Decoder]

// WithDecoderExternals seeds the decoder's reference table the same way
// WithExternals seeds the encoder's; both sides must agree (spec §4.4).
func WithDecoderExternals(externals []value.Value) DecoderOption {
	return options.NoError(func(d *Decoder) { d.externals = externals })
}

// Decoder reconstructs a value.Value graph from the binary wire form.
type Decoder struct {
	engine    endian.EndianEngine
	externals []value.Value
}

// NewDecoder builds a Decoder with the given options.
func NewDecoder(opts ...DecoderOption) *Decoder {
	d := &Decoder{engine: endian.GetLittleEndianEngine()}
	if err := options.Apply[*Decoder](d, opts...); err != nil {
		panic(err)
	}

	return d
}

// Decode reconstructs the value graph encoded in data. An empty data
// decodes to value.Nil (spec §8 scenario 1: "decode("") == nil").
func (d *Decoder) Decode(data []byte) (value.Value, error) {
	if len(data) == 0 {
		return value.Nil, nil
	}

	rt := reftable.New()
	rt.Seed(d.externals)

	dec := &decodeState{data: data, engine: d.engine, rt: rt}

	v, err := dec.decodeValue()
	if err != nil {
		return value.Value{}, err
	}

	if dec.pos != len(data) {
		return value.Value{}, errs.ErrTrailingData
	}

	return v, nil
}

// decodeState carries the cursor position through one decode call.
type decodeState struct {
	data   []byte
	engine endian.EndianEngine
	rt     *reftable.Table
	pos    int
}

func (d *decodeState) decodeValue() (value.Value, error) {
	hdr, err := decodeHeader(d.data, d.pos, d.engine)
	if err != nil {
		return value.Value{}, err
	}

	d.pos += hdr.consumed

	switch hdr.kind {
	case headerReference:
		v, ok := d.rt.Get(int(hdr.value))
		if !ok {
			return value.Value{}, errs.ErrCorrupt
		}

		return v, nil

	case headerMap, headerArray:
		return d.decodeTable(hdr)

	case headerString:
		return d.decodeString(hdr)

	case headerInt:
		v := value.Int(hdr.intValue)
		d.registerIfWorthwhile(v, hdr.consumed)

		return v, nil

	case headerFloat32:
		if d.pos+4 > len(d.data) {
			return value.Value{}, errs.ErrCorrupt
		}

		bits := d.engine.Uint32(d.data[d.pos : d.pos+4])
		d.pos += 4

		v := value.Float32(math.Float32frombits(bits))
		d.registerIfWorthwhile(v, hdr.consumed+4)

		return v, nil

	case headerFloat64:
		if d.pos+8 > len(d.data) {
			return value.Value{}, errs.ErrCorrupt
		}

		bits := d.engine.Uint64(d.data[d.pos : d.pos+8])
		d.pos += 8

		v := value.Float64(math.Float64frombits(bits))
		d.registerIfWorthwhile(v, hdr.consumed+8)

		return v, nil

	case headerTrue:
		v := value.Bool(true)
		d.registerIfWorthwhile(v, hdr.consumed)

		return v, nil

	case headerFalse:
		v := value.Bool(false)
		d.registerIfWorthwhile(v, hdr.consumed)

		return v, nil

	case headerNaN:
		v := value.Float64(math.NaN())
		d.registerIfWorthwhile(v, hdr.consumed)

		return v, nil

	default:
		return value.Value{}, errs.ErrCorrupt
	}
}

func (d *decodeState) decodeString(hdr header) (value.Value, error) {
	n := int(hdr.value)
	if n < 0 || d.pos+n > len(d.data) {
		return value.Value{}, errs.ErrCorrupt
	}

	s := string(d.data[d.pos : d.pos+n])
	d.pos += n

	v := value.String(s)
	d.registerIfWorthwhile(v, hdr.consumed+n)

	return v, nil
}

func (d *decodeState) decodeTable(hdr header) (value.Value, error) {
	tbl := value.NewTable()
	d.rt.PreallocateTable(tbl)

	n := int(hdr.value)

	if hdr.kind == headerArray {
		for i := 1; i <= n; i++ {
			v, err := d.decodeValue()
			if err != nil {
				return value.Value{}, err
			}

			tbl.SetIndex(i, v)
		}

		return value.FromTable(tbl), nil
	}

	for i := 0; i < n; i++ {
		k, err := d.decodeValue()
		if err != nil {
			return value.Value{}, err
		}

		v, err := d.decodeValue()
		if err != nil {
			return value.Value{}, err
		}

		tbl.Set(k, v)
	}

	return value.FromTable(tbl), nil
}

// registerIfWorthwhile applies the reference-economy rule on the decode
// side, identically to the encoder (spec §4.1, §9): a non-table value is
// registered only if the bytes it just consumed exceed the cost of a
// future reference to the id it would receive.
func (d *decodeState) registerIfWorthwhile(v value.Value, bytesConsumed int) {
	refCost := reftable.BytesNeededForReference(d.rt.Len())
	if bytesConsumed > refCost {
		d.rt.Put(v)
	}
}
