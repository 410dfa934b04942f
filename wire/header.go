package wire

import (
	"github.com/arvidw/vela/endian"
	"github.com/arvidw/vela/errs"
	"github.com/arvidw/vela/internal/pool"
)

// Type ids used by the multi-byte typed-header range (tag bytes 0x00-0x17).
const (
	typeReference = 0
	typeMap       = 1
	typeArray     = 2
	typeString    = 3
	typeIntPos    = 4
	typeIntNeg    = 5
)

// Single-byte marker tags (spec §4.1 header table).
const (
	tagFloat32 byte = 0x18
	tagFloat64 byte = 0x19
	tagTrue    byte = 0x1A
	tagFalse   byte = 0x1B
	tagNaN     byte = 0x1C

	// shortRefBase is the first tag byte of the short-inline-reference
	// range (0x1D-0xFF), which packs reference ids 0..226 into the tag
	// byte itself with no trailing length bytes.
	shortRefBase = 0x1D
	shortRefMax  = 0xFF
	// shortRefCount is how many reference ids the short-inline range covers.
	shortRefCount = shortRefMax - shortRefBase + 1 // 227
)

// bytecountThresholds[lenBytes-1] is the largest header_value encodable
// with that many length bytes, after the extended-value trick is applied.
var bytecountThresholds = [4]uint64{0xFF, 0x100FF, 0x100FFFF, 0x100FFFFFF}

// extendedOffset[lenBytes-2] is the amount added back by the decoder (and
// subtracted by the encoder before writing) when the final length byte of
// a multi-byte header is zero — the "extended-value trick" from spec §4.1.
// There is no offset for lenBytes==1.
var extendedOffset = [3]uint64{0x10000, 0x1000000, 0x100000000}

// MaxHeaderValue is the largest magnitude a typed header can carry.
const MaxHeaderValue uint64 = 0x100FFFFFF

// chooseLenBytes picks the smallest length-byte count (1..4) that can
// represent value after the extended-value trick, per spec §4.1 "Encoder
// length selection".
func chooseLenBytes(value uint64) (int, error) {
	if value > MaxHeaderValue {
		return 0, errs.ErrOutOfRange
	}

	for lb := 1; lb <= 4; lb++ {
		if value <= bytecountThresholds[lb-1] {
			return lb, nil
		}
	}

	// Unreachable given the bound check above.
	return 0, errs.ErrOutOfRange
}

// writeTypedHeader writes a multi-byte typed header (tag bytes 0x00-0x17):
// one tag byte followed by lenBytes little-endian bytes.
func writeTypedHeader(buf *pool.ByteBuffer, engine endian.EndianEngine, typeID byte, value uint64) error {
	lenBytes, err := chooseLenBytes(value)
	if err != nil {
		return err
	}

	write := value
	if lenBytes >= 2 && value >= extendedOffset[lenBytes-2] {
		write = value - extendedOffset[lenBytes-2]
	}

	tag := (typeID << 2) | byte(lenBytes-1)

	var tmp [5]byte
	tmp[0] = tag

	var wordBuf [8]byte
	engine.PutUint64(wordBuf[:], write)
	copy(tmp[1:1+lenBytes], wordBuf[:lenBytes])

	buf.MustWrite(tmp[:1+lenBytes])

	return nil
}

// writeShortReference writes the 1-byte inline reference tag for
// id in [0, shortRefCount).
func writeShortReference(buf *pool.ByteBuffer, id int) {
	buf.MustWrite([]byte{byte(shortRefBase + id)})
}

// writeReference writes a reference header for id, using the short inline
// form when possible and the typed-header form (type_id 0) otherwise,
// where the decoder is expected to add back shortRefCount.
func writeReference(buf *pool.ByteBuffer, engine endian.EndianEngine, id int) error {
	if id < shortRefCount {
		writeShortReference(buf, id)
		return nil
	}

	return writeTypedHeader(buf, engine, typeReference, uint64(id-shortRefCount))
}

// headerKind distinguishes what a decoded header represents.
type headerKind int

const (
	headerReference headerKind = iota
	headerMap
	headerArray
	headerString
	headerInt // value already carries its sign
	headerFloat32
	headerFloat64
	headerTrue
	headerFalse
	headerNaN
)

// header is the result of decoding one leading tag (plus any trailing
// length/value bytes it consumed).
type header struct {
	kind     headerKind
	value    uint64 // unsigned magnitude for Map/Array/String/Reference
	intValue int64  // signed value for headerInt
	consumed int    // total bytes consumed, including the tag byte
}

// decodeHeader reads one header starting at data[offset].
func decodeHeader(data []byte, offset int, engine endian.EndianEngine) (header, error) {
	if offset >= len(data) {
		return header{}, errs.ErrCorrupt
	}

	tag := data[offset]

	switch {
	case tag <= 0x17:
		typeID := tag >> 2
		lenBytes := int(tag&3) + 1

		if offset+1+lenBytes > len(data) {
			return header{}, errs.ErrCorrupt
		}

		var wordBuf [8]byte
		copy(wordBuf[:lenBytes], data[offset+1:offset+1+lenBytes])
		raw := engine.Uint64(wordBuf[:])

		if lenBytes >= 2 && wordBuf[lenBytes-1] == 0 {
			raw += extendedOffset[lenBytes-2]
		}

		consumed := 1 + lenBytes

		switch typeID {
		case typeReference:
			return header{kind: headerReference, value: raw + shortRefCount, consumed: consumed}, nil
		case typeMap:
			return header{kind: headerMap, value: raw, consumed: consumed}, nil
		case typeArray:
			return header{kind: headerArray, value: raw, consumed: consumed}, nil
		case typeString:
			return header{kind: headerString, value: raw, consumed: consumed}, nil
		case typeIntPos:
			return header{kind: headerInt, intValue: int64(raw), consumed: consumed}, nil
		case typeIntNeg:
			return header{kind: headerInt, intValue: -int64(raw), consumed: consumed}, nil
		default:
			return header{}, errs.ErrCorrupt
		}

	case tag == tagFloat32:
		return header{kind: headerFloat32, consumed: 1}, nil
	case tag == tagFloat64:
		return header{kind: headerFloat64, consumed: 1}, nil
	case tag == tagTrue:
		return header{kind: headerTrue, consumed: 1}, nil
	case tag == tagFalse:
		return header{kind: headerFalse, consumed: 1}, nil
	case tag == tagNaN:
		return header{kind: headerNaN, consumed: 1}, nil
	default: // 0x1D-0xFF
		return header{kind: headerReference, value: uint64(tag - shortRefBase), consumed: 1}, nil
	}
}
