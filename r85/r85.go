// Package r85 implements the radix-85 ASCII transport: arbitrary bytes are
// packed into little-endian 32-bit blocks and each block is written as
// five base-85 digits, with an adaptive 6-slot dictionary that replaces
// commonly repeated blocks with a single compression byte.
package r85

import (
	"sort"

	"github.com/arvidw/vela/errs"
	"github.com/arvidw/vela/internal/pool"
)

// alphabet is the 85-symbol R85 alphabet, value 0..84.
const alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ.-:+=^!/*?&<>()[]{}@%$#"

// compressionAlphabet holds the 6 extra single-byte symbols (not in
// alphabet) that stand in for a dictionary-indexed block.
const compressionAlphabet = ",;_`|~"

// maxDictEntries is the largest number of blocks the adaptive dictionary holds.
const maxDictEntries = 6

// zeroDigit is the R85 symbol for value 0, used by trailing-zero trimming.
const zeroDigit = '0'

var reverseAlphabet [256]int16
var compressionIndex [256]int16

func init() {
	for i := range reverseAlphabet {
		reverseAlphabet[i] = -1
		compressionIndex[i] = -1
	}

	for i := 0; i < len(alphabet); i++ {
		reverseAlphabet[alphabet[i]] = int16(i)
	}

	for i := 0; i < len(compressionAlphabet); i++ {
		compressionIndex[compressionAlphabet[i]] = int16(i)
	}
}

// Encode converts data to its radix-85 ASCII transport form.
func Encode(data []byte) string {
	blocks, bytesToDiscard, cleanup := packBlocks(data)
	defer cleanup()

	dict, dictIndex := buildDictionary(blocks)

	out := pool.GetTransportBuffer()
	defer pool.PutTransportBuffer(out)

	headerValue := 84 - (bytesToDiscard + 4*len(dict))
	out.MustWrite([]byte{alphabet[headerValue]})

	var digits [5]byte
	for _, b := range dict {
		encodeBlock(b, &digits)
		out.MustWrite(digits[:])
	}

	for _, b := range blocks {
		if idx, ok := dictIndex[b]; ok {
			out.MustWrite([]byte{compressionAlphabet[idx]})
			continue
		}

		encodeBlock(b, &digits)
		out.MustWrite(digits[:])
	}

	trimmed := trimTrailingZeros(out.Bytes())

	return string(trimmed)
}

// Decode reconstructs the original bytes from a radix-85 transport string.
func Decode(s string) ([]byte, error) {
	data := []byte(s)

	if len(data) == 0 {
		return nil, errs.ErrInvalidHeader
	}

	headerValue, ok := lookupDigit(data[0])
	if !ok {
		return nil, errs.ErrInvalidHeader
	}

	combined := 84 - headerValue
	bytesToDiscard := combined % 4
	numCompressedBlocks := combined / 4

	if numCompressedBlocks > maxDictEntries {
		return nil, errs.ErrInvalidHeader
	}

	pos := 1

	dict := make([]uint32, numCompressedBlocks)
	for i := 0; i < numCompressedBlocks; i++ {
		if pos+5 > len(data) {
			return nil, errs.ErrInvalidHeader
		}

		b, err := decodeDigits(data[pos : pos+5])
		if err != nil {
			return nil, err
		}

		dict[i] = b
		pos += 5
	}

	out := pool.GetTransportBuffer()
	defer pool.PutTransportBuffer(out)

	for pos < len(data) {
		c := data[pos]

		var block uint32

		if idx := compressionIndex[c]; idx >= 0 {
			if int(idx) >= len(dict) {
				return nil, errs.ErrInvalidByte
			}

			block = dict[idx]
			pos++
		} else {
			end := pos + 5
			if end > len(data) {
				end = len(data)
			}

			b, err := decodeDigitsPadded(data[pos:end])
			if err != nil {
				return nil, err
			}

			block = b
			pos = end
		}

		var buf4 [4]byte
		buf4[0] = byte(block)
		buf4[1] = byte(block >> 8)
		buf4[2] = byte(block >> 16)
		buf4[3] = byte(block >> 24)
		out.MustWrite(buf4[:])
	}

	if bytesToDiscard > out.Len() {
		return nil, errs.ErrCorrupt
	}

	result := make([]byte, out.Len()-bytesToDiscard)
	copy(result, out.Bytes())

	return result, nil
}

// packBlocks groups data into little-endian 32-bit blocks, zero-padding the
// final block, and returns how many padding bytes were added along with a
// cleanup function the caller must invoke once done with the returned
// slice (it is borrowed from the package's block-slice pool).
func packBlocks(data []byte) ([]uint32, int, func()) {
	n := len(data)
	numBlocks := (n + 3) / 4

	blocks, cleanup := pool.GetUint32Slice(numBlocks)

	for i := 0; i < numBlocks; i++ {
		var b [4]byte

		start := i * 4
		end := start + 4
		if end > n {
			end = n
		}

		copy(b[:], data[start:end])

		blocks[i] = uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	}

	bytesToDiscard := (4 - n%4) % 4

	return blocks, bytesToDiscard, cleanup
}

// buildDictionary selects up to maxDictEntries of the most frequently
// repeated blocks (spec §4.2 "Dictionary construction"; the threshold/evict
// mechanics described there are one way to reach this fixed point, and
// since decoders accept any valid encoder output, selecting the top-6
// repeated blocks directly is an equally conformant implementation).
func buildDictionary(blocks []uint32) ([]uint32, map[uint32]int) {
	counts := make(map[uint32]int, len(blocks))
	for _, b := range blocks {
		counts[b]++
	}

	type candidate struct {
		block uint32
		count int
	}

	candidates := make([]candidate, 0, len(counts))

	for b, c := range counts {
		if c > 1 {
			candidates = append(candidates, candidate{block: b, count: c})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].count != candidates[j].count {
			return candidates[i].count > candidates[j].count
		}

		return candidates[i].block < candidates[j].block
	})

	if len(candidates) > maxDictEntries {
		candidates = candidates[:maxDictEntries]
	}

	dict := make([]uint32, len(candidates))
	index := make(map[uint32]int, len(candidates))

	for i, c := range candidates {
		dict[i] = c.block
		index[c.block] = i
	}

	return dict, index
}

func encodeBlock(v uint32, digits *[5]byte) {
	for i := 0; i < 5; i++ {
		digits[i] = alphabet[v%85]
		v /= 85
	}
}

func lookupDigit(c byte) (int, bool) {
	v := reverseAlphabet[c]
	if v < 0 {
		return 0, false
	}

	return int(v), true
}

func decodeDigits(chunk []byte) (uint32, error) {
	var value uint64

	mult := uint64(1)

	for _, c := range chunk {
		v, ok := lookupDigit(c)
		if !ok {
			return 0, errs.ErrInvalidByte
		}

		value += uint64(v) * mult
		mult *= 85
	}

	return uint32(value), nil
}

// decodeDigitsPadded decodes a (possibly short) final block, treating any
// missing trailing digits as the zero digit — the inverse of trailing-zero
// trimming on encode.
func decodeDigitsPadded(chunk []byte) (uint32, error) {
	var digits [5]byte
	for i := range digits {
		digits[i] = zeroDigit
	}

	copy(digits[:], chunk)

	return decodeDigits(digits[:])
}

// trimTrailingZeros drops up to 4 trailing zero-digit characters, stopping
// at the first non-zero-digit or compression-symbol character (spec §4.2
// "Trailing-zero trimming"; compression symbols are never the zero digit,
// so a plain inequality check already has the right stopping behavior).
func trimTrailingZeros(out []byte) []byte {
	n := 0
	i := len(out) - 1

	for n < 4 && i >= 0 && out[i] == zeroDigit {
		n++
		i--
	}

	return out[:len(out)-n]
}
