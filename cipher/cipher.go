// Package cipher implements the reversible, non-cryptographic stream
// obfuscator: a 32-bit linear congruential generator seeded from the key
// and data/ciphertext length, XOR-style additive mixing in an
// overlap-add pattern across key-length-wide windows, and its exact
// algebraic inverse.
package cipher

import "github.com/arvidw/vela/errs"

// lcgMultiplier and lcgIncrement are the classic glibc-style LCG constants
// the source's PRNG uses (spec §4.3).
const (
	lcgMultiplier = 1103515245
	lcgIncrement  = 12345
	seedScale     = 57163
)

// prng is the 32-bit LCG: s <- (s*1103515245+12345) mod 2^32, output byte
// (s>>16) mod 256. Go's uint32 arithmetic wraps mod 2^32 for free.
type prng struct {
	s uint32
}

func newPRNG(seed uint32) *prng { return &prng{s: seed} }

func (p *prng) next() byte {
	p.s = p.s*lcgMultiplier + lcgIncrement
	return byte(p.s >> 16)
}

// deriveSeed implements spec §4.3 "Seed": s0 = (dataLen-keyLen+1)*57163,
// then for i in 1..keyLen a key-mixing LCG step plus a high-bit-folding
// refinement. The source expresses the refinement in floating point
// (`(i+101)*(s>>16)*2^-16`); translated to integer arithmetic (per spec
// §9's guidance to use 32-bit wrapping integer math) that fractional
// scaling becomes an integer division by 65536, applied after the
// multiply — the resolution this package uses.
func deriveSeed(dataLen, keyLen int, key []byte) uint32 {
	s := uint32(int64(dataLen-keyLen+1) * seedScale)

	for i := 1; i <= keyLen; i++ {
		reduced := (uint64(s) + uint64(key[i-1])*uint64(i)) % (1 << 22)
		s = uint32(reduced*lcgMultiplier + lcgIncrement)

		hi := uint64(s >> 16)
		mix := (uint64(i+101) * hi) / 65536
		s = uint32(uint64(s) + mix)
	}

	return s
}

func wrapByte(x int) byte {
	return byte(((x % 256) + 256) % 256)
}

// Encrypt returns a new ciphertext buffer of length len(data)+len(key)-1.
// key must be non-empty (spec §7 BadArgument).
func Encrypt(data, key []byte) ([]byte, error) {
	if len(key) == 0 {
		return nil, errs.ErrBadArgument
	}

	dataLen := len(data)
	keyLen := len(key)

	out := make([]byte, dataLen+keyLen-1)

	p := newPRNG(deriveSeed(dataLen, keyLen, key))

	for i := 0; i < dataLen; i++ {
		for j := 0; j < keyLen; j++ {
			b := p.next()
			out[i+j] = wrapByte(int(out[i+j]) + int(data[i]) + int(key[j]) + int(b))
		}
	}

	return out, nil
}

// Decrypt is the exact algebraic inverse of Encrypt: it peels each input
// byte's contribution off the ciphertext from the tail backward, using a
// PRNG byte stream pre-generated from the same seed Encrypt would have
// used for a plaintext of this length (spec §4.3 "Decrypt", §9 note 2).
func Decrypt(cipherText, key []byte) ([]byte, error) {
	if len(key) == 0 {
		return nil, errs.ErrBadArgument
	}

	keyLen := len(key)
	l := len(cipherText)

	// Encrypt of empty data yields keyLen-1 bytes, the shortest valid input.
	if l < keyLen-1 {
		return nil, errs.ErrBadArgument
	}

	dataLen := l - keyLen + 1

	p := newPRNG(deriveSeed(dataLen, keyLen, key))

	prngBytes := make([]byte, dataLen*keyLen)
	for k := range prngBytes {
		prngBytes[k] = p.next()
	}

	buf := make([]byte, l)
	copy(buf, cipherText)

	data := make([]byte, dataLen)

	for i := dataLen - 1; i >= 0; i-- {
		lastIdx := i*keyLen + (keyLen - 1)
		d := wrapByte(int(buf[i+keyLen-1]) - int(key[keyLen-1]) - int(prngBytes[lastIdx]))
		data[i] = d

		for j := keyLen - 2; j >= 0; j-- {
			idx := i*keyLen + j
			buf[i+j] = wrapByte(int(buf[i+j]) - int(d) - int(key[j]) - int(prngBytes[idx]))
		}
	}

	return data, nil
}
