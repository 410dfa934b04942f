// Package vela is a self-describing binary serialization codec for a small
// set of dynamically typed host values: nil, booleans, bounded signed
// integers, single- and double-precision floats, byte-sequence strings, and
// heterogeneous tables (dense arrays or general maps, possibly cyclic or
// shared).
//
// # Pipeline
//
// Encoding composes three independent stages, leaves first:
//
//	value graph -> [wire codec] -> bytes -> [cipher?] -> [r85 transport] -> ASCII string
//
// Decoding reverses each stage. An optional fourth stage, whole-buffer
// compression (see the compress package), may be inserted between the wire
// codec and the cipher/R85 stages via WithCompression; it is off by default
// so the default wire output matches the core specification byte-for-byte.
//
// # Basic usage
//
//	s, _, err := vela.EncodeValue(value.Int(42))
//	v, err := vela.DecodeValue(s)
//
// With an obfuscating key and external host values:
//
//	s, _, err := vela.EncodeValue(root,
//	    vela.WithCryptKey([]byte("k")),
//	    vela.WithExternals(externals),
//	)
//	v, err := vela.DecodeValue(s,
//	    vela.WithCryptKey([]byte("k")),
//	    vela.WithExternals(externals),
//	)
//
// # Thread safety
//
// The codec is single-threaded and synchronous: each call owns its own
// reference table, output buffer, and PRNG state exclusively for its
// duration. Multiple calls may run concurrently as long as their inputs
// (in particular, cipher target buffers) aren't mutated concurrently.
package vela

import (
	"github.com/arvidw/vela/cipher"
	"github.com/arvidw/vela/compress"
	"github.com/arvidw/vela/errs"
	"github.com/arvidw/vela/internal/options"
	"github.com/arvidw/vela/r85"
	"github.com/arvidw/vela/value"
	"github.com/arvidw/vela/wire"
)

// config collects every knob EncodeValue/DecodeValue/ValueToBytes/
// BytesToValue accept, applied through the functional-option pattern shared
// with wire.Encoder/wire.Decoder (internal/options).
type config struct {
	externals       []value.Value
	cryptKey        []byte
	omitUnsupported bool
	compression     compress.CompressionType
}

// Option configures an encode or decode call.
type Option = options.Option[*config]

// WithExternals seeds the reference table with host values the caller
// substitutes by identity (spec §4.4). The same slice, in the same order,
// must be supplied on both the encode and decode side.
func WithExternals(externals []value.Value) Option {
	return options.NoError(func(c *config) { c.externals = externals })
}

// WithCryptKey runs the stream cipher over the wire bytes before R85
// transport (encode) or after R85 decode (decode), using key. The key must
// be non-empty and identical on both sides.
func WithCryptKey(key []byte) Option {
	return options.NoError(func(c *config) { c.cryptKey = key })
}

// WithOmitUnsupported makes the encoder drop (and count) table entries
// whose key or value has no wire encoding, instead of failing with
// errs.ErrUnsupportedType. Has no effect on decode.
func WithOmitUnsupported(omit bool) Option {
	return options.NoError(func(c *config) { c.omitUnsupported = omit })
}

// WithCompression inserts the named whole-buffer compression algorithm
// between the wire codec and the cipher/R85 stages. The same algorithm
// must be supplied on both sides. Defaults to compress.CompressionNone,
// which keeps wire output byte-for-byte compatible with the core
// specification; any other value trades that compatibility for smaller
// transport strings on large payloads.
func WithCompression(kind compress.CompressionType) Option {
	return options.NoError(func(c *config) { c.compression = kind })
}

func buildConfig(opts ...Option) (*config, error) {
	c := &config{}
	if err := options.Apply[*config](c, opts...); err != nil {
		return nil, err
	}

	return c, nil
}

// EncodeValue serializes v through the full pipeline and returns the
// printable-ASCII transport string plus the number of table entries
// omitted under WithOmitUnsupported.
func EncodeValue(v value.Value, opts ...Option) (string, int, error) {
	data, omitted, err := ValueToBytes(v, opts...)
	if err != nil {
		return "", 0, err
	}

	// Nil encodes as zero wire bytes (spec §8 scenario 1); R85-transporting
	// zero bytes would still emit a 1-character header, so the empty byte
	// sequence short-circuits straight to the empty transport string.
	if len(data) == 0 {
		return "", omitted, nil
	}

	return r85.Encode(data), omitted, nil
}

// DecodeValue reverses EncodeValue.
func DecodeValue(s string, opts ...Option) (value.Value, error) {
	if s == "" {
		return BytesToValue(nil, opts...)
	}

	data, err := r85.Decode(s)
	if err != nil {
		return value.Value{}, err
	}

	return BytesToValue(data, opts...)
}

// ValueToBytes runs the wire codec, optional compression, and optional
// cipher stages, without R85 transport.
func ValueToBytes(v value.Value, opts ...Option) ([]byte, int, error) {
	c, err := buildConfig(opts...)
	if err != nil {
		return nil, 0, err
	}

	enc := wire.NewEncoder(
		wire.WithExternals(c.externals),
		wire.WithOmitUnsupported(c.omitUnsupported),
	)

	data, omitted, err := enc.Encode(v)
	if err != nil {
		return nil, 0, err
	}

	// An empty wire encoding only ever arises from a Nil root (every other
	// kind writes at least a tag byte); leave it untouched so it round-trips
	// through EncodeValue's empty-transport-string shortcut.
	if len(data) == 0 {
		return data, omitted, nil
	}

	if c.compression != compress.CompressionNone {
		codec, err := compress.CreateCodec(c.compression, "vela.WithCompression")
		if err != nil {
			return nil, 0, err
		}

		data, err = codec.Compress(data)
		if err != nil {
			return nil, 0, err
		}
	}

	if len(c.cryptKey) > 0 {
		data, err = cipher.Encrypt(data, c.cryptKey)
		if err != nil {
			return nil, 0, err
		}
	}

	return data, omitted, nil
}

// BytesToValue reverses ValueToBytes.
func BytesToValue(data []byte, opts ...Option) (value.Value, error) {
	c, err := buildConfig(opts...)
	if err != nil {
		return value.Value{}, err
	}

	if len(data) == 0 {
		dec := wire.NewDecoder(wire.WithDecoderExternals(c.externals))
		return dec.Decode(nil)
	}

	if len(c.cryptKey) > 0 {
		data, err = cipher.Decrypt(data, c.cryptKey)
		if err != nil {
			return value.Value{}, err
		}
	}

	if c.compression != compress.CompressionNone {
		codec, err := compress.CreateCodec(c.compression, "vela.WithCompression")
		if err != nil {
			return value.Value{}, err
		}

		data, err = codec.Decompress(data)
		if err != nil {
			return value.Value{}, err
		}
	}

	dec := wire.NewDecoder(wire.WithDecoderExternals(c.externals))

	return dec.Decode(data)
}

// BytesToR85 converts raw bytes to the printable-ASCII R85 transport form.
func BytesToR85(data []byte) string {
	return r85.Encode(data)
}

// R85ToBytes reverses BytesToR85.
func R85ToBytes(s string) ([]byte, error) {
	return r85.Decode(s)
}

// EncryptBytes runs the stream cipher over data with key and returns the
// ciphertext (length len(data)+len(key)-1).
func EncryptBytes(data, key []byte) ([]byte, error) {
	return cipher.Encrypt(data, key)
}

// DecryptBytes reverses EncryptBytes.
func DecryptBytes(cipherText, key []byte) ([]byte, error) {
	return cipher.Decrypt(cipherText, key)
}

// EncryptString encrypts plain with key and R85-transports the result into
// a printable-ASCII string.
func EncryptString(plain, key []byte) (string, error) {
	if len(key) == 0 {
		return "", errs.ErrBadArgument
	}

	cipherText, err := cipher.Encrypt(plain, key)
	if err != nil {
		return "", err
	}

	return r85.Encode(cipherText), nil
}

// DecryptString reverses EncryptString.
func DecryptString(s string, key []byte) ([]byte, error) {
	cipherText, err := r85.Decode(s)
	if err != nil {
		return nil, err
	}

	return cipher.Decrypt(cipherText, key)
}
