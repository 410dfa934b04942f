// Package compress provides an optional whole-buffer compression stage that
// a caller may insert between the wire-encoded value bytes and the
// cipher/R85 transport stages.
//
// It is off by default (CompressionNone): the default wire output stays
// byte-for-byte what spec.md's §4.1/§4.2 describe. A caller opts in via
// vela.WithCompression for large payloads (long strings, big tables),
// trading the cross-implementation wire-compatibility guarantee for that
// payload in exchange for smaller transport strings.
//
// Four algorithms are wired in:
//
//	CompressionNone - passthrough, zero overhead
//	CompressionZstd - klauspost/compress/zstd, best ratio
//	CompressionS2   - klauspost/compress/s2, balanced
//	CompressionLZ4  - pierrec/lz4/v4, fastest decompression
//
// CreateCodec and GetCodec both build a Codec from a CompressionType; use
// GetCodec for the common case of a shared, reusable instance and
// CreateCodec when a fresh instance matters.
package compress
