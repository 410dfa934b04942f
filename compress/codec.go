package compress

import "fmt"

// CompressionType identifies which algorithm a Codec implements. It is the
// value vela.WithCompression takes and the value CompressionStats.Algorithm
// records.
type CompressionType uint8

const (
	// CompressionNone disables the optional pre-transport compression stage
	// (the default): the value codec's bytes pass to the cipher/R85 stages
	// unchanged, keeping wire output byte-for-byte per spec.
	CompressionNone CompressionType = iota
	// CompressionZstd selects klauspost/compress/zstd.
	CompressionZstd
	// CompressionS2 selects klauspost/compress/s2.
	CompressionS2
	// CompressionLZ4 selects pierrec/lz4/v4.
	CompressionLZ4
)

func (t CompressionType) String() string {
	switch t {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// Compressor provides compression and decompression for the optional
// whole-buffer pre-transport stage a caller may insert between the value
// codec and the cipher/R85 stages (see vela.WithCompression).
//
// This is a caller opt-in: payload sizes in this codec range from a few
// bytes (a boolean) to arbitrarily large strings and tables, so no single
// algorithm or size assumption is baked into the interface itself.
type Compressor interface {
	// Compress compresses data and returns a newly allocated result. The
	// input is never modified.
	Compress(data []byte) ([]byte, error)
}

// Decompressor is the inverse of Compressor. Separate interfaces allow
// asymmetric implementations (decompression is typically faster than
// compression for every algorithm wired in here).
type Decompressor interface {
	// Decompress reverses Compress and returns a newly allocated result.
	// Returns an error if data is corrupted or was not produced by the
	// matching Compressor.
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
//
// This interface is useful for implementations that can handle both operations
// efficiently with shared internal state or optimizations.
type Codec interface {
	Compressor
	Decompressor
}

// CompressionStats reports the outcome of a single compress/decompress pair,
// for callers that want to log or measure the compression stage.
type CompressionStats struct {
	// Algorithm identifies the compression algorithm used
	Algorithm CompressionType

	// OriginalSize is the size of input data before compression
	OriginalSize int64

	// CompressedSize is the size of data after compression
	CompressedSize int64

	// Ratio is the ratio of compressed size to original size (< 1.0 for compression)
	Ratio float64

	// CompressionTimeNs is the time taken to compress the data, in nanoseconds
	CompressionTimeNs int64

	// DecompressionTimeNs is the time taken to decompress the data, in nanoseconds (if applicable)
	DecompressionTimeNs int64
}

// CompressionRatio returns compressed size / original size; values below
// 1.0 indicate the compressor saved space.
func (s CompressionStats) CompressionRatio() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns space saved as a percentage (0-100).
func (s CompressionStats) SpaceSavings() float64 {
	return (1.0 - s.CompressionRatio()) * 100.0
}

// CreateCodec builds a Codec for compressionType; target names the caller
// in error messages (e.g. "vela.WithCompression").
func CreateCodec(compressionType CompressionType, target string) (Codec, error) {
	switch compressionType {
	case CompressionNone:
		return NewNoOpCompressor(), nil
	case CompressionZstd:
		return NewZstdCompressor(), nil
	case CompressionS2:
		return NewS2Compressor(), nil
	case CompressionLZ4:
		return NewLZ4Compressor(), nil
	default:
		return nil, fmt.Errorf("invalid %s compression: %s", target, compressionType)
	}
}

var builtinCodecs = map[CompressionType]Codec{
	CompressionNone: NewNoOpCompressor(),
	CompressionZstd: NewZstdCompressor(),
	CompressionS2:   NewS2Compressor(),
	CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec retrieves a built-in Codec for the specified compression type.
func GetCodec(compressionType CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
}
