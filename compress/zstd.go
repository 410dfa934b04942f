package compress

// ZstdCompressor favors compression ratio over speed; best for large
// strings and tables destined for cold storage or bandwidth-limited
// transport, where the cost of compressing is paid once but the smaller
// transport string is read many times.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a Zstd compressor with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
