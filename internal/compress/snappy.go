package compress

import "github.com/golang/snappy"

// snappyCompressor implements Compressor using Snappy, which favors speed
// over compression ratio.
type snappyCompressor struct{}

func (s *snappyCompressor) Type() Kind { return KindSnappy }

func (s *snappyCompressor) Compress(data []byte) ([]byte, error) {
	return snappy.Encode(nil, data), nil
}

func (s *snappyCompressor) Decompress(data []byte) ([]byte, error) {
	return snappy.Decode(nil, data)
}
