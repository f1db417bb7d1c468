package compress

import "github.com/klauspost/compress/zstd"

// zstdCompressor implements Compressor using Zstandard, which gives a
// better ratio than gzip at comparable speed.
type zstdCompressor struct {
	// Level is the encoder level; 0 defaults to zstd.SpeedDefault.
	Level zstd.EncoderLevel
}

func (z *zstdCompressor) Type() Kind { return KindZstd }

func (z *zstdCompressor) Compress(data []byte) ([]byte, error) {
	level := z.Level
	if level == 0 {
		level = zstd.SpeedDefault
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(level))
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(data, nil), nil
}

func (z *zstdCompressor) Decompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(data, nil)
}
