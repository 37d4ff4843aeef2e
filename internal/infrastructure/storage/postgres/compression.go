package postgres

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// CompressionAlgo specifies the compression algorithm used for a payload.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// DefaultCompressThreshold is the payload size above which snapshots are compressed.
const DefaultCompressThreshold = 4 * 1024

// Codec compresses large payloads with zstd. Safe for concurrent use.
type Codec struct {
	encoder   *zstd.Encoder
	decoder   *zstd.Decoder
	threshold int
}

// NewCodec creates a codec compressing payloads larger than threshold bytes.
func NewCodec(threshold int) (*Codec, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &Codec{encoder: encoder, decoder: decoder, threshold: threshold}, nil
}

// Encode returns the stored form of data and the algorithm applied.
func (c *Codec) Encode(data []byte) ([]byte, CompressionAlgo) {
	if len(data) <= c.threshold {
		return data, CompressionNone
	}
	return c.encoder.EncodeAll(data, nil), CompressionZstd
}

// Decode reverses Encode.
func (c *Codec) Decode(data []byte, algo CompressionAlgo) ([]byte, error) {
	switch algo {
	case CompressionNone, "":
		return data, nil
	case CompressionZstd:
		out, err := c.decoder.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("decompress snapshot: %w", err)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unknown compression %q", algo)
}
