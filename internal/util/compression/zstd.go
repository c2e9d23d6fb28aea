// Package compression compresses article bodies before they are stored.
package compression

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

type Compressor interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

// ZstdCompressor shares one encoder and one decoder; EncodeAll and DecodeAll
// are safe for concurrent use.
type ZstdCompressor struct {
	once    sync.Once
	initErr error
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

func NewZstdCompressor() *ZstdCompressor {
	return &ZstdCompressor{}
}

func (z *ZstdCompressor) init() error {
	z.once.Do(func() {
		z.encoder, z.initErr = zstd.NewWriter(nil)
		if z.initErr != nil {
			return
		}
		z.decoder, z.initErr = zstd.NewReader(nil)
	})
	return z.initErr
}

func (z *ZstdCompressor) Compress(data []byte) ([]byte, error) {
	if err := z.init(); err != nil {
		return nil, fmt.Errorf("zstd init: %w", err)
	}
	return z.encoder.EncodeAll(data, nil), nil
}

func (z *ZstdCompressor) Decompress(data []byte) ([]byte, error) {
	if err := z.init(); err != nil {
		return nil, fmt.Errorf("zstd init: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	return z.decoder.DecodeAll(data, nil)
}
