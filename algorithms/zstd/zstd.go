package zstd

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

const (
	MinLevel = 1
	MaxLevel = 22
)

var (
	// 按 zstd 级别缓存 encoder，EncodeAll 可并发调用
	encoders sync.Map
	scratch  = sync.Pool{New: func() any { return new([]byte) }}

	decoderOnce sync.Once
	decoder     *zstd.Decoder
	decoderErr  error
)

func getEncoder(level int) (*zstd.Encoder, error) {
	if level < MinLevel || level > MaxLevel {
		return nil, fmt.Errorf("zstd: invalid level %d", level)
	}
	if enc, ok := encoders.Load(level); ok {
		return enc.(*zstd.Encoder), nil
	}
	enc, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)),
		zstd.WithEncoderConcurrency(1),
	)
	if err != nil {
		return nil, err
	}
	actual, loaded := encoders.LoadOrStore(level, enc)
	if loaded {
		enc.Close()
	}
	return actual.(*zstd.Encoder), nil
}

// CompressedSize 一个完整 zstd 帧的字节数
func CompressedSize(src []byte, level int) (int, error) {
	enc, err := getEncoder(level)
	if err != nil {
		return 0, err
	}
	buf := scratch.Get().(*[]byte)
	*buf = enc.EncodeAll(src, (*buf)[:0])
	n := len(*buf)
	scratch.Put(buf)
	return n, nil
}

func CompressBytes(dst []byte, src []byte, level int) ([]byte, error) {
	enc, err := getEncoder(level)
	if err != nil {
		return dst, err
	}
	return enc.EncodeAll(src, dst[:0]), nil
}

func DecompressBytes(dst []byte, src []byte) ([]byte, error) {
	decoderOnce.Do(func() {
		decoder, decoderErr = zstd.NewReader(nil)
	})
	if decoderErr != nil {
		return dst, decoderErr
	}
	return decoder.DecodeAll(src, dst[:0])
}
