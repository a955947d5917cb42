// Package lz4hc lz4 块格式的高压缩率模式
package lz4hc

import (
	"fmt"
	"sync"

	"github.com/pierrec/lz4/v4"
)

const (
	MinLevel = 0
	MaxLevel = 9
)

var levels = [...]lz4.CompressionLevel{
	lz4.Fast, lz4.Level1, lz4.Level2, lz4.Level3, lz4.Level4,
	lz4.Level5, lz4.Level6, lz4.Level7, lz4.Level8, lz4.Level9,
}

var scratch = sync.Pool{New: func() any { return new([]byte) }}

// compressBlock 级别 0 用快速模式，其余用 HC。
// 不可压缩时 lz4 返回 0，此时按原样存储计算长度。
func compressBlock(dst, src []byte, level int) (int, error) {
	if level < MinLevel || level > MaxLevel {
		return 0, fmt.Errorf("lz4hc: invalid level %d", level)
	}
	var (
		n   int
		err error
	)
	if level == 0 {
		var c lz4.Compressor
		n, err = c.CompressBlock(src, dst)
	} else {
		c := lz4.CompressorHC{Level: levels[level]}
		n, err = c.CompressBlock(src, dst)
	}
	if err != nil {
		return 0, err
	}
	return n, nil
}

func grow(buf []byte, n int) []byte {
	if cap(buf) < n {
		return make([]byte, n)
	}
	return buf[:n]
}

func CompressedSize(src []byte, level int) (int, error) {
	buf := scratch.Get().(*[]byte)
	defer scratch.Put(buf)
	*buf = grow(*buf, lz4.CompressBlockBound(len(src)))
	n, err := compressBlock(*buf, src, level)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return len(src), nil
	}
	return n, nil
}

// CompressBytes 返回块数据；不可压缩时返回 nil，调用方按原文存储
func CompressBytes(dst []byte, src []byte, level int) ([]byte, error) {
	dst = grow(dst, lz4.CompressBlockBound(len(src)))
	n, err := compressBlock(dst, src, level)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	return dst[:n], nil
}

// DecompressBytes size 为原文长度
func DecompressBytes(dst []byte, src []byte, size int) ([]byte, error) {
	dst = grow(dst, size)
	n, err := lz4.UncompressBlock(src, dst)
	if err != nil {
		return nil, err
	}
	return dst[:n], nil
}
