//go:build cgo

// Package gozstd 基于 cgo 的 libzstd 绑定，压缩级别与命令行 zstd 一致
package gozstd

import (
	"fmt"
	"sync"

	"github.com/valyala/gozstd"
)

const (
	MinLevel = 1
	MaxLevel = 22
)

var scratch = sync.Pool{New: func() any { return new([]byte) }}

func CompressedSize(src []byte, level int) (int, error) {
	if level < MinLevel || level > MaxLevel {
		return 0, fmt.Errorf("gozstd: invalid level %d", level)
	}
	buf := scratch.Get().(*[]byte)
	*buf = gozstd.CompressLevel((*buf)[:0], src, level)
	n := len(*buf)
	scratch.Put(buf)
	return n, nil
}

func CompressBytes(dst []byte, src []byte, level int) ([]byte, error) {
	if level < MinLevel || level > MaxLevel {
		return dst, fmt.Errorf("gozstd: invalid level %d", level)
	}
	return gozstd.CompressLevel(dst[:0], src, level), nil
}

func DecompressBytes(dst []byte, src []byte) ([]byte, error) {
	return gozstd.Decompress(dst[:0], src)
}
