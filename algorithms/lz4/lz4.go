package lz4

import (
	"sync"

	"github.com/bkaradzic/go-lz4"
)

var scratch = sync.Pool{New: func() any { return new([]byte) }}

// CompressedSize lz4 块（带 4 字节原始长度头），level 被忽略
func CompressedSize(src []byte, level int) (int, error) {
	buf := scratch.Get().(*[]byte)
	defer scratch.Put(buf)
	out, err := lz4.Encode((*buf)[:cap(*buf)], src)
	if err != nil {
		return 0, err
	}
	*buf = out
	return len(out), nil
}

func CompressBytes(dst []byte, src []byte, level int) ([]byte, error) {
	return lz4.Encode(dst[:cap(dst)], src)
}

func DecompressBytes(dst []byte, src []byte) ([]byte, error) {
	return lz4.Decode(dst[:cap(dst)], src)
}
