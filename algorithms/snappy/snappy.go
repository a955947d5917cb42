package snappy

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/snappy"
)

var scratch = sync.Pool{New: func() any { return new([]byte) }}

// CompressedSize snappy 块格式没有级别，level 被忽略
func CompressedSize(src []byte, level int) (int, error) {
	buf := scratch.Get().(*[]byte)
	*buf = snappy.Encode((*buf)[:cap(*buf)], src)
	n := len(*buf)
	scratch.Put(buf)
	return n, nil
}

func CompressBytes(dst []byte, src []byte, level int) ([]byte, error) {
	return snappy.Encode(dst[:cap(dst)], src), nil
}

func DecompressBytes(dst []byte, src []byte) ([]byte, error) {
	return snappy.Decode(dst[:cap(dst)], src)
}

const (
	S2MinLevel = 0
	S2MaxLevel = 9
)

// s2Encode 级别 <= 3 用 Encode，<= 6 用 EncodeBetter，其余 EncodeBest
func s2Encode(dst, src []byte, level int) ([]byte, error) {
	switch {
	case level < S2MinLevel || level > S2MaxLevel:
		return dst, fmt.Errorf("s2: invalid level %d", level)
	case level <= 3:
		return s2.Encode(dst, src), nil
	case level <= 6:
		return s2.EncodeBetter(dst, src), nil
	default:
		return s2.EncodeBest(dst, src), nil
	}
}

// S2CompressedSize s2 块格式，比 snappy 更强的匹配查找
func S2CompressedSize(src []byte, level int) (int, error) {
	buf := scratch.Get().(*[]byte)
	out, err := s2Encode((*buf)[:cap(*buf)], src, level)
	if err != nil {
		scratch.Put(buf)
		return 0, err
	}
	*buf = out
	n := len(out)
	scratch.Put(buf)
	return n, nil
}

func S2CompressBytes(dst []byte, src []byte, level int) ([]byte, error) {
	return s2Encode(dst[:cap(dst)], src, level)
}

func S2DecompressBytes(dst []byte, src []byte) ([]byte, error) {
	return s2.Decode(dst[:cap(dst)], src)
}
