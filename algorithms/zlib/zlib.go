package zlib

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zlib"

	"cromulator/common"
)

const (
	MinLevel = zlib.HuffmanOnly
	MaxLevel = zlib.BestCompression
)

// 每个级别一个 writer 池，下标为 level-MinLevel
var writers [MaxLevel - MinLevel + 1]sync.Pool

func getWriter(w io.Writer, level int) (*zlib.Writer, error) {
	if level < MinLevel || level > MaxLevel {
		return nil, fmt.Errorf("zlib: invalid level %d", level)
	}
	if zw, ok := writers[level-MinLevel].Get().(*zlib.Writer); ok {
		zw.Reset(w)
		return zw, nil
	}
	return zlib.NewWriterLevel(w, level)
}

func putWriter(zw *zlib.Writer, level int) {
	writers[level-MinLevel].Put(zw)
}

// CompressedSize 返回 src 经 zlib 压缩后的字节数，不保留压缩结果
func CompressedSize(src []byte, level int) (int, error) {
	var cw common.CountingWriter
	zw, err := getWriter(&cw, level)
	if err != nil {
		return 0, err
	}
	defer putWriter(zw, level)
	if _, err := zw.Write(src); err != nil {
		return 0, err
	}
	if err := zw.Close(); err != nil {
		return 0, err
	}
	return cw.N, nil
}

func CompressBytes(dst []byte, src []byte, level int) ([]byte, error) {
	buf := bytes.NewBuffer(dst[:0])
	zw, err := getWriter(buf, level)
	if err != nil {
		return dst, err
	}
	defer putWriter(zw, level)
	if _, err := zw.Write(src); err != nil {
		return dst, err
	}
	if err := zw.Close(); err != nil {
		return dst, err
	}
	return buf.Bytes(), nil
}

func DecompressBytes(dst []byte, src []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(src))
	if err != nil {
		return dst, err
	}
	defer zr.Close()
	buf := bytes.NewBuffer(dst[:0])
	if _, err := io.Copy(buf, zr); err != nil {
		return dst, err
	}
	return buf.Bytes(), nil
}
