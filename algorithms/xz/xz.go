package xz

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ulikunitz/xz"

	"cromulator/common"
)

const (
	MinLevel = 0
	MaxLevel = 9
)

// dictCap 级别映射到字典容量：0 为 4KiB，每级翻倍，9 为 2MiB
func dictCap(level int) int {
	return 1 << (12 + level)
}

func newWriter(w io.Writer, level int) (*xz.Writer, error) {
	if level < MinLevel || level > MaxLevel {
		return nil, fmt.Errorf("xz: invalid level %d", level)
	}
	cfg := xz.WriterConfig{DictCap: dictCap(level)}
	return cfg.NewWriter(w)
}

func CompressedSize(src []byte, level int) (int, error) {
	var cw common.CountingWriter
	zw, err := newWriter(&cw, level)
	if err != nil {
		return 0, err
	}
	if _, err := zw.Write(src); err != nil {
		zw.Close()
		return 0, err
	}
	if err := zw.Close(); err != nil {
		return 0, err
	}
	return cw.N, nil
}

func CompressBytes(dst []byte, src []byte, level int) ([]byte, error) {
	buf := bytes.NewBuffer(dst[:0])
	zw, err := newWriter(buf, level)
	if err != nil {
		return dst, err
	}
	if _, err := zw.Write(src); err != nil {
		zw.Close()
		return dst, err
	}
	if err := zw.Close(); err != nil {
		return dst, err
	}
	return buf.Bytes(), nil
}

func DecompressBytes(dst []byte, src []byte) ([]byte, error) {
	zr, err := xz.NewReader(bytes.NewReader(src))
	if err != nil {
		return dst, err
	}
	buf := bytes.NewBuffer(dst[:0])
	if _, err := io.Copy(buf, zr); err != nil {
		return dst, err
	}
	return buf.Bytes(), nil
}
