package flate

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/flate"

	"cromulator/common"
)

const (
	MinLevel = flate.HuffmanOnly
	MaxLevel = flate.BestCompression
)

var writers [MaxLevel - MinLevel + 1]sync.Pool

func getWriter(w io.Writer, level int) (*flate.Writer, error) {
	if level < MinLevel || level > MaxLevel {
		return nil, fmt.Errorf("flate: invalid level %d", level)
	}
	if fw, ok := writers[level-MinLevel].Get().(*flate.Writer); ok {
		fw.Reset(w)
		return fw, nil
	}
	return flate.NewWriter(w, level)
}

// CompressedSize 原始 deflate 流（无 zlib/gzip 头尾）的字节数
func CompressedSize(src []byte, level int) (int, error) {
	var cw common.CountingWriter
	fw, err := getWriter(&cw, level)
	if err != nil {
		return 0, err
	}
	defer writers[level-MinLevel].Put(fw)
	if _, err := fw.Write(src); err != nil {
		return 0, err
	}
	if err := fw.Close(); err != nil {
		return 0, err
	}
	return cw.N, nil
}

func CompressBytes(dst []byte, src []byte, level int) ([]byte, error) {
	buf := bytes.NewBuffer(dst[:0])
	fw, err := getWriter(buf, level)
	if err != nil {
		return dst, err
	}
	defer writers[level-MinLevel].Put(fw)
	if _, err := fw.Write(src); err != nil {
		return dst, err
	}
	if err := fw.Close(); err != nil {
		return dst, err
	}
	return buf.Bytes(), nil
}

func DecompressBytes(dst []byte, src []byte) ([]byte, error) {
	fr := flate.NewReader(bytes.NewReader(src))
	defer fr.Close()
	buf := bytes.NewBuffer(dst[:0])
	if _, err := io.Copy(buf, fr); err != nil {
		return dst, err
	}
	return buf.Bytes(), nil
}
