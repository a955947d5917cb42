package brotli

import (
	"bytes"
	"fmt"
	"io"

	"github.com/andybalholm/brotli"

	"cromulator/common"
)

const (
	MinLevel = brotli.BestSpeed
	MaxLevel = brotli.BestCompression
)

func CompressedSize(src []byte, level int) (int, error) {
	if level < MinLevel || level > MaxLevel {
		return 0, fmt.Errorf("brotli: invalid level %d", level)
	}
	var cw common.CountingWriter
	writer := brotli.NewWriterLevel(&cw, level)
	if _, err := writer.Write(src); err != nil {
		writer.Close()
		return 0, err
	}
	if err := writer.Close(); err != nil {
		return 0, err
	}
	return cw.N, nil
}

func CompressBytes(dst []byte, src []byte, level int) ([]byte, error) {
	if level < MinLevel || level > MaxLevel {
		return dst, fmt.Errorf("brotli: invalid level %d", level)
	}
	buf := bytes.NewBuffer(dst[:0])
	writer := brotli.NewWriterLevel(buf, level)
	if _, err := writer.Write(src); err != nil {
		writer.Close()
		return dst, err
	}
	if err := writer.Close(); err != nil {
		return dst, err
	}
	return buf.Bytes(), nil
}

func DecompressBytes(dst []byte, src []byte) ([]byte, error) {
	reader := brotli.NewReader(bytes.NewReader(src))
	buf := bytes.NewBuffer(dst[:0])
	if _, err := io.Copy(buf, reader); err != nil {
		return dst, err
	}
	return buf.Bytes(), nil
}
