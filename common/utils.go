package common

import (
	"fmt"

	"github.com/c2h5oh/datasize"
)

// CountingWriter 只统计写入的字节数，丢弃内容
type CountingWriter struct {
	N int
}

func (w *CountingWriter) Write(p []byte) (int, error) {
	w.N += len(p)
	return len(p), nil
}

func (w *CountingWriter) Reset() {
	w.N = 0
}

// HumanSize 以 KB/MB 等单位显示字节数
func HumanSize(n int) string {
	if n < 0 {
		return "-" + datasize.ByteSize(-n).HumanReadable()
	}
	return datasize.ByteSize(n).HumanReadable()
}

// Ratio 百分比形式的 a/b
func Ratio(a, b int) string {
	if b == 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.2f%%", 100*float64(a)/float64(b))
}
