// Package cromulator reorders the function definitions of a generated code bundle so a
// general-purpose compressor packs the result tighter. Blocks are opaque byte strings;
// only their order changes.
package cromulator

import (
	"bytes"
	"fmt"
	"io"
)

const (
	StartMarker = "// EMSCRIPTEN_START_FUNCS"
	EndMarker   = "// EMSCRIPTEN_END_FUNCS"
	FuncToken   = "function "
)

// Block 一个函数定义的原始文本，Size 为其单独压缩后的字节数（由 Measure 填充）
type Block struct {
	Text []byte
	Size int
}

// Document 拆分后的输入：前导、函数块序列、尾部
type Document struct {
	Prologue []byte
	// Lead 起始标记与第一个函数之间的内容，原样保留
	Lead     []byte
	Blocks   []Block
	Epilogue []byte
}

// Split 按起止标记把 input 拆成 Document。返回的切片引用 input 的内存。
func Split(input []byte) (*Document, error) {
	start := bytes.Index(input, []byte(StartMarker))
	if start < 0 {
		return nil, &MalformedInputError{Reason: fmt.Sprintf("missing %q", StartMarker)}
	}
	end := bytes.Index(input, []byte(EndMarker))
	if end < 0 {
		return nil, &MalformedInputError{Reason: fmt.Sprintf("missing %q", EndMarker)}
	}
	bodyStart := start + len(StartMarker)
	if end < bodyStart {
		return nil, &MalformedInputError{Reason: fmt.Sprintf("%q appears before %q", EndMarker, StartMarker)}
	}

	doc := &Document{
		Prologue: input[:start],
		Epilogue: input[end+len(EndMarker):],
	}
	parts := bytes.Split(input[bodyStart:end], []byte(FuncToken))
	doc.Lead = parts[0]
	doc.Blocks = make([]Block, 0, len(parts)-1)
	for _, p := range parts[1:] {
		text := make([]byte, 0, len(FuncToken)+len(p))
		text = append(text, FuncToken...)
		text = append(text, p...)
		doc.Blocks = append(doc.Blocks, Block{Text: text})
	}
	return doc, nil
}

// ReadDocument 读取整个流后拆分
func ReadDocument(r io.Reader) (*Document, error) {
	input, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input error: %w", err)
	}
	return Split(input)
}

// Body 返回标记之间的函数区域（Lead + 按 order 拼接的函数块）
func (d *Document) Body(order []Block) []byte {
	n := len(d.Lead)
	for _, b := range order {
		n += len(b.Text)
	}
	body := make([]byte, 0, n)
	body = append(body, d.Lead...)
	for _, b := range order {
		body = append(body, b.Text...)
	}
	return body
}

// Assemble 按 order 重新拼接文档。order 与原顺序相同时输出与输入逐字节一致。
func (d *Document) Assemble(order []Block) []byte {
	var buf bytes.Buffer
	buf.Grow(d.Len(order))
	_, _ = d.WriteTo(&buf, order)
	return buf.Bytes()
}

// Len 拼接后的总长度，与 order 的排列无关
func (d *Document) Len(order []Block) int {
	n := len(d.Prologue) + len(StartMarker) + len(d.Lead) + len(EndMarker) + len(d.Epilogue)
	for _, b := range order {
		n += len(b.Text)
	}
	return n
}

// WriteTo 把拼接结果写入 w
func (d *Document) WriteTo(w io.Writer, order []Block) (int64, error) {
	var total int64
	write := func(p []byte) error {
		n, err := w.Write(p)
		total += int64(n)
		return err
	}
	if err := write(d.Prologue); err != nil {
		return total, err
	}
	if err := write([]byte(StartMarker)); err != nil {
		return total, err
	}
	if err := write(d.Lead); err != nil {
		return total, err
	}
	for _, b := range order {
		if err := write(b.Text); err != nil {
			return total, err
		}
	}
	if err := write([]byte(EndMarker)); err != nil {
		return total, err
	}
	if err := write(d.Epilogue); err != nil {
		return total, err
	}
	return total, nil
}
