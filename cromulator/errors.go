package cromulator

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedInput 输入缺少边界标记或标记顺序错误
	ErrMalformedInput = errors.New("cromulator: malformed input")
	// ErrInvariant 重排结果不是输入的排列，属于内部缺陷
	ErrInvariant = errors.New("cromulator: reorder invariant violated")
)

// MalformedInputError 描述拆分失败的具体原因
type MalformedInputError struct {
	Reason string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("cromulator: malformed input: %s", e.Reason)
}

func (e *MalformedInputError) Is(target error) bool {
	return target == ErrMalformedInput
}

// OracleError 压缩器调用失败，不重试，直接上抛
type OracleError struct {
	Op  string
	Len int
	Err error
}

func (e *OracleError) Error() string {
	return fmt.Sprintf("cromulator: oracle failed during %s (%d bytes): %v", e.Op, e.Len, e.Err)
}

func (e *OracleError) Unwrap() error {
	return e.Err
}
