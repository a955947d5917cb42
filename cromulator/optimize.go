package cromulator

import (
	"context"
	"fmt"
)

// Report 一次 Optimize 的结果统计
type Report struct {
	Blocks int
	Steps  []Step
	// Before/After 函数区域整体压缩后的大小
	Before int
	After  int
}

// Gain After 相对 Before 减少的字节数
func (r *Report) Gain() int {
	return r.Before - r.After
}

// Optimize 拆分 -> 预计算块大小 -> 重排 -> 拼接。任一步失败都不返回部分结果。
//
// 为填写 Report.Before/After，函数区域整体会被压缩两次（重排前后各一次），
// 即使没有或只有一个函数块也是如此；Reorder 本身在这两种情况下不调用 oracle。
func Optimize(ctx context.Context, input []byte, oracle Oracle, opts Options) ([]byte, *Report, error) {
	doc, err := Split(input)
	if err != nil {
		return nil, nil, err
	}
	report := &Report{Blocks: len(doc.Blocks)}

	before, err := oracle.CompressedSize(doc.Body(doc.Blocks))
	if err != nil {
		return nil, nil, &OracleError{Op: "measure region", Len: len(input), Err: err}
	}
	report.Before = before

	if len(doc.Blocks) > 1 {
		if err := Measure(ctx, doc.Blocks, oracle, opts.Workers); err != nil {
			return nil, nil, fmt.Errorf("measure blocks: %w", err)
		}
	}

	onStep := opts.OnStep
	opts.OnStep = func(s Step) {
		report.Steps = append(report.Steps, s)
		if onStep != nil {
			onStep(s)
		}
	}
	ordered, err := ReorderBlocks(ctx, doc.Blocks, oracle, opts)
	if err != nil {
		return nil, nil, err
	}

	after, err := oracle.CompressedSize(doc.Body(ordered))
	if err != nil {
		return nil, nil, &OracleError{Op: "measure region", Len: len(input), Err: err}
	}
	report.After = after

	out := doc.Assemble(ordered)
	if len(out) != len(input) {
		return nil, nil, fmt.Errorf("%w: output is %d bytes, input %d", ErrInvariant, len(out), len(input))
	}
	return out, report, nil
}
