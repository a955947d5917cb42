package cromulator

import (
	"context"
	"fmt"
)

// DefaultWindowSize 候选池默认大小
const DefaultWindowSize = 500

// Side 新块放在工作序列的哪一端
type Side int

const (
	Tail Side = iota
	Head
)

func (s Side) String() string {
	if s == Head {
		return "head"
	}
	return "tail"
}

// Step 一次贪心选择的结果
type Step struct {
	Done  int // 放置后工作序列长度
	Index int // 被放置块在输入中的下标
	Side  Side
	Score int
	Pool  int // 选择时候选池大小
}

// Options 控制重排
type Options struct {
	// WindowSize 候选池上限，<= 0 表示不限（每步考虑所有剩余块，O(N^2) 次压缩）
	WindowSize int
	// Progress 每步之后回调，done 单调递增至 total
	Progress func(done, total int)
	// OnStep 每步之后回调，用于统计
	OnStep func(Step)
	// Workers Optimize 预计算块大小时的并发数，<= 0 使用 GOMAXPROCS
	Workers int
}

// Reorder 窗口化的双端贪心重排，返回块在输出中的下标顺序。
//
// 以 blocks[0] 为种子，每一步从候选池中挑出得分最低的 (候选, 端) 组合，
// 放到工作序列的尾部（tail 之后）或头部（head 之前），再从未见过的块中补充一个到候选池。
// 平分时按候选池插入顺序取第一个，同一候选先比较尾部再比较头部。
// blocks 的 Size 必须已由 Measure 填好。
func Reorder(ctx context.Context, blocks []Block, oracle Oracle, opts Options) ([]int, error) {
	n := len(blocks)
	switch n {
	case 0:
		return []int{}, nil
	case 1:
		if opts.Progress != nil {
			opts.Progress(1, 1)
		}
		return []int{0}, nil
	}

	r := newReorderer(blocks, oracle, opts)
	for len(r.pool) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("reorder interrupted at %d/%d: %w", r.placed(), n, err)
		}
		if err := r.step(); err != nil {
			return nil, err
		}
	}

	order := r.order()
	if err := checkPermutation(order, n); err != nil {
		return nil, err
	}
	return order, nil
}

// ReorderBlocks 与 Reorder 相同，但直接返回重排后的块
func ReorderBlocks(ctx context.Context, blocks []Block, oracle Oracle, opts Options) ([]Block, error) {
	order, err := Reorder(ctx, blocks, oracle, opts)
	if err != nil {
		return nil, err
	}
	out := make([]Block, len(order))
	for i, idx := range order {
		out[i] = blocks[idx]
	}
	return out, nil
}

type reorderer struct {
	blocks []Block
	scorer *Scorer
	opts   Options

	seed  int
	front []int // 头部追加的块，按追加顺序，输出时反转
	back  []int // 尾部追加的块
	head  int
	tail  int

	pool []int // 候选池，保持插入顺序
	next int   // 下一个未见过的块，也即已进入候选池或已放置的块数
}

func newReorderer(blocks []Block, oracle Oracle, opts Options) *reorderer {
	r := &reorderer{
		blocks: blocks,
		scorer: NewScorer(oracle),
		opts:   opts,
		seed:   0,
		head:   0,
		tail:   0,
		next:   1,
	}
	capacity := opts.WindowSize
	if capacity <= 0 || capacity > len(blocks)-1 {
		capacity = len(blocks) - 1
	}
	r.pool = make([]int, 0, capacity)
	for r.next < len(blocks) && len(r.pool) < capacity {
		r.pool = append(r.pool, r.next)
		r.next++
	}
	return r
}

func (r *reorderer) placed() int {
	return 1 + len(r.front) + len(r.back)
}

func (r *reorderer) step() error {
	best, bestSide, bestScore := -1, Tail, 0
	tail, head := r.blocks[r.tail], r.blocks[r.head]
	for i, c := range r.pool {
		score, err := r.scorer.Score(tail, r.blocks[c], AThenB)
		if err != nil {
			return err
		}
		if best < 0 || score < bestScore {
			best, bestSide, bestScore = i, Tail, score
		}
		score, err = r.scorer.Score(head, r.blocks[c], BThenA)
		if err != nil {
			return err
		}
		if score < bestScore {
			best, bestSide, bestScore = i, Head, score
		}
	}

	poolSize := len(r.pool)
	idx := r.pool[best]
	r.pool = append(r.pool[:best], r.pool[best+1:]...)
	if bestSide == Head {
		r.front = append(r.front, idx)
		r.head = idx
	} else {
		r.back = append(r.back, idx)
		r.tail = idx
	}
	if r.next < len(r.blocks) {
		r.pool = append(r.pool, r.next)
		r.next++
	}

	done, total := r.placed(), len(r.blocks)
	if r.opts.OnStep != nil {
		r.opts.OnStep(Step{Done: done, Index: idx, Side: bestSide, Score: bestScore, Pool: poolSize})
	}
	if r.opts.Progress != nil {
		r.opts.Progress(done, total)
	}
	return nil
}

func (r *reorderer) order() []int {
	out := make([]int, 0, r.placed())
	for i := len(r.front) - 1; i >= 0; i-- {
		out = append(out, r.front[i])
	}
	out = append(out, r.seed)
	out = append(out, r.back...)
	return out
}

// checkPermutation 结果必须恰好包含 0..n-1 各一次；不做任何修补
func checkPermutation(order []int, n int) error {
	if len(order) != n {
		return fmt.Errorf("%w: got %d blocks, want %d", ErrInvariant, len(order), n)
	}
	seen := make([]bool, n)
	for _, idx := range order {
		if idx < 0 || idx >= n {
			return fmt.Errorf("%w: block index %d out of range", ErrInvariant, idx)
		}
		if seen[idx] {
			return fmt.Errorf("%w: block %d placed twice", ErrInvariant, idx)
		}
		seen[idx] = true
	}
	return nil
}
