package cromulator

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Oracle 返回 data 压缩后的字节数。实现必须是确定性的，且可并发调用。
// 压缩级别在构造 Oracle 时确定。
type Oracle interface {
	CompressedSize(data []byte) (int, error)
}

// OracleFunc 把普通函数适配为 Oracle
type OracleFunc func(data []byte) (int, error)

func (f OracleFunc) CompressedSize(data []byte) (int, error) {
	return f(data)
}

// Measure 为每个块计算单独压缩的大小并写入 Block.Size。
// 块之间没有依赖，按 workers 并发；workers <= 0 时使用 GOMAXPROCS。
func Measure(ctx context.Context, blocks []Block, oracle Oracle, workers int) error {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range blocks {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			size, err := oracle.CompressedSize(blocks[i].Text)
			if err != nil {
				return &OracleError{Op: "measure", Len: len(blocks[i].Text), Err: err}
			}
			blocks[i].Size = size
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
