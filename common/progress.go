package common

import (
	"fmt"
	"io"
	"os"

	"github.com/ledgerwatch/log/v3"
	"github.com/mattn/go-isatty"
)

// Progress 进度回调的节流输出。
// 终端上用 \r 覆盖同一行（每 1% 刷新一次），否则每 10% 打一条日志。
type Progress struct {
	w      io.Writer
	logger log.Logger
	name   string
	tty    bool
	last   int // 上次输出时的千分比
}

func NewProgress(w io.Writer, logger log.Logger, name string) *Progress {
	tty := false
	if f, ok := w.(*os.File); ok {
		tty = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Progress{w: w, logger: logger, name: name, tty: tty, last: -1}
}

// Update 可直接作为 cromulator.Options.Progress
func (p *Progress) Update(done, total int) {
	if total <= 0 {
		return
	}
	permille := done * 1000 / total
	step := 100
	if p.tty {
		step = 10
	}
	if done != total && p.last >= 0 && permille-p.last < step {
		return
	}
	p.last = permille
	if p.tty {
		fmt.Fprintf(p.w, "\r%s: %d/%d (%.1f%%)", p.name, done, total, float64(permille)/10)
		if done == total {
			fmt.Fprintln(p.w)
		}
		return
	}
	p.logger.Info("reorder progress", "file", p.name, "done", done, "total", total, "pct", Ratio(done, total))
}
