package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/ledgerwatch/log/v3"

	"cromulator/algorithms"
	"cromulator/common"
	"cromulator/cromulator"
)

const (
	exitOK          = 0
	exitInterrupted = 1
	exitFailure     = 2
)

// 用法：cromulator [flags] file...
// 默认原地改写文件（同目录临时文件 + rename），-c 输出到 stdout。
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type config struct {
	windowSize int
	level      int
	algo       string
	workers    int
	stdout     bool
	quiet      bool
	verbose    bool
	plot       string
	list       bool
	inputs     []string
}

func parseFlags(args []string, stderr io.Writer) (*config, error) {
	cfg := &config{}
	fs := flag.NewFlagSet("cromulator", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.IntVar(&cfg.windowSize, "w", cromulator.DefaultWindowSize, "候选窗口大小（同 --window-size）")
	fs.IntVar(&cfg.windowSize, "window-size", cromulator.DefaultWindowSize, "候选窗口大小，<= 0 表示不限（很慢）")
	fs.IntVar(&cfg.level, "l", 9, "压缩级别（同 --compress-level）")
	fs.IntVar(&cfg.level, "compress-level", 9, "打分用的压缩级别")
	fs.StringVar(&cfg.algo, "a", algorithms.DefaultAlgorithm, "压缩后端（同 --algo）")
	fs.StringVar(&cfg.algo, "algo", algorithms.DefaultAlgorithm, "打分用的压缩后端，--list 查看")
	fs.IntVar(&cfg.workers, "j", 0, "预计算并发数（同 --workers）")
	fs.IntVar(&cfg.workers, "workers", 0, "预计算块大小的并发数，0 表示 GOMAXPROCS")
	fs.BoolVar(&cfg.stdout, "c", false, "输出到 stdout（同 --stdout）")
	fs.BoolVar(&cfg.stdout, "stdout", false, "输出到 stdout，不改写文件")
	fs.BoolVar(&cfg.quiet, "q", false, "不显示进度（同 --quiet）")
	fs.BoolVar(&cfg.quiet, "quiet", false, "不显示进度，只输出警告和错误")
	fs.BoolVar(&cfg.verbose, "v", false, "输出调试日志（同 --verbose）")
	fs.BoolVar(&cfg.verbose, "verbose", false, "输出调试日志")
	fs.StringVar(&cfg.plot, "plot", "", "把每步得分画成图保存到该路径（png/svg/pdf）")
	fs.BoolVar(&cfg.list, "list", false, "列出可用的压缩后端")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: cromulator [flags] file... (use - for stdin)\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cfg.inputs = fs.Args()
	return cfg, nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitFailure
	}
	if cfg.list {
		for _, name := range algorithms.Names() {
			b, _ := algorithms.Get(name)
			if b.Leveled {
				fmt.Fprintf(stdout, "%s\t%d..%d\n", name, b.MinLevel, b.MaxLevel)
			} else {
				fmt.Fprintf(stdout, "%s\t-\n", name)
			}
		}
		return exitOK
	}

	logger := common.SetupLogger(stderr, common.LogLevel(cfg.quiet, cfg.verbose))
	if len(cfg.inputs) == 0 {
		fmt.Fprintln(stderr, "cromulator: no input files")
		return exitFailure
	}
	codec, err := algorithms.New(cfg.algo, cfg.level)
	if err != nil {
		logger.Error("invalid oracle", "err", err)
		return exitFailure
	}
	if cfg.windowSize <= 0 {
		logger.Warn("unbounded window: every step scores all remaining blocks, O(N^2) compressions")
	}

	for i, path := range cfg.inputs {
		if ctx.Err() != nil {
			logger.Warn("interrupted, remaining inputs left unchanged", "file", path)
			return exitInterrupted
		}
		err := processFile(ctx, cfg, i, path, codec, stdin, stdout, stderr, logger)
		switch {
		case err == nil:
		case errors.Is(err, context.Canceled):
			logger.Warn("interrupted, input left unchanged", "file", path)
			return exitInterrupted
		default:
			// 与中断同时发生的真实错误仍按失败处理
			logger.Error("cromulate failed", "file", path, "err", err)
			return exitFailure
		}
	}
	return exitOK
}

func processFile(ctx context.Context, cfg *config, i int, path string, codec *algorithms.Codec,
	stdin io.Reader, stdout, stderr io.Writer, logger log.Logger) error {
	start := time.Now()
	input, err := common.ReadInput(path, stdin)
	if err != nil {
		return err
	}

	name := path
	if path == common.StdinPath {
		name = "<stdin>"
	}
	opts := cromulator.Options{
		WindowSize: cfg.windowSize,
		Workers:    cfg.workers,
	}
	if !cfg.quiet {
		opts.Progress = common.NewProgress(stderr, logger, name).Update
	}
	if cfg.verbose {
		opts.OnStep = func(s cromulator.Step) {
			logger.Debug("step", "done", s.Done, "block", s.Index, "side", s.Side.String(), "score", s.Score, "pool", s.Pool)
		}
	}

	logger.Debug("cromulating", "file", name, "size", common.HumanSize(len(input)), "oracle", codec.String(), "window", cfg.windowSize)
	output, report, err := cromulator.Optimize(ctx, input, codec, opts)
	if err != nil {
		return err
	}

	if cfg.stdout || path == common.StdinPath {
		if _, err := stdout.Write(output); err != nil {
			return fmt.Errorf("write stdout error: %w", err)
		}
	} else if err := common.WriteFileAtomic(path, output); err != nil {
		return err
	}

	stats := common.SummarizeScores(report.Steps)
	logger.Info("cromulated", "file", name,
		"blocks", report.Blocks,
		"before", common.HumanSize(report.Before),
		"after", common.HumanSize(report.After),
		"gain", common.HumanSize(report.Gain()),
		"ratio", common.Ratio(report.After, report.Before),
		"took", time.Since(start).Round(time.Millisecond))
	logger.Debug("step scores", "file", name,
		"steps", stats.Steps, "min", stats.Min, "max", stats.Max,
		"mean", fmt.Sprintf("%.2f", stats.Mean), "median", stats.Median,
		"stddev", fmt.Sprintf("%.2f", stats.StdDev),
		"head", common.Ratio(stats.HeadCount, stats.Steps), "no_gain", stats.NoGainCount)

	if cfg.plot != "" && len(report.Steps) > 0 {
		plotPath := plotPathFor(cfg.plot, i)
		if err := common.PlotGains(report.Steps, filepath.Base(name), plotPath); err != nil {
			logger.Warn("plot failed", "file", name, "err", err)
		} else {
			logger.Info("plot written", "path", plotPath)
		}
	}
	return nil
}

// plotPathFor 多个输入时第 i 个（i > 0）图文件名加序号
func plotPathFor(path string, i int) string {
	if i == 0 {
		return path
	}
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(path, ext), i, ext)
}
