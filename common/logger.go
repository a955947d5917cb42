package common

import (
	"io"

	"github.com/ledgerwatch/log/v3"
)

// SetupLogger 设置根日志器：logfmt 输出到 w，按级别过滤
func SetupLogger(w io.Writer, lvl log.Lvl) log.Logger {
	log.Root().SetHandler(log.LvlFilterHandler(lvl, log.StreamHandler(w, log.LogfmtFormat())))
	return log.Root()
}

// LogLevel quiet 只输出警告及以上，verbose 输出调试信息
func LogLevel(quiet, verbose bool) log.Lvl {
	switch {
	case quiet:
		return log.LvlWarn
	case verbose:
		return log.LvlDebug
	default:
		return log.LvlInfo
	}
}
