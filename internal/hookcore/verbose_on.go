//go:build xevents_verbose

package hookcore

import "log/slog"

// Verbose 报告是否以 xevents_verbose 标签构建。
const Verbose = true

// DefaultLogger 返回未显式配置时使用的诊断日志记录器。
func DefaultLogger() *slog.Logger {
	return slog.Default()
}
