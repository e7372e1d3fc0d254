package xtinyevents

import (
	"log/slog"

	"github.com/omeyang/xevents/internal/hookcore"
	"github.com/omeyang/xevents/pkg/observability/xmetrics"
	"github.com/omeyang/xevents/pkg/schedule/xclock"
)

// DefaultName 是未指定名称时的引擎名称。
const DefaultName = "xtinyevents"

// Option 配置 Loop 的选项函数。
type Option func(*hookcore.Config)

// WithLogger 设置诊断日志记录器。默认丢弃，
// 使用 -tags xevents_verbose 构建时默认使用 slog.Default()。
func WithLogger(logger *slog.Logger) Option {
	return func(c *hookcore.Config) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

// WithObserver 设置 tick 观测器。
func WithObserver(observer xmetrics.Observer) Option {
	return func(c *hookcore.Config) {
		if observer != nil {
			c.Observer = observer
		}
	}
}

// WithName 设置引擎名称。默认值为 "xtinyevents"。
func WithName(name string) Option {
	return func(c *hookcore.Config) {
		if name != "" {
			c.Name = name
		}
	}
}

// WithClock 设置时钟源。
func WithClock(clock xclock.Clock) Option {
	return func(c *hookcore.Config) {
		if clock != nil {
			c.Clock = clock
		}
	}
}

// HookOption 配置单个条目的选项函数。
type HookOption func(*hookOptions)

type hookOptions struct {
	initialDelay uint64
}

// WithInitialDelay 设置首次到期前的初始延迟（毫秒），默认 0。
func WithInitialDelay(ms uint64) HookOption {
	return func(o *hookOptions) {
		o.initialDelay = ms
	}
}

func applyHookOptions(opts []HookOption) hookOptions {
	var o hookOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
