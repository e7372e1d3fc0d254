package xevents

import (
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/omeyang/xevents/internal/hookcore"
	"github.com/omeyang/xevents/pkg/observability/xmetrics"
	"github.com/omeyang/xevents/pkg/schedule/xclock"
)

// DefaultName 是未指定名称时的引擎名称。
const DefaultName = "xevents"

// Option 配置 Loop 的选项函数。
type Option func(*hookcore.Config)

// WithLogger 设置诊断日志记录器。
//
// 生命周期事件以 Debug 级别输出。默认丢弃，
// 使用 -tags xevents_verbose 构建时默认使用 slog.Default()。
func WithLogger(logger *slog.Logger) Option {
	return func(c *hookcore.Config) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

// WithObserver 设置 tick 观测器。默认不观测。
func WithObserver(observer xmetrics.Observer) Option {
	return func(c *hookcore.Config) {
		if observer != nil {
			c.Observer = observer
		}
	}
}

// WithName 设置引擎名称，用于日志与指标。默认值为 "xevents"。
func WithName(name string) Option {
	return func(c *hookcore.Config) {
		if name != "" {
			c.Name = name
		}
	}
}

// WithClock 设置时钟源。默认使用 [xclock.Real]。
func WithClock(clock xclock.Clock) Option {
	return func(c *hookcore.Config) {
		if clock != nil {
			c.Clock = clock
		}
	}
}

// WithClockwork 使用 clockwork 时钟作为时钟源，零点为调用时刻。
//
// 测试中可传入 clockwork.NewFakeClock() 以确定性推进时间。
func WithClockwork(clock clockwork.Clock) Option {
	return func(c *hookcore.Config) {
		if clock != nil {
			c.Clock = xclock.New(clock)
		}
	}
}

// HookOption 配置单个条目的选项函数。
type HookOption func(*hookOptions)

type hookOptions struct {
	initialDelay uint64
}

// WithInitialDelay 设置首次到期前的初始延迟，默认 0。
//
// Begin 之前添加的条目以 Begin 的时钟读数为基准，
// Begin 之后添加的条目以添加时的时钟读数为基准。
func WithInitialDelay(d time.Duration) HookOption {
	return func(o *hookOptions) {
		o.initialDelay = xclock.Duration(d)
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
