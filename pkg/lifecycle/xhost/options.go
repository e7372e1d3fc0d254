package xhost

import (
	"log/slog"
	"os"
	"syscall"

	"github.com/jonboulle/clockwork"
)

// Option 配置 Host 的选项函数。
type Option func(*hostOptions)

type hostOptions struct {
	logger          *slog.Logger
	name            string
	signals         []os.Signal
	noSignalHandler bool
	clock           clockwork.Clock
}

func defaultOptions() *hostOptions {
	return &hostOptions{
		logger: slog.Default(),
		name:   "xhost",
		clock:  clockwork.NewRealClock(),
	}
}

// DefaultSignals 返回默认监听的系统信号列表。
//
// 每次调用返回新的切片，调用者可安全修改。
func DefaultSignals() []os.Signal {
	return []os.Signal{
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	}
}

// WithLogger 设置日志记录器，用于记录引擎挂载、启动、停止等事件。
// 默认使用 slog.Default()。
func WithLogger(logger *slog.Logger) Option {
	return func(o *hostOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithName 设置 Host 名称，用于日志。默认值为 "xhost"。
func WithName(name string) Option {
	return func(o *hostOptions) {
		if name != "" {
			o.name = name
		}
	}
}

// WithSignals 设置监听的信号列表。空列表等价于 DefaultSignals()。
func WithSignals(signals []os.Signal) Option {
	copied := append([]os.Signal(nil), signals...)
	return func(o *hostOptions) {
		o.signals = copied
	}
}

// WithoutSignalHandler 禁用信号处理，由调用方通过 ctx 控制退出。
func WithoutSignalHandler() Option {
	return func(o *hostOptions) {
		o.noSignalHandler = true
	}
}

// WithClock 设置驱动轮询间隔的时钟。测试中传入 clockwork.NewFakeClock()。
func WithClock(clock clockwork.Clock) Option {
	return func(o *hostOptions) {
		if clock != nil {
			o.clock = clock
		}
	}
}
