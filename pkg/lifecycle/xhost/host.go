package xhost

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/omeyang/xevents/pkg/observability/xlog"
)

// Host 驱动多个调度引擎的宿主。
//
// Attach、Submit 可从任意 goroutine 调用；Run 只能调用一次。
type Host struct {
	opts *hostOptions

	mu      sync.Mutex
	pollers []*poller
	byName  map[string]*poller
	running bool
	stopped bool
}

// New 创建 Host。
func New(opts ...Option) *Host {
	options := defaultOptions()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(options)
	}
	return &Host{
		opts:   options,
		byName: make(map[string]*poller),
	}
}

// Attach 挂载引擎，按 interval 轮询，返回引擎在 Host 中的名称。
//
// 引擎名称为空时分配 "engine-<uuid>"。必须在 Run 之前调用。
func (h *Host) Attach(engine Engine, interval time.Duration) (string, error) {
	if engine == nil {
		return "", ErrNilEngine
	}
	if interval <= 0 {
		return "", ErrInvalidInterval
	}

	name := engine.Name()
	if name == "" {
		name = "engine-" + uuid.NewString()
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.running || h.stopped {
		return "", ErrHostRunning
	}
	if _, ok := h.byName[name]; ok {
		return "", ErrDuplicateEngine
	}

	p := &poller{name: name, engine: engine, interval: interval}
	h.pollers = append(h.pollers, p)
	h.byName[name] = p

	h.opts.logger.Debug("engine attached",
		slog.String("host", h.opts.name),
		xlog.Engine(name),
		slog.Duration("interval", interval),
	)
	return name, nil
}

// Engines 返回已挂载引擎的名称，按挂载顺序。
func (h *Host) Engines() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	names := make([]string, len(h.pollers))
	for i, p := range h.pollers {
		names[i] = p.name
	}
	return names
}

// Submit 把 fn 投递给名为 name 的引擎，在其轮询 goroutine 的下一个 tick 之前执行。
//
// 引擎不是并发安全的，其他 goroutine 应通过 Submit 调用控制操作。
// Run 之前提交的函数在第一个 tick 之前执行。
// Run 因 ctx 取消或信号结束时，尚未执行的函数在 Run 返回前执行；
// 因错误结束时这些函数被丢弃，并以 Warn 级别记录个数。
func (h *Host) Submit(name string, fn func()) error {
	if fn == nil {
		return ErrNilFunc
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return ErrHostStopped
	}
	p, ok := h.byName[name]
	if !ok {
		return ErrUnknownEngine
	}
	p.submit(fn)
	return nil
}

// Run 调用每个引擎的 Begin，然后为每个引擎启动轮询 goroutine，阻塞直到：
//
//   - ctx 被取消：返回 nil
//   - 收到信号：返回 *SignalError
//   - 回调 panic：返回包装 ErrCallbackPanic 的错误
func (h *Host) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	h.mu.Lock()
	if h.running || h.stopped {
		h.mu.Unlock()
		return ErrHostRunning
	}
	h.running = true
	pollers := append([]*poller(nil), h.pollers...)
	h.mu.Unlock()

	defer h.stop()

	for _, p := range pollers {
		if err := p.begin(); err != nil {
			h.stop()
			h.discard(pollers)
			return err
		}
	}

	causeCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	eg, egCtx := errgroup.WithContext(causeCtx)

	if !h.opts.noSignalHandler {
		eg.Go(func() error {
			h.watchSignals(egCtx, cancel)
			return nil
		})
	}

	for _, p := range pollers {
		eg.Go(func() error {
			h.opts.logger.Debug("engine polling started",
				slog.String("host", h.opts.name),
				xlog.Engine(p.name),
			)
			err := p.loop(egCtx, h.opts.clock)
			if err != nil {
				h.opts.logger.Error("engine stopped with error",
					slog.String("host", h.opts.name),
					xlog.Engine(p.name),
					xlog.Err(err),
				)
				return err
			}
			h.opts.logger.Debug("engine polling stopped",
				slog.String("host", h.opts.name),
				xlog.Engine(p.name),
			)
			return nil
		})
	}

	err := eg.Wait()
	// 停止接收后再清理队列，之后的 Submit 返回 ErrHostStopped。
	h.stop()
	if err != nil {
		h.discard(pollers)
		return err
	}
	if err = h.flush(pollers); err != nil {
		return err
	}

	// 信号处理设置的退出原因优先返回，普通的 ctx 取消返回 nil。
	if cause := context.Cause(causeCtx); errors.Is(cause, ErrSignal) {
		return cause
	}
	return nil
}

// stop 标记 Host 已停止。
func (h *Host) stop() {
	h.mu.Lock()
	h.running = false
	h.stopped = true
	h.mu.Unlock()
}

// flush 在所有轮询 goroutine 退出后执行已提交、尚未执行的函数。
func (h *Host) flush(pollers []*poller) error {
	for _, p := range pollers {
		n, err := p.flush()
		if n > 0 {
			h.opts.logger.Debug("submitted tasks flushed after stop",
				slog.String("host", h.opts.name),
				xlog.Engine(p.name),
				slog.Int("count", n),
			)
		}
		if err != nil {
			h.opts.logger.Error("submitted task panicked after stop",
				slog.String("host", h.opts.name),
				xlog.Engine(p.name),
				xlog.Err(err),
			)
			return err
		}
	}
	return nil
}

// discard 丢弃未执行的函数并记录个数。用于出错退出，此时引擎状态不再可信。
func (h *Host) discard(pollers []*poller) {
	for _, p := range pollers {
		if n := len(p.drain()); n > 0 {
			h.opts.logger.Warn("submitted tasks discarded",
				slog.String("host", h.opts.name),
				xlog.Engine(p.name),
				slog.Int("count", n),
			)
		}
	}
}

// watchSignals 等待信号，收到后以 *SignalError 取消 causeCtx。
func (h *Host) watchSignals(ctx context.Context, cancel context.CancelCauseFunc) {
	signals := h.opts.signals
	// 空切片与 nil 等价：signal.Notify 无参调用会订阅所有信号。
	if len(signals) == 0 {
		signals = DefaultSignals()
	}

	testc := testSigChan(ctx)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, signals...)
	defer signal.Stop(sigCh)

	var sig os.Signal
	select {
	case sig = <-testc:
	case sig = <-sigCh:
	case <-ctx.Done():
		return
	}

	h.opts.logger.Info("received signal",
		slog.String("host", h.opts.name),
		slog.String("signal", sig.String()),
	)
	cancel(&SignalError{Signal: sig})
}
