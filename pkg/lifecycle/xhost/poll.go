package xhost

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/omeyang/xevents/pkg/schedule/xhook"
)

// Engine 是 Host 可以驱动的调度引擎。
// *xevents.Loop 与 *xtinyevents.Loop 均满足此接口。
type Engine interface {
	// Begin 锚定纪元。重复调用返回 xhook.ErrAlreadyBegun，Host 会忽略该错误。
	Begin() error
	// Run 执行一个 tick，不得阻塞。
	Run()
	// Name 返回引擎名称。
	Name() string
}

// poller 单个引擎的轮询状态。
type poller struct {
	name     string
	engine   Engine
	interval time.Duration

	mu    sync.Mutex
	tasks []func()
}

// submit 追加一个待执行函数。
func (p *poller) submit(fn func()) {
	p.mu.Lock()
	p.tasks = append(p.tasks, fn)
	p.mu.Unlock()
}

// drain 取出所有待执行函数。
func (p *poller) drain() []func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	tasks := p.tasks
	p.tasks = nil
	return tasks
}

// begin 调用引擎的 Begin，忽略 ErrAlreadyBegun。
func (p *poller) begin() error {
	if err := p.engine.Begin(); err != nil && !errors.Is(err, xhook.ErrAlreadyBegun) {
		return fmt.Errorf("xhost: begin engine %q: %w", p.name, err)
	}
	return nil
}

// step 先执行提交的函数，再执行一个 tick。panic 转换为错误。
func (p *poller) step() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError(p.name, r)
		}
	}()
	for _, fn := range p.drain() {
		fn()
	}
	p.engine.Run()
	return nil
}

// flush 执行轮询结束后仍在队列中的函数，返回执行的个数。panic 转换为错误。
func (p *poller) flush() (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError(p.name, r)
		}
	}()
	for _, fn := range p.drain() {
		n++
		fn()
	}
	return n, nil
}

// loop 按间隔轮询，直到 ctx 取消（返回 nil）或回调 panic（返回错误）。
func (p *poller) loop(ctx context.Context, clock clockwork.Clock) error {
	ticker := clock.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.Chan():
			if err := p.step(); err != nil {
				return err
			}
		}
	}
}

// Poll 返回按 interval 轮询 engine 的服务函数。
//
// 服务函数先调用 Begin（已 Begin 的引擎不受影响），然后每个间隔调用一次 Run，
// ctx 取消时返回 nil。clock 为 nil 时使用真实时钟。
//
// 示例：
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(func() error { return xhost.Poll(loop, time.Millisecond, nil)(ctx) })
func Poll(engine Engine, interval time.Duration, clock clockwork.Clock) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if engine == nil {
			return ErrNilEngine
		}
		if interval <= 0 {
			return ErrInvalidInterval
		}
		if clock == nil {
			clock = clockwork.NewRealClock()
		}
		p := &poller{name: engine.Name(), engine: engine, interval: interval}
		if err := p.begin(); err != nil {
			return err
		}
		return p.loop(ctx, clock)
	}
}
