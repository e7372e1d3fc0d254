package xmetrics

import (
	"context"
	"time"
)

// Event 表示 tick 内发生的一次钩子事件。
type Event string

const (
	// EventScheduleRun 周期任务动作执行。
	EventScheduleRun Event = "schedule.run"
	// EventReactionRun 反应动作执行。
	EventReactionRun Event = "reaction.run"
	// EventTrigger 触发条件返回 true 并被接受。
	EventTrigger Event = "reaction.trigger"
)

// Attr 表示观测属性。
type Attr struct {
	Key   string
	Value any
}

// TickOptions 定义 tick 跨度的创建参数。
type TickOptions struct {
	// Engine 标识引擎名称。
	Engine string
	// Now 本次 tick 采样的时钟读数（毫秒）。
	Now uint64
	// Attrs 附加属性。
	Attrs []Attr
}

// TickSpan 表示一次 tick 的观测跨度。
type TickSpan interface {
	// Record 记录一次钩子事件，elapsed 为回调耗时（触发事件为 0）。
	Record(event Event, id int, elapsed time.Duration)
	// End 结束跨度。
	End()
}

// Observer 定义 tick 观测接口。
type Observer interface {
	// StartTick 开始一次 tick 跨度。
	StartTick(ctx context.Context, opts TickOptions) (context.Context, TickSpan)
}

// NoopObserver 是空实现。
type NoopObserver struct{}

// StartTick 返回 ctx 和空跨度。若 ctx 为 nil，返回 context.Background()。
func (NoopObserver) StartTick(ctx context.Context, _ TickOptions) (context.Context, TickSpan) {
	if ctx == nil {
		ctx = context.Background()
	}
	return ctx, NoopSpan{}
}

// NoopSpan 是空跨度实现。
type NoopSpan struct{}

// Record 空实现。
func (NoopSpan) Record(Event, int, time.Duration) {}

// End 空实现。
func (NoopSpan) End() {}

// IsNoop 报告 observer 是否为 nil 或 [NoopObserver]。
// 引擎据此跳过回调计时。
func IsNoop(observer Observer) bool {
	if observer == nil {
		return true
	}
	switch observer.(type) {
	case NoopObserver, *NoopObserver:
		return true
	}
	return false
}

// StartTick 使用 observer 开始 tick 跨度，nil observer 时返回空跨度。
// 保证返回非 nil 的 context.Context 和非 nil 的 TickSpan。
func StartTick(ctx context.Context, observer Observer, opts TickOptions) (context.Context, TickSpan) {
	if ctx == nil {
		ctx = context.Background()
	}
	if observer == nil {
		return ctx, NoopSpan{}
	}
	retCtx, span := observer.StartTick(ctx, opts)
	if retCtx == nil {
		retCtx = ctx
	}
	if span == nil {
		span = NoopSpan{}
	}
	return retCtx, span
}
