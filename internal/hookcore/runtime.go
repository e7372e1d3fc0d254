package hookcore

import (
	"context"
	"log/slog"
	"time"

	"github.com/omeyang/xevents/pkg/observability/xlog"
	"github.com/omeyang/xevents/pkg/observability/xmetrics"
	"github.com/omeyang/xevents/pkg/schedule/xhook"
)

// Runtime 引擎共享的诊断、统计与观测运行时。
//
// 与引擎一样不是并发安全的，只能在调用 Run 的 goroutine 中使用；
// Stats 的读取方法除外。
type Runtime struct {
	name     string
	logger   *slog.Logger
	observer xmetrics.Observer
	timed    bool // observer 非空实现时才对回调计时
	stats    *xhook.Stats
	span     xmetrics.TickSpan
}

// NewRuntime 根据 cfg 创建运行时。cfg 为 nil 时使用 DefaultConfig("")。
func NewRuntime(cfg *Config) *Runtime {
	if cfg == nil {
		cfg = DefaultConfig("")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = DefaultLogger()
	}
	observer := cfg.Observer
	if observer == nil {
		observer = xmetrics.NoopObserver{}
	}
	return &Runtime{
		name:     cfg.Name,
		logger:   logger.With(xlog.Engine(cfg.Name)),
		observer: observer,
		timed:    !xmetrics.IsNoop(observer),
		stats:    xhook.NewStats(),
		span:     xmetrics.NoopSpan{},
	}
}

// Name 返回引擎名称。
func (r *Runtime) Name() string {
	return r.name
}

// Stats 返回统计实例。
func (r *Runtime) Stats() *xhook.Stats {
	return r.stats
}

// =============================================================================
// Tick 生命周期
// =============================================================================

// BeginTick 记录一次 tick 开始并打开观测跨度。
func (r *Runtime) BeginTick(now uint64) {
	r.stats.RecordTick(now)
	if r.timed {
		_, r.span = xmetrics.StartTick(context.Background(), r.observer, xmetrics.TickOptions{
			Engine: r.name,
			Now:    now,
		})
	}
}

// EndTick 结束当前 tick 的观测跨度。
func (r *Runtime) EndTick() {
	if r.timed {
		r.span.End()
		r.span = xmetrics.NoopSpan{}
	}
}

// RunSchedule 执行周期任务动作并记录。
func (r *Runtime) RunSchedule(id xhook.ID, action xhook.Action) {
	r.stats.RecordScheduleRun()
	r.Notice(xhook.KindSchedule, id, "executed")
	r.invoke(xmetrics.EventScheduleRun, id, action)
}

// RunReaction 执行反应动作并记录。
func (r *Runtime) RunReaction(id xhook.ID, action xhook.Action) {
	r.stats.RecordReactionRun()
	r.Notice(xhook.KindReaction, id, "executed")
	r.invoke(xmetrics.EventReactionRun, id, action)
}

// Trigger 记录一次被接受的触发，deferred 表示进入 pending。
func (r *Runtime) Trigger(id xhook.ID, deferred bool) {
	r.stats.RecordTrigger(deferred)
	r.Notice(xhook.KindReaction, id, "triggered", slog.Bool("deferred", deferred))
	if r.timed {
		r.span.Record(xmetrics.EventTrigger, int(id), 0)
	}
}

func (r *Runtime) invoke(event xmetrics.Event, id xhook.ID, action xhook.Action) {
	if !r.timed {
		action.Run()
		return
	}
	start := time.Now()
	action.Run()
	r.span.Record(event, int(id), time.Since(start))
}

// =============================================================================
// 控制操作记录
// =============================================================================

// Begun 记录 Begin 完成。
func (r *Runtime) Begun(epoch uint64) {
	ctx := context.Background()
	if !r.logger.Enabled(ctx, slog.LevelDebug) {
		return
	}
	r.logger.LogAttrs(ctx, slog.LevelDebug, "engine begun", xlog.Millis("epoch", epoch))
}

// Cancelled 记录一次 CancelReaction。
func (r *Runtime) Cancelled(id xhook.ID, attrs ...slog.Attr) {
	r.stats.RecordCancel()
	r.Notice(xhook.KindReaction, id, "cancelled", attrs...)
}

// Stopped 记录一次 StopReaction。
func (r *Runtime) Stopped(id xhook.ID) {
	r.stats.RecordStop()
	r.Notice(xhook.KindReaction, id, "stopped")
}

// Rejected 记录一次失败的添加操作。
func (r *Runtime) Rejected(kind xhook.Kind, err error) {
	if !r.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	r.logger.LogAttrs(context.Background(), slog.LevelDebug, kind.String()+" rejected",
		xlog.Err(err))
}

// Invalid 记录一次越界 id 的控制操作。操作本身是空操作。
func (r *Runtime) Invalid(kind xhook.Kind, id xhook.ID, op string) {
	r.Notice(kind, id, "ignored", slog.String("op", op), slog.String("reason", "id out of range"))
}

// Notice 以 Debug 级别输出一条生命周期事件。
func (r *Runtime) Notice(kind xhook.Kind, id xhook.ID, event string, attrs ...slog.Attr) {
	ctx := context.Background()
	if !r.logger.Enabled(ctx, slog.LevelDebug) {
		return
	}
	all := make([]slog.Attr, 0, 1+len(attrs))
	all = append(all, slog.Int("id", int(id)))
	all = append(all, attrs...)
	r.logger.LogAttrs(ctx, slog.LevelDebug, kind.String()+" "+event, all...)
}

// When 返回时间点的日志属性。
func When(key string, w xhook.When) slog.Attr {
	return slog.String(key, w.String())
}
