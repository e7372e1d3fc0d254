package xtinyevents

import (
	"log/slog"

	"github.com/bits-and-blooms/bitset"

	"github.com/omeyang/xevents/internal/hookcore"
	"github.com/omeyang/xevents/pkg/schedule/xclock"
	"github.com/omeyang/xevents/pkg/schedule/xhook"
)

// Variant 是快照中标识本引擎的变体名。
const Variant = "compact"

// Width 是 interval、timeout 与 delay 可选的存储宽度。
type Width interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

type schedule[D Width] struct {
	action   xhook.Action
	interval D
	nextFire uint64 // xclock.Max 表示暂停
}

type reaction[W Width] struct {
	predicate     xhook.Predicate
	action        xhook.Action
	timeout       W
	delay         W
	nextCheck     uint64 // xclock.Max 表示暂停触发
	nextExecution uint64
}

// Loop 紧凑版调度引擎。D 为 interval 的存储类型，W 为 timeout 与 delay 的存储类型。
//
// 零值不可用，请使用 [New] 创建。Loop 不是并发安全的。
type Loop[D, W Width] struct {
	clock xclock.Clock
	rt    *hookcore.Runtime

	schedules []schedule[D]
	reactions []reaction[W]
	pending   *bitset.BitSet

	begun bool
	epoch uint64
	now   uint64
}

// New 创建容量分别为 schedules 与 reactions 的引擎。负容量按 0 处理。
func New[D, W Width](schedules, reactions int, opts ...Option) *Loop[D, W] {
	cfg := hookcore.DefaultConfig(DefaultName)
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	reactions = hookcore.Capacity(reactions)
	return &Loop[D, W]{
		clock:     cfg.Clock,
		rt:        hookcore.NewRuntime(cfg),
		schedules: make([]schedule[D], 0, hookcore.Capacity(schedules)),
		reactions: make([]reaction[W], 0, reactions),
		pending:   bitset.New(uint(reactions)),
	}
}

// AddSchedule 添加周期任务，interval 单位为毫秒。
//
// 容量已满时返回 [xhook.InvalidID] 与 [xhook.ErrCapacityExceeded]。
func (l *Loop[D, W]) AddSchedule(action xhook.Action, interval D, opts ...HookOption) (xhook.ID, error) {
	if xhook.IsNilAction(action) {
		l.rt.Rejected(xhook.KindSchedule, xhook.ErrNilAction)
		return xhook.InvalidID, xhook.ErrNilAction
	}
	if len(l.schedules) == cap(l.schedules) {
		l.rt.Rejected(xhook.KindSchedule, xhook.ErrCapacityExceeded)
		return xhook.InvalidID, xhook.ErrCapacityExceeded
	}

	o := applyHookOptions(opts)
	id := xhook.ID(len(l.schedules))
	l.schedules = append(l.schedules, schedule[D]{
		action:   action,
		interval: interval,
		nextFire: l.anchor(o.initialDelay),
	})
	l.rt.Notice(xhook.KindSchedule, id, "added",
		slog.Uint64("interval_ms", uint64(interval)),
		slog.Uint64("initial_delay_ms", o.initialDelay))
	return id, nil
}

// AddReaction 添加反应，timeout 与 delay 单位为毫秒。
func (l *Loop[D, W]) AddReaction(predicate xhook.Predicate, action xhook.Action, timeout, delay W, opts ...HookOption) (xhook.ID, error) {
	if xhook.IsNilPredicate(predicate) {
		l.rt.Rejected(xhook.KindReaction, xhook.ErrNilPredicate)
		return xhook.InvalidID, xhook.ErrNilPredicate
	}
	if xhook.IsNilAction(action) {
		l.rt.Rejected(xhook.KindReaction, xhook.ErrNilAction)
		return xhook.InvalidID, xhook.ErrNilAction
	}
	if len(l.reactions) == cap(l.reactions) {
		l.rt.Rejected(xhook.KindReaction, xhook.ErrCapacityExceeded)
		return xhook.InvalidID, xhook.ErrCapacityExceeded
	}

	o := applyHookOptions(opts)
	id := xhook.ID(len(l.reactions))
	l.reactions = append(l.reactions, reaction[W]{
		predicate: predicate,
		action:    action,
		timeout:   timeout,
		delay:     delay,
		nextCheck: l.anchor(o.initialDelay),
	})
	l.rt.Notice(xhook.KindReaction, id, "added",
		slog.Uint64("timeout_ms", uint64(timeout)),
		slog.Uint64("delay_ms", uint64(delay)),
		slog.Uint64("initial_delay_ms", o.initialDelay))
	return id, nil
}

func (l *Loop[D, W]) anchor(delay uint64) uint64 {
	if !l.begun {
		return delay
	}
	return xclock.Add(l.clock.Millis(), delay)
}

func (l *Loop[D, W]) reference() uint64 {
	if !l.begun {
		return 0
	}
	return l.clock.Millis()
}

// Begin 采样时钟作为纪元，锚定所有相对初始延迟。暂停哨兵保持不变。
//
// 重复调用返回 [xhook.ErrAlreadyBegun]。
func (l *Loop[D, W]) Begin() error {
	if l.begun {
		return xhook.ErrAlreadyBegun
	}
	epoch := l.clock.Millis()
	for i := range l.schedules {
		l.schedules[i].nextFire = xclock.Add(l.schedules[i].nextFire, epoch)
	}
	for i := range l.reactions {
		l.reactions[i].nextCheck = xclock.Add(l.reactions[i].nextCheck, epoch)
	}
	l.begun = true
	l.epoch = epoch
	l.now = epoch
	l.rt.Begun(epoch)
	return nil
}

// Run 执行一个 tick。未调用 Begin 时自动调用。
func (l *Loop[D, W]) Run() {
	if !l.begun {
		_ = l.Begin()
	}
	now := l.clock.Millis()
	l.now = now

	l.rt.BeginTick(now)
	defer l.rt.EndTick()

	for i := 0; i < len(l.schedules); i++ {
		s := &l.schedules[i]
		if s.nextFire >= now {
			continue
		}
		s.nextFire = xclock.Add(s.nextFire, uint64(s.interval))
		l.rt.RunSchedule(xhook.ID(i), s.action)
	}

	for i := 0; i < len(l.reactions); i++ {
		r := &l.reactions[i]
		if !l.pending.Test(uint(i)) || r.nextExecution >= now {
			continue
		}
		l.pending.Clear(uint(i))
		l.rt.RunReaction(xhook.ID(i), r.action)
	}

	for i := 0; i < len(l.reactions); i++ {
		r := &l.reactions[i]
		if r.nextCheck >= now || !r.predicate.Triggered() {
			continue
		}
		id := xhook.ID(i)
		r.nextCheck = xclock.Add(now, uint64(r.timeout))
		if r.delay == 0 {
			l.rt.Trigger(id, false)
			l.rt.RunReaction(id, r.action)
			continue
		}
		r.nextExecution = xclock.Add(now, uint64(r.delay))
		l.pending.Set(uint(i))
		l.rt.Trigger(id, true)
	}
}

// SetNextSchedule 设置周期任务的下次执行时间。
//
// 传入 [xhook.Never] 暂停；暂停的任务通过再次设置恢复。
func (l *Loop[D, W]) SetNextSchedule(id xhook.ID, when xhook.When) {
	if id < 0 || int(id) >= len(l.schedules) {
		l.rt.Invalid(xhook.KindSchedule, id, "SetNextSchedule")
		return
	}
	l.schedules[id].nextFire = when.Resolve(l.reference())
	l.rt.Notice(xhook.KindSchedule, id, "rescheduled", hookcore.When("at", when))
}

// SetNextTrigger 设置反应的下次触发检测时间。
//
// 传入 [xhook.Never] 暂停触发检测，已排队的执行不受影响。
func (l *Loop[D, W]) SetNextTrigger(id xhook.ID, when xhook.When) {
	if id < 0 || int(id) >= len(l.reactions) {
		l.rt.Invalid(xhook.KindReaction, id, "SetNextTrigger")
		return
	}
	l.reactions[id].nextCheck = when.Resolve(l.reference())
	l.rt.Notice(xhook.KindReaction, id, "trigger rescheduled", hookcore.When("at", when))
}

// CancelReaction 取消已排队的执行。
//
// resetDebounce 为 true 时同时把下次触发检测时间设为 when，
// 为 false 时防抖窗口保持不变，when 被忽略。
func (l *Loop[D, W]) CancelReaction(id xhook.ID, resetDebounce bool, when xhook.When) {
	if id < 0 || int(id) >= len(l.reactions) {
		l.rt.Invalid(xhook.KindReaction, id, "CancelReaction")
		return
	}
	l.pending.Clear(uint(id))
	if !resetDebounce {
		l.rt.Cancelled(id, slog.Bool("reset_debounce", false))
		return
	}
	l.reactions[id].nextCheck = when.Resolve(l.reference())
	l.rt.Cancelled(id, slog.Bool("reset_debounce", true), hookcore.When("next_check", when))
}

// Name 返回引擎名称。
func (l *Loop[D, W]) Name() string {
	return l.rt.Name()
}

// Begun 报告 Begin 是否已被调用。
func (l *Loop[D, W]) Begun() bool {
	return l.begun
}

// Now 返回最近一次 tick 采样的时钟读数；尚未 tick 时返回纪元。
func (l *Loop[D, W]) Now() uint64 {
	return l.now
}

// Len 返回已添加的周期任务与反应数量。
func (l *Loop[D, W]) Len() (schedules, reactions int) {
	return len(l.schedules), len(l.reactions)
}

// Cap 返回周期任务与反应的容量。
func (l *Loop[D, W]) Cap() (schedules, reactions int) {
	return cap(l.schedules), cap(l.reactions)
}

// Stats 返回执行统计。
func (l *Loop[D, W]) Stats() *xhook.Stats {
	return l.rt.Stats()
}

// Snapshot 返回所有条目状态的拷贝。Active/TriggerActive 由哨兵时间戳推导。
func (l *Loop[D, W]) Snapshot() xhook.Snapshot {
	snap := xhook.Snapshot{
		Engine:    l.rt.Name(),
		Variant:   Variant,
		Begun:     l.begun,
		Epoch:     l.epoch,
		Now:       l.now,
		Schedules: make([]xhook.ScheduleState, len(l.schedules)),
		Reactions: make([]xhook.ReactionState, len(l.reactions)),
	}
	for i, s := range l.schedules {
		snap.Schedules[i] = xhook.ScheduleState{
			ID:       xhook.ID(i),
			Interval: uint64(s.interval),
			NextFire: s.nextFire,
			Active:   s.nextFire != xclock.Max,
		}
	}
	for i, r := range l.reactions {
		snap.Reactions[i] = xhook.ReactionState{
			ID:            xhook.ID(i),
			Timeout:       uint64(r.timeout),
			Delay:         uint64(r.delay),
			NextCheck:     r.nextCheck,
			NextExecution: r.nextExecution,
			Pending:       l.pending.Test(uint(i)),
			TriggerActive: r.nextCheck != xclock.Max,
		}
	}
	return snap
}
