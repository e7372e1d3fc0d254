package xevents

import (
	"log/slog"
	"time"

	"github.com/omeyang/xevents/internal/hookcore"
	"github.com/omeyang/xevents/pkg/schedule/xclock"
	"github.com/omeyang/xevents/pkg/schedule/xhook"
)

// Variant 是快照中标识本引擎的变体名。
const Variant = "full"

type schedule struct {
	action   xhook.Action
	interval uint64
	nextFire uint64
	active   bool
}

type reaction struct {
	predicate     xhook.Predicate
	action        xhook.Action
	timeout       uint64
	delay         uint64
	nextCheck     uint64
	nextExecution uint64
	pending       bool
	triggerActive bool
}

// Loop 完整版调度引擎。
//
// 零值不可用，请使用 [New] 创建。Loop 不是并发安全的，
// 所有方法（除 Stats 返回值的读取方法外）只能在同一个 goroutine 中调用。
type Loop struct {
	clock xclock.Clock
	rt    *hookcore.Runtime

	// 预分配固定容量，回调中追加条目不会使已有元素的地址失效。
	schedules []schedule
	reactions []reaction

	begun bool
	epoch uint64
	now   uint64
}

// New 创建容量分别为 schedules 与 reactions 的引擎。负容量按 0 处理。
func New(schedules, reactions int, opts ...Option) *Loop {
	cfg := hookcore.DefaultConfig(DefaultName)
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return &Loop{
		clock:     cfg.Clock,
		rt:        hookcore.NewRuntime(cfg),
		schedules: make([]schedule, 0, hookcore.Capacity(schedules)),
		reactions: make([]reaction, 0, hookcore.Capacity(reactions)),
	}
}

// =============================================================================
// 添加条目
// =============================================================================

// AddSchedule 添加周期任务，返回其 ID。
//
// interval 按整毫秒截断。默认初始延迟为 0，即首个 tick 即执行；
// 使用 [WithInitialDelay] 修改。
//
// 容量已满时返回 [xhook.InvalidID] 与 [xhook.ErrCapacityExceeded]，已有条目不受影响。
func (l *Loop) AddSchedule(action xhook.Action, interval time.Duration, opts ...HookOption) (xhook.ID, error) {
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
	l.schedules = append(l.schedules, schedule{
		action:   action,
		interval: xclock.Duration(interval),
		nextFire: l.anchor(o.initialDelay),
		active:   true,
	})
	l.rt.Notice(xhook.KindSchedule, id, "added",
		slog.Uint64("interval_ms", xclock.Duration(interval)),
		slog.Uint64("initial_delay_ms", o.initialDelay))
	return id, nil
}

// AddReaction 添加反应，返回其 ID。
//
// timeout 为防抖窗口：触发被接受后，timeout 内不再求值触发条件。
// delay 为触发到执行的延迟，0 表示在触发的同一 tick 内立即执行。
// 两者均按整毫秒截断，timeout 不会被自动延长到 delay。
func (l *Loop) AddReaction(predicate xhook.Predicate, action xhook.Action, timeout, delay time.Duration, opts ...HookOption) (xhook.ID, error) {
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
	l.reactions = append(l.reactions, reaction{
		predicate:     predicate,
		action:        action,
		timeout:       xclock.Duration(timeout),
		delay:         xclock.Duration(delay),
		nextCheck:     l.anchor(o.initialDelay),
		triggerActive: true,
	})
	l.rt.Notice(xhook.KindReaction, id, "added",
		slog.Uint64("timeout_ms", xclock.Duration(timeout)),
		slog.Uint64("delay_ms", xclock.Duration(delay)),
		slog.Uint64("initial_delay_ms", o.initialDelay))
	return id, nil
}

// anchor 把相对延迟转换为存储值：Begin 前保持相对，Begin 后加上当前时钟读数。
func (l *Loop) anchor(delay uint64) uint64 {
	if !l.begun {
		return delay
	}
	return xclock.Add(l.clock.Millis(), delay)
}

// reference 返回控制操作解析相对时间点的基准。
// Begin 前为 0，结果作为相对初始延迟由 Begin 统一锚定。
func (l *Loop) reference() uint64 {
	if !l.begun {
		return 0
	}
	return l.clock.Millis()
}

// =============================================================================
// 生命周期
// =============================================================================

// Begin 采样时钟作为纪元，把所有条目的相对初始延迟转换为绝对时间戳。
//
// 只能调用一次，重复调用返回 [xhook.ErrAlreadyBegun] 且不修改任何状态。
// 未调用 Begin 时，首次 Run 会自动调用。
func (l *Loop) Begin() error {
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

// Run 执行一个 tick。
//
// 采样一次时钟，依次处理到期的周期任务、到期的 pending 反应和新触发。
// 回调在当前 goroutine 中同步执行；回调 panic 会向上传播。
func (l *Loop) Run() {
	if !l.begun {
		_ = l.Begin()
	}
	now := l.clock.Millis()
	l.now = now

	l.rt.BeginTick(now)
	defer l.rt.EndTick()

	l.runSchedules(now)
	l.settleReactions(now)
	l.scanTriggers(now)
}

func (l *Loop) runSchedules(now uint64) {
	// 按下标遍历：回调中追加的条目本 tick 内也会被检查。
	for i := 0; i < len(l.schedules); i++ {
		s := &l.schedules[i]
		if !s.active || s.nextFire >= now {
			continue
		}
		s.nextFire = xclock.Add(s.nextFire, s.interval)
		l.rt.RunSchedule(xhook.ID(i), s.action)
	}
}

func (l *Loop) settleReactions(now uint64) {
	for i := 0; i < len(l.reactions); i++ {
		r := &l.reactions[i]
		if !r.pending || r.nextExecution >= now {
			continue
		}
		r.pending = false
		l.rt.RunReaction(xhook.ID(i), r.action)
	}
}

func (l *Loop) scanTriggers(now uint64) {
	for i := 0; i < len(l.reactions); i++ {
		r := &l.reactions[i]
		if !r.triggerActive || r.nextCheck >= now {
			continue
		}
		if !r.predicate.Triggered() {
			continue
		}
		id := xhook.ID(i)
		r.nextCheck = xclock.Add(now, r.timeout)
		if r.delay == 0 {
			l.rt.Trigger(id, false)
			l.rt.RunReaction(id, r.action)
			continue
		}
		r.nextExecution = xclock.Add(now, r.delay)
		r.pending = true
		l.rt.Trigger(id, true)
	}
}

// =============================================================================
// 控制操作
// =============================================================================

func (l *Loop) schedule(id xhook.ID, op string) *schedule {
	if id < 0 || int(id) >= len(l.schedules) {
		l.rt.Invalid(xhook.KindSchedule, id, op)
		return nil
	}
	return &l.schedules[id]
}

func (l *Loop) reaction(id xhook.ID, op string) *reaction {
	if id < 0 || int(id) >= len(l.reactions) {
		l.rt.Invalid(xhook.KindReaction, id, op)
		return nil
	}
	return &l.reactions[id]
}

// PauseSchedule 暂停周期任务。幂等。
//
// 暂停冻结 next_fire，不重置相位。
func (l *Loop) PauseSchedule(id xhook.ID) {
	s := l.schedule(id, "PauseSchedule")
	if s == nil {
		return
	}
	s.active = false
	l.rt.Notice(xhook.KindSchedule, id, "paused")
}

// ResumeSchedule 恢复周期任务，下次到期时间为 when。
//
// 相对时间点以调用时的时钟读数为基准。在 Begin 之前调用时，
// when 解析为相对初始延迟，由 Begin 统一锚定。
func (l *Loop) ResumeSchedule(id xhook.ID, when xhook.When) {
	s := l.schedule(id, "ResumeSchedule")
	if s == nil {
		return
	}
	s.active = true
	s.nextFire = when.Resolve(l.reference())
	l.rt.Notice(xhook.KindSchedule, id, "resumed", hookcore.When("at", when))
}

// PauseTrigger 暂停反应的触发检测。已排队的执行不受影响，仍会按时执行。
func (l *Loop) PauseTrigger(id xhook.ID) {
	r := l.reaction(id, "PauseTrigger")
	if r == nil {
		return
	}
	r.triggerActive = false
	l.rt.Notice(xhook.KindReaction, id, "trigger paused")
}

// ResumeTrigger 恢复反应的触发检测，下次检测时间为 when。
func (l *Loop) ResumeTrigger(id xhook.ID, when xhook.When) {
	r := l.reaction(id, "ResumeTrigger")
	if r == nil {
		return
	}
	r.triggerActive = true
	r.nextCheck = when.Resolve(l.reference())
	l.rt.Notice(xhook.KindReaction, id, "trigger resumed", hookcore.When("at", when))
}

// CancelReaction 取消已排队的执行，并把防抖窗口重置为 when。
//
// 与 [Loop.StopReaction] 的区别在于会修改下次触发检测时间。
// 不改变触发是否活动。
func (l *Loop) CancelReaction(id xhook.ID, when xhook.When) {
	r := l.reaction(id, "CancelReaction")
	if r == nil {
		return
	}
	r.pending = false
	r.nextCheck = when.Resolve(l.reference())
	l.rt.Cancelled(id, hookcore.When("next_check", when))
}

// StopReaction 取消已排队的执行，防抖窗口保持不变。
func (l *Loop) StopReaction(id xhook.ID) {
	r := l.reaction(id, "StopReaction")
	if r == nil {
		return
	}
	r.pending = false
	l.rt.Stopped(id)
}

// =============================================================================
// 查询
// =============================================================================

// Name 返回引擎名称。
func (l *Loop) Name() string {
	return l.rt.Name()
}

// Begun 报告 Begin 是否已被调用。
func (l *Loop) Begun() bool {
	return l.begun
}

// Now 返回最近一次 tick 采样的时钟读数；尚未 tick 时返回纪元，Begin 之前为 0。
func (l *Loop) Now() uint64 {
	return l.now
}

// Len 返回已添加的周期任务与反应数量。
func (l *Loop) Len() (schedules, reactions int) {
	return len(l.schedules), len(l.reactions)
}

// Cap 返回周期任务与反应的容量。
func (l *Loop) Cap() (schedules, reactions int) {
	return cap(l.schedules), cap(l.reactions)
}

// Stats 返回执行统计。返回值的读取方法可在任意 goroutine 中调用。
func (l *Loop) Stats() *xhook.Stats {
	return l.rt.Stats()
}

// Snapshot 返回所有条目状态的拷贝。
func (l *Loop) Snapshot() xhook.Snapshot {
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
			Interval: s.interval,
			NextFire: s.nextFire,
			Active:   s.active,
		}
	}
	for i, r := range l.reactions {
		snap.Reactions[i] = xhook.ReactionState{
			ID:            xhook.ID(i),
			Timeout:       r.timeout,
			Delay:         r.delay,
			NextCheck:     r.nextCheck,
			NextExecution: r.nextExecution,
			Pending:       r.pending,
			TriggerActive: r.triggerActive,
		}
	}
	return snap
}
