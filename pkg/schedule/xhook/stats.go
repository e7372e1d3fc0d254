package xhook

import "sync/atomic"

// Stats 提供引擎执行统计信息。
//
// 计数由引擎在 Run 所在 goroutine 中写入，读取方法线程安全，
// 可以在其他 goroutine（如监控、CLI）中随时读取。
//
// 用法：
//
//	stats := loop.Stats()
//	fmt.Printf("ticks: %d, schedule runs: %d\n", stats.Ticks(), stats.ScheduleRuns())
type Stats struct {
	ticks         atomic.Uint64
	scheduleRuns  atomic.Uint64
	reactionRuns  atomic.Uint64
	triggers      atomic.Uint64 // 触发条件返回 true 的次数
	deferred      atomic.Uint64 // 其中进入 pending 的次数
	cancellations atomic.Uint64
	stops         atomic.Uint64
	lastTick      atomic.Uint64 // 最近一次 tick 的时钟读数
}

// NewStats 创建统计实例。
func NewStats() *Stats {
	return &Stats{}
}

// Ticks 返回 Run 被调用的次数。
func (s *Stats) Ticks() uint64 {
	return s.ticks.Load()
}

// ScheduleRuns 返回周期任务动作的执行次数。
func (s *Stats) ScheduleRuns() uint64 {
	return s.scheduleRuns.Load()
}

// ReactionRuns 返回反应动作的执行次数（含立即执行与延迟执行）。
func (s *Stats) ReactionRuns() uint64 {
	return s.reactionRuns.Load()
}

// Triggers 返回被接受的触发次数。
func (s *Stats) Triggers() uint64 {
	return s.triggers.Load()
}

// Deferred 返回进入 pending 状态的触发次数。
func (s *Stats) Deferred() uint64 {
	return s.deferred.Load()
}

// Cancellations 返回 CancelReaction 的调用次数。
func (s *Stats) Cancellations() uint64 {
	return s.cancellations.Load()
}

// Stops 返回 StopReaction 的调用次数。
func (s *Stats) Stops() uint64 {
	return s.stops.Load()
}

// LastTick 返回最近一次 tick 采样的时钟读数。
func (s *Stats) LastTick() uint64 {
	return s.lastTick.Load()
}

// 以下方法供引擎实现调用。

// RecordTick 记录一次 tick。
func (s *Stats) RecordTick(now uint64) {
	s.ticks.Add(1)
	s.lastTick.Store(now)
}

// RecordScheduleRun 记录一次周期任务执行。
func (s *Stats) RecordScheduleRun() {
	s.scheduleRuns.Add(1)
}

// RecordReactionRun 记录一次反应执行。
func (s *Stats) RecordReactionRun() {
	s.reactionRuns.Add(1)
}

// RecordTrigger 记录一次被接受的触发，deferred 表示进入 pending。
func (s *Stats) RecordTrigger(deferred bool) {
	s.triggers.Add(1)
	if deferred {
		s.deferred.Add(1)
	}
}

// RecordCancel 记录一次取消。
func (s *Stats) RecordCancel() {
	s.cancellations.Add(1)
}

// RecordStop 记录一次停止。
func (s *Stats) RecordStop() {
	s.stops.Add(1)
}
