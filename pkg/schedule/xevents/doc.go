// Package xevents 提供完整版协作式调度引擎。
//
// # 概述
//
// Loop 管理两张固定容量的表：
//
//   - 周期任务（schedule）：每隔 interval 执行一次动作
//   - 反应（reaction）：触发条件为 true 时执行动作，内置防抖（timeout）与延迟（delay）
//
// 宿主循环反复调用 [Loop.Run]，每次调用是一个 tick。Run 从不阻塞，
// 回调在调用 Run 的 goroutine 中同步执行。
//
// # 快速开始
//
//	loop := xevents.New(4, 4)
//	blink, _ := loop.AddSchedule(xhook.ActionFunc(toggleLED), time.Second)
//	_, _ = loop.AddReaction(
//	    xhook.PredicateFunc(buttonPressed),
//	    xhook.ActionFunc(beep),
//	    200*time.Millisecond, // 防抖窗口
//	    0,                    // 立即执行
//	)
//	_ = loop.Begin()
//	for {
//	    loop.Run()
//	}
//
// # Tick 处理
//
// 每个 tick 采样一次时钟得到 now，然后依次：
//
//  1. 按 id 升序扫描周期任务：活动且 next_fire < now 时，
//     next_fire 前进一个 interval（保持相位，不追赶），再执行动作
//  2. 按 id 升序结算 pending 反应：next_execution < now 时清除 pending 并执行动作
//  3. 按 id 升序扫描触发：触发活动且 next_trigger_check < now 时求值触发条件；
//     为 true 时 next_trigger_check = now + timeout，
//     delay 为 0 立即执行动作，否则 next_execution = now + delay 并置 pending
//
// # 控制操作
//
//   - PauseSchedule / ResumeSchedule: 暂停冻结 next_fire，恢复时重新指定
//   - PauseTrigger / ResumeTrigger: 暂停触发检测，已排队的执行不受影响
//   - CancelReaction: 取消排队的执行，并把防抖窗口重置到指定时间点
//   - StopReaction: 只取消排队的执行，防抖窗口保持不变
//
// 越界 id 的控制操作静默忽略。
//
// # 并发
//
// Loop 不是并发安全的。跨 goroutine 操作引擎请使用 xhost.Host.Submit，
// 它在 tick 之间于引擎所在 goroutine 中执行提交的函数。
package xevents
