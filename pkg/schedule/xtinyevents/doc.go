// Package xtinyevents 提供紧凑版协作式调度引擎。
//
// # 概述
//
// 与 xevents 的 tick 处理完全相同，区别在于存储与控制接口：
//
//   - 暂停用哨兵时间戳 [xclock.Max] 表示，不单独存储活动标志
//   - pending 标志存放在位图中，每个反应只占 1 bit
//   - interval 与 timeout/delay 的整数宽度由类型参数选择
//
// 例如 Loop[uint32, uint16] 的 timeout/delay 最大为 65535ms，
// Loop[uint8, uint8] 适合间隔不超过 255ms 的高频任务。
// 所有数值单位均为毫秒。
//
// # 控制操作
//
//   - SetNextSchedule: 设置下次执行时间，传入 [xhook.Never] 即暂停
//   - SetNextTrigger: 设置下次触发检测时间，传入 [xhook.Never] 即暂停触发
//   - CancelReaction: 取消已排队的执行，resetDebounce 为 true 时同时重置防抖窗口
//
// 越界 id 的控制操作静默忽略。
//
// # 用法
//
//	loop := xtinyevents.New[uint16, uint16](2, 1)
//	id, _ := loop.AddSchedule(xhook.ActionFunc(toggleLED), 500)
//	loop.SetNextSchedule(id, xhook.Never) // 暂停
//	loop.SetNextSchedule(id, xhook.Now)   // 立即恢复
package xtinyevents
