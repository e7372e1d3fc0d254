// Package xhook 定义 xevents 与 xtinyevents 两种引擎共享的钩子类型。
//
// # 核心概念
//
//   - Action: 动作回调，无参数、无返回值
//   - Predicate: 触发条件，无参数、返回 bool
//   - ID: 条目标识，按添加顺序从 0 开始分配，终生不变
//   - When: 时间点描述，区分相对（now + offset）与绝对时间戳
//   - Stats: 引擎执行统计，可跨 goroutine 读取
//   - Snapshot: 引擎表状态的只读拷贝，可输出为 YAML
//
// # 回调约定
//
// 动作与触发条件在引擎 Run 所在的 goroutine 中同步执行，
// 不得阻塞（不得 sleep、等待 channel 或做网络 IO）。
// 回调内可以调用引擎的任意控制方法（包括作用于自身条目），
// 引擎保证在调用回调之前已提交自身的状态更新，回调的修改不会被覆盖。
//
// # 错误
//
// 添加条目超出容量时返回 [InvalidID] 与 [ErrCapacityExceeded]，
// 已有条目不受影响。对越界 ID 的控制操作静默忽略，不返回错误。
package xhook
