// Package hookcore 提供 xevents 与 xtinyevents 共享的引擎运行时。
//
// Runtime 汇集三类旁路能力：
//   - 诊断日志：生命周期事件（添加、暂停、恢复、执行、触发、取消）以 Debug 级别写入 slog
//   - 统计：[xhook.Stats] 原子计数
//   - 观测：[xmetrics.Observer] tick 跨度与钩子事件
//
// 这些能力只做记录，不影响调度控制流。
//
// 默认日志记录器由构建标签决定：使用 -tags xevents_verbose 构建时为
// slog.Default()，否则丢弃所有输出。
package hookcore
