// Package xclock 提供调度引擎使用的毫秒时钟源。
//
// # 概述
//
// 引擎每个 tick 只采样一次时钟，得到一个单调不减的无符号毫秒计数。
// 时钟的零点是任意的（通常为时钟创建时刻），引擎只关心差值。
//
//   - Clock: 时钟接口，只有 Millis 一个方法
//   - Func: 函数适配器，便于测试时手动推进时间
//   - New: 基于 [clockwork.Clock] 的实现，可配合 FakeClock 做确定性测试
//   - Real: 基于系统单调时钟的默认实现
//
// # 回绕
//
// 计数使用 uint64 毫秒，约 5.8 亿年后才会回绕，
// 因此引擎直接使用小于比较判断到期，不做回绕修正。
// [Max] 是可表示的最大时间戳，紧凑版引擎用它表示"永不到期"。
//
// [clockwork.Clock]: https://pkg.go.dev/github.com/jonboulle/clockwork#Clock
package xclock
