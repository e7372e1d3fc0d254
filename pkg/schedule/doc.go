// Package schedule 提供单线程控制循环使用的协作式调度子包。
//
// 子包列表：
//   - xclock: 毫秒时钟源，支持 clockwork 假时钟
//   - xhook: 两种引擎共享的钩子类型、时间点、统计与快照
//   - xevents: 完整版引擎，支持暂停/恢复、取消/停止
//   - xtinyevents: 紧凑版引擎，以哨兵时间戳表示暂停，字段宽度可选
//
// 设计原则：
//   - 容量在构造时固定，运行期不扩容
//   - 每个 tick 只采样一次时钟，从不阻塞
//   - 先更新状态再调用回调，回调可安全修改引擎
package schedule
