// Package xmetrics 提供调度引擎的可观测性接口（metrics + tracing）。
//
// # 设计理念
//
// xmetrics 仅定义最小化接口：Observer/TickSpan/Attr，
// 引擎只依赖接口；具体实现可替换。
// 默认实现基于 OpenTelemetry，兼容主流可观测栈。
//
// 一次 tick 对应一个跨度；跨度内每次回调（周期任务执行、反应执行、
// 触发被接受）通过 Record 记录一次事件。未配置 Observer 时引擎使用
// [NoopObserver]，且不会测量回调耗时。
//
// # 使用示例
//
//	obs, _ := xmetrics.NewOTelObserver(xmetrics.WithMeterProvider(mp))
//	loop := xevents.New(8, 8, xevents.WithObserver(obs))
//
// # 指标命名
//
// 统一指标：
//   - xevents.tick.total
//   - xevents.hook.total
//   - xevents.hook.duration
//
// 统一属性：engine / event。
//
// # 采样
//
// [WithSampler] 接入 xsampling 策略，只为部分 tick 建立可记录的跨度：
//
//	s, _ := xsampling.NewCountSampler(1000)
//	obs, _ := xmetrics.NewOTelObserver(xmetrics.WithSampler(s))
package xmetrics
