// Package xsampling 提供 tick 跨度的采样策略。
//
// 引擎以毫秒级频率 tick，对每个 tick 都建立追踪跨度代价过高。
// xmetrics 的 OTel 观测器通过 xmetrics.WithSampler 接入 [Sampler]，
// 未被采样的 tick 仍计入指标，只是不建立可记录的跨度。
//
// # 策略
//
//   - [Always]: 全采样
//   - [Never]: 不采样
//   - [NewRateSampler]: 固定比率随机采样
//   - [NewCountSampler]: 每 n 个采样 1 个（第 1、n+1、2n+1... 个）
//   - [All]: AND 组合，短路求值
//
// 所有采样器并发安全。
package xsampling
