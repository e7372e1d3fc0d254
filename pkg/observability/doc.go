// Package observability 提供调度引擎与宿主进程的可观测性子包。
//
// 子包列表：
//   - xlog: 构建 *slog.Logger（级别、格式、轮转输出）
//   - xmetrics: tick 观测接口与 OpenTelemetry 实现
//   - xsampling: tick 跨度采样策略
//   - xrotate: 日志文件轮转
//
// 设计原则：
//   - 遵循 OpenTelemetry 语义规范
//   - 引擎只依赖接口，未配置时不产生任何开销
//   - 指标全量记录，跨度按需采样
package observability
