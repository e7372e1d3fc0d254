// Package xlog 构建 xevents 进程使用的 *slog.Logger。
//
// # 创建 Logger
//
// 使用 Builder 模式（first-error-wins：遇到第一个配置错误后，后续 Set 操作被跳过）：
//
//	logger, level, cleanup, err := xlog.New().
//	    SetLevel(xlog.LevelDebug).
//	    SetFormat("json").
//	    SetRotation("/var/log/xevents.log", xrotate.WithMaxSize(100)).
//	    SetAttrs(slog.String("service", "xeventsctl")).
//	    Build()
//	if err != nil {
//	    return err
//	}
//	defer cleanup()
//
//	level.Set(slog.LevelWarn) // 运行时调整级别
//
// 返回的 *slog.Logger 直接交给 xevents.WithLogger、xhost.WithLogger 等选项。
//
// # 日志级别
//
// LevelDebug(-4)、LevelInfo(0)、LevelWarn(4)、LevelError(8)，与 slog 一致。
// [ParseLevel] 大小写不敏感，Level 实现 encoding.TextMarshaler/TextUnmarshaler。
//
// # 便捷属性
//
// [Err]、[Engine]、[Millis]、[Component]。
package xlog
