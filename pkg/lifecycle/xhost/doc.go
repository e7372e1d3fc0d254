// Package xhost 在真实时间中驱动一个或多个调度引擎。
//
// # 概述
//
// xevents 与 xtinyevents 的引擎只负责一个 tick 的处理，需要宿主循环反复调用 Run。
// Host 为每个挂载的引擎启动一个轮询 goroutine，基于 errgroup 协调关闭：
//
//   - 按固定间隔调用引擎的 Run（间隔由 clockwork 时钟驱动，测试中可用假时钟）
//   - 监听系统信号（默认 SIGHUP、SIGINT、SIGTERM、SIGQUIT），收到后优雅退出
//   - 回调 panic 时停止所有引擎，返回包装 [ErrCallbackPanic] 的错误
//   - 通过 Submit 把控制操作投递到引擎所在 goroutine，在两个 tick 之间执行
//
// # 快速开始
//
//	loop := xevents.New(4, 4, xevents.WithName("board"))
//	// ... AddSchedule / AddReaction
//
//	host := xhost.New(xhost.WithLogger(logger))
//	if _, err := host.Attach(loop, time.Millisecond); err != nil {
//	    return err
//	}
//
//	// 其他 goroutine 中安全地操作引擎
//	_ = host.Submit("board", func() { loop.PauseSchedule(blink) })
//
//	err := host.Run(ctx)
//	if errors.Is(err, xhost.ErrSignal) {
//	    log.Println("received signal, shutting down")
//	}
//
// # 单独使用轮询服务
//
// [Poll] 返回一个服务函数，可以放进任意 errgroup：
//
//	g.Go(func() error { return xhost.Poll(loop, time.Millisecond, nil)(ctx) })
package xhost
