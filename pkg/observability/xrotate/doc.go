// Package xrotate 为 xevents 进程的日志文件提供按大小轮转。
//
// [Rotator] 是带 Rotate 方法的 io.WriteCloser，可直接作为 slog handler 的输出。
// 当前唯一实现 [NewLumberjack] 基于 lumberjack v2：
//
//	r, err := xrotate.NewLumberjack("/var/log/xevents.log",
//	    xrotate.WithMaxSize(100),
//	    xrotate.WithMaxBackups(7),
//	)
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//	logger := slog.New(slog.NewJSONHandler(r, nil))
//
// 轮转器自身不写日志，内部错误只通过 [WithOnError] 回调上报。
package xrotate
