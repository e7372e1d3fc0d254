package xhost

import (
	"errors"
	"fmt"
	"os"
)

// ErrSignal 表示因收到系统信号而终止。
// 使用 errors.Is(err, ErrSignal) 判断是否为信号错误。
var ErrSignal = errors.New("received signal")

// 挂载与运行相关错误。
var (
	// ErrNilEngine 表示挂载的引擎为 nil。
	ErrNilEngine = errors.New("xhost: engine cannot be nil")

	// ErrInvalidInterval 表示轮询间隔无效（必须为正数）。
	ErrInvalidInterval = errors.New("xhost: interval must be positive")

	// ErrDuplicateEngine 表示引擎名称已被占用。
	ErrDuplicateEngine = errors.New("xhost: duplicate engine name")

	// ErrUnknownEngine 表示 Submit 指定的引擎不存在。
	ErrUnknownEngine = errors.New("xhost: unknown engine")

	// ErrNilFunc 表示提交的函数为 nil。
	ErrNilFunc = errors.New("xhost: function cannot be nil")

	// ErrHostRunning 表示 Host 已在运行，不能再挂载引擎或重复运行。
	ErrHostRunning = errors.New("xhost: host already running")

	// ErrHostStopped 表示 Host 已停止，不再接受提交。
	ErrHostStopped = errors.New("xhost: host stopped")

	// ErrCallbackPanic 表示引擎回调或提交的函数发生 panic。
	ErrCallbackPanic = errors.New("xhost: callback panicked")
)

// SignalError 包含触发终止的具体信号信息。
//
// 使用 errors.Is(err, ErrSignal) 判断是否为信号错误，
// 使用 errors.As 获取具体信号值：
//
//	var sigErr *xhost.SignalError
//	if errors.As(err, &sigErr) {
//	    fmt.Printf("received signal: %v\n", sigErr.Signal)
//	}
type SignalError struct {
	Signal os.Signal
}

// Error 实现 error 接口。
func (e *SignalError) Error() string {
	if e.Signal == nil {
		return "received signal <nil>"
	}
	return fmt.Sprintf("received signal %s", e.Signal)
}

// Is 支持 errors.Is(err, ErrSignal) 判断。
func (e *SignalError) Is(target error) bool {
	return target == ErrSignal
}

// Unwrap 返回底层错误。
func (e *SignalError) Unwrap() error {
	return ErrSignal
}

// panicError 把 recover 得到的值包装为 ErrCallbackPanic。
func panicError(engine string, r any) error {
	return fmt.Errorf("%w: engine %q: %v", ErrCallbackPanic, engine, r)
}
