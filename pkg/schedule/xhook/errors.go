package xhook

import "errors"

// 添加条目与生命周期相关错误。
var (
	// ErrCapacityExceeded 表示表已满，无法再添加条目。
	ErrCapacityExceeded = errors.New("xhook: capacity exceeded")

	// ErrNilAction 表示动作回调为 nil。
	ErrNilAction = errors.New("xhook: action cannot be nil")

	// ErrNilPredicate 表示触发条件为 nil。
	ErrNilPredicate = errors.New("xhook: predicate cannot be nil")

	// ErrAlreadyBegun 表示 Begin 已被调用过。
	ErrAlreadyBegun = errors.New("xhook: begin already called")
)
