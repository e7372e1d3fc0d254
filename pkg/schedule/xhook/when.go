package xhook

import (
	"strconv"
	"time"

	"github.com/omeyang/xevents/pkg/schedule/xclock"
)

// Mode 时间点模式。
type Mode uint8

const (
	// Relative 相对模式：时间点 = 当前时钟 + 偏移。零值。
	Relative Mode = iota
	// Absolute 绝对模式：时间点直接与时钟读数比较。
	Absolute
)

// When 描述控制操作的目标时间点。
//
// 零值等价于 [Now]（相对当前时间偏移 0）。
//
// 用法：
//
//	loop.ResumeSchedule(id, xhook.Now)                      // 立即恢复
//	loop.ResumeSchedule(id, xhook.After(500*time.Millisecond)) // 500ms 后
//	loop.ResumeSchedule(id, xhook.At(12000))                // 时钟读数 12000 时
type When struct {
	value uint64
	mode  Mode
}

// Now 当前时刻（相对偏移 0）。
var Now = When{}

// Never 永不到期的绝对时间点，紧凑版引擎用它表示暂停。
var Never = At(xclock.Max)

// After 返回相对当前时刻偏移 d 的时间点，d 按整毫秒截断。
func After(d time.Duration) When {
	return When{value: xclock.Duration(d), mode: Relative}
}

// AfterMillis 返回相对当前时刻偏移 ms 毫秒的时间点。
func AfterMillis(ms uint64) When {
	return When{value: ms, mode: Relative}
}

// At 返回绝对时间戳 ts（与时钟读数同一时基）。
func At(ts uint64) When {
	return When{value: ts, mode: Absolute}
}

// Mode 返回时间点模式。
func (w When) Mode() Mode {
	return w.mode
}

// Value 返回偏移量（相对模式）或时间戳（绝对模式）。
func (w When) Value() uint64 {
	return w.value
}

// Resolve 以 now 为当前时刻换算为绝对时间戳，溢出时饱和到 [xclock.Max]。
func (w When) Resolve(now uint64) uint64 {
	if w.mode == Absolute {
		return w.value
	}
	return xclock.Add(now, w.value)
}

// String 返回可读表示，如 "+500ms" 或 "@12000"。
func (w When) String() string {
	if w.mode == Absolute {
		if w.value == xclock.Max {
			return "never"
		}
		return "@" + strconv.FormatUint(w.value, 10)
	}
	return "+" + strconv.FormatUint(w.value, 10) + "ms"
}
