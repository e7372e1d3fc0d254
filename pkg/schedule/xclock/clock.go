package xclock

import (
	"math"
	"time"

	"github.com/jonboulle/clockwork"
)

// Max 是可表示的最大时间戳。
// 任何 now 都不会大于 Max，因此 next == Max 的条目永远不会到期。
const Max uint64 = math.MaxUint64

// Clock 毫秒时钟源接口。
//
// Millis 返回自任意固定零点以来经过的毫秒数，必须单调不减。
type Clock interface {
	Millis() uint64
}

// Func 函数适配器，将普通函数转换为 [Clock]。
//
// 用法：
//
//	var now uint64
//	clk := xclock.Func(func() uint64 { return now })
type Func func() uint64

// Millis 实现 [Clock] 接口。
func (f Func) Millis() uint64 {
	return f()
}

// clockworkClock 以创建时刻为零点的 clockwork 时钟包装。
type clockworkClock struct {
	c      clockwork.Clock
	origin time.Time
}

// New 基于 clockwork.Clock 创建毫秒时钟，零点为调用 New 的时刻。
//
// 测试中传入 clockwork.NewFakeClock()，通过 Advance 推进时间：
//
//	fc := clockwork.NewFakeClock()
//	clk := xclock.New(fc)
//	fc.Advance(10 * time.Millisecond) // clk.Millis() == 10
//
// c 为 nil 时使用真实时钟。
func New(c clockwork.Clock) Clock {
	if c == nil {
		c = clockwork.NewRealClock()
	}
	return &clockworkClock{c: c, origin: c.Now()}
}

// Real 返回基于系统时钟的毫秒时钟。
func Real() Clock {
	return New(clockwork.NewRealClock())
}

// Millis 实现 [Clock] 接口。
func (k *clockworkClock) Millis() uint64 {
	d := k.c.Since(k.origin)
	if d < 0 {
		return 0
	}
	return uint64(d / time.Millisecond)
}

// Duration 将 time.Duration 转换为整毫秒数。
// 不足 1ms 的部分被截断，负值按 0 处理。
func Duration(d time.Duration) uint64 {
	if d <= 0 {
		return 0
	}
	return uint64(d / time.Millisecond)
}

// Add 返回 ts + d，溢出时饱和到 [Max]。
func Add(ts, d uint64) uint64 {
	if d > Max-ts {
		return Max
	}
	return ts + d
}
