package xclock

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func TestFunc(t *testing.T) {
	var now uint64 = 42
	clk := Func(func() uint64 { return now })
	assert.Equal(t, uint64(42), clk.Millis())

	now = 100
	assert.Equal(t, uint64(100), clk.Millis())
}

func TestNew_FakeClock(t *testing.T) {
	fc := clockwork.NewFakeClock()
	clk := New(fc)
	assert.Equal(t, uint64(0), clk.Millis())

	fc.Advance(10 * time.Millisecond)
	assert.Equal(t, uint64(10), clk.Millis())

	// 不足 1ms 的部分截断
	fc.Advance(999 * time.Microsecond)
	assert.Equal(t, uint64(10), clk.Millis())

	fc.Advance(time.Microsecond)
	assert.Equal(t, uint64(11), clk.Millis())
}

func TestNew_NilUsesRealClock(t *testing.T) {
	clk := New(nil)
	first := clk.Millis()
	time.Sleep(2 * time.Millisecond)
	assert.GreaterOrEqual(t, clk.Millis(), first)
}

func TestReal_Monotonic(t *testing.T) {
	clk := Real()
	prev := clk.Millis()
	for range 100 {
		cur := clk.Millis()
		assert.GreaterOrEqual(t, cur, prev)
		prev = cur
	}
}

func TestDuration(t *testing.T) {
	tests := []struct {
		name string
		in   time.Duration
		want uint64
	}{
		{"zero", 0, 0},
		{"negative", -time.Second, 0},
		{"sub_millisecond", 500 * time.Microsecond, 0},
		{"one_second", time.Second, 1000},
		{"truncated", 1500*time.Microsecond + time.Millisecond, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Duration(tt.in))
		})
	}
}

func TestAdd(t *testing.T) {
	assert.Equal(t, uint64(30), Add(10, 20))
	assert.Equal(t, Max, Add(Max, 1))
	assert.Equal(t, Max, Add(Max-5, 10))
	assert.Equal(t, Max, Add(Max-5, 5))
}
