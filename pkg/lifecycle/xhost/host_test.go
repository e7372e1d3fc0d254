package xhost

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xevents/pkg/schedule/xevents"
	"github.com/omeyang/xevents/pkg/schedule/xhook"
)

// =============================================================================
// 测试辅助
// =============================================================================

type fakeEngine struct {
	name     string
	beginErr error
	panicAt  int64

	begins atomic.Int64
	runs   atomic.Int64

	mu     sync.Mutex
	events []string
}

func (e *fakeEngine) Begin() error {
	if e.begins.Add(1) > 1 {
		return xhook.ErrAlreadyBegun
	}
	return e.beginErr
}

func (e *fakeEngine) Run() {
	n := e.runs.Add(1)
	e.record("run")
	if e.panicAt > 0 && n == e.panicAt {
		panic("boom")
	}
}

func (e *fakeEngine) Name() string { return e.name }

func (e *fakeEngine) record(event string) {
	e.mu.Lock()
	e.events = append(e.events, event)
	e.mu.Unlock()
}

func (e *fakeEngine) snapshot() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.events...)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestHost(fc clockwork.Clock, opts ...Option) *Host {
	all := append([]Option{WithClock(fc), WithoutSignalHandler(), WithLogger(discardLogger())}, opts...)
	return New(all...)
}

// startHost 在后台运行 Host，返回结果通道与取消函数。
func startHost(ctx context.Context, h *Host) (<-chan error, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- h.Run(ctx) }()
	return errCh, cancel
}

func waitResult(t *testing.T, errCh <-chan error) error {
	t.Helper()
	select {
	case err := <-errCh:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("host did not stop")
		return nil
	}
}

// tick 推进假时钟一个间隔并等待引擎完成 want 次 Run。
func tick(t *testing.T, fc *clockwork.FakeClock, d time.Duration, runs func() int64, want int64) {
	t.Helper()
	fc.Advance(d)
	require.Eventually(t, func() bool { return runs() >= want }, 5*time.Second, time.Millisecond)
}

// =============================================================================
// Attach
// =============================================================================

func TestAttach_Errors(t *testing.T) {
	h := newTestHost(clockwork.NewFakeClock())

	_, err := h.Attach(nil, time.Millisecond)
	assert.ErrorIs(t, err, ErrNilEngine)

	_, err = h.Attach(&fakeEngine{name: "a"}, 0)
	assert.ErrorIs(t, err, ErrInvalidInterval)

	name, err := h.Attach(&fakeEngine{name: "a"}, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, "a", name)

	_, err = h.Attach(&fakeEngine{name: "a"}, time.Millisecond)
	assert.ErrorIs(t, err, ErrDuplicateEngine)
}

func TestAttach_GeneratedName(t *testing.T) {
	h := newTestHost(clockwork.NewFakeClock())

	first, err := h.Attach(&fakeEngine{}, time.Millisecond)
	require.NoError(t, err)
	second, err := h.Attach(&fakeEngine{}, time.Millisecond)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(first, "engine-"))
	assert.NotEqual(t, first, second)
	assert.Equal(t, []string{first, second}, h.Engines())
}

// =============================================================================
// Run
// =============================================================================

func TestRun_PollsUntilCancel(t *testing.T) {
	fc := clockwork.NewFakeClock()
	h := newTestHost(fc)
	a := &fakeEngine{name: "a"}
	b := &fakeEngine{name: "b"}
	_, _ = h.Attach(a, 10*time.Millisecond)
	_, _ = h.Attach(b, 20*time.Millisecond)

	errCh, cancel := startHost(context.Background(), h)
	require.NoError(t, fc.BlockUntilContext(context.Background(), 2))

	tick(t, fc, 10*time.Millisecond, a.runs.Load, 1)
	tick(t, fc, 10*time.Millisecond, a.runs.Load, 2)
	require.Eventually(t, func() bool { return b.runs.Load() == 1 }, 5*time.Second, time.Millisecond)

	cancel()
	assert.NoError(t, waitResult(t, errCh))
	assert.Equal(t, int64(1), a.begins.Load())
	assert.Equal(t, int64(1), b.begins.Load())
}

func TestRun_Twice(t *testing.T) {
	h := newTestHost(clockwork.NewFakeClock())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, h.Run(ctx))

	assert.ErrorIs(t, h.Run(context.Background()), ErrHostRunning)
	_, err := h.Attach(&fakeEngine{name: "late"}, time.Millisecond)
	assert.ErrorIs(t, err, ErrHostRunning)
}

func TestRun_NilContext(t *testing.T) {
	h := newTestHost(clockwork.NewFakeClock())
	//nolint:staticcheck // 测试 nil context 兜底
	assert.NoError(t, h.Run(nil))
}

func TestRun_BeginError(t *testing.T) {
	beginErr := errors.New("no clock")
	h := newTestHost(clockwork.NewFakeClock())
	_, _ = h.Attach(&fakeEngine{name: "a", beginErr: beginErr}, time.Millisecond)

	err := h.Run(context.Background())
	assert.ErrorIs(t, err, beginErr)
	assert.Contains(t, err.Error(), `"a"`)
}

func TestRun_AlreadyBegunIgnored(t *testing.T) {
	fc := clockwork.NewFakeClock()
	h := newTestHost(fc)
	e := &fakeEngine{name: "a"}
	require.NoError(t, e.Begin())
	_, _ = h.Attach(e, time.Millisecond)

	errCh, cancel := startHost(context.Background(), h)
	require.NoError(t, fc.BlockUntilContext(context.Background(), 1))
	cancel()
	assert.NoError(t, waitResult(t, errCh))
}

func TestRun_CallbackPanic(t *testing.T) {
	fc := clockwork.NewFakeClock()
	h := newTestHost(fc)
	bad := &fakeEngine{name: "bad", panicAt: 2}
	good := &fakeEngine{name: "good"}
	_, _ = h.Attach(bad, 10*time.Millisecond)
	_, _ = h.Attach(good, 10*time.Millisecond)

	errCh, cancel := startHost(context.Background(), h)
	defer cancel()
	require.NoError(t, fc.BlockUntilContext(context.Background(), 2))

	tick(t, fc, 10*time.Millisecond, bad.runs.Load, 1)
	fc.Advance(10 * time.Millisecond)

	err := waitResult(t, errCh)
	require.ErrorIs(t, err, ErrCallbackPanic)
	assert.Contains(t, err.Error(), "boom")
	assert.Contains(t, err.Error(), `"bad"`)
}

func TestRun_Signal(t *testing.T) {
	fc := clockwork.NewFakeClock()
	h := New(WithClock(fc), WithLogger(discardLogger()), WithName("board-host"),
		WithSignals([]os.Signal{syscall.SIGUSR1}))
	_, _ = h.Attach(&fakeEngine{name: "a"}, time.Millisecond)

	sigCh := make(chan os.Signal, 1)
	ctx := withTestSigChan(context.Background(), sigCh)
	errCh, cancel := startHost(ctx, h)
	defer cancel()

	sigCh <- syscall.SIGTERM
	err := waitResult(t, errCh)
	require.ErrorIs(t, err, ErrSignal)

	var sigErr *SignalError
	require.ErrorAs(t, err, &sigErr)
	assert.Equal(t, syscall.SIGTERM, sigErr.Signal)
}

func TestRun_SignalHandlerStopsOnCancel(t *testing.T) {
	h := New(WithClock(clockwork.NewFakeClock()), WithLogger(discardLogger()), WithSignals(nil))
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- h.Run(ctx) }()
	cancel()
	assert.NoError(t, waitResult(t, errCh))
}

// =============================================================================
// Submit
// =============================================================================

func TestSubmit_RunsBeforeTick(t *testing.T) {
	fc := clockwork.NewFakeClock()
	h := newTestHost(fc)
	e := &fakeEngine{name: "a"}
	_, _ = h.Attach(e, 10*time.Millisecond)

	require.NoError(t, h.Submit("a", func() { e.record("task1") }))

	errCh, cancel := startHost(context.Background(), h)
	require.NoError(t, fc.BlockUntilContext(context.Background(), 1))
	tick(t, fc, 10*time.Millisecond, e.runs.Load, 1)

	require.NoError(t, h.Submit("a", func() { e.record("task2") }))
	tick(t, fc, 10*time.Millisecond, e.runs.Load, 2)

	cancel()
	require.NoError(t, waitResult(t, errCh))
	assert.Equal(t, []string{"task1", "run", "task2", "run"}, e.snapshot())

	assert.ErrorIs(t, h.Submit("a", func() {}), ErrHostStopped)
}

func TestSubmit_Errors(t *testing.T) {
	h := newTestHost(clockwork.NewFakeClock())
	_, _ = h.Attach(&fakeEngine{name: "a"}, time.Millisecond)

	assert.ErrorIs(t, h.Submit("a", nil), ErrNilFunc)
	assert.ErrorIs(t, h.Submit("missing", func() {}), ErrUnknownEngine)
}

func TestSubmit_Panic(t *testing.T) {
	fc := clockwork.NewFakeClock()
	h := newTestHost(fc)
	_, _ = h.Attach(&fakeEngine{name: "a"}, 10*time.Millisecond)
	require.NoError(t, h.Submit("a", func() { panic("bad task") }))

	errCh, cancel := startHost(context.Background(), h)
	defer cancel()
	require.NoError(t, fc.BlockUntilContext(context.Background(), 1))
	fc.Advance(10 * time.Millisecond)

	assert.ErrorIs(t, waitResult(t, errCh), ErrCallbackPanic)
}

func TestSubmit_FlushedOnStop(t *testing.T) {
	fc := clockwork.NewFakeClock()
	h := newTestHost(fc)
	e := &fakeEngine{name: "a"}
	_, _ = h.Attach(e, 10*time.Millisecond)

	errCh, cancel := startHost(context.Background(), h)
	require.NoError(t, fc.BlockUntilContext(context.Background(), 1))
	tick(t, fc, 10*time.Millisecond, e.runs.Load, 1)

	// 提交后不再推进时钟，函数只能在停止时执行
	require.NoError(t, h.Submit("a", func() { e.record("late") }))
	cancel()
	require.NoError(t, waitResult(t, errCh))

	assert.Equal(t, []string{"run", "late"}, e.snapshot())
	assert.ErrorIs(t, h.Submit("a", func() {}), ErrHostStopped)
}

func TestSubmit_FlushPanic(t *testing.T) {
	fc := clockwork.NewFakeClock()
	h := newTestHost(fc)
	e := &fakeEngine{name: "a"}
	_, _ = h.Attach(e, 10*time.Millisecond)

	errCh, cancel := startHost(context.Background(), h)
	require.NoError(t, fc.BlockUntilContext(context.Background(), 1))
	require.NoError(t, h.Submit("a", func() { panic("late task") }))
	cancel()

	assert.ErrorIs(t, waitResult(t, errCh), ErrCallbackPanic)
	assert.Zero(t, e.runs.Load())
}

func TestSubmit_DiscardedOnPanic(t *testing.T) {
	var buf syncBuffer
	fc := clockwork.NewFakeClock()
	h := newTestHost(fc, WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))
	e := &fakeEngine{name: "a"}
	_, _ = h.Attach(e, 10*time.Millisecond)

	// 第一个函数排入第二个后 panic，第二个留在队列中
	require.NoError(t, h.Submit("a", func() {
		_ = h.Submit("a", func() { e.record("never") })
		panic("bad task")
	}))

	errCh, cancel := startHost(context.Background(), h)
	defer cancel()
	require.NoError(t, fc.BlockUntilContext(context.Background(), 1))
	fc.Advance(10 * time.Millisecond)

	assert.ErrorIs(t, waitResult(t, errCh), ErrCallbackPanic)
	assert.Empty(t, e.snapshot())
	assert.Contains(t, buf.String(), "submitted tasks discarded")
	assert.Contains(t, buf.String(), "count=1")
}

// syncBuffer 可并发写入的缓冲区。
type syncBuffer struct {
	mu  sync.Mutex
	buf strings.Builder
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// =============================================================================
// 与 xevents 集成
// =============================================================================

func TestHost_DrivesXevents(t *testing.T) {
	fc := clockwork.NewFakeClock()
	loop := xevents.New(1, 0, xevents.WithClockwork(fc), xevents.WithName("board"))
	var runs atomic.Int64
	id, err := loop.AddSchedule(xhook.ActionFunc(func() { runs.Add(1) }), 20*time.Millisecond)
	require.NoError(t, err)

	h := newTestHost(fc)
	name, err := h.Attach(loop, 10*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, "board", name)

	errCh, cancel := startHost(context.Background(), h)
	require.NoError(t, fc.BlockUntilContext(context.Background(), 1))

	ticks := func() int64 { return int64(loop.Stats().Ticks()) }
	for i := int64(1); i <= 10; i++ {
		tick(t, fc, 10*time.Millisecond, ticks, i)
	}
	require.Eventually(t, func() bool { return runs.Load() == 5 }, 5*time.Second, time.Millisecond)

	// 通过 Submit 在引擎 goroutine 中暂停
	require.NoError(t, h.Submit(name, func() { loop.PauseSchedule(id) }))
	for i := int64(11); i <= 14; i++ {
		tick(t, fc, 10*time.Millisecond, ticks, i)
	}

	cancel()
	require.NoError(t, waitResult(t, errCh))
	assert.Equal(t, int64(5), runs.Load())
}

// =============================================================================
// Poll
// =============================================================================

func TestPoll_Errors(t *testing.T) {
	ctx := context.Background()
	assert.ErrorIs(t, Poll(nil, time.Millisecond, nil)(ctx), ErrNilEngine)
	assert.ErrorIs(t, Poll(&fakeEngine{}, 0, nil)(ctx), ErrInvalidInterval)

	beginErr := errors.New("begin failed")
	assert.ErrorIs(t, Poll(&fakeEngine{beginErr: beginErr}, time.Millisecond, nil)(ctx), beginErr)
}

func TestPoll_RealClock(t *testing.T) {
	e := &fakeEngine{name: "a"}
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- Poll(e, time.Millisecond, nil)(ctx) }()

	require.Eventually(t, func() bool { return e.runs.Load() >= 3 }, 5*time.Second, time.Millisecond)
	cancel()
	assert.NoError(t, waitResult(t, errCh))
}

// =============================================================================
// 错误类型
// =============================================================================

func TestSignalError(t *testing.T) {
	err := &SignalError{Signal: syscall.SIGINT}
	assert.Equal(t, "received signal interrupt", err.Error())
	assert.ErrorIs(t, err, ErrSignal)

	var nilSig SignalError
	assert.Equal(t, "received signal <nil>", nilSig.Error())
}

func TestDefaultSignals_Copy(t *testing.T) {
	s := DefaultSignals()
	s[0] = syscall.SIGUSR2
	assert.Equal(t, syscall.SIGHUP, DefaultSignals()[0])
}
