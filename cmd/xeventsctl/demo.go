package main

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/omeyang/xevents/pkg/config/xconf"
	"github.com/omeyang/xevents/pkg/lifecycle/xhost"
	"github.com/omeyang/xevents/pkg/observability/xmetrics"
	"github.com/omeyang/xevents/pkg/schedule/xclock"
	"github.com/omeyang/xevents/pkg/schedule/xevents"
	"github.com/omeyang/xevents/pkg/schedule/xhook"
	"github.com/omeyang/xevents/pkg/schedule/xtinyevents"
)

// 演示板时序（毫秒）。
const (
	blinkInterval = 500  // LED 翻转周期
	buttonOffset  = 1000 // 第一次按下的时刻
	buttonPeriod  = 2000 // 按下的周期
	buttonHold    = 100  // 每次按住的时长
	debounce      = 300  // 按键防抖窗口
	buzzerDelay   = 250  // 按下到鸣响的延迟
)

// engine 是两种引擎变体的公共方法集。
type engine interface {
	xhost.Engine
	Now() uint64
	Stats() *xhook.Stats
	Snapshot() xhook.Snapshot
}

// board 演示板：一个 LED、一个周期性按下的按键和一个蜂鸣器。
// 所有方法只在引擎 goroutine 中调用。
type board struct {
	out     io.Writer
	now     func() uint64
	led     bool
	presses int
	buzzes  int
}

func (b *board) emit(format string, args ...any) {
	fmt.Fprintf(b.out, "t=%d %s\n", b.now(), fmt.Sprintf(format, args...))
}

func (b *board) blink() {
	b.led = !b.led
	if b.led {
		b.emit("led on")
	} else {
		b.emit("led off")
	}
}

func (b *board) buttonDown() bool {
	t := b.now()
	return t >= buttonOffset && (t-buttonOffset)%buttonPeriod < buttonHold
}

func (b *board) press() {
	b.presses++
	b.emit("button pressed #%d", b.presses)
}

func (b *board) buzzerDue() bool {
	return b.buzzes < b.presses
}

func (b *board) buzz() {
	b.buzzes++
	b.emit("buzzer #%d", b.buzzes)
}

// engineParams 构建引擎所需的外部依赖。
type engineParams struct {
	settings *xconf.Settings
	logger   *slog.Logger
	observer xmetrics.Observer
	clock    xclock.Clock
}

// newBoard 按配置的变体创建引擎并装配演示板。
func newBoard(p engineParams, out io.Writer) (engine, error) {
	b := &board{out: out}
	if p.settings.Engine.Variant == xconf.VariantCompact {
		return newCompactBoard(p, b)
	}
	return newFullBoard(p, b)
}

func newFullBoard(p engineParams, b *board) (engine, error) {
	s := p.settings.Engine
	l := xevents.New(s.Schedules, s.Reactions,
		xevents.WithName(s.Name),
		xevents.WithLogger(p.logger),
		xevents.WithObserver(p.observer),
		xevents.WithClock(p.clock),
	)
	b.now = l.Now

	if _, err := l.AddSchedule(xhook.ActionFunc(b.blink), blinkInterval*time.Millisecond); err != nil {
		return nil, fmt.Errorf("add led schedule: %w", err)
	}
	if _, err := l.AddReaction(xhook.PredicateFunc(b.buttonDown), xhook.ActionFunc(b.press),
		debounce*time.Millisecond, 0); err != nil {
		return nil, fmt.Errorf("add button reaction: %w", err)
	}
	if _, err := l.AddReaction(xhook.PredicateFunc(b.buzzerDue), xhook.ActionFunc(b.buzz),
		buzzerDelay*time.Millisecond, buzzerDelay*time.Millisecond); err != nil {
		return nil, fmt.Errorf("add buzzer reaction: %w", err)
	}
	return l, nil
}

// newCompactBoard 按配置的位宽选择紧凑版引擎的类型参数。
func newCompactBoard(p engineParams, b *board) (engine, error) {
	switch p.settings.Engine.Widths.Interval {
	case 8:
		return compactWithWait[uint8](p, b)
	case 16:
		return compactWithWait[uint16](p, b)
	case 32:
		return compactWithWait[uint32](p, b)
	default:
		return compactWithWait[uint64](p, b)
	}
}

func compactWithWait[D xtinyevents.Width](p engineParams, b *board) (engine, error) {
	switch p.settings.Engine.Widths.Wait {
	case 8:
		return buildCompactBoard[D, uint8](p, b)
	case 16:
		return buildCompactBoard[D, uint16](p, b)
	case 32:
		return buildCompactBoard[D, uint32](p, b)
	default:
		return buildCompactBoard[D, uint64](p, b)
	}
}

func buildCompactBoard[D, W xtinyevents.Width](p engineParams, b *board) (engine, error) {
	s := p.settings.Engine
	l := xtinyevents.New[D, W](s.Schedules, s.Reactions,
		xtinyevents.WithName(s.Name),
		xtinyevents.WithLogger(p.logger),
		xtinyevents.WithObserver(p.observer),
		xtinyevents.WithClock(p.clock),
	)
	b.now = l.Now

	// 超出位宽的时长取该位宽的最大值。
	widths := s.Widths
	interval := D(min(blinkInterval, widths.MaxInterval()))
	wait := func(ms uint64) W { return W(min(ms, widths.MaxWait())) }
	if _, err := l.AddSchedule(xhook.ActionFunc(b.blink), interval); err != nil {
		return nil, fmt.Errorf("add led schedule: %w", err)
	}
	if _, err := l.AddReaction(xhook.PredicateFunc(b.buttonDown), xhook.ActionFunc(b.press),
		wait(debounce), 0); err != nil {
		return nil, fmt.Errorf("add button reaction: %w", err)
	}
	if _, err := l.AddReaction(xhook.PredicateFunc(b.buzzerDue), xhook.ActionFunc(b.buzz),
		wait(buzzerDelay), wait(buzzerDelay)); err != nil {
		return nil, fmt.Errorf("add buzzer reaction: %w", err)
	}
	return l, nil
}
