package xevents_test

import (
	"fmt"
	"time"

	"github.com/omeyang/xevents/pkg/schedule/xclock"
	"github.com/omeyang/xevents/pkg/schedule/xevents"
	"github.com/omeyang/xevents/pkg/schedule/xhook"
)

func Example() {
	var now uint64
	loop := xevents.New(1, 1, xevents.WithClock(xclock.Func(func() uint64 { return now })))

	_, _ = loop.AddSchedule(xhook.ActionFunc(func() {
		fmt.Println("blink at", now)
	}), 100*time.Millisecond)

	_, _ = loop.AddReaction(
		xhook.PredicateFunc(func() bool { return now == 150 }),
		xhook.ActionFunc(func() { fmt.Println("beep at", now) }),
		time.Second,
		20*time.Millisecond,
	)

	_ = loop.Begin()
	for now = 10; now <= 250; now += 10 {
		loop.Run()
	}
	// Output:
	// blink at 10
	// blink at 110
	// beep at 180
	// blink at 210
}

func ExampleLoop_StopReaction() {
	var now uint64
	loop := xevents.New(0, 1, xevents.WithClock(xclock.Func(func() uint64 { return now })))

	id, _ := loop.AddReaction(
		xhook.PredicateFunc(func() bool { return true }),
		xhook.ActionFunc(func() { fmt.Println("ran") }),
		time.Second,
		100*time.Millisecond,
	)
	_ = loop.Begin()

	now = 10
	loop.Run()
	loop.StopReaction(id)

	snap := loop.Snapshot().Reactions[0]
	fmt.Println("pending:", snap.Pending, "next check:", snap.NextCheck)
	// Output:
	// pending: false next check: 1010
}

func ExampleLoop_ResumeSchedule() {
	var now uint64
	loop := xevents.New(1, 0, xevents.WithClock(xclock.Func(func() uint64 { return now })))
	id, _ := loop.AddSchedule(xhook.ActionFunc(func() {}), time.Second)
	_ = loop.Begin()

	now = 500
	loop.PauseSchedule(id)
	loop.ResumeSchedule(id, xhook.After(250*time.Millisecond))
	fmt.Println(loop.Snapshot().Schedules[0].NextFire)

	loop.ResumeSchedule(id, xhook.At(2000))
	fmt.Println(loop.Snapshot().Schedules[0].NextFire)
	// Output:
	// 750
	// 2000
}
