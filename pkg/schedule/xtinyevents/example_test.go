package xtinyevents_test

import (
	"fmt"

	"github.com/omeyang/xevents/pkg/schedule/xclock"
	"github.com/omeyang/xevents/pkg/schedule/xhook"
	"github.com/omeyang/xevents/pkg/schedule/xtinyevents"
)

func Example() {
	var now uint64
	loop := xtinyevents.New[uint16, uint8](1, 1,
		xtinyevents.WithClock(xclock.Func(func() uint64 { return now })))

	blink, _ := loop.AddSchedule(xhook.ActionFunc(func() {
		fmt.Println("blink at", now)
	}), 100)
	_, _ = loop.AddReaction(
		xhook.PredicateFunc(func() bool { return now == 120 }),
		xhook.ActionFunc(func() {
			fmt.Println("pressed at", now)
			loop.SetNextSchedule(blink, xhook.Never)
		}),
		250, 0,
	)

	_ = loop.Begin()
	for now = 10; now <= 400; now += 10 {
		loop.Run()
	}
	// Output:
	// blink at 10
	// blink at 110
	// pressed at 120
}

func ExampleLoop_CancelReaction() {
	var now uint64
	loop := xtinyevents.New[uint16, uint16](0, 1,
		xtinyevents.WithClock(xclock.Func(func() uint64 { return now })))
	id, _ := loop.AddReaction(
		xhook.PredicateFunc(func() bool { return true }),
		xhook.ActionFunc(func() { fmt.Println("ran") }),
		1000, 200,
	)
	_ = loop.Begin()

	now = 10
	loop.Run()
	loop.CancelReaction(id, false, xhook.Now)
	fmt.Println(loop.Snapshot().Reactions[0].NextCheck)

	loop.CancelReaction(id, true, xhook.AfterMillis(5))
	fmt.Println(loop.Snapshot().Reactions[0].NextCheck)
	// Output:
	// 1010
	// 15
}
