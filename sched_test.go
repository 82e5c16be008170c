// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cobus_test

import (
	"errors"
	"testing"

	"code.hybscloud.com/cobus"
	"code.hybscloud.com/kont"
)

func TestYieldInterleavesTasks(t *testing.T) {
	s := cobus.NewSched()

	var order []int
	task := func(first, second int) kont.Eff[struct{}] {
		return cobus.Loop(0, func(i int) kont.Eff[kont.Either[int, struct{}]] {
			switch i {
			case 0:
				return cobus.YieldThen(kont.Pure(kont.Left[int, struct{}](1)))
			case 1:
				order = append(order, first)
				return cobus.YieldThen(kont.Pure(kont.Left[int, struct{}](2)))
			default:
				order = append(order, second)
				return kont.Pure(kont.Right[int, struct{}](struct{}{}))
			}
		})
	}
	cobus.Spawn(s, task(1, 3))
	cobus.Spawn(s, task(2, 4))

	if err := s.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []int{1, 2, 3, 4}
	if len(order) != len(want) {
		t.Fatalf("ran %d marks, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("mark %d got %d, want %d", i, order[i], want[i])
		}
	}
}

func TestRunReportsDeadlock(t *testing.T) {
	s := cobus.NewSched()
	b := cobus.NewBus(s)
	ch, _ := b.Open(1)

	rx := cobus.Spawn(s, cobus.RecvBind(b, ch, func(v uint32, err error) kont.Eff[uint32] {
		return kont.Pure(v)
	}))

	if err := s.Run(); !errors.Is(err, cobus.ErrDeadlock) {
		t.Fatalf("Run got %v, want ErrDeadlock", err)
	}
	if rx.Done() {
		t.Fatal("parked task reported done")
	}

	// The parked task survives the stalled Run and resumes on new input.
	if err := b.TrySend(ch, 3); err != nil {
		t.Fatalf("TrySend: %v", err)
	}
	if err := s.Run(); err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if got := rx.Result().(uint32); got != 3 {
		t.Fatalf("got %d, want 3", got)
	}
}

func TestWakeupCoalesces(t *testing.T) {
	s := cobus.NewSched()
	b := cobus.NewBus(s)
	ch, _ := b.Open(1)

	runs := 0
	rx := cobus.Spawn(s, cobus.RecvBind(b, ch, func(v uint32, err error) kont.Eff[uint32] {
		runs++
		return kont.Pure(v)
	}))
	s.Run()

	// Multiple wakeups before the task runs coalesce into one turn.
	s.Wakeup(rx)
	s.Wakeup(rx)
	s.Wakeup(rx)
	if err := b.TrySend(ch, 9); err != nil {
		t.Fatalf("TrySend: %v", err)
	}
	if err := s.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if runs != 1 {
		t.Fatalf("receive body ran %d times, want 1", runs)
	}
	if got := rx.Result().(uint32); got != 9 {
		t.Fatalf("got %d, want 9", got)
	}
}

func TestExternalWakeupUnlinksWaiter(t *testing.T) {
	// A task woken outside the waiter-queue protocol unlinks its own
	// record, re-parks at the tail, and keeps working correctly.
	s := cobus.NewSched()
	b := cobus.NewBus(s)
	ch, _ := b.Open(1)

	rx := cobus.Spawn(s, cobus.RecvBind(b, ch, func(v uint32, err error) kont.Eff[uint32] {
		return kont.Pure(v)
	}))
	s.Run()

	s.Wakeup(rx)
	if err := s.Run(); !errors.Is(err, cobus.ErrDeadlock) {
		t.Fatalf("Run after spurious wakeup got %v, want ErrDeadlock", err)
	}

	if err := b.TrySend(ch, 4); err != nil {
		t.Fatalf("TrySend: %v", err)
	}
	if err := s.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := rx.Result().(uint32); got != 4 {
		t.Fatalf("got %d, want 4", got)
	}
}

func TestSerialsIncrease(t *testing.T) {
	s := cobus.NewSched()
	t1 := cobus.Spawn(s, kont.Pure(1))
	t2 := cobus.Spawn(s, kont.Pure(2))
	if t2.Serial() <= t1.Serial() {
		t.Fatalf("serials got (%d, %d), want increasing", t1.Serial(), t2.Serial())
	}
	if err := s.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !t1.Done() || !t2.Done() {
		t.Fatal("pure tasks should complete")
	}
	if t1.Result().(int) != 1 || t2.Result().(int) != 2 {
		t.Fatalf("results got (%v, %v), want (1, 2)", t1.Result(), t2.Result())
	}
}

func TestDispatchUnhandledPanics(t *testing.T) {
	type bogus struct{ kont.Phantom[int] }

	s := cobus.NewSched()
	cobus.Spawn(s, kont.Perform(bogus{}))

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic for unhandled effect")
		}
		msg, ok := r.(string)
		if !ok || msg != "cobus: unhandled effect in Sched" {
			t.Fatalf("unexpected panic: %v", r)
		}
	}()
	s.Run()
}

func TestLoopProducerConsumer(t *testing.T) {
	s := cobus.NewSched()
	b := cobus.NewBus(s)
	ch, _ := b.Open(2)

	const total = 16
	cobus.Spawn(s, cobus.Loop(uint32(0), func(i uint32) kont.Eff[kont.Either[uint32, struct{}]] {
		if i == total {
			return kont.Pure(kont.Right[uint32, struct{}](struct{}{}))
		}
		return cobus.SendThen(b, ch, i, kont.Pure(kont.Left[uint32, struct{}](i+1)))
	}))
	rx := cobus.Spawn(s, cobus.Loop(uint32(0), func(sum uint32) kont.Eff[kont.Either[uint32, uint32]] {
		return cobus.RecvBind(b, ch, func(v uint32, err error) kont.Eff[kont.Either[uint32, uint32]] {
			if v == total-1 {
				return kont.Pure(kont.Right[uint32, uint32](sum + v))
			}
			return kont.Pure(kont.Left[uint32, uint32](sum + v))
		})
	}))

	if err := s.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := rx.Result().(uint32); got != total*(total-1)/2 {
		t.Fatalf("sum got %d, want %d", got, total*(total-1)/2)
	}
}
