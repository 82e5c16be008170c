// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cobus

import (
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// Task is one cooperative unit of execution: a reified effect computation
// plus its pending suspension. A task runs until it parks on a waiter
// queue, yields, or completes.
type Task struct {
	sched   *Sched
	serial  Serial
	body    kont.Expr[any]
	started bool
	susp    *kont.Suspension[any]
	resume  kont.Resumed
	pending bool
	result  any
	done    bool
	queued  bool
	w       waiter
}

// Serial returns the serial number assigned to this task.
func (t *Task) Serial() Serial {
	return t.serial
}

// Done reports whether the task has run to completion.
func (t *Task) Done() bool {
	return t.done
}

// Result returns the task's final value. Valid once Done reports true.
func (t *Task) Result() any {
	return t.result
}

// Sched is a single-threaded cooperative scheduler: a FIFO run queue of
// tasks stepped one at a time. At most one task executes at any instant;
// switches happen only at suspension points (a blocked bus operation, a
// yield, or close's drain loop). No locks are involved anywhere on the
// scheduling path.
type Sched struct {
	runq    []*Task
	runhead int
	current *Task
	live    int
	err     error
}

// NewSched creates an empty scheduler.
func NewSched() *Sched {
	return &Sched{}
}

// Spawn reifies body into a task and queues it runnable. The task does not
// execute until the scheduler reaches it in Run.
func Spawn[R any](s *Sched, body kont.Eff[R]) *Task {
	wrapped := kont.Map[kont.Resumed, R, any](body, func(r R) any {
		return r
	})
	t := &Task{
		sched:  s,
		serial: nextSerial(),
		body:   kont.Reify(wrapped),
	}
	t.w.task = t
	s.live++
	s.Wakeup(t)
	return t
}

// Current returns the running task, or nil outside of Run.
func (s *Sched) Current() *Task {
	return s.current
}

// Wakeup marks the task runnable and queues it at the run-queue tail.
// Multiple wakeups before the task runs coalesce. Does not suspend the
// caller. Waking a task parked on a waiter queue leaves its waiter record
// linked; the owner unlinks it when the task is next stepped.
func (s *Sched) Wakeup(t *Task) {
	if t == nil || t.done || t.queued {
		return
	}
	t.queued = true
	s.runq = append(s.runq, t)
}

func (s *Sched) popRun() *Task {
	if s.runhead == len(s.runq) {
		s.runq = s.runq[:0]
		s.runhead = 0
		return nil
	}
	t := s.runq[s.runhead]
	s.runq[s.runhead] = nil
	s.runhead++
	return t
}

// step resumes one task and keeps stepping it until it parks, yields, or
// completes. Dispatch outcomes:
//
//	nil: resume with the value, continue the same task.
//	iox.ErrWouldBlock: the op parked the task's waiter; leave suspended.
//	errYield: requeue at the tail; the resume value is held back until
//	the task's next turn, after at least one scheduler pass.
//	errAgain: requeue at the tail without resuming; the same operation
//	is re-dispatched later.
func (s *Sched) step(t *Task) {
	if t.w.q != nil && !t.w.removedByWaker {
		// Woken outside the waiter-queue protocol: owner unlinks.
		t.w.q.remove(&t.w)
	}
	s.current = t
	for {
		if !t.started {
			t.started = true
			t.result, t.susp = kont.StepExpr(t.body)
			t.body = kont.Expr[any]{}
			if t.susp == nil {
				s.finish(t)
				break
			}
			continue
		}
		if t.pending {
			t.pending = false
			v := t.resume
			t.resume = nil
			t.result, t.susp = t.susp.Resume(v)
			if t.susp == nil {
				s.finish(t)
				break
			}
			continue
		}
		d, ok := t.susp.Op().(busDispatcher)
		if !ok {
			panic("cobus: unhandled effect in Sched")
		}
		v, err := d.dispatchBus(s)
		if err == nil {
			t.result, t.susp = t.susp.Resume(v)
			if t.susp == nil {
				s.finish(t)
				break
			}
			continue
		}
		if err == errYield {
			t.resume = v
			t.pending = true
			s.Wakeup(t)
			break
		}
		if err == errAgain {
			s.Wakeup(t)
			break
		}
		if iox.IsWouldBlock(err) {
			break
		}
		panic("cobus: invalid dispatch signal in Sched")
	}
	s.current = nil
}

func (s *Sched) finish(t *Task) {
	t.done = true
	s.live--
}
