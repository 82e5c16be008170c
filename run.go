// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cobus

import (
	"code.hybscloud.com/kont"
)

// Run steps queued tasks in FIFO order until no task is runnable. Returns
// nil when every spawned task has completed, or ErrDeadlock when live tasks
// remain parked on waiter queues with nothing left to wake them. Parked
// tasks survive the return; a later Wakeup plus Run resumes them.
//
// Run does not spawn goroutines or create channels; all tasks interleave
// on the calling goroutine.
func (s *Sched) Run() error {
	for {
		t := s.popRun()
		if t == nil {
			break
		}
		t.queued = false
		s.step(t)
	}
	if s.live > 0 {
		return ErrDeadlock
	}
	return nil
}

// Exec spawns body as a single task, runs the scheduler, and returns the
// task's result. The error is Run's: ErrDeadlock if any task (including
// this one) remains parked.
func Exec[R any](s *Sched, body kont.Eff[R]) (R, error) {
	t := Spawn(s, body)
	err := s.Run()
	if !t.done {
		var zero R
		return zero, err
	}
	r, _ := t.result.(R)
	return r, err
}
