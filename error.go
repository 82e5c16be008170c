// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cobus

import (
	"errors"
)

// Error values reported by bus operations. The retriable capacity boundary
// is [code.hybscloud.com/iox.ErrWouldBlock], shared with the rest of the
// stack; test with iox.IsWouldBlock.
var (
	// ErrNoChannel reports an operation on a closed or never-opened handle.
	// Fatal for the call: blocking operations surface it without retrying.
	ErrNoChannel = errors.New("cobus: no such channel")

	// ErrCapacity reports Open with a capacity below one.
	ErrCapacity = errors.New("cobus: channel capacity must be at least 1")

	// ErrDeadlock reports a Run that stalled: the run queue drained while
	// live tasks remain parked on waiter queues. The parked tasks are left
	// intact; a later Wakeup plus Run may resume them.
	ErrDeadlock = errors.New("cobus: all tasks suspended")
)

// Err returns the outcome register of the most recent fallible bus
// operation on this scheduler: nil after a success, ErrNoChannel or
// iox.ErrWouldBlock after a failure. The register is not cleared between
// operations.
//
// The register is per-scheduler. Operations performed by a woken task
// overwrite it, but a successful caller's nil write happens before any
// other task runs, so reading immediately after a call is reliable.
func (s *Sched) Err() error {
	return s.err
}

// SetErr overwrites the outcome register.
func (s *Sched) SetErr(err error) {
	s.err = err
}
