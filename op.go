// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cobus

import (
	"errors"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// Scheduler control signals returned by dispatchBus alongside
// iox.ErrWouldBlock (task parked on a waiter queue).
var (
	// errYield: requeue at the run-queue tail; deliver the resume value
	// on the task's next turn.
	errYield = errors.New("cobus: resume next turn")
	// errAgain: requeue at the tail without resuming; re-dispatch later.
	errAgain = errors.New("cobus: redispatch next turn")
)

// busDispatcher is the structural interface for bus effect operations.
// dispatchBus performs one cooperative attempt. A nil error resumes the
// task with the value and keeps it running; iox.ErrWouldBlock means the
// operation parked the current task's waiter and the suspension stays
// pending — it is re-dispatched after a wakeup, which is the retry loop of
// the blocking operations.
type busDispatcher interface {
	dispatchBus(s *Sched) (kont.Resumed, error)
}

// Resume payloads. Boxed structs rather than bare error values: the kont
// unwind casts the resumed value to the operation's phantom type, which a
// nil interface cannot satisfy.
type sendResult struct {
	err error
}

type recvResult struct {
	value uint32
	err   error
}

type vecResult struct {
	n   int
	err error
}

type recvVResult struct {
	vals []uint32
	err  error
}

// sendOp blocks until one element is accepted or the channel is gone.
type sendOp struct {
	kont.Phantom[sendResult]
	bus   *Bus
	ch    Handle
	value uint32
}

func (op sendOp) dispatchBus(s *Sched) (kont.Resumed, error) {
	switch err := op.bus.TrySend(op.ch, op.value); err {
	case nil:
		return sendResult{}, nil
	case ErrNoChannel:
		return sendResult{err: ErrNoChannel}, nil
	default:
		// WouldBlock implies the slot is still open within this dispatch.
		op.bus.chans[op.ch].sendq.park(s.current)
		return nil, iox.ErrWouldBlock
	}
}

// recvOp blocks until one element is available or the channel is gone.
type recvOp struct {
	kont.Phantom[recvResult]
	bus *Bus
	ch  Handle
}

func (op recvOp) dispatchBus(s *Sched) (kont.Resumed, error) {
	v, err := op.bus.TryRecv(op.ch)
	switch err {
	case nil:
		return recvResult{value: v}, nil
	case ErrNoChannel:
		return recvResult{err: ErrNoChannel}, nil
	default:
		op.bus.chans[op.ch].recvq.park(s.current)
		return nil, iox.ErrWouldBlock
	}
}

// sendVOp blocks until at least one element of the batch is accepted.
// Partial progress resumes immediately; the caller reissues the remainder.
type sendVOp struct {
	kont.Phantom[vecResult]
	bus  *Bus
	ch   Handle
	vals []uint32
}

func (op sendVOp) dispatchBus(s *Sched) (kont.Resumed, error) {
	n, err := op.bus.TrySendV(op.ch, op.vals)
	switch err {
	case nil:
		return vecResult{n: n}, nil
	case ErrNoChannel:
		return vecResult{err: ErrNoChannel}, nil
	default:
		op.bus.chans[op.ch].sendq.park(s.current)
		return nil, iox.ErrWouldBlock
	}
}

// recvVOp blocks until at least one element is drained into buf.
type recvVOp struct {
	kont.Phantom[recvVResult]
	bus *Bus
	ch  Handle
	buf []uint32
}

func (op recvVOp) dispatchBus(s *Sched) (kont.Resumed, error) {
	n, err := op.bus.TryRecvV(op.ch, op.buf)
	switch err {
	case nil:
		return recvVResult{vals: op.buf[:n]}, nil
	case ErrNoChannel:
		return recvVResult{err: ErrNoChannel}, nil
	default:
		op.bus.chans[op.ch].recvq.park(s.current)
		return nil, iox.ErrWouldBlock
	}
}

// broadcastOp blocks until every open channel accepts the element. On
// backpressure it parks on the send queue of the first full open channel
// and retries the all-or-nothing attempt after being woken.
type broadcastOp struct {
	kont.Phantom[sendResult]
	bus   *Bus
	value uint32
}

func (op broadcastOp) dispatchBus(s *Sched) (kont.Resumed, error) {
	switch err := op.bus.TryBroadcast(op.value); err {
	case nil:
		return sendResult{}, nil
	case ErrNoChannel:
		return sendResult{err: ErrNoChannel}, nil
	default:
		// WouldBlock implies some open channel is full within this dispatch.
		op.bus.firstFull().sendq.park(s.current)
		return nil, iox.ErrWouldBlock
	}
}

// closeState carries the detached channel across the closer's yields.
type closeState struct {
	begun bool
	ch    *channel
}

// closeOp tombstones the slot, wakes every waiter on both queues in FIFO
// order, then yields until the woken tasks have run, observed the
// tombstone, and drained off the queues. Only then is the ring released.
// Closing an unknown or already-closed handle resumes silently.
type closeOp struct {
	kont.Phantom[struct{}]
	bus *Bus
	ch  Handle
	st  *closeState
}

func (op closeOp) dispatchBus(s *Sched) (kont.Resumed, error) {
	st := op.st
	if !st.begun {
		st.begun = true
		ch := op.bus.detach(op.ch)
		if ch == nil {
			return struct{}{}, nil
		}
		st.ch = ch
		for !ch.sendq.empty() {
			ch.sendq.wakeupFirst()
		}
		for !ch.recvq.empty() {
			ch.recvq.wakeupFirst()
		}
		return nil, errAgain
	}
	if !st.ch.sendq.empty() || !st.ch.recvq.empty() {
		return nil, errAgain
	}
	st.ch.ring = nil
	return struct{}{}, nil
}

// yieldOp hands control to the scheduler; the task resumes in a future
// turn, after at least one scheduler pass.
type yieldOp struct {
	kont.Phantom[struct{}]
}

func (yieldOp) dispatchBus(*Sched) (kont.Resumed, error) {
	return struct{}{}, errYield
}
