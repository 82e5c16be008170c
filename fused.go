// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cobus

import (
	"code.hybscloud.com/kont"
)

// SendThen sends v on ch, blocking while the channel is full, and then
// continues with next. A send that fails with ErrNoChannel also continues
// with next; use SendBind to observe the outcome.
// Fuses Perform(sendOp) + Then.
func SendThen[B any](b *Bus, ch Handle, v uint32, next kont.Eff[B]) kont.Eff[B] {
	return kont.Then(kont.Perform(sendOp{bus: b, ch: ch, value: v}), next)
}

// SendBind sends v on ch, blocking while the channel is full, and passes
// the outcome to f: nil on success, ErrNoChannel if the channel was closed.
// Fuses Perform(sendOp) + Bind.
func SendBind[B any](b *Bus, ch Handle, v uint32, f func(error) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(sendOp{bus: b, ch: ch, value: v}), func(r sendResult) kont.Eff[B] {
		return f(r.err)
	})
}

// RecvBind receives one element from ch, blocking while the channel is
// empty, and passes (value, outcome) to f. On ErrNoChannel the value is 0.
// Fuses Perform(recvOp) + Bind.
func RecvBind[B any](b *Bus, ch Handle, f func(uint32, error) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(recvOp{bus: b, ch: ch}), func(r recvResult) kont.Eff[B] {
		return f(r.value, r.err)
	})
}

// SendVBind sends a batch on ch, blocking until at least one element is
// accepted, and passes (count, outcome) to f. Partial progress is success;
// reissue the remainder from f. An empty batch resumes with (0, nil) once
// the channel is not full; on a full channel it blocks like any batch.
// Fuses Perform(sendVOp) + Bind.
func SendVBind[B any](b *Bus, ch Handle, vals []uint32, f func(int, error) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(sendVOp{bus: b, ch: ch, vals: vals}), func(r vecResult) kont.Eff[B] {
		return f(r.n, r.err)
	})
}

// RecvVBind receives up to max elements from ch, blocking until at least
// one is available, and passes (values, outcome) to f.
// Fuses Perform(recvVOp) + Bind.
func RecvVBind[B any](b *Bus, ch Handle, max int, f func([]uint32, error) kont.Eff[B]) kont.Eff[B] {
	op := recvVOp{bus: b, ch: ch, buf: make([]uint32, max)}
	return kont.Bind(kont.Perform(op), func(r recvVResult) kont.Eff[B] {
		return f(r.vals, r.err)
	})
}

// BroadcastThen sends v to every open channel, blocking until all of them
// have room, and then continues with next.
// Fuses Perform(broadcastOp) + Then.
func BroadcastThen[B any](b *Bus, v uint32, next kont.Eff[B]) kont.Eff[B] {
	return kont.Then(kont.Perform(broadcastOp{bus: b, value: v}), next)
}

// BroadcastBind sends v to every open channel, blocking until all of them
// have room, and passes the outcome to f: nil on success, ErrNoChannel if
// no channel is open.
// Fuses Perform(broadcastOp) + Bind.
func BroadcastBind[B any](b *Bus, v uint32, f func(error) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(broadcastOp{bus: b, value: v}), func(r sendResult) kont.Eff[B] {
		return f(r.err)
	})
}

// CloseThen closes ch and then continues with next. Every parked sender
// and receiver is woken and fails with ErrNoChannel; the closer yields
// until the woken tasks have observed the tombstone. Closing an unknown or
// already-closed handle is a no-op.
// Fuses Perform(closeOp) + Then.
func CloseThen[B any](b *Bus, ch Handle, next kont.Eff[B]) kont.Eff[B] {
	return kont.Then(kont.Perform(closeOp{bus: b, ch: ch, st: &closeState{}}), next)
}

// YieldThen hands control to the scheduler and continues with next in a
// future turn.
// Fuses Perform(yieldOp) + Then.
func YieldThen[B any](next kont.Eff[B]) kont.Eff[B] {
	return kont.Then(kont.Perform(yieldOp{}), next)
}
