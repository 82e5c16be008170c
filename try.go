// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cobus

import (
	"code.hybscloud.com/iox"
)

// TrySend enqueues v without suspending. Returns ErrNoChannel on a closed
// or unknown handle, iox.ErrWouldBlock when the channel is at capacity.
// The element is published before the first recv-waiter is woken, so a
// woken receiver observes it.
func (b *Bus) TrySend(h Handle, v uint32) error {
	ch, err := b.lookup(h)
	if err != nil {
		return err
	}
	if ch.full() {
		b.sched.err = iox.ErrWouldBlock
		return iox.ErrWouldBlock
	}
	ch.push(v)
	ch.recvq.wakeupFirst()
	b.sched.err = nil
	return nil
}

// TryRecv dequeues the head element without suspending. Returns
// ErrNoChannel on a closed or unknown handle, iox.ErrWouldBlock when the
// channel is empty. Wakes one send-waiter after the slot is freed.
func (b *Bus) TryRecv(h Handle) (uint32, error) {
	ch, err := b.lookup(h)
	if err != nil {
		return 0, err
	}
	if ch.empty() {
		b.sched.err = iox.ErrWouldBlock
		return 0, iox.ErrWouldBlock
	}
	v := ch.pop()
	ch.sendq.wakeupFirst()
	b.sched.err = nil
	return v, nil
}

// TrySendV transfers a prefix of vals into the channel, up to the free
// capacity, and returns the count. One recv-waiter is woken per element
// transferred. Returns (0, iox.ErrWouldBlock) with the channel untouched
// when it is already full; a nil error with len(vals) > 0 implies at least
// one element was accepted.
func (b *Bus) TrySendV(h Handle, vals []uint32) (int, error) {
	ch, err := b.lookup(h)
	if err != nil {
		return 0, err
	}
	if ch.full() {
		b.sched.err = iox.ErrWouldBlock
		return 0, iox.ErrWouldBlock
	}
	n := 0
	for n < len(vals) && !ch.full() {
		ch.push(vals[n])
		n++
	}
	for i := 0; i < n; i++ {
		ch.recvq.wakeupFirst()
	}
	b.sched.err = nil
	return n, nil
}

// TryRecvV drains up to len(buf) elements into buf and returns the count.
// One send-waiter is woken per element drained. Returns
// (0, iox.ErrWouldBlock) when the channel is empty.
func (b *Bus) TryRecvV(h Handle, buf []uint32) (int, error) {
	ch, err := b.lookup(h)
	if err != nil {
		return 0, err
	}
	if ch.empty() {
		b.sched.err = iox.ErrWouldBlock
		return 0, iox.ErrWouldBlock
	}
	n := 0
	for n < len(buf) && !ch.empty() {
		buf[n] = ch.pop()
		n++
	}
	for i := 0; i < n; i++ {
		ch.sendq.wakeupFirst()
	}
	b.sched.err = nil
	return n, nil
}

// TryBroadcast enqueues v into every open channel, waking one recv-waiter
// per channel, or does nothing at all: if any open channel is full it
// returns iox.ErrWouldBlock with no channel mutated. Returns ErrNoChannel
// when no channel is open.
//
// The pre-check and the mutation pass run without an intervening task
// switch, so the check cannot go stale.
func (b *Bus) TryBroadcast(v uint32) error {
	open := 0
	for _, ch := range b.chans {
		if ch != nil {
			open++
		}
	}
	if open == 0 {
		b.sched.err = ErrNoChannel
		return ErrNoChannel
	}
	for _, ch := range b.chans {
		if ch != nil && ch.full() {
			b.sched.err = iox.ErrWouldBlock
			return iox.ErrWouldBlock
		}
	}
	for _, ch := range b.chans {
		if ch == nil {
			continue
		}
		ch.push(v)
		ch.recvq.wakeupFirst()
	}
	b.sched.err = nil
	return nil
}
