// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package cobus provides a cooperatively-scheduled in-process message bus
// on [code.hybscloud.com/kont].
//
// Many lightweight tasks are multiplexed over indexed, bounded FIFO
// channels. Blocking semantics are suspend/wakeup on per-channel waiter
// queues driven by a single-threaded scheduler.
//
// # Architecture
//
//   - Tasks: effect computations ([code.hybscloud.com/kont.Eff]) reified and
//     stepped by a [Sched]. At most one task executes at any instant; task
//     switches happen only at suspension points.
//   - Channels: bounded ring buffers keyed by stable integer handles, with
//     one waiter queue for blocked senders and one for blocked receivers.
//   - Non-blocking: [Bus.TrySend], [Bus.TryRecv] and friends return
//     [code.hybscloud.com/iox.ErrWouldBlock] at the capacity boundary.
//   - Blocking: effect operations park the task's suspension on a waiter
//     queue and are re-dispatched after a wakeup.
//
// # API Topologies
//
//   - Table: [Bus.Open], [CloseThen], [Bus.Delete].
//   - Non-blocking: [Bus.TrySend], [Bus.TryRecv], [Bus.TrySendV],
//     [Bus.TryRecvV], [Bus.TryBroadcast].
//   - Blocking: [SendThen], [SendBind], [RecvBind], [SendVBind],
//     [RecvVBind], [BroadcastThen], [BroadcastBind], [YieldThen].
//   - Recursive: [Loop] for iterative task bodies.
//   - Driving: [Sched.Run] drains the run queue; [Exec] runs a single task
//     to completion.
//
// # Ordering
//
// Waiter queues are strict FIFO: among tasks blocked on the same queue, the
// first to suspend is the first to be woken. A just-woken task that must
// suspend again joins the tail. Channel data is FIFO per channel. A sender
// publishes the new element before waking a receiver, so a woken receiver
// observes it.
//
// # Example
//
//	s := cobus.NewSched()
//	b := cobus.NewBus(s)
//	ch, _ := b.Open(1)
//	cobus.Spawn(s, cobus.SendThen(b, ch, 7, kont.Pure(struct{}{})))
//	rx := cobus.Spawn(s, cobus.RecvBind(b, ch, func(v uint32, err error) kont.Eff[uint32] {
//		return kont.Pure(v)
//	}))
//	_ = s.Run()
//	// rx.Result() == uint32(7)
package cobus
