// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cobus

// waiter is one suspended task's reservation on a waiter queue. Each Task
// embeds exactly one waiter: a task is suspended inside at most one
// operation at a time, so the record is reused across suspensions.
//
// A waiter is linked into exactly one queue while its owner is suspended.
// It is unlinked either by the waker, which also sets removedByWaker, or by
// the owner when it resumes without having been woken through the queue.
// The flag keeps the wake path O(1) and lets a closer wake many waiters
// without each waker needing the suspender's cooperation.
type waiter struct {
	task           *Task
	prev, next     *waiter
	q              *waitq
	removedByWaker bool
}

// waitq is a FIFO of tasks blocked on a condition (not-full or not-empty).
// Intrusive doubly-linked list: O(1) append, O(1) unlink.
type waitq struct {
	first, last *waiter
}

func (q *waitq) empty() bool {
	return q.first == nil
}

// park appends the task's waiter record at the tail and marks the task
// suspended. A just-woken task that parks again joins the tail, not the
// head: later arrivals cannot steal its turn, though a single waiter may
// re-queue multiple times under contention.
func (q *waitq) park(t *Task) {
	w := &t.w
	w.q = q
	w.removedByWaker = false
	w.prev = q.last
	w.next = nil
	if q.last != nil {
		q.last.next = w
	} else {
		q.first = w
	}
	q.last = w
}

// remove unlinks w from its queue. Owner-side unlink path: used when a task
// resumes without removedByWaker set (woken directly via Sched.Wakeup).
func (q *waitq) remove(w *waiter) {
	if w.prev != nil {
		w.prev.next = w.next
	} else {
		q.first = w.next
	}
	if w.next != nil {
		w.next.prev = w.prev
	} else {
		q.last = w.prev
	}
	w.prev, w.next = nil, nil
	w.q = nil
}

// wakeupFirst unlinks the head waiter, sets removedByWaker, and marks its
// task runnable. No-op on an empty queue. Does not suspend the caller.
func (q *waitq) wakeupFirst() {
	w := q.first
	if w == nil {
		return
	}
	q.remove(w)
	w.removedByWaker = true
	w.task.sched.Wakeup(w.task)
}
