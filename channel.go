// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cobus

// channel is one bounded FIFO slot of the bus: a ring buffer of fixed-width
// words plus a waiter queue for blocked senders and one for blocked
// receivers.
//
// head and count disambiguate empty from full without a sentinel slot.
// Logical element i is stored at ring[(head+i)%capacity]. All mutations
// complete between adjacent suspension points, so invariants hold whenever
// a task can observe the channel.
type channel struct {
	capacity int
	ring     []uint32
	count    int
	head     int
	sendq    waitq
	recvq    waitq
}

func newChannel(capacity int) *channel {
	return &channel{
		capacity: capacity,
		ring:     make([]uint32, capacity),
	}
}

func (c *channel) full() bool {
	return c.count == c.capacity
}

func (c *channel) empty() bool {
	return c.count == 0
}

// push appends v at the logical tail. Caller checks full().
func (c *channel) push(v uint32) {
	c.ring[(c.head+c.count)%c.capacity] = v
	c.count++
}

// pop removes and returns the head element. Caller checks empty().
func (c *channel) pop() uint32 {
	v := c.ring[c.head]
	c.head = (c.head + 1) % c.capacity
	c.count--
	return v
}
