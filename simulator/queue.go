package simulator

import (
	"container/heap"
	"time"

	"github.com/lagorce-stick/stick-kernel/types"
)

// delivery is one pending synaptic effect: apply weight to target's channel
// at time. seq breaks ties between two deliveries scheduled for the exact
// same time in the order they were enqueued, giving a FIFO-within-the-
// same-time-bucket guarantee.
type delivery struct {
	time    time.Duration
	seq     uint64
	target  string
	channel types.Channel
	weight  float64
}

// deliveryQueue is a binary min-heap over (time, seq): the delivery
// priority queue.
type deliveryQueue []*delivery

func (q deliveryQueue) Len() int { return len(q) }

func (q deliveryQueue) Less(i, j int) bool {
	if q[i].time != q[j].time {
		return q[i].time < q[j].time
	}
	return q[i].seq < q[j].seq
}

func (q deliveryQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *deliveryQueue) Push(x interface{}) {
	*q = append(*q, x.(*delivery))
}

func (q *deliveryQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}

func newDeliveryQueue() *deliveryQueue {
	q := make(deliveryQueue, 0)
	heap.Init(&q)
	return &q
}

func (q *deliveryQueue) peekTime() (time.Duration, bool) {
	if q.Len() == 0 {
		return 0, false
	}
	return (*q)[0].time, true
}

func (q *deliveryQueue) push(d *delivery) { heap.Push(q, d) }

func (q *deliveryQueue) pop() *delivery { return heap.Pop(q).(*delivery) }
