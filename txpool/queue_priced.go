package txpool

import (
	"container/heap"

	"github.com/0xPolygon/polygon-devpool/types"
)

// lane is one sender's run of records, consumed in nonce order
type lane struct {
	records []*record
}

func (l *lane) head() *record {
	return l.records[0]
}

type pricedQueue struct {
	queue *maxPriceQueue
}

// newPricedQueue creates the priced queue over the given sender lanes.
// Empty lanes are skipped.
func newPricedQueue(lanes [][]*record) *pricedQueue {
	q := &pricedQueue{
		queue: &maxPriceQueue{},
	}

	for _, records := range lanes {
		if len(records) > 0 {
			q.queue.lanes = append(q.queue.lanes, &lane{records: records})
		}
	}

	heap.Init(q.queue)

	return q
}

// pop removes the best head record across all lanes,
// or returns nil if the queue is empty.
// The lane it came from moves on to its next nonce.
func (q *pricedQueue) pop() *record {
	if q.length() == 0 {
		return nil
	}

	l := q.queue.lanes[0]
	r := l.head()

	if l.records = l.records[1:]; len(l.records) == 0 {
		heap.Pop(q.queue)
	} else {
		heap.Fix(q.queue, 0)
	}

	return r
}

// length returns the number of lanes with records left
func (q *pricedQueue) length() int {
	return q.queue.Len()
}

// drain pops every record and returns copies of their transactions
func (q *pricedQueue) drain() []*types.Transaction {
	var txs []*types.Transaction

	for r := q.pop(); r != nil; r = q.pop() {
		txs = append(txs, r.tx.Copy())
	}

	return txs
}

// lanes sorted by the gas price of their head (descending)
type maxPriceQueue struct {
	lanes []*lane
}

/* Queue methods required by the heap interface */

func (q *maxPriceQueue) Len() int {
	return len(q.lanes)
}

func (q *maxPriceQueue) Swap(i, j int) {
	q.lanes[i], q.lanes[j] = q.lanes[j], q.lanes[i]
}

func (q *maxPriceQueue) Push(x interface{}) {
	l, ok := x.(*lane)
	if !ok {
		return
	}

	q.lanes = append(q.lanes, l)
}

func (q *maxPriceQueue) Pop() interface{} {
	old := q.lanes
	n := len(old)
	x := old[n-1]
	q.lanes = old[0 : n-1]

	return x
}

// equal prices fall back to the earliest arrival
func (q *maxPriceQueue) Less(i, j int) bool {
	a, b := q.lanes[i].head(), q.lanes[j].head()

	switch a.tx.GetGasPrice().Cmp(b.tx.GetGasPrice()) {
	case -1:
		return false
	case 1:
		return true
	default:
		return a.arrival < b.arrival
	}
}
