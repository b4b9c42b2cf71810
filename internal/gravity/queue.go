package gravity

import "gonum.org/v1/gonum/spatial/r2"

// StrokeQueue is a fixed-capacity ring of live strokes. Pushing onto a full
// queue evicts the oldest stroke.
type StrokeQueue struct {
	buf       []*Stroke
	head      int
	n         int
	nextID    int
	committed int
}

func NewStrokeQueue(capacity int) *StrokeQueue {
	if capacity < 1 {
		capacity = 1
	}
	return &StrokeQueue{buf: make([]*Stroke, capacity)}
}

func (q *StrokeQueue) Len() int       { return q.n }
func (q *StrokeQueue) Cap() int       { return len(q.buf) }
func (q *StrokeQueue) Committed() int { return q.committed }

// Commit builds a stroke from raw samples and enqueues it.
func (q *StrokeQueue) Commit(points []r2.Vec, t float64) (*Stroke, error) {
	s, err := NewStroke(points, t)
	if err != nil {
		return nil, err
	}
	q.Push(s)
	return s, nil
}

// Push assigns the next id and enqueues s, returning the evicted stroke if
// the queue was full.
func (q *StrokeQueue) Push(s *Stroke) *Stroke {
	q.nextID++
	s.ID = q.nextID
	q.committed++

	var evicted *Stroke
	if q.n == len(q.buf) {
		evicted = q.buf[q.head]
		q.buf[q.head] = nil
		q.head = (q.head + 1) % len(q.buf)
		q.n--
	}
	q.buf[(q.head+q.n)%len(q.buf)] = s
	q.n++
	return evicted
}

// Update ages every stroke and drops those that reached their lifetime,
// keeping the survivors in commit order.
func (q *StrokeQueue) Update(dt float64) {
	kept := 0
	for i := 0; i < q.n; i++ {
		idx := (q.head + i) % len(q.buf)
		s := q.buf[idx]
		q.buf[idx] = nil
		s.Lifetime += dt
		if s.Expired() {
			continue
		}
		q.buf[(q.head+kept)%len(q.buf)] = s
		kept++
	}
	q.n = kept
}

// Active returns the live strokes, oldest first.
func (q *StrokeQueue) Active() []*Stroke {
	out := make([]*Stroke, 0, q.n)
	for i := 0; i < q.n; i++ {
		out = append(out, q.buf[(q.head+i)%len(q.buf)])
	}
	return out
}

func (q *StrokeQueue) Clear() {
	for i := range q.buf {
		q.buf[i] = nil
	}
	q.head = 0
	q.n = 0
	q.committed = 0
}
