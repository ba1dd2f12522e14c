package scheduler

// queue is a growable ring buffer. Sweeps only touch the front; judgement
// may take an element out of the middle.
type queue[T any] struct {
	buf  []T
	head int
	n    int
}

func (q *queue[T]) Len() int {
	return q.n
}

func (q *queue[T]) index(i int) int {
	return (q.head + i) % len(q.buf)
}

func (q *queue[T]) grow() {
	size := len(q.buf) * 2
	if size == 0 {
		size = 8
	}
	buf := make([]T, size)
	for i := 0; i < q.n; i++ {
		buf[i] = q.buf[q.index(i)]
	}
	q.buf = buf
	q.head = 0
}

func (q *queue[T]) Push(v T) {
	if q.n == len(q.buf) {
		q.grow()
	}
	q.buf[q.index(q.n)] = v
	q.n++
}

// Insert keeps the queue sorted by less, placing v after any equal elements.
func (q *queue[T]) Insert(v T, less func(a, b T) bool) {
	q.Push(v)
	for i := q.n - 1; i > 0; i-- {
		prev := q.index(i - 1)
		if !less(v, q.buf[prev]) {
			break
		}
		q.buf[q.index(i)] = q.buf[prev]
		q.buf[prev] = v
	}
}

func (q *queue[T]) Front() T {
	return q.buf[q.head]
}

func (q *queue[T]) At(i int) T {
	return q.buf[q.index(i)]
}

func (q *queue[T]) Pop() T {
	return q.RemoveAt(0)
}

func (q *queue[T]) RemoveAt(i int) T {
	var zero T
	v := q.buf[q.index(i)]
	if i == 0 {
		q.buf[q.head] = zero
		q.head = (q.head + 1) % len(q.buf)
		q.n--
		return v
	}
	for j := i; j < q.n-1; j++ {
		q.buf[q.index(j)] = q.buf[q.index(j+1)]
	}
	q.buf[q.index(q.n-1)] = zero
	q.n--
	return v
}
