package http

import (
	"errors"
	"math/bits"
	"runtime"
	"sync/atomic"
)

var (
	ErrFull  = errors.New("ring buffer is full")
	ErrEmpty = errors.New("ring buffer is empty")
)

// connPool hands out connection contexts, each owning its own read and write
// buffers, so a busy server does not allocate per connection.
type connPool struct {
	ctxs  []connCtx
	ready *RingBuffer[*connCtx]
}

func newConnPool(size, readBufferSize int) *connPool {
	pool := &connPool{
		ctxs:  make([]connCtx, size),
		ready: NewRingBuffer[*connCtx](size),
	}
	for i := range pool.ctxs {
		pool.ctxs[i].buf = make([]byte, readBufferSize)
		pool.ready.Enqueue(&pool.ctxs[i])
	}
	return pool
}

func (pool *connPool) acquire() (*connCtx, error) {
	return pool.ready.Dequeue()
}

func (pool *connPool) release(c *connCtx) {
	c.conn = nil
	pool.ready.Enqueue(c)
}

// RingBuffer is a bounded lock-free multi-producer multi-consumer queue.
type RingBuffer[T any] struct {
	buffer []slot[T]
	mask   uint64
	enqPos uint64
	deqPos uint64
}

type slot[T any] struct {
	sequence uint64
	value    T
}

// NewRingBuffer creates a ring buffer holding at least size items. The
// capacity is rounded up to a power of two.
func NewRingBuffer[T any](size int) *RingBuffer[T] {
	if size < 1 {
		size = 1
	}
	capacity := uint64(1) << bits.Len64(uint64(size-1))

	buf := make([]slot[T], capacity)
	for i := range buf {
		buf[i].sequence = uint64(i)
	}
	return &RingBuffer[T]{
		buffer: buf,
		mask:   capacity - 1,
	}
}

// Cap returns the capacity of the ring buffer.
func (q *RingBuffer[T]) Cap() int {
	return len(q.buffer)
}

// Enqueue adds an item to the ring buffer
func (q *RingBuffer[T]) Enqueue(val T) error {
	for {
		pos := atomic.LoadUint64(&q.enqPos)
		slot := &q.buffer[pos&q.mask]

		seq := atomic.LoadUint64(&slot.sequence)
		delta := int64(seq) - int64(pos)

		if delta == 0 {
			if atomic.CompareAndSwapUint64(&q.enqPos, pos, pos+1) {
				slot.value = val
				atomic.StoreUint64(&slot.sequence, pos+1)
				return nil
			}
		} else if delta < 0 {
			return ErrFull
		} else {
			runtime.Gosched()
		}
	}
}

// Dequeue removes and returns the oldest item
func (q *RingBuffer[T]) Dequeue() (T, error) {
	var zero T
	for {
		pos := atomic.LoadUint64(&q.deqPos)
		slot := &q.buffer[pos&q.mask]

		seq := atomic.LoadUint64(&slot.sequence)
		delta := int64(seq) - int64(pos+1)

		if delta == 0 {
			if atomic.CompareAndSwapUint64(&q.deqPos, pos, pos+1) {
				val := slot.value
				slot.value = zero
				atomic.StoreUint64(&slot.sequence, pos+q.mask+1)
				return val, nil
			}
		} else if delta < 0 {
			return zero, ErrEmpty
		} else {
			runtime.Gosched()
		}
	}
}
