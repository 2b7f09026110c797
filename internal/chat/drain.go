package chat

import (
	"runtime"
	"sync"
	"time"

	"github.com/awilkes/kbchat/internal/stream"
)

const (
	// drainBatch bounds how many events are applied per wake-up. The
	// render loop gets one change notification per batch instead of one
	// per event, so a burst of small deltas cannot starve redraws.
	drainBatch = 5
	// drainWindow bounds how long trailing events may keep draining after
	// the transport closed.
	drainWindow = time.Second
	queueDepth  = 256
)

// Drainer decouples record arrival from record application. The reader
// goroutine enqueues classified events; a single drain goroutine applies
// them strictly in arrival order, yielding between batches.
type Drainer struct {
	queue    chan stream.Event
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	apply    func(stream.Event)
	notify   func()
}

func NewDrainer(apply func(stream.Event), notify func()) *Drainer {
	return &Drainer{
		queue:  make(chan stream.Event, queueDepth),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
		apply:  apply,
		notify: notify,
	}
}

// Enqueue queues one event. It blocks when the queue is full, which
// backpressures the reader rather than dropping or reordering records.
func (d *Drainer) Enqueue(ev stream.Event) {
	select {
	case d.queue <- ev:
	case <-d.stop:
	}
}

// Close signals that no further events will be enqueued. Only the single
// producing goroutine may call it.
func (d *Drainer) Close() {
	close(d.queue)
}

// Run applies queued events until the queue is closed and empty, or the
// drainer is stopped. One notification per batch, then an explicit yield
// so the host loop gets scheduled between bursts.
func (d *Drainer) Run() {
	defer close(d.done)
	for {
		select {
		case <-d.stop:
			return
		case ev, ok := <-d.queue:
			if !ok {
				return
			}
			d.apply(ev)
		batch:
			for n := 1; n < drainBatch; n++ {
				select {
				case ev, ok := <-d.queue:
					if !ok {
						d.notify()
						return
					}
					d.apply(ev)
				default:
					break batch
				}
			}
			d.notify()
			runtime.Gosched()
		}
	}
}

// WaitDrained blocks until the run loop finishes, at most window long.
// On timeout the drainer is stopped and any still-queued events are
// abandoned; it returns false in that case.
func (d *Drainer) WaitDrained(window time.Duration) bool {
	select {
	case <-d.done:
		return true
	case <-time.After(window):
		d.Stop()
		<-d.done
		return false
	}
}

// Stop halts the run loop without waiting for the queue to empty.
func (d *Drainer) Stop() {
	d.stopOnce.Do(func() { close(d.stop) })
}
