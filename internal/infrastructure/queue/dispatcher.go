package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/righttechcentre/lms-api/internal/api/metrics"
	"github.com/righttechcentre/lms-api/internal/core/domain"
)

const (
	defaultWorkers = 4
	channelBuffer  = 128
	applyTimeout   = 30 * time.Second
)

// NotificationProcessor applies one verified payment notification.
type NotificationProcessor interface {
	ApplyNotification(ctx context.Context, n domain.PaymentNotification) error
}

// Dispatcher routes payment notifications to a fixed set of workers by
// hashing the session id, so notifications for one session apply in order.
type Dispatcher struct {
	workers   []chan domain.PaymentNotification
	processor NotificationProcessor
	log       zerolog.Logger
	wg        sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers shards.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, processor NotificationProcessor, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:   make([]chan domain.PaymentNotification, numWorkers),
		processor: processor,
		log:       log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.PaymentNotification, channelBuffer)
	}
	return d
}

// Start launches the workers. They drain their queues and exit when ctx is
// cancelled; Wait blocks until they have.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has exited.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Enqueue hands n to the worker owning its session. It blocks once that
// worker's buffer is full.
func (d *Dispatcher) Enqueue(n domain.PaymentNotification) {
	idx := d.shardIndex(n.SessionID)
	d.workers[idx] <- n
	metrics.DispatcherQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
}

func (d *Dispatcher) shardIndex(sessionID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sessionID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.PaymentNotification) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			d.drain(id, ch)
			return
		case n := <-ch:
			metrics.DispatcherQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			d.apply(context.WithoutCancel(ctx), id, n)
		}
	}
}

// drain applies whatever is still buffered after shutdown began.
func (d *Dispatcher) drain(id int, ch <-chan domain.PaymentNotification) {
	for {
		select {
		case n := <-ch:
			d.apply(context.Background(), id, n)
		default:
			return
		}
	}
}

func (d *Dispatcher) apply(ctx context.Context, id int, n domain.PaymentNotification) {
	ctx, cancel := context.WithTimeout(ctx, applyTimeout)
	defer cancel()

	if err := d.processor.ApplyNotification(ctx, n); err != nil {
		d.log.Error().Err(err).
			Str("session_id", n.SessionID).
			Str("event_id", n.EventID).
			Int("worker_id", id).
			Msg("payment notification failed")
	}
}
