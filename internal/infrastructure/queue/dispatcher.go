package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/turismo/turismo-api/internal/api/metrics"
	"github.com/turismo/turismo-api/internal/core/domain"
	"github.com/turismo/turismo-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	writeTimeout   = 5 * time.Second
	drainTimeout   = 3 * time.Second
)

// Dispatcher writes authentication audit events through a fixed set of
// workers. Events are sharded by email so the trail of one account stays in
// order.
type Dispatcher struct {
	workers []chan domain.AuthEvent
	repo    ports.AuditRepository
	log     zerolog.Logger
	wg      sync.WaitGroup

	// drainTimeout bounds how long a stopping worker keeps writing the
	// events still buffered in its channel.
	drainTimeout time.Duration
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, repo ports.AuditRepository, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:      make([]chan domain.AuthEvent, numWorkers),
		repo:         repo,
		log:          log,
		drainTimeout: drainTimeout,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuthEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. When ctx is cancelled each worker
// flushes its buffer within drainTimeout and returns.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Enqueue hands an event to the worker responsible for its email. It never
// blocks: when that worker's buffer is full the event is dropped and counted.
func (d *Dispatcher) Enqueue(event domain.AuthEvent) {
	idx := d.shardIndex(event.Email)
	select {
	case d.workers[idx] <- event:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
	default:
		metrics.AuditEventsTotal.WithLabelValues("dropped").Inc()
		d.log.Warn().Str("email", event.Email).Str("kind", string(event.Kind)).Msg("audit queue full, event dropped")
	}
}

// shardIndex maps an email deterministically to a worker index.
func (d *Dispatcher) shardIndex(email string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(email))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuthEvent) {
	defer d.wg.Done()
	label := strconv.Itoa(id)

	for {
		select {
		case <-ctx.Done():
			d.drain(ctx, id, ch)
			return
		case event := <-ch:
			metrics.AuditQueueDepth.WithLabelValues(label).Dec()
			d.write(ctx, id, event)
		}
	}
}

// drain writes what is left in ch until the buffer is empty or the drain
// deadline passes. Events still queued after the deadline are counted as
// dropped.
func (d *Dispatcher) drain(ctx context.Context, id int, ch <-chan domain.AuthEvent) {
	label := strconv.Itoa(id)
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.drainTimeout)
	defer cancel()

	written, dropped := 0, 0
	for {
		select {
		case event := <-ch:
			metrics.AuditQueueDepth.WithLabelValues(label).Dec()
			if ctx.Err() != nil {
				dropped++
				metrics.AuditEventsTotal.WithLabelValues("dropped").Inc()
				continue
			}
			d.write(ctx, id, event)
			written++
		default:
			if written+dropped > 0 {
				d.log.Info().Int("worker_id", id).Int("flushed", written).Int("dropped", dropped).Msg("audit worker drained")
			}
			return
		}
	}
}

func (d *Dispatcher) write(ctx context.Context, id int, event domain.AuthEvent) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	start := time.Now()
	err := d.repo.InsertAuthEvent(ctx, &event)
	metrics.AuditWriteDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.AuditEventsTotal.WithLabelValues("failed").Inc()
		d.log.Error().Err(err).
			Str("email", event.Email).
			Str("kind", string(event.Kind)).
			Int("worker_id", id).
			Msg("audit event write failed")
		return
	}
	metrics.AuditEventsTotal.WithLabelValues("written").Inc()
}
