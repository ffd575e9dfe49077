package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/artisan-avenue/auth-service/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 128
)

// welcomeJob is a single best-effort mail delivery.
type welcomeJob struct {
	email     string
	firstName string
}

// MailDispatcher delivers best-effort mail (the post-verification welcome
// message) off the request path. Jobs are sharded to a fixed set of workers
// by recipient, keeping per-recipient ordering. Delivery failures are
// logged and dropped; nothing propagates back to the request that queued
// the message.
type MailDispatcher struct {
	workers  []chan welcomeJob
	notifier ports.Notifier
	log      zerolog.Logger
}

// NewMailDispatcher creates a dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewMailDispatcher(numWorkers int, notifier ports.Notifier, log zerolog.Logger) *MailDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &MailDispatcher{
		workers:  make([]chan welcomeJob, numWorkers),
		notifier: notifier,
		log:      log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan welcomeJob, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *MailDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// EnqueueWelcome queues a welcome message for the recipient's worker. When
// that worker's buffer is full the job is dropped and logged — welcome mail
// is expendable and must never block a request.
func (d *MailDispatcher) EnqueueWelcome(email, firstName string) {
	job := welcomeJob{email: email, firstName: firstName}
	select {
	case d.workers[d.shardIndex(email)] <- job:
	default:
		d.log.Warn().Str("to", email).Msg("welcome mail dropped, worker queue full")
	}
}

// shardIndex maps a recipient deterministically to a worker index.
func (d *MailDispatcher) shardIndex(email string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(email))
	return int(h.Sum32()) % len(d.workers)
}

func (d *MailDispatcher) runWorker(ctx context.Context, id int, ch <-chan welcomeJob) {
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			if err := d.notifier.SendWelcome(ctx, job.email, job.firstName); err != nil {
				d.log.Error().Err(err).
					Str("to", job.email).
					Int("worker_id", id).
					Msg("welcome mail delivery failed")
			}
		}
	}
}
