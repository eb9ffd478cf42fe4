package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mfirmanda/helpdesk-management/internal"
)

// Job is one email to deliver.
type Job struct {
	To      string
	Subject string
	Body    string

	attempts int
}

type worker struct {
	id         int
	workerPool chan chan Job
	jobChannel chan Job
	logger     *slog.Logger
}

func newWorker(id int, workerPool chan chan Job, logger *slog.Logger) *worker {
	return &worker{
		id:         id,
		workerPool: workerPool,
		jobChannel: make(chan Job),
		logger:     logger,
	}
}

func (w *worker) start(ctx context.Context, wg *sync.WaitGroup, processFunc func(Job)) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		for {
			w.workerPool <- w.jobChannel

			select {
			case job := <-w.jobChannel:
				w.logger.Debug("worker delivering mail", "worker_id", w.id, "to", job.To)
				processFunc(job)
			case <-ctx.Done():
				w.logger.Debug("mail worker shutting down", "worker_id", w.id)
				return
			}
		}
	}()
}

// Dispatcher delivers email through a bounded queue and a fixed worker
// pool. Enqueue never blocks the caller: when the queue is full the job is
// dropped and logged. Failed sends retry with a fixed backoff up to the
// configured budget.
type Dispatcher struct {
	sender       Sender
	enabled      bool
	maxRetries   int
	retryBackoff time.Duration
	logger       *slog.Logger

	jobQueue   chan Job
	workerPool chan chan Job
	maxWorkers int
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	once       sync.Once
}

func NewDispatcher(cfg internal.NotificationConfig, sender Sender, logger *slog.Logger) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())

	maxWorkers := cfg.Workers
	if maxWorkers <= 0 {
		maxWorkers = 4
	}

	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 100
	}

	retryBackoff := cfg.RetryBackoff
	if retryBackoff <= 0 {
		retryBackoff = 5 * time.Second
	}

	d := &Dispatcher{
		sender:       sender,
		enabled:      cfg.Enabled,
		maxRetries:   cfg.MaxRetries,
		retryBackoff: retryBackoff,
		logger:       logger,

		maxWorkers: maxWorkers,
		jobQueue:   make(chan Job, queueSize),
		workerPool: make(chan chan Job, maxWorkers),
		ctx:        ctx,
		cancel:     cancel,
	}

	d.startWorkerPool()

	return d
}

func (d *Dispatcher) startWorkerPool() {
	d.once.Do(func() {
		for i := 0; i < d.maxWorkers; i++ {
			w := newWorker(i, d.workerPool, d.logger)
			w.start(d.ctx, &d.wg, d.deliver)
		}

		d.wg.Add(1)
		go d.dispatch()

		d.logger.Info("notification dispatcher started",
			"workers", d.maxWorkers,
			"queue_size", cap(d.jobQueue))
	})
}

func (d *Dispatcher) dispatch() {
	defer d.wg.Done()

	for {
		select {
		case job := <-d.jobQueue:
			select {
			case jobChannel := <-d.workerPool:
				select {
				case jobChannel <- job:
				case <-d.ctx.Done():
					return
				}
			case <-d.ctx.Done():
				return
			}
		case <-d.ctx.Done():
			return
		}
	}
}

// Enqueue queues a message for delivery. Returns false when notifications
// are disabled or the queue is full; the ticket operation that triggered
// the mail is unaffected either way.
func (d *Dispatcher) Enqueue(to, subject, body string) bool {
	if !d.enabled || to == "" {
		return false
	}

	job := Job{To: to, Subject: subject, Body: body}

	select {
	case d.jobQueue <- job:
		d.logger.Debug("mail queued", "to", to, "queue_length", len(d.jobQueue))
		return true
	default:
		d.logger.Warn("mail queue full, dropping notification",
			"to", to,
			"subject", subject,
			"queue_capacity", cap(d.jobQueue))
		return false
	}
}

func (d *Dispatcher) deliver(job Job) {
	err := d.sender.Send(job.To, job.Subject, job.Body)
	if err == nil {
		d.logger.Info("mail delivered", "to", job.To, "subject", job.Subject)
		return
	}

	job.attempts++
	if job.attempts > d.maxRetries {
		d.logger.Error("mail delivery failed, retry budget exhausted",
			"to", job.To,
			"subject", job.Subject,
			"attempts", job.attempts,
			"error", err)
		return
	}

	d.logger.Warn("mail delivery failed, retrying",
		"to", job.To,
		"attempt", job.attempts,
		"error", err)

	select {
	case <-time.After(d.retryBackoff):
	case <-d.ctx.Done():
		return
	}

	select {
	case d.jobQueue <- job:
	default:
		d.logger.Warn("mail queue full, dropping retry", "to", job.To)
	}
}

// Shutdown stops the workers and waits for in-flight deliveries.
func (d *Dispatcher) Shutdown() {
	d.logger.Info("shutting down notification dispatcher")
	d.cancel()
	d.wg.Wait()
	d.logger.Info("notification dispatcher shutdown complete")
}
