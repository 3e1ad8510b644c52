package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/menuhub/menu-api/internal/api/metrics"
	"github.com/menuhub/menu-api/internal/core/ports"
)

const (
	defaultWorkers = 2
	channelBuffer  = 64
)

// Hasher produces a digest in the current password scheme.
type Hasher interface {
	Hash(plaintext string) (string, error)
}

type rehashJob struct {
	username string
	password string
}

// Rehasher re-hashes passwords whose stored digest uses a deprecated scheme.
// Jobs are sharded by username so concurrent logins of one account are
// serialised on a single worker.
type Rehasher struct {
	workers []chan rehashJob
	hasher  Hasher
	writer  ports.DigestWriter
	log     zerolog.Logger
}

// NewRehasher creates a Rehasher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewRehasher(numWorkers int, hasher Hasher, writer ports.DigestWriter, log zerolog.Logger) *Rehasher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	r := &Rehasher{
		workers: make([]chan rehashJob, numWorkers),
		hasher:  hasher,
		writer:  writer,
		log:     log,
	}
	for i := range r.workers {
		r.workers[i] = make(chan rehashJob, channelBuffer)
	}
	return r
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (r *Rehasher) Start(ctx context.Context) {
	for i, ch := range r.workers {
		go r.runWorker(ctx, i, ch)
	}
}

// Submit queues a rehash. It never blocks: when the worker's buffer is full
// the job is dropped and retried on the account's next login.
func (r *Rehasher) Submit(username, password string) {
	select {
	case r.workers[r.shardIndex(username)] <- rehashJob{username: username, password: password}:
	default:
		metrics.PasswordRehashTotal.WithLabelValues("dropped").Inc()
		r.log.Warn().Str("username", username).Msg("rehash queue full, job dropped")
	}
}

func (r *Rehasher) shardIndex(username string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(username))
	return int(h.Sum32() % uint32(len(r.workers)))
}

func (r *Rehasher) runWorker(ctx context.Context, id int, ch <-chan rehashJob) {
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-ch:
			r.process(ctx, id, job)
		}
	}
}

func (r *Rehasher) process(ctx context.Context, id int, job rehashJob) {
	digest, err := r.hasher.Hash(job.password)
	if err != nil {
		metrics.PasswordRehashTotal.WithLabelValues("error").Inc()
		r.log.Error().Err(err).Str("username", job.username).Int("worker_id", id).Msg("rehash failed")
		return
	}
	if err := r.writer.UpdateDigest(ctx, job.username, digest); err != nil {
		metrics.PasswordRehashTotal.WithLabelValues("error").Inc()
		r.log.Error().Err(err).Str("username", job.username).Int("worker_id", id).Msg("store rehashed digest failed")
		return
	}
	metrics.PasswordRehashTotal.WithLabelValues("upgraded").Inc()
	r.log.Info().Str("username", job.username).Int("worker_id", id).Msg("password digest upgraded")
}
