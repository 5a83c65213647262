// Package redispub provides the Redis-backed coordination adapters: the
// progress event publisher, the cancellation signal and the job queue the
// worker consumes.
package redispub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/docsync-labs/docsync/internal/core/domain"
	"github.com/docsync-labs/docsync/internal/core/ports/driven"
)

const (
	// ProgressChannel is the pub/sub channel progress events are pushed to.
	ProgressChannel = "processing-updates"

	// QueueKey is the list indexing jobs are queued on.
	QueueKey = "docsync:jobs"

	cancelKeyPrefix = "cancel-job:"

	// cancelTTL bounds how long a cancel flag lingers for jobs that already
	// finished or never ran.
	cancelTTL = time.Hour
)

// NewClient creates a Redis client from an address and optional password.
func NewClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// ==================== Progress Publisher ====================

// Ensure Publisher implements the interface.
var _ driven.ProgressPublisher = (*Publisher)(nil)

// Publisher pushes progress events to the pub/sub channel as JSON.
type Publisher struct {
	client  *redis.Client
	channel string
}

// NewPublisher creates a publisher on the default progress channel.
func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client, channel: ProgressChannel}
}

// Publish serialises the event and publishes it. Subscriber count is not
// checked; events without listeners are simply dropped by Redis.
func (p *Publisher) Publish(ctx context.Context, event domain.ProgressEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshalling progress event: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("publishing progress event: %w", err)
	}
	return nil
}

// ==================== Cancellation Signal ====================

// Ensure Cancellation implements the interface.
var _ driven.CancellationSignal = (*Cancellation)(nil)

// Cancellation implements the cooperative stop flag as per-job Redis keys.
type Cancellation struct {
	client *redis.Client
}

// NewCancellation creates a cancellation signal.
func NewCancellation(client *redis.Client) *Cancellation {
	return &Cancellation{client: client}
}

// IsCancelled reports whether a cancel key exists for the job.
func (c *Cancellation) IsCancelled(ctx context.Context, jobID string) (bool, error) {
	n, err := c.client.Exists(ctx, cancelKeyPrefix+jobID).Result()
	if err != nil {
		return false, fmt.Errorf("checking cancel flag: %w", err)
	}
	return n > 0, nil
}

// RequestCancel sets the cancel key for the job. The flag expires on its
// own so stale requests cannot affect a later job reusing the id.
func (c *Cancellation) RequestCancel(ctx context.Context, jobID string) error {
	if err := c.client.Set(ctx, cancelKeyPrefix+jobID, "1", cancelTTL).Err(); err != nil {
		return fmt.Errorf("setting cancel flag: %w", err)
	}
	return nil
}

// ==================== Job Queue ====================

// Job is one queued indexing request. Content is set for direct-upload
// jobs; source jobs carry only the connection id.
type Job struct {
	ID           string                `json:"id"`
	ConnectionID string                `json:"connectionId"`
	Content      *domain.DirectContent `json:"content,omitempty"`
	PageLimit    *int                  `json:"pageLimit,omitempty"`
	FileLimit    *int                  `json:"fileLimit,omitempty"`
}

// Queue is a Redis list used as a FIFO job queue. Producers push with
// Enqueue, the worker blocks on Dequeue.
type Queue struct {
	client *redis.Client
	key    string
}

// NewQueue creates a queue on the default job list.
func NewQueue(client *redis.Client) *Queue {
	return &Queue{client: client, key: QueueKey}
}

// Enqueue pushes a job to the front of the list.
func (q *Queue) Enqueue(ctx context.Context, job Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshalling job: %w", err)
	}
	if err := q.client.LPush(ctx, q.key, payload).Err(); err != nil {
		return fmt.Errorf("enqueueing job: %w", err)
	}
	return nil
}

// Dequeue blocks up to timeout for the next job. Returns (nil, nil) when
// the timeout elapses with an empty queue.
func (q *Queue) Dequeue(ctx context.Context, timeout time.Duration) (*Job, error) {
	result, err := q.client.BRPop(ctx, timeout, q.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("dequeueing job: %w", err)
	}
	// BRPOP returns [key, value]
	if len(result) != 2 {
		return nil, fmt.Errorf("unexpected BRPOP reply of %d elements", len(result))
	}

	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		return nil, fmt.Errorf("unmarshalling job: %w", err)
	}
	return &job, nil
}
