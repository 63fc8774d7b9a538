package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const DLQPrefix = "dlq:"

// DeadLetter is a job that failed permanently or ran out of attempts.
type DeadLetter struct {
	Queue    string          `json:"queue"`
	JobType  string          `json:"job_type"`
	Payload  json.RawMessage `json:"payload"`
	Reason   string          `json:"reason"`
	FailedAt time.Time       `json:"failed_at"`
	Attempts int             `json:"attempts"`
}

// DeadLetters keeps failed jobs in one Redis list per queue, dlq:<queue>,
// newest first.
type DeadLetters struct {
	rdb *redis.Client
}

func NewDeadLetters(rdb *redis.Client) *DeadLetters {
	return &DeadLetters{rdb: rdb}
}

// Push records job as dead. Failures are logged; the job is lost.
func (d *DeadLetters) Push(ctx context.Context, queue string, job Job, reason string) {
	data, err := json.Marshal(DeadLetter{
		Queue:    queue,
		JobType:  job.Type,
		Payload:  job.Payload,
		Reason:   reason,
		FailedAt: time.Now().UTC(),
		Attempts: job.Attempts,
	})
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: marshal entry")
		return
	}
	if err := d.rdb.LPush(ctx, DLQPrefix+queue, data).Err(); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: push failed")
		return
	}
	log.Warn().
		Str("queue", queue).
		Str("job_type", job.Type).
		Str("reason", reason).
		Int("attempts", job.Attempts).
		Msg("dlq: job moved to dead letter queue")
}

// List returns up to limit entries, newest first.
func (d *DeadLetters) List(ctx context.Context, queue string, limit int) ([]DeadLetter, error) {
	if limit <= 0 {
		limit = 50
	}
	raw, err := d.rdb.LRange(ctx, DLQPrefix+queue, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	out := make([]DeadLetter, 0, len(raw))
	for _, r := range raw {
		var dl DeadLetter
		if err := json.Unmarshal([]byte(r), &dl); err != nil {
			return nil, fmt.Errorf("dlq: decode entry: %w", err)
		}
		out = append(out, dl)
	}
	return out, nil
}

func (d *DeadLetters) Len(ctx context.Context, queue string) (int64, error) {
	return d.rdb.LLen(ctx, DLQPrefix+queue).Result()
}

// Requeue moves every dead job of queue back onto it with a fresh attempt
// count and returns how many were moved.
func (d *DeadLetters) Requeue(ctx context.Context, queue string) (int, error) {
	moved := 0
	for {
		raw, err := d.rdb.RPop(ctx, DLQPrefix+queue).Result()
		if err == redis.Nil {
			break
		}
		if err != nil {
			return moved, err
		}
		var dl DeadLetter
		if err := json.Unmarshal([]byte(raw), &dl); err != nil {
			log.Error().Err(err).Str("queue", queue).Msg("dlq: dropping undecodable entry")
			continue
		}
		if err := push(ctx, d.rdb, queue, Job{Type: dl.JobType, Payload: dl.Payload}); err != nil {
			// Put it back so nothing is lost.
			_ = d.rdb.RPush(ctx, DLQPrefix+queue, raw).Err()
			return moved, err
		}
		moved++
	}
	if moved > 0 {
		log.Info().Str("queue", queue).Int("jobs", moved).Msg("dlq: jobs requeued")
	}
	return moved, nil
}
