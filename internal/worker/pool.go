package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueAlertasStock = "jobs:alertas_stock"

	JobAlertaStock = "alerta_stock"

	// maxIntentos is the number of in-process attempts before a job goes to the DLQ.
	maxIntentos = 3

	// alertaDedupTTL silences repeated alerts for the same item.
	alertaDedupTTL    = time.Hour
	alertaDedupPrefix = "alertas:stock:"
)

// retryBase is the first backoff step; later steps double it.
var retryBase = time.Second

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Procesador handles one job type. A returned error triggers a retry.
type Procesador interface {
	Process(ctx context.Context, raw json.RawMessage) error
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EncolarStockBajo pushes a low-stock alert unless one for the same item was
// queued within alertaDedupTTL. A failed push releases the dedup key so the
// next sale can retry.
func (d *Dispatcher) EncolarStockBajo(ctx context.Context, alerta AlertaStockPayload) error {
	clave := alertaDedupPrefix + alerta.ItemID
	nuevo, err := d.rdb.SetNX(ctx, clave, 1, alertaDedupTTL).Result()
	if err != nil {
		return fmt.Errorf("dispatcher: dedup: %w", err)
	}
	if !nuevo {
		log.Debug().Str("item_id", alerta.ItemID).Msg("dispatcher: low-stock alert already queued")
		return nil
	}
	if err := d.enqueue(ctx, QueueAlertasStock, JobAlertaStock, alerta); err != nil {
		if derr := d.rdb.Del(context.WithoutCancel(ctx), clave).Err(); derr != nil {
			log.Warn().Err(derr).Str("item_id", alerta.ItemID).Msg("dispatcher: dedup key not released")
		}
		return fmt.Errorf("dispatcher: enqueue: %w", err)
	}
	return nil
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(Job{Type: jobType, Payload: data})
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// StartWorkerPool launches numWorkers goroutines consuming every queue that
// has a handler. Each goroutine blocks on BRPOP, so idle workers cost nothing.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, handlers map[string]Procesador, numWorkers int) {
	queues := make([]string, 0, len(handlers))
	for q := range handlers {
		queues = append(queues, q)
	}
	if len(queues) == 0 || numWorkers <= 0 {
		log.Warn().Msg("worker pool not started: no handlers or zero workers")
		return
	}
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, handlers, queues, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, handlers map[string]Procesador, queues []string, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if err != nil {
				if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
					log.Warn().Err(err).Int("worker", id).Msg("worker: BRPOP failed")
					time.Sleep(time.Second)
				}
				continue
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, rdb, handlers, result[0], result[1])
		}
	}
}

func processJob(ctx context.Context, rdb *redis.Client, handlers map[string]Procesador, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		quoted, _ := json.Marshal(raw)
		SendToDLQ(ctx, rdb, queue, "desconocido", quoted, "payload invalido", 0)
		return
	}
	h, ok := handlers[queue]
	if !ok {
		log.Error().Str("queue", queue).Msg("no handler for queue")
		return
	}

	err := withRetry(ctx, maxIntentos, func(attempt int) error {
		err := h.Process(ctx, job.Payload)
		if err != nil {
			log.Warn().Err(err).Str("type", job.Type).Int("attempt", attempt+1).Msg("job attempt failed")
		}
		return err
	})
	if err != nil {
		SendToDLQ(ctx, rdb, queue, job.Type, job.Payload, err.Error(), maxIntentos)
		return
	}
	log.Info().Str("type", job.Type).Str("queue", queue).Msg("job processed")
}

// withRetry calls fn up to maxAttempts times with exponential backoff:
// immediate, retryBase, 2×retryBase, ...
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := retryBase << uint(i-1)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
