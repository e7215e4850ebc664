package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/karna-27/bank-lending-system/internal/kafka"
	"github.com/karna-27/bank-lending-system/internal/metrics"
	"github.com/karna-27/bank-lending-system/internal/model"
	"github.com/karna-27/bank-lending-system/internal/repository"
)

// Source is the part of the Kafka consumer the projector needs.
type Source interface {
	Fetch(ctx context.Context) (kafka.Message, error)
	Commit(ctx context.Context, msgs ...kafka.Message) error
}

// Projector:
// - fetches payment events published from the outbox,
// - buffers them up to BatchSize or BatchWait,
// - writes each batch to ClickHouse, then commits the Kafka offsets.
//
// Delivery is at-least-once; the ClickHouse table deduplicates on payment_id.
type Projector struct {
	Source Source
	Store  repository.CHPaymentsRepository
	Log    *zap.Logger

	BatchSize int
	BatchWait time.Duration

	// Breaker guards Store; while it is open the run loop stops consuming.
	Breaker *Breaker
}

// NewProjector builds a projector with sane defaults.
func NewProjector(src Source, store repository.CHPaymentsRepository, log *zap.Logger) *Projector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Projector{
		Source:    src,
		Store:     store,
		Log:       log,
		BatchSize: 200,
		BatchWait: 500 * time.Millisecond,
		Breaker:   NewBreaker(5, 5*time.Second),
	}
}

// DecodePaymentEvent parses an outbox payload. Events without a payment or
// loan ID are rejected.
func DecodePaymentEvent(raw []byte) (model.PaymentEvent, error) {
	var ev model.PaymentEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return model.PaymentEvent{}, fmt.Errorf("decode payment event: %w", err)
	}
	if ev.PaymentID == "" || ev.LoanID == "" {
		return model.PaymentEvent{}, errors.New("payment event missing ids")
	}
	return ev, nil
}

// Run blocks until ctx is cancelled; the pending batch is flushed on the way out.
func (p *Projector) Run(ctx context.Context) error {
	if p.BatchSize <= 0 {
		p.BatchSize = 200
	}
	if p.BatchWait <= 0 {
		p.BatchWait = 500 * time.Millisecond
	}
	if p.Breaker == nil {
		p.Breaker = NewBreaker(5, 5*time.Second)
	}

	msgCh := make(chan kafka.Message, p.BatchSize)

	// Fetcher goroutine
	go func() {
		defer close(msgCh)
		for {
			m, err := p.Source.Fetch(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				p.Log.Warn("kafka fetch failed", zap.Error(err))
				select {
				case <-ctx.Done():
					return
				case <-time.After(200 * time.Millisecond):
				}
				continue
			}
			select {
			case msgCh <- m:
			case <-ctx.Done():
				return
			}
		}
	}()

	tick := time.NewTicker(p.BatchWait)
	defer tick.Stop()

	var (
		events []model.PaymentEvent
		msgs   []kafka.Message
	)

	// flush writes the batch then commits its offsets. With wait set it blocks
	// while the breaker is open, which backs up the fetcher.
	flush := func(ctx context.Context, wait bool) {
		if len(msgs) == 0 {
			return
		}
		if len(events) > 0 {
			for !p.Breaker.TryAcquire() {
				if !wait {
					return
				}
				select {
				case <-ctx.Done():
					return
				case <-time.After(p.Breaker.RetryIn() + 10*time.Millisecond):
				}
			}
			if err := p.Store.InsertBatch(ctx, events); err != nil {
				// Offsets stay uncommitted; the batch is retried on the next flush.
				p.Breaker.OnFailure()
				metrics.ProjectedEventsTotal.WithLabelValues("failed").Add(float64(len(events)))
				p.Log.Error("clickhouse insert failed", zap.Int("events", len(events)), zap.Error(err))
				return
			}
			p.Breaker.OnSuccess()
		}
		if err := p.Source.Commit(ctx, msgs...); err != nil {
			p.Log.Error("kafka commit failed", zap.Error(err))
		}
		metrics.ProjectedEventsTotal.WithLabelValues("stored").Add(float64(len(events)))
		p.Log.Debug("projected payment events", zap.Int("events", len(events)))

		events = events[:0]
		msgs = msgs[:0]
	}

	for {
		select {
		case m, ok := <-msgCh:
			if !ok {
				// Shutting down: flush with a fresh context so the last batch is not lost.
				fctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				flush(fctx, false)
				cancel()
				return nil
			}

			ev, err := DecodePaymentEvent(m.Value)
			if err != nil {
				// poison → skip but keep its offset in the batch
				metrics.ProjectedEventsTotal.WithLabelValues("skipped").Inc()
				p.Log.Warn("skipping bad payment event", zap.Int64("offset", m.Offset), zap.Error(err))
				msgs = append(msgs, m)
				continue
			}

			events = append(events, ev)
			msgs = append(msgs, m)
			if len(msgs) >= p.BatchSize {
				flush(ctx, true)
			}

		case <-tick.C:
			flush(ctx, true)
		}
	}
}
