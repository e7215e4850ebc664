package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karna-27/bank-lending-system/internal/kafka"
	"github.com/karna-27/bank-lending-system/internal/model"
)

type fakeSource struct {
	mu        sync.Mutex
	pending   []kafka.Message
	committed []kafka.Message
}

func (s *fakeSource) Fetch(ctx context.Context) (kafka.Message, error) {
	for {
		s.mu.Lock()
		if len(s.pending) > 0 {
			m := s.pending[0]
			s.pending = s.pending[1:]
			s.mu.Unlock()
			return m, nil
		}
		s.mu.Unlock()

		select {
		case <-ctx.Done():
			return kafka.Message{}, ctx.Err()
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func (s *fakeSource) Commit(_ context.Context, msgs ...kafka.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.committed = append(s.committed, msgs...)
	return nil
}

func (s *fakeSource) Committed() []kafka.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]kafka.Message(nil), s.committed...)
}

type fakeStore struct {
	mu      sync.Mutex
	err     error
	calls   int
	batches [][]model.PaymentEvent
}

func (f *fakeStore) InsertBatch(_ context.Context, events []model.PaymentEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.batches = append(f.batches, append([]model.PaymentEvent(nil), events...))
	return nil
}

func (f *fakeStore) ListByCustomer(context.Context, string, int, int) ([]model.PaymentEvent, error) {
	return nil, nil
}

func (f *fakeStore) snapshot() (int, [][]model.PaymentEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls, f.batches
}

func eventMsg(t *testing.T, offset int64, ev model.PaymentEvent) kafka.Message {
	t.Helper()
	raw, err := json.Marshal(ev)
	require.NoError(t, err)
	return kafka.Message{Offset: offset, Value: raw}
}

func runProjector(t *testing.T, p *Projector) (cancel func()) {
	t.Helper()
	ctx, stop := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()
	return func() {
		stop()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("projector did not stop")
		}
	}
}

func TestDecodePaymentEvent(t *testing.T) {
	ev, err := DecodePaymentEvent([]byte(`{"payment_id":"P1","loan_id":"L1","customer_id":"C1","amount":10,"type":"EMI","status":"ACTIVE"}`))
	require.NoError(t, err)
	assert.Equal(t, "P1", ev.PaymentID)
	assert.Equal(t, model.PaymentEMI, ev.Type)

	_, err = DecodePaymentEvent([]byte(`not json`))
	assert.Error(t, err)

	_, err = DecodePaymentEvent([]byte(`{"loan_id":"L1"}`))
	assert.Error(t, err)
}

func TestProjectorStoresBatchAndSkipsPoison(t *testing.T) {
	src := &fakeSource{}
	src.pending = []kafka.Message{
		eventMsg(t, 1, model.PaymentEvent{PaymentID: "P1", LoanID: "L1", CustomerID: "C1", Amount: 10}),
		{Offset: 2, Value: []byte(`{broken`)},
		eventMsg(t, 3, model.PaymentEvent{PaymentID: "P2", LoanID: "L1", CustomerID: "C1", Amount: 20}),
	}
	store := &fakeStore{}

	p := NewProjector(src, store, nil)
	p.BatchSize = 3
	p.BatchWait = time.Hour
	stop := runProjector(t, p)

	require.Eventually(t, func() bool { return len(src.Committed()) == 3 }, 2*time.Second, 10*time.Millisecond)
	stop()

	_, batches := store.snapshot()
	require.Len(t, batches, 1)
	require.Len(t, batches[0], 2)
	assert.Equal(t, "P1", batches[0][0].PaymentID)
	assert.Equal(t, "P2", batches[0][1].PaymentID)
}

func TestProjectorFlushesOnShutdown(t *testing.T) {
	src := &fakeSource{pending: []kafka.Message{
		eventMsg(t, 7, model.PaymentEvent{PaymentID: "P9", LoanID: "L9"}),
	}}
	store := &fakeStore{}

	p := NewProjector(src, store, nil)
	p.BatchSize = 100
	p.BatchWait = time.Hour
	stop := runProjector(t, p)

	// give the fetcher time to hand the message over
	time.Sleep(50 * time.Millisecond)
	stop()

	_, batches := store.snapshot()
	require.Len(t, batches, 1)
	assert.Equal(t, "P9", batches[0][0].PaymentID)
	assert.Len(t, src.Committed(), 1)
}

func TestProjectorKeepsOffsetsWhenStoreFails(t *testing.T) {
	src := &fakeSource{pending: []kafka.Message{
		eventMsg(t, 1, model.PaymentEvent{PaymentID: "P1", LoanID: "L1"}),
	}}
	store := &fakeStore{err: errors.New("clickhouse unavailable")}

	p := NewProjector(src, store, nil)
	p.BatchSize = 1
	p.BatchWait = time.Hour
	stop := runProjector(t, p)

	require.Eventually(t, func() bool {
		calls, _ := store.snapshot()
		return calls >= 1
	}, 2*time.Second, 10*time.Millisecond)
	stop()

	assert.Empty(t, src.Committed())
}
