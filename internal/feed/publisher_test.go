package feed

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haierkeys/inventory-audit-service/internal/domain"
	"github.com/haierkeys/inventory-audit-service/pkg/diff"
	"github.com/haierkeys/inventory-audit-service/pkg/workerpool"
)

type fakeStream struct {
	mu   sync.Mutex
	args []*redis.XAddArgs
}

func (f *fakeStream) XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.args = append(f.args, a)
	return redis.NewStringResult("1-0", nil)
}

func (f *fakeStream) Close() error { return nil }

type fakeNATS struct {
	mu       sync.Mutex
	subjects []string
	data     [][]byte
	err      error
}

func (f *fakeNATS) Publish(subj string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.subjects = append(f.subjects, subj)
	f.data = append(f.data, data)
	return nil
}

func (f *fakeNATS) Drain() error { return nil }

type fakeKafka struct {
	mu   sync.Mutex
	msgs []kafka.Message
}

func (f *fakeKafka) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeKafka) Close() error { return nil }

func sampleRecord() *domain.HistoryRecord {
	actor := uuid.New()
	return &domain.HistoryRecord{
		ID:         "01HZY3Q7M4W9E6T7N8B5C4D3E2",
		EntityType: domain.EntityProduct,
		EntityID:   uuid.New(),
		Action:     domain.ActionUpdate,
		ActorID:    &actor,
		Changes:    []diff.Change{{Field: "price", From: float64(10), To: float64(12)}},
		Reason:     "recount",
		Timestamp:  time.UnixMilli(1700000000000),
	}
}

func TestEnvelope_RoundTrip(t *testing.T) {
	rec := sampleRecord()
	env := NewEnvelope(rec)

	data, err := env.Encode()
	require.NoError(t, err)

	got, err := DecodeEnvelope(data)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, rec.EntityID.String(), got.EntityID)
	assert.Equal(t, rec.ActorID.String(), got.ActorID)
	assert.Equal(t, int64(1700000000000), got.Timestamp)
	require.Len(t, got.Changes, 1)
	assert.Equal(t, "price", got.Changes[0].Field)
	assert.Equal(t, "Product:"+rec.EntityID.String(), got.Key())
}

func TestPublisher_FansOutToEverySink(t *testing.T) {
	stream, nc, kw := &fakeStream{}, &fakeNATS{}, &fakeKafka{}
	p := NewPublisher(nil, nil,
		newRedisSink(stream, "inventory.history", 1000),
		newNATSSink(nc, "inventory.history."),
		newKafkaSink(kw),
	)
	assert.Equal(t, []string{"redis", "nats", "kafka"}, p.Sinks())

	rec := sampleRecord()
	p.Publish(context.Background(), rec)

	require.Len(t, stream.args, 1)
	assert.Equal(t, "inventory.history", stream.args[0].Stream)
	assert.True(t, stream.args[0].Approx)

	require.Len(t, nc.subjects, 1)
	assert.Equal(t, "inventory.history.Product.update", nc.subjects[0])

	require.Len(t, kw.msgs, 1)
	assert.Equal(t, "Product:"+rec.EntityID.String(), string(kw.msgs[0].Key))
}

func TestPublisher_SinkFailureDoesNotStopOthers(t *testing.T) {
	nc := &fakeNATS{err: errors.New("no responders")}
	kw := &fakeKafka{}
	p := NewPublisher(nil, nil, newNATSSink(nc, "h"), newKafkaSink(kw))

	assert.NotPanics(t, func() { p.Publish(context.Background(), sampleRecord()) })
	assert.Len(t, kw.msgs, 1)
}

func TestPublisher_AsyncThroughPool(t *testing.T) {
	pool := workerpool.New(nil, nil)
	defer pool.Shutdown(context.Background())

	kw := &fakeKafka{}
	p := NewPublisher(pool, nil, newKafkaSink(kw))

	ctx, cancel := context.WithCancel(context.Background())
	p.Publish(ctx, sampleRecord())
	cancel()

	assert.Eventually(t, func() bool {
		kw.mu.Lock()
		defer kw.mu.Unlock()
		return len(kw.msgs) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestPublisher_NoSinksIsNoop(t *testing.T) {
	p := New(Config{}, nil, nil)
	assert.Empty(t, p.Sinks())
	assert.NotPanics(t, func() { p.Publish(context.Background(), sampleRecord()) })
	assert.NoError(t, p.Close())
}
