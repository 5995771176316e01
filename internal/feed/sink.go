package feed

import (
	"context"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
)

// Sink delivers encoded envelopes to one destination
// Sink 将编码后的记录投递到一个目标
type Sink interface {
	Name() string
	Send(ctx context.Context, env *Envelope, payload []byte) error
	Close() error
}

// streamClient is the part of *redis.Client used by RedisSink
type streamClient interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
	Close() error
}

// RedisSink appends envelopes to a Redis stream
// RedisSink 将记录追加到 Redis Stream
type RedisSink struct {
	client streamClient
	stream string
	maxLen int64
}

// NewRedisSink connects a RedisSink from config
func NewRedisSink(cfg RedisConfig) *RedisSink {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return newRedisSink(client, cfg.Stream, cfg.MaxLen)
}

func newRedisSink(client streamClient, stream string, maxLen int64) *RedisSink {
	return &RedisSink{client: client, stream: stream, maxLen: maxLen}
}

func (s *RedisSink) Name() string { return "redis" }

func (s *RedisSink) Send(ctx context.Context, env *Envelope, payload []byte) error {
	return s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		MaxLen: s.maxLen,
		Approx: s.maxLen > 0,
		Values: map[string]any{
			"id":         env.ID,
			"entityType": env.EntityType,
			"entityId":   env.EntityID,
			"action":     env.Action,
			"payload":    string(payload),
		},
	}).Err()
}

func (s *RedisSink) Close() error { return s.client.Close() }

// natsConn is the part of *nats.Conn used by NATSSink
type natsConn interface {
	Publish(subj string, data []byte) error
	Drain() error
}

// NATSSink publishes envelopes on <prefix>.<entityType>.<action>
// NATSSink 按 <前缀>.<实体类型>.<动作> 发布记录
type NATSSink struct {
	conn   natsConn
	prefix string
}

// NewNATSSink connects a NATSSink from config
func NewNATSSink(cfg NATSConfig) (*NATSSink, error) {
	conn, err := nats.Connect(cfg.URL, nats.Name("inventory-audit-service"), nats.MaxReconnects(-1))
	if err != nil {
		return nil, err
	}
	return newNATSSink(conn, cfg.SubjectPrefix), nil
}

func newNATSSink(conn natsConn, prefix string) *NATSSink {
	return &NATSSink{conn: conn, prefix: strings.TrimSuffix(prefix, ".")}
}

func (s *NATSSink) Name() string { return "nats" }

// Subject 记录对应的主题
func (s *NATSSink) Subject(env *Envelope) string {
	return s.prefix + "." + env.EntityType + "." + strings.ToLower(env.Action)
}

func (s *NATSSink) Send(ctx context.Context, env *Envelope, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.conn.Publish(s.Subject(env), payload)
}

func (s *NATSSink) Close() error { return s.conn.Drain() }

// messageWriter is the part of *kafka.Writer used by KafkaSink
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink writes envelopes keyed by entity so one entity's records share a partition
// KafkaSink 以实体为键写入 Kafka，同一实体的记录落在同一分区
type KafkaSink struct {
	writer messageWriter
}

// NewKafkaSink creates a KafkaSink from config
func NewKafkaSink(cfg KafkaConfig) *KafkaSink {
	return newKafkaSink(&kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		MaxAttempts:  3,
	})
}

func newKafkaSink(w messageWriter) *KafkaSink {
	return &KafkaSink{writer: w}
}

func (s *KafkaSink) Name() string { return "kafka" }

func (s *KafkaSink) Send(ctx context.Context, env *Envelope, payload []byte) error {
	return s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(env.Key()),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "action", Value: []byte(env.Action)},
		},
	})
}

func (s *KafkaSink) Close() error { return s.writer.Close() }
