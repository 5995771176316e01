package feed

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/haierkeys/inventory-audit-service/internal/domain"
	"github.com/haierkeys/inventory-audit-service/pkg/logger"
)

var publishTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "inventory",
	Subsystem: "feed",
	Name:      "publish_total",
	Help:      "History records pushed to change feed sinks, by sink and result.",
}, []string{"sink", "result"})

// Submitter runs fn off the caller's goroutine
// Submitter 异步执行任务，通常为 workerpool.Pool
type Submitter interface {
	SubmitAsync(ctx context.Context, fn func(context.Context) error) error
}

// Publisher fans appended history records out to every configured sink.
// Delivery is asynchronous and best effort: failures are logged and counted only.
// Publisher 将已写入的历史记录分发给所有推送目标，异步且尽力而为，失败只记录日志
type Publisher struct {
	sinks   []Sink
	pool    Submitter
	logger  *zap.Logger
	timeout time.Duration
}

// NewPublisher creates a Publisher over sinks. A nil pool delivers synchronously.
func NewPublisher(pool Submitter, lg *zap.Logger, sinks ...Sink) *Publisher {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Publisher{sinks: sinks, pool: pool, logger: lg, timeout: 10 * time.Second}
}

// New builds the sinks enabled in cfg. Sinks that fail to connect are skipped with a warning.
// New 根据配置创建推送目标，连接失败的目标记录警告后跳过
func New(cfg Config, pool Submitter, lg *zap.Logger) *Publisher {
	if lg == nil {
		lg = zap.NewNop()
	}
	var sinks []Sink
	if cfg.Redis.Enabled {
		sinks = append(sinks, NewRedisSink(cfg.Redis))
	}
	if cfg.NATS.Enabled {
		s, err := NewNATSSink(cfg.NATS)
		if err != nil {
			lg.Warn("feed sink unavailable", zap.String(logger.FieldSink, "nats"), zap.Error(err))
		} else {
			sinks = append(sinks, s)
		}
	}
	if cfg.Kafka.Enabled {
		if len(cfg.Kafka.Brokers) == 0 {
			lg.Warn("feed sink unavailable", zap.String(logger.FieldSink, "kafka"), zap.String("reason", "no brokers"))
		} else {
			sinks = append(sinks, NewKafkaSink(cfg.Kafka))
		}
	}
	return NewPublisher(pool, lg, sinks...)
}

// Sinks 返回推送目标名称
func (p *Publisher) Sinks() []string {
	names := make([]string, 0, len(p.sinks))
	for _, s := range p.sinks {
		names = append(names, s.Name())
	}
	return names
}

// Publish implements audit.Publisher
func (p *Publisher) Publish(ctx context.Context, rec *domain.HistoryRecord) {
	if len(p.sinks) == 0 || rec == nil {
		return
	}
	env := NewEnvelope(rec)
	payload, err := env.Encode()
	if err != nil {
		p.logger.Error("feed encode failed", zap.String(logger.FieldHistoryID, rec.ID), zap.Error(err))
		return
	}

	// 请求结束后仍需完成推送
	bg := context.WithoutCancel(ctx)
	deliver := func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()
		return p.deliver(ctx, env, payload)
	}

	if p.pool == nil {
		_ = deliver(bg)
		return
	}
	if err := p.pool.SubmitAsync(bg, deliver); err != nil {
		publishTotal.WithLabelValues("pool", "dropped").Inc()
		p.logger.Warn("feed publish dropped",
			zap.String(logger.FieldHistoryID, rec.ID),
			zap.Error(err))
	}
}

func (p *Publisher) deliver(ctx context.Context, env *Envelope, payload []byte) error {
	var errs []error
	for _, s := range p.sinks {
		if err := s.Send(ctx, env, payload); err != nil {
			publishTotal.WithLabelValues(s.Name(), "failed").Inc()
			p.logger.Warn("feed publish failed",
				zap.String(logger.FieldSink, s.Name()),
				zap.String(logger.FieldHistoryID, env.ID),
				zap.String(logger.FieldEntityType, env.EntityType),
				zap.String(logger.FieldEntityID, env.EntityID),
				zap.Error(err))
			errs = append(errs, err)
			continue
		}
		publishTotal.WithLabelValues(s.Name(), "ok").Inc()
	}
	return errors.Join(errs...)
}

// Close 关闭全部推送目标
func (p *Publisher) Close() error {
	var errs []error
	for _, s := range p.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
