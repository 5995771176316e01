package audit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/haierkeys/inventory-audit-service/internal/domain"
	"github.com/haierkeys/inventory-audit-service/pkg/diff"
	"github.com/haierkeys/inventory-audit-service/pkg/logger"

	"go.uber.org/zap"
)

// Publisher receives every history record after it has been durably appended.
// Publish must not block the caller.
// Publisher 接收已持久化的历史记录，Publish 不得阻塞调用方
type Publisher interface {
	Publish(ctx context.Context, rec *domain.HistoryRecord)
}

// Capture sequences diffing, actor resolution and history persistence for one mutation.
// Errors and panics inside Capture are logged and counted, never returned: a lost history
// record must not fail the business write.
// Capture 负责一次变更的差异计算、操作人确定与历史写入
// Capture 内部的错误与 panic 只记录日志和指标，不向调用方返回
type Capture struct {
	store     domain.HistoryRepository // 历史记录仓储
	logger    *zap.Logger              // 日志器
	exclude   diff.FieldSet            // 不参与比较的系统字段
	clock     func() time.Time         // 时间来源
	publisher Publisher                // 变更推送，可为 nil
}

// Option configures a Capture
type Option func(*Capture)

// WithPublisher forwards appended records to p
func WithPublisher(p Publisher) Option {
	return func(c *Capture) { c.publisher = p }
}

// WithClock overrides the record timestamp source
func WithClock(clock func() time.Time) Option {
	return func(c *Capture) { c.clock = clock }
}

// WithExcludedFields replaces the default system field set
func WithExcludedFields(fields diff.FieldSet) Option {
	return func(c *Capture) { c.exclude = fields }
}

// NewCapture creates a Capture writing to store
// NewCapture 创建写入 store 的 Capture
func NewCapture(store domain.HistoryRepository, lg *zap.Logger, opts ...Option) *Capture {
	if lg == nil {
		lg = zap.NewNop()
	}
	c := &Capture{
		store:   store,
		logger:  lg,
		exclude: diff.SystemFields,
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnCreate records a CREATE event holding every initial field value of a persisted entity
// OnCreate 记录 CREATE 事件，包含新实体全部字段的初始值
func (c *Capture) OnCreate(ctx context.Context, ac ActorContext, e domain.Entity) {
	defer c.recover(e, stageDiff)

	changes := diff.Diff(diff.Snapshot{}, e.Snapshot(), c.exclude)
	c.write(ctx, c.newRecord(ac, e, domain.ActionCreate, changes))
}

// OnUpdate records an UPDATE event for the fields touched by p, if any of them changed
// OnUpdate 仅比较 p 涉及的字段，有变化时记录 UPDATE 事件
func (c *Capture) OnUpdate(ctx context.Context, ac ActorContext, before, after domain.Entity, p domain.Patch) {
	defer c.recover(after, stageDiff)

	touched := p.Fields()
	changes := diff.Diff(before.Snapshot().Project(touched...), after.Snapshot().Project(touched...), c.exclude)
	if len(changes) == 0 {
		return
	}
	c.write(ctx, c.newRecord(ac, after, domain.ActionUpdate, changes))
}

// OnDelete records a DELETE event retracting every field of the pre-delete snapshot
// OnDelete 记录 DELETE 事件，内容为删除前快照到空的差异
func (c *Capture) OnDelete(ctx context.Context, ac ActorContext, before domain.Entity) {
	defer c.recover(before, stageDiff)

	changes := diff.Retract(before.Snapshot(), c.exclude)
	c.write(ctx, c.newRecord(ac, before, domain.ActionDelete, changes))
}

// Abandon logs a mutation whose history cannot be computed
// Abandon 记录无法生成历史的变更
func (c *Capture) Abandon(entityType string, id fmt.Stringer, err error) {
	failuresTotal.WithLabelValues(entityType, stageSnapshot).Inc()
	c.logger.Warn("audit snapshot unavailable, history skipped",
		zap.String(logger.FieldEntityType, entityType),
		zap.String(logger.FieldEntityID, id.String()),
		zap.Error(err))
}

func (c *Capture) newRecord(ac ActorContext, e domain.Entity, action domain.Action, changes []diff.Change) *domain.HistoryRecord {
	return &domain.HistoryRecord{
		EntityType:     e.EntityType(),
		EntityID:       e.EntityID(),
		Action:         action,
		ActorID:        ResolveActor(ac, e.UpdatedByID()),
		Changes:        changes,
		Reason:         ac.Reason,
		ReferenceID:    ac.ReferenceID,
		ReferenceModel: ac.ReferenceModel,
		Notes:          ac.Notes,
	}
}

// write buffers the record inside an atomic scope, otherwise appends it now
func (c *Capture) write(ctx context.Context, rec *domain.HistoryRecord) {
	if buf := pendingFrom(ctx); buf != nil {
		buf.add(rec)
		return
	}
	c.persist(ctx, rec)
}

// flush appends records buffered by a committed atomic scope, in order
func (c *Capture) flush(ctx context.Context, records []*domain.HistoryRecord) {
	for _, rec := range records {
		c.persist(ctx, rec)
	}
}

func (c *Capture) persist(ctx context.Context, rec *domain.HistoryRecord) {
	rec.Timestamp = c.clock()

	id, err := c.store.Append(ctx, rec)
	if err != nil {
		failuresTotal.WithLabelValues(rec.EntityType, stageAppend).Inc()
		c.logger.Error("audit history append failed",
			zap.String(logger.FieldEntityType, rec.EntityType),
			zap.String(logger.FieldEntityID, rec.EntityID.String()),
			zap.String(logger.FieldAction, string(rec.Action)),
			zap.Error(err))
		return
	}
	rec.ID = id
	recordsTotal.WithLabelValues(rec.EntityType, string(rec.Action)).Inc()

	c.logger.Debug("audit history appended",
		zap.String(logger.FieldHistoryID, id),
		zap.String(logger.FieldEntityType, rec.EntityType),
		zap.String(logger.FieldEntityID, rec.EntityID.String()),
		zap.String(logger.FieldAction, string(rec.Action)),
		zap.Int("changes", len(rec.Changes)))

	if c.publisher != nil {
		c.publisher.Publish(ctx, rec)
	}
}

func (c *Capture) recover(e domain.Entity, stage string) {
	r := recover()
	if r == nil {
		return
	}
	entityType := "unknown"
	if e != nil {
		entityType = e.EntityType()
	}
	failuresTotal.WithLabelValues(entityType, stage).Inc()
	c.logger.Error("audit capture panic",
		zap.String(logger.FieldEntityType, entityType),
		zap.Any("panic", r),
		zap.Stack("stack"))
}

// pending holds records of an atomic scope until it commits
// pending 暂存原子操作范围内的历史记录，提交后再写入
type pending struct {
	mu      sync.Mutex
	records []*domain.HistoryRecord
}

func (p *pending) add(rec *domain.HistoryRecord) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.records = append(p.records, rec)
}

func (p *pending) drain() []*domain.HistoryRecord {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := p.records
	p.records = nil
	return out
}

func (p *pending) len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.records)
}

type pendingKey struct{}

func withPending(ctx context.Context) (context.Context, *pending) {
	buf := &pending{}
	return context.WithValue(ctx, pendingKey{}, buf), buf
}

func pendingFrom(ctx context.Context) *pending {
	buf, _ := ctx.Value(pendingKey{}).(*pending)
	return buf
}

// InAtomicScope reports whether ctx belongs to a running atomic scope
// InAtomicScope 判断 ctx 是否处于原子操作范围内
func InAtomicScope(ctx context.Context) bool {
	return pendingFrom(ctx) != nil
}
