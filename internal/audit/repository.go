package audit

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/haierkeys/inventory-audit-service/internal/domain"
)

// Serializer runs functions sharing a key one at a time
// Serializer 串行执行同一键的函数
type Serializer interface {
	Execute(ctx context.Context, key string, fn func() error) error
}

// AuditedRepository wraps a repository so every create, targeted update and soft delete
// leaves a history record.
// AuditedRepository 包装实体仓储，使每次创建、定向更新与软删除都生成历史记录
type AuditedRepository[E domain.Entity] struct {
	entityType string
	repo       domain.Repository[E]
	capture    *Capture
	queue      Serializer
}

// NewAuditedRepository wraps repo. queue may be nil, in which case concurrent updates of one
// entity are not serialized.
// NewAuditedRepository 包装 repo，queue 为 nil 时同一实体的并发更新不做串行化
func NewAuditedRepository[E domain.Entity](entityType string, repo domain.Repository[E], capture *Capture, queue Serializer) *AuditedRepository[E] {
	return &AuditedRepository[E]{
		entityType: entityType,
		repo:       repo,
		capture:    capture,
		queue:      queue,
	}
}

// FindByID passes through to the wrapped repository
func (r *AuditedRepository[E]) FindByID(ctx context.Context, id uuid.UUID) (E, error) {
	return r.repo.FindByID(ctx, id)
}

// FindOne passes through to the wrapped repository
func (r *AuditedRepository[E]) FindOne(ctx context.Context, q domain.Query) (E, error) {
	return r.repo.FindOne(ctx, q)
}

// Create persists e and records a CREATE event
// Create 持久化实体并记录 CREATE 事件
func (r *AuditedRepository[E]) Create(ctx context.Context, ac ActorContext, e E) (E, error) {
	created, err := r.repo.Create(ctx, e)
	if err != nil {
		return created, err
	}
	r.capture.OnCreate(ctx, ac, created)
	return created, nil
}

// Update applies a targeted update to the first entity matched by q.
// A patch setting active to false is recorded as DELETE, anything else as UPDATE of the
// touched fields. A missing entity returns domain.ErrNotFound and records nothing.
// Update 对 q 匹配的第一个实体执行定向更新
// 将 active 置为 false 的更新记录为 DELETE，其余记录为所涉及字段的 UPDATE
// 实体不存在时返回 domain.ErrNotFound，不记录历史
func (r *AuditedRepository[E]) Update(ctx context.Context, ac ActorContext, q domain.Query, p domain.Patch) (E, error) {
	p = r.stamp(ac, p)

	run := func() (E, error) {
		var zero E
		before, err := r.repo.FindOne(ctx, q)
		if err != nil {
			return zero, err
		}

		updated, err := r.repo.UpdateOne(ctx, q, p)
		if err != nil {
			return zero, err
		}

		after, err := r.repo.FindByID(ctx, updated.EntityID())
		if err != nil {
			r.capture.Abandon(r.entityType, updated.EntityID(), err)
			return updated, nil
		}

		if p.IsSoftDelete() {
			r.capture.OnDelete(ctx, ac, before)
		} else {
			r.capture.OnUpdate(ctx, ac, before, after, p)
		}
		return updated, nil
	}

	// 事务内的步骤不经过队列，与事务外同一实体的并发写入之间为尽力而为
	if r.queue == nil || InAtomicScope(ctx) {
		return run()
	}

	// Execute 只在 fn 未开始时放弃等待，fn 返回 nil 时结果已在通道中
	result := make(chan E, 1)
	err := r.queue.Execute(ctx, r.key(q), func() error {
		updated, err := run()
		if err != nil {
			return err
		}
		result <- updated
		return nil
	})
	if err != nil {
		var zero E
		return zero, err
	}
	return <-result, nil
}

// SoftDelete marks the first entity matched by q inactive and records a DELETE event
// SoftDelete 将 q 匹配的实体标记为无效并记录 DELETE 事件
func (r *AuditedRepository[E]) SoftDelete(ctx context.Context, ac ActorContext, q domain.Query) (E, error) {
	return r.Update(ctx, ac, q, domain.SoftDeletePatch())
}

// stamp records the resolved actor as updated_by unless the patch sets it
func (r *AuditedRepository[E]) stamp(ac ActorContext, p domain.Patch) domain.Patch {
	actor := ResolveActor(ac, nil)
	if actor == nil || p.Has("updated_by") {
		return p
	}
	out := domain.NewPatch()
	for _, name := range p.Fields() {
		v, _ := p.Get(name)
		out.Set(name, v)
	}
	out.Set("updated_by", actor)
	return out
}

// key identifies the entity an update targets, "<type>:<id>" when q selects by id
func (r *AuditedRepository[E]) key(q domain.Query) string {
	if id, ok := q["id"]; ok {
		return fmt.Sprintf("%s:%v", r.entityType, id)
	}
	cols := make([]string, 0, len(q))
	for k := range q {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	var b strings.Builder
	b.WriteString(r.entityType)
	for _, k := range cols {
		fmt.Fprintf(&b, ":%s=%v", k, q[k])
	}
	return b.String()
}
