// Package audit records field level history for every mutation of a tracked entity
// Package audit 为被审计实体的每次变更记录字段级历史
package audit

import (
	"context"

	"github.com/google/uuid"
)

// Annotation optional notes stored on every history record of one write
// Annotation 附加在同一次写操作所有历史记录上的说明
type Annotation struct {
	Reason         string
	ReferenceID    string
	ReferenceModel string
	Notes          string
}

// ActorContext carries who performs a write, passed explicitly with every mutation
// ActorContext 描述写操作的执行者，随每次变更显式传递
type ActorContext struct {
	// Session actor attached to the write by the caller, usually the authenticated user
	// Session 调用方为本次写入指定的操作人，通常为当前登录用户
	Session *uuid.UUID
	// Options actor carried through the operation options, for example by a job acting for a user
	// Options 通过操作参数传入的操作人，例如代替用户执行的任务
	Options *uuid.UUID

	Annotation
}

// Session builds an ActorContext for the given session user
func Session(id uuid.UUID) ActorContext {
	return ActorContext{Session: &id}
}

// System builds an ActorContext without any actor
func System() ActorContext {
	return ActorContext{}
}

// WithOptions returns a copy carrying an options actor
func (ac ActorContext) WithOptions(id uuid.UUID) ActorContext {
	ac.Options = &id
	return ac
}

// WithAnnotation returns a copy carrying the annotation
func (ac ActorContext) WithAnnotation(a Annotation) ActorContext {
	ac.Annotation = a
	return ac
}

// ResolveActor picks the actor of a mutation: the session actor first, then the options actor,
// then the updated_by value already on the entity. It returns nil when none is known.
// ResolveActor 确定变更的操作人：优先 Session，其次 Options，再次实体上的 updated_by，都没有时返回 nil
func ResolveActor(ac ActorContext, updatedBy *uuid.UUID) *uuid.UUID {
	for _, candidate := range []*uuid.UUID{ac.Session, ac.Options, updatedBy} {
		if candidate != nil && *candidate != uuid.Nil {
			id := *candidate
			return &id
		}
	}
	return nil
}

type actorKey struct{}

// WithActor stores the authenticated user on a request context
// WithActor 将当前登录用户写入请求上下文
func WithActor(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, actorKey{}, id)
}

// ActorFromContext returns the authenticated user stored by WithActor
// ActorFromContext 获取 WithActor 写入的当前登录用户
func ActorFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(actorKey{}).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// FromContext builds an ActorContext whose session actor is the request user, if any
// FromContext 以请求上下文中的当前用户作为 Session 构造 ActorContext
func FromContext(ctx context.Context) ActorContext {
	if id, ok := ActorFromContext(ctx); ok {
		return Session(id)
	}
	return System()
}
