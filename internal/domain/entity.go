// Package domain 定义领域模型和接口
package domain

import (
	"errors"

	"github.com/google/uuid"
	"github.com/haierkeys/inventory-audit-service/pkg/diff"
)

// Tracked entity kinds
// 被审计的实体类型
const (
	EntityCategory = "Category"
	EntityProduct  = "Product"
	EntityStock    = "Stock"
	EntityUser     = "User"
)

// TrackedTypes lists every audited entity kind
var TrackedTypes = []string{EntityCategory, EntityProduct, EntityStock, EntityUser}

// IsTrackedType reports whether name is an audited entity kind
func IsTrackedType(name string) bool {
	for _, t := range TrackedTypes {
		if t == name {
			return true
		}
	}
	return false
}

var (
	// ErrNotFound no entity matched the query
	// ErrNotFound 没有匹配查询条件的实体
	ErrNotFound = errors.New("entity not found")
	// ErrConflict a unique key is already taken
	// ErrConflict 唯一键冲突
	ErrConflict = errors.New("entity conflict")
)

// Entity is a persisted object whose mutations are audited
// Entity 被审计的持久化对象
type Entity interface {
	// EntityType 实体类型名称，例如 "Product"
	EntityType() string
	// EntityID 实体唯一标识
	EntityID() uuid.UUID
	// Snapshot 实体当前全部字段值，键为列名
	Snapshot() diff.Snapshot
	// UpdatedByID 最近一次写入者，可能为 nil
	UpdatedByID() *uuid.UUID
}

// Query selects entities by column equality
// Query 按列相等条件匹配实体
type Query map[string]any

// ByID matches one entity by identifier
func ByID(id uuid.UUID) Query {
	return Query{"id": id}
}

// ActiveByID matches one active entity by identifier
func ActiveByID(id uuid.UUID) Query {
	return Query{"id": id, "active": true}
}

// With returns a copy of q with one more condition
func (q Query) With(column string, value any) Query {
	out := make(Query, len(q)+1)
	for k, v := range q {
		out[k] = v
	}
	out[column] = value
	return out
}

// Patch is the ordered set of column assignments of a targeted update
// Patch 定向更新的列赋值集合（保持顺序）
type Patch struct {
	diff.Snapshot
}

// NewPatch builds a Patch
func NewPatch(fields ...diff.Field) Patch {
	return Patch{Snapshot: diff.Of(fields...)}
}

// SoftDeletePatch marks an entity inactive
func SoftDeletePatch() Patch {
	return NewPatch(diff.F("active", false))
}

// IsSoftDelete reports whether the patch explicitly sets active to false
// IsSoftDelete 更新内容是否显式将 active 置为 false
func (p Patch) IsSoftDelete() bool {
	v, ok := p.Get("active")
	if !ok {
		return false
	}
	active, isBool := v.(bool)
	return isBool && !active
}
