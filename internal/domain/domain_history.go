package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/haierkeys/inventory-audit-service/pkg/diff"
)

// Action 历史记录动作类型
type Action string

const (
	ActionCreate Action = "CREATE"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
)

// Valid reports whether a is one of the three known actions
func (a Action) Valid() bool {
	switch a {
	case ActionCreate, ActionUpdate, ActionDelete:
		return true
	}
	return false
}

// HistoryRecord is an immutable audit event describing one mutation of one entity
// HistoryRecord 描述一次实体变更的不可变审计记录
type HistoryRecord struct {
	ID         string
	EntityType string
	EntityID   uuid.UUID
	Action     Action
	// ActorID nil when the actor could not be resolved
	// ActorID 无法确定操作人时为 nil
	ActorID *uuid.UUID
	Changes []diff.Change

	Reason         string
	ReferenceID    string
	ReferenceModel string
	Notes          string

	Timestamp time.Time
}
