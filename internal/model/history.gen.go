package model

import (
	"github.com/google/uuid"
)

const TableNameHistory = "history"

// History mapped from table <history>
// 只追加，不更新不删除
type History struct {
	ID             string     `gorm:"column:id;type:varchar(26);primaryKey" json:"id" form:"id"`
	EntityType     string     `gorm:"column:entity_type;size:32;not null;index:idx_history_entity,priority:1" json:"entityType" form:"entityType"`
	EntityID       uuid.UUID  `gorm:"column:entity_id;type:varchar(36);not null;index:idx_history_entity,priority:2" json:"entityId" form:"entityId"`
	Action         string     `gorm:"column:action;size:16;not null" json:"action" form:"action"`
	ActorID        *uuid.UUID `gorm:"column:actor_id;type:varchar(36)" json:"actorId" form:"actorId"`
	Changes        string     `gorm:"column:changes;type:text" json:"changes" form:"changes"`
	Reason         string     `gorm:"column:reason;size:255" json:"reason" form:"reason"`
	ReferenceID    string     `gorm:"column:reference_id;size:64" json:"referenceId" form:"referenceId"`
	ReferenceModel string     `gorm:"column:reference_model;size:64" json:"referenceModel" form:"referenceModel"`
	Notes          string     `gorm:"column:notes;type:text" json:"notes" form:"notes"`
	Timestamp      int64      `gorm:"column:timestamp;not null;index:idx_history_entity,priority:3" json:"timestamp" form:"timestamp"`
}

// TableName History's table name
func (*History) TableName() string {
	return TableNameHistory
}
