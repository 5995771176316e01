package model

import (
	"github.com/google/uuid"
	"github.com/haierkeys/inventory-audit-service/pkg/timex"
)

const TableNameRole = "role"

// Role mapped from table <role>
type Role struct {
	ID        uuid.UUID  `gorm:"column:id;type:varchar(36);primaryKey" json:"id" form:"id"`
	Label     string     `gorm:"column:label;size:64;not null;uniqueIndex:idx_role_label" json:"label" form:"label"`
	Active    bool       `gorm:"column:active;not null;default:true" json:"active" form:"active"`
	CreatedAt timex.Time `gorm:"column:created_at;autoCreateTime:false" json:"createdAt" form:"createdAt"`
	UpdatedAt timex.Time `gorm:"column:updated_at;autoUpdateTime:false" json:"updatedAt" form:"updatedAt"`
}

// TableName Role's table name
func (*Role) TableName() string {
	return TableNameRole
}
