package model

import (
	"github.com/google/uuid"
	"github.com/haierkeys/inventory-audit-service/pkg/timex"
)

const TableNameCategory = "category"

// Category mapped from table <category>
type Category struct {
	ID          uuid.UUID  `gorm:"column:id;type:varchar(36);primaryKey" json:"id" form:"id"`
	Name        string     `gorm:"column:name;size:255;not null;index:idx_category_name" json:"name" form:"name"`
	Description string     `gorm:"column:description;size:1024" json:"description" form:"description"`
	Active      bool       `gorm:"column:active;not null;default:true;index:idx_category_name" json:"active" form:"active"`
	Version     int64      `gorm:"column:version;not null;default:1" json:"version" form:"version"`
	UpdatedBy   *uuid.UUID `gorm:"column:updated_by;type:varchar(36)" json:"updatedBy" form:"updatedBy"`
	CreatedAt   timex.Time `gorm:"column:created_at;autoCreateTime:false" json:"createdAt" form:"createdAt"`
	UpdatedAt   timex.Time `gorm:"column:updated_at;autoUpdateTime:false" json:"updatedAt" form:"updatedAt"`
}

// TableName Category's table name
func (*Category) TableName() string {
	return TableNameCategory
}
