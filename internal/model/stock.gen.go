package model

import (
	"github.com/google/uuid"
	"github.com/haierkeys/inventory-audit-service/pkg/timex"
)

const TableNameStock = "stock"

// Stock mapped from table <stock>
type Stock struct {
	ID        uuid.UUID  `gorm:"column:id;type:varchar(36);primaryKey" json:"id" form:"id"`
	ProductID uuid.UUID  `gorm:"column:product_id;type:varchar(36);not null;index:idx_stock_product" json:"productId" form:"productId"`
	Quantity  int64      `gorm:"column:quantity;not null;default:0" json:"quantity" form:"quantity"`
	Active    bool       `gorm:"column:active;not null;default:true;index:idx_stock_product" json:"active" form:"active"`
	Version   int64      `gorm:"column:version;not null;default:1" json:"version" form:"version"`
	UpdatedBy *uuid.UUID `gorm:"column:updated_by;type:varchar(36)" json:"updatedBy" form:"updatedBy"`
	CreatedAt timex.Time `gorm:"column:created_at;autoCreateTime:false" json:"createdAt" form:"createdAt"`
	UpdatedAt timex.Time `gorm:"column:updated_at;autoUpdateTime:false" json:"updatedAt" form:"updatedAt"`
}

// TableName Stock's table name
func (*Stock) TableName() string {
	return TableNameStock
}
