package model

import (
	"github.com/google/uuid"
	"github.com/haierkeys/inventory-audit-service/pkg/timex"
)

const TableNameProduct = "product"

// Product mapped from table <product>
type Product struct {
	ID          uuid.UUID  `gorm:"column:id;type:varchar(36);primaryKey" json:"id" form:"id"`
	Name        string     `gorm:"column:name;size:255;not null;index:idx_product_name" json:"name" form:"name"`
	Description string     `gorm:"column:description;size:1024" json:"description" form:"description"`
	CategoryID  uuid.UUID  `gorm:"column:category_id;type:varchar(36);not null;index:idx_product_category" json:"categoryId" form:"categoryId"`
	Price       float64    `gorm:"column:price;not null;default:0" json:"price" form:"price"`
	SKU         string     `gorm:"column:sku;size:64;index:idx_product_sku" json:"sku" form:"sku"`
	Active      bool       `gorm:"column:active;not null;default:true;index:idx_product_name" json:"active" form:"active"`
	Version     int64      `gorm:"column:version;not null;default:1" json:"version" form:"version"`
	UpdatedBy   *uuid.UUID `gorm:"column:updated_by;type:varchar(36)" json:"updatedBy" form:"updatedBy"`
	CreatedAt   timex.Time `gorm:"column:created_at;autoCreateTime:false" json:"createdAt" form:"createdAt"`
	UpdatedAt   timex.Time `gorm:"column:updated_at;autoUpdateTime:false" json:"updatedAt" form:"updatedAt"`
}

// TableName Product's table name
func (*Product) TableName() string {
	return TableNameProduct
}
