package dto

import (
	"github.com/google/uuid"
	"github.com/haierkeys/inventory-audit-service/pkg/timex"
)

// ProductCreateRequest Product creation parameters
// ProductCreateRequest 创建商品请求参数
type ProductCreateRequest struct {
	Name        string  `json:"name" form:"name" binding:"required,trimmed_min3,max=20"`               // Product name // 商品名称
	Description string  `json:"description" form:"description" binding:"required,trimmed_min3,max=50"` // Description // 描述
	CategoryID  string  `json:"categoryId" form:"categoryId" binding:"required,uuid"`                  // Category ID // 分类 ID
	Price       float64 `json:"price" form:"price" binding:"required,gte=1"`                           // Unit price // 单价
	SKU         string  `json:"sku" form:"sku" binding:"required,max=64"`                              // Stock keeping unit // 库存单位编码
	AuditNote
}

// ProductPatchRequest Targeted product update, nil fields are left untouched
// ProductPatchRequest 商品定向更新参数，为 nil 的字段不修改
// Only description, categoryId and price may be changed; any other key is rejected.
// 仅允许修改 description、categoryId、price，其余字段一律拒绝
type ProductPatchRequest struct {
	Description *string  `json:"description" binding:"omitempty,trimmed_min3,max=50"`
	CategoryID  *string  `json:"categoryId" binding:"omitempty,uuid"`
	Price       *float64 `json:"price" binding:"omitempty,gte=1"`
	AuditNote
}

// IsEmpty 没有任何需要修改的字段
func (r *ProductPatchRequest) IsEmpty() bool {
	return r.Description == nil && r.CategoryID == nil && r.Price == nil
}

// ProductPatchFields JSON keys accepted by the product targeted update
// ProductPatchFields 商品定向更新允许的 JSON 键
var ProductPatchFields = []string{"description", "categoryId", "price", "reason", "referenceId", "referenceModel", "notes"}

// ProductFullUpdateRequest Product and stock updated together
// ProductFullUpdateRequest 商品与库存整体更新参数，全部必填
type ProductFullUpdateRequest struct {
	Price       *float64 `json:"price" binding:"required,gte=1"`
	Description *string  `json:"description" binding:"required,trimmed_min3,max=50"`
	CategoryID  *string  `json:"categoryId" binding:"required,uuid"`
	Quantity    *int64   `json:"quantity" binding:"required,gte=0"`
	AuditNote
}

// Complete 全部字段均已提供
func (r *ProductFullUpdateRequest) Complete() bool {
	return r.Price != nil && r.Description != nil && r.CategoryID != nil && r.Quantity != nil
}

// ProductDTO Product data transfer object
// ProductDTO 商品数据传输对象
type ProductDTO struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	CategoryID   uuid.UUID  `json:"categoryId"`
	CategoryName string     `json:"categoryName,omitempty"`
	Price        float64    `json:"price"`
	SKU          string     `json:"sku"`
	Active       bool       `json:"active"`
	UpdatedAt    timex.Time `json:"updatedAt"`
	CreatedAt    timex.Time `json:"createdAt"`
}

// ProductFullUpdateDTO Result of a full update
// ProductFullUpdateDTO 整体更新结果
type ProductFullUpdateDTO struct {
	Product *ProductDTO `json:"product"`
	Stock   *StockDTO   `json:"stock"`
}
