package dto

import (
	"github.com/google/uuid"
	"github.com/haierkeys/inventory-audit-service/pkg/timex"
)

// StockCreateRequest Stock creation parameters
// StockCreateRequest 创建库存请求参数
type StockCreateRequest struct {
	ProductID string `json:"productId" form:"productId" binding:"required,uuid"`
	Quantity  *int64 `json:"quantity" form:"quantity" binding:"required,gte=0"`
	AuditNote
}

// StockPatchRequest Only the quantity may be changed
// StockPatchRequest 仅允许修改数量
type StockPatchRequest struct {
	Quantity *int64 `json:"quantity" binding:"required,gte=0"`
	AuditNote
}

// StockPatchFields JSON keys accepted by the stock targeted update
// StockPatchFields 库存定向更新允许的 JSON 键
var StockPatchFields = []string{"quantity", "reason", "referenceId", "referenceModel", "notes"}

// StockDTO Stock with product and category details
// StockDTO 库存及其商品、分类信息
type StockDTO struct {
	ID                 uuid.UUID  `json:"id"`
	ProductID          uuid.UUID  `json:"productId"`
	ProductName        string     `json:"productName,omitempty"`
	ProductDescription string     `json:"productDescription,omitempty"`
	ProductPrice       float64    `json:"productPrice,omitempty"`
	ProductSKU         string     `json:"productSku,omitempty"`
	CategoryName       string     `json:"categoryName,omitempty"`
	Quantity           int64      `json:"quantity"`
	Active             bool       `json:"active"`
	UpdatedAt          timex.Time `json:"updatedAt"`
	CreatedAt          timex.Time `json:"createdAt"`
}
