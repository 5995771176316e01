package dto

import (
	"github.com/google/uuid"
	"github.com/haierkeys/inventory-audit-service/pkg/timex"
)

// CategoryCreateRequest Category creation parameters
// CategoryCreateRequest 创建分类请求参数
type CategoryCreateRequest struct {
	Name        string `json:"name" form:"name" binding:"required,trimmed_min3,max=50"` // Category name, stored upper-cased // 分类名称，保存为大写
	Description string `json:"description" form:"description" binding:"max=255"`        // Description // 描述
	AuditNote
}

// CategoryDTO Category data transfer object
// CategoryDTO 分类数据传输对象
type CategoryDTO struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Active      bool       `json:"active"`
	UpdatedAt   timex.Time `json:"updatedAt"`
	CreatedAt   timex.Time `json:"createdAt"`
}
