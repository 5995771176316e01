// Package dto Defines data transfer objects (request parameters and response structs)
// Package dto 定义数据传输对象（请求参数和响应结构体）
package dto

// AuditNote Optional notes stored on every history record of a write
// AuditNote 写入请求可选的审计说明，保存到本次写入的每条历史记录
type AuditNote struct {
	Reason         string `json:"reason" form:"reason" binding:"omitempty,max=255"`                 // Why the change was made // 变更原因
	ReferenceID    string `json:"referenceId" form:"referenceId" binding:"omitempty,max=64"`       // Related document ID // 关联单据 ID
	ReferenceModel string `json:"referenceModel" form:"referenceModel" binding:"omitempty,max=64"` // Related document type // 关联单据类型
	Notes          string `json:"notes" form:"notes" binding:"omitempty,max=1000"`                 // Free text // 备注
}

// IDRequest Path identifier
// IDRequest 路径参数中的实体 ID
type IDRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}
