package dto

import (
	"github.com/google/uuid"
	"github.com/haierkeys/inventory-audit-service/pkg/diff"
)

// HistoryListRequest History lookup parameters
// HistoryListRequest 历史记录查询参数
type HistoryListRequest struct {
	Model    string `uri:"model" binding:"required"`
	ID       string `uri:"id" binding:"required,uuid"`
	Page     int    `form:"page" binding:"omitempty,gte=1"`
	PageSize int    `form:"pageSize" binding:"omitempty,gte=1,lte=100"`
}

// HistoryActorDTO Expanded actor of a history record
// HistoryActorDTO 历史记录操作人信息
type HistoryActorDTO struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Role      string `json:"role,omitempty"`
}

// HistoryChangeDTO One changed field
// HistoryChangeDTO 单个字段的变更
type HistoryChangeDTO struct {
	Field string `json:"field"`
	From  any    `json:"from"`
	To    any    `json:"to"`
	// Patch character level diff, only for text to text changes
	// Patch 字符级补丁，仅文本到文本的变更才有
	Patch string `json:"patch,omitempty"`
}

// HistoryDTO History record as returned by the read API
// HistoryDTO 历史记录查询结果
type HistoryDTO struct {
	ID             string             `json:"id"`
	EntityType     string             `json:"model"`
	EntityID       uuid.UUID          `json:"entityId"`
	Action         string             `json:"action"`
	ActorID        *uuid.UUID         `json:"actorId"`
	Actor          *HistoryActorDTO   `json:"actor"`
	Changes        []HistoryChangeDTO `json:"changes"`
	Reason         string             `json:"reason,omitempty"`
	ReferenceID    string             `json:"referenceId,omitempty"`
	ReferenceModel string             `json:"referenceModel,omitempty"`
	Notes          string             `json:"notes,omitempty"`
	Timestamp      int64              `json:"timestamp"` // Unix milliseconds // 毫秒时间戳
}

// NewHistoryChanges converts diff changes, adding a text patch to string changes
// NewHistoryChanges 转换字段变更，文本到文本的变更附加字符级补丁
func NewHistoryChanges(changes []diff.Change) []HistoryChangeDTO {
	out := make([]HistoryChangeDTO, 0, len(changes))
	for _, c := range changes {
		item := HistoryChangeDTO{Field: c.Field, From: c.From, To: c.To}
		from, okFrom := c.From.(string)
		to, okTo := c.To.(string)
		if okFrom && okTo {
			item.Patch = diff.TextPatch(from, to)
		}
		out = append(out, item)
	}
	return out
}
