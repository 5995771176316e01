package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/haierkeys/inventory-audit-service/internal/audit"
	"github.com/haierkeys/inventory-audit-service/internal/domain"
	"github.com/haierkeys/inventory-audit-service/internal/dto"
	"github.com/haierkeys/inventory-audit-service/pkg/code"
	"gorm.io/gorm"
)

// actorFor builds the ActorContext of a write from the request context and its audit note
// actorFor 由请求上下文中的当前用户和审计说明构造 ActorContext
func actorFor(ctx context.Context, note dto.AuditNote) audit.ActorContext {
	return audit.FromContext(ctx).WithAnnotation(audit.Annotation{
		Reason:         note.Reason,
		ReferenceID:    note.ReferenceID,
		ReferenceModel: note.ReferenceModel,
		Notes:          note.Notes,
	})
}

// storeError maps a repository error to a result code
// 未找到映射为 notFound，唯一键冲突映射为 conflict，其余为数据库错误
func storeError(err error, notFound, conflict *code.Code) error {
	if err == nil {
		return nil
	}
	var c *code.Code
	if errors.As(err, &c) {
		return c
	}
	if notFound != nil && (errors.Is(err, domain.ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)) {
		return notFound
	}
	if conflict != nil && errors.Is(err, domain.ErrConflict) {
		return conflict
	}
	return code.ErrorDBQuery.WithDetails(err.Error())
}

// parseID 解析 UUID 格式的实体 ID
func parseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, code.ErrorInvalidID
	}
	return id, nil
}
