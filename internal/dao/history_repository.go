package dao

import (
	"context"
	"crypto/rand"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/haierkeys/inventory-audit-service/internal/domain"
	"github.com/haierkeys/inventory-audit-service/internal/model"
	"github.com/haierkeys/inventory-audit-service/pkg/diff"
	"github.com/haierkeys/inventory-audit-service/pkg/logger"
	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// historyRepository 实现 domain.HistoryRepository 接口
// 只追加，不提供修改与删除
type historyRepository struct {
	dao *Dao

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewHistoryRepository 创建 HistoryRepository 实例
func NewHistoryRepository(dao *Dao) domain.HistoryRepository {
	return &historyRepository{
		dao:     dao,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// nextID 生成按时间单调递增的记录ID
func (r *historyRepository) nextID(t time.Time) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, err := ulid.New(ulid.Timestamp(t), r.entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// toDomain 将数据库模型转换为领域模型
func (r *historyRepository) toDomain(m *model.History) *domain.HistoryRecord {
	if m == nil {
		return nil
	}
	rec := &domain.HistoryRecord{
		ID:             m.ID,
		EntityType:     m.EntityType,
		EntityID:       m.EntityID,
		Action:         domain.Action(m.Action),
		ActorID:        m.ActorID,
		Reason:         m.Reason,
		ReferenceID:    m.ReferenceID,
		ReferenceModel: m.ReferenceModel,
		Notes:          m.Notes,
		Timestamp:      time.UnixMilli(m.Timestamp),
	}
	if m.Changes != "" {
		var changes []diff.Change
		if err := sonic.UnmarshalString(m.Changes, &changes); err != nil {
			r.dao.Logger().Warn("history changes decode failed",
				zap.String(logger.FieldHistoryID, m.ID),
				zap.Error(err))
		}
		rec.Changes = changes
	}
	return rec
}

// Append 追加一条历史记录
func (r *historyRepository) Append(ctx context.Context, rec *domain.HistoryRecord) (string, error) {
	if !rec.Action.Valid() {
		return "", errors.Errorf("invalid history action %q", rec.Action)
	}
	ts := rec.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	changes, err := sonic.MarshalString(rec.Changes)
	if err != nil {
		return "", errors.Wrap(err, "encode history changes")
	}

	id, err := r.nextID(ts)
	if err != nil {
		return "", errors.Wrap(err, "generate history id")
	}

	m := &model.History{
		ID:             id,
		EntityType:     rec.EntityType,
		EntityID:       rec.EntityID,
		Action:         string(rec.Action),
		ActorID:        rec.ActorID,
		Changes:        changes,
		Reason:         rec.Reason,
		ReferenceID:    rec.ReferenceID,
		ReferenceModel: rec.ReferenceModel,
		Notes:          rec.Notes,
		Timestamp:      ts.UnixMilli(),
	}
	if err := r.dao.DB(ctx).Create(m).Error; err != nil {
		return "", wrapErr(err)
	}
	return id, nil
}

// ListByEntity 获取实体的全部历史记录，按时间倒序
func (r *historyRepository) ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]*domain.HistoryRecord, error) {
	return r.list(ctx, entityType, entityID, 0, 0)
}

// ListByEntityPage 分页获取实体的历史记录，按时间倒序
func (r *historyRepository) ListByEntityPage(ctx context.Context, entityType string, entityID uuid.UUID, page, pageSize int) ([]*domain.HistoryRecord, error) {
	return r.list(ctx, entityType, entityID, page, pageSize)
}

func (r *historyRepository) list(ctx context.Context, entityType string, entityID uuid.UUID, page, pageSize int) ([]*domain.HistoryRecord, error) {
	db := r.dao.DB(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("timestamp DESC").
		Order("id DESC")
	if pageSize > 0 {
		db = db.Offset(pageOffset(page, pageSize)).Limit(pageSize)
	}

	var ms []*model.History
	if err := db.Find(&ms).Error; err != nil {
		return nil, wrapErr(err)
	}
	out := make([]*domain.HistoryRecord, 0, len(ms))
	for _, m := range ms {
		out = append(out, r.toDomain(m))
	}
	return out, nil
}

// CountByEntity 实体的历史记录数量
func (r *historyRepository) CountByEntity(ctx context.Context, entityType string, entityID uuid.UUID) (int64, error) {
	var count int64
	err := r.dao.DB(ctx).Model(&model.History{}).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Count(&count).Error
	return count, wrapErr(err)
}

// Count 历史记录总数
func (r *historyRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.dao.DB(ctx).Model(&model.History{}).Count(&count).Error
	return count, wrapErr(err)
}

// 确保 historyRepository 实现了 domain.HistoryRepository 接口
var _ domain.HistoryRepository = (*historyRepository)(nil)
