package dao

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/haierkeys/inventory-audit-service/internal/domain"
	"github.com/haierkeys/inventory-audit-service/internal/model"
	"github.com/haierkeys/inventory-audit-service/pkg/timex"
)

// roleRepository 实现 domain.RoleRepository 接口
type roleRepository struct {
	dao *Dao
}

// NewRoleRepository 创建 RoleRepository 实例
func NewRoleRepository(dao *Dao) domain.RoleRepository {
	return &roleRepository{dao: dao}
}

func (r *roleRepository) toDomain(m *model.Role) *domain.Role {
	if m == nil {
		return nil
	}
	return &domain.Role{
		ID:        m.ID,
		Label:     m.Label,
		Active:    m.Active,
		CreatedAt: time.Time(m.CreatedAt),
		UpdatedAt: time.Time(m.UpdatedAt),
	}
}

// GetByID 根据ID获取角色
func (r *roleRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Role, error) {
	m, err := rowByID[model.Role](r.dao.DB(ctx), id)
	if err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

// EnsureLabel 获取指定名称的角色，不存在时创建
func (r *roleRepository) EnsureLabel(ctx context.Context, label string) (*domain.Role, error) {
	now := timex.Now()
	m := &model.Role{}
	err := r.dao.DB(ctx).
		Where(model.Role{Label: label}).
		Attrs(model.Role{ID: uuid.New(), Active: true, CreatedAt: now, UpdatedAt: now}).
		FirstOrCreate(m).Error
	if err != nil {
		return nil, wrapErr(err)
	}
	return r.toDomain(m), nil
}

// ListByIDs 批量获取角色
func (r *roleRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Role, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var ms []*model.Role
	if err := r.dao.DB(ctx).Where("id IN ?", ids).Find(&ms).Error; err != nil {
		return nil, wrapErr(err)
	}
	out := make([]*domain.Role, 0, len(ms))
	for _, m := range ms {
		out = append(out, r.toDomain(m))
	}
	return out, nil
}

// 确保 roleRepository 实现了 domain.RoleRepository 接口
var _ domain.RoleRepository = (*roleRepository)(nil)
