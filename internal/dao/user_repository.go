package dao

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/haierkeys/inventory-audit-service/internal/domain"
	"github.com/haierkeys/inventory-audit-service/internal/model"
	"github.com/haierkeys/inventory-audit-service/pkg/timex"
)

// userRepository 实现 domain.UserRepository 接口
type userRepository struct {
	dao *Dao
}

// NewUserRepository 创建 UserRepository 实例
func NewUserRepository(dao *Dao) domain.UserRepository {
	return &userRepository{dao: dao}
}

// toDomain 将数据库模型转换为领域模型
func (r *userRepository) toDomain(m *model.User) *domain.User {
	if m == nil {
		return nil
	}
	return &domain.User{
		ID:        m.ID,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Email:     m.Email,
		Password:  m.Password,
		RoleID:    m.RoleID,
		Active:    m.Active,
		Version:   m.Version,
		UpdatedBy: m.UpdatedBy,
		CreatedAt: time.Time(m.CreatedAt),
		UpdatedAt: time.Time(m.UpdatedAt),
	}
}

// toModel 将领域模型转换为数据库模型
func (r *userRepository) toModel(u *domain.User) *model.User {
	if u == nil {
		return nil
	}
	return &model.User{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Password:  u.Password,
		RoleID:    u.RoleID,
		Active:    u.Active,
		Version:   u.Version,
		UpdatedBy: u.UpdatedBy,
		CreatedAt: timex.Time(u.CreatedAt),
		UpdatedAt: timex.Time(u.UpdatedAt),
	}
}

// Create 创建用户
func (r *userRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	m := r.toModel(u)
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.Version = 1
	m.CreatedAt = timex.Now()
	m.UpdatedAt = m.CreatedAt

	if err := r.dao.DB(ctx).Create(m).Error; err != nil {
		return nil, wrapErr(err)
	}
	return r.toDomain(m), nil
}

// FindByID 根据ID获取用户（包含已停用）
func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	m, err := rowByID[model.User](r.dao.DB(ctx), id)
	if err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

// FindOne 获取第一个匹配的用户
func (r *userRepository) FindOne(ctx context.Context, q domain.Query) (*domain.User, error) {
	m, err := firstRow[model.User](r.dao.DB(ctx), q)
	if err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

// UpdateOne 定向更新第一个匹配的用户
func (r *userRepository) UpdateOne(ctx context.Context, q domain.Query, p domain.Patch) (*domain.User, error) {
	db := r.dao.DB(ctx)
	m, err := firstRow[model.User](db, q)
	if err != nil {
		return nil, err
	}
	if err := updateRow[model.User](db, m.ID, p); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, m.ID)
}

// GetByEmail 根据邮箱获取有效用户
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.FindOne(ctx, domain.Query{"email": email, "active": true})
}

// ListByIDs 批量获取用户
func (r *userRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var ms []*model.User
	if err := r.dao.DB(ctx).Where("id IN ?", ids).Find(&ms).Error; err != nil {
		return nil, wrapErr(err)
	}
	out := make([]*domain.User, 0, len(ms))
	for _, m := range ms {
		out = append(out, r.toDomain(m))
	}
	return out, nil
}

// 确保 userRepository 实现了 domain.UserRepository 接口
var _ domain.UserRepository = (*userRepository)(nil)
