package dao

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/haierkeys/inventory-audit-service/internal/domain"
	"github.com/haierkeys/inventory-audit-service/internal/model"
	"github.com/haierkeys/inventory-audit-service/pkg/timex"
)

// categoryRepository 实现 domain.CategoryRepository 接口
type categoryRepository struct {
	dao *Dao
}

// NewCategoryRepository 创建 CategoryRepository 实例
func NewCategoryRepository(dao *Dao) domain.CategoryRepository {
	return &categoryRepository{dao: dao}
}

// toDomain 将数据库模型转换为领域模型
func (r *categoryRepository) toDomain(m *model.Category) *domain.Category {
	if m == nil {
		return nil
	}
	return &domain.Category{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Active:      m.Active,
		Version:     m.Version,
		UpdatedBy:   m.UpdatedBy,
		CreatedAt:   time.Time(m.CreatedAt),
		UpdatedAt:   time.Time(m.UpdatedAt),
	}
}

// toModel 将领域模型转换为数据库模型
func (r *categoryRepository) toModel(c *domain.Category) *model.Category {
	if c == nil {
		return nil
	}
	return &model.Category{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Active:      c.Active,
		Version:     c.Version,
		UpdatedBy:   c.UpdatedBy,
		CreatedAt:   timex.Time(c.CreatedAt),
		UpdatedAt:   timex.Time(c.UpdatedAt),
	}
}

// Create 创建分类
func (r *categoryRepository) Create(ctx context.Context, c *domain.Category) (*domain.Category, error) {
	m := r.toModel(c)
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

// FindByID 根据ID获取分类（包含已软删除）
func (r *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	m, err := rowByID[model.Category](r.dao.DB(ctx), id)
	if err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

// FindOne 获取第一个匹配的分类
func (r *categoryRepository) FindOne(ctx context.Context, q domain.Query) (*domain.Category, error) {
	m, err := firstRow[model.Category](r.dao.DB(ctx), q)
	if err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

// UpdateOne 定向更新第一个匹配的分类
func (r *categoryRepository) UpdateOne(ctx context.Context, q domain.Query, p domain.Patch) (*domain.Category, error) {
	db := r.dao.DB(ctx)
	m, err := firstRow[model.Category](db, q)
	if err != nil {
		return nil, err
	}
	if err := updateRow[model.Category](db, m.ID, p); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, m.ID)
}

// ListActive 获取全部有效分类
func (r *categoryRepository) ListActive(ctx context.Context) ([]*domain.Category, error) {
	var ms []*model.Category
	err := r.dao.DB(ctx).Where("active = ?", true).Order("name ASC").Find(&ms).Error
	if err != nil {
		return nil, wrapErr(err)
	}
	out := make([]*domain.Category, 0, len(ms))
	for _, m := range ms {
		out = append(out, r.toDomain(m))
	}
	return out, nil
}

// ExistsActiveName 判断有效分类中是否已存在该名称
func (r *categoryRepository) ExistsActiveName(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.dao.DB(ctx).Model(&model.Category{}).Where("name = ? AND active = ?", name, true).Count(&count).Error
	if err != nil {
		return false, wrapErr(err)
	}
	return count > 0, nil
}

// 确保 categoryRepository 实现了 domain.CategoryRepository 接口
var _ domain.CategoryRepository = (*categoryRepository)(nil)
