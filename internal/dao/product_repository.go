package dao

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/haierkeys/inventory-audit-service/internal/domain"
	"github.com/haierkeys/inventory-audit-service/internal/model"
	"github.com/haierkeys/inventory-audit-service/pkg/timex"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// productRepository 实现 domain.ProductRepository 接口
type productRepository struct {
	dao *Dao
}

// NewProductRepository 创建 ProductRepository 实例
func NewProductRepository(dao *Dao) domain.ProductRepository {
	return &productRepository{dao: dao}
}

// productRow 商品联表查询结果
type productRow struct {
	model.Product
	CategoryName string `gorm:"column:category_name"`
}

// productColumns 允许用于 ExistsActive 的列
var productColumns = map[string]bool{"name": true, "sku": true, "category_id": true}

// toDomain 将数据库模型转换为领域模型
func (r *productRepository) toDomain(m *model.Product) *domain.Product {
	if m == nil {
		return nil
	}
	return &domain.Product{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		CategoryID:  m.CategoryID,
		Price:       m.Price,
		SKU:         m.SKU,
		Active:      m.Active,
		Version:     m.Version,
		UpdatedBy:   m.UpdatedBy,
		CreatedAt:   time.Time(m.CreatedAt),
		UpdatedAt:   time.Time(m.UpdatedAt),
	}
}

// toModel 将领域模型转换为数据库模型
func (r *productRepository) toModel(p *domain.Product) *model.Product {
	if p == nil {
		return nil
	}
	return &model.Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CategoryID:  p.CategoryID,
		Price:       p.Price,
		SKU:         p.SKU,
		Active:      p.Active,
		Version:     p.Version,
		UpdatedBy:   p.UpdatedBy,
		CreatedAt:   timex.Time(p.CreatedAt),
		UpdatedAt:   timex.Time(p.UpdatedAt),
	}
}

// Create 创建商品
func (r *productRepository) Create(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	m := r.toModel(p)
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

// FindByID 根据ID获取商品（包含已软删除）
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	m, err := rowByID[model.Product](r.dao.DB(ctx), id)
	if err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

// FindOne 获取第一个匹配的商品
func (r *productRepository) FindOne(ctx context.Context, q domain.Query) (*domain.Product, error) {
	m, err := firstRow[model.Product](r.dao.DB(ctx), q)
	if err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

// UpdateOne 定向更新第一个匹配的商品
func (r *productRepository) UpdateOne(ctx context.Context, q domain.Query, p domain.Patch) (*domain.Product, error) {
	db := r.dao.DB(ctx)
	m, err := firstRow[model.Product](db, q)
	if err != nil {
		return nil, err
	}
	if err := updateRow[model.Product](db, m.ID, p); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, m.ID)
}

// withCategory 商品联表分类的基础查询
func (r *productRepository) withCategory(ctx context.Context) *gorm.DB {
	return r.dao.DB(ctx).
		Table(model.TableNameProduct+" AS p").
		Select("p.*, c.name AS category_name").
		Joins("LEFT JOIN " + model.TableNameCategory + " AS c ON c.id = p.category_id").
		Where("p.active = ?", true)
}

func (r *productRepository) rowToDomain(row *productRow) *domain.ProductWithCategory {
	return &domain.ProductWithCategory{
		Product:      *r.toDomain(&row.Product),
		CategoryName: row.CategoryName,
	}
}

// ListActive 获取全部有效商品及分类名称
func (r *productRepository) ListActive(ctx context.Context) ([]*domain.ProductWithCategory, error) {
	var rows []*productRow
	if err := r.withCategory(ctx).Order("p.created_at DESC").Scan(&rows).Error; err != nil {
		return nil, wrapErr(err)
	}
	out := make([]*domain.ProductWithCategory, 0, len(rows))
	for _, row := range rows {
		out = append(out, r.rowToDomain(row))
	}
	return out, nil
}

// GetActiveWithCategory 获取单个有效商品及分类名称
func (r *productRepository) GetActiveWithCategory(ctx context.Context, id uuid.UUID) (*domain.ProductWithCategory, error) {
	var rows []*productRow
	if err := r.withCategory(ctx).Where("p.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, wrapErr(err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrNotFound
	}
	return r.rowToDomain(rows[0]), nil
}

// ExistsActive 判断有效商品中是否存在指定列值
func (r *productRepository) ExistsActive(ctx context.Context, column string, value any) (bool, error) {
	if !productColumns[column] {
		return false, errors.Errorf("product column %q cannot be queried", column)
	}
	var count int64
	err := r.dao.DB(ctx).Model(&model.Product{}).
		Where(map[string]any{column: value, "active": true}).
		Count(&count).Error
	if err != nil {
		return false, wrapErr(err)
	}
	return count > 0, nil
}

// CountActive 有效商品数量
func (r *productRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.dao.DB(ctx).Model(&model.Product{}).Where("active = ?", true).Count(&count).Error
	return count, wrapErr(err)
}

// 确保 productRepository 实现了 domain.ProductRepository 接口
var _ domain.ProductRepository = (*productRepository)(nil)
