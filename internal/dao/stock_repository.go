package dao

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/haierkeys/inventory-audit-service/internal/domain"
	"github.com/haierkeys/inventory-audit-service/internal/model"
	"github.com/haierkeys/inventory-audit-service/pkg/timex"
)

// stockRepository 实现 domain.StockRepository 接口
type stockRepository struct {
	dao *Dao
}

// NewStockRepository 创建 StockRepository 实例
func NewStockRepository(dao *Dao) domain.StockRepository {
	return &stockRepository{dao: dao}
}

// stockRow 库存联表查询结果
type stockRow struct {
	model.Stock
	ProductName        string  `gorm:"column:product_name"`
	ProductDescription string  `gorm:"column:product_description"`
	ProductPrice       float64 `gorm:"column:product_price"`
	ProductSKU         string  `gorm:"column:product_sku"`
	CategoryName       string  `gorm:"column:category_name"`
}

// toDomain 将数据库模型转换为领域模型
func (r *stockRepository) toDomain(m *model.Stock) *domain.Stock {
	if m == nil {
		return nil
	}
	return &domain.Stock{
		ID:        m.ID,
		ProductID: m.ProductID,
		Quantity:  m.Quantity,
		Active:    m.Active,
		Version:   m.Version,
		UpdatedBy: m.UpdatedBy,
		CreatedAt: time.Time(m.CreatedAt),
		UpdatedAt: time.Time(m.UpdatedAt),
	}
}

// toModel 将领域模型转换为数据库模型
func (r *stockRepository) toModel(s *domain.Stock) *model.Stock {
	if s == nil {
		return nil
	}
	return &model.Stock{
		ID:        s.ID,
		ProductID: s.ProductID,
		Quantity:  s.Quantity,
		Active:    s.Active,
		Version:   s.Version,
		UpdatedBy: s.UpdatedBy,
		CreatedAt: timex.Time(s.CreatedAt),
		UpdatedAt: timex.Time(s.UpdatedAt),
	}
}

// Create 创建库存
func (r *stockRepository) Create(ctx context.Context, s *domain.Stock) (*domain.Stock, error) {
	m := r.toModel(s)
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

// FindByID 根据ID获取库存（包含已软删除）
func (r *stockRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Stock, error) {
	m, err := rowByID[model.Stock](r.dao.DB(ctx), id)
	if err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

// FindOne 获取第一个匹配的库存
func (r *stockRepository) FindOne(ctx context.Context, q domain.Query) (*domain.Stock, error) {
	m, err := firstRow[model.Stock](r.dao.DB(ctx), q)
	if err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

// UpdateOne 定向更新第一个匹配的库存
func (r *stockRepository) UpdateOne(ctx context.Context, q domain.Query, p domain.Patch) (*domain.Stock, error) {
	db := r.dao.DB(ctx)
	m, err := firstRow[model.Stock](db, q)
	if err != nil {
		return nil, err
	}
	if err := updateRow[model.Stock](db, m.ID, p); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, m.ID)
}

// ListActive 分页获取有效库存及商品、分类信息
func (r *stockRepository) ListActive(ctx context.Context, page, pageSize int) ([]*domain.StockView, error) {
	var rows []*stockRow
	err := r.dao.DB(ctx).
		Table(model.TableNameStock + " AS s").
		Select("s.*, p.name AS product_name, p.description AS product_description, p.price AS product_price, p.sku AS product_sku, c.name AS category_name").
		Joins("LEFT JOIN " + model.TableNameProduct + " AS p ON p.id = s.product_id").
		Joins("LEFT JOIN " + model.TableNameCategory + " AS c ON c.id = p.category_id").
		Where("s.active = ?", true).
		Order("s.created_at DESC").
		Offset(pageOffset(page, pageSize)).
		Limit(pageSize).
		Scan(&rows).Error
	if err != nil {
		return nil, wrapErr(err)
	}

	out := make([]*domain.StockView, 0, len(rows))
	for _, row := range rows {
		out = append(out, &domain.StockView{
			Stock:              *r.toDomain(&row.Stock),
			ProductName:        row.ProductName,
			ProductDescription: row.ProductDescription,
			ProductPrice:       row.ProductPrice,
			ProductSKU:         row.ProductSKU,
			CategoryName:       row.CategoryName,
		})
	}
	return out, nil
}

// CountActive 有效库存数量
func (r *stockRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.dao.DB(ctx).Model(&model.Stock{}).Where("active = ?", true).Count(&count).Error
	return count, wrapErr(err)
}

// 确保 stockRepository 实现了 domain.StockRepository 接口
var _ domain.StockRepository = (*stockRepository)(nil)
