package service

import (
	"context"
	"errors"

	"github.com/haierkeys/inventory-audit-service/internal/audit"
	"github.com/haierkeys/inventory-audit-service/internal/domain"
	"github.com/haierkeys/inventory-audit-service/internal/dto"
	"github.com/haierkeys/inventory-audit-service/pkg/app"
	"github.com/haierkeys/inventory-audit-service/pkg/code"
	"github.com/haierkeys/inventory-audit-service/pkg/diff"
	"github.com/haierkeys/inventory-audit-service/pkg/timex"
	"go.uber.org/zap"
)

// StockService 定义库存业务服务接口
type StockService interface {
	// Create 为有效商品创建库存，每个商品只能有一条有效库存
	Create(ctx context.Context, params *dto.StockCreateRequest) (*dto.StockDTO, error)

	// List 分页获取有效库存
	List(ctx context.Context, pager *app.Pager) ([]*dto.StockDTO, int, error)

	// Patch 修改库存数量
	Patch(ctx context.Context, id string, params *dto.StockPatchRequest) (*dto.StockDTO, error)

	// Delete 软删除库存
	Delete(ctx context.Context, id string, note dto.AuditNote) error
}

// stockService 实现 StockService 接口
type stockService struct {
	stockRepo   domain.StockRepository
	productRepo domain.ProductRepository
	stocks      *audit.AuditedRepository[*domain.Stock]
	logger      *zap.Logger
	config      *AppServiceConfig
}

// NewStockService 创建 StockService 实例
func NewStockService(stockRepo domain.StockRepository, productRepo domain.ProductRepository, stocks *audit.AuditedRepository[*domain.Stock], logger *zap.Logger, config *AppServiceConfig) StockService {
	if config == nil {
		config = &defaultServiceConfig().App
	}
	return &stockService{
		stockRepo:   stockRepo,
		productRepo: productRepo,
		stocks:      stocks,
		logger:      logger,
		config:      config,
	}
}

func stockToDTO(st *domain.Stock) *dto.StockDTO {
	return &dto.StockDTO{
		ID:        st.ID,
		ProductID: st.ProductID,
		Quantity:  st.Quantity,
		Active:    st.Active,
		UpdatedAt: timex.Time(st.UpdatedAt),
		CreatedAt: timex.Time(st.CreatedAt),
	}
}

func viewToDTO(v *domain.StockView) *dto.StockDTO {
	out := stockToDTO(&v.Stock)
	out.ProductName = v.ProductName
	out.ProductDescription = v.ProductDescription
	out.ProductPrice = v.ProductPrice
	out.ProductSKU = v.ProductSKU
	out.CategoryName = v.CategoryName
	return out
}

// withProduct 附加商品信息，商品读取失败时只返回库存本身
func (s *stockService) withProduct(ctx context.Context, st *domain.Stock) *dto.StockDTO {
	out := stockToDTO(st)
	p, err := s.productRepo.GetActiveWithCategory(ctx, st.ProductID)
	if err != nil {
		return out
	}
	out.ProductName = p.Name
	out.ProductDescription = p.Description
	out.ProductPrice = p.Price
	out.ProductSKU = p.SKU
	out.CategoryName = p.CategoryName
	return out
}

// Create 创建库存
func (s *stockService) Create(ctx context.Context, params *dto.StockCreateRequest) (*dto.StockDTO, error) {
	if params.Quantity == nil {
		return nil, code.ErrorInvalidParams.WithDetails("quantity is required")
	}
	if *params.Quantity < 0 {
		return nil, code.ErrorNegativeQuantity
	}
	pid, err := parseID(params.ProductID)
	if err != nil {
		return nil, err
	}

	if _, err := s.productRepo.FindOne(ctx, domain.ActiveByID(pid)); err != nil {
		return nil, storeError(err, code.ErrorProductNotFound, nil)
	}

	_, err = s.stockRepo.FindOne(ctx, domain.Query{"product_id": pid, "active": true})
	if err == nil {
		return nil, code.ErrorStockExists
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, storeError(err, nil, nil)
	}

	created, err := s.stocks.Create(ctx, actorFor(ctx, params.AuditNote), &domain.Stock{
		ProductID: pid,
		Quantity:  *params.Quantity,
		Active:    true,
	})
	if err != nil {
		return nil, storeError(err, nil, code.ErrorStockExists)
	}
	return s.withProduct(ctx, created), nil
}

// List 分页获取有效库存，每页数量不超过配置上限
func (s *stockService) List(ctx context.Context, pager *app.Pager) ([]*dto.StockDTO, int, error) {
	if pager.PageSize <= 0 || pager.PageSize > s.config.StockPageSizeMax {
		pager.PageSize = s.config.StockPageSizeMax
	}
	if pager.Page <= 0 {
		pager.Page = 1
	}

	views, err := s.stockRepo.ListActive(ctx, pager.Page, pager.PageSize)
	if err != nil {
		return nil, 0, storeError(err, nil, nil)
	}
	count, err := s.stockRepo.CountActive(ctx)
	if err != nil {
		return nil, 0, storeError(err, nil, nil)
	}

	out := make([]*dto.StockDTO, 0, len(views))
	for _, v := range views {
		out = append(out, viewToDTO(v))
	}
	return out, int(count), nil
}

// Patch 修改库存数量
func (s *stockService) Patch(ctx context.Context, id string, params *dto.StockPatchRequest) (*dto.StockDTO, error) {
	if params.Quantity == nil {
		return nil, code.ErrorUpdateNotAllowed
	}
	if *params.Quantity < 0 {
		return nil, code.ErrorNegativeQuantity
	}
	sid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	updated, err := s.stocks.Update(ctx, actorFor(ctx, params.AuditNote), domain.ActiveByID(sid),
		domain.NewPatch(diff.F("quantity", *params.Quantity)))
	if err != nil {
		return nil, storeError(err, code.ErrorStockNotFound, nil)
	}
	return s.withProduct(ctx, updated), nil
}

// Delete 软删除库存
func (s *stockService) Delete(ctx context.Context, id string, note dto.AuditNote) error {
	sid, err := parseID(id)
	if err != nil {
		return err
	}
	_, err = s.stocks.SoftDelete(ctx, actorFor(ctx, note), domain.ActiveByID(sid))
	return storeError(err, code.ErrorStockNotFound, nil)
}

var _ StockService = (*stockService)(nil)
