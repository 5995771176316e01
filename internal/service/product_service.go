package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/haierkeys/inventory-audit-service/internal/audit"
	"github.com/haierkeys/inventory-audit-service/internal/domain"
	"github.com/haierkeys/inventory-audit-service/internal/dto"
	"github.com/haierkeys/inventory-audit-service/pkg/code"
	"github.com/haierkeys/inventory-audit-service/pkg/diff"
	"github.com/haierkeys/inventory-audit-service/pkg/logger"
	"github.com/haierkeys/inventory-audit-service/pkg/timex"
	"go.uber.org/zap"
)

// ProductService 定义商品业务服务接口
type ProductService interface {
	// Create 创建商品
	Create(ctx context.Context, params *dto.ProductCreateRequest) (*dto.ProductDTO, error)

	// List 获取全部有效商品及分类名称
	List(ctx context.Context) ([]*dto.ProductDTO, error)

	// Get 获取单个有效商品
	Get(ctx context.Context, id string) (*dto.ProductDTO, error)

	// Patch 定向更新商品的描述、分类或价格
	Patch(ctx context.Context, id string, params *dto.ProductPatchRequest) (*dto.ProductDTO, error)

	// Delete 软删除商品
	Delete(ctx context.Context, id string, note dto.AuditNote) error

	// FullUpdate 在同一事务内更新商品与其库存，任一步失败则全部回滚
	FullUpdate(ctx context.Context, id string, params *dto.ProductFullUpdateRequest) (*dto.ProductFullUpdateDTO, error)
}

// productService 实现 ProductService 接口
type productService struct {
	productRepo  domain.ProductRepository
	categoryRepo domain.CategoryRepository
	stockRepo    domain.StockRepository
	products     *audit.AuditedRepository[*domain.Product]
	stocks       *audit.AuditedRepository[*domain.Stock]
	coordinator  *audit.Coordinator
	logger       *zap.Logger
}

// NewProductService 创建 ProductService 实例
func NewProductService(
	productRepo domain.ProductRepository,
	categoryRepo domain.CategoryRepository,
	stockRepo domain.StockRepository,
	products *audit.AuditedRepository[*domain.Product],
	stocks *audit.AuditedRepository[*domain.Stock],
	coordinator *audit.Coordinator,
	logger *zap.Logger,
) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		stockRepo:    stockRepo,
		products:     products,
		stocks:       stocks,
		coordinator:  coordinator,
		logger:       logger,
	}
}

func productToDTO(p *domain.Product, categoryName string) *dto.ProductDTO {
	if p == nil {
		return nil
	}
	return &dto.ProductDTO{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		CategoryID:   p.CategoryID,
		CategoryName: categoryName,
		Price:        p.Price,
		SKU:          p.SKU,
		Active:       p.Active,
		UpdatedAt:    timex.Time(p.UpdatedAt),
		CreatedAt:    timex.Time(p.CreatedAt),
	}
}

// checkCategory 分类必须存在且有效
func (s *productService) checkCategory(ctx context.Context, id uuid.UUID) error {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return storeError(err, code.ErrorCategoryNotFound, nil)
	}
	if !category.Active {
		return code.ErrorCategoryInactive
	}
	return nil
}

// Create 创建商品
func (s *productService) Create(ctx context.Context, params *dto.ProductCreateRequest) (*dto.ProductDTO, error) {
	name := strings.TrimSpace(params.Name)
	sku := strings.TrimSpace(params.SKU)

	exists, err := s.productRepo.ExistsActive(ctx, "name", name)
	if err != nil {
		return nil, storeError(err, nil, nil)
	}
	if exists {
		return nil, code.ErrorProductExists
	}

	categoryID, err := parseID(params.CategoryID)
	if err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, categoryID); err != nil {
		return nil, err
	}

	exists, err = s.productRepo.ExistsActive(ctx, "sku", sku)
	if err != nil {
		return nil, storeError(err, nil, nil)
	}
	if exists {
		return nil, code.ErrorSKUExists
	}

	created, err := s.products.Create(ctx, actorFor(ctx, params.AuditNote), &domain.Product{
		Name:        name,
		Description: strings.TrimSpace(params.Description),
		CategoryID:  categoryID,
		Price:       params.Price,
		SKU:         sku,
		Active:      true,
	})
	if err != nil {
		return nil, storeError(err, nil, code.ErrorSKUExists)
	}
	return s.Get(ctx, created.ID.String())
}

// List 获取全部有效商品
func (s *productService) List(ctx context.Context) ([]*dto.ProductDTO, error) {
	list, err := s.productRepo.ListActive(ctx)
	if err != nil {
		return nil, storeError(err, nil, nil)
	}
	out := make([]*dto.ProductDTO, 0, len(list))
	for _, p := range list {
		out = append(out, productToDTO(&p.Product, p.CategoryName))
	}
	return out, nil
}

// Get 获取单个有效商品
func (s *productService) Get(ctx context.Context, id string) (*dto.ProductDTO, error) {
	pid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	p, err := s.productRepo.GetActiveWithCategory(ctx, pid)
	if err != nil {
		return nil, storeError(err, code.ErrorProductNotFound, nil)
	}
	return productToDTO(&p.Product, p.CategoryName), nil
}

// Patch 定向更新商品
// 只更新请求中出现的字段，历史记录只比较这些字段
func (s *productService) Patch(ctx context.Context, id string, params *dto.ProductPatchRequest) (*dto.ProductDTO, error) {
	if params.IsEmpty() {
		return nil, code.ErrorUpdateNotAllowed
	}
	pid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	patch := domain.NewPatch()
	if params.Description != nil {
		patch.Set("description", strings.TrimSpace(*params.Description))
	}
	if params.CategoryID != nil {
		categoryID, err := parseID(*params.CategoryID)
		if err != nil {
			return nil, err
		}
		if err := s.checkCategory(ctx, categoryID); err != nil {
			return nil, err
		}
		patch.Set("category_id", categoryID)
	}
	if params.Price != nil {
		patch.Set("price", *params.Price)
	}

	if _, err := s.products.Update(ctx, actorFor(ctx, params.AuditNote), domain.ActiveByID(pid), patch); err != nil {
		return nil, storeError(err, code.ErrorProductNotFound, code.ErrorSKUExists)
	}
	return s.Get(ctx, id)
}

// Delete 软删除商品
func (s *productService) Delete(ctx context.Context, id string, note dto.AuditNote) error {
	pid, err := parseID(id)
	if err != nil {
		return err
	}
	_, err = s.products.SoftDelete(ctx, actorFor(ctx, note), domain.ActiveByID(pid))
	return storeError(err, code.ErrorProductNotFound, nil)
}

// FullUpdate 整体更新商品与库存
func (s *productService) FullUpdate(ctx context.Context, id string, params *dto.ProductFullUpdateRequest) (*dto.ProductFullUpdateDTO, error) {
	if !params.Complete() {
		return nil, code.ErrorFullUpdateFieldsRequired
	}
	if *params.Quantity < 0 {
		return nil, code.ErrorNegativeQuantity
	}
	pid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	categoryID, err := parseID(*params.CategoryID)
	if err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, categoryID); err != nil {
		return nil, err
	}

	productPatch := domain.NewPatch(
		diff.F("price", *params.Price),
		diff.F("description", strings.TrimSpace(*params.Description)),
		diff.F("category_id", categoryID),
	)
	stockPatch := domain.NewPatch(diff.F("quantity", *params.Quantity))

	var stock *domain.Stock
	err = s.coordinator.RunAtomic(ctx, actorFor(ctx, params.AuditNote),
		func(ctx context.Context, ac audit.ActorContext) error {
			_, err := s.products.Update(ctx, ac, domain.ActiveByID(pid), productPatch)
			return err
		},
		func(ctx context.Context, ac audit.ActorContext) error {
			updated, err := s.stocks.Update(ctx, ac, domain.Query{"product_id": pid, "active": true}, stockPatch)
			stock = updated
			return err
		},
	)
	if err != nil {
		s.logger.Warn("product full update rolled back",
			zap.String(logger.FieldEntityType, domain.EntityProduct),
			zap.String(logger.FieldEntityID, pid.String()),
			zap.Error(err))
		return nil, code.ErrorFullUpdateFailed.WithDetails(err.Error())
	}

	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.ProductFullUpdateDTO{
		Product: product,
		Stock: &dto.StockDTO{
			ID:                 stock.ID,
			ProductID:          stock.ProductID,
			ProductName:        product.Name,
			ProductDescription: product.Description,
			ProductPrice:       product.Price,
			ProductSKU:         product.SKU,
			CategoryName:       product.CategoryName,
			Quantity:           stock.Quantity,
			Active:             stock.Active,
			UpdatedAt:          timex.Time(stock.UpdatedAt),
			CreatedAt:          timex.Time(stock.CreatedAt),
		},
	}, nil
}

var _ ProductService = (*productService)(nil)
