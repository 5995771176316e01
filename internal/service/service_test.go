package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/haierkeys/inventory-audit-service/internal/audit"
	"github.com/haierkeys/inventory-audit-service/internal/dao"
	"github.com/haierkeys/inventory-audit-service/internal/domain"
	"github.com/haierkeys/inventory-audit-service/internal/dto"
	"github.com/haierkeys/inventory-audit-service/pkg/app"
	"github.com/haierkeys/inventory-audit-service/pkg/writequeue"
)

// fixture 基于内存 SQLite 的完整服务层
type fixture struct {
	dao        *dao.Dao
	history    domain.HistoryRepository
	categories CategoryService
	products   ProductService
	stocks     StockService
	users      UserService
	histories  HistoryService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := dao.DatabaseConfig{
		Type:         "sqlite",
		Path:         ":memory:",
		AutoMigrate:  true,
		MaxIdleConns: 1,
		MaxOpenConns: 1,
	}
	db, err := dao.NewDBEngineWithConfig(cfg, nil)
	require.NoError(t, err)

	queue := writequeue.New(nil, nil)
	d := dao.New(db, context.Background(), dao.WithConfig(&cfg), dao.WithWriteQueueManager(queue))
	require.NoError(t, d.MigrateAll())

	t.Cleanup(func() {
		_ = queue.Shutdown(context.Background())
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	historyRepo := dao.NewHistoryRepository(d)
	categoryRepo := dao.NewCategoryRepository(d)
	productRepo := dao.NewProductRepository(d)
	stockRepo := dao.NewStockRepository(d)
	userRepo := dao.NewUserRepository(d)
	roleRepo := dao.NewRoleRepository(d)

	capture := audit.NewCapture(historyRepo, nil)
	coordinator := audit.NewCoordinator(d, capture, nil)
	cfgSvc := defaultServiceConfig()

	tokens := app.NewTokenManager(app.TokenConfig{SecretKey: "test-secret"})

	return &fixture{
		dao:     d,
		history: historyRepo,
		categories: NewCategoryService(categoryRepo,
			audit.NewAuditedRepository[*domain.Category](domain.EntityCategory, categoryRepo, capture, queue), nil),
		products: NewProductService(productRepo, categoryRepo, stockRepo,
			audit.NewAuditedRepository[*domain.Product](domain.EntityProduct, productRepo, capture, queue),
			audit.NewAuditedRepository[*domain.Stock](domain.EntityStock, stockRepo, capture, queue),
			coordinator, zap.NewNop()),
		stocks: NewStockService(stockRepo, productRepo,
			audit.NewAuditedRepository[*domain.Stock](domain.EntityStock, stockRepo, capture, queue), nil, &cfgSvc.App),
		users: NewUserService(userRepo, roleRepo,
			audit.NewAuditedRepository[*domain.User](domain.EntityUser, userRepo, capture, queue), tokens, nil, cfgSvc),
		histories: NewHistoryService(historyRepo, userRepo, roleRepo, nil, &cfgSvc.App),
	}
}

// asUser 以指定用户作为请求上下文中的当前用户
func asUser(id uuid.UUID) context.Context {
	return audit.WithActor(context.Background(), id)
}

func (f *fixture) historyOf(t *testing.T, entityType string, id uuid.UUID) []*domain.HistoryRecord {
	t.Helper()
	list, err := f.history.ListByEntity(context.Background(), entityType, id)
	require.NoError(t, err)
	return list
}

// seed 创建一个分类、一个商品及其库存
func (f *fixture) seed(t *testing.T, ctx context.Context) (*dto.CategoryDTO, *dto.ProductDTO, *dto.StockDTO) {
	t.Helper()
	cat, err := f.categories.Create(ctx, &dto.CategoryCreateRequest{Name: "tools", Description: "hand tools"})
	require.NoError(t, err)
	p, err := f.products.Create(ctx, &dto.ProductCreateRequest{
		Name:        "Widget",
		Description: "blue widget",
		CategoryID:  cat.ID.String(),
		Price:       10,
		SKU:         "WG-1",
	})
	require.NoError(t, err)
	qty := int64(5)
	st, err := f.stocks.Create(ctx, &dto.StockCreateRequest{ProductID: p.ID.String(), Quantity: &qty})
	require.NoError(t, err)
	return cat, p, st
}

func ptr[T any](v T) *T { return &v }
