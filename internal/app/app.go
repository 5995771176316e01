// Package app 提供应用容器，封装所有依赖和服务
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/haierkeys/inventory-audit-service/internal/audit"
	"github.com/haierkeys/inventory-audit-service/internal/dao"
	"github.com/haierkeys/inventory-audit-service/internal/domain"
	"github.com/haierkeys/inventory-audit-service/internal/feed"
	"github.com/haierkeys/inventory-audit-service/internal/service"
	pkgapp "github.com/haierkeys/inventory-audit-service/pkg/app"
	"github.com/haierkeys/inventory-audit-service/pkg/diff"
	"github.com/haierkeys/inventory-audit-service/pkg/workerpool"
	"github.com/haierkeys/inventory-audit-service/pkg/writequeue"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App 应用容器，封装所有依赖和服务
type App struct {
	// 基础设施（注入的依赖）
	config *AppConfig
	logger *zap.Logger
	DB     *gorm.DB
	Dao    *dao.Dao

	// StartTime 容器创建时间，用于健康检查的运行时长
	StartTime time.Time

	// 并发控制组件
	workerPool    *workerpool.Pool
	writeQueueMgr *writequeue.Manager

	// Repository 层
	CategoryRepo domain.CategoryRepository
	ProductRepo  domain.ProductRepository
	StockRepo    domain.StockRepository
	UserRepo     domain.UserRepository
	RoleRepo     domain.RoleRepository
	HistoryRepo  domain.HistoryRepository

	// 审计链路
	Publisher   *feed.Publisher
	Capture     *audit.Capture
	Coordinator *audit.Coordinator

	// Service 层
	CategoryService service.CategoryService
	ProductService  service.ProductService
	StockService    service.StockService
	UserService     service.UserService
	HistoryService  service.HistoryService

	// 基础设施组件
	TokenManager pkgapp.TokenManager

	// 关闭控制
	shutdownCh chan struct{}
	wg         sync.WaitGroup
}

// NewApp 创建应用容器实例
// 初始化所有依赖并进行依赖注入
// cfg: 应用配置（必须）
// logger: zap 日志器（必须）
// db: 数据库连接（必须）
func NewApp(cfg *AppConfig, logger *zap.Logger, db *gorm.DB) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}

	a := &App{
		config:     cfg,
		logger:     logger,
		DB:         db,
		StartTime:  time.Now(),
		shutdownCh: make(chan struct{}),
	}

	// 初始化 Worker Pool（变更推送在池中异步执行）
	wpConfig := cfg.GetWorkerPoolConfig()
	a.workerPool = workerpool.New(&wpConfig, logger)

	// 初始化 Write Queue Manager（同一实体的定向更新串行执行）
	wqConfig := cfg.GetWriteQueueConfig()
	a.writeQueueMgr = writequeue.New(&wqConfig, logger)

	dbConfig := cfg.GetDatabaseConfig()
	a.Dao = dao.New(db, context.Background(),
		dao.WithConfig(&dbConfig),
		dao.WithLogger(logger),
		dao.WithWriteQueueManager(a.writeQueueMgr),
	)
	if dbConfig.AutoMigrate {
		if err := a.Dao.MigrateAll(); err != nil {
			return nil, fmt.Errorf("migrate database: %w", err)
		}
	}

	// 初始化 TokenManager
	a.TokenManager = pkgapp.NewTokenManager(pkgapp.TokenConfig{
		SecretKey: cfg.Security.AuthTokenKey,
		Issuer:    "inventory-audit-service",
		Expiry:    cfg.GetTokenExpiry(),
	})

	// 初始化 Repository 层
	a.CategoryRepo = dao.NewCategoryRepository(a.Dao)
	a.ProductRepo = dao.NewProductRepository(a.Dao)
	a.StockRepo = dao.NewStockRepository(a.Dao)
	a.UserRepo = dao.NewUserRepository(a.Dao)
	a.RoleRepo = dao.NewRoleRepository(a.Dao)
	a.HistoryRepo = dao.NewHistoryRepository(a.Dao)

	// 审计链路：Capture -> HistoryRepo，追加成功后推送到已配置的 feed
	a.Publisher = feed.New(cfg.Feed, a.workerPool, logger)
	captureOpts := []audit.Option{audit.WithPublisher(a.Publisher)}
	if len(cfg.Audit.ExcludedFields) > 0 {
		exclude := diff.NewFieldSet(cfg.Audit.ExcludedFields...)
		for f := range diff.SystemFields {
			exclude[f] = struct{}{}
		}
		captureOpts = append(captureOpts, audit.WithExcludedFields(exclude))
	}
	a.Capture = audit.NewCapture(a.HistoryRepo, logger, captureOpts...)
	a.Coordinator = audit.NewCoordinator(a.Dao, a.Capture, logger)

	var queue audit.Serializer
	if cfg.Audit.SerializeUpdates {
		queue = a.writeQueueMgr
	}
	categories := audit.NewAuditedRepository[*domain.Category](domain.EntityCategory, a.CategoryRepo, a.Capture, queue)
	products := audit.NewAuditedRepository[*domain.Product](domain.EntityProduct, a.ProductRepo, a.Capture, queue)
	stocks := audit.NewAuditedRepository[*domain.Stock](domain.EntityStock, a.StockRepo, a.Capture, queue)
	users := audit.NewAuditedRepository[*domain.User](domain.EntityUser, a.UserRepo, a.Capture, queue)

	// 创建 ServiceConfig（从 AppConfig 提取 Service 层需要的配置）
	svcConfig := &service.ServiceConfig{
		User: service.UserServiceConfig{
			RegisterIsEnable: cfg.User.RegisterIsEnable,
			DefaultRole:      cfg.User.DefaultRole,
		},
		App: service.AppServiceConfig{
			StockPageSizeMax:   cfg.App.StockPageSizeMax,
			HistoryPageSizeMax: cfg.App.MaxPageSize,
		},
	}

	// 初始化 Service 层（依赖注入）
	a.CategoryService = service.NewCategoryService(a.CategoryRepo, categories, logger)
	a.ProductService = service.NewProductService(a.ProductRepo, a.CategoryRepo, a.StockRepo, products, stocks, a.Coordinator, logger)
	a.StockService = service.NewStockService(a.StockRepo, a.ProductRepo, stocks, logger, &svcConfig.App)
	a.UserService = service.NewUserService(a.UserRepo, a.RoleRepo, users, a.TokenManager, logger, svcConfig)
	a.HistoryService = service.NewHistoryService(a.HistoryRepo, a.UserRepo, a.RoleRepo, logger, &svcConfig.App)

	logger.Info("App container initialized successfully",
		zap.Int("workerPoolMaxWorkers", wpConfig.MaxWorkers),
		zap.Int("writeQueueCapacity", wqConfig.QueueCapacity),
		zap.Strings("feedSinks", a.Publisher.Sinks()))

	return a, nil
}

// Close 释放应用容器持有的资源
func (a *App) Close() error {
	if a.DB != nil {
		sqlDB, err := a.DB.DB()
		if err != nil {
			return fmt.Errorf("failed to get sql.DB: %w", err)
		}
		if err := sqlDB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
		a.logger.Info("Database connection closed")
	}
	return nil
}

// Config 获取应用配置
func (a *App) Config() *AppConfig {
	return a.config
}

// Logger 获取日志器
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Version 获取版本信息
func (a *App) Version() pkgapp.VersionInfo {
	return pkgapp.VersionInfo{
		Version:   Version,
		GitTag:    GitTag,
		BuildTime: BuildTime,
	}
}

// Ping 检查数据库连通性
func (a *App) Ping(ctx context.Context) error {
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// GetAuthTokenKey 获取 Token 密钥
func (a *App) GetAuthTokenKey() string {
	return a.config.Security.AuthTokenKey
}

// WriteQueueManager 获取 Write Queue Manager（用于高级操作）
func (a *App) WriteQueueManager() *writequeue.Manager {
	return a.writeQueueMgr
}

// DefaultShutdownTimeout 默认关闭超时时间
const DefaultShutdownTimeout = 30 * time.Second

// Shutdown 优雅关闭应用容器
// 按顺序关闭：Worker Pool -> Feed Publisher -> Write Queue Manager -> Database
// ctx 用于控制关闭超时，如果为 nil 则使用默认 30 秒超时
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("App container shutting down...")

	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer cancel()
	}

	select {
	case <-a.shutdownCh:
		return nil
	default:
		close(a.shutdownCh)
	}

	var errs []error

	// 1. 关闭 Worker Pool（等待已提交的推送完成）
	if a.workerPool != nil {
		a.logger.Info("Shutting down worker pool...")
		if err := a.workerPool.Shutdown(ctx); err != nil {
			a.logger.Warn("Worker pool shutdown error", zap.Error(err))
			errs = append(errs, fmt.Errorf("worker pool shutdown: %w", err))
		} else {
			a.logger.Info("Worker pool shutdown completed")
		}
	}

	// 2. 关闭推送连接
	if a.Publisher != nil {
		if err := a.Publisher.Close(); err != nil {
			a.logger.Warn("feed publisher close error", zap.Error(err))
			errs = append(errs, fmt.Errorf("feed publisher close: %w", err))
		}
	}

	// 3. 关闭 Write Queue Manager（排空所有队列）
	if a.writeQueueMgr != nil {
		a.logger.Info("Shutting down write queue manager...")
		if err := a.writeQueueMgr.Shutdown(ctx); err != nil {
			a.logger.Warn("write queue manager shutdown error", zap.Error(err))
			errs = append(errs, fmt.Errorf("write queue manager shutdown: %w", err))
		} else {
			a.logger.Info("write queue manager shutdown completed")
		}
	}

	// 4. 等待所有后台操作完成
	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		a.logger.Info("All background operations completed")
	case <-ctx.Done():
		a.logger.Warn("Shutdown timeout waiting for background operations")
		errs = append(errs, fmt.Errorf("background operations timeout: %w", ctx.Err()))
	}

	// 5. 关闭数据库连接
	if err := a.Close(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		a.logger.Warn("App container shutdown completed with errors",
			zap.Int("errorCount", len(errs)))
		return fmt.Errorf("shutdown completed with %d errors: %v", len(errs), errs)
	}

	a.logger.Info("App container shutdown completed successfully")
	return nil
}

// IsShuttingDown 检查应用是否正在关闭
func (a *App) IsShuttingDown() bool {
	select {
	case <-a.shutdownCh:
		return true
	default:
		return false
	}
}

// TrackOperation 跟踪后台操作（用于优雅关闭时等待）
// 返回一个函数，在操作完成时调用
func (a *App) TrackOperation() func() {
	a.wg.Add(1)
	return func() {
		a.wg.Done()
	}
}
