package routers

import (
	"time"

	"github.com/haierkeys/inventory-audit-service/internal/app"
	"github.com/haierkeys/inventory-audit-service/internal/middleware"
	"github.com/haierkeys/inventory-audit-service/internal/routers/api_router"
	"github.com/haierkeys/inventory-audit-service/pkg/limiter"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
)

// methodLimiters 登录与注册限流，其余接口不限
var methodLimiters = limiter.NewMethodLimiter().AddBuckets(
	limiter.BucketRule{
		Key:          "POST /api/user/login",
		FillInterval: time.Second,
		Capacity:     10,
		Quantum:      10,
	},
	limiter.BucketRule{
		Key:          "POST /api/user/register",
		FillInterval: time.Second,
		Capacity:     5,
		Quantum:      5,
	},
)

// NewRouter 创建公开 API 路由
func NewRouter(appContainer *app.App, uni *ut.UniversalTranslator) *gin.Engine {
	cfg := appContainer.Config()

	r := gin.New()
	r.Use(middleware.Cors())

	api := r.Group("/api")
	{
		api.Use(middleware.TraceMiddleware(middleware.TracerConfig{Enabled: cfg.Tracer.Enabled, Header: cfg.Tracer.Header}))
		api.Use(middleware.RateLimiter(methodLimiters))
		api.Use(middleware.ContextTimeout(cfg.GetContextTimeout()))
		api.Use(middleware.LangWithTranslator(uni))
		api.Use(middleware.AccessLog(appContainer.Logger()))
		api.Use(middleware.RecoveryWithLogger(appContainer.Logger()))

		// 创建 Handlers（注入 App Container）
		categoryHandler := api_router.NewCategoryHandler(appContainer)
		productHandler := api_router.NewProductHandler(appContainer)
		stockHandler := api_router.NewStockHandler(appContainer)
		userHandler := api_router.NewUserHandler(appContainer)
		historyHandler := api_router.NewHistoryHandler(appContainer)
		healthHandler := api_router.NewHealthHandler(appContainer)
		versionHandler := api_router.NewVersionHandler(appContainer)

		// 无需认证
		api.GET("/health", healthHandler.Check)
		api.GET("/version", versionHandler.ServerVersion)
		api.POST("/user/register", userHandler.Register)
		api.POST("/user/login", userHandler.Login)
		api.GET("/category", categoryHandler.List)
		api.GET("/product", productHandler.List)
		api.GET("/product/:id", productHandler.Get)
		api.GET("/stock", stockHandler.List)

		// 写操作以登录用户作为审计操作人
		auth := api.Group("", middleware.UserAuthTokenWithConfig(appContainer.GetAuthTokenKey()))
		{
			auth.GET("/user/info", userHandler.UserInfo)

			auth.POST("/category", categoryHandler.Create)
			auth.DELETE("/category/:id", categoryHandler.Delete)

			auth.POST("/product", productHandler.Create)
			auth.PATCH("/product/:id", productHandler.Patch)
			auth.PATCH("/product/:id/full-update", productHandler.FullUpdate)
			auth.DELETE("/product/:id", productHandler.Delete)

			auth.POST("/stock", stockHandler.Create)
			auth.PATCH("/stock/:id", stockHandler.Patch)
			auth.DELETE("/stock/:id", stockHandler.Delete)

			auth.GET("/history/:model/:id", historyHandler.List)
		}
	}

	r.NoRoute(middleware.NoFound())

	return r
}
