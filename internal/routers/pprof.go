package routers

import (
	"net/http"
	"net/http/pprof"

	"github.com/haierkeys/inventory-audit-service/internal/middleware"
	"github.com/haierkeys/inventory-audit-service/internal/routers/api_router"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	// DefaultPrefix url prefix of pprof
	DefaultPrefix = "/debug/pprof"
)

// NewPrivateRouterWithLogger 创建私有路由：/metrics、/debug/vars，debug 模式下额外挂载 pprof
func NewPrivateRouterWithLogger(runMode string, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RecoveryWithLogger(logger))

	r.GET("/debug/vars", api_router.Expvar)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if runMode == gin.DebugMode {
		p := r.Group(DefaultPrefix)
		{
			p.GET("/", gin.WrapF(pprof.Index))
			p.GET("/cmdline", gin.WrapF(pprof.Cmdline))
			p.GET("/profile", gin.WrapF(pprof.Profile))
			p.POST("/symbol", gin.WrapF(pprof.Symbol))
			p.GET("/symbol", gin.WrapF(pprof.Symbol))
			p.GET("/trace", gin.WrapF(pprof.Trace))
			for _, name := range []string{"allocs", "block", "goroutine", "heap", "mutex", "threadcreate"} {
				p.GET("/"+name, gin.WrapH(pprof.Handler(name)))
			}
		}
	}

	r.NoRoute(func(c *gin.Context) { c.Status(http.StatusNotFound) })

	return r
}
