// Package api_router 提供 HTTP API 路由处理器
package api_router

import (
	"time"

	"github.com/haierkeys/inventory-audit-service/internal/app"
	pkgapp "github.com/haierkeys/inventory-audit-service/pkg/app"
	"github.com/haierkeys/inventory-audit-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// HealthHandler 健康检查处理器
type HealthHandler struct {
	*Handler
}

// NewHealthHandler 创建健康检查处理器实例
func NewHealthHandler(a *app.App) *HealthHandler {
	return &HealthHandler{Handler: NewHandler(a)}
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status     string           `json:"status"`     // "healthy" 或 "unhealthy"
	Version    string           `json:"version"`    // 服务版本号
	Uptime     float64          `json:"uptime"`     // 运行时间（秒）
	Database   string           `json:"database"`   // "connected" 或 "error"
	WriteQueue WriteQueueHealth `json:"writeQueue"` // 写队列状态
	FeedSinks  []string         `json:"feedSinks"`  // 已启用的变更推送目标
}

// WriteQueueHealth 写队列指标
type WriteQueueHealth struct {
	QueueCapacity int  `json:"queueCapacity"`
	ActiveQueues  int  `json:"activeQueues"`
	Closed        bool `json:"closed"`
}

// Check 健康检查接口
// @Summary 健康检查
// @Description 检查服务健康状态，包括数据库连接与写队列
// @Tags 系统
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /api/health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	wq := h.App.WriteQueueManager().GetMetrics()
	response := HealthResponse{
		Status:   "healthy",
		Version:  h.App.Version().Version,
		Uptime:   time.Since(h.App.StartTime).Seconds(),
		Database: "connected",
		WriteQueue: WriteQueueHealth{
			QueueCapacity: wq.QueueCapacity,
			ActiveQueues:  wq.ActiveQueues,
			Closed:        wq.IsClosed,
		},
		FeedSinks: h.App.Publisher.Sinks(),
	}

	if h.App.IsShuttingDown() {
		response.Status = "shutting_down"
		pkgapp.NewResponse(c).ToResponse(code.ErrorUnhealthy.WithData(response))
		return
	}

	if err := h.App.Ping(c.Request.Context()); err != nil || wq.IsClosed {
		if err != nil {
			response.Database = "error"
		}
		response.Status = "unhealthy"
		pkgapp.NewResponse(c).ToResponse(code.ErrorUnhealthy.WithData(response))
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(response))
}
