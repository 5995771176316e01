// Package api_router 提供 HTTP API 路由处理器
package api_router

import (
	"bytes"
	"context"
	"io"

	"github.com/haierkeys/inventory-audit-service/internal/app"
	"github.com/haierkeys/inventory-audit-service/internal/dto"
	"github.com/haierkeys/inventory-audit-service/internal/middleware"
	pkgapp "github.com/haierkeys/inventory-audit-service/pkg/app"
	"github.com/haierkeys/inventory-audit-service/pkg/code"
	"github.com/haierkeys/inventory-audit-service/pkg/logger"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 基础 Handler 结构体，封装 App Container
// 所有 API Handler 都应该嵌入此结构体以获得依赖注入能力
type Handler struct {
	App *app.App
}

// NewHandler 创建基础 Handler 实例
func NewHandler(a *app.App) *Handler {
	return &Handler{App: a}
}

// logError 记录错误日志，包含 Trace ID
func (h *Handler) logError(ctx context.Context, method string, err error) {
	h.App.Logger().Error(method,
		zap.Error(err),
		zap.String(logger.FieldTraceID, middleware.GetTraceID(ctx)),
	)
}

// bind 绑定并验证参数，失败时直接输出参数错误响应
func (h *Handler) bind(c *gin.Context, method string, params any) bool {
	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Warn(method+".BindAndValid errs", zap.Error(errs))
		pkgapp.NewResponse(c).ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return false
	}
	return true
}

// withReasonHeader 请求体未给出变更原因时使用审计请求头
func (h *Handler) withReasonHeader(c *gin.Context, note *dto.AuditNote) {
	if note.Reason != "" {
		return
	}
	if header := h.App.Config().Audit.ReasonHeader; header != "" {
		note.Reason = c.GetHeader(header)
	}
}

// auditNote 从查询参数与请求头读取删除操作的审计说明
func (h *Handler) auditNote(c *gin.Context, method string) (dto.AuditNote, bool) {
	var note dto.AuditNote
	if !h.bind(c, method, &note) {
		return note, false
	}
	h.withReasonHeader(c, &note)
	return note, true
}

// checkPatchKeys 定向更新只接受 allowed 中的 JSON 键，且至少包含一个 fields 中的字段
// 检查后恢复请求体供后续绑定
func checkPatchKeys(c *gin.Context, allowed, fields []string) error {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return code.ErrorInvalidParams.WithDetails(err.Error())
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))

	if len(bytes.TrimSpace(raw)) == 0 {
		return code.ErrorUpdateNotAllowed
	}

	var body map[string]any
	if err := sonic.Unmarshal(raw, &body); err != nil {
		return code.ErrorInvalidParams.WithDetails(err.Error())
	}

	accept := make(map[string]struct{}, len(allowed))
	for _, k := range allowed {
		accept[k] = struct{}{}
	}
	var unknown []string
	for k := range body {
		if _, ok := accept[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		return code.ErrorUpdateNotAllowed.WithDetails(unknown...)
	}

	for _, f := range fields {
		if _, ok := body[f]; ok {
			return nil
		}
	}
	return code.ErrorUpdateNotAllowed
}
