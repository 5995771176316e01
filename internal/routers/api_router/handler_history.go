package api_router

import (
	"github.com/haierkeys/inventory-audit-service/internal/app"
	"github.com/haierkeys/inventory-audit-service/internal/dto"
	pkgapp "github.com/haierkeys/inventory-audit-service/pkg/app"
	"github.com/haierkeys/inventory-audit-service/pkg/code"
	apperrors "github.com/haierkeys/inventory-audit-service/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HistoryHandler 历史记录 API 路由处理器
type HistoryHandler struct {
	*Handler
}

// NewHistoryHandler 创建 HistoryHandler 实例
func NewHistoryHandler(a *app.App) *HistoryHandler {
	return &HistoryHandler{Handler: NewHandler(a)}
}

// List 获取实体的历史记录
// @Summary Entity history
// @Description 按时间倒序返回实体的全部历史记录，附带操作人信息；不传 pageSize 时返回全部
// @Tags History
// @Produce json
// @Security UserAuthToken
// @Param model path string true "category / product / stock / user"
// @Param id path string true "Entity ID"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} pkgapp.Res{data=pkgapp.ListRes{list=[]dto.HistoryDTO}}
// @Failure 400 {object} pkgapp.Res "Invalid ID / Unknown Model"
// @Router /api/history/{model}/{id} [get]
func (h *HistoryHandler) List(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	ctx := c.Request.Context()

	params := &dto.HistoryListRequest{Model: c.Param("model"), ID: c.Param("id")}
	if _, err := uuid.Parse(params.ID); err != nil {
		apperrors.ErrorResponse(c, code.ErrorInvalidID.WithDetails(params.ID))
		return
	}
	if !h.bind(c, "HistoryHandler.List", params) {
		return
	}

	list, total, err := h.App.HistoryService.List(ctx, params)
	if err != nil {
		h.logError(ctx, "HistoryHandler.List", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponsePage(code.Success, list, pkgapp.Pager{
		Page:      params.Page,
		PageSize:  params.PageSize,
		TotalRows: total,
	})
}
