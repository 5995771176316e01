package api_router

import (
	"github.com/haierkeys/inventory-audit-service/internal/app"
	"github.com/haierkeys/inventory-audit-service/internal/dto"
	pkgapp "github.com/haierkeys/inventory-audit-service/pkg/app"
	"github.com/haierkeys/inventory-audit-service/pkg/code"
	apperrors "github.com/haierkeys/inventory-audit-service/pkg/errors"

	"github.com/gin-gonic/gin"
)

// StockHandler 库存 API 路由处理器
type StockHandler struct {
	*Handler
}

// NewStockHandler 创建 StockHandler 实例
func NewStockHandler(a *app.App) *StockHandler {
	return &StockHandler{Handler: NewHandler(a)}
}

// Create 为商品创建库存
// @Router /api/stock [post]
func (h *StockHandler) Create(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.StockCreateRequest{}
	if !h.bind(c, "StockHandler.Create", params) {
		return
	}
	h.withReasonHeader(c, &params.AuditNote)

	ctx := c.Request.Context()
	out, err := h.App.StockService.Create(ctx, params)
	if err != nil {
		h.logError(ctx, "StockHandler.Create", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Created.WithData(out))
}

// List 分页获取有效库存，每页最多 10 条
// @Summary List stock
// @Tags Stock
// @Produce json
// @Param page query int false "Page"
// @Param pageSize query int false "Page size, at most 10"
// @Success 200 {object} pkgapp.Res{data=pkgapp.ListRes{list=[]dto.StockDTO}}
// @Router /api/stock [get]
func (h *StockHandler) List(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	ctx := c.Request.Context()

	pager := &pkgapp.Pager{
		Page:     pkgapp.GetPage(c),
		PageSize: pkgapp.GetPageSizeWithConfig(c, pkgapp.CappedPagination(h.App.Config().App.StockPageSizeMax)),
	}
	list, total, err := h.App.StockService.List(ctx, pager)
	if err != nil {
		h.logError(ctx, "StockHandler.List", err)
		apperrors.ErrorResponse(c, err)
		return
	}
	pager.TotalRows = total

	response.ToResponsePage(code.Success, list, *pager)
}

// Patch 修改库存数量，只接受 quantity
// @Router /api/stock/{id} [patch]
func (h *StockHandler) Patch(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	ctx := c.Request.Context()

	if err := checkPatchKeys(c, dto.StockPatchFields, []string{"quantity"}); err != nil {
		apperrors.ErrorResponse(c, err)
		return
	}
	params := &dto.StockPatchRequest{}
	if !h.bind(c, "StockHandler.Patch", params) {
		return
	}
	h.withReasonHeader(c, &params.AuditNote)

	out, err := h.App.StockService.Patch(ctx, c.Param("id"), params)
	if err != nil {
		h.logError(ctx, "StockHandler.Patch", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Updated.WithData(out))
}

// Delete 软删除库存
// @Router /api/stock/{id} [delete]
func (h *StockHandler) Delete(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	note, ok := h.auditNote(c, "StockHandler.Delete")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := h.App.StockService.Delete(ctx, c.Param("id"), note); err != nil {
		h.logError(ctx, "StockHandler.Delete", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Deleted)
}
