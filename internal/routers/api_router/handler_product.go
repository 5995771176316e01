package api_router

import (
	"github.com/haierkeys/inventory-audit-service/internal/app"
	"github.com/haierkeys/inventory-audit-service/internal/dto"
	pkgapp "github.com/haierkeys/inventory-audit-service/pkg/app"
	"github.com/haierkeys/inventory-audit-service/pkg/code"
	apperrors "github.com/haierkeys/inventory-audit-service/pkg/errors"

	"github.com/gin-gonic/gin"
)

// ProductHandler 商品 API 路由处理器
// 使用 App Container 注入依赖，支持统一错误处理
type ProductHandler struct {
	*Handler
}

// NewProductHandler 创建 ProductHandler 实例
func NewProductHandler(a *app.App) *ProductHandler {
	return &ProductHandler{Handler: NewHandler(a)}
}

// productPatchData 商品定向更新中实际修改数据的键
var productPatchData = []string{"description", "categoryId", "price"}

// Create 创建商品
// @Summary Create product
// @Tags Product
// @Accept json
// @Produce json
// @Param params body dto.ProductCreateRequest true "Product"
// @Success 201 {object} pkgapp.Res{data=dto.ProductDTO}
// @Failure 404 {object} pkgapp.Res "Category Not Found"
// @Failure 409 {object} pkgapp.Res "Product / SKU Exists"
// @Router /api/product [post]
func (h *ProductHandler) Create(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.ProductCreateRequest{}
	if !h.bind(c, "ProductHandler.Create", params) {
		return
	}
	h.withReasonHeader(c, &params.AuditNote)

	ctx := c.Request.Context()
	out, err := h.App.ProductService.Create(ctx, params)
	if err != nil {
		h.logError(ctx, "ProductHandler.Create", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Created.WithData(out))
}

// List 获取有效商品及分类名称
// @Router /api/product [get]
func (h *ProductHandler) List(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	ctx := c.Request.Context()

	list, err := h.App.ProductService.List(ctx)
	if err != nil {
		h.logError(ctx, "ProductHandler.List", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponseList(code.Success, list, len(list))
}

// Get 获取单个有效商品
// @Router /api/product/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	ctx := c.Request.Context()

	out, err := h.App.ProductService.Get(ctx, c.Param("id"))
	if err != nil {
		h.logError(ctx, "ProductHandler.Get", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(out))
}

// Patch 定向更新商品描述、分类或价格
// 请求体包含其他字段或不包含任何可修改字段时拒绝
// @Summary Targeted product update
// @Tags Product
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param params body dto.ProductPatchRequest true "Changed fields"
// @Success 200 {object} pkgapp.Res{data=dto.ProductDTO}
// @Failure 400 {object} pkgapp.Res "Update Not Allowed"
// @Router /api/product/{id} [patch]
func (h *ProductHandler) Patch(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	ctx := c.Request.Context()

	if err := checkPatchKeys(c, dto.ProductPatchFields, productPatchData); err != nil {
		apperrors.ErrorResponse(c, err)
		return
	}
	params := &dto.ProductPatchRequest{}
	if !h.bind(c, "ProductHandler.Patch", params) {
		return
	}
	h.withReasonHeader(c, &params.AuditNote)

	out, err := h.App.ProductService.Patch(ctx, c.Param("id"), params)
	if err != nil {
		h.logError(ctx, "ProductHandler.Patch", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Updated.WithData(out))
}

// FullUpdate 在同一事务内更新商品与库存
// @Summary Product and stock full update
// @Description 价格、描述、分类与数量全部必填，任一步失败则全部回滚且不留历史记录
// @Tags Product
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param params body dto.ProductFullUpdateRequest true "Full update"
// @Success 200 {object} pkgapp.Res{data=dto.ProductFullUpdateDTO}
// @Failure 500 {object} pkgapp.Res "Full Update Failed"
// @Router /api/product/{id}/full-update [patch]
func (h *ProductHandler) FullUpdate(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	ctx := c.Request.Context()

	params := &dto.ProductFullUpdateRequest{}
	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		// 缺少字段与其他参数错误区分返回
		if !params.Complete() {
			apperrors.ErrorResponse(c, code.ErrorFullUpdateFieldsRequired.WithDetails(errs.ErrorsToString()))
			return
		}
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}
	h.withReasonHeader(c, &params.AuditNote)

	out, err := h.App.ProductService.FullUpdate(ctx, c.Param("id"), params)
	if err != nil {
		h.logError(ctx, "ProductHandler.FullUpdate", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Updated.WithData(out))
}

// Delete 软删除商品
// @Router /api/product/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	note, ok := h.auditNote(c, "ProductHandler.Delete")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := h.App.ProductService.Delete(ctx, c.Param("id"), note); err != nil {
		h.logError(ctx, "ProductHandler.Delete", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Deleted)
}
