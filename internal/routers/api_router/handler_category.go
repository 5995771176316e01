package api_router

import (
	"github.com/haierkeys/inventory-audit-service/internal/app"
	"github.com/haierkeys/inventory-audit-service/internal/dto"
	pkgapp "github.com/haierkeys/inventory-audit-service/pkg/app"
	"github.com/haierkeys/inventory-audit-service/pkg/code"
	apperrors "github.com/haierkeys/inventory-audit-service/pkg/errors"

	"github.com/gin-gonic/gin"
)

// CategoryHandler 分类 API 路由处理器
type CategoryHandler struct {
	*Handler
}

// NewCategoryHandler 创建 CategoryHandler 实例
func NewCategoryHandler(a *app.App) *CategoryHandler {
	return &CategoryHandler{Handler: NewHandler(a)}
}

// Create 创建分类
// @Summary Create category
// @Description 名称去除首尾空格并转为大写，有效分类中名称唯一
// @Tags Category
// @Accept json
// @Produce json
// @Param params body dto.CategoryCreateRequest true "Category"
// @Success 201 {object} pkgapp.Res{data=dto.CategoryDTO}
// @Failure 409 {object} pkgapp.Res "Category Exists"
// @Router /api/category [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.CategoryCreateRequest{}
	if !h.bind(c, "CategoryHandler.Create", params) {
		return
	}
	h.withReasonHeader(c, &params.AuditNote)

	ctx := c.Request.Context()
	out, err := h.App.CategoryService.Create(ctx, params)
	if err != nil {
		h.logError(ctx, "CategoryHandler.Create", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Created.WithData(out))
}

// List 获取有效分类
// @Router /api/category [get]
func (h *CategoryHandler) List(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	ctx := c.Request.Context()

	list, err := h.App.CategoryService.List(ctx)
	if err != nil {
		h.logError(ctx, "CategoryHandler.List", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponseList(code.Success, list, len(list))
}

// Delete 软删除分类
// @Router /api/category/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	note, ok := h.auditNote(c, "CategoryHandler.Delete")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := h.App.CategoryService.Delete(ctx, c.Param("id"), note); err != nil {
		h.logError(ctx, "CategoryHandler.Delete", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Deleted)
}
