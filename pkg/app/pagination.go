package app

import (
	"github.com/haierkeys/inventory-audit-service/pkg/convert"

	"github.com/gin-gonic/gin"
)

// PaginationConfig 分页配置
type PaginationConfig struct {
	DefaultPageSize int
	MaxPageSize     int
}

// DefaultPaginationConfig 默认分页配置
var DefaultPaginationConfig = PaginationConfig{
	DefaultPageSize: 10,
	MaxPageSize:     100,
}

// CappedPagination 默认值与上限相同的分页配置
func CappedPagination(max int) PaginationConfig {
	return PaginationConfig{DefaultPageSize: max, MaxPageSize: max}
}

// queryInt 依次读取查询参数与表单字段
func queryInt(c *gin.Context, key string) int {
	if s, ok := c.GetQuery(key); ok {
		return convert.StrTo(s).MustInt()
	}
	return convert.StrTo(c.PostForm(key)).MustInt()
}

// GetPage 页码，从 1 开始
func GetPage(c *gin.Context) int {
	if page := queryInt(c, "page"); page > 0 {
		return page
	}
	return 1
}

// GetPageSizeWithConfig 每页数量，未给出时取默认值，超过上限时取上限
func GetPageSizeWithConfig(c *gin.Context, cfg PaginationConfig) int {
	pageSize := queryInt(c, "pageSize")
	switch {
	case pageSize <= 0:
		return cfg.DefaultPageSize
	case pageSize > cfg.MaxPageSize:
		return cfg.MaxPageSize
	}
	return pageSize
}

func GetPageSize(c *gin.Context) int {
	return GetPageSizeWithConfig(c, DefaultPaginationConfig)
}
