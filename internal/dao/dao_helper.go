package dao

import (
	"github.com/google/uuid"
	"github.com/haierkeys/inventory-audit-service/internal/domain"
	"github.com/haierkeys/inventory-audit-service/pkg/timex"
	"gorm.io/gorm"
)

// firstRow 获取第一条匹配查询条件的记录
func firstRow[M any](db *gorm.DB, q domain.Query) (*M, error) {
	var m M
	if err := db.Where(map[string]any(q)).First(&m).Error; err != nil {
		return nil, wrapErr(err)
	}
	return &m, nil
}

// rowByID 根据主键获取记录
func rowByID[M any](db *gorm.DB, id uuid.UUID) (*M, error) {
	var m M
	if err := db.Where("id = ?", id).First(&m).Error; err != nil {
		return nil, wrapErr(err)
	}
	return &m, nil
}

// updateRow 更新主键对应记录的指定列，同时递增版本号并刷新更新时间
func updateRow[M any](db *gorm.DB, id uuid.UUID, p domain.Patch) error {
	cols := make(map[string]any, p.Len()+2)
	for _, name := range p.Fields() {
		v, _ := p.Get(name)
		cols[name] = v
	}
	cols["version"] = gorm.Expr("version + ?", 1)
	cols["updated_at"] = timex.Now()

	res := db.Model(new(M)).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return wrapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// pageOffset 计算分页偏移量
func pageOffset(page, pageSize int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * pageSize
}
