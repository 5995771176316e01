package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/haierkeys/inventory-audit-service/pkg/diff"
)

// Product 商品领域模型
type Product struct {
	ID          uuid.UUID
	Name        string
	Description string
	CategoryID  uuid.UUID
	Price       float64
	SKU         string
	Active      bool
	Version     int64
	UpdatedBy   *uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (p *Product) EntityType() string      { return EntityProduct }
func (p *Product) EntityID() uuid.UUID     { return p.ID }
func (p *Product) UpdatedByID() *uuid.UUID { return p.UpdatedBy }

// Snapshot 商品快照
func (p *Product) Snapshot() diff.Snapshot {
	return diff.Of(
		diff.F("id", p.ID),
		diff.F("name", p.Name),
		diff.F("description", p.Description),
		diff.F("category_id", p.CategoryID),
		diff.F("price", p.Price),
		diff.F("sku", p.SKU),
		diff.F("active", p.Active),
		diff.F("version", p.Version),
		diff.F("updated_by", p.UpdatedBy),
		diff.F("created_at", p.CreatedAt),
		diff.F("updated_at", p.UpdatedAt),
	)
}

// ProductWithCategory 商品及其分类名称（列表展示用）
type ProductWithCategory struct {
	Product
	CategoryName string
}
