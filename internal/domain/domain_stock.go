package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/haierkeys/inventory-audit-service/pkg/diff"
)

// Stock 库存领域模型，每个商品最多一条有效库存
type Stock struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	Quantity  int64
	Active    bool
	Version   int64
	UpdatedBy *uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s *Stock) EntityType() string      { return EntityStock }
func (s *Stock) EntityID() uuid.UUID     { return s.ID }
func (s *Stock) UpdatedByID() *uuid.UUID { return s.UpdatedBy }

// Snapshot 库存快照
func (s *Stock) Snapshot() diff.Snapshot {
	return diff.Of(
		diff.F("id", s.ID),
		diff.F("product_id", s.ProductID),
		diff.F("quantity", s.Quantity),
		diff.F("active", s.Active),
		diff.F("version", s.Version),
		diff.F("updated_by", s.UpdatedBy),
		diff.F("created_at", s.CreatedAt),
		diff.F("updated_at", s.UpdatedAt),
	)
}

// StockView 库存及其商品、分类信息（列表展示用）
type StockView struct {
	Stock
	ProductName        string
	ProductDescription string
	ProductPrice       float64
	ProductSKU         string
	CategoryName       string
}
