package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/haierkeys/inventory-audit-service/pkg/diff"
)

// Category 商品分类领域模型
type Category struct {
	ID          uuid.UUID
	Name        string
	Description string
	Active      bool
	Version     int64
	UpdatedBy   *uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (c *Category) EntityType() string      { return EntityCategory }
func (c *Category) EntityID() uuid.UUID     { return c.ID }
func (c *Category) UpdatedByID() *uuid.UUID { return c.UpdatedBy }

// Snapshot 分类快照
func (c *Category) Snapshot() diff.Snapshot {
	return diff.Of(
		diff.F("id", c.ID),
		diff.F("name", c.Name),
		diff.F("description", c.Description),
		diff.F("active", c.Active),
		diff.F("version", c.Version),
		diff.F("updated_by", c.UpdatedBy),
		diff.F("created_at", c.CreatedAt),
		diff.F("updated_at", c.UpdatedAt),
	)
}
