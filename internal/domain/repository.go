// Package domain 定义领域模型和接口
package domain

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the write surface shared by every tracked entity kind.
// E is the pointer type of the entity, for example *Product.
// Repository 所有被审计实体共用的读写接口，E 为实体指针类型
type Repository[E Entity] interface {
	// Create 创建实体，返回持久化后的实体
	Create(ctx context.Context, e E) (E, error)

	// FindByID 根据ID获取实体（包含已软删除）
	FindByID(ctx context.Context, id uuid.UUID) (E, error)

	// FindOne 获取第一个匹配查询条件的实体
	FindOne(ctx context.Context, q Query) (E, error)

	// UpdateOne 对第一个匹配的实体执行定向字段更新，返回更新后的实体
	// 没有匹配时返回 ErrNotFound
	UpdateOne(ctx context.Context, q Query, p Patch) (E, error)
}

// CategoryRepository 分类仓储接口
type CategoryRepository interface {
	Repository[*Category]

	// ListActive 获取全部有效分类
	ListActive(ctx context.Context) ([]*Category, error)

	// ExistsActiveName 判断有效分类中是否已存在该名称
	ExistsActiveName(ctx context.Context, name string) (bool, error)
}

// ProductRepository 商品仓储接口
type ProductRepository interface {
	Repository[*Product]

	// ListActive 获取全部有效商品及分类名称
	ListActive(ctx context.Context) ([]*ProductWithCategory, error)

	// GetActiveWithCategory 获取单个有效商品及分类名称
	GetActiveWithCategory(ctx context.Context, id uuid.UUID) (*ProductWithCategory, error)

	// ExistsActive 判断有效商品中是否存在指定列值
	ExistsActive(ctx context.Context, column string, value any) (bool, error)

	// CountActive 有效商品数量
	CountActive(ctx context.Context) (int64, error)
}

// StockRepository 库存仓储接口
type StockRepository interface {
	Repository[*Stock]

	// ListActive 分页获取有效库存及商品、分类信息
	ListActive(ctx context.Context, page, pageSize int) ([]*StockView, error)

	// CountActive 有效库存数量
	CountActive(ctx context.Context) (int64, error)
}

// UserRepository 用户仓储接口
type UserRepository interface {
	Repository[*User]

	// GetByEmail 根据邮箱获取有效用户
	GetByEmail(ctx context.Context, email string) (*User, error)

	// ListByIDs 批量获取用户
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*User, error)
}

// RoleRepository 角色仓储接口
type RoleRepository interface {
	// GetByID 根据ID获取角色
	GetByID(ctx context.Context, id uuid.UUID) (*Role, error)

	// EnsureLabel 获取指定名称的角色，不存在时创建
	EnsureLabel(ctx context.Context, label string) (*Role, error)

	// ListByIDs 批量获取角色
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*Role, error)
}

// HistoryRepository is the append-only history store
// HistoryRepository 只追加的历史记录仓储，不提供修改与删除
type HistoryRepository interface {
	// Append 追加一条历史记录，返回记录ID
	Append(ctx context.Context, rec *HistoryRecord) (string, error)

	// ListByEntity 获取实体的全部历史记录，按时间倒序
	ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]*HistoryRecord, error)

	// ListByEntityPage 分页获取实体的历史记录，按时间倒序
	ListByEntityPage(ctx context.Context, entityType string, entityID uuid.UUID, page, pageSize int) ([]*HistoryRecord, error)

	// CountByEntity 实体的历史记录数量
	CountByEntity(ctx context.Context, entityType string, entityID uuid.UUID) (int64, error)

	// Count 历史记录总数
	Count(ctx context.Context) (int64, error)
}
