package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/haierkeys/inventory-audit-service/pkg/diff"
)

// User 用户领域模型
type User struct {
	ID        uuid.UUID
	FirstName string
	LastName  string
	Email     string
	Password  string
	RoleID    *uuid.UUID
	Active    bool
	Version   int64
	UpdatedBy *uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u *User) EntityType() string      { return EntityUser }
func (u *User) EntityID() uuid.UUID     { return u.ID }
func (u *User) UpdatedByID() *uuid.UUID { return u.UpdatedBy }

// Snapshot 用户快照，不包含密码哈希
func (u *User) Snapshot() diff.Snapshot {
	return diff.Of(
		diff.F("id", u.ID),
		diff.F("first_name", u.FirstName),
		diff.F("last_name", u.LastName),
		diff.F("email", u.Email),
		diff.F("role_id", u.RoleID),
		diff.F("active", u.Active),
		diff.F("version", u.Version),
		diff.F("updated_by", u.UpdatedBy),
		diff.F("created_at", u.CreatedAt),
		diff.F("updated_at", u.UpdatedAt),
	)
}

// IsActive 判断用户是否有效
func (u *User) IsActive() bool {
	return u.Active
}

// FullName 用户全名
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Role 角色领域模型
type Role struct {
	ID        uuid.UUID
	Label     string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
