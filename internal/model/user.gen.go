package model

import (
	"github.com/google/uuid"
	"github.com/haierkeys/inventory-audit-service/pkg/timex"
)

const TableNameUser = "user"

// User mapped from table <user>
type User struct {
	ID        uuid.UUID  `gorm:"column:id;type:varchar(36);primaryKey" json:"id" form:"id"`
	FirstName string     `gorm:"column:first_name;size:128;not null" json:"firstName" form:"firstName"`
	LastName  string     `gorm:"column:last_name;size:128;not null" json:"lastName" form:"lastName"`
	Email     string     `gorm:"column:email;size:255;not null;index:idx_user_email" json:"email" form:"email"`
	Password  string     `gorm:"column:password;size:255;not null" json:"password" form:"password"`
	RoleID    *uuid.UUID `gorm:"column:role_id;type:varchar(36)" json:"roleId" form:"roleId"`
	Active    bool       `gorm:"column:active;not null;default:true;index:idx_user_email" json:"active" form:"active"`
	Version   int64      `gorm:"column:version;not null;default:1" json:"version" form:"version"`
	UpdatedBy *uuid.UUID `gorm:"column:updated_by;type:varchar(36)" json:"updatedBy" form:"updatedBy"`
	CreatedAt timex.Time `gorm:"column:created_at;autoCreateTime:false" json:"createdAt" form:"createdAt"`
	UpdatedAt timex.Time `gorm:"column:updated_at;autoUpdateTime:false" json:"updatedAt" form:"updatedAt"`
}

// TableName User's table name
func (*User) TableName() string {
	return TableNameUser
}
