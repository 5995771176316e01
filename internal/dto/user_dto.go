package dto

import (
	"github.com/google/uuid"
	"github.com/haierkeys/inventory-audit-service/pkg/timex"
)

// UserRegisterRequest User registration request parameters
// UserRegisterRequest 用户注册请求参数
type UserRegisterRequest struct {
	FirstName string `json:"firstName" form:"firstName" binding:"required,trimmed_min3,max=50"` // First name // 名
	LastName  string `json:"lastName" form:"lastName" binding:"required,trimmed_min3,max=50"`   // Last name // 姓
	Email     string `json:"email" form:"email" binding:"required,email"`                       // User email // 用户邮件
	Password  string `json:"password" form:"password" binding:"required,strong_password"`       // User password // 用户密码
}

// UserLoginRequest User login request parameters
// UserLoginRequest 用户登录请求参数
type UserLoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

// ---------------- DTO / Response ----------------

// UserDTO User data transfer object
// UserDTO 用户数据传输对象
type UserDTO struct {
	ID        uuid.UUID  `json:"id"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Email     string     `json:"email"`
	Role      string     `json:"role,omitempty"`
	Token     string     `json:"token,omitempty"` // Authentication Token // 认证 Token
	UpdatedAt timex.Time `json:"updatedAt"`
	CreatedAt timex.Time `json:"createdAt"`
}
