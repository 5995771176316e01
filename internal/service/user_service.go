package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/haierkeys/inventory-audit-service/internal/audit"
	"github.com/haierkeys/inventory-audit-service/internal/domain"
	"github.com/haierkeys/inventory-audit-service/internal/dto"
	"github.com/haierkeys/inventory-audit-service/pkg/app"
	"github.com/haierkeys/inventory-audit-service/pkg/code"
	"github.com/haierkeys/inventory-audit-service/pkg/logger"
	"github.com/haierkeys/inventory-audit-service/pkg/timex"
	"github.com/haierkeys/inventory-audit-service/pkg/util"
	"github.com/haierkeys/inventory-audit-service/pkg/validator"
	"go.uber.org/zap"
)

// UserService 定义用户业务服务接口
type UserService interface {
	// Register 用户注册
	Register(ctx context.Context, params *dto.UserRegisterRequest) (*dto.UserDTO, error)

	// Login 用户登录
	Login(ctx context.Context, params *dto.UserLoginRequest, clientIP string) (*dto.UserDTO, error)

	// GetInfo 获取用户信息
	GetInfo(ctx context.Context, uid uuid.UUID) (*dto.UserDTO, error)
}

// userService 实现 UserService 接口
type userService struct {
	userRepo     domain.UserRepository
	roleRepo     domain.RoleRepository
	users        *audit.AuditedRepository[*domain.User]
	tokenManager app.TokenManager
	logger       *zap.Logger
	config       *ServiceConfig
}

// NewUserService 创建 UserService 实例
func NewUserService(userRepo domain.UserRepository, roleRepo domain.RoleRepository, users *audit.AuditedRepository[*domain.User], tokenManager app.TokenManager, logger *zap.Logger, config *ServiceConfig) UserService {
	if config == nil {
		config = defaultServiceConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &userService{
		userRepo:     userRepo,
		roleRepo:     roleRepo,
		users:        users,
		tokenManager: tokenManager,
		logger:       logger,
		config:       config,
	}
}

// domainToDTO 将领域模型转换为 DTO
func (s *userService) domainToDTO(user *domain.User, role string) *dto.UserDTO {
	if user == nil {
		return nil
	}
	return &dto.UserDTO{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Role:      role,
		UpdatedAt: timex.Time(user.UpdatedAt),
		CreatedAt: timex.Time(user.CreatedAt),
	}
}

// roleLabel 获取角色名称，读取失败时返回空
func (s *userService) roleLabel(ctx context.Context, id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	role, err := s.roleRepo.GetByID(ctx, *id)
	if err != nil {
		s.logger.Debug("role lookup failed", zap.String("roleId", id.String()), zap.Error(err))
		return ""
	}
	return role.Label
}

// Register 用户注册
// 新用户以自身作为操作人记录 CREATE 历史，密码哈希不进入快照
func (s *userService) Register(ctx context.Context, params *dto.UserRegisterRequest) (*dto.UserDTO, error) {
	if !s.config.User.RegisterIsEnable {
		return nil, code.ErrorUserRegisterIsDisable
	}
	if !validator.StrongPassword(params.Password) {
		return nil, code.ErrorPasswordNotValid
	}

	email := util.NormalizeEmail(params.Email)
	if !util.IsValidEmail(email) {
		return nil, code.ErrorInvalidParams.WithDetails("email")
	}

	// 检查邮箱是否已存在
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, storeError(err, nil, nil)
	}
	if existing != nil {
		return nil, code.ErrorUserEmailExists
	}

	password, err := util.GeneratePasswordHash(params.Password)
	if err != nil {
		return nil, code.ErrorPasswordNotValid
	}

	var roleID *uuid.UUID
	roleName := s.config.User.DefaultRole
	if roleName != "" {
		role, err := s.roleRepo.EnsureLabel(ctx, roleName)
		if err != nil {
			return nil, storeError(err, nil, nil)
		}
		roleID = &role.ID
	}

	id := uuid.New()
	ac := audit.System().WithOptions(id)
	user, err := s.users.Create(ctx, ac, &domain.User{
		ID:        id,
		FirstName: strings.TrimSpace(params.FirstName),
		LastName:  strings.TrimSpace(params.LastName),
		Email:     email,
		Password:  password,
		RoleID:    roleID,
		Active:    true,
	})
	if err != nil {
		return nil, storeError(err, nil, code.ErrorUserEmailExists)
	}

	token, err := s.tokenManager.Generate(user.ID, user.Email, "")
	if err != nil {
		return nil, code.ErrorTokenGenerate.WithDetails(err.Error())
	}

	s.logger.Info("user registered", zap.String(logger.FieldUID, user.ID.String()))

	out := s.domainToDTO(user, roleName)
	out.Token = token
	return out, nil
}

// Login 用户登录
func (s *userService) Login(ctx context.Context, params *dto.UserLoginRequest, clientIP string) (*dto.UserDTO, error) {
	user, err := s.userRepo.GetByEmail(ctx, util.NormalizeEmail(params.Email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// 不暴露用户是否存在，统一返回邮箱或密码错误
			return nil, code.ErrorUserLoginFailed
		}
		return nil, storeError(err, nil, nil)
	}

	if !util.CheckPasswordHash(user.Password, params.Password) {
		return nil, code.ErrorUserLoginFailed
	}

	token, err := s.tokenManager.Generate(user.ID, user.Email, clientIP)
	if err != nil {
		return nil, code.ErrorTokenGenerate.WithDetails(err.Error())
	}

	out := s.domainToDTO(user, s.roleLabel(ctx, user.RoleID))
	out.Token = token
	return out, nil
}

// GetInfo 获取用户信息
func (s *userService) GetInfo(ctx context.Context, uid uuid.UUID) (*dto.UserDTO, error) {
	user, err := s.userRepo.FindOne(ctx, domain.ActiveByID(uid))
	if err != nil {
		return nil, storeError(err, code.ErrorUserNotFound, nil)
	}
	return s.domainToDTO(user, s.roleLabel(ctx, user.RoleID)), nil
}

var _ UserService = (*userService)(nil)
