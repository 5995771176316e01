package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/haierkeys/inventory-audit-service/internal/domain"
	"github.com/haierkeys/inventory-audit-service/internal/dto"
	"github.com/haierkeys/inventory-audit-service/pkg/code"
	"github.com/haierkeys/inventory-audit-service/pkg/convert"
	"github.com/haierkeys/inventory-audit-service/pkg/util"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// HistoryService 定义历史记录查询服务接口
type HistoryService interface {
	// List 获取实体的历史记录，按时间倒序，附带操作人信息
	// PageSize 为 0 时返回全部记录
	List(ctx context.Context, params *dto.HistoryListRequest) ([]*dto.HistoryDTO, int, error)

	// NormalizeModel 将不区分大小写的实体类型名称转换为标准名称
	NormalizeModel(model string) (string, error)
}

// historyService 实现 HistoryService 接口
type historyService struct {
	historyRepo domain.HistoryRepository // History repository // 历史记录仓储
	userRepo    domain.UserRepository    // User repository // 用户仓储
	roleRepo    domain.RoleRepository    // Role repository // 角色仓储
	sf          *singleflight.Group      // Singleflight group // 并发请求合并组
	logger      *zap.Logger              // Logger // 日志对象
	config      *AppServiceConfig        // Service configuration // 服务配置
}

// historyPage 合并请求共享的查询结果
type historyPage struct {
	list  []*dto.HistoryDTO
	total int
}

// NewHistoryService 创建 HistoryService 实例
func NewHistoryService(historyRepo domain.HistoryRepository, userRepo domain.UserRepository, roleRepo domain.RoleRepository, logger *zap.Logger, config *AppServiceConfig) HistoryService {
	if config == nil {
		config = &defaultServiceConfig().App
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &historyService{
		historyRepo: historyRepo,
		userRepo:    userRepo,
		roleRepo:    roleRepo,
		sf:          &singleflight.Group{},
		logger:      logger,
		config:      config,
	}
}

// NormalizeModel 实体类型名称不区分大小写
func (s *historyService) NormalizeModel(model string) (string, error) {
	for _, t := range domain.TrackedTypes {
		if strings.EqualFold(t, strings.TrimSpace(model)) {
			return t, nil
		}
	}
	return "", code.ErrorInvalidModel.WithDetails(model)
}

// List 获取实体的历史记录
func (s *historyService) List(ctx context.Context, params *dto.HistoryListRequest) ([]*dto.HistoryDTO, int, error) {
	entityType, err := s.NormalizeModel(params.Model)
	if err != nil {
		return nil, 0, err
	}
	entityID, err := parseID(params.ID)
	if err != nil {
		return nil, 0, err
	}

	pageSize := params.PageSize
	if pageSize > s.config.HistoryPageSizeMax {
		pageSize = s.config.HistoryPageSizeMax
	}
	page := params.Page
	if page < 1 {
		page = 1
	}

	key := fmt.Sprintf("%s:%s:%d:%d", entityType, entityID, page, pageSize)
	// 共享的查询不随首个调用方的取消而失败
	loadCtx := context.WithoutCancel(ctx)
	v, err, _ := s.sf.Do(key, func() (any, error) {
		return s.load(loadCtx, entityType, entityID, page, pageSize)
	})
	if err != nil {
		return nil, 0, err
	}
	res := v.(*historyPage)
	return res.list, res.total, nil
}

func (s *historyService) load(ctx context.Context, entityType string, entityID uuid.UUID, page, pageSize int) (*historyPage, error) {
	var (
		records []*domain.HistoryRecord
		total   int
		err     error
	)
	if pageSize > 0 {
		records, err = s.historyRepo.ListByEntityPage(ctx, entityType, entityID, page, pageSize)
		if err != nil {
			return nil, storeError(err, nil, nil)
		}
		count, err := s.historyRepo.CountByEntity(ctx, entityType, entityID)
		if err != nil {
			return nil, storeError(err, nil, nil)
		}
		total = int(count)
	} else {
		records, err = s.historyRepo.ListByEntity(ctx, entityType, entityID)
		if err != nil {
			return nil, storeError(err, nil, nil)
		}
		total = len(records)
	}

	actors := s.actors(ctx, records)
	out := make([]*dto.HistoryDTO, 0, len(records))
	for _, rec := range records {
		item := &dto.HistoryDTO{
			ID:             rec.ID,
			EntityType:     rec.EntityType,
			EntityID:       rec.EntityID,
			Action:         string(rec.Action),
			ActorID:        rec.ActorID,
			Changes:        dto.NewHistoryChanges(rec.Changes),
			Reason:         rec.Reason,
			ReferenceID:    rec.ReferenceID,
			ReferenceModel: rec.ReferenceModel,
			Notes:          rec.Notes,
			Timestamp:      rec.Timestamp.UnixMilli(),
		}
		if rec.ActorID != nil {
			item.Actor = actors[*rec.ActorID]
		}
		out = append(out, item)
	}
	return &historyPage{list: out, total: total}, nil
}

// actors 批量展开操作人信息，读取失败时历史记录仍然返回，只是不带操作人详情
func (s *historyService) actors(ctx context.Context, records []*domain.HistoryRecord) map[uuid.UUID]*dto.HistoryActorDTO {
	var ids []uuid.UUID
	for _, rec := range records {
		if rec.ActorID != nil {
			ids = append(ids, *rec.ActorID)
		}
	}
	ids = util.Unique(ids)
	out := make(map[uuid.UUID]*dto.HistoryActorDTO, len(ids))
	if len(ids) == 0 {
		return out
	}

	users, err := s.userRepo.ListByIDs(ctx, ids)
	if err != nil {
		s.logger.Warn("history actor lookup failed", zap.Error(err))
		return out
	}

	var roleIDs []uuid.UUID
	for _, u := range users {
		if u.RoleID != nil {
			roleIDs = append(roleIDs, *u.RoleID)
		}
	}
	labels := make(map[uuid.UUID]string)
	if roles, err := s.roleRepo.ListByIDs(ctx, util.Unique(roleIDs)); err != nil {
		s.logger.Warn("history role lookup failed", zap.Error(err))
	} else {
		for _, r := range roles {
			labels[r.ID] = r.Label
		}
	}

	for _, u := range users {
		actor := &dto.HistoryActorDTO{}
		if err := convert.StructAssign(u, actor); err != nil {
			actor = &dto.HistoryActorDTO{FirstName: u.FirstName, LastName: u.LastName, Email: u.Email}
		}
		if u.RoleID != nil {
			actor.Role = labels[*u.RoleID]
		}
		out[u.ID] = actor
	}
	return out
}

var _ HistoryService = (*historyService)(nil)
