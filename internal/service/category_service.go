package service

import (
	"context"
	"strings"

	"github.com/haierkeys/inventory-audit-service/internal/audit"
	"github.com/haierkeys/inventory-audit-service/internal/domain"
	"github.com/haierkeys/inventory-audit-service/internal/dto"
	"github.com/haierkeys/inventory-audit-service/pkg/code"
	"github.com/haierkeys/inventory-audit-service/pkg/convert"
	"github.com/haierkeys/inventory-audit-service/pkg/timex"
	"go.uber.org/zap"
)

// CategoryService 定义分类业务服务接口
type CategoryService interface {
	// Create 创建分类，名称去除首尾空格并转为大写
	Create(ctx context.Context, params *dto.CategoryCreateRequest) (*dto.CategoryDTO, error)

	// List 获取全部有效分类
	List(ctx context.Context) ([]*dto.CategoryDTO, error)

	// Delete 软删除分类
	Delete(ctx context.Context, id string, note dto.AuditNote) error
}

// categoryService 实现 CategoryService 接口
type categoryService struct {
	categoryRepo domain.CategoryRepository              // Category repository // 分类仓储
	audited      *audit.AuditedRepository[*domain.Category] // Audited writes // 带审计的写入
	logger       *zap.Logger
}

// NewCategoryService 创建 CategoryService 实例
func NewCategoryService(categoryRepo domain.CategoryRepository, audited *audit.AuditedRepository[*domain.Category], logger *zap.Logger) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		audited:      audited,
		logger:       logger,
	}
}

func (s *categoryService) domainToDTO(c *domain.Category) *dto.CategoryDTO {
	if c == nil {
		return nil
	}
	out := &dto.CategoryDTO{}
	_ = convert.StructAssign(c, out)
	out.CreatedAt = timex.Time(c.CreatedAt)
	out.UpdatedAt = timex.Time(c.UpdatedAt)
	return out
}

// Create 创建分类
func (s *categoryService) Create(ctx context.Context, params *dto.CategoryCreateRequest) (*dto.CategoryDTO, error) {
	name := strings.ToUpper(strings.TrimSpace(params.Name))

	exists, err := s.categoryRepo.ExistsActiveName(ctx, name)
	if err != nil {
		return nil, storeError(err, nil, nil)
	}
	if exists {
		return nil, code.ErrorCategoryExists
	}

	created, err := s.audited.Create(ctx, actorFor(ctx, params.AuditNote), &domain.Category{
		Name:        name,
		Description: strings.TrimSpace(params.Description),
		Active:      true,
	})
	if err != nil {
		return nil, storeError(err, nil, code.ErrorCategoryExists)
	}
	return s.domainToDTO(created), nil
}

// List 获取全部有效分类
func (s *categoryService) List(ctx context.Context) ([]*dto.CategoryDTO, error) {
	list, err := s.categoryRepo.ListActive(ctx)
	if err != nil {
		return nil, storeError(err, nil, nil)
	}
	out := make([]*dto.CategoryDTO, 0, len(list))
	for _, c := range list {
		out = append(out, s.domainToDTO(c))
	}
	return out, nil
}

// Delete 软删除分类
func (s *categoryService) Delete(ctx context.Context, id string, note dto.AuditNote) error {
	cid, err := parseID(id)
	if err != nil {
		return err
	}
	_, err = s.audited.SoftDelete(ctx, actorFor(ctx, note), domain.ActiveByID(cid))
	return storeError(err, code.ErrorCategoryNotFound, nil)
}

var _ CategoryService = (*categoryService)(nil)
