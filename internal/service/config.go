// Package service implements the business logic layer
// Package service 实现业务逻辑层
package service

// ServiceConfig service layer configuration
// ServiceConfig 服务层配置
type ServiceConfig struct {
	User UserServiceConfig // User related config // 用户相关配置
	App  AppServiceConfig  // App related config // 应用相关配置
}

// UserServiceConfig user service configuration
// UserServiceConfig 用户服务配置
type UserServiceConfig struct {
	RegisterIsEnable bool   // Whether registration is enabled // 注册是否启用
	DefaultRole      string // Role label given to new users // 新用户的默认角色
}

// AppServiceConfig app service configuration
// AppServiceConfig 应用服务配置
type AppServiceConfig struct {
	StockPageSizeMax   int // Max stock list page size // 库存列表每页最大数量
	HistoryPageSizeMax int // Max history page size // 历史记录每页最大数量
}

// defaultServiceConfig 未提供配置时使用
func defaultServiceConfig() *ServiceConfig {
	return &ServiceConfig{
		User: UserServiceConfig{RegisterIsEnable: true, DefaultRole: "staff"},
		App:  AppServiceConfig{StockPageSizeMax: 10, HistoryPageSizeMax: 100},
	}
}
