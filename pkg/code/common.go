package code

import "net/http"

var (
	Success = NewSuss(1, lang{en: "Success", zh_cn: "成功"})
	Created = NewSuss(2, lang{en: "Created", zh_cn: "创建成功"}, http.StatusCreated)
	Updated = NewSuss(3, lang{en: "Updated", zh_cn: "更新成功"})
	Deleted = NewSuss(4, lang{en: "Deleted", zh_cn: "删除成功"})

	ErrorServerInternal  = NewError(500, lang{en: "Internal server error", zh_cn: "服务器内部错误"}, http.StatusInternalServerError)
	ErrorNotFoundAPI     = NewError(404, lang{en: "API not found", zh_cn: "接口不存在"}, http.StatusNotFound)
	ErrorTooManyRequests = NewError(429, lang{en: "Too many requests", zh_cn: "请求过多"}, http.StatusTooManyRequests)
	ErrorDBQuery         = NewError(501, lang{en: "Database query failed", zh_cn: "数据库查询失败"}, http.StatusInternalServerError)

	// 参数与校验 (1xxx)
	ErrorInvalidParams             = NewError(1001, lang{en: "Invalid parameters", zh_cn: "参数错误"})
	ErrorUpdateNotAllowed          = NewError(1002, lang{en: "Update not allowed for these fields", zh_cn: "不允许更新这些字段"})
	ErrorFullUpdateFieldsRequired  = NewError(1003, lang{en: "Price, description, category and quantity are required", zh_cn: "价格、描述、分类与数量均为必填"})
	ErrorInvalidID                 = NewError(1004, lang{en: "Invalid ID", zh_cn: "ID 格式错误"})
	ErrorInvalidModel              = NewError(1005, lang{en: "Unknown history model", zh_cn: "不支持的历史记录类型"})
	ErrorCategoryInactive          = NewError(1006, lang{en: "Category is not active", zh_cn: "分类已停用"})
	ErrorNegativeQuantity          = NewError(1007, lang{en: "Quantity must not be negative", zh_cn: "数量不能为负数"})

	// 未找到 (2xxx)
	ErrorProductNotFound  = NewError(2001, lang{en: "Product not found", zh_cn: "商品不存在"}, http.StatusNotFound)
	ErrorStockNotFound    = NewError(2002, lang{en: "Stock not found", zh_cn: "库存不存在"}, http.StatusNotFound)
	ErrorCategoryNotFound = NewError(2003, lang{en: "Category not found", zh_cn: "分类不存在"}, http.StatusNotFound)
	ErrorUserNotFound     = NewError(2004, lang{en: "User not found", zh_cn: "用户不存在"}, http.StatusNotFound)

	// 冲突 (3xxx)
	ErrorProductExists   = NewError(3001, lang{en: "Product already exists", zh_cn: "商品已存在"}, http.StatusConflict)
	ErrorSKUExists       = NewError(3002, lang{en: "SKU already exists", zh_cn: "SKU 已存在"}, http.StatusConflict)
	ErrorCategoryExists  = NewError(3003, lang{en: "Category already exists", zh_cn: "分类已存在"}, http.StatusConflict)
	ErrorStockExists     = NewError(3004, lang{en: "Stock already exists for this product", zh_cn: "该商品已存在库存"}, http.StatusConflict)
	ErrorUserEmailExists = NewError(3005, lang{en: "Email already registered", zh_cn: "邮箱已被注册"}, http.StatusConflict)

	// 事务 (4xxx)
	ErrorFullUpdateFailed = NewError(4001, lang{en: "Full update failed, nothing was changed", zh_cn: "整体更新失败，未做任何修改"}, http.StatusInternalServerError)

	// 用户与鉴权 (5xxx)
	ErrorNotUserAuthToken      = NewError(5001, lang{en: "Authentication token missing", zh_cn: "缺少登录凭证"}, http.StatusUnauthorized)
	ErrorInvalidUserAuthToken  = NewError(5002, lang{en: "Authentication token invalid or expired", zh_cn: "登录凭证无效或已过期"}, http.StatusUnauthorized)
	ErrorUserLoginFailed       = NewError(5003, lang{en: "Email or password incorrect", zh_cn: "邮箱或密码错误"}, http.StatusUnauthorized)
	ErrorUserRegisterIsDisable = NewError(5004, lang{en: "Registration is disabled", zh_cn: "注册已关闭"}, http.StatusForbidden)
	ErrorPasswordNotValid      = NewError(5005, lang{en: "Password must be at least 8 characters with letters and digits", zh_cn: "密码至少 8 位且包含字母和数字"})
	ErrorTokenGenerate         = NewError(5006, lang{en: "Token generation failed", zh_cn: "生成凭证失败"}, http.StatusInternalServerError)

	// 运行状态 (6xxx)
	ErrorUnhealthy = NewError(6001, lang{en: "Service unhealthy", zh_cn: "服务不可用"}, http.StatusServiceUnavailable)
)
