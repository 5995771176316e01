package logger

// 统一的日志字段命名常量
// 用于确保整个项目中日志字段命名的一致性，便于日志查询和分析
const (
	// FieldTraceID 追踪 ID 字段
	FieldTraceID = "traceId"

	// FieldUID 操作用户 ID 字段
	FieldUID = "uid"

	// FieldAction 操作类型字段 (CREATE / UPDATE / DELETE)
	FieldAction = "action"

	// FieldEntityType 实体类型字段
	FieldEntityType = "entityType"

	// FieldEntityID 实体 ID 字段
	FieldEntityID = "entityId"

	// FieldHistoryID 历史记录 ID 字段
	FieldHistoryID = "historyId"

	// FieldKey 写队列键字段
	FieldKey = "key"

	// FieldStep 事务步骤序号字段
	FieldStep = "step"

	// FieldSink 变更推送目标字段
	FieldSink = "sink"

	// FieldDuration 耗时字段
	FieldDuration = "duration"

	// FieldMethod 方法名称字段
	FieldMethod = "method"

	// FieldPath 请求路径字段
	FieldPath = "path"

	// FieldError 错误信息字段
	FieldError = "error"
)
