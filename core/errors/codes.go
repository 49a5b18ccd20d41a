package errors

// ErrCode 业务错误码类型
type ErrCode int

const (
	// 通用错误 1000-1999
	ErrInvalidParameter ErrCode = 1001 // 参数错误
	ErrUnauthorized     ErrCode = 1002 // 未授权
	ErrInternalError    ErrCode = 1003 // 内部错误
	ErrNotFound         ErrCode = 1004 // 资源未找到
	ErrAlreadyExists    ErrCode = 1005 // 资源已存在
	ErrOperationFailed  ErrCode = 1006 // 操作失败

	// 模型相关 2000-2999
	ErrModelNotConfigured ErrCode = 2001 // 模型未配置
	ErrLLMCallFailed      ErrCode = 2002 // LLM调用失败
	ErrLLMTimeout         ErrCode = 2003 // LLM调用超时
	ErrTranslationFailed  ErrCode = 2004 // 自然语言转SQL失败

	// SQL网关 3000-3999
	ErrNotDatabaseRequest    ErrCode = 3001 // 不是数据库请求
	ErrUnsafeStatement       ErrCode = 3002 // SQL未通过安全校验
	ErrInsufficientPrivilege ErrCode = 3003 // 写操作缺少管理员权限
	ErrRowLimitExceeded      ErrCode = 3004 // 影响行数超限，已回滚
	ErrExecutionFailure      ErrCode = 3005 // SQL执行失败

	// 学生信息 4000-4999
	ErrStudentNotFound ErrCode = 4001 // 学号不存在
	ErrStudentExists   ErrCode = 4002 // 学号已存在
	ErrInvalidFilter   ErrCode = 4003 // 不支持的过滤字段

	// 图表 5000-5999
	ErrChartFailed ErrCode = 5001 // 图表生成失败

	// 数据库相关 6000-6999
	ErrDatabaseQuery  ErrCode = 6001 // 数据库查询失败
	ErrDatabaseInsert ErrCode = 6002 // 数据库插入失败
	ErrDatabaseUpdate ErrCode = 6003 // 数据库更新失败
	ErrDatabaseDelete ErrCode = 6004 // 数据库删除失败
	ErrDatabaseInit   ErrCode = 6005 // 数据库初始化失败

	// 文件 7000-7999
	ErrExportFailed  ErrCode = 7001 // 导出失败
	ErrStorageFailed ErrCode = 7002 // 文件存储失败
)

// HTTPStatusCode 返回错误码对应的HTTP状态码
func (e ErrCode) HTTPStatusCode() int {
	switch {
	case e >= 1001 && e <= 1999:
		// 通用错误
		switch e {
		case ErrInvalidParameter:
			return 400
		case ErrUnauthorized:
			return 401
		case ErrNotFound:
			return 404
		case ErrAlreadyExists:
			return 409
		default:
			return 500
		}
	case e >= 2000 && e <= 2999:
		// 模型相关错误
		switch e {
		case ErrModelNotConfigured:
			return 503
		case ErrLLMTimeout:
			return 504
		default:
			return 502
		}
	case e >= 3000 && e <= 3999:
		// SQL网关错误
		switch e {
		case ErrNotDatabaseRequest, ErrUnsafeStatement:
			return 400
		case ErrInsufficientPrivilege:
			return 403
		case ErrRowLimitExceeded:
			return 409
		default:
			return 500
		}
	case e >= 4000 && e <= 4999:
		// 学生信息错误
		switch e {
		case ErrStudentNotFound:
			return 404
		case ErrStudentExists:
			return 409
		case ErrInvalidFilter:
			return 400
		default:
			return 500
		}
	default:
		return 500
	}
}
