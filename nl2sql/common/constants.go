package common

// OperationKind SQL 语句的操作类型，由首个关键字决定
type OperationKind string

const (
	OpSelect   OperationKind = "SELECT"
	OpInsert   OperationKind = "INSERT"
	OpUpdate   OperationKind = "UPDATE"
	OpDelete   OperationKind = "DELETE"
	OpRejected OperationKind = "REJECTED"
)

// IsWrite 是否为写操作
func (k OperationKind) IsWrite() bool {
	return k == OpInsert || k == OpUpdate || k == OpDelete
}

// 失败类型，随结果信封一起返回
const (
	KindUnsafeStatement       = "unsafe_statement"
	KindInsufficientPrivilege = "insufficient_privilege"
	KindRowLimitExceeded      = "row_limit_exceeded"
	KindExecutionFailure      = "execution_failure"
	KindTranslationFailure    = "translation_failure"
	KindNotDatabaseRequest    = "not_database_request"
)

// 结果消息
const (
	MsgUnsafeStatement       = "unsafe statement"
	MsgInsufficientPrivilege = "write requires administrator privilege"
	MsgNotDatabaseRequest    = "not a database request"
	MsgQuerySucceeded        = "query succeeded, %d records"
	MsgInserted              = "inserted %d records"
	MsgUpdated               = "updated %d records"
	MsgDeleted               = "deleted %d records"
	MsgRowLimitExceeded      = "affected rows exceed limit (%d), operation rolled back"
	MsgExecutionFailed       = "execution failed: %v"
	MsgTranslationFailed     = "translation failed: %v"
)

// 默认限制
const (
	DefaultQueryLimit      = 1000
	DefaultMaxAffectedRows = 100
)

// 执行状态，用于指标标签
const (
	ExecutionStatusSuccess = "success"
	ExecutionStatusFailed  = "failed"
	ExecutionStatusTimeout = "timeout"
)
