package transport

// BizCode 表示业务码的强类型封装，用于在日志上下文中减少误传风险。
type BizCode int

// 客户端可见的业务码，HTTP/WS 共用。
const (
	OK             = 0
	InvalidParam   = 1
	SessionInvalid = 2
	Unauthorized   = 3
	GuardRejected  = 10
	NotFound       = 11
	RateLimited    = 12
	SystemError    = 500
	Unavailable    = 503
	Timeout        = 504
)
