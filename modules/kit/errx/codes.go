package errx

// 跨模块统一的错误码。领域内的 reason（例如 INSUFFICIENT_FUEL）由各模块自己定义，
// 这里只放分类用的 code。
const (
	// CodeGuardRejected 指令的前置条件不满足，状态未被修改。
	CodeGuardRejected Code = "GUARD_REJECTED"
	// CodeNotFound 模拟实例不存在。
	CodeNotFound Code = "NOT_FOUND"
	// CodeInternal 服务内部不可预期错误（兜底）。
	CodeInternal Code = "INTERNAL_ERROR"
	// CodeUnavailable 依赖不可用（DB/actor 超时/网络）。
	CodeUnavailable Code = "SERVICE_UNAVAILABLE"
	// CodeTimeout 请求超时。
	CodeTimeout Code = "TIMEOUT"
	// CodeRateLimited 被限流。
	CodeRateLimited Code = "RATE_LIMITED"
	// CodeReqParamError 请求参数错误。
	CodeReqParamError Code = "CODE_REQ_PARAM_ERROR"
)

// 哨兵错误，派生请用 WithData/WithCause/WithReason。
var (
	ErrGuardRejected = NewRejected(CodeGuardRejected, "指令被拒绝")
	ErrNotFound      = NewRejected(CodeNotFound, "模拟不存在")
	ErrInternal      = NewSys(CodeInternal, "服务器内部错误")
	ErrUnavailable   = NewSys(CodeUnavailable, "服务不可用")
	ErrTimeout       = NewSys(CodeTimeout, "请求超时")
	ErrRateLimited   = NewRejected(CodeRateLimited, "请求过于频繁")
	ErrReqParamERR   = NewRejected(CodeReqParamError, "请求参数错误")
)
