package handler

import (
	"context"
	"errors"

	"SpaceColony/internal/shared/transport"
	"SpaceColony/modules/kit/errx"
)

func mapErrToClientCode(err error) int {
	switch {
	case err == nil:
		return transport.OK
	case errors.Is(err, errx.ErrGuardRejected):
		return transport.GuardRejected
	case errors.Is(err, errx.ErrNotFound):
		return transport.NotFound
	case errors.Is(err, errx.ErrRateLimited):
		return transport.RateLimited
	case errors.Is(err, errx.ErrReqParamERR):
		return transport.InvalidParam
	case errors.Is(err, errx.ErrTimeout):
		return transport.Timeout
	case errors.Is(err, errx.ErrUnavailable):
		return transport.Unavailable
	default:
		return transport.SystemError
	}
}

// HandleError 错误转成客户端业务码和提示。守卫拒绝把 reason 原样给前端，系统错误只给通用提示。
func HandleError(ctx context.Context, err error) (int, string) {
	reason := errx.ReasonOf(err)
	var e *errx.Error
	if reason == "" && errors.As(err, &e) {
		reason = e.CodeText()
	}
	transport.SetErrorReason(ctx, reason)

	code := mapErrToClientCode(err)
	if errx.IsRejected(err) {
		if r := errx.ReasonOf(err); r != "" {
			return code, r
		}
		if e != nil {
			return code, e.Msg()
		}
	}
	return code, "系统繁忙，请稍后重试"
}
