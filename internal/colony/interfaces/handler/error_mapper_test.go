package handler

import (
	"errors"
	"testing"

	"SpaceColony/internal/colony/entity"
	"SpaceColony/internal/shared/transport"
	"SpaceColony/modules/kit/errx"
)

func TestHandleError_守卫拒绝带reason(t *testing.T) {
	ctx := transport.NewContext("test")
	code, msg := HandleError(ctx, errx.ErrGuardRejected.WithReason(entity.ReasonShipNotDocked))
	if code != transport.GuardRejected {
		t.Fatalf("code=%d", code)
	}
	if msg != entity.ReasonShipNotDocked.ReasonCode() {
		t.Fatalf("msg=%q", msg)
	}
	if al := transport.FromContext(ctx); al == nil || al.ErrorReason != msg {
		t.Fatalf("access 日志未记录 reason: %+v", al)
	}
}

func TestHandleError_系统错误不暴露细节(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{errx.ErrUnavailable.WithCause(errors.New("mongo down")), transport.Unavailable},
		{errx.ErrTimeout, transport.Timeout},
		{errors.New("boom"), transport.SystemError},
	}
	for _, c := range cases {
		code, msg := HandleError(transport.NewContext("test"), c.err)
		if code != c.code {
			t.Fatalf("err=%v code=%d want=%d", c.err, code, c.code)
		}
		if msg != "系统繁忙，请稍后重试" {
			t.Fatalf("msg=%q", msg)
		}
	}
}

func TestHandleError_参数与不存在(t *testing.T) {
	code, msg := HandleError(transport.NewContext("test"), errx.ErrReqParamERR)
	if code != transport.InvalidParam || msg != "请求参数错误" {
		t.Fatalf("code=%d msg=%q", code, msg)
	}
	code, _ = HandleError(transport.NewContext("test"), errx.ErrNotFound)
	if code != transport.NotFound {
		t.Fatalf("code=%d", code)
	}
}
