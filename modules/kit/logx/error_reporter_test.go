package logx

import (
	"context"
	"errors"
	"testing"

	"SpaceColony/modules/kit/errx"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type guardReason string

func (r guardReason) ReasonCode() string { return string(r) }

func TestBuildErrorLog_能提取语义与栈(t *testing.T) {
	cause := errors.New("mongo down")
	e := errx.NewSys("SYS_REPO", "存储不可用").
		WithData("sim_id", "s-1").
		WithCause(cause)

	meta := BuildErrorLog(e)
	if meta.Error == "" || meta.Code == "" || meta.Msg == "" {
		t.Fatalf("期望 Error/Code/Msg 非空 meta=%+v", meta)
	}
	if meta.Data == nil || meta.Data["sim_id"] != "s-1" {
		t.Fatalf("期望 meta.Data 包含 sim_id=s-1, got=%v", meta.Data)
	}
	if len(meta.CauseChain) == 0 {
		t.Fatalf("期望 meta.CauseChain 非空")
	}
	if meta.Origin == "" || meta.Stack == "" {
		t.Fatalf("期望 meta.Origin/meta.Stack 非空 origin=%q stack=%q", meta.Origin, meta.Stack)
	}
}

func TestReportCommand_拒绝走INFO_系统错误走ERROR(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewZapLogger(zap.New(core))
	ctx := context.Background()

	ReportCommandWithLoggerContext(ctx, l, "launch", errx.ErrGuardRejected.WithReason(guardReason("INSUFFICIENT_FUEL")))
	ReportCommandWithLoggerContext(ctx, l, "flush", errx.ErrUnavailable.WithCause(errors.New("io")))

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("期望 2 条日志，got=%d", len(entries))
	}
	if entries[0].Level != zapcore.InfoLevel || entries[0].ContextMap()["reason"] != "INSUFFICIENT_FUEL" {
		t.Fatalf("拒绝日志不对: %+v", entries[0])
	}
	if entries[1].Level != zapcore.ErrorLevel || entries[1].ContextMap()["err_type"] != "sys" {
		t.Fatalf("系统错误日志不对: %+v", entries[1])
	}
}
