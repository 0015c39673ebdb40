package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/test/bufconn"

	"SpaceColony/modules/kit/tracex"
)

func TestHealth_上线后返回SERVING(t *testing.T) {
	lis := bufconn.Listen(1 << 20)
	srv, hs := NewServer()
	go func() { _ = srv.Serve(lis) }()
	defer srv.Stop()

	conn, err := gogrpc.NewClient("passthrough:///bufnet",
		gogrpc.WithTransportCredentials(insecure.NewCredentials()),
		gogrpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	client := healthpb.NewHealthClient(conn)

	resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: ColonyServiceName})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Fatalf("status=%v", resp.GetStatus())
	}

	hs.SetServingStatus(ColonyServiceName, healthpb.HealthCheckResponse_SERVING)
	resp, err = client.Check(ctx, &healthpb.HealthCheckRequest{Service: ColonyServiceName})
	if err != nil || resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("status=%v err=%v", resp.GetStatus(), err)
	}
}

func TestTrace_入站metadata写入ctx(t *testing.T) {
	md := metadata.Pairs(traceIDHeader, "t-1", spanIDHeader, "s-1")
	var got context.Context
	_, err := UnaryServerTraceInterceptor()(metadata.NewIncomingContext(context.Background(), md), nil, &gogrpc.UnaryServerInfo{},
		func(ctx context.Context, _ any) (any, error) {
			got = ctx
			return nil, nil
		})
	if err != nil {
		t.Fatalf("interceptor: %v", err)
	}
	if tid, _ := tracex.TraceIDFrom(got); tid != "t-1" {
		t.Fatalf("trace_id=%q", tid)
	}
	if sid, _ := tracex.SpanIDFrom(got); sid != "s-1" {
		t.Fatalf("span_id=%q", sid)
	}
}

func TestTrace_没有metadata原样返回(t *testing.T) {
	ctx := context.Background()
	if out := extractTraceFromIncoming(ctx); out != ctx {
		t.Fatalf("无 metadata 时不应包装 ctx")
	}
}
