package grpc

import (
	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ColonyServiceName 健康检查里登记的服务名。
const ColonyServiceName = "spacecolony.Colony"

// NewServer 带 trace 拦截器和健康检查的 grpc server，返回 health server 以便上下线切换状态。
func NewServer(opts ...gogrpc.ServerOption) (*gogrpc.Server, *health.Server) {
	opts = append([]gogrpc.ServerOption{
		gogrpc.ChainUnaryInterceptor(UnaryServerTraceInterceptor()),
		gogrpc.ChainStreamInterceptor(StreamServerTraceInterceptor()),
	}, opts...)
	srv := gogrpc.NewServer(opts...)

	hs := health.NewServer()
	hs.SetServingStatus(ColonyServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(srv, hs)
	return srv, hs
}
