package ws

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"SpaceColony/modules/kit/logx"
)

type Server struct {
	router     *Router
	log        logx.Logger
	needSecret bool
	rateLimit  rate.Limit
	burst      int
}

type ServerOption func(*Server)

// WithSecret 关闭后收发明文 JSON，只用于本地调试。
func WithSecret(need bool) ServerOption {
	return func(s *Server) {
		s.needSecret = need
	}
}

// WithRateLimit 每条连接的指令限流；perSecond<=0 表示不限。
func WithRateLimit(perSecond float64, burst int) ServerOption {
	return func(s *Server) {
		if perSecond <= 0 {
			s.rateLimit = rate.Inf
			return
		}
		s.rateLimit = rate.Limit(perSecond)
		s.burst = burst
	}
}

func NewServer(r *Router, l logx.Logger, opts ...ServerOption) *Server {
	s := &Server{
		router:     r,
		log:        l,
		needSecret: true,
		rateLimit:  rate.Inf,
	}
	for _, o := range opts {
		o(s)
	}
	if s.burst <= 0 {
		s.burst = 1
	}
	return s
}

func (s *Server) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	upgrader := websocket.Upgrader{
		// 允许所有CORS跨域请求
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
	wsConn, err := upgrader.Upgrade(resp, req, nil)
	if err != nil {
		s.log.Error("websocket upgrade error", zap.Error(err))
		return
	}

	s.log.Info("websocket upgrade success", zap.String("addr", wsConn.RemoteAddr().String()))

	wsServer := NewWsServer(wsConn, s.log)
	wsServer.Router(s.router)
	wsServer.needSecret = s.needSecret
	wsServer.limiter = rate.NewLimiter(s.rateLimit, s.burst)
	wsServer.Run()
	wsServer.handshake()
}
