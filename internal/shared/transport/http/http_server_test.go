package http

import (
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"SpaceColony/modules/kit/logx"
)

func TestNewHttpServer_Healthz(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, logs := observer.New(zap.InfoLevel)
	s := NewHttpServer(":0", gin.New(), logx.NewZapLogger(zap.New(core)))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(nethttp.MethodGet, "/healthz", nil)
	s.Engine().ServeHTTP(w, req)

	if w.Code != nethttp.StatusOK {
		t.Fatalf("unexpected status code: got=%d want=%d", w.Code, nethttp.StatusOK)
	}
	if logs.Len() != 1 {
		t.Fatalf("期望一条访问日志，got=%d", logs.Len())
	}
}

func TestNewHttpServer_OPTIONS预检直接返回(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := NewHttpServer(":0", gin.New(), logx.Nop())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(nethttp.MethodOptions, "/healthz", nil)
	s.Engine().ServeHTTP(w, req)

	if w.Code != nethttp.StatusNoContent {
		t.Fatalf("status=%d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("缺少 CORS 头")
	}
}
