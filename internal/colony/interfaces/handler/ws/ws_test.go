package ws

import (
	"sync"
	"testing"
	"time"

	"SpaceColony/internal/colony/actor"
	"SpaceColony/internal/colony/actors"
	"SpaceColony/internal/colony/clock"
	"SpaceColony/internal/colony/entity"
	"SpaceColony/internal/colony/infra/persistence/memory"
	"SpaceColony/internal/colony/interfaces/handler"
	"SpaceColony/internal/colony/interfaces/handler/dto"
	"SpaceColony/internal/shared/transport"
	"SpaceColony/internal/shared/transport/ws"
	"SpaceColony/modules/kit/logx"
)

type fakeConn struct {
	mu     sync.Mutex
	props  map[string]any
	pushed map[string]int
	done   chan struct{}
	once   sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{props: map[string]any{}, pushed: map[string]int{}, done: make(chan struct{})}
}

func (c *fakeConn) SetProperty(k string, v any) { c.mu.Lock(); c.props[k] = v; c.mu.Unlock() }
func (c *fakeConn) GetProperty(k string) any    { c.mu.Lock(); defer c.mu.Unlock(); return c.props[k] }
func (c *fakeConn) RemoveProperty(k string)     { c.mu.Lock(); delete(c.props, k); c.mu.Unlock() }
func (c *fakeConn) Addr() string                { return "fake" }
func (c *fakeConn) Push(name string, _ any)     { c.mu.Lock(); c.pushed[name]++; c.mu.Unlock() }
func (c *fakeConn) Close()                      { c.once.Do(func() { close(c.done) }) }
func (c *fakeConn) Done() <-chan struct{}       { return c.done }

func (c *fakeConn) pushCount(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pushed[name]
}

func newTestRouter(t *testing.T, opts handler.Options) *ws.Router {
	t.Helper()
	rt := actor.NewRuntime(actors.Deps{
		Repo:       memory.NewSimulationRepository(),
		Rules:      entity.DefaultRules(),
		Clock:      clock.NewManual(1_700_000_000_000),
		TickEvery:  time.Hour,
		FlushEvery: time.Hour,
	}, 2*time.Second)
	t.Cleanup(rt.Shutdown)

	r := ws.NewRouter(logx.Nop())
	NewWsHandler(handler.NewColony(rt, opts, nil)).RegisterRoutes(r)
	return r
}

func dispatch(r *ws.Router, conn ws.WSConn, name string, msg any) *ws.RespBody {
	req := &ws.WsMsgReq{Body: &ws.ReqBody{Seq: 1, Name: name, Msg: msg}, Conn: conn}
	resp := &ws.WsMsgResp{Body: &ws.RespBody{Seq: 1, Name: name}}
	r.Dispatch(req, resp)
	return resp.Body
}

func TestWs_先鉴权再下指令_事件推送到连接(t *testing.T) {
	r := newTestRouter(t, handler.Options{})
	conn := newFakeConn()

	if body := dispatch(r, conn, "colony.buildShip", map[string]any{"type": "cargo", "location": "home"}); body.Code != transport.SessionInvalid {
		t.Fatalf("未鉴权 code=%d", body.Code)
	}

	body := dispatch(r, conn, "colony.auth", map[string]any{"sim_id": "w1"})
	if body.Code != transport.OK {
		t.Fatalf("auth code=%d msg=%v", body.Code, body.Msg)
	}
	if v, ok := body.Msg.(entity.View); !ok || v.SimID != "w1" {
		t.Fatalf("auth 应返回视图: %#v", body.Msg)
	}

	body = dispatch(r, conn, "colony.buildShip", map[string]any{"type": "cargo", "location": "home"})
	if body.Code != transport.OK {
		t.Fatalf("buildShip code=%d msg=%v", body.Code, body.Msg)
	}
	built, ok := body.Msg.(dto.CommandResp)
	if !ok || built.ShipId == 0 {
		t.Fatalf("buildShip 返回不对: %#v", body.Msg)
	}
	if conn.pushCount(ws.PushColonyEvents) == 0 {
		t.Fatalf("应收到事件推送")
	}

	// json 解出来的数字是 float64
	body = dispatch(r, conn, "colony.launch", map[string]any{"ship_id": float64(built.ShipId)})
	if body.Code != transport.GuardRejected || body.Msg != string(entity.ReasonDestinationUnset) {
		t.Fatalf("launch code=%d msg=%v", body.Code, body.Msg)
	}

	body = dispatch(r, conn, "colony.setDestination", map[string]any{
		"ship_id":     float64(built.ShipId),
		"destination": map[string]any{"location": "moon"},
	})
	if body.Code != transport.OK {
		t.Fatalf("setDestination code=%d msg=%v", body.Code, body.Msg)
	}

	body = dispatch(r, conn, "colony.events", map[string]any{"limit": 1})
	if body.Code != transport.OK {
		t.Fatalf("events code=%d", body.Code)
	}
	events := body.Msg.(dto.EventsResp).Events
	if len(events) != 1 || events[0].Kind != entity.EventDestinationSet {
		t.Fatalf("events=%+v", events)
	}
}

func TestWs_开启鉴权_token无效(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	r := newTestRouter(t, handler.Options{NeedAuth: true})
	conn := newFakeConn()

	if body := dispatch(r, conn, "colony.auth", map[string]any{"token": "bad", "sim_id": "w1"}); body.Code != transport.Unauthorized {
		t.Fatalf("坏 token code=%d", body.Code)
	}
	if body := dispatch(r, conn, "colony.view", nil); body.Code != transport.SessionInvalid {
		t.Fatalf("鉴权失败后不应绑定模拟 code=%d", body.Code)
	}
}

func TestWs_参数类型错误(t *testing.T) {
	r := newTestRouter(t, handler.Options{})
	conn := newFakeConn()
	dispatch(r, conn, "colony.auth", map[string]any{"sim_id": "w2"})

	if body := dispatch(r, conn, "colony.spendCredits", map[string]any{"amount": "lots"}); body.Code != transport.InvalidParam {
		t.Fatalf("amount 非数字 code=%d", body.Code)
	}
	if body := dispatch(r, conn, "colony.spendCredits", map[string]any{"amount": 10}); body.Code != transport.OK {
		t.Fatalf("spendCredits code=%d msg=%v", body.Code, body.Msg)
	}
}

func TestWs_字符串NaN解码后被守卫拒绝_余额不变(t *testing.T) {
	r := newTestRouter(t, handler.Options{})
	conn := newFakeConn()
	dispatch(r, conn, "colony.auth", map[string]any{"sim_id": "w3"})

	for _, name := range []string{"colony.spendCredits", "colony.deposit", "colony.withdraw"} {
		body := dispatch(r, conn, name, map[string]any{"amount": "NaN"})
		if body.Code != transport.GuardRejected || body.Msg != string(entity.ReasonInvalidAmount) {
			t.Fatalf("%s code=%d msg=%v", name, body.Code, body.Msg)
		}
	}

	body := dispatch(r, conn, "colony.view", nil)
	v, ok := body.Msg.(entity.View)
	if !ok || v.Credits.Balance != 100 || v.Credits.Invested != 0 {
		t.Fatalf("view=%#v", body.Msg)
	}
}
