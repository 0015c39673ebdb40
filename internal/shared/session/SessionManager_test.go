package session

import (
	"sync"
	"testing"
	"time"

	"SpaceColony/internal/colony/entity"
)

type fakeConn struct {
	mu     sync.Mutex
	pushed []string
	done   chan struct{}
	once   sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{done: make(chan struct{})}
}

func (c *fakeConn) SetProperty(string, any) {}
func (c *fakeConn) GetProperty(string) any  { return nil }
func (c *fakeConn) RemoveProperty(string)   {}
func (c *fakeConn) Addr() string            { return "fake" }
func (c *fakeConn) Push(name string, _ any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pushed = append(c.pushed, name)
}
func (c *fakeConn) Close()                { c.once.Do(func() { close(c.done) }) }
func (c *fakeConn) Done() <-chan struct{} { return c.done }

func (c *fakeConn) pushCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pushed)
}

func TestSessMgr_多连接订阅同一模拟(t *testing.T) {
	m := NewSessMgr(nil)
	a, b := newFakeConn(), newFakeConn()
	if !m.Bind("s1", a) {
		t.Fatalf("第一条连接应返回 first=true")
	}
	if m.Bind("s1", b) {
		t.Fatalf("第二条连接不应返回 first=true")
	}
	m.PushEvents("s1", []entity.Event{{ID: "e1"}})
	if a.pushCount() != 1 || b.pushCount() != 1 {
		t.Fatalf("推送次数 a=%d b=%d", a.pushCount(), b.pushCount())
	}
	m.PushEvents("s1", nil)
	if a.pushCount() != 1 {
		t.Fatalf("空事件不应推送")
	}
}

func TestSessMgr_最后一条连接关闭触发退订(t *testing.T) {
	idle := make(chan string, 2)
	m := NewSessMgr(func(simID string) { idle <- simID })
	a, b := newFakeConn(), newFakeConn()
	m.Bind("s1", a)
	m.Bind("s1", b)

	a.Close()
	b.Close()

	select {
	case got := <-idle:
		if got != "s1" {
			t.Fatalf("idle sim=%q", got)
		}
	case <-time.After(time.Second):
		t.Fatalf("没有触发 onIdle")
	}
	if _, ok := m.GetSim(a); ok {
		t.Fatalf("关闭的连接应已解绑")
	}
	if len(m.Conns("s1")) != 0 {
		t.Fatalf("s1 不应再有连接")
	}
}

func TestSessMgr_换绑模拟(t *testing.T) {
	var idle []string
	m := NewSessMgr(func(simID string) { idle = append(idle, simID) })
	a := newFakeConn()
	m.Bind("s1", a)
	m.Bind("s2", a)
	if sim, _ := m.GetSim(a); sim != "s2" {
		t.Fatalf("sim=%q", sim)
	}
	if len(idle) != 1 || idle[0] != "s1" {
		t.Fatalf("idle=%v", idle)
	}
	m.PushEvents("s1", []entity.Event{{ID: "x"}})
	if a.pushCount() != 0 {
		t.Fatalf("换绑后不应收到旧模拟的事件")
	}
}
