package session

import (
	"sync"

	"SpaceColony/internal/colony/entity"
	"SpaceColony/internal/shared/transport/ws"
)

// Manager 维护 ws 连接与模拟实例的订阅关系。一条连接同一时间只看一个模拟，
// 一个模拟可以有多条连接在看。
type Manager interface {
	Bind(simID string, conn ws.WSConn) (first bool)
	UnbindConn(conn ws.WSConn)
	GetSim(conn ws.WSConn) (string, bool)
	Conns(simID string) []ws.WSConn
	PushEvents(simID string, events []entity.Event)
}

type SessMgr struct {
	sync.RWMutex
	sim2conns map[string]map[ws.WSConn]struct{}
	conn2sim  map[ws.WSConn]string
	watched   map[ws.WSConn]struct{}
	onIdle    func(simID string)
}

// NewSessMgr onIdle 在某个模拟的最后一条连接解绑后调用，用于退订。
func NewSessMgr(onIdle func(simID string)) *SessMgr {
	return &SessMgr{
		sim2conns: make(map[string]map[ws.WSConn]struct{}),
		conn2sim:  make(map[ws.WSConn]string),
		watched:   make(map[ws.WSConn]struct{}),
		onIdle:    onIdle,
	}
}

// Bind 返回 true 表示这是该模拟的第一条连接。连接已绑在别的模拟上时先解绑。
func (s *SessMgr) Bind(simID string, conn ws.WSConn) bool {
	if conn == nil || simID == "" {
		return false
	}
	s.Lock()
	// 为每条连接只启动一次 watcher：连接关闭后自动解绑，避免 conn2sim 逐步膨胀
	if _, ok := s.watched[conn]; !ok {
		s.watched[conn] = struct{}{}
		go s.watchConnDone(conn)
	}

	var idle string
	if old, ok := s.conn2sim[conn]; ok && old != simID {
		if s.removeLocked(old, conn) {
			idle = old
		}
	}

	conns := s.sim2conns[simID]
	if conns == nil {
		conns = make(map[ws.WSConn]struct{})
		s.sim2conns[simID] = conns
	}
	first := len(conns) == 0
	conns[conn] = struct{}{}
	s.conn2sim[conn] = simID
	s.Unlock()

	s.fireIdle(idle)
	return first
}

func (s *SessMgr) watchConnDone(conn ws.WSConn) {
	<-conn.Done()
	s.UnbindConn(conn)
}

func (s *SessMgr) UnbindConn(conn ws.WSConn) {
	s.Lock()
	delete(s.watched, conn)
	simID, ok := s.conn2sim[conn]
	var idle string
	if ok && s.removeLocked(simID, conn) {
		idle = simID
	}
	s.Unlock()

	s.fireIdle(idle)
}

// removeLocked 返回该模拟是否已经没有连接。
func (s *SessMgr) removeLocked(simID string, conn ws.WSConn) bool {
	delete(s.conn2sim, conn)
	conns := s.sim2conns[simID]
	if conns == nil {
		return false
	}
	delete(conns, conn)
	if len(conns) == 0 {
		delete(s.sim2conns, simID)
		return true
	}
	return false
}

func (s *SessMgr) fireIdle(simID string) {
	if simID != "" && s.onIdle != nil {
		s.onIdle(simID)
	}
}

func (s *SessMgr) GetSim(conn ws.WSConn) (string, bool) {
	s.RLock()
	defer s.RUnlock()
	simID, ok := s.conn2sim[conn]
	return simID, ok
}

func (s *SessMgr) Conns(simID string) []ws.WSConn {
	s.RLock()
	defer s.RUnlock()
	conns := s.sim2conns[simID]
	out := make([]ws.WSConn, 0, len(conns))
	for c := range conns {
		out = append(out, c)
	}
	return out
}

// PushEvents 由模拟 actor 调用，不能阻塞；ws 连接的 Push 满了会丢弃。
func (s *SessMgr) PushEvents(simID string, events []entity.Event) {
	if len(events) == 0 {
		return
	}
	for _, c := range s.Conns(simID) {
		c.Push(ws.PushColonyEvents, events)
	}
}
