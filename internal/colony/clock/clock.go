package clock

import (
	"sync"
	"time"
)

// Clock 模拟使用的时间源，统一用 Unix 毫秒。
type Clock interface {
	NowMs() int64
}

type realClock struct{}

func Real() Clock {
	return realClock{}
}

func (realClock) NowMs() int64 {
	return time.Now().UnixMilli()
}

// Manual 手动拨动的时钟，测试和离线回放用。
type Manual struct {
	mu  sync.Mutex
	now int64
}

func NewManual(startMs int64) *Manual {
	return &Manual{now: startMs}
}

func (m *Manual) NowMs() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance 只能往前拨。
func (m *Manual) Advance(d time.Duration) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d > 0 {
		m.now += d.Milliseconds()
	}
	return m.now
}

func (m *Manual) Set(ms int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ms > m.now {
		m.now = ms
	}
}
