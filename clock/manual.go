package clock

import (
	"sync"
	"time"
)

// Manual 手动推进的时钟, 用于测试和模拟
type Manual struct {
	mu  sync.Mutex
	now Timespec
}

func NewManual(start Timespec) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() Timespec {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Set 时钟不允许回退, 早于当前的时刻被忽略
func (m *Manual) Set(ts Timespec) {
	m.mu.Lock()
	if m.now.Before(ts) {
		m.now = ts
	}
	m.mu.Unlock()
}

func (m *Manual) Advance(d time.Duration) Timespec {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d > 0 {
		m.now = m.now.Add(d)
	}
	return m.now
}
