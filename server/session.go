package server

import (
	"github.com/google/uuid"
	"github.com/rs/xid"
)

// Session 一个客户端连接. timers只在Service的锁内访问.
type Session struct {
	id     uuid.UUID
	write  func(data []byte) error
	timers map[xid.ID]int // timer id -> arena slot
	closed bool
	inbuf  []byte // 未凑成一行的输入, 只在gnet事件循环里访问
}

// NewSession write用于推送FIRED通知, 在驱动协程中调用
func NewSession(write func(data []byte) error) *Session {
	return &Session{
		id:     uuid.New(),
		write:  write,
		timers: make(map[xid.ID]int),
	}
}

func (s *Session) ID() string {
	return s.id.String()
}
