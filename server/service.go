package server

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/eapache/queue"
	"github.com/fixkme/ticktimer/ds/arena"
	"github.com/fixkme/ticktimer/errs"
	"github.com/fixkme/ticktimer/mlog"
	"github.com/fixkme/ticktimer/timer"
	"github.com/rs/xid"
)

var (
	errUnknownTimer = errs.Protocol.Printf("unknown timer")
	errCapacity     = errs.Capacity.Printf("capacity")
)

type record struct {
	timer   timer.Timer
	id      xid.ID
	label   string
	slot    int
	session *Session
}

type notice struct {
	session *Session
	line    []byte
}

// Service 网络无关的定时器服务, 持有引擎并作为它的驱动循环.
// 引擎的所有调用都在mu内串行执行.
type Service struct {
	mu      sync.Mutex
	engine  *timer.Engine
	records *arena.Arena[record]
	fired   *queue.Queue // *notice
	wake    chan struct{}
	maxWait time.Duration
}

func NewService(engine *timer.Engine, maxTimers int, maxWait time.Duration) *Service {
	errs.Assert("server", maxTimers > 0, "maxTimers > 0")
	errs.Assert("server", maxWait > 0, "maxWait > 0")
	return &Service{
		engine:  engine,
		records: arena.New[record](maxTimers),
		fired:   queue.New(),
		wake:    make(chan struct{}, 1),
		maxWait: maxWait,
	}
}

func (s *Service) Engine() *timer.Engine {
	return s.engine
}

// Arm 为会话创建一个msec毫秒后到期的定时器
func (s *Service) Arm(sess *Session, msec int64, label string) (xid.ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot, rec := s.records.Alloc()
	if rec == nil {
		return xid.ID{}, errCapacity
	}
	rec.id = xid.New()
	rec.label = label
	rec.slot = slot
	rec.session = sess
	rec.timer.Init(s.onExpire, rec)
	sess.timers[rec.id] = slot
	s.engine.ArmMsec(&rec.timer, msec)
	s.notify()
	return rec.id, nil
}

// Cancel 只能取消本会话的定时器
func (s *Service) Cancel(sess *Session, id xid.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot, ok := sess.timers[id]
	if !ok {
		return errUnknownTimer
	}
	s.release(s.records.Get(slot))
	return nil
}

// Drop 连接关闭时取消会话的全部定时器
func (s *Service) Drop(sess *Session) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess.closed = true
	n := len(sess.timers)
	for _, slot := range sess.timers {
		s.release(s.records.Get(slot))
	}
	return n
}

func (s *Service) release(rec *record) {
	s.engine.Cancel(&rec.timer)
	delete(rec.session.timers, rec.id)
	s.records.Free(rec.slot)
}

// onExpire 在Run内被调用, 已持有mu
func (s *Service) onExpire(t *timer.Timer) {
	rec := t.Data.(*record)
	line := make([]byte, 0, 64)
	line = append(line, "FIRED "...)
	line = append(line, rec.id.String()...)
	if rec.label != "" {
		line = append(line, ' ')
		line = append(line, rec.label...)
	}
	line = append(line, '\n')
	s.fired.Add(&notice{session: rec.session, line: line})
	s.release(rec)
}

// Issue 距离最早到期的毫秒数
func (s *Service) Issue() (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.IssueMsec()
}

func (s *Service) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Pending()
}

// Records 已分配的定时器记录数
func (s *Service) Records() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records.Len()
}

// Stats 服务状态快照
type Stats struct {
	Pending   int
	Records   int
	Capacity  int
	Sessions  int // 持有定时器的会话数
	IssueMsec int64
	IssueOK   bool
}

func (s *Service) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := Stats{
		Pending:  s.engine.Pending(),
		Records:  s.records.Len(),
		Capacity: s.records.Cap(),
	}
	st.IssueMsec, st.IssueOK = s.engine.IssueMsec()
	sessions := make(map[*Session]struct{})
	s.records.Range(func(_ int, rec *record) bool {
		sessions[rec.session] = struct{}{}
		return true
	})
	st.Sessions = len(sessions)
	return st
}

// Shutdown 取消全部定时器并回收记录, 返回取消的数量
func (s *Service) Shutdown() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	s.records.Range(func(_ int, rec *record) bool {
		s.engine.Cancel(&rec.timer)
		delete(rec.session.timers, rec.id)
		n++
		return true
	})
	s.records.Reset()
	return n
}

func (s *Service) notify() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Step 驱动一次引擎, 推送到期通知, 返回下一次最多等待多久
func (s *Service) Step() time.Duration {
	s.mu.Lock()
	s.engine.Run()
	msec, ok := s.engine.IssueMsec()
	notices := make([]*notice, 0, s.fired.Length())
	for s.fired.Length() > 0 {
		n := s.fired.Remove().(*notice)
		if !n.session.closed {
			notices = append(notices, n)
		}
	}
	s.mu.Unlock()

	for _, n := range notices {
		if err := n.session.write(n.line); err != nil {
			mlog.Warnf("session %s push failed: %v", n.session.ID(), err)
		}
	}

	wait := s.maxWait
	if ok {
		if d := time.Duration(msec) * time.Millisecond; d < wait {
			wait = d
		}
	}
	if wait <= 0 {
		wait = time.Millisecond
	}
	return wait
}

// Loop 驱动循环, 直到ctx结束
func (s *Service) Loop(ctx context.Context) {
	mlog.Infof("timer driver started, backend:%s max_wait:%s", s.engine.Kind(), s.maxWait)
	wait := time.NewTimer(s.maxWait)
	defer wait.Stop()
	for {
		d := s.Step()
		if !wait.Stop() {
			select {
			case <-wait.C:
			default:
			}
		}
		wait.Reset(d)
		select {
		case <-ctx.Done():
			mlog.Infof("timer driver stopped, pending:%d", s.Pending())
			return
		case <-s.wake:
		case <-wait.C:
		}
	}
}

func formatIssue(msec int64, ok bool) string {
	if !ok {
		return "ISSUE NONE"
	}
	return "ISSUE " + strconv.FormatInt(msec, 10)
}
