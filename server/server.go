package server

import (
	"context"
	"time"

	"github.com/fixkme/ticktimer/mlog"
	"github.com/panjf2000/gnet/v2"
	"github.com/pkg/errors"
)

type ServerOptions struct {
	gnet.Options
	Addr          string //"tcp://127.0.0.1:7070"
	StatsInterval time.Duration
}

// Server 基于gnet的定时器服务, 连接上的命令在事件循环里处理,
// 到期通知由驱动协程通过AsyncWrite推送.
type Server struct {
	gnet.BuiltinEventEngine
	gnet.Engine // use for stop
	svc         *Service
	opt         *ServerOptions
}

func NewServer(svc *Service, opt *ServerOptions) *Server {
	opt.Options.Ticker = opt.StatsInterval > 0
	return &Server{svc: svc, opt: opt}
}

func (s *Server) Service() *Service {
	return s.svc
}

// Run 阻塞直到Stop或ctx结束
func (s *Server) Run(ctx context.Context) error {
	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.svc.Loop(loopCtx)
	}()
	defer func() {
		cancel()
		<-done
	}()

	if err := gnet.Run(s, s.opt.Addr, gnet.WithOptions(s.opt.Options)); err != nil {
		return errors.Wrapf(err, "gnet run %s", s.opt.Addr)
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	return s.Engine.Stop(ctx)
}

// 在gnet.Run协程里被调用
func (s *Server) OnBoot(eng gnet.Engine) (action gnet.Action) {
	s.Engine = eng
	mlog.Infof("tickd listening on %s, multicore:%v", s.opt.Addr, s.opt.Multicore)
	return
}

func (s *Server) OnShutdown(_ gnet.Engine) {
	mlog.Infof("tickd shutdown, canceled timers:%d", s.svc.Shutdown())
}

func (s *Server) OnOpen(c gnet.Conn) (out []byte, action gnet.Action) {
	sess := NewSession(func(data []byte) error {
		return c.AsyncWrite(data, nil)
	})
	c.SetContext(sess)
	mlog.Debugf("session %s opened from %s", sess.ID(), c.RemoteAddr())
	return
}

func (s *Server) OnClose(c gnet.Conn, err error) (action gnet.Action) {
	sess, ok := c.Context().(*Session)
	if !ok {
		return
	}
	n := s.svc.Drop(sess)
	if err != nil {
		mlog.Warnf("session %s closed: %v, cancelled %d timers", sess.ID(), err, n)
	} else {
		mlog.Debugf("session %s closed, cancelled %d timers", sess.ID(), n)
	}
	return
}

func (s *Server) OnTraffic(c gnet.Conn) (action gnet.Action) {
	sess := c.Context().(*Session)
	data, err := c.Next(-1)
	if err != nil {
		mlog.Errorf("session %s read: %v", sess.ID(), err)
		return gnet.Close
	}
	sess.inbuf = append(sess.inbuf, data...)
	lines, rest := splitLines(sess.inbuf)

	var out []byte
	for _, line := range lines {
		reply, quit := s.svc.Dispatch(sess, line)
		if reply != "" {
			out = append(out, reply...)
			out = append(out, '\n')
		}
		if quit {
			action = gnet.Close
			break
		}
	}
	sess.inbuf = append(sess.inbuf[:0], rest...)
	if action == gnet.None && len(sess.inbuf) > maxLineLen {
		mlog.Warnf("session %s line too long", sess.ID())
		out = append(out, "ERR line too long\n"...)
		action = gnet.Close
	}
	if len(out) > 0 {
		if _, err := c.Write(out); err != nil {
			mlog.Errorf("session %s write: %v", sess.ID(), err)
			return gnet.Close
		}
	}
	return
}

func (s *Server) OnTick() (delay time.Duration, action gnet.Action) {
	st := s.svc.Stats()
	mlog.Infof("tickd stats pending:%d records:%d/%d sessions:%d %s",
		st.Pending, st.Records, st.Capacity, st.Sessions, formatIssue(st.IssueMsec, st.IssueOK))
	return s.opt.StatsInterval, gnet.None
}
