package timer

import (
	"github.com/fixkme/ticktimer/mlog"
)

// Tracer 引擎事件回调, 在驱动协程中同步调用
type Tracer interface {
	OnArm(t *Timer)
	OnCancel(t *Timer)
	// OnExpire 在定时器回调之前调用, now为本次Run读取的tick
	OnExpire(t *Timer, now Tick)
	// OnRun 每次Run结束时调用
	OnRun(now Tick, pending int)
}

// LogTracer 以trace级别输出到mlog
type LogTracer struct{}

func (LogTracer) OnArm(t *Timer) {
	mlog.Tracef("timer arm %p tick:%d deadline:%d.%09d", t, t.tick, t.deadline.Sec, t.deadline.Nsec)
}

func (LogTracer) OnCancel(t *Timer) {
	mlog.Tracef("timer cancel %p tick:%d", t, t.tick)
}

func (LogTracer) OnExpire(t *Timer, now Tick) {
	mlog.Tracef("timer expire %p tick:%d now:%d", t, t.tick, now)
}

func (LogTracer) OnRun(now Tick, pending int) {
	mlog.Tracef("timer run now:%d pending:%d", now, pending)
}
