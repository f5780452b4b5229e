package timer

import (
	"time"

	"github.com/fixkme/ticktimer/clock"
	"github.com/fixkme/ticktimer/errs"
	"github.com/fixkme/ticktimer/mlog"
)

// Engine 定时器引擎. 单协程使用, 内部不加锁;
// 多协程访问需要调用方在外部用一把锁串行化全部调用.
type Engine struct {
	scale   Scale
	kind    Kind
	clock   clock.Source
	backend Backend
	tracer  Tracer
	seq     uint64
	running bool
	runTick Tick
	fire    func(t *Timer)
}

func NewEngine(opts ...Option) *Engine {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	e := &Engine{
		scale:  NewScale(o.bits),
		kind:   o.kind,
		clock:  o.clock,
		tracer: o.tracer,
	}
	e.backend = NewBackend(o.kind, e.scale)
	e.fire = e.expire
	mlog.Debugf("timer engine created, backend:%s precision_bits:%d period:%s",
		e.kind, e.scale.Bits(), e.scale.Period())
	return e
}

func (e *Engine) Scale() Scale {
	return e.scale
}

func (e *Engine) Kind() Kind {
	return e.kind
}

func (e *Engine) Clock() clock.Source {
	return e.clock
}

// TickNow 当前时钟对应的tick(向下取整)
func (e *Engine) TickNow() Tick {
	return e.scale.FloorTickClamp(e.clock.Now())
}

// ArmAt 在绝对时刻deadline到期, 已经过去的时刻在下一次Run时触发
func (e *Engine) ArmAt(t *Timer, deadline clock.Timespec) {
	e.assertArmable(t)
	errs.Assert("timer", deadline.Valid(), "deadline.Valid()")
	e.arm(t, deadline, e.clock.Now())
}

// ArmMsec 在msec毫秒后到期
func (e *Engine) ArmMsec(t *Timer, msec int64) {
	e.assertArmable(t)
	errs.Assert("timer", msec > 0, "msec > 0")
	now := e.clock.Now()
	e.arm(t, now.AddMsec(msec), now)
}

// ArmSec 在sec秒后到期
func (e *Engine) ArmSec(t *Timer, sec int64) {
	e.assertArmable(t)
	errs.Assert("timer", sec > 0, "sec > 0")
	now := e.clock.Now()
	e.arm(t, now.AddSec(sec), now)
}

// ArmAfter 在d之后到期
func (e *Engine) ArmAfter(t *Timer, d time.Duration) {
	e.assertArmable(t)
	errs.Assert("timer", d > 0, "d > 0")
	now := e.clock.Now()
	e.arm(t, now.Add(d), now)
}

func (e *Engine) assertArmable(t *Timer) {
	errs.Assert("timer", t != nil, "t != nil")
	errs.Assert("timer", t.expire != nil, "t.expire != nil")
	errs.Assert("timer", t.owner == nil || t.owner == e, "t.owner == nil || t.owner == e")
}

func (e *Engine) arm(t *Timer, deadline, now clock.Timespec) {
	if t.owner != nil {
		e.backend.Remove(t)
	}
	e.seq++
	t.seq = e.seq
	t.deadline = deadline
	t.tick = e.scale.CeilTickClamp(deadline)
	t.owner = e
	e.backend.Insert(t, e.scale.FloorTickClamp(now))
	if e.tracer != nil {
		e.tracer.OnArm(t)
	}
}

// Cancel 取消定时器, 空闲的定时器直接忽略
func (e *Engine) Cancel(t *Timer) {
	errs.Assert("timer", t != nil, "t != nil")
	if t.owner == nil {
		return
	}
	errs.Assert("timer", t.owner == e, "t.owner == e")
	e.backend.Remove(t)
	t.owner = nil
	if e.tracer != nil {
		e.tracer.OnCancel(t)
	}
}

// Run 读取一次时钟, 触发所有到期的定时器. 不能在定时器回调中调用.
func (e *Engine) Run() {
	errs.Assert("timer", !e.running, "!running")
	e.runTick = e.TickNow()
	e.running = true
	defer func() {
		e.running = false
	}()
	e.backend.Expire(e.runTick, e.fire)
	if e.tracer != nil {
		e.tracer.OnRun(e.runTick, e.backend.Len())
	}
}

func (e *Engine) expire(t *Timer) {
	t.owner = nil
	if e.tracer != nil {
		e.tracer.OnExpire(t, e.runTick)
	}
	t.expire(t)
}

// IssueTick 下一次能触发定时器的tick. 到期时刻已经过去的定时器排在游标处,
// 返回值可能晚于它们自身的tick
func (e *Engine) IssueTick() (Tick, bool) {
	return e.backend.Issue()
}

// IssueTimespec 最早到期的时刻
func (e *Engine) IssueTimespec() (clock.Timespec, bool) {
	tick, ok := e.backend.Issue()
	if !ok {
		return clock.Timespec{}, false
	}
	return e.scale.Timespec(tick), true
}

// IssueMsec 距离最早到期还有多少毫秒(向上取整, 已到期为0), 驱动循环据此决定等待时长
func (e *Engine) IssueMsec() (int64, bool) {
	ts, ok := e.IssueTimespec()
	if !ok {
		return 0, false
	}
	return clock.MsecCeil(ts.Sub(e.clock.Now())), true
}

// IsArmed 定时器是否在本引擎上等待到期
func (e *Engine) IsArmed(t *Timer) bool {
	return t != nil && t.owner == e
}

// Pending 等待到期的定时器数量
func (e *Engine) Pending() int {
	return e.backend.Len()
}
