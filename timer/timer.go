package timer

import (
	"github.com/fixkme/ticktimer/clock"
)

// Func 定时器到期回调, 调用时定时器已处于空闲状态, 可以在回调中重新arm
type Func func(t *Timer)

// Timer 定时器记录, 由调用方持有和分配, 引擎只负责挂接和摘除.
// 记录处于armed状态时不能被复制.
type Timer struct {
	prev, next *Timer         // 双向链表, 挂在桶或有序链表上
	heapIndex  int            // 堆索引
	seq        uint64         // arm序号, 同due时先arm先触发
	tick       Tick           // 到期tick, 仅armed时有效
	due        Tick           // 实际排队的tick, 过去的时刻被推到后端游标处
	deadline   clock.Timespec // 请求的到期时刻
	expire     Func           // 回调
	owner      *Engine        // 所属引擎, 空闲时为nil
	Data       any            // 调用方数据
}

func New(expire Func, data any) *Timer {
	t := &Timer{}
	t.Init(expire, data)
	return t
}

// Init 初始化调用方自己分配的记录(数组元素、内嵌字段等)
func (t *Timer) Init(expire Func, data any) {
	if t.owner != nil {
		t.owner.Cancel(t)
	}
	*t = Timer{expire: expire, heapIndex: -1, Data: data}
}

// SetExpire 替换回调, 下一次arm生效
func (t *Timer) SetExpire(expire Func) {
	t.expire = expire
}

// Tick 最近一次arm时计算出的到期tick
func (t *Timer) Tick() Tick {
	return t.tick
}

// Deadline 最近一次arm请求的到期时刻
func (t *Timer) Deadline() clock.Timespec {
	return t.deadline
}

// Armed 是否挂在某个引擎上等待到期
func (t *Timer) Armed() bool {
	return t.owner != nil
}

func (t *Timer) linked() bool {
	return t.next != nil
}

func (t *Timer) unlink() bool {
	if t.prev == nil || t.next == nil {
		return false
	}
	t.prev.next = t.next
	t.next.prev = t.prev
	t.prev = nil
	t.next = nil
	return true
}

// HeapLess 堆后端使用, due小的在前, 相同due按arm顺序
func (t *Timer) HeapLess(other *Timer) bool {
	if t.due != other.due {
		return t.due < other.due
	}
	return t.seq < other.seq
}

func (t *Timer) HeapIndex() int {
	return t.heapIndex
}

func (t *Timer) SetHeapIndex(index int) {
	t.heapIndex = index
}
