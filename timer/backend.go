package timer

import (
	"fmt"
	"strings"

	"github.com/fixkme/ticktimer/errs"
)

// Backend 定时器调度策略. 所有实现满足相同的 arm/cancel/run/issue 语义,
// 只在单个驱动协程中被调用.
//
// 每个后端维护一个游标(下一个待处理的tick), 定时器按 due = max(tick, 游标)
// 排队, 过去的时刻在游标处触发. 游标只在Expire中前进, 空闲时第一次Insert
// 对齐到当前时钟.
type Backend interface {
	// Insert 挂接一个空闲定时器, t.tick已经计算好, now为调用时刻的时钟tick
	Insert(t *Timer, now Tick)
	// Remove 摘除一个已挂接的定时器
	Remove(t *Timer)
	// Expire 摘除并逐个触发due不晚于now的定时器, 包括回调中新arm且due不晚于now的
	Expire(now Tick, fire func(t *Timer))
	// Issue 最早的due, 即下一次能触发定时器的tick, 没有定时器时返回false
	Issue() (Tick, bool)
	// Len 挂接的定时器数量
	Len() int
}

// Kind 后端类型
type Kind int

const (
	KindWheel Kind = iota // 分层时间轮
	KindList              // 有序链表
	KindHeap              // 最小堆
)

func (k Kind) String() string {
	switch k {
	case KindWheel:
		return "wheel"
	case KindList:
		return "list"
	case KindHeap:
		return "heap"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind 解析配置中的后端名称
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "wheel", "hwheel":
		return KindWheel, nil
	case "list":
		return KindList, nil
	case "heap":
		return KindHeap, nil
	}
	return 0, errs.Config.Printf("unknown timer backend %q", name)
}

// NewBackend 按类型构造后端
func NewBackend(kind Kind, scale Scale) Backend {
	switch kind {
	case KindList:
		return newSortedList()
	case KindHeap:
		return newHeapQueue()
	default:
		return newWheel(scale)
	}
}
