package timer

import (
	"github.com/fixkme/ticktimer/mlog"
)

const (
	wheelSlotBits  = 6
	wheelSlots     = 1 << wheelSlotBits
	wheelSlotMask  = wheelSlots - 1
	wheelMaxLevels = 5
)

// wheelLevels 时间轮层数, 保证总跨度至少覆盖数十天
//
//	bits  levels  range(days)
//	 0-4       4  >194 .. >12
//	 5-9       5  >388 .. >24
func wheelLevels(bits uint) int {
	if bits < 5 {
		return 4
	}
	return 5
}

// wheel 分层时间轮, 每层64个槽, 第i层每个槽跨度64^i个tick.
// 超出总跨度的定时器按tick有序放在eternal链表里.
type wheel struct {
	levels  int
	span    Tick // 64^levels
	count   int  // 挂接(含本轮待触发)的定时器数量
	cursor  Tick // 下一个待处理的tick, 只由Expire推进
	issue   Tick // 缓存的最小due
	issueOK bool
	firing  bool // Expire执行中
	slots   [wheelMaxLevels][wheelSlots]list
	eternal list
	scratch list // cascade和触发时的临时链表
}

func newWheel(scale Scale) *wheel {
	w := &wheel{levels: wheelLevels(scale.Bits())}
	w.span = Tick(1) << (wheelSlotBits * w.levels)
	for lvl := range w.slots {
		for slot := range w.slots[lvl] {
			w.slots[lvl][slot].init()
		}
	}
	w.eternal.init()
	w.scratch.init()
	return w
}

func (w *wheel) Insert(t *Timer, now Tick) {
	// 空轮不推进游标, 第一个定时器到来时对齐到当前时钟.
	// 回调中arm时游标由Expire推进, 不做对齐
	if w.count == 0 && !w.firing && now > w.cursor {
		w.cursor = now
	}
	w.enroll(t)
	if w.count == 0 {
		w.issue, w.issueOK = t.due, true
	} else if w.issueOK && t.due < w.issue {
		w.issue = t.due
	}
	w.count++
}

func (w *wheel) Remove(t *Timer) {
	if !t.unlink() {
		return
	}
	w.count--
	if w.count == 0 || t.due == w.issue {
		w.issueOK = false
	}
}

// enroll 按相对游标的距离选择层级, 槽位由due决定.
// 过期的定时器放在游标所在的槽, 下一次处理时立即触发.
func (w *wheel) enroll(t *Timer) {
	t.due = max(t.tick, w.cursor)
	eff := t.due
	delta := eff - w.cursor
	if delta >= w.span {
		mlog.Debugf("timer wheel overflow, tick:%d cursor:%d", t.tick, w.cursor)
		w.eternal.insertSorted(t)
		return
	}
	lvl := 0
	for delta >= Tick(1)<<(wheelSlotBits*(lvl+1)) {
		lvl++
	}
	slot := (eff >> (wheelSlotBits * lvl)) & wheelSlotMask
	w.slots[lvl][slot].pushBack(t)
}

// requeue 重新分配一个槽内的全部定时器, tick保持不变
func (w *wheel) requeue(bucket *list) {
	bucket.moveTo(&w.scratch)
	for t := w.scratch.front(); t != nil; t = w.scratch.front() {
		t.unlink()
		w.enroll(t)
	}
}

// cascade 游标走到64的整数倍时, 把高层对应槽的定时器降级.
// 某层的槽号不为0时更高层还没有转完一圈, 到此为止.
func (w *wheel) cascade() {
	idx := w.cursor >> wheelSlotBits
	for lvl := 1; lvl < w.levels; lvl++ {
		slot := idx & wheelSlotMask
		w.requeue(&w.slots[lvl][slot])
		if slot != 0 {
			return
		}
		idx >>= wheelSlotBits
	}
	for t := w.eternal.front(); t != nil; t = w.eternal.front() {
		if max(t.tick, w.cursor)-w.cursor >= w.span {
			return
		}
		t.unlink()
		w.enroll(t)
	}
}

// Expire 逐tick推进游标直到now. 有定时器挂接时不能跳过任何tick,
// 否则高层槽位与游标的对应关系会被破坏.
func (w *wheel) Expire(now Tick, fire func(t *Timer)) {
	w.firing = true
	defer func() {
		w.firing = false
	}()
	for now >= w.cursor {
		if w.count == 0 {
			w.cursor = now
			return
		}
		slot := w.cursor & wheelSlotMask
		if slot == 0 {
			w.cascade()
		}
		// 先摘到临时链表, 回调中新arm的定时器不会进入本轮
		w.slots[0][slot].moveTo(&w.scratch)
		w.cursor++
		for t := w.scratch.front(); t != nil; t = w.scratch.front() {
			t.unlink()
			w.count--
			fire(t)
		}
	}
}

func (w *wheel) Issue() (Tick, bool) {
	if w.count == 0 {
		return 0, false
	}
	if !w.issueOK || w.issue < w.cursor {
		w.issue, w.issueOK = w.findIssue()
	}
	return w.issue, w.issueOK
}

// findIssue 扫描得到最小的due.
// 第i层未降级的定时器所在块号只可能是游标块号或其后64块之内,
// 因此每层只需看游标所在槽以及其后第一个非空槽.
func (w *wheel) findIssue() (best Tick, found bool) {
	consider := func(tick Tick, ok bool) {
		if ok && (!found || tick < best) {
			best, found = tick, true
		}
	}

	consider(w.scratch.minDue())
	for lvl := 0; lvl < w.levels; lvl++ {
		cur := int(w.cursor>>(wheelSlotBits*lvl)) & wheelSlotMask
		slots := &w.slots[lvl]
		consider(slots[cur].minDue())
		if lvl == 0 && found {
			// 高层定时器的due不会早于游标
			return
		}
		for i := 1; i < wheelSlots; i++ {
			if bucket := &slots[(cur+i)&wheelSlotMask]; !bucket.empty() {
				consider(bucket.minDue())
				break
			}
		}
	}
	if t := w.eternal.front(); t != nil {
		consider(t.due, true)
	}
	return
}

func (w *wheel) Len() int {
	return w.count
}
