package timer

// sortedList 所有定时器按due升序挂在一条链表上.
// arm为O(n), 判断是否有到期定时器为O(1).
type sortedList struct {
	timers list
	count  int
	cursor Tick // 下一个待处理的tick
	firing bool
}

func newSortedList() *sortedList {
	l := &sortedList{}
	l.timers.init()
	return l
}

func (l *sortedList) Insert(t *Timer, now Tick) {
	if l.count == 0 && !l.firing && now > l.cursor {
		l.cursor = now
	}
	t.due = max(t.tick, l.cursor)
	l.timers.insertSorted(t)
	l.count++
}

func (l *sortedList) Remove(t *Timer) {
	if t.unlink() {
		l.count--
	}
}

// Expire 按due顺序触发, 游标跟随正在触发的定时器前进.
// 回调中arm到过去的定时器排在游标处, 游标不晚于now时本轮一并触发.
func (l *sortedList) Expire(now Tick, fire func(t *Timer)) {
	l.firing = true
	defer func() {
		l.firing = false
	}()
	for {
		t := l.timers.front()
		if t == nil {
			if now > l.cursor {
				l.cursor = now
			}
			return
		}
		if t.due > now {
			if now >= l.cursor {
				l.cursor = now + 1
			}
			return
		}
		l.cursor = t.due + 1
		t.unlink()
		l.count--
		fire(t)
	}
}

func (l *sortedList) Issue() (Tick, bool) {
	t := l.timers.front()
	if t == nil {
		return 0, false
	}
	return t.due, true
}

func (l *sortedList) Len() int {
	return l.count
}
