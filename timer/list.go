package timer

// list 以Timer自身链接域构成的双向循环链表, root为哨兵.
// list初始化后不能被复制.
type list struct {
	root Timer
}

func (l *list) init() {
	l.root.prev = &l.root
	l.root.next = &l.root
}

func (l *list) empty() bool {
	return l.root.next == &l.root
}

// front 链表为空时返回nil
func (l *list) front() *Timer {
	if l.empty() {
		return nil
	}
	return l.root.next
}

func (l *list) pushBack(t *Timer) {
	tail := l.root.prev
	tail.next = t
	t.prev = tail
	t.next = &l.root
	l.root.prev = t
}

// insertSorted 按due有序插入, 从尾部开始查找, 相同due的排在已有节点之后
func (l *list) insertSorted(t *Timer) {
	at := l.root.prev
	for at != &l.root && at.due > t.due {
		at = at.prev
	}
	t.prev = at
	t.next = at.next
	at.next.prev = t
	at.next = t
}

// moveTo 把全部节点按原顺序移到空链表dst
func (l *list) moveTo(dst *list) {
	if l.empty() {
		return
	}
	first, last := l.root.next, l.root.prev
	first.prev = &dst.root
	last.next = &dst.root
	dst.root.next = first
	dst.root.prev = last
	l.init()
}

// each 遍历, fn不能修改链表
func (l *list) each(fn func(t *Timer) bool) {
	for t := l.root.next; t != &l.root; t = t.next {
		if !fn(t) {
			break
		}
	}
}

// minDue 链表中最小的due, 空链表返回false
func (l *list) minDue() (lowest Tick, ok bool) {
	l.each(func(t *Timer) bool {
		if !ok || t.due < lowest {
			lowest, ok = t.due, true
		}
		return true
	})
	return
}
