package arena

// Null 无效下标, 分配失败时返回
const Null = -1

type node[T any] struct {
	data T
	next int // 空闲链表中的下一个, 已分配时为Null
	used bool
}

// Arena 固定容量的记录池, 启动时一次分配, 之后不再扩容.
// 记录地址在整个生命周期内保持不变, 可以被其他结构直接引用.
type Arena[T any] struct {
	nodes []node[T]
	free  int
	len   int
	zero  T
}

func New[T any](size int) *Arena[T] {
	a := &Arena[T]{
		nodes: make([]node[T], size),
	}
	a.Reset()
	return a
}

// Alloc 取一个空闲记录, 池满时返回Null和nil
func (a *Arena[T]) Alloc() (int, *T) {
	p := a.free
	if p == Null {
		return Null, nil
	}
	n := &a.nodes[p]
	a.free = n.next
	n.next = Null
	n.used = true
	a.len++
	return p, &n.data
}

// Free 归还记录并清零, 重复归还被忽略
func (a *Arena[T]) Free(p int) bool {
	if p < 0 || p >= len(a.nodes) || !a.nodes[p].used {
		return false
	}
	n := &a.nodes[p]
	n.data = a.zero
	n.used = false
	n.next = a.free
	a.free = p
	a.len--
	return true
}

// Get 已分配的记录, 下标无效或未分配时返回nil
func (a *Arena[T]) Get(p int) *T {
	if p < 0 || p >= len(a.nodes) || !a.nodes[p].used {
		return nil
	}
	return &a.nodes[p].data
}

func (a *Arena[T]) Len() int {
	return a.len
}

func (a *Arena[T]) Cap() int {
	return len(a.nodes)
}

// Range 遍历已分配的记录
func (a *Arena[T]) Range(fn func(p int, v *T) bool) {
	for i := range a.nodes {
		if a.nodes[i].used && !fn(i, &a.nodes[i].data) {
			return
		}
	}
}

// Reset 全部记录回到空闲状态
func (a *Arena[T]) Reset() {
	size := len(a.nodes)
	for i := 0; i < size; i++ {
		a.nodes[i] = node[T]{next: i + 1}
	}
	if size > 0 {
		a.nodes[size-1].next = Null
		a.free = 0
	} else {
		a.free = Null
	}
	a.len = 0
}
