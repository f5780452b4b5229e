package clock

// Source 单调时钟源
type Source interface {
	Now() Timespec
}

// SourceFunc 函数形式的时钟源
type SourceFunc func() Timespec

func (f SourceFunc) Now() Timespec {
	return f()
}
