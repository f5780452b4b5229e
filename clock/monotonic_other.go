//go:build !linux

package clock

import "time"

var origin = time.Now()

// Monotonic 基于runtime单调时钟, 原点为进程启动
type Monotonic struct{}

func (Monotonic) Now() Timespec {
	return FromDuration(time.Since(origin))
}
