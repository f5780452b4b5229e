//go:build linux

package clock

import "golang.org/x/sys/unix"

// Monotonic 读取CLOCK_MONOTONIC
type Monotonic struct{}

func (Monotonic) Now() Timespec {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		// CLOCK_MONOTONIC 在linux上总是可用
		panic(err)
	}
	return Timespec{Sec: int64(ts.Sec), Nsec: int64(ts.Nsec)}
}
