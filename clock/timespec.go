package clock

import (
	"math"
	"time"
)

const (
	NsecPerSec  = int64(time.Second)
	NsecPerMsec = int64(time.Millisecond)
	MsecPerSec  = int64(1000)
)

// Timespec 单调时钟上的时刻, 秒+纳秒
type Timespec struct {
	Sec  int64
	Nsec int64
}

// Valid 秒非负且纳秒在[0, 1e9)内
func (ts Timespec) Valid() bool {
	return ts.Sec >= 0 && ts.Nsec >= 0 && ts.Nsec < NsecPerSec
}

func (ts Timespec) IsZero() bool {
	return ts.Sec == 0 && ts.Nsec == 0
}

// Compare 返回-1, 0, 1
func (ts Timespec) Compare(other Timespec) int {
	switch {
	case ts.Sec < other.Sec:
		return -1
	case ts.Sec > other.Sec:
		return 1
	case ts.Nsec < other.Nsec:
		return -1
	case ts.Nsec > other.Nsec:
		return 1
	}
	return 0
}

func (ts Timespec) Before(other Timespec) bool {
	return ts.Compare(other) < 0
}

// Add 加上一个时长, 溢出时饱和到最大值, 结果不小于零
func (ts Timespec) Add(d time.Duration) Timespec {
	sec := int64(d / time.Second)
	nsec := ts.Nsec + int64(d%time.Second)
	if nsec >= NsecPerSec {
		nsec -= NsecPerSec
		sec++
	} else if nsec < 0 {
		nsec += NsecPerSec
		sec--
	}
	if sec > 0 && ts.Sec > math.MaxInt64-sec {
		return Timespec{Sec: math.MaxInt64, Nsec: NsecPerSec - 1}
	}
	sec += ts.Sec
	if sec < 0 {
		return Timespec{}
	}
	return Timespec{Sec: sec, Nsec: nsec}
}

// AddMsec 加上毫秒数
func (ts Timespec) AddMsec(msec int64) Timespec {
	if msec > math.MaxInt64/NsecPerMsec {
		return ts.AddSec(msec / MsecPerSec).Add(time.Duration(msec%MsecPerSec) * time.Millisecond)
	}
	return ts.Add(time.Duration(msec) * time.Millisecond)
}

// AddSec 加上秒数
func (ts Timespec) AddSec(sec int64) Timespec {
	if sec > 0 && ts.Sec > math.MaxInt64-sec {
		return Timespec{Sec: math.MaxInt64, Nsec: NsecPerSec - 1}
	}
	sec += ts.Sec
	if sec < 0 {
		return Timespec{}
	}
	return Timespec{Sec: sec, Nsec: ts.Nsec}
}

// Sub 返回ts-other, 超出time.Duration范围时饱和
func (ts Timespec) Sub(other Timespec) time.Duration {
	sec := ts.Sec - other.Sec
	nsec := ts.Nsec - other.Nsec
	if sec > math.MaxInt64/NsecPerSec-1 {
		return time.Duration(math.MaxInt64)
	}
	if sec < math.MinInt64/NsecPerSec+1 {
		return time.Duration(math.MinInt64)
	}
	return time.Duration(sec*NsecPerSec + nsec)
}

// MsecCeil 将一个时长向上取整为毫秒, 负数按0处理
func MsecCeil(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	return (int64(d) + NsecPerMsec - 1) / NsecPerMsec
}

// FromDuration 以时钟原点为基准构造时刻
func FromDuration(d time.Duration) Timespec {
	return Timespec{}.Add(d)
}

// Duration 相对时钟原点的时长
func (ts Timespec) Duration() time.Duration {
	return ts.Sub(Timespec{})
}
