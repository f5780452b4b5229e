package timer

import (
	"math"
	"time"

	"github.com/fixkme/ticktimer/clock"
	"github.com/fixkme/ticktimer/errs"
)

// Tick 引擎的时间单位, 每秒 2^bits 个tick
type Tick uint64

const (
	// MaxPrecisionBits tick周期必须整除1e9纳秒, 所以最多9位
	MaxPrecisionBits = 9
	// DefaultPrecisionBits 默认 1/256 秒
	DefaultPrecisionBits = 8
	// MaxTick 可以无溢出地转换回秒字段(int64)的最大tick
	MaxTick = Tick(math.MaxInt64)
)

// Scale 在 clock.Timespec 与 Tick 之间转换
//
//	bits  period(ms)  Hz
//	   0   1000.000    1
//	   4     62.500   16
//	   8      3.906  256
//	   9      1.953  512
type Scale struct {
	bits   uint
	mask   int64
	period int64 // 纳秒
	secMax int64 // 可转换的最大秒数
}

func NewScale(bits uint) Scale {
	errs.Assert("timer", bits <= MaxPrecisionBits, "bits <= MaxPrecisionBits")
	return Scale{
		bits:   bits,
		mask:   (int64(1) << bits) - 1,
		period: clock.NsecPerSec >> bits,
		secMax: int64(MaxTick) >> bits,
	}
}

func (s Scale) Bits() uint {
	return s.bits
}

func (s Scale) Period() time.Duration {
	return time.Duration(s.period)
}

func (s Scale) PerSecond() int64 {
	return int64(1) << s.bits
}

func (s Scale) MaxTick() Tick {
	return MaxTick
}

// FloorTick 向下取整
func (s Scale) FloorTick(ts clock.Timespec) Tick {
	errs.Assert("timer", ts.Valid(), "ts.Valid()")
	errs.Assert("timer", ts.Sec <= s.secMax, "ts.Sec <= secMax")
	return s.floor(ts)
}

// CeilTick 向上取整, 定时器到期tick使用该方向以保证不会提前触发
func (s Scale) CeilTick(ts clock.Timespec) Tick {
	errs.Assert("timer", ts.Valid(), "ts.Valid()")
	tick, ok := s.ceil(ts)
	errs.Assert("timer", ok, "tick <= MaxTick")
	return tick
}

// FloorTickClamp 超出范围时饱和到 MaxTick
func (s Scale) FloorTickClamp(ts clock.Timespec) Tick {
	errs.Assert("timer", ts.Valid(), "ts.Valid()")
	if ts.Sec > s.secMax {
		return MaxTick
	}
	return s.floor(ts)
}

// CeilTickClamp 超出范围时饱和到 MaxTick
func (s Scale) CeilTickClamp(ts clock.Timespec) Tick {
	errs.Assert("timer", ts.Valid(), "ts.Valid()")
	if tick, ok := s.ceil(ts); ok {
		return tick
	}
	return MaxTick
}

// Timespec tick对应的时刻
func (s Scale) Timespec(tick Tick) clock.Timespec {
	errs.Assert("timer", tick <= MaxTick, "tick <= MaxTick")
	return clock.Timespec{
		Sec:  int64(tick) >> s.bits,
		Nsec: (int64(tick) & s.mask) * s.period,
	}
}

func (s Scale) floor(ts clock.Timespec) Tick {
	return Tick(ts.Sec<<s.bits | ts.Nsec/s.period)
}

func (s Scale) ceil(ts clock.Timespec) (Tick, bool) {
	if ts.Sec > s.secMax {
		return 0, false
	}
	base := ts.Sec << s.bits
	frac := (ts.Nsec + s.period - 1) / s.period
	if base > math.MaxInt64-frac {
		return 0, false
	}
	return Tick(base + frac), true
}
