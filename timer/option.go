package timer

import (
	"github.com/fixkme/ticktimer/clock"
)

type options struct {
	bits   uint
	kind   Kind
	clock  clock.Source
	tracer Tracer
}

// Option 引擎构造选项
type Option func(*options)

func defaultOptions() *options {
	return &options{
		bits:  DefaultPrecisionBits,
		kind:  KindWheel,
		clock: clock.Monotonic{},
	}
}

// WithPrecision tick精度位数, 每秒2^bits个tick, 取值[0, 9]
func WithPrecision(bits uint) Option {
	return func(o *options) {
		o.bits = bits
	}
}

// WithBackend 调度后端
func WithBackend(kind Kind) Option {
	return func(o *options) {
		o.kind = kind
	}
}

// WithClock 时钟源, 默认为系统单调时钟
func WithClock(src clock.Source) Option {
	return func(o *options) {
		if src != nil {
			o.clock = src
		}
	}
}

// WithTracer 跟踪arm/cancel/expire事件
func WithTracer(tracer Tracer) Option {
	return func(o *options) {
		o.tracer = tracer
	}
}
