package timer

import (
	"testing"
	"time"

	"github.com/fixkme/ticktimer/clock"
)

func benchKinds(b *testing.B, fn func(b *testing.B, kind Kind)) {
	for _, kind := range allKinds {
		kind := kind
		b.Run(kind.String(), func(b *testing.B) {
			fn(b, kind)
		})
	}
}

func BenchmarkArmCancel(b *testing.B) {
	benchKinds(b, func(b *testing.B, kind Kind) {
		e, _ := newTestEngine(kind, 8, clock.Timespec{Sec: 1})
		noop := func(*Timer) {}
		background := make([]Timer, 10_000)
		for i := range background {
			background[i].Init(noop, nil)
			e.ArmMsec(&background[i], int64(1+i*37%600_000))
		}
		tm := New(noop, nil)
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			e.ArmMsec(tm, int64(1+i%100_000))
			e.Cancel(tm)
		}
	})
}

func BenchmarkRun(b *testing.B) {
	benchKinds(b, func(b *testing.B, kind Kind) {
		e, clk := newTestEngine(kind, 8, clock.Timespec{Sec: 1})
		var fn Func
		fn = func(t *Timer) {
			e.ArmMsec(t, 1000)
		}
		timers := make([]Timer, 4096)
		for i := range timers {
			timers[i].Init(fn, nil)
			e.ArmMsec(&timers[i], int64(1+i%1000))
		}
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			clk.Advance(4 * time.Millisecond)
			e.Run()
		}
	})
}
