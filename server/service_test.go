package server

import (
	"strings"
	"testing"
	"time"

	"github.com/fixkme/ticktimer/clock"
	"github.com/fixkme/ticktimer/timer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pushSink struct {
	lines []string
}

func (p *pushSink) write(data []byte) error {
	p.lines = append(p.lines, string(data))
	return nil
}

func newTestService(t *testing.T, kind timer.Kind, maxTimers int) (*Service, *clock.Manual) {
	t.Helper()
	clk := clock.NewManual(clock.Timespec{Sec: 10})
	engine := timer.NewEngine(timer.WithClock(clk), timer.WithPrecision(0), timer.WithBackend(kind))
	return NewService(engine, maxTimers, time.Second), clk
}

func armID(t *testing.T, reply string) string {
	t.Helper()
	require.True(t, strings.HasPrefix(reply, "OK "), reply)
	return strings.TrimPrefix(reply, "OK ")
}

func TestServiceArmFire(t *testing.T) {
	for _, kind := range []timer.Kind{timer.KindWheel, timer.KindList, timer.KindHeap} {
		t.Run(kind.String(), func(t *testing.T) {
			svc, clk := newTestService(t, kind, 8)
			sink := &pushSink{}
			sess := NewSession(sink.write)

			reply, quit := svc.Dispatch(sess, "ARM 1500 tea")
			assert.False(t, quit)
			tea := armID(t, reply)
			reply, _ = svc.Dispatch(sess, "armsec 5")
			plain := armID(t, reply)

			reply, _ = svc.Dispatch(sess, "ISSUE")
			assert.Equal(t, "ISSUE 2000", reply)
			reply, _ = svc.Dispatch(sess, "PENDING")
			assert.Equal(t, "PENDING 2", reply)

			clk.Advance(2 * time.Second)
			assert.Equal(t, time.Second, svc.Step())
			assert.Equal(t, []string{"FIRED " + tea + " tea\n"}, sink.lines)

			reply, _ = svc.Dispatch(sess, "ISSUE")
			assert.Equal(t, "ISSUE 3000", reply)

			clk.Advance(3 * time.Second)
			svc.Step()
			assert.Equal(t, "FIRED "+plain+"\n", sink.lines[1])
			assert.Equal(t, 0, svc.Records())

			reply, _ = svc.Dispatch(sess, "ISSUE")
			assert.Equal(t, "ISSUE NONE", reply)
		})
	}
}

func TestServiceCancel(t *testing.T) {
	svc, clk := newTestService(t, timer.KindWheel, 8)
	sink := &pushSink{}
	alice := NewSession(sink.write)
	bob := NewSession(sink.write)

	reply, _ := svc.Dispatch(alice, "ARM 1000")
	id := armID(t, reply)

	reply, _ = svc.Dispatch(bob, "CANCEL "+id)
	assert.Equal(t, "ERR unknown timer", reply)
	reply, _ = svc.Dispatch(alice, "CANCEL nonsense")
	assert.Equal(t, "ERR invalid timer id", reply)
	reply, _ = svc.Dispatch(alice, "CANCEL")
	assert.Equal(t, "ERR usage: CANCEL <id>", reply)

	reply, _ = svc.Dispatch(alice, "CANCEL "+id)
	assert.Equal(t, "OK", reply)
	reply, _ = svc.Dispatch(alice, "CANCEL "+id)
	assert.Equal(t, "ERR unknown timer", reply)
	assert.Equal(t, 0, svc.Pending())
	assert.Equal(t, 0, svc.Records())

	clk.Advance(5 * time.Second)
	svc.Step()
	assert.Empty(t, sink.lines)
}

func TestServiceCapacity(t *testing.T) {
	svc, _ := newTestService(t, timer.KindHeap, 2)
	sess := NewSession((&pushSink{}).write)

	first, _ := svc.Dispatch(sess, "ARM 100")
	armID(t, first)
	second, _ := svc.Dispatch(sess, "ARM 200")
	armID(t, second)
	reply, _ := svc.Dispatch(sess, "ARM 300")
	assert.Equal(t, "ERR capacity", reply)

	_, _ = svc.Dispatch(sess, "CANCEL "+strings.TrimPrefix(first, "OK "))
	reply, _ = svc.Dispatch(sess, "ARM 300")
	armID(t, reply)
}

func TestServiceDrop(t *testing.T) {
	svc, clk := newTestService(t, timer.KindWheel, 8)
	sink := &pushSink{}
	sess := NewSession(sink.write)
	other := NewSession(sink.write)

	for i := 0; i < 3; i++ {
		reply, _ := svc.Dispatch(sess, "ARM 1000")
		armID(t, reply)
	}
	reply, _ := svc.Dispatch(other, "ARM 1000 keep")
	keep := armID(t, reply)

	assert.Equal(t, 3, svc.Drop(sess))
	assert.Equal(t, 1, svc.Pending())
	assert.Equal(t, 1, svc.Records())

	clk.Advance(time.Second)
	svc.Step()
	assert.Equal(t, []string{"FIRED " + keep + " keep\n"}, sink.lines)
}

func TestServiceDispatchErrors(t *testing.T) {
	svc, _ := newTestService(t, timer.KindList, 4)
	sess := NewSession((&pushSink{}).write)

	cases := map[string]string{
		"HELLO":          "ERR unknown command HELLO",
		"ARM":            "ERR usage: <amount> [label]",
		"ARM 0":          "ERR invalid duration 0",
		"ARM -5":         "ERR invalid duration -5",
		"ARM soon":       "ERR invalid duration soon",
		"ARM 10 a b":     "ERR usage: <amount> [label]",
		"ARMSEC 1.5 tea": "ERR invalid duration 1.5",
	}
	for line, want := range cases {
		reply, quit := svc.Dispatch(sess, line)
		assert.False(t, quit, line)
		assert.Equal(t, want, reply, line)
	}

	reply, quit := svc.Dispatch(sess, "   ")
	assert.Empty(t, reply)
	assert.False(t, quit)

	reply, quit = svc.Dispatch(sess, "quit")
	assert.Empty(t, reply)
	assert.True(t, quit)
	assert.Equal(t, 0, svc.Pending())
}

func TestServiceStepWait(t *testing.T) {
	svc, _ := newTestService(t, timer.KindWheel, 4)
	sess := NewSession((&pushSink{}).write)
	assert.Equal(t, time.Second, svc.Step())

	_, _ = svc.Dispatch(sess, "ARM 300")
	assert.Equal(t, 1000*time.Millisecond, svc.Step())

	svc2, clk := newTestService(t, timer.KindList, 4)
	_, _ = svc2.Dispatch(NewSession((&pushSink{}).write), "ARMSEC 1")
	clk.Advance(500 * time.Millisecond)
	assert.Equal(t, 500*time.Millisecond, svc2.Step())
}

func TestServiceStatsShutdown(t *testing.T) {
	svc, clk := newTestService(t, timer.KindHeap, 8)
	sink := &pushSink{}
	first := NewSession(sink.write)
	second := NewSession(sink.write)
	idle := NewSession(sink.write)

	for i := 0; i < 2; i++ {
		reply, _ := svc.Dispatch(first, "ARM 2000")
		armID(t, reply)
	}
	reply, _ := svc.Dispatch(second, "ARMSEC 1")
	armID(t, reply)
	_, _ = svc.Dispatch(idle, "PENDING")

	st := svc.Stats()
	assert.Equal(t, Stats{
		Pending:   3,
		Records:   3,
		Capacity:  8,
		Sessions:  2,
		IssueMsec: 1000,
		IssueOK:   true,
	}, st)

	assert.Equal(t, 3, svc.Shutdown())
	assert.Empty(t, first.timers)
	assert.Empty(t, second.timers)
	st = svc.Stats()
	assert.Equal(t, Stats{Capacity: 8}, st)

	clk.Advance(5 * time.Second)
	svc.Step()
	assert.Empty(t, sink.lines)

	for i := 0; i < 8; i++ {
		reply, _ := svc.Dispatch(first, "ARM 10")
		armID(t, reply)
	}
	assert.Equal(t, 8, svc.Shutdown())
}

func TestSplitLines(t *testing.T) {
	lines, rest := splitLines([]byte("ARM 10\r\nISSUE\nPEND"))
	assert.Equal(t, []string{"ARM 10", "ISSUE"}, lines)
	assert.Equal(t, "PEND", string(rest))

	lines, rest = splitLines([]byte("no newline"))
	assert.Empty(t, lines)
	assert.Equal(t, "no newline", string(rest))
}
