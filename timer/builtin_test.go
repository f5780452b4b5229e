package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	e := Default()
	require.NotNil(t, e)
	assert.Same(t, e, Default())
	assert.Equal(t, KindWheel, e.Kind())
	assert.Equal(t, uint(DefaultPrecisionBits), e.Scale().Bits())

	requireContract(t, func() { Setup(WithBackend(KindList)) })
	assert.Equal(t, KindWheel, Default().Kind())

	fired := false
	tm := New(func(*Timer) { fired = true }, nil)
	ArmMsec(tm, 60_000)
	assert.True(t, e.IsArmed(tm))
	ms, ok := IssueMsec()
	require.True(t, ok)
	assert.LessOrEqual(t, ms, int64(60_000))
	Run()
	Cancel(tm)
	assert.False(t, tm.Armed())
	assert.False(t, fired)

	ArmSec(tm, 3600)
	assert.True(t, tm.Armed())
	assert.Greater(t, tm.Deadline().Sub(e.Clock().Now()), 59*time.Minute)
	Cancel(tm)
}
