package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fixkme/ticktimer/errs"
	"github.com/fixkme/ticktimer/mlog"
	"github.com/fixkme/ticktimer/timer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefault(t *testing.T) {
	conf, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Same(t, conf, Config)
	assert.Equal(t, uint(timer.DefaultPrecisionBits), conf.PrecisionBits)
	assert.Equal(t, timer.KindWheel, conf.Kind())
	assert.Equal(t, mlog.InfoLevel, conf.Level())
	assert.Len(t, conf.EngineOptions(), 2)
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "tickd.json", `{
		"precision_bits": 4,
		"backend": "heap",
		"log_level": "debug",
		"listen_addr": "tcp://:9000",
		"max_timers": 10
	}`)
	conf, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, uint(4), conf.PrecisionBits)
	assert.Equal(t, timer.KindHeap, conf.Kind())
	assert.Equal(t, mlog.DebugLevel, conf.Level())
	assert.Equal(t, "tcp://:9000", conf.ListenAddr)
	assert.Equal(t, 10, conf.MaxTimers)
	assert.Equal(t, int64(1000), conf.MaxWaitMs)
	assert.Contains(t, conf.JsonFormat(), `"backend": "heap"`)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "tickd.yaml", `
precision_bits: 0
backend: list
log_std_out: true
max_wait_ms: 250
stats_interval_ms: 0
`)
	conf, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, uint(0), conf.PrecisionBits)
	assert.Equal(t, timer.KindList, conf.Kind())
	assert.True(t, conf.LogStdOut)
	assert.Equal(t, int64(250), conf.MaxWait().Milliseconds())
	assert.Zero(t, conf.StatsInterval())
	assert.Equal(t, "tickd", conf.LogName)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("TICKD_PRECISION_BITS", "9")
	t.Setenv("TICKD_BACKEND", "list")
	t.Setenv("TICKD_MAX_TIMERS", "42")
	t.Setenv("TICKD_MULTICORE", "true")
	conf, err := LoadConfig("", LoadConfigFromEnv)
	require.NoError(t, err)
	assert.Equal(t, uint(9), conf.PrecisionBits)
	assert.Equal(t, timer.KindList, conf.Kind())
	assert.Equal(t, 42, conf.MaxTimers)
	assert.True(t, conf.Multicore)

	t.Setenv("TICKD_MAX_WAIT_MS", "soon")
	_, err = LoadConfig("", LoadConfigFromEnv)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TICKD_MAX_WAIT_MS")
}

func TestLoadErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	_, err = LoadConfig(writeFile(t, "bad.json", `{"max_timers": "many"}`), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")

	cases := map[string]string{
		"bits":    `{"precision_bits": 10}`,
		"backend": `{"backend": "skiplist"}`,
		"level":   `{"log_level": "loud"}`,
		"timers":  `{"max_timers": 0}`,
		"wait":    `{"max_wait_ms": -1}`,
		"addr":    `{"listen_addr": ""}`,
	}
	for name, content := range cases {
		_, err := LoadConfig(writeFile(t, name+".json", content), nil)
		require.Error(t, err, name)
		assert.True(t, errors.Is(err, errs.Config), "%s: %v", name, err)
	}
}
