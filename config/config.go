package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fixkme/ticktimer/errs"
	"github.com/fixkme/ticktimer/mlog"
	"github.com/fixkme/ticktimer/timer"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var Config *AppConfig

type AppConfig struct {
	EngineConfig `json:",inline" yaml:",inline"`
	LogConfig    `json:",inline" yaml:",inline"`
	ServerConfig `json:",inline" yaml:",inline"`
}

type EngineConfig struct {
	PrecisionBits uint   `json:"precision_bits" yaml:"precision_bits"` //每秒2^n个tick
	Backend       string `json:"backend" yaml:"backend"`               //wheel, list, heap
}

type LogConfig struct {
	LogPath   string `json:"log_path" yaml:"log_path"`
	LogName   string `json:"log_name" yaml:"log_name"`
	LogLevel  string `json:"log_level" yaml:"log_level"`
	LogStdOut bool   `json:"log_std_out" yaml:"log_std_out"`
}

type ServerConfig struct {
	ListenAddr      string `json:"listen_addr" yaml:"listen_addr"`
	Multicore       bool   `json:"multicore" yaml:"multicore"`
	MaxTimers       int    `json:"max_timers" yaml:"max_timers"`               //最多同时存在的定时器
	MaxWaitMs       int64  `json:"max_wait_ms" yaml:"max_wait_ms"`             //驱动循环最长等待 毫秒
	StatsIntervalMs int64  `json:"stats_interval_ms" yaml:"stats_interval_ms"` //统计日志间隔 毫秒, 0关闭
}

func Default() *AppConfig {
	return &AppConfig{
		EngineConfig: EngineConfig{
			PrecisionBits: timer.DefaultPrecisionBits,
			Backend:       "wheel",
		},
		LogConfig: LogConfig{
			LogName:  "tickd",
			LogLevel: "info",
		},
		ServerConfig: ServerConfig{
			ListenAddr:      "tcp://127.0.0.1:7070",
			MaxTimers:       65536,
			MaxWaitMs:       1000,
			StatsIntervalMs: 10000,
		},
	}
}

// LoadConfig 依次应用默认值, 配置文件(.json/.yaml/.yml), 环境变量, 然后校验
func LoadConfig(configFile string, loadConfigFromEnv func(*AppConfig) error) (*AppConfig, error) {
	conf := Default()
	if len(configFile) != 0 {
		if err := loadConfigFromFile(configFile, conf); err != nil {
			return nil, err
		}
	}
	if loadConfigFromEnv != nil {
		if err := loadConfigFromEnv(conf); err != nil {
			return nil, err
		}
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	Config = conf
	return conf, nil
}

func loadConfigFromFile(configFile string, conf *AppConfig) error {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return errors.Wrapf(err, "read config %s", configFile)
	}
	switch strings.ToLower(filepath.Ext(configFile)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, conf)
	default:
		err = json.Unmarshal(data, conf)
	}
	return errors.Wrapf(err, "parse config %s", configFile)
}

// LoadConfigFromEnv 读取TICKD_前缀的环境变量
func LoadConfigFromEnv(conf *AppConfig) error {
	var err error
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	num := func(key string, dst *int64) {
		v, ok := os.LookupEnv(key)
		if !ok || err != nil {
			return
		}
		n, perr := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if perr != nil {
			err = errors.Wrapf(perr, "env %s", key)
			return
		}
		*dst = n
	}
	flag := func(key string, dst *bool) {
		v, ok := os.LookupEnv(key)
		if !ok || err != nil {
			return
		}
		b, perr := strconv.ParseBool(strings.TrimSpace(v))
		if perr != nil {
			err = errors.Wrapf(perr, "env %s", key)
			return
		}
		*dst = b
	}

	bits := int64(conf.PrecisionBits)
	maxTimers := int64(conf.MaxTimers)
	num("TICKD_PRECISION_BITS", &bits)
	str("TICKD_BACKEND", &conf.Backend)
	str("TICKD_LOG_PATH", &conf.LogPath)
	str("TICKD_LOG_NAME", &conf.LogName)
	str("TICKD_LOG_LEVEL", &conf.LogLevel)
	flag("TICKD_LOG_STD_OUT", &conf.LogStdOut)
	str("TICKD_LISTEN_ADDR", &conf.ListenAddr)
	flag("TICKD_MULTICORE", &conf.Multicore)
	num("TICKD_MAX_TIMERS", &maxTimers)
	num("TICKD_MAX_WAIT_MS", &conf.MaxWaitMs)
	num("TICKD_STATS_INTERVAL_MS", &conf.StatsIntervalMs)
	if err != nil {
		return err
	}
	if bits < 0 {
		return errs.Config.Printf("precision_bits=%d", bits)
	}
	conf.PrecisionBits = uint(bits)
	conf.MaxTimers = int(maxTimers)
	return nil
}

func (conf *AppConfig) Validate() error {
	if conf.PrecisionBits > timer.MaxPrecisionBits {
		return errs.Config.Printf("precision_bits=%d out of range [0, %d]", conf.PrecisionBits, timer.MaxPrecisionBits)
	}
	if _, err := timer.ParseKind(conf.Backend); err != nil {
		return err
	}
	if _, err := mlog.ParseLevel(conf.LogLevel); err != nil {
		return err
	}
	if len(conf.ListenAddr) == 0 {
		return errs.Config.Printf("listen_addr is empty")
	}
	if conf.MaxTimers <= 0 {
		return errs.Config.Printf("max_timers=%d", conf.MaxTimers)
	}
	if conf.MaxWaitMs <= 0 {
		return errs.Config.Printf("max_wait_ms=%d", conf.MaxWaitMs)
	}
	if conf.StatsIntervalMs < 0 {
		return errs.Config.Printf("stats_interval_ms=%d", conf.StatsIntervalMs)
	}
	return nil
}

// Kind 校验通过后调用
func (conf *AppConfig) Kind() timer.Kind {
	kind, _ := timer.ParseKind(conf.Backend)
	return kind
}

func (conf *AppConfig) Level() mlog.Level {
	level, _ := mlog.ParseLevel(conf.LogLevel)
	return level
}

func (conf *AppConfig) MaxWait() time.Duration {
	return time.Duration(conf.MaxWaitMs) * time.Millisecond
}

func (conf *AppConfig) StatsInterval() time.Duration {
	return time.Duration(conf.StatsIntervalMs) * time.Millisecond
}

// EngineOptions 构造定时器引擎的选项
func (conf *AppConfig) EngineOptions() []timer.Option {
	return []timer.Option{
		timer.WithPrecision(conf.PrecisionBits),
		timer.WithBackend(conf.Kind()),
	}
}

func (conf *AppConfig) JsonFormat() string {
	if conf == nil {
		return "{}"
	}
	data, err := json.MarshalIndent(conf, "", "  ")
	if err != nil {
		return ""
	}
	return string(data)
}
