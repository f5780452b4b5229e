package timer

import (
	"sync"

	"github.com/fixkme/ticktimer/errs"
)

var (
	builtinEngine *Engine
	once          sync.Once
)

// Setup 用指定选项安装进程默认引擎, 只能调用一次且必须早于Default
func Setup(opts ...Option) {
	installed := false
	once.Do(func() {
		builtinEngine = NewEngine(opts...)
		installed = true
	})
	errs.Assert("timer", installed, "default engine not initialised")
}

// Default 进程默认引擎, 未Setup时按默认选项创建
func Default() *Engine {
	once.Do(func() {
		builtinEngine = NewEngine()
	})
	return builtinEngine
}

func ArmMsec(t *Timer, msec int64) {
	Default().ArmMsec(t, msec)
}

func ArmSec(t *Timer, sec int64) {
	Default().ArmSec(t, sec)
}

func Cancel(t *Timer) {
	Default().Cancel(t)
}

func Run() {
	Default().Run()
}

func IssueMsec() (int64, bool) {
	return Default().IssueMsec()
}
