package app

import (
	"os"
	"os/signal"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/fixkme/ticktimer/mlog"
	"github.com/pkg/errors"
)

// 进程全局状态
const (
	StateNone = iota // 未开始或已停止
	StateInit        // 正在初始化中
	StateRun         // 正在运行中
	StateStop        // 正在停止中
)

type Module interface {
	OnInit() error // 初始化
	Run()          // 启动, 阻塞直到Destroy
	Destroy()      // 销毁
	Name() string  // 名字
}

// App 按注册顺序初始化和启动模块, 收到退出信号后逆序销毁
type App struct {
	mods  []Module
	state int32
	sig   chan os.Signal
	wg    sync.WaitGroup
}

func New() *App {
	return &App{sig: make(chan os.Signal, 1)}
}

func (app *App) setState(s int32) {
	atomic.StoreInt32(&app.state, s)
}

func (app *App) State() int32 {
	return atomic.LoadInt32(&app.state)
}

func (app *App) start(mods ...Module) error {
	if app.State() != StateNone || len(app.mods) != 0 {
		return errors.New("app cannot start twice")
	}
	mlog.Info("app starting up")
	app.setState(StateInit)
	for i, m := range mods {
		if err := m.OnInit(); err != nil {
			// 已初始化的模块没有启动, 直接销毁
			for j := i - 1; j >= 0; j-- {
				destroy(mods[j])
			}
			app.setState(StateNone)
			return errors.Wrapf(err, "module %s init", m.Name())
		}
	}
	app.mods = mods
	for _, m := range app.mods {
		app.wg.Add(1)
		go func(m Module) {
			defer app.wg.Done()
			m.Run()
		}(m)
	}
	app.setState(StateRun)
	mlog.Info("app started")
	return nil
}

func (app *App) stop() {
	if app.State() != StateRun {
		return
	}
	mlog.Info("app stop begin")
	app.setState(StateStop)
	// 先进后出
	for i := len(app.mods) - 1; i >= 0; i-- {
		m := app.mods[i]
		mlog.Infof("app stop module %s", m.Name())
		destroy(m)
	}
	app.wg.Wait()
	app.setState(StateNone)
	mlog.Info("app stopped")
}

func destroy(m Module) {
	defer func() {
		if r := recover(); r != nil {
			mlog.Errorf("%s module destroy panic: %v\n%s", m.Name(), r, debug.Stack())
		}
	}()
	m.Destroy()
}

// Run 阻塞直到SIGINT/SIGTERM或Stop, SIGHUP被忽略
func (app *App) Run(mods ...Module) error {
	if err := app.start(mods...); err != nil {
		return err
	}
	signal.Notify(app.sig, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(app.sig)
	for {
		sig := <-app.sig
		mlog.Infof("server closing down (signal: %v)", sig)
		if sig != syscall.SIGHUP {
			break
		}
	}
	app.stop()
	return nil
}

func (app *App) Stop() {
	app.sig <- syscall.SIGTERM
}
