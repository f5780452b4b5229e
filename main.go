package main

import (
	"context"
	"os"
	"time"

	"github.com/fixkme/ticktimer/app"
	"github.com/fixkme/ticktimer/config"
	"github.com/fixkme/ticktimer/mlog"
	"github.com/fixkme/ticktimer/server"
	"github.com/fixkme/ticktimer/timer"
	"github.com/panjf2000/gnet/v2"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	config    string
	addr      string
	precision uint
	backend   string
	logLevel  string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "tickd",
		Short:         "tickd - tick based timer service",
		Long:          "A timer service driving a hierarchical timing wheel, clients arm and cancel timers over a line protocol.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			return run(conf)
		},
	}
	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "config file (.json|.yaml)")
	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address, e.g. tcp://127.0.0.1:7070")
	cmd.Flags().UintVar(&opts.precision, "precision", timer.DefaultPrecisionBits, "tick precision bits [0, 9]")
	cmd.Flags().StringVar(&opts.backend, "backend", "", "timer backend (wheel|list|heap)")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "log level (trace|debug|info|notice|warn|error|fatal)")
	return cmd
}

// loadConfig 命令行参数优先于环境变量和配置文件
func loadConfig(cmd *cobra.Command, opts *rootOptions) (*config.AppConfig, error) {
	return config.LoadConfig(opts.config, func(conf *config.AppConfig) error {
		if err := config.LoadConfigFromEnv(conf); err != nil {
			return err
		}
		flags := cmd.Flags()
		if flags.Changed("addr") {
			conf.ListenAddr = opts.addr
		}
		if flags.Changed("precision") {
			conf.PrecisionBits = opts.precision
		}
		if flags.Changed("backend") {
			conf.Backend = opts.backend
		}
		if flags.Changed("log-level") {
			conf.LogLevel = opts.logLevel
		}
		return nil
	})
}

func setupLogger(conf *config.AppConfig) error {
	if len(conf.LogPath) == 0 {
		return mlog.UseStdLogger(conf.Level())
	}
	return mlog.UseFileLogger(conf.LogPath, conf.LogName, conf.Level(), conf.LogStdOut)
}

func run(conf *config.AppConfig) error {
	if err := setupLogger(conf); err != nil {
		return err
	}
	defer mlog.Sync()
	mlog.Infof("tickd config:\n%s", conf.JsonFormat())

	timer.Setup(conf.EngineOptions()...)
	svc := server.NewService(timer.Default(), conf.MaxTimers, conf.MaxWait())
	srv := server.NewServer(svc, &server.ServerOptions{
		Options:       gnet.Options{Multicore: conf.Multicore},
		Addr:          conf.ListenAddr,
		StatsInterval: conf.StatsInterval(),
	})
	a := app.New()
	return a.Run(&serverModule{srv: srv, app: a})
}

// serverModule 把gnet服务挂到app的生命周期上
type serverModule struct {
	srv    *server.Server
	app    *app.App
	ctx    context.Context
	cancel context.CancelFunc
}

func (m *serverModule) Name() string {
	return "tickd"
}

func (m *serverModule) OnInit() error {
	m.ctx, m.cancel = context.WithCancel(context.Background())
	return nil
}

func (m *serverModule) Run() {
	if err := m.srv.Run(m.ctx); err != nil {
		mlog.Errorf("tickd server exited: %v", err)
		if m.ctx.Err() == nil {
			go m.app.Stop()
		}
	}
}

func (m *serverModule) Destroy() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.srv.Stop(ctx); err != nil {
		mlog.Debugf("tickd server stop: %v", err)
	}
	m.cancel()
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Stderr.WriteString("tickd: " + err.Error() + "\n")
		os.Exit(1)
	}
}
