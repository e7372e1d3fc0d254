package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/urfave/cli/v3"

	"github.com/omeyang/xevents/pkg/config/xconf"
	"github.com/omeyang/xevents/pkg/lifecycle/xhost"
	"github.com/omeyang/xevents/pkg/observability/xlog"
	"github.com/omeyang/xevents/pkg/schedule/xclock"
)

// 默认参数。
const (
	defaultSimulateDuration = 5 * time.Second
	defaultSimulateStep     = 10 * time.Millisecond
)

// 创建所有子命令。
func createCommands() []*cli.Command {
	return []*cli.Command{
		createSimulateCommand(),
		createRunCommand(),
		createInspectCommand(),
	}
}

// createSimulateCommand 创建 simulate 子命令。
func createSimulateCommand() *cli.Command {
	return &cli.Command{
		Name:    "simulate",
		Aliases: []string{"sim"},
		Usage:   "在假时钟上确定性地运行演示板",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:    "duration",
				Aliases: []string{"d"},
				Usage:   "模拟总时长",
				Value:   defaultSimulateDuration,
			},
			&cli.DurationFlag{
				Name:  "step",
				Usage: "每个 tick 推进的时间",
				Value: defaultSimulateStep,
			},
			&cli.BoolFlag{
				Name:  "metrics",
				Usage: "结束时输出指标汇总",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cmdSimulate(ctx, cmd, cmd.Duration("duration"), cmd.Duration("step"))
		},
	}
}

// createRunCommand 创建 run 子命令。
func createRunCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "在真实时间中运行演示板，直到收到信号或达到 --duration",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:    "duration",
				Aliases: []string{"d"},
				Usage:   "运行时长，0 表示直到收到信号",
			},
			&cli.BoolFlag{
				Name:  "metrics",
				Usage: "结束时输出指标汇总",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cmdRun(ctx, cmd, cmd.Duration("duration"))
		},
	}
}

// createInspectCommand 创建 inspect 子命令。
func createInspectCommand() *cli.Command {
	return &cli.Command{
		Name:  "inspect",
		Usage: "加载并校验配置，输出生效的配置",
		Action: func(_ context.Context, cmd *cli.Command) error {
			return cmdInspect(cmd)
		},
	}
}

// session 一次命令执行共享的配置、日志与指标。
type session struct {
	settings *xconf.Settings
	logger   *slog.Logger
	out      io.Writer
	metrics  *meterSink
	cleanup  func() error
}

func openSession(cmd *cli.Command) (*session, error) {
	s, err := loadSettings(cmd)
	if err != nil {
		return nil, err
	}
	root := cmd.Root()
	logger, cleanup, err := newLogger(s, root.ErrWriter)
	if err != nil {
		return nil, err
	}
	sess := &session{settings: s, logger: logger, out: root.Writer, cleanup: cleanup}
	if s.Metrics.Enabled || cmd.Bool("metrics") {
		sess.metrics = newMeterSink(s.Metrics)
	}
	return sess, nil
}

// params 返回构建引擎所需参数，clock 为 nil 时引擎使用真实时钟。
func (s *session) params(clock xclock.Clock) (engineParams, error) {
	p := engineParams{settings: s.settings, logger: s.logger, clock: clock}
	if s.metrics != nil {
		observer, err := s.metrics.observer()
		if err != nil {
			return p, err
		}
		p.observer = observer
	}
	return p, nil
}

// close 输出指标汇总并释放资源。
func (s *session) close(ctx context.Context) error {
	var errs []error
	if s.metrics != nil {
		errs = append(errs, s.metrics.report(ctx, s.out), s.metrics.shutdown(ctx))
	}
	errs = append(errs, s.cleanup())
	return errors.Join(errs...)
}

func cmdSimulate(ctx context.Context, cmd *cli.Command, duration, step time.Duration) (err error) {
	if step <= 0 {
		return newUsageError("--step must be positive, got %s", step)
	}
	if duration < 0 {
		return newUsageError("--duration must not be negative, got %s", duration)
	}

	sess, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, sess.close(ctx)) }()

	fc := clockwork.NewFakeClock()
	p, err := sess.params(xclock.New(fc))
	if err != nil {
		return err
	}
	eng, err := newBoard(p, sess.out)
	if err != nil {
		return err
	}
	if err := eng.Begin(); err != nil {
		return err
	}

	for elapsed := time.Duration(0); elapsed < duration; elapsed += step {
		fc.Advance(step)
		eng.Run()
	}

	data, err := eng.Snapshot().YAML()
	if err != nil {
		return err
	}
	fmt.Fprintln(sess.out, "---")
	_, err = sess.out.Write(data)
	return err
}

func cmdRun(ctx context.Context, cmd *cli.Command, duration time.Duration) (err error) {
	if duration < 0 {
		return newUsageError("--duration must not be negative, got %s", duration)
	}

	sess, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, sess.close(ctx)) }()

	p, err := sess.params(nil)
	if err != nil {
		return err
	}
	eng, err := newBoard(p, sess.out)
	if err != nil {
		return err
	}

	host := xhost.New(xhost.WithLogger(sess.logger), xhost.WithName("xeventsctl"))
	if _, err := host.Attach(eng, sess.settings.Host.PollInterval); err != nil {
		return err
	}

	runCtx := ctx
	if duration > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, duration)
		defer cancel()
	}

	if err := host.Run(runCtx); err != nil {
		if !errors.Is(err, xhost.ErrSignal) {
			return err
		}
		sess.logger.Info("shutting down", xlog.Err(err))
	}

	stats := eng.Stats()
	fmt.Fprintf(sess.out, "ticks=%d schedule_runs=%d reaction_runs=%d triggers=%d\n",
		stats.Ticks(), stats.ScheduleRuns(), stats.ReactionRuns(), stats.Triggers())
	return nil
}

func cmdInspect(cmd *cli.Command) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	data, err := s.YAML()
	if err != nil {
		return err
	}
	_, err = cmd.Root().Writer.Write(data)
	return err
}
