// xeventsctl 运行和检查 xevents 调度引擎的命令行工具。
//
// 用法:
//
//	xeventsctl [全局选项] <命令> [命令参数]
//
// 全局选项:
//
//	-c, --config      配置文件路径（YAML 或 JSON，未指定时使用默认配置）
//	    --log-level   日志级别 debug|info|warn|error（覆盖配置文件）
//	    --log-format  日志格式 text|json（覆盖配置文件）
//	    --log-file    日志文件路径，按大小轮转（覆盖配置文件）
//
// 命令:
//
//	simulate      在假时钟上确定性地运行演示板，输出每次回调与最终快照
//	run           在真实时间中运行演示板，直到收到信号或达到 --duration
//	inspect       加载并校验配置，输出生效的配置
//	help          显示帮助信息
//
// 演示板包含一个闪烁 LED 的周期任务、一个带防抖的按键反应
// 和一个在按键后延迟鸣响的蜂鸣器反应。
//
// 退出码:
//
//	0: 成功
//	1: 运行失败（配置文件错误、引擎容量不足、回调 panic 等）
//	2: 参数错误（无效参数、未知命令等）
//
// 示例:
//
//	xeventsctl simulate --duration 3s
//	xeventsctl -c board.yaml simulate --step 5ms
//	xeventsctl --log-level debug run --duration 10s --metrics
//	xeventsctl -c board.yaml inspect
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
)

// 版本信息（可通过 -ldflags 注入，例如:
//
//	go build -ldflags "-X main.Version=1.0.0 -X main.GitCommit=$(git rev-parse --short HEAD)"
//
// ）。
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

func main() {
	os.Exit(run(context.Background(), os.Args, os.Stdout, os.Stderr))
}

// createApp 创建 CLI 应用。
func createApp(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:    "xeventsctl",
		Usage:   "xevents 调度引擎命令行工具",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "配置文件路径（YAML 或 JSON）",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "日志级别 debug|info|warn|error",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "日志格式 text|json",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "日志文件路径（按大小轮转）",
			},
		},
		Commands:       createCommands(),
		DefaultCommand: "help",
		Writer:         stdout,
		ErrWriter:      stderr,
		Authors: []any{
			"XEvents Team",
		},
		// 禁止 urfave/cli 直接调用 os.Exit，由 run() 统一映射退出码。
		ExitErrHandler: func(_ context.Context, _ *cli.Command, err error) {
			if _, ok := err.(cli.ExitCoder); ok {
				fmt.Fprintln(stderr, err)
			}
		},
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	app := createApp(stdout, stderr)

	if err := app.Run(ctx, args); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			return exitErr.code
		}
		var usageErr *usageError
		if errors.As(err, &usageErr) {
			fmt.Fprintf(stderr, "参数错误: %v\n", usageErr)
			return 2
		}
		if isCLIUsageError(err) {
			// 框架已向 stderr 输出错误详情
			return 2
		}
		fmt.Fprintf(stderr, "错误: %v\n", err)
		return 1
	}
	return 0
}

// exitError 表示命令已完成输出、只需设置退出码的场景。
type exitError struct {
	code int
}

func (e *exitError) Error() string { return "" }

// usageError 表示参数错误，退出码 2。
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func newUsageError(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// isCLIUsageError 判断错误是否来自 urfave/cli 的参数解析。
func isCLIUsageError(err error) bool {
	msg := err.Error()
	for _, marker := range []string{
		"flag provided but not defined",
		"invalid value",
		"No help topic for",
		"command not found",
		"flag needs an argument",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
