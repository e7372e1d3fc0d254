package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/xevents/pkg/config/xconf"
	"github.com/omeyang/xevents/pkg/observability/xlog"
	"github.com/omeyang/xevents/pkg/observability/xrotate"
)

// loadSettings 读取 --config 指定的配置（未指定时使用默认配置），再叠加日志相关的全局参数。
func loadSettings(cmd *cli.Command) (*xconf.Settings, error) {
	s := xconf.Default()
	if path := cmd.String("config"); path != "" {
		loaded, err := xconf.Load(nil, path)
		if err != nil {
			return nil, err
		}
		s = loaded
	}

	if cmd.IsSet("log-level") {
		level, err := xlog.ParseLevel(cmd.String("log-level"))
		if err != nil {
			return nil, newUsageError("log.level: %v", err)
		}
		s.Log.Level = level
	}
	if cmd.IsSet("log-format") {
		s.Log.Format = cmd.String("log-format")
	}
	if cmd.IsSet("log-file") {
		s.Log.File = cmd.String("log-file")
	}
	if err := s.Validate(); err != nil {
		return nil, newUsageError("%v", err)
	}
	return s, nil
}

// newLogger 按配置构建日志。未设置日志文件时写入 stderr。
func newLogger(s *xconf.Settings, stderr io.Writer) (*slog.Logger, func() error, error) {
	rotate := s.Log.Rotate
	logger, _, cleanup, err := xlog.New().
		SetOutput(stderr).
		SetLevel(s.Log.Level).
		SetFormat(s.Log.Format).
		SetRotation(s.Log.File,
			xrotate.WithMaxSize(rotate.MaxSizeMB),
			xrotate.WithMaxBackups(rotate.MaxBackups),
			xrotate.WithMaxAge(rotate.MaxAgeDays),
			xrotate.WithCompress(rotate.Compress),
		).
		SetAttrs(xlog.Component("xeventsctl")).
		Build()
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, cleanup, nil
}
