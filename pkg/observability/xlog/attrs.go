package xlog

import (
	"errors"
	"log/slog"
)

// 常用属性 key。
const (
	KeyError     = "error"
	KeyEngine    = "engine"
	KeyComponent = "component"
)

// 配置错误。
var (
	// ErrUnknownLevel 无法识别的日志级别。
	ErrUnknownLevel = errors.New("xlog: unknown level")

	// ErrUnknownFormat 无法识别的输出格式。
	ErrUnknownFormat = errors.New("xlog: unknown format")
)

// Err 创建错误属性，err 为 nil 时返回空属性（被 slog 忽略）。
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// Engine 创建引擎名属性。
func Engine(name string) slog.Attr {
	return slog.String(KeyEngine, name)
}

// Millis 创建毫秒时间戳属性，key 通常为 "now"、"epoch" 等。
func Millis(key string, ms uint64) slog.Attr {
	return slog.Uint64(key, ms)
}

// Component 创建组件名属性。
func Component(name string) slog.Attr {
	return slog.String(KeyComponent, name)
}
