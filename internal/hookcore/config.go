package hookcore

import (
	"log/slog"

	"github.com/omeyang/xevents/pkg/observability/xmetrics"
	"github.com/omeyang/xevents/pkg/schedule/xclock"
)

// Config 引擎构造配置，由各引擎包的 Option 填充。
type Config struct {
	Name     string
	Logger   *slog.Logger
	Observer xmetrics.Observer
	Clock    xclock.Clock
}

// DefaultConfig 返回以 name 为引擎名的默认配置。
func DefaultConfig(name string) *Config {
	return &Config{
		Name:     name,
		Logger:   DefaultLogger(),
		Observer: xmetrics.NoopObserver{},
		Clock:    xclock.Real(),
	}
}

// Capacity 将负容量归一化为 0。
func Capacity(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
