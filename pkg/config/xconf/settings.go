package xconf

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/omeyang/xevents/pkg/observability/xlog"
)

// 引擎变体。
const (
	// VariantFull 完整版引擎（xevents）。
	VariantFull = "full"
	// VariantCompact 紧凑版引擎（xtinyevents）。
	VariantCompact = "compact"
)

// Settings 是 xevents 进程的完整配置。
type Settings struct {
	Engine  EngineSettings  `koanf:"engine" yaml:"engine"`
	Host    HostSettings    `koanf:"host" yaml:"host"`
	Log     LogSettings     `koanf:"log" yaml:"log"`
	Metrics MetricsSettings `koanf:"metrics" yaml:"metrics"`
}

// EngineSettings 引擎构造参数。
type EngineSettings struct {
	Name      string        `koanf:"name" yaml:"name"`
	Variant   string        `koanf:"variant" yaml:"variant"`
	Schedules int           `koanf:"schedules" yaml:"schedules"`
	Reactions int           `koanf:"reactions" yaml:"reactions"`
	Widths    WidthSettings `koanf:"widths" yaml:"widths"`
}

// WidthSettings 紧凑版引擎的字段位宽。
type WidthSettings struct {
	// Interval 周期任务 interval 的位宽。
	Interval int `koanf:"interval" yaml:"interval"`
	// Wait 反应 timeout 与 delay 的位宽。
	Wait int `koanf:"wait" yaml:"wait"`
}

// MaxInterval 返回 interval 位宽可表示的最大毫秒数。
func (w WidthSettings) MaxInterval() uint64 {
	return maxForBits(w.Interval)
}

// MaxWait 返回 timeout/delay 位宽可表示的最大毫秒数。
func (w WidthSettings) MaxWait() uint64 {
	return maxForBits(w.Wait)
}

func maxForBits(bits int) uint64 {
	if bits <= 0 || bits >= 64 {
		return ^uint64(0)
	}
	return 1<<uint(bits) - 1
}

// HostSettings 宿主轮询参数。
type HostSettings struct {
	PollInterval time.Duration `koanf:"poll_interval" yaml:"poll_interval"`
}

// LogSettings 日志参数。
type LogSettings struct {
	// Level 经 [xlog.Level.UnmarshalText] 解码，接受 debug/info/warn/warning/error，大小写不敏感。
	Level  xlog.Level `koanf:"level" yaml:"level"`
	Format string     `koanf:"format" yaml:"format"`
	File   string     `koanf:"file" yaml:"file"`
	// Rotate 仅在 File 非空时生效。
	Rotate RotateSettings `koanf:"rotate" yaml:"rotate"`
}

// RotateSettings 日志文件轮转参数。
type RotateSettings struct {
	MaxSizeMB  int  `koanf:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int  `koanf:"max_backups" yaml:"max_backups"`
	MaxAgeDays int  `koanf:"max_age_days" yaml:"max_age_days"`
	Compress   bool `koanf:"compress" yaml:"compress"`
}

// MetricsSettings 指标参数。
type MetricsSettings struct {
	Enabled bool `koanf:"enabled" yaml:"enabled"`
	// SampleEvery 每 n 个 tick 建立一个可记录的跨度。
	SampleEvery int `koanf:"sample_every" yaml:"sample_every"`
	// SampleRate 在 SampleEvery 选中的 tick 中再按比率随机采样，0 关闭跨度。
	SampleRate float64 `koanf:"sample_rate" yaml:"sample_rate"`
}

// Default 返回默认配置。
func Default() *Settings {
	return &Settings{
		Engine: EngineSettings{
			Name:      "xevents",
			Variant:   VariantFull,
			Schedules: 8,
			Reactions: 8,
			Widths:    WidthSettings{Interval: 32, Wait: 16},
		},
		Host: HostSettings{PollInterval: time.Millisecond},
		Log: LogSettings{
			Level:  xlog.LevelInfo,
			Format: "text",
			Rotate: RotateSettings{MaxSizeMB: 100, MaxBackups: 7, MaxAgeDays: 30, Compress: true},
		},
		Metrics: MetricsSettings{SampleEvery: 1, SampleRate: 1},
	}
}

// Validate 校验配置，返回所有不合法字段组成的错误，每个都包装 [ErrInvalidSettings]。
func (s *Settings) Validate() error {
	var errs []error
	invalid := func(field string, value any) {
		errs = append(errs, fmt.Errorf("%w: %s = %v", ErrInvalidSettings, field, value))
	}

	switch s.Engine.Variant {
	case VariantFull:
	case VariantCompact:
		if !validWidth(s.Engine.Widths.Interval) {
			invalid("engine.widths.interval", s.Engine.Widths.Interval)
		}
		if !validWidth(s.Engine.Widths.Wait) {
			invalid("engine.widths.wait", s.Engine.Widths.Wait)
		}
	default:
		invalid("engine.variant", fmt.Sprintf("%q", s.Engine.Variant))
	}
	if s.Engine.Schedules < 0 {
		invalid("engine.schedules", s.Engine.Schedules)
	}
	if s.Engine.Reactions < 0 {
		invalid("engine.reactions", s.Engine.Reactions)
	}
	if s.Host.PollInterval <= 0 {
		invalid("host.poll_interval", s.Host.PollInterval)
	}
	switch s.Log.Format {
	case "text", "json":
	default:
		invalid("log.format", fmt.Sprintf("%q", s.Log.Format))
	}
	if s.Metrics.SampleEvery < 1 {
		invalid("metrics.sample_every", s.Metrics.SampleEvery)
	}
	if !(s.Metrics.SampleRate >= 0 && s.Metrics.SampleRate <= 1) {
		invalid("metrics.sample_rate", s.Metrics.SampleRate)
	}
	if s.Log.File != "" {
		if s.Log.Rotate.MaxSizeMB <= 0 {
			invalid("log.rotate.max_size_mb", s.Log.Rotate.MaxSizeMB)
		}
		if s.Log.Rotate.MaxBackups < 0 {
			invalid("log.rotate.max_backups", s.Log.Rotate.MaxBackups)
		}
		if s.Log.Rotate.MaxAgeDays < 0 {
			invalid("log.rotate.max_age_days", s.Log.Rotate.MaxAgeDays)
		}
	}
	return errors.Join(errs...)
}

func validWidth(bits int) bool {
	switch bits {
	case 8, 16, 32, 64:
		return true
	default:
		return false
	}
}

// YAML 将配置编码为 YAML。
func (s *Settings) YAML() ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("xconf: marshal settings: %w", err)
	}
	return data, nil
}

// Load 从 fs 上的 path 读取配置，覆盖到默认值之上并校验。fs 为 nil 时使用操作系统文件系统。
func Load(fs afero.Fs, path string, opts ...Option) (*Settings, error) {
	cfg, err := New(path, append(append([]Option(nil), opts...), WithFS(fs))...)
	if err != nil {
		return nil, err
	}
	return decode(cfg)
}

// Parse 从字节数据解析配置，覆盖到默认值之上并校验。
func Parse(data []byte, format Format) (*Settings, error) {
	cfg, err := NewFromBytes(data, format)
	if err != nil {
		return nil, err
	}
	return decode(cfg)
}

func decode(cfg Config) (*Settings, error) {
	s := Default()
	if err := cfg.Unmarshal("", s); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}
