package xconf

import "github.com/spf13/afero"

// 键分隔符与 Unmarshal 使用的结构体标签名。
const (
	keyDelim  = "."
	structTag = "koanf"
)

// Options 定义配置加载选项。
type Options struct {
	// FS 读取配置文件的文件系统，默认为 afero.NewOsFs()。
	FS afero.Fs
}

// Option 定义配置选项函数类型。
type Option func(*Options)

func defaultOptions() *Options {
	return &Options{
		FS: afero.NewOsFs(),
	}
}

// WithFS 设置读取配置文件的文件系统。
//
// 测试中可传入 afero.NewMemMapFs()：
//
//	fs := afero.NewMemMapFs()
//	_ = afero.WriteFile(fs, "/etc/xevents.yaml", data, 0o600)
//	cfg, err := xconf.New("/etc/xevents.yaml", xconf.WithFS(fs))
func WithFS(fs afero.Fs) Option {
	return func(o *Options) {
		if fs != nil {
			o.FS = fs
		}
	}
}
