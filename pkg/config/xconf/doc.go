// Package xconf 加载并校验 xevents 引擎与宿主的配置，基于 koanf 实现。
//
// # 两层结构
//
//   - 加载层：[New] / [NewFromBytes] 把 YAML 或 JSON 解析为 koanf 实例，
//     文件通过 afero.Fs 读取（默认操作系统文件系统，测试中可用内存文件系统）
//   - 模式层：[Settings] 描述引擎、宿主轮询、日志与指标配置；
//     [Load] / [Parse] 在 [Default] 之上覆盖文件中的值并调用 [Settings.Validate]
//
// # 配置示例
//
//	engine:
//	  name: bench-loop
//	  variant: compact      # full | compact
//	  schedules: 8
//	  reactions: 8
//	  widths:               # 仅 compact 使用
//	    interval: 32        # 8 | 16 | 32 | 64
//	    wait: 16
//	host:
//	  poll_interval: 1ms
//	log:
//	  level: info           # debug | info | warn(ing) | error，大小写不敏感
//	  format: text          # text | json
//	  file: ""              # 非空时写入滚动日志文件
//	  rotate:               # 仅 file 非空时校验
//	    max_size_mb: 100
//	    max_backups: 7
//	    max_age_days: 30
//	    compress: true
//	metrics:
//	  enabled: false
//	  sample_every: 1       # 每 n 个 tick 取一个跨度
//	  sample_rate: 1.0      # 再按比率随机采样，0 关闭跨度
//
// 文件中未出现的字段保留默认值。
//
// # Unmarshal
//
// Unmarshal 使用 mapstructure 进行反序列化，允许弱类型转换，
// 并支持把 "500ms" 这样的字符串解析为 time.Duration。
package xconf
