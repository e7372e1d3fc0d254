package xrotate

import "errors"

// 配置校验错误。
var (
	// ErrEmptyFilename 文件名为空。
	ErrEmptyFilename = errors.New("xrotate: filename is required")

	// ErrInvalidMaxSize 单文件大小超出 1~10240 MB。
	ErrInvalidMaxSize = errors.New("xrotate: invalid max size")

	// ErrInvalidMaxBackups 备份数量超出 0~1024。
	ErrInvalidMaxBackups = errors.New("xrotate: invalid max backups")

	// ErrInvalidMaxAge 保留天数超出 0~3650。
	ErrInvalidMaxAge = errors.New("xrotate: invalid max age")

	// ErrNoCleanupPolicy 备份数量与保留天数同时为 0。
	ErrNoCleanupPolicy = errors.New("xrotate: no cleanup policy configured")
)

// ErrClosed 轮转器已关闭。
var ErrClosed = errors.New("xrotate: rotator is closed")
