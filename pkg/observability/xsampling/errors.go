package xsampling

import "errors"

var (
	// ErrInvalidRate 采样比率不在 [0.0, 1.0] 范围内或为 NaN。
	ErrInvalidRate = errors.New("xsampling: rate must be in [0.0, 1.0]")

	// ErrInvalidCount 采样间隔小于 1。
	ErrInvalidCount = errors.New("xsampling: count n must be >= 1")

	// ErrNilSampler 组合中包含 nil 采样器。
	ErrNilSampler = errors.New("xsampling: sampler must not be nil")
)
