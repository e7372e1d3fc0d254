package xsampling

import "context"

// Sampler 采样策略。ShouldSample 返回 true 表示采样。
type Sampler interface {
	ShouldSample(ctx context.Context) bool
}

// ResettableSampler 可重置到初始状态的有状态采样器。
type ResettableSampler interface {
	Sampler
	Reset()
}
