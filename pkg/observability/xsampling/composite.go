package xsampling

import "context"

type allSampler struct {
	samplers []Sampler
}

// All 返回所有子采样器都通过才采样的组合，空组合总是采样。
//
// 遇到 false 立即返回，后面的有状态采样器不会被求值。
func All(samplers ...Sampler) (ResettableSampler, error) {
	for _, s := range samplers {
		if s == nil {
			return nil, ErrNilSampler
		}
	}
	return &allSampler{samplers: append([]Sampler(nil), samplers...)}, nil
}

func (a *allSampler) ShouldSample(ctx context.Context) bool {
	for _, s := range a.samplers {
		if !s.ShouldSample(ctx) {
			return false
		}
	}
	return true
}

// Reset 重置所有可重置的子采样器。
func (a *allSampler) Reset() {
	for _, s := range a.samplers {
		if r, ok := s.(ResettableSampler); ok {
			r.Reset()
		}
	}
}
