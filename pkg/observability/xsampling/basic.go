package xsampling

import (
	"context"
	"math"
	"math/rand/v2"
	"sync/atomic"
)

type constSampler bool

func (s constSampler) ShouldSample(context.Context) bool { return bool(s) }

// Always 返回全采样策略。
func Always() Sampler { return constSampler(true) }

// Never 返回不采样策略。
func Never() Sampler { return constSampler(false) }

// RateSampler 固定比率随机采样。
type RateSampler struct {
	rate float64
}

// NewRateSampler 创建比率为 rate 的采样器，rate 必须在 [0.0, 1.0] 内。
func NewRateSampler(rate float64) (*RateSampler, error) {
	if math.IsNaN(rate) || rate < 0 || rate > 1 {
		return nil, ErrInvalidRate
	}
	return &RateSampler{rate: rate}, nil
}

// ShouldSample 实现 [Sampler]。
func (s *RateSampler) ShouldSample(context.Context) bool {
	switch {
	case s.rate <= 0:
		return false
	case s.rate >= 1:
		return true
	default:
		return rand.Float64() < s.rate
	}
}

// Rate 返回采样比率。
func (s *RateSampler) Rate() float64 {
	return s.rate
}

// CountSampler 每 n 个事件采样 1 个。
type CountSampler struct {
	n       uint64
	counter atomic.Uint64
}

// NewCountSampler 创建间隔为 n 的计数采样器，n 必须 >= 1。
func NewCountSampler(n int) (*CountSampler, error) {
	if n < 1 {
		return nil, ErrInvalidCount
	}
	return &CountSampler{n: uint64(n)}, nil
}

// ShouldSample 实现 [Sampler]。零值按全采样处理。
func (s *CountSampler) ShouldSample(context.Context) bool {
	if s.n == 0 {
		return true
	}
	return (s.counter.Add(1)-1)%s.n == 0
}

// Reset 重置计数器。
func (s *CountSampler) Reset() {
	s.counter.Store(0)
}

// N 返回采样间隔。
func (s *CountSampler) N() int {
	return int(s.n)
}

var (
	_ Sampler           = constSampler(true)
	_ Sampler           = (*RateSampler)(nil)
	_ ResettableSampler = (*CountSampler)(nil)
)
