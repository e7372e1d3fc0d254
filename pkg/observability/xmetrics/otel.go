package xmetrics

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/omeyang/xevents/pkg/observability/xsampling"
)

const (
	defaultInstrumentationName = "github.com/omeyang/xevents/xmetrics"
	unknownEngine              = "unknown"
	tickSpanName               = "xevents.tick"

	metricTickTotal    = "xevents.tick.total"
	metricHookTotal    = "xevents.hook.total"
	metricHookDuration = "xevents.hook.duration"
)

type otelConfig struct {
	instrumentationName string
	tracerProvider      trace.TracerProvider
	meterProvider       metric.MeterProvider
	sampler             xsampling.Sampler
}

// Option 定义 OTel Observer 的配置选项。
type Option func(*otelConfig)

// WithInstrumentationName 设置 OTel instrumentation 名称。
func WithInstrumentationName(name string) Option {
	return func(cfg *otelConfig) {
		if name != "" {
			cfg.instrumentationName = name
		}
	}
}

// WithTracerProvider 设置 TracerProvider。
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(cfg *otelConfig) {
		if provider != nil {
			cfg.tracerProvider = provider
		}
	}
}

// WithSampler 设置 tick 跨度的采样策略。
//
// 未被采样的 tick 使用不记录的跨度，tick 与钩子指标照常记录。默认全采样。
func WithSampler(sampler xsampling.Sampler) Option {
	return func(cfg *otelConfig) {
		cfg.sampler = sampler
	}
}

// WithMeterProvider 设置 MeterProvider。
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(cfg *otelConfig) {
		if provider != nil {
			cfg.meterProvider = provider
		}
	}
}

// NewOTelObserver 创建基于 OpenTelemetry 的 Observer。
// 未指定 provider 时使用 otel 全局 provider。
func NewOTelObserver(opts ...Option) (Observer, error) {
	cfg := &otelConfig{
		instrumentationName: defaultInstrumentationName,
		tracerProvider:      otel.GetTracerProvider(),
		meterProvider:       otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}

	tracer := cfg.tracerProvider.Tracer(cfg.instrumentationName)
	meter := cfg.meterProvider.Meter(cfg.instrumentationName)

	ticks, err := meter.Int64Counter(
		metricTickTotal,
		metric.WithDescription("total engine ticks"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCreateCounter, err)
	}

	hooks, err := meter.Int64Counter(
		metricHookTotal,
		metric.WithDescription("total hook events"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCreateCounter, err)
	}

	duration, err := meter.Float64Histogram(
		metricHookDuration,
		metric.WithDescription("hook callback duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCreateHistogram, err)
	}

	return &otelObserver{
		tracer:    tracer,
		unsampled: noop.NewTracerProvider().Tracer(cfg.instrumentationName),
		sampler:   cfg.sampler,
		ticks:     ticks,
		hooks:     hooks,
		duration:  duration,
	}, nil
}

type otelObserver struct {
	tracer    trace.Tracer
	unsampled trace.Tracer
	sampler   xsampling.Sampler
	ticks     metric.Int64Counter
	hooks     metric.Int64Counter
	duration  metric.Float64Histogram
}

// StartTick 开始一次 tick 跨度。
func (o *otelObserver) StartTick(ctx context.Context, opts TickOptions) (context.Context, TickSpan) {
	if ctx == nil {
		ctx = context.Background()
	}

	engine := opts.Engine
	if engine == "" {
		engine = unknownEngine
	}

	attrs := make([]attribute.KeyValue, 0, 2+len(opts.Attrs))
	attrs = append(attrs,
		attribute.String("engine", engine),
		toKeyValue(Uint64("now_ms", opts.Now)),
	)
	attrs = append(attrs, attrsToOTel(opts.Attrs)...)

	tracer := o.tracer
	if o.sampler != nil && !o.sampler.ShouldSample(ctx) {
		tracer = o.unsampled
	}
	ctx, span := tracer.Start(
		ctx,
		tickSpanName,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)

	return ctx, &otelTickSpan{
		span:     span,
		observer: o,
		ctx:      ctx,
		engine:   engine,
	}
}

type otelTickSpan struct {
	span     trace.Span
	observer *otelObserver
	ctx      context.Context
	engine   string
	events   int
	endOnce  sync.Once // 保证 End 幂等，多次调用只记录一次 tick
}

// Record 记录一次钩子事件。
func (s *otelTickSpan) Record(event Event, id int, elapsed time.Duration) {
	if s == nil {
		return
	}
	s.events++

	// 使用不可取消的 context 记录指标，tick 之外的取消不影响计数。
	metricsCtx := context.WithoutCancel(s.ctx)
	attrs := metric.WithAttributes(
		attribute.String("engine", s.engine),
		attribute.String("event", string(event)),
	)
	s.observer.hooks.Add(metricsCtx, 1, attrs)
	if event != EventTrigger {
		s.observer.duration.Record(metricsCtx, elapsed.Seconds(), attrs)
	}

	if s.span.IsRecording() {
		s.span.AddEvent(string(event), trace.WithAttributes(attribute.Int("id", id)))
	}
}

// End 结束 tick 跨度。
//
// End 是幂等的，多次调用只会记录一次 tick。
func (s *otelTickSpan) End() {
	if s == nil {
		return
	}
	s.endOnce.Do(func() {
		s.span.SetAttributes(attribute.Int("hook_events", s.events))
		s.span.End()
		s.observer.ticks.Add(context.WithoutCancel(s.ctx), 1,
			metric.WithAttributes(attribute.String("engine", s.engine)))
	})
}

func attrsToOTel(attrs []Attr) []attribute.KeyValue {
	if len(attrs) == 0 {
		return nil
	}
	converted := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if attr.Key == "" || attr.Value == nil {
			continue
		}
		converted = append(converted, toKeyValue(attr))
	}
	return converted
}

func toKeyValue(attr Attr) attribute.KeyValue {
	switch v := attr.Value.(type) {
	case string:
		return attribute.String(attr.Key, v)
	case bool:
		return attribute.Bool(attr.Key, v)
	case int:
		return attribute.Int(attr.Key, v)
	case int64:
		return attribute.Int64(attr.Key, v)
	case uint64:
		if v <= math.MaxInt64 {
			return attribute.Int64(attr.Key, int64(v))
		}
		return attribute.String(attr.Key, fmt.Sprint(v))
	case float64:
		return attribute.Float64(attr.Key, v)
	case time.Duration:
		return attribute.Int64(attr.Key, v.Nanoseconds())
	default:
		return attribute.String(attr.Key, fmt.Sprint(v))
	}
}
