package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync/atomic"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/omeyang/xevents/pkg/config/xconf"
	"github.com/omeyang/xevents/pkg/observability/xmetrics"
	"github.com/omeyang/xevents/pkg/observability/xsampling"
)

// spanCounter 统计结束的 tick 跨度数量。
type spanCounter struct {
	ended atomic.Int64
}

func (c *spanCounter) OnStart(context.Context, sdktrace.ReadWriteSpan) {}
func (c *spanCounter) OnEnd(sdktrace.ReadOnlySpan) { c.ended.Add(1) }
func (c *spanCounter) Shutdown(context.Context) error { return nil }
func (c *spanCounter) ForceFlush(context.Context) error { return nil }

// meterSink 进程内的 OTel 指标汇总，退出时输出各指标的累计值。
type meterSink struct {
	reader   *sdkmetric.ManualReader
	meters   *sdkmetric.MeterProvider
	traces   *sdktrace.TracerProvider
	spans    *spanCounter
	settings xconf.MetricsSettings
}

func newMeterSink(settings xconf.MetricsSettings) *meterSink {
	reader := sdkmetric.NewManualReader()
	spans := &spanCounter{}
	return &meterSink{
		reader:   reader,
		meters:   sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)),
		traces:   sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans)),
		spans:    spans,
		settings: settings,
	}
}

// observer 返回把 tick 记录到本 sink 的观测器，跨度按 tickSampler 采样。
func (m *meterSink) observer() (xmetrics.Observer, error) {
	sampler, err := tickSampler(m.settings)
	if err != nil {
		return nil, err
	}
	return xmetrics.NewOTelObserver(
		xmetrics.WithInstrumentationName("xeventsctl"),
		xmetrics.WithMeterProvider(m.meters),
		xmetrics.WithTracerProvider(m.traces),
		xmetrics.WithSampler(sampler),
	)
}

// tickSampler 组合 sample_every 与 sample_rate：
// 先每 n 个 tick 取一个，再按比率随机保留。比率为 0 时不建立跨度。
func tickSampler(s xconf.MetricsSettings) (xsampling.Sampler, error) {
	if s.SampleRate == 0 {
		return xsampling.Never(), nil
	}
	var samplers []xsampling.Sampler
	if s.SampleEvery > 1 {
		count, err := xsampling.NewCountSampler(s.SampleEvery)
		if err != nil {
			return nil, err
		}
		samplers = append(samplers, count)
	}
	if s.SampleRate < 1 {
		rate, err := xsampling.NewRateSampler(s.SampleRate)
		if err != nil {
			return nil, err
		}
		samplers = append(samplers, rate)
	}
	if len(samplers) == 0 {
		return xsampling.Always(), nil
	}
	return xsampling.All(samplers...)
}

// report 采集一次并按 "名称{属性} 值" 的格式逐行输出，行按字典序排列。
func (m *meterSink) report(ctx context.Context, w io.Writer) error {
	var rm metricdata.ResourceMetrics
	if err := m.reader.Collect(ctx, &rm); err != nil {
		return fmt.Errorf("collect metrics: %w", err)
	}

	var lines []string
	for _, sm := range rm.ScopeMetrics {
		for _, metric := range sm.Metrics {
			switch data := metric.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					lines = append(lines, fmt.Sprintf("%s%s %d",
						metric.Name, formatAttrs(dp.Attributes.ToSlice()), dp.Value))
				}
			case metricdata.Histogram[float64]:
				for _, dp := range data.DataPoints {
					lines = append(lines, fmt.Sprintf("%s%s count=%d sum=%.6f",
						metric.Name, formatAttrs(dp.Attributes.ToSlice()), dp.Count, dp.Sum))
				}
			}
		}
	}
	lines = append(lines, fmt.Sprintf("xevents.tick.spans %d", m.spans.ended.Load()))
	slices.Sort(lines)

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// shutdown 关闭 provider。
func (m *meterSink) shutdown(ctx context.Context) error {
	return errors.Join(m.meters.Shutdown(ctx), m.traces.Shutdown(ctx))
}

// formatAttrs 输出 {k1=v1,k2=v2}，属性集已按 key 排序。
func formatAttrs(kvs []attribute.KeyValue) string {
	if len(kvs) == 0 {
		return ""
	}
	parts := make([]string, len(kvs))
	for i, kv := range kvs {
		parts[i] = string(kv.Key) + "=" + kv.Value.Emit()
	}
	return "{" + strings.Join(parts, ",") + "}"
}
