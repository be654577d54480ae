package xdiag

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	defaultInstrumentationName = "github.com/omeyang/logkit/xdiag"

	metricSinkWrites    = "logkit.sink.writes"
	metricSinkDropped   = "logkit.sink.dropped"
	metricSinkRotations = "logkit.sink.rotations"
	metricSinkFailures  = "logkit.sink.failures"
)

// Stats 记录 sink 的运行计数
//
// 计数在日志写入主流程内同步更新，所有实现必须并发安全且不阻塞。
type Stats interface {
	// IncWritten 记录一次成功写入
	IncWritten(sink string)

	// IncDropped 记录一次消息丢弃（目标不可用或 sink 已关闭）
	IncDropped(sink string)

	// IncRotation 记录一次完成的轮转
	IncRotation(sink string)

	// IncFailure 记录一次进入抑制通道的故障
	IncFailure(sink string)
}

// NopStats 返回丢弃所有计数的 Stats 实现
func NopStats() Stats { return nopStats{} }

type nopStats struct{}

func (nopStats) IncWritten(string)  {}
func (nopStats) IncDropped(string)  {}
func (nopStats) IncRotation(string) {}
func (nopStats) IncFailure(string)  {}

type statsConfig struct {
	instrumentationName string
	meterProvider       metric.MeterProvider
}

// StatsOption 定义 OTel Stats 的配置选项。
type StatsOption func(*statsConfig)

// WithStatsInstrumentationName 设置 OTel instrumentation 名称。
func WithStatsInstrumentationName(name string) StatsOption {
	return func(cfg *statsConfig) {
		if name != "" {
			cfg.instrumentationName = name
		}
	}
}

// WithStatsMeterProvider 设置 MeterProvider。
func WithStatsMeterProvider(provider metric.MeterProvider) StatsOption {
	return func(cfg *statsConfig) {
		if provider != nil {
			cfg.meterProvider = provider
		}
	}
}

// NewOTelStats 创建基于 OpenTelemetry 的 Stats
//
// 未指定 MeterProvider 时使用 otel 全局 MeterProvider。
// 计数以 sink id 作为 "sink" 属性区分。
func NewOTelStats(opts ...StatsOption) (Stats, error) {
	cfg := &statsConfig{
		instrumentationName: defaultInstrumentationName,
		meterProvider:       otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}

	meter := cfg.meterProvider.Meter(cfg.instrumentationName)

	written, err := meter.Int64Counter(
		metricSinkWrites,
		metric.WithDescription("messages written to the sink"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("xdiag: create counter failed: %w", err)
	}

	dropped, err := meter.Int64Counter(
		metricSinkDropped,
		metric.WithDescription("messages dropped by the sink"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("xdiag: create counter failed: %w", err)
	}

	rotations, err := meter.Int64Counter(
		metricSinkRotations,
		metric.WithDescription("completed file rotations"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("xdiag: create counter failed: %w", err)
	}

	failures, err := meter.Int64Counter(
		metricSinkFailures,
		metric.WithDescription("sink failures entering the suppression channel"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("xdiag: create counter failed: %w", err)
	}

	return &otelStats{
		written:   written,
		dropped:   dropped,
		rotations: rotations,
		failures:  failures,
	}, nil
}

type otelStats struct {
	written   metric.Int64Counter
	dropped   metric.Int64Counter
	rotations metric.Int64Counter
	failures  metric.Int64Counter
}

func (s *otelStats) IncWritten(sink string)  { s.add(s.written, sink) }
func (s *otelStats) IncDropped(sink string)  { s.add(s.dropped, sink) }
func (s *otelStats) IncRotation(sink string) { s.add(s.rotations, sink) }
func (s *otelStats) IncFailure(sink string)  { s.add(s.failures, sink) }

func (s *otelStats) add(c metric.Int64Counter, sink string) {
	c.Add(context.Background(), 1, metric.WithAttributes(attribute.String("sink", sink)))
}
