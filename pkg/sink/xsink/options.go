package xsink

import (
	"github.com/omeyang/logkit/pkg/core/xformat"
	"github.com/omeyang/logkit/pkg/core/xlevel"
	"github.com/omeyang/logkit/pkg/observability/xdiag"
)

// config 接收骨架配置
type config struct {
	threshold xlevel.Level
	formatter xformat.Formatter
	diag      xdiag.Handler
	stats     xdiag.Stats
}

// Option 输出端通用配置选项函数
type Option func(*config)

// WithThreshold 设置输出端自身的级别阈值
//
// 默认 Debug，即接受路由层放行的全部级别。
func WithThreshold(level xlevel.Level) Option {
	return func(c *config) {
		c.threshold = level
	}
}

// WithFormatter 设置格式化器
//
// 默认不渲染，原始消息直接透传到写入回调。
func WithFormatter(f xformat.Formatter) Option {
	return func(c *config) {
		c.formatter = f
	}
}

// WithDiagnostics 设置诊断处理器（默认使用 xdiag 进程级默认处理器）
//
// 设计决策: 不使用日志库记录输出端内部错误，避免输出端作为日志目标
// 时产生递归写入。处理器不得向本输出端写入数据。
func WithDiagnostics(h xdiag.Handler) Option {
	return func(c *config) {
		c.diag = h
	}
}

// WithStats 设置运行计数器（默认丢弃所有计数）
func WithStats(s xdiag.Stats) Option {
	return func(c *config) {
		if s != nil {
			c.stats = s
		}
	}
}
