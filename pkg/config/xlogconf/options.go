package xlogconf

import (
	"github.com/omeyang/logkit/pkg/observability/xdiag"
	"github.com/omeyang/logkit/pkg/routing/xrouter"
)

// config 装配配置。
type config struct {
	registry *xrouter.Registry
	diag     xdiag.Handler
	stats    xdiag.Stats
}

// Option 装配选项。
type Option func(*config)

func defaultConfig() *config {
	return &config{}
}

// WithRegistry 把 loggers 声明套用到指定注册表。
// 路由按名从注册表取用（不存在则创建），已有引用因此随重载生效。
// 缺省时每次装配创建独立的路由实例。
func WithRegistry(reg *xrouter.Registry) Option {
	return func(c *config) {
		if reg != nil {
			c.registry = reg
		}
	}
}

// WithDiagnostics 为装配出的每个输出端设置故障诊断回调。
func WithDiagnostics(h xdiag.Handler) Option {
	return func(c *config) {
		if h != nil {
			c.diag = h
		}
	}
}

// WithStats 为装配出的每个输出端设置计数器。
func WithStats(s xdiag.Stats) Option {
	return func(c *config) {
		if s != nil {
			c.stats = s
		}
	}
}
