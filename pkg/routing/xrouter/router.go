package xrouter

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/omeyang/logkit/pkg/core/xlevel"
	"github.com/omeyang/logkit/pkg/sink/xsink"
)

// 重配置消费的配置键
const (
	// KeyLevel 路由阈值，取值为级别名（如 "Warning"）
	KeyLevel = "Level"

	// KeyAppenderIds 输出端标识列表（有序）
	KeyAppenderIds = "AppenderIds"
)

// DefaultThreshold 新建路由的默认阈值
//
// 取 Warning 而非 Debug：未经配置的路由保持安静，只放行告警及以上。
const DefaultThreshold = xlevel.Warning

// Router 日志路由
//
// name 构造后不可变；阈值与输出端列表可通过 SetThreshold、SetSinks
// 或 [Router.Reconfigure] 替换。日志提交路径永不修改二者。
type Router struct {
	name      string
	threshold atomic.Int32
	sinks     atomic.Pointer[[]xsink.Sink]
}

// config 路由构造配置
type config struct {
	threshold xlevel.Level
	sinks     []xsink.Sink
}

// Option 路由配置选项函数
type Option func(*config)

// WithThreshold 设置初始阈值（默认 [DefaultThreshold]）
func WithThreshold(level xlevel.Level) Option {
	return func(c *config) {
		c.threshold = level
	}
}

// WithSinks 设置初始输出端列表（按分发顺序）
func WithSinks(sinks ...xsink.Sink) Option {
	return func(c *config) {
		c.sinks = sinks
	}
}

// New 创建路由
//
// name 可为空（匿名路由），作为消息来源名透传给输出端。
func New(name string, opts ...Option) *Router {
	cfg := config{threshold: DefaultThreshold}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	r := &Router{name: name}
	r.threshold.Store(int32(cfg.threshold))
	r.SetSinks(cfg.sinks...)
	return r
}

// Name 返回路由名
func (r *Router) Name() string { return r.name }

// Threshold 返回当前阈值
func (r *Router) Threshold() xlevel.Level {
	return xlevel.Level(r.threshold.Load())
}

// SetThreshold 替换阈值
func (r *Router) SetThreshold(level xlevel.Level) {
	r.threshold.Store(int32(level))
}

// Sinks 返回当前输出端列表的副本
func (r *Router) Sinks() []xsink.Sink {
	snapshot := r.snapshot()
	out := make([]xsink.Sink, len(snapshot))
	copy(out, snapshot)
	return out
}

// SetSinks 整体替换输出端列表，nil 元素被忽略
func (r *Router) SetSinks(sinks ...xsink.Sink) {
	snapshot := make([]xsink.Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			snapshot = append(snapshot, s)
		}
	}
	r.sinks.Store(&snapshot)
}

// snapshot 返回当前输出端列表快照（调用方不得修改）
func (r *Router) snapshot() []xsink.Sink {
	if p := r.sinks.Load(); p != nil {
		return *p
	}
	return nil
}

// Submit 提交一条消息
//
// 消息级别达到路由阈值且至少一个输出端会接受时，按挂载顺序分发给
// 全部输出端（各输出端再按自身阈值二次过滤）；否则整次调用空操作。
// 永不返回错误、永不 panic。
func (r *Router) Submit(level xlevel.Level, msg string) {
	sinks := r.snapshot()
	if !r.shouldEmit(level, sinks) {
		return
	}
	r.dispatch(level, msg, sinks)
}

// SubmitLazy 提交一条延迟构造的消息
//
// 放行判定不通过时 produce 永远不会被调用；放行时恰好求值一次，
// 结果分发给全部输出端。
func (r *Router) SubmitLazy(level xlevel.Level, produce func() string) {
	sinks := r.snapshot()
	if !r.shouldEmit(level, sinks) {
		return
	}
	if produce == nil {
		return
	}
	r.dispatch(level, produce(), sinks)
}

// shouldEmit 两段式放行判定：级别达到路由阈值，且存在会接受的输出端
func (r *Router) shouldEmit(level xlevel.Level, sinks []xsink.Sink) bool {
	if !r.Threshold().Enables(level) {
		return false
	}
	for _, s := range sinks {
		if s.Threshold().Enables(level) {
			return true
		}
	}
	return false
}

// dispatch 统一打点提交时间后按顺序分发
func (r *Router) dispatch(level xlevel.Level, msg string, sinks []xsink.Sink) {
	ctx := xsink.Context{Logger: r.name, Time: time.Now()}
	for _, s := range sinks {
		s.Log(msg, level, ctx)
	}
}

// =============================================================================
// 分级便捷方法
// =============================================================================

// Debug 以 Debug 级别提交消息
func (r *Router) Debug(msg string) { r.Submit(xlevel.Debug, msg) }

// Info 以 Info 级别提交消息
func (r *Router) Info(msg string) { r.Submit(xlevel.Info, msg) }

// Warning 以 Warning 级别提交消息
func (r *Router) Warning(msg string) { r.Submit(xlevel.Warning, msg) }

// Error 以 Error 级别提交消息
func (r *Router) Error(msg string) { r.Submit(xlevel.Error, msg) }

// Fatal 以 Fatal 级别提交消息（仅级别语义，不终止进程）
func (r *Router) Fatal(msg string) { r.Submit(xlevel.Fatal, msg) }

// DebugLazy 以 Debug 级别提交延迟构造的消息
func (r *Router) DebugLazy(produce func() string) { r.SubmitLazy(xlevel.Debug, produce) }

// InfoLazy 以 Info 级别提交延迟构造的消息
func (r *Router) InfoLazy(produce func() string) { r.SubmitLazy(xlevel.Info, produce) }

// WarningLazy 以 Warning 级别提交延迟构造的消息
func (r *Router) WarningLazy(produce func() string) { r.SubmitLazy(xlevel.Warning, produce) }

// ErrorLazy 以 Error 级别提交延迟构造的消息
func (r *Router) ErrorLazy(produce func() string) { r.SubmitLazy(xlevel.Error, produce) }

// FatalLazy 以 Fatal 级别提交延迟构造的消息
func (r *Router) FatalLazy(produce func() string) { r.SubmitLazy(xlevel.Fatal, produce) }

// =============================================================================
// 重配置
// =============================================================================

// Reconfigure 以松散类型的键值配置更新路由
//
// 键语义：
//   - Level: 级别名；缺失保持阈值不变，存在但不可解析返回
//     [ErrInvalidParameter]
//   - AppenderIds: 有序的输出端标识列表；先清空现有列表再逐个解析，
//     任何标识无法解析立即返回 [ErrInvalidParameter]，此时路由挂
//     零个输出端
//
// 设计决策: 解析失败后不回滚旧输出端列表。半配置状态下宁可静默丢
// 日志，也不向可能已被新配置淘汰的旧目标继续写入；错误同步返回给
// 重配置调用方处置。
func (r *Router) Reconfigure(settings map[string]any, available map[string]xsink.Sink) error {
	if raw, ok := settings[KeyLevel]; ok {
		if err := r.applyLevel(raw); err != nil {
			return err
		}
	}
	if raw, ok := settings[KeyAppenderIds]; ok {
		if err := r.applySinks(raw, available); err != nil {
			return err
		}
	}
	return nil
}

func (r *Router) applyLevel(raw any) error {
	name, ok := raw.(string)
	if !ok {
		return fmt.Errorf("%w: %s: expected string, got %T", ErrInvalidParameter, KeyLevel, raw)
	}
	level, err := xlevel.Parse(name)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidParameter, KeyLevel, err)
	}
	r.SetThreshold(level)
	return nil
}

func (r *Router) applySinks(raw any, available map[string]xsink.Sink) error {
	// 先清空：解析失败时路由必须停在零输出端状态
	r.SetSinks()

	ids, err := stringSlice(raw)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidParameter, KeyAppenderIds, err)
	}

	resolved := make([]xsink.Sink, 0, len(ids))
	for _, id := range ids {
		s, ok := available[id]
		if !ok || s == nil {
			return fmt.Errorf("%w: %s: unknown sink %q", ErrInvalidParameter, KeyAppenderIds, id)
		}
		resolved = append(resolved, s)
	}
	r.sinks.Store(&resolved)
	return nil
}

// stringSlice 将松散类型的列表转为字符串切片
func stringSlice(raw any) ([]string, error) {
	switch v := raw.(type) {
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected string element, got %T", item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected list, got %T", raw)
	}
}
