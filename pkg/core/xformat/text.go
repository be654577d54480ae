package xformat

import (
	"fmt"
	"strings"
	"time"
)

// 文本布局默认值
const (
	// DefaultLayout 默认布局模板
	DefaultLayout = "%t [%l] %n: %m"

	// DefaultTimeFormat 默认时间戳格式（Go 参考时间布局）
	DefaultTimeFormat = "2006-01-02 15:04:05.000"
)

// textConfig 文本格式化器配置
type textConfig struct {
	layout     string
	timeFormat string
	utc        bool
}

// TextOption 文本格式化器配置选项函数
type TextOption func(*textConfig)

// WithLayout 设置布局模板
//
// 支持的占位符：%t 时间戳、%l 级别名称、%n 来源名、%m 消息、%% 字面百分号。
// 未知占位符和孤立的尾部 % 在构造时报 [ErrBadLayout]。
func WithLayout(layout string) TextOption {
	return func(c *textConfig) {
		c.layout = layout
	}
}

// WithTimeFormat 设置 %t 的时间戳格式（Go 参考时间布局）
func WithTimeFormat(format string) TextOption {
	return func(c *textConfig) {
		if format != "" {
			c.timeFormat = format
		}
	}
}

// WithUTC 设置时间戳是否转换为 UTC（默认使用本地时区）
func WithUTC(utc bool) TextOption {
	return func(c *textConfig) {
		c.utc = utc
	}
}

// segment 布局模板的一个片段：verb 为 0 时输出字面文本
type segment struct {
	literal string
	verb    byte
}

// Text 布局模板文本格式化器
//
// 模板在构造时解析一次，Render 按片段拼接，无状态且并发安全。
type Text struct {
	id         string
	segs       []segment
	timeFormat string
	utc        bool
}

var _ Formatter = (*Text)(nil)

// NewText 创建文本格式化器
//
// id 为空时自动生成；布局无效时返回 [ErrBadLayout]。
func NewText(id string, opts ...TextOption) (*Text, error) {
	cfg := textConfig{
		layout:     DefaultLayout,
		timeFormat: DefaultTimeFormat,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	segs, err := parseLayout(cfg.layout)
	if err != nil {
		return nil, err
	}

	return &Text{
		id:         newID("text", id),
		segs:       segs,
		timeFormat: cfg.timeFormat,
		utc:        cfg.utc,
	}, nil
}

// parseLayout 把布局模板解析为片段序列
func parseLayout(layout string) ([]segment, error) {
	var segs []segment
	var lit []byte

	flush := func() {
		if len(lit) > 0 {
			segs = append(segs, segment{literal: string(lit)})
			lit = lit[:0]
		}
	}

	for i := 0; i < len(layout); i++ {
		c := layout[i]
		if c != '%' {
			lit = append(lit, c)
			continue
		}
		if i+1 >= len(layout) {
			return nil, fmt.Errorf("%w: trailing %% in %q", ErrBadLayout, layout)
		}
		i++
		switch v := layout[i]; v {
		case '%':
			lit = append(lit, '%')
		case 't', 'l', 'n', 'm':
			flush()
			segs = append(segs, segment{verb: v})
		default:
			return nil, fmt.Errorf("%w: unknown placeholder %%%c in %q", ErrBadLayout, v, layout)
		}
	}
	flush()
	return segs, nil
}

// ID 返回格式化器标识
func (f *Text) ID() string { return f.id }

// Render 按布局模板渲染记录
func (f *Text) Render(r Record) string {
	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	if f.utc {
		ts = ts.UTC()
	}

	var b strings.Builder
	b.Grow(len(r.Message) + 48)
	for _, seg := range f.segs {
		if seg.verb == 0 {
			b.WriteString(seg.literal)
			continue
		}
		switch seg.verb {
		case 't':
			b.WriteString(ts.Format(f.timeFormat))
		case 'l':
			b.WriteString(r.Level.String())
		case 'n':
			b.WriteString(r.Logger)
		case 'm':
			b.WriteString(r.Message)
		}
	}
	return b.String()
}
