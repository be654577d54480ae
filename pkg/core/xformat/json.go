package xformat

import (
	"encoding/json"
	"time"
)

// jsonLine 单行 JSON 输出的固定字段集
//
// 设计决策: 字段集固定、不可由调用方扩展，保持"行内容恰好是 JSON 的
// 文本行"定位；任意键值的结构化编码不属于本层职责。
type jsonLine struct {
	TS     string `json:"ts"`
	Level  string `json:"level"`
	Logger string `json:"logger,omitempty"`
	Msg    string `json:"msg"`
}

// JSON 固定字段的单行 JSON 格式化器
//
// 时间戳使用 RFC3339Nano，来源名为空时省略 logger 字段。
// 无状态且并发安全。
type JSON struct {
	id  string
	utc bool
}

var _ Formatter = (*JSON)(nil)

// JSONOption JSON 格式化器配置选项函数
type JSONOption func(*JSON)

// WithJSONUTC 设置时间戳是否转换为 UTC（默认使用本地时区）
func WithJSONUTC(utc bool) JSONOption {
	return func(f *JSON) {
		f.utc = utc
	}
}

// NewJSON 创建 JSON 格式化器，id 为空时自动生成
func NewJSON(id string, opts ...JSONOption) *JSON {
	f := &JSON{id: newID("json", id)}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

// ID 返回格式化器标识
func (f *JSON) ID() string { return f.id }

// Render 渲染记录为单行 JSON
func (f *JSON) Render(r Record) string {
	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	if f.utc {
		ts = ts.UTC()
	}

	data, err := json.Marshal(jsonLine{
		TS:     ts.Format(time.RFC3339Nano),
		Level:  r.Level.String(),
		Logger: r.Logger,
		Msg:    r.Message,
	})
	if err != nil {
		// 渲染永不失败，序列化异常时退回原始消息
		return r.Message
	}
	return string(data)
}
