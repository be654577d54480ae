package xformat

import (
	"time"

	"github.com/google/uuid"

	"github.com/omeyang/logkit/pkg/core/xlevel"
)

// Record 一条待渲染的日志记录
type Record struct {
	// Logger 产生记录的逻辑来源名，可为空
	Logger string

	// Level 记录的严重程度
	Level xlevel.Level

	// Time 记录时间，零值时由格式化器补当前时间
	Time time.Time

	// Message 已物化的消息文本
	Message string
}

// Formatter 日志行格式化器
//
// Render 把记录渲染为单行文本（不含换行符）。渲染永不失败也不得
// panic：实现内部的异常应退回 r.Message。每条被接受的记录至多
// 渲染一次。
type Formatter interface {
	// ID 返回格式化器标识，配置通过它引用格式化器
	ID() string

	// Render 渲染记录为单行文本
	Render(r Record) string
}

// newID 返回格式化器 id，为空时生成 "kind-uuid" 形式的标识
func newID(kind, id string) string {
	if id != "" {
		return id
	}
	return kind + "-" + uuid.New().String()
}
