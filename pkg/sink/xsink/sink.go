package xsink

import (
	"time"

	"github.com/omeyang/logkit/pkg/core/xlevel"
)

// Context 一次日志分发的来源信息
type Context struct {
	// Logger 产生消息的逻辑来源名（router 名），可为空
	Logger string

	// Time 消息物化时间，由路由层统一打点；零值时由接收方补当前时间
	Time time.Time
}

// Sink 日志输出端
//
// 契约：
//   - level 低于 Threshold 时 Log 是空操作
//   - 接受的消息经格式化器渲染（未配置时透传原文）后写入目标
//   - Log 永不 panic，也不向调用方传播错误；目标故障经 xdiag 旁路
//     上报，同一故障期至多一条诊断
//
// 路由层会从任意 goroutine 调用 Log，实现必须并发安全。
type Sink interface {
	// ID 返回输出端标识，配置通过它引用输出端
	ID() string

	// Threshold 返回输出端自身的级别阈值
	Threshold() xlevel.Level

	// Log 接收一条已通过路由过滤的消息
	Log(msg string, level xlevel.Level, ctx Context)
}
