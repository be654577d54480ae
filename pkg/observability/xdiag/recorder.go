package xdiag

import (
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// maxRecorderSize Recorder 容量上限
const maxRecorderSize = 1 << 20

// Recorder 按 sink 保留最近一次诊断的有界记录器
//
// 容量满时按 LRU 淘汰最久未更新的 sink 记录，可选 TTL 让陈旧记录
// 自动过期。必须通过 [NewRecorder] 创建；所有方法并发安全。
type Recorder struct {
	lru *expirable.LRU[string, Diagnostic]
}

// NewRecorder 创建诊断记录器
//
// size 是保留记录的 sink 数上限；ttl 为 0 表示记录永不过期。
func NewRecorder(size int, ttl time.Duration) (*Recorder, error) {
	if size <= 0 || size > maxRecorderSize {
		return nil, fmt.Errorf("%w: got %d, want 1~%d", ErrInvalidSize, size, maxRecorderSize)
	}
	if ttl < 0 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidTTL, ttl)
	}
	return &Recorder{
		lru: expirable.NewLRU[string, Diagnostic](size, nil, ttl),
	}, nil
}

// Handler 返回将诊断写入记录器的处理器
//
// next 非 nil 时在记录后继续传递，便于与输出型处理器串联：
//
//	xdiag.SetDefault(rec.Handler(xdiag.Default()))
func (r *Recorder) Handler(next Handler) Handler {
	return func(d Diagnostic) {
		r.lru.Add(d.Sink, d)
		if next != nil {
			next(d)
		}
	}
}

// Last 返回 sink 最近一次诊断
//
// 无记录、已过期或已被淘汰时返回零值和 false。
func (r *Recorder) Last(sink string) (Diagnostic, bool) {
	return r.lru.Get(sink)
}

// Sinks 返回当前持有诊断记录的 sink id，从最旧到最新排列
func (r *Recorder) Sinks() []string {
	return r.lru.Keys()
}

// Len 返回当前记录条数
func (r *Recorder) Len() int {
	return r.lru.Len()
}
