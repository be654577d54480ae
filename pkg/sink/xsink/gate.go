package xsink

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/omeyang/logkit/pkg/core/xformat"
	"github.com/omeyang/logkit/pkg/core/xlevel"
	"github.com/omeyang/logkit/pkg/observability/xdiag"
)

// Gate 输出端通用接收骨架
//
// 封装 Log 的三段式流程：阈值过滤 → 渲染 → 写入回调。具体输出端
// 嵌入 Gate 并通过 [NewGate] 绑定写入回调；零值不可用。
// 所有字段在构造后不再变化，Log 可被任意 goroutine 并发调用，
// 写入的串行化由回调实现负责。
type Gate struct {
	id        string
	threshold xlevel.Level
	formatter xformat.Formatter
	diag      xdiag.Handler
	stats     xdiag.Stats
	write     func(line string)
}

// NewGate 创建接收骨架
//
// kind 是自动生成 id 的类型前缀（id 为空时生成 "kind-uuid"）；
// write 接收渲染后的行，由具体输出端负责串行化与错误上报。
func NewGate(kind, id string, write func(line string), opts ...Option) Gate {
	cfg := config{stats: xdiag.NopStats()}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if id == "" {
		id = kind + "-" + uuid.New().String()
	}

	return Gate{
		id:        id,
		threshold: cfg.threshold,
		formatter: cfg.formatter,
		diag:      cfg.diag,
		stats:     cfg.stats,
		write:     write,
	}
}

// ID 返回输出端标识
func (g *Gate) ID() string { return g.id }

// Threshold 返回输出端自身的级别阈值
func (g *Gate) Threshold() xlevel.Level { return g.threshold }

// Diagnostics 返回诊断处理器，nil 表示使用进程级默认处理器
func (g *Gate) Diagnostics() xdiag.Handler { return g.diag }

// Stats 返回运行计数器，永不为 nil
func (g *Gate) Stats() xdiag.Stats { return g.stats }

// Log 接收一条消息：低于阈值时空操作，否则渲染后交给写入回调
//
// 设计决策: 接收路径整体被 recover 包裹，兑现"Log 永不 panic"契约；
// 渲染或写入中的 panic 转为一条诊断，绝不中断业务主流程。
func (g *Gate) Log(msg string, level xlevel.Level, ctx Context) {
	if !g.threshold.Enables(level) {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			xdiag.Emit(g.diag, xdiag.Diagnostic{
				Sink: g.id,
				Op:   xdiag.OpWrite,
				Err:  fmt.Errorf("xsink: panic in log path: %v", r),
			})
		}
	}()

	line := msg
	if g.formatter != nil {
		ts := ctx.Time
		if ts.IsZero() {
			ts = time.Now()
		}
		line = g.formatter.Render(xformat.Record{
			Logger:  ctx.Logger,
			Level:   level,
			Time:    ts,
			Message: msg,
		})
	}
	g.write(line)
}
