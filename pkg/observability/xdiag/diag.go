package xdiag

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"
)

// 诊断事件的操作名
const (
	// OpOpen 打开或创建目标文件失败
	OpOpen = "open"

	// OpWrite 写入目标失败
	OpWrite = "write"

	// OpRotate 轮转（重命名链、删除超限备份）失败
	OpRotate = "rotate"

	// OpClose 关闭目标失败
	OpClose = "close"

	// OpReload 配置重载失败
	OpReload = "reload"
)

// Diagnostic 一次日志设施内部故障的诊断事件
type Diagnostic struct {
	// Sink 产生诊断的 sink id（配置重载等非 sink 来源可为空）
	Sink string

	// Path 故障涉及的目标路径，非文件类来源为空
	Path string

	// Op 失败的操作，见 Op* 常量
	Op string

	// Err 底层错误
	Err error

	// Time 事件时间，Emit 会为零值补当前时间
	Time time.Time
}

// Handler 诊断处理器
//
// 不得向产生诊断的 sink 写入数据，否则会形成递归写入。
// 实现应快速返回，耗时处理应转发到外部 channel 异步完成。
type Handler func(Diagnostic)

// defaultHandler 进程级默认处理器，nil 表示使用标准错误输出
var defaultHandler atomic.Pointer[Handler]

// SetDefault 设置进程级默认诊断处理器
//
// 传入 nil 恢复为标准错误输出。并发安全，替换对后续 Emit 立即生效。
func SetDefault(h Handler) {
	if h == nil {
		defaultHandler.Store(nil)
		return
	}
	defaultHandler.Store(&h)
}

// Default 返回当前进程级默认诊断处理器
func Default() Handler {
	if p := defaultHandler.Load(); p != nil {
		return *p
	}
	return func(d Diagnostic) { writeDiagnostic(os.Stderr, d) }
}

// NewWriterHandler 返回将诊断逐行写入 w 的处理器
//
// w 必须与任何由本设施管理的 sink 目标不同，否则违反递归约束。
func NewWriterHandler(w io.Writer) Handler {
	return func(d Diagnostic) { writeDiagnostic(w, d) }
}

// writeDiagnostic 以单行文本输出诊断事件
func writeDiagnostic(w io.Writer, d Diagnostic) {
	ts := d.Time.Format(time.RFC3339)
	if d.Path != "" {
		fmt.Fprintf(w, "logkit: %s sink %q %s failed: %v (path=%s)\n", ts, d.Sink, d.Op, d.Err, d.Path)
		return
	}
	fmt.Fprintf(w, "logkit: %s sink %q %s failed: %v\n", ts, d.Sink, d.Op, d.Err)
}

// Emit 将诊断分发给处理器 h，h 为 nil 时使用进程级默认处理器
//
// 零值 Time 会被补为当前时间。
//
// 设计决策: 处理器 panic 被 recover 隔离，防止诊断通道故障反向中断
// 日志写入主流程；诊断永不回写产生它的 sink。
func Emit(h Handler, d Diagnostic) {
	if h == nil {
		h = Default()
	}
	if d.Time.IsZero() {
		d.Time = time.Now()
	}
	defer func() { recover() }() //nolint:errcheck // recover 返回值无需检查
	h(d)
}
