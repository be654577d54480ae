package xsink

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/omeyang/logkit/pkg/observability/xdiag"
)

// Stream 面向任意 io.Writer 的输出端
//
// 每条消息保证以单个换行符结尾。写入失败时丢弃该条消息并继续服务，
// 同一故障期内只上报一次诊断，写入恢复成功后重新武装上报。
type Stream struct {
	Gate

	mu     sync.Mutex
	w      io.Writer
	failed bool
}

var _ Sink = (*Stream)(nil)

// NewStream 创建写入 w 的输出端
//
// id 为空时自动生成 "stream-" 前缀标识。w 为 nil 返回 [ErrNilWriter]。
func NewStream(id string, w io.Writer, opts ...Option) (*Stream, error) {
	if w == nil {
		return nil, ErrNilWriter
	}
	s := &Stream{w: w}
	s.Gate = NewGate("stream", id, s.writeLine, opts...)
	return s, nil
}

// NewConsole 创建写入标准错误流的输出端
//
// id 为空时自动生成 "console-" 前缀标识。诊断输出走独立通道，
// 与业务日志同写 stderr 也不会互相递归。
func NewConsole(id string, opts ...Option) *Stream {
	s := &Stream{w: os.Stderr}
	s.Gate = NewGate("console", id, s.writeLine, opts...)
	return s
}

func (s *Stream) writeLine(line string) {
	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.w.Write([]byte(line)); err != nil {
		// 设计决策: 故障期内只报一次，避免底层 Writer 持续不可用时
		// 以日志频率刷屏诊断通道。
		if !s.failed {
			s.failed = true
			s.Stats().IncFailure(s.ID())
			xdiag.Emit(s.Diagnostics(), xdiag.Diagnostic{
				Sink: s.ID(),
				Op:   xdiag.OpWrite,
				Err:  err,
			})
		}
		s.Stats().IncDropped(s.ID())
		return
	}
	s.failed = false
	s.Stats().IncWritten(s.ID())
}
