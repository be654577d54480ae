package xsink

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/logkit/pkg/core/xformat"
	"github.com/omeyang/logkit/pkg/core/xlevel"
	"github.com/omeyang/logkit/pkg/observability/xdiag"
)

// ============================================================================
// 测试辅助
// ============================================================================

// diagCapture 收集诊断事件，替代进程级默认处理器
type diagCapture struct {
	mu  sync.Mutex
	got []xdiag.Diagnostic
}

func (c *diagCapture) handler() xdiag.Handler {
	return func(d xdiag.Diagnostic) {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.got = append(c.got, d)
	}
}

func (c *diagCapture) list() []xdiag.Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]xdiag.Diagnostic, len(c.got))
	copy(out, c.got)
	return out
}

// countingStats 按输出端累计各类事件次数
type countingStats struct {
	mu       sync.Mutex
	written  map[string]int
	dropped  map[string]int
	rotation map[string]int
	failure  map[string]int
}

func newCountingStats() *countingStats {
	return &countingStats{
		written:  make(map[string]int),
		dropped:  make(map[string]int),
		rotation: make(map[string]int),
		failure:  make(map[string]int),
	}
}

func (s *countingStats) IncWritten(sink string)  { s.inc(s.written, sink) }
func (s *countingStats) IncDropped(sink string)  { s.inc(s.dropped, sink) }
func (s *countingStats) IncRotation(sink string) { s.inc(s.rotation, sink) }
func (s *countingStats) IncFailure(sink string)  { s.inc(s.failure, sink) }

func (s *countingStats) inc(m map[string]int, sink string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m[sink]++
}

func (s *countingStats) snapshot(sink string) (written, dropped, failure int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.written[sink], s.dropped[sink], s.failure[sink]
}

// flakyWriter 前 failures 次写入返回错误，之后正常写入
type flakyWriter struct {
	mu       sync.Mutex
	failures int
	buf      bytes.Buffer
}

func (w *flakyWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.failures > 0 {
		w.failures--
		return 0, errors.New("pipe burst")
	}
	return w.buf.Write(p)
}

func (w *flakyWriter) arm(n int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.failures = n
}

func (w *flakyWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.String()
}

// recordingFormatter 记录最近一次渲染的记录，原样返回消息
type recordingFormatter struct {
	mu   sync.Mutex
	last xformat.Record
}

func (f *recordingFormatter) ID() string { return "recording" }

func (f *recordingFormatter) Render(r xformat.Record) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.last = r
	return r.Message
}

func (f *recordingFormatter) lastRecord() xformat.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

// panicFormatter 渲染即 panic，用于验证接收路径的隔离
type panicFormatter struct{}

func (panicFormatter) ID() string { return "panic" }

func (panicFormatter) Render(xformat.Record) string { panic("render exploded") }

// ============================================================================
// 构造
// ============================================================================

func TestNewStream(t *testing.T) {
	t.Run("显式标识原样保留", func(t *testing.T) {
		s, err := NewStream("audit", &bytes.Buffer{})
		require.NoError(t, err)
		assert.Equal(t, "audit", s.ID())
	})

	t.Run("空标识自动生成stream前缀", func(t *testing.T) {
		s, err := NewStream("", &bytes.Buffer{})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(s.ID(), "stream-"), "id=%q", s.ID())
	})

	t.Run("nil写入器拒绝", func(t *testing.T) {
		s, err := NewStream("x", nil)
		require.ErrorIs(t, err, ErrNilWriter)
		assert.Nil(t, s)
	})

	t.Run("默认阈值为Debug", func(t *testing.T) {
		s, err := NewStream("x", &bytes.Buffer{})
		require.NoError(t, err)
		assert.Equal(t, xlevel.Debug, s.Threshold())
	})

	t.Run("nil选项被忽略", func(t *testing.T) {
		s, err := NewStream("x", &bytes.Buffer{}, nil, WithThreshold(xlevel.Error))
		require.NoError(t, err)
		assert.Equal(t, xlevel.Error, s.Threshold())
	})
}

func TestNewConsole(t *testing.T) {
	t.Run("空标识自动生成console前缀", func(t *testing.T) {
		s := NewConsole("", WithThreshold(xlevel.Fatal))
		assert.True(t, strings.HasPrefix(s.ID(), "console-"), "id=%q", s.ID())
	})

	t.Run("显式标识与阈值", func(t *testing.T) {
		s := NewConsole("stderr", WithThreshold(xlevel.Warning))
		assert.Equal(t, "stderr", s.ID())
		assert.Equal(t, xlevel.Warning, s.Threshold())
	})
}

// ============================================================================
// 接收与过滤
// ============================================================================

func TestStreamThresholdFilter(t *testing.T) {
	var buf bytes.Buffer
	s, err := NewStream("x", &buf, WithThreshold(xlevel.Warning))
	require.NoError(t, err)

	s.Log("too quiet", xlevel.Info, Context{})
	assert.Empty(t, buf.String(), "低于阈值的消息不应产生任何输出")

	s.Log("loud enough", xlevel.Warning, Context{})
	s.Log("louder", xlevel.Error, Context{})
	assert.Equal(t, "loud enough\nlouder\n", buf.String())
}

func TestStreamRawPassthrough(t *testing.T) {
	var buf bytes.Buffer
	s, err := NewStream("x", &buf)
	require.NoError(t, err)

	// 未配置格式化器时消息原样落盘，仅补齐行尾换行
	s.Log("plain message", xlevel.Info, Context{Logger: "ignored"})
	assert.Equal(t, "plain message\n", buf.String())
}

func TestStreamNewlineNormalization(t *testing.T) {
	var buf bytes.Buffer
	s, err := NewStream("x", &buf)
	require.NoError(t, err)

	s.Log("with newline\n", xlevel.Info, Context{})
	s.Log("without newline", xlevel.Info, Context{})

	assert.Equal(t, "with newline\nwithout newline\n", buf.String(),
		"自带换行不应翻倍，缺失换行应补齐")
}

func TestStreamFormatterRendering(t *testing.T) {
	var buf bytes.Buffer
	f, err := xformat.NewText("text")
	require.NoError(t, err)

	s, err := NewStream("x", &buf, WithFormatter(f))
	require.NoError(t, err)

	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.Log("hello", xlevel.Warning, Context{Logger: "app", Time: ts})

	assert.Equal(t, "2024-05-01 12:00:00.000 [Warning] app: hello\n", buf.String())
}

func TestStreamContextPropagation(t *testing.T) {
	f := &recordingFormatter{}
	s, err := NewStream("x", &bytes.Buffer{}, WithFormatter(f))
	require.NoError(t, err)

	t.Run("上下文字段透传", func(t *testing.T) {
		ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		s.Log("msg", xlevel.Error, Context{Logger: "core.db", Time: ts})

		rec := f.lastRecord()
		assert.Equal(t, "core.db", rec.Logger)
		assert.Equal(t, xlevel.Error, rec.Level)
		assert.Equal(t, ts, rec.Time)
		assert.Equal(t, "msg", rec.Message)
	})

	t.Run("零值时间戳由接收时刻补齐", func(t *testing.T) {
		before := time.Now()
		s.Log("msg", xlevel.Error, Context{Logger: "core.db"})
		after := time.Now()

		rec := f.lastRecord()
		assert.False(t, rec.Time.IsZero())
		assert.False(t, rec.Time.Before(before))
		assert.False(t, rec.Time.After(after))
	})
}

// ============================================================================
// 故障抑制
// ============================================================================

func TestStreamFailureSuppression(t *testing.T) {
	w := &flakyWriter{}
	capture := &diagCapture{}
	stats := newCountingStats()

	s, err := NewStream("shaky", w,
		WithDiagnostics(capture.handler()),
		WithStats(stats),
	)
	require.NoError(t, err)

	// 第一段故障期：连续两次失败只产生一条诊断
	w.arm(2)
	s.Log("a", xlevel.Info, Context{})
	s.Log("b", xlevel.Info, Context{})
	require.Len(t, capture.list(), 1, "同一故障期内重复失败不应重复上报")

	// 恢复：写入成功并重新武装上报
	s.Log("c", xlevel.Info, Context{})
	assert.Equal(t, "c\n", w.String(), "故障期内的消息应被丢弃且不补发")

	// 第二段故障期：恢复后的再次失败产生新诊断
	w.arm(1)
	s.Log("d", xlevel.Info, Context{})
	s.Log("e", xlevel.Info, Context{})

	diags := capture.list()
	require.Len(t, diags, 2)
	for _, d := range diags {
		assert.Equal(t, "shaky", d.Sink)
		assert.Equal(t, xdiag.OpWrite, d.Op)
		assert.ErrorContains(t, d.Err, "pipe burst")
	}

	written, dropped, failure := stats.snapshot("shaky")
	assert.Equal(t, 2, written, "c 与 e 成功")
	assert.Equal(t, 3, dropped, "a b d 被丢弃")
	assert.Equal(t, 2, failure, "两段故障期各计一次")

	assert.Equal(t, "c\ne\n", w.String())
}

func TestStreamPanicIsolation(t *testing.T) {
	capture := &diagCapture{}
	s, err := NewStream("boom", &bytes.Buffer{},
		WithFormatter(panicFormatter{}),
		WithDiagnostics(capture.handler()),
	)
	require.NoError(t, err)

	require.NotPanics(t, func() {
		s.Log("msg", xlevel.Info, Context{})
	})

	diags := capture.list()
	require.Len(t, diags, 1)
	assert.Equal(t, "boom", diags[0].Sink)
	assert.Equal(t, xdiag.OpWrite, diags[0].Op)
	assert.ErrorContains(t, diags[0].Err, "panic in log path")
	assert.ErrorContains(t, diags[0].Err, "render exploded")
}

// ============================================================================
// 并发
// ============================================================================

func TestStreamConcurrentNoInterleave(t *testing.T) {
	var buf bytes.Buffer
	s, err := NewStream("x", &buf)
	require.NoError(t, err)

	const (
		writers   = 8
		perWriter = 50
	)

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			line := strings.Repeat(fmt.Sprintf("%d", n), 32)
			for j := 0; j < perWriter; j++ {
				s.Log(line, xlevel.Info, Context{})
			}
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, writers*perWriter)
	for _, line := range lines {
		require.Len(t, line, 32)
		for i := 1; i < len(line); i++ {
			require.Equal(t, line[0], line[i], "行内字符混入: %q", line)
		}
	}
}
