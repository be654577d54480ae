package xdiag

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Emit 分发测试
// =============================================================================

// TestEmitFillsTime 验证零值时间被补为当前时间
func TestEmitFillsTime(t *testing.T) {
	var got Diagnostic
	Emit(func(d Diagnostic) { got = d }, Diagnostic{
		Sink: "file",
		Op:   OpWrite,
		Err:  errors.New("boom"),
	})

	assert.False(t, got.Time.IsZero(), "Emit 应为零值时间补当前时间")
	assert.Equal(t, "file", got.Sink)
	assert.Equal(t, OpWrite, got.Op)
}

// TestEmitKeepsExplicitTime 验证显式时间不被改写
func TestEmitKeepsExplicitTime(t *testing.T) {
	explicit := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	var got Diagnostic
	Emit(func(d Diagnostic) { got = d }, Diagnostic{
		Sink: "file",
		Op:   OpOpen,
		Err:  errors.New("boom"),
		Time: explicit,
	})

	assert.Equal(t, explicit, got.Time)
}

// TestEmitIsolatesPanic 验证处理器 panic 不会传播到调用方
func TestEmitIsolatesPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		Emit(func(Diagnostic) { panic("handler exploded") }, Diagnostic{
			Sink: "file",
			Op:   OpWrite,
			Err:  errors.New("boom"),
		})
	})
}

// TestEmitNilHandlerUsesDefault 验证 nil 处理器回落到进程级默认
func TestEmitNilHandlerUsesDefault(t *testing.T) {
	var mu sync.Mutex
	var count int
	SetDefault(func(Diagnostic) {
		mu.Lock()
		count++
		mu.Unlock()
	})
	t.Cleanup(func() { SetDefault(nil) })

	Emit(nil, Diagnostic{Sink: "s", Op: OpOpen, Err: errors.New("x")})

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, count)
}

// TestDefaultNeverNil 验证恢复默认后 Default 仍可用
func TestDefaultNeverNil(t *testing.T) {
	SetDefault(func(Diagnostic) {})
	SetDefault(nil)
	require.NotNil(t, Default())
}

// TestDefaultConcurrentSwap 验证默认处理器的并发替换与分发安全
func TestDefaultConcurrentSwap(t *testing.T) {
	t.Cleanup(func() { SetDefault(nil) })

	errBoom := errors.New("boom")
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				SetDefault(func(Diagnostic) {})
				Emit(nil, Diagnostic{Sink: "s", Op: OpWrite, Err: errBoom})
			}
		}()
	}
	wg.Wait()
}

// =============================================================================
// 输出格式测试
// =============================================================================

// TestWriterHandlerFormat 验证单行文本输出格式
func TestWriterHandlerFormat(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("带路径", func(t *testing.T) {
		var buf bytes.Buffer
		NewWriterHandler(&buf)(Diagnostic{
			Sink: "file",
			Path: "/tmp/a.log",
			Op:   OpRotate,
			Err:  errors.New("rename failed"),
			Time: ts,
		})

		line := buf.String()
		assert.Equal(t, 1, strings.Count(line, "\n"), "应恰好输出一行")
		assert.Contains(t, line, "2024-05-01T12:00:00Z")
		assert.Contains(t, line, `sink "file" rotate failed`)
		assert.Contains(t, line, "rename failed")
		assert.Contains(t, line, "path=/tmp/a.log")
	})

	t.Run("无路径", func(t *testing.T) {
		var buf bytes.Buffer
		NewWriterHandler(&buf)(Diagnostic{
			Sink: "console",
			Op:   OpWrite,
			Err:  errors.New("pipe closed"),
			Time: ts,
		})

		line := buf.String()
		assert.Contains(t, line, `sink "console" write failed`)
		assert.NotContains(t, line, "path=")
	})
}
