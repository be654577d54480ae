package xfilesink

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/omeyang/logkit/pkg/observability/xdiag"
	"github.com/omeyang/logkit/pkg/sink/xsink"
	"github.com/omeyang/logkit/pkg/util/xfile"
)

// FileSink 管理完整文件生命周期的日志输出端
//
// 文件按需延迟创建，被外部删除后自动重建，达到大小或时长阈值时
// 以重命名链方式轮转。文件系统故障不传播给日志调用方：消息被
// 丢弃，同一故障期经 xdiag 上报一条诊断。
type FileSink struct {
	xsink.Gate

	maxFileSize     int64
	maxFileAge      time.Duration
	maxRotatedFiles int
	fileMode        os.FileMode
	encodePolicy    EncodePolicy

	cron   *cron.Cron
	closed atomic.Bool

	// 可注入的时钟（nil 时使用 time.Now），仅用于测试
	clockFn func() time.Time

	// 以下字段全部由 mu 保护；整个写入体（轮转检查、句柄准备、
	// 落盘）构成单个临界区
	mu                 sync.Mutex
	path               string
	file               *os.File
	cachedSize         int64
	cachedCreationTime time.Time
	failureReported    bool
}

var _ xsink.Sink = (*FileSink)(nil)

// New 创建文件输出端
//
// path 经波浪线展开与规范化校验；构造时不触碰文件系统，目录与
// 文件在首次写入时按需创建。id 为空时自动生成 "file-" 前缀标识。
func New(id, path string, opts ...Option) (*FileSink, error) {
	normalized, err := normalizePath(path)
	if err != nil {
		return nil, err
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	s := &FileSink{
		maxFileSize:     cfg.maxFileSize,
		maxFileAge:      cfg.maxFileAge,
		maxRotatedFiles: cfg.maxRotatedFiles,
		fileMode:        cfg.fileMode,
		encodePolicy:    cfg.encodePolicy,
		path:            normalized,
	}
	s.Gate = xsink.NewGate("file", id, s.writeLine, cfg.sinkOpts...)

	if cfg.schedule != "" {
		c := cron.New()
		if _, err := c.AddFunc(cfg.schedule, s.scheduledRotate); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSchedule, err)
		}
		c.Start()
		s.cron = c
	}
	return s, nil
}

// normalizePath 波浪线展开并规范化路径
func normalizePath(path string) (string, error) {
	expanded, err := xfile.ExpandTilde(path)
	if err != nil {
		return "", err
	}
	return xfile.SanitizePath(expanded)
}

// Path 返回当前输出路径（已展开、已规范化）
func (s *FileSink) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

// SetPath 切换输出路径
//
// 关闭当前句柄、清空大小与创建时间缓存、重置故障抑制标记，整个
// 切换在锁内原子完成。新路径校验失败时原路径保持不变；关闭后
// 调用返回 [ErrClosed]。
func (s *FileSink) SetPath(path string) error {
	normalized, err := normalizePath(path)
	if err != nil {
		return err
	}

	if s.closed.Load() {
		return ErrClosed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return ErrClosed
	}

	s.dropHandleLocked()
	s.path = normalized
	s.cachedSize = 0
	s.cachedCreationTime = time.Time{}
	s.failureReported = false
	return nil
}

// Rotate 手动触发一次轮转
//
// 路径上尚无任何文件时为空操作。轮转失败返回包装 [ErrRotation]
// 的错误；关闭后调用返回 [ErrClosed]。
func (s *FileSink) Rotate() error {
	if s.closed.Load() {
		return ErrClosed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// 设计决策: 与 Close 存在 TOCTOU 窗口——前置检查通过后 Close
	// 可能已抢先完成。取锁后复查，确保调用方始终得到 ErrClosed。
	if s.closed.Load() {
		return ErrClosed
	}
	return s.rotateLocked()
}

// Close 停止定时轮转并释放文件句柄
//
// 关闭后写入被静默丢弃，Rotate 与 SetPath 返回 [ErrClosed]。
// 重复调用返回 [ErrClosed]。
//
// 设计决策: 先停调度器再取锁——调度任务可能正阻塞在本实例的锁上，
// 顺序颠倒会形成 Stop 等任务、任务等锁的死锁。
func (s *FileSink) Close() error {
	if s.closed.Swap(true) {
		return ErrClosed
	}

	if s.cron != nil {
		<-s.cron.Stop().Done()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

// writeLine 写入一行已渲染的日志
//
// 由嵌入的 Gate 在阈值过滤与渲染之后调用。行尾规范化保证落盘
// 记录以恰好一个换行符结尾。
func (s *FileSink) writeLine(line string) {
	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		s.Stats().IncDropped(s.ID())
		return
	}

	now := s.now()
	if s.rotationDue(now) {
		if err := s.rotateLocked(); err != nil {
			s.reportLocked(xdiag.OpRotate, err)
		}
	}

	if !s.ensureHandleLocked(now) {
		s.Stats().IncDropped(s.ID())
		return
	}

	n, err := s.file.WriteString(s.encodeLine(line))
	s.cachedSize += int64(n)
	if err != nil {
		// 半途失败的句柄不再可信，丢弃后下次写入重新准备
		s.dropHandleLocked()
		s.reportLocked(xdiag.OpWrite, fmt.Errorf("%w: %w", ErrResource, err))
		s.Stats().IncDropped(s.ID())
		return
	}
	s.Stats().IncWritten(s.ID())
}

// rotationDue 评估轮转触发条件，时长与大小任一满足即触发
func (s *FileSink) rotationDue(now time.Time) bool {
	if s.maxFileAge > 0 && !s.cachedCreationTime.IsZero() &&
		now.Sub(s.cachedCreationTime) >= s.maxFileAge {
		return true
	}
	return s.maxFileSize > 0 && s.cachedSize >= s.maxFileSize
}

// ensureHandleLocked 确保存在可用句柄，返回是否可写
//
// 设计决策: 每次写入都 Stat 探测文件是否仍在，这是外部删除自愈
// 能力的直接代价；相比日志落盘本身，单次 Stat 的开销可以接受。
func (s *FileSink) ensureHandleLocked(now time.Time) bool {
	if _, err := os.Stat(s.path); err != nil {
		if !os.IsNotExist(err) {
			s.dropHandleLocked()
			s.reportLocked(xdiag.OpOpen, fmt.Errorf("%w: %w", ErrResource, err))
			return false
		}
		return s.createLocked(now)
	}

	if s.file != nil {
		return true
	}
	return s.reopenLocked(now)
}

// createLocked 重建目录树与空文件，缓存从零开始
func (s *FileSink) createLocked(now time.Time) bool {
	s.dropHandleLocked()

	if err := xfile.EnsureDir(s.path); err != nil {
		s.reportLocked(xdiag.OpOpen, fmt.Errorf("%w: %w", ErrResource, err))
		return false
	}

	//#nosec G302,G304 -- 路径已经 SanitizePath 规范化，权限由调用方配置
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, s.fileMode)
	if err != nil {
		s.reportLocked(xdiag.OpOpen, fmt.Errorf("%w: %w", ErrResource, err))
		return false
	}

	s.file = f
	s.cachedSize = 0
	s.cachedCreationTime = now
	s.failureReported = false
	return true
}

// reopenLocked 以追加模式打开已有文件，磁盘属性回填缓存
//
// ModTime 充当创建时间的近似，Linux 的文件系统接口不暴露出生时间。
func (s *FileSink) reopenLocked(now time.Time) bool {
	//#nosec G304 -- 路径已经 SanitizePath 规范化
	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_APPEND, s.fileMode)
	if err != nil {
		s.reportLocked(xdiag.OpOpen, fmt.Errorf("%w: %w", ErrResource, err))
		return false
	}

	s.file = f
	s.cachedSize = 0
	s.cachedCreationTime = now
	if info, err := f.Stat(); err == nil {
		s.cachedSize = info.Size()
		if mt := info.ModTime(); !mt.IsZero() {
			s.cachedCreationTime = mt
		}
	}
	s.failureReported = false
	return true
}

// rotateLocked 执行重命名链轮转
//
// 活动文件连同既有备份从最高序号开始依次上移一个序号；配置了
// 保留数量时，序号将超出的文件直接删除。单个文件的失败不中断
// 整条链，首个错误作为整体结果返回。
func (s *FileSink) rotateLocked() error {
	s.dropHandleLocked()

	dir := filepath.Dir(s.path)
	base := filepath.Base(s.path)

	matches, err := rotationCandidates(dir, base)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRotation, err)
	}
	if len(matches) == 0 {
		return nil
	}

	var firstErr error
	counter := len(matches)
	for i := len(matches) - 1; i >= 0; i-- {
		name := filepath.Join(dir, matches[i])
		if s.maxRotatedFiles != RetentionUnlimited && counter > s.maxRotatedFiles {
			if err := os.Remove(name); err != nil && firstErr == nil {
				firstErr = err
			}
		} else if err := os.Rename(name, filepath.Join(dir, rotationTarget(base, counter))); err != nil && firstErr == nil {
			firstErr = err
		}
		counter--
	}

	if firstErr != nil {
		return fmt.Errorf("%w: %w", ErrRotation, firstErr)
	}
	s.Stats().IncRotation(s.ID())
	return nil
}

// scheduledRotate 定时强制轮转，失败走诊断通道
func (s *FileSink) scheduledRotate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return
	}
	if err := s.rotateLocked(); err != nil {
		s.reportLocked(xdiag.OpRotate, err)
	}
}

// reportLocked 按故障期上报诊断
//
// 自上次成功打开或路径切换以来至多上报一条，后续失败静默，直到
// 抑制标记被重置。
func (s *FileSink) reportLocked(op string, err error) {
	if s.failureReported {
		return
	}
	s.failureReported = true
	s.Stats().IncFailure(s.ID())
	xdiag.Emit(s.Diagnostics(), xdiag.Diagnostic{
		Sink: s.ID(),
		Path: s.path,
		Op:   op,
		Err:  err,
	})
}

// encodeLine 按配置策略处理无效 UTF-8 字节
func (s *FileSink) encodeLine(line string) string {
	if s.encodePolicy == EncodeReplace {
		return strings.ToValidUTF8(line, "�")
	}
	return strings.ToValidUTF8(line, "")
}

// dropHandleLocked 关闭并丢弃当前句柄
func (s *FileSink) dropHandleLocked() {
	if s.file != nil {
		_ = s.file.Close() //nolint:errcheck // 句柄即将废弃，关闭错误无处置价值
		s.file = nil
	}
}

// now 返回当前时间
func (s *FileSink) now() time.Time {
	if s.clockFn != nil {
		return s.clockFn()
	}
	return time.Now()
}
