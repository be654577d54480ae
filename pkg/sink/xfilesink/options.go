package xfilesink

import (
	"fmt"
	"os"
	"time"

	"github.com/omeyang/logkit/pkg/core/xformat"
	"github.com/omeyang/logkit/pkg/core/xlevel"
	"github.com/omeyang/logkit/pkg/observability/xdiag"
	"github.com/omeyang/logkit/pkg/sink/xsink"
)

// 默认值与上限
const (
	// RetentionUnlimited 不限制保留的备份文件数量
	RetentionUnlimited = -1

	// DefaultFileMode 日志文件默认权限
	DefaultFileMode os.FileMode = 0o640

	// maxFileSizeBytes 单个日志文件大小上限（10 GB）
	maxFileSizeBytes = 10 * 1024 * 1024 * 1024

	// maxFileAgeLimit 轮转周期上限（约 10 年）
	maxFileAgeLimit = 3650 * 24 * time.Hour

	// maxRotatedLimit 备份文件保留数量上限
	maxRotatedLimit = 1024
)

// EncodePolicy 落盘前对无效 UTF-8 字节的处理策略
type EncodePolicy int

const (
	// EncodeLossy 静默丢弃无效 UTF-8 字节（默认）
	EncodeLossy EncodePolicy = iota

	// EncodeReplace 将无效 UTF-8 字节替换为 U+FFFD
	EncodeReplace
)

// config 文件输出端配置
type config struct {
	maxFileSize     int64
	maxFileAge      time.Duration
	maxRotatedFiles int
	fileMode        os.FileMode
	encodePolicy    EncodePolicy
	schedule        string
	sinkOpts        []xsink.Option
}

func defaultConfig() config {
	return config{
		maxRotatedFiles: RetentionUnlimited,
		fileMode:        DefaultFileMode,
	}
}

// Option 文件输出端配置选项函数
type Option func(*config)

// WithMaxFileSize 设置触发轮转的文件大小（字节）
//
// 活动文件累计字节数达到该值后，下一次写入先轮转再落盘。
// 0 表示禁用大小触发（默认）。
func WithMaxFileSize(bytes int64) Option {
	return func(c *config) {
		c.maxFileSize = bytes
	}
}

// WithMaxFileAge 设置触发轮转的文件存活时长
//
// 活动文件自创建起超过该时长后，下一次写入先轮转再落盘。
// 0 表示禁用时长触发（默认）。
func WithMaxFileAge(d time.Duration) Option {
	return func(c *config) {
		c.maxFileAge = d
	}
}

// WithMaxRotatedFiles 设置保留的备份文件数量
//
// 轮转时序号超出该数量的备份被删除；0 表示不保留任何备份
// （活动文件轮转即删除）。默认 [RetentionUnlimited] 不限制。
func WithMaxRotatedFiles(n int) Option {
	return func(c *config) {
		c.maxRotatedFiles = n
	}
}

// WithFileMode 设置日志文件创建权限
//
// 仅允许权限位（0000~0777）。默认 [DefaultFileMode]。
// 已存在文件的权限不会被修改。
func WithFileMode(mode os.FileMode) Option {
	return func(c *config) {
		c.fileMode = mode
	}
}

// WithEncodePolicy 设置无效 UTF-8 字节的处理策略
func WithEncodePolicy(p EncodePolicy) Option {
	return func(c *config) {
		c.encodePolicy = p
	}
}

// WithRotateSchedule 设置定时强制轮转的 cron 表达式
//
// 表达式为标准五段 cron 格式（亦支持 @every 1h 等描述符）。
// 到点轮转与写入触发的轮转互不影响，调度器由 Close 停止。
func WithRotateSchedule(spec string) Option {
	return func(c *config) {
		c.schedule = spec
	}
}

// WithThreshold 设置输出端自身的级别阈值（默认 Debug）
func WithThreshold(level xlevel.Level) Option {
	return func(c *config) {
		c.sinkOpts = append(c.sinkOpts, xsink.WithThreshold(level))
	}
}

// WithFormatter 设置格式化器（默认原始消息透传）
func WithFormatter(f xformat.Formatter) Option {
	return func(c *config) {
		c.sinkOpts = append(c.sinkOpts, xsink.WithFormatter(f))
	}
}

// WithDiagnostics 设置诊断处理器（默认使用 xdiag 进程级默认处理器）
//
// 处理器不得向本输出端写入数据，否则会产生递归写入。
func WithDiagnostics(h xdiag.Handler) Option {
	return func(c *config) {
		c.sinkOpts = append(c.sinkOpts, xsink.WithDiagnostics(h))
	}
}

// WithStats 设置运行计数器（默认丢弃所有计数）
func WithStats(st xdiag.Stats) Option {
	return func(c *config) {
		c.sinkOpts = append(c.sinkOpts, xsink.WithStats(st))
	}
}

// validateConfig 校验文件输出端配置
func validateConfig(cfg *config) error {
	if cfg.maxFileSize < 0 || cfg.maxFileSize > maxFileSizeBytes {
		return fmt.Errorf("%w: got %d, want 0~%d", ErrInvalidMaxSize, cfg.maxFileSize, int64(maxFileSizeBytes))
	}

	if cfg.maxFileAge < 0 || cfg.maxFileAge > maxFileAgeLimit {
		return fmt.Errorf("%w: got %s, want 0~%s", ErrInvalidMaxAge, cfg.maxFileAge, maxFileAgeLimit)
	}

	if cfg.maxRotatedFiles < RetentionUnlimited || cfg.maxRotatedFiles > maxRotatedLimit {
		return fmt.Errorf("%w: got %d, want %d~%d",
			ErrInvalidRetention, cfg.maxRotatedFiles, RetentionUnlimited, maxRotatedLimit)
	}

	// 仅允许权限位（低 9 位），拒绝文件类型位、setuid/setgid 等
	if cfg.fileMode&^os.FileMode(0o777) != 0 {
		return fmt.Errorf("%w: got %04o, only permission bits (0000~0777) allowed",
			ErrInvalidFileMode, cfg.fileMode)
	}

	if cfg.encodePolicy != EncodeLossy && cfg.encodePolicy != EncodeReplace {
		return fmt.Errorf("%w: got %d", ErrInvalidEncodePolicy, cfg.encodePolicy)
	}

	return nil
}
