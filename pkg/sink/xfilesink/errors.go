package xfilesink

import "errors"

// 配置校验错误
var (
	// ErrInvalidMaxSize MaxFileSize 值无效（必须在 0~10 GB 范围内，0 表示禁用）
	ErrInvalidMaxSize = errors.New("xfilesink: invalid MaxFileSize")

	// ErrInvalidMaxAge MaxFileAge 值无效（必须在 0~3650 天范围内，0 表示禁用）
	ErrInvalidMaxAge = errors.New("xfilesink: invalid MaxFileAge")

	// ErrInvalidRetention MaxRotatedFiles 值无效（必须在 0~1024 范围内，
	// 或 RetentionUnlimited 表示不限制）
	ErrInvalidRetention = errors.New("xfilesink: invalid MaxRotatedFiles")

	// ErrInvalidFileMode FileMode 包含非权限位（仅允许低 9 位 0000~0777）
	ErrInvalidFileMode = errors.New("xfilesink: invalid FileMode")

	// ErrInvalidEncodePolicy 编码策略取值未定义
	ErrInvalidEncodePolicy = errors.New("xfilesink: invalid encode policy")

	// ErrInvalidSchedule 轮转调度表达式无法解析
	ErrInvalidSchedule = errors.New("xfilesink: invalid rotate schedule")
)

// 运行时错误
var (
	// ErrClosed 输出端已关闭
	ErrClosed = errors.New("xfilesink: sink is closed")

	// ErrResource 文件资源准备失败（建目录、建文件或打开文件）
	// 不会传播给日志调用方，仅出现在 xdiag 诊断事件中
	ErrResource = errors.New("xfilesink: file resource unavailable")

	// ErrRotation 轮转过程中的重命名或删除失败
	// 经 [FileSink.Rotate] 返回给调用方，或出现在 xdiag 诊断事件中
	ErrRotation = errors.New("xfilesink: rotation failed")
)
