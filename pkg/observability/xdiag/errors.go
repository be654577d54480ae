package xdiag

import "errors"

// 配置校验错误
var (
	// ErrInvalidSize Recorder 容量无效（必须在 1~1048576 范围内）
	ErrInvalidSize = errors.New("xdiag: invalid recorder size")

	// ErrInvalidTTL Recorder TTL 无效（不允许负值）
	ErrInvalidTTL = errors.New("xdiag: invalid recorder TTL")
)
