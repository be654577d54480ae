package xsink

import "errors"

// 构造错误
var (
	// ErrNilWriter 输出目标 writer 为 nil
	ErrNilWriter = errors.New("xsink: nil writer")
)
