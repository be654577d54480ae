package xformat

import "errors"

// 布局解析错误
var (
	// ErrBadLayout 布局模板无效（未知占位符或孤立的尾部 %）
	ErrBadLayout = errors.New("xformat: invalid layout")
)
