package xrouter

import "errors"

// 重配置错误
var (
	// ErrInvalidParameter 配置参数存在但无法解析，或引用了不存在的标识
	ErrInvalidParameter = errors.New("xrouter: invalid parameter")
)
