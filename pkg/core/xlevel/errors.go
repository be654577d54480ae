package xlevel

import "errors"

// 解析错误
var (
	// ErrUnknownName 级别名称无法识别（仅接受五个规范名称，区分大小写）
	ErrUnknownName = errors.New("xlevel: unknown level name")
)
