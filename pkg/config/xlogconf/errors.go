package xlogconf

import "errors"

// 配置装配相关错误。全部只在装配/重配置调用方同步可见，
// 绝不在稳态写日志路径上产生。
var (
	// ErrEmptyPath 表示配置文件路径为空。
	ErrEmptyPath = errors.New("xlogconf: empty config path")

	// ErrUnsupportedFormat 表示不支持的配置格式。
	ErrUnsupportedFormat = errors.New("xlogconf: unsupported config format")

	// ErrLoadFailed 表示配置读取失败。
	ErrLoadFailed = errors.New("xlogconf: failed to load config")

	// ErrParseFailed 表示配置解析失败。
	ErrParseFailed = errors.New("xlogconf: failed to parse config")

	// ErrMissingParameter 表示缺失必填配置项。
	ErrMissingParameter = errors.New("xlogconf: missing required parameter")

	// ErrInvalidParameter 表示配置项取值非法或引用无法解析。
	ErrInvalidParameter = errors.New("xlogconf: invalid parameter")
)
