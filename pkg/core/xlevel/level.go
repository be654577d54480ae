package xlevel

import "fmt"

// Level 日志级别，离散有序的严重程度刻度
//
// 五个级别按严重程度升序排列：Debug < Info < Warning < Error < Fatal。
// 两个不同级别永不相等，比较运算符直接反映严重程度关系。
type Level int

// 日志级别常量，按严重程度升序排列
const (
	// Debug 调试信息，开发期诊断用
	Debug Level = iota

	// Info 常规运行信息
	Info

	// Warning 潜在问题，尚未影响功能
	Warning

	// Error 操作失败，进程仍可继续
	Error

	// Fatal 不可恢复的严重失败
	Fatal
)

// levelNames 级别到规范名称的映射，下标即级别数值
var levelNames = [...]string{"Debug", "Info", "Warning", "Error", "Fatal"}

// String 返回级别的规范名称
//
// 已知级别返回 Debug/Info/Warning/Error/Fatal，
// 超出范围的值返回 "Level(n)" 形式，便于诊断。
func (l Level) String() string {
	if l < Debug || l > Fatal {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return levelNames[l]
}

// Enables 报告阈值 l 是否放行级别 lvl 的消息
//
// 等价于 lvl >= l：阈值放行自身及更严重的级别。
func (l Level) Enables(lvl Level) bool {
	return lvl >= l
}

// MarshalText 实现 encoding.TextMarshaler 接口
//
// 支持配置序列化场景（YAML/JSON）。
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler 接口
//
// 支持从配置文件直接反序列化日志级别。
func (l *Level) UnmarshalText(data []byte) error {
	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// Parse 解析级别名称
//
// 仅接受五个规范名称（Debug/Info/Warning/Error/Fatal），区分大小写，
// 不做空白修剪、不接受别名。其余输入返回 [ErrUnknownName]，
// 错误信息携带原始输入；失败时返回的级别值无意义。
func Parse(s string) (Level, error) {
	for i, name := range levelNames {
		if s == name {
			return Level(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownName, s)
}

// Levels 返回全部级别，按严重程度升序排列
//
// 每次调用返回新切片，调用方可自由修改。
func Levels() []Level {
	return []Level{Debug, Info, Warning, Error, Fatal}
}
