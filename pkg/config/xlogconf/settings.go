package xlogconf

// Format 配置文档格式。
type Format string

// 支持的配置格式。
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// 格式器种类。
const (
	FormatterText = "text"
	FormatterJSON = "json"
)

// 输出端种类。
const (
	// AppenderFile 文件输出端，带链式轮转与保留上限。
	AppenderFile = "file"

	// AppenderConsole 标准错误输出端。
	AppenderConsole = "console"

	// AppenderLumberjack 基于 lumberjack 的文件输出端，
	// 轮转备份按时间戳命名而非 .1/.2 链式后缀。
	AppenderLumberjack = "lumberjack"
)

// Document 配置文档的顶层结构。
type Document struct {
	Formatters []FormatterSettings `koanf:"formatters"`
	Appenders  []AppenderSettings  `koanf:"appenders"`
	Loggers    []LoggerSettings    `koanf:"loggers"`
}

// FormatterSettings 单个格式器的声明。
type FormatterSettings struct {
	ID   string `koanf:"id"`
	Kind string `koanf:"kind"`

	// Layout 仅对 text 格式器生效，缺省用默认版式。
	Layout string `koanf:"layout"`

	// TimeFormat Go 参考时间版式，仅对 text 格式器生效。
	TimeFormat string `koanf:"timeFormat"`

	// UTC 时间戳是否转为 UTC。
	UTC bool `koanf:"utc"`
}

// AppenderSettings 单个输出端的声明。
type AppenderSettings struct {
	ID   string `koanf:"id"`
	Kind string `koanf:"kind"`

	// Level 输出端自身阈值，缺失时输出端不做级别过滤。
	Level string `koanf:"Level"`

	// FilePath 文件类输出端必填。
	FilePath string `koanf:"FilePath"`

	// MaxFileSize 体积上限，如 "10MB"；缺失或为零时关闭体积触发。
	MaxFileSize string `koanf:"MaxFileSize"`

	// MaxFileAge 年龄上限，Go duration；缺失或为零时关闭年龄触发。
	MaxFileAge string `koanf:"MaxFileAge"`

	// MaxRotatedFiles 轮转文件保留上限，nil 表示不限制。
	MaxRotatedFiles *int `koanf:"MaxRotatedFiles"`

	// RotateSchedule 定时强制轮转的 cron 表达式，可选。
	RotateSchedule string `koanf:"RotateSchedule"`

	// FormatterID 引用 formatters 中声明的格式器，可选。
	FormatterID string `koanf:"FormatterId"`
}

// LoggerSettings 单个路由的声明。
type LoggerSettings struct {
	// Name 路由名，空串为根路由。
	Name string `koanf:"name"`

	// Level 路由阈值，缺失时保持原值。
	Level string `koanf:"Level"`

	// AppenderIDs 要挂接的输出端标识，按声明顺序分发。
	AppenderIDs []string `koanf:"AppenderIds"`
}
