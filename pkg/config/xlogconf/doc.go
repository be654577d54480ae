// Package xlogconf 从配置文档装配整套日志设施。
//
// 文档模型（YAML 或 JSON，按扩展名或显式格式选择）：
//
//	formatters:
//	  - id: plain
//	    kind: text            # text | json
//	    layout: "%t [%l] %n: %m"
//	appenders:
//	  - id: file
//	    kind: file            # file | console | lumberjack
//	    FilePath: ~/logs/app.log
//	    MaxFileSize: 10MB     # 缺失或为零时关闭体积触发
//	    MaxFileAge: 24h       # Go duration；缺失或为零时关闭年龄触发
//	    MaxRotatedFiles: 5    # 缺失时不限制保留数量
//	    FormatterId: plain
//	loggers:
//	  - name: svc
//	    Level: Warning
//	    AppenderIds: [file]
//
// Load/LoadBytes 解析文档并装配出 Assembly（格式器、输出端、路由）。
// 键语义：
//   - Level 缺失时保持原值，存在但不可解析时报错；
//   - AppenderIds 按声明顺序解析，任一标识无法解析即报错，对应路由停在
//     零输出端状态；
//   - FilePath 为文件类输出端必填，缺失时报 ErrMissingParameter，
//     不装配该输出端；
//   - FormatterId 必须能在 formatters 声明中解析到。
//
// # 监视与重载
//
// Watch 监视配置文件所在目录（而非文件本身，编辑器原子保存时先删后建会
// 丢失文件级事件），变更防抖后重新装配并套用到路由注册表。读取与解析
// 包在短退避重试里，跨过原子改名保存的瞬时竞态。失败的重载保留旧装配
// 继续运行；成功后旧装配的文件输出端被关闭。重载窗口内新旧输出端短暂
// 共存，文件端以追加方式打开，互不截断。
package xlogconf
