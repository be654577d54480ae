// Package core 提供日志设施的基础类型相关的子包。
//
// 子包列表：
//   - xlevel: 日志级别，五级有序刻度与解析
//   - xformat: 格式化器契约，文本布局与 JSON 渲染
//
// 设计原则：
//   - 基础类型零外部依赖，任何上层包都可安全引用
//   - 级别比较即整数比较，过滤路径无分配
package core
