// Package observability 提供可观测性相关的子包。
//
// 子包列表：
//   - xdiag: 日志设施内部故障的诊断通道与运行计数器
//
// 设计原则：
//   - 诊断事件绝不回写产生它的输出端，避免递归写入
//   - 指标遵循 OpenTelemetry 语义规范
//   - 记录器有界，陈旧记录按 LRU/TTL 淘汰
package observability
