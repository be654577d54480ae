// Package xdiag 提供日志设施自身故障的旁路诊断通道。
//
// 日志库的内部错误不能再经过日志库本身记录（会递归写入），本包提供
// 独立的旁路：
//   - [Diagnostic] / [Handler]: 诊断事件与处理器约定
//   - [Emit]: 带 panic 隔离的分发入口，nil 处理器回落到进程级默认
//   - [Recorder]: 按 sink 保留最近一次诊断的有界记录器
//   - [Stats]: sink 运行计数（写入/丢弃/轮转/故障），提供 OTel 实现
//
// # 递归约束
//
// Handler 严禁向产生诊断的 sink 写入数据，否则会形成递归写入
// （写失败 → 发诊断 → 再写失败）。默认处理器输出到标准错误。
//
// # 抑制语义
//
// 本包只负责分发，不做去重。"每个故障期只发一条诊断"的抑制逻辑
// 由各 sink 自己维护（见 xfilesink 的故障抑制标志）。
package xdiag
