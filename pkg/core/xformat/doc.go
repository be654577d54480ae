// Package xformat 定义日志行的渲染契约与内置格式化器。
//
// Formatter 把一条已接受的日志记录渲染为单行文本；渲染永不失败，
// 实现内部的序列化异常一律退回原始消息。每条被接受的记录至多
// 渲染一次，未配置格式化器的 sink 直接透传原始消息。
//
// # 内置实现
//
//   - [NewText]: 布局模板渲染，支持 %t（时间）、%l（级别）、%n（来源名）、
//     %m（消息）、%%（字面百分号）
//   - [NewJSON]: 固定字段（ts/level/logger/msg）的单行 JSON
//
// 两种实现渲染的都是文本行：JSON 格式化器只是行内容恰好为 JSON，
// 下游 sink 仍按普通文本行写入。
package xformat
