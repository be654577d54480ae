// Package sink 提供日志输出端相关的子包。
//
// 子包列表：
//   - xsink: 输出端契约与接收骨架，流式输出端、控制台输出端
//   - xfilesink: 文件输出端，惰性创建、触发式轮转、有界保留
//
// 设计原则：
//   - 写入绝不向调用方抛出错误，故障走诊断通道
//   - 输出端自持级别阈值，与路由层阈值双重过滤
//   - 文件生命周期自愈（外部删除后自动重建）
package sink
