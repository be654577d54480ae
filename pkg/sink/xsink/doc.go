// Package xsink 定义日志输出端契约与通用接收骨架。
//
// [Sink] 是路由层的下游契约：Log 先按输出端自身阈值过滤，再经可选
// 的格式化器渲染，最后写入目标；Log 永不 panic、永不向日志主流程
// 传播错误，目标故障经 xdiag 旁路上报。
//
// [Gate] 封装上述三段式骨架，具体输出端嵌入 Gate 并在构造时绑定
// 写入回调，通过组合而非继承复用接收逻辑。
//
// # 内置输出端
//
//   - [NewConsole]: 标准错误控制台输出
//   - [NewStream]: 任意 io.Writer 输出（w 为 lumberjack.Logger 时
//     即可获得按大小轮转的文件输出）
//
// 管理完整文件生命周期（延迟创建、外部删除恢复、重命名链轮转与
// 保留上限）的文件输出端见 xfilesink 包。
package xsink
