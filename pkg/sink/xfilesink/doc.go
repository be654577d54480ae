// Package xfilesink 提供管理完整文件生命周期的日志输出端。
//
// 与 xsink 包中包装 io.Writer 的流式输出端不同，[FileSink] 自己拥有
// 文件句柄并负责其全生命周期：
//
//   - 延迟创建：构造时不触碰文件系统，首次写入时按需建目录、建文件
//   - 外部删除自愈：每次写入前探测文件是否仍在，被外部删除后自动重建
//   - 追加语义：已有文件永不截断，重新打开后从文件尾继续写
//   - 按大小/按时长轮转：重命名链方式，活动文件变为 base.1，
//     既有备份序号依次上移，超出保留数量的备份被删除
//   - 故障抑制：文件系统故障丢弃消息并继续服务，同一故障期
//     只经 xdiag 上报一条诊断
//
// 每个实例由单把互斥锁保护整个写入临界区（轮转检查、句柄准备、
// 落盘为一个原子单元），任意多个 goroutine 可并发调用 Log。
// 指向同一路径的两个实例之间不做协调，属未定义行为。
//
// # 轮转文件命名
//
// 备份文件命名为 {原文件名}.{n}，n 为正整数，1 是最近一次轮转的
// 产物。轮转时按文件名前缀匹配既有备份，序号按数值排序。
package xfilesink
