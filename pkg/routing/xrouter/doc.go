// Package xrouter 按名字组织日志路由，将消息分发到一组输出端。
//
// [Router] 持有一个级别阈值和一个有序的输出端列表。Submit 的放行
// 判定是两段式的：消息级别达到路由阈值，且至少存在一个输出端会
// 接受该级别，否则整次提交是空操作。放行后消息按挂载顺序分发给
// 全部输出端，各输出端再按自身阈值做第二段过滤。
//
// # 延迟求值（Lazy Evaluation）
//
// 当消息构造开销较大时（序列化大对象、聚合统计等），使用
// [Router.SubmitLazy] 或 *Lazy 系列便捷方法：生产函数只保存引用，
// 放行判定不通过时永远不会被调用；放行时恰好求值一次，结果分发
// 给全部输出端。
//
//	r.DebugLazy(func() string {
//	    return expensiveDump(state) // 仅在 Debug 会被输出时执行
//	})
//
// # 并发模型
//
// Submit 全程不持锁。阈值与输出端列表通过原子操作读写：重配置与
// 提交并发时，单次提交看到的是某个完整的列表快照，但究竟是新旧
// 哪一份不作保证。重配置预期发生在配置重载窗口内，与稳态日志流
// 的串行化由上层负责。
package xrouter
