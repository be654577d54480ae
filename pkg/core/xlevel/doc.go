// Package xlevel 定义日志消息的严重程度刻度。
//
// 五个级别按严重程度升序排列：Debug < Info < Warning < Error < Fatal。
// Level 是具名整型，直接用 < / >= 比较即可；Enables 封装了阈值判断
// 语义（放行自身及更严重的级别）。
//
// # 名称与数值
//
// 级别名称（Debug/Info/Warning/Error/Fatal）跨版本稳定，配置与
// 持久化一律使用名称；数值仅用于进程内比较，不保证跨版本稳定。
// Parse 区分大小写，仅接受五个规范名称，不接受别名和空白。
package xlevel
