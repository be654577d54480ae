// Package util 提供通用工具相关的子包。
//
// 子包列表：
//   - xfile: 文件操作工具，目录创建、路径清理、波浪线展开
//
// 设计原则：
//   - 安全处理路径遍历和空字节注入
//   - 目录创建使用保守权限（0750）
//   - 跨平台兼容
package util
