// Package xfile 提供日志目标路径的处理工具。
//
// 包含三类操作：
//   - [ExpandTilde]: 展开 "~" 前缀为当前用户主目录
//   - [SanitizePath]: 路径格式净化（空字节、路径穿越、目录路径）
//   - [EnsureDir]: 确保文件的父目录存在（默认权限 0750）
//
// # 路径穿越检测
//
// 穿越检测使用精确的路径段匹配，只有 ".." 作为独立路径段时才被视为
// 穿越。以 ".." 开头的合法文件名（如 "..config"）不会被误判。
//
// # 空字节防护
//
// SanitizePath 拒绝包含空字节（\x00）的路径。Linux 内核在 VFS 层会在
// 空字节处截断路径，导致 Go 代码与操作系统实际操作的路径不一致。
//
// # 安全边界
//
// 这些函数面向可信的部署配置输入，只拦截明显的拼接错误和跨平台歧义，
// 不提供沙箱隔离，也不防护对抗性环境下的符号链接攻击。
//
// # 错误处理
//
// 预定义错误变量支持 [errors.Is] 判断：
//
//	_, err := xfile.SanitizePath("../etc/passwd")
//	if errors.Is(err, xfile.ErrPathTraversal) {
//	    // 处理路径穿越
//	}
package xfile
