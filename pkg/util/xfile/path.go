package xfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// containsNullByte 检测路径是否包含空字节。
// Linux 内核在 VFS 层会在空字节处截断路径，导致 Go 代码与操作系统看到的路径不一致。
func containsNullByte(path string) bool {
	return strings.ContainsRune(path, 0)
}

// hasDotDotSegment 检测路径中是否包含 ".." 作为独立路径段。
// 使用逐字符扫描实现零内存分配，避免 strings.FieldsFunc 的 []string 开销。
// 同时将 '/' 和 '\' 视为分隔符，以检测 Windows 风格路径穿越（即使在 Linux 上）。
func hasDotDotSegment(path string) bool {
	i := 0
	for i < len(path) {
		// 跳过分隔符
		if path[i] == '/' || path[i] == '\\' {
			i++
			continue
		}
		// 找到段的结束位置
		j := i
		for j < len(path) && path[j] != '/' && path[j] != '\\' {
			j++
		}
		// 检查段是否恰好为 ".."
		if j-i == 2 && path[i] == '.' && path[i+1] == '.' {
			return true
		}
		i = j
	}
	return false
}

// SanitizePath 对日志目标路径做格式净化和规范化
//
// 功能：
//   - 路径规范化（消除 "." 和冗余斜杠）
//   - 阻止相对路径穿越（".." 路径段）
//   - 拒绝空路径、空字节和显式目录路径（尾随 "/" 或 "\"）
//
// 本函数不展开 "~" 前缀（见 [ExpandTilde]），也不要求路径存在。
// 绝对路径中的 ".." 会先被 filepath.Clean 解析；只有规范化后仍残留的
// ".." 段（即相对路径向上穿越）才会被拒绝。
//
// 设计决策: 函数名 SanitizePath 表示"格式净化"，不等同于"沙箱隔离"。
// 日志目标路径来自部署方配置，属于可信输入，这里只拦截明显的拼接
// 错误和跨平台歧义。
func SanitizePath(filename string) (string, error) {
	if filename == "" {
		return "", fmt.Errorf("filename is required: %w", ErrEmptyPath)
	}

	if containsNullByte(filename) {
		return "", fmt.Errorf("filename contains null byte: %w", ErrNullByte)
	}

	// 先检查原始路径是否以分隔符结尾（表示目录）
	// 必须在 filepath.Clean 之前检查，因为 Clean 会移除尾部斜杠
	//
	// 设计决策: 在 Linux 上反斜杠是合法的文件名字符，以 "\" 结尾的文件名
	// 理论上合法，但极为罕见且几乎总是跨平台拼接错误，统一拒绝。
	if strings.HasSuffix(filename, "/") || strings.HasSuffix(filename, "\\") {
		return "", fmt.Errorf("path is a directory: %w", ErrInvalidPath)
	}

	cleaned := filepath.Clean(filename)

	// 检查路径穿越：规范化后不应残留 ".." 目录段
	//
	// 不能使用 strings.Contains(cleaned, "..")：会误伤合法文件名
	// （如 "app..2024.log"），这里按路径段精确判断。
	if hasDotDotSegment(cleaned) {
		return "", fmt.Errorf("path traversal in filename: %w", ErrPathTraversal)
	}

	// 获取文件名部分，确保不为空
	base := filepath.Base(cleaned)
	if base == "." || base == string(filepath.Separator) {
		return "", fmt.Errorf("no file name specified: %w", ErrInvalidPath)
	}

	return cleaned, nil
}

// ExpandTilde 展开路径前缀的 "~" 为当前用户主目录
//
// 仅处理 "~" 本身和 "~/" 前缀；其余路径（包括 "~user/..." 形式）
// 原样返回，不访问文件系统。主目录无法确定时返回 [ErrHomeResolve]。
//
// 设计决策: 不支持 "~user" 展开，避免查询系统用户数据库带来的
// 跨平台差异；需要指向其他用户目录的部署直接配置绝对路径即可。
func ExpandTilde(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w: %w", ErrHomeResolve, err)
	}

	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}
