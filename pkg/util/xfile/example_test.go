package xfile

import (
	"fmt"
	"os"
	"path/filepath"
)

// =============================================================================
// SanitizePath 示例
// =============================================================================

func ExampleSanitizePath() {
	// 正常路径
	path, err := SanitizePath("/var/log/app.log")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(path)

	// 路径穿越会被拒绝
	_, err = SanitizePath("../../../etc/passwd")
	if err != nil {
		fmt.Println("路径穿越被阻止")
	}
	// Output:
	// /var/log/app.log
	// 路径穿越被阻止
}

func ExampleSanitizePath_normalize() {
	// 路径会被规范化
	path, err := SanitizePath("/var/./log/../log/app.log")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(path)
	// Output: /var/log/app.log
}

// =============================================================================
// ExpandTilde 示例
// =============================================================================

func ExampleExpandTilde() {
	// 非 "~" 前缀的路径原样返回
	path, err := ExpandTilde("/var/log/app.log")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(path)

	// "~user" 形式不查询用户数据库，原样返回
	path, err = ExpandTilde("~alice/app.log")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(path)
	// Output:
	// /var/log/app.log
	// ~alice/app.log
}

// =============================================================================
// EnsureDir 示例
// =============================================================================

func ExampleEnsureDir() {
	tmpDir, err := os.MkdirTemp("", "xfile-example-*")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer os.RemoveAll(tmpDir) //nolint:errcheck // 示例清理

	// 确保日志文件的父目录存在
	err = EnsureDir(filepath.Join(tmpDir, "myapp", "app.log"))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println("目录已创建")
	// Output: 目录已创建
}

func ExampleEnsureDirWithPerm() {
	tmpDir, err := os.MkdirTemp("", "xfile-example-*")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer os.RemoveAll(tmpDir) //nolint:errcheck // 示例清理

	// 使用自定义权限创建目录
	err = EnsureDirWithPerm(filepath.Join(tmpDir, "myapp", "app.log"), 0700)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println("目录已创建")
	// Output: 目录已创建
}
