package xfile

import (
	"path/filepath"
	"testing"
)

// =============================================================================
// 性能测试（Benchmark）
// =============================================================================

// BenchmarkSanitizePath 测试路径净化性能
func BenchmarkSanitizePath(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = SanitizePath("/var/log/app.log")
	}
}

// BenchmarkSanitizePathWithDots 测试带点路径净化性能
func BenchmarkSanitizePathWithDots(b *testing.B) {
	pathWithDots := "/var/./log/./app/./service/./app.log"
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = SanitizePath(pathWithDots)
	}
}

// BenchmarkHasDotDotSegment 测试穿越检测性能（零分配路径）
func BenchmarkHasDotDotSegment(b *testing.B) {
	path := "/var/log/application/service/component/app..2024.log"
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = hasDotDotSegment(path)
	}
}

// BenchmarkExpandTilde 测试波浪号展开性能
func BenchmarkExpandTilde(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = ExpandTilde("~/logs/app.log")
	}
}

// BenchmarkExpandTildePassthrough 测试无需展开路径的快速路径
func BenchmarkExpandTildePassthrough(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = ExpandTilde("/var/log/app.log")
	}
}

// BenchmarkEnsureDir 测试目录创建性能（目录已存在）
func BenchmarkEnsureDir(b *testing.B) {
	tmpDir := b.TempDir()
	filename := filepath.Join(tmpDir, "app.log")

	// 先创建一次
	_ = EnsureDir(filename)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = EnsureDir(filename)
	}
}

// BenchmarkEnsureDirParallel 测试并发目录创建性能
func BenchmarkEnsureDirParallel(b *testing.B) {
	tmpDir := b.TempDir()
	filename := filepath.Join(tmpDir, "app.log")

	// 先创建一次
	_ = EnsureDir(filename)

	b.ResetTimer()
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = EnsureDir(filename)
		}
	})
}
