package xfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// =============================================================================
// EnsureDir 单元测试
// =============================================================================

func TestEnsureDir(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name     string
		filename string
	}{
		{
			name:     "创建单层目录",
			filename: filepath.Join(tmpDir, "newdir", "app.log"),
		},
		{
			name:     "创建多层目录",
			filename: filepath.Join(tmpDir, "a", "b", "c", "d", "app.log"),
		},
		{
			name:     "目录已存在",
			filename: filepath.Join(tmpDir, "app.log"),
		},
		{
			name:     "当前目录文件",
			filename: "app.log",
		},
		{
			name:     "相对路径单点",
			filename: "./app.log",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := EnsureDir(tt.filename); err != nil {
				t.Errorf("EnsureDir() 意外错误: %v", err)
				return
			}

			// 验证目录确实被创建
			dir := filepath.Dir(tt.filename)
			if dir != "" && dir != "." {
				info, err := os.Stat(dir)
				if err != nil {
					t.Errorf("目录 %q 未被创建: %v", dir, err)
					return
				}
				if !info.IsDir() {
					t.Errorf("%q 不是目录", dir)
				}
			}
		})
	}
}

func TestEnsureDirErrors(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		perm     os.FileMode
		wantErr  error
	}{
		{
			name:     "空文件名",
			filename: "",
			perm:     0750,
			wantErr:  ErrEmptyPath,
		},
		{
			name:     "空字节",
			filename: "logs/app\x00.log",
			perm:     0750,
			wantErr:  ErrNullByte,
		},
		{
			name:     "缺少所有者执行位",
			filename: "logs/app.log",
			perm:     0640,
			wantErr:  ErrInvalidPerm,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := EnsureDirWithPerm(tt.filename, tt.perm)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("EnsureDirWithPerm() 错误 = %v，期望 %v", err, tt.wantErr)
			}
		})
	}
}

func TestEnsureDirPermission(t *testing.T) {
	tmpDir := t.TempDir()
	testDir := filepath.Join(tmpDir, "permtest", "app.log")

	if err := EnsureDir(testDir); err != nil {
		t.Fatalf("EnsureDir() 错误: %v", err)
	}

	dir := filepath.Dir(testDir)
	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("无法获取目录信息: %v", err)
	}

	// 检查权限（注意：实际权限可能受 umask 影响）
	perm := info.Mode().Perm()
	if perm&0700 != 0700 {
		t.Errorf("目录权限 %o 不符合预期，所有者应有 rwx 权限", perm)
	}
}

// =============================================================================
// EnsureDirWithPerm 单元测试
// =============================================================================

func TestEnsureDirWithPerm(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name     string
		filename string
		perm     os.FileMode
	}{
		{
			name:     "权限 0755",
			filename: filepath.Join(tmpDir, "perm755", "app.log"),
			perm:     0755,
		},
		{
			name:     "权限 0700",
			filename: filepath.Join(tmpDir, "perm700", "app.log"),
			perm:     0700,
		},
		{
			name:     "多层目录",
			filename: filepath.Join(tmpDir, "multi", "level", "dir", "app.log"),
			perm:     0755,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := EnsureDirWithPerm(tt.filename, tt.perm); err != nil {
				t.Errorf("EnsureDirWithPerm() 意外错误: %v", err)
				return
			}

			dir := filepath.Dir(tt.filename)
			info, err := os.Stat(dir)
			if err != nil {
				t.Errorf("目录 %q 未被创建: %v", dir, err)
				return
			}
			if !info.IsDir() {
				t.Errorf("%q 不是目录", dir)
			}
		})
	}
}

func TestEnsureDirIdempotent(t *testing.T) {
	tmpDir := t.TempDir()
	filename := filepath.Join(tmpDir, "idem", "app.log")

	// 重复调用不应报错，也不应修改已存在目录的权限
	if err := EnsureDirWithPerm(filename, 0700); err != nil {
		t.Fatalf("第一次调用错误: %v", err)
	}
	if err := EnsureDirWithPerm(filename, 0755); err != nil {
		t.Fatalf("第二次调用错误: %v", err)
	}

	info, err := os.Stat(filepath.Dir(filename))
	if err != nil {
		t.Fatalf("无法获取目录信息: %v", err)
	}
	if got := info.Mode().Perm(); got&0070 != 0 {
		t.Errorf("已存在目录的权限被修改为 %o", got)
	}
}
