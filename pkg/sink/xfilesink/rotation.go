package xfilesink

import (
	"os"
	"sort"
	"strconv"
	"strings"
)

// maxSuffixValue 轮转序号解析上限，超出视为普通文件名
const maxSuffixValue = 1 << 30

// suffixNumber 解析轮转后缀 ".N"，返回 N 与是否匹配
//
// 仅接受一个点号后跟纯数字的形式；空后缀（活动文件本身）、
// 其他任意后缀均不匹配。
func suffixNumber(suffix string) (int, bool) {
	if len(suffix) < 2 || suffix[0] != '.' {
		return 0, false
	}
	n := 0
	for i := 1; i < len(suffix); i++ {
		c := suffix[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
		if n > maxSuffixValue {
			return 0, false
		}
	}
	return n, true
}

// lessRotationName 轮转候选文件的升序比较
//
// 活动文件（无后缀）最前，数字后缀按数值升序（.2 在 .10 之前），
// 其余前缀匹配的文件按字典序排在数字后缀之后。
func lessRotationName(a, b, base string) bool {
	sa, sb := a[len(base):], b[len(base):]
	if sa == "" {
		return sb != ""
	}
	if sb == "" {
		return false
	}

	na, oka := suffixNumber(sa)
	nb, okb := suffixNumber(sb)
	switch {
	case oka && okb:
		return na < nb
	case oka:
		return true
	case okb:
		return false
	default:
		return sa < sb
	}
}

// rotationCandidates 列出目录中文件名以 base 为前缀的普通文件，升序排列
//
// 匹配纯粹按前缀判断，包含活动文件本身与既有备份。
func rotationCandidates(dir, base string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasPrefix(e.Name(), base) {
			names = append(names, e.Name())
		}
	}

	sort.Slice(names, func(i, j int) bool {
		return lessRotationName(names[i], names[j], base)
	})
	return names, nil
}

// rotationTarget 备份文件名：base.{n}
func rotationTarget(base string, n int) string {
	return base + "." + strconv.Itoa(n)
}
