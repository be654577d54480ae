package xrouter

import (
	"sort"
	"sync"
)

// Registry 按名字索引的路由注册表
type Registry struct {
	mu      sync.RWMutex
	routers map[string]*Router
}

// NewRegistry 创建路由注册表
func NewRegistry() *Registry {
	return &Registry{
		routers: make(map[string]*Router),
	}
}

// Get 获取指定名字的路由，不存在时创建
//
// 新建路由使用默认阈值 [DefaultThreshold] 且不挂任何输出端，
// 在被配置之前完全静默。
func (g *Registry) Get(name string) *Router {
	g.mu.RLock()
	r, ok := g.routers[name]
	g.mu.RUnlock()
	if ok {
		return r
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	// 双检：释放读锁到获取写锁之间可能已有并发创建
	if r, ok := g.routers[name]; ok {
		return r
	}
	r = New(name)
	g.routers[name] = r
	return r
}

// Names 返回所有已注册的路由名（按字母排序）
func (g *Registry) Names() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	names := make([]string, 0, len(g.routers))
	for name := range g.routers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Reset 清空注册表
//
// 已发出的 *Router 引用不受影响，仅后续 Get 会重新创建。主要用于
// 测试隔离。
func (g *Registry) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.routers = make(map[string]*Router)
}

// =============================================================================
// 进程级默认注册表
//
// 定位：脚手架/小工具等简单场景。服务端推荐显式持有 Registry。
// =============================================================================

var defaultRegistry = NewRegistry()

// Get 从进程级默认注册表获取路由，不存在时创建
func Get(name string) *Router {
	return defaultRegistry.Get(name)
}

// Names 返回进程级默认注册表中所有路由名（按字母排序）
func Names() []string {
	return defaultRegistry.Names()
}

// Reset 清空进程级默认注册表（仅用于测试）
func Reset() {
	defaultRegistry.Reset()
}
