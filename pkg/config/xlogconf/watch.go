package xlogconf

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	retry "github.com/avast/retry-go/v5"
	"github.com/fsnotify/fsnotify"
)

// WatchCallback 重载结果回调。
// err 为 nil 时 a 是新生效的装配；err 非 nil 时 a 为 nil，旧装配继续运行。
type WatchCallback func(a *Assembly, err error)

// Watcher 配置文件监视器。
// 监控配置文件变更，防抖后重新装配并替换当前装配。
type Watcher struct {
	path     string
	opts     []Option
	watcher  *fsnotify.Watcher
	callback WatchCallback
	debounce time.Duration
	attempts uint
	ctx      context.Context
	cancel   context.CancelFunc
	mu       sync.Mutex
	running  bool
	stopped  bool
	timer    *time.Timer // debounce 定时器，Stop() 时需要取消
	current  *Assembly
}

// WatchOption 监视器配置选项。
type WatchOption func(*watchOptions)

type watchOptions struct {
	debounce     time.Duration
	attempts     uint
	assembleOpts []Option
}

func defaultWatchOptions() *watchOptions {
	return &watchOptions{
		debounce: 100 * time.Millisecond,
		attempts: 3,
	}
}

// WithDebounce 设置防抖时间。
// 在指定时间内的多次变更只触发一次重载，默认 100ms。
func WithDebounce(d time.Duration) WatchOption {
	return func(o *watchOptions) {
		o.debounce = d
	}
}

// WithReloadAttempts 设置单次重载的最大尝试次数（含首次），默认 3。
// 编辑器原子保存是先写临时文件再改名，读取可能撞上中间态，
// 短退避重试足以跨过这个窗口。
func WithReloadAttempts(n uint) WatchOption {
	return func(o *watchOptions) {
		if n > 0 {
			o.attempts = n
		}
	}
}

// WithAssembleOptions 设置每次重载时使用的装配选项。
func WithAssembleOptions(opts ...Option) WatchOption {
	return func(o *watchOptions) {
		o.assembleOpts = append(o.assembleOpts, opts...)
	}
}

// Watch 创建配置文件监视器并完成首次装配。
//
// assembleOpts 会在每次重载时原样重放；配合 WithRegistry 使用时，
// 注册表里的路由随每次成功重载就地更新。
//
// 返回的 Watcher 需要调用 Start() 或 StartAsync() 开始监视，
// Stop() 停止监视。Stop 不关闭当前装配，何时 Close 由调用方决定。
//
// 示例:
//
//	w, err := xlogconf.Watch("/etc/app/logging.yaml",
//	    func(a *xlogconf.Assembly, err error) {
//	        if err != nil {
//	            log.Printf("reload failed: %v", err)
//	        }
//	    },
//	    xlogconf.WithAssembleOptions(xlogconf.WithRegistry(reg)),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer w.Stop()
//	w.StartAsync()
func Watch(path string, callback WatchCallback, opts ...WatchOption) (*Watcher, error) {
	options := defaultWatchOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(options)
		}
	}
	if options.debounce <= 0 {
		return nil, fmt.Errorf("%w: debounce %v, want > 0", ErrInvalidParameter, options.debounce)
	}

	initial, err := Load(path, options.assembleOpts...)
	if err != nil {
		return nil, err
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Join(
			fmt.Errorf("xlogconf: failed to create watcher: %w", err),
			initial.Close(),
		)
	}

	// 监视配置文件所在目录（而非文件本身）
	// 因为编辑器保存文件时可能先删除再创建，直接监视文件会丢失事件
	dir := filepath.Dir(path)
	if err := fsWatcher.Add(dir); err != nil {
		return nil, errors.Join(
			fmt.Errorf("xlogconf: failed to watch directory %s: %w", dir, err),
			fsWatcher.Close(),
			initial.Close(),
		)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Watcher{
		path:     path,
		opts:     options.assembleOpts,
		watcher:  fsWatcher,
		callback: callback,
		debounce: options.debounce,
		attempts: options.attempts,
		ctx:      ctx,
		cancel:   cancel,
		current:  initial,
	}, nil
}

// Assembly 返回当前生效的装配。
func (w *Watcher) Assembly() *Assembly {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

// Start 启动监视。
// 此方法会阻塞，通常应在 goroutine 中调用。
func (w *Watcher) Start() {
	w.mu.Lock()
	if w.running || w.stopped {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	w.run()
}

// StartAsync 异步启动监视。
// 在后台 goroutine 中运行，立即返回。
func (w *Watcher) StartAsync() {
	w.mu.Lock()
	if w.running || w.stopped {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	go w.run()
}

// Stop 停止监视并释放 fsnotify 资源。
// 未启动过也可以调用；重复调用幂等。
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true

	// 停止 debounce 定时器，防止 Stop 后仍触发重载
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}

	w.cancel()
	w.running = false
	return w.watcher.Close()
}

// run 运行监视循环。
func (w *Watcher) run() {
	filename := filepath.Base(w.path)

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event, filename)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.handleError(err)
		}
	}
}

// handleEvent 处理文件系统事件。
func (w *Watcher) handleEvent(event fsnotify.Event, filename string) {
	// 只处理目标配置文件的事件
	if filepath.Base(event.Name) != filename {
		return
	}

	// 处理可能表示配置更新的事件
	// - Write: 直接修改
	// - Create: 新建文件（部分编辑器）
	// - Rename: 原子写入模式（vim/emacs 写临时文件后 rename）
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}

	// 防抖处理：重置计时器
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}

	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case <-w.ctx.Done():
			return
		default:
		}
		w.applyReload()
	})
}

// applyReload 重新装配并替换当前装配。
// 失败时保留旧装配；成功后旧装配的文件输出端被关闭。
func (w *Watcher) applyReload() {
	fresh, err := w.reload()

	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		if fresh != nil {
			_ = fresh.Close() //nolint:errcheck // 已停止，回收即可
		}
		return
	}
	var old *Assembly
	if err == nil {
		old = w.current
		w.current = fresh
	}
	w.mu.Unlock()

	if err != nil {
		w.invokeCallback(nil, err)
		return
	}

	if old != nil {
		_ = old.Close() //nolint:errcheck // 旧装配的关闭失败不影响新装配生效
	}
	w.invokeCallback(fresh, nil)
}

// invokeCallback 调用用户回调并隔离其 panic，避免击穿监视 goroutine。
func (w *Watcher) invokeCallback(a *Assembly, err error) {
	if w.callback == nil {
		return
	}
	defer func() {
		_ = recover()
	}()
	w.callback(a, err)
}

// reload 带重试地重新装配。
func (w *Watcher) reload() (*Assembly, error) {
	var fresh *Assembly
	err := retry.New(
		retry.Context(w.ctx),
		retry.Attempts(w.attempts),
		retry.Delay(50*time.Millisecond),
		retry.MaxJitter(25*time.Millisecond),
		retry.LastErrorOnly(true),
	).Do(func() error {
		a, err := Load(w.path, w.opts...)
		if err != nil {
			return err
		}
		fresh = a
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("xlogconf: reload failed: %w", err)
	}
	return fresh, nil
}

// handleError 处理 watcher 错误。
func (w *Watcher) handleError(err error) {
	w.invokeCallback(nil, fmt.Errorf("xlogconf: watch error: %w", err))
}
