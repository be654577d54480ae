package xlogconf

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	units "github.com/docker/go-units"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/omeyang/logkit/pkg/core/xformat"
	"github.com/omeyang/logkit/pkg/core/xlevel"
	"github.com/omeyang/logkit/pkg/routing/xrouter"
	"github.com/omeyang/logkit/pkg/sink/xfilesink"
	"github.com/omeyang/logkit/pkg/sink/xsink"
	"github.com/omeyang/logkit/pkg/util/xfile"
)

// Assembly 一次装配出的全部日志组件。
type Assembly struct {
	// Formatters 按标识索引的格式器。
	Formatters map[string]xformat.Formatter

	// Sinks 按标识索引的输出端。
	Sinks map[string]xsink.Sink

	// Routers 按文档声明顺序排列的路由。
	Routers []*xrouter.Router

	closers   []io.Closer
	closeOnce sync.Once
	closeErr  error
}

// Close 关闭装配持有的文件输出端。幂等，重复调用返回首次结果。
func (a *Assembly) Close() error {
	a.closeOnce.Do(func() {
		var errs []error
		for i := len(a.closers) - 1; i >= 0; i-- {
			if err := a.closers[i].Close(); err != nil {
				errs = append(errs, err)
			}
		}
		a.closeErr = errors.Join(errs...)
	})
	return a.closeErr
}

// Assemble 把解析好的文档装配成日志组件。
//
// 装配顺序：格式器 → 输出端 → 路由。路由声明先整体校验再套用，
// 因此装配失败时注册表里的既有路由不会被改到一半。
func Assemble(doc *Document, opts ...Option) (*Assembly, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil document", ErrInvalidParameter)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}

	a := &Assembly{
		Formatters: make(map[string]xformat.Formatter),
		Sinks:      make(map[string]xsink.Sink),
	}

	if err := a.buildFormatters(doc.Formatters); err != nil {
		return nil, err
	}
	if err := a.buildAppenders(doc.Appenders, cfg); err != nil {
		// 半成品装配里已创建的输出端需要回收
		return nil, errors.Join(err, a.Close())
	}
	if err := a.applyLoggers(doc.Loggers, cfg); err != nil {
		return nil, errors.Join(err, a.Close())
	}
	return a, nil
}

// =============================================================================
// 格式器
// =============================================================================

func (a *Assembly) buildFormatters(settings []FormatterSettings) error {
	for _, fs := range settings {
		if fs.ID == "" {
			return fmt.Errorf("%w: formatter id", ErrMissingParameter)
		}
		if _, ok := a.Formatters[fs.ID]; ok {
			return fmt.Errorf("%w: duplicate formatter id %q", ErrInvalidParameter, fs.ID)
		}

		f, err := newFormatter(fs)
		if err != nil {
			return err
		}
		a.Formatters[fs.ID] = f
	}
	return nil
}

func newFormatter(fs FormatterSettings) (xformat.Formatter, error) {
	switch fs.Kind {
	case FormatterText:
		var opts []xformat.TextOption
		if fs.Layout != "" {
			opts = append(opts, xformat.WithLayout(fs.Layout))
		}
		if fs.TimeFormat != "" {
			opts = append(opts, xformat.WithTimeFormat(fs.TimeFormat))
		}
		if fs.UTC {
			opts = append(opts, xformat.WithUTC(true))
		}
		f, err := xformat.NewText(fs.ID, opts...)
		if err != nil {
			return nil, fmt.Errorf("%w: formatter %q: %w", ErrInvalidParameter, fs.ID, err)
		}
		return f, nil

	case FormatterJSON:
		var opts []xformat.JSONOption
		if fs.UTC {
			opts = append(opts, xformat.WithJSONUTC(true))
		}
		return xformat.NewJSON(fs.ID, opts...), nil

	case "":
		return nil, fmt.Errorf("%w: formatter %q: kind", ErrMissingParameter, fs.ID)

	default:
		return nil, fmt.Errorf("%w: formatter %q: unknown kind %q", ErrInvalidParameter, fs.ID, fs.Kind)
	}
}

// =============================================================================
// 输出端
// =============================================================================

func (a *Assembly) buildAppenders(settings []AppenderSettings, cfg *config) error {
	for _, as := range settings {
		if as.ID == "" {
			return fmt.Errorf("%w: appender id", ErrMissingParameter)
		}
		if _, ok := a.Sinks[as.ID]; ok {
			return fmt.Errorf("%w: duplicate appender id %q", ErrInvalidParameter, as.ID)
		}

		var (
			s   xsink.Sink
			err error
		)
		switch as.Kind {
		case AppenderFile:
			s, err = a.buildFileSink(as, cfg)
		case AppenderConsole:
			s, err = a.buildConsoleSink(as, cfg)
		case AppenderLumberjack:
			s, err = a.buildLumberjackSink(as, cfg)
		case "":
			err = fmt.Errorf("%w: appender %q: kind", ErrMissingParameter, as.ID)
		default:
			err = fmt.Errorf("%w: appender %q: unknown kind %q", ErrInvalidParameter, as.ID, as.Kind)
		}
		if err != nil {
			return err
		}
		a.Sinks[as.ID] = s
	}
	return nil
}

func (a *Assembly) buildFileSink(as AppenderSettings, cfg *config) (xsink.Sink, error) {
	if as.FilePath == "" {
		return nil, fmt.Errorf("%w: appender %q: FilePath", ErrMissingParameter, as.ID)
	}

	var opts []xfilesink.Option
	if as.Level != "" {
		lvl, err := xlevel.Parse(as.Level)
		if err != nil {
			return nil, fmt.Errorf("%w: appender %q: Level: %w", ErrInvalidParameter, as.ID, err)
		}
		opts = append(opts, xfilesink.WithThreshold(lvl))
	}
	if as.FormatterID != "" {
		f, ok := a.Formatters[as.FormatterID]
		if !ok {
			return nil, fmt.Errorf("%w: appender %q: unknown formatter id %q",
				ErrInvalidParameter, as.ID, as.FormatterID)
		}
		opts = append(opts, xfilesink.WithFormatter(f))
	}

	size, age, err := parseTriggers(as)
	if err != nil {
		return nil, err
	}
	if size > 0 {
		opts = append(opts, xfilesink.WithMaxFileSize(size))
	}
	if age > 0 {
		opts = append(opts, xfilesink.WithMaxFileAge(age))
	}
	if as.MaxRotatedFiles != nil {
		opts = append(opts, xfilesink.WithMaxRotatedFiles(*as.MaxRotatedFiles))
	}
	if as.RotateSchedule != "" {
		opts = append(opts, xfilesink.WithRotateSchedule(as.RotateSchedule))
	}
	if cfg.diag != nil {
		opts = append(opts, xfilesink.WithDiagnostics(cfg.diag))
	}
	if cfg.stats != nil {
		opts = append(opts, xfilesink.WithStats(cfg.stats))
	}

	s, err := xfilesink.New(as.ID, as.FilePath, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: appender %q: %w", ErrInvalidParameter, as.ID, err)
	}
	a.closers = append(a.closers, s)
	return s, nil
}

func (a *Assembly) buildConsoleSink(as AppenderSettings, cfg *config) (xsink.Sink, error) {
	opts, err := a.streamOptions(as, cfg)
	if err != nil {
		return nil, err
	}
	return xsink.NewConsole(as.ID, opts...), nil
}

// buildLumberjackSink 装配时间戳备份风格的文件输出端。
// 轮转、保留、压缩全部交给 lumberjack，体积单位向其 MB 取整。
func (a *Assembly) buildLumberjackSink(as AppenderSettings, cfg *config) (xsink.Sink, error) {
	if as.FilePath == "" {
		return nil, fmt.Errorf("%w: appender %q: FilePath", ErrMissingParameter, as.ID)
	}

	expanded, err := xfile.ExpandTilde(as.FilePath)
	if err != nil {
		return nil, fmt.Errorf("%w: appender %q: FilePath: %w", ErrInvalidParameter, as.ID, err)
	}
	path, err := xfile.SanitizePath(expanded)
	if err != nil {
		return nil, fmt.Errorf("%w: appender %q: FilePath: %w", ErrInvalidParameter, as.ID, err)
	}

	size, age, err := parseTriggers(as)
	if err != nil {
		return nil, err
	}

	const megabyte = 1024 * 1024
	lj := &lumberjack.Logger{
		Filename:  path,
		LocalTime: true,
	}
	if size > 0 {
		lj.MaxSize = int((size + megabyte - 1) / megabyte)
	}
	if age > 0 {
		lj.MaxAge = int((age + 24*time.Hour - 1) / (24 * time.Hour))
	}
	if as.MaxRotatedFiles != nil && *as.MaxRotatedFiles >= 0 {
		lj.MaxBackups = *as.MaxRotatedFiles
	}

	opts, err := a.streamOptions(as, cfg)
	if err != nil {
		return nil, err
	}
	s, err := xsink.NewStream(as.ID, lj, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: appender %q: %w", ErrInvalidParameter, as.ID, err)
	}
	a.closers = append(a.closers, lj)
	return s, nil
}

// streamOptions 组装流式输出端共用的 xsink 选项。
func (a *Assembly) streamOptions(as AppenderSettings, cfg *config) ([]xsink.Option, error) {
	var opts []xsink.Option
	if as.Level != "" {
		lvl, err := xlevel.Parse(as.Level)
		if err != nil {
			return nil, fmt.Errorf("%w: appender %q: Level: %w", ErrInvalidParameter, as.ID, err)
		}
		opts = append(opts, xsink.WithThreshold(lvl))
	}
	if as.FormatterID != "" {
		f, ok := a.Formatters[as.FormatterID]
		if !ok {
			return nil, fmt.Errorf("%w: appender %q: unknown formatter id %q",
				ErrInvalidParameter, as.ID, as.FormatterID)
		}
		opts = append(opts, xsink.WithFormatter(f))
	}
	if cfg.diag != nil {
		opts = append(opts, xsink.WithDiagnostics(cfg.diag))
	}
	if cfg.stats != nil {
		opts = append(opts, xsink.WithStats(cfg.stats))
	}
	return opts, nil
}

// parseTriggers 解析体积与年龄触发阈值。零值表示对应触发器关闭。
func parseTriggers(as AppenderSettings) (size int64, age time.Duration, err error) {
	if as.MaxFileSize != "" {
		size, err = units.RAMInBytes(as.MaxFileSize)
		if err != nil {
			return 0, 0, fmt.Errorf("%w: appender %q: MaxFileSize: %w",
				ErrInvalidParameter, as.ID, err)
		}
	}
	if as.MaxFileAge != "" {
		age, err = time.ParseDuration(as.MaxFileAge)
		if err != nil {
			return 0, 0, fmt.Errorf("%w: appender %q: MaxFileAge: %w",
				ErrInvalidParameter, as.ID, err)
		}
	}
	return size, age, nil
}

// =============================================================================
// 路由
// =============================================================================

// applyLoggers 先整体校验全部路由声明，再逐条套用。
// 校验通过后 Reconfigure 不会失败，注册表因此不会停在半更新状态。
func (a *Assembly) applyLoggers(settings []LoggerSettings, cfg *config) error {
	for _, ls := range settings {
		if err := a.checkLogger(ls); err != nil {
			return err
		}
	}

	for _, ls := range settings {
		var r *xrouter.Router
		if cfg.registry != nil {
			r = cfg.registry.Get(ls.Name)
		} else {
			r = xrouter.New(ls.Name)
		}

		overrides := make(map[string]any, 2)
		if ls.Level != "" {
			overrides[xrouter.KeyLevel] = ls.Level
		}
		if ls.AppenderIDs != nil {
			overrides[xrouter.KeyAppenderIds] = ls.AppenderIDs
		}
		if err := r.Reconfigure(overrides, a.Sinks); err != nil {
			return fmt.Errorf("%w: logger %q: %w", ErrInvalidParameter, ls.Name, err)
		}
		a.Routers = append(a.Routers, r)
	}
	return nil
}

func (a *Assembly) checkLogger(ls LoggerSettings) error {
	if ls.Level != "" {
		if _, err := xlevel.Parse(ls.Level); err != nil {
			return fmt.Errorf("%w: logger %q: Level: %w", ErrInvalidParameter, ls.Name, err)
		}
	}
	for _, id := range ls.AppenderIDs {
		if _, ok := a.Sinks[id]; !ok {
			return fmt.Errorf("%w: logger %q: unknown appender id %q",
				ErrInvalidParameter, ls.Name, id)
		}
	}
	return nil
}
