package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/omeyang/logkit/pkg/config/xlogconf"
	"github.com/omeyang/logkit/pkg/core/xlevel"
	"github.com/omeyang/logkit/pkg/observability/xdiag"
	"github.com/omeyang/logkit/pkg/routing/xrouter"
	"github.com/omeyang/logkit/pkg/sink/xfilesink"
	"github.com/omeyang/logkit/pkg/sink/xsink"
)

// maxTimeout 命令超时时间上限。
const maxTimeout = 5 * time.Minute

// diagRecorderSize probe 命令诊断记录器的容量，远大于常见配置的输出端数量。
const diagRecorderSize = 256

// probe 命令的缺省参数。
const (
	defaultProbeCount   = 64
	defaultProbeLevel   = "Error"
	defaultProbeMessage = "logkitctl probe"
)

// exitError 表示需要非零退出码但已完成输出的场景。
// 命令内部已完成所有输出，main 只需设置退出码。
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// usageError 表示调用方参数错误，由 main 映射为退出码 2。
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

// isCLIUsageError 识别 CLI 框架自身产生的参数错误。
// urfave/cli 对未知 flag 与未知命令返回普通 error，无专用类型可供断言，
// 只能按消息特征识别。
func isCLIUsageError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "flag provided but not defined") ||
		strings.Contains(msg, "No help topic for")
}

// 创建所有子命令。
func createCommands() []*cli.Command {
	return []*cli.Command{
		createValidateCommand(),
		createRotateCommand(),
		createProbeCommand(),
	}
}

// createValidateCommand 创建 validate 子命令。
func createValidateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Aliases:   []string{"v"},
		Usage:     "校验配置文件（解析并完整装配，不触碰日志目标）",
		ArgsUsage: "<config>...",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			runCtx, cancel, err := commandContext(ctx, cmd.Duration("timeout"))
			if err != nil {
				return err
			}
			defer cancel()
			return cmdValidate(runCtx, cmd.Args().Slice())
		},
	}
}

// createRotateCommand 创建 rotate 子命令。
func createRotateCommand() *cli.Command {
	return &cli.Command{
		Name:      "rotate",
		Aliases:   []string{"r"},
		Usage:     "对配置中的文件输出端强制执行一次轮转",
		ArgsUsage: "<config>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "appender",
				Aliases: []string{"a"},
				Usage:   "仅轮转指定 id 的输出端",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			runCtx, cancel, err := commandContext(ctx, cmd.Duration("timeout"))
			if err != nil {
				return err
			}
			defer cancel()
			return cmdRotate(runCtx, cmd.Args().First(), cmd.String("appender"))
		},
	}
}

// createProbeCommand 创建 probe 子命令。
func createProbeCommand() *cli.Command {
	return &cli.Command{
		Name:      "probe",
		Aliases:   []string{"p"},
		Usage:     "并发发送探测消息并报告输出端故障",
		ArgsUsage: "<config>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "count",
				Aliases: []string{"c"},
				Usage:   "每个路由发送的消息条数",
				Value:   defaultProbeCount,
			},
			&cli.StringFlag{
				Name:    "level",
				Aliases: []string{"l"},
				Usage:   "探测消息级别 (Debug/Info/Warning/Error/Fatal)",
				Value:   defaultProbeLevel,
			},
			&cli.StringFlag{
				Name:    "message",
				Aliases: []string{"m"},
				Usage:   "探测消息前缀",
				Value:   defaultProbeMessage,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			runCtx, cancel, err := commandContext(ctx, cmd.Duration("timeout"))
			if err != nil {
				return err
			}
			defer cancel()
			return cmdProbe(runCtx, cmd.Args().First(),
				cmd.Int("count"), cmd.String("level"), cmd.String("message"))
		},
	}
}

// commandContext 按全局超时选项包装命令上下文。
func commandContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc, error) {
	if timeout <= 0 || timeout > maxTimeout {
		return nil, nil, &usageError{msg: fmt.Sprintf("超时时间必须在 (0, %v] 内: %v", maxTimeout, timeout)}
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	return runCtx, cancel, nil
}

// cmdValidate 校验配置文件。
//
// 装配过程不触碰文件系统：文件输出端惰性创建目标文件，因此校验
// 不会留下日志文件。每个配置独立报告，任一无效则退出码为 1。
func cmdValidate(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return &usageError{msg: "validate 命令需要指定配置文件路径"}
	}

	invalid := 0
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}

		// 独立注册表让批量校验互不串扰，也不改动进程默认注册表。
		assembly, err := xlogconf.Load(path, xlogconf.WithRegistry(xrouter.NewRegistry()))
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: 无效: %v\n", path, err)
			invalid++
			continue
		}

		fmt.Printf("%s: 有效 (%d 格式器, %d 输出端, %d 路由)\n",
			path, len(assembly.Formatters), len(assembly.Sinks), len(assembly.Routers))
		_ = assembly.Close() //nolint:errcheck // 校验装配未写入任何数据
	}

	if invalid > 0 {
		return &exitError{code: 1}
	}
	return nil
}

// cmdRotate 对配置中的文件输出端强制执行一次轮转。
//
// 可对正在运行的应用的日志目标执行：活动文件被改名后，应用侧的
// 输出端在下次写入时会发现路径上已无活动文件并自动重建。
func cmdRotate(ctx context.Context, path, appenderID string) error {
	if path == "" {
		return &usageError{msg: "rotate 命令需要指定配置文件路径"}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	assembly, err := xlogconf.Load(path, xlogconf.WithRegistry(xrouter.NewRegistry()))
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}
	defer func() { _ = assembly.Close() }() //nolint:errcheck // 轮转装配未写入任何数据

	matched, rotated, skipped, failed := 0, 0, 0, 0
	for _, id := range sortedSinkIDs(assembly.Sinks) {
		if appenderID != "" && id != appenderID {
			continue
		}
		matched++

		fs, ok := assembly.Sinks[id].(*xfilesink.FileSink)
		if !ok {
			if appenderID != "" {
				return &usageError{msg: fmt.Sprintf("输出端 %q 不是文件输出端", appenderID)}
			}
			skipped++
			continue
		}

		if rotateErr := fs.Rotate(); rotateErr != nil {
			fmt.Fprintf(os.Stderr, "%s: 轮转失败: %v\n", id, rotateErr)
			failed++
			continue
		}
		fmt.Printf("%s: 已轮转 (%s)\n", id, fs.Path())
		rotated++
	}

	if appenderID != "" && matched == 0 {
		return &usageError{msg: fmt.Sprintf("输出端 %q 未在配置中声明", appenderID)}
	}
	if failed > 0 {
		return &exitError{code: 1}
	}

	fmt.Printf("轮转完成: %d 个文件输出端已轮转, %d 个非文件输出端跳过\n", rotated, skipped)
	return nil
}

// cmdProbe 装配配置并发发送探测消息，报告输出端故障。
//
// 每个路由一个写入器，消息按指定级别穿过阈值过滤与分发路径，
// 真实写入配置的日志目标。输出端故障经诊断记录器收集后汇总报告。
func cmdProbe(ctx context.Context, path string, count int, levelName, message string) error {
	if path == "" {
		return &usageError{msg: "probe 命令需要指定配置文件路径"}
	}
	if count <= 0 {
		return &usageError{msg: fmt.Sprintf("消息条数必须为正: %d", count)}
	}
	level, err := xlevel.Parse(levelName)
	if err != nil {
		return &usageError{msg: fmt.Sprintf("无效级别 %q", levelName)}
	}

	recorder, err := xdiag.NewRecorder(diagRecorderSize, 0)
	if err != nil {
		return err
	}

	assembly, err := xlogconf.Load(path,
		xlogconf.WithRegistry(xrouter.NewRegistry()),
		xlogconf.WithDiagnostics(recorder.Handler(nil)),
	)
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}

	if len(assembly.Routers) == 0 {
		_ = assembly.Close() //nolint:errcheck // 空装配无数据可冲刷
		fmt.Println("配置未声明任何路由，无可探测目标")
		return nil
	}

	g, writeCtx := errgroup.WithContext(ctx)
	for _, router := range assembly.Routers {
		g.Go(func() error {
			for i := 0; i < count; i++ {
				if err := writeCtx.Err(); err != nil {
					return err
				}
				router.Submit(level, fmt.Sprintf("%s %s #%d", message, router.Name(), i))
			}
			return nil
		})
	}
	writeErr := g.Wait()
	closeErr := assembly.Close()
	if writeErr != nil {
		return writeErr
	}

	if recorder.Len() > 0 {
		fmt.Fprintf(os.Stderr, "探测发现 %d 个输出端故障:\n", recorder.Len())
		for _, sinkID := range recorder.Sinks() {
			if d, ok := recorder.Last(sinkID); ok {
				fmt.Fprintf(os.Stderr, "  %s: %s 失败: %v\n", sinkID, d.Op, d.Err)
			}
		}
		return &exitError{code: 1}
	}
	if closeErr != nil {
		return fmt.Errorf("关闭输出端失败: %w", closeErr)
	}

	fmt.Printf("探测完成: %d 个路由 × %d 条消息, %d 个输出端无故障\n",
		len(assembly.Routers), count, len(assembly.Sinks))
	return nil
}

// sortedSinkIDs 返回装配中输出端 id 的有序列表，保证报告顺序稳定。
func sortedSinkIDs(sinks map[string]xsink.Sink) []string {
	ids := make([]string, 0, len(sinks))
	for id := range sinks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// setupSignalHandler 设置信号处理。
// 设计决策: 第一次信号优雅取消，第二次信号强制退出（退出码 130 = 128 + SIGINT）。
// 当命令阻塞时，用户可通过再次 Ctrl+C 强制退出。
func setupSignalHandler(cancel context.CancelFunc) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel() // 第一次信号: 优雅取消

		<-sigCh
		signal.Stop(sigCh) // 回收订阅
		os.Exit(130)       // 第二次信号: 强制退出
	}()
}
