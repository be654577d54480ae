// logkitctl 是 logkit 日志设施的配置运维命令行工具。
//
// 用法:
//
//	logkitctl [全局选项] <命令> [命令参数]
//
// 全局选项:
//
//	-t, --timeout  命令超时时间 (默认: 30s, 上限: 5m)
//
// 命令:
//
//	validate <config>...   校验配置文件（解析 + 完整装配，不触碰日志目标）
//	rotate <config>        对配置中的文件输出端强制执行一次轮转
//	probe <config>         装配配置并发发送探测消息，报告输出端故障
//	help                   显示帮助信息
//
// validate 命令说明:
//
//	对每个配置文件执行完整装配：解析文档、构建格式器与输出端、校验
//	路由声明。文件输出端惰性创建目标文件，因此校验不会在磁盘上留下
//	任何日志文件。可一次传入多个配置文件，逐个报告结果。
//
// rotate 命令说明:
//
//	装配配置后对其中的文件输出端调用一次手动轮转，把现存的活动文件
//	推入备份链。可对正在运行的应用的日志目标执行：应用侧的输出端在
//	下次写入时发现活动文件已被改名，会自动重建新的活动文件。
//	路径上尚无日志文件的输出端为空操作。
//
// probe 命令说明:
//
//	装配配置后为每个路由启动一个并发写入器，按指定级别发送探测消息，
//	并收集输出端产生的诊断事件。全部写入完成后报告故障汇总；存在
//	任何故障时退出码为 1。探测消息会真实写入配置的日志目标。
//
// 退出码:
//
//	0: 命令执行成功（validate: 全部配置有效; probe: 无输出端故障）
//	1: 命令执行失败（配置无效、轮转失败、探测发现故障）
//	2: 参数错误（缺少配置文件、无效级别、未知命令等）
//
// 示例:
//
//	logkitctl validate logging.yaml            # 校验单个配置
//	logkitctl validate dev.yaml prod.yaml      # 批量校验
//	logkitctl rotate prod.yaml                 # 轮转全部文件输出端
//	logkitctl rotate -a audit prod.yaml        # 仅轮转 id 为 audit 的输出端
//	logkitctl probe -c 128 -l Warning dev.yaml # 每个路由发送 128 条 Warning 探测
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v3"
)

// defaultTimeout 默认命令超时时间。
const defaultTimeout = 30 * time.Second

// 版本信息（可通过 -ldflags 注入，例如:
//
//	go build -ldflags "-X main.Version=1.0.0 -X main.GitCommit=$(git rev-parse --short HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// ）。
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

func main() {
	os.Exit(run())
}

// createApp 创建 CLI 应用。
func createApp() *cli.Command {
	return &cli.Command{
		Name:    "logkitctl",
		Usage:   "logkit 日志设施配置运维工具",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:    "timeout",
				Aliases: []string{"t"},
				Usage:   "命令超时时间",
				Value:   defaultTimeout,
			},
		},
		Commands:       createCommands(),
		DefaultCommand: "help",
		Authors: []any{
			"XKit Team",
		},
		// 设计决策: 禁止 urfave/cli 直接调用 os.Exit，
		// 由 run() 统一处理退出码映射，确保与文档退出码契约一致。
		ExitErrHandler: func(_ context.Context, _ *cli.Command, err error) {
			// ExitCoder 错误（如未知命令）的消息需在此输出，
			// 替代 HandleExitCoder 的默认 os.Exit 行为。
			if _, ok := err.(cli.ExitCoder); ok {
				fmt.Fprintln(os.Stderr, err)
			}
		},
		Description: `logkitctl 操作 logkit 的 YAML/JSON 日志配置，用于在部署
流水线中校验配置、在运维窗口中轮转日志文件、在上线前探测输出端。

主要命令:
  validate <config>...   解析并完整装配配置，报告格式器/输出端/路由数量
  rotate <config>        把文件输出端的活动文件推入备份链
    --appender, -a       仅轮转指定 id 的输出端
  probe <config>         并发写入探测消息并收集输出端诊断
    --count, -c          每个路由发送的消息条数 (默认: 64)
    --level, -l          探测消息级别 (默认: Error)
    --message, -m        探测消息前缀 (默认: "logkitctl probe")`,
	}
}

func run() int {
	app := createApp()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 设置信号处理
	setupSignalHandler(cancel)

	if err := app.Run(ctx, os.Args); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			return exitErr.code
		}
		var usageErr *usageError
		if errors.As(err, &usageErr) {
			fmt.Fprintf(os.Stderr, "参数错误: %v\n", usageErr)
			return 2
		}
		// CLI 框架产生的参数错误（如未知 flag、未知命令）也返回退出码 2，
		// 与文档契约"参数错误 → 退出码 2"保持一致。
		if isCLIUsageError(err) {
			// ExitErrHandler 或 flag 解析器已向 stderr 输出错误详情，此处仅设置退出码
			return 2
		}
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		return 1
	}

	return 0
}
