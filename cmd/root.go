// Package cmd 实现 roster 命令行：export 导出 PDF，inspect 查看任务的版式。
package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// RootCommand 是所有子命令的入口。
var RootCommand = &cobra.Command{
	Use:           filepath.Base(os.Args[0]),
	Short:         "Paginated table export",
	Long:          "Export record sets as paginated, bordered PDF tables with a repeated title and header.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute 运行命令行，出错时以非零状态退出。
func Execute() {
	if err := RootCommand.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type logParams struct {
	level  *enumFlag
	format *enumFlag
}

func newLogParams() logParams {
	return logParams{
		level:  newEnumFlag("info", []string{"debug", "info", "warn", "error"}),
		format: newEnumFlag("text", []string{"text", "json", "json-pretty"}),
	}
}

// newLogger 按命令行参数构造日志器，并附带本次运行的 ID。
func newLogger(p logParams, out io.Writer) (*logrus.Entry, error) {
	level, err := logrus.ParseLevel(p.level.String())
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(level)
	switch p.format.String() {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "json-pretty":
		logger.SetFormatter(&logrus.JSONFormatter{PrettyPrint: true})
	default:
		logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}
	return logger.WithField("run", uuid.NewString()), nil
}
