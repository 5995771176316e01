package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/haierkeys/inventory-audit-service/global"
	internalApp "github.com/haierkeys/inventory-audit-service/internal/app"
	"github.com/haierkeys/inventory-audit-service/internal/dto"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type historyFlags struct {
	config   string // 配置文件路径
	dump     bool   // 使用 dump 格式输出
	page     int
	pageSize int
}

// printHistory 输出历史记录，默认缩进 JSON
func printHistory(w io.Writer, list []*dto.HistoryDTO, total int, dump bool) error {
	if dump {
		global.Dump(list)
		_, err := fmt.Fprintf(w, "total: %d\n", total)
		return err
	}
	out, err := sonic.ConfigStd.MarshalIndent(map[string]any{
		"list":  list,
		"total": total,
	}, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

// runHistory 打开配置指定的数据库并查询实体历史
func runHistory(ctx context.Context, flags *historyFlags, model, id string, w io.Writer) error {
	configPath := resolveConfigPath(flags.config)
	if configPath == "" {
		return fmt.Errorf("config file not found")
	}

	cfg, _, err := internalApp.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := initDatabaseWithConfig(cfg, bootstrapLogger)
	if err != nil {
		return fmt.Errorf("initDatabase: %w", err)
	}

	app, err := internalApp.NewApp(cfg, bootstrapLogger, db)
	if err != nil {
		return fmt.Errorf("failed to create app container: %w", err)
	}
	defer func() {
		if err := app.Shutdown(ctx); err != nil {
			bootstrapLogger.Warn("app shutdown", zap.Error(err))
		}
	}()

	list, total, err := app.HistoryService.List(ctx, &dto.HistoryListRequest{
		Model:    model,
		ID:       id,
		Page:     flags.page,
		PageSize: flags.pageSize,
	})
	if err != nil {
		return err
	}
	return printHistory(w, list, total, flags.dump)
}

func init() {
	flags := new(historyFlags)

	historyCommand := &cobra.Command{
		Use:   "history <model> <id> [-c config_file] [--dump]",
		Short: "Print the audit history of a record. // 打印记录的审计历史。",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd.Context(), flags, args[0], args[1], os.Stdout)
		},
	}

	rootCmd.AddCommand(historyCommand)
	fs := historyCommand.Flags()
	fs.StringVarP(&flags.config, "config", "c", "", "config file")
	fs.BoolVar(&flags.dump, "dump", false, "print with dump instead of JSON")
	fs.IntVar(&flags.page, "page", 1, "page number")
	fs.IntVar(&flags.pageSize, "page-size", 0, "page size, 0 for all records")
}
