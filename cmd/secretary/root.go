package main

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/hray3182/secretary/internal/app"
	"github.com/hray3182/secretary/internal/config"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

var logLevelMap = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

type rootOptions struct {
	envFile  string
	logLevel string
	cfg      *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "secretary",
		Short: "Korean voice secretary for schedules and memos",
		Long: `secretary answers short Korean utterances such as "내일 10시에 회의 등록해줘"
or "메모해줘 우체국 들르기". It runs as a Telegram bot, a WebSocket server for
browser clients, or directly from the terminal.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.envFile)
			if err != nil {
				return err
			}
			opts.cfg = cfg

			level := opts.logLevel
			if level == "" {
				level = cfg.LogLevel
			}
			setupLogging(level)
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.envFile, "env", "e", ".env", "Env file path")
	cmd.PersistentFlags().StringVarP(&opts.logLevel, "log", "l", "", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		newBotCmd(opts),
		newServeCmd(opts),
		newReplCmd(opts),
		newSayCmd(opts),
		newBriefingCmd(opts),
		newSchedulesCmd(opts),
		newMemosCmd(opts),
	)
	return cmd
}

func setupLogging(level string) {
	lvl, ok := logLevelMap[strings.ToLower(level)]
	if !ok {
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level: lvl,
	})))
}

// openApp builds the application from the loaded config. Callers close it.
func (o *rootOptions) openApp(ctx context.Context) (*app.App, error) {
	return app.New(ctx, o.cfg)
}
