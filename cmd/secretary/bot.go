package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/hray3182/secretary/internal/bot"
	"github.com/hray3182/secretary/internal/scheduler"
	"github.com/spf13/cobra"
)

func newBotCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram bot and the daily briefing scheduler",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.cfg.TelegramToken == "" {
				return fmt.Errorf("TELEGRAM_TOKEN is required")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := opts.openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			b, err := bot.New(opts.cfg.TelegramToken, a)
			if err != nil {
				return err
			}

			sched := scheduler.New(b.API(), a.Assistant, opts.cfg.BriefingChatIDs, opts.cfg.BriefingTime, a.Location)
			go sched.Start(ctx)

			slog.Info("Starting bot")
			if err := b.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("bot error: %w", err)
			}
			slog.Info("Shutting down")
			return nil
		},
	}
}
