package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tdh/emily/internal/logger"
	"github.com/tdh/emily/internal/platforms/telegram"
)

var telegramToken string

var telegramCmd = &cobra.Command{
	Use:   "telegram",
	Short: "Run the Telegram bot only",
	Run:   runTelegram,
}

func init() {
	rootCmd.AddCommand(telegramCmd)
	telegramCmd.Flags().StringVar(&telegramToken, "token", "",
		"Telegram bot token (overrides config and TELEGRAM_BOT_TOKEN)")
}

func runTelegram(cmd *cobra.Command, args []string) {
	agent, store, cfg, err := buildAgent()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	token := telegramToken
	if token == "" {
		token = cfg.Platforms.Telegram.Token
	}

	p, err := telegram.New(telegram.Config{Token: token})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating Telegram platform: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	attachAgent(ctx, p, agent)
	if err := p.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error starting Telegram: %v\n", err)
		os.Exit(1)
	}
	defer p.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	logger.Info("[CLI] Shutting down")
}
