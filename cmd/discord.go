package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tdh/emily/internal/logger"
	"github.com/tdh/emily/internal/platforms/discord"
)

var discordToken string

var discordCmd = &cobra.Command{
	Use:   "discord",
	Short: "Run the Discord bot only",
	Run:   runDiscord,
}

func init() {
	rootCmd.AddCommand(discordCmd)
	discordCmd.Flags().StringVar(&discordToken, "token", "",
		"Discord bot token (overrides config and DISCORD_BOT_TOKEN)")
}

func runDiscord(cmd *cobra.Command, args []string) {
	agent, store, cfg, err := buildAgent()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	token := discordToken
	if token == "" {
		token = cfg.Platforms.Discord.Token
	}

	p, err := discord.New(discord.Config{Token: token})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating Discord platform: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	attachAgent(ctx, p, agent)
	if err := p.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error starting Discord: %v\n", err)
		os.Exit(1)
	}
	defer p.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	logger.Info("[CLI] Shutting down")
}
