package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tdh/emily/internal/config"
	"github.com/tdh/emily/internal/intake"
	"github.com/tdh/emily/internal/logger"
	"github.com/tdh/emily/internal/persist"
	"github.com/tdh/emily/internal/router"
)

var (
	logLevel   string
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "emily",
	Short: "TDH Agency application assistant",
	Long: `Emily walks performers through their TDH Agency application:
contact details, performer category, work preferences and the
materials checklist for their role.

Modes:
  emily           Chat with Emily in the terminal
  emily serve     Run every configured platform plus the web UI
  emily telegram  Run the Telegram bot only
  emily discord   Run the Discord bot only
  emily web       Run the web UI only
  emily sessions  Inspect and manage stored applications`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	Run: runChat,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logger.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		logger.SetLevel(level)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info",
		"Log level: trace, debug, info, warn, error, fatal, panic")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Config file path (default: .emily.yaml beside the executable)")
}

// loadConfig loads the configuration, honoring the --config flag
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFromPath(configPath)
	}
	return config.Load()
}

// buildAgent opens the application store and assembles the intake
// agent from configuration. The caller closes the store.
func buildAgent() (*intake.Agent, *persist.Store, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	store, err := persist.NewStore(cfg.Storage.DBPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open store: %w", err)
	}

	provider, err := intake.NewProvider(cfg.AI)
	if err != nil {
		store.Close()
		return nil, nil, nil, fmt.Errorf("create AI provider: %w", err)
	}
	if provider == nil {
		logger.Info("[CLI] No AI provider configured, replies are fully scripted")
	}

	agent := intake.NewAgent(store, intake.Config{
		Agency:     cfg.Agency,
		Provider:   provider,
		MaxRetries: cfg.AI.MaxRetries,
		ExportDir:  cfg.Storage.ExportDir,
	})
	return agent, store, cfg, nil
}

// runChat talks to Emily on stdin/stdout
func runChat(cmd *cobra.Command, args []string) {
	agent, store, _, err := buildAgent()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx := context.Background()
	send := func(text string) {
		resp, err := agent.HandleMessage(ctx, router.Message{
			Platform:  "cli",
			ChannelID: "local",
			UserID:    "local",
			Username:  "local",
			Text:      text,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		fmt.Printf("\nEmily: %s\n\n", resp.Text)
	}

	send("")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			break
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		switch strings.ToLower(text) {
		case "exit", "quit", "bye":
			fmt.Println("Emily: Good luck with your application!")
			return
		}
		send(text)
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
