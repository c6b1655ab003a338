package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tdh/emily/internal/config"
	croninternal "github.com/tdh/emily/internal/cron"
	"github.com/tdh/emily/internal/intake"
	"github.com/tdh/emily/internal/logger"
	"github.com/tdh/emily/internal/platforms/discord"
	"github.com/tdh/emily/internal/platforms/telegram"
	"github.com/tdh/emily/internal/router"
	"github.com/tdh/emily/internal/webui"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run every configured platform plus the web UI",
	Run:   runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) {
	agent, store, cfg, err := buildAgent()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	var platforms []router.Platform

	if cfg.Platforms.Telegram.Token != "" {
		p, err := telegram.New(telegram.Config{Token: cfg.Platforms.Telegram.Token})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating Telegram platform: %v\n", err)
			os.Exit(1)
		}
		platforms = append(platforms, p)
	}

	if cfg.Platforms.Discord.Token != "" {
		p, err := discord.New(discord.Config{Token: cfg.Platforms.Discord.Token})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating Discord platform: %v\n", err)
			os.Exit(1)
		}
		platforms = append(platforms, p)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for _, p := range platforms {
		attachAgent(ctx, p, agent)
		if err := p.Start(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error starting %s: %v\n", p.Name(), err)
			os.Exit(1)
		}
		defer p.Stop()
	}

	scheduler := croninternal.NewScheduler(store, nil, croninternal.Config{
		CleanupSchedule:  cfg.Maintenance.CleanupSchedule,
		ReminderSchedule: cfg.Maintenance.ReminderSchedule,
		Retention:        time.Duration(cfg.Storage.RetentionDays) * 24 * time.Hour,
	})
	if err := scheduler.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Error starting scheduler: %v\n", err)
		os.Exit(1)
	}
	defer scheduler.Stop()

	httpServer := startWebServer(agent, cfg)
	defer shutdownWebServer(httpServer)

	logger.Info("[CLI] Emily is running on %d platforms", len(platforms))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	logger.Info("[CLI] Shutting down")
}

// attachAgent routes a platform's incoming messages through the agent
// and sends replies back on the same channel
func attachAgent(ctx context.Context, p router.Platform, agent *intake.Agent) {
	p.SetMessageHandler(func(msg router.Message) {
		resp, err := agent.HandleMessage(ctx, msg)
		if err != nil {
			logger.Error("[%s] Message handling failed: %v", p.Name(), err)
			return
		}
		if err := p.Send(ctx, msg.ChannelID, resp); err != nil {
			logger.Error("[%s] Send failed: %v", p.Name(), err)
		}
	})
}

func startWebServer(agent *intake.Agent, cfg *config.Config) *http.Server {
	server := webui.NewServer(agent)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Web.Port),
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("[CLI] Web UI listening on http://127.0.0.1:%d", cfg.Web.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("[CLI] Web UI server error: %v", err)
		}
	}()

	return httpServer
}

func shutdownWebServer(httpServer *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(ctx)
}
