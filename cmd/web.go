package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var webPort int

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Run the web UI only",
	Run:   runWeb,
}

func init() {
	rootCmd.AddCommand(webCmd)
	webCmd.Flags().IntVar(&webPort, "port", 0, "Web UI listen port (overrides config)")
}

func runWeb(cmd *cobra.Command, args []string) {
	agent, store, cfg, err := buildAgent()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if webPort > 0 {
		cfg.Web.Port = webPort
	}

	httpServer := startWebServer(agent, cfg)
	defer shutdownWebServer(httpServer)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
}
