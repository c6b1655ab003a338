package cmd

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/tdh/emily/internal/flow"
	"github.com/tdh/emily/internal/persist"
)

var (
	sessionsExportDir   string
	sessionsCleanupDays int
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Inspect and manage stored applications",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all applications",
	Run:   runSessionsList,
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one application in full",
	Args:  cobra.ExactArgs(1),
	Run:   runSessionsShow,
}

var sessionsExportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Export an application as a JSON snapshot",
	Args:  cobra.ExactArgs(1),
	Run:   runSessionsExport,
}

var sessionsCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove unfinished applications older than the retention window",
	Run:   runSessionsCleanup,
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsShowCmd)
	sessionsCmd.AddCommand(sessionsExportCmd)
	sessionsCmd.AddCommand(sessionsCleanupCmd)

	sessionsExportCmd.Flags().StringVar(&sessionsExportDir, "dir", "",
		"Export directory (default: export_dir from config)")
	sessionsCleanupCmd.Flags().IntVar(&sessionsCleanupDays, "days", 0,
		"Retention in days (default: retention_days from config)")
}

func openStore() (*persist.Store, string, int) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	store, err := persist.NewStore(cfg.Storage.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		os.Exit(1)
	}
	return store, cfg.Storage.ExportDir, cfg.Storage.RetentionDays
}

func findApplication(store *persist.Store, arg string) *persist.Application {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid application id %q\n", arg)
		os.Exit(1)
	}
	apps, err := store.ListApplications()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	for _, app := range apps {
		if app.ID == id {
			full, err := store.GetApplication(app.Platform, app.ChannelID, app.UserID)
			if err == nil {
				return full
			}
			if !errors.Is(err, sql.ErrNoRows) {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		}
	}
	fmt.Fprintf(os.Stderr, "Error: no application with id %d\n", id)
	os.Exit(1)
	return nil
}

func runSessionsList(cmd *cobra.Command, args []string) {
	store, _, _ := openStore()
	defer store.Close()

	apps, err := store.ListApplications()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(apps) == 0 {
		fmt.Println("No applications stored.")
		return
	}

	fmt.Printf("%-5s %-10s %-22s %-20s %-18s %-6s %s\n",
		"ID", "PLATFORM", "NAME", "ROLE", "STAGE", "READY", "UPDATED")
	for _, app := range apps {
		ready := "no"
		if app.Ready {
			ready = "yes"
		}
		fmt.Printf("%-5d %-10s %-22s %-20s %-18s %-6s %s\n",
			app.ID, app.Platform, truncate(app.Name, 22), truncate(app.Role, 20),
			app.Stage, ready, app.UpdatedAt.Format("2006-01-02 15:04"))
	}
}

func runSessionsShow(cmd *cobra.Command, args []string) {
	store, _, _ := openStore()
	defer store.Close()

	app := findApplication(store, args[0])

	fmt.Printf("Application %d (%s)\n", app.ID, app.Platform)
	fmt.Printf("  Stage:     %s\n", app.Stage)
	fmt.Printf("  Name:      %s\n", app.Name)
	fmt.Printf("  Email:     %s\n", app.Email)
	fmt.Printf("  Phone:     %s\n", app.Phone)
	fmt.Printf("  Spotlight: %s\n", app.Spotlight)
	fmt.Printf("  Role:      %s\n", app.Role)
	if app.HasRepresentation != nil && *app.HasRepresentation {
		fmt.Printf("  Agency:    %s\n", app.Agency)
	}
	if app.Role != "" {
		fmt.Println("  Materials:")
		for _, mat := range flow.RequiredMaterials(app.Role) {
			content, ok := app.Materials[mat.Name]
			switch {
			case ok && content != "":
				fmt.Printf("    %-15s %s\n", mat.Label+":", content)
			case ok:
				fmt.Printf("    %-15s (skipped)\n", mat.Label+":")
			default:
				fmt.Printf("    %-15s (missing)\n", mat.Label+":")
			}
		}
	}
	if len(app.Preferences) > 0 {
		fmt.Println("  Preferences:")
		for _, key := range flow.PreferenceOrder() {
			if v, ok := app.Preferences[key]; ok {
				answer := "no"
				if v {
					answer = "yes"
				}
				fmt.Printf("    %-20s %s\n", flow.PreferenceLabel(key)+":", answer)
			}
		}
	}
	fmt.Printf("  Messages:  %d\n", len(app.Messages))
}

func runSessionsExport(cmd *cobra.Command, args []string) {
	store, exportDir, _ := openStore()
	defer store.Close()

	app := findApplication(store, args[0])

	dir := sessionsExportDir
	if dir == "" {
		dir = exportDir
	}

	path, err := store.ExportJSON(app, dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Exported to %s\n", path)
}

func runSessionsCleanup(cmd *cobra.Command, args []string) {
	store, _, retentionDays := openStore()
	defer store.Close()

	days := sessionsCleanupDays
	if days <= 0 {
		days = retentionDays
	}

	n, err := store.CleanupStale(time.Duration(days) * 24 * time.Hour)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Removed %d stale applications\n", n)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
