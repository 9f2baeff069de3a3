package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/derailed/tview"

	"github.com/ajramos/mailassist-tui/internal/api"
	"github.com/ajramos/mailassist-tui/internal/config"
	"github.com/ajramos/mailassist-tui/internal/tui"
	"github.com/ajramos/mailassist-tui/internal/version"
)

func main() {
	configPathFlag := flag.String("config", "", "Path to JSON configuration file (default: ~/.config/mailassist/config.json)")
	serverFlag := flag.String("server", "", "MailAssist backend base URL (overrides server.base_url)")
	versionFlag := flag.Bool("version", false, "Show version information and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s\n\n", version.GetVersionString())
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Examples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                   # Run against http://127.0.0.1:8000\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --server http://mail.lan:8000     # Use another backend\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --config custom.json              # Use custom configuration\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  %s  Override default config file path\n", config.EnvConfigPath)
	}

	flag.Parse()

	if *versionFlag {
		fmt.Println(version.GetDetailedVersionString())
		return
	}

	configPath := config.ResolveConfigPath(*configPathFlag)
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Printf("Warning: could not load configuration %s: %v", configPath, err)
		cfg = config.DefaultConfig()
	}

	logger, logFile, err := tui.OpenLogger(getLogPath(cfg))
	if err != nil {
		log.Printf("Warning: could not open log file: %v", err)
	}
	defer func() { _ = logFile.Close() }()
	logger.Printf("starting %s", version.GetVersionString())

	theme, err := config.LoadTheme(cfg.GetThemePath())
	if err != nil {
		logger.Printf("theme: %v, using built-in colors", err)
		theme = config.DefaultColors()
	}

	baseURL := getServerURL(*serverFlag, cfg)
	logger.Printf("backend: %s (timeout %s)", baseURL, cfg.GetServerTimeout())
	client := api.NewClient(baseURL, cfg.GetServerTimeout(), logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	app := tview.NewApplication()
	screen := tui.NewScreen(app, theme, logger)
	controller := tui.NewController(client, client, screen, tui.Options{
		InboxLimit:      cfg.GetInboxLimit(),
		ConnectDefaults: cfg.ConnectionDefaults(),
		Logger:          logger,
	})
	screen.SetDispatcher(controller.Dispatch)

	go func() {
		<-ctx.Done()
		app.Stop()
	}()

	controller.Start(ctx)
	if err := app.Run(); err != nil {
		logger.Printf("application error: %v", err)
		fmt.Fprintf(os.Stderr, "Error running application: %v\n", err)
		os.Exit(1)
	}
	logger.Printf("exiting")
}

// getServerURL returns the backend URL: the --server flag when set, otherwise
// the configured base URL.
func getServerURL(flagValue string, cfg *config.Config) string {
	if v := strings.TrimSpace(flagValue); v != "" {
		return v
	}
	if v := strings.TrimSpace(cfg.Server.BaseURL); v != "" {
		return v
	}
	return config.DefaultConfig().Server.BaseURL
}

// getLogPath returns the configured log file, or ~/.config/mailassist/mailassist.log.
func getLogPath(cfg *config.Config) string {
	if cfg.LogFile != "" {
		return config.ExpandPath(cfg.LogFile)
	}
	return config.DefaultLogPath()
}
