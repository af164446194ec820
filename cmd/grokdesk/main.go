// Package main is the CLI entry point for grokdesk.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/grokdesk/grokdesk/internal/config"
	"github.com/grokdesk/grokdesk/internal/domain"
	"github.com/grokdesk/grokdesk/internal/host/headless"
	"github.com/grokdesk/grokdesk/internal/infra"
	"github.com/grokdesk/grokdesk/internal/shell"
	"github.com/grokdesk/grokdesk/internal/usecase"
)

var (
	// Version info (set via ldflags)
	Version   = "0.3.0"
	Commit    = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "grokdesk",
	Short: "Dedicated desktop shell for Grok",
	Long: `grokdesk wraps grok.com in a single native window. Navigation is
restricted to an allow-listed set of domains; everything else opens in the
OS default browser. Only one instance runs at a time: launching a second
one while the window is focused saves your place and restarts there.`,
	Version: Version,
	RunE:    runShell,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Prints version, commit, and build time. Use --json for machine-readable output.`,
	Run:   runVersion,
}

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Print the effective domain allow-list",
	Long:  `Shows the built-in allow-list plus any extra domains added via the config file.`,
	RunE:  runPolicy,
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "List recent navigation policy decisions",
	Long:  `Shows recently blocked requests and externally opened navigations, newest first.`,
	RunE:  runAudit,
}

var (
	configPath string
	debugLog   bool
	jsonOutput bool
	auditLimit int
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default: <data dir>/config.yaml)")
	rootCmd.Flags().BoolVar(&debugLog, "debug", false, "Verbose logging to stderr")
	versionCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output version info as JSON")
	auditCmd.Flags().IntVar(&auditLimit, "limit", 20, "Number of entries to show")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(policyCmd)
	rootCmd.AddCommand(auditCmd)
}

// loadSetup resolves config and paths; config trouble degrades to defaults,
// it never blocks startup.
func loadSetup() (*config.Config, *infra.Paths, string) {
	cfgPath := configPath
	if cfgPath == "" {
		cfgPath = infra.NewPaths().ConfigPath()
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		cfg = config.Default()
	}

	paths := infra.NewPaths()
	if cfg.DataDir != "" {
		paths = infra.NewPathsWithDataDir(infra.ExpandHome(cfg.DataDir))
	}
	return cfg, paths, cfgPath
}

func runShell(cmd *cobra.Command, args []string) error {
	cfg, paths, cfgPath := loadSetup()

	if err := paths.Ensure(); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	logger := createLogger(paths.LogPath())
	defer func() { _ = logger.Sync() }()

	pm := infra.NewProcessManager()
	gate := infra.NewFlockGate(paths.LockPath(), paths.SocketPath(), pm, logger)
	defer gate.Close()

	store := infra.NewFileRestoreStore(paths.RestorePath(), logger)
	desktop := infra.NewExecDesktop(logger)

	var audit domain.AuditLog
	if a, err := infra.NewSQLiteAuditLog(paths.AuditPath()); err != nil {
		logger.Warn("audit log unavailable", zap.Error(err))
	} else {
		audit = a
		defer a.Close()
	}

	interceptor := usecase.NewInterceptor(cfg.AllowList(), desktop, audit, logger)

	// The built-in host loads without a rendering engine; embedding hosts
	// implement domain.WindowHost and slot in here.
	windowHost := headless.New(nil, logger)

	controller := shell.NewController(shell.ControllerConfig{
		DefaultURL: cfg.DefaultURL,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
	}, windowHost, interceptor, store, logger)

	// Graceful shutdown on signals; the coordinator's quit path funnels
	// through the same cancel so ceding the primary role is an ordinary
	// shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("received shutdown signal")
		cancel()
	}()

	coordinator := shell.NewCoordinator(gate, controller, store, interceptor, desktop, cancel, logger)

	role, err := coordinator.Start()
	if err != nil {
		return fmt.Errorf("failed to resolve instance role: %w", err)
	}
	if role == domain.RoleSecondary {
		// The acquisition attempt already signalled the primary.
		fmt.Println("grokdesk is already running")
		return nil
	}

	go func() {
		if err := config.Watch(ctx, cfgPath, logger, func(c *config.Config) {
			interceptor.SetAllowList(c.AllowList())
		}); err != nil {
			logger.Warn("config watch unavailable", zap.Error(err))
		}
	}()

	if err := controller.CreateWindow(); err != nil {
		return err
	}
	defer controller.Destroy()

	if err := coordinator.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runPolicy(cmd *cobra.Command, args []string) error {
	cfg, _, _ := loadSetup()

	fmt.Println("Allowed domains (suffix match, https only):")
	for _, entry := range cfg.AllowList().Entries() {
		fmt.Printf("  - %s\n", entry)
	}
	fmt.Printf("\nDefault destination: %s\n", cfg.DefaultURL)
	return nil
}

func runAudit(cmd *cobra.Command, args []string) error {
	_, paths, _ := loadSetup()

	log, err := infra.NewSQLiteAuditLog(paths.AuditPath())
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer log.Close()

	entries, err := log.Recent(auditLimit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No recorded policy decisions.")
		return nil
	}

	for _, e := range entries {
		fmt.Printf("%s  %-16s %-10s %s\n",
			e.At.Format("2006-01-02 15:04:05"), e.Decision, e.Point, e.URL)
	}
	return nil
}

func createLogger(logPath string) *zap.Logger {
	if debugLog {
		logger, _ := zap.NewDevelopment()
		return logger
	}

	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{logPath}
	cfg.ErrorOutputPaths = []string{logPath}
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		// Fallback to stderr if file logging fails
		logger, _ = zap.NewProduction()
	}
	return logger
}

func runVersion(cmd *cobra.Command, args []string) {
	if jsonOutput {
		fmt.Printf(`{"version":"%s","commit":"%s","build_time":"%s"}`+"\n",
			Version, Commit, BuildTime)
	} else {
		fmt.Printf("grokdesk %s (commit: %s, built: %s)\n",
			Version, Commit, BuildTime)
	}
}
