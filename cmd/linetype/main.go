// Package main provides the CLI entrypoint for linetype.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/linetype/internal/config"
	"github.com/verte-zerg/linetype/internal/logging"
	"github.com/verte-zerg/linetype/internal/model"
	"github.com/verte-zerg/linetype/internal/practice"
	"github.com/verte-zerg/linetype/internal/stats"
	"github.com/verte-zerg/linetype/internal/statsui"
	screen "github.com/verte-zerg/linetype/internal/term"
	"github.com/verte-zerg/linetype/internal/textfile"
	"github.com/verte-zerg/linetype/internal/window"
)

const (
	defaultFile     = "simple.txt"
	defaultLines    = 3
	defaultLogLevel = "info"
	dotEnvPath      = ".env"
)

var (
	practiceFile    string
	practiceLines   int
	practiceDetails bool
	practiceReview  bool
	logFile         string
	logLevel        string
	configPath      string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "linetype",
		Short:         "Line-by-line typing practice in the terminal",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().StringVarP(&practiceFile, "file", "f", defaultFile, "text file to practice on")
	rootCmd.Flags().IntVarP(&practiceLines, "lines", "l", defaultLines, "number of lines shown at once")
	rootCmd.Flags().BoolVar(&practiceDetails, "details", false, "print a per-line table after the summary")
	rootCmd.Flags().BoolVar(&practiceReview, "review", false, "open an interactive review after the session")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "write debug logs to this file")
	rootCmd.Flags().StringVar(&logLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath(), "config file (TOML, or YAML by extension)")

	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	reader, err := textfile.Open(cfg.File)
	if err != nil {
		return fmt.Errorf("failed to open text file: %w", err)
	}
	defer func() {
		if cerr := reader.Close(); cerr != nil {
			logErrf("failed to close %s: %v\n", cfg.File, cerr)
		}
	}()
	slider, err := window.NewSlider(reader, cfg.Lines)
	if err != nil {
		return err
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("stdin is not a terminal")
	}

	logger, syncLog, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer func() {
		_ = syncLog()
	}()
	logger = logger.With("file", cfg.File, "window", cfg.Lines)

	scr, err := screen.Open()
	if err != nil {
		return fmt.Errorf("failed to open terminal: %w", err)
	}
	summary, err := practice.New(scr, logger).Run(slider)
	scr.Close()
	if err != nil {
		logger.Errorw("session failed", "error", err)
		return err
	}

	out := cmd.OutOrStdout()
	opts := stats.ReportOptions{Details: cfg.Details, Color: stats.ShouldUseColor(out)}
	if err := stats.WriteReport(out, summary, opts); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if cfg.Review {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			logErrln("skipping review: stdout is not a terminal")
			return nil
		}
		return statsui.Run(summary)
	}
	return nil
}

// resolveConfig layers the config file, the environment and explicit flags,
// in increasing order of priority, over the flag defaults.
func resolveConfig(cmd *cobra.Command) (model.Config, error) {
	fileCfg, err := config.LoadConfig(configPath)
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "file", &practiceFile, fileCfg.Practice.File)
	applyIntConfig(cmd, "lines", &practiceLines, fileCfg.Practice.Lines)
	applyBoolConfig(cmd, "details", &practiceDetails, fileCfg.Practice.Details)
	applyBoolConfig(cmd, "review", &practiceReview, fileCfg.Practice.Review)
	applyStringConfig(cmd, "log-file", &logFile, fileCfg.Log.File)
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)

	if err := config.LoadDotEnv(dotEnvPath); err != nil {
		return model.Config{}, err
	}
	envCfg, err := config.ApplyEnv(config.EnvConfig{
		File:     practiceFile,
		Lines:    practiceLines,
		Details:  practiceDetails,
		Review:   practiceReview,
		LogFile:  logFile,
		LogLevel: logLevel,
	})
	if err != nil {
		return model.Config{}, err
	}
	applyStringConfig(cmd, "file", &practiceFile, &envCfg.File)
	applyIntConfig(cmd, "lines", &practiceLines, &envCfg.Lines)
	applyBoolConfig(cmd, "details", &practiceDetails, &envCfg.Details)
	applyBoolConfig(cmd, "review", &practiceReview, &envCfg.Review)
	applyStringConfig(cmd, "log-file", &logFile, &envCfg.LogFile)
	applyStringConfig(cmd, "log-level", &logLevel, &envCfg.LogLevel)

	return model.Config{
		File:     practiceFile,
		Lines:    practiceLines,
		Details:  practiceDetails,
		Review:   practiceReview,
		LogFile:  logFile,
		LogLevel: logLevel,
	}, nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := configPath
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		logErrf("Wrote %s\n", path)
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# linetype configuration
# Uncomment a value to enable it. LINETYPE_* environment variables override
# config values; CLI flags override both.

[practice]
# file = %q       # Text file to practice on
# lines = %d              # Lines shown at once
# details = false         # Print a per-line table after the summary
# review = false          # Open an interactive review after the session

[log]
# file = ""               # Debug log file; empty disables logging
# level = %q          # debug, info, warn or error
`,
		defaultFile,
		defaultLines,
		defaultLogLevel,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.Lines <= 0 {
		return fmt.Errorf("--lines must be > 0")
	}
	if strings.TrimSpace(cfg.File) == "" {
		return fmt.Errorf("--file must not be empty")
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
