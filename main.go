package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"masq/config"
	"masq/dispatch"
	"masq/model"
	"masq/storage"
	"masq/target"
	"masq/theme"
)

var (
	configDir  string
	verbose    bool
	themeFile  string
	targets    []string
	outputPath string
	colors     []string
	force      bool
	appVersion = "0.1.0"

	logger = log.New(io.Discard)
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	nameStyle = lipgloss.NewStyle().Bold(true)
)

var rootCmd = &cobra.Command{
	Use:   "masq",
	Short: "masq – apply one color theme to many applications",
	Long:  "Masq applies a shared base color theme to multiple target applications, toolkits, or libraries.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := log.InfoLevel
		if verbose {
			level = log.DebugLevel
		}
		logger = log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
			Prefix: "masq",
			Level:  level,
		})
	},
	SilenceErrors: true,
	SilenceUsage:  true,
}

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply a theme to one or more targets",
	Long:  "Read a masq theme file and apply it to each target in order. A failing or unknown target does not stop the others.",
	Args:  cobra.NoArgs,
	RunE:  runApply,
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a masq theme file from six colors",
	Long: "Generate a masq theme file. Colors are given in the order " +
		strings.Join(theme.Keys, ", ") + " as 0xRRGGBB, #RRGGBB or decimal values, either comma separated " +
		"or as separate arguments after --colors.",
	Args: cobra.MaximumNArgs(len(theme.Keys)),
	RunE: runGenerate,
}

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List available targets",
	Args:  cobra.NoArgs,
	RunE:  runTargets,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
	Long:  "Manage masq configuration files.",
}

var configGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a default configuration file",
	Long:  "Generate a default masq.config file in the config directory.",
	Args:  cobra.NoArgs,
	RunE:  runConfigGenerate,
}

func init() {
	rootCmd.Version = appVersion
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Config directory (default: $"+config.EnvConfigDir+" or the user config dir)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	applyCmd.Flags().StringVarP(&themeFile, "file", "f", "", "The masq file of the theme to apply")
	applyCmd.Flags().StringSliceVarP(&targets, "targets", "t", nil, "Comma separated list of targets to apply the theme to")
	_ = applyCmd.MarkFlagRequired("file")
	_ = applyCmd.MarkFlagRequired("targets")

	generateCmd.Flags().StringVarP(&outputPath, "output", "o", "", "The masq file to generate")
	generateCmd.Flags().StringSliceVarP(&colors, "colors", "c", nil, "The six theme colors: "+strings.ToUpper(strings.Join(theme.Keys, ",")))
	generateCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	_ = generateCmd.MarkFlagRequired("output")
	_ = generateCmd.MarkFlagRequired("colors")

	configCmd.AddCommand(configGenerateCmd)
	rootCmd.AddCommand(applyCmd, generateCmd, targetsCmd, configCmd)
}

func resolveConfigDir() (string, error) {
	if configDir != "" {
		return filepath.Abs(configDir)
	}
	return config.DefaultDir()
}

func loadRegistry() (*target.Registry, error) {
	dir, err := resolveConfigDir()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger.Debug("loaded config", "dir", cfg.Dir)

	return target.Default(cfg, storage.New(cfg.Dir), target.ExecRunner, logger), nil
}

func runApply(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}
	return applyTheme(cmd.OutOrStdout(), cmd.ErrOrStderr(), themeFile, targets, reg)
}

// applyTheme loads the theme and dispatches it. Read and parse failures abort
// before any backend runs; per-target failures are printed and summarized in
// the returned error.
func applyTheme(out, errOut io.Writer, file string, names []string, reg dispatch.Lookuper) error {
	if len(names) == 0 {
		return errors.New("at least one target is required")
	}

	t, err := theme.Load(file)
	if err != nil {
		return err
	}
	logger.Debug("parsed theme", "file", file, "theme", t)
	fmt.Fprintf(out, "Applying theme from %s\n", file)

	d := dispatch.New(reg,
		dispatch.WithLogger(logger),
		dispatch.WithStartHook(func(name string, b target.Backend) {
			fmt.Fprintf(out, "Applying theme to %s (%s)\n", nameStyle.Render(name), b.Name())
		}),
		dispatch.WithObserver(func(o model.Outcome) {
			printOutcome(out, errOut, o)
		}),
	)

	report := d.Run(t, names)
	counts := report.Counts()
	logger.Debug("dispatch finished",
		"applied", counts[model.StatusApplied],
		"unknown", counts[model.StatusUnknownTarget],
		"failed", counts[model.StatusApplyFailed])

	return dispatch.Err(report)
}

func printOutcome(out, errOut io.Writer, o model.Outcome) {
	switch o.Status {
	case model.StatusApplied:
		fmt.Fprintf(out, "  %s %s\n", okStyle.Render("ok"), o.Target)
	case model.StatusUnknownTarget:
		fmt.Fprintf(errOut, "%s %v\n", warnStyle.Render("unknown:"), o.Err)
	default:
		fmt.Fprintf(errOut, "%s error applying theme to %s: %v\n", failStyle.Render("failed:"), o.Backend, o.Err)
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	t, err := theme.FromColors(append(append([]string{}, colors...), args...))
	if err != nil {
		return err
	}

	path, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("theme file already exists: %s (use --force to overwrite)", path)
		}
	}

	if err := theme.Generate(path, t); err != nil {
		return err
	}
	logger.Debug("generated theme", "path", path, "theme", t)

	fmt.Fprintf(cmd.OutOrStdout(), "Generated theme file: %s\n", path)
	return nil
}

func runTargets(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, name := range reg.Names() {
		b, _ := reg.Lookup(name)
		fmt.Fprintf(out, "%-8s %s\n", name, b.Name())
	}
	return nil
}

func runConfigGenerate(cmd *cobra.Command, args []string) error {
	dir, err := resolveConfigDir()
	if err != nil {
		return err
	}

	cfg := config.Default(dir)

	cfgPath := config.Path(dir)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("config file already exists: %s", cfgPath)
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Generated default config file: %s\n", cfgPath)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
