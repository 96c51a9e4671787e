// Package main provides the CLI entrypoint for pepperoni.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/pepperoni/internal/config"
	"github.com/verte-zerg/pepperoni/internal/game"
	"github.com/verte-zerg/pepperoni/internal/model"
	"github.com/verte-zerg/pepperoni/internal/stats"
	"github.com/verte-zerg/pepperoni/internal/statsui"
	"github.com/verte-zerg/pepperoni/internal/store"
	"github.com/verte-zerg/pepperoni/internal/tui"
)

const (
	defaultDifficulty  = game.DifficultyMedium
	defaultCurveWindow = 10
)

var (
	playDifficulty string
	playMouse      bool
	playNoRecord   bool

	statsDifficulty  string
	statsSince       string
	statsLast        int
	statsCurveWindow int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pepperoni",
		Short:         "Balance pepperoni across a pizza before the clock runs out",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}
	rootCmd.Flags().StringVar(&playDifficulty, "difficulty", defaultDifficulty, "difficulty profile")
	rootCmd.Flags().BoolVar(&playMouse, "mouse", true, "enable mouse clicks on the board")
	rootCmd.Flags().BoolVar(&playNoRecord, "no-record", false, "do not save finished games")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newDifficultiesCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newDemoCmd())

	return rootCmd
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, profiles, err := loadProfiles()
	if err != nil {
		return err
	}
	applyStringConfig(cmd, "difficulty", &playDifficulty, fileCfg.Play.Difficulty)
	applyBoolConfig(cmd, "mouse", &playMouse, fileCfg.Play.Mouse)
	record := !playNoRecord
	if fileCfg.Play.Record != nil && !cmd.Flags().Changed("no-record") {
		record = *fileCfg.Play.Record
	}

	cfg := model.Config{
		Difficulty: strings.ToLower(strings.TrimSpace(playDifficulty)),
		Mouse:      playMouse,
		Record:     record,
	}
	if _, err := profiles.Lookup(cfg.Difficulty); err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	m, err := tui.NewModel(cfg, st, profiles)
	if err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}
	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	program := tea.NewProgram(m, opts...)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func loadProfiles() (config.FileConfig, game.ProfileTable, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return config.FileConfig{}, game.ProfileTable{}, fmt.Errorf("failed to load config: %w", err)
	}
	profiles, err := fileCfg.Profiles()
	if err != nil {
		return config.FileConfig{}, game.ProfileTable{}, fmt.Errorf("failed to load difficulties: %w", err)
	}
	return fileCfg, profiles, nil
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
	path := config.DefaultConfigPath()
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

func newDifficultiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "difficulties",
		Short: "List difficulty profiles",
		Args:  cobra.NoArgs,
		RunE:  runDifficultiesCmd,
	}
}

func runDifficultiesCmd(cmd *cobra.Command, _ []string) error {
	_, profiles, err := loadProfiles()
	if err != nil {
		return err
	}
	return writeProfiles(cmd.OutOrStdout(), profiles)
}

func writeProfiles(w io.Writer, profiles game.ProfileTable) error {
	for _, p := range profiles.Profiles() {
		line := fmt.Sprintf("%-8s quota=%-3d time=%s tolerance=%.0f%%", p.Name, p.Quota, game.FormatClock(p.Duration), p.Tolerance*100)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func addStatsFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&statsDifficulty, "difficulty", "", "difficulty filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
}

func statsConfigFromFlags() (model.StatsConfig, error) {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if statsLast < 0 {
		return model.StatsConfig{}, fmt.Errorf("--last must be >= 0")
	}
	if statsCurveWindow < 1 {
		return model.StatsConfig{}, fmt.Errorf("--curve-window must be >= 1")
	}
	return model.StatsConfig{
		Difficulty:  strings.ToLower(strings.TrimSpace(statsDifficulty)),
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
	}, nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Browse stats of finished games",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	addStatsFlags(cmd)
	return cmd
}

func runStatsCmd(_ *cobra.Command, _ []string) error {
	cfg, err := statsConfigFromFlags()
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	m := statsui.NewModel(st, cfg)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print a text report of finished games",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	addStatsFlags(cmd)
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := statsConfigFromFlags()
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	return writeHistory(cmd.Context(), cmd.OutOrStdout(), st, cfg)
}

func writeHistory(ctx context.Context, w io.Writer, st *store.Store, cfg model.StatsConfig) error {
	report, err := stats.BuildReport(ctx, st, cfg)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	if err := stats.RenderSummary(w, report.Sessions); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	if len(report.Sessions) == 0 {
		return nil
	}
	if err := stats.RenderCurves(w, report.Sessions, cfg.CurveWindow); err != nil {
		return fmt.Errorf("failed to write curves: %w", err)
	}
	if err := stats.RenderDifficultyTable(w, report.DifficultyAll); err != nil {
		return fmt.Errorf("failed to write difficulty table: %w", err)
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
	var b strings.Builder
	fmt.Fprintf(&b, `# pepperoni configuration
# Uncomment a value to enable it. CLI flags override config values.

[play]
# difficulty = %q      # Difficulty profile
# mouse = true              # Place with mouse clicks
# record = true             # Save finished games for stats

# Override a built-in difficulty or add a new one (new ones need all three values).
`, defaultDifficulty)
	for _, p := range game.DefaultProfiles() {
		fmt.Fprintf(&b, "# [difficulty.%s]\n# quota = %d\n# duration = %d\n# tolerance = %.1f\n", p.Name, p.Quota, p.Duration, p.Tolerance)
	}
	return b.String()
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
