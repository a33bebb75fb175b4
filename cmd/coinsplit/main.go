// Package main provides the CLI entrypoint for coinsplit.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/coinsplit/internal/config"
	"github.com/verte-zerg/coinsplit/internal/historyui"
	"github.com/verte-zerg/coinsplit/internal/logging"
	"github.com/verte-zerg/coinsplit/internal/model"
	"github.com/verte-zerg/coinsplit/internal/state"
	"github.com/verte-zerg/coinsplit/internal/store"
	"github.com/verte-zerg/coinsplit/internal/tui"
)

const (
	defaultParticipants = 4
	defaultTip          = 10.0
	defaultMode         = string(model.ModeEqual)
)

var (
	dbPath string

	calcParticipants int
	calcTip          float64
	calcMode         string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "coinsplit",
		Short:         "Split bills and track achievements",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE:          runCalculatorCmd,
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (default: XDG data dir)")
	addCalculatorFlags(rootCmd)

	rootCmd.AddCommand(newSplitCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newProfileCmd())
	rootCmd.AddCommand(newAchievementsCmd())
	rootCmd.AddCommand(newSettingsCmd())
	rootCmd.AddCommand(newBrowseCmd())
	rootCmd.AddCommand(newStorageCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func addCalculatorFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&calcParticipants, "participants", "p", defaultParticipants, "number of participants")
	cmd.Flags().Float64VarP(&calcTip, "tip", "t", defaultTip, "tip percentage")
	cmd.Flags().StringVarP(&calcMode, "mode", "m", defaultMode, "split mode: equal, percentage, manual")
}

// env is the state shared by commands that touch the database.
type env struct {
	store *store.Store
	app   *state.App
	cfg   config.FileConfig
	log   *slog.Logger
}

// openEnv loads config and opens the database. Logs go to logOut; Bubble Tea
// screens pass io.Discard.
func openEnv(ctx context.Context, logOut io.Writer) (*env, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	level := ""
	if fileCfg.Log.Level != nil {
		level = *fileCfg.Log.Level
	}
	log := logging.Setup(logOut, level)

	path := dbPath
	if path == "" && fileCfg.Storage.Path != nil {
		path = config.ExpandHome(*fileCfg.Storage.Path)
	}
	if path == "" {
		path = config.DefaultDBPath()
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	log.Debug("opened database", "path", path)
	return &env{
		store: st,
		app:   state.New(ctx, st, state.Options{Logger: log}),
		cfg:   fileCfg,
		log:   log,
	}, nil
}

func (e *env) close() {
	if cerr := e.store.Close(); cerr != nil {
		e.log.Warn("failed to close db", "err", cerr)
	}
}

func (e *env) applyCalculatorConfig(cmd *cobra.Command) {
	applyIntConfig(cmd, "participants", &calcParticipants, e.cfg.Calculator.Participants)
	applyFloatConfig(cmd, "tip", &calcTip, e.cfg.Calculator.Tip)
	applyStringConfig(cmd, "mode", &calcMode, e.cfg.Calculator.Mode)
}

func calculatorConfig() (model.Config, error) {
	cfg := model.Config{
		Participants: calcParticipants,
		TipPct:       calcTip,
		Mode:         model.SplitMode(strings.ToLower(strings.TrimSpace(calcMode))),
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg model.Config) error {
	if cfg.Participants < 1 {
		return fmt.Errorf("--participants must be > 0")
	}
	if cfg.TipPct < 0 || cfg.TipPct > 100 {
		return fmt.Errorf("--tip must be between 0 and 100")
	}
	if !cfg.Mode.Valid() {
		return fmt.Errorf("--mode must be one of: equal, percentage, manual")
	}
	return nil
}

func runCalculatorCmd(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd.Context(), io.Discard)
	if err != nil {
		return err
	}
	defer e.close()

	e.applyCalculatorConfig(cmd)
	cfg, err := calculatorConfig()
	if err != nil {
		return err
	}

	m := tui.NewModel(cmd.Context(), e.app, cfg)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse history, profile and achievements",
		Args:  cobra.NoArgs,
		RunE:  runBrowseCmd,
	}
}

func runBrowseCmd(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd.Context(), io.Discard)
	if err != nil {
		return err
	}
	defer e.close()

	m := historyui.NewModel(cmd.Context(), e.app)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run browser: %w", err)
	}
	return nil
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
		if err := os.WriteFile(path, []byte(config.Template), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
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

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}
