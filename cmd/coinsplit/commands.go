package main

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/coinsplit/internal/calculator"
	"github.com/verte-zerg/coinsplit/internal/model"
	"github.com/verte-zerg/coinsplit/internal/report"
	"github.com/verte-zerg/coinsplit/internal/store"
)

var (
	splitShares string
	splitNames  []string
	splitName   string
	splitDryRun bool

	historyLast     int
	historyClearYes bool

	profileName   string
	profileAvatar string

	achievementsAll bool

	settingsLanguage string
	settingsTheme    string
	settingsTextSize string

	storageResetYes bool

	forceColor bool
)

func newSplitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "split <amount>",
		Short: "Calculate and save a split",
		Args:  cobra.ExactArgs(1),
		RunE:  runSplitCmd,
	}
	addCalculatorFlags(cmd)
	cmd.Flags().StringVar(&splitShares, "shares", "", "comma separated percentages (percentage mode) or amounts (manual mode)")
	cmd.Flags().StringSliceVar(&splitNames, "names", nil, "participant names")
	cmd.Flags().StringVar(&splitName, "name", "", "calculation name")
	cmd.Flags().BoolVar(&splitDryRun, "dry-run", false, "print without saving")
	cmd.Flags().BoolVar(&forceColor, "color", false, "force colored output")
	return cmd
}

func runSplitCmd(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer e.close()

	e.applyCalculatorConfig(cmd)
	cfg, err := calculatorConfig()
	if err != nil {
		return err
	}
	shares, err := parseShares(splitShares)
	if err != nil {
		return err
	}

	split := e.app.Compute(calculator.Input{
		BillAmount:    args[0],
		Participants:  cfg.Participants,
		TipPercentage: cfg.TipPct,
		Mode:          cfg.Mode,
		Shares:        shares,
		Names:         splitNames,
		Name:          splitName,
	})

	p := report.NewPrinter(cmd.OutOrStdout(), forceColor)
	if err := p.Split(split); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if splitDryRun {
		return nil
	}
	res := e.app.AddSplit(cmd.Context(), split)
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "\nSaved as %s\n", res.Split.ID); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := p.Unlocked(res.Unlocked); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// parseShares reads a comma separated list. Blank entries are left unset.
func parseShares(raw string) ([]float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	shares := make([]float64, len(parts))
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			shares[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil || v < 0 || math.IsInf(v, 0) || math.IsNaN(v) {
			return nil, fmt.Errorf("invalid --shares value %q", part)
		}
		shares[i] = v
	}
	return shares, nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved calculations",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to the last N calculations")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a saved calculation",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistoryShowCmd,
	}
	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved calculation",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistoryDeleteCmd,
	}
	clear := &cobra.Command{
		Use:   "clear",
		Short: "Delete all saved calculations",
		Args:  cobra.NoArgs,
		RunE:  runHistoryClearCmd,
	}
	clear.Flags().BoolVar(&historyClearYes, "yes", false, "confirm deletion")

	cmd.AddCommand(show, del, clear)
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	if historyLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	e, err := openEnv(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer e.close()

	splits := e.app.Splits()
	if historyLast > 0 && len(splits) > historyLast {
		splits = splits[:historyLast]
	}
	return report.NewPrinter(cmd.OutOrStdout(), false).History(splits)
}

// resolveSplitID accepts a full id or a unique prefix of one.
func resolveSplitID(splits []model.Split, prefix string) (string, bool, error) {
	var matches []string
	for _, s := range splits {
		if s.ID == prefix {
			return s.ID, true, nil
		}
		if strings.HasPrefix(s.ID, prefix) {
			matches = append(matches, s.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", false, nil
	case 1:
		return matches[0], true, nil
	default:
		return "", false, fmt.Errorf("id prefix %q is ambiguous", prefix)
	}
}

func runHistoryShowCmd(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer e.close()

	id, ok, err := resolveSplitID(e.app.Splits(), args[0])
	if err != nil {
		return err
	}
	split, found := e.app.Split(id)
	if !ok || !found {
		return fmt.Errorf("no calculation with id %q", args[0])
	}
	return report.NewPrinter(cmd.OutOrStdout(), false).Split(split)
}

func runHistoryDeleteCmd(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer e.close()

	id, ok, err := resolveSplitID(e.app.Splits(), args[0])
	if err != nil {
		return err
	}
	if !ok {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "No calculation with id %s\n", args[0])
		return err
	}
	left := e.app.DeleteSplit(cmd.Context(), id)
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s, %d left\n", id, len(left))
	return err
}

func runHistoryClearCmd(cmd *cobra.Command, _ []string) error {
	if !historyClearYes {
		return fmt.Errorf("refusing to delete all calculations without --yes")
	}
	e, err := openEnv(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer e.close()

	e.app.DeleteAllSplits(cmd.Context())
	_, err = fmt.Fprintln(cmd.OutOrStdout(), "History cleared")
	return err
}

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show the profile",
		Args:  cobra.NoArgs,
		RunE:  runProfileCmd,
	}
	set := &cobra.Command{
		Use:   "set",
		Short: "Edit the profile",
		Args:  cobra.NoArgs,
		RunE:  runProfileSetCmd,
	}
	set.Flags().StringVar(&profileName, "name", "", "display name")
	set.Flags().StringVar(&profileAvatar, "avatar", "", "avatar: "+strings.Join(model.Avatars, ", "))
	cmd.AddCommand(set)
	return cmd
}

func runProfileCmd(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer e.close()
	return report.NewPrinter(cmd.OutOrStdout(), false).Profile(e.app.Profile())
}

func runProfileSetCmd(cmd *cobra.Command, _ []string) error {
	if !cmd.Flags().Changed("name") && !cmd.Flags().Changed("avatar") {
		return fmt.Errorf("nothing to change: use --name or --avatar")
	}
	if cmd.Flags().Changed("avatar") && !slices.Contains(model.Avatars, profileAvatar) {
		return fmt.Errorf("--avatar must be one of: %s", strings.Join(model.Avatars, ", "))
	}
	e, err := openEnv(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer e.close()

	profile := e.app.Profile()
	if cmd.Flags().Changed("name") {
		profile.Name = profileName
	}
	if cmd.Flags().Changed("avatar") {
		profile.Avatar = profileAvatar
	}
	profile = e.app.UpdateProfile(cmd.Context(), profile)
	return report.NewPrinter(cmd.OutOrStdout(), false).Profile(profile)
}

func newAchievementsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "achievements",
		Short: "List unlocked achievements",
		Args:  cobra.NoArgs,
		RunE:  runAchievementsCmd,
	}
	cmd.Flags().BoolVar(&achievementsAll, "all", false, "include locked achievements")
	return cmd
}

func runAchievementsCmd(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer e.close()

	profile := e.app.Profile()
	p := report.NewPrinter(cmd.OutOrStdout(), false)
	if err := p.Achievements(profile.Achievements, achievementsAll); err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "\n%d/%d unlocked\n", profile.UnlockedCount(), len(profile.Achievements))
	return err
}

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show preferences",
		Args:  cobra.NoArgs,
		RunE:  runSettingsCmd,
	}
	set := &cobra.Command{
		Use:   "set",
		Short: "Change preferences",
		Args:  cobra.NoArgs,
		RunE:  runSettingsSetCmd,
	}
	set.Flags().StringVar(&settingsLanguage, "language", "", "language: ru, en, es, de")
	set.Flags().StringVar(&settingsTheme, "theme", "", "theme: light, dark, auto")
	set.Flags().StringVar(&settingsTextSize, "text-size", "", "text size: small, medium, large")
	cmd.AddCommand(set)
	return cmd
}

func runSettingsCmd(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer e.close()
	return report.NewPrinter(cmd.OutOrStdout(), false).Settings(e.app.Settings())
}

func runSettingsSetCmd(cmd *cobra.Command, _ []string) error {
	lang := model.Language(strings.ToLower(settingsLanguage))
	theme := model.Theme(strings.ToLower(settingsTheme))
	size := model.TextSize(strings.ToLower(settingsTextSize))
	if cmd.Flags().Changed("language") && !lang.Valid() {
		return fmt.Errorf("--language must be one of: ru, en, es, de")
	}
	if cmd.Flags().Changed("theme") && !theme.Valid() {
		return fmt.Errorf("--theme must be one of: light, dark, auto")
	}
	if cmd.Flags().Changed("text-size") && !size.Valid() {
		return fmt.Errorf("--text-size must be one of: small, medium, large")
	}

	e, err := openEnv(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer e.close()

	next := e.app.Settings()
	if cmd.Flags().Changed("language") {
		next.Language = lang
	}
	if cmd.Flags().Changed("theme") {
		next.Theme = theme
	}
	if cmd.Flags().Changed("text-size") {
		next.TextSize = size
	}
	e.app.OnSettingsChange(func(s model.AppSettings) {
		e.log.Info("settings updated", "language", s.Language, "theme", s.Theme, "text_size", s.TextSize)
	})
	return report.NewPrinter(cmd.OutOrStdout(), false).Settings(e.app.UpdateSettings(cmd.Context(), next))
}

var storageRecords = map[string]string{
	"splits":   store.KeySplits,
	"profile":  store.KeyProfile,
	"settings": store.KeySettings,
}

func newStorageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "storage",
		Short: "List stored records",
		Args:  cobra.NoArgs,
		RunE:  runStorageCmd,
	}
	reset := &cobra.Command{
		Use:   "reset <splits|profile|settings>",
		Short: "Delete a stored record so it starts from defaults",
		Args:  cobra.ExactArgs(1),
		RunE:  runStorageResetCmd,
	}
	reset.Flags().BoolVar(&storageResetYes, "yes", false, "confirm deletion")
	cmd.AddCommand(reset)
	return cmd
}

func runStorageCmd(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer e.close()

	entries, err := e.store.Entries(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list records: %w", err)
	}
	return report.NewPrinter(cmd.OutOrStdout(), false).Storage(entries)
}

func runStorageResetCmd(cmd *cobra.Command, args []string) error {
	key, ok := storageRecords[strings.ToLower(args[0])]
	if !ok {
		return fmt.Errorf("unknown record %q: use splits, profile or settings", args[0])
	}
	if !storageResetYes {
		return fmt.Errorf("refusing to reset %s without --yes", args[0])
	}
	e, err := openEnv(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer e.close()

	if err := e.store.Delete(cmd.Context(), key); err != nil {
		return fmt.Errorf("failed to reset %s: %w", args[0], err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Reset %s\n", key)
	return err
}
