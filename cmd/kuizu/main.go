// Package main provides the CLI entrypoint for kuizu.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yonhachi/kuizu/internal/cli"
	"github.com/yonhachi/kuizu/internal/config"
	"github.com/yonhachi/kuizu/internal/deck"
	"github.com/yonhachi/kuizu/internal/model"
	"github.com/yonhachi/kuizu/internal/stats"
	"github.com/yonhachi/kuizu/internal/statsui"
	"github.com/yonhachi/kuizu/internal/store"
	"github.com/yonhachi/kuizu/internal/tui"
)

const (
	defaultQuestions   = 10
	defaultSuggestions = 5
	defaultMultiplier  = 4.0
	defaultCutoff      = 0.6
	defaultCurveWindow = 5
)

var (
	practiceQuestions   int
	practiceSuggestions int
	practiceMultiplier  float64
	practiceCutoff      float64
	practiceDeckDir     string
	practicePlain       bool

	statsDeck        string
	statsMode        string
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsPlain       bool

	generateOut   string
	generateForce bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "kuizu <deck> [romaji|kana]",
		Short:         "Weighted vocabulary quiz for romanized Japanese",
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runQuizCmd,
	}
	addPracticeFlags(rootCmd)
	rootCmd.Flags().BoolVar(&practicePlain, "plain", false, "use the line-oriented interface")

	rootCmd.AddCommand(newCLICmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func addPracticeFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&practiceQuestions, "questions", defaultQuestions, "questions per session")
	cmd.Flags().IntVar(&practiceSuggestions, "suggestions", defaultSuggestions, "max suggestions shown")
	cmd.Flags().Float64Var(&practiceMultiplier, "multiplier", defaultMultiplier, "weight multiplier for weak prompts")
	cmd.Flags().Float64Var(&practiceCutoff, "cutoff", defaultCutoff, "similarity cutoff for near misses (0-1)")
	cmd.Flags().StringVar(&practiceDeckDir, "deck-dir", "", "directory searched for bare deck names")
}

func runQuizCmd(cmd *cobra.Command, args []string) error {
	cfg, d, err := loadPracticeConfig(cmd, args)
	if err != nil {
		return err
	}

	storePath := config.DefaultDBPath()
	st, err := store.Open(storePath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if practicePlain || !term.IsTerminal(int(os.Stdout.Fd())) {
		return cli.Run(context.Background(), os.Stdin, os.Stdout, st, d, cfg)
	}

	m := tui.NewModel(cfg, st, d)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newCLICmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cli <deck> [romaji|kana]",
		Short: "Run the quiz on plain stdin/stdout",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  runCLICmd,
	}
	addPracticeFlags(cmd)
	return cmd
}

func runCLICmd(cmd *cobra.Command, args []string) error {
	cfg, d, err := loadPracticeConfig(cmd, args)
	if err != nil {
		return err
	}

	storePath := config.DefaultDBPath()
	st, err := store.Open(storePath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	return cli.Run(context.Background(), os.Stdin, os.Stdout, st, d, cfg)
}

func loadPracticeConfig(cmd *cobra.Command, args []string) (model.Config, *deck.Deck, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "questions", &practiceQuestions, fileCfg.Practice.Questions)
	applyIntConfig(cmd, "suggestions", &practiceSuggestions, fileCfg.Practice.Suggestions)
	applyFloatConfig(cmd, "multiplier", &practiceMultiplier, fileCfg.Practice.Multiplier)
	applyFloatConfig(cmd, "cutoff", &practiceCutoff, fileCfg.Practice.Cutoff)
	applyStringConfig(cmd, "deck-dir", &practiceDeckDir, fileCfg.Practice.DeckDir)

	cfg := model.Config{
		Mode:        resolveMode(args, fileCfg.Practice.Mode),
		Questions:   practiceQuestions,
		Suggestions: practiceSuggestions,
		Multiplier:  practiceMultiplier,
		Cutoff:      practiceCutoff,
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, nil, err
	}

	deckDir := practiceDeckDir
	if deckDir == "" {
		deckDir = config.DefaultDeckDir()
	}
	deckPath, err := deck.Resolve(args[0], deckDir)
	if err != nil {
		return model.Config{}, nil, deckNotFoundError(deckDir, err)
	}
	d, err := deck.Load(deckPath)
	if err != nil {
		return model.Config{}, nil, fmt.Errorf("failed to load deck %s: %w", deckPath, err)
	}
	for _, skipped := range d.Skipped {
		logErrf("skipping malformed deck line %d: %s\n", skipped.Line, skipped.Text)
	}
	return cfg, d, nil
}

// resolveMode picks the quiz mode from the positional argument, then the
// config file. Unknown values warn and fall back to romaji.
func resolveMode(args []string, configMode *string) model.Mode {
	if len(args) >= 2 {
		mode, ok := model.ParseMode(args[1])
		if !ok {
			logErrf("unknown mode %q; falling back to romaji\n", args[1])
		}
		return mode
	}
	if configMode != nil {
		mode, ok := model.ParseMode(*configMode)
		if !ok {
			logErrf("unknown mode %q in config; falling back to romaji\n", *configMode)
		}
		return mode
	}
	return model.ModeRomaji
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

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsDeck, "deck", "", "deck filter")
	cmd.Flags().StringVar(&statsMode, "mode", "", "mode filter (romaji or kana)")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a plain report instead of the browser")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "last", &statsLast, fileCfg.Stats.Last)
	applyIntConfig(cmd, "curve-window", &statsCurveWindow, fileCfg.Stats.CurveWindow)

	if statsMode != "" {
		if _, ok := model.ParseMode(statsMode); !ok {
			return fmt.Errorf("invalid --mode value %q (use romaji or kana)", statsMode)
		}
	}
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if statsCurveWindow < 1 {
		return fmt.Errorf("--curve-window must be >= 1")
	}

	cfg := model.StatsConfig{
		Deck:        statsDeck,
		Mode:        statsMode,
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
	}

	storePath := config.DefaultDBPath()
	st, err := store.Open(storePath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if statsPlain || !term.IsTerminal(int(os.Stdout.Fd())) {
		return runPlainStats(st, cfg)
	}

	m := statsui.NewModel(st, cfg)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func runPlainStats(st *store.Store, cfg model.StatsConfig) error {
	report, err := stats.BuildReport(context.Background(), st, cfg)
	if err != nil {
		return fmt.Errorf("failed to load stats: %w", err)
	}
	out := os.Stdout
	if err := stats.RenderSummary(out, report.Sessions); err != nil {
		return fmt.Errorf("failed to write stats: %w", err)
	}
	accuracySeries := stats.AccuracySeries(report.Sessions, cfg.CurveWindow)
	if trend := stats.Sparkline(accuracySeries); trend != "" {
		if _, err := fmt.Fprintf(out, "Accuracy trend: %s\n\n", trend); err != nil {
			return fmt.Errorf("failed to write stats: %w", err)
		}
	}
	if err := stats.RenderPromptTable(out, "Prompts Below 100%", report.Prompts); err != nil {
		return fmt.Errorf("failed to write stats: %w", err)
	}
	accuracy := stats.Chart{
		Title:  "Accuracy",
		Values: accuracySeries,
		Min:    0,
		Max:    100,
		Unit:   "%",
	}
	if err := accuracy.Render(out, 0, 0, false); err != nil {
		return fmt.Errorf("failed to write stats: %w", err)
	}
	pace := stats.Chart{
		Title:  "Pace (answers/min)",
		Values: stats.PaceSeries(report.Sessions, cfg.CurveWindow),
	}
	if err := pace.Render(out, 0, 0, false); err != nil {
		return fmt.Errorf("failed to write stats: %w", err)
	}
	return nil
}

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "generate <set>",
		Short:     "Write a built-in practice deck",
		Args:      cobra.ExactArgs(1),
		ValidArgs: deck.Sets(),
		RunE:      runGenerateCmd,
	}
	cmd.Flags().StringVar(&generateOut, "out", "", "output path (default: deck dir)")
	cmd.Flags().BoolVar(&generateForce, "force", false, "overwrite an existing deck")
	return cmd
}

func runGenerateCmd(_ *cobra.Command, args []string) error {
	items, err := deck.Build(args[0])
	if err != nil {
		return err
	}
	outPath := generateOut
	if outPath == "" {
		outPath = config.DefaultDeckPath(args[0])
	}
	if !generateForce {
		if _, err := os.Stat(outPath); err == nil {
			return fmt.Errorf("deck already exists: %s (use --force to overwrite)", outPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat deck: %w", err)
		}
	}
	if err := deck.Write(outPath, items); err != nil {
		return err
	}
	logErrf("Wrote %s (%d prompts)\n", outPath, len(items))
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

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# kuizu configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# mode = "romaji"         # Quiz mode when the argument is omitted
# questions = %d          # Questions per session
# suggestions = %d        # Max suggestions shown
# multiplier = %.1f       # Weight multiplier for weak prompts
# cutoff = %.2f           # Similarity cutoff for near misses (0-1)
# deck-dir = ""           # Directory searched for bare deck names

[stats]
# last = 0                # Limit reports to the last N sessions
# curve-window = %d       # Moving average window for trend curves
`,
		defaultQuestions,
		defaultSuggestions,
		defaultMultiplier,
		defaultCutoff,
		defaultCurveWindow,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.Questions <= 0 {
		return fmt.Errorf("--questions must be > 0")
	}
	if cfg.Suggestions < 0 {
		return fmt.Errorf("--suggestions must be >= 0")
	}
	if cfg.Multiplier < 0 {
		return fmt.Errorf("--multiplier must be >= 0")
	}
	if cfg.Cutoff < 0 || cfg.Cutoff > 1 {
		return fmt.Errorf("--cutoff must be between 0 and 1")
	}
	return nil
}

func deckNotFoundError(deckDir string, err error) error {
	lines := []string{
		fmt.Sprintf("%v", err),
		fmt.Sprintf("searched the working directory and: %s", deckDir),
		fmt.Sprintf("Generate a practice deck: kuizu generate <%s>", strings.Join(deck.Sets(), "|")),
	}
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
