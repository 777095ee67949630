// Package main provides the CLI entrypoint for typeline.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/typeline/internal/config"
	"github.com/verte-zerg/typeline/internal/corpus"
	"github.com/verte-zerg/typeline/internal/lettersui"
	"github.com/verte-zerg/typeline/internal/metric"
	"github.com/verte-zerg/typeline/internal/model"
	"github.com/verte-zerg/typeline/internal/profile"
	"github.com/verte-zerg/typeline/internal/report"
	"github.com/verte-zerg/typeline/internal/store"
	"github.com/verte-zerg/typeline/internal/tui"
	"github.com/verte-zerg/typeline/internal/wordfreq"
)

const (
	defaultLang            = "en"
	defaultLineWidth       = 50
	defaultMaxErrors       = 5
	defaultNextLines       = 3
	defaultRefillThreshold = 16
	defaultRefillBatch     = 40
	defaultWeakFactor      = 2.0
	defaultMinClean        = 0.9
	defaultMetricLo        = 0.5
	defaultMetricMid       = 0.9
	defaultMetricHi        = 0.975
	defaultCorpusSize      = 10000
)

var (
	practiceLang            string
	practiceLineWidth       int
	practiceMaxErrors       int
	practiceNextLines       int
	practiceRefillThreshold int
	practiceRefillBatch     int
	practiceWeakFactor      float64
	practiceMinClean        float64

	corpusLang  string
	corpusSize  int
	corpusForce bool

	lettersProfile string
	lettersTUI     bool

	profileLayout string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "typeline",
		Short:         "TUI typing trainer with per-letter proficiency tracking",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().StringVar(&practiceLang, "lang", defaultLang, "language code (default: en)")
	rootCmd.Flags().IntVar(&practiceLineWidth, "line-width", defaultLineWidth, "column budget per practice line")
	rootCmd.Flags().IntVar(&practiceMaxErrors, "max-errors", defaultMaxErrors, "mistakes tolerated per character")
	rootCmd.Flags().IntVar(&practiceNextLines, "next-lines", defaultNextLines, "upcoming lines shown below the active line")
	rootCmd.Flags().IntVar(&practiceRefillThreshold, "refill-threshold", defaultRefillThreshold, "word inventory level that triggers a refill")
	rootCmd.Flags().IntVar(&practiceRefillBatch, "refill-batch", defaultRefillBatch, "words sampled per refill")
	rootCmd.Flags().Float64Var(&practiceWeakFactor, "weak-factor", defaultWeakFactor, "sampling weight factor per weak letter")
	rootCmd.Flags().Float64Var(&practiceMinClean, "min-clean", defaultMinClean, "clean ratio below which a letter counts as weak")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLangsCmd())
	rootCmd.AddCommand(newCorpusCmd())
	rootCmd.AddCommand(newLettersCmd())
	rootCmd.AddCommand(newProfileCmd())

	return rootCmd
}

func loadPracticeConfig(cmd *cobra.Command) (model.Config, metric.TriplePoint, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, metric.TriplePoint{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "lang", &practiceLang, fileCfg.Practice.Lang)
	applyIntConfig(cmd, "line-width", &practiceLineWidth, fileCfg.Practice.LineWidth)
	applyIntConfig(cmd, "max-errors", &practiceMaxErrors, fileCfg.Practice.MaxErrors)
	applyIntConfig(cmd, "next-lines", &practiceNextLines, fileCfg.Practice.NextLines)
	applyIntConfig(cmd, "refill-threshold", &practiceRefillThreshold, fileCfg.Practice.RefillThreshold)
	applyIntConfig(cmd, "refill-batch", &practiceRefillBatch, fileCfg.Practice.RefillBatch)
	applyFloatConfig(cmd, "weak-factor", &practiceWeakFactor, fileCfg.Practice.WeakFactor)
	applyFloatConfig(cmd, "min-clean", &practiceMinClean, fileCfg.Practice.MinCleanPct)

	cfg := model.Config{
		Lang:            practiceLang,
		LineWidth:       practiceLineWidth,
		MaxErrors:       practiceMaxErrors,
		NextLines:       practiceNextLines,
		RefillThreshold: practiceRefillThreshold,
		RefillBatch:     practiceRefillBatch,
		WeakFactor:      practiceWeakFactor,
		MinCleanPct:     practiceMinClean,
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, metric.TriplePoint{}, err
	}

	lo, mid, hi := defaultMetricLo, defaultMetricMid, defaultMetricHi
	if fileCfg.Metric.Lo != nil {
		lo = *fileCfg.Metric.Lo
	}
	if fileCfg.Metric.Mid != nil {
		mid = *fileCfg.Metric.Mid
	}
	if fileCfg.Metric.Hi != nil {
		hi = *fileCfg.Metric.Hi
	}
	m, err := metric.New(lo, mid, hi)
	if err != nil {
		logErrf("invalid metric breakpoints, using defaults: %v\n", err)
		m = metric.Default()
	}
	return cfg, m, nil
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	cfg, m, err := loadPracticeConfig(cmd)
	if err != nil {
		return err
	}

	corpusPath := config.DefaultCorpusPath(cfg.Lang)
	src, err := corpus.LoadFile(corpusPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return corpusLoadError(cfg.Lang, corpusPath, err)
		}
		logErrf("no corpus for %q; using the built-in fallback words\n", cfg.Lang)
		logErrf("download one with: typeline corpus --lang %s\n", cfg.Lang)
		src = corpus.Default()
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

	records, active, err := st.LoadProfiles(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load profiles: %w", err)
	}
	profiles := profile.NewList(records, active, src, cfg)
	if err := profiles.Validate(); err != nil {
		return err
	}

	tuiModel := tui.NewModel(cfg, profiles, src, m)
	program := tea.NewProgram(tuiModel, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	if err := st.SaveProfiles(context.Background(), profiles.Records(), profiles.ActiveIndex()); err != nil {
		return fmt.Errorf("failed to save profiles: %w", err)
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

func newLangsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "langs",
		Short: "List downloaded corpus languages",
		Args:  cobra.NoArgs,
		RunE:  runLangsCmd,
	}
}

func runLangsCmd(cmd *cobra.Command, _ []string) error {
	corpusDir := config.DefaultCorpusDir()
	entries, err := os.ReadDir(corpusDir)
	if err != nil {
		if os.IsNotExist(err) {
			logErrf("No corpora found. Download with: typeline corpus --lang <code>\n")
			return fmt.Errorf("corpus directory does not exist")
		}
		return fmt.Errorf("failed to read corpus directory: %w", err)
	}
	langs := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".txt") {
			continue
		}
		if name == "ATTRIBUTION.txt" || name == "LICENSE.txt" {
			continue
		}
		langs = append(langs, strings.TrimSuffix(name, ".txt"))
	}
	if len(langs) == 0 {
		logErrf("No corpora found. Download with: typeline corpus --lang <code>\n")
		return fmt.Errorf("no corpora found")
	}
	sort.Strings(langs)
	for _, lang := range langs {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), lang); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newCorpusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "corpus",
		Short: "Download frequency corpora",
		RunE:  runCorpusCmd,
	}
	cmd.Flags().StringVar(&corpusLang, "lang", "", "language code or 'all' (default: en)")
	cmd.Flags().IntVar(&corpusSize, "size", defaultCorpusSize, "number of words")
	cmd.Flags().BoolVar(&corpusForce, "force", false, "overwrite existing files")
	return cmd
}

func runCorpusCmd(_ *cobra.Command, _ []string) error {
	if corpusSize <= 0 {
		return fmt.Errorf("--size must be greater than 0")
	}
	outDir := config.DefaultCorpusDir()

	cacheDir := config.DefaultWordfreqCacheDir()
	logErrln("Fetching wordfreq metadata...")
	wheel, err := wordfreq.DownloadLatestWheel(context.Background(), cacheDir)
	if err != nil {
		return fmt.Errorf("failed to download wordfreq wheel: %w", err)
	}
	if wheel.Cached {
		logErrf("Using cached wheel %s\n", wheel.Filename)
	} else {
		logErrf("Downloaded wheel %s\n", wheel.Filename)
	}

	available, err := wordfreq.ListLanguages(wheel.Path)
	if err != nil {
		return fmt.Errorf("failed to list languages: %w", err)
	}
	langs, allRequested, err := resolveCorpusLangs(corpusLang, available)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	for _, langCode := range langs {
		outPath := filepath.Join(outDir, langCode+".txt")
		if !corpusForce {
			if _, err := os.Stat(outPath); err == nil {
				return fmt.Errorf("corpus already exists: %s (use --force to overwrite)", outPath)
			} else if !os.IsNotExist(err) {
				return fmt.Errorf("failed to stat corpus: %w", err)
			}
		}

		logErrf("Extracting %s corpus...\n", langCode)
		entries, err := wordfreq.ExtractFrequencies(wheel.Path, langCode, corpusSize)
		if err != nil {
			if allRequested {
				logErrf("Skipping %s (no frequency data): %v\n", langCode, err)
				continue
			}
			return fmt.Errorf("failed to extract %s corpus: %w", langCode, err)
		}
		if err := wordfreq.WriteCorpus(outPath, entries); err != nil {
			return fmt.Errorf("failed to write %s: %w", outPath, err)
		}
		logErrf("Wrote %s\n", outPath)
	}

	if err := wordfreq.WriteAttribution(wheel.Path, outDir); err != nil {
		return fmt.Errorf("failed to write attribution: %w", err)
	}
	logErrln("Wrote ATTRIBUTION.txt and LICENSE.txt")
	return nil
}

func resolveCorpusLangs(lang string, available []string) ([]string, bool, error) {
	lang = strings.TrimSpace(strings.ToLower(lang))
	if lang == "" {
		return []string{defaultLang}, false, nil
	}
	if lang == "all" {
		return append([]string(nil), available...), true, nil
	}
	availableSet := make(map[string]struct{}, len(available))
	for _, a := range available {
		availableSet[a] = struct{}{}
	}
	parts := strings.Split(lang, ",")
	requested := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(strings.ToLower(part))
		if part == "" {
			continue
		}
		if _, ok := availableSet[part]; !ok {
			return nil, false, fmt.Errorf("unknown language %q (available: %s)", part, strings.Join(available, ", "))
		}
		requested = append(requested, part)
	}
	if len(requested) == 0 {
		return nil, false, fmt.Errorf("--lang must not be empty")
	}
	return requested, false, nil
}

func newLettersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "letters",
		Short: "Show per-letter proficiency",
		Args:  cobra.NoArgs,
		RunE:  runLettersCmd,
	}
	cmd.Flags().StringVar(&lettersProfile, "profile", "", "profile name (default: active)")
	cmd.Flags().BoolVar(&lettersTUI, "tui", false, "browse letters interactively")
	return cmd
}

func runLettersCmd(cmd *cobra.Command, _ []string) error {
	cfg, m, err := loadPracticeConfig(cmd.Root())
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

	records, active, err := st.LoadProfiles(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load profiles: %w", err)
	}
	profiles := profile.NewList(records, active, corpus.Default(), cfg)
	if lettersProfile != "" {
		if err := profiles.SelectByName(lettersProfile); err != nil {
			return err
		}
	}
	p := profiles.Active()

	if lettersTUI {
		uiModel := lettersui.NewModel(p.Name, p.Tracker, m)
		program := tea.NewProgram(uiModel, tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run letters TUI: %w", err)
		}
		return nil
	}
	return report.Letters(cmd.OutOrStdout(), p.Name, p.Tracker.CleanLetters(), m, report.TerminalWidth())
}

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage typing profiles",
	}
	addCmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a profile",
		Args:  cobra.ExactArgs(1),
		RunE:  runProfileAddCmd,
	}
	addCmd.Flags().StringVar(&profileLayout, "layout", profile.DefaultLayout, "keyboard layout label")
	cmd.AddCommand(addCmd)
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List profiles",
		Args:  cobra.NoArgs,
		RunE:  runProfileListCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "select <name>",
		Short: "Make a profile active",
		Args:  cobra.ExactArgs(1),
		RunE:  runProfileSelectCmd,
	})
	return cmd
}

func runProfileListCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	records, active, err := st.LoadProfiles(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load profiles: %w", err)
	}
	for i, rec := range records {
		marker := " "
		if i == active {
			marker = "*"
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", marker, rec.Name, rec.Layout); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func runProfileAddCmd(_ *cobra.Command, args []string) error {
	name := strings.TrimSpace(args[0])
	if name == "" {
		return fmt.Errorf("profile name must not be empty")
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

	ctx := context.Background()
	records, active, err := st.LoadProfiles(ctx)
	if err != nil {
		return fmt.Errorf("failed to load profiles: %w", err)
	}
	for _, rec := range records {
		if rec.Name == name {
			return fmt.Errorf("profile %q already exists", name)
		}
	}
	records = append(records, model.ProfileRecord{
		Name:    name,
		Layout:  profileLayout,
		Letters: map[rune]model.LetterCounts{},
	})
	if err := st.SaveProfiles(ctx, records, active); err != nil {
		return fmt.Errorf("failed to save profiles: %w", err)
	}
	return nil
}

func runProfileSelectCmd(_ *cobra.Command, args []string) error {
	name := strings.TrimSpace(args[0])

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	ctx := context.Background()
	records, _, err := st.LoadProfiles(ctx)
	if err != nil {
		return fmt.Errorf("failed to load profiles: %w", err)
	}
	for i, rec := range records {
		if rec.Name == name {
			return st.SaveProfiles(ctx, records, i)
		}
	}
	return fmt.Errorf("unknown profile %q", name)
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
	return fmt.Sprintf(`# typeline configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# lang = "en"             # Language code (default %q)
# line-width = %d         # Column budget per practice line
# max-errors = %d          # Mistakes tolerated per character
# next-lines = %d          # Upcoming lines shown below the active line
# refill-threshold = %d   # Word inventory level that triggers a refill
# refill-batch = %d       # Words sampled per refill
# weak-factor = %.1f       # Sampling weight factor per weak letter
# min-clean = %.2f         # Clean ratio below which a letter counts as weak

[metric]
# lo = %.2f                # Metric value 0 at and below this ratio
# mid = %.2f               # Metric value 0.5 at this ratio
# hi = %.3f               # Metric value 1 at and above this ratio
`,
		defaultLang,
		defaultLineWidth,
		defaultMaxErrors,
		defaultNextLines,
		defaultRefillThreshold,
		defaultRefillBatch,
		defaultWeakFactor,
		defaultMinClean,
		defaultMetricLo,
		defaultMetricMid,
		defaultMetricHi,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.LineWidth <= 0 {
		return fmt.Errorf("--line-width must be > 0")
	}
	if cfg.MaxErrors < 1 {
		return fmt.Errorf("--max-errors must be >= 1")
	}
	if cfg.NextLines < 0 {
		return fmt.Errorf("--next-lines must be >= 0")
	}
	if cfg.RefillThreshold < 0 {
		return fmt.Errorf("--refill-threshold must be >= 0")
	}
	if cfg.RefillBatch <= 0 {
		return fmt.Errorf("--refill-batch must be > 0")
	}
	if cfg.WeakFactor < 0 {
		return fmt.Errorf("--weak-factor must be >= 0")
	}
	if cfg.MinCleanPct < 0 || cfg.MinCleanPct > 1 {
		return fmt.Errorf("--min-clean must be between 0 and 1")
	}
	return nil
}

func corpusLoadError(lang, path string, err error) error {
	lines := []string{
		fmt.Sprintf("failed to load corpus: %v", err),
		fmt.Sprintf("expected corpus at: %s", path),
		fmt.Sprintf("language %q not found", lang),
		"Run: typeline langs",
		fmt.Sprintf("Download: typeline corpus --lang %s", lang),
		"Download all: typeline corpus --lang all",
	}
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
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
