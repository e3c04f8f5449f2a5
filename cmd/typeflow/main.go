// Package main provides the CLI entrypoint for typeflow.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/RohanGottipati/typeflow/internal/config"
	"github.com/RohanGottipati/typeflow/internal/engine"
	"github.com/RohanGottipati/typeflow/internal/export"
	"github.com/RohanGottipati/typeflow/internal/historyui"
	"github.com/RohanGottipati/typeflow/internal/model"
	"github.com/RohanGottipati/typeflow/internal/predict"
	"github.com/RohanGottipati/typeflow/internal/stats"
	"github.com/RohanGottipati/typeflow/internal/store"
	"github.com/RohanGottipati/typeflow/internal/textgen"
	"github.com/RohanGottipati/typeflow/internal/tui"
)

const (
	defaultMode     = "time"
	defaultDuration = 30
	defaultWords    = 25
)

var (
	runMode        string
	runDuration    int
	runWords       int
	runNumbers     bool
	runPunctuation bool
	runTextFile    string

	historyPlain bool

	exportFormat string
	exportDir    string
	exportAll    bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "typeflow",
		Short:         "TUI typing trainer with behavioral analytics",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runSessionCmd,
	}

	rootCmd.Flags().StringVar(&runMode, "mode", defaultMode, "session mode: time, words, quote, zen, custom")
	rootCmd.Flags().IntVar(&runDuration, "duration", defaultDuration, "test duration in seconds (time/custom)")
	rootCmd.Flags().IntVar(&runWords, "words", defaultWords, "word count target (words mode)")
	rootCmd.Flags().BoolVar(&runNumbers, "numbers", false, "include numbers in generated text")
	rootCmd.Flags().BoolVar(&runPunctuation, "punctuation", false, "include punctuation in generated text")
	rootCmd.Flags().StringVar(&runTextFile, "text-file", "", "text file for custom mode")

	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newPredictCmd())
	rootCmd.AddCommand(newClearCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runSessionCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "mode", &runMode, fileCfg.Session.Mode)
	applyIntConfig(cmd, "duration", &runDuration, fileCfg.Session.Duration)
	applyIntConfig(cmd, "words", &runWords, fileCfg.Session.Words)
	applyBoolConfig(cmd, "numbers", &runNumbers, fileCfg.Session.IncludeNumbers)
	applyBoolConfig(cmd, "punctuation", &runPunctuation, fileCfg.Session.IncludePunctuation)

	mode := model.Mode(runMode)
	if err := validateSession(cmd, mode); err != nil {
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

	var customText string
	if mode == model.ModeCustom {
		raw, err := os.ReadFile(runTextFile)
		if err != nil {
			return fmt.Errorf("failed to read text file: %w", err)
		}
		customText = textgen.ProcessCustomText(string(raw), runNumbers, runPunctuation)
	}

	customUseTime := mode == model.ModeCustom && cmd.Flags().Changed("duration")
	factory := func() *engine.Session {
		cfg := buildSessionConfig(mode, customText, customUseTime)
		return engine.NewSession(cfg, engine.WithStore(st))
	}

	program := tea.NewProgram(tui.NewModel(factory), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// buildSessionConfig generates fresh text per session, so restarting a
// test never reuses the previous text.
func buildSessionConfig(mode model.Mode, customText string, customUseTime bool) model.SessionConfig {
	cfg := model.SessionConfig{
		Mode:               mode,
		IncludeNumbers:     runNumbers,
		IncludePunctuation: runPunctuation,
	}
	gen := textgen.New()
	switch mode {
	case model.ModeTime:
		cfg.TargetDuration = runDuration
		// Generous text so fast typists never run out before expiry.
		cfg.ExpectedText = gen.Generate(textgen.Options{
			IncludeNumbers:     runNumbers,
			IncludePunctuation: runPunctuation,
			TargetWordCount:    maxInt(100, runDuration*4),
		})
	case model.ModeWords:
		cfg.TargetWordCount = runWords
		cfg.ExpectedText = gen.Generate(textgen.Options{
			IncludeNumbers:     runNumbers,
			IncludePunctuation: runPunctuation,
			TargetWordCount:    runWords,
		})
	case model.ModeQuote:
		quote := gen.RandomQuote()
		cfg.ExpectedText = quote.Text
		cfg.Author = quote.Author
	case model.ModeZen:
		// No expected text; everything typed counts as correct.
	case model.ModeCustom:
		cfg.ExpectedText = customText
		if customUseTime {
			cfg.CustomUseTime = true
			cfg.TargetDuration = runDuration
		} else {
			cfg.CustomUseWords = true
			cfg.TargetWordCount = len(strings.Fields(customText))
		}
	}
	return cfg
}

func validateSession(cmd *cobra.Command, mode model.Mode) error {
	if !mode.Valid() {
		return fmt.Errorf("unknown mode %q (use time, words, quote, zen, or custom)", mode)
	}
	if runDuration <= 0 {
		return fmt.Errorf("--duration must be > 0")
	}
	if runWords <= 0 {
		return fmt.Errorf("--words must be > 0")
	}
	if mode == model.ModeCustom && runTextFile == "" {
		return fmt.Errorf("--text-file is required for custom mode")
	}
	if mode != model.ModeCustom && cmd.Flags().Changed("text-file") {
		return fmt.Errorf("--text-file only applies to custom mode")
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse session history",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().BoolVar(&historyPlain, "plain", false, "print history to stdout instead of the TUI")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if historyPlain {
		records, err := st.List()
		if err != nil {
			return fmt.Errorf("failed to load history: %w", err)
		}
		return stats.RenderHistory(cmd.OutOrStdout(), records)
	}

	program := tea.NewProgram(historyui.NewModel(st), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run history TUI: %w", err)
	}
	return nil
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export sessions as CSV or JSON",
		Args:  cobra.NoArgs,
		RunE:  runExportCmd,
	}
	cmd.Flags().StringVar(&exportFormat, "format", "csv", "export format: csv or json")
	cmd.Flags().StringVar(&exportDir, "out", config.DefaultExportDir(), "output directory")
	cmd.Flags().BoolVar(&exportAll, "all", false, "export every stored session instead of the latest")
	return cmd
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	records, err := st.List()
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("no sessions to export")
	}
	if !exportAll {
		records = records[:1]
	}
	for _, record := range records {
		path, err := export.ToFile(exportDir, record, exportFormat)
		if err != nil {
			return fmt.Errorf("failed to export session %s: %w", record.ID, err)
		}
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), path); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newPredictCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "predict",
		Short: "Predict next-session WPM",
		Args:  cobra.NoArgs,
		RunE:  runPredictCmd,
	}
}

func runPredictCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	records, err := st.List()
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	chronological := make([]model.SessionRecord, len(records))
	for i, r := range records {
		chronological[len(records)-1-i] = r
	}
	prediction, err := predict.New().Predict(chronological)
	if err != nil {
		return fmt.Errorf("failed to predict: %w", err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Predicted next-session WPM: %.1f (%.0f%% confidence, %d sessions)\n",
		prediction.PredictedWPM, prediction.Confidence, prediction.SessionCount)
	if err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all stored sessions",
		Args:  cobra.NoArgs,
		RunE:  runClearCmd,
	}
}

func runClearCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if err := st.Clear(); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), "History cleared."); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
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
	return fmt.Sprintf(`# typeflow configuration
# Uncomment a value to enable it. CLI flags override config values.

[session]
# mode = %q          # Session mode: time, words, quote, zen, custom
# duration = %d       # Test duration in seconds (time/custom)
# words = %d          # Word count target (words mode)
# numbers = false     # Include numbers in generated text
# punctuation = false # Include punctuation in generated text
`,
		defaultMode,
		defaultDuration,
		defaultWords,
	)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
