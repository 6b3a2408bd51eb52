package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/sst/lens/internal/adapters"
	"github.com/sst/lens/internal/format"
	"github.com/sst/lens/internal/lens"
	"github.com/sst/lens/internal/suggestion"
	"github.com/sst/lens/internal/workspace"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Print the suggestions for a workspace",
	Long: `Print the suggestion panel of a workspace without starting the TUI: the
current chart first, then every presented suggestion with its preview
expression. A workspace piped on stdin takes precedence over --workspace.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		outputFormat, err := format.Parse(mustString(cmd, "output-format"))
		if err != nil {
			return err
		}
		verbose, _ := cmd.Flags().GetBool("verbose")
		setupCLILogging(verbose)
		applyColor(mustString(cmd, "color"))

		cfg, cwd, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		ws, err := readWorkspace(cmd, cwd, cfg.Workspace)
		if err != nil {
			return err
		}

		datasources, visualizations := adapters.Datasources(), adapters.Visualizations()
		st, err := ws.EditorState(datasources, visualizations)
		if err != nil {
			return err
		}

		limit := cfg.Suggestions.Max
		if cmd.Flags().Changed("max") {
			limit, _ = cmd.Flags().GetInt("max")
		}
		ctrl := suggestion.New(
			suggestion.PropsFromState(st, datasources, visualizations, frameContext(cmd)),
			lens.DispatchFunc(func(lens.Action) {}),
			suggestion.WithMaxSuggestions(limit),
		)

		out, err := format.FormatSuggestions(entries(ctrl), outputFormat)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func entries(ctrl *suggestion.Controller) []format.Entry {
	previews := ctrl.Previews()
	out := make([]format.Entry, 0, len(previews))
	for _, p := range previews {
		e := format.Entry{
			Index:         p.Index,
			Title:         p.Title,
			Visualization: p.VisualizationID,
			Icon:          string(p.Icon),
			Selected:      p.Selected,
			Expression:    p.Expression,
		}
		if p.Suggestion != nil {
			e.Score = p.Suggestion.Score
		}
		out = append(out, e)
	}
	return out
}

func readWorkspace(cmd *cobra.Command, cwd, configured string) (*workspace.Workspace, error) {
	if data, ok := checkStdinPipe(); ok {
		return workspace.Parse(filepath.Join(cwd, "stdin.lens.yaml"), []byte(data))
	}
	path := mustString(cmd, "workspace")
	if path == "" {
		path = configured
	}
	resolved, err := workspace.Resolve(cwd, path)
	if err != nil {
		return nil, err
	}
	return workspace.Load(resolved)
}

// checkStdinPipe reads stdin when it is a pipe or a redirected file with
// content.
func checkStdinPipe() (string, bool) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return "", false
	}
	if stat.Mode()&os.ModeCharDevice != 0 {
		return "", false
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil || len(data) == 0 {
		return "", false
	}
	return string(data), true
}

// setupCLILogging sends logs to stderr, warnings only unless verbose.
func setupCLILogging(verbose bool) {
	lvl := slog.LevelWarn
	if verbose {
		lvl = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}

// applyColor forces the lipgloss color profile: "never" strips styling,
// "always" keeps it on non-terminals.
func applyColor(mode string) {
	switch mode {
	case "never":
		lipgloss.SetColorProfile(termenv.Ascii)
	case "always":
		lipgloss.SetColorProfile(termenv.TrueColor)
	}
}

func mustString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}

func init() {
	suggestCmd.Flags().StringP("output-format", "f", string(format.TextFormat), "Output format (text, json)")
	suggestCmd.Flags().Int("max", suggestion.DefaultMaxSuggestions, "Maximum number of suggestions (0 for all)")
	suggestCmd.Flags().String("color", "auto", "Color output (auto, always, never)")
	suggestCmd.Flags().Bool("verbose", false, "Log to stderr")
	rootCmd.AddCommand(suggestCmd)
}
