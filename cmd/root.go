package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/sst/lens/internal/app"
	"github.com/sst/lens/internal/config"
	"github.com/sst/lens/internal/db"
	"github.com/sst/lens/internal/lens"
	"github.com/sst/lens/internal/logging"
	"github.com/sst/lens/internal/pubsub"
	"github.com/sst/lens/internal/tui"
	"github.com/sst/lens/internal/workspace"
	"golang.org/x/sync/errgroup"
)

// Version is set at build time.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "lens",
	Short: "A terminal editor for charting aggregated tables",
	Long: `lens opens a workspace of aggregated tables, charts it, and keeps a row of
suggested alternative charts at hand. Preview a suggestion, compare it with the
current chart, then apply it or go back.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flag("version").Changed {
			fmt.Println(Version)
			return nil
		}

		cfg, cwd, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		// Connect DB, this will also run migrations
		conn, err := db.Connect(ctx, cfg.DataDirectory())
		if err != nil {
			return err
		}
		defer conn.Close()

		lvl := new(slog.LevelVar)
		if cfg.Debug {
			lvl.Set(slog.LevelDebug)
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(logging.NewSlogWriter(), &slog.HandlerOptions{Level: lvl})))

		a, err := app.New(ctx, conn, appOptions(cmd, cfg, cwd))
		if err != nil {
			slog.Error("failed to create app", "error", err)
			return err
		}

		zone.NewGlobal()
		program := tea.NewProgram(
			tui.New(tui.Deps{
				Store:          a.Store,
				Status:         a.Status,
				Telemetry:      a.Telemetry,
				History:        a.History,
				Logs:           a.Logs,
				Datasources:    a.Datasources,
				Visualizations: a.Visualizations,
				MaxSuggestions: cfg.Suggestions.Max,
				Frame:          frameContext(cmd),
			}),
			tea.WithAltScreen(),
			tea.WithMouseCellMotion(),
		)

		a.WatchWorkspace(ctx, func(ws *workspace.Workspace, err error) {
			program.Send(tui.WorkspaceChangedMsg{Workspace: ws, Err: err})
		})

		ch, cancelSubs := setupSubscriptions(ctx, a)

		tuiCtx, tuiCancel := context.WithCancel(ctx)
		var tuiWg sync.WaitGroup
		tuiWg.Add(1)
		go func() {
			defer tuiWg.Done()
			defer logging.RecoverPanic("TUI-message-handler", func() {
				attemptTUIRecovery(program)
			})

			for {
				select {
				case <-tuiCtx.Done():
					slog.Info("TUI message handler shutting down")
					return
				case msg, ok := <-ch:
					if !ok {
						slog.Info("TUI message channel closed")
						return
					}
					program.Send(msg)
				}
			}
		}()

		cleanup := func() {
			cancelSubs()
			a.Shutdown()
			tuiCancel()
			tuiWg.Wait()
			slog.Info("all goroutines cleaned up")
		}

		result, err := program.Run()
		cleanup()
		if err != nil {
			slog.Error("TUI error", "error", err)
			return fmt.Errorf("TUI error: %w", err)
		}
		slog.Info("TUI exited", "result", result)
		return nil
	},
}

func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	debug, _ := cmd.Flags().GetBool("debug")
	cwd, _ := cmd.Flags().GetString("cwd")
	if cwd != "" {
		if err := os.Chdir(cwd); err != nil {
			return nil, "", fmt.Errorf("failed to change directory: %w", err)
		}
	}
	if cwd == "" {
		c, err := os.Getwd()
		if err != nil {
			return nil, "", fmt.Errorf("failed to get current working directory: %w", err)
		}
		cwd = c
	}
	cfg, err := config.Load(cwd, debug)
	if err != nil {
		return nil, "", err
	}
	return cfg, cwd, nil
}

func appOptions(cmd *cobra.Command, cfg *config.Config, cwd string) app.Options {
	ws, _ := cmd.Flags().GetString("workspace")
	if ws == "" {
		ws = cfg.Workspace
	}
	restore, _ := cmd.Flags().GetString("restore")
	return app.Options{WorkspacePath: ws, WorkingDir: cwd, RestoreID: restore}
}

func frameContext(cmd *cobra.Command) lens.FrameContext {
	query, _ := cmd.Flags().GetString("query")
	filters, _ := cmd.Flags().GetStringSlice("filter")
	return lens.FrameContext{Query: query, Filters: filters}
}

// attemptTUIRecovery tries to recover the TUI after a panic
func attemptTUIRecovery(program *tea.Program) {
	slog.Info("attempting to recover TUI after panic")
	program.Quit()
}

func setupSubscriber[T any](
	ctx context.Context,
	g *errgroup.Group,
	name string,
	subscriber func(context.Context) <-chan pubsub.Event[T],
	outputCh chan<- tea.Msg,
) {
	g.Go(func() error {
		defer logging.RecoverPanic(fmt.Sprintf("subscription-%s", name), nil)

		subCh := subscriber(ctx)
		if subCh == nil {
			slog.Warn("subscription channel is nil", "name", name)
			return nil
		}

		for {
			select {
			case event, ok := <-subCh:
				if !ok {
					slog.Debug("subscription channel closed", "name", name)
					return nil
				}

				var msg tea.Msg = event

				select {
				case outputCh <- msg:
				case <-time.After(2 * time.Second):
					slog.Warn("message dropped due to slow consumer", "name", name)
				case <-ctx.Done():
					return nil
				}
			case <-ctx.Done():
				return nil
			}
		}
	})
}

func setupSubscriptions(parentCtx context.Context, a *app.App) (chan tea.Msg, func()) {
	ch := make(chan tea.Msg, 100)

	ctx, cancel := context.WithCancel(parentCtx)
	g, ctx := errgroup.WithContext(ctx)

	setupSubscriber(ctx, g, "frame", a.Store.Subscribe, ch)
	setupSubscriber(ctx, g, "status", a.Status.Subscribe, ch)
	setupSubscriber(ctx, g, "history", a.History.Subscribe, ch)
	setupSubscriber(ctx, g, "logging", a.Logs.Subscribe, ch)

	cleanupFunc := func() {
		slog.Debug("cancelling all subscriptions")
		cancel()

		waitCh := make(chan struct{})
		go func() {
			defer logging.RecoverPanic("subscription-cleanup", nil)
			_ = g.Wait()
			close(waitCh)
		}()

		select {
		case <-waitCh:
			slog.Debug("all subscription goroutines completed")
		case <-time.After(5 * time.Second):
			slog.Warn("timed out waiting for some subscription goroutines to complete")
		}
		close(ch)
	}
	return ch, cleanupFunc
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Debug")
	rootCmd.PersistentFlags().StringP("cwd", "c", "", "Current working directory")
	rootCmd.PersistentFlags().StringP("workspace", "w", "", "Workspace file (default: first **/*.lens.yaml)")
	rootCmd.PersistentFlags().String("query", "", "Search query handed to previews")
	rootCmd.PersistentFlags().StringSlice("filter", nil, "Filters handed to previews")

	rootCmd.Flags().BoolP("version", "v", false, "Version")
	rootCmd.Flags().String("restore", "", "Start from a recorded version id")
}
