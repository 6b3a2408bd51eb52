// Package app wires the services behind one workspace: persistence, status,
// telemetry and the editor store.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sst/lens/internal/adapters"
	"github.com/sst/lens/internal/config"
	"github.com/sst/lens/internal/frame"
	"github.com/sst/lens/internal/history"
	"github.com/sst/lens/internal/lens"
	"github.com/sst/lens/internal/logging"
	"github.com/sst/lens/internal/status"
	"github.com/sst/lens/internal/telemetry"
	"github.com/sst/lens/internal/tui/styles"
	"github.com/sst/lens/internal/workspace"
)

type App struct {
	Logs      logging.Service
	History   history.Service
	Status    status.Service
	Telemetry *telemetry.Service
	Store     *frame.Store

	Workspace      *workspace.Workspace
	Datasources    map[string]lens.Datasource
	Visualizations map[string]lens.Visualization

	watcherCancelFuncs []context.CancelFunc
	cancelFuncsMutex   sync.Mutex
	watcherWG          sync.WaitGroup
}

// Options selects what the app opens.
type Options struct {
	// WorkspacePath is a workspace file, or "" to discover one.
	WorkspacePath string
	WorkingDir    string
	// RestoreID starts from a recorded version instead of the workspace file.
	RestoreID string
}

func New(ctx context.Context, conn *sql.DB, opts Options) (*App, error) {
	app := &App{
		Logs:           logging.InitService(conn),
		History:        history.NewService(conn),
		Status:         status.NewService(),
		Telemetry:      telemetry.NewService(),
		Datasources:    adapters.Datasources(),
		Visualizations: adapters.Visualizations(),
	}

	path, err := workspace.Resolve(opts.WorkingDir, opts.WorkspacePath)
	if err != nil {
		return nil, err
	}
	app.Workspace, err = workspace.Load(path)
	if err != nil {
		return nil, err
	}

	initial, err := app.initialState(ctx, opts.RestoreID)
	if err != nil {
		return nil, err
	}
	app.Store = frame.NewStore(ctx, initial,
		frame.WithRecorder(app.History),
		frame.WithDatasources(app.Datasources),
		frame.WithErrorHandler(func(err error) {
			app.Status.Errorf(err, "applying change")
		}),
	)

	app.initTheme()
	return app, nil
}

func (app *App) initialState(ctx context.Context, restoreID string) (lens.EditorState, error) {
	if restoreID == "" {
		return app.Workspace.EditorState(app.Datasources, app.Visualizations)
	}
	v, err := app.History.Get(ctx, restoreID)
	if err != nil {
		return lens.EditorState{}, fmt.Errorf("restoring %s: %w", restoreID, err)
	}
	slog.Info("restoring version", "id", v.ID, "number", v.Number)
	return v.Restore(app.Datasources, app.Visualizations)
}

// initTheme sets the application theme based on the configuration
func (app *App) initTheme() {
	cfg := config.Get()
	if cfg == nil || cfg.TUI.Theme == "" {
		return
	}
	if !styles.SetTheme(cfg.TUI.Theme) {
		slog.Warn("unknown theme, using default", "theme", cfg.TUI.Theme)
		return
	}
	slog.Debug("set theme from config", "theme", cfg.TUI.Theme)
}

// WatchWorkspace reloads the workspace file on change until Shutdown.
func (app *App) WatchWorkspace(ctx context.Context, onChange func(*workspace.Workspace, error)) {
	ctx, cancel := context.WithCancel(ctx)
	app.cancelFuncsMutex.Lock()
	app.watcherCancelFuncs = append(app.watcherCancelFuncs, cancel)
	app.cancelFuncsMutex.Unlock()

	app.watcherWG.Add(1)
	go func() {
		defer app.watcherWG.Done()
		defer logging.RecoverPanic("workspace-watcher", nil)
		if err := workspace.Watch(ctx, app.Workspace.Path, onChange); err != nil {
			slog.Error("watching workspace", "path", app.Workspace.Path, "error", err)
		}
	}()
}

// Shutdown performs a clean shutdown of the application
func (app *App) Shutdown() {
	app.cancelFuncsMutex.Lock()
	for _, cancel := range app.watcherCancelFuncs {
		cancel()
	}
	app.cancelFuncsMutex.Unlock()
	app.watcherWG.Wait()

	app.Telemetry.Flush()
	app.Store.Shutdown()
	app.Status.Shutdown()
	app.History.Shutdown()
	app.Telemetry.Shutdown()
}
