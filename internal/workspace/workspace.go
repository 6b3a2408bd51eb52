// Package workspace loads editor workspaces from YAML files.
package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/sst/lens/internal/datasource/table"
	"github.com/sst/lens/internal/lens"
	"github.com/sst/lens/internal/suggest"
	"github.com/sst/lens/internal/visualization/xy"
	"gopkg.in/yaml.v3"
)

const Pattern = "**/*.lens.yaml"

var (
	ErrNoDatasource     = errors.New("workspace has no datasource")
	ErrNoVisualization  = errors.New("no visualization can chart the workspace")
	ErrUnknownChartType = errors.New("unknown visualization type")
)

type Workspace struct {
	Path          string        `yaml:"-"`
	Title         string        `yaml:"title"`
	Datasources   Datasources   `yaml:"datasources"`
	Visualization Visualization `yaml:"visualization"`
}

type Datasources struct {
	Table *table.State `yaml:"table"`
}

// Visualization picks the initial chart. An empty Type lets the best
// suggestion decide.
type Visualization struct {
	Type       string `yaml:"type"`
	SeriesType string `yaml:"seriesType,omitempty"`
}

func Load(path string) (*Workspace, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading workspace: %w", err)
	}
	return Parse(path, raw)
}

func Parse(path string, raw []byte) (*Workspace, error) {
	var ws Workspace
	if err := yaml.Unmarshal(raw, &ws); err != nil {
		return nil, fmt.Errorf("parsing workspace %s: %w", path, err)
	}
	ws.Path = path
	if ws.Datasources.Table == nil || len(ws.Datasources.Table.Layers) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoDatasource)
	}
	if ws.Title == "" {
		ws.Title = filepath.Base(path)
	}
	return &ws, nil
}

// Find lists workspace files below dir, sorted.
func Find(dir string) ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(dir), Pattern, doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
	if err != nil {
		return nil, fmt.Errorf("searching workspaces in %s: %w", dir, err)
	}
	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		paths = append(paths, filepath.Join(dir, filepath.FromSlash(m)))
	}
	slices.Sort(paths)
	return paths, nil
}

// Resolve returns path when set, otherwise the first workspace found in dir.
func Resolve(dir, path string) (string, error) {
	if path != "" {
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		return path, nil
	}
	found, err := Find(dir)
	if err != nil {
		return "", err
	}
	if len(found) == 0 {
		return "", fmt.Errorf("no %s file in %s: %w", Pattern, dir, fs.ErrNotExist)
	}
	return found[0], nil
}

// DatasourceStates is the committed datasource state of the workspace.
func (w *Workspace) DatasourceStates() lens.DatasourceStates {
	return lens.DatasourceStates{
		table.ID: {State: *w.Datasources.Table},
	}
}

// EditorState builds the initial committed state.
func (w *Workspace) EditorState(datasources map[string]lens.Datasource, visualizations map[string]lens.Visualization) (lens.EditorState, error) {
	st := lens.EditorState{
		Title:              w.Title,
		ActiveDatasourceID: table.ID,
		DatasourceStates:   w.DatasourceStates(),
	}

	if w.Visualization.Type == "" {
		best := suggest.GetSuggestions(suggest.Input{
			DatasourceMap:    datasources,
			DatasourceStates: st.DatasourceStates,
			VisualizationMap: visualizations,
		})
		if len(best) == 0 {
			return st, ErrNoVisualization
		}
		st.Visualization = lens.VisualizationRef{ActiveID: best[0].VisualizationID, State: best[0].VisualizationState}
		return st, nil
	}

	vis, ok := visualizations[w.Visualization.Type]
	if !ok {
		return st, fmt.Errorf("%w: %s", ErrUnknownChartType, w.Visualization.Type)
	}
	ds, ok := datasources[table.ID]
	if !ok {
		return st, fmt.Errorf("%w: %s", ErrNoDatasource, table.ID)
	}
	for _, t := range ds.GetTableSuggestions(st.DatasourceStates[table.ID].State) {
		if t.Table.ChangeType != lens.TableUnchanged {
			continue
		}
		initial := vis.InitialState(t.Table)
		if initial == nil {
			continue
		}
		if x, ok := initial.(xy.State); ok && w.Visualization.SeriesType != "" {
			x.SeriesType = xy.SeriesType(w.Visualization.SeriesType)
			initial = x
		}
		st.Visualization = lens.VisualizationRef{ActiveID: vis.ID(), State: initial}
		return st, nil
	}
	return st, fmt.Errorf("%w: %s", ErrNoVisualization, w.Visualization.Type)
}
