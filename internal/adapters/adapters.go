// Package adapters registers the built-in datasources and visualizations.
package adapters

import (
	"github.com/sst/lens/internal/datasource/table"
	"github.com/sst/lens/internal/lens"
	"github.com/sst/lens/internal/visualization/datatable"
	"github.com/sst/lens/internal/visualization/metric"
	"github.com/sst/lens/internal/visualization/xy"
)

func Datasources() map[string]lens.Datasource {
	return map[string]lens.Datasource{
		table.ID: table.New(),
	}
}

func Visualizations() map[string]lens.Visualization {
	return map[string]lens.Visualization{
		xy.ID:        xy.New(),
		datatable.ID: datatable.New(),
		metric.ID:    metric.New(),
	}
}
