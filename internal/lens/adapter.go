package lens

// DataType is the type of values in a table column.
type DataType string

const (
	DataTypeString DataType = "string"
	DataTypeNumber DataType = "number"
	DataTypeDate   DataType = "date"
)

// TableChangeType describes how a suggested table relates to the current one.
type TableChangeType string

const (
	TableUnchanged TableChangeType = "unchanged"
	TableReduced   TableChangeType = "reduced"
	TableExtended  TableChangeType = "extended"
	TableInitial   TableChangeType = "initial"
)

// ColumnDescription describes one column of a suggested table.
type ColumnDescription struct {
	ID         string
	Label      string
	DataType   DataType
	IsBucketed bool
}

// TableDescription is the shape of the data a datasource can produce.
type TableDescription struct {
	LayerID    string
	Columns    []ColumnDescription
	IsMultiRow bool
	ChangeType TableChangeType
}

// Buckets returns the bucketed columns in order.
func (t TableDescription) Buckets() []ColumnDescription {
	var out []ColumnDescription
	for _, c := range t.Columns {
		if c.IsBucketed {
			out = append(out, c)
		}
	}
	return out
}

// Metrics returns the non-bucketed columns in order.
func (t TableDescription) Metrics() []ColumnDescription {
	var out []ColumnDescription
	for _, c := range t.Columns {
		if !c.IsBucketed {
			out = append(out, c)
		}
	}
	return out
}

// TableSuggestion is a datasource state paired with the table it yields.
type TableSuggestion struct {
	State        State
	Table        TableDescription
	KeptLayerIDs []string
}

// SuggestionRequest is what a visualization receives to build suggestions.
// State is only set when the visualization is the active one.
type SuggestionRequest struct {
	Table        TableSuggestion
	State        State
	KeptLayerIDs []string
}

// VisualizationSuggestion is a visualization's answer to a request.
type VisualizationSuggestion struct {
	Title       string
	Score       float64
	State       State
	PreviewIcon Icon
	Hide        bool
}

// Description is the label and icon of a visualization state.
type Description struct {
	Label string
	Icon  Icon
}

// Datasource adapts a data configuration to expressions and suggestions.
type Datasource interface {
	ID() string
	GetLayers(state State) []string
	// ToExpression returns the table expression of one layer, or "".
	ToExpression(state State, layerID string) string
	GetTableSuggestions(state State) []TableSuggestion
	DecodeState(raw []byte) (State, error)
}

// LayerRemover is implemented by datasources whose layers can be dropped one
// at a time.
type LayerRemover interface {
	RemoveLayer(state State, layerID string) State
}

// Visualization adapts a chart type to expressions and suggestions.
type Visualization interface {
	ID() string
	Title() string
	Description(state State) Description
	// ToExpression returns the full rendering fragment, or "".
	ToExpression(state State) string
	// ToPreviewExpression returns a compact fragment for previews, or "".
	ToPreviewExpression(state State) string
	GetSuggestions(req SuggestionRequest) []VisualizationSuggestion
	// InitialState returns a state for table, or nil when it cannot chart it.
	InitialState(table TableDescription) State
	DecodeState(raw []byte) (State, error)
}
