package db

import "database/sql"

type Log struct {
	ID         string         `json:"id"`
	Timestamp  string         `json:"timestamp"`
	Level      string         `json:"level"`
	Message    string         `json:"message"`
	Attributes sql.NullString `json:"attributes"`
	CreatedAt  string         `json:"created_at"`
}

type Version struct {
	ID                 string `json:"id"`
	Number             int64  `json:"number"`
	Title              string `json:"title"`
	ActiveDatasourceID string `json:"active_datasource_id"`
	VisualizationID    string `json:"visualization_id"`
	VisualizationState []byte `json:"visualization_state"`
	DatasourceStates   []byte `json:"datasource_states"`
	CreatedAt          int64  `json:"created_at"`
}
