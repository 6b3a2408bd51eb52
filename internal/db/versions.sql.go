package db

import "context"

const versionColumns = `id, number, title, active_datasource_id, visualization_id, visualization_state, datasource_states, created_at`

const createVersion = `-- name: CreateVersion :one
INSERT INTO versions (
    id,
    number,
    title,
    active_datasource_id,
    visualization_id,
    visualization_state,
    datasource_states,
    created_at
) VALUES (
    ?, (SELECT COALESCE(MAX(number), 0) + 1 FROM versions), ?, ?, ?, ?, ?, ?
) RETURNING ` + versionColumns

type CreateVersionParams struct {
	ID                 string `json:"id"`
	Title              string `json:"title"`
	ActiveDatasourceID string `json:"active_datasource_id"`
	VisualizationID    string `json:"visualization_id"`
	VisualizationState []byte `json:"visualization_state"`
	DatasourceStates   []byte `json:"datasource_states"`
	CreatedAt          int64  `json:"created_at"`
}

func (q *Queries) CreateVersion(ctx context.Context, arg CreateVersionParams) (Version, error) {
	row := q.db.QueryRowContext(ctx, createVersion,
		arg.ID,
		arg.Title,
		arg.ActiveDatasourceID,
		arg.VisualizationID,
		arg.VisualizationState,
		arg.DatasourceStates,
		arg.CreatedAt,
	)
	return scanVersion(row)
}

const getVersion = `-- name: GetVersion :one
SELECT ` + versionColumns + ` FROM versions
WHERE id = ? LIMIT 1
`

func (q *Queries) GetVersion(ctx context.Context, id string) (Version, error) {
	return scanVersion(q.db.QueryRowContext(ctx, getVersion, id))
}

const getLatestVersion = `-- name: GetLatestVersion :one
SELECT ` + versionColumns + ` FROM versions
ORDER BY number DESC LIMIT 1
`

func (q *Queries) GetLatestVersion(ctx context.Context) (Version, error) {
	return scanVersion(q.db.QueryRowContext(ctx, getLatestVersion))
}

const listVersions = `-- name: ListVersions :many
SELECT ` + versionColumns + ` FROM versions
ORDER BY number DESC
LIMIT ?
`

func (q *Queries) ListVersions(ctx context.Context, limit int64) ([]Version, error) {
	rows, err := q.db.QueryContext(ctx, listVersions, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Version{}
	for rows.Next() {
		i, err := scanVersion(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanVersion(row scanner) (Version, error) {
	var i Version
	err := row.Scan(
		&i.ID,
		&i.Number,
		&i.Title,
		&i.ActiveDatasourceID,
		&i.VisualizationID,
		&i.VisualizationState,
		&i.DatasourceStates,
		&i.CreatedAt,
	)
	return i, err
}
