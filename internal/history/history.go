// Package history keeps every committed editor state as a numbered version.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sst/lens/internal/db"
	"github.com/sst/lens/internal/lens"
	"github.com/sst/lens/internal/pubsub"
	"github.com/vmihailenco/msgpack/v5"
)

const EventVersionCreated pubsub.EventType = "history_version_created"

var (
	ErrNotFound             = errors.New("version not found")
	ErrUnknownVisualization = errors.New("unknown visualization")
)

// Version is one committed state. States are kept encoded; Restore decodes
// them through the adapters that produced them.
type Version struct {
	ID                 string
	Number             int64
	Title              string
	ActiveDatasourceID string
	VisualizationID    string
	VisualizationState []byte
	DatasourceStates   map[string][]byte
	CreatedAt          time.Time
}

type Service interface {
	pubsub.Subscriber[Version]

	Record(ctx context.Context, state lens.EditorState) (Version, error)
	Get(ctx context.Context, id string) (Version, error)
	Latest(ctx context.Context) (Version, error)
	List(ctx context.Context, limit int) ([]Version, error)
	Shutdown()
}

type service struct {
	*pubsub.Broker[Version]

	db    *db.Queries
	sqlDB *sql.DB
	mu    sync.Mutex
	now   func() time.Time
}

func NewService(conn *sql.DB) Service {
	return &service{
		Broker: pubsub.NewBroker[Version](),
		db:     db.New(conn),
		sqlDB:  conn,
		now:    time.Now,
	}
}

// Record stores the committed part of state; a staged preview is never
// recorded.
func (s *service) Record(ctx context.Context, state lens.EditorState) (Version, error) {
	params, err := encode(state)
	if err != nil {
		return Version{}, err
	}
	params.CreatedAt = s.now().UnixMilli()

	s.mu.Lock()
	defer s.mu.Unlock()

	const maxRetries = 3
	var lastErr error
	for attempt := range maxRetries {
		params.ID = uuid.New().String()
		row, err := s.create(ctx, params)
		if err == nil {
			v, err := fromDBItem(row)
			if err != nil {
				return Version{}, err
			}
			s.Publish(EventVersionCreated, v)
			return v, nil
		}
		lastErr = err
		if !strings.Contains(err.Error(), "UNIQUE constraint failed") {
			break
		}
		slog.Warn("version number taken, retrying", "attempt", attempt+1)
	}
	return Version{}, fmt.Errorf("db.CreateVersion: %w", lastErr)
}

func (s *service) create(ctx context.Context, params db.CreateVersionParams) (db.Version, error) {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return db.Version{}, fmt.Errorf("begin transaction: %w", err)
	}
	row, err := s.db.WithTx(tx).CreateVersion(ctx, params)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			slog.Error("rollback failed", "error", rbErr)
		}
		return db.Version{}, err
	}
	return row, tx.Commit()
}

func (s *service) Get(ctx context.Context, id string) (Version, error) {
	row, err := s.db.GetVersion(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Version{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Version{}, fmt.Errorf("db.GetVersion: %w", err)
	}
	return fromDBItem(row)
}

func (s *service) Latest(ctx context.Context) (Version, error) {
	row, err := s.db.GetLatestVersion(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return Version{}, ErrNotFound
	}
	if err != nil {
		return Version{}, fmt.Errorf("db.GetLatestVersion: %w", err)
	}
	return fromDBItem(row)
}

func (s *service) List(ctx context.Context, limit int) ([]Version, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.ListVersions(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("db.ListVersions: %w", err)
	}
	out := make([]Version, 0, len(rows))
	for _, row := range rows {
		v, err := fromDBItem(row)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Restore decodes the version back into an editor state. Datasources that are
// not registered any more are skipped.
func (v Version) Restore(datasources map[string]lens.Datasource, visualizations map[string]lens.Visualization) (lens.EditorState, error) {
	vis, ok := visualizations[v.VisualizationID]
	if !ok {
		return lens.EditorState{}, fmt.Errorf("%w: %s", ErrUnknownVisualization, v.VisualizationID)
	}
	var visState lens.State
	if len(v.VisualizationState) > 0 {
		st, err := vis.DecodeState(v.VisualizationState)
		if err != nil {
			return lens.EditorState{}, fmt.Errorf("version %d: %w", v.Number, err)
		}
		visState = st
	}

	states := make(lens.DatasourceStates, len(v.DatasourceStates))
	for id, raw := range v.DatasourceStates {
		ds, ok := datasources[id]
		if !ok {
			slog.Warn("skipping unregistered datasource", "datasource", id, "version", v.Number)
			continue
		}
		st, err := ds.DecodeState(raw)
		if err != nil {
			return lens.EditorState{}, fmt.Errorf("version %d: %w", v.Number, err)
		}
		states[id] = lens.DatasourceState{State: st}
	}

	return lens.EditorState{
		Title:              v.Title,
		ActiveDatasourceID: v.ActiveDatasourceID,
		DatasourceStates:   states,
		Visualization:      lens.VisualizationRef{ActiveID: v.VisualizationID, State: visState},
	}, nil
}

func encode(state lens.EditorState) (db.CreateVersionParams, error) {
	params := db.CreateVersionParams{
		Title:              state.Title,
		ActiveDatasourceID: state.ActiveDatasourceID,
		VisualizationID:    state.Visualization.ActiveID,
	}
	if state.Visualization.State != nil {
		raw, err := msgpack.Marshal(state.Visualization.State)
		if err != nil {
			return params, fmt.Errorf("encoding visualization state: %w", err)
		}
		params.VisualizationState = raw
	}

	encoded := make(map[string][]byte, len(state.DatasourceStates))
	for id, st := range state.DatasourceStates {
		raw, err := msgpack.Marshal(st.State)
		if err != nil {
			return params, fmt.Errorf("encoding datasource %s: %w", id, err)
		}
		encoded[id] = raw
	}
	raw, err := msgpack.Marshal(encoded)
	if err != nil {
		return params, fmt.Errorf("encoding datasource states: %w", err)
	}
	params.DatasourceStates = raw
	return params, nil
}

func fromDBItem(item db.Version) (Version, error) {
	v := Version{
		ID:                 item.ID,
		Number:             item.Number,
		Title:              item.Title,
		ActiveDatasourceID: item.ActiveDatasourceID,
		VisualizationID:    item.VisualizationID,
		VisualizationState: item.VisualizationState,
		CreatedAt:          time.UnixMilli(item.CreatedAt),
	}
	if err := msgpack.Unmarshal(item.DatasourceStates, &v.DatasourceStates); err != nil {
		return Version{}, fmt.Errorf("decoding datasource states of version %d: %w", item.Number, err)
	}
	return v, nil
}
