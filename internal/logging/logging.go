// Package logging persists slog records in the database and publishes them to
// the logs view.
package logging

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sst/lens/internal/db"
	"github.com/sst/lens/internal/pubsub"
)

type Log struct {
	ID         string
	Timestamp  time.Time
	Level      string
	Message    string
	Attributes map[string]string
	CreatedAt  time.Time
}

const EventLogCreated pubsub.EventType = "log_created"

type Service interface {
	pubsub.Subscriber[Log]

	Create(ctx context.Context, timestamp time.Time, level, message string, attributes map[string]string) error
	ListAll(ctx context.Context, limit int) ([]Log, error)
}

type service struct {
	*pubsub.Broker[Log]
	db db.Querier
}

var (
	globalMu      sync.RWMutex
	globalService Service
)

func NewService(q db.Querier) Service {
	return &service{
		Broker: pubsub.NewBroker[Log](),
		db:     q,
	}
}

// InitService installs the service the slog writer persists through.
func InitService(conn *sql.DB) Service {
	svc := NewService(db.New(conn))
	globalMu.Lock()
	globalService = svc
	globalMu.Unlock()
	return svc
}

// GetService returns the installed service, or nil before InitService.
func GetService() Service {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalService
}

func (s *service) Create(ctx context.Context, timestamp time.Time, level, message string, attributes map[string]string) error {
	if level == "" {
		level = "info"
	}

	var attributesJSON sql.NullString
	if len(attributes) > 0 {
		raw, err := json.Marshal(attributes)
		if err != nil {
			return fmt.Errorf("marshal log attributes: %w", err)
		}
		attributesJSON = sql.NullString{String: string(raw), Valid: true}
	}

	row, err := s.db.CreateLog(ctx, db.CreateLogParams{
		ID:         uuid.New().String(),
		Timestamp:  timestamp.UTC().Format(time.RFC3339Nano),
		Level:      level,
		Message:    message,
		Attributes: attributesJSON,
	})
	if err != nil {
		return fmt.Errorf("db.CreateLog: %w", err)
	}

	s.Publish(EventLogCreated, fromDBItem(row))
	return nil
}

func (s *service) ListAll(ctx context.Context, limit int) ([]Log, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.ListAllLogs(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("db.ListAllLogs: %w", err)
	}
	logs := make([]Log, len(rows))
	for i, row := range rows {
		logs[i] = fromDBItem(row)
	}
	return logs, nil
}

func fromDBItem(item db.Log) Log {
	log := Log{
		ID:         item.ID,
		Level:      item.Level,
		Message:    item.Message,
		Attributes: make(map[string]string),
	}
	if ts, err := time.Parse(time.RFC3339Nano, item.Timestamp); err == nil {
		log.Timestamp = ts
	}
	if ts, err := time.Parse(time.RFC3339Nano, item.CreatedAt); err == nil {
		log.CreatedAt = ts
	}
	if item.Attributes.Valid && item.Attributes.String != "" {
		if err := json.Unmarshal([]byte(item.Attributes.String), &log.Attributes); err != nil {
			slog.Error("unmarshal log attributes", "log_id", item.ID, "error", err)
		}
	}
	return log
}
