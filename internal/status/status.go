// Package status carries short user-facing messages to the status bar.
package status

import (
	"fmt"
	"time"

	"github.com/sst/lens/internal/pubsub"
)

type Level string

const (
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
	LevelDebug Level = "debug"
)

// StatusMessage is one status bar line.
type StatusMessage struct {
	Level     Level         `json:"level"`
	Message   string        `json:"message"`
	Timestamp time.Time     `json:"timestamp"`
	TTL       time.Duration `json:"ttl"`
}

const defaultTTL = 4 * time.Second

type Service interface {
	pubsub.Subscriber[StatusMessage]
	Info(message string)
	Warn(message string)
	Error(message string)
	Debug(message string)
	Errorf(err error, format string, args ...any)
	Shutdown()
}

type service struct {
	*pubsub.Broker[StatusMessage]
	now func() time.Time
}

func NewService() Service {
	return &service{
		Broker: pubsub.NewBroker[StatusMessage](),
		now:    time.Now,
	}
}

func (s *service) Info(message string)  { s.publish(LevelInfo, message) }
func (s *service) Warn(message string)  { s.publish(LevelWarn, message) }
func (s *service) Error(message string) { s.publish(LevelError, message) }
func (s *service) Debug(message string) { s.publish(LevelDebug, message) }

// Errorf publishes "<message>: <err>" at error level.
func (s *service) Errorf(err error, format string, args ...any) {
	s.publish(LevelError, fmt.Sprintf(format, args...)+": "+err.Error())
}

func (s *service) publish(level Level, message string) {
	ttl := defaultTTL
	if level == LevelError {
		ttl *= 2
	}
	s.Publish(pubsub.EventTypeCreated, StatusMessage{
		Level:     level,
		Message:   message,
		Timestamp: s.now(),
		TTL:       ttl,
	})
}

// Expired reports whether the message should no longer be shown at now.
func (m StatusMessage) Expired(now time.Time) bool {
	return m.TTL > 0 && now.Sub(m.Timestamp) > m.TTL
}
