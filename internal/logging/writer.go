package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-logfmt/logfmt"
)

type slogWriter struct {
	service func() Service
}

// NewSlogWriter decodes logfmt records written by a slog text handler and
// persists them through the installed service. Records written before
// InitService are dropped.
func NewSlogWriter() io.Writer {
	return &slogWriter{service: GetService}
}

func (w *slogWriter) Write(p []byte) (int, error) {
	d := logfmt.NewDecoder(bytes.NewReader(p))
	for d.ScanRecord() {
		var (
			timestamp time.Time
			level     string
			message   string
		)
		attributes := make(map[string]string)

		for d.ScanKeyval() {
			key, value := string(d.Key()), string(d.Value())
			switch key {
			case "time":
				parsed, err := time.Parse(time.RFC3339Nano, value)
				if err != nil {
					parsed = time.Now().UTC()
				}
				timestamp = parsed
			case "level":
				level = strings.ToLower(value)
			case "msg":
				message = value
			default:
				attributes[key] = value
			}
		}
		if d.Err() != nil {
			return len(p), fmt.Errorf("logfmt.ScanRecord: %w", d.Err())
		}
		if timestamp.IsZero() {
			timestamp = time.Now()
		}

		svc := w.service()
		if svc == nil {
			continue
		}
		if err := svc.Create(context.Background(), timestamp, level, message, attributes); err != nil {
			// slog would loop back here
			fmt.Fprintf(os.Stderr, "logging: failed to persist log: %v\n", err)
		}
	}
	if d.Err() != nil {
		return len(p), fmt.Errorf("logfmt.ScanRecord: %w", d.Err())
	}
	return len(p), nil
}
