package logger

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
)

// Poster is the part of *fluent.Fluent the adapter needs.
type Poster interface {
	Post(tag string, message interface{}) error
	Close() error
}

// FluentAdapter ships log entries to Fluent Bit.
type FluentAdapter struct {
	client   Poster
	tag      string
	fields   Fields
	minLevel slog.Level
}

// NewFluentClient connects to a Fluent Bit forward input. Posting is async so a
// missing collector never blocks request handling.
func NewFluentClient(host string, port int) (*fluent.Fluent, error) {
	client, err := fluent.New(fluent.Config{
		FluentHost:         host,
		FluentPort:         port,
		Async:              true,
		MaxRetry:           3,
		WriteTimeout:       3 * time.Second,
		SubSecondPrecision: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to fluent bit at %s:%d: %w", host, port, err)
	}
	return client, nil
}

// NewFluentAdapter wraps client. Entries are posted under "<tag>.<level>".
func NewFluentAdapter(client Poster, tag string, minLevel slog.Leveler) (*FluentAdapter, error) {
	if client == nil {
		return nil, fmt.Errorf("fluent client cannot be nil")
	}

	level := slog.LevelInfo
	if minLevel != nil {
		level = minLevel.Level()
	}

	return &FluentAdapter{
		client:   client,
		tag:      tag,
		fields:   make(Fields),
		minLevel: level,
	}, nil
}

func (a *FluentAdapter) merge(fields Fields) Fields {
	merged := make(Fields, len(a.fields)+len(fields))
	for k, v := range a.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return merged
}

func (a *FluentAdapter) post(level slog.Level, name, msg string, data Fields) {
	if level < a.minLevel {
		return
	}
	data["level"] = name
	data["message"] = msg
	data["timestamp"] = time.Now().UTC().Format(time.RFC3339Nano)

	_ = a.client.Post(a.tag+"."+name, data)
}

func (a *FluentAdapter) Info(msg string, fields Fields) {
	a.post(slog.LevelInfo, "info", msg, a.merge(fields))
}

func (a *FluentAdapter) Warn(msg string, fields Fields) {
	a.post(slog.LevelWarn, "warn", msg, a.merge(fields))
}

func (a *FluentAdapter) Error(msg string, err error, fields Fields) {
	data := a.merge(fields)
	if err != nil {
		data["error"] = err.Error()
	}
	a.post(slog.LevelError, "error", msg, data)
}

func (a *FluentAdapter) Debug(msg string, fields Fields) {
	a.post(slog.LevelDebug, "debug", msg, a.merge(fields))
}

func (a *FluentAdapter) WithFields(fields Fields) Logger {
	return &FluentAdapter{
		client:   a.client,
		tag:      a.tag,
		fields:   a.merge(fields),
		minLevel: a.minLevel,
	}
}

// Close flushes and closes the underlying client.
func (a *FluentAdapter) Close() error {
	return a.client.Close()
}
