// Package notify publishes build diagnostics to NATS JetStream so alerting
// and dashboard consumers can react without polling build history.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/docwright/docwright/internal/config"
	"github.com/docwright/docwright/internal/site"
)

var (
	ErrDisabled = errors.New("notify: publishing disabled")
	ErrConnect  = errors.New("notify: connect")
	ErrStream   = errors.New("notify: initialize stream")
	ErrPublish  = errors.New("notify: publish event")
)

const publishTimeout = 5 * time.Second

// DiagnosticEvent is the JSON payload published for each diagnostic.
type DiagnosticEvent struct {
	BuildID   string    `json:"build_id"`
	Source    string    `json:"source"`
	Code      string    `json:"code"`
	Severity  string    `json:"severity"`
	DocID     string    `json:"doc_id,omitempty"`
	Path      string    `json:"path,omitempty"`
	Sidebar   string    `json:"sidebar,omitempty"`
	Line      int       `json:"line,omitempty"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher manages the NATS connection and JetStream publishing.
type Publisher struct {
	conn    *nats.Conn
	js      jetstream.JetStream
	subject string
	stream  string
}

// NewPublisher connects to NATS and ensures the diagnostics stream exists.
func NewPublisher(cfg config.NotifyConfig) (*Publisher, error) {
	if !cfg.Enabled {
		return nil, ErrDisabled
	}

	url := cfg.URL
	if url == "" {
		url = nats.DefaultURL
	}
	conn, err := nats.Connect(url, nats.Name("docwright"))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConnect, url, err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: jetstream: %w", ErrConnect, err)
	}

	p := &Publisher{
		conn:    conn,
		js:      js,
		subject: cfg.Subject,
		stream:  streamNameFor(cfg.Subject),
	}
	if err := p.initStream(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: %w", ErrStream, err)
	}

	slog.Info("Notify publisher connected",
		slog.String("url", url),
		slog.String("subject", p.subject),
		slog.String("stream", p.stream))
	return p, nil
}

// initStream creates the stream backing the subject unless it already exists.
func (p *Publisher) initStream() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := p.js.Stream(ctx, p.stream); err == nil {
		return nil
	}

	_, err := p.js.CreateStream(ctx, jetstream.StreamConfig{
		Name:     p.stream,
		Subjects: []string{p.subject},
		Storage:  jetstream.FileStorage,
		MaxAge:   7 * 24 * time.Hour,
	})
	return err
}

// PublishDiagnostics publishes one event per diagnostic, tagged with the
// build id. Returns on the first publish failure.
func (p *Publisher) PublishDiagnostics(ctx context.Context, buildID string, diagnostics []site.Diagnostic) error {
	if len(diagnostics) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	for _, d := range diagnostics {
		data, err := json.Marshal(eventFromDiagnostic(buildID, d))
		if err != nil {
			return fmt.Errorf("%w: marshal: %w", ErrPublish, err)
		}
		if _, err := p.js.Publish(ctx, p.subject, data); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrPublish, p.subject, err)
		}
		slog.Debug("Published diagnostic event",
			slog.String("build_id", buildID),
			slog.String("code", d.Code),
			slog.String("doc_id", d.DocID))
	}
	return nil
}

// Close closes the NATS connection.
func (p *Publisher) Close() error {
	if p.conn != nil {
		p.conn.Close()
	}
	return nil
}

func eventFromDiagnostic(buildID string, d site.Diagnostic) DiagnosticEvent {
	return DiagnosticEvent{
		BuildID:   buildID,
		Source:    string(d.Source),
		Code:      d.Code,
		Severity:  string(d.Severity),
		DocID:     d.DocID,
		Path:      d.Path,
		Sidebar:   d.Sidebar,
		Line:      d.Line,
		Message:   d.Message,
		Timestamp: time.Now().UTC(),
	}
}

// streamNameFor derives a JetStream-legal stream name from the subject.
// Stream names must not contain dots.
func streamNameFor(subject string) string {
	name := strings.ToUpper(strings.ReplaceAll(subject, ".", "_"))
	name = strings.ReplaceAll(name, "*", "ANY")
	name = strings.ReplaceAll(name, ">", "ALL")
	if name == "" {
		name = "DOCWRIGHT_DIAGNOSTICS"
	}
	return name
}
