// Package plansink publishes finished chart plans to NATS so
// downstream renderers and exporters can subscribe to them.
package plansink

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/iashutoshrawat/lumora/chartplan"
	"github.com/iashutoshrawat/lumora/metrics"
)

// DefaultSubject is used when the config leaves the subject empty.
const DefaultSubject = "lumora.chartplan"

// Envelope wraps a published plan with identity and timing.
type Envelope struct {
	ID          string         `json:"id"`
	PublishedAt time.Time      `json:"published_at"`
	Plan        *chartplan.Plan `json:"plan"`
}

// Sink publishes chart plans. A nil connection degrades gracefully:
// plans are logged and dropped instead of failing the request.
type Sink struct {
	conn    *nats.Conn
	subject string
	logger  *slog.Logger
}

// Option configures a Sink.
type Option func(*Sink)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Sink) { s.logger = logger }
}

// New creates a sink. url may be empty to run without a bus.
func New(url, subject string, opts ...Option) (*Sink, error) {
	s := &Sink{subject: subject, logger: slog.Default()}
	if s.subject == "" {
		s.subject = DefaultSubject
	}
	for _, opt := range opts {
		opt(s)
	}

	if url == "" {
		s.logger.Info("No NATS URL configured, plan publishing disabled")
		return s, nil
	}

	conn, err := nats.Connect(url,
		nats.Name("lumora"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	s.conn = conn
	s.logger.Info("Connected to NATS", "url", url, "subject", s.subject)
	return s, nil
}

// Publish sends one plan. Without a connection this is a logged no-op.
func (s *Sink) Publish(plan *chartplan.Plan) error {
	if plan == nil {
		return fmt.Errorf("plan must not be nil")
	}
	if s.conn == nil {
		s.logger.Debug("Plan publishing skipped, no NATS connection", "chartType", plan.ChartType)
		metrics.PlansPublished.WithLabelValues("skipped").Inc()
		return nil
	}

	envelope := Envelope{
		ID:          uuid.New().String(),
		PublishedAt: time.Now().UTC(),
		Plan:        plan,
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		metrics.PlansPublished.WithLabelValues("error").Inc()
		return fmt.Errorf("marshal plan envelope: %w", err)
	}

	if err := s.conn.Publish(s.subject, data); err != nil {
		metrics.PlansPublished.WithLabelValues("error").Inc()
		return fmt.Errorf("publish plan: %w", err)
	}

	metrics.PlansPublished.WithLabelValues("published").Inc()
	s.logger.Debug("Plan published", "id", envelope.ID, "chartType", plan.ChartType)
	return nil
}

// Close drains the connection if one exists.
func (s *Sink) Close() {
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
}
