package integrations

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jackrejister/form-craft-nexus/pkg/models"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const DefaultTimeout = 5 * time.Second

type Status string

const (
	StatusSkipped     Status = "skipped"
	StatusSucceeded   Status = "succeeded"
	StatusFailed      Status = "failed"
	StatusUnsupported Status = "unsupported"
)

type Config struct {
	// Timeout bounds every single adapter call. Zero means DefaultTimeout.
	Timeout time.Duration
	// MaxConcurrency caps concurrently running adapters. Zero means no cap.
	MaxConcurrency int
	SheetsBaseURL  string
}

// Outcome is the settled result of one integration for one submission.
type Outcome struct {
	IntegrationID string                 `json:"integrationId"`
	Name          string                 `json:"name"`
	Type          models.IntegrationType `json:"type"`
	Status        Status                 `json:"status"`
	Error         string                 `json:"error,omitempty"`
	Err           error                  `json:"-"`
	StartedAt     time.Time              `json:"startedAt"`
	Duration      time.Duration          `json:"-"`
	DurationMs    int64                  `json:"durationMs"`
}

// Attempted reports whether an adapter was looked up for this outcome.
func (o Outcome) Attempted() bool {
	return o.Status != StatusSkipped
}

// Succeeded is true for delivered and for unsupported (no-op) integrations.
func (o Outcome) Succeeded() bool {
	return o.Status == StatusSucceeded || o.Status == StatusUnsupported
}

type Dispatcher struct {
	cfg    Config
	opts   Options
	logger logrus.FieldLogger
	tracer trace.Tracer
	now    func() time.Time
}

func NewDispatcher(cfg Config, client *http.Client, logger logrus.FieldLogger) *Dispatcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if client == nil {
		client = &http.Client{}
	}
	return &Dispatcher{
		cfg:    cfg,
		opts:   Options{Client: client, SheetsBaseURL: cfg.SheetsBaseURL},
		logger: logger,
		tracer: otel.Tracer("github.com/jackrejister/form-craft-nexus/pkg/integrations"),
		now:    time.Now,
	}
}

// ExecuteIntegrations delivers submission to every enabled integration
// concurrently and waits until all of them settle. It never fails: each
// integration's result is reported in the outcome at the same index.
func (d *Dispatcher) ExecuteIntegrations(ctx context.Context, integrations []models.FormIntegration, submission models.SubmissionPayload) []Outcome {
	outcomes := make([]Outcome, len(integrations))

	var g errgroup.Group
	if d.cfg.MaxConcurrency > 0 {
		g.SetLimit(d.cfg.MaxConcurrency)
	}
	for i, in := range integrations {
		if !in.Enabled {
			outcomes[i] = Outcome{IntegrationID: in.ID, Name: in.Name, Type: in.Type, Status: StatusSkipped}
			continue
		}
		// each adapter owns its copy of the submission
		payload := submission.Clone()
		i, in := i, in
		g.Go(func() error {
			outcomes[i] = d.attempt(ctx, in, payload)
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

// TestIntegration sends the sample submission through the integration's
// adapter, whether or not the integration is enabled.
func (d *Dispatcher) TestIntegration(ctx context.Context, in models.FormIntegration) Outcome {
	return d.attempt(ctx, in, SampleSubmission(d.now()))
}

func (d *Dispatcher) attempt(ctx context.Context, in models.FormIntegration, submission models.SubmissionPayload) (out Outcome) {
	out = Outcome{IntegrationID: in.ID, Name: in.Name, Type: in.Type, StartedAt: d.now().UTC()}
	logger := d.logger.WithFields(logrus.Fields{"integration": in.ID, "type": in.Type})

	ctx, span := d.tracer.Start(ctx, "integration.send", trace.WithAttributes(
		attribute.String("integration.id", in.ID),
		attribute.String("integration.type", string(in.Type)),
	))
	defer func() {
		if r := recover(); r != nil {
			out.Status = StatusFailed
			out.Err = errors.Errorf("%s adapter panicked: %v", in.Type, r)
			out.Error = out.Err.Error()
			logger.Errorf("integration %q panicked: %v", in.Name, r)
		}
		out.Duration = d.now().UTC().Sub(out.StartedAt)
		out.DurationMs = out.Duration.Milliseconds()
		span.SetAttributes(attribute.String("integration.status", string(out.Status)))
		if out.Err != nil && out.Status == StatusFailed {
			span.RecordError(out.Err)
			span.SetStatus(codes.Error, out.Error)
		}
		span.End()
	}()

	logger.Infof("executing %s integration: %s", in.Type, in.Name)

	adapter, err := GetAdapter(in.Type, in.Config, d.opts)
	if IsUnsupportedProvider(err) {
		logger.Warnf("integration type %s not implemented yet", in.Type)
		out.Status = StatusUnsupported
		out.Err = err
		out.Error = err.Error()
		return out
	}
	if err == nil {
		sendCtx, cancel := context.WithTimeout(ctx, d.cfg.Timeout)
		defer cancel()
		err = adapter.Send(sendCtx, in, submission)
		if err != nil && errors.Is(sendCtx.Err(), context.DeadlineExceeded) {
			err = &TransportError{Op: fmt.Sprintf("%s integration", in.Type), Err: errors.Errorf("timed out after %s", d.cfg.Timeout)}
		}
	}
	if err != nil {
		out.Status = StatusFailed
		out.Err = err
		out.Error = errors.Cause(err).Error()
		logger.Errorf("failed to execute %s integration: %v", in.Type, err)
		return out
	}

	out.Status = StatusSucceeded
	return out
}

// SampleSubmission is the canned payload used for manual integration tests.
func SampleSubmission(now time.Time) models.SubmissionPayload {
	return models.SubmissionPayload{
		FormTitle: "Test Form",
		Fields: []models.SubmissionField{
			{ID: "name", Label: "Name", Type: models.FieldText, Value: "John Doe"},
			{ID: "email", Label: "Email", Type: models.FieldEmail, Value: "john@example.com"},
			{ID: "message", Label: "Message", Type: models.FieldTextarea, Value: "This is a test submission"},
		},
		SubmittedAt: now.UTC().Format(time.RFC3339),
	}
}
