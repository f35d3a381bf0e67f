package integrations

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackrejister/form-craft-nexus/pkg/models"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

const (
	panicType models.IntegrationType = "test-panic"
	countType models.IntegrationType = "test-count"
)

type countingAdapter struct{ calls *int32 }

func (c countingAdapter) Send(context.Context, models.FormIntegration, models.SubmissionPayload) error {
	atomic.AddInt32(c.calls, 1)
	return nil
}

type panickingAdapter struct{}

func (panickingAdapter) Send(context.Context, models.FormIntegration, models.SubmissionPayload) error {
	panic("boom")
}

var countCalls int32

func init() {
	RegisterAdapter(panicType, func(map[string]interface{}, Options) (Adapter, error) {
		return panickingAdapter{}, nil
	})
	RegisterAdapter(countType, func(map[string]interface{}, Options) (Adapter, error) {
		return countingAdapter{calls: &countCalls}, nil
	})
}

func newTestDispatcher(cfg Config) (*Dispatcher, *logtest.Hook) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return NewDispatcher(cfg, nil, logger), hook
}

func TestExecuteIntegrations_DisabledNotInvoked(t *testing.T) {
	webhook := newRecorder(t, http.StatusOK)
	slack := newRecorder(t, http.StatusOK)
	d, _ := newTestDispatcher(Config{})

	outcomes := d.ExecuteIntegrations(context.Background(), []models.FormIntegration{
		{ID: "i1", Type: models.IntegrationWebhook, Name: "hook", Enabled: false, Config: map[string]interface{}{"url": webhook.URL}},
		{ID: "i2", Type: models.IntegrationSlack, Name: "chat", Enabled: true, Config: map[string]interface{}{"webhookUrl": slack.URL}},
	}, testSubmission())

	require.Len(t, outcomes, 2)
	assert.Equal(t, StatusSkipped, outcomes[0].Status)
	assert.False(t, outcomes[0].Attempted())
	assert.Equal(t, StatusSucceeded, outcomes[1].Status)
	assert.Empty(t, webhook.Requests())
	assert.Len(t, slack.Requests(), 1)
}

func TestExecuteIntegrations_FailureIsolated(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()
	slack := newRecorder(t, http.StatusOK)
	d, hook := newTestDispatcher(Config{})

	outcomes := d.ExecuteIntegrations(context.Background(), []models.FormIntegration{
		{ID: "i1", Type: models.IntegrationWebhook, Name: "hook", Enabled: true, Config: map[string]interface{}{"url": deadURL}},
		{ID: "i2", Type: models.IntegrationSlack, Name: "chat", Enabled: true, Config: map[string]interface{}{"webhookUrl": slack.URL}},
	}, testSubmission())

	require.Len(t, outcomes, 2)
	assert.Equal(t, StatusFailed, outcomes[0].Status)
	assert.True(t, IsTransportError(outcomes[0].Err))
	assert.Contains(t, outcomes[0].Error, "Webhook request failed")
	assert.Equal(t, StatusSucceeded, outcomes[1].Status)
	assert.Len(t, slack.Requests(), 1)

	var failures int
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.ErrorLevel {
			failures++
			assert.Equal(t, "i1", e.Data["integration"])
		}
	}
	assert.Equal(t, 1, failures)
}

func TestExecuteIntegrations_ConfigurationErrorReported(t *testing.T) {
	d, _ := newTestDispatcher(Config{})
	outcomes := d.ExecuteIntegrations(context.Background(), []models.FormIntegration{
		{ID: "s1", Type: models.IntegrationSheets, Name: "sheet", Enabled: true, Config: map[string]interface{}{}},
	}, testSubmission())

	require.Len(t, outcomes, 1)
	assert.Equal(t, StatusFailed, outcomes[0].Status)
	assert.True(t, IsConfigurationError(outcomes[0].Err))
	assert.Equal(t, "Google Sheets integration missing spreadsheet ID", outcomes[0].Error)
}

func TestExecuteIntegrations_UnsupportedIsNoop(t *testing.T) {
	d, hook := newTestDispatcher(Config{})
	outcomes := d.ExecuteIntegrations(context.Background(), []models.FormIntegration{
		{ID: "n1", Type: models.IntegrationNotion, Name: "notion", Enabled: true},
	}, testSubmission())

	require.Len(t, outcomes, 1)
	assert.Equal(t, StatusUnsupported, outcomes[0].Status)
	assert.True(t, outcomes[0].Succeeded())

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Message == "integration type notion not implemented yet" {
			warned = true
		}
	}
	assert.True(t, warned)
}

func TestExecuteIntegrations_EmptyAndAllDisabled(t *testing.T) {
	d, _ := newTestDispatcher(Config{})
	assert.Empty(t, d.ExecuteIntegrations(context.Background(), nil, testSubmission()))

	outcomes := d.ExecuteIntegrations(context.Background(), []models.FormIntegration{
		{ID: "c1", Type: countType, Enabled: false},
		{ID: "c2", Type: countType, Enabled: false},
	}, testSubmission())
	for _, o := range outcomes {
		assert.Equal(t, StatusSkipped, o.Status)
	}
}

func TestExecuteIntegrations_Timeout(t *testing.T) {
	release := make(chan struct{})
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer slow.Close()
	defer close(release)
	fast := newRecorder(t, http.StatusOK)

	d, _ := newTestDispatcher(Config{Timeout: 50 * time.Millisecond})
	start := time.Now()
	outcomes := d.ExecuteIntegrations(context.Background(), []models.FormIntegration{
		{ID: "slow", Type: models.IntegrationWebhook, Enabled: true, Config: map[string]interface{}{"url": slow.URL}},
		{ID: "fast", Type: models.IntegrationZapier, Enabled: true, Config: map[string]interface{}{"webhookUrl": fast.URL}},
	}, testSubmission())

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, StatusFailed, outcomes[0].Status)
	assert.Contains(t, outcomes[0].Error, "timed out after 50ms")
	assert.Equal(t, StatusSucceeded, outcomes[1].Status)
}

func TestExecuteIntegrations_PanicRecovered(t *testing.T) {
	before := atomic.LoadInt32(&countCalls)
	d, _ := newTestDispatcher(Config{MaxConcurrency: 1})

	outcomes := d.ExecuteIntegrations(context.Background(), []models.FormIntegration{
		{ID: "p", Type: panicType, Enabled: true},
		{ID: "c", Type: countType, Enabled: true},
	}, testSubmission())

	assert.Equal(t, StatusFailed, outcomes[0].Status)
	assert.Contains(t, outcomes[0].Error, "panicked: boom")
	assert.Equal(t, StatusSucceeded, outcomes[1].Status)
	assert.Equal(t, before+1, atomic.LoadInt32(&countCalls))
}

func TestExecuteIntegrations_AdaptersGetOwnCopy(t *testing.T) {
	sub := testSubmission()
	d, _ := newTestDispatcher(Config{})
	RegisterAdapter("test-mutate", func(map[string]interface{}, Options) (Adapter, error) {
		return mutatingAdapter{}, nil
	})

	d.ExecuteIntegrations(context.Background(), []models.FormIntegration{
		{ID: "m", Type: "test-mutate", Enabled: true},
	}, sub)
	assert.Equal(t, []interface{}{"a", "b"}, sub.Fields[1].Value)
	assert.Equal(t, "Ada Lovelace", sub.Fields[0].Value)
}

type mutatingAdapter struct{}

func (mutatingAdapter) Send(_ context.Context, _ models.FormIntegration, s models.SubmissionPayload) error {
	s.Fields[0].Value = "changed"
	s.Fields[1].Value.([]interface{})[0] = "z"
	return nil
}

func TestExecuteIntegrations_Spans(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	d, _ := newTestDispatcher(Config{})
	d.tracer = tp.Tracer("test")

	d.ExecuteIntegrations(context.Background(), []models.FormIntegration{
		{ID: "s1", Type: models.IntegrationSheets, Enabled: true},
	}, testSubmission())

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "integration.send", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Contains(t, spans[0].Attributes(), attribute.String("integration.type", "sheets"))
	assert.Contains(t, spans[0].Attributes(), attribute.String("integration.status", "failed"))
}

func TestTestIntegration(t *testing.T) {
	srv := newRecorder(t, http.StatusOK)
	d, _ := newTestDispatcher(Config{})
	d.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

	out := d.TestIntegration(context.Background(), models.FormIntegration{
		ID: "w", Type: models.IntegrationWebhook, Name: "hook", Enabled: false,
		Config: map[string]interface{}{"url": srv.URL},
	})
	assert.Equal(t, StatusSucceeded, out.Status)

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "Test Form", reqs[0].Body["form"])
	sub := reqs[0].Body["submission"].(map[string]interface{})
	assert.Equal(t, "2024-01-02T03:04:05Z", sub["timestamp"])
	assert.Equal(t, map[string]interface{}{
		"Name":    "John Doe",
		"Email":   "john@example.com",
		"Message": "This is a test submission",
	}, sub["data"])
}

func TestOutcome_Succeeded(t *testing.T) {
	assert.True(t, Outcome{Status: StatusSucceeded}.Succeeded())
	assert.True(t, Outcome{Status: StatusUnsupported}.Succeeded())
	assert.False(t, Outcome{Status: StatusFailed}.Succeeded())
	assert.False(t, Outcome{Status: StatusSkipped}.Succeeded())
}
