package integrations

import (
	"context"
	"net/http"
	"strings"

	"github.com/jackrejister/form-craft-nexus/pkg/models"
)

type webhookConfig struct {
	URL     string            `mapstructure:"url"`
	Method  string            `mapstructure:"method"`
	Headers map[string]string `mapstructure:"headers"`
}

// Webhook posts the whole submission as JSON to an arbitrary endpoint.
type Webhook struct {
	URL     string
	Method  string
	headers map[string]string
	client  *http.Client
}

type webhookPayload struct {
	Integration string                     `json:"integration"`
	Form        string                     `json:"form"`
	Submission  webhookSubmission          `json:"submission"`
	Metadata    *models.SubmissionMetadata `json:"metadata,omitempty"`
}

type webhookSubmission struct {
	Timestamp string                 `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

var webhookMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
}

func init() {
	RegisterAdapter(models.IntegrationWebhook, NewWebhook)
}

func NewWebhook(props map[string]interface{}, opts Options) (Adapter, error) {
	var wc webhookConfig
	if err := decodeConfig(models.IntegrationWebhook, props, &wc); err != nil {
		return nil, err
	}
	if strings.TrimSpace(wc.URL) == "" {
		return nil, newConfigurationError(models.IntegrationWebhook, "url", "Webhook integration missing URL")
	}
	method := strings.ToUpper(strings.TrimSpace(wc.Method))
	if method == "" {
		method = http.MethodPost
	}
	if !webhookMethods[method] {
		return nil, newConfigurationError(models.IntegrationWebhook, "method", "Webhook integration has unsupported method "+method)
	}
	client := opts.Client
	if client == nil {
		client = http.DefaultClient
	}
	return &Webhook{URL: wc.URL, Method: method, headers: wc.Headers, client: client}, nil
}

func (w *Webhook) Send(ctx context.Context, integration models.FormIntegration, submission models.SubmissionPayload) error {
	data := make(map[string]interface{}, len(submission.Fields))
	for _, f := range submission.Fields {
		data[f.Label] = f.Value
	}
	body := webhookPayload{
		Integration: integration.Name,
		Form:        submission.FormTitle,
		Submission: webhookSubmission{
			Timestamp: submission.SubmittedAt,
			Data:      data,
		},
		Metadata: submission.Metadata,
	}
	return sendJSON(ctx, w.client, w.Method, w.URL, w.headers, body, "Webhook")
}
