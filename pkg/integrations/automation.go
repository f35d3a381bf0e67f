package integrations

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"github.com/jackrejister/form-craft-nexus/pkg/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type automationConfig struct {
	WebhookURL string `mapstructure:"webhookUrl"`
}

// Automation feeds catch-hook style automation platforms (Zapier, Make) with
// a flat payload keyed by snake_cased field labels.
type Automation struct {
	Provider   models.IntegrationType
	WebhookURL string
	client     *http.Client
}

type automationPayload struct {
	FormTitle   string                     `json:"form_title"`
	SubmittedAt string                     `json:"submitted_at"`
	Fields      map[string]interface{}     `json:"fields"`
	Metadata    *models.SubmissionMetadata `json:"metadata,omitempty"`
}

var whitespaceRun = regexp.MustCompile(`\s+`)

func init() {
	RegisterAdapter(models.IntegrationZapier, automationConstructor(models.IntegrationZapier))
	RegisterAdapter(models.IntegrationMake, automationConstructor(models.IntegrationMake))
}

func automationConstructor(provider models.IntegrationType) AdapterConstructor {
	return func(props map[string]interface{}, opts Options) (Adapter, error) {
		return NewAutomation(provider, props, opts)
	}
}

func NewAutomation(provider models.IntegrationType, props map[string]interface{}, opts Options) (*Automation, error) {
	var ac automationConfig
	if err := decodeConfig(provider, props, &ac); err != nil {
		return nil, err
	}
	if strings.TrimSpace(ac.WebhookURL) == "" {
		return nil, newConfigurationError(provider, "webhookUrl", provider.DisplayName()+" integration missing webhook URL")
	}
	client := opts.Client
	if client == nil {
		client = http.DefaultClient
	}
	return &Automation{Provider: provider, WebhookURL: ac.WebhookURL, client: client}, nil
}

func (a *Automation) Send(ctx context.Context, _ models.FormIntegration, submission models.SubmissionPayload) error {
	return sendJSON(ctx, a.client, http.MethodPost, a.WebhookURL, nil, automationBody(submission), a.Provider.DisplayName()+" webhook")
}

// automationBody builds the body sent to automation webhooks.
func automationBody(submission models.SubmissionPayload) automationPayload {
	// Casers keep state, so each payload gets its own.
	lower := cases.Lower(language.Und)
	fields := make(map[string]interface{}, len(submission.Fields))
	for _, f := range submission.Fields {
		fields[SnakeKey(lower, f.Label)] = f.Value
	}
	return automationPayload{
		FormTitle:   submission.FormTitle,
		SubmittedAt: submission.SubmittedAt,
		Fields:      fields,
		Metadata:    submission.Metadata,
	}
}

// SnakeKey lowercases label and replaces whitespace runs with underscores.
func SnakeKey(lower cases.Caser, label string) string {
	return whitespaceRun.ReplaceAllString(lower.String(label), "_")
}
