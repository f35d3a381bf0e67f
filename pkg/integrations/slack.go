package integrations

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jackrejister/form-craft-nexus/pkg/models"
)

type slackConfig struct {
	WebhookURL string `mapstructure:"webhookUrl"`
}

// Slack posts a rich message to an incoming webhook.
type Slack struct {
	WebhookURL string
	client     *http.Client
}

type slackMessage struct {
	Text   string       `json:"text"`
	Blocks []slackBlock `json:"blocks"`
}

type slackBlock struct {
	Type string    `json:"type"`
	Text slackText `json:"text"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func init() {
	RegisterAdapter(models.IntegrationSlack, NewSlack)
}

func NewSlack(props map[string]interface{}, opts Options) (Adapter, error) {
	var sc slackConfig
	if err := decodeConfig(models.IntegrationSlack, props, &sc); err != nil {
		return nil, err
	}
	if strings.TrimSpace(sc.WebhookURL) == "" {
		return nil, newConfigurationError(models.IntegrationSlack, "webhookUrl", "Slack integration missing webhook URL")
	}
	client := opts.Client
	if client == nil {
		client = http.DefaultClient
	}
	return &Slack{WebhookURL: sc.WebhookURL, client: client}, nil
}

func (s *Slack) Send(ctx context.Context, _ models.FormIntegration, submission models.SubmissionPayload) error {
	return sendJSON(ctx, s.client, http.MethodPost, s.WebhookURL, nil, s.message(submission), "Slack webhook")
}

func (s *Slack) message(submission models.SubmissionPayload) slackMessage {
	title := s.escape(submission.FormTitle)

	lines := make([]string, 0, len(submission.Fields))
	for _, f := range submission.Fields {
		lines = append(lines, fmt.Sprintf("*%s:* %s", s.escape(f.Label), s.escape(models.FormatValue(f.Value))))
	}

	return slackMessage{
		Text: "New form submission: " + submission.FormTitle,
		Blocks: []slackBlock{
			{
				Type: "section",
				Text: slackText{
					Type: "mrkdwn",
					Text: fmt.Sprintf("*New form submission*\n\n*Form:* %s\n*Submitted:* %s", title, submittedAtDisplay(submission.SubmittedAt)),
				},
			},
			{
				Type: "section",
				Text: slackText{
					Type: "mrkdwn",
					Text: "*Responses:*\n" + strings.Join(lines, "\n"),
				},
			},
		},
	}
}

// mrkdwn only treats &, < and > as control characters.
var mrkdwnEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func (s *Slack) escape(v string) string {
	return mrkdwnEscaper.Replace(v)
}

func submittedAtDisplay(v string) string {
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return v
	}
	return t.UTC().Format("Jan 2, 2006 3:04 PM UTC")
}
