package models

type IntegrationType string

const (
	IntegrationSheets          IntegrationType = "sheets"
	IntegrationNotion          IntegrationType = "notion"
	IntegrationAirtable        IntegrationType = "airtable"
	IntegrationWebhook         IntegrationType = "webhook"
	IntegrationSlack           IntegrationType = "slack"
	IntegrationZapier          IntegrationType = "zapier"
	IntegrationMake            IntegrationType = "make"
	IntegrationGoogleAnalytics IntegrationType = "googleAnalytics"
	IntegrationMetaPixel       IntegrationType = "metaPixel"
	IntegrationCoda            IntegrationType = "coda"
	IntegrationPipedream       IntegrationType = "pipedream"
	IntegrationExcel           IntegrationType = "excel"
)

var IntegrationTypes = []IntegrationType{
	IntegrationSheets, IntegrationNotion, IntegrationAirtable, IntegrationWebhook,
	IntegrationSlack, IntegrationZapier, IntegrationMake, IntegrationGoogleAnalytics,
	IntegrationMetaPixel, IntegrationCoda, IntegrationPipedream, IntegrationExcel,
}

func (t IntegrationType) Valid() bool {
	for _, it := range IntegrationTypes {
		if it == t {
			return true
		}
	}
	return false
}

// FormIntegration is an outbound connection configured by the form owner.
// Config is provider specific, e.g. spreadsheetId and sheetId for sheets,
// url and method for webhook, webhookUrl for slack.
type FormIntegration struct {
	ID      string                 `json:"id" yaml:"id" bson:"id"`
	Type    IntegrationType        `json:"type" yaml:"type" bson:"type"`
	Name    string                 `json:"name" yaml:"name" bson:"name"`
	Enabled bool                   `json:"enabled" yaml:"enabled" bson:"enabled"`
	Config  map[string]interface{} `json:"config" yaml:"config" bson:"config"`
}

var integrationNames = map[IntegrationType]string{
	IntegrationSheets:          "Google Sheets",
	IntegrationNotion:          "Notion",
	IntegrationAirtable:        "Airtable",
	IntegrationWebhook:         "Webhook",
	IntegrationSlack:           "Slack",
	IntegrationZapier:          "Zapier",
	IntegrationMake:            "Make",
	IntegrationGoogleAnalytics: "Google Analytics",
	IntegrationMetaPixel:       "Meta Pixel",
	IntegrationCoda:            "Coda",
	IntegrationPipedream:       "Pipedream",
	IntegrationExcel:           "Excel",
}

// DisplayName returns the provider name shown to form owners.
func (t IntegrationType) DisplayName() string {
	if n, ok := integrationNames[t]; ok {
		return n
	}
	return string(t)
}
