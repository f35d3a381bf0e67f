package integrations

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/jackrejister/form-craft-nexus/pkg/models"
)

const (
	defaultSheetsBaseURL = "https://sheets.googleapis.com"
	defaultSheetName     = "Sheet1"
)

type sheetsConfig struct {
	SpreadsheetID string `mapstructure:"spreadsheetId"`
	SheetID       string `mapstructure:"sheetId"`
	AccessToken   string `mapstructure:"accessToken"`
	BaseURL       string `mapstructure:"baseUrl"`
}

// Sheets appends one row per submission through the Sheets v4 values API.
type Sheets struct {
	SpreadsheetID string
	Sheet         string
	accessToken   string
	baseURL       string
	client        *http.Client
}

type sheetsAppendRequest struct {
	Range          string     `json:"range"`
	MajorDimension string     `json:"majorDimension"`
	Values         [][]string `json:"values"`
}

func init() {
	RegisterAdapter(models.IntegrationSheets, NewSheets)
}

func NewSheets(props map[string]interface{}, opts Options) (Adapter, error) {
	var sc sheetsConfig
	if err := decodeConfig(models.IntegrationSheets, props, &sc); err != nil {
		return nil, err
	}
	if strings.TrimSpace(sc.SpreadsheetID) == "" {
		return nil, newConfigurationError(models.IntegrationSheets, "spreadsheetId", "Google Sheets integration missing spreadsheet ID")
	}
	s := &Sheets{
		SpreadsheetID: sc.SpreadsheetID,
		Sheet:         sc.SheetID,
		accessToken:   sc.AccessToken,
		baseURL:       sc.BaseURL,
		client:        opts.Client,
	}
	if s.Sheet == "" {
		s.Sheet = defaultSheetName
	}
	if s.baseURL == "" {
		s.baseURL = opts.SheetsBaseURL
	}
	if s.baseURL == "" {
		s.baseURL = defaultSheetsBaseURL
	}
	s.baseURL = strings.TrimRight(s.baseURL, "/")
	if s.client == nil {
		s.client = http.DefaultClient
	}
	return s, nil
}

func (s *Sheets) Send(ctx context.Context, _ models.FormIntegration, submission models.SubmissionPayload) error {
	appendURL := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s:append?valueInputOption=RAW",
		s.baseURL, url.PathEscape(s.SpreadsheetID), url.PathEscape(s.Sheet))

	body := sheetsAppendRequest{
		Range:          s.Sheet,
		MajorDimension: "ROWS",
		Values:         [][]string{SheetsRow(submission)},
	}
	var headers map[string]string
	if s.accessToken != "" {
		headers = map[string]string{"Authorization": "Bearer " + s.accessToken}
	}
	return sendJSON(ctx, s.client, http.MethodPost, appendURL, headers, body, "Google Sheets append")
}

// SheetsRow lays out a submission as [timestamp, form title, values...].
func SheetsRow(submission models.SubmissionPayload) []string {
	row := make([]string, 0, len(submission.Fields)+2)
	row = append(row, submission.SubmittedAt, submission.FormTitle)
	for _, f := range submission.Fields {
		row = append(row, models.FormatValue(f.Value))
	}
	return row
}

// SheetsHeader returns the column titles matching SheetsRow.
func SheetsHeader(submission models.SubmissionPayload) []string {
	header := []string{"Timestamp", "Form Title"}
	for _, f := range submission.Fields {
		header = append(header, f.Label)
	}
	return header
}
