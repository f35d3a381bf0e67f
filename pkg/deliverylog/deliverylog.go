package deliverylog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackrejister/form-craft-nexus/pkg/integrations"
	"github.com/pkg/errors"
)

// Record is one attempted delivery of a submission to an integration.
type Record struct {
	ID              string    `json:"id"`
	FormID          string    `json:"formId"`
	ResponseID      string    `json:"responseId,omitempty"`
	IntegrationID   string    `json:"integrationId"`
	IntegrationType string    `json:"integrationType"`
	Outcome         string    `json:"outcome"`
	Error           string    `json:"error,omitempty"`
	DurationMs      int64     `json:"durationMs"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Recorder persists delivery records.
type Recorder interface {
	RecordDelivery(ctx context.Context, r Record) error
	// ListDeliveries returns the newest records of an integration first.
	ListDeliveries(ctx context.Context, integrationID string, limit int) ([]Record, error)
}

const (
	DefaultListLimit = 50
	// MaxListLimit caps how many records one ListDeliveries call returns.
	MaxListLimit = 500
)

// FromOutcome converts a dispatcher outcome to a record.
func FromOutcome(formID, responseID string, o integrations.Outcome) Record {
	return Record{
		FormID:          formID,
		ResponseID:      responseID,
		IntegrationID:   o.IntegrationID,
		IntegrationType: string(o.Type),
		Outcome:         string(o.Status),
		Error:           o.Error,
		DurationMs:      o.DurationMs,
		CreatedAt:       o.StartedAt,
	}
}

func normalize(r Record) (Record, error) {
	r.FormID = strings.TrimSpace(r.FormID)
	r.IntegrationID = strings.TrimSpace(r.IntegrationID)
	r.Outcome = strings.TrimSpace(r.Outcome)
	if r.IntegrationID == "" {
		return r, errors.New("integration id is required")
	}
	if r.Outcome == "" {
		return r, errors.New("outcome is required")
	}
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	r.CreatedAt = r.CreatedAt.UTC()
	return r, nil
}

func checkLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
