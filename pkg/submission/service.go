package submission

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jackrejister/form-craft-nexus/pkg/deliverylog"
	"github.com/jackrejister/form-craft-nexus/pkg/integrations"
	"github.com/jackrejister/form-craft-nexus/pkg/models"
	"github.com/jackrejister/form-craft-nexus/pkg/repo"
	"github.com/jackrejister/form-craft-nexus/pkg/validation"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const defaultClosedMessage = "This form is no longer accepting responses."

var ErrFormClosed = errors.New("form closed")

// FormClosedError carries the message shown to respondents of a closed form.
type FormClosedError struct {
	Message string
}

func (e *FormClosedError) Error() string { return e.Message }

func (e *FormClosedError) Is(target error) bool { return target == ErrFormClosed }

// Request is one respondent's answers plus what is known about the client.
type Request struct {
	FormID   string
	Values   map[string]interface{}
	IP       string
	Metadata *models.ResponseMetadata
}

type Result struct {
	Response models.FormResponse
	// Errors is set instead of Response when the answers are invalid.
	Errors []validation.ValidationError
}

type Dispatcher interface {
	ExecuteIntegrations(ctx context.Context, integrations []models.FormIntegration, submission models.SubmissionPayload) []integrations.Outcome
}

type Service struct {
	forms      repo.FormRepository
	responses  repo.ResponseRepository
	dispatcher Dispatcher
	deliveries deliverylog.Recorder
	logger     logrus.FieldLogger
	wg         sync.WaitGroup
	now        func() time.Time
}

func NewService(forms repo.FormRepository, responses repo.ResponseRepository, dispatcher Dispatcher,
	deliveries deliverylog.Recorder, logger logrus.FieldLogger) *Service {
	return &Service{
		forms:      forms,
		responses:  responses,
		dispatcher: dispatcher,
		deliveries: deliveries,
		logger:     logger,
		now:        time.Now,
	}
}

// Validate checks answers against the currently visible fields of a form
// without storing anything.
func (s *Service) Validate(ctx context.Context, formID string, values map[string]interface{}) ([]validation.ValidationError, error) {
	form, err := s.forms.GetForm(ctx, formID)
	if err != nil {
		return nil, err
	}
	return validation.ValidateForm(validation.VisibleFields(form.Fields, values), values), nil
}

// Submit validates and stores a response, then hands it to the form's
// integrations in the background. Integration results never affect the
// returned result; they end up in the delivery log.
func (s *Service) Submit(ctx context.Context, req Request) (Result, error) {
	form, err := s.forms.GetForm(ctx, req.FormID)
	if err != nil {
		return Result{}, err
	}
	now := s.now().UTC()
	if err := checkOpen(form, now); err != nil {
		return Result{}, err
	}
	if req.Values == nil {
		req.Values = map[string]interface{}{}
	}

	visible := validation.VisibleFields(form.Fields, req.Values)
	if errs := validation.ValidateForm(visible, req.Values); len(errs) > 0 {
		return Result{Errors: errs}, nil
	}

	// the slot is taken before storing so concurrent submits cannot pass the limit
	if _, err := s.forms.IncrementSubmissions(ctx, form.ID, form.Settings.LimitSubmissions); err != nil {
		switch {
		case errors.Is(err, repo.ErrLimitReached):
			return Result{}, closedError(form)
		case errors.Is(err, repo.ErrNotFound):
			return Result{}, err
		}
		s.logger.Warnf("error updating submission count of form %s: %v", form.ID, err)
	}

	data := make(map[string]interface{})
	for _, f := range visible {
		if v, ok := req.Values[f.ID]; ok && !f.Type.IsLayout() {
			data[f.ID] = v
		}
	}
	response, err := s.responses.CreateResponse(ctx, models.FormResponse{
		FormID:      form.ID,
		Data:        data,
		SubmittedAt: now.Format(time.RFC3339),
		IP:          req.IP,
		Metadata:    req.Metadata,
	})
	if err != nil {
		return Result{}, err
	}

	var md *models.SubmissionMetadata
	if req.Metadata != nil || req.IP != "" {
		md = &models.SubmissionMetadata{IP: req.IP}
		if req.Metadata != nil {
			md.UserAgent = req.Metadata.UserAgent
			md.Referrer = req.Metadata.Referrer
		}
	}
	payload := BuildPayload(form, req.Values, response.SubmittedAt, md)
	s.dispatch(context.WithoutCancel(ctx), form, response.ID, payload)

	return Result{Response: response}, nil
}

func (s *Service) dispatch(ctx context.Context, form models.Form, responseID string, payload models.SubmissionPayload) {
	if len(form.Integrations) == 0 {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for _, o := range s.dispatcher.ExecuteIntegrations(ctx, form.Integrations, payload) {
			if !o.Attempted() {
				continue
			}
			if err := s.deliveries.RecordDelivery(ctx, deliverylog.FromOutcome(form.ID, responseID, o)); err != nil {
				s.logger.Errorf("error recording delivery of integration %s: %v", o.IntegrationID, err)
			}
		}
	}()
}

// ListResponses returns the stored responses of an existing form, newest first.
func (s *Service) ListResponses(ctx context.Context, formID string) ([]models.FormResponse, error) {
	if _, err := s.forms.GetForm(ctx, formID); err != nil {
		return nil, err
	}
	return s.responses.ListResponses(ctx, formID)
}

// Wait blocks until every background dispatch has finished.
func (s *Service) Wait() {
	s.wg.Wait()
}

// BuildPayload lists the visible, answered, non-layout fields of form in
// form order.
func BuildPayload(form models.Form, values map[string]interface{}, submittedAt string, md *models.SubmissionMetadata) models.SubmissionPayload {
	fields := make([]models.SubmissionField, 0, len(form.Fields))
	for _, f := range validation.VisibleFields(form.Fields, values) {
		if f.Type.IsLayout() {
			continue
		}
		v, ok := values[f.ID]
		if !ok || validation.IsEmpty(v) {
			continue
		}
		fields = append(fields, models.SubmissionField{ID: f.ID, Label: f.Label, Type: f.Type, Value: v})
	}
	return models.SubmissionPayload{
		FormTitle:   form.Title,
		Fields:      fields,
		SubmittedAt: submittedAt,
		Metadata:    md,
	}
}

func checkOpen(form models.Form, now time.Time) error {
	closed := form.Settings.LimitSubmissions > 0 && form.Submissions >= form.Settings.LimitSubmissions
	if !closed && form.Settings.FormExpiry != "" {
		if expiry, ok := parseExpiry(form.Settings.FormExpiry); ok && !now.Before(expiry) {
			closed = true
		}
	}
	if !closed {
		return nil
	}
	return closedError(form)
}

func closedError(form models.Form) error {
	msg := strings.TrimSpace(form.Settings.ClosedMessage)
	if msg == "" {
		msg = defaultClosedMessage
	}
	return &FormClosedError{Message: msg}
}

// parseExpiry accepts an RFC 3339 instant or a plain date, which expires at
// the end of that day (UTC).
func parseExpiry(v string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return t.AddDate(0, 0, 1), true
	}
	return time.Time{}, false
}
