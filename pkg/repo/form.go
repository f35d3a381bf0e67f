package repo

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackrejister/form-craft-nexus/pkg/models"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrLimitReached = errors.New("submission limit reached")
)

const defaultFormTitle = "Untitled Form"

type FormRepository interface {
	GetForm(ctx context.Context, id string) (models.Form, error)
	ListForms(ctx context.Context) ([]models.Form, error)
	CreateForm(ctx context.Context, form models.Form) (models.Form, error)
	UpdateForm(ctx context.Context, form models.Form) (models.Form, error)
	DeleteForm(ctx context.Context, id string) error
	// SaveIntegration adds the integration to the form, or replaces the one
	// with the same id.
	SaveIntegration(ctx context.Context, formID string, integration models.FormIntegration) (models.FormIntegration, error)
	DeleteIntegration(ctx context.Context, formID, integrationID string) error
	// IncrementSubmissions bumps the submission counter and returns the new
	// value. With a positive limit the counter never goes past it: a full form
	// is left unchanged and ErrLimitReached is returned.
	IncrementSubmissions(ctx context.Context, formID string, limit int) (int, error)
}

type InMemoryFormRepository struct {
	mu    sync.RWMutex
	forms []models.Form
}

func NewInMemoryFormRepository(seed ...models.Form) *InMemoryFormRepository {
	fr := &InMemoryFormRepository{}
	for _, f := range seed {
		fr.forms = append(fr.forms, cloneForm(f))
	}
	return fr
}

func (fr *InMemoryFormRepository) GetForm(_ context.Context, id string) (models.Form, error) {
	fr.mu.RLock()
	defer fr.mu.RUnlock()
	if i := fr.index(id); i >= 0 {
		return cloneForm(fr.forms[i]), nil
	}
	return models.Form{}, ErrNotFound
}

func (fr *InMemoryFormRepository) ListForms(_ context.Context) ([]models.Form, error) {
	fr.mu.RLock()
	defer fr.mu.RUnlock()
	forms := make([]models.Form, len(fr.forms))
	for i := range fr.forms {
		forms[i] = cloneForm(fr.forms[i])
	}
	return forms, nil
}

func (fr *InMemoryFormRepository) CreateForm(_ context.Context, form models.Form) (models.Form, error) {
	form = prepareNewForm(form, time.Now())
	fr.mu.Lock()
	defer fr.mu.Unlock()
	if fr.index(form.ID) >= 0 {
		return form, errors.New("form already exists")
	}
	fr.forms = append(fr.forms, cloneForm(form))
	return form, nil
}

func (fr *InMemoryFormRepository) UpdateForm(_ context.Context, form models.Form) (models.Form, error) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	i := fr.index(form.ID)
	if i < 0 {
		return form, ErrNotFound
	}
	form = prepareUpdatedForm(fr.forms[i], form, time.Now())
	fr.forms[i] = cloneForm(form)
	return form, nil
}

func (fr *InMemoryFormRepository) DeleteForm(_ context.Context, id string) error {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	i := fr.index(id)
	if i < 0 {
		return ErrNotFound
	}
	fr.forms = append(fr.forms[:i], fr.forms[i+1:]...)
	return nil
}

func (fr *InMemoryFormRepository) SaveIntegration(_ context.Context, formID string, integration models.FormIntegration) (models.FormIntegration, error) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	i := fr.index(formID)
	if i < 0 {
		return integration, ErrNotFound
	}
	if integration.ID == "" {
		integration.ID = uuid.New().String()
	}
	form := &fr.forms[i]
	replaced := false
	for j := range form.Integrations {
		if form.Integrations[j].ID == integration.ID {
			form.Integrations[j] = cloneIntegration(integration)
			replaced = true
			break
		}
	}
	if !replaced {
		form.Integrations = append(form.Integrations, cloneIntegration(integration))
	}
	form.UpdatedAt = timestamp(time.Now())
	return integration, nil
}

func (fr *InMemoryFormRepository) DeleteIntegration(_ context.Context, formID, integrationID string) error {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	i := fr.index(formID)
	if i < 0 {
		return ErrNotFound
	}
	form := &fr.forms[i]
	for j := range form.Integrations {
		if form.Integrations[j].ID == integrationID {
			form.Integrations = append(form.Integrations[:j], form.Integrations[j+1:]...)
			form.UpdatedAt = timestamp(time.Now())
			return nil
		}
	}
	return ErrNotFound
}

func (fr *InMemoryFormRepository) IncrementSubmissions(_ context.Context, formID string, limit int) (int, error) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	i := fr.index(formID)
	if i < 0 {
		return 0, ErrNotFound
	}
	if limit > 0 && fr.forms[i].Submissions >= limit {
		return fr.forms[i].Submissions, ErrLimitReached
	}
	fr.forms[i].Submissions++
	return fr.forms[i].Submissions, nil
}

func (fr *InMemoryFormRepository) index(id string) int {
	for i := range fr.forms {
		if fr.forms[i].ID == id {
			return i
		}
	}
	return -1
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// prepareNewForm fills in ids, timestamps and the default title, theme and
// settings of a form about to be created.
func prepareNewForm(form models.Form, now time.Time) models.Form {
	if form.ID == "" {
		form.ID = uuid.New().String()
	}
	if form.Title == "" {
		form.Title = defaultFormTitle
	}
	if form.Theme == (models.FormTheme{}) {
		form.Theme = models.DefaultTheme()
	}
	if form.Settings == (models.FormSettings{}) {
		form.Settings = models.DefaultSettings()
	} else if form.Settings.SubmitButtonText == "" {
		form.Settings.SubmitButtonText = models.DefaultSettings().SubmitButtonText
	}
	if form.Fields == nil {
		form.Fields = []models.FieldDefinition{}
	}
	if form.Integrations == nil {
		form.Integrations = []models.FormIntegration{}
	}
	assignIDs(&form)
	form.CreatedAt = timestamp(now)
	form.UpdatedAt = form.CreatedAt
	form.Submissions = 0
	return form
}

// prepareUpdatedForm keeps the server-owned attributes of existing.
func prepareUpdatedForm(existing, form models.Form, now time.Time) models.Form {
	if form.Title == "" {
		form.Title = existing.Title
	}
	if form.Theme == (models.FormTheme{}) {
		form.Theme = existing.Theme
	}
	if form.Settings == (models.FormSettings{}) {
		form.Settings = existing.Settings
	}
	if form.Fields == nil {
		form.Fields = existing.Fields
	}
	if form.Integrations == nil {
		form.Integrations = existing.Integrations
	}
	assignIDs(&form)
	form.CreatedAt = existing.CreatedAt
	form.Submissions = existing.Submissions
	form.UpdatedAt = timestamp(now)
	return form
}

func assignIDs(form *models.Form) {
	for i := range form.Fields {
		if form.Fields[i].ID == "" {
			form.Fields[i].ID = uuid.New().String()
		}
	}
	for i := range form.Integrations {
		if form.Integrations[i].ID == "" {
			form.Integrations[i].ID = uuid.New().String()
		}
	}
}

func cloneForm(f models.Form) models.Form {
	c := f
	if f.Fields != nil {
		c.Fields = make([]models.FieldDefinition, len(f.Fields))
		copy(c.Fields, f.Fields)
		for i := range c.Fields {
			c.Fields[i].Options = append([]string(nil), f.Fields[i].Options...)
		}
	}
	if f.Integrations != nil {
		c.Integrations = make([]models.FormIntegration, len(f.Integrations))
		for i := range f.Integrations {
			c.Integrations[i] = cloneIntegration(f.Integrations[i])
		}
	}
	return c
}

func cloneIntegration(in models.FormIntegration) models.FormIntegration {
	if in.Config == nil {
		return in
	}
	cfg := make(map[string]interface{}, len(in.Config))
	for k, v := range in.Config {
		cfg[k] = v
	}
	in.Config = cfg
	return in
}
