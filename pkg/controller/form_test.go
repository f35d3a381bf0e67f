package controller

import (
	"net/http"
	"testing"

	"github.com/jackrejister/form-craft-nexus/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormController_ListGet(t *testing.T) {
	app := newTestApp()

	c, rec := newContext(http.MethodGet, "/forms", nil, nil)
	app.fc.List(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	var forms []models.Form
	decode(t, rec, &forms)
	assert.Len(t, forms, 3)

	c, rec = newContext(http.MethodGet, "/forms/2", nil, formParams("2"))
	app.fc.Get(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	var form models.Form
	decode(t, rec, &form)
	assert.Equal(t, "Event Registration", form.Title)

	c, rec = newContext(http.MethodGet, "/forms/9", nil, formParams("9"))
	app.fc.Get(c)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"form not found"}`, rec.Body.String())
}

func TestFormController_Create(t *testing.T) {
	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
		wantError  string
	}{
		{
			name:       "defaults",
			body:       map[string]interface{}{"fields": []interface{}{map[string]interface{}{"type": "text", "label": "Name"}}},
			wantStatus: http.StatusCreated,
		},
		{
			name: "choice without options",
			body: map[string]interface{}{"fields": []interface{}{
				map[string]interface{}{"id": "c", "type": "select", "label": "Pick"},
			}},
			wantStatus: http.StatusBadRequest,
			wantError:  `field "c" of type select requires options`,
		},
		{
			name: "unknown integration",
			body: map[string]interface{}{"integrations": []interface{}{
				map[string]interface{}{"type": "fax", "name": "old"},
			}},
			wantStatus: http.StatusBadRequest,
			wantError:  "unknown integration type fax",
		},
		{
			name:       "not json",
			body:       "nope",
			wantStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp()
			c, rec := newContext(http.MethodPost, "/forms", tt.body, nil)
			app.fc.Create(c)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantError != "" {
				var body map[string]string
				decode(t, rec, &body)
				assert.Equal(t, tt.wantError, body["error"])
			}
			if tt.wantStatus == http.StatusCreated {
				var form models.Form
				decode(t, rec, &form)
				assert.Equal(t, "Untitled Form", form.Title)
				assert.NotEmpty(t, form.ID)
				assert.NotEmpty(t, form.Fields[0].ID)
			}
		})
	}
}

func TestFormController_UpdateDelete(t *testing.T) {
	app := newTestApp()

	c, rec := newContext(http.MethodPut, "/forms/3", map[string]interface{}{"title": "Talk to us"}, formParams("3"))
	app.fc.Update(c)
	require.Equal(t, http.StatusOK, rec.Code)
	var form models.Form
	decode(t, rec, &form)
	assert.Equal(t, "3", form.ID)
	assert.Equal(t, "Talk to us", form.Title)
	assert.Len(t, form.Fields, 3)

	c, rec = newContext(http.MethodPut, "/forms/9", map[string]interface{}{"title": "x"}, formParams("9"))
	app.fc.Update(c)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	c, rec = newContext(http.MethodDelete, "/forms/3", nil, formParams("3"))
	app.fc.Delete(c)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	c, rec = newContext(http.MethodDelete, "/forms/3", nil, formParams("3"))
	app.fc.Delete(c)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
