package controller

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackrejister/form-craft-nexus/pkg/deliverylog"
	"github.com/jackrejister/form-craft-nexus/pkg/integrations"
	"github.com/jackrejister/form-craft-nexus/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func integrationParams(formID, integrationID string) gin.Params {
	return gin.Params{{Key: "formId", Value: formID}, {Key: "integrationId", Value: integrationID}}
}

func TestIntegrationController_SaveDelete(t *testing.T) {
	app := newTestApp()

	c, rec := newContext(http.MethodPut, "/forms/3/integrations", map[string]interface{}{
		"type": "slack", "name": "Team chat", "enabled": true,
		"config": map[string]interface{}{"webhookUrl": "https://hooks.slack.com/services/x"},
	}, formParams("3"))
	app.ic.Save(c)
	require.Equal(t, http.StatusOK, rec.Code)
	var saved models.FormIntegration
	decode(t, rec, &saved)
	assert.NotEmpty(t, saved.ID)

	c, rec = newContext(http.MethodPut, "/forms/3/integrations", map[string]interface{}{"type": "fax"}, formParams("3"))
	app.ic.Save(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = newContext(http.MethodPut, "/forms/9/integrations", map[string]interface{}{"type": "slack"}, formParams("9"))
	app.ic.Save(c)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	c, rec = newContext(http.MethodDelete, "/", nil, integrationParams("3", saved.ID))
	app.ic.Delete(c)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	c, rec = newContext(http.MethodDelete, "/", nil, integrationParams("3", saved.ID))
	app.ic.Delete(c)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"integration not found"}`, rec.Body.String())
}

func TestIntegrationController_TestAndDeliveries(t *testing.T) {
	app := newTestApp()
	var gotBody int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > 0 {
			atomic.StoreInt32(&gotBody, 1)
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := app.forms.SaveIntegration(newBackground(), "3", models.FormIntegration{
		ID: "hook", Type: models.IntegrationWebhook, Name: "hook", Enabled: false,
		Config: map[string]interface{}{"url": srv.URL},
	})
	require.NoError(t, err)

	c, rec := newContext(http.MethodPost, "/", nil, integrationParams("3", "hook"))
	app.ic.Test(c)
	require.Equal(t, http.StatusOK, rec.Code)
	var outcome integrations.Outcome
	decode(t, rec, &outcome)
	assert.Equal(t, integrations.StatusFailed, outcome.Status)
	assert.Equal(t, "Webhook failed with status: 500", outcome.Error)
	assert.Equal(t, int32(1), atomic.LoadInt32(&gotBody))

	c, rec = newContext(http.MethodPost, "/", nil, integrationParams("3", "missing"))
	app.ic.Test(c)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	c, rec = newContext(http.MethodGet, "/?limit=5", nil, integrationParams("3", "hook"))
	app.ic.Deliveries(c)
	require.Equal(t, http.StatusOK, rec.Code)
	var records []deliverylog.Record
	decode(t, rec, &records)
	require.Len(t, records, 1)
	assert.Equal(t, "failed", records[0].Outcome)
	assert.Equal(t, "3", records[0].FormID)

	c, rec = newContext(http.MethodGet, "/?limit=zero", nil, integrationParams("3", "hook"))
	app.ic.Deliveries(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// the integration belongs to form 3, not form 1
	c, rec = newContext(http.MethodGet, "/", nil, integrationParams("1", "hook"))
	app.ic.Deliveries(c)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "integration not found")

	c, rec = newContext(http.MethodGet, "/", nil, integrationParams("nope", "hook"))
	app.ic.Deliveries(c)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "form not found")
}
