package controller

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackrejister/form-craft-nexus/pkg/deliverylog"
	"github.com/jackrejister/form-craft-nexus/pkg/integrations"
	"github.com/jackrejister/form-craft-nexus/pkg/repo"
	"github.com/jackrejister/form-craft-nexus/pkg/submission"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

var logger, _ = logtest.NewNullLogger()

type testApp struct {
	forms      *repo.InMemoryFormRepository
	deliveries *deliverylog.InMemoryRecorder
	svc        *submission.Service
	fc         *FormController
	ic         *IntegrationController
	rc         *ResponseController
}

func newTestApp() testApp {
	gin.SetMode(gin.TestMode)
	a := testApp{
		forms:      repo.NewInMemoryFormRepository(repo.SampleForms()...),
		deliveries: deliverylog.NewInMemoryRecorder(),
	}
	d := integrations.NewDispatcher(integrations.Config{Timeout: time.Second}, nil, logger)
	a.svc = submission.NewService(a.forms, repo.NewInMemoryResponseRepository(), d, a.deliveries, logger)
	a.fc = NewFormController(a.forms, logger)
	a.ic = NewIntegrationController(a.forms, d, a.deliveries, logger)
	a.rc = NewResponseController(a.svc, logger)
	return a
}

func newContext(method, target string, body interface{}, params gin.Params) (*gin.Context, *httptest.ResponseRecorder) {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(method, target, reader)
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = params
	return c, recorder
}

func formParams(formID string) gin.Params {
	return gin.Params{{Key: "formId", Value: formID}}
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("error decoding %q: %v", rec.Body.String(), err)
	}
}
