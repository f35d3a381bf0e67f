package controller

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackrejister/form-craft-nexus/pkg/deliverylog"
	"github.com/jackrejister/form-craft-nexus/pkg/integrations"
	"github.com/jackrejister/form-craft-nexus/pkg/models"
	"github.com/jackrejister/form-craft-nexus/pkg/repo"
	"github.com/sirupsen/logrus"
)

const integrationNotFound = "integration not found"

type IntegrationTester interface {
	TestIntegration(ctx context.Context, in models.FormIntegration) integrations.Outcome
}

type IntegrationController struct {
	forms      repo.FormRepository
	tester     IntegrationTester
	deliveries deliverylog.Recorder
	logger     logrus.FieldLogger
}

func NewIntegrationController(forms repo.FormRepository, tester IntegrationTester, deliveries deliverylog.Recorder,
	logger logrus.FieldLogger) *IntegrationController {
	return &IntegrationController{
		forms:      forms,
		tester:     tester,
		deliveries: deliveries,
		logger:     logger.WithField("module", "IntegrationController"),
	}
}

func (ic *IntegrationController) Save(c *gin.Context) {
	var in models.FormIntegration
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid integration: "+err.Error())
		return
	}
	if msg := checkIntegration(in); msg != "" {
		badRequest(c, msg)
		return
	}
	saved, err := ic.forms.SaveIntegration(c.Request.Context(), c.Param("formId"), in)
	if err != nil {
		abortWithError(c, ic.logger, err, formNotFound)
		return
	}
	c.JSON(http.StatusOK, saved)
}

func (ic *IntegrationController) Delete(c *gin.Context) {
	err := ic.forms.DeleteIntegration(c.Request.Context(), c.Param("formId"), c.Param("integrationId"))
	if err != nil {
		abortWithError(c, ic.logger, err, integrationNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

// Test sends a sample submission through one integration and reports how it went.
func (ic *IntegrationController) Test(c *gin.Context) {
	ctx := c.Request.Context()
	form, err := ic.forms.GetForm(ctx, c.Param("formId"))
	if err != nil {
		abortWithError(c, ic.logger, err, formNotFound)
		return
	}
	in, ok := form.Integration(c.Param("integrationId"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": integrationNotFound})
		return
	}

	outcome := ic.tester.TestIntegration(ctx, in)
	if err := ic.deliveries.RecordDelivery(ctx, deliverylog.FromOutcome(form.ID, "", outcome)); err != nil {
		ic.logger.Warnf("error recording test delivery of integration %s: %v", in.ID, err)
	}
	c.JSON(http.StatusOK, outcome)
}

// Deliveries lists the delivery log of an integration of the form.
func (ic *IntegrationController) Deliveries(c *gin.Context) {
	ctx := c.Request.Context()
	form, err := ic.forms.GetForm(ctx, c.Param("formId"))
	if err != nil {
		abortWithError(c, ic.logger, err, formNotFound)
		return
	}
	in, ok := form.Integration(c.Param("integrationId"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": integrationNotFound})
		return
	}

	limit := deliverylog.DefaultListLimit
	if l := c.Query("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n <= 0 {
			badRequest(c, "limit must be a positive number")
			return
		}
		limit = n
	}
	records, err := ic.deliveries.ListDeliveries(ctx, in.ID, limit)
	if err != nil {
		abortWithError(c, ic.logger, err, integrationNotFound)
		return
	}
	c.JSON(http.StatusOK, records)
}
