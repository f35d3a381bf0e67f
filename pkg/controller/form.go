package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackrejister/form-craft-nexus/pkg/models"
	"github.com/jackrejister/form-craft-nexus/pkg/repo"
	"github.com/jackrejister/form-craft-nexus/pkg/validation"
	"github.com/sirupsen/logrus"
)

const formNotFound = "form not found"

type FormController struct {
	forms  repo.FormRepository
	logger logrus.FieldLogger
}

func NewFormController(forms repo.FormRepository, logger logrus.FieldLogger) *FormController {
	return &FormController{
		forms:  forms,
		logger: logger.WithField("module", "FormController"),
	}
}

func (fc *FormController) List(c *gin.Context) {
	forms, err := fc.forms.ListForms(c.Request.Context())
	if err != nil {
		abortWithError(c, fc.logger, err, formNotFound)
		return
	}
	c.JSON(http.StatusOK, forms)
}

func (fc *FormController) Get(c *gin.Context) {
	form, err := fc.forms.GetForm(c.Request.Context(), c.Param("formId"))
	if err != nil {
		abortWithError(c, fc.logger, err, formNotFound)
		return
	}
	c.JSON(http.StatusOK, form)
}

func (fc *FormController) Create(c *gin.Context) {
	var form models.Form
	if err := c.ShouldBindJSON(&form); err != nil {
		badRequest(c, "invalid form: "+err.Error())
		return
	}
	if msg := checkForm(form); msg != "" {
		badRequest(c, msg)
		return
	}
	created, err := fc.forms.CreateForm(c.Request.Context(), form)
	if err != nil {
		abortWithError(c, fc.logger, err, formNotFound)
		return
	}
	fc.logger.Infof("created form %s", created.ID)
	c.JSON(http.StatusCreated, created)
}

func (fc *FormController) Update(c *gin.Context) {
	var form models.Form
	if err := c.ShouldBindJSON(&form); err != nil {
		badRequest(c, "invalid form: "+err.Error())
		return
	}
	form.ID = c.Param("formId")
	if msg := checkForm(form); msg != "" {
		badRequest(c, msg)
		return
	}
	updated, err := fc.forms.UpdateForm(c.Request.Context(), form)
	if err != nil {
		abortWithError(c, fc.logger, err, formNotFound)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (fc *FormController) Delete(c *gin.Context) {
	if err := fc.forms.DeleteForm(c.Request.Context(), c.Param("formId")); err != nil {
		abortWithError(c, fc.logger, err, formNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

func checkForm(form models.Form) string {
	if err := validation.ValidateDefinitions(form.Fields); err != nil {
		return err.Error()
	}
	for _, in := range form.Integrations {
		if msg := checkIntegration(in); msg != "" {
			return msg
		}
	}
	return ""
}

func checkIntegration(in models.FormIntegration) string {
	if !in.Type.Valid() {
		return "unknown integration type " + string(in.Type)
	}
	return ""
}
