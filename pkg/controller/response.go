package controller

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackrejister/form-craft-nexus/pkg/middleware"
	"github.com/jackrejister/form-craft-nexus/pkg/submission"
	"github.com/sirupsen/logrus"
)

type answers struct {
	Values map[string]interface{} `json:"values"`
}

type ResponseController struct {
	svc    *submission.Service
	logger logrus.FieldLogger
}

func NewResponseController(svc *submission.Service, logger logrus.FieldLogger) *ResponseController {
	return &ResponseController{
		svc:    svc,
		logger: logger.WithField("module", "ResponseController"),
	}
}

func (rc *ResponseController) Validate(c *gin.Context) {
	var a answers
	if err := c.ShouldBindJSON(&a); err != nil {
		badRequest(c, "invalid answers: "+err.Error())
		return
	}
	errs, err := rc.svc.Validate(c.Request.Context(), c.Param("formId"), a.Values)
	if err != nil {
		abortWithError(c, rc.logger, err, formNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"errors": errs})
}

func (rc *ResponseController) Submit(c *gin.Context) {
	var a answers
	if err := c.ShouldBindJSON(&a); err != nil {
		badRequest(c, "invalid answers: "+err.Error())
		return
	}
	meta := middleware.GetClientMeta(c)
	md := meta.Metadata
	res, err := rc.svc.Submit(c.Request.Context(), submission.Request{
		FormID:   c.Param("formId"),
		Values:   a.Values,
		IP:       meta.IP,
		Metadata: &md,
	})
	if err != nil {
		abortWithError(c, rc.logger, err, formNotFound)
		return
	}
	if len(res.Errors) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": res.Errors})
		return
	}
	c.JSON(http.StatusCreated, res.Response)
}

func (rc *ResponseController) List(c *gin.Context) {
	responses, err := rc.svc.ListResponses(c.Request.Context(), c.Param("formId"))
	if err != nil {
		abortWithError(c, rc.logger, err, formNotFound)
		return
	}
	c.JSON(http.StatusOK, responses)
}

func (rc *ResponseController) Export(c *gin.Context) {
	formID := c.Param("formId")
	var buf bytes.Buffer
	if err := rc.svc.ExportCSV(c.Request.Context(), formID, &buf); err != nil {
		abortWithError(c, rc.logger, err, formNotFound)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+formID+`-responses.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
