package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackrejister/form-craft-nexus/pkg/models"
)

const clientMetaKey = "client.meta"

// ClientMeta is what the server knows about the client that sent a request.
type ClientMeta struct {
	IP       string
	Metadata models.ResponseMetadata
}

func GetClientMeta(c *gin.Context) ClientMeta {
	if v, ok := c.Get(clientMetaKey); ok {
		return v.(ClientMeta)
	}
	return clientMetaMiddleware{}.collect(c)
}

func NewClientMetaMiddleware() gin.HandlerFunc {
	return clientMetaMiddleware{}.build()
}

type clientMetaMiddleware struct {
}

func (m clientMetaMiddleware) build() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(clientMetaKey, m.collect(c))
		c.Next()
	}
}

func (m clientMetaMiddleware) collect(c *gin.Context) ClientMeta {
	ua := c.Request.UserAgent()
	query := c.Request.URL.Query()
	return ClientMeta{
		IP: c.ClientIP(),
		Metadata: models.ResponseMetadata{
			UserAgent:   ua,
			Browser:     m.getBrowser(ua),
			OS:          m.getOS(ua),
			Device:      m.getDevice(ua),
			Referrer:    c.Request.Referer(),
			UtmSource:   query.Get("utm_source"),
			UtmMedium:   query.Get("utm_medium"),
			UtmCampaign: query.Get("utm_campaign"),
		},
	}
}

// order matters: Chrome UAs mention Safari, Edge and Opera UAs mention Chrome
var browserTokens = []struct{ token, name string }{
	{"Edg/", "Edge"},
	{"OPR/", "Opera"},
	{"Firefox/", "Firefox"},
	{"Chrome/", "Chrome"},
	{"Safari/", "Safari"},
}

var osTokens = []struct{ token, name string }{
	{"Android", "Android"},
	{"iPhone", "iOS"},
	{"iPad", "iOS"},
	{"Windows", "Windows"},
	{"Mac OS X", "macOS"},
	{"Linux", "Linux"},
}

func (m clientMetaMiddleware) getBrowser(ua string) string {
	for _, b := range browserTokens {
		if strings.Contains(ua, b.token) {
			return b.name
		}
	}
	return ""
}

func (m clientMetaMiddleware) getOS(ua string) string {
	for _, o := range osTokens {
		if strings.Contains(ua, o.token) {
			return o.name
		}
	}
	return ""
}

func (m clientMetaMiddleware) getDevice(ua string) string {
	switch {
	case ua == "":
		return ""
	case strings.Contains(ua, "iPad") || strings.Contains(ua, "Tablet"):
		return "Tablet"
	case strings.Contains(ua, "Mobi"):
		return "Mobile"
	}
	return "Desktop"
}
