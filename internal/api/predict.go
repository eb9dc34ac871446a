package api

import (
	"net/http"

	"github.com/doda25-team16/model-service/internal/app"
	"github.com/doda25-team16/model-service/internal/services/classifier"
	"github.com/doda25-team16/model-service/internal/services/textproc"

	"github.com/gin-gonic/gin"
)

// Predict classifies one SMS message. The body must be a JSON object with a
// string field "sms"; anything else is rejected without touching the model.
func Predict(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be a JSON object"})
		return
	}

	raw, ok := body["sms"]
	if !ok || raw == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required field 'sms'"})
		return
	}

	sms, ok := raw.(string)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "'sms' must be a string"})
		return
	}

	app := c.MustGet("app").(*app.App)
	result := app.Classifier.Predict(textproc.Prepare(sms))

	c.JSON(http.StatusOK, gin.H{
		"result":     result,
		"classifier": classifier.Name,
		"sms":        sms,
	})
}
