// Package webhooks receives GitHub deliveries.
package webhooks

import (
	"net/http"

	"github.com/LambdaTest/neuron/pkg/api/response"
	"github.com/LambdaTest/neuron/pkg/lumber"
	"github.com/LambdaTest/neuron/pkg/webhook"
	"github.com/gin-gonic/gin"
)

// Handler hands the delivery to the dispatcher.
func Handler(logger lumber.Logger, dispatcher *webhook.Dispatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := dispatcher.Dispatch(c.Request.Context(), c.Request); err != nil {
			response.Error(c, logger, err)
			return
		}
		c.Data(http.StatusOK, gin.MIMEPlain, []byte(http.StatusText(http.StatusOK)))
	}
}
