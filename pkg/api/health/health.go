package health

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Checker reports whether a dependency is reachable.
type Checker func(ctx context.Context) error

// Handler for health API. A nil checker always reports OK.
func Handler(check Checker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			if err := check(c.Request.Context()); err != nil {
				c.Data(http.StatusServiceUnavailable, gin.MIMEPlain, []byte(http.StatusText(http.StatusServiceUnavailable)))
				return
			}
		}
		c.Data(http.StatusOK, gin.MIMEPlain, []byte(http.StatusText(http.StatusOK)))
	}
}
