// Package plugins serves worker status patches of single checks.
package plugins

import (
	"net/http"
	"strings"

	"github.com/LambdaTest/neuron/pkg/api/response"
	"github.com/LambdaTest/neuron/pkg/core"
	"github.com/LambdaTest/neuron/pkg/lumber"
	"github.com/gin-gonic/gin"
)

// PatchHandler applies a worker status patch to the check named by the plugin path.
// Plugin names contain a slash so the route captures them with a wildcard.
func PatchHandler(logger lumber.Logger, checkRun core.CheckRunService) gin.HandlerFunc {
	return func(c *gin.Context) {
		repoID, sha, ok := response.Commit(c)
		if !ok {
			return
		}
		plugin := strings.Trim(c.Param("plugin"), "/")
		if plugin == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "plugin is required"})
			return
		}
		patch := core.StatusPatch{}
		if err := c.ShouldBindJSON(&patch); err != nil {
			logger.Errorf("error while binding json %v", err)
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		check, err := checkRun.ApplyStatusPatch(c.Request.Context(), repoID, sha, plugin, &patch)
		if err != nil {
			response.Error(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, check)
	}
}
