// Package coverage serves coverage ingestion and block rendering.
package coverage

import (
	"net/http"

	"github.com/LambdaTest/neuron/pkg/api/response"
	"github.com/LambdaTest/neuron/pkg/core"
	"github.com/LambdaTest/neuron/pkg/lumber"
	"github.com/gin-gonic/gin"
)

// IngestRequest maps file paths to their base64 or raw coverage payload.
type IngestRequest struct {
	Files map[string]string `json:"files" binding:"required"`
}

// IngestHandler ingests the coverage report of a commit.
func IngestHandler(logger lumber.Logger, coverage core.CoverageService) gin.HandlerFunc {
	return func(c *gin.Context) {
		repoID, sha, ok := response.Commit(c)
		if !ok {
			return
		}
		request := IngestRequest{}
		if err := c.ShouldBindJSON(&request); err != nil {
			logger.Errorf("error while binding json %v", err)
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		files := make(map[string][]byte, len(request.Files))
		for path, payload := range request.Files {
			files[path] = []byte(payload)
		}
		info, err := coverage.Ingest(c.Request.Context(), repoID, sha, files)
		if err != nil {
			response.Error(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, info)
	}
}

// BlocksHandler renders the line blocks of one ingested file.
func BlocksHandler(logger lumber.Logger, coverage core.CoverageService) gin.HandlerFunc {
	return func(c *gin.Context) {
		repoID, sha, ok := response.Commit(c)
		if !ok {
			return
		}
		path := c.Query("path")
		if path == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "path is required"})
			return
		}
		blocks, err := coverage.Blocks(c.Request.Context(), repoID, sha, path)
		if err != nil {
			response.Error(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"path": path, "blocks": blocks})
	}
}
