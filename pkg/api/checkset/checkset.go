// Package checkset serves the check set transitions of a commit.
package checkset

import (
	"context"
	"net/http"

	"github.com/LambdaTest/neuron/pkg/api/response"
	"github.com/LambdaTest/neuron/pkg/core"
	"github.com/LambdaTest/neuron/pkg/lumber"
	"github.com/gin-gonic/gin"
)

type transition func(ctx context.Context, repoID int64, sha string) (*core.CheckSet, error)

func handle(logger lumber.Logger, fn transition) gin.HandlerFunc {
	return func(c *gin.Context) {
		repoID, sha, ok := response.Commit(c)
		if !ok {
			return
		}
		checkSet, err := fn(c.Request.Context(), repoID, sha)
		if err != nil {
			response.Error(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, checkSet)
	}
}

// RunHandler starts a check run for the commit.
func RunHandler(logger lumber.Logger, checkRun core.CheckRunService) gin.HandlerFunc {
	return func(c *gin.Context) {
		repoID, sha, ok := response.Commit(c)
		if !ok {
			return
		}
		if err := checkRun.Run(c.Request.Context(), repoID, sha); err != nil {
			response.Error(c, logger, err)
			return
		}
		c.Data(http.StatusAccepted, gin.MIMEPlain, []byte(http.StatusText(http.StatusAccepted)))
	}
}

// ResetHandler returns the check set to waiting.
func ResetHandler(logger lumber.Logger, checkRun core.CheckRunService) gin.HandlerFunc {
	return handle(logger, checkRun.Reset)
}

// PickupHandler is called by a worker once it picked the job up.
func PickupHandler(logger lumber.Logger, checkRun core.CheckRunService) gin.HandlerFunc {
	return handle(logger, checkRun.Pickup)
}

// CancelHandler flags the check set as canceling.
func CancelHandler(logger lumber.Logger, checkRun core.CheckRunService) gin.HandlerFunc {
	return handle(logger, checkRun.Cancel)
}

// WrapUpHandler is called by a worker once every check finished.
func WrapUpHandler(logger lumber.Logger, checkRun core.CheckRunService) gin.HandlerFunc {
	return handle(logger, checkRun.WrapUp)
}
