// Package response maps service errors and path parameters onto HTTP for the api handlers.
package response

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/LambdaTest/neuron/pkg/errs"
	"github.com/LambdaTest/neuron/pkg/lumber"
	"github.com/gin-gonic/gin"
)

// StatusCode returns the HTTP status of a service error.
func StatusCode(err error) int {
	var (
		validationErr *errs.ValidationError
		decodeErr     *errs.DecodeError
	)
	switch {
	case errors.Is(err, errs.ErrNotFound), errors.Is(err, errs.ErrCheckSetNotFound):
		return http.StatusNotFound
	case errors.As(err, &validationErr), errors.As(err, &decodeErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrLockBusy):
		return http.StatusConflict
	case errors.Is(err, errs.ErrInvalidSignature):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Error aborts the request with the status of err. Internal errors are logged
// and hidden behind a generic message.
func Error(c *gin.Context, logger lumber.Logger, err error) {
	code := StatusCode(err)
	if code == http.StatusInternalServerError {
		logger.Errorf("%s %s failed: %v", c.Request.Method, c.FullPath(), err)
		c.AbortWithStatusJSON(code, gin.H{"message": errs.GenericErrRemark.Error()})
		return
	}
	c.AbortWithStatusJSON(code, gin.H{"message": err.Error()})
}

// Commit reads the repo_id and sha path parameters. It answers 400 and returns
// false when repo_id is not a number.
func Commit(c *gin.Context) (repoID int64, sha string, ok bool) {
	repoID, err := strconv.ParseInt(c.Param("repo_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "repo_id must be an integer"})
		return 0, "", false
	}
	return repoID, c.Param("sha"), true
}
