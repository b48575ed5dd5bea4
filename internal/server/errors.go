package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sharedrive/sharedrive/internal/xerrors"
)

// abortWithError maps the error taxonomy onto HTTP statuses. Anything outside
// the taxonomy is an internal error and its detail stays out of the response.
func (server *Server) abortWithError(ginContext *gin.Context, err error) {
	switch {
	case errors.Is(err, xerrors.ErrNotFound):
		ginContext.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, xerrors.ErrInvalidArgument):
		ginContext.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, xerrors.ErrPermissionDenied):
		ginContext.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		server.logger.Error("an internal error", "error", err,
			"method", ginContext.Request.Method,
			"path", ginContext.Request.URL.Path,
		)
		ginContext.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func parseID(ginContext *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ginContext.Param("id"), 10, 32)
	if err != nil {
		ginContext.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}
