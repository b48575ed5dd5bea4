package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sharedrive/sharedrive/internal/db"
)

const (
	headerUser      = "X-User"
	headerRequestID = "X-Request-ID"

	contextKeyPrincipal = "principal"
)

// requestLogger tags every request with an ID and logs it on completion.
func (server *Server) requestLogger() gin.HandlerFunc {
	return func(ginContext *gin.Context) {
		requestID := ginContext.GetHeader(headerRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ginContext.Header(headerRequestID, requestID)

		start := time.Now()
		ginContext.Next()

		server.logger.Info("handled a request",
			"requestID", requestID,
			"method", ginContext.Request.Method,
			"path", ginContext.Request.URL.Path,
			"status", ginContext.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// requirePrincipal resolves the X-User header to a user and stores it in the
// request context. Requests without a known user are rejected.
func (server *Server) requirePrincipal() gin.HandlerFunc {
	return func(ginContext *gin.Context) {
		username := ginContext.GetHeader(headerUser)
		if username == "" {
			ginContext.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "the X-User header is required",
			})
			return
		}

		principal, err := server.users.FindByName(username)
		if err != nil {
			ginContext.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "unknown user: " + username,
			})
			return
		}

		ginContext.Set(contextKeyPrincipal, principal)
		ginContext.Next()
	}
}

func principal(ginContext *gin.Context) db.User {
	return ginContext.MustGet(contextKeyPrincipal).(db.User)
}
