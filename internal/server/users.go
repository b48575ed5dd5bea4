package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type createUserRequest struct {
	Name string `json:"name" binding:"required"`
}

func (server *Server) createUser(ginContext *gin.Context) {
	var request createUserRequest
	if err := ginContext.ShouldBindJSON(&request); err != nil {
		ginContext.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := server.users.Create(request.Name)
	if err != nil {
		server.abortWithError(ginContext, err)
		return
	}
	ginContext.JSON(http.StatusCreated, created)
}

func (server *Server) listUsers(ginContext *gin.Context) {
	users, err := server.users.List()
	if err != nil {
		server.abortWithError(ginContext, err)
		return
	}
	ginContext.JSON(http.StatusOK, gin.H{"users": users})
}
