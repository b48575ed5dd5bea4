package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sharedrive/sharedrive/internal/resource"
	"github.com/sharedrive/sharedrive/internal/sharing"
)

func (server *Server) createFile(ginContext *gin.Context) {
	var request createResourceRequest
	if err := ginContext.ShouldBindJSON(&request); err != nil {
		ginContext.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !server.authorizeCreate(ginContext, request.ParentID) {
		return
	}

	file, err := server.resources.CreateFile(request.Name, principal(ginContext).ID, request.ParentID)
	if err != nil {
		server.abortWithError(ginContext, err)
		return
	}
	ginContext.JSON(http.StatusCreated, file)
}

func (server *Server) getFile(ginContext *gin.Context) {
	id, ok := parseID(ginContext)
	if !ok {
		return
	}
	ref := resource.FileRef(id)
	if !server.authorize(ginContext, ref, sharing.CapabilityRead) {
		return
	}

	file, err := server.reader.ReadResource(ref)
	if err != nil {
		server.abortWithError(ginContext, err)
		return
	}
	ginContext.JSON(http.StatusOK, file)
}

func (server *Server) updateFile(ginContext *gin.Context) {
	id, ok := parseID(ginContext)
	if !ok {
		return
	}
	server.updateResource(ginContext, resource.FileRef(id))
}

func (server *Server) deleteFile(ginContext *gin.Context) {
	id, ok := parseID(ginContext)
	if !ok {
		return
	}
	server.deleteResource(ginContext, resource.FileRef(id))
}
