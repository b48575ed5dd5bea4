package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sharedrive/sharedrive/internal/resource"
	"github.com/sharedrive/sharedrive/internal/sharing"
)

type shareRequest struct {
	Usernames    []string             `json:"usernames" binding:"required"`
	Capabilities sharing.Capabilities `json:"capabilities"`
}

type unshareRequest struct {
	Usernames []string `json:"usernames" binding:"required"`
}

func (server *Server) shareFolder(ginContext *gin.Context) {
	id, ok := parseID(ginContext)
	if !ok {
		return
	}
	server.shareResource(ginContext, resource.FolderRef(id))
}

func (server *Server) shareFile(ginContext *gin.Context) {
	id, ok := parseID(ginContext)
	if !ok {
		return
	}
	server.shareResource(ginContext, resource.FileRef(id))
}

func (server *Server) shareResource(ginContext *gin.Context, ref resource.Ref) {
	var request shareRequest
	if err := ginContext.ShouldBindJSON(&request); err != nil {
		ginContext.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := server.sharing.Share(principal(ginContext).ID, ref, request.Usernames, request.Capabilities)
	if err != nil {
		server.abortWithError(ginContext, err)
		return
	}
	ginContext.JSON(http.StatusOK, result)
}

func (server *Server) unshareFolder(ginContext *gin.Context) {
	id, ok := parseID(ginContext)
	if !ok {
		return
	}
	server.unshareResource(ginContext, resource.FolderRef(id))
}

func (server *Server) unshareFile(ginContext *gin.Context) {
	id, ok := parseID(ginContext)
	if !ok {
		return
	}
	server.unshareResource(ginContext, resource.FileRef(id))
}

func (server *Server) unshareResource(ginContext *gin.Context, ref resource.Ref) {
	var request unshareRequest
	if err := ginContext.ShouldBindJSON(&request); err != nil {
		ginContext.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := server.sharing.Unshare(principal(ginContext).ID, ref, request.Usernames)
	if err != nil {
		server.abortWithError(ginContext, err)
		return
	}
	ginContext.JSON(http.StatusOK, result)
}

func (server *Server) listFolderGrants(ginContext *gin.Context) {
	id, ok := parseID(ginContext)
	if !ok {
		return
	}
	server.listResourceGrants(ginContext, resource.FolderRef(id))
}

func (server *Server) listFileGrants(ginContext *gin.Context) {
	id, ok := parseID(ginContext)
	if !ok {
		return
	}
	server.listResourceGrants(ginContext, resource.FileRef(id))
}

// listResourceGrants shows who has access. Seeing the list needs the read
// capability on the resource.
func (server *Server) listResourceGrants(ginContext *gin.Context, ref resource.Ref) {
	if !server.authorize(ginContext, ref, sharing.CapabilityRead) {
		return
	}

	grants, err := server.sharing.ListGrants(ref)
	if err != nil {
		server.abortWithError(ginContext, err)
		return
	}
	ginContext.JSON(http.StatusOK, gin.H{"grants": grants})
}
