package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sharedrive/sharedrive/internal/resource"
	"github.com/sharedrive/sharedrive/internal/sharing"
)

func (server *Server) createFolder(ginContext *gin.Context) {
	var request createResourceRequest
	if err := ginContext.ShouldBindJSON(&request); err != nil {
		ginContext.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !server.authorizeCreate(ginContext, request.ParentID) {
		return
	}

	folder, err := server.resources.CreateFolder(request.Name, principal(ginContext).ID, request.ParentID)
	if err != nil {
		server.abortWithError(ginContext, err)
		return
	}
	ginContext.JSON(http.StatusCreated, folder)
}

// getFolder returns the folder with its whole subtree.
func (server *Server) getFolder(ginContext *gin.Context) {
	id, ok := parseID(ginContext)
	if !ok {
		return
	}
	if !server.authorize(ginContext, resource.FolderRef(id), sharing.CapabilityRead) {
		return
	}

	folder, err := server.reader.ReadFolder(id)
	if err != nil {
		server.abortWithError(ginContext, err)
		return
	}
	ginContext.JSON(http.StatusOK, folder)
}

// getFolderPath returns the folder's ancestor chain, closest ancestor last,
// for breadcrumb displays. A top level folder has an empty path.
func (server *Server) getFolderPath(ginContext *gin.Context) {
	id, ok := parseID(ginContext)
	if !ok {
		return
	}
	if !server.authorize(ginContext, resource.FolderRef(id), sharing.CapabilityRead) {
		return
	}

	ancestors, err := server.reader.ReadAncestors([]uint{id})
	if err != nil {
		server.abortWithError(ginContext, err)
		return
	}
	path := ancestors[id]
	if path == nil {
		path = []resource.Folder{}
	}
	ginContext.JSON(http.StatusOK, gin.H{"path": path})
}

func (server *Server) updateFolder(ginContext *gin.Context) {
	id, ok := parseID(ginContext)
	if !ok {
		return
	}
	server.updateResource(ginContext, resource.FolderRef(id))
}

func (server *Server) deleteFolder(ginContext *gin.Context) {
	id, ok := parseID(ginContext)
	if !ok {
		return
	}
	server.deleteResource(ginContext, resource.FolderRef(id))
}
