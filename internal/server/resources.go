package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sharedrive/sharedrive/internal/db"
	"github.com/sharedrive/sharedrive/internal/resource"
	"github.com/sharedrive/sharedrive/internal/sharing"
	"github.com/sharedrive/sharedrive/internal/xslices"
)

type createResourceRequest struct {
	Name     string `json:"name" binding:"required"`
	ParentID uint   `json:"parentId"`
}

// updateResourceRequest carries a partial update: a rename, a move, or both.
type updateResourceRequest struct {
	Name        *string `json:"name"`
	NewParentID *uint   `json:"newParentId"`
}

// authorize checks one capability of the principal on a resource, writing the
// 403 itself. The owner passes every check without a share row.
func (server *Server) authorize(ginContext *gin.Context, ref resource.Ref, capability sharing.Capability) bool {
	allowed, err := server.resolver.Resolve(principal(ginContext).ID, ref, capability)
	if err != nil {
		server.abortWithError(ginContext, err)
		return false
	}
	if !allowed {
		ginContext.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": "you don't hold the " + string(capability) + " capability on this resource",
		})
		return false
	}
	return true
}

// authorizeCreate gates creating inside a parent folder: the parent's owner
// or a user granted edit on it. Anyone can create at the top level.
func (server *Server) authorizeCreate(ginContext *gin.Context, parentID uint) bool {
	if parentID == db.RootFolderID {
		return true
	}
	return server.authorize(ginContext, resource.FolderRef(parentID), sharing.CapabilityEdit)
}

func (server *Server) updateResource(ginContext *gin.Context, ref resource.Ref) {
	var request updateResourceRequest
	if err := ginContext.ShouldBindJSON(&request); err != nil {
		ginContext.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if request.Name == nil && request.NewParentID == nil {
		ginContext.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
		return
	}
	if !server.authorize(ginContext, ref, sharing.CapabilityEdit) {
		return
	}

	var updated db.Resource
	if request.Name != nil {
		var err error
		updated, err = server.resources.Rename(ref, *request.Name)
		if err != nil {
			server.abortWithError(ginContext, err)
			return
		}
	}
	if request.NewParentID != nil {
		if *request.NewParentID != db.RootFolderID {
			// moving into a folder needs edit on the destination too
			if !server.authorize(ginContext, resource.FolderRef(*request.NewParentID), sharing.CapabilityEdit) {
				return
			}
		}
		var err error
		updated, err = server.resources.Move(ref, *request.NewParentID)
		if err != nil {
			server.abortWithError(ginContext, err)
			return
		}
	}
	ginContext.JSON(http.StatusOK, updated)
}

func (server *Server) deleteResource(ginContext *gin.Context, ref resource.Ref) {
	if !server.authorize(ginContext, ref, sharing.CapabilityDelete) {
		return
	}
	if err := server.resources.Delete(ref); err != nil {
		server.abortWithError(ginContext, err)
		return
	}
	ginContext.Status(http.StatusNoContent)
}

type personalResponse struct {
	Folders []db.Resource `json:"folders"`
	Files   []db.Resource `json:"files"`
}

// listPersonal returns the resources the principal owns.
func (server *Server) listPersonal(ginContext *gin.Context) {
	resources, err := server.reader.ReadOwnedResources(principal(ginContext).ID)
	if err != nil {
		server.abortWithError(ginContext, err)
		return
	}

	ginContext.JSON(http.StatusOK, personalResponse{
		Folders: xslices.Filter(resources, func(res db.Resource) bool {
			return res.Kind == db.ResourceKindFolder
		}),
		Files: xslices.Filter(resources, func(res db.Resource) bool {
			return res.Kind == db.ResourceKindFile
		}),
	})
}

// listSharedWithMe returns the resources shared with the principal with at
// least the read capability.
func (server *Server) listSharedWithMe(ginContext *gin.Context) {
	userID := principal(ginContext).ID
	folders, err := server.sharing.ListSharedWithUser(userID, db.ResourceKindFolder)
	if err != nil {
		server.abortWithError(ginContext, err)
		return
	}
	files, err := server.sharing.ListSharedWithUser(userID, db.ResourceKindFile)
	if err != nil {
		server.abortWithError(ginContext, err)
		return
	}

	response := personalResponse{
		Folders: folders,
		Files:   files,
	}
	if response.Folders == nil {
		response.Folders = []db.Resource{}
	}
	if response.Files == nil {
		response.Files = []db.Resource{}
	}
	ginContext.JSON(http.StatusOK, response)
}
