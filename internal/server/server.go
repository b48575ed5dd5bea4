package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sharedrive/sharedrive/internal/config"
	"github.com/sharedrive/sharedrive/internal/resource"
	"github.com/sharedrive/sharedrive/internal/sharing"
	"github.com/sharedrive/sharedrive/internal/user"
)

// Server exposes the folder tree and the sharing engine over HTTP. The caller
// is identified by the X-User header; authentication itself happens upstream.
type Server struct {
	logger *slog.Logger

	users     *user.Service
	resources *resource.Service
	reader    *resource.Reader
	sharing   *sharing.Service
	resolver  *sharing.Resolver
}

func New(
	logger *slog.Logger,
	users *user.Service,
	resources *resource.Service,
	reader *resource.Reader,
	sharingService *sharing.Service,
	resolver *sharing.Resolver,
) *Server {
	return &Server{
		logger:    logger,
		users:     users,
		resources: resources,
		reader:    reader,
		sharing:   sharingService,
		resolver:  resolver,
	}
}

func (server *Server) Handler(conf config.Config) http.Handler {
	if conf.Environment == config.EnvironmentProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(server.requestLogger())

	api := engine.Group("/api")
	api.POST("/users", server.createUser)
	api.GET("/users", server.listUsers)

	authenticated := api.Group("")
	authenticated.Use(server.requirePrincipal())

	authenticated.POST("/folders", server.createFolder)
	authenticated.GET("/folders/:id", server.getFolder)
	authenticated.GET("/folders/:id/path", server.getFolderPath)
	authenticated.PATCH("/folders/:id", server.updateFolder)
	authenticated.DELETE("/folders/:id", server.deleteFolder)

	authenticated.POST("/files", server.createFile)
	authenticated.GET("/files/:id", server.getFile)
	authenticated.PATCH("/files/:id", server.updateFile)
	authenticated.DELETE("/files/:id", server.deleteFile)

	authenticated.POST("/folders/:id/share", server.shareFolder)
	authenticated.POST("/folders/:id/unshare", server.unshareFolder)
	authenticated.GET("/folders/:id/shares", server.listFolderGrants)
	authenticated.POST("/files/:id/share", server.shareFile)
	authenticated.POST("/files/:id/unshare", server.unshareFile)
	authenticated.GET("/files/:id/shares", server.listFileGrants)

	authenticated.GET("/resources/personal", server.listPersonal)
	authenticated.GET("/resources/shared", server.listSharedWithMe)

	return engine
}
