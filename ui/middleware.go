package ui

import (
	"mazescore/ui/middleware"

	"github.com/gin-gonic/gin"
)

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	s.router.Use(
		gin.Recovery(),
		middleware.RequestLogger(s.logger),
		middleware.LimitBody(s.config.Server.MaxUploadMB<<20),
	)
}
