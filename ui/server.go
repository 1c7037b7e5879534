// Package ui serves the upload form, the JSON analysis API and HTML reports.
package ui

import (
	"embed"
	"html/template"
	"net/http"

	"mazescore/adapters/excel"
	"mazescore/internal"
	"mazescore/internal/analysis"
	"mazescore/internal/config"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFiles embed.FS

// Server represents the web server for session uploads
type Server struct {
	router    *gin.Engine
	config    *config.Config
	analyzer  *analysis.Analyzer
	loader    *excel.Loader
	logger    *internal.Logger
	templates *template.Template
}

// NewServer creates a server with routes installed. Call gin.SetMode before
// this to change the gin mode.
func NewServer(cfg *config.Config, logger *internal.Logger) (*Server, error) {
	if logger == nil {
		logger = internal.Discard()
	}
	logger = logger.With("ui")

	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		router:    gin.New(),
		config:    cfg,
		analyzer:  analysis.NewAnalyzer(cfg.Columns, logger),
		loader:    excel.NewLoader(cfg.Data.Sheet, cfg.Columns, logger),
		logger:    logger,
		templates: templates,
	}
	s.router.MaxMultipartMemory = cfg.Server.MaxUploadMB << 20

	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/healthz", s.handleHealth)

	s.router.POST("/api/analyze", s.handleAnalyze)
	s.router.POST("/report", s.handleReport)
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}
