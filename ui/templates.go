package ui

import (
	"bytes"
	"fmt"
	"html/template"

	"mazescore/adapters/render"

	"github.com/gin-gonic/gin"
)

// indexPage is the data for the upload form
type indexPage struct {
	MaxUploadMB int64
	Formats     []string
	Error       string
	Code        string
}

func parseTemplates() (*template.Template, error) {
	t, err := template.ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return t, nil
}

// renderTemplate executes a template with the given data
func (s *Server) renderTemplate(c *gin.Context, status int, name string, data interface{}) {
	// Render to a buffer first so a template error never leaves a partial page.
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.Error("template %s: %v", name, err)
		c.AbortWithStatusJSON(500, gin.H{"error": "template rendering failed"})
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

func (s *Server) indexPage() indexPage {
	return indexPage{
		MaxUploadMB: s.config.Server.MaxUploadMB,
		Formats:     render.Formats,
	}
}
