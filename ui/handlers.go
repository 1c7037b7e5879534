package ui

import (
	"bytes"
	stderrors "errors"
	"net/http"
	"path/filepath"

	"mazescore/adapters/render"
	"mazescore/domain/core"
	"mazescore/domain/strategy"
	"mazescore/internal/errors"

	"github.com/gin-gonic/gin"
)

// analyzeResponse is the JSON body of POST /api/analyze
type analyzeResponse struct {
	RunID  core.RunID           `json:"run_id"`
	File   string               `json:"file"`
	Totals strategy.TotalCounts `json:"totals"`
	Phases strategy.PhaseTable  `json:"phases"`
	Window strategy.Window      `json:"window"`
	Rows   strategy.RowStats    `json:"rows"`
	Tables []strategy.Frame     `json:"tables"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleIndex(c *gin.Context) {
	s.renderTemplate(c, http.StatusOK, "index.html", s.indexPage())
}

func (s *Server) handleAnalyze(c *gin.Context) {
	name, res, err := s.analyzeUpload(c)
	if err != nil {
		status := statusFor(err)
		c.JSON(status, gin.H{"error": err.Error(), "code": errors.GetCode(err)})
		return
	}

	runID := core.NewRunID()
	s.logger.Info("run %s: %s, %d phases", runID, name, len(res.Phases.Phases))
	c.JSON(http.StatusOK, analyzeResponse{
		RunID:  runID,
		File:   name,
		Totals: res.Totals,
		Phases: res.Phases,
		Window: res.Window,
		Rows:   res.Rows,
		Tables: res.Frames(),
	})
}

func (s *Server) handleReport(c *gin.Context) {
	name, res, err := s.analyzeUpload(c)
	if err != nil {
		page := s.indexPage()
		page.Error = err.Error()
		page.Code = errors.GetCode(err)
		s.renderTemplate(c, statusFor(err), "index.html", page)
		return
	}

	renderer, err := render.ForFormat("html", render.Options{Source: name, RunID: core.NewRunID()})
	if err != nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := renderer.Render(&buf, res); err != nil {
		s.logger.Error("render %s: %v", name, err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// analyzeUpload reads the multipart "file" field and analyzes it
func (s *Server) analyzeUpload(c *gin.Context) (string, *strategy.Result, error) {
	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return "", nil, errors.New(errors.CodeInvalidInput, "upload exceeds the size limit")
		}
		return "", nil, errors.New(errors.CodeInvalidInput, "multipart field \"file\" is required")
	}
	name := filepath.Base(header.Filename)

	f, err := header.Open()
	if err != nil {
		return name, nil, errors.Wrap(err, "failed to open upload")
	}
	defer f.Close()

	table, err := s.loader.LoadUpload(name, f)
	if err != nil {
		return name, nil, errors.Wrapf(err, "failed to read %s", name)
	}

	res, err := s.analyzer.Analyze(table)
	if err != nil {
		return name, nil, errors.Wrapf(err, "failed to analyze %s", name)
	}
	return name, res, nil
}

// statusFor maps an error to an HTTP status: bad requests 400, bad file
// content 422, anything else 500.
func statusFor(err error) int {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) && appErr.Cause == nil && appErr.Code == errors.CodeInvalidInput {
		return http.StatusBadRequest
	}
	if errors.IsDataError(err) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
