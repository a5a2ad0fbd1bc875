package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"goviz/domain/chart"
	"goviz/domain/core"
	"goviz/domain/dataset"
	"goviz/domain/table"
	"goviz/internal/errors"
	"goviz/internal/report"
	"goviz/internal/summary"
)

const defaultListLimit = 50

func (s *Server) handleUpload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		s.respondError(c, errors.InvalidInput("no file part named \"file\" in the request"))
		return
	}

	file, err := header.Open()
	if err != nil {
		s.respondError(c, errors.InvalidInput(fmt.Sprintf("failed to open upload: %v", err)))
		return
	}
	defer file.Close()

	ds, t, err := s.processor.ProcessUpload(c.Request.Context(), &dataset.DatasetUpload{
		Filename: header.Filename,
		Size:     header.Size,
		Content:  file,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"dataset": ds,
		"summary": summary.Summarize(t),
	})
}

func (s *Server) handleList(c *gin.Context) {
	limit, err := queryInt(c, "limit", defaultListLimit)
	if err != nil {
		s.respondError(c, err)
		return
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		s.respondError(c, err)
		return
	}

	datasets, err := s.processor.List(c.Request.Context(), limit, offset)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if datasets == nil {
		datasets = []*dataset.Dataset{}
	}
	c.JSON(http.StatusOK, gin.H{"datasets": datasets, "limit": limit, "offset": offset})
}

func (s *Server) handleGet(c *gin.Context) {
	id, ok := s.datasetID(c)
	if !ok {
		return
	}
	ds, err := s.processor.Get(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ds)
}

func (s *Server) handleDelete(c *gin.Context) {
	id, ok := s.datasetID(c)
	if !ok {
		return
	}
	if err := s.processor.Delete(c.Request.Context(), id); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleData(c *gin.Context) {
	t, ok := s.table(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"columns": t.ColumnNames(),
		"rows":    t.NumRows(),
		"records": t.Records(),
	})
}

func (s *Server) handleSummary(c *gin.Context) {
	id, ok := s.datasetID(c)
	if !ok {
		return
	}
	ds, err := s.processor.Get(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	t, err := s.processor.Table(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}

	result := summary.Summarize(t)
	switch format := c.DefaultQuery("format", "json"); format {
	case "json":
		c.JSON(http.StatusOK, result)
	case "markdown":
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", report.Markdown(ds.OriginalFilename, result))
	case "html":
		c.Data(http.StatusOK, "text/html; charset=utf-8", report.HTML(ds.OriginalFilename, result))
	default:
		s.respondError(c, errors.InvalidInput(fmt.Sprintf("unknown summary format %q", format)))
	}
}

// handleChart answers with a chart spec even when the request cannot be
// served; failures come back as the error variant.
func (s *Server) handleChart(c *gin.Context) {
	t, ok := s.table(c)
	if !ok {
		return
	}

	var req chart.Request
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusOK, s.builder.ErrorSpec(req, fmt.Errorf("invalid chart request: %w", err)))
		return
	}
	c.JSON(http.StatusOK, s.builder.Build(t, req))
}

func (s *Server) handleCharts(c *gin.Context) {
	t, ok := s.table(c)
	if !ok {
		return
	}

	var reqs []chart.Request
	if err := c.ShouldBindJSON(&reqs); err != nil {
		s.respondError(c, errors.InvalidInput(fmt.Sprintf("expected a JSON array of chart requests: %v", err)))
		return
	}

	specs, err := s.builder.BuildMany(c.Request.Context(), t, reqs)
	if err != nil {
		s.respondError(c, errors.Wrap(err, "building charts"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"charts": specs})
}

func (s *Server) handleDashboard(c *gin.Context) {
	t, ok := s.table(c)
	if !ok {
		return
	}
	dashboard, err := s.builder.Dashboard(t)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

func (s *Server) handleCorrelation(c *gin.Context) {
	t, ok := s.table(c)
	if !ok {
		return
	}
	spec, err := s.builder.CorrelationMatrix(t)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, spec)
}

// datasetID parses the :id path parameter, responding on failure
func (s *Server) datasetID(c *gin.Context) (core.ID, bool) {
	id, err := core.ParseID(c.Param("id"))
	if err != nil {
		s.respondError(c, errors.InvalidInput(err.Error()))
		return "", false
	}
	return id, true
}

// table loads the table of the :id dataset, responding on failure
func (s *Server) table(c *gin.Context) (*table.Table, bool) {
	id, ok := s.datasetID(c)
	if !ok {
		return nil, false
	}
	t, err := s.processor.Table(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return nil, false
	}
	return t, true
}

func queryInt(c *gin.Context, key string, defaultValue int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errors.InvalidInput(fmt.Sprintf("%s must be a non-negative integer", key))
	}
	return n, nil
}
