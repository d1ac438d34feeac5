package handler

import (
	"encoding/json"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	importapp "github.com/storefront/backend/internal/application/importing"
	"github.com/storefront/backend/internal/domain/importing"
	"github.com/storefront/backend/internal/infrastructure/importfile"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// ImportHandler handles the catalog import pipeline endpoints
type ImportHandler struct {
	BaseHandler
	parse  *importapp.ParseService
	commit *importapp.CommitService
	undo   *importapp.UndoService
	jobs   *importapp.JobService
}

// NewImportHandler creates a new ImportHandler
func NewImportHandler(
	parse *importapp.ParseService,
	commit *importapp.CommitService,
	undo *importapp.UndoService,
	jobs *importapp.JobService,
) *ImportHandler {
	return &ImportHandler{
		parse:  parse,
		commit: commit,
		undo:   undo,
		jobs:   jobs,
	}
}

// RegisterRoutes registers the import routes on an admin-scoped group
func (h *ImportHandler) RegisterRoutes(r *gin.RouterGroup) {
	imports := r.Group("/import")
	{
		imports.POST("/parse", h.Parse)
		imports.GET("/jobs", h.ListJobs)
		imports.GET("/jobs/:id", h.GetJob)
		imports.POST("/jobs/:id/commit", h.Commit)
		imports.POST("/undo", h.Undo)
	}
}

// Parse stages an uploaded file as an import job. The file arrives as
// multipart form data alongside its declared format.
func (h *ImportHandler) Parse(c *gin.Context) {
	var req ParseRequest
	if err := c.ShouldBind(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	opts := importfile.ParseOptions{
		PriceStrategy:     importing.PriceStrategy(req.PriceStrategy),
		WholesaleLocation: req.WholesaleLocation,
	}
	if raw := c.PostForm("column_mapping"); raw != "" {
		mapping := map[string]string{}
		if err := json.Unmarshal([]byte(raw), &mapping); err != nil {
			h.BadRequest(c, "column_mapping must be a JSON object of column names")
			return
		}
		opts.ColumnMapping = mapping
	}

	file, _, err := c.Request.FormFile("file")
	if err != nil {
		h.BadRequest(c, "file is required")
		return
	}
	defer file.Close()

	payload, err := io.ReadAll(file)
	if err != nil {
		h.BadRequest(c, "failed to read uploaded file")
		return
	}

	result, err := h.parse.Parse(c.Request.Context(), importing.SourceType(req.Format), payload, opts)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Commit applies a staged job's rows to the catalog
func (h *ImportHandler) Commit(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid job ID")
		return
	}

	var req CommitJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	report, err := h.commit.Commit(c.Request.Context(), jobID, importapp.CommitRequest{
		Checksum:         req.Checksum,
		AllowNeedsReview: req.AllowNeedsReview,
		Overrides:        req.toOverrides(),
		Options:          req.toOptions(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

// Undo reverts the creations of a committed job. Without a job ID the
// most recently committed job is reverted.
func (h *ImportHandler) Undo(c *gin.Context) {
	var req UndoRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			middleware.HandleValidationError(c, err)
			return
		}
	}

	result, err := h.undo.Undo(c.Request.Context(), req.JobID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetJob returns a job with full row detail
func (h *ImportHandler) GetJob(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid job ID")
		return
	}

	job, err := h.jobs.GetJob(c.Request.Context(), jobID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toJobDetail(job))
}

// ListJobs lists recent jobs without row detail
func (h *ImportHandler) ListJobs(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			h.BadRequest(c, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	jobs, err := h.jobs.ListJobs(c.Request.Context(), limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	summaries := make([]JobSummaryResponse, 0, len(jobs))
	for i := range jobs {
		summaries = append(summaries, toJobSummary(&jobs[i]))
	}

	h.Success(c, summaries)
}
