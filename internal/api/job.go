package api

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lalith-99/propman/internal/middleware"
	"github.com/lalith-99/propman/internal/service"
	"go.uber.org/zap"
)

type JobHandler struct {
	jobs   *service.Job
	logger *zap.Logger
}

func NewJobHandler(jobs *service.Job, logger *zap.Logger) *JobHandler {
	return &JobHandler{jobs: jobs, logger: logger}
}

// createJobRequest has no binding tags; the service reports every invalid
// field at once.
type createJobRequest struct {
	PropertyID        string `json:"propertyId"`
	Type              string `json:"type"`
	ServiceProviderID string `json:"serviceProviderId"`
	Description       string `json:"description"`
}

// List handles GET /api/job/getalljobs
func (h *JobHandler) List(c *gin.Context) {
	jobs, err := h.jobs.List(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, "Jobs retrieved", jobs)
}

// Details handles GET /api/job/getjobdetails/:id
//
// A job posted by someone else is a 404, not a 403. Answering 403 would
// confirm that the id exists.
func (h *JobHandler) Details(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondValidation(c, map[string]string{"id": "id must be a valid job id"})
		return
	}

	details, err := h.jobs.Details(c.Request.Context(), middleware.GetUserID(c), jobID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, "Job details retrieved", details)
}

// Types handles GET /api/job/getjobtypes
func (h *JobHandler) Types(c *gin.Context) {
	types, err := h.jobs.Types(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, "Job types retrieved", types)
}

// Create handles POST /api/job/createnewjob
func (h *JobHandler) Create(c *gin.Context) {
	var req createJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	posted, err := h.jobs.Create(c.Request.Context(), middleware.GetUserID(c), service.CreateJobInput{
		PropertyID:        req.PropertyID,
		TypeID:            req.Type,
		ServiceProviderID: req.ServiceProviderID,
		Description:       req.Description,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, "Job posted successfully", posted)
}
