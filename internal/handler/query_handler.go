package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mobilitylab/taxi-insights/internal/service"
	"github.com/mobilitylab/taxi-insights/pkg/response"
)

// QueryHandler handles ad-hoc SQL requests. Read-only use is a policy, not
// a sandbox: the statement is passed to the store verbatim and any failure
// comes back with the store's own message.
type QueryHandler struct {
	service *service.AnalyticsService
}

// NewQueryHandler creates a new query handler.
func NewQueryHandler(service *service.AnalyticsService) *QueryHandler {
	return &QueryHandler{service: service}
}

// QueryRequest is the ad-hoc SQL request body.
type QueryRequest struct {
	SQL string `json:"sql" binding:"required"`
}

// RunQuery handles POST /api/v1/query
func (h *QueryHandler) RunQuery(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.service.RunQuery(req.SQL)
	if err != nil {
		// Reported inline so a bad query doesn't kill the session.
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	response.Success(c, result)
}
