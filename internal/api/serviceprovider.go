package api

import (
	"github.com/gin-gonic/gin"
	"github.com/lalith-99/propman/internal/service"
	"go.uber.org/zap"
)

type ServiceProviderHandler struct {
	providers *service.ServiceProvider
	logger    *zap.Logger
}

func NewServiceProviderHandler(providers *service.ServiceProvider, logger *zap.Logger) *ServiceProviderHandler {
	return &ServiceProviderHandler{providers: providers, logger: logger}
}

// ListByJobType handles GET /api/serviceprovider/getserviceproviderdetails?jobType=
func (h *ServiceProviderHandler) ListByJobType(c *gin.Context) {
	providers, err := h.providers.ListByJobType(c.Request.Context(), c.Query("jobType"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, "Service providers retrieved", providers)
}
