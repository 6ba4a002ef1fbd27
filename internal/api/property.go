package api

import (
	"github.com/gin-gonic/gin"
	"github.com/lalith-99/propman/internal/middleware"
	"github.com/lalith-99/propman/internal/service"
	"go.uber.org/zap"
)

type PropertyHandler struct {
	properties *service.Property
	logger     *zap.Logger
}

func NewPropertyHandler(properties *service.Property, logger *zap.Logger) *PropertyHandler {
	return &PropertyHandler{properties: properties, logger: logger}
}

// List handles GET /api/property/getpropertydetails
func (h *PropertyHandler) List(c *gin.Context) {
	properties, err := h.properties.List(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, "Properties retrieved", properties)
}
