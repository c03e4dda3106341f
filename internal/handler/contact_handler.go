package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hotel-yunuen/service-reservation/internal/application"
	"github.com/hotel-yunuen/service-reservation/internal/platform/response"
)

// ContactHandler accepts contact-form submissions.
type ContactHandler struct {
	service ContactService
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(service ContactService) *ContactHandler {
	return &ContactHandler{service: service}
}

// RegisterRoutes registers POST /contact.
func (h *ContactHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/contact", h.Send)
}

// Send handles POST /api/v1/contact
func (h *ContactHandler) Send(c *gin.Context) {
	var req application.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.service.Send(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusAccepted, response.Envelope{Success: true, Data: gin.H{"message": "message sent"}})
}
