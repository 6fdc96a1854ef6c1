package availability

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/portal-api/internal/handler"
	"github.com/jwalitptl/portal-api/internal/service/availability"
)

type Handler struct {
	service *availability.Service
}

func NewHandler(service *availability.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/services", h.ListServices)
	r.GET("/servicesSpecial", h.ListServiceNames)
}

// ListServices returns every treatment with the slots still open on the
// requested date.
func (h *Handler) ListServices(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("date is required"))
		return
	}

	services, err := h.service.ListAvailability(c.Request.Context(), date)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, services)
}

func (h *Handler) ListServiceNames(c *gin.Context) {
	names, err := h.service.ListServiceNames(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, names)
}
