package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/portal-api/internal/handler"
	"github.com/jwalitptl/portal-api/internal/model"
	"github.com/jwalitptl/portal-api/internal/service/auth"
	"github.com/jwalitptl/portal-api/pkg/errors"
)

type Handler struct {
	service *auth.Service
}

func NewHandler(service *auth.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/jwt", h.IssueToken)
}

// IssueToken signs a token for a registered email. Unknown emails get a 401
// with an empty token rather than an error body.
func (h *Handler) IssueToken(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("email is required"))
		return
	}

	token, err := h.service.IssueCredential(c.Request.Context(), email)
	if err != nil {
		if errors.IsCode(err, errors.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, &model.TokenResponse{AccessToken: ""})
			return
		}
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, token)
}
