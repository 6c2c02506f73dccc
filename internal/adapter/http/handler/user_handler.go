package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	. "authapi/internal/adapter/http/helper"
	"authapi/internal/adapter/http/middleware"
	"authapi/internal/core/domain"
	"authapi/internal/core/port"
)

type UserHandler struct {
	svc port.UserService
}

func NewUserHandler(svc port.UserService) *UserHandler {
	return &UserHandler{
		svc: svc,
	}
}

// GetMe loads the account behind the access token. Tokens outlive
// accounts, so a missing row is reported as not found.
func (h *UserHandler) GetMe(c *gin.Context) {
	userID := c.GetInt(middleware.UserIDKey)

	if userID <= 0 {
		SendUnauthorizedError(c, "Unauthorized request")
		return
	}

	user, err := h.svc.GetUserByID(c.Request.Context(), userID)

	if errors.Is(err, domain.ErrNotFound) {
		SendNotFoundError(c, "User not found")
		return
	}

	if err != nil {
		SendDomainError(c, err)
		return
	}

	SendSuccess(c, http.StatusOK, toUserResponse(user))
}
