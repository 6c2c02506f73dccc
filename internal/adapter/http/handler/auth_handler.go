package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	. "authapi/internal/adapter/http/helper"
	"authapi/internal/adapter/http/middleware"
	. "authapi/internal/adapter/http/validation"
	"authapi/internal/core/domain"
	"authapi/internal/core/model/request"
	"authapi/internal/core/model/response"
	"authapi/internal/core/port"
	"authapi/internal/core/telemetry"
	"authapi/pkg/config"
)

type AuthHandler struct {
	svc     port.AuthService
	logger  *config.LokiLogger
	metrics *telemetry.AppMetrics

	// concealAccounts renders an unknown email exactly like a wrong password.
	concealAccounts bool
}

type AuthHandlerOption func(*AuthHandler)

func WithMetrics(metrics *telemetry.AppMetrics) AuthHandlerOption {
	return func(a *AuthHandler) {
		a.metrics = metrics
	}
}

func WithConcealedAccounts(conceal bool) AuthHandlerOption {
	return func(a *AuthHandler) {
		a.concealAccounts = conceal
	}
}

func NewAuthHandler(svc port.AuthService, logger *config.LokiLogger, opts ...AuthHandlerOption) *AuthHandler {
	if logger == nil {
		logger = config.NewNopLogger()
	}

	handler := &AuthHandler{
		svc:    svc,
		logger: logger,
	}

	for _, opt := range opts {
		opt(handler)
	}

	return handler
}

func (a *AuthHandler) RegisterByEmailAndPassword(c *gin.Context) {
	ctx := c.Request.Context()

	params, err := BindJSON[request.SignUpRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	user, err := a.svc.Registration(ctx, &params)

	a.record(c, "signup", err)

	if err != nil {
		if !errors.Is(err, domain.ErrConflict) {
			a.logger.ErrorWithTrace(ctx, "AuthHandler#Register", zap.Error(err))
		}

		SendDomainError(c, err)
		return
	}

	SendSuccess(c, http.StatusCreated, toUserResponse(*user))
}

func (a *AuthHandler) AuthByEmailAndPassword(c *gin.Context) {
	ctx := c.Request.Context()

	params, err := BindJSON[request.LoginRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	token, err := a.svc.Login(ctx, &params)

	a.record(c, "login", err)

	if err != nil {
		a.sendLoginError(c, params.Email, err)
		return
	}

	c.JSON(http.StatusOK, response.AuthResponse{
		AccessToken: token.AccessToken,
	})
}

// sendLoginError is the only place the login email reaches a message; the
// core errors never carry it so logs and spans stay credential free.
func (a *AuthHandler) sendLoginError(c *gin.Context, email string, err error) {
	credentialFailure := errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidCredentials)

	if !credentialFailure {
		a.logger.ErrorWithTrace(c.Request.Context(), "AuthHandler#Login", zap.Error(err))
	}

	if a.concealAccounts && credentialFailure {
		SendUnauthorizedError(c, "Invalid email or password")
		return
	}

	if errors.Is(err, domain.ErrNotFound) {
		SendNotFoundError(c, "No user found for email: "+email)
		return
	}

	SendDomainError(c, err)
}

// Me echoes the claims of the presented access token.
func (a *AuthHandler) Me(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)

	if !ok {
		SendUnauthorizedError(c, "Unauthorized request")
		return
	}

	SendSuccess(c, http.StatusOK, response.ClaimsResponse{
		UserID:    claims.UserID,
		Subject:   claims.Subject,
		IssuedAt:  claims.IssuedAt,
		ExpiresAt: claims.ExpiresAt,
	})
}

func (a *AuthHandler) record(c *gin.Context, operation string, err error) {
	if a.metrics != nil {
		a.metrics.RecordAuthOperation(c.Request.Context(), operation, outcome(err))
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	default:
		return "error"
	}
}

func toUserResponse(user domain.User) response.UserResponse {
	return response.UserResponse{
		ID:        user.ID,
		UUID:      user.UUID.String(),
		Name:      user.Name,
		Email:     user.Email,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
