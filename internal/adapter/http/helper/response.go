package helper

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"authapi/internal/adapter/http/validation"
	"authapi/internal/core/domain"
	"authapi/internal/core/model/response"
)

func SendSuccess(c *gin.Context, statusCode int, data any, message ...string) {
	response := response.SuccessResponse{
		Data: data,
	}

	if len(message) > 0 && message[0] != "" {
		response.Message = message[0]
	}

	c.JSON(statusCode, response)
}

func SendError(c *gin.Context, statusCode int, code string, errors []response.ValidationError, details ...any) {
	errorResponse := response.ErrorResponse{
		Error: response.ResponseError{
			Code:   code,
			Errors: errors,
		},
	}

	if len(details) > 0 {
		errorResponse.Error.Details = details[0]
	}

	c.JSON(statusCode, errorResponse)
}

func SendValidationError(c *gin.Context, err error) {
	validationErrors := validation.FormatValidationErrors(err)
	SendError(c, http.StatusBadRequest, "VALIDATION_ERROR", validationErrors)
}

func SendInternalError(c *gin.Context, message string, details ...any) {
	errors := []response.ValidationError{
		{
			Field:   "server",
			Message: message,
		},
	}

	SendError(c, http.StatusInternalServerError, "INTERNAL_ERROR", errors, details...)
}

func SendUnauthorizedError(c *gin.Context, message string) {
	errors := []response.ValidationError{
		{
			Field:   "auth",
			Message: message,
		},
	}

	SendError(c, http.StatusUnauthorized, "UNAUTHORIZED", errors)
}

func SendBadRequestError(c *gin.Context, field string, message string) {
	errors := []response.ValidationError{
		{
			Field:   field,
			Message: message,
		},
	}

	SendError(c, http.StatusBadRequest, "BAD_REQUEST", errors)
}

func SendNotFoundError(c *gin.Context, message string) {
	errors := []response.ValidationError{
		{
			Field:   "resource",
			Message: message,
		},
	}

	SendError(c, http.StatusNotFound, "NOT_FOUND", errors)
}

func SendConflictError(c *gin.Context, field string, message string) {
	errors := []response.ValidationError{
		{
			Field:   field,
			Message: message,
		},
	}

	SendError(c, http.StatusConflict, "CONFLICT", errors)
}

// SendDomainError renders an error kind with its status code. Unknown
// errors become a generic 500 so internal detail never reaches the client.
func SendDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		SendNotFoundError(c, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		SendUnauthorizedError(c, "Invalid password")
	case errors.Is(err, domain.ErrUnauthenticated):
		SendUnauthorizedError(c, "Unauthorized request")
	case errors.Is(err, domain.ErrConflict):
		SendConflictError(c, "email", "User already exists")
	default:
		SendInternalError(c, "Internal server error")
	}
}

// BindJSON decodes the request body into T.
func BindJSON[T any](c *gin.Context) (T, error) {
	var params T

	if err := c.ShouldBindJSON(&params); err != nil {
		return params, err
	}

	return params, nil
}
