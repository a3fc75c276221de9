package handler

import (
	"errors"
	"net/http"

	"citizenvoice/backend/internal/apperr"

	"github.com/gin-gonic/gin"
)

// Response is the envelope of every API response.
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

// ErrorBody describes a failed request.
type ErrorBody struct {
	Code    apperr.Code `json:"code"`
	Message string      `json:"message"`
}

func respondSuccess(c *gin.Context, status int, data any) {
	c.JSON(status, Response{Success: true, Data: data})
}

func respondAPIError(c *gin.Context, status int, code apperr.Code, message string) {
	c.AbortWithStatusJSON(status, Response{Error: &ErrorBody{Code: code, Message: message}})
}

func respondValidationError(c *gin.Context, err error) {
	respondAPIError(c, http.StatusBadRequest, apperr.CodeValidation, err.Error())
}

// respondError maps err to a status code by its apperr code. Uncoded errors
// are internal.
func respondError(c *gin.Context, err error) {
	var e *apperr.Error
	if !errors.As(err, &e) {
		c.Error(err)
		respondAPIError(c, http.StatusInternalServerError, "INTERNAL", "internal server error")
		return
	}
	respondAPIError(c, statusOf(e.Code), e.Code, e.Message)
}

func statusOf(code apperr.Code) int {
	switch code {
	case apperr.CodeNotFound:
		return http.StatusNotFound
	case apperr.CodePermissionDenied:
		return http.StatusForbidden
	case apperr.CodeUnauthorized:
		return http.StatusUnauthorized
	case apperr.CodeValidation:
		return http.StatusBadRequest
	case apperr.CodeCreationError:
		return http.StatusUnprocessableEntity
	case apperr.CodeNetworkFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
