// internal/utils/response.go
package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/aryanmiramini/shopyar-backend/internal/apperrors"
	"github.com/aryanmiramini/shopyar-backend/internal/i18n"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

// APIError always carries the stable machine code plus both human messages.
type APIError struct {
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	MessageFa string      `json:"message_fa"`
	Details   interface{} `json:"details,omitempty"`
}

func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
	})
}

func SuccessResponseWithMeta(c *gin.Context, data interface{}, meta interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

func CreatedResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{
		Success: true,
		Data:    data,
	})
}

func ErrorResponse(c *gin.Context, statusCode int, code string, details interface{}, args ...interface{}) {
	en, fa := i18n.Pair(code, args...)
	c.JSON(statusCode, APIResponse{
		Success: false,
		Error: &APIError{
			Code:      code,
			Message:   en,
			MessageFa: fa,
			Details:   details,
		},
	})
}

func BadRequestResponse(c *gin.Context, details interface{}) {
	ErrorResponse(c, http.StatusBadRequest, i18n.CodeBadRequest, details)
}

func UnauthorizedResponse(c *gin.Context, code string) {
	if code == "" {
		code = i18n.CodeUnauthorized
	}
	ErrorResponse(c, http.StatusUnauthorized, code, nil)
}

func ForbiddenResponse(c *gin.Context) {
	ErrorResponse(c, http.StatusForbidden, i18n.CodeForbidden, nil)
}

func NotFoundResponse(c *gin.Context, code string) {
	if code == "" {
		code = i18n.CodeNotFound
	}
	ErrorResponse(c, http.StatusNotFound, code, nil)
}

func ValidationErrorResponse(c *gin.Context, errs []ValidationError) {
	ErrorResponse(c, http.StatusBadRequest, i18n.CodeValidationError, errs)
}

// ServiceErrorResponse normalizes any error coming out of the service layer.
// Unexpected errors are logged and collapse to INTERNAL_ERROR.
func ServiceErrorResponse(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		ErrorResponse(c, appErr.Status, appErr.Code, appErr.Details, appErr.Args...)
		return
	}

	logrus.WithError(err).WithFields(logrus.Fields{
		"method": c.Request.Method,
		"path":   c.Request.URL.Path,
	}).Error("unhandled service error")
	ErrorResponse(c, http.StatusInternalServerError, i18n.CodeInternalError, nil)
}

func PaginatedResponse(c *gin.Context, result PaginationResult) {
	SetPaginationHeaders(c, result)
	SuccessResponseWithMeta(c, result.Data, gin.H{
		"pagination": gin.H{
			"page":        result.Page,
			"limit":       result.Limit,
			"total":       result.Total,
			"total_pages": result.TotalPages,
		},
	})
}

func GetLangFromContext(c *gin.Context) string {
	if lang, exists := c.Get("lang"); exists {
		if langStr, ok := lang.(string); ok {
			return langStr
		}
	}
	return i18n.LangFA
}

func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if userID, exists := c.Get("user_id"); exists {
		if userIDStr, ok := userID.(string); ok {
			return userIDStr, true
		}
	}
	return "", false
}

func GetUserRoleFromContext(c *gin.Context) (string, bool) {
	if role, exists := c.Get("user_role"); exists {
		if roleStr, ok := role.(string); ok {
			return roleStr, true
		}
	}
	return "", false
}
