package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "myworld/backend/internal/errors"
)

func writeError(c *gin.Context, apiErr *apperrors.APIError) {
	if apiErr == nil {
		apiErr = apperrors.Internal("internal server error")
	}

	errorBody := gin.H{
		"code":    apiErr.Code,
		"message": apiErr.Message,
	}
	if apiErr.Details != nil {
		errorBody["details"] = apiErr.Details
	}

	c.JSON(apiErr.Status, gin.H{
		"error": errorBody,
	})
}

// bindJSON decodes an application/json request body into dst. Other content
// types get 415, undecodable bodies 400.
func bindJSON(c *gin.Context, dst any) bool {
	if c.ContentType() != gin.MIMEJSON {
		writeError(c, apperrors.New(http.StatusUnsupportedMediaType, apperrors.CodeUnsupportedMedia, "request body must be application/json"))
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		writeError(c, apperrors.BadRequest(apperrors.CodeInvalidJSON, "invalid request body"))
		return false
	}
	return true
}

func writeOK(c *gin.Context, body gin.H) {
	c.JSON(http.StatusOK, body)
}
