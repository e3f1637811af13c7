// Package handler implements the HTTP API endpoints.
package handler

import (
	"errors"
	"net/http"

	"github.com/auctionhouse/backend/internal/application/export"
	"github.com/auctionhouse/backend/internal/domain/shared"
	"github.com/auctionhouse/backend/internal/infrastructure/pdfconvert"
	"github.com/auctionhouse/backend/internal/infrastructure/sheet"
	"github.com/auctionhouse/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// BaseHandler provides common functionality for all handlers
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	return c.GetHeader("X-Request-ID")
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// HandleError maps application and infrastructure errors to HTTP responses
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	requestID := getRequestID(c)

	var missingErr *export.MissingImagesError
	if errors.As(err, &missingErr) {
		c.JSON(dto.GetHTTPStatus(dto.ErrCodeMissingImages),
			dto.NewMissingImagesResponse(missingErr.Error(), requestID, missingErr.Codes))
		return
	}

	var buildErr *sheet.BuildError
	if errors.As(err, &buildErr) {
		code := dto.ErrCodeExportFailed
		if buildErr.Code == sheet.ErrCodeDependencyMissing {
			code = dto.ErrCodeExportUnavailable
		}
		h.Error(c, dto.GetHTTPStatus(code), code, buildErr.Message)
		return
	}

	var convertErr *pdfconvert.ConvertError
	if errors.As(err, &convertErr) {
		code := dto.ErrCodeConvertFailed
		switch convertErr.Code {
		case pdfconvert.ErrCodeBinaryNotFound, pdfconvert.ErrCodeUnavailable:
			code = dto.ErrCodeExportUnavailable
		}
		h.Error(c, dto.GetHTTPStatus(code), code, convertErr.Message)
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		h.Error(c, dto.GetHTTPStatus(code), code, domainErr.Message)
		return
	}

	h.InternalError(c, "An unexpected error occurred")
}
