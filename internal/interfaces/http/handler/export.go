package handler

import (
	"net/http"
	"net/url"

	"github.com/auctionhouse/backend/internal/application/export"
	"github.com/auctionhouse/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ExportHandler handles batch list download endpoints
type ExportHandler struct {
	BaseHandler
	service *export.Service
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(service *export.Service) *ExportHandler {
	return &ExportHandler{service: service}
}

// RegisterRoutes registers export routes on the API group
func (h *ExportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	exports := rg.Group("/batches/:date/:consignor/export")
	{
		exports.GET("/precheck", h.Precheck)
		exports.GET("/xlsx", h.DownloadWorkbook)
		exports.GET("/pdf", h.DownloadPDF)
	}
}

// Precheck handles GET /api/v1/batches/:date/:consignor/export/precheck
// Reports which items in the batch still have no readable photo so the
// front office can fix them before downloading.
func (h *ExportHandler) Precheck(c *gin.Context) {
	result, err := h.service.Precheck(c.Request.Context(), c.Param("date"), c.Param("consignor"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// DownloadWorkbook handles GET /api/v1/batches/:date/:consignor/export/xlsx
func (h *ExportHandler) DownloadWorkbook(c *gin.Context) {
	file, err := h.service.ExportWorkbook(c.Request.Context(), c.Param("date"), c.Param("consignor"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.sendFile(c, file)
}

// DownloadPDF handles GET /api/v1/batches/:date/:consignor/export/pdf
func (h *ExportHandler) DownloadPDF(c *gin.Context) {
	file, err := h.service.ExportPDF(c.Request.Context(), c.Param("date"), c.Param("consignor"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.sendFile(c, file)
}

func (h *ExportHandler) sendFile(c *gin.Context, file *export.File) {
	logger.GetGinLogger(c).Info("export downloaded",
		zap.String("file", file.Name),
		zap.Int("bytes", len(file.Data)))

	// RFC 5987 encoding keeps non-ASCII filenames intact
	c.Header("Content-Disposition",
		"attachment; filename*=UTF-8''"+url.PathEscape(file.Name))
	c.Data(http.StatusOK, file.MIME, file.Data)
}
