package http

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/orderledger/backend/internal/domain"
	"github.com/orderledger/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	reconciler *usecase.ReconciliationService
	exporter   *usecase.ExportBuilder
	classifier *usecase.StatusClassifier
	dates      *usecase.DateNormalizer
}

// NewHandler creates a new HTTP handler. A nil reconciler or exporter makes
// the matching endpoints answer 503.
func NewHandler(
	reconciler *usecase.ReconciliationService,
	exporter *usecase.ExportBuilder,
	classifier *usecase.StatusClassifier,
	dates *usecase.DateNormalizer,
) *Handler {
	if dates == nil {
		dates = usecase.NewDateNormalizer(nil)
	}
	if classifier == nil {
		classifier = usecase.NewStatusClassifier(dates)
	}
	return &Handler{
		reconciler: reconciler,
		exporter:   exporter,
		classifier: classifier,
		dates:      dates,
	}
}

// ReconcileRequest is the body of POST /api/v1/orders/reconcile
type ReconcileRequest struct {
	Orders []domain.OrderInput `json:"orders" binding:"required,min=1"`
}

// ExportRequest is the body of POST /api/v1/orders/export
type ExportRequest struct {
	Orders []domain.Order `json:"orders" binding:"required,min=1"`
}

// ExportResponse carries the bookkeeping rows of all exported orders
type ExportResponse struct {
	Rows []domain.ExportRow `json:"rows"`
}

// ClassifyRequest is the body of POST /api/v1/status/classify
type ClassifyRequest struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
}

// NormalizeDateRequest is the body of POST /api/v1/dates/normalize
type NormalizeDateRequest struct {
	Date string `json:"date"`
}

// NormalizeDateResponse reports the normalized date. Missing is true when the
// input was blank and the date is the today placeholder.
type NormalizeDateResponse struct {
	Date    string `json:"date"`
	Missing bool   `json:"missing"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "orderledger-backend",
		"version": "1.0.0",
	})
}

// ReconcileOrders prices the line items of a batch of orders
func (h *Handler) ReconcileOrders(c *gin.Context) {
	if h.reconciler == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Reconciliation service not configured",
		})
		return
	}

	var req ReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	log.Printf("[RECONCILE] Batch request with %d orders", len(req.Orders))
	result := h.reconciler.ReconcileBatch(c.Request.Context(), req.Orders)

	c.JSON(http.StatusOK, result)
}

// ExportOrders turns already reconciled orders into bookkeeping rows
func (h *Handler) ExportOrders(c *gin.Context) {
	if h.exporter == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Export not configured",
		})
		return
	}

	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	resp := ExportResponse{Rows: []domain.ExportRow{}}
	for _, order := range req.Orders {
		resp.Rows = append(resp.Rows, h.exporter.BuildRows(order)...)
	}

	c.JSON(http.StatusOK, resp)
}

// ClassifyStatus maps a pair of delivery status strings to a category
func (h *Handler) ClassifyStatus(c *gin.Context) {
	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	c.JSON(http.StatusOK, h.classifier.Classify(req.Primary, req.Secondary))
}

// NormalizeDate converts a locale date string to YYYY-MM-DD
func (h *Handler) NormalizeDate(c *gin.Context) {
	var req NormalizeDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	c.JSON(http.StatusOK, NormalizeDateResponse{
		Date:    h.dates.Normalize(req.Date),
		Missing: strings.TrimSpace(req.Date) == "",
	})
}

// badRequest answers 400 for malformed bodies
func (h *Handler) badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request body",
		"details": err.Error(),
	})
}
