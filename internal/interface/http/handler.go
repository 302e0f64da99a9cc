package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/ppgi-advisor/internal/domain/food"
	"github.com/yanqian/ppgi-advisor/internal/domain/prediction"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	predictionSvc prediction.Service
	catalog       *food.Catalog
	logger        *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(predictionSvc prediction.Service, catalog *food.Catalog, logger *slog.Logger) *Handler {
	return &Handler{
		predictionSvc: predictionSvc,
		catalog:       catalog,
		logger:        logger.With("component", "http.handler"),
	}
}

// Predict submits the form to the prediction service and returns the interpretation.
func (h *Handler) Predict(c *gin.Context) {
	var req prediction.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp, err := h.predictionSvc.Predict(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, domainError(err, http.StatusBadGateway))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Interpret interprets a prediction payload the caller already holds.
func (h *Handler) Interpret(c *gin.Context) {
	var req prediction.InterpretRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp, err := h.predictionSvc.Interpret(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, domainError(err, http.StatusUnprocessableEntity))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// RecentPredictions lists the latest interpreted predictions.
func (h *Handler) RecentPredictions(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "limit must be a non-negative integer", err))
			return
		}
		limit = parsed
	}

	records, err := h.predictionSvc.Recent(c.Request.Context(), limit)
	if err != nil {
		abortWithError(c, domainError(err, http.StatusBadGateway))
		return
	}
	if records == nil {
		records = []prediction.Record{}
	}
	c.JSON(http.StatusOK, gin.H{"predictions": records})
}

// GetPrediction returns one history record.
func (h *Handler) GetPrediction(c *gin.Context) {
	record, err := h.predictionSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, domainError(err, http.StatusBadGateway))
		return
	}
	c.JSON(http.StatusOK, record)
}

// ListFoods returns the food table used for autofill.
func (h *Handler) ListFoods(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"foods": h.catalog.Items()})
}

// GetFood returns a single food entry.
func (h *Handler) GetFood(c *gin.Context) {
	item, ok := h.catalog.Lookup(c.Param("key"))
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusNotFound, "not_found", "food not found", nil))
		return
	}
	c.JSON(http.StatusOK, item)
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
