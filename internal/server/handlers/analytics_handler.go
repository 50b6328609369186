package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/inventory-pulse/internal/domain/models"
	"github.com/mamadbah2/inventory-pulse/internal/service/analytics"
)

const dateLayout = "2006-01-02"

// AnalyticsService is the query surface the HTTP layer depends on.
type AnalyticsService interface {
	CategoryDistribution(ctx context.Context, filter analytics.Filter) ([]models.CategoryCount, error)
	StockVsMSLTrend(ctx context.Context, filter analytics.Filter) ([]models.StockTrendPoint, error)
	MonthlyConsumption(ctx context.Context, filter analytics.Filter) ([]models.ConsumptionPoint, error)
	TurnoverRatios(ctx context.Context, filter analytics.Filter) ([]models.TurnoverRow, error)
	ListInventory(ctx context.Context, page, limit int) (*models.InventoryPage, error)
}

// AnalyticsHandler adapts the analytics queries onto gin routes.
type AnalyticsHandler struct {
	svc    AnalyticsService
	logger *zap.Logger
}

// NewAnalyticsHandler constructs the HTTP handler adapter.
func NewAnalyticsHandler(svc AnalyticsService, logger *zap.Logger) *AnalyticsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsHandler{svc: svc, logger: logger}
}

// CategoryDistribution serves the per-category distinct item counts.
// Accepts itemName, abcClass, startDate, endDate.
func (h *AnalyticsHandler) CategoryDistribution(c *gin.Context) {
	filter := analytics.Filter{
		ItemName: c.Query("itemName"),
		ABCClass: c.Query("abcClass"),
	}
	filter.StartDate = h.parseDate(c, "startDate")
	filter.EndDate = h.parseDate(c, "endDate")

	result, err := h.svc.CategoryDistribution(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, "category distribution query failed", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// StockVsMSLTrend serves the labeled closing-stock time series.
// Accepts itemId, startDate, endDate.
func (h *AnalyticsHandler) StockVsMSLTrend(c *gin.Context) {
	filter := analytics.Filter{
		ItemID: c.Query("itemId"),
	}
	filter.StartDate = h.parseDate(c, "startDate")
	filter.EndDate = h.parseDate(c, "endDate")

	result, err := h.svc.StockVsMSLTrend(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, "stock vs msl query failed", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// MonthlyConsumption serves the per-month consumption totals.
// Accepts category, abcClass, itemId, startDate, endDate.
func (h *AnalyticsHandler) MonthlyConsumption(c *gin.Context) {
	filter := analytics.Filter{
		Category: c.Query("category"),
		ABCClass: c.Query("abcClass"),
		ItemID:   c.Query("itemId"),
	}
	filter.StartDate = h.parseDate(c, "startDate")
	filter.EndDate = h.parseDate(c, "endDate")

	result, err := h.svc.MonthlyConsumption(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, "monthly consumption query failed", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// TurnoverRatios serves the per-item inventory turnover ranking.
// Accepts category, abcClass, itemId, startDate, endDate.
func (h *AnalyticsHandler) TurnoverRatios(c *gin.Context) {
	filter := analytics.Filter{
		Category: c.Query("category"),
		ABCClass: c.Query("abcClass"),
		ItemID:   c.Query("itemId"),
	}
	filter.StartDate = h.parseDate(c, "startDate")
	filter.EndDate = h.parseDate(c, "endDate")

	result, err := h.svc.TurnoverRatios(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, "turnover ratio query failed", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListInventory serves the paginated raw listing. Non-numeric or
// non-positive page/limit values fall back to the service defaults.
func (h *AnalyticsHandler) ListInventory(c *gin.Context) {
	page := h.parseInt(c, "page")
	limit := h.parseInt(c, "limit")

	result, err := h.svc.ListInventory(c.Request.Context(), page, limit)
	if err != nil {
		h.fail(c, "inventory listing failed", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// parseDate reads an ISO day from the query string. A malformed value is
// treated the same as an absent one so a bad bound widens the query rather
// than failing it.
func (h *AnalyticsHandler) parseDate(c *gin.Context, key string) *time.Time {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}

	parsed, err := time.Parse(dateLayout, raw)
	if err != nil {
		h.logger.Debug("ignoring unparseable date filter",
			zap.String("param", key),
			zap.String("value", raw))
		return nil
	}
	return &parsed
}

func (h *AnalyticsHandler) parseInt(c *gin.Context, key string) int {
	raw := c.Query(key)
	if raw == "" {
		return 0
	}

	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return parsed
}

func (h *AnalyticsHandler) fail(c *gin.Context, msg string, err error) {
	h.logger.Error(msg, zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}
