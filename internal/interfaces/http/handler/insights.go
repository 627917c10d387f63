package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shoplytics/backend/internal/application/insights"
)

// InsightsHandler serves the cached dashboard read APIs
type InsightsHandler struct {
	BaseHandler
	insightsService *insights.Service
}

// NewInsightsHandler creates a new insights handler
func NewInsightsHandler(insightsService *insights.Service) *InsightsHandler {
	return &InsightsHandler{
		insightsService: insightsService,
	}
}

// ListCustomers godoc
// @Summary      List customers
// @Description  Returns the tenant's customers, newest first
// @Tags         insights
// @Produce      json
// @Success      200 {object} dto.Response{data=[]insights.CustomerSummary}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /customers [get]
func (h *InsightsHandler) ListCustomers(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	result, err := h.insightsService.ListCustomers(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ListProducts godoc
// @Summary      List products
// @Tags         insights
// @Produce      json
// @Success      200 {object} dto.Response{data=[]insights.ProductSummary}
// @Router       /products [get]
func (h *InsightsHandler) ListProducts(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	result, err := h.insightsService.ListProducts(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ListOrders godoc
// @Summary      List orders
// @Description  Returns the tenant's orders, optionally windowed by from/to
// @Tags         insights
// @Produce      json
// @Param        from query string false "Window start (RFC3339 or YYYY-MM-DD)"
// @Param        to   query string false "Window end (RFC3339 or YYYY-MM-DD)"
// @Success      200 {object} dto.Response{data=[]insights.OrderSummary}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders [get]
func (h *InsightsHandler) ListOrders(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	from, ok := parseTimeParam(c.Query("from"))
	if !ok {
		h.BadRequest(c, "Invalid 'from' timestamp")
		return
	}
	to, ok := parseTimeParam(c.Query("to"))
	if !ok {
		h.BadRequest(c, "Invalid 'to' timestamp")
		return
	}

	result, err := h.insightsService.ListOrders(c.Request.Context(), tenantID, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Insights godoc
// @Summary      Dashboard insights
// @Description  Aggregated metrics: totals, revenue, top customers, funnel counts
// @Tags         insights
// @Produce      json
// @Success      200 {object} dto.Response{data=insights.InsightsResponse}
// @Router       /insights [get]
func (h *InsightsHandler) Insights(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	result, err := h.insightsService.Insights(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// parseTimeParam parses an optional RFC3339 or date-only query value
func parseTimeParam(value string) (*time.Time, bool) {
	if value == "" {
		return nil, true
	}
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return &ts, true
	}
	if ts, err := time.Parse("2006-01-02", value); err == nil {
		return &ts, true
	}
	return nil, false
}
