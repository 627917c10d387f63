package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shoplytics/backend/internal/application/ingestion"
	"github.com/shoplytics/backend/internal/interfaces/http/middleware"
)

// WebhookHandler receives verified Shopify webhooks. The verification
// middleware has already resolved the tenant and checked the HMAC; every
// handler here just routes the raw body into the ingestion service.
type WebhookHandler struct {
	BaseHandler
	ingestionService *ingestion.Service
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(ingestionService *ingestion.Service) *WebhookHandler {
	return &WebhookHandler{
		ingestionService: ingestionService,
	}
}

// SyncResultResponse reports how a webhook batch was processed
type SyncResultResponse struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
}

type syncFunc func(ctx context.Context, tenantID uuid.UUID, topic string, body []byte) (*ingestion.SyncResult, error)

// handle runs one verified webhook through the given sync function
func (h *WebhookHandler) handle(c *gin.Context, sync syncFunc) {
	t := middleware.GetWebhookTenant(c)
	body := middleware.GetWebhookBody(c)
	if t == nil || body == nil {
		h.Unauthorized(c, "Webhook verification required")
		return
	}

	topic := c.GetHeader(middleware.TopicHeader)

	result, err := sync(c.Request.Context(), t.ID, topic, body)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, SyncResultResponse{
		Processed: result.Processed,
		Skipped:   result.Skipped,
	})
}

// Customers godoc
// @Summary      Customer webhook
// @Description  Ingest customers/* webhook events
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Success      200 {object} dto.Response{data=SyncResultResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /webhook/customers [post]
func (h *WebhookHandler) Customers(c *gin.Context) {
	h.handle(c, h.ingestionService.SyncCustomers)
}

// Products godoc
// @Summary      Product webhook
// @Description  Ingest products/* webhook events
// @Tags         webhooks
// @Router       /webhook/products [post]
func (h *WebhookHandler) Products(c *gin.Context) {
	h.handle(c, h.ingestionService.SyncProducts)
}

// Orders godoc
// @Summary      Order webhook
// @Description  Ingest orders/* webhook events; order status derives from the topic
// @Tags         webhooks
// @Router       /webhook/orders [post]
func (h *WebhookHandler) Orders(c *gin.Context) {
	h.handle(c, h.ingestionService.SyncOrders)
}

// Carts godoc
// @Summary      Cart webhook
// @Description  Ingest carts/* webhook events
// @Tags         webhooks
// @Router       /webhook/carts [post]
func (h *WebhookHandler) Carts(c *gin.Context) {
	h.handle(c, h.ingestionService.SyncCarts)
}

// Checkouts godoc
// @Summary      Checkout webhook
// @Description  Ingest checkouts/* webhook events
// @Tags         webhooks
// @Router       /webhook/checkouts [post]
func (h *WebhookHandler) Checkouts(c *gin.Context) {
	h.handle(c, h.ingestionService.SyncCheckouts)
}
