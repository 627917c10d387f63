package handler

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/shoplytics/backend/internal/application/ingestion"
)

// Default topics used when a backfill request does not name one. They give
// orders PENDING status and carts/checkouts their initial funnel state.
const (
	defaultCustomersTopic = "customers/update"
	defaultProductsTopic  = "products/update"
	defaultOrdersTopic    = "orders/updated"
	defaultCartsTopic     = "carts/update"
	defaultCheckoutsTopic = "checkouts/update"
)

// IngestHandler serves authenticated bulk backfill. It accepts the same
// payload shapes as the webhooks but scopes everything to the JWT tenant.
type IngestHandler struct {
	BaseHandler
	ingestionService *ingestion.Service
}

// NewIngestHandler creates a new ingest handler
func NewIngestHandler(ingestionService *ingestion.Service) *IngestHandler {
	return &IngestHandler{
		ingestionService: ingestionService,
	}
}

// handle runs one backfill request through the given sync function. The
// topic may be overridden with a ?topic= query so order statuses and funnel
// states can be backfilled accurately.
func (h *IngestHandler) handle(c *gin.Context, defaultTopic string, sync syncFunc) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil || len(body) == 0 {
		h.BadRequest(c, "Request body is required")
		return
	}

	topic := c.Query("topic")
	if topic == "" {
		topic = defaultTopic
	}

	result, err := sync(c.Request.Context(), tenantID, topic, body)
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
// @Summary      Backfill customers
// @Description  Bulk ingest customer records for the authenticated tenant
// @Tags         ingest
// @Accept       json
// @Produce      json
// @Success      200 {object} dto.Response{data=SyncResultResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /ingest/customers [post]
func (h *IngestHandler) Customers(c *gin.Context) {
	h.handle(c, defaultCustomersTopic, h.ingestionService.SyncCustomers)
}

// Products godoc
// @Summary      Backfill products
// @Tags         ingest
// @Router       /ingest/products [post]
func (h *IngestHandler) Products(c *gin.Context) {
	h.handle(c, defaultProductsTopic, h.ingestionService.SyncProducts)
}

// Orders godoc
// @Summary      Backfill orders
// @Description  Bulk ingest orders; pass ?topic=orders/paid to backfill completed orders
// @Tags         ingest
// @Router       /ingest/orders [post]
func (h *IngestHandler) Orders(c *gin.Context) {
	h.handle(c, defaultOrdersTopic, h.ingestionService.SyncOrders)
}

// Carts godoc
// @Summary      Backfill carts
// @Tags         ingest
// @Router       /ingest/carts [post]
func (h *IngestHandler) Carts(c *gin.Context) {
	h.handle(c, defaultCartsTopic, h.ingestionService.SyncCarts)
}

// Checkouts godoc
// @Summary      Backfill checkouts
// @Tags         ingest
// @Router       /ingest/checkouts [post]
func (h *IngestHandler) Checkouts(c *gin.Context) {
	h.handle(c, defaultCheckoutsTopic, h.ingestionService.SyncCheckouts)
}
