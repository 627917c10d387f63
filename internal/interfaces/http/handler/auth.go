package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/shoplytics/backend/internal/application/identity"
)

// AuthHandler handles tenant registration and dashboard authentication
type AuthHandler struct {
	BaseHandler
	tenantService *identity.TenantService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(tenantService *identity.TenantService) *AuthHandler {
	return &AuthHandler{
		tenantService: tenantService,
	}
}

// Register godoc
// @Summary      Register a new tenant
// @Description  Register a Shopify store and create dashboard credentials
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identity.RegisterInput true "Tenant registration"
// @Success      201 {object} dto.Response{data=identity.TenantResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var input identity.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.bindError(c, err)
		return
	}

	result, err := h.tenantService.Register(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Login godoc
// @Summary      Dashboard login
// @Description  Authenticate a tenant with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identity.LoginInput true "Login credentials"
// @Success      200 {object} dto.Response{data=identity.LoginResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var input identity.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.bindError(c, err)
		return
	}

	result, err := h.tenantService.Login(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// WebhookInfo godoc
// @Summary      Webhook setup info
// @Description  Returns the webhook endpoints and secret for the authenticated tenant
// @Tags         auth
// @Produce      json
// @Success      200 {object} dto.Response{data=identity.WebhookInfoResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/webhook-info [get]
func (h *AuthHandler) WebhookInfo(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	info, err := h.tenantService.WebhookInfo(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// bindError maps binding failures to validation or bad request responses
func (h *AuthHandler) bindError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		h.ValidationError(c, err)
		return
	}
	h.BadRequest(c, "Invalid request body")
}
