package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/shoplytics/backend/internal/infrastructure/auth"
)

// RegisterInput contains the input for tenant registration
type RegisterInput struct {
	Name        string `json:"name" binding:"required,min=1,max=200"`
	Email       string `json:"email" binding:"required,email,max=200"`
	Password    string `json:"password" binding:"required,min=8,max=128"`
	StoreDomain string `json:"store_domain" binding:"required,min=4,max=200"`
}

// LoginInput contains the input for tenant login
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TenantResponse represents a tenant in API responses. The password hash
// and webhook secret are never included here.
type TenantResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	StoreDomain string    `json:"store_domain"`
	APIKey      string    `json:"api_key"`
	CreatedAt   time.Time `json:"created_at"`
}

// LoginResult contains the issued token and the tenant profile
type LoginResult struct {
	Token  *auth.Token     `json:"token"`
	Tenant *TenantResponse `json:"tenant"`
}

// WebhookInfoResponse carries everything a tenant needs to point its
// Shopify webhook subscriptions at this service
type WebhookInfoResponse struct {
	StoreDomain   string   `json:"store_domain"`
	WebhookSecret string   `json:"webhook_secret"`
	APIKey        string   `json:"api_key"`
	Endpoints     []string `json:"endpoints"`
}
