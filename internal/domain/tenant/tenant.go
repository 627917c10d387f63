package tenant

import (
	"regexp"
	"strings"

	"github.com/shoplytics/backend/internal/domain/shared"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Tenant represents a registered Shopify store.
// It is the aggregate root for the identity context: webhook verification,
// dashboard authentication and all data scoping hang off this record.
type Tenant struct {
	shared.BaseEntity
	Name          string `gorm:"type:varchar(200);not null"`
	Email         string `gorm:"type:varchar(200);not null;uniqueIndex"`
	PasswordHash  string `gorm:"type:varchar(200);not null"`
	StoreDomain   string `gorm:"type:varchar(200);not null;uniqueIndex"` // e.g. demo.myshopify.com
	WebhookSecret string `gorm:"type:varchar(128);not null"`
	APIKey        string `gorm:"type:varchar(128);not null"`
}

// TableName returns the table name for GORM
func (Tenant) TableName() string {
	return "tenants"
}

// NewTenant creates a new tenant with required fields
func NewTenant(name, email, passwordHash, storeDomain, webhookSecret, apiKey string) (*Tenant, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	storeDomain = strings.ToLower(strings.TrimSpace(storeDomain))

	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Tenant name is required")
	}
	if !emailPattern.MatchString(email) {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	if storeDomain == "" {
		return nil, shared.NewDomainError("INVALID_STORE_DOMAIN", "Store domain is required")
	}
	if passwordHash == "" {
		return nil, shared.NewDomainError("INVALID_PASSWORD", "Password hash is required")
	}
	if webhookSecret == "" || apiKey == "" {
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Webhook secret and API key are required")
	}

	return &Tenant{
		BaseEntity:    shared.NewBaseEntity(),
		Name:          name,
		Email:         email,
		PasswordHash:  passwordHash,
		StoreDomain:   storeDomain,
		WebhookSecret: webhookSecret,
		APIKey:        apiKey,
	}, nil
}

// RotateWebhookSecret replaces the webhook secret
func (t *Tenant) RotateWebhookSecret(secret string) error {
	if secret == "" {
		return shared.NewDomainError("INVALID_CREDENTIALS", "Webhook secret cannot be empty")
	}
	t.WebhookSecret = secret
	return nil
}
